// Package control implements the Mumble control channel: the typed message
// set exchanged over TLS and the length-prefixed framing around it.
//
// The schema is defined externally by the Mumble project (Mumble.proto).
// Payloads are protobuf; the codecs here are maintained by hand on top of
// protowire so the repository carries no generation step. Message types this
// client does not interpret still decode (into Raw) and re-encode
// byte-identically.
package control

import "fmt"

// Type tags a control message on the wire (big-endian uint16 frame header).
type Type uint16

const (
	TypeVersion             Type = 0
	TypeUDPTunnel           Type = 1
	TypeAuthenticate        Type = 2
	TypePing                Type = 3
	TypeReject              Type = 4
	TypeServerSync          Type = 5
	TypeChannelRemove       Type = 6
	TypeChannelState        Type = 7
	TypeUserRemove          Type = 8
	TypeUserState           Type = 9
	TypeBanList             Type = 10
	TypeTextMessage         Type = 11
	TypePermissionDenied    Type = 12
	TypeACL                 Type = 13
	TypeQueryUsers          Type = 14
	TypeCryptSetup          Type = 15
	TypeContextActionModify Type = 16
	TypeContextAction       Type = 17
	TypeUserList            Type = 18
	TypeVoiceTarget         Type = 19
	TypePermissionQuery     Type = 20
	TypeCodecVersion        Type = 21
	TypeUserStats           Type = 22
	TypeRequestBlob         Type = 23
	TypeServerConfig        Type = 24
	TypeSuggestConfig       Type = 25
)

func (t Type) String() string {
	switch t {
	case TypeVersion:
		return "Version"
	case TypeUDPTunnel:
		return "UDPTunnel"
	case TypeAuthenticate:
		return "Authenticate"
	case TypePing:
		return "Ping"
	case TypeReject:
		return "Reject"
	case TypeServerSync:
		return "ServerSync"
	case TypeChannelRemove:
		return "ChannelRemove"
	case TypeChannelState:
		return "ChannelState"
	case TypeUserRemove:
		return "UserRemove"
	case TypeUserState:
		return "UserState"
	case TypeTextMessage:
		return "TextMessage"
	case TypeServerConfig:
		return "ServerConfig"
	default:
		return fmt.Sprintf("Type(%d)", uint16(t))
	}
}

// Message is one control packet. The set of implementations is closed; the
// unexported codec methods keep it that way.
type Message interface {
	Type() Type
	marshal() []byte
	unmarshal(data []byte) error
}

// Raw carries an uninterpreted payload for message types this client does not
// model. It round-trips byte for byte.
type Raw struct {
	MessageType Type
	Payload     []byte
}

func (m *Raw) Type() Type { return m.MessageType }

func (m *Raw) marshal() []byte { return m.Payload }

func (m *Raw) unmarshal(data []byte) error {
	m.Payload = data
	return nil
}

// Marshal encodes a message payload (framing excluded, see Codec).
func Marshal(m Message) []byte {
	return m.marshal()
}

// Unmarshal decodes a payload of the given type. Unmodelled types come back
// as *Raw.
func Unmarshal(t Type, payload []byte) (Message, error) {
	var m Message
	switch t {
	case TypeVersion:
		m = &Version{}
	case TypeAuthenticate:
		m = &Authenticate{}
	case TypePing:
		m = &Ping{}
	case TypeReject:
		m = &Reject{}
	case TypeServerSync:
		m = &ServerSync{}
	case TypeChannelRemove:
		m = &ChannelRemove{}
	case TypeChannelState:
		m = &ChannelState{}
	case TypeUserRemove:
		m = &UserRemove{}
	case TypeUserState:
		m = &UserState{}
	case TypeTextMessage:
		m = &TextMessage{}
	case TypeServerConfig:
		m = &ServerConfig{}
	default:
		m = &Raw{MessageType: t}
	}
	if err := m.unmarshal(payload); err != nil {
		return nil, &DecodeError{MessageType: t, cause: err}
	}
	return m, nil
}

// DecodeError marks a frame whose payload could not be parsed. The frame was
// fully consumed, so the stream stays usable and callers may skip it.
type DecodeError struct {
	MessageType Type
	cause       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s payload: %v", e.MessageType, e.cause)
}

func (e *DecodeError) Unwrap() error { return e.cause }
