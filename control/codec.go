package control

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	headerLen = 6
	// Murmur rejects control payloads of 8 MiB and above.
	maxPayloadLen = 8*1024*1024 - 1
)

// Codec frames control messages over a byte stream: a big-endian uint16
// message type, a big-endian uint32 payload length, then the payload.
//
// Read and Write are each safe for one goroutine; the duplex loops own one
// direction apiece.
type Codec struct {
	rw io.ReadWriter
}

func NewCodec(rw io.ReadWriter) *Codec {
	return &Codec{rw: rw}
}

// Read blocks for the next frame. I/O errors (including io.EOF at a clean
// shutdown) are returned as-is and end the stream. A parseable frame with an
// unparseable payload returns a *DecodeError; the stream remains aligned and
// the caller may keep reading.
func (c *Codec) Read() (Message, error) {
	var header [headerLen]byte
	if _, err := io.ReadFull(c.rw, header[:]); err != nil {
		return nil, err
	}
	msgType := Type(binary.BigEndian.Uint16(header[:2]))
	payloadLen := binary.BigEndian.Uint32(header[2:])
	if payloadLen > maxPayloadLen {
		return nil, fmt.Errorf("%s frame of %d bytes exceeds the %d byte limit", msgType, payloadLen, maxPayloadLen)
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(c.rw, payload); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return Unmarshal(msgType, payload)
}

// Write frames and sends one message. Header and payload go out in a single
// write so a frame is never interleaved.
func (c *Codec) Write(m Message) error {
	payload := Marshal(m)
	if len(payload) > maxPayloadLen {
		return fmt.Errorf("%s payload of %d bytes exceeds the %d byte limit", m.Type(), len(payload), maxPayloadLen)
	}

	frame := make([]byte, headerLen, headerLen+len(payload))
	binary.BigEndian.PutUint16(frame[:2], uint16(m.Type()))
	binary.BigEndian.PutUint32(frame[2:], uint32(len(payload)))
	frame = append(frame, payload...)

	_, err := c.rw.Write(frame)
	return err
}
