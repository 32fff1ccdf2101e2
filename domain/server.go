// Package domain holds the canonical in-memory model of one Mumble
// connection: the server, its channels, and its connected users. Aggregates
// are reconstructed by diffing inbound control packets against the current
// state; an absent packet field always means "unchanged", never "cleared".
package domain

import "github.com/wtaylor/mumble-telegram-bot/control"

// Server is the singleton aggregate for the connection.
type Server struct {
	// Info is the server's Version reply, stored whole and never diffed.
	Info                  *control.Version
	SessionID             *uint32
	MaxBandwidth          *uint32
	WelcomeText           *string
	AllowHTML             *bool
	MaxMessageLength      *uint32
	MaxImageMessageLength *uint32
	MaxUsers              *uint32
	// Synced flips true once, on ServerSync, and never reverts. Events
	// produced before that are suppressed towards external subscribers.
	Synced bool
}

// ApplySync records the end of the initial state replay. The packet assigns
// session id, welcome text, and bandwidth outright; it deliberately emits no
// event since it only gates the event stream.
func (s *Server) ApplySync(pkt *control.ServerSync) []Event {
	s.SessionID = pkt.Session
	s.MaxBandwidth = pkt.MaxBandwidth
	s.WelcomeText = pkt.WelcomeText
	s.Synced = true
	return nil
}

// ApplyVersion replaces the server identity. The server sends it at most
// once, so it is always news and never diffed.
func (s *Server) ApplyVersion(pkt *control.Version) []Event {
	s.Info = pkt
	return []Event{ServerStateUpdated{Server: *s}}
}

// ApplyConfig folds present-and-different fields into the aggregate and
// reports one ServerStateUpdated if anything moved.
func (s *Server) ApplyConfig(pkt *control.ServerConfig) []Event {
	changed := false
	if replaceUint32(&s.MaxBandwidth, pkt.MaxBandwidth) {
		changed = true
	}
	if replaceString(&s.WelcomeText, pkt.WelcomeText) {
		changed = true
	}
	if replaceBool(&s.AllowHTML, pkt.AllowHTML) {
		changed = true
	}
	if replaceUint32(&s.MaxMessageLength, pkt.MessageLength) {
		changed = true
	}
	if replaceUint32(&s.MaxImageMessageLength, pkt.ImageMessageLength) {
		changed = true
	}
	if replaceUint32(&s.MaxUsers, pkt.MaxUsers) {
		changed = true
	}

	if !changed {
		return nil
	}
	return []Event{ServerStateUpdated{Server: *s}}
}

// replaceUint32 applies src over dst if src is present and differs.
func replaceUint32(dst **uint32, src *uint32) bool {
	if src == nil || (*dst != nil && **dst == *src) {
		return false
	}
	*dst = src
	return true
}

func replaceString(dst **string, src *string) bool {
	if src == nil || (*dst != nil && **dst == *src) {
		return false
	}
	*dst = src
	return true
}

func replaceBool(dst **bool, src *bool) bool {
	if src == nil || (*dst != nil && **dst == *src) {
		return false
	}
	*dst = src
	return true
}
