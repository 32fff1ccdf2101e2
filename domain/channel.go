package domain

import "github.com/wtaylor/mumble-telegram-bot/control"

// RootChannelName labels a channel whose state packet carried no name.
// In practice only the root channel (id 0) arrives nameless.
const RootChannelName = "Root"

// Channel is one channel known to the server. ID never changes after
// creation.
type Channel struct {
	ID          uint32
	Parent      *uint32
	Name        string
	Description *string
	MaxUsers    *uint32
}

// NewChannel builds the aggregate from the first ChannelState sighting of an
// id. The packet must carry ChannelID.
func NewChannel(pkt *control.ChannelState) Channel {
	name := RootChannelName
	if pkt.Name != nil {
		name = *pkt.Name
	}
	return Channel{
		ID:          *pkt.ChannelID,
		Parent:      pkt.Parent,
		Name:        name,
		Description: pkt.Description,
		MaxUsers:    pkt.MaxUsers,
	}
}

// Apply diffs a ChannelState against the aggregate and reports one
// ChannelUpdated if any field moved.
func (c *Channel) Apply(pkt *control.ChannelState) []Event {
	changed := false
	if replaceUint32(&c.MaxUsers, pkt.MaxUsers) {
		changed = true
	}
	if replaceUint32(&c.Parent, pkt.Parent) {
		changed = true
	}
	if pkt.Name != nil && *pkt.Name != c.Name {
		changed = true
		c.Name = *pkt.Name
	}
	if replaceString(&c.Description, pkt.Description) {
		changed = true
	}

	if !changed {
		return nil
	}
	return []Event{ChannelUpdated{Channel: *c}}
}
