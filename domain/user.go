package domain

import (
	"strings"

	"github.com/wtaylor/mumble-telegram-bot/control"
)

// UnknownUserName stands in for a user whose first state packet carried no
// name.
const UnknownUserName = "Unknown"

// User is one connected session. Session is server-assigned and only stable
// for the lifetime of that connection; it may be reused by someone else
// after the user leaves.
type User struct {
	Session   uint32
	UserID    *uint32
	ChannelID *uint32
	Name      string
	Muted     bool
	Deafened  bool
}

// NewUser builds the aggregate from the first UserState sighting of a
// session. The packet must carry Session.
func NewUser(pkt *control.UserState) User {
	name := UnknownUserName
	if pkt.Name != nil {
		name = *pkt.Name
	}
	u := User{
		Session:   *pkt.Session,
		UserID:    pkt.UserID,
		ChannelID: pkt.ChannelID,
		Name:      name,
	}
	if pkt.SelfMute != nil {
		u.Muted = *pkt.SelfMute
	}
	if pkt.SelfDeaf != nil {
		u.Deafened = *pkt.SelfDeaf
	}
	return u
}

// InferIsBot marks users following the "<name>Bot" convention, so bridges
// can keep automation out of people-facing notifications.
func (u User) InferIsBot() bool {
	return strings.HasSuffix(u.Name, "Bot")
}

// Apply diffs a UserState against the aggregate. A channel move emits
// UserSwitchedChannel ahead of the general UserUpdated. The switch snapshot
// is taken at the moment of the move, so when the same packet also renames
// or mutes the user those changes appear only in the UserUpdated snapshot.
// For a channel-only change the two snapshots are identical.
func (u *User) Apply(pkt *control.UserState) []Event {
	var events []Event
	changed := false
	if replaceUint32(&u.UserID, pkt.UserID) {
		changed = true
	}
	if replaceUint32(&u.ChannelID, pkt.ChannelID) {
		changed = true
		events = append(events, UserSwitchedChannel{User: *u})
	}
	if pkt.Name != nil && *pkt.Name != u.Name {
		changed = true
		u.Name = *pkt.Name
	}
	if pkt.SelfMute != nil && *pkt.SelfMute != u.Muted {
		changed = true
		u.Muted = *pkt.SelfMute
	}
	if pkt.SelfDeaf != nil && *pkt.SelfDeaf != u.Deafened {
		changed = true
		u.Deafened = *pkt.SelfDeaf
	}

	if changed {
		events = append(events, UserUpdated{User: *u})
	}
	return events
}
