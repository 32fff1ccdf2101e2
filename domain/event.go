package domain

// Event is a semantic state change, distinct from the raw control packet
// that caused it. Events carry value copies of the aggregate taken at the
// moment of the change, so a consumer's view cannot be invalidated by later
// updates.
type Event interface {
	Name() string
}

type ServerStateUpdated struct {
	Server Server
}

func (ServerStateUpdated) Name() string { return "ServerStateUpdated" }

type UserJoinedServer struct {
	User User
}

func (UserJoinedServer) Name() string { return "UserJoinedServer" }

type UserLeftServer struct {
	User User
}

func (UserLeftServer) Name() string { return "UserLeftServer" }

type UserSwitchedChannel struct {
	User User
}

func (UserSwitchedChannel) Name() string { return "UserSwitchedChannel" }

type UserUpdated struct {
	User User
}

func (UserUpdated) Name() string { return "UserUpdated" }

type ChannelCreated struct {
	Channel Channel
}

func (ChannelCreated) Name() string { return "ChannelCreated" }

type ChannelUpdated struct {
	Channel Channel
}

func (ChannelUpdated) Name() string { return "ChannelUpdated" }

type ChannelDeleted struct {
	Channel Channel
}

func (ChannelDeleted) Name() string { return "ChannelDeleted" }

// TextMessagePosted relays a chat message. Sender is nil when the actor
// session is not (or no longer) known.
type TextMessagePosted struct {
	Message string
	Sender  *User
}

func (TextMessagePosted) Name() string { return "TextMessagePosted" }
