package control

// UserState creates or updates a connected user. Absent fields mean
// unchanged, never cleared.
type UserState struct {
	Session   *uint32
	Actor     *uint32
	Name      *string
	UserID    *uint32
	ChannelID *uint32
	Mute      *bool
	Deaf      *bool
	Suppress  *bool
	SelfMute  *bool
	SelfDeaf  *bool
}

func (m *UserState) Type() Type { return TypeUserState }

func (m *UserState) marshal() []byte {
	var b []byte
	b = appendUint32Field(b, 1, m.Session)
	b = appendUint32Field(b, 2, m.Actor)
	b = appendStringField(b, 3, m.Name)
	b = appendUint32Field(b, 4, m.UserID)
	b = appendUint32Field(b, 5, m.ChannelID)
	b = appendBoolField(b, 6, m.Mute)
	b = appendBoolField(b, 7, m.Deaf)
	b = appendBoolField(b, 8, m.Suppress)
	b = appendBoolField(b, 9, m.SelfMute)
	b = appendBoolField(b, 10, m.SelfDeaf)
	return b
}

func (m *UserState) unmarshal(data []byte) error {
	d := decoder{buf: data}
	for d.more() {
		num, typ := d.tag()
		if d.err != nil {
			break
		}
		switch num {
		case 1:
			v := d.uint32(typ)
			m.Session = &v
		case 2:
			v := d.uint32(typ)
			m.Actor = &v
		case 3:
			v := d.string(typ)
			m.Name = &v
		case 4:
			v := d.uint32(typ)
			m.UserID = &v
		case 5:
			v := d.uint32(typ)
			m.ChannelID = &v
		case 6:
			v := d.bool(typ)
			m.Mute = &v
		case 7:
			v := d.bool(typ)
			m.Deaf = &v
		case 8:
			v := d.bool(typ)
			m.Suppress = &v
		case 9:
			v := d.bool(typ)
			m.SelfMute = &v
		case 10:
			v := d.bool(typ)
			m.SelfDeaf = &v
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

// UserRemove signals a user leaving (or being kicked/banned by an actor).
type UserRemove struct {
	Session *uint32
	Actor   *uint32
	Reason  *string
	Ban     *bool
}

func (m *UserRemove) Type() Type { return TypeUserRemove }

func (m *UserRemove) marshal() []byte {
	var b []byte
	b = appendUint32Field(b, 1, m.Session)
	b = appendUint32Field(b, 2, m.Actor)
	b = appendStringField(b, 3, m.Reason)
	b = appendBoolField(b, 4, m.Ban)
	return b
}

func (m *UserRemove) unmarshal(data []byte) error {
	d := decoder{buf: data}
	for d.more() {
		num, typ := d.tag()
		if d.err != nil {
			break
		}
		switch num {
		case 1:
			v := d.uint32(typ)
			m.Session = &v
		case 2:
			v := d.uint32(typ)
			m.Actor = &v
		case 3:
			v := d.string(typ)
			m.Reason = &v
		case 4:
			v := d.bool(typ)
			m.Ban = &v
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

// TextMessage is a chat message addressed to sessions, channels, or whole
// channel trees.
type TextMessage struct {
	Actor     *uint32
	Session   []uint32
	ChannelID []uint32
	TreeID    []uint32
	Message   *string
}

func (m *TextMessage) Type() Type { return TypeTextMessage }

func (m *TextMessage) marshal() []byte {
	var b []byte
	b = appendUint32Field(b, 1, m.Actor)
	b = appendUint32List(b, 2, m.Session)
	b = appendUint32List(b, 3, m.ChannelID)
	b = appendUint32List(b, 4, m.TreeID)
	b = appendStringField(b, 5, m.Message)
	return b
}

func (m *TextMessage) unmarshal(data []byte) error {
	d := decoder{buf: data}
	for d.more() {
		num, typ := d.tag()
		if d.err != nil {
			break
		}
		switch num {
		case 1:
			v := d.uint32(typ)
			m.Actor = &v
		case 2:
			m.Session = d.uint32List(typ, m.Session)
		case 3:
			m.ChannelID = d.uint32List(typ, m.ChannelID)
		case 4:
			m.TreeID = d.uint32List(typ, m.TreeID)
		case 5:
			v := d.string(typ)
			m.Message = &v
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}
