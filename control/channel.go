package control

// ChannelState creates or updates a channel. Only the fields this client
// tracks are modelled; the rest of the schema is skipped on decode.
type ChannelState struct {
	ChannelID   *uint32
	Parent      *uint32
	Name        *string
	Links       []uint32
	Description *string
	MaxUsers    *uint32
}

func (m *ChannelState) Type() Type { return TypeChannelState }

func (m *ChannelState) marshal() []byte {
	var b []byte
	b = appendUint32Field(b, 1, m.ChannelID)
	b = appendUint32Field(b, 2, m.Parent)
	b = appendStringField(b, 3, m.Name)
	b = appendUint32List(b, 4, m.Links)
	b = appendStringField(b, 5, m.Description)
	b = appendUint32Field(b, 11, m.MaxUsers)
	return b
}

func (m *ChannelState) unmarshal(data []byte) error {
	d := decoder{buf: data}
	for d.more() {
		num, typ := d.tag()
		if d.err != nil {
			break
		}
		switch num {
		case 1:
			v := d.uint32(typ)
			m.ChannelID = &v
		case 2:
			v := d.uint32(typ)
			m.Parent = &v
		case 3:
			v := d.string(typ)
			m.Name = &v
		case 4:
			m.Links = d.uint32List(typ, m.Links)
		case 5:
			v := d.string(typ)
			m.Description = &v
		case 11:
			v := d.uint32(typ)
			m.MaxUsers = &v
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

// ChannelRemove deletes a channel by id.
type ChannelRemove struct {
	ChannelID *uint32
}

func (m *ChannelRemove) Type() Type { return TypeChannelRemove }

func (m *ChannelRemove) marshal() []byte {
	return appendUint32Field(nil, 1, m.ChannelID)
}

func (m *ChannelRemove) unmarshal(data []byte) error {
	d := decoder{buf: data}
	for d.more() {
		num, typ := d.tag()
		if d.err != nil {
			break
		}
		switch num {
		case 1:
			v := d.uint32(typ)
			m.ChannelID = &v
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}
