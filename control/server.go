package control

// ServerSync marks the end of the initial state replay. It also hands the
// client its own session id.
type ServerSync struct {
	Session      *uint32
	MaxBandwidth *uint32
	WelcomeText  *string
	Permissions  *uint64
}

func (m *ServerSync) Type() Type { return TypeServerSync }

func (m *ServerSync) marshal() []byte {
	var b []byte
	b = appendUint32Field(b, 1, m.Session)
	b = appendUint32Field(b, 2, m.MaxBandwidth)
	b = appendStringField(b, 3, m.WelcomeText)
	b = appendUint64Field(b, 4, m.Permissions)
	return b
}

func (m *ServerSync) unmarshal(data []byte) error {
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
			m.MaxBandwidth = &v
		case 3:
			v := d.string(typ)
			m.WelcomeText = &v
		case 4:
			v := d.uint64(typ)
			m.Permissions = &v
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

// ServerConfig carries server-side limits. Absent fields mean unchanged.
type ServerConfig struct {
	MaxBandwidth       *uint32
	WelcomeText        *string
	AllowHTML          *bool
	MessageLength      *uint32
	ImageMessageLength *uint32
	MaxUsers           *uint32
}

func (m *ServerConfig) Type() Type { return TypeServerConfig }

func (m *ServerConfig) marshal() []byte {
	var b []byte
	b = appendUint32Field(b, 1, m.MaxBandwidth)
	b = appendStringField(b, 2, m.WelcomeText)
	b = appendBoolField(b, 3, m.AllowHTML)
	b = appendUint32Field(b, 4, m.MessageLength)
	b = appendUint32Field(b, 5, m.ImageMessageLength)
	b = appendUint32Field(b, 6, m.MaxUsers)
	return b
}

func (m *ServerConfig) unmarshal(data []byte) error {
	d := decoder{buf: data}
	for d.more() {
		num, typ := d.tag()
		if d.err != nil {
			break
		}
		switch num {
		case 1:
			v := d.uint32(typ)
			m.MaxBandwidth = &v
		case 2:
			v := d.string(typ)
			m.WelcomeText = &v
		case 3:
			v := d.bool(typ)
			m.AllowHTML = &v
		case 4:
			v := d.uint32(typ)
			m.MessageLength = &v
		case 5:
			v := d.uint32(typ)
			m.ImageMessageLength = &v
		case 6:
			v := d.uint32(typ)
			m.MaxUsers = &v
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}
