package control

// Version announces protocol and software identity. The client sends it first
// thing after the TLS handshake; the server answers with its own.
type Version struct {
	// Version packs major<<16 | minor<<8 | patch.
	Version   *uint32
	Release   *string
	OS        *string
	OSVersion *string
}

func (m *Version) Type() Type { return TypeVersion }

func (m *Version) marshal() []byte {
	var b []byte
	b = appendUint32Field(b, 1, m.Version)
	b = appendStringField(b, 2, m.Release)
	b = appendStringField(b, 3, m.OS)
	b = appendStringField(b, 4, m.OSVersion)
	return b
}

func (m *Version) unmarshal(data []byte) error {
	d := decoder{buf: data}
	for d.more() {
		num, typ := d.tag()
		if d.err != nil {
			break
		}
		switch num {
		case 1:
			v := d.uint32(typ)
			m.Version = &v
		case 2:
			v := d.string(typ)
			m.Release = &v
		case 3:
			v := d.string(typ)
			m.OS = &v
		case 4:
			v := d.string(typ)
			m.OSVersion = &v
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

// Authenticate carries credentials and codec capabilities. This client only
// declares Opus support; token and CELT lists stay empty.
type Authenticate struct {
	Username     *string
	Password     *string
	Tokens       []string
	CeltVersions []int32
	Opus         *bool
}

func (m *Authenticate) Type() Type { return TypeAuthenticate }

func (m *Authenticate) marshal() []byte {
	var b []byte
	b = appendStringField(b, 1, m.Username)
	b = appendStringField(b, 2, m.Password)
	b = appendStringList(b, 3, m.Tokens)
	b = appendInt32List(b, 4, m.CeltVersions)
	b = appendBoolField(b, 5, m.Opus)
	return b
}

func (m *Authenticate) unmarshal(data []byte) error {
	d := decoder{buf: data}
	for d.more() {
		num, typ := d.tag()
		if d.err != nil {
			break
		}
		switch num {
		case 1:
			v := d.string(typ)
			m.Username = &v
		case 2:
			v := d.string(typ)
			m.Password = &v
		case 3:
			m.Tokens = append(m.Tokens, d.string(typ))
		case 4:
			m.CeltVersions = d.int32List(typ, m.CeltVersions)
		case 5:
			v := d.bool(typ)
			m.Opus = &v
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

// Ping keeps the control channel alive. The client fills only the timestamp;
// servers echo it together with transport statistics this client ignores.
type Ping struct {
	Timestamp *uint64
	Good      *uint32
	Late      *uint32
	Lost      *uint32
	Resync    *uint32
}

func (m *Ping) Type() Type { return TypePing }

func (m *Ping) marshal() []byte {
	var b []byte
	b = appendUint64Field(b, 1, m.Timestamp)
	b = appendUint32Field(b, 2, m.Good)
	b = appendUint32Field(b, 3, m.Late)
	b = appendUint32Field(b, 4, m.Lost)
	b = appendUint32Field(b, 5, m.Resync)
	return b
}

func (m *Ping) unmarshal(data []byte) error {
	d := decoder{buf: data}
	for d.more() {
		num, typ := d.tag()
		if d.err != nil {
			break
		}
		switch num {
		case 1:
			v := d.uint64(typ)
			m.Timestamp = &v
		case 2:
			v := d.uint32(typ)
			m.Good = &v
		case 3:
			v := d.uint32(typ)
			m.Late = &v
		case 4:
			v := d.uint32(typ)
			m.Lost = &v
		case 5:
			v := d.uint32(typ)
			m.Resync = &v
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}

// Reject is the server refusing the connection during authentication.
type Reject struct {
	RejectType *uint32
	Reason     *string
}

func (m *Reject) Type() Type { return TypeReject }

func (m *Reject) marshal() []byte {
	var b []byte
	b = appendUint32Field(b, 1, m.RejectType)
	b = appendStringField(b, 2, m.Reason)
	return b
}

func (m *Reject) unmarshal(data []byte) error {
	d := decoder{buf: data}
	for d.more() {
		num, typ := d.tag()
		if d.err != nil {
			break
		}
		switch num {
		case 1:
			v := d.uint32(typ)
			m.RejectType = &v
		case 2:
			v := d.string(typ)
			m.Reason = &v
		default:
			d.skip(num, typ)
		}
	}
	return d.err
}
