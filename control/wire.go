package control

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Encoding helpers. Optional fields are pointers; nil appends nothing.

func appendUint32Field(b []byte, num protowire.Number, v *uint32) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(*v))
}

func appendUint64Field(b []byte, num protowire.Number, v *uint64) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, *v)
}

func appendBoolField(b []byte, num protowire.Number, v *bool) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(*v))
}

func appendStringField(b []byte, num protowire.Number, v *string) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, *v)
}

func appendStringList(b []byte, num protowire.Number, vs []string) []byte {
	for _, v := range vs {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, v)
	}
	return b
}

// proto2 repeated scalars are unpacked on the wire.
func appendUint32List(b []byte, num protowire.Number, vs []uint32) []byte {
	for _, v := range vs {
		b = protowire.AppendTag(b, num, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(v))
	}
	return b
}

func appendInt32List(b []byte, num protowire.Number, vs []int32) []byte {
	for _, v := range vs {
		b = protowire.AppendTag(b, num, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(v)))
	}
	return b
}

// decoder walks one payload. The first parse failure sticks; callers check
// err once the loop ends.
type decoder struct {
	buf []byte
	err error
}

func (d *decoder) more() bool {
	return d.err == nil && len(d.buf) > 0
}

func (d *decoder) tag() (protowire.Number, protowire.Type) {
	num, typ, n := protowire.ConsumeTag(d.buf)
	if n < 0 {
		d.fail(n)
		return 0, 0
	}
	d.buf = d.buf[n:]
	return num, typ
}

func (d *decoder) varint(typ protowire.Type) uint64 {
	if typ != protowire.VarintType {
		d.failWireType(typ)
		return 0
	}
	v, n := protowire.ConsumeVarint(d.buf)
	if n < 0 {
		d.fail(n)
		return 0
	}
	d.buf = d.buf[n:]
	return v
}

func (d *decoder) uint32(typ protowire.Type) uint32 {
	return uint32(d.varint(typ))
}

func (d *decoder) uint64(typ protowire.Type) uint64 {
	return d.varint(typ)
}

func (d *decoder) bool(typ protowire.Type) bool {
	return protowire.DecodeBool(d.varint(typ))
}

func (d *decoder) string(typ protowire.Type) string {
	if typ != protowire.BytesType {
		d.failWireType(typ)
		return ""
	}
	v, n := protowire.ConsumeString(d.buf)
	if n < 0 {
		d.fail(n)
		return ""
	}
	d.buf = d.buf[n:]
	return v
}

// uint32List appends one unpacked element or a whole packed run, whichever
// the sender chose.
func (d *decoder) uint32List(typ protowire.Type, dst []uint32) []uint32 {
	switch typ {
	case protowire.VarintType:
		return append(dst, d.uint32(typ))
	case protowire.BytesType:
		packed, n := protowire.ConsumeBytes(d.buf)
		if n < 0 {
			d.fail(n)
			return dst
		}
		d.buf = d.buf[n:]
		for len(packed) > 0 {
			v, vn := protowire.ConsumeVarint(packed)
			if vn < 0 {
				d.fail(vn)
				return dst
			}
			packed = packed[vn:]
			dst = append(dst, uint32(v))
		}
		return dst
	default:
		d.failWireType(typ)
		return dst
	}
}

func (d *decoder) int32List(typ protowire.Type, dst []int32) []int32 {
	vs := d.uint32List(typ, nil)
	for _, v := range vs {
		dst = append(dst, int32(v))
	}
	return dst
}

func (d *decoder) skip(num protowire.Number, typ protowire.Type) {
	n := protowire.ConsumeFieldValue(num, typ, d.buf)
	if n < 0 {
		d.fail(n)
		return
	}
	d.buf = d.buf[n:]
}

func (d *decoder) fail(n int) {
	if d.err == nil {
		d.err = protowire.ParseError(n)
	}
}

func (d *decoder) failWireType(typ protowire.Type) {
	if d.err == nil {
		d.err = fmt.Errorf("unexpected wire type %d", typ)
	}
}
