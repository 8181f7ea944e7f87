package wire

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/lixenwraith/breakout/core"
)

// Field encoders; zero values are omitted like proto3 scalars

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendSint(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// Points and vectors are embedded messages {1: x, 2: y}

func appendPoint(b []byte, num protowire.Number, p core.Point) []byte {
	var inner []byte
	inner = appendSint(inner, 1, int64(p.X))
	inner = appendSint(inner, 2, int64(p.Y))
	return appendBytes(b, num, inner)
}

func appendVec(b []byte, num protowire.Number, v core.Vec2) []byte {
	if v.IsZero() {
		return b
	}
	var inner []byte
	inner = appendDouble(inner, 1, v.X)
	inner = appendDouble(inner, 2, v.Y)
	return appendBytes(b, num, inner)
}

// field is one decoded tag/value pair
type field struct {
	num protowire.Number
	typ protowire.Type
	u   uint64
	b   []byte
}

func (f field) u64() uint64 { return f.u }
func (f field) sint() int64 { return protowire.DecodeZigZag(f.u) }
func (f field) flag() bool { return protowire.DecodeBool(f.u) }
func (f field) double() float64 { return math.Float64frombits(f.u) }
func (f field) str() string { return string(f.b) }

func (f field) point() (core.Point, error) {
	var p core.Point
	err := parse(f.b, func(g field) error {
		switch g.num {
		case 1:
			p.X = int(g.sint())
		case 2:
			p.Y = int(g.sint())
		}
		return nil
	})
	return p, err
}

func (f field) vec() (core.Vec2, error) {
	var v core.Vec2
	err := parse(f.b, func(g field) error {
		switch g.num {
		case 1:
			v.X = g.double()
		case 2:
			v.Y = g.double()
		}
		return nil
	})
	return v, err
}

// parse walks every field in b; unknown fields reach fn and may be ignored
func parse(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.u, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			f.u, n = protowire.ConsumeFixed64(b)
		case protowire.Fixed32Type:
			var v uint32
			v, n = protowire.ConsumeFixed32(b)
			f.u = uint64(v)
		case protowire.BytesType:
			f.b, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}
