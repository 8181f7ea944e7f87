package wire

import (
	"errors"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/lixenwraith/breakout/core"
)

func TestGridSpawnCarriesTombstones(t *testing.T) {
	in := &GridSpawn{
		Columns:    4,
		Rows:       3,
		CellWidth:  3,
		CellHeight: 1,
		OffsetX:    1,
		OffsetY:    1,
		Origin:     core.Vec2{X: 40, Y: 28},
		Points:     100,
		ColorFrom:  0xff4040,
		ColorTo:    0x4060ff,
		Destroyed:  []core.Point{{X: 0, Y: 0}, {X: 3, Y: 2}},
	}

	m, err := Decode(KindGridSpawn, in.Marshal())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	out := m.(*GridSpawn)
	if out.Columns != 4 || out.Rows != 3 || out.Origin != in.Origin || out.Points != 100 {
		t.Fatalf("layout mismatch: %+v", out)
	}
	if len(out.Destroyed) != 2 || out.Destroyed[0] != (core.Point{}) || out.Destroyed[1] != (core.Point{X: 3, Y: 2}) {
		t.Fatalf("tombstones mismatch: %v", out.Destroyed)
	}
}

func TestNegativeCoordinatesSurvive(t *testing.T) {
	in := &PaddleState{Owner: 2, Slot: 1, Position: core.Vec2{X: -3.5, Y: 2}, Input: -1}
	m, err := Decode(KindPaddleState, in.Marshal())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := *m.(*PaddleState); got != *in {
		t.Fatalf("expected %+v, got %+v", *in, got)
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	b := (&ScoreUpdate{Total: 150}).Marshal()
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendString(b, "future")

	m, err := Decode(KindScoreUpdate, b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.(*ScoreUpdate).Total != 150 {
		t.Fatalf("expected 150, got %v", m.(*ScoreUpdate).Total)
	}
}

func TestDecodeErrors(t *testing.T) {
	payload := (&BallState{Owner: 1, Position: core.Vec2{X: 1, Y: 2}, Launched: true}).Marshal()

	_, err := Decode(KindBallState, payload[:len(payload)-3])
	if !errors.Is(err, core.ErrDecode) {
		t.Fatalf("expected decode error for truncated payload, got %v", err)
	}

	_, err = Decode(Kind(0x7E), nil)
	if !errors.Is(err, core.ErrDecode) {
		t.Fatalf("expected decode error for unknown kind, got %v", err)
	}
}

func TestIsGame(t *testing.T) {
	if IsGame(0x01) || IsGame(0x12) {
		t.Error("transport control types must not be game messages")
	}
	if !IsGame(uint8(KindDestroyRequest)) || !IsGame(uint8(KindSound)) {
		t.Error("game kinds must be recognised")
	}
}
