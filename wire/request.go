package wire

import (
	"github.com/lixenwraith/breakout/core"
)

// DestroyRequest asks the authority to destroy the block at Grid
// Direction is the ball travel direction at impact, used for camera feedback
type DestroyRequest struct {
	Grid      core.Point
	Direction core.Vec2
}

func (*DestroyRequest) Kind() Kind { return KindDestroyRequest }

func (m *DestroyRequest) Marshal() []byte {
	b := appendPoint(nil, 1, m.Grid)
	return appendVec(b, 2, m.Direction)
}

func (m *DestroyRequest) Unmarshal(b []byte) error {
	return parse(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Grid, err = f.point()
		case 2:
			m.Direction, err = f.vec()
		}
		return err
	})
}

// LaunchRequest asks the authority to toggle the ball owned by Owner
type LaunchRequest struct {
	Owner core.PeerID
}

func (*LaunchRequest) Kind() Kind { return KindLaunchRequest }

func (m *LaunchRequest) Marshal() []byte {
	return appendVarint(nil, 1, uint64(m.Owner))
}

func (m *LaunchRequest) Unmarshal(b []byte) error {
	return parse(b, func(f field) error {
		if f.num == 1 {
			m.Owner = core.PeerID(f.u64())
		}
		return nil
	})
}

// PaddleState is a paddle position update
// Sent by the owner to the authority, relayed by the authority to observers
type PaddleState struct {
	Owner    core.PeerID
	Slot     int
	Position core.Vec2
	Input    float64
}

func (*PaddleState) Kind() Kind { return KindPaddleState }

func (m *PaddleState) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.Owner))
	b = appendSint(b, 2, int64(m.Slot))
	b = appendVec(b, 3, m.Position)
	b = appendDouble(b, 4, m.Input)
	return b
}

func (m *PaddleState) Unmarshal(b []byte) error {
	return parse(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Owner = core.PeerID(f.u64())
		case 2:
			m.Slot = int(f.sint())
		case 3:
			m.Position, err = f.vec()
		case 4:
			m.Input = f.double()
		}
		return err
	})
}

// CameraPush is a camera feedback command
// Observers send it to the authority, which broadcasts it to every observer
type CameraPush struct {
	Direction  core.Vec2
	Intensity  float64
	DurationMs uint32
}

func (*CameraPush) Kind() Kind { return KindCameraPush }

func (m *CameraPush) Marshal() []byte {
	var b []byte
	b = appendVec(b, 1, m.Direction)
	b = appendDouble(b, 2, m.Intensity)
	b = appendVarint(b, 3, uint64(m.DurationMs))
	return b
}

func (m *CameraPush) Unmarshal(b []byte) error {
	return parse(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Direction, err = f.vec()
		case 2:
			m.Intensity = f.double()
		case 3:
			m.DurationMs = uint32(f.u64())
		}
		return err
	})
}

// Effect is a replicated visual effect
type Effect struct {
	Name     string
	Position core.Vec2
	Color    uint32 // Packed RGB
	Scale    float64
}

func (*Effect) Kind() Kind { return KindEffect }

func (m *Effect) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Name)
	b = appendVec(b, 2, m.Position)
	b = appendVarint(b, 3, uint64(m.Color))
	b = appendDouble(b, 4, m.Scale)
	return b
}

func (m *Effect) Unmarshal(b []byte) error {
	return parse(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Name = f.str()
		case 2:
			m.Position, err = f.vec()
		case 3:
			m.Color = uint32(f.u64())
		case 4:
			m.Scale = f.double()
		}
		return err
	})
}

// Sound is a replicated sound request
type Sound struct {
	Category string
	Volume   float64
}

func (*Sound) Kind() Kind { return KindSound }

func (m *Sound) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Category)
	b = appendDouble(b, 2, m.Volume)
	return b
}

func (m *Sound) Unmarshal(b []byte) error {
	return parse(b, func(f field) error {
		switch f.num {
		case 1:
			m.Category = f.str()
		case 2:
			m.Volume = f.double()
		}
		return nil
	})
}
