package wire

import (
	"github.com/lixenwraith/breakout/core"
)

// BlockRemoved notifies observers that the block at Grid was destroyed
type BlockRemoved struct {
	Grid core.Point
}

func (*BlockRemoved) Kind() Kind { return KindBlockRemoved }

func (m *BlockRemoved) Marshal() []byte {
	return appendPoint(nil, 1, m.Grid)
}

func (m *BlockRemoved) Unmarshal(b []byte) error {
	return parse(b, func(f field) (err error) {
		if f.num == 1 {
			m.Grid, err = f.point()
		}
		return err
	})
}

// ScoreUpdate carries the authoritative score total
type ScoreUpdate struct {
	Total float64
}

func (*ScoreUpdate) Kind() Kind { return KindScoreUpdate }

func (m *ScoreUpdate) Marshal() []byte {
	return appendDouble(nil, 1, m.Total)
}

func (m *ScoreUpdate) Unmarshal(b []byte) error {
	return parse(b, func(f field) error {
		if f.num == 1 {
			m.Total = f.double()
		}
		return nil
	})
}

// GridSpawn carries the full grid layout and every destroyed cell
// Observers rebuild the grid from the layout and apply tombstones atomically
type GridSpawn struct {
	Columns    int
	Rows       int
	CellWidth  float64
	CellHeight float64
	OffsetX    float64
	OffsetY    float64
	Origin     core.Vec2
	Points     float64
	ColorFrom  uint32 // Packed RGB, gradient start (row 0)
	ColorTo    uint32 // Packed RGB, gradient end
	Destroyed  []core.Point
}

func (*GridSpawn) Kind() Kind { return KindGridSpawn }

func (m *GridSpawn) Marshal() []byte {
	var b []byte
	b = appendSint(b, 1, int64(m.Columns))
	b = appendSint(b, 2, int64(m.Rows))
	b = appendDouble(b, 3, m.CellWidth)
	b = appendDouble(b, 4, m.CellHeight)
	b = appendDouble(b, 5, m.OffsetX)
	b = appendDouble(b, 6, m.OffsetY)
	b = appendVec(b, 7, m.Origin)
	b = appendDouble(b, 8, m.Points)
	b = appendVarint(b, 9, uint64(m.ColorFrom))
	b = appendVarint(b, 10, uint64(m.ColorTo))
	for _, p := range m.Destroyed {
		b = appendPoint(b, 11, p)
	}
	return b
}

func (m *GridSpawn) Unmarshal(b []byte) error {
	return parse(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Columns = int(f.sint())
		case 2:
			m.Rows = int(f.sint())
		case 3:
			m.CellWidth = f.double()
		case 4:
			m.CellHeight = f.double()
		case 5:
			m.OffsetX = f.double()
		case 6:
			m.OffsetY = f.double()
		case 7:
			m.Origin, err = f.vec()
		case 8:
			m.Points = f.double()
		case 9:
			m.ColorFrom = uint32(f.u64())
		case 10:
			m.ColorTo = uint32(f.u64())
		case 11:
			var p core.Point
			if p, err = f.point(); err == nil {
				m.Destroyed = append(m.Destroyed, p)
			}
		}
		return err
	})
}

// BallState is an authoritative ball snapshot; balls are keyed by owner
type BallState struct {
	Owner    core.PeerID
	Position core.Vec2
	Velocity core.Vec2
	Launched bool
}

func (*BallState) Kind() Kind { return KindBallState }

func (m *BallState) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.Owner))
	b = appendVec(b, 2, m.Position)
	b = appendVec(b, 3, m.Velocity)
	b = appendBool(b, 4, m.Launched)
	return b
}

func (m *BallState) Unmarshal(b []byte) error {
	return parse(b, func(f field) (err error) {
		switch f.num {
		case 1:
			m.Owner = core.PeerID(f.u64())
		case 2:
			m.Position, err = f.vec()
		case 3:
			m.Velocity, err = f.vec()
		case 4:
			m.Launched = f.flag()
		}
		return err
	})
}

// SessionState announces the session lifecycle and current score
type SessionState struct {
	SessionID string
	Active    bool
	Score     float64
}

func (*SessionState) Kind() Kind { return KindSessionState }

func (m *SessionState) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.SessionID)
	b = appendBool(b, 2, m.Active)
	b = appendDouble(b, 3, m.Score)
	return b
}

func (m *SessionState) Unmarshal(b []byte) error {
	return parse(b, func(f field) error {
		switch f.num {
		case 1:
			m.SessionID = f.str()
		case 2:
			m.Active = f.flag()
		case 3:
			m.Score = f.double()
		}
		return nil
	})
}

// Welcome assigns a joining observer its peer id and spawn slot
type Welcome struct {
	Peer      core.PeerID
	SessionID string
	Slot      int
}

func (*Welcome) Kind() Kind { return KindWelcome }

func (m *Welcome) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.Peer))
	b = appendString(b, 2, m.SessionID)
	b = appendSint(b, 3, int64(m.Slot))
	return b
}

func (m *Welcome) Unmarshal(b []byte) error {
	return parse(b, func(f field) error {
		switch f.num {
		case 1:
			m.Peer = core.PeerID(f.u64())
		case 2:
			m.SessionID = f.str()
		case 3:
			m.Slot = int(f.sint())
		}
		return nil
	})
}

// Despawn removes a departed peer's paddle and ball
type Despawn struct {
	Owner core.PeerID
}

func (*Despawn) Kind() Kind { return KindDespawn }

func (m *Despawn) Marshal() []byte {
	return appendVarint(nil, 1, uint64(m.Owner))
}

func (m *Despawn) Unmarshal(b []byte) error {
	return parse(b, func(f field) error {
		if f.num == 1 {
			m.Owner = core.PeerID(f.u64())
		}
		return nil
	})
}
