package system

import (
	"github.com/lixenwraith/breakout/component"
	"github.com/lixenwraith/breakout/config"
	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/engine"
	"github.com/lixenwraith/breakout/event"
	"github.com/lixenwraith/breakout/parameter"
	"github.com/lixenwraith/breakout/wire"
)

// GridLayout is the static description of the block grid
// Every peer derives identical blocks from the same layout
type GridLayout struct {
	Columns    int
	Rows       int
	CellWidth  float64
	CellHeight float64
	OffsetX    float64
	OffsetY    float64
	Origin     core.Vec2 // Center of cell (0,0)
	Points     float64
	ColorFrom  core.RGB // Row 0
	ColorTo    core.RGB
}

// BlockSpec is one block produced by BuildGrid
type BlockSpec struct {
	Grid     core.Point
	Position core.Vec2
	Half     core.Vec2
	Color    core.RGB
	Points   float64
}

// LayoutFromConfig derives the grid layout, centering it horizontally below the top wall
func LayoutFromConfig(cfg config.Config) (GridLayout, error) {
	from, err := core.ParseHex(cfg.GradientTop)
	if err != nil {
		return GridLayout{}, core.Wrap(core.CodeConfiguration, "gradient top", err)
	}
	to, err := core.ParseHex(cfg.GradientEnd)
	if err != nil {
		return GridLayout{}, core.Wrap(core.CodeConfiguration, "gradient end", err)
	}

	stepX := cfg.CellWidth + cfg.OffsetX
	total := float64(cfg.Columns)*cfg.CellWidth + float64(cfg.Columns-1)*cfg.OffsetX
	left := (cfg.ArenaWidth-total)/2 + cfg.CellWidth/2

	return GridLayout{
		Columns:    cfg.Columns,
		Rows:       cfg.Rows,
		CellWidth:  cfg.CellWidth,
		CellHeight: cfg.CellHeight,
		OffsetX:    cfg.OffsetX,
		OffsetY:    cfg.OffsetY,
		Origin: core.Vec2{
			X: left + stepX*float64(cfg.Columns-1),
			Y: cfg.ArenaHeight - parameter.GridTopMargin - cfg.CellHeight/2,
		},
		Points:    cfg.BlockPoints,
		ColorFrom: from,
		ColorTo:   to,
	}, nil
}

// LayoutFromMessage rebuilds a layout from its replicated form
func LayoutFromMessage(m *wire.GridSpawn) GridLayout {
	return GridLayout{
		Columns:    m.Columns,
		Rows:       m.Rows,
		CellWidth:  m.CellWidth,
		CellHeight: m.CellHeight,
		OffsetX:    m.OffsetX,
		OffsetY:    m.OffsetY,
		Origin:     m.Origin,
		Points:     m.Points,
		ColorFrom:  core.UnpackRGB(m.ColorFrom),
		ColorTo:    core.UnpackRGB(m.ColorTo),
	}
}

// Message encodes the layout with the destroyed cells
func (l GridLayout) Message(destroyed []core.Point) *wire.GridSpawn {
	return &wire.GridSpawn{
		Columns:    l.Columns,
		Rows:       l.Rows,
		CellWidth:  l.CellWidth,
		CellHeight: l.CellHeight,
		OffsetX:    l.OffsetX,
		OffsetY:    l.OffsetY,
		Origin:     l.Origin,
		Points:     l.Points,
		ColorFrom:  l.ColorFrom.Packed(),
		ColorTo:    l.ColorTo.Packed(),
		Destroyed:  destroyed,
	}
}

// BuildGrid lays out Columns x Rows blocks
// Cell (x,y) sits at Origin - ((CellWidth+OffsetX)*x, (CellHeight+OffsetY)*y)
// and takes the gradient color at y/Rows, so color depends on the row only
func BuildGrid(l GridLayout) ([]BlockSpec, error) {
	if l.Columns <= 0 || l.Rows <= 0 {
		return nil, core.Errorf(core.CodeConfiguration, "grid dimensions must be positive, got %dx%d", l.Columns, l.Rows)
	}
	if l.Columns > parameter.MaxGridDimension || l.Rows > parameter.MaxGridDimension || l.Columns*l.Rows > parameter.MaxGridCells {
		return nil, core.Errorf(core.CodeConfiguration, "grid %dx%d exceeds %d cells", l.Columns, l.Rows, parameter.MaxGridCells)
	}
	if l.CellWidth <= 0 || l.CellHeight <= 0 {
		return nil, core.Errorf(core.CodeConfiguration, "cell size must be positive, got %gx%g", l.CellWidth, l.CellHeight)
	}

	gradient := core.NewGradient(l.ColorFrom, l.ColorTo)
	half := core.Vec2{X: l.CellWidth / 2, Y: l.CellHeight / 2}
	stepX := l.CellWidth + l.OffsetX
	stepY := l.CellHeight + l.OffsetY

	specs := make([]BlockSpec, 0, l.Columns*l.Rows)
	for y := 0; y < l.Rows; y++ {
		color := gradient.Evaluate(float64(y) / float64(l.Rows))
		for x := 0; x < l.Columns; x++ {
			specs = append(specs, BlockSpec{
				Grid:     core.Point{X: x, Y: y},
				Position: l.Origin.Sub(core.Vec2{X: stepX * float64(x), Y: stepY * float64(y)}),
				Half:     half,
				Color:    color,
				Points:   l.Points,
			})
		}
	}
	return specs, nil
}

// SpawnSystem owns the block grid lifecycle
type SpawnSystem struct {
	engine.SystemBase
	layout  GridLayout
	spawned bool
}

// NewSpawnSystem creates the spawner for a layout
func NewSpawnSystem(world *engine.World, layout GridLayout) *SpawnSystem {
	return &SpawnSystem{
		SystemBase: engine.NewSystemBase(world),
		layout:     layout,
	}
}

func (s *SpawnSystem) Init() {
	s.spawned = false
}

func (s *SpawnSystem) Name() string {
	return "spawn"
}

func (s *SpawnSystem) Priority() int {
	return parameter.PrioritySpawn
}

func (s *SpawnSystem) Update() {}

// Layout returns the active grid layout
func (s *SpawnSystem) Layout() GridLayout {
	return s.layout
}

// Spawned reports whether the grid was spawned this session
func (s *SpawnSystem) Spawned() bool {
	return s.spawned
}

// Spawn builds the grid once per session on the authority and replicates it as one message
// Later calls are no-ops
func (s *SpawnSystem) Spawn() error {
	if !s.Resource.IsAuthority() {
		return core.Errorf(core.CodeNotAuthority, "spawn requires authority")
	}
	if s.spawned {
		return nil
	}

	specs, err := BuildGrid(s.layout)
	if err != nil {
		return err
	}
	s.replace(specs, nil)
	s.spawned = true

	s.Resource.Broadcast(s.layout.Message(s.World.Tombstones()))
	s.Resource.Logger.Info("grid spawned", "columns", s.layout.Columns, "rows", s.layout.Rows)
	return nil
}

// SendGrid sends the current grid with tombstones to one peer, e.g. a late joiner
func (s *SpawnSystem) SendGrid(peer core.PeerID) bool {
	if !s.spawned {
		return false
	}
	return s.Resource.SendTo(peer, s.layout.Message(s.World.Tombstones()))
}

// ApplyGridSpawn replaces the observer's grid atomically from a replicated layout
func (s *SpawnSystem) ApplyGridSpawn(m *wire.GridSpawn) error {
	layout := LayoutFromMessage(m)
	specs, err := BuildGrid(layout)
	if err != nil {
		return core.Wrap(core.CodeReplicationDesync, "grid spawn", err)
	}
	s.layout = layout
	s.replace(specs, m.Destroyed)
	s.spawned = true
	return nil
}

// replace swaps the whole grid in a single tick; tombstoned cells are skipped
func (s *SpawnSystem) replace(specs []BlockSpec, destroyed []core.Point) {
	s.World.ClearBlocks()
	for _, p := range destroyed {
		s.World.Tombstone(p)
	}

	for _, spec := range specs {
		if s.World.IsTombstoned(spec.Grid) {
			continue
		}
		s.World.AddBlock(component.BlockComponent{
			Grid:     spec.Grid,
			Position: spec.Position,
			Half:     spec.Half,
			Points:   spec.Points,
			Color:    spec.Color,
			State:    component.BlockActive,
		})
	}

	s.Resource.Publish(event.EventGridSpawned, &event.GridSpawnedPayload{
		Blocks:    s.World.Blocks.CountEntities(),
		Destroyed: len(destroyed),
	})
}
