package engine

import (
	"slices"

	"github.com/lixenwraith/breakout/component"
	"github.com/lixenwraith/breakout/core"
	"github.com/lixenwraith/breakout/physics"
)

// World contains all session entities and their components using typed stores
// Owned by the tick goroutine; systems mutate it without additional locking
type World struct {
	nextEntityID core.Entity

	Resource *Resource

	Balls   *Store[component.BallComponent]
	Blocks  *Store[component.BlockComponent]
	Paddles *Store[component.PaddleComponent]
	Camera  component.CameraComponent

	// Arena is the playable area; the region below Arena.Min.Y is out of bounds
	Arena physics.Rect
	Walls []physics.Rect

	// Grid coordinate index, identifies blocks across peers
	blockByGrid map[core.Point]core.Entity
	// Cells destroyed this session, never respawned
	tombstones map[core.Point]struct{}

	systems []System
}

// NewWorld creates an empty world bound to the given resources
func NewWorld(res *Resource) *World {
	return &World{
		nextEntityID: 1,
		Resource:     res,
		Balls:        NewStore[component.BallComponent](),
		Blocks:       NewStore[component.BlockComponent](),
		Paddles:      NewStore[component.PaddleComponent](),
		blockByGrid:  make(map[core.Point]core.Entity),
		tombstones:   make(map[core.Point]struct{}),
	}
}

// CreateEntity reserves a new entity ID
func (w *World) CreateEntity() core.Entity {
	id := w.nextEntityID
	w.nextEntityID++
	return id
}

// DestroyEntity removes all components associated with an entity and cancels its tasks
func (w *World) DestroyEntity(e core.Entity) {
	if b, ok := w.Blocks.GetComponent(e); ok {
		if w.blockByGrid[b.Grid] == e {
			delete(w.blockByGrid, b.Grid)
		}
	}
	w.Blocks.RemoveEntity(e)
	w.Balls.RemoveEntity(e)
	w.Paddles.RemoveEntity(e)

	if w.Resource != nil && w.Resource.Tasks != nil {
		w.Resource.Tasks.CancelOwner(e)
	}
}

// SetArena sizes the playable area and rebuilds the left, right and top walls
func (w *World) SetArena(width, height, thickness float64) {
	w.Arena = physics.Rect{Max: core.Vec2{X: width, Y: height}}
	w.Walls = []physics.Rect{
		{Min: core.Vec2{X: -thickness, Y: 0}, Max: core.Vec2{X: 0, Y: height + thickness}},
		{Min: core.Vec2{X: width, Y: 0}, Max: core.Vec2{X: width + thickness, Y: height + thickness}},
		{Min: core.Vec2{X: -thickness, Y: height}, Max: core.Vec2{X: width + thickness, Y: height + thickness}},
	}
	w.Camera.Rest = core.Vec2{X: width / 2, Y: height / 2}
}

// OutOfBounds reports whether a circle has fully left the arena through the floor
func (w *World) OutOfBounds(pos core.Vec2, radius float64) bool {
	return pos.Y+radius < w.Arena.Min.Y
}

// === Block grid index ===

// AddBlock inserts a block and indexes it by grid coordinate
func (w *World) AddBlock(b component.BlockComponent) core.Entity {
	e := w.CreateEntity()
	w.Blocks.SetComponent(e, b)
	w.blockByGrid[b.Grid] = e
	return e
}

// BlockAt returns the live block at a grid coordinate
func (w *World) BlockAt(p core.Point) (core.Entity, bool) {
	e, ok := w.blockByGrid[p]
	return e, ok
}

// Tombstone records a grid cell as destroyed; returns false if it already was
func (w *World) Tombstone(p core.Point) bool {
	if _, ok := w.tombstones[p]; ok {
		return false
	}
	w.tombstones[p] = struct{}{}
	return true
}

// IsTombstoned reports whether a grid cell was destroyed
func (w *World) IsTombstoned(p core.Point) bool {
	_, ok := w.tombstones[p]
	return ok
}

// Tombstones returns destroyed cells sorted by row then column
func (w *World) Tombstones() []core.Point {
	out := make([]core.Point, 0, len(w.tombstones))
	for p := range w.tombstones {
		out = append(out, p)
	}
	slices.SortFunc(out, comparePoints)
	return out
}

// ClearBlocks removes every block and tombstone
func (w *World) ClearBlocks() {
	blocks := w.Blocks.All()
	w.Blocks.RemoveBatch(blocks)
	if w.Resource != nil && w.Resource.Tasks != nil {
		for _, e := range blocks {
			w.Resource.Tasks.CancelOwner(e)
		}
	}
	clear(w.blockByGrid)
	clear(w.tombstones)
}

func comparePoints(a, b core.Point) int {
	if a.Y != b.Y {
		return a.Y - b.Y
	}
	return a.X - b.X
}

// === Systems ===

// AddSystem adds a system to the world and sorts by priority
func (w *World) AddSystem(system System) {
	w.systems = append(w.systems, system)

	// Sort by priority (bubble sort, small N)
	for i := 0; i < len(w.systems)-1; i++ {
		for j := 0; j < len(w.systems)-i-1; j++ {
			if w.systems[j].Priority() > w.systems[j+1].Priority() {
				w.systems[j], w.systems[j+1] = w.systems[j+1], w.systems[j]
			}
		}
	}
}

// Systems returns a copy of all registered systems in priority order
func (w *World) Systems() []System {
	result := make([]System, len(w.systems))
	copy(result, w.systems)
	return result
}

// Update runs all systems sequentially in priority order
func (w *World) Update() {
	for _, system := range w.systems {
		system.Update()
	}
}
