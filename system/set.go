package system

import "github.com/lixenwraith/breakout/engine"

// Set is the full breakout system roster for one world
type Set struct {
	Spawn     *SpawnSystem
	Paddle    *PaddleSystem
	Ball      *BallSystem
	Collision *CollisionSystem
	Block     *BlockSystem
	Score     *ScoreSystem
	Camera    *CameraSystem
	Effect    *EffectSystem
}

// NewSet builds every system and registers it with the world in priority order
func NewSet(world *engine.World, layout GridLayout) *Set {
	camera := NewCameraSystem(world)
	block := NewBlockSystem(world, camera)
	ball := NewBallSystem(world, block)

	s := &Set{
		Spawn:     NewSpawnSystem(world, layout),
		Paddle:    NewPaddleSystem(world),
		Ball:      ball,
		Collision: NewCollisionSystem(world, ball),
		Block:     block,
		Score:     NewScoreSystem(world),
		Camera:    camera,
		Effect:    NewEffectSystem(world),
	}
	for _, sys := range s.All() {
		world.AddSystem(sys)
	}
	return s
}

// All returns the systems in construction order
func (s *Set) All() []engine.System {
	return []engine.System{s.Spawn, s.Paddle, s.Ball, s.Collision, s.Block, s.Score, s.Camera, s.Effect}
}

// Init resets every system
func (s *Set) Init() {
	for _, sys := range s.All() {
		sys.Init()
	}
}
