package parameter

// Grid defaults
const (
	DefaultColumns = 10
	DefaultRows    = 5

	DefaultCellWidth  = 3.0
	DefaultCellHeight = 1.0
	DefaultOffsetX    = 1.0
	DefaultOffsetY    = 1.0

	// DefaultBlockPoints is the base value of every spawned block
	DefaultBlockPoints = 100.0

	// DefaultPointsMultiplier scales base points before accumulation
	DefaultPointsMultiplier = 1.0

	// MaxGridDimension bounds columns and rows, including replicated layouts
	MaxGridDimension = 256
	MaxGridCells     = 4096

	// GridTopMargin is the gap between the top wall and the first block row edge
	GridTopMargin = 2.0
)

// Arena defaults in world units, origin at bottom-left
const (
	DefaultArenaWidth  = 60.0
	DefaultArenaHeight = 32.0

	// WallThickness is the depth of the arena side and top walls
	WallThickness = 1.0
)

// Player spawn slots as fractions of arena width, on the paddle row
var PlayerSpawnX = [MaxPlayers]float64{0.35, 0.65}

const (
	// PaddleRowY is the paddle centerline height
	PaddleRowY = 2.0
)
