package arena

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/core"
)

// Level build errors. They describe malformed level data and are never
// recovered from inside the simulation.
var (
	ErrRaggedMatrix = errors.New("matrix rows have unequal length")
	ErrHandMismatch = errors.New("hand matrix does not match level matrix")
	ErrUnknownCell  = errors.New("unknown cell code")
	ErrNoPlayer     = errors.New("no player spawn")
	ErrMissingSpawn = errors.New("no spawn marker for tank")
	ErrMissingNest  = errors.New("no nest marker for tank")
	ErrNoLevel      = errors.New("level not found")
)

const (
	cellEmpty       = ' '
	cellLightTarget = '.'
	playerName      = "P"
)

// LevelData is the level description handed over by the level data collaborator.
type LevelData struct {
	Index  int
	Name   string
	Matrix []string
	// Hands parallels Matrix: L or R marks the contour side of a wall cell.
	// Any other character, or an empty Hands, means no hand.
	Hands []string
	// Lights holds the ambient and directional intensity pair.
	Lights [2]float64
	// Facing is the initial heading in degrees per spawn name.
	Facing map[string]float64
}

// Level is the parsed, immutable grid plus the blocks built from it.
type Level struct {
	Index    int
	Name     string
	Rows     int
	Cols     int
	CellSize float64
	Lights   [2]float64
	Blocks   []Block

	cells   [][]rune
	spawns  map[string]core.Vec3
	order   []string // spawn names in scan order
	nests   map[string][]core.Vec3
	lights  []core.Vec3
	empty   []core.Vec3
	facing  map[string]float64
	turret  int // index of the central housing block, or -1
	boundLo core.Vec3
	boundHi core.Vec3
}

// NewLevel validates level data and builds its blocks.
func NewLevel(data LevelData, cfg config.BlocksConfig) (*Level, error) {
	if len(data.Matrix) == 0 {
		return nil, fmt.Errorf("arena: level %d: %w", data.Index, ErrNoPlayer)
	}

	cols := utf8.RuneCountInString(data.Matrix[0])
	cells := make([][]rune, len(data.Matrix))
	for r, row := range data.Matrix {
		cells[r] = []rune(row)
		if len(cells[r]) != cols {
			return nil, fmt.Errorf("arena: level %d row %d has %d cells, expected %d: %w",
				data.Index, r, len(cells[r]), cols, ErrRaggedMatrix)
		}
	}

	hands, err := parseHands(data, len(cells), cols)
	if err != nil {
		return nil, err
	}

	cs := cfg.CellSize
	if cs <= 0 {
		cs = 4
	}

	lvl := &Level{
		Index:    data.Index,
		Name:     data.Name,
		Rows:     len(cells),
		Cols:     cols,
		CellSize: cs,
		Lights:   data.Lights,
		cells:    cells,
		spawns:   make(map[string]core.Vec3),
		nests:    make(map[string][]core.Vec3),
		facing:   make(map[string]float64),
		turret:   -1,
	}
	for name, deg := range data.Facing {
		lvl.facing[name] = deg
	}

	for r, row := range cells {
		for c, ch := range row {
			if err := lvl.addCell(r, c, ch, hands[r][c], cfg); err != nil {
				return nil, fmt.Errorf("arena: level %d cell (%d,%d): %w", data.Index, r, c, err)
			}
		}
	}

	if _, ok := lvl.spawns[playerName]; !ok {
		return nil, fmt.Errorf("arena: level %d: %w", data.Index, ErrNoPlayer)
	}
	for _, name := range lvl.order {
		if name == playerName {
			continue
		}
		if len(lvl.nests[name]) == 0 {
			return nil, fmt.Errorf("arena: level %d tank %s: %w", data.Index, name, ErrMissingNest)
		}
	}

	lvl.resolveOrigins()

	half := core.V3(float64(cols)*cs/2, 0, float64(len(cells))*cs/2)
	lvl.boundLo = core.V3(-half.X-cs, -cs, -half.Z-cs)
	lvl.boundHi = core.V3(half.X+cs, 3*cs, half.Z+cs)
	return lvl, nil
}

func parseHands(data LevelData, rows, cols int) ([][]Hand, error) {
	hands := make([][]Hand, rows)
	if len(data.Hands) == 0 {
		for r := range hands {
			hands[r] = make([]Hand, cols)
		}
		return hands, nil
	}
	if len(data.Hands) != rows {
		return nil, fmt.Errorf("arena: level %d has %d hand rows, expected %d: %w",
			data.Index, len(data.Hands), rows, ErrHandMismatch)
	}
	for r, row := range data.Hands {
		runes := []rune(row)
		if len(runes) != cols {
			return nil, fmt.Errorf("arena: level %d hand row %d: %w", data.Index, r, ErrHandMismatch)
		}
		hands[r] = make([]Hand, cols)
		for c, ch := range runes {
			hands[r][c] = ParseHand(ch)
		}
	}
	return hands, nil
}

func (l *Level) addCell(r, c int, ch rune, hand Hand, cfg config.BlocksConfig) error {
	pos := l.CellPosition(r, c)

	if bt, ok := ParseBlockType(ch); ok {
		b := Block{
			Type:     bt,
			Hand:     hand,
			Row:      r,
			Col:      c,
			Position: pos,
			Collider: core.BoxAround(pos, l.CellSize/2),
			Origin:   len(l.Blocks),
			half:     l.CellSize / 2,
		}
		if bt.Movable() {
			b.track = float64(cfg.TrackCells) * l.CellSize
			switch bt {
			case BlockMoverW:
				b.heading, b.speed = core.V3(0, 0, 1), cfg.SpeedW
			case BlockMoverY:
				b.heading, b.speed = core.V3(0, 0, -1), cfg.SpeedY
			default:
				b.heading, b.speed = core.V3(0, 0, 1), cfg.SpeedZ
			}
		}
		if bt == BlockTurretCore && l.turret < 0 {
			l.turret = len(l.Blocks)
		}
		l.Blocks = append(l.Blocks, b)
		return nil
	}

	switch {
	case ch == cellEmpty:
		l.empty = append(l.empty, pos)
	case ch == cellLightTarget:
		l.lights = append(l.lights, pos)
	case unicode.IsUpper(ch):
		name := string(ch)
		if _, dup := l.spawns[name]; !dup {
			l.spawns[name] = pos
			l.order = append(l.order, name)
		}
	case unicode.IsLower(ch):
		name := string(unicode.ToUpper(ch))
		l.nests[name] = append(l.nests[name], pos)
	default:
		return fmt.Errorf("%q: %w", ch, ErrUnknownCell)
	}
	return nil
}

// resolveOrigins points every housing block at the central housing block.
func (l *Level) resolveOrigins() {
	if l.turret < 0 {
		return
	}
	for i := range l.Blocks {
		if l.Blocks[i].Type.Housing() {
			l.Blocks[i].Origin = l.turret
		}
	}
}

// CellPosition maps a grid index to the world position of a block in that cell.
func (l *Level) CellPosition(row, col int) core.Vec3 {
	cs := l.CellSize
	return core.Vec3{
		X: -(float64(l.Cols)*cs)/2 + float64(col)*cs,
		Y: cs / 2,
		Z: -(float64(l.Rows)*cs)/2 + float64(row)*cs,
	}
}

// Cell returns the matrix character at the grid index.
func (l *Level) Cell(row, col int) rune {
	if row < 0 || row >= l.Rows || col < 0 || col >= l.Cols {
		return cellEmpty
	}
	return l.cells[row][col]
}

// Classify returns the side of block i the reference point lies on.
func (l *Level) Classify(i int, ref core.Vec3) Direction {
	b := &l.Blocks[i]
	return b.classify(l.Blocks[b.Origin].Position, ref)
}

// DirectionVector returns the unit vector of Classify.
func (l *Level) DirectionVector(i int, ref core.Vec3) core.Vec3 {
	return l.Classify(i, ref).Vector()
}

// Advance moves every movable block.
func (l *Level) Advance(dt float64) {
	for i := range l.Blocks {
		l.Blocks[i].advance(dt)
	}
}

// Spawn returns the cell position of the named tank's spawn marker.
// Tanks stand on the ground below it.
func (l *Level) Spawn(name string) (core.Vec3, error) {
	pos, ok := l.spawns[name]
	if !ok {
		return core.Vec3{}, fmt.Errorf("arena: level %d tank %s: %w", l.Index, name, ErrMissingSpawn)
	}
	return pos, nil
}

// SpawnNames lists the spawn markers in matrix scan order.
func (l *Level) SpawnNames() []string {
	return append([]string(nil), l.order...)
}

// Nests returns the named tank's nest points in scan order.
func (l *Level) Nests(name string) []core.Vec3 {
	return l.nests[name]
}

// Facing returns the initial heading in radians for the named tank.
func (l *Level) Facing(name string) float64 {
	return core.Rad(l.facing[name])
}

// EmptyCells returns the cell position of every blank cell.
func (l *Level) EmptyCells() []core.Vec3 {
	return l.empty
}

// LightTargets returns the cell position of every light marker.
func (l *Level) LightTargets() []core.Vec3 {
	return l.lights
}

// Turret returns the central housing block position, if the level has one.
func (l *Level) Turret() (core.Vec3, bool) {
	if l.turret < 0 {
		return core.Vec3{}, false
	}
	return l.Blocks[l.turret].Position, true
}

// InBounds reports whether p lies within one cell of the level area.
func (l *Level) InBounds(p core.Vec3) bool {
	return p.X >= l.boundLo.X && p.X <= l.boundHi.X &&
		p.Y >= l.boundLo.Y && p.Y <= l.boundHi.Y &&
		p.Z >= l.boundLo.Z && p.Z <= l.boundHi.Z
}
