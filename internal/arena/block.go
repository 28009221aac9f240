// Package arena is the deterministic tank combat simulation: blocks and moving
// blocks, reflecting bullets, tanks with their controllers, the stationary
// turret and the power-up cycle. A World advances only through Step, with the
// caller supplying input and the elapsed simulated time.
package arena

import (
	"fmt"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

// BlockType is the closed set of wall codes a level matrix may contain.
type BlockType int

const (
	BlockUp          BlockType = iota // U: always reflects along +Z
	BlockDown                         // D: always reflects along -Z
	BlockLeft                         // L: always reflects along -X
	BlockRight                        // R: always reflects along +X
	BlockSplit                        // H: left or right by the side of the contact
	BlockOmni                         // *: classified by the angle of the contact
	BlockTurretCore                   // K: turret housing, center
	BlockTurretRing                   // k: turret housing, satellite
	BlockMoverZ                       // Z: moving block, slow
	BlockMoverY                       // Y: moving block, medium, starts toward -Z
	BlockMoverW                       // W: moving block, fast
)

var blockCodes = map[rune]BlockType{
	'U': BlockUp,
	'D': BlockDown,
	'L': BlockLeft,
	'R': BlockRight,
	'H': BlockSplit,
	'*': BlockOmni,
	'K': BlockTurretCore,
	'k': BlockTurretRing,
	'Z': BlockMoverZ,
	'Y': BlockMoverY,
	'W': BlockMoverW,
}

// ParseBlockType maps a matrix character to a block type.
func ParseBlockType(r rune) (BlockType, bool) {
	t, ok := blockCodes[r]
	return t, ok
}

// Code returns the matrix character of the type.
func (t BlockType) Code() rune {
	for r, bt := range blockCodes {
		if bt == t {
			return r
		}
	}
	return '?'
}

// Movable reports whether blocks of this type ride a track.
func (t BlockType) Movable() bool {
	switch t {
	case BlockMoverZ, BlockMoverY, BlockMoverW:
		return true
	}
	return false
}

// Housing reports whether the type belongs to the turret housing.
// Cleared bullets touching housing are destroyed instead of reflected.
func (t BlockType) Housing() bool {
	return t == BlockTurretCore || t == BlockTurretRing
}

// Direction is the side of a block a contact is classified to.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "U"
	case DirDown:
		return "D"
	case DirLeft:
		return "L"
	case DirRight:
		return "R"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Vector returns the unit vector of the direction.
func (d Direction) Vector() core.Vec3 {
	switch d {
	case DirUp:
		return core.V3(0, 0, 1)
	case DirDown:
		return core.V3(0, 0, -1)
	case DirRight:
		return core.V3(1, 0, 0)
	default:
		return core.V3(-1, 0, 0)
	}
}

// Hand is the side a tank passes a wall on when contouring it.
type Hand int

const (
	HandNone Hand = iota
	HandLeft
	HandRight
)

// ParseHand maps a hand matrix character. Anything but L or R means no hand.
func ParseHand(r rune) Hand {
	switch r {
	case 'L':
		return HandLeft
	case 'R':
		return HandRight
	}
	return HandNone
}

// Sign is +1 for a right hand and -1 otherwise.
func (h Hand) Sign() float64 {
	if h == HandRight {
		return 1
	}
	return -1
}

// Block is one wall cell. Blocks are owned by their Level and never destroyed.
type Block struct {
	Type     BlockType
	Hand     Hand
	Row, Col int
	Position core.Vec3
	Collider core.Box3

	// Origin is the index of the block whose position anchors angle
	// classification. It is the block itself except for turret housing,
	// which shares the central housing block.
	Origin int

	half     float64
	heading  core.Vec3 // moving direction, unit
	speed    float64
	traveled float64
	track    float64
}

// Movable reports whether the block rides a track.
func (b *Block) Movable() bool {
	return b.Type.Movable()
}

// Velocity returns the block's displacement per second.
func (b *Block) Velocity() core.Vec3 {
	return b.heading.Scale(b.speed)
}

// classify buckets the contact point ref relative to the origin position.
func (b *Block) classify(origin, ref core.Vec3) Direction {
	switch b.Type {
	case BlockUp:
		return DirUp
	case BlockDown:
		return DirDown
	case BlockLeft:
		return DirLeft
	case BlockRight:
		return DirRight
	case BlockSplit:
		if ref.X-b.Position.X > 0 {
			return DirRight
		}
		return DirLeft
	}

	angle := core.Deg(core.SignedAngle(core.V3(0, 0, 1), ref.Sub(origin)))
	switch {
	case angle > -45 && angle < 45:
		return DirDown
	case angle > -135 && angle < -45:
		return DirLeft
	case angle > 45 && angle < 135:
		return DirRight
	default:
		return DirUp
	}
}

// advance moves a movable block along its track and rebuilds its collider.
func (b *Block) advance(dt float64) {
	if !b.Movable() {
		return
	}
	delta := b.speed * dt
	b.traveled += abs(delta)
	b.Position = b.Position.Add(b.heading.Scale(delta))
	b.Collider = core.BoxAround(b.Position, b.half)

	if b.traveled >= b.track {
		b.traveled = 0
		b.heading.Z = -b.heading.Z
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
