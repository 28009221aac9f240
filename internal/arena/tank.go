package arena

import (
	"math"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/core"
)

// Tank is a combatant driven by the player's input or by an AI controller.
type Tank struct {
	ID       int
	Name     string
	Life     int
	Position core.Vec3
	Heading  float64 // radians about Y, 0 faces +X
	Collider core.Box3

	GodMode       bool
	DamageBoosted bool

	// CumulativeDamage counts hits taken since the AI last changed mode.
	CumulativeDamage int
	// Moved reports whether the last input pass changed the position.
	Moved bool

	Spawn core.Vec3
	AI    *AIState // nil for the player

	cfg          config.TankConfig
	lastPosition core.Vec3 // position after the previous input pass
	prevPosition core.Vec3 // position at the end of the previous tank pass
	dead         bool
}

func newTank(id int, name string, spawn core.Vec3, heading float64, cfg config.TankConfig) *Tank {
	pos := spawn
	pos.Y = 0
	return &Tank{
		ID:           id,
		Name:         name,
		Life:         cfg.MaxLife,
		Position:     pos,
		Heading:      heading,
		Moved:        true,
		Spawn:        spawn,
		cfg:          cfg,
		lastPosition: pos,
		prevPosition: pos,
	}
}

// IsPlayer reports whether the tank takes human input.
func (t *Tank) IsPlayer() bool {
	return t.AI == nil
}

// Alive reports whether the tank still has life left.
func (t *Tank) Alive() bool {
	return t.Life > 0
}

// HealthRatio is life over max life, clamped to [0, 1].
func (t *Tank) HealthRatio() float64 {
	if t.cfg.MaxLife <= 0 {
		return 0
	}
	return core.ClampF(float64(t.Life)/float64(t.cfg.MaxLife), 0, 1)
}

// Forward is the unit vector the hull points along.
func (t *Tank) Forward() core.Vec3 {
	return core.V3(math.Cos(t.Heading), 0, -math.Sin(t.Heading))
}

// Muzzle is the world position bullets leave from.
func (t *Tank) Muzzle() core.Vec3 {
	m := t.Position.Add(t.Forward().Scale(t.cfg.MuzzleOffset))
	m.Y += t.cfg.MuzzleHeight
	return m
}

// back points from the muzzle to the hull, flattened.
func (t *Tank) back() core.Vec3 {
	return t.Position.Sub(t.Muzzle()).Flat()
}

// rotate turns the hull. A steering angle inside the smoothing threshold
// slows the turn in proportion to the angle. Keyboard turns pass no angle.
func (t *Tank) rotate(positive bool, angle *float64, speed float64) {
	threshold := core.Rad(t.cfg.SmoothDegrees)
	if angle != nil && *angle > -threshold && *angle < threshold {
		speed = math.Abs(*angle/math.Pi) * speed
	}
	if positive {
		t.Heading += speed
	} else {
		t.Heading -= speed
	}
}

// steer turns toward a signed steering angle.
func (t *Tank) steer(angle, speed float64) {
	t.rotate(angle > 0, &angle, speed)
}

func (t *Tank) move(ahead, slow bool) {
	speed := t.cfg.Speed
	if slow {
		speed *= t.cfg.SlowFactor
	}
	if !ahead {
		speed = -speed
	}
	t.Position = t.Position.Add(t.Forward().Scale(speed))
}

// applyInput resolves the player's intents for one tick. It returns true
// when the fire edge is present.
func (t *Tank) applyInput(in core.InputFrame) bool {
	if in.Has(core.ActionRotateLeft) {
		t.rotate(true, nil, t.cfg.RotateSpeed)
	}
	if in.Has(core.ActionRotateRight) {
		t.rotate(false, nil, t.cfg.RotateSpeed)
	}
	if in.Has(core.ActionForward) {
		t.move(true, false)
	}
	if in.Has(core.ActionBackward) {
		t.move(false, false)
	}

	if stick := in.Stick(); stick.Len() != 0 {
		t.steer(core.SignedAngle(t.Forward(), stick)*t.cfg.StickGain, t.cfg.RotateSpeed)
		t.move(true, false)
	}

	return in.Has(core.ActionFire)
}

// settle records whether the last pass moved the tank.
func (t *Tank) settle() {
	t.Moved = t.lastPosition.Dist(t.Position) > 0
	t.lastPosition = t.Position
}

func (t *Tank) updateCollider(cellSize float64) {
	center := t.Position.Add(core.V3(0, cellSize/2, 0))
	t.Collider = core.BoxAround(center, cellSize/2)
}

// resolveBlocks pushes the tank out of every touched block in scan order.
// The collider is not refreshed between blocks.
func (t *Tank) resolveBlocks(lvl *Level, dt float64) {
	half := lvl.CellSize / 2
	gap := lvl.CellSize + 0.01

	for i := range lvl.Blocks {
		blk := &lvl.Blocks[i]
		if !t.Collider.Intersects(blk.Collider) {
			continue
		}

		// Carried along by a moving block it faces side-on.
		if blk.Movable() {
			dir := lvl.Classify(i, t.Position)
			if dir == DirLeft || dir == DirRight {
				dz := t.Position.Z - blk.Position.Z
				if dz < half && dz > -half && math.Abs(t.Position.X-blk.Position.X) > half {
					t.Position = t.prevPosition
					t.Position.Z += blk.Velocity().Z * dt
				}
			}
		}

		dx := t.Position.X - blk.Position.X
		dz := t.Position.Z - blk.Position.Z
		switch lvl.Classify(i, t.Position) {
		case DirLeft:
			if dx < half {
				t.Position.X = blk.Position.X - gap
			}
		case DirRight:
			if dx > half {
				t.Position.X = blk.Position.X + gap
			}
		case DirUp:
			if dz < half {
				t.Position.Z = blk.Position.Z - gap
			}
		case DirDown:
			if dz > half {
				t.Position.Z = blk.Position.Z + gap
			}
		}
	}
}

// takeHits applies every intersecting active bullet the team table allows.
// It returns the number of bullets absorbed.
func (t *Tank) takeHits(bullets []*Bullet, teams TeamTable) int {
	hits := 0
	for _, b := range bullets {
		if !b.Active || teams.Exempt(b.Author, t.Name) || !b.Collider.Intersects(t.Collider) {
			continue
		}
		if !t.GodMode {
			damage := 1
			if b.DamageBoosted {
				damage = 2
			}
			t.Life = max(t.Life-damage, 0)
		}
		t.CumulativeDamage++
		b.Active = false
		hits++
	}
	return hits
}

func (t *Tank) heal(amount int) {
	t.Life = min(t.Life+amount, t.cfg.MaxLife)
}
