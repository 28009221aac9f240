package arena

import (
	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/core"
)

// Bullet is a projectile bouncing off walls a bounded number of times.
type Bullet struct {
	ID            int
	Author        string
	DamageBoosted bool
	Position      core.Vec3
	Direction     core.Vec3
	Collider      core.Box3
	Active        bool

	Reflections        int
	FramesSinceReflect int
	// OutOfCannon is false only while a turret shell is still inside its housing.
	OutOfCannon bool
}

func newBullet(id int, author string, boosted bool, pos, dir core.Vec3) *Bullet {
	return &Bullet{
		ID:            id,
		Author:        author,
		DamageBoosted: boosted,
		Position:      pos,
		Direction:     dir.Normalize(),
		Active:        true,
		OutOfCannon:   author != CannonAuthor,
	}
}

// advance moves the bullet one tick and rebuilds its collider.
func (b *Bullet) advance(cfg config.BulletConfig) {
	if !b.Active {
		return
	}
	b.Position = b.Position.Add(b.Direction.Scale(cfg.Speed))
	b.Collider = core.BoxAround(b.Position, cfg.Radius)
}

// collide runs the reflection state machine against every block in scan order.
// It returns true when the bullet reflected this tick.
func (b *Bullet) collide(lvl *Level, maxReflections int) bool {
	if !b.Active {
		return false
	}
	b.FramesSinceReflect++

	reflected := false
	for i := range lvl.Blocks {
		blk := &lvl.Blocks[i]
		if !b.Collider.Intersects(blk.Collider) {
			continue
		}

		if !b.OutOfCannon && b.FramesSinceReflect > 5 {
			b.OutOfCannon = true
		}

		if blk.Type.Housing() && b.OutOfCannon {
			b.Active = false
		} else if b.FramesSinceReflect > 1 && b.OutOfCannon {
			b.Reflections++
			if b.Reflections > maxReflections {
				b.Active = false
			} else {
				n := lvl.DirectionVector(i, b.Position)
				b.Direction = b.Direction.Reflect(n)
				b.FramesSinceReflect = 0
				reflected = true
			}
		}

		if !b.Active {
			break
		}
	}
	return reflected
}
