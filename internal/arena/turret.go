package arena

import (
	"math"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/core"
)

// Turret is the stationary cannon mounted on the central housing block.
// It has no life and tracks whichever tank is closest.
type Turret struct {
	Position  core.Vec3
	Heading   float64
	SinceShot float64

	cfg config.TurretConfig
}

func newTurret(housing core.Vec3, cfg config.TurretConfig, sinceShot float64) *Turret {
	pos := housing
	pos.Y = cfg.Height
	return &Turret{
		Position:  pos,
		Heading:   -math.Pi / 2, // facing +Z
		SinceShot: sinceShot,
		cfg:       cfg,
	}
}

// Forward is the barrel direction.
func (c *Turret) Forward() core.Vec3 {
	return core.V3(math.Cos(c.Heading), 0, -math.Sin(c.Heading))
}

// Muzzle is where shells leave the barrel.
func (c *Turret) Muzzle() core.Vec3 {
	return c.Position.Add(c.Forward().Scale(c.cfg.MuzzleOffset))
}

// nearest returns the closest live tank, earliest in the roster on ties.
func (c *Turret) nearest(tanks []*Tank) *Tank {
	var best *Tank
	bestDist := math.Inf(1)
	for _, t := range tanks {
		if t.dead {
			continue
		}
		if d := t.Position.Dist(c.Position); d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}

// update aims at the nearest tank and reports whether the cooldown elapsed.
func (c *Turret) update(tanks []*Tank, dt, interval, turnSpeed float64) bool {
	if target := c.nearest(tanks); target != nil {
		angle := core.AngleAt(c.Position, c.Muzzle(), target.Position)
		speed := turnSpeed
		threshold := core.Rad(c.cfg.SmoothDegrees)
		if angle > -threshold && angle < threshold {
			speed = math.Abs(angle/(2*math.Pi)) * turnSpeed
		}
		if angle > 0 {
			c.Heading += speed
		} else {
			c.Heading -= speed
		}
	}

	c.SinceShot += dt
	if c.SinceShot > interval {
		c.SinceShot = 0
		return true
	}
	return false
}
