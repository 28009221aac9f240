package arena

import (
	"math/rand"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/core"
)

// PowerUpKind is the effect a pickup grants.
type PowerUpKind int

const (
	PowerUpHeal PowerUpKind = iota
	PowerUpBoost
)

func (k PowerUpKind) String() string {
	if k == PowerUpBoost {
		return "boost"
	}
	return "heal"
}

// PowerUp is the single pickup a level holds at any time.
type PowerUp struct {
	Kind     PowerUpKind
	Position core.Vec3
	Active   bool
	// Timer counts down while inactive. A negative timer ends the boost
	// effect and, while inactive, brings the replacement.
	Timer float64
}

// initialPowerUp is spent and expired so the first pass spawns a real one.
// Its kind is chosen so the first replacement is a heal.
func initialPowerUp() PowerUp {
	return PowerUp{Kind: PowerUpBoost, Timer: -1}
}

// updatePowerUp runs one power-up pass. It returns true when the player
// picked the power-up up.
func (l *Level) updatePowerUp(p *PowerUp, player *Tank, cfg config.PowerUpConfig, dt float64, rng *rand.Rand) bool {
	picked := false
	if !p.Active {
		p.Timer -= dt
	}

	if player != nil {
		if p.Active && player.Position.Dist(p.Position) < cfg.PickupDistance {
			switch p.Kind {
			case PowerUpHeal:
				player.heal(cfg.HealAmount)
			case PowerUpBoost:
				player.DamageBoosted = true
			}
			p.Active = false
			p.Timer = cfg.EffectTime
			picked = true
		}
		if player.DamageBoosted && p.Timer < 0 {
			player.DamageBoosted = false
		}
	}

	if !p.Active && p.Timer < 0 && len(l.empty) > 0 {
		*p = PowerUp{
			Kind:     (p.Kind + 1) % 2,
			Position: l.empty[rng.Intn(len(l.empty))],
			Active:   true,
		}
	}
	return picked
}
