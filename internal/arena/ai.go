package arena

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/core"
)

// Profile selects the AI state machine.
type Profile int

const (
	// ProfileStandard is the three-state nest, camp and retreat machine.
	ProfileStandard Profile = iota
	// ProfileEvasive adds the unjam, flee, despair and hidden modes.
	ProfileEvasive
)

func (p Profile) String() string {
	if p == ProfileEvasive {
		return "evasive"
	}
	return "standard"
}

// ParseProfile resolves a profile name. Empty means standard.
func ParseProfile(name string) (Profile, error) {
	switch name {
	case "", "standard":
		return ProfileStandard, nil
	case "evasive":
		return ProfileEvasive, nil
	}
	return ProfileStandard, fmt.Errorf("arena: unknown ai profile %q", name)
}

// AIMode is the state of an AI controller.
type AIMode int

const (
	ModeNest    AIMode = iota // drive to the nest point
	ModeCamp                  // hold position and aim at the player
	ModeRetreat               // drive back to spawn
	ModeUnjam                 // back away from a tank in the way
	ModeFlee                  // turn away from a player that came too close
	ModeDespair               // stand and fight after fleeing failed
	ModeHidden                // wait at spawn
)

var modeNames = [...]string{"nest", "camp", "retreat", "unjam", "flee", "despair", "hidden"}

func (m AIMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("AIMode(%d)", int(m))
}

// override reports whether the mode temporarily masks the standard mode.
func (m AIMode) override() bool {
	return m == ModeUnjam || m == ModeFlee || m == ModeDespair
}

// AIState is the controller state carried by a non-player tank.
type AIState struct {
	Profile  Profile
	Mode     AIMode
	Standard AIMode // mode to return to after an override
	Timer    float64
	Nest     core.Vec3

	SinceShot float64
	nest      int
}

// aiTick bundles what a controller reads during one tick.
type aiTick struct {
	level  *Level
	player *Tank
	tanks  []*Tank
	self   int // roster index of the tank being driven
	rng    *rand.Rand
	dt     float64
	cfg    config.AIConfig

	shootInterval float64
	turnSpeed     float64
}

func newAIState(profile Profile, nests []core.Vec3, rng *rand.Rand, shootInterval float64, campTime float64) *AIState {
	ai := &AIState{
		Profile:   profile,
		Mode:      ModeNest,
		Standard:  ModeNest,
		SinceShot: rng.Float64() * shootInterval,
		nest:      rng.Intn(len(nests)),
	}
	ai.Nest = nests[ai.nest]
	if profile == ProfileStandard {
		ai.Timer = campTime
	}
	return ai
}

// changeNest picks a different nest uniformly. With one nest it stays put.
func (ai *AIState) changeNest(nests []core.Vec3, rng *rand.Rand) {
	if len(nests) < 2 {
		return
	}
	next := rng.Intn(len(nests) - 1)
	if next >= ai.nest {
		next++
	}
	ai.nest = next
	ai.Nest = nests[next]
}

// drive runs one controller tick for t. It returns true when the tank fires.
func (t *Tank) drive(c *aiTick) bool {
	if t.AI.Profile == ProfileEvasive {
		t.evasiveTransitions(c)
	} else {
		t.standardTransitions(c)
	}

	fire := false
	t.AI.SinceShot += c.dt
	if t.AI.SinceShot > c.shootInterval {
		fire = true
		t.AI.SinceShot = 0
	}

	if t.AI.Profile == ProfileEvasive {
		t.evasiveMove(c)
	} else {
		t.standardMove(c)
	}
	return fire
}

// standardTransitions applies at most one mode change per tick.
func (t *Tank) standardTransitions(c *aiTick) {
	ai := t.AI
	nests := c.level.Nests(t.Name)
	reset := func(mode AIMode) {
		ai.Mode = mode
		ai.Standard = mode
		ai.Timer = c.cfg.CampTime
		t.CumulativeDamage = 0
	}

	if ai.Mode == ModeCamp {
		ai.Timer -= c.dt
	}

	switch {
	case ai.Mode == ModeNest && t.Position.Dist(ai.Nest) < c.cfg.NestDistance:
		reset(ModeCamp)
	case ai.Mode == ModeCamp && t.CumulativeDamage >= c.cfg.DamageThreshold:
		ai.changeNest(nests, c.rng)
		if t.Position.Dist(t.Spawn) < c.cfg.NestDistance {
			reset(ModeNest)
		} else {
			reset(ModeRetreat)
		}
	case ai.Mode == ModeCamp && ai.Timer < 0:
		ai.changeNest(nests, c.rng)
		reset(ModeNest)
	case ai.Mode == ModeRetreat && t.Position.Dist(t.Spawn) < c.cfg.NestDistance:
		reset(ModeCamp)
	}
}

func (t *Tank) standardMove(c *aiTick) {
	switch t.AI.Mode {
	case ModeNest:
		t.goTowards(c, t.AI.Nest)
	case ModeRetreat:
		t.goTowards(c, t.Spawn)
	case ModeCamp:
		t.steer(t.aimAngle(c.player), c.turnSpeed)
	}
}

// goTowards drives to target, contouring a handed wall when touching one.
func (t *Tank) goTowards(c *aiTick, target core.Vec3) {
	if blk := t.contourBlock(c.level); blk >= 0 {
		t.steer(t.contourAngle(c.level, blk), c.turnSpeed)
	} else {
		t.steer(t.directAngle(target), c.turnSpeed)
	}
	t.move(true, false)
}

// directAngle is the steering angle straight at target, measured on the
// backward axis.
func (t *Tank) directAngle(target core.Vec3) float64 {
	return core.SignedAngle(t.back(), t.Position.Sub(target))
}

// aimAngle is the signed angle at the hull between the muzzle and the target.
func (t *Tank) aimAngle(target *Tank) float64 {
	if target == nil {
		return 0
	}
	return core.AngleAt(t.Position, t.Muzzle(), target.Position)
}

// touching lists the blocks the tank collider intersects, in scan order.
func (t *Tank) touching(lvl *Level) []int {
	var idx []int
	for i := range lvl.Blocks {
		if t.Collider.Intersects(lvl.Blocks[i].Collider) {
			idx = append(idx, i)
		}
	}
	return idx
}

// contourBlock picks the wall to slide along, or -1. The first touched block
// must have a hand. A tank that did not move switches to the second block
// when that one has a hand too.
func (t *Tank) contourBlock(lvl *Level) int {
	idx := t.touching(lvl)
	if len(idx) == 0 || lvl.Blocks[idx[0]].Hand == HandNone {
		return -1
	}
	if !t.Moved && len(idx) > 1 && lvl.Blocks[idx[1]].Hand != HandNone {
		return idx[1]
	}
	return idx[0]
}

// contourAngle steers nearly perpendicular to the wall, on its hand side.
func (t *Tank) contourAngle(lvl *Level, blk int) float64 {
	back := t.back()
	angle := core.SignedAngle(back, lvl.DirectionVector(blk, t.Position))
	way := -1.0
	if back.X > 0 {
		way = 1
	}
	return angle - way*lvl.Blocks[blk].Hand.Sign()*math.Pi/2 - core.Rad(0.1)
}
