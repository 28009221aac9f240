package arena

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

// aiLevel has two nests for A so reassignment always has a choice.
func aiLevel(t *testing.T) *Level {
	t.Helper()
	lvl, err := NewLevel(LevelData{Matrix: []string{
		"*DDDDDDD*",
		"RA  a  PL",
		"R      aL",
		"*UUUUUUU*",
	}}, testConfig().Blocks)
	if err != nil {
		t.Fatalf("NewLevel() failed: %v", err)
	}
	return lvl
}

func aiTank(t *testing.T, lvl *Level, profile Profile, rng *rand.Rand) *Tank {
	t.Helper()
	spawn, err := lvl.Spawn("A")
	if err != nil {
		t.Fatalf("Spawn() failed: %v", err)
	}
	cfg := testConfig()
	tank := newTank(1, "A", spawn, 0, cfg.Tank)
	tank.AI = newAIState(profile, lvl.Nests("A"), rng, cfg.AI.ShootInterval, cfg.AI.CampTime)
	tank.updateCollider(lvl.CellSize)
	return tank
}

func tickFor(lvl *Level, player *Tank, tanks []*Tank, rng *rand.Rand) *aiTick {
	cfg := testConfig()
	return &aiTick{
		level:         lvl,
		player:        player,
		tanks:         tanks,
		rng:           rng,
		dt:            testDT,
		cfg:           cfg.AI,
		shootInterval: cfg.AI.ShootInterval,
		turnSpeed:     cfg.Tank.RotateSpeed,
	}
}

func TestCampUnderFireRetreatsWithNewNest(t *testing.T) {
	lvl := aiLevel(t)
	rng := rand.New(rand.NewSource(7))
	tank := aiTank(t, lvl, ProfileStandard, rng)

	tank.AI.Mode = ModeCamp
	tank.Position = core.V3(8, 0, 0) // far from spawn
	oldNest := tank.AI.Nest

	tank.CumulativeDamage++
	tank.CumulativeDamage++
	tank.standardTransitions(tickFor(lvl, nil, []*Tank{tank}, rng))

	if tank.AI.Mode != ModeRetreat {
		t.Errorf("Mode = %v, expected retreat", tank.AI.Mode)
	}
	if tank.AI.Nest == oldNest {
		t.Error("nest was not reassigned")
	}
	if tank.CumulativeDamage != 0 {
		t.Errorf("CumulativeDamage = %d, expected reset", tank.CumulativeDamage)
	}
}

func TestCampUnderFireAtSpawnGoesToNest(t *testing.T) {
	lvl := aiLevel(t)
	rng := rand.New(rand.NewSource(7))
	tank := aiTank(t, lvl, ProfileStandard, rng)

	tank.AI.Mode = ModeCamp
	tank.CumulativeDamage = 2
	tank.standardTransitions(tickFor(lvl, nil, []*Tank{tank}, rng))

	if tank.AI.Mode != ModeNest {
		t.Errorf("Mode = %v, expected nest when already at spawn", tank.AI.Mode)
	}
}

func TestStandardTransitions(t *testing.T) {
	cfg := testConfig().AI
	tests := []struct {
		name     string
		mode     AIMode
		setup    func(tank *Tank)
		expected AIMode
	}{
		{
			name:     "nest reached",
			mode:     ModeNest,
			setup:    func(tank *Tank) { tank.Position = tank.AI.Nest; tank.Position.Y = 0 },
			expected: ModeCamp,
		},
		{
			name:     "nest far",
			mode:     ModeNest,
			setup:    func(tank *Tank) {},
			expected: ModeNest,
		},
		{
			name: "camp dwell expired",
			mode: ModeCamp,
			setup: func(tank *Tank) {
				tank.Position = core.V3(8, 0, 0)
				tank.AI.Timer = 0
			},
			expected: ModeNest,
		},
		{
			name: "camp dwell running",
			mode: ModeCamp,
			setup: func(tank *Tank) {
				tank.Position = core.V3(8, 0, 0)
				tank.AI.Timer = cfg.CampTime
			},
			expected: ModeCamp,
		},
		{
			name:     "retreat home",
			mode:     ModeRetreat,
			setup:    func(tank *Tank) {},
			expected: ModeCamp,
		},
		{
			name:     "retreat underway",
			mode:     ModeRetreat,
			setup:    func(tank *Tank) { tank.Position = core.V3(8, 0, 0) },
			expected: ModeRetreat,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lvl := aiLevel(t)
			rng := rand.New(rand.NewSource(1))
			tank := aiTank(t, lvl, ProfileStandard, rng)
			tank.AI.Mode = tc.mode
			tc.setup(tank)

			tank.standardTransitions(tickFor(lvl, nil, []*Tank{tank}, rng))

			if tank.AI.Mode != tc.expected {
				t.Errorf("Mode = %v, expected %v", tank.AI.Mode, tc.expected)
			}
		})
	}
}

func TestNestEventuallyReachesCamp(t *testing.T) {
	w, err := NewWorld([]LevelData{{Index: 1, Matrix: []string{
		"*DDDDDDD*",
		"RA     aL",
		"R       L",
		"RP      L",
		"*UUUUUUU*",
	}}}, testConfig(), Options{Seed: 3})
	if err != nil {
		t.Fatalf("NewWorld() failed: %v", err)
	}

	idle := core.NewInputFrame()
	for i := 0; i < 1200; i++ {
		w.Step(idle, testDT)
		a := findTank(w, "A")
		if a == nil {
			t.Fatal("tank A disappeared")
		}
		if a.AI.Mode == ModeCamp {
			return
		}
	}
	t.Error("tank A never reached camp from nest")
}

func TestChangeNestSingleNestStays(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	nests := []core.Vec3{core.V3(1, 2, 3)}
	ai := newAIState(ProfileStandard, nests, rng, 1, 5)
	ai.changeNest(nests, rng)
	if ai.Nest != nests[0] {
		t.Errorf("Nest = %v, expected the only nest", ai.Nest)
	}
}

func TestAIFiresOnCadence(t *testing.T) {
	lvl := aiLevel(t)
	rng := rand.New(rand.NewSource(2))
	tank := aiTank(t, lvl, ProfileStandard, rng)
	tank.AI.SinceShot = 0

	c := tickFor(lvl, nil, []*Tank{tank}, rng)
	c.dt = 0.25
	shots := 0
	for range 8 {
		if tank.drive(c) {
			shots++
		}
	}
	// 2 simulated seconds at one shot per second, reset rather than carried over
	if shots != 1 {
		t.Errorf("shots = %d, expected 1", shots)
	}
}

func TestContourBlockNeedsHandOnFirstContact(t *testing.T) {
	lvl := &Level{CellSize: 4, turret: -1}
	for i, hand := range []Hand{HandNone, HandRight} {
		p := core.V3(float64(i)*4, 2, 0)
		lvl.Blocks = append(lvl.Blocks, Block{
			Type: BlockOmni, Hand: hand, Position: p,
			Collider: core.BoxAround(p, 2), Origin: i, half: 2,
		})
	}
	tank := testTank("A", core.V3(2, 0, 3.9))
	if got := tank.contourBlock(lvl); got != -1 {
		t.Errorf("contourBlock() = %d, expected -1 when the first block has no hand", got)
	}

	lvl.Blocks[0].Hand = HandLeft
	tank.Moved = true
	if got := tank.contourBlock(lvl); got != 0 {
		t.Errorf("contourBlock() moving = %d, expected 0", got)
	}
	tank.Moved = false
	if got := tank.contourBlock(lvl); got != 1 {
		t.Errorf("contourBlock() stuck = %d, expected 1", got)
	}
}

// handedLevel holds one omni block at the origin.
func handedLevel(hand Hand) *Level {
	lvl := singleBlockLevel(BlockOmni, core.V3(0, 2, 0))
	lvl.Blocks[0].Hand = hand
	return lvl
}

func TestContourAngle(t *testing.T) {
	tests := []struct {
		name     string
		pos      core.Vec3
		heading  float64
		hand     Hand
		expected float64 // degrees
	}{
		{"east into left face, right hand", core.V3(-3, 0, 0), 0, HandRight, 89.9},
		{"east into left face, left hand", core.V3(-3, 0, 0), 0, HandLeft, -90.1},
		{"west into right face, right hand", core.V3(3, 0, 0), math.Pi, HandRight, -90.1},
		{"west into right face, left hand", core.V3(3, 0, 0), math.Pi, HandLeft, 89.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl := handedLevel(tt.hand)
			tank := testTank("A", tt.pos)
			tank.Heading = tt.heading
			if got := tank.contourBlock(lvl); got != 0 {
				t.Fatalf("contourBlock() = %d, expected 0", got)
			}
			if got := core.Deg(tank.contourAngle(lvl, 0)); math.Abs(got-tt.expected) > 1e-4 {
				t.Errorf("contourAngle() = %v deg, expected %v", got, tt.expected)
			}
		})
	}
}

func TestGoTowardsPrefersContour(t *testing.T) {
	turn := testConfig().Tank.RotateSpeed
	target := core.V3(10, 0, 5) // direct steering turns negative
	tests := []struct {
		name string
		hand Hand
		want func(heading float64) bool
	}{
		{"right hand", HandRight, func(h float64) bool { return math.Abs(h-turn) < 1e-12 }},
		{"left hand", HandLeft, func(h float64) bool { return math.Abs(h+turn) < 1e-12 }},
		{"no hand", HandNone, func(h float64) bool { return h < 0 && h > -turn }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl := handedLevel(tt.hand)
			tank := testTank("A", core.V3(-3, 0, 0))
			tank.goTowards(tickFor(lvl, nil, []*Tank{tank}, rand.New(rand.NewSource(1))), target)
			if !tt.want(tank.Heading) {
				t.Errorf("Heading = %v after goTowards", tank.Heading)
			}
		})
	}
}

func TestEvasiveFleesAndRecovers(t *testing.T) {
	lvl := aiLevel(t)
	rng := rand.New(rand.NewSource(4))
	tank := aiTank(t, lvl, ProfileEvasive, rng)
	player := testTank("P", tank.Position.Add(core.V3(6, 0, 0)))
	c := tickFor(lvl, player, []*Tank{tank}, rng)

	tank.evasiveTransitions(c)
	if tank.AI.Mode != ModeFlee {
		t.Fatalf("Mode = %v, expected flee with the player close", tank.AI.Mode)
	}

	tank.CumulativeDamage = 2
	tank.evasiveTransitions(c)
	if tank.AI.Mode != ModeDespair {
		t.Fatalf("Mode = %v, expected despair after damage while fleeing", tank.AI.Mode)
	}
	if tank.CumulativeDamage != 0 {
		t.Errorf("CumulativeDamage = %d, expected reset entering despair", tank.CumulativeDamage)
	}

	tank.CumulativeDamage = 2
	tank.evasiveTransitions(c)
	if tank.AI.Mode != ModeRetreat || tank.AI.Standard != ModeRetreat {
		t.Errorf("Mode = %v/%v, expected retreat after despair", tank.AI.Mode, tank.AI.Standard)
	}
}

func TestEvasiveFleeEndsWhenPlayerLeaves(t *testing.T) {
	lvl := aiLevel(t)
	rng := rand.New(rand.NewSource(4))
	tank := aiTank(t, lvl, ProfileEvasive, rng)
	player := testTank("P", tank.Position.Add(core.V3(6, 0, 0)))
	c := tickFor(lvl, player, []*Tank{tank}, rng)

	tank.evasiveTransitions(c)
	player.Position = tank.Position.Add(core.V3(40, 0, 0))
	tank.evasiveTransitions(c)
	if tank.AI.Mode != ModeNest {
		t.Errorf("Mode = %v, expected the standard nest mode", tank.AI.Mode)
	}
}

func TestEvasiveUnjam(t *testing.T) {
	lvl := aiLevel(t)
	rng := rand.New(rand.NewSource(4))
	first := aiTank(t, lvl, ProfileEvasive, rng)
	second := aiTank(t, lvl, ProfileEvasive, rng)
	second.Name = "B"
	tanks := []*Tank{first, second}

	c := tickFor(lvl, nil, tanks, rng)
	c.self = 0
	first.evasiveTransitions(c)
	if first.AI.Mode != ModeUnjam {
		t.Fatalf("Mode = %v, expected unjam while overlapping a later tank", first.AI.Mode)
	}

	c.self = 1
	second.evasiveTransitions(c)
	if second.AI.Mode == ModeUnjam {
		t.Error("the later tank of a pair should not back off")
	}

	// Separate and let the unjam time run out.
	second.Position = second.Position.Add(core.V3(0, 0, 40))
	second.updateCollider(4)
	c.self = 0
	c.dt = 0.2
	first.evasiveTransitions(c)
	first.evasiveTransitions(c)
	if first.AI.Mode != ModeNest {
		t.Errorf("Mode = %v, expected nest after unjam", first.AI.Mode)
	}
}

func TestEvasiveHiddenCycle(t *testing.T) {
	lvl := aiLevel(t)
	rng := rand.New(rand.NewSource(4))
	tank := aiTank(t, lvl, ProfileEvasive, rng)
	c := tickFor(lvl, nil, []*Tank{tank}, rng)

	tank.AI.Mode, tank.AI.Standard = ModeRetreat, ModeRetreat
	tank.evasiveTransitions(c)
	if tank.AI.Mode != ModeHidden {
		t.Fatalf("Mode = %v, expected hidden at spawn", tank.AI.Mode)
	}

	c.dt = 1
	for range 5 {
		tank.evasiveTransitions(c)
	}
	if tank.AI.Mode != ModeNest {
		t.Errorf("Mode = %v, expected nest after hiding", tank.AI.Mode)
	}
}

func TestParseProfile(t *testing.T) {
	if p, err := ParseProfile("evasive"); err != nil || p != ProfileEvasive {
		t.Errorf("ParseProfile(evasive) = %v, %v", p, err)
	}
	if p, err := ParseProfile(""); err != nil || p != ProfileStandard {
		t.Errorf("ParseProfile(\"\") = %v, %v", p, err)
	}
	if _, err := ParseProfile("berserk"); err == nil {
		t.Error("ParseProfile(berserk) should fail")
	}
}
