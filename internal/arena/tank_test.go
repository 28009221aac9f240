package arena

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

func testTank(name string, pos core.Vec3) *Tank {
	t := newTank(0, name, pos, 0, testConfig().Tank)
	t.updateCollider(4)
	return t
}

// hitting returns an active bullet overlapping the tank's collider.
func hitting(t *Tank, author string, boosted bool) *Bullet {
	b := newBullet(1, author, boosted, t.Collider.Center(), core.V3(1, 0, 0))
	b.Collider = core.BoxAround(b.Position, 0.3)
	return b
}

func TestBoostedHitOnPlayer(t *testing.T) {
	p := testTank("P", core.V3(0, 0, 0))
	b := hitting(p, "A", true)

	hits := p.takeHits([]*Bullet{b}, DefaultTeams())

	if hits != 1 {
		t.Errorf("takeHits() = %d, expected 1", hits)
	}
	if p.Life != 8 {
		t.Errorf("Life = %d, expected 8", p.Life)
	}
	if p.CumulativeDamage != 1 {
		t.Errorf("CumulativeDamage = %d, expected 1", p.CumulativeDamage)
	}
	if b.Active {
		t.Error("bullet should be inactive after hitting")
	}
}

func TestGodModeAbsorbsWithoutDamage(t *testing.T) {
	p := testTank("P", core.V3(0, 0, 0))
	p.GodMode = true
	bullets := []*Bullet{hitting(p, "A", true), hitting(p, CannonAuthor, false)}

	p.takeHits(bullets, DefaultTeams())

	if p.Life != 10 {
		t.Errorf("Life = %d, expected 10 in god mode", p.Life)
	}
	if p.CumulativeDamage != 2 {
		t.Errorf("CumulativeDamage = %d, expected 2", p.CumulativeDamage)
	}
	for i, b := range bullets {
		if b.Active {
			t.Errorf("bullet %d still active", i)
		}
	}
}

func TestFriendlyFire(t *testing.T) {
	tests := []struct {
		author, target string
		damages        bool
	}{
		{"P", "P", false},
		{"A", "P", true},
		{"P", "A", true},
		{"A", "B", false},
		{"B", "A", false},
		{"C", "A", false},
		{"A", "A", false},
		{CannonAuthor, "P", true},
		{CannonAuthor, "B", true},
	}

	for _, tc := range tests {
		t.Run(tc.author+"->"+tc.target, func(t *testing.T) {
			tank := testTank(tc.target, core.V3(0, 0, 0))
			b := hitting(tank, tc.author, false)
			tank.takeHits([]*Bullet{b}, DefaultTeams())

			if damaged := tank.Life < 10; damaged != tc.damages {
				t.Errorf("damaged = %v, expected %v", damaged, tc.damages)
			}
			if b.Active == tc.damages {
				t.Errorf("bullet Active = %v after hit = %v", b.Active, tc.damages)
			}
		})
	}
}

func TestTeamTableCoversLargerRosters(t *testing.T) {
	teams := DefaultTeams()
	teams["E"] = "ai"
	if !teams.Exempt("E", "A") {
		t.Error("AI E should not damage AI A once registered")
	}
	if teams.Exempt("E", "P") {
		t.Error("AI E should damage the player")
	}
	if teams.Exempt("F", "A") {
		t.Error("an author without a team should damage anyone but itself")
	}
}

func TestLifeClamp(t *testing.T) {
	p := testTank("P", core.V3(0, 0, 0))
	p.Life = 9
	p.heal(2)
	if p.Life != 10 {
		t.Errorf("Life after heal = %d, expected clamp at 10", p.Life)
	}

	p.Life = 1
	p.takeHits([]*Bullet{hitting(p, "A", true)}, DefaultTeams())
	if p.Life != 0 {
		t.Errorf("Life = %d, expected 0", p.Life)
	}
	if p.Alive() {
		t.Error("Alive() = true at zero life")
	}
	if p.HealthRatio() != 0 {
		t.Errorf("HealthRatio() = %v, expected 0", p.HealthRatio())
	}
}

func TestResolveBlocksNoPenetration(t *testing.T) {
	block := core.V3(0, 2, 0)
	tests := []struct {
		name     string
		pos      core.Vec3
		expected core.Vec3
	}{
		{"left", core.V3(-3.8, 0, 0), core.V3(-4.01, 0, 0)},
		{"right", core.V3(3.8, 0, 0), core.V3(4.01, 0, 0)},
		{"above", core.V3(0, 0, -3.8), core.V3(0, 0, -4.01)},
		{"below", core.V3(0, 0, 3.8), core.V3(0, 0, 4.01)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lvl := singleBlockLevel(BlockOmni, block)
			tank := testTank("P", tc.pos)

			tank.resolveBlocks(lvl, testDT)

			if !near(tank.Position.X, tc.expected.X) || !near(tank.Position.Z, tc.expected.Z) {
				t.Errorf("Position = %v, expected %v", tank.Position, tc.expected)
			}
			tank.updateCollider(4)
			if tank.Collider.Intersects(lvl.Blocks[0].Collider) {
				t.Error("tank collider still overlaps the block")
			}
		})
	}
}

func TestMovingBlockDragsTank(t *testing.T) {
	lvl := singleBlockLevel(BlockMoverW, core.V3(0, 2, 0))
	lvl.Blocks[0].heading = core.V3(0, 0, 1)
	lvl.Blocks[0].speed = 5

	tank := testTank("A", core.V3(3.8, 0, 0.5))
	tank.prevPosition = core.V3(3.9, 0, 0.5)

	tank.resolveBlocks(lvl, 0.1)

	if !near(tank.Position.Z, 1.0) {
		t.Errorf("Position.Z = %v, expected 1.0 after drag", tank.Position.Z)
	}
	if !near(tank.Position.X, 4.01) {
		t.Errorf("Position.X = %v, expected 4.01", tank.Position.X)
	}
}

func TestRotateSmoothing(t *testing.T) {
	cfg := testConfig().Tank
	tests := []struct {
		name     string
		angle    float64
		expected float64
	}{
		{"small positive", 0.1, 0.1 / math.Pi * cfg.RotateSpeed},
		{"small negative", -0.1, -0.1 / math.Pi * cfg.RotateSpeed},
		{"large positive", 1.0, cfg.RotateSpeed},
		{"large negative", -2.0, -cfg.RotateSpeed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tank := testTank("A", core.V3(0, 0, 0))
			tank.steer(tc.angle, cfg.RotateSpeed)
			if !near(tank.Heading, tc.expected) {
				t.Errorf("Heading = %v, expected %v", tank.Heading, tc.expected)
			}
		})
	}
}

func TestPlayerInput(t *testing.T) {
	cfg := testConfig().Tank
	tank := testTank("P", core.V3(0, 0, 0))

	in := core.NewInputFrame()
	in.Set(core.ActionForward)
	if tank.applyInput(in) {
		t.Error("applyInput() fired without a fire edge")
	}
	tank.settle()
	if !near(tank.Position.X, cfg.Speed) {
		t.Errorf("Position.X = %v, expected %v", tank.Position.X, cfg.Speed)
	}
	if !tank.Moved {
		t.Error("Moved = false after driving forward")
	}

	in.Clear()
	in.Set(core.ActionRotateLeft)
	in.Set(core.ActionFire)
	if !tank.applyInput(in) {
		t.Error("applyInput() did not report the fire edge")
	}
	tank.settle()
	if !near(tank.Heading, cfg.RotateSpeed) {
		t.Errorf("Heading = %v, expected %v", tank.Heading, cfg.RotateSpeed)
	}
	if tank.Moved {
		t.Error("Moved = true after rotating in place")
	}
}

func TestIdleStickDoesNothing(t *testing.T) {
	tank := testTank("P", core.V3(0, 0, 0))
	in := core.NewInputFrame()
	in.SetStick(0, 0)
	tank.applyInput(in)
	if tank.Heading != 0 || tank.Position != core.V3(0, 0, 0) {
		t.Errorf("idle stick changed tank: heading %v position %v", tank.Heading, tank.Position)
	}
	if math.IsNaN(tank.Heading) {
		t.Error("heading is NaN")
	}
}

func TestStickSteersTowardVector(t *testing.T) {
	tank := testTank("P", core.V3(0, 0, 0))
	in := core.NewInputFrame()
	in.SetStick(0, -1) // world -Z, a positive turn from +X

	tank.applyInput(in)

	if tank.Heading <= 0 {
		t.Errorf("Heading = %v, expected a positive turn", tank.Heading)
	}
	if tank.Position.Len() == 0 {
		t.Error("stick input should also drive the tank")
	}
}

func TestForwardAndMuzzle(t *testing.T) {
	tank := testTank("P", core.V3(0, 0, 0))
	tank.Heading = math.Pi / 2
	f := tank.Forward()
	if !near(f.X, 0) || !near(f.Z, -1) {
		t.Errorf("Forward() at pi/2 = %v, expected (0, 0, -1)", f)
	}
	m := tank.Muzzle()
	cfg := testConfig().Tank
	if !near(m.Z, -cfg.MuzzleOffset) || !near(m.Y, cfg.MuzzleHeight) {
		t.Errorf("Muzzle() = %v", m)
	}
}
