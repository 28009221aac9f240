package arena

// evasiveTransitions runs the override-aware mode chain. The first matching
// rule wins; the current mode then follows the standard one unless an
// override is active.
func (t *Tank) evasiveTransitions(c *aiTick) {
	ai := t.AI
	ev := c.cfg.Evasive
	ai.Timer += c.dt

	playerDist := -1.0
	if c.player != nil {
		playerDist = t.Position.Dist(c.player.Position)
	}
	near := playerDist >= 0 && playerDist < ev.FleeRadius

	switch {
	case t.jammed(c):
		ai.Timer = 0
		ai.Mode = ModeUnjam
	case near && ai.Mode != ModeFlee && ai.Mode != ModeDespair:
		t.CumulativeDamage = 0
		ai.Mode = ModeFlee
	case ai.Mode == ModeFlee && t.CumulativeDamage >= c.cfg.DamageThreshold:
		t.CumulativeDamage = 0
		ai.Mode = ModeDespair
	case ai.Mode == ModeFlee && !near:
		ai.Mode = ai.Standard
	case ai.Mode == ModeUnjam && ai.Timer > ev.UnjamTime:
		ai.Mode = ai.Standard
	case ai.Mode == ModeDespair && t.CumulativeDamage >= c.cfg.DamageThreshold:
		ai.Standard = ModeRetreat
		ai.Mode = ModeRetreat
	case ai.Mode == ModeNest && t.Position.Dist(ai.Nest) < ev.NestDistance:
		ai.Standard = ModeCamp
		t.CumulativeDamage = 0
	case ai.Mode == ModeCamp && t.CumulativeDamage >= c.cfg.DamageThreshold:
		ai.changeNest(c.level.Nests(t.Name), c.rng)
		ai.Standard = ModeRetreat
	case ai.Mode == ModeRetreat && t.Position.Dist(t.Spawn) < ev.NestDistance:
		ai.Timer = 0
		ai.Standard = ModeHidden
	case ai.Mode == ModeHidden && ai.Timer > ev.HiddenTime:
		ai.Standard = ModeNest
	}

	if !ai.Mode.override() {
		ai.Mode = ai.Standard
	}
}

// jammed reports whether the tank overlaps an AI tank later in the roster.
// Only the earlier tank of a pair backs off.
func (t *Tank) jammed(c *aiTick) bool {
	for i := c.self + 1; i < len(c.tanks); i++ {
		other := c.tanks[i]
		if other.IsPlayer() || other.dead {
			continue
		}
		if t.Collider.Intersects(other.Collider) {
			return true
		}
	}
	return false
}

func (t *Tank) evasiveMove(c *aiTick) {
	switch t.AI.Mode {
	case ModeNest:
		t.steer(t.directAngle(t.AI.Nest), c.turnSpeed)
		t.move(true, false)
	case ModeRetreat:
		if blk := t.contourBlock(c.level); blk >= 0 {
			t.steer(t.contourAngle(c.level, blk), c.turnSpeed)
			t.move(true, true)
		} else {
			t.steer(t.directAngle(t.Spawn), c.turnSpeed)
			t.move(true, false)
		}
	case ModeCamp, ModeDespair, ModeHidden:
		t.steer(t.aimAngle(c.player), c.turnSpeed)
	case ModeUnjam:
		t.steer(t.aimAngle(c.player), c.turnSpeed)
		t.move(false, false)
	case ModeFlee:
		if blk := t.contourBlock(c.level); blk >= 0 {
			t.steer(t.contourAngle(c.level, blk), c.turnSpeed)
		} else {
			t.steer(-t.aimAngle(c.player), c.turnSpeed)
		}
		t.move(true, true)
	}
}
