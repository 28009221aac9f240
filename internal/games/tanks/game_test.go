package tanks

import (
	"math"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-tanks/internal/arena"
	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/registry"
)

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     12345,
	}
}

func newGame(t *testing.T) *Game {
	t.Helper()
	g := New()
	g.Reset(testRuntime())
	if g.Err() != nil {
		t.Fatalf("Reset() failed: %v", g.Err())
	}
	return g
}

func frame(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"tanks", "tanks_evasive"} {
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) failed: %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID() = %q, expected %q", g.ID(), id)
		}
	}
}

func TestGameDeterminism(t *testing.T) {
	inputs := make([]core.InputFrame, 300)
	for i := range inputs {
		inputs[i] = core.NewInputFrame()
		switch {
		case i < 50:
			inputs[i].Set(core.ActionForward)
		case i < 70:
			inputs[i].Set(core.ActionRotateLeft)
		case i%20 == 0:
			inputs[i].Set(core.ActionFire)
		}
	}

	run := func(g *Game) uint64 {
		g.Reset(testRuntime())
		for _, in := range inputs {
			g.Step(in)
		}
		return g.World().Snapshot().Hash()
	}

	h1 := run(NewEvasive())
	h2 := run(NewEvasive())
	if h1 != h2 {
		t.Errorf("Determinism failed: hashes differ. Run1=%x, Run2=%x", h1, h2)
	}
}

func TestPauseFreezesWorld(t *testing.T) {
	g := newGame(t)
	g.Step(frame())

	g.Step(frame(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("State().Paused = false after pause")
	}
	ticks := g.State().Ticks
	for range 10 {
		g.Step(frame(core.ActionForward))
	}
	if g.State().Ticks != ticks {
		t.Errorf("Ticks = %d, expected %d while paused", g.State().Ticks, ticks)
	}

	g.Step(frame(core.ActionPause))
	if g.State().Paused {
		t.Error("second pause did not resume")
	}
}

func TestStartLevel(t *testing.T) {
	SetStartLevel(2)
	defer SetStartLevel(0)

	g := newGame(t)
	if g.State().Level != 2 {
		t.Errorf("Level = %d, expected 2", g.State().Level)
	}
	if g.flash != "LEVEL 2" {
		t.Errorf("flash = %q, expected the level banner", g.flash)
	}
}

func TestRestartAfterGameOver(t *testing.T) {
	g := newGame(t)
	for range 30 {
		g.Step(frame())
	}
	g.World().State = arena.StateGameOver
	if !g.State().GameOver {
		t.Fatal("State().GameOver = false")
	}

	g.Step(frame(core.ActionRestart))
	st := g.State()
	if st.GameOver || st.Ticks != 0 || st.Level != 1 {
		t.Errorf("after restart: %+v", st)
	}
}

func TestRestartIgnoredWhilePlaying(t *testing.T) {
	g := newGame(t)
	for range 5 {
		g.Step(frame())
	}
	g.Step(frame(core.ActionRestart))
	if g.State().Ticks != 6 {
		t.Errorf("Ticks = %d, expected 6", g.State().Ticks)
	}
}

func TestMuteSuppressesAudio(t *testing.T) {
	g := newGame(t)
	var heard []arena.Event
	g.SetAudio(arena.AudioFunc(func(e arena.Event) {
		if e.Source == "P" {
			heard = append(heard, e)
		}
	}))

	g.Step(frame(core.ActionFire))
	if len(heard) == 0 {
		t.Fatal("no audio for the player's shot")
	}

	heard = nil
	g.Step(frame(core.ActionMute))
	g.Step(frame(core.ActionFire))
	if len(heard) != 0 {
		t.Errorf("heard %d events while muted", len(heard))
	}
	if !g.Muted() {
		t.Error("Muted() = false")
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		kills, advanced int
		won             bool
		expected        int
	}{
		{0, 0, false, 0},
		{1, 0, false, 100},
		{1, 1, false, 600},
		{3, 2, true, 2300},
		{0, -1, false, 0},
	}
	for _, tc := range tests {
		if got := Score(tc.kills, tc.advanced, tc.won); got != tc.expected {
			t.Errorf("Score(%d, %d, %v) = %d, expected %d", tc.kills, tc.advanced, tc.won, got, tc.expected)
		}
	}
}

func TestBadLevelDir(t *testing.T) {
	SetLevelDir(t.TempDir())
	defer SetLevelDir("")

	g := New()
	g.Reset(testRuntime())
	if g.Err() == nil {
		t.Fatal("Err() = nil for an empty level directory")
	}
	if !g.State().GameOver {
		t.Error("State().GameOver = false without a world")
	}
	g.Step(frame(core.ActionFire))

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Cannot load levels") {
		t.Error("Render() did not report the load failure")
	}
}

func TestRender(t *testing.T) {
	g := newGame(t)
	g.Step(frame())

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	if !strings.Contains(screen.Row(0), "Level 1") {
		t.Errorf("HUD row = %q, expected the level", screen.Row(0))
	}
	for _, want := range []string{"P", "A", string(WallGlyph), HealthBar(1)} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() output lacks %q", want)
		}
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := newGame(t)
	screen := core.NewScreen(20, 8)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("Render() on a tiny screen did not ask for more room")
	}
}

func TestRenderOverlays(t *testing.T) {
	g := newGame(t)
	screen := core.NewScreen(80, 24)

	g.World().State = arena.StateVictory
	g.Render(screen)
	if !strings.Contains(screen.String(), "VICTORY") {
		t.Error("victory banner missing")
	}

	g.World().State = arena.StateGameOver
	g.Render(screen)
	if !strings.Contains(screen.String(), "GAME OVER") {
		t.Error("game over banner missing")
	}
}

func TestHeadingGlyph(t *testing.T) {
	tests := []struct {
		heading  float64
		expected rune
	}{
		{0, '▶'},
		{math.Pi / 2, '▲'},
		{math.Pi, '◀'},
		{-math.Pi / 2, '▼'},
		{2 * math.Pi, '▶'},
		{-math.Pi / 4, '◢'},
	}
	for _, tc := range tests {
		if got := HeadingGlyph(tc.heading); got != tc.expected {
			t.Errorf("HeadingGlyph(%v) = %q, expected %q", tc.heading, got, tc.expected)
		}
	}
}

func TestHealthBar(t *testing.T) {
	if got := HealthBar(0.5); got != "█████░░░░░" {
		t.Errorf("HealthBar(0.5) = %q", got)
	}
	if got := HealthBar(1.5); got != strings.Repeat("█", 10) {
		t.Errorf("HealthBar(1.5) = %q, expected a full bar", got)
	}
}

func TestLevelKeyAfterGameOverStartsCleanRun(t *testing.T) {
	g := newGame(t)
	for range 5 {
		g.Step(frame())
	}
	w := g.World()
	w.Kills = 1
	w.State = arena.StateGameOver
	if st := g.State(); st.Score != KillPoints || !st.GameOver {
		t.Fatalf("State() before restart = %+v", st)
	}

	st := g.Step(frame(core.ActionLevel1)).State
	if st.GameOver {
		t.Fatal("level key did not start a new run")
	}
	if st.Kills != 0 || st.Ticks != 0 || st.Score != 0 {
		t.Errorf("new run State() = %+v, expected zero kills, ticks and score", st)
	}
}

func TestJumpingLevelsScoresNothing(t *testing.T) {
	g := newGame(t)
	st := g.Step(frame(core.ActionLevel3)).State
	if st.Level != 3 {
		t.Fatalf("Level = %d, expected 3", st.Level)
	}
	if st.Score != 0 {
		t.Errorf("Score = %d after a level jump, expected 0", st.Score)
	}

	started := New()
	started.StartAt(3)
	started.Reset(testRuntime())
	if got := started.State(); got.Level != 3 || got.Score != 0 {
		t.Errorf("StartAt(3) State() = %+v, expected level 3 with no score", got)
	}
}
