// Package tanks adapts the arena simulation to the registry.Game interface
// so the terminal, SSH and CLI front ends can run it like any other game.
package tanks

import (
	"fmt"

	"github.com/vovakirdan/tui-tanks/internal/arena"
	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/levels"
	"github.com/vovakirdan/tui-tanks/internal/registry"
)

// Score weights.
const (
	KillPoints    = 100
	LevelPoints   = 500
	VictoryPoints = 1000
)

// flashTicks is how long an event banner stays on screen.
const flashTicks = 90

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// levelDir stores a custom level directory; empty means the builtin pack.
var levelDir string

// startLevel is the level index entered on Reset; zero means the first.
var startLevel int

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// SetLevelDir points the campaign at a directory of level files.
func SetLevelDir(dir string) {
	levelDir = dir
}

// SetStartLevel selects the level a run starts on.
func SetStartLevel(index int) {
	startLevel = index
}

// Game runs one arena campaign.
type Game struct {
	profile arena.Profile
	world   *arena.World
	runtime core.RuntimeConfig
	cfg     config.TanksConfig
	audio   arena.AudioSink

	paused bool
	muted  bool
	err    error

	flash     string
	flashLeft int

	start int // per-instance start level, overrides SetStartLevel
}

// New creates a campaign against the standard AI.
func New() *Game {
	return &Game{profile: arena.ProfileStandard}
}

// NewEvasive creates a campaign against the evasive AI.
func NewEvasive() *Game {
	return &Game{profile: arena.ProfileEvasive}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.profile == arena.ProfileEvasive {
		return "tanks_evasive"
	}
	return "tanks"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.profile == arena.ProfileEvasive {
		return "Tanks (Evasive AI)"
	}
	return "Tanks"
}

// SetAudio installs a sink for simulation events. Muting suppresses it.
func (g *Game) SetAudio(sink arena.AudioSink) {
	g.audio = sink
}

// World exposes the running simulation, nil when the campaign failed to load.
func (g *Game) World() *arena.World {
	return g.world
}

// Err returns the error that prevented the campaign from loading.
func (g *Game) Err() error {
	return g.err
}

// Reset initializes or restarts the campaign.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.paused = false
	g.flash = ""
	g.flashLeft = 0

	// Load game config
	cfg, err := config.LoadTanks(configPath)
	if err != nil {
		cfg = config.DefaultTanksConfig()
	}

	// Apply difficulty preset if set
	if difficultyPreset != "" {
		config.ApplyTanksPreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg

	g.world, g.err = NewWorld(cfg, g.profile, runtime.Seed, levelDir)
	if g.err != nil {
		return
	}
	g.world.SetAudio(arena.AudioFunc(g.play))

	level := startLevel
	if g.start > 0 {
		level = g.start
	}
	if level > 0 {
		if err := g.world.StartRun(level); err != nil {
			g.setFlash(fmt.Sprintf("NO LEVEL %d", level))
		}
	}
}

// StartAt makes this instance begin on the given level index from the next Reset.
func (g *Game) StartAt(index int) {
	g.start = index
}

// Levels lists the active level pack in campaign order.
func Levels() ([]levels.Level, error) {
	return levels.Open(levelDir).LoadAll()
}

// NewWorld builds a world from the level pack in dir (builtin when empty).
func NewWorld(cfg config.TanksConfig, profile arena.Profile, seed int64, dir string) (*arena.World, error) {
	data, err := levels.Open(dir).Campaign(cfg.Blocks)
	if err != nil {
		return nil, err
	}
	return arena.NewWorld(data, cfg, arena.Options{
		Profile:    profile,
		Seed:       seed,
		Difficulty: config.NewDifficultyManager(cfg.Difficulty),
	})
}

func (g *Game) play(e arena.Event) {
	switch e.Kind {
	case arena.EventGate:
		g.setFlash(fmt.Sprintf("LEVEL %d", g.world.Level.Index))
	case arena.EventPickup:
		if g.world.PowerUp.Kind == arena.PowerUpBoost {
			g.setFlash("DAMAGE BOOST")
		} else {
			g.setFlash("REPAIRED")
		}
	}
	if g.audio != nil && !g.muted {
		g.audio.Play(e)
	}
}

func (g *Game) setFlash(text string) {
	g.flash = text
	g.flashLeft = flashTicks
}

// Step advances the simulation by one fixed tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.world == nil {
		return core.StepResult{State: g.State()}
	}

	// Handle restart
	if in.Has(core.ActionRestart) && g.world.State != arena.StatePlaying {
		g.Reset(g.runtime)
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && g.world.State == arena.StatePlaying {
		g.paused = !g.paused
	}
	if in.Has(core.ActionMute) {
		g.muted = !g.muted
	}

	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if g.flashLeft > 0 {
		g.flashLeft--
	}
	g.world.Step(in, g.runtime.DeltaTime())

	return core.StepResult{State: g.State()}
}

// Score rates a run by kills, levels cleared past the start level and outcome.
func Score(kills, advanced int, won bool) int {
	score := kills*KillPoints + max(advanced, 0)*LevelPoints
	if won {
		score += VictoryPoints
	}
	return score
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.world == nil {
		return core.GameState{GameOver: true}
	}
	w := g.world
	won := w.State == arena.StateVictory
	return core.GameState{
		Score:    Score(w.Kills, w.Reached-w.Start, won),
		GameOver: w.State != arena.StatePlaying,
		Won:      won,
		Paused:   g.paused,
		Level:    w.Level.Index,
		Kills:    w.Kills,
		Ticks:    w.Ticks,
	}
}

// Muted reports whether audio events are suppressed.
func (g *Game) Muted() bool {
	return g.muted
}

func init() {
	registry.Register("tanks", func() registry.Game {
		return New()
	})
	registry.Register("tanks_evasive", func() registry.Game {
		return NewEvasive()
	})
}
