package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tanks/internal/arena"
	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks"
)

var (
	flagSimTicks   int
	flagSimLevel   int
	flagSimAI      string
	flagSimVerbose bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the arena without a screen",
	Long: `Run the simulation headless with an idle player until the run ends or
the tick budget is spent, then log the outcome and a hash of the final state.
Two runs with the same seed, level and config always print the same hash.

Examples:
  tanks sim --ticks 3600 --seed 42
  tanks sim --level 3 --ai evasive --verbose`,
	RunE: runSimCmd,
}

func init() {
	simCmd.Flags().IntVar(&flagSimTicks, "ticks", 3600, "Maximum number of ticks to run")
	simCmd.Flags().IntVar(&flagSimLevel, "level", 0, "Start level index (0 = first)")
	simCmd.Flags().StringVar(&flagSimAI, "ai", "standard", "AI profile: standard or evasive")
	simCmd.Flags().BoolVar(&flagSimVerbose, "verbose", false, "Log every event")
}

type simOptions struct {
	Ticks    int
	Seed     int64
	Level    int
	Profile  arena.Profile
	TickRate int
	Config   config.TanksConfig
	LevelDir string
}

type simResult struct {
	State   arena.State
	Level   int
	Reached int
	Kills   int
	Ticks   int
	Events  map[string]int
	Hash    uint64
}

// runSim steps a world with empty input. onEvent may be nil.
func runSim(opts simOptions, onEvent func(tick int, e arena.Event)) (simResult, error) {
	world, err := tanks.NewWorld(opts.Config, opts.Profile, opts.Seed, opts.LevelDir)
	if err != nil {
		return simResult{}, err
	}
	if opts.Level > 0 {
		if err := world.StartRun(opts.Level); err != nil {
			return simResult{}, err
		}
	}

	res := simResult{Events: make(map[string]int)}
	dt := core.RuntimeConfig{TickRate: opts.TickRate}.DeltaTime()
	idle := core.NewInputFrame()

	for i := 0; i < opts.Ticks && world.State == arena.StatePlaying; i++ {
		world.Step(idle, dt)
		for _, e := range world.Events() {
			res.Events[e.Kind.String()]++
			if onEvent != nil {
				onEvent(world.Ticks, e)
			}
		}
	}

	res.State = world.State
	res.Level = world.Level.Index
	res.Reached = world.Reached
	res.Kills = world.Kills
	res.Ticks = world.Ticks
	res.Hash = world.Snapshot().Hash()
	return res, nil
}

func runSimCmd(_ *cobra.Command, _ []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tanks-sim",
	})
	if flagSimVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	profile, err := arena.ParseProfile(flagSimAI)
	if err != nil {
		return err
	}

	cfg, err := config.LoadTanks(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagDifficulty != "" {
		config.ApplyTanksPreset(&cfg, config.ParsePreset(flagDifficulty))
	}

	opts := simOptions{
		Ticks:    flagSimTicks,
		Seed:     flagSeed,
		Level:    flagSimLevel,
		Profile:  profile,
		TickRate: flagFPS,
		Config:   cfg,
		LevelDir: flagLevels,
	}
	logger.Info("sim started", "seed", opts.Seed, "level", opts.Level, "ai", profile, "ticks", opts.Ticks)

	res, err := runSim(opts, func(tick int, e arena.Event) {
		logger.Debug("event", "tick", tick, "kind", e.Kind, "source", e.Source)
	})
	if err != nil {
		return fmt.Errorf("sim: %w", err)
	}

	logger.Info("sim finished",
		"state", res.State,
		"level", res.Level,
		"reached", res.Reached,
		"kills", res.Kills,
		"ticks", res.Ticks,
		"shots", res.Events[arena.EventShot.String()],
		"hits", res.Events[arena.EventHit.String()],
		"hash", fmt.Sprintf("%016x", res.Hash),
	)
	return nil
}
