package config

import "math"

// DifficultyManager derives combat pacing from the level reached or time played.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0, 1),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the difficulty in [0, 1] for the given level index and tick count.
func (d *DifficultyManager) Level(levelIndex, ticks int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "level":
		span := float64(d.cfg.Progression.MaxAt - 1)
		if span <= 0 {
			progress = 1
		} else {
			progress = float64(levelIndex-1) / span
		}
	case "time":
		maxAt := float64(d.cfg.Progression.MaxAt)
		if maxAt <= 0 {
			maxAt = 1
		}
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0, 1)
	return d.initialLevel + progress*(1-d.initialLevel)
}

// Interval shortens a base cooldown in seconds as difficulty rises.
func (d *DifficultyManager) Interval(base float64, levelIndex, ticks int) float64 {
	return base / (1 + d.Level(levelIndex, ticks)*d.cfg.Scaling.FireRate)
}

// TurnSpeed raises a base rotate speed as difficulty rises.
func (d *DifficultyManager) TurnSpeed(base float64, levelIndex, ticks int) float64 {
	return base * (1 + d.Level(levelIndex, ticks)*d.cfg.Scaling.TurnRate)
}

func clampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
