package core

// RuntimeConfig is handed to a game on Reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed; identical seeds and inputs replay identically
}

// DefaultConfig returns a RuntimeConfig for an 80x24 terminal at 60 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// DeltaTime returns the fixed simulated seconds per tick.
func (c RuntimeConfig) DeltaTime() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60
	}
	return 1 / float64(c.TickRate)
}

// GameState is the platform-facing status of a game.
type GameState struct {
	Score    int  // Current score
	GameOver bool // The run has ended (defeat or victory)
	Won      bool // The run ended in victory
	Paused   bool // Simulation is paused
	Level    int  // Current level index
	Kills    int  // AI tanks destroyed this run
	Ticks    int  // Simulated ticks this run
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State GameState
}
