package arena

import (
	"testing"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/core"
)

const testDT = 1.0 / 60

func testConfig() config.TanksConfig {
	cfg := config.DefaultTanksConfig()
	cfg.Difficulty.Enabled = false
	return cfg
}

func testLevels() []LevelData {
	return []LevelData{
		{
			Index: 1,
			Name:  "yard",
			Matrix: []string{
				"*DDDDD*",
				"RP   AL",
				"R    aL",
				"*UUUUU*",
			},
		},
		{
			Index: 2,
			Name:  "cannon",
			Matrix: []string{
				"*DDDDDDD*",
				"RP     AL",
				"R  kKk aL",
				"*UUUUUUU*",
			},
		},
		{
			Index: 3,
			Name:  "conveyor",
			Matrix: []string{
				"*DDDDD*",
				"RP W AL",
				"R    aL",
				"*UUUUU*",
			},
		},
	}
}

func newTestWorld(t *testing.T, seed int64) *World {
	t.Helper()
	w, err := NewWorld(testLevels(), testConfig(), Options{Seed: seed})
	if err != nil {
		t.Fatalf("NewWorld() failed: %v", err)
	}
	return w
}

// singleBlockLevel returns a level holding one block at pos.
func singleBlockLevel(bt BlockType, pos core.Vec3) *Level {
	b := Block{
		Type:     bt,
		Position: pos,
		Collider: core.BoxAround(pos, 2),
		half:     2,
	}
	return &Level{CellSize: 4, Blocks: []Block{b}, turret: -1}
}

func findTank(w *World, name string) *Tank {
	for _, t := range w.Tanks {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
