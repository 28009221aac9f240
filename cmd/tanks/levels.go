package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tanks/internal/config"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks"
	"github.com/vovakirdan/tui-tanks/internal/platform/tui"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the level pack",
	Long: `Lists the levels of the active pack in campaign order and checks each
one against the arena rules. Use --levels to inspect a custom directory.

Examples:
  tanks levels
  tanks levels --levels ./my-levels`,
	Run: runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	lvls, err := tanks.Levels()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadTanks(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	fmt.Printf("  %-5s  %-12s  %-20s  %-7s  %s\n", "Index", "ID", "Name", "Size", "Status")
	fmt.Printf("  %-5s  %-12s  %-20s  %-7s  %s\n", "-----", "--", "----", "----", "------")

	for _, l := range lvls {
		status := "ok"
		if vErr := l.Validate(cfg.Blocks); vErr != nil {
			status = vErr.Error()
		}
		size := "-"
		if len(l.Matrix) > 0 {
			size = fmt.Sprintf("%dx%d", len(l.Matrix[0]), len(l.Matrix))
		}
		fmt.Printf("  %-5d  %-12s  %-20s  %-7s  %s\n", l.Index, l.ID, l.Name, size, status)
	}
}

// levelChoices feeds the start level picker. Errors leave the picker empty.
func levelChoices() []tui.LevelChoice {
	lvls, err := tanks.Levels()
	if err != nil {
		return nil
	}
	choices := make([]tui.LevelChoice, 0, len(lvls))
	for _, l := range lvls {
		choices = append(choices, tui.LevelChoice{Index: l.Index, Name: l.Name})
	}
	return choices
}
