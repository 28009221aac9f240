// tanks is a terminal tank arena: drive, shoot and clear each level of AI tanks.
//
// Usage:
//
//	tanks list              - List game modes
//	tanks levels            - List the level pack
//	tanks play [mode]       - Play a mode
//	tanks menu              - Pick a mode and start level interactively
//	tanks serve             - Start SSH server for remote play
//	tanks web               - Start WebSocket server
//	tanks scores [mode]     - Show the best runs of a mode
//	tanks sim               - Run the arena headless
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.tanks/tanks.db)
//	--config <path>       - Custom tanks.yaml
//	--difficulty <preset> - easy, normal, hard or fixed
//	--levels <dir>        - Directory of level files instead of the builtin pack
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tanks/internal/games/tanks"
	"github.com/vovakirdan/tui-tanks/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLevels     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tanks",
	Short: "Tanks - a tank arena in your terminal",
	Long: `Tanks is a top-down tank arena. Destroy every AI tank on a level to
open the gate to the next one; clear the last level to win.

Available commands:
  list     - Show game modes
  levels   - Show the level pack
  play     - Play a mode directly
  menu     - Interactive mode and level picker
  serve    - Start SSH server for remote play
  web      - Start WebSocket server
  scores   - View best runs
  sim      - Run the arena without a screen

Examples:
  tanks play
  tanks play tanks_evasive --level 2
  tanks menu --difficulty hard
  tanks serve --ssh :2222
  tanks web --addr :8080
  tanks sim --ticks 3600 --seed 42`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		tanks.SetConfigPath(flagConfig)
		tanks.SetDifficultyPreset(flagDifficulty)
		tanks.SetLevelDir(flagLevels)
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tanks.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Directory of level files (default: builtin pack)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
}
