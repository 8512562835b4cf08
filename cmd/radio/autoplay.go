package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/cliff-radio/internal/game"
)

var (
	autoplaySeed     int64
	autoplayRuns     int
	autoplayMaxSteps int
	autoplayVerbose  bool
)

// autoplayCmd plays the story with random choices
var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Play the story with random choices",
	Long: `Walk the story from the start with random choices and report where each
run stops. Useful for checking that every path reaches an ending.
Runs use in-memory progress and never touch save slots.

Example:
  radio autoplay --runs 100
  radio autoplay --seed 7 --verbose`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := loadContent()
		if err != nil {
			return err
		}

		if autoplayRuns < 1 {
			return fmt.Errorf("runs must be at least 1, got %d", autoplayRuns)
		}

		out := cmd.OutOrStdout()
		outcomes := map[string]int{}
		failures := 0

		for i := 0; i < autoplayRuns; i++ {
			diceRoller := game.NewDiceRoller()
			if autoplaySeed != 0 {
				diceRoller = game.NewSeededDiceRoller(autoplaySeed + int64(i))
			}

			pilot := game.NewAutoPilot(content, diceRoller, logger)
			pilot.SetMaxSteps(autoplayMaxSteps)

			run, err := pilot.Run(cmd.Context())
			if err != nil {
				return err
			}

			key := run.Outcome
			if run.Outcome == game.OutcomeEnding {
				key = run.Ending
			} else {
				failures++
			}
			outcomes[key]++

			if autoplayVerbose {
				fmt.Fprintf(out, "%s %s\n", gray(fmt.Sprintf("run %d:", i+1)), strings.Join(run.Path, " -> "))
			}
			if run.Err != nil {
				fmt.Fprintln(out, red(fmt.Sprintf("run %d: %v", i+1, run.Err)))
			}
		}

		// Print outcomes
		keys := make([]string, 0, len(outcomes))
		for key := range outcomes {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		fmt.Fprintln(out, cyan(fmt.Sprintf("%d runs", autoplayRuns)))
		for _, key := range keys {
			fmt.Fprintf(out, "  %-20s %d\n", key, outcomes[key])
		}

		if failures > 0 {
			return fmt.Errorf("%d of %d runs did not reach an ending", failures, autoplayRuns)
		}
		return nil
	},
}

func init() {
	autoplayCmd.Flags().Int64Var(&autoplaySeed, "seed", 0, "Seed for the first run, each later run adds one (0 picks a random seed)")
	autoplayCmd.Flags().IntVar(&autoplayRuns, "runs", 1, "Number of runs")
	autoplayCmd.Flags().IntVar(&autoplayMaxSteps, "max-steps", game.DefaultMaxSteps, "Stop a run after this many choices")
	autoplayCmd.Flags().BoolVarP(&autoplayVerbose, "verbose", "v", false, "Print the path of every run")
	rootCmd.AddCommand(autoplayCmd)
}
