package main

import (
	"fmt"
	"os"

	"nowmarket/internal/market"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "nowsim",
		Short:        "Run the NOW market simulation locally",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newCatalogCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		ticks       int
		seed        int64
		balance     float64
		closedHours bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Advance the market a number of ticks and print the closing state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ticks <= 0 {
				return fmt.Errorf("ticks must be positive")
			}
			m := market.New(market.Config{Seed: seed, StartingBalance: balance}, nil)
			for done := 0; done < ticks; {
				open := m.Clock().Open
				m.Tick()
				// Closed minutes move only the clock; unless asked for,
				// they do not count toward the requested run length.
				if open || closedHours {
					done++
				}
			}
			renderSnapshot(m.Snapshot())
			return nil
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 390, "number of simulated minutes to run")
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed (0 picks a random seed)")
	cmd.Flags().Float64Var(&balance, "balance", 10_000, "starting cash balance")
	cmd.Flags().BoolVar(&closedHours, "closed-hours", false, "count after-hours minutes toward --ticks")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the company and index catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := market.New(market.Config{Seed: 1}, nil)
			renderCatalog(m.Snapshot())
			return nil
		},
	}
}
