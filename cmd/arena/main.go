package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var paramsFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "arena",
		Short: "Settle LP position battles and maintain the player leaderboard",
	}

	root.PersistentFlags().StringVar(&paramsFile, "params", "arena.yaml", "parameters file")

	root.AddCommand(serveCmd())
	root.AddCommand(simulateCmd())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the settlement API and dashboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	return cmd
}

func simulateCmd() *cobra.Command {
	var (
		rounds  int
		players int
		seed    uint64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Settle a seeded sequence of synthetic battles in memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(rounds, players, seed)
		},
	}

	cmd.Flags().IntVar(&rounds, "rounds", 0, "battles to simulate (default: from params file)")
	cmd.Flags().IntVar(&players, "players", 0, "simulated players (default: from params file)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "PRNG seed (default: from params file)")
	return cmd
}
