/*

This file contains the optional YAML parameters file for the arena service.
The scoring and rating constants themselves are fixed (they must replay
bit-exact against recorded battles); the parameters here only tune the
surrounding service layer.

*/

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ArenaParameters is the root of the optional arena.yaml file.
type ArenaParameters struct {
	Resolver   ResolverParameters   `yaml:"resolver"`
	Dashboard  DashboardParameters  `yaml:"dashboard"`
	Simulation SimulationParameters `yaml:"simulation"`
}

// ResolverParameters tunes the reward split for settled battles.
type ResolverParameters struct {
	// Bps is the resolver cut in basis points. Overrides RESOLVER_BPS when
	// the file is present and the value is non-zero.
	Bps uint64 `yaml:"bps"`
}

// DashboardParameters tunes the web read surface.
type DashboardParameters struct {
	LeaderboardLimit int `yaml:"leaderboard_limit"` // default rows on the leaderboard page
	RecentBattles    int `yaml:"recent_battles"`    // default rows of recent receipts
}

// SimulationParameters configures the `arena simulate` command defaults.
type SimulationParameters struct {
	Rounds  int    `yaml:"rounds"`
	Players int    `yaml:"players"`
	Seed    uint64 `yaml:"seed"`
}

// DefaultArenaParameters are used when no parameters file exists.
var DefaultArenaParameters = ArenaParameters{
	Resolver: ResolverParameters{Bps: 100}, // 1% resolver cut
	Dashboard: DashboardParameters{
		LeaderboardLimit: 25,
		RecentBattles:    20,
	},
	Simulation: SimulationParameters{
		Rounds:  50,
		Players: 8,
		Seed:    1,
	},
}

// LoadParameters reads the parameters file at path, filling any unset
// sections from the defaults. A missing file is not an error; the defaults
// are returned as-is.
func LoadParameters(path string) (ArenaParameters, error) {
	params := DefaultArenaParameters

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return params, nil
		}
		return params, fmt.Errorf("failed to read parameters file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &params); err != nil {
		return DefaultArenaParameters, fmt.Errorf("failed to parse parameters file %s: %w", path, err)
	}

	if params.Dashboard.LeaderboardLimit <= 0 {
		params.Dashboard.LeaderboardLimit = DefaultArenaParameters.Dashboard.LeaderboardLimit
	}
	if params.Dashboard.RecentBattles <= 0 {
		params.Dashboard.RecentBattles = DefaultArenaParameters.Dashboard.RecentBattles
	}
	if params.Simulation.Rounds <= 0 {
		params.Simulation.Rounds = DefaultArenaParameters.Simulation.Rounds
	}
	if params.Simulation.Players <= 0 {
		params.Simulation.Players = DefaultArenaParameters.Simulation.Players
	}

	return params, nil
}
