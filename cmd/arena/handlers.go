package main

import (
	"encoding/json"
	"fmt"
	"os"

	sdkmath "cosmossdk.io/math"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/dexbattles/arena/internal/arena"
	"github.com/dexbattles/arena/internal/config"
	"github.com/dexbattles/arena/internal/leaderboard"
	"github.com/dexbattles/arena/internal/logger"
	"github.com/dexbattles/arena/internal/simulations"
	"github.com/dexbattles/arena/internal/state"
	"github.com/dexbattles/arena/internal/web"
)

// runServe wires the full service: Postgres-backed stores, leaderboard,
// settlement engine, and the HTTP surface. Blocks until the server exits.
func runServe() error {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("Arena settlement service starting...")

	params, err := config.LoadParameters(paramsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", paramsFile).Msg("Failed to load parameters file")
	}

	dbCfg := state.DBConfig{
		Host: config.DBHost, Port: config.DBPort,
		User: config.DBUser, Password: config.DBPassword,
		DBName: config.DBName, SSLMode: config.DBSSLMode,
	}
	if err := state.InitDB(dbCfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer state.CloseDB()
	if err := state.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	resolverBps := config.ResolverBps
	if params.Resolver.Bps != 0 {
		resolverBps = params.Resolver.Bps
	}

	lb := leaderboard.NewService(state.NewPlayerStore())
	receipts := state.NewReceiptStore()
	arenaSvc, err := arena.NewService(arena.Config{
		Leaderboard:        lb,
		Receipts:           receipts,
		DefaultResolverBps: sdkmath.NewUint(resolverBps),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize settlement service")
	}

	log.Info().
		Uint64("resolverBps", resolverBps).
		Str("port", config.WebPort).
		Msg("Settlement service ready")

	webServer := web.NewWebServer(config.WebPort, config.ArenaToken, lb, arenaSvc, receipts, params)
	return webServer.Start()
}

// runSimulate settles a seeded batch of synthetic battles against in-memory
// stores and prints the final leaderboard as JSON. No database or token
// needed.
func runSimulate(rounds, players int, seed uint64) error {
	logger.Initialize(os.Getenv("LOG_LEVEL"))

	params, err := config.LoadParameters(paramsFile)
	if err != nil {
		return fmt.Errorf("failed to load parameters file %s: %w", paramsFile, err)
	}

	simParams := params.Simulation
	if rounds > 0 {
		simParams.Rounds = rounds
	}
	if players > 0 {
		simParams.Players = players
	}
	if seed > 0 {
		simParams.Seed = seed
	}

	report, err := simulations.Run(simParams, params.Resolver.Bps)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
