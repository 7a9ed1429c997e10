package web

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/gorilla/mux"

	"github.com/dexbattles/arena/internal/arena"
	"github.com/dexbattles/arena/internal/config"
	"github.com/dexbattles/arena/internal/leaderboard"
	"github.com/dexbattles/arena/internal/logger"
	"github.com/dexbattles/arena/internal/state"
	"github.com/dexbattles/arena/internal/types"
)

var webLogger = logger.GetForComponent("web_server")

// WebServer handles HTTP requests for the arena dashboard and API
type WebServer struct {
	router      *mux.Router
	port        string
	arenaToken  string
	leaderboard *leaderboard.Service
	arena       *arena.Service
	receipts    *state.ReceiptStore
	params      config.ArenaParameters
}

// NewWebServer creates a new web server instance
func NewWebServer(port, arenaToken string, lb *leaderboard.Service, ar *arena.Service, receipts *state.ReceiptStore, params config.ArenaParameters) *WebServer {
	if port == "" {
		port = "8080"
	}

	server := &WebServer{
		router:      mux.NewRouter(),
		port:        port,
		arenaToken:  arenaToken,
		leaderboard: lb,
		arena:       ar,
		receipts:    receipts,
		params:      params,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	// Health endpoint (direct route)
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET")

	// API endpoints
	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", ws.handleHealth).Methods("GET")
	api.HandleFunc("/leaderboard", ws.handleGetLeaderboard).Methods("GET")
	api.HandleFunc("/players/{address}", ws.handleGetPlayer).Methods("GET")
	api.HandleFunc("/battles/recent", ws.handleGetRecentBattles).Methods("GET")
	api.HandleFunc("/battles/settle", ws.requireArenaToken(ws.handleSettleBattle)).Methods("POST")
	api.HandleFunc("/battles/{id:[0-9]+}", ws.handleGetBattle).Methods("GET")
	api.HandleFunc("/parameters", ws.handleGetParameters).Methods("GET")

	// Add CORS middleware
	ws.router.Use(ws.corsMiddleware)
	ws.router.Use(ws.loggingMiddleware)
}

// Start starts the web server
func (ws *WebServer) Start() error {
	webLogger.Info().Str("port", ws.port).Msg("Starting web server")

	server := &http.Server{
		Addr:         ":" + ws.port,
		Handler:      ws.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// handleHealth returns server health status
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	dbHealthy := true
	if err := state.TestDBConnection(); err != nil {
		dbHealthy = false
	}

	playerCount, countErr := ws.leaderboard.PlayerCount()
	if countErr != nil {
		webLogger.Error().Err(countErr).Msg("Failed to count players for health check")
	}

	overallStatus := "OK"
	if !dbHealthy {
		overallStatus = "DEGRADED"
	}

	response := map[string]interface{}{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"system": map[string]interface{}{
			"version":          runtime.Version(),
			"goroutines_count": runtime.NumGoroutine(),
			"alloc_bytes":      memStats.Alloc,
			"sys_bytes":        memStats.Sys,
			"gc_cycles":        memStats.NumGC,
		},
		"component": map[string]interface{}{
			"name":    "arena-battle-settlement",
			"version": "1.0.0",
		},
		"arena_status": map[string]interface{}{
			"database_healthy": dbHealthy,
			"player_count":     playerCount,
		},
	}

	statusCode := http.StatusOK
	if !dbHealthy {
		statusCode = http.StatusServiceUnavailable
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// handleGetLeaderboard returns the highest-rated players
func (ws *WebServer) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := ws.params.Dashboard.LeaderboardLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 && parsedLimit <= 100 {
			limit = parsedLimit
		}
	}

	players, err := ws.leaderboard.TopPlayers(limit)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get top players")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve leaderboard")
		return
	}

	count, err := ws.leaderboard.PlayerCount()
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to count players")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve leaderboard")
		return
	}

	response := map[string]interface{}{
		"players":       players,
		"count":         len(players),
		"total_players": count,
		"limit":         limit,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetPlayer returns one player's record. Players that have never fought
// read back at the default rating with zeroed counters.
func (ws *WebServer) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	address := vars["address"]
	if address == "" {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Player address is required")
		return
	}

	stats, err := ws.leaderboard.GetStats(address)
	if err != nil {
		webLogger.Error().Err(err).Str("address", address).Msg("Failed to get player stats")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve player")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, stats)
}

// handleGetRecentBattles returns the most recently settled battles
func (ws *WebServer) handleGetRecentBattles(w http.ResponseWriter, r *http.Request) {
	limit := ws.params.Dashboard.RecentBattles
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 && parsedLimit <= 100 {
			limit = parsedLimit
		}
	}

	receipts, err := ws.receipts.GetRecentReceipts(limit)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get recent receipts")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve recent battles")
		return
	}

	response := map[string]interface{}{
		"battles": receipts,
		"count":   len(receipts),
		"limit":   limit,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetBattle returns a specific settlement receipt by ID
func (ws *WebServer) handleGetBattle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idStr := vars["id"]

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid receipt ID")
		return
	}

	receipt, err := ws.receipts.GetReceiptByID(id)
	if err != nil {
		webLogger.Error().Err(err).Int64("receiptId", id).Msg("Failed to get receipt")
		ws.writeErrorResponse(w, http.StatusNotFound, "Battle receipt not found")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, receipt)
}

// handleSettleBattle settles a submitted battle and returns the full result
func (ws *WebServer) handleSettleBattle(w http.ResponseWriter, r *http.Request) {
	battle := emptyBattle()
	if err := json.NewDecoder(r.Body).Decode(&battle); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid battle payload")
		return
	}

	result, err := ws.arena.Settle(battle)
	if err != nil {
		webLogger.Error().Err(err).Uint64("battleId", battle.ID).Msg("Failed to settle battle")
		ws.writeErrorResponse(w, http.StatusUnprocessableEntity, "Failed to settle battle: "+err.Error())
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, result)
}

// handleGetParameters returns the active service parameters
func (ws *WebServer) handleGetParameters(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"parameters": ws.params,
		"timestamp":  time.Now().UTC(),
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// emptyBattle returns a battle with every integer field initialized to zero so
// fields absent from the JSON payload decode to zero instead of a nil Uint.
func emptyBattle() types.Battle {
	return types.Battle{
		PositionA:   emptySnapshot(),
		PositionB:   emptySnapshot(),
		FeePoolUSD:  sdkmath.ZeroUint(),
		ResolverBps: sdkmath.ZeroUint(),
	}
}

func emptySnapshot() types.PositionSnapshot {
	return types.PositionSnapshot{
		InRangeTime:  sdkmath.ZeroUint(),
		TotalTime:    sdkmath.ZeroUint(),
		TickDistance: sdkmath.ZeroUint(),
		FeesUSD:      sdkmath.ZeroUint(),
		LPValueUSD:   sdkmath.ZeroUint(),
		Duration:     sdkmath.ZeroUint(),
	}
}

// requireArenaToken gates mutating endpoints behind the configured bearer
// token. Constant-time comparison; a missing server-side token disables the
// endpoint rather than opening it.
func (ws *WebServer) requireArenaToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ws.arenaToken == "" {
			ws.writeErrorResponse(w, http.StatusForbidden, "Settlement endpoint is disabled")
			return
		}

		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(ws.arenaToken)) != 1 {
			ws.writeErrorResponse(w, http.StatusUnauthorized, "Invalid or missing arena token")
			return
		}

		next(w, r)
	}
}

// writeJSONResponse writes a JSON response
func (ws *WebServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (ws *WebServer) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// corsMiddleware adds CORS headers
func (ws *WebServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)

		webLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", duration).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
