package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/wricardo/wordle-duel/game/lobby"
	"github.com/wricardo/wordle-duel/game/wordle"
	"github.com/wricardo/wordle-duel/transport/websocket"
)

// Registry is the game store behind the reference server's REST routes.
type Registry interface {
	List() []wordle.Session
	Create(name string) (string, error)
}

// Server is the reference game server: discovery and creation over REST,
// play over the websocket hub.
type Server struct {
	games      Registry
	hub        *websocket.Hub
	router     *mux.Router
	corsOrigin string
	logger     *zap.Logger
}

// NewServer creates a server over games. hub may be nil, in which case the
// join route is not mounted.
func NewServer(games Registry, hub *websocket.Hub, corsOrigin string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		games:      games,
		hub:        hub,
		router:     mux.NewRouter(),
		corsOrigin: corsOrigin,
		logger:     logger,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Use(s.cors, s.logRequests)

	s.router.HandleFunc("/games", s.handleListGames).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/start", s.handleStartGame).Methods(http.MethodPost, http.MethodOptions)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// WebSocket
	if s.hub != nil {
		s.router.HandleFunc(websocket.JoinPath, s.hub.ServeJoin)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.corsOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

// Game Handlers

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, listGamesResponse{Games: s.games.List()})
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := s.games.Create(req.GameName)
	if err != nil {
		if errors.Is(err, lobby.ErrEmptyName) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("game started", zap.String("game_id", id), zap.String("name", req.GameName))
	respondJSON(w, http.StatusOK, startResponse{GameID: id, GameName: req.GameName})
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
