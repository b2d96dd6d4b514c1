package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/wricardo/wordle-duel/game/entry"
	"github.com/wricardo/wordle-duel/game/history"
	"github.com/wricardo/wordle-duel/game/service"
	"github.com/wricardo/wordle-duel/game/session"
	"github.com/wricardo/wordle-duel/game/wordle"
)

// Server exposes a single player's game as MCP tools.
type Server struct {
	service   service.GameService
	mcpServer *server.MCPServer
	logger    *zap.Logger
}

// NewServer creates the MCP tool surface over svc.
func NewServer(svc service.GameService, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service: svc,
		logger:  logger,
	}

	s.initMCPServer(version)
	return s
}

// initMCPServer initializes the MCP server with all tools
func (s *Server) initMCPServer(version string) {
	s.mcpServer = server.NewMCPServer(
		"Wordle Duel",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Wordle Duel - MCP Interface

Two players race to find the same five-letter word. Every guess is scored
for both players to see.

AVAILABLE TOOLS:
- list_games: Open games waiting for players
- create_game: Start a new game (does not join it)
- join_game: Join a game by id and get your player number
- submit_guess: Send a five-letter guess
- game_state: Show the shared guess history
- leave_game: Close the connection to the current game
- game_instructions: Rules and feedback legend

After your own guess appears in the history you must wait a short cooldown
before guessing again.`),
	)

	s.registerTools()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List open games that can be joined",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListGames)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a new game and return its id",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_name": map[string]interface{}{
					"type":        "string",
					"description": "Display name shown to other players",
				},
			},
			Required: []string{"game_name"},
		},
	}, s.handleCreateGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "join_game",
		Description: "Join a game. Leaves the current game first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game ID from list_games or create_game",
				},
			},
			Required: []string{"game_id"},
		},
	}, s.handleJoinGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_guess",
		Description: "Submit a five-letter guess in the current game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"word": map[string]interface{}{
					"type":        "string",
					"description": "Five letters, A-Z",
					"minLength":   wordle.WordLength,
					"maxLength":   wordle.WordLength,
				},
			},
			Required: []string{"word"},
		},
	}, s.handleSubmitGuess)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Show the current game: status, player number, cooldown and guess history",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleGameState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "leave_game",
		Description: "Disconnect from the current game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleLeaveGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules and the feedback legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools over stdin/stdout until the client goes away.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func stringArg(request mcp.CallToolRequest, key string) string {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return ""
	}
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

// Tool handlers

func (s *Server) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	games := s.service.ListGames(ctx)
	return mcp.NewToolResultText(formatGames(games)), nil
}

func (s *Server) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := stringArg(request, "game_name")

	id, err := s.service.CreateGame(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created game: %s\nName: %s\nUse join_game to play.\n", id, name)), nil
}

func (s *Server) handleJoinGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID := stringArg(request, "game_id")

	view, err := s.service.JoinGame(ctx, gameID)
	if err != nil {
		s.logger.Info("join failed", zap.String("game_id", gameID), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatView(view)), nil
}

func (s *Server) handleSubmitGuess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word := stringArg(request, "word")

	view, err := s.service.Guess(ctx, word)
	if err != nil {
		return mcp.NewToolResultError(guessErrorMessage(err)), nil
	}

	response := fmt.Sprintf("✓ Sent %s\n", strings.ToUpper(word))
	response += "Call game_state to see the scored guess.\n\n"
	response += formatView(view)
	return mcp.NewToolResultText(response), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view, err := s.service.State(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatView(view)), nil
}

func (s *Server) handleLeaveGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.service.Leave(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Left the game"), nil
}

func (s *Server) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Wordle Duel - Instructions

OBJECTIVE:
Be the first to guess the hidden five-letter word. Both players guess the
same word and see each other's guesses.

FLOW:
1. list_games to find an open game, or create_game to start one
2. join_game with the game id; you are told your player number
3. submit_guess with five letters
4. game_state to read the scored history

FEEDBACK LEGEND (game_state):
• [A] - A is in the word at this position
• (A) - A is in the word at another position
•  a  - A is not in the word (or all its copies are already marked)

RULES:
• After your own guess shows up in the history you wait a short cooldown
  before guessing again. Your opponent's guesses do not affect you.
• The game ends when someone guesses the word. No guesses are accepted
  after that.
• Guesses must be exactly five letters.`

	return mcp.NewToolResultText(instructions), nil
}

func guessErrorMessage(err error) string {
	switch {
	case errors.Is(err, entry.ErrCooldown):
		return "Cooldown active: wait a moment after your own guess"
	case errors.Is(err, entry.ErrCompleted):
		return "Game over: no more guesses are accepted"
	case errors.Is(err, entry.ErrNotJoined):
		return "Not joined: use join_game first"
	case errors.Is(err, entry.ErrIncomplete):
		return "Guess must be exactly five letters"
	default:
		return err.Error()
	}
}

// Formatting helpers

func formatGames(games []wordle.Session) string {
	if len(games) == 0 {
		return "No available games."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Open games (%d):\n", len(games)))
	for _, g := range games {
		b.WriteString(fmt.Sprintf("- %s: %s (%d/2 players)\n", g.ID, g.Name, g.Players))
	}
	return b.String()
}

func formatView(view *service.View) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Game: %s | Status: %s", view.SessionID, view.Status))
	if label := view.PlayerLabel(); label != "" {
		b.WriteString(" | " + label)
	}
	b.WriteString("\n")

	switch {
	case view.Completed:
		b.WriteString("Game Over!\n")
	case view.Status == session.Connecting:
		b.WriteString("Joining game...\n")
	case view.Status == session.Closed && view.Err != nil:
		b.WriteString(fmt.Sprintf("Disconnected: %v\n", view.Err))
	case view.Cooldown:
		b.WriteString("Cooldown active\n")
	case view.Status == session.Joined:
		b.WriteString("Your turn: submit a guess\n")
	}

	if len(view.Rows) == 0 {
		b.WriteString("\nNo guesses yet.\n")
		return b.String()
	}

	b.WriteString("\n")
	for _, row := range view.Rows {
		b.WriteString(formatRow(row))
		b.WriteString("  ")
		b.WriteString(row.Player.String())
		b.WriteString("\n")
	}
	return b.String()
}

func formatRow(row history.Row) string {
	var b strings.Builder
	for _, tile := range row.Tiles {
		switch tile.Marker {
		case history.MarkerExact:
			b.WriteString("[" + string(tile.Letter) + "]")
		case history.MarkerPresent:
			b.WriteString("(" + string(tile.Letter) + ")")
		default:
			b.WriteString(" " + strings.ToLower(string(tile.Letter)) + " ")
		}
	}
	return b.String()
}
