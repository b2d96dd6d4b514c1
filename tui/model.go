package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/wricardo/wordle-duel/api"
	"github.com/wricardo/wordle-duel/game/cooldown"
	"github.com/wricardo/wordle-duel/game/entry"
	"github.com/wricardo/wordle-duel/game/service"
	"github.com/wricardo/wordle-duel/game/wordle"
	"github.com/wricardo/wordle-duel/transport/websocket"
)

// Screen is the view currently shown
type Screen int

const (
	ScreenMenu     Screen = iota // Start or join
	ScreenCreate                 // Game name input
	ScreenDiscover               // Open games list
	ScreenGame                   // Joining or playing
)

var menuItems = []string{"Start Game", "Join Game"}

// Options configures a Model.
type Options struct {
	Cooldown time.Duration
	Dial     service.Dialer
	Logger   *zap.Logger
}

// Model is the bubbletea model for the whole client. Its Update loop is the
// single owner of the session: frames, timer expiries and keystrokes all
// arrive as messages.
type Model struct {
	ctx    context.Context
	lobby  service.Lobby
	dial   service.Dialer
	window time.Duration
	logger *zap.Logger
	keys   KeyMap

	screen    Screen
	menuIdx   int
	nameInput textinput.Model
	spinner   spinner.Model

	games   []wordle.Session
	loading bool
	gameIdx int

	game    *service.Game
	conn    service.Conn
	pending []cooldown.Timer
	tick    func(cooldown.Timer) tea.Cmd

	notice        string // Last rejected action, cleared on the next key
	err           error
	width, height int
}

// New creates the root model. ctx bounds every request the model makes.
func New(ctx context.Context, lobby service.Lobby, opts Options) *Model {
	if opts.Dial == nil {
		opts.Dial = service.DialWebsocket
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	nameInput := textinput.New()
	nameInput.Placeholder = "Enter game name"
	nameInput.Prompt = "Name: "
	nameInput.CharLimit = 40
	nameInput.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Model{
		ctx:       ctx,
		lobby:     lobby,
		dial:      opts.Dial,
		window:    opts.Cooldown,
		logger:    opts.Logger,
		keys:      DefaultKeyMap(),
		nameInput: nameInput,
		spinner:   sp,
		tick:      cooldownCmd,
	}
}

// Init starts the spinner animation
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Close releases the session channel. It is safe to call after the program
// has exited.
func (m *Model) Close() {
	m.teardown()
}

// Screen returns the current screen.
func (m *Model) Screen() Screen {
	return m.screen
}

// Update handles all messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case gamesLoadedMsg:
		m.loading = false
		m.games = msg.games
		m.gameIdx = 0
		return m, nil

	case gameCreatedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, m.join(msg.id)

	case connectedMsg:
		return m, m.handleConnected(msg)

	case frameMsg:
		if msg.conn != m.conn || m.game == nil {
			return m, nil
		}
		m.game.HandleFrame(msg.frame)
		return m, tea.Batch(waitForFrame(m.conn), m.flushTimers())

	case channelClosedMsg:
		if msg.conn != m.conn || m.game == nil {
			return m, nil
		}
		m.conn.Close()
		m.conn = nil
		err := msg.err
		if err == nil {
			err = websocket.ErrServerGone
		}
		m.game.HandleClosed(err)
		return m, nil

	case cooldownExpiredMsg:
		if m.game != nil {
			m.game.HandleExpiry(msg.timer)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleConnected(msg connectedMsg) tea.Cmd {
	if m.game == nil || msg.sessionID != m.game.SessionID() || m.conn != nil {
		// Superseded by a later join or a teardown.
		if msg.conn != nil {
			msg.conn.Close()
		}
		return nil
	}
	if msg.err != nil {
		m.logger.Warn("join failed", zap.String("game_id", msg.sessionID), zap.Error(msg.err))
		m.game.HandleClosed(msg.err)
		return nil
	}
	m.conn = msg.conn
	m.game.SetSender(msg.conn)
	return waitForFrame(msg.conn)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	if key.Matches(msg, m.keys.Interrupt) {
		m.teardown()
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenMenu:
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Escape):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.menuIdx > 0 {
				m.menuIdx--
			}
		case key.Matches(msg, m.keys.Down):
			if m.menuIdx < len(menuItems)-1 {
				m.menuIdx++
			}
		case key.Matches(msg, m.keys.Enter):
			m.err = nil
			if m.menuIdx == 0 {
				m.screen = ScreenCreate
				m.nameInput.Reset()
				return m, m.nameInput.Focus()
			}
			return m, m.openDiscovery()
		}
		return m, nil

	case ScreenCreate:
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.nameInput.Blur()
			m.screen = ScreenMenu
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			m.err = nil
			name := strings.TrimSpace(m.nameInput.Value())
			if name == "" {
				return m, nil
			}
			return m, createGameCmd(m.ctx, m.lobby, name)
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd

	case ScreenDiscover:
		switch {
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
			m.screen = ScreenMenu
		case key.Matches(msg, m.keys.Refresh):
			return m, m.openDiscovery()
		case key.Matches(msg, m.keys.Up):
			if m.gameIdx > 0 {
				m.gameIdx--
			}
		case key.Matches(msg, m.keys.Down):
			if m.gameIdx < len(m.games)-1 {
				m.gameIdx++
			}
		case key.Matches(msg, m.keys.Enter):
			if !m.loading && len(m.games) > 0 {
				return m, m.join(m.games[m.gameIdx].ID)
			}
		}
		return m, nil

	case ScreenGame:
		return m, m.handleGameKey(msg)
	}

	return m, nil
}

func (m *Model) handleGameKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.teardown()
		m.game = nil
		m.screen = ScreenMenu
		return nil
	case key.Matches(msg, m.keys.Enter):
		if _, err := m.game.Submit(); err != nil {
			m.notice = submitNotice(err)
		}
		return nil
	case key.Matches(msg, m.keys.Backspace):
		m.game.Backspace()
	case key.Matches(msg, m.keys.Left):
		m.game.SetFocus(m.game.View().Focus - 1)
	case key.Matches(msg, m.keys.Right):
		m.game.SetFocus(m.game.View().Focus + 1)
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			m.game.Type(r)
		}
	}
	return nil
}

func submitNotice(err error) string {
	switch {
	case errors.Is(err, entry.ErrIncomplete):
		return "Fill all five letters"
	case errors.Is(err, entry.ErrCooldown):
		return "Wait for the cooldown"
	case errors.Is(err, entry.ErrCompleted):
		return "The game is over"
	case errors.Is(err, entry.ErrNotJoined):
		return "Not connected"
	default:
		return err.Error()
	}
}

// openDiscovery switches to the games list and fetches it. Discovery runs
// only when this screen is requested.
func (m *Model) openDiscovery() tea.Cmd {
	m.screen = ScreenDiscover
	m.loading = true
	m.games = nil
	return listGamesCmd(m.ctx, m.lobby)
}

// join tears down any current session and starts a new one.
func (m *Model) join(id string) tea.Cmd {
	if err := api.ValidateSessionID(id); err != nil {
		m.err = err
		return nil
	}

	m.teardown()
	m.pending = nil
	m.nameInput.Blur()
	m.game = service.NewGame(id, nil, m.window, m.schedule, m.logger)
	m.game.Connecting()
	m.screen = ScreenGame
	return dialCmd(m.ctx, m.dial, m.lobby.BaseURL(), id, m.logger)
}

// schedule is the cooldown.Scheduler. Timers requested while handling a
// message are turned into tea.Tick commands by flushTimers.
func (m *Model) schedule(t cooldown.Timer) {
	m.pending = append(m.pending, t)
}

func (m *Model) flushTimers() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(m.pending))
	for _, t := range m.pending {
		cmds = append(cmds, m.tick(t))
	}
	m.pending = nil
	return tea.Batch(cmds...)
}

func (m *Model) teardown() {
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	if m.game != nil {
		m.game.HandleClosed(nil)
	}
}
