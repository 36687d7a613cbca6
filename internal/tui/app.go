package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/h0rv/shuhan/internal/simulator"
)

// AppScreen represents the different screens in the application flow.
type AppScreen int

const (
	ScreenChamberPicker AppScreen = iota
	ScreenBoard
	ScreenSummary
)

// AppModel is the root Bubble Tea model that manages screen transitions.
// It orchestrates the flow from chamber selection -> board <-> summary.
type AppModel struct {
	// Dependencies
	session *simulator.Session
	siteURL string
	logger  *log.Logger

	// CLI flags (pre-filled values)
	chamberFlag string

	// Current state
	currentScreen AppScreen
	currentModel  tea.Model
	err           error

	// Cached models to preserve state across screen transitions
	boardModel *BoardModel
}

// NewAppModel creates a new app model. An empty chamberID shows the chamber
// picker first.
func NewAppModel(session *simulator.Session, chamberID, siteURL string, logger *log.Logger) AppModel {
	m := AppModel{
		session:       session,
		siteURL:       siteURL,
		logger:        logger,
		chamberFlag:   chamberID,
		currentScreen: ScreenChamberPicker,
	}
	if chamberID == "" {
		m.currentModel = NewChamberPickerModel(session)
	}
	return m
}

// Init initializes the app model.
func (m AppModel) Init() tea.Cmd {
	if m.chamberFlag != "" {
		ch, err := m.session.Catalog().Chamber(m.chamberFlag)
		if err != nil {
			return func() tea.Msg { return ErrorMsg{Err: err} }
		}
		return func() tea.Msg { return ChamberSelectedMsg{Chamber: ch} }
	}

	return m.currentModel.Init()
}

// Update handles messages and transitions between screens.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case QuitMsg:
		return m, tea.Quit

	case ChamberSelectedMsg:
		m.logger.Debug("chamber selected", "chamber", msg.Chamber.ID)
		m.currentScreen = ScreenBoard
		board := NewBoardModel(m.session, msg.Chamber, m.siteURL, m.logger)
		m.boardModel = &board
		m.currentModel = board
		return m, board.Init()

	case transitionEndMsg, frameMsg:
		// Animation ticks belong to the board whichever screen is shown
		if m.boardModel == nil {
			return m, nil
		}
		next, cmd := m.boardModel.Update(msg)
		if bm, ok := next.(BoardModel); ok {
			m.boardModel = &bm
			if m.currentScreen == ScreenBoard {
				m.currentModel = bm
			}
		}
		return m, cmd

	case openSummaryMsg:
		if m.boardModel == nil {
			return m, nil
		}
		m.currentScreen = ScreenSummary
		summary := NewSummaryModel(m.session, m.boardModel.chamber, m.siteURL)
		m.currentModel = summary
		return m, summary.Init()

	case closeSummaryMsg:
		// Return to board from summary view
		m.currentScreen = ScreenBoard
		m.currentModel = *m.boardModel
		// Request window size to ensure proper rendering
		return m, tea.WindowSize()
	}

	// Delegate to current screen's model
	if m.currentModel != nil {
		var cmd tea.Cmd
		m.currentModel, cmd = m.currentModel.Update(msg)
		// Keep boardModel in sync when on board screen
		if m.currentScreen == ScreenBoard {
			if bm, ok := m.currentModel.(BoardModel); ok {
				m.boardModel = &bm
			}
		}
		return m, cmd
	}

	return m, nil
}

// View renders the current screen.
func (m AppModel) View() string {
	// Show error if present
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("Error: %v\n\nPress Ctrl+C to quit", m.err))
	}

	// Delegate to current screen
	if m.currentModel != nil {
		return m.currentModel.View()
	}

	return "Loading...\n\nPress Ctrl+C to quit"
}
