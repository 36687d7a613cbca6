package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h0rv/shuhan/internal/chamber"
	"github.com/h0rv/shuhan/internal/chart"
	"github.com/h0rv/shuhan/internal/domain"
	"github.com/h0rv/shuhan/internal/layout"
	"github.com/h0rv/shuhan/internal/logging"
	"github.com/h0rv/shuhan/internal/simulator"
	"github.com/h0rv/shuhan/internal/swap"
)

const testSiteURL = "https://shuhan.example.com/"

// createTestBoard creates a board over the embedded catalog
func createTestBoard(t *testing.T, query string) BoardModel {
	t.Helper()
	cat, err := chamber.Default()
	require.NoError(t, err)
	session := simulator.FromQuery(cat, query, logging.Discard())
	board := NewBoardModel(session, cat.Primary(), testSiteURL, logging.Discard())
	board.opener = func(string) error { return nil }
	return board
}

func update(t *testing.T, m BoardModel, msg tea.Msg) (BoardModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	board, ok := next.(BoardModel)
	require.True(t, ok)
	return board, cmd
}

func press(t *testing.T, m BoardModel, keys ...string) BoardModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = update(t, m, msg)
	}
	return m
}

func groupIDs(t *testing.T, m BoardModel, id domain.GroupID) []string {
	t.Helper()
	g, _, ok := m.session.State().Group(id)
	require.True(t, ok)
	return g.PartyIDs
}

func TestBoardModel_Navigation(t *testing.T) {
	board := createTestBoard(t, "")

	assert.Equal(t, 0, board.cursorCol)
	assert.Equal(t, 0, board.cursorRow)

	board = press(t, board, "right", "down", "down")
	assert.Equal(t, 1, board.cursorCol)
	assert.Equal(t, 2, board.cursorRow)
	assert.Equal(t, "sdp", board.target())

	// Clamped at the last party and the last column
	board = press(t, board, "down", "right", "right")
	assert.Equal(t, 2, board.cursorCol)
	assert.Equal(t, 2, board.cursorRow)

	// The header is only reachable while dragging
	board = press(t, board, "up", "up", "up")
	assert.Equal(t, 0, board.cursorRow)
}

func TestBoardModel_DropOnParty(t *testing.T) {
	board := createTestBoard(t, "")

	// komeito heads the others group; drop it on ldp
	board = press(t, board, "right", "right", "m")
	require.True(t, board.session.Dragging())
	assert.Equal(t, "komeito", board.session.ActiveParty())

	board = press(t, board, "left", "left")
	assert.Equal(t, "ldp", board.session.OverTarget())

	board = press(t, board, "enter")
	assert.False(t, board.session.Dragging())
	assert.Equal(t, []string{"komeito", "ldp"}, groupIDs(t, board, domain.GroupRuling))

	// Cursor follows the dropped party
	assert.Equal(t, 0, board.cursorCol)
	assert.Equal(t, 0, board.cursorRow)
	assert.Contains(t, board.toast, "公明")
	assert.Equal(t, "自公政権", board.session.View(board.chamber).CoalitionName)
}

func TestBoardModel_DropOnGroupKey(t *testing.T) {
	board := createTestBoard(t, "")

	board = press(t, board, "right", "right", "down", "m", "2")
	assert.False(t, board.session.Dragging())
	assert.Equal(t, []string{"ishin", "cdp", "jcp", "sdp"}, groupIDs(t, board, domain.GroupOpposition))
	assert.NotContains(t, groupIDs(t, board, domain.GroupOthers), "ishin")
}

func TestBoardModel_DropOnHeaderMovesToFront(t *testing.T) {
	board := createTestBoard(t, "")

	// Grab sdp, climb to the opposition header and drop
	board = press(t, board, "right", "down", "down", " ", "g")
	assert.Equal(t, -1, board.cursorRow)
	assert.Equal(t, "opposition", board.session.OverTarget())

	board = press(t, board, "enter")
	assert.Equal(t, []string{"sdp", "cdp", "jcp"}, groupIDs(t, board, domain.GroupOpposition))
	assert.Equal(t, 0, board.cursorRow)
}

func TestBoardModel_CancelDrag(t *testing.T) {
	board := createTestBoard(t, "")
	before := board.session.State()

	board = press(t, board, "right", "m", "up", "left", "esc")
	assert.False(t, board.session.Dragging())
	assert.Equal(t, before, board.session.State())
	assert.GreaterOrEqual(t, board.cursorRow, 0)
	assert.Equal(t, "Drag cancelled", board.toast)
}

func TestBoardModel_SwapAnimation(t *testing.T) {
	// Opposition 223 against ruling 191
	board := createTestBoard(t, "ldp:cdp,jcp,sdp,ishin,dpp:komeito,reiwa,sanseito,japan-conservative,independent")
	require.Equal(t, swap.Animating, board.session.Swap())

	board, cmd := update(t, board, boardInitMsg{})
	assert.NotNil(t, cmd)
	assert.True(t, board.animating)

	// A second check does not schedule another round
	_, cmd = update(t, board, boardInitMsg{})
	assert.Nil(t, cmd)

	view := board.session.View(board.chamber)
	assert.Equal(t, chart.OffsetRight, view.Columns[0].Offset)
	assert.Equal(t, []int{1, 0, 2}, visualOrder(view.Columns))

	board, cmd = update(t, board, transitionEndMsg{})
	assert.Nil(t, cmd)
	assert.Equal(t, swap.Animating, board.session.Swap())

	board, cmd = update(t, board, transitionEndMsg{})
	assert.NotNil(t, cmd)
	assert.Equal(t, swap.Swapped, board.session.Swap())

	board, cmd = update(t, board, frameMsg{})
	assert.NotNil(t, cmd)
	assert.Equal(t, 223, board.session.View(board.chamber).Ruling)

	board, _ = update(t, board, frameMsg{})
	assert.Equal(t, swap.Idle, board.session.Swap())
	assert.False(t, board.animating)
	assert.Equal(t, []int{0, 1, 2}, visualOrder(board.session.View(board.chamber).Columns))
}

func TestBoardModel_ChamberCycle(t *testing.T) {
	board := createTestBoard(t, "")

	board = press(t, board, "c")
	assert.Equal(t, "councillors", board.chamber.ID)

	board = press(t, board, "c")
	assert.Equal(t, "house", board.chamber.ID)
}

func TestBoardModel_Reset(t *testing.T) {
	board := createTestBoard(t, "")
	board = press(t, board, "right", "right", "m", "1")
	require.Len(t, groupIDs(t, board, domain.GroupRuling), 2)

	board = press(t, board, "r")
	assert.Equal(t, []string{"ldp"}, groupIDs(t, board, domain.GroupRuling))
}

func TestBoardModel_Share(t *testing.T) {
	board := createTestBoard(t, "")

	var opened string
	board.opener = func(link string) error {
		opened = link
		return nil
	}

	_, cmd := update(t, board, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	require.NotNil(t, cmd)
	msg := cmd()
	result, ok := msg.(shareResultMsg)
	require.True(t, ok)
	assert.NoError(t, result.err)
	assert.Equal(t, opened, result.link)
	assert.True(t, strings.HasPrefix(opened, "https://twitter.com/intent/tweet?"))

	board, _ = update(t, board, shareResultMsg{link: opened, err: errors.New("no browser")})
	assert.True(t, board.toastErr)
	assert.Contains(t, board.toast, "no browser")
}

func TestBoardModel_View(t *testing.T) {
	board := createTestBoard(t, "")
	board, _ = update(t, board, tea.WindowSizeMsg{Width: 120, Height: 40})

	view := board.View()
	assert.Contains(t, view, "衆議院")
	assert.Contains(t, view, "自民単独政権")
	assert.Contains(t, view, "過半数まで 42")
	assert.Contains(t, view, "[1] 与党")
	assert.Contains(t, view, "[2] 野党")
	assert.Contains(t, view, "[3] その他")
	assert.Contains(t, view, "立民")
	assert.Contains(t, view, "参議院")
	assert.NotContains(t, view, "DRAG")

	board = press(t, board, "m")
	assert.Contains(t, board.View(), "DRAG")
}

func TestBoardModel_View_NotPanic(t *testing.T) {
	board := createTestBoard(t, "")

	sizes := [][2]int{{0, 0}, {20, 5}, {60, 12}, {200, 60}}
	for _, size := range sizes {
		board, _ = update(t, board, tea.WindowSizeMsg{Width: size[0], Height: size[1]})
		assert.NotPanics(t, func() { _ = board.View() })
	}
}

func TestBoardModel_HelpToggle(t *testing.T) {
	board := createTestBoard(t, "")

	board = press(t, board, "?")
	assert.True(t, board.showHelp)
	assert.Contains(t, board.View(), "grab party")

	board = press(t, board, "?")
	assert.False(t, board.showHelp)
}

func TestRasterize(t *testing.T) {
	parties := []domain.Party{
		{ID: "a", Seats: 6},
		{ID: "b", Seats: 3},
		{ID: "c", Seats: 1},
	}
	p := layout.DefaultParams()
	p.Scale = 1
	p.TooltipHeight = 1
	p.TooltipSpacing = 0
	segments := layout.Stack(parties, 12, p)

	rows := rasterize(segments, 12)
	assert.Equal(t, []int{-1, -1, 0, 0, 0, 0, 0, 0, 1, 1, 1, 2}, rows)

	tips := tooltipRows(segments, 12)
	for r, si := range tips {
		assert.True(t, segments[si].HasTooltip)
		assert.GreaterOrEqual(t, r, 0)
		assert.Less(t, r, 12)
	}
}

func TestTerminalView_FitsRows(t *testing.T) {
	board := createTestBoard(t, "")
	view := board.terminalView(20)
	assert.InDelta(t, 20, view.StackHeight, 1e-9)
}

func TestFit(t *testing.T) {
	assert.Equal(t, "abc  ", fit("abc", 5))
	assert.Equal(t, 4, len([]rune(fit("abcdefgh", 4))))
	assert.Equal(t, "", fit("abc", 0))
	assert.Equal(t, " ab ", center("ab", 4))
}
