package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h0rv/shuhan/internal/chamber"
	"github.com/h0rv/shuhan/internal/logging"
	"github.com/h0rv/shuhan/internal/share"
	"github.com/h0rv/shuhan/internal/simulator"
	"github.com/h0rv/shuhan/internal/swap"
)

func createTestApp(t *testing.T, chamberID, query string) AppModel {
	t.Helper()
	cat, err := chamber.Default()
	require.NoError(t, err)
	session := simulator.FromQuery(cat, query, logging.Discard())
	return NewAppModel(session, chamberID, testSiteURL, logging.Discard())
}

func updateApp(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	app, ok := next.(AppModel)
	require.True(t, ok)
	return app, cmd
}

func TestAppModel_PickerFirst(t *testing.T) {
	app := createTestApp(t, "", "")
	assert.Equal(t, ScreenChamberPicker, app.currentScreen)
	assert.Contains(t, app.View(), "衆議院")
	assert.Contains(t, app.View(), "参議院")

	app, cmd := updateApp(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	selected, ok := cmd().(ChamberSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "house", selected.Chamber.ID)

	app, _ = updateApp(t, app, selected)
	assert.Equal(t, ScreenBoard, app.currentScreen)
	require.NotNil(t, app.boardModel)
}

func TestAppModel_ChamberFlag(t *testing.T) {
	app := createTestApp(t, "councillors", "")
	msg := app.Init()()
	selected, ok := msg.(ChamberSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "councillors", selected.Chamber.ID)

	app = createTestApp(t, "senate", "")
	msg = app.Init()()
	errMsg, ok := msg.(ErrorMsg)
	require.True(t, ok)
	assert.ErrorIs(t, errMsg.Err, chamber.ErrUnknownChamber)

	app, _ = updateApp(t, app, errMsg)
	assert.Contains(t, app.View(), "senate")
}

func TestAppModel_SummaryRoundTrip(t *testing.T) {
	app := createTestApp(t, "house", "")
	app, _ = updateApp(t, app, app.Init()())
	require.Equal(t, ScreenBoard, app.currentScreen)

	app, _ = updateApp(t, app, openSummaryMsg{})
	assert.Equal(t, ScreenSummary, app.currentScreen)
	view := app.View()
	assert.Contains(t, view, "自民単独政権")
	assert.Contains(t, view, "立憲民主党")

	app, _ = updateApp(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	app, _ = updateApp(t, app, closeSummaryMsg{})
	assert.Equal(t, ScreenBoard, app.currentScreen)
}

func TestAppModel_AnimationReachesBoardFromSummary(t *testing.T) {
	app := createTestApp(t, "house", "ldp:cdp,jcp,sdp,ishin,dpp:komeito,reiwa,sanseito,japan-conservative,independent")
	app, _ = updateApp(t, app, app.Init()())
	app, _ = updateApp(t, app, boardInitMsg{})
	require.Equal(t, swap.Animating, app.session.Swap())

	app, _ = updateApp(t, app, openSummaryMsg{})
	require.Equal(t, ScreenSummary, app.currentScreen)

	app, _ = updateApp(t, app, transitionEndMsg{})
	app, _ = updateApp(t, app, transitionEndMsg{})
	app, _ = updateApp(t, app, frameMsg{})
	app, _ = updateApp(t, app, frameMsg{})

	assert.Equal(t, swap.Idle, app.session.Swap())
	assert.False(t, app.boardModel.animating)
	assert.Equal(t, ScreenSummary, app.currentScreen)
}

func TestSummaryModel_Keys(t *testing.T) {
	cat, err := chamber.Default()
	require.NoError(t, err)
	session := simulator.New(cat, cat.DefaultGroups(), logging.Discard())

	summary := NewSummaryModel(session, cat.Primary(), testSiteURL)
	var opened string
	summary.opener = func(link string) error {
		opened = link
		return nil
	}

	_, cmd := summary.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	require.NotNil(t, cmd)
	res, ok := cmd().(shareResultMsg)
	require.True(t, ok)
	assert.Equal(t, share.PageURL(testSiteURL, session.Encode()), opened)
	assert.Equal(t, opened, res.link)

	_, cmd = summary.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	_, ok = cmd().(closeSummaryMsg)
	assert.True(t, ok)
}
