package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h0rv/shuhan/internal/chamber"
	"github.com/h0rv/shuhan/internal/logging"
	"github.com/h0rv/shuhan/internal/simulator"
)

func createTestPicker(t *testing.T, query string) ChamberPickerModel {
	t.Helper()
	cat, err := chamber.Default()
	require.NoError(t, err)
	return NewChamberPickerModel(simulator.FromQuery(cat, query, logging.Discard()))
}

func TestChamberPicker_MarksPrimary(t *testing.T) {
	picker := createTestPicker(t, "")

	items := picker.list.Items()
	require.Len(t, items, 2)

	house, ok := items[0].(chamberItem)
	require.True(t, ok)
	assert.True(t, house.primary)
	assert.Contains(t, house.Title(), primaryMark)

	councillors, ok := items[1].(chamberItem)
	require.True(t, ok)
	assert.False(t, councillors.primary)
	assert.NotContains(t, councillors.Title(), primaryMark)
}

func TestChamberPicker_RulingStanding(t *testing.T) {
	// ldp and komeito rule: 215 in the house, 121 in the councillors
	picker := createTestPicker(t, "komeito,ldp:sdp,jcp,cdp:independent,japan-conservative,sanseito,reiwa,dpp,ishin")

	view := picker.View()
	assert.Contains(t, view, "与党 215 / 465 議席")
	assert.Contains(t, view, "過半数 233 まで 18")
	assert.Contains(t, view, "与党 121 / 248 議席")
	assert.Contains(t, view, "過半数 125 まで 4")
}

func TestChamberPicker_MajorityReached(t *testing.T) {
	picker := createTestPicker(t, "dpp,ishin,komeito,ldp:sdp,jcp,cdp:independent,japan-conservative,sanseito,reiwa")

	house, ok := picker.list.Items()[0].(chamberItem)
	require.True(t, ok)
	assert.Equal(t, 281, house.ruling)
	assert.Equal(t, 48, house.gap)
	assert.Equal(t, "過半数 233 に +48", house.gapText())
}

func TestChamberPicker_SelectSecondary(t *testing.T) {
	picker := createTestPicker(t, "")

	next, _ := picker.Update(tea.KeyMsg{Type: tea.KeyDown})
	picker, ok := next.(ChamberPickerModel)
	require.True(t, ok)

	_, cmd := picker.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	selected, ok := cmd().(ChamberSelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "councillors", selected.Chamber.ID)
}
