package chamber

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/h0rv/shuhan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalData = `
[[groups]]
id = "ruling"
parties = ["a"]

[[groups]]
id = "opposition"
parties = ["b"]

[[groups]]
id = "others"
parties = []

[[chambers]]
id = "house"
name = "衆議院"
total = 10
majority = 6

  [[chambers.parties]]
  id = "a"
  name = "Alpha"
  short_name = "A"
  seats = 4
  color = "#000000"

  [[chambers.parties]]
  id = "b"
  name = "Beta"
  short_name = "B"
  seats = 6
  color = "#FFFFFF"
`

func TestDefault(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	house := cat.Primary()
	assert.Equal(t, "house", house.ID)
	assert.Equal(t, 465, house.Total)
	assert.Equal(t, 233, house.Majority)

	councillors, err := cat.Chamber("councillors")
	require.NoError(t, err)
	assert.Equal(t, 248, councillors.Total)
	assert.Equal(t, 125, councillors.Majority)

	require.Len(t, cat.Default, 3)
	assert.Equal(t, []string{"ldp"}, cat.Default[0].PartyIDs)
	assert.Equal(t, "与党", cat.Default[0].Name)
	assert.NoError(t, CheckAssignment(house, cat.Default))
}

func TestDefaultGroups_IsACopy(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	groups := cat.DefaultGroups()
	groups[0].PartyIDs[0] = "changed"
	assert.Equal(t, "ldp", cat.Default[0].PartyIDs[0])
}

func TestChamber_Unknown(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	_, err = cat.Chamber("senate")
	assert.ErrorIs(t, err, ErrUnknownChamber)
}

func TestParse(t *testing.T) {
	cat, err := Parse([]byte(minimalData))
	require.NoError(t, err)

	p, ok := cat.Primary().PartyByID("b")
	require.True(t, ok)
	assert.Equal(t, domain.Party{ID: "b", Name: "Beta", ShortName: "B", Seats: 6, Color: "#FFFFFF"}, p)
	assert.Empty(t, cat.Default[2].PartyIDs)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "no chambers", data: `[[groups]]
id = "ruling"
parties = []`},
		{name: "majority above total", data: `
[[groups]]
id = "ruling"
parties = []
[[groups]]
id = "opposition"
parties = []
[[groups]]
id = "others"
parties = []
[[chambers]]
id = "house"
total = 10
majority = 11
`},
		{name: "unassigned party", data: `
[[groups]]
id = "ruling"
parties = []
[[groups]]
id = "opposition"
parties = []
[[groups]]
id = "others"
parties = []
[[chambers]]
id = "house"
total = 10
majority = 6
  [[chambers.parties]]
  id = "a"
  seats = 4
`},
		{name: "secondary party outside the assignment", data: minimalData + `
[[chambers]]
id = "councillors"
total = 10
majority = 6
  [[chambers.parties]]
  id = "a"
  seats = 4
  [[chambers.parties]]
  id = "z"
  seats = 2
`},
		{name: "groups out of order", data: `
[[groups]]
id = "opposition"
parties = []
[[groups]]
id = "ruling"
parties = []
[[groups]]
id = "others"
parties = []
[[chambers]]
id = "house"
total = 10
majority = 6
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidData)
		})
	}
}

func TestParse_SecondaryChamberSubset(t *testing.T) {
	data := minimalData + `
[[chambers]]
id = "councillors"
total = 8
majority = 5
  [[chambers.parties]]
  id = "b"
  seats = 5
`
	cat, err := Parse([]byte(data))
	require.NoError(t, err)

	ch, err := cat.Chamber("councillors")
	require.NoError(t, err)
	assert.Len(t, ch.Parties, 1)
}

func TestParse_BadTOML(t *testing.T) {
	_, err := Parse([]byte("[[chambers"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chambers.toml")
	require.NoError(t, os.WriteFile(path, []byte(minimalData), 0o644))

	cat, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cat.Primary().Total)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestCheckAssignment(t *testing.T) {
	cat, err := Parse([]byte(minimalData))
	require.NoError(t, err)
	ch := cat.Primary()

	group := func(id domain.GroupID, ids ...string) domain.Group {
		return domain.Group{ID: id, PartyIDs: ids}
	}

	assert.NoError(t, CheckAssignment(ch, []domain.Group{group("ruling", "b"), group("opposition", "a"), group("others")}))
	assert.Error(t, CheckAssignment(ch, []domain.Group{group("ruling", "a", "b"), group("opposition", "a"), group("others")}), "duplicate")
	assert.Error(t, CheckAssignment(ch, []domain.Group{group("ruling", "a"), group("opposition"), group("others")}), "missing")
	assert.Error(t, CheckAssignment(ch, []domain.Group{group("ruling", "a", "b", "z"), group("opposition"), group("others")}), "unknown")
}
