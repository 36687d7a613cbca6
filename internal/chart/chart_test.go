package chart

import (
	"testing"

	"github.com/h0rv/shuhan/internal/dnd"
	"github.com/h0rv/shuhan/internal/domain"
	"github.com/h0rv/shuhan/internal/layout"
	"github.com/h0rv/shuhan/internal/store"
	"github.com/h0rv/shuhan/internal/swap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestChamber() *domain.Chamber {
	return &domain.Chamber{
		ID:       "house",
		Name:     "衆議院",
		Total:    465,
		Majority: 233,
		Parties: []domain.Party{
			{ID: "ldp", Name: "自由民主党", ShortName: "自民", Seats: 191, Color: "#3CA324"},
			{ID: "komeito", Name: "公明党", ShortName: "公明", Seats: 24, Color: "#F55881"},
			{ID: "cdp", Name: "立憲民主党", ShortName: "立憲", Seats: 148, Color: "#184589"},
			{ID: "jcp", Name: "日本共産党", ShortName: "共産", Seats: 8, Color: "#DB001C"},
			{ID: "sdp", Name: "社会民主党", ShortName: "社民", Seats: 1, Color: "#01A8EC"},
			{ID: "ishin", Name: "日本維新の会", ShortName: "維新", Seats: 38, Color: "#6FBA2C"},
		},
	}
}

func createTestState() store.State {
	return store.State{Groups: []domain.Group{
		{ID: domain.GroupRuling, Name: "与党", PartyIDs: []string{"ldp", "komeito"}},
		{ID: domain.GroupOpposition, Name: "野党", PartyIDs: []string{"cdp", "jcp", "sdp"}},
		{ID: domain.GroupOthers, Name: "その他", PartyIDs: []string{"ishin"}},
	}}
}

func TestBuild_Totals(t *testing.T) {
	v := Build(createTestState(), createTestChamber(), Input{}, layout.DefaultParams())

	require.Len(t, v.Columns, 3)
	assert.Equal(t, 215, v.Columns[0].Total)
	assert.Equal(t, 157, v.Columns[1].Total)
	assert.Equal(t, 38, v.Columns[2].Total)
	assert.Equal(t, 215, v.Ruling)
	assert.Equal(t, 157, v.Opposition)
	assert.Equal(t, -18, v.MajorityGap)
	assert.Equal(t, "公自政権", v.CoalitionName)

	assert.InDelta(t, 465*1.4*0.62, v.StackHeight, 1e-9)
	for _, c := range v.Columns {
		assert.Len(t, c.Segments, len(c.Parties))
		assert.Equal(t, OffsetNone, c.Offset)
		assert.Nil(t, c.Placeholder)
	}
	assert.Nil(t, v.Preview)
}

func TestBuild_SkipsUnknownParties(t *testing.T) {
	state := createTestState()
	state.Groups[0].PartyIDs = append(state.Groups[0].PartyIDs, "ghost")

	v := Build(state, createTestChamber(), Input{}, layout.DefaultParams())
	assert.Len(t, v.Columns[0].Parties, 2)
	assert.Equal(t, 215, v.Ruling)
}

func TestBuild_Bars(t *testing.T) {
	v := Build(createTestState(), createTestChamber(), Input{}, layout.DefaultParams())

	require.Len(t, v.Bars, 2)
	assert.Equal(t, domain.GroupRuling, v.Bars[0].ID)
	assert.Equal(t, 215, v.Bars[0].Total)
	assert.InDelta(t, 233.0/465.0, v.Bars[0].MajorityLine, 1e-9)
	assert.Equal(t, domain.GroupOpposition, v.Bars[1].ID)
	assert.Len(t, v.Bars[1].Segments, 3)
}

func TestBuild_Placeholder(t *testing.T) {
	ch := createTestChamber()
	p := layout.DefaultParams()

	t.Run("over group header", func(t *testing.T) {
		v := Build(createTestState(), ch, Input{Drag: DragView{Active: "jcp", Over: "ruling"}}, p)
		ruling, _ := v.Column(domain.GroupRuling)
		require.NotNil(t, ruling.Placeholder)
		assert.Equal(t, "", ruling.Placeholder.Before)
		assert.Equal(t, "jcp", ruling.Placeholder.Party.ID)
		assert.InDelta(t, 8*1.4, ruling.Placeholder.Height, 1e-9)

		opp, _ := v.Column(domain.GroupOpposition)
		assert.Nil(t, opp.Placeholder)
	})

	t.Run("over party", func(t *testing.T) {
		v := Build(createTestState(), ch, Input{Drag: DragView{Active: "ishin", Over: "jcp"}}, p)
		opp, _ := v.Column(domain.GroupOpposition)
		require.NotNil(t, opp.Placeholder)
		assert.Equal(t, "jcp", opp.Placeholder.Before)
	})

	t.Run("over itself", func(t *testing.T) {
		v := Build(createTestState(), ch, Input{Drag: DragView{Active: "jcp", Over: "jcp"}}, p)
		for _, c := range v.Columns {
			assert.Nil(t, c.Placeholder)
		}
	})

	t.Run("nothing hovered", func(t *testing.T) {
		v := Build(createTestState(), ch, Input{Drag: DragView{Active: "jcp"}}, p)
		for _, c := range v.Columns {
			assert.Nil(t, c.Placeholder)
		}
	})
}

func TestBuild_Preview(t *testing.T) {
	ch := createTestChamber()
	p := layout.DefaultParams()

	v := Build(createTestState(), ch, Input{Drag: DragView{Active: "sdp", Origin: dnd.OriginSegment}}, p)
	require.NotNil(t, v.Preview)
	assert.Equal(t, dnd.CompactPreviewHeight, v.Preview.Height)
	assert.Equal(t, -75.0, v.Preview.DX)
	assert.Equal(t, -60.0, v.Preview.DY)

	v = Build(createTestState(), ch, Input{Drag: DragView{Active: "sdp", Origin: dnd.OriginTooltip}}, p)
	assert.Equal(t, 0.0, v.Preview.DX)

	v = Build(createTestState(), ch, Input{Drag: DragView{Active: "ldp"}}, p)
	assert.InDelta(t, 191*1.4, v.Preview.Height, 1e-9)
	assert.Equal(t, 0.0, v.Preview.DX)
	assert.Equal(t, 0.0, v.Preview.DY)
}

func TestBuild_SwapOffsets(t *testing.T) {
	in := Input{Swap: SwapView{State: swap.Animating, Offset: true, Transitions: true}}
	v := Build(createTestState(), createTestChamber(), in, layout.DefaultParams())

	assert.Equal(t, OffsetRight, v.Columns[0].Offset)
	assert.True(t, v.Columns[0].Animated)
	assert.Equal(t, OffsetLeft, v.Columns[1].Offset)
	assert.True(t, v.Columns[1].Animated)
	assert.Equal(t, OffsetNone, v.Columns[2].Offset)
	assert.False(t, v.Columns[2].Animated)

	in.Swap.State = swap.Swapped
	v = Build(createTestState(), createTestChamber(), in, layout.DefaultParams())
	assert.Equal(t, OffsetRight, v.Columns[0].Offset)
	assert.False(t, v.Columns[0].Animated)
}

func TestCoalitionName(t *testing.T) {
	tests := []struct {
		name   string
		shorts []string
		want   string
	}{
		{name: "empty", shorts: nil, want: ""},
		{name: "single", shorts: []string{"自民"}, want: "自民単独政権"},
		{name: "two", shorts: []string{"自民", "公明"}, want: "公自政権"},
		{name: "three", shorts: []string{"立憲", "国民", "維新"}, want: "維国立政権"},
		{name: "blank short name skipped", shorts: []string{"自民", ""}, want: "自政権"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parties := make([]domain.Party, len(tt.shorts))
			for i, s := range tt.shorts {
				parties[i] = domain.Party{ShortName: s}
			}
			assert.Equal(t, tt.want, CoalitionName(parties))
		})
	}
}

func TestTotals(t *testing.T) {
	ruling, opposition := Totals(createTestState(), createTestChamber())
	assert.Equal(t, 215, ruling)
	assert.Equal(t, 157, opposition)
}
