package render

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/h0rv/shuhan/internal/chamber"
	"github.com/h0rv/shuhan/internal/chart"
	"github.com/h0rv/shuhan/internal/layout"
	"github.com/h0rv/shuhan/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestViews(t *testing.T) (chart.View, chart.View) {
	t.Helper()
	cat, err := chamber.Default()
	require.NoError(t, err)
	state := store.State{Groups: cat.DefaultGroups()}

	councillors, err := cat.Chamber("councillors")
	require.NoError(t, err)

	in := chart.Input{Swap: chart.SwapView{Transitions: true}}
	return chart.Build(state, cat.Primary(), in, layout.DefaultParams()),
		chart.Build(state, councillors, in, layout.DefaultParams())
}

// wellFormed walks the document with an XML decoder.
func wellFormed(t *testing.T, doc []byte) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(string(doc)))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			return
		}
	}
}

func TestSVG(t *testing.T) {
	house, _ := createTestViews(t)

	out := SVG(house, WithTitle("首班指名シミュレータ"))
	doc := string(out)

	assert.True(t, strings.HasPrefix(doc, "<svg "))
	assert.True(t, strings.HasSuffix(doc, "</svg>\n"))
	assert.Contains(t, doc, "首班指名シミュレータ")
	assert.Contains(t, doc, `id="group-ruling"`)
	assert.Contains(t, doc, `id="party-ldp"`)
	assert.Contains(t, doc, "191 議席")
	assert.Contains(t, doc, "自民単独政権")
	assert.Contains(t, doc, "過半数まで 42")
	assert.NotContains(t, doc, `class="column no-transition"`)
	wellFormed(t, out)
}

func TestSVG_CompactPartiesGetTooltips(t *testing.T) {
	house, _ := createTestViews(t)
	doc := string(SVG(house))

	// sdp holds a single seat and is labelled in the tooltip rail.
	assert.Contains(t, doc, "社民 1")
	assert.Equal(t, strings.Count(doc, "<line "), countTooltips(house))
}

func countTooltips(v chart.View) int {
	n := 0
	for _, c := range v.Columns {
		for _, s := range c.Segments {
			if s.HasTooltip {
				n++
			}
		}
	}
	return n
}

func TestSVG_Secondary(t *testing.T) {
	house, councillors := createTestViews(t)

	out := SVG(house, WithSecondary(councillors))
	doc := string(out)

	assert.Contains(t, doc, `id="chamber-councillors"`)
	assert.Contains(t, doc, "参議院")
	assert.Contains(t, doc, `class="majority"`)
	wellFormed(t, out)
}

func TestSVG_SwapOffsets(t *testing.T) {
	house, _ := createTestViews(t)
	house.Swap = chart.SwapView{Offset: true}
	house.Columns[0].Offset = chart.OffsetRight
	house.Columns[1].Offset = chart.OffsetLeft

	doc := string(SVG(house))
	assert.Contains(t, doc, `class="column no-transition"`)
	assert.Equal(t, columnX(1, chart.OffsetNone), columnX(0, chart.OffsetRight))
	assert.Equal(t, columnX(0, chart.OffsetNone), columnX(1, chart.OffsetLeft))
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "a &amp; b &lt;c&gt;", escape("a & b <c>"))
}
