// Package chart assembles the view model consumed by every presentation
// layer: per-group totals and segment geometry, the drag placeholder and
// preview, the swap visual state, the coalition name and the majority gap.
package chart

import (
	"strings"
	"unicode/utf8"

	"github.com/h0rv/shuhan/internal/dnd"
	"github.com/h0rv/shuhan/internal/domain"
	"github.com/h0rv/shuhan/internal/layout"
	"github.com/h0rv/shuhan/internal/store"
	"github.com/h0rv/shuhan/internal/swap"
)

// Offset is the horizontal displacement of a column during the swap animation.
type Offset int

const (
	OffsetNone Offset = iota
	// OffsetRight moves a column one slot to the right.
	OffsetRight
	// OffsetLeft moves a column one slot to the left.
	OffsetLeft
)

// DragView is the drag state relevant to rendering.
type DragView struct {
	Active string
	Over   string
	Origin dnd.Origin
}

// SwapView is the swap state relevant to rendering.
type SwapView struct {
	State       swap.State
	Offset      bool // Ruling and opposition columns are displaced
	Transitions bool // Column movement animates
}

// Input carries the interaction state for Build.
type Input struct {
	Drag DragView
	Swap SwapView
}

// Placeholder is the gap drawn where a dragged party would land.
type Placeholder struct {
	Party  domain.Party
	Height float64
	Before string // Party id the gap precedes; "" for the top of the column
}

// Preview is the floating copy of the dragged party.
type Preview struct {
	Party  domain.Party
	Height float64
	DX     float64
	DY     float64
}

// Column is one group of the stacked chart.
type Column struct {
	ID          domain.GroupID
	Name        string
	Parties     []domain.Party
	Total       int
	Segments    []layout.Segment
	Offset      Offset
	Animated    bool // Column reports a transition end while animating
	Placeholder *Placeholder
}

// GroupBar is one group's horizontal bar against the whole chamber.
type GroupBar struct {
	ID   domain.GroupID
	Name string
	layout.Bar
}

// View is the complete render model for one chamber.
type View struct {
	Chamber       *domain.Chamber
	StackHeight   float64
	Columns       []Column
	Ruling        int
	Opposition    int
	CoalitionName string
	MajorityGap   int
	Bars          []GroupBar
	Swap          SwapView
	Preview       *Preview
}

// Column returns the column for a group.
func (v View) Column(id domain.GroupID) (Column, bool) {
	for _, c := range v.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// Build resolves state against ch and lays it out. Parties the chamber does
// not know are skipped.
func Build(state store.State, ch *domain.Chamber, in Input, p layout.Params) View {
	v := View{Chamber: ch, Swap: in.Swap}

	totals := make([]int, len(state.Groups))
	for i, g := range state.Groups {
		parties := Resolve(ch, g.PartyIDs)
		totals[i] = layout.Total(parties)
		v.Columns = append(v.Columns, Column{
			ID:      g.ID,
			Name:    g.Name,
			Parties: parties,
			Total:   totals[i],
		})
	}
	v.StackHeight = layout.StackHeight(totals, ch.Total, p)

	active, dragging := ch.PartyByID(in.Drag.Active)
	for i := range v.Columns {
		col := &v.Columns[i]
		col.Segments = layout.Stack(col.Parties, v.StackHeight, p)
		col.Offset, col.Animated = columnOffset(col.ID, in.Swap)
		if dragging {
			col.Placeholder = placeholder(*col, active, in.Drag.Over, p)
		}
	}

	if dragging {
		compact := p.IsCompact(active.Seats)
		dx, dy := dnd.PreviewOffset(in.Drag.Origin, compact)
		v.Preview = &Preview{Party: active, Height: PreviewHeight(active, p), DX: dx, DY: dy}
	}

	if c, ok := v.Column(domain.GroupRuling); ok {
		v.Ruling = c.Total
		v.CoalitionName = CoalitionName(c.Parties)
		v.Bars = append(v.Bars, GroupBar{ID: c.ID, Name: c.Name, Bar: layout.HorizontalBar(c.Parties, ch.Total, ch.Majority)})
	}
	if c, ok := v.Column(domain.GroupOpposition); ok {
		v.Opposition = c.Total
		v.Bars = append(v.Bars, GroupBar{ID: c.ID, Name: c.Name, Bar: layout.HorizontalBar(c.Parties, ch.Total, ch.Majority)})
	}
	v.MajorityGap = v.Ruling - ch.Majority
	return v
}

// Resolve maps party ids to the chamber's party records, in order, skipping
// unknown ids.
func Resolve(ch *domain.Chamber, ids []string) []domain.Party {
	parties := make([]domain.Party, 0, len(ids))
	for _, id := range ids {
		if party, ok := ch.PartyByID(id); ok {
			parties = append(parties, party)
		}
	}
	return parties
}

// Totals returns the ruling and opposition seat totals of state in ch.
func Totals(state store.State, ch *domain.Chamber) (ruling, opposition int) {
	if g, _, ok := state.Group(domain.GroupRuling); ok {
		ruling = layout.Total(Resolve(ch, g.PartyIDs))
	}
	if g, _, ok := state.Group(domain.GroupOpposition); ok {
		opposition = layout.Total(Resolve(ch, g.PartyIDs))
	}
	return ruling, opposition
}

// CoalitionName derives the government label from the ruling parties.
// A single party yields "{short}単独政権"; several yield the first character
// of each short name in reverse order followed by "政権".
func CoalitionName(ruling []domain.Party) string {
	switch len(ruling) {
	case 0:
		return ""
	case 1:
		return ruling[0].ShortName + "単独政権"
	}

	var b strings.Builder
	for i := len(ruling) - 1; i >= 0; i-- {
		r, size := utf8.DecodeRuneInString(ruling[i].ShortName)
		if size == 0 {
			continue
		}
		b.WriteRune(r)
	}
	b.WriteString("政権")
	return b.String()
}

// PreviewHeight returns the drag preview height for a party.
func PreviewHeight(party domain.Party, p layout.Params) float64 {
	if p.IsCompact(party.Seats) {
		return dnd.CompactPreviewHeight
	}
	return float64(party.Seats) * p.Scale
}

func columnOffset(id domain.GroupID, sv SwapView) (Offset, bool) {
	if !sv.Offset {
		return OffsetNone, false
	}
	animated := sv.State == swap.Animating
	switch id {
	case domain.GroupRuling:
		return OffsetRight, animated
	case domain.GroupOpposition:
		return OffsetLeft, animated
	}
	return OffsetNone, false
}

func placeholder(col Column, active domain.Party, over string, p layout.Params) *Placeholder {
	if over == "" {
		return nil
	}
	height := float64(active.Seats) * p.Scale
	if over == string(col.ID) {
		return &Placeholder{Party: active, Height: height}
	}
	if over == active.ID {
		return nil
	}
	for _, party := range col.Parties {
		if party.ID == over {
			return &Placeholder{Party: active, Height: height, Before: over}
		}
	}
	return nil
}
