// Package layout computes the geometry of the seat chart: stacked segment
// heights and centers, and non-overlapping tooltip positions for segments too
// short to carry an inline label. All values are in pixels and all functions
// are pure.
package layout

import (
	"math"

	"github.com/h0rv/shuhan/internal/domain"
)

// Default geometry constants.
const (
	SeatToPixel      = 1.4
	CompactThreshold = 20
	TooltipHeight    = 20.0
	TooltipSpacing   = 4.0
	MinHeightRatio   = 0.62
)

// Params carries the geometry constants so tests and alternate renderers can
// scale the chart.
type Params struct {
	Scale            float64 // Pixels per seat
	CompactThreshold int     // Seats at or below this are compact
	TooltipHeight    float64
	TooltipSpacing   float64
	MinHeightRatio   float64 // Stack floor as a fraction of the chamber height
}

// DefaultParams returns the standard chart geometry.
func DefaultParams() Params {
	return Params{
		Scale:            SeatToPixel,
		CompactThreshold: CompactThreshold,
		TooltipHeight:    TooltipHeight,
		TooltipSpacing:   TooltipSpacing,
		MinHeightRatio:   MinHeightRatio,
	}
}

// Segment is one party's geometry within a group's stack.
type Segment struct {
	Party         domain.Party
	Height        float64
	CenterFromTop float64
	Compact       bool

	// Tooltip placement, valid only when HasTooltip is set.
	HasTooltip      bool
	TooltipTop      float64
	ConnectorOffset float64
}

// Top returns the segment's top edge measured from the stack top.
func (s Segment) Top() float64 { return s.CenterFromTop - s.Height/2 }

// Bottom returns the segment's bottom edge measured from the stack top.
func (s Segment) Bottom() float64 { return s.CenterFromTop + s.Height/2 }

// IsCompact reports whether a party with the given seats is too small for an
// inline label.
func (p Params) IsCompact(seats int) bool {
	return seats <= p.CompactThreshold
}

// StackHeight returns the height shared by all group stacks: the tallest
// group, floored at a fraction of the whole chamber so bars stay comparable.
func StackHeight(groupTotals []int, chamberTotal int, p Params) float64 {
	maxSeats := 0
	for _, t := range groupTotals {
		if t > maxSeats {
			maxSeats = t
		}
	}
	minHeight := float64(chamberTotal) * p.Scale * p.MinHeightRatio
	return math.Max(float64(maxSeats)*p.Scale, minHeight)
}

// Stack lays out parties top-to-bottom in list order. Geometry accumulates
// from the bottom of the stack, so the last party sits at the very bottom.
// Compact segments receive tooltip placements.
func Stack(parties []domain.Party, stackHeight float64, p Params) []Segment {
	segments := make([]Segment, len(parties))
	for i, party := range parties {
		segments[i] = Segment{
			Party:   party,
			Height:  float64(party.Seats) * p.Scale,
			Compact: p.IsCompact(party.Seats),
		}
	}

	offsetFromBottom := 0.0
	for i := len(segments) - 1; i >= 0; i-- {
		centerFromBottom := offsetFromBottom + segments[i].Height/2
		segments[i].CenterFromTop = stackHeight - centerFromBottom
		offsetFromBottom += segments[i].Height
	}

	return PlaceTooltips(segments, stackHeight, p)
}

// Total returns the summed seats of parties.
func Total(parties []domain.Party) int {
	total := 0
	for _, party := range parties {
		total += party.Seats
	}
	return total
}
