package layout

import (
	"cmp"
	"math"
	"slices"
)

type placement struct {
	index    int // Index into the segment slice
	idealTop float64
	top      float64
}

// PlaceTooltips assigns tooltip positions to the compact segments and returns
// a new slice; segments is not modified.
//
// Tooltips keep the vertical order of their segments and never overlap as
// long as they fit in the stack. When they do not fit, the final clamp can
// push them into each other; that degradation is accepted.
func PlaceTooltips(segments []Segment, stackHeight float64, p Params) []Segment {
	out := slices.Clone(segments)

	var placements []placement
	for i, s := range out {
		if !s.Compact {
			continue
		}
		ideal := clamp(s.CenterFromTop-p.TooltipHeight/2, 0, stackHeight-p.TooltipHeight)
		placements = append(placements, placement{index: i, idealTop: ideal})
	}
	if len(placements) == 0 {
		return out
	}

	// Centers first so equal ideal tops keep their stacking order.
	slices.SortStableFunc(placements, func(a, b placement) int {
		return cmp.Compare(out[a.index].CenterFromTop, out[b.index].CenterFromTop)
	})
	slices.SortStableFunc(placements, func(a, b placement) int {
		return cmp.Compare(a.idealTop, b.idealTop)
	})

	for i := range placements {
		placements[i].top = placements[i].idealTop
	}
	previousBottom := sweep(placements, p)

	if overflow := previousBottom - stackHeight; overflow > 0 {
		for i := range placements {
			placements[i].top -= overflow
		}
		if minTop := placements[0].top; minTop < 0 {
			for i := range placements {
				placements[i].top -= minTop
			}
		}
		sweep(placements, p)
	}

	for _, pl := range placements {
		top := clamp(pl.top, 0, stackHeight-p.TooltipHeight)
		s := &out[pl.index]
		s.HasTooltip = true
		s.TooltipTop = top
		s.ConnectorOffset = s.CenterFromTop - (top + p.TooltipHeight/2)
	}
	return out
}

// sweep pushes each tooltip down until it clears the previous one and returns
// the bottom of the last tooltip.
func sweep(placements []placement, p Params) float64 {
	previousBottom := -p.TooltipSpacing
	for i := range placements {
		placements[i].top = math.Max(placements[i].top, previousBottom+p.TooltipSpacing)
		previousBottom = placements[i].top + p.TooltipHeight
	}
	return previousBottom
}

// clamp mirrors min(max(v, lo), hi): when hi < lo the upper bound wins.
func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
