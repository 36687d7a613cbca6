package layout

import "github.com/h0rv/shuhan/internal/domain"

// BarSegment is one party's share of a horizontal chamber bar.
type BarSegment struct {
	Party    domain.Party
	Start    float64 // Left edge as a fraction of the chamber
	Fraction float64 // Width as a fraction of the chamber
}

// Bar is a horizontal bar of a group measured against the whole chamber.
type Bar struct {
	Segments     []BarSegment
	Total        int
	MajorityLine float64 // Majority threshold as a fraction of the chamber
}

// HorizontalBar lays out parties left to right in list order. Fractions are
// relative to chamberTotal, so a group holding every seat fills the bar.
func HorizontalBar(parties []domain.Party, chamberTotal, majority int) Bar {
	bar := Bar{Segments: make([]BarSegment, 0, len(parties))}
	if chamberTotal <= 0 {
		return bar
	}

	start := 0.0
	for _, party := range parties {
		frac := float64(party.Seats) / float64(chamberTotal)
		bar.Segments = append(bar.Segments, BarSegment{Party: party, Start: start, Fraction: frac})
		start += frac
		bar.Total += party.Seats
	}
	bar.MajorityLine = float64(majority) / float64(chamberTotal)
	return bar
}
