// Package render draws a chart view as a standalone SVG document.
package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/h0rv/shuhan/internal/chart"
	"github.com/h0rv/shuhan/internal/layout"
)

const (
	margin      = 20.0
	barWidth    = 60.0
	railWidth   = 90.0
	columnGap   = 24.0
	headerH     = 44.0
	footerH     = 56.0
	barRowH     = 22.0
	barRowGap   = 8.0
	barLabelW   = 48.0
	barTotalW   = 38.0
	fontFamily  = "'Hiragino Sans','Noto Sans JP',sans-serif"
	placeholder = 0.3
)

const columnCSS = `
    .column { transition: transform 0.6s ease; }
    .column.no-transition { transition: none; }
    .segment { cursor: grab; }`

// Option configures the SVG output.
type Option func(*renderer)

type renderer struct {
	title     string
	secondary *chart.View
	tooltipH  float64
}

// WithTitle draws a title above the chart.
func WithTitle(s string) Option { return func(r *renderer) { r.title = s } }

// WithSecondary appends the horizontal bars of a second chamber.
func WithSecondary(v chart.View) Option { return func(r *renderer) { r.secondary = &v } }

// WithTooltipHeight overrides the tooltip box height.
func WithTooltipHeight(h float64) Option { return func(r *renderer) { r.tooltipH = h } }

func columnWidth() float64 { return barWidth + railWidth }

// Width returns the document width for a view.
func Width(v chart.View) float64 {
	n := float64(len(v.Columns))
	if n == 0 {
		return 2 * margin
	}
	return 2*margin + n*columnWidth() + (n-1)*columnGap
}

// SVG renders v.
func SVG(v chart.View, opts ...Option) []byte {
	r := renderer{tooltipH: layout.TooltipHeight}
	for _, opt := range opts {
		opt(&r)
	}

	width := Width(v)
	top := margin
	if r.title != "" {
		top += 28
	}
	height := top + headerH + v.StackHeight + footerH
	if r.secondary != nil {
		height += secondaryHeight(*r.secondary)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s">`+"\n",
		width, height, width, height, fontFamily)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", columnCSS)

	if r.title != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="20" font-weight="bold">%s</text>`+"\n",
			margin, margin+18, escape(r.title))
	}

	for i, col := range v.Columns {
		renderColumn(&buf, r, v, col, columnX(i, col.Offset), top)
	}

	y := top + headerH + v.StackHeight + 28
	renderSummary(&buf, v, y)

	if r.secondary != nil {
		renderBars(&buf, *r.secondary, width, top+headerH+v.StackHeight+footerH)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func columnX(i int, off chart.Offset) float64 {
	x := margin + float64(i)*(columnWidth()+columnGap)
	switch off {
	case chart.OffsetRight:
		x += columnWidth() + columnGap
	case chart.OffsetLeft:
		x -= columnWidth() + columnGap
	}
	return x
}

func renderColumn(buf *bytes.Buffer, r renderer, v chart.View, col chart.Column, x, top float64) {
	class := "column"
	if !v.Swap.Transitions {
		class += " no-transition"
	}
	fmt.Fprintf(buf, `  <g class="%s" id="group-%s">`+"\n", class, col.ID)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="16" font-weight="bold">%s</text>`+"\n",
		x, top+18, escape(col.Name))
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="13">%d 議席</text>`+"\n",
		x, top+36, col.Total)

	stackTop := top + headerH
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#d0d0d0" stroke-dasharray="4 3"/>`+"\n",
		x, stackTop, barWidth, v.StackHeight)

	if ph := col.Placeholder; ph != nil && ph.Before == "" {
		fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" opacity="%.1f"/>`+"\n",
			x, stackTop, barWidth, ph.Height, ph.Party.Color, placeholder)
	}

	for _, seg := range col.Segments {
		y := stackTop + seg.Top()
		if ph := col.Placeholder; ph != nil && ph.Before == seg.Party.ID {
			fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" opacity="%.1f"/>`+"\n",
				x, y-ph.Height, barWidth, ph.Height, ph.Party.Color, placeholder)
		}
		fmt.Fprintf(buf, `    <rect class="segment" id="party-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			seg.Party.ID, x, y, barWidth, seg.Height, seg.Party.Color)
		if !seg.Compact {
			fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="12" fill="#ffffff" text-anchor="middle">%s</text>`+"\n",
				x+barWidth/2, stackTop+seg.CenterFromTop-2, escape(seg.Party.ShortName))
			fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="11" fill="#ffffff" text-anchor="middle">%d</text>`+"\n",
				x+barWidth/2, stackTop+seg.CenterFromTop+12, seg.Party.Seats)
		}
		if seg.HasTooltip {
			renderTooltip(buf, r, seg, x+barWidth, stackTop)
		}
	}
	fmt.Fprintf(buf, "  </g>\n")
}

func renderTooltip(buf *bytes.Buffer, r renderer, seg layout.Segment, railX, stackTop float64) {
	tipY := stackTop + seg.TooltipTop
	tipCenter := stackTop + seg.CenterFromTop - seg.ConnectorOffset
	fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>`+"\n",
		railX, stackTop+seg.CenterFromTop, railX+12, tipCenter, seg.Party.Color)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill="#ffffff" stroke="%s"/>`+"\n",
		railX+12, tipY, railWidth-16, r.tooltipH, seg.Party.Color)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="11">%s %d</text>`+"\n",
		railX+17, tipY+r.tooltipH/2+4, escape(seg.Party.ShortName), seg.Party.Seats)
}

func renderSummary(buf *bytes.Buffer, v chart.View, y float64) {
	gap := fmt.Sprintf("過半数まで %d", -v.MajorityGap)
	if v.MajorityGap >= 0 {
		gap = fmt.Sprintf("過半数 +%d", v.MajorityGap)
	}
	name := v.CoalitionName
	if name == "" {
		name = "与党なし"
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="18" font-weight="bold">%s</text>`+"\n",
		margin, y, escape(name))
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="13">%s（%s %d / %d）</text>`+"\n",
		margin, y+20, escape(gap), escape(v.Chamber.Name), v.Ruling, v.Chamber.Total)
}

func secondaryHeight(v chart.View) float64 {
	return 28 + float64(len(v.Bars))*(barRowH+barRowGap) + margin
}

func renderBars(buf *bytes.Buffer, v chart.View, width, top float64) {
	fmt.Fprintf(buf, `  <g id="chamber-%s">`+"\n", v.Chamber.ID)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="15" font-weight="bold">%s</text>`+"\n",
		margin, top+16, escape(v.Chamber.Name))

	barX := margin + barLabelW
	barW := width - 2*margin - barLabelW - barTotalW
	y := top + 28
	for _, gb := range v.Bars {
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="12">%s</text>`+"\n",
			margin, y+barRowH/2+4, escape(gb.Name))
		fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#f0f0f0"/>`+"\n",
			barX, y, barW, barRowH)
		for _, s := range gb.Segments {
			fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
				barX+s.Start*barW, y, s.Fraction*barW, barRowH, s.Party.Color)
		}
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="12">%d</text>`+"\n",
			barX+barW+6, y+barRowH/2+4, gb.Total)
		y += barRowH + barRowGap
	}
	if len(v.Bars) > 0 {
		lineX := barX + v.Bars[0].MajorityLine*barW
		fmt.Fprintf(buf, `    <line class="majority" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333333" stroke-dasharray="3 2"/>`+"\n",
			lineX, top+24, lineX, y-barRowGap+4)
	}
	fmt.Fprintf(buf, "  </g>\n")
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
