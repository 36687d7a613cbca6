package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/reflow/truncate"

	"github.com/h0rv/shuhan/internal/chart"
	"github.com/h0rv/shuhan/internal/dnd"
	"github.com/h0rv/shuhan/internal/domain"
	"github.com/h0rv/shuhan/internal/layout"
	"github.com/h0rv/shuhan/internal/share"
	"github.com/h0rv/shuhan/internal/simulator"
	"github.com/h0rv/shuhan/internal/swap"
)

// Layout constants
const (
	barCells          = 10 // Width of a stacked bar
	railCells         = 14 // Max width of the tooltip rail
	minRailCells      = 6
	columnGap         = 2
	columnHeaderLines = 3 // Name, seats, drop hint
	secondaryLines    = 4 // Title, two bars, majority marker
	minStackRows      = 6
	barLabelCells     = 6
	transitionDelay   = 350 * time.Millisecond
	frameInterval     = 16 * time.Millisecond
)

// Styles for the board view - base styles without width/height (set dynamically)
var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	selectedHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Reverse(true).
				Foreground(lipgloss.Color("205"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	dragModeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("205")).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1)
)

// BoardModel is the interactive seat chart. Keyboard gestures stand in for
// pointer drags: grab a party, move the cursor over a group header or another
// party, and drop.
type BoardModel struct {
	// Dependencies
	session *simulator.Session
	chamber *domain.Chamber
	siteURL string
	logger  *log.Logger
	opener  func(string) error

	// UI components
	keymap KeyMap
	help   HelpModel

	// Cursor state
	cursorCol int // Group slot
	cursorRow int // Party index within the group; -1 selects the header

	// View state
	width     int
	height    int
	showHelp  bool
	animating bool // Transition ticks are in flight
	toast     string
	toastErr  bool
}

// NewBoardModel creates a board showing ch.
func NewBoardModel(session *simulator.Session, ch *domain.Chamber, siteURL string, logger *log.Logger) BoardModel {
	return BoardModel{
		session: session,
		chamber: ch,
		siteURL: siteURL,
		logger:  logger,
		opener:  share.Open,
		keymap:  DefaultKeyMap(),
		help:    NewHelpModel(DefaultKeyMap()),
	}
}

// boardInitMsg triggers the initial animation check
type boardInitMsg struct{}

// Init requests the window size and checks for a pending swap animation, e.g.
// when the loaded assignment already has the opposition ahead.
func (m BoardModel) Init() tea.Cmd {
	return tea.Batch(
		tea.WindowSize(),
		func() tea.Msg { return boardInitMsg{} },
	)
}

// Update handles messages
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardInitMsg:
		(&m).clampCursor()
		return m.scheduleAnimation()

	case transitionEndMsg:
		m.session.TransitionEnd()
		if m.session.FramePending() {
			return m, frameCmd()
		}
		return m, nil

	case frameMsg:
		m.session.Frame()
		if m.session.FramePending() {
			return m, frameCmd()
		}
		m.animating = false
		(&m).clampCursor()
		return m.scheduleAnimation()

	case shareResultMsg:
		if msg.err != nil {
			m.setToast(fmt.Sprintf("Share failed: %v", msg.err), true)
			m.logger.Debug("share failed", "link", msg.link, "err", msg.err)
			return m, nil
		}
		m.setToast("Opened share link", false)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m BoardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Help overlay
	if m.showHelp {
		if key.Matches(msg, m.keymap.Help, m.keymap.Cancel) || msg.String() == "q" {
			m.showHelp = false
		}
		return m, nil
	}

	if m.session.Dragging() {
		return m.handleDragMode(msg)
	}

	m.toast = ""
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
	case key.Matches(msg, m.keymap.Left):
		(&m).moveColumn(-1)
	case key.Matches(msg, m.keymap.Right):
		(&m).moveColumn(1)
	case key.Matches(msg, m.keymap.Up):
		(&m).moveRow(-1)
	case key.Matches(msg, m.keymap.Down):
		(&m).moveRow(1)
	case key.Matches(msg, m.keymap.Grab):
		(&m).startDrag()
	case key.Matches(msg, m.keymap.Share):
		return m, m.shareCmd()
	case key.Matches(msg, m.keymap.Chamber):
		(&m).nextChamber()
	case key.Matches(msg, m.keymap.Summary):
		return m, func() tea.Msg { return openSummaryMsg{} }
	case key.Matches(msg, m.keymap.Reset):
		m.session.Reset()
		(&m).clampCursor()
		m.setToast("Reset to the default assignment", false)
		return m.scheduleAnimation()
	}

	return m, nil
}

// handleDragMode handles key presses while a party is grabbed
func (m BoardModel) handleDragMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.session.CancelDrag()
		(&m).clampCursor()
		m.setToast("Drag cancelled", false)
		return m, nil
	case key.Matches(msg, m.keymap.Drop):
		return m.drop(m.target())
	case key.Matches(msg, m.keymap.Group):
		idx := int(msg.String()[0] - '1')
		cols := m.session.View(m.chamber).Columns
		if idx >= 0 && idx < len(cols) {
			return m.drop(string(cols[idx].ID))
		}
		return m, nil
	case key.Matches(msg, m.keymap.Left):
		(&m).moveColumn(-1)
	case key.Matches(msg, m.keymap.Right):
		(&m).moveColumn(1)
	case key.Matches(msg, m.keymap.Up):
		(&m).moveRow(-1)
	case key.Matches(msg, m.keymap.Down):
		(&m).moveRow(1)
	case key.Matches(msg, m.keymap.Top):
		m.cursorRow = -1
	default:
		return m, nil
	}
	m.session.DragOver(m.target())
	return m, nil
}

// startDrag grabs the party under the cursor. Compact parties are grabbed by
// their rail label.
func (m *BoardModel) startDrag() {
	party, ok := m.selectedParty()
	if !ok {
		return
	}
	origin := dnd.OriginSegment
	if m.session.Params().IsCompact(party.Seats) {
		origin = dnd.OriginTooltip
	}
	m.session.StartDrag(party.ID, origin)
	m.session.DragOver(m.target())
}

// drop releases the grabbed party on target and follows it with the cursor.
func (m BoardModel) drop(target string) (tea.Model, tea.Cmd) {
	active := m.session.ActiveParty()
	outcome := m.session.EndDrag(target)

	party, _ := m.chamber.PartyByID(active)
	if outcome == dnd.NoOp {
		m.setToast(fmt.Sprintf("%s stayed in place", party.ShortName), false)
	} else {
		(&m).focusParty(active)
		group := m.session.View(m.chamber).Columns[m.cursorCol]
		m.setToast(fmt.Sprintf("%s %s %s", party.ShortName, outcome, group.Name), false)
	}
	return m.scheduleAnimation()
}

// scheduleAnimation starts the column transitions once per swap cycle. Each
// animated column reports its own transition end.
func (m BoardModel) scheduleAnimation() (tea.Model, tea.Cmd) {
	if m.animating || m.session.Swap() != swap.Animating {
		return m, nil
	}
	m.animating = true

	var cmds []tea.Cmd
	for _, col := range m.session.View(m.chamber).Columns {
		if col.Animated {
			cmds = append(cmds, tea.Tick(transitionDelay, func(time.Time) tea.Msg {
				return transitionEndMsg{}
			}))
		}
	}
	return m, tea.Batch(cmds...)
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

// shareCmd opens the share-intent link for the current assignment.
func (m BoardModel) shareCmd() tea.Cmd {
	view := m.session.View(m.chamber)
	link := share.IntentLink(view.CoalitionName, share.PageURL(m.siteURL, m.session.Encode()))
	open := m.opener
	return func() tea.Msg {
		return shareResultMsg{link: link, err: open(link)}
	}
}

func (m *BoardModel) setToast(s string, isErr bool) {
	m.toast = s
	m.toastErr = isErr
}

// nextChamber cycles through the chambers of the catalog.
func (m *BoardModel) nextChamber() {
	chambers := m.session.Catalog().Chambers
	for i, ch := range chambers {
		if ch.ID == m.chamber.ID {
			m.chamber = chambers[(i+1)%len(chambers)]
			break
		}
	}
	m.clampCursor()
}

// target returns the drop target under the cursor: a party id, or the group
// id when the header is selected or the group is empty.
func (m BoardModel) target() string {
	cols := m.session.View(m.chamber).Columns
	if len(cols) == 0 {
		return ""
	}
	col := cols[m.cursorCol]
	if m.cursorRow < 0 || m.cursorRow >= len(col.Parties) {
		return string(col.ID)
	}
	return col.Parties[m.cursorRow].ID
}

func (m BoardModel) selectedParty() (domain.Party, bool) {
	cols := m.session.View(m.chamber).Columns
	if len(cols) == 0 {
		return domain.Party{}, false
	}
	col := cols[m.cursorCol]
	if m.cursorRow < 0 || m.cursorRow >= len(col.Parties) {
		return domain.Party{}, false
	}
	return col.Parties[m.cursorRow], true
}

func (m *BoardModel) moveColumn(delta int) {
	m.cursorCol += delta
	m.clampCursor()
}

func (m *BoardModel) moveRow(delta int) {
	m.cursorRow += delta
	m.clampCursor()
}

// clampCursor keeps the cursor on an existing group and party. The header row
// is only reachable while dragging or in an empty group.
func (m *BoardModel) clampCursor() {
	cols := m.session.View(m.chamber).Columns
	if len(cols) == 0 {
		m.cursorCol, m.cursorRow = 0, -1
		return
	}
	m.cursorCol = max(0, min(m.cursorCol, len(cols)-1))

	n := len(cols[m.cursorCol].Parties)
	lower := 0
	if m.session.Dragging() || n == 0 {
		lower = -1
	}
	m.cursorRow = max(lower, min(m.cursorRow, n-1))
}

// focusParty moves the cursor onto partyID.
func (m *BoardModel) focusParty(partyID string) {
	for i, col := range m.session.View(m.chamber).Columns {
		for j, p := range col.Parties {
			if p.ID == partyID {
				m.cursorCol, m.cursorRow = i, j
				return
			}
		}
	}
	m.clampCursor()
}

// View renders the board - fills entire terminal exactly
func (m BoardModel) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	var sections []string
	sections = append(sections, m.renderHeader(width))
	sections = append(sections, m.renderSecondHeader(width))

	boardHeight := height - 2
	if m.session.Dragging() {
		sections = append(sections, m.renderDragBanner(width))
		boardHeight--
	}

	if m.showHelp {
		helpLines := strings.Split(m.help.View(width), "\n")
		if len(helpLines) > boardHeight {
			helpLines = helpLines[:max(boardHeight, 1)]
		}
		sections = append(sections, strings.Join(helpLines, "\n"))
	} else {
		sections = append(sections, m.renderBoard(width, boardHeight))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title on the left and the coalition on the right
func (m BoardModel) renderHeader(width int) string {
	view := m.session.View(m.chamber)

	title := fmt.Sprintf("首班指名シミュレータ | %s", m.chamber.Name)

	name := view.CoalitionName
	if name == "" {
		name = "与党なし"
	}
	gapStyle := MinorityStyle
	gap := fmt.Sprintf("過半数まで %d", -view.MajorityGap)
	if view.MajorityGap >= 0 {
		gapStyle = MajorityStyle
		gap = fmt.Sprintf("過半数 +%d", view.MajorityGap)
	}
	status := fmt.Sprintf("%s  %d/%d  ", name, view.Ruling, m.chamber.Total) + gapStyle.Render(gap)

	padding := width - lipgloss.Width(title) - lipgloss.Width(status) - 2
	if padding < 1 {
		padding = 1
	}
	return titleStyle.Render(title) + strings.Repeat(" ", padding) + status
}

// renderSecondHeader renders key hints and the toast or swap phase
func (m BoardModel) renderSecondHeader(width int) string {
	right := ""
	switch {
	case m.toast != "" && m.toastErr:
		right = errorStyle.Render(m.toast)
	case m.toast != "":
		right = m.toast
	case m.session.Swap() != swap.Idle:
		right = dimStyle.Render("swap: " + m.session.Swap().String())
	}

	left := m.help.ShortView(max(width-lipgloss.Width(right)-2, 10))
	padding := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return left + strings.Repeat(" ", padding) + right
}

// renderDragBanner shows what is grabbed and where it would land
func (m BoardModel) renderDragBanner(width int) string {
	party, _ := m.chamber.PartyByID(m.session.ActiveParty())
	where := m.describeTarget(m.session.OverTarget(), party.ID)
	text := fmt.Sprintf(" %s → %s | enter:drop 1-3:group esc:cancel", party.ShortName, where)
	banner := dragModeStyle.Render("DRAG") + text
	return truncate.StringWithTail(banner, uint(width), "…")
}

func (m BoardModel) describeTarget(target, active string) string {
	if target == "" || target == active {
		return "(no change)"
	}
	if domain.IsGroupID(target) {
		return domain.GroupName(domain.GroupID(target)) + "の先頭"
	}
	if p, ok := m.chamber.PartyByID(target); ok {
		return p.ShortName + "の位置"
	}
	return target
}

// terminalView lays the chart out in terminal rows: one unit is one row and
// tooltips are one row tall with no spacing.
func (m BoardModel) terminalView(rows int) chart.View {
	p := layout.DefaultParams()
	p.Scale = 1
	p.TooltipHeight = 1
	p.TooltipSpacing = 0

	base := m.session.ViewWith(m.chamber, p)
	if base.StackHeight > 0 {
		p.Scale = float64(rows) / base.StackHeight
	}
	return m.session.ViewWith(m.chamber, p)
}

// renderBoard renders the group columns and, when room allows, the
// horizontal bars of the other chamber
func (m BoardModel) renderBoard(totalWidth, totalHeight int) string {
	secondary := m.secondaryChamber()
	showSecondary := secondary != nil && totalHeight >= columnHeaderLines+minStackRows+secondaryLines

	stackRows := totalHeight - columnHeaderLines
	if showSecondary {
		stackRows -= secondaryLines
	}
	if stackRows < minStackRows {
		stackRows = minStackRows
	}

	view := m.terminalView(stackRows)
	n := len(view.Columns)
	if n == 0 {
		return lipgloss.Place(totalWidth, totalHeight, lipgloss.Center, lipgloss.Center, "No groups")
	}

	colWidth := (totalWidth - columnGap*(n-1)) / n
	railWidth := max(minRailCells, min(railCells, colWidth-barCells-1))

	columnViews := make([]string, 0, 2*n)
	for i, idx := range visualOrder(view.Columns) {
		if i > 0 {
			columnViews = append(columnViews, strings.Repeat(" ", columnGap))
		}
		columnViews = append(columnViews, m.renderColumn(view, idx, stackRows, railWidth))
	}
	board := lipgloss.JoinHorizontal(lipgloss.Top, columnViews...)

	if showSecondary {
		bars := m.renderSecondary(m.session.View(secondary), totalWidth)
		board = lipgloss.JoinVertical(lipgloss.Left, board, bars)
	}
	return board
}

func (m BoardModel) secondaryChamber() *domain.Chamber {
	for _, ch := range m.session.Catalog().Chambers {
		if ch.ID != m.chamber.ID {
			return ch
		}
	}
	return nil
}

// visualOrder returns column indices in display order. Offset columns trade
// places so the swap reads as a cross-over before the data changes.
func visualOrder(cols []chart.Column) []int {
	order := make([]int, len(cols))
	placed := make([]bool, len(cols))
	for i, c := range cols {
		pos := i
		switch c.Offset {
		case chart.OffsetRight:
			pos++
		case chart.OffsetLeft:
			pos--
		}
		if pos < 0 || pos >= len(cols) || placed[pos] {
			return identityOrder(len(cols))
		}
		order[pos] = i
		placed[pos] = true
	}
	return order
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// renderColumn renders one group: header lines, then a marker, the bar and
// the tooltip rail per stack row
func (m BoardModel) renderColumn(view chart.View, idx, stackRows, railWidth int) string {
	col := view.Columns[idx]
	width := 1 + barCells + railWidth
	selected := idx == m.cursorCol
	dragging := m.session.Dragging()
	active := m.session.ActiveParty()

	cursorParty := ""
	if selected && m.cursorRow >= 0 && m.cursorRow < len(col.Parties) {
		cursorParty = col.Parties[m.cursorRow].ID
	}

	lines := make([]string, 0, columnHeaderLines+stackRows)

	headerStyle := columnHeaderStyle
	if selected && m.cursorRow < 0 {
		headerStyle = selectedHeaderStyle
	}
	lines = append(lines, headerStyle.Render(fit(fmt.Sprintf("[%d] %s", idx+1, col.Name), width)))
	lines = append(lines, dimStyle.Render(fit(fmt.Sprintf("%d 議席", col.Total), width)))
	lines = append(lines, m.renderDropHint(col, width))

	barRows := rasterize(col.Segments, stackRows)
	tipRows := tooltipRows(col.Segments, stackRows)

	for r := 0; r < stackRows; r++ {
		marker := " "
		bar := dimStyle.Render(strings.Repeat("·", barCells))
		if si := barRows[r]; si >= 0 {
			seg := col.Segments[si]
			label := ""
			if !seg.Compact && r == labelRow(seg) {
				label = fmt.Sprintf("%s %d", seg.Party.ShortName, seg.Party.Seats)
			}
			style := partyStyle(seg.Party.Color)
			if dragging && seg.Party.ID == active {
				style = style.Faint(true)
			}
			bar = style.Render(center(label, barCells))
			if seg.Party.ID == cursorParty && !seg.Compact {
				marker = cursorStyle.Render("▶")
			}
		}

		rail := strings.Repeat(" ", railWidth)
		if si, ok := tipRows[r]; ok {
			seg := col.Segments[si]
			lead := "─"
			style := partyTextStyle(seg.Party.Color)
			if seg.Party.ID == cursorParty {
				lead = "▶"
				style = cursorStyle
			}
			rail = style.Render(fit(fmt.Sprintf("%s%s %d", lead, seg.Party.ShortName, seg.Party.Seats), railWidth))
		}

		lines = append(lines, marker+bar+rail)
	}

	return strings.Join(lines, "\n")
}

// renderDropHint renders the placeholder line of a column while dragging
func (m BoardModel) renderDropHint(col chart.Column, width int) string {
	ph := col.Placeholder
	if ph == nil {
		return strings.Repeat(" ", width)
	}
	text := "▼ " + ph.Party.ShortName
	if ph.Before != "" {
		text = "▼ " + ph.Party.ShortName + " → " + m.describeTarget(ph.Before, ph.Party.ID)
	}
	return partyTextStyle(ph.Party.Color).Bold(true).Render(fit(text, width))
}

// rasterize maps each stack row to the segment covering it, or -1.
func rasterize(segments []layout.Segment, rows int) []int {
	out := make([]int, rows)
	for i := range out {
		out[i] = -1
	}
	for i, seg := range segments {
		start, end := segmentRows(seg)
		for r := max(start, 0); r < min(end, rows); r++ {
			out[r] = i
		}
	}
	return out
}

func segmentRows(seg layout.Segment) (start, end int) {
	return int(math.Round(seg.Top())), int(math.Round(seg.Bottom()))
}

func labelRow(seg layout.Segment) int {
	start, end := segmentRows(seg)
	return (start + end - 1) / 2
}

// tooltipRows maps a stack row to the compact segment labelled on it.
func tooltipRows(segments []layout.Segment, rows int) map[int]int {
	out := make(map[int]int)
	for i, seg := range segments {
		if !seg.HasTooltip {
			continue
		}
		r := max(0, min(int(math.Round(seg.TooltipTop)), rows-1))
		out[r] = i
	}
	return out
}

// renderSecondary renders one horizontal bar per group of the other chamber
// and a marker at its majority threshold
func (m BoardModel) renderSecondary(view chart.View, width int) string {
	barWidth := width - barLabelCells - 5
	if barWidth < 10 {
		barWidth = 10
	}

	lines := []string{dimStyle.Render(fit(fmt.Sprintf("%s (過半数 %d)", view.Chamber.Name, view.Chamber.Majority), width))}
	for _, gb := range view.Bars {
		var b strings.Builder
		filled := 0
		for _, seg := range gb.Segments {
			end := int(math.Round((seg.Start + seg.Fraction) * float64(barWidth)))
			end = min(end, barWidth)
			if end > filled {
				b.WriteString(partyStyle(seg.Party.Color).Render(strings.Repeat(" ", end-filled)))
				filled = end
			}
		}
		if filled < barWidth {
			b.WriteString(dimStyle.Render(strings.Repeat("·", barWidth-filled)))
		}
		lines = append(lines, fit(gb.Name, barLabelCells)+b.String()+fmt.Sprintf(" %4d", gb.Total))
	}

	if len(view.Bars) > 0 {
		pos := int(math.Round(view.Bars[0].MajorityLine * float64(barWidth)))
		lines = append(lines, strings.Repeat(" ", barLabelCells+max(pos-1, 0))+dimStyle.Render("▲過半数"))
	}
	return strings.Join(lines, "\n")
}

// fit truncates s to width cells and pads it to exactly width.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = truncate.StringWithTail(s, uint(width), "…")
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// center truncates s to width cells and centers it.
func center(s string, width int) string {
	s = truncate.StringWithTail(s, uint(width), "…")
	pad := width - lipgloss.Width(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
