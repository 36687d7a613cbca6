package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/h0rv/shuhan/internal/chart"
	"github.com/h0rv/shuhan/internal/domain"
	"github.com/h0rv/shuhan/internal/share"
	"github.com/h0rv/shuhan/internal/simulator"
)

// Layout constants
const (
	leftPanelRatio = 0.35 // Left panel takes 35% of width
	minLeftWidth   = 30
	maxLeftWidth   = 50
	headerHeight   = 1
	footerHeight   = 1
	borderSize     = 2 // Top + bottom border
)

// Summary view styles
var (
	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))

	detailValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	groupNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	focusedPanelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("205"))

	scrollIndicatorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205"))
)

// SummaryModel shows the coalition, the party lists of every group and the
// standing of each group in every chamber.
type SummaryModel struct {
	// Dependencies
	session *simulator.Session
	chamber *domain.Chamber
	siteURL string
	opener  func(string) error

	// UI components
	viewport viewport.Model

	// State
	status   string
	errorMsg string

	// View dimensions
	width  int
	height int
}

// NewSummaryModel creates a summary of the session as seen in ch.
func NewSummaryModel(session *simulator.Session, ch *domain.Chamber, siteURL string) SummaryModel {
	vp := viewport.New(40, 10) // Will be resized in WindowSizeMsg
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	m := SummaryModel{
		session:  session,
		chamber:  ch,
		siteURL:  siteURL,
		opener:   share.Open,
		viewport: vp,
	}
	m.updateViewportContent()
	return m
}

// Init initializes the summary model
func (m SummaryModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages
func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeComponents()
		return m, nil

	case shareResultMsg:
		if msg.err != nil {
			m.errorMsg = fmt.Sprintf("Failed: %v", msg.err)
			m.status = ""
			return m, nil
		}
		m.status = "Opened " + msg.link
		m.errorMsg = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// resizeComponents calculates and sets component dimensions
func (m *SummaryModel) resizeComponents() {
	leftWidth := leftPanelWidth(m.width)

	rightWidth := m.width - leftWidth - 3 // 3 = gap between panels
	if rightWidth < 30 {
		rightWidth = 30
	}

	contentHeight := m.height - headerHeight - footerHeight - borderSize
	if contentHeight < 10 {
		contentHeight = 10
	}

	m.viewport.Width = rightWidth - borderSize - 2
	m.viewport.Height = contentHeight - borderSize - 1 // Panel title

	m.updateViewportContent()
}

func leftPanelWidth(width int) int {
	w := int(float64(width) * leftPanelRatio)
	return max(minLeftWidth, min(w, maxLeftWidth))
}

// handleKeyPress processes keyboard input
func (m SummaryModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc", "i", "tab":
		return m, func() tea.Msg { return closeSummaryMsg{} }
	case "o":
		return m, m.openCmd(m.pageURL())
	case "s":
		return m, m.openCmd(share.IntentLink(m.view().CoalitionName, m.pageURL()))
	case "j", "down":
		m.viewport.LineDown(1)
	case "k", "up":
		m.viewport.LineUp(1)
	case "ctrl+d":
		m.viewport.HalfViewDown()
	case "ctrl+u":
		m.viewport.HalfViewUp()
	case "g":
		m.viewport.GotoTop()
	case "G":
		m.viewport.GotoBottom()
	}

	return m, nil
}

func (m SummaryModel) view() chart.View {
	return m.session.View(m.chamber)
}

func (m SummaryModel) pageURL() string {
	return share.PageURL(m.siteURL, m.session.Encode())
}

func (m SummaryModel) openCmd(link string) tea.Cmd {
	open := m.opener
	return func() tea.Msg {
		return shareResultMsg{link: link, err: open(link)}
	}
}

// View renders the split-screen summary
func (m SummaryModel) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 30
	}

	leftWidth := leftPanelWidth(width)
	rightWidth := width - leftWidth - 1 // 1 char gap

	contentHeight := height - headerHeight - footerHeight
	if contentHeight < 10 {
		contentHeight = 10
	}

	header := dimStyle.Render("[q]back [o]open page [s]share [j/k]scroll [g/G]top/bottom")

	leftPanel := panelBorderStyle.
		Width(leftWidth - borderSize).
		Height(contentHeight - borderSize).
		Render(m.renderLeftPanel(leftWidth - borderSize))

	rightPanel := focusedPanelBorderStyle.
		Width(rightWidth - borderSize).
		Height(contentHeight - borderSize).
		Render(m.renderRightPanel())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, " ", rightPanel)

	return lipgloss.JoinVertical(lipgloss.Left, header, panels, m.renderFooter(width))
}

// renderFooter renders the bottom status bar
func (m SummaryModel) renderFooter(width int) string {
	var left, right string

	if m.errorMsg != "" {
		left = errorStyle.Render("✗ " + m.errorMsg)
	} else if m.status != "" {
		left = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Render("✓ " + m.status)
	}

	if m.viewport.TotalLineCount() > m.viewport.Height {
		switch {
		case m.viewport.AtTop():
			right = "TOP"
		case m.viewport.AtBottom():
			right = "END"
		default:
			right = fmt.Sprintf("%d%%", int(m.viewport.ScrollPercent()*100))
		}
	}

	left = fit(left, max(width-lipgloss.Width(right)-2, 1))
	padding := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return left + strings.Repeat(" ", padding) + dimStyle.Render(right)
}

// renderLeftPanel renders the coalition panel
func (m SummaryModel) renderLeftPanel(width int) string {
	var b strings.Builder
	v := m.view()

	b.WriteString(detailLabelStyle.Render(v.Chamber.Name))
	b.WriteString("\n\n")

	name := v.CoalitionName
	if name == "" {
		name = "与党なし"
	}
	b.WriteString(detailTitleStyle.Render(wordwrap.String(name, width-2)))
	b.WriteString("\n\n")

	writeField(&b, "与党", fmt.Sprintf("%d", v.Ruling))
	writeField(&b, "野党", fmt.Sprintf("%d", v.Opposition))
	writeField(&b, "過半数", fmt.Sprintf("%d / %d", v.Chamber.Majority, v.Chamber.Total))

	b.WriteString(detailLabelStyle.Render("差: "))
	if v.MajorityGap >= 0 {
		b.WriteString(MajorityStyle.Render(fmt.Sprintf("+%d", v.MajorityGap)))
	} else {
		b.WriteString(MinorityStyle.Render(fmt.Sprintf("%d", v.MajorityGap)))
	}
	b.WriteString("\n")

	writeField(&b, "Swap", m.session.Swap().String())

	b.WriteString("\n")
	b.WriteString(detailLabelStyle.Render("Share:"))
	b.WriteString("\n")
	b.WriteString(detailValueStyle.Render(wordwrap.String(m.pageURL(), width-2)))

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(detailLabelStyle.Render(label + ": "))
	b.WriteString(detailValueStyle.Render(value))
	b.WriteString("\n")
}

// renderRightPanel renders the groups panel with viewport
func (m SummaryModel) renderRightPanel() string {
	var b strings.Builder

	scrollHint := ""
	if m.viewport.TotalLineCount() > m.viewport.Height {
		switch {
		case m.viewport.AtTop():
			scrollHint = " ↓"
		case m.viewport.AtBottom():
			scrollHint = " ↑"
		default:
			scrollHint = " ↕"
		}
	}

	b.WriteString(detailLabelStyle.Render("Groups"))
	b.WriteString(scrollIndicatorStyle.Render(scrollHint))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())

	return b.String()
}

// updateViewportContent lists every party by group, then each group's
// seats in every chamber
func (m *SummaryModel) updateViewportContent() {
	var b strings.Builder
	wrapWidth := m.viewport.Width - 4
	if wrapWidth < 30 {
		wrapWidth = 30
	}

	v := m.view()
	for i, col := range v.Columns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(groupNameStyle.Render(fmt.Sprintf("%s  %d", col.Name, col.Total)))
		b.WriteString("\n")
		if len(col.Parties) == 0 {
			b.WriteString(dimStyle.Render("(empty)"))
			continue
		}
		for _, p := range col.Parties {
			line := fmt.Sprintf("%4d  %s %s", p.Seats, p.ShortName, p.Name)
			b.WriteString(partyTextStyle(p.Color).Render("■ "))
			b.WriteString(detailValueStyle.Render(wordwrap.String(line, wrapWidth)))
			b.WriteString("\n")
		}
	}

	for _, ch := range m.session.Catalog().Chambers {
		cv := m.session.View(ch)
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render(strings.Repeat("─", min(20, wrapWidth))))
		b.WriteString("\n\n")
		b.WriteString(groupNameStyle.Render(fmt.Sprintf("%s (過半数 %d)", ch.Name, ch.Majority)))
		b.WriteString("\n")
		for _, gb := range cv.Bars {
			style := detailValueStyle
			if gb.Total >= ch.Majority {
				style = MajorityStyle
			}
			b.WriteString(style.Render(fmt.Sprintf("%-6s %4d", gb.Name, gb.Total)))
			b.WriteString("\n")
		}
	}

	m.viewport.SetContent(b.String())
}
