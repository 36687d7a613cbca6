package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/h0rv/shuhan/internal/domain"
	"github.com/h0rv/shuhan/internal/simulator"
)

// primaryMark tags the chamber whose totals decide a change of government.
const primaryMark = "首班指名"

// chamberItem is one chamber with the current assignment resolved against it.
type chamberItem struct {
	chamber  *domain.Chamber
	primary  bool
	ruling   int
	gap      int
	fraction float64
}

func newChamberItem(session *simulator.Session, ch *domain.Chamber) chamberItem {
	v := session.View(ch)
	item := chamberItem{
		chamber: ch,
		primary: ch == session.Catalog().Primary(),
		ruling:  v.Ruling,
		gap:     v.MajorityGap,
	}
	if ch.Total > 0 {
		item.fraction = float64(v.Ruling) / float64(ch.Total)
	}
	return item
}

func (i chamberItem) FilterValue() string {
	return i.chamber.Name + " " + i.chamber.ID
}

func (i chamberItem) Title() string {
	title := fmt.Sprintf("%s (%s)", i.chamber.Name, i.chamber.ID)
	if i.primary {
		title += " [" + primaryMark + "]"
	}
	return title
}

func (i chamberItem) Description() string {
	return fmt.Sprintf("与党 %d / %d 議席 (%.0f%%)  %s", i.ruling, i.chamber.Total, i.fraction*100, i.gapText())
}

func (i chamberItem) gapText() string {
	if i.gap >= 0 {
		return fmt.Sprintf("過半数 %d に +%d", i.chamber.Majority, i.gap)
	}
	return fmt.Sprintf("過半数 %d まで %d", i.chamber.Majority, -i.gap)
}

func (i chamberItem) gapStyle() lipgloss.Style {
	if i.gap >= 0 {
		return MajorityStyle
	}
	return MinorityStyle
}

// chamberDelegate renders a chamber with its majority status.
type chamberDelegate struct{}

func (d chamberDelegate) Height() int                             { return 2 }
func (d chamberDelegate) Spacing() int                            { return 1 }
func (d chamberDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d chamberDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(chamberItem)
	if !ok {
		return
	}

	str := fmt.Sprintf("%d. %s", index+1, i.Title())
	seats := fmt.Sprintf("与党 %d / %d 議席 (%.0f%%)  ", i.ruling, i.chamber.Total, i.fraction*100)
	gap := i.gapStyle().Render(i.gapText())

	if index == m.Index() {
		fmt.Fprint(w, SelectedItemStyle.Render("> "+str))
		fmt.Fprint(w, "\n  "+NormalItemStyle.Render(seats)+gap)
	} else {
		fmt.Fprint(w, NormalItemStyle.Render("  "+str))
		fmt.Fprint(w, "\n  "+lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(seats)+gap)
	}
}

// ChamberPickerModel lists the chambers with the ruling group's standing in
// each. The primary chamber is listed first and preselected.
type ChamberPickerModel struct {
	list list.Model
	err  error
}

// NewChamberPickerModel creates a picker over the session's catalog.
func NewChamberPickerModel(session *simulator.Session) ChamberPickerModel {
	chambers := session.Catalog().Chambers
	items := make([]list.Item, 0, len(chambers))
	for _, ch := range chambers {
		items = append(items, newChamberItem(session, ch))
	}

	l := list.New(items, chamberDelegate{}, 80, 20)
	l.Title = "Select a Chamber"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle

	return ChamberPickerModel{
		list: l,
	}
}

// Init initializes the model.
func (m ChamberPickerModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update handles messages and updates the model state.
func (m ChamberPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width - 2)
		m.list.SetHeight(msg.Height - 2)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, func() tea.Msg {
				return QuitMsg{}
			}
		case "enter":
			if item, ok := m.list.SelectedItem().(chamberItem); ok {
				return m, func() tea.Msg {
					return ChamberSelectedMsg{Chamber: item.chamber}
				}
			}
		}

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the model.
func (m ChamberPickerModel) View() string {
	view := m.list.View()

	if m.err != nil {
		view += ErrorStyle.Render(fmt.Sprintf("\nError: %v", m.err))
	}

	return view
}
