// Package swap drives the ruling/opposition cross-over. When the opposition
// overtakes the ruling group the columns animate first, and the underlying
// data is exchanged only after both column transitions have finished.
package swap

import (
	"github.com/charmbracelet/log"
)

// State is the visual phase of the swap.
type State int

const (
	Idle State = iota
	Animating
	Swapped
)

func (s State) String() string {
	switch s {
	case Animating:
		return "animating"
	case Swapped:
		return "swapped"
	}
	return "idle"
}

// Columns is the number of animated columns that must report completion.
const Columns = 2

// Swapper performs the data exchange once the animation is over.
type Swapper interface {
	SwapRulingAndOpposition() error
}

// Machine is the swap state machine. It is driven by three inputs: Observe
// after each totals recomputation, TransitionEnd from the presentation layer,
// and Frame at every rendering opportunity.
type Machine struct {
	swapper Swapper
	logger  *log.Logger

	state       State
	completions int
	dataSwapped bool
	frames      int
}

// New creates an idle machine that commits through swapper.
func New(swapper Swapper, logger *log.Logger) *Machine {
	return &Machine{swapper: swapper, logger: logger}
}

// State returns the current phase.
func (m *Machine) State() State { return m.state }

// Completions returns the number of transition-end signals seen while animating.
func (m *Machine) Completions() int { return m.completions }

// DataSwapped reports whether the store swap already ran in this cycle.
func (m *Machine) DataSwapped() bool { return m.dataSwapped }

// Observe feeds freshly computed totals. It starts the animation and returns
// true when the opposition overtakes the ruling group while idle.
func (m *Machine) Observe(ruling, opposition int) bool {
	if m.state != Idle || opposition <= ruling {
		return false
	}
	m.state = Animating
	m.completions = 0
	m.dataSwapped = false
	m.frames = 0
	m.logger.Debug("swap animating", "ruling", ruling, "opposition", opposition)
	return true
}

// TransitionEnd records one finished column transition. The second one moves
// the machine to Swapped.
func (m *Machine) TransitionEnd() {
	if m.state != Animating {
		return
	}
	m.completions++
	if m.completions >= Columns {
		m.state = Swapped
		m.frames = 0
		m.logger.Debug("swap transitions done")
	}
}

// Frame is called at every rendering opportunity. While swapped, the first
// frame commits the data swap and the second returns to Idle. It reports
// whether anything changed.
func (m *Machine) Frame() bool {
	if m.state != Swapped {
		return false
	}
	m.frames++
	if m.frames == 1 {
		if err := m.swapper.SwapRulingAndOpposition(); err != nil {
			m.logger.Debug("swap commit skipped", "err", err)
		}
		m.dataSwapped = true
		return true
	}
	m.state = Idle
	m.frames = 0
	m.logger.Debug("swap idle")
	return true
}

// Pending reports whether Frame still has work to do.
func (m *Machine) Pending() bool { return m.state == Swapped }

// OffsetApplies reports whether the ruling and opposition columns should be
// drawn displaced toward each other's position.
func (m *Machine) OffsetApplies() bool {
	return (m.state == Animating || m.state == Swapped) && !m.dataSwapped
}

// TransitionsEnabled reports whether column movement should animate. While
// swapped, the columns jump so the data exchange is not animated back.
func (m *Machine) TransitionsEnabled() bool {
	return m.state != Swapped
}
