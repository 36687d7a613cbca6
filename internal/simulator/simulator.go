// Package simulator ties the assignment store, the drag controller and the
// swap machine into one session. Each presentation layer owns one Session
// and forwards its input events to it.
package simulator

import (
	"github.com/charmbracelet/log"

	"github.com/h0rv/shuhan/internal/chamber"
	"github.com/h0rv/shuhan/internal/chart"
	"github.com/h0rv/shuhan/internal/dnd"
	"github.com/h0rv/shuhan/internal/domain"
	"github.com/h0rv/shuhan/internal/layout"
	"github.com/h0rv/shuhan/internal/querystate"
	"github.com/h0rv/shuhan/internal/store"
	"github.com/h0rv/shuhan/internal/swap"
)

// Session is one interactive chart. It is not safe for concurrent use.
type Session struct {
	catalog *chamber.Catalog
	params  layout.Params
	logger  *log.Logger

	store   *store.Store
	drag    *dnd.Controller
	machine *swap.Machine
}

// New creates a session starting from groups.
func New(cat *chamber.Catalog, groups []domain.Group, logger *log.Logger) *Session {
	s := &Session{
		catalog: cat,
		params:  layout.DefaultParams(),
		logger:  logger,
		store:   store.New(groups),
	}
	s.drag = dnd.New(s.store, logger)
	s.machine = swap.New(s.store, logger)
	s.store.Subscribe(s.observe)
	s.observe(s.store.Snapshot())
	return s
}

// FromQuery creates a session from an encoded assignment. Malformed input or
// an assignment that does not cover the primary chamber falls back to the
// default configuration.
func FromQuery(cat *chamber.Catalog, value string, logger *log.Logger) *Session {
	return New(cat, LoadGroups(cat, value, logger), logger)
}

// LoadGroups decodes value, or returns the default assignment when value is
// empty or invalid.
func LoadGroups(cat *chamber.Catalog, value string, logger *log.Logger) []domain.Group {
	if value == "" {
		return cat.DefaultGroups()
	}
	groups, err := querystate.Decode(value)
	if err != nil {
		logger.Debug("using default assignment", "query", value, "err", err)
		return cat.DefaultGroups()
	}
	if err := chamber.CheckAssignment(cat.Primary(), groups); err != nil {
		logger.Debug("using default assignment", "query", value, "err", err)
		return cat.DefaultGroups()
	}
	return groups
}

func (s *Session) observe(state store.State) {
	ruling, opposition := chart.Totals(state, s.catalog.Primary())
	s.machine.Observe(ruling, opposition)
}

// Store returns the underlying assignment store.
func (s *Session) Store() *store.Store { return s.store }

// Catalog returns the reference data of the session.
func (s *Session) Catalog() *chamber.Catalog { return s.catalog }

// Params returns the layout geometry.
func (s *Session) Params() layout.Params { return s.params }

// State returns the current assignment.
func (s *Session) State() store.State { return s.store.Snapshot() }

// Swap returns the current swap phase.
func (s *Session) Swap() swap.State { return s.machine.State() }

// StartDrag begins dragging partyID.
func (s *Session) StartDrag(partyID string, origin dnd.Origin) {
	s.drag.Start(partyID, origin)
}

// DragOver records the hovered target.
func (s *Session) DragOver(target string) {
	s.drag.Over(target)
}

// EndDrag drops the dragged party on target.
func (s *Session) EndDrag(target string) dnd.Outcome {
	return s.drag.End(target)
}

// CancelDrag abandons the drag.
func (s *Session) CancelDrag() {
	s.drag.Cancel()
}

// Dragging reports whether a drag is in progress.
func (s *Session) Dragging() bool { return s.drag.Dragging() }

// ActiveParty returns the dragged party id.
func (s *Session) ActiveParty() string { return s.drag.Active() }

// OverTarget returns the hovered target id.
func (s *Session) OverTarget() string { return s.drag.OverTarget() }

// TransitionEnd forwards a column transition completion.
func (s *Session) TransitionEnd() {
	s.machine.TransitionEnd()
}

// Frame advances the deferred swap commit. Once the machine is idle again the
// current totals are observed so a still-trailing ruling group re-triggers.
func (s *Session) Frame() bool {
	changed := s.machine.Frame()
	if changed && s.machine.State() == swap.Idle {
		s.observe(s.store.Snapshot())
	}
	return changed
}

// Settle runs a pending swap to completion without animating it, for
// presentations that render a single still frame.
func (s *Session) Settle() {
	if s.machine.State() != swap.Animating {
		return
	}
	for i := 0; i < swap.Columns; i++ {
		s.machine.TransitionEnd()
	}
	for s.machine.Pending() {
		s.Frame()
	}
}

// FramePending reports whether Frame has work to do.
func (s *Session) FramePending() bool { return s.machine.Pending() }

// Encode returns the query-string value for the current assignment.
func (s *Session) Encode() string {
	return querystate.Encode(s.store.Snapshot().Groups)
}

// Reset restores the default assignment.
func (s *Session) Reset() {
	s.drag.Cancel()
	s.store.SetGroups(s.catalog.DefaultGroups())
}

// View builds the render model for the given chamber.
func (s *Session) View(ch *domain.Chamber) chart.View {
	return s.ViewWith(ch, s.params)
}

// ViewWith builds the render model with custom geometry, e.g. terminal rows
// instead of pixels.
func (s *Session) ViewWith(ch *domain.Chamber, p layout.Params) chart.View {
	return chart.Build(s.store.Snapshot(), ch, chart.Input{
		Drag: chart.DragView{
			Active: s.drag.Active(),
			Over:   s.drag.OverTarget(),
			Origin: s.drag.Origin(),
		},
		Swap: chart.SwapView{
			State:       s.machine.State(),
			Offset:      s.machine.OffsetApplies(),
			Transitions: s.machine.TransitionsEnabled(),
		},
	}, p)
}

// PrimaryView builds the render model for the primary chamber.
func (s *Session) PrimaryView() chart.View {
	return s.View(s.catalog.Primary())
}
