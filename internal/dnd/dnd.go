// Package dnd interprets drag gestures against the assignment store.
//
// The gesture collaborator reports Start, Over and End events. Over only
// records the hovered target for placeholder rendering; End decides between
// a move, a reorder and a no-op.
package dnd

import (
	"github.com/charmbracelet/log"

	"github.com/h0rv/shuhan/internal/domain"
	"github.com/h0rv/shuhan/internal/store"
)

// Origin tells which element a drag started from.
type Origin int

const (
	// OriginSegment is a drag started on a bar segment.
	OriginSegment Origin = iota
	// OriginTooltip is a drag started on a compact segment's tooltip.
	OriginTooltip
)

func (o Origin) String() string {
	if o == OriginTooltip {
		return "tooltip"
	}
	return "segment"
}

// Outcome describes what a drop did.
type Outcome int

const (
	NoOp Outcome = iota
	MovedToFront
	Moved
	Reordered
)

func (o Outcome) String() string {
	switch o {
	case MovedToFront:
		return "moved-to-front"
	case Moved:
		return "moved"
	case Reordered:
		return "reordered"
	}
	return "no-op"
}

// Preview pointer offsets for compact parties, in pixels.
const (
	previewOffsetX = -75.0
	previewOffsetY = -60.0
)

// Compact preview height; larger parties preview at full segment height.
const CompactPreviewHeight = 30.0

// Controller tracks one drag at a time.
type Controller struct {
	store  *store.Store
	logger *log.Logger

	dragging bool
	active   string
	origin   Origin
	over     string
}

// New creates a controller that applies drops to s.
func New(s *store.Store, logger *log.Logger) *Controller {
	return &Controller{store: s, logger: logger}
}

// Start begins dragging partyID from the given origin. A drag already in
// progress is replaced.
func (c *Controller) Start(partyID string, origin Origin) {
	c.dragging = true
	c.active = partyID
	c.origin = origin
	c.over = ""
	c.logger.Debug("drag start", "party", partyID, "origin", origin)
}

// Over records the hovered target: a group id, a party id, or "" for none.
func (c *Controller) Over(target string) {
	if !c.dragging {
		return
	}
	c.over = target
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool { return c.dragging }

// Active returns the dragged party id, or "" when idle.
func (c *Controller) Active() string { return c.active }

// Origin returns the origin of the current drag.
func (c *Controller) Origin() Origin { return c.origin }

// OverTarget returns the hovered target id, or "".
func (c *Controller) OverTarget() string { return c.over }

// PreviewOffset returns the pointer offset of the floating drag preview for a
// drag from origin. Only compact parties are offset; a preview dragged from a
// tooltip stays horizontally on the pointer.
func PreviewOffset(origin Origin, compact bool) (dx, dy float64) {
	if !compact {
		return 0, 0
	}
	if origin == OriginTooltip {
		return 0, previewOffsetY
	}
	return previewOffsetX, previewOffsetY
}

// Cancel abandons the drag without touching the store.
func (c *Controller) Cancel() {
	c.reset()
}

// End drops the active party on target and returns what happened.
func (c *Controller) End(target string) Outcome {
	active := c.active
	wasDragging := c.dragging
	c.reset()

	if !wasDragging || target == "" || target == active {
		return NoOp
	}

	outcome, err := c.resolve(active, target)
	if err != nil {
		c.logger.Debug("drop ignored", "party", active, "target", target, "err", err)
		return NoOp
	}
	c.logger.Debug("drop", "party", active, "target", target, "outcome", outcome)
	return outcome
}

func (c *Controller) resolve(active, target string) (Outcome, error) {
	state := c.store.Snapshot()

	activeGroup, ok := state.GroupOf(active)
	if !ok {
		return NoOp, store.ErrPartyNotFound
	}

	if overGroup, _, ok := state.Group(domain.GroupID(target)); ok {
		if overGroup.ID == activeGroup.ID {
			oldIndex := activeGroup.IndexOf(active)
			return MovedToFront, c.store.ReorderPartiesInGroup(activeGroup.ID, store.MoveWithin(activeGroup.PartyIDs, oldIndex, 0))
		}
		return Moved, c.store.MovePartyToGroup(active, activeGroup.ID, overGroup.ID, 0)
	}

	overGroup, ok := state.GroupOf(target)
	if !ok {
		return NoOp, store.ErrPartyNotFound
	}

	if overGroup.ID == activeGroup.ID {
		oldIndex := activeGroup.IndexOf(active)
		newIndex := activeGroup.IndexOf(target)
		return Reordered, c.store.ReorderPartiesInGroup(activeGroup.ID, store.MoveWithin(activeGroup.PartyIDs, oldIndex, newIndex))
	}
	return Moved, c.store.MovePartyToGroup(active, activeGroup.ID, overGroup.ID, overGroup.IndexOf(target))
}

func (c *Controller) reset() {
	c.dragging = false
	c.active = ""
	c.over = ""
}
