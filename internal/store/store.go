// Package store provides the in-memory assignment state of the seat chart.
// It owns the group -> ordered party list mapping and exposes move, reorder,
// swap and replace operations. Every operation publishes a fresh State and
// never mutates one that was handed out before.
package store

import (
	"errors"
	"fmt"

	"github.com/h0rv/shuhan/internal/domain"
)

var (
	// ErrGroupNotFound indicates a referenced group is not in the state.
	ErrGroupNotFound = errors.New("group not found")
	// ErrPartyNotFound indicates the party is not in the expected group.
	ErrPartyNotFound = errors.New("party not found")
)

// State is an immutable snapshot of the group assignment.
// Callers must treat the slices as read-only.
type State struct {
	Groups []domain.Group
}

// Group returns the group with the given identifier and its slot index.
func (s State) Group(id domain.GroupID) (domain.Group, int, bool) {
	for i, g := range s.Groups {
		if g.ID == id {
			return g, i, true
		}
	}
	return domain.Group{}, -1, false
}

// GroupOf returns the group that currently holds partyID.
func (s State) GroupOf(partyID string) (domain.Group, bool) {
	for _, g := range s.Groups {
		if g.IndexOf(partyID) >= 0 {
			return g, true
		}
	}
	return domain.Group{}, false
}

// clone returns a deep copy safe for mutation before publishing.
func (s State) clone() State {
	groups := make([]domain.Group, len(s.Groups))
	for i, g := range s.Groups {
		groups[i] = g.Clone()
	}
	return State{Groups: groups}
}

// Store manages the current assignment state.
// It is meant to be owned by a single event loop and is not safe for
// concurrent use.
type Store struct {
	state     State
	version   uint64
	listeners []func(State)
}

// New creates a store holding a copy of groups.
func New(groups []domain.Group) *Store {
	s := &Store{}
	s.state = State{Groups: groups}.clone()
	return s
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	return s.state
}

// Version returns a counter incremented on every published change.
func (s *Store) Version() uint64 {
	return s.version
}

// Subscribe registers fn to be called with every newly published state.
func (s *Store) Subscribe(fn func(State)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Store) publish(next State) {
	s.state = next
	s.version++
	for _, fn := range s.listeners {
		fn(next)
	}
}

// MovePartyToGroup removes partyID from the from group and inserts it into the
// to group at index. A negative index appends. The index is clamped to the
// target length. On a missing group or party the state is left unchanged and
// a sentinel error is returned for the caller to log.
func (s *Store) MovePartyToGroup(partyID string, from, to domain.GroupID, index int) error {
	next := s.state.clone()

	_, fromIdx, ok := next.Group(from)
	if !ok {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, from)
	}
	_, toIdx, ok := next.Group(to)
	if !ok {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, to)
	}

	src := &next.Groups[fromIdx]
	pos := src.IndexOf(partyID)
	if pos < 0 {
		return fmt.Errorf("%w: %s in %s", ErrPartyNotFound, partyID, from)
	}
	src.PartyIDs = append(src.PartyIDs[:pos], src.PartyIDs[pos+1:]...)

	dst := &next.Groups[toIdx]
	dst.PartyIDs = insertAt(dst.PartyIDs, index, partyID)

	s.publish(next)
	return nil
}

// Append is the index to pass to MovePartyToGroup to add at the end.
const Append = -1

// ReorderPartiesInGroup replaces the party sequence of a group wholesale.
// The caller guarantees partyIDs is a permutation of the current sequence;
// the store does not re-validate it.
func (s *Store) ReorderPartiesInGroup(id domain.GroupID, partyIDs []string) error {
	next := s.state.clone()
	_, idx, ok := next.Group(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}

	ids := make([]string, len(partyIDs))
	copy(ids, partyIDs)
	next.Groups[idx].PartyIDs = ids

	s.publish(next)
	return nil
}

// SwapRulingAndOpposition exchanges the ruling and opposition group records,
// relabeling each, and exchanges their slots. Afterwards the slot that held
// "ruling" still holds a group identified as "ruling", now carrying the
// former opposition parties, and vice versa.
func (s *Store) SwapRulingAndOpposition() error {
	next := s.state.clone()
	ruling, rIdx, ok := next.Group(domain.GroupRuling)
	if !ok {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, domain.GroupRuling)
	}
	opposition, oIdx, ok := next.Group(domain.GroupOpposition)
	if !ok {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, domain.GroupOpposition)
	}

	ruling.ID, ruling.Name = domain.GroupOpposition, domain.GroupName(domain.GroupOpposition)
	opposition.ID, opposition.Name = domain.GroupRuling, domain.GroupName(domain.GroupRuling)

	next.Groups[rIdx] = opposition
	next.Groups[oIdx] = ruling

	s.publish(next)
	return nil
}

// SetGroups replaces the whole assignment, e.g. after decoding a query string.
func (s *Store) SetGroups(groups []domain.Group) {
	s.publish(State{Groups: groups}.clone())
}

// MoveWithin returns a copy of ids with the element at from moved to to,
// shifting the elements in between.
func MoveWithin(ids []string, from, to int) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	if from < 0 || from >= len(out) || to < 0 || to >= len(out) || from == to {
		return out
	}
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	return insertAt(out, to, item)
}

func insertAt(ids []string, index int, id string) []string {
	if index < 0 || index > len(ids) {
		index = len(ids)
	}
	ids = append(ids, "")
	copy(ids[index+1:], ids[index:])
	ids[index] = id
	return ids
}
