// Package querystate encodes the group assignment into the single query
// string value that is the only persisted form of the chart.
//
// The format is "ruling:opposition:others", each segment a comma-joined list
// of party ids in reverse of the in-memory order.
package querystate

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/h0rv/shuhan/internal/domain"
)

// Param is the query parameter that carries the encoded state.
const Param = "g"

// ErrMalformed indicates the encoded value does not have three segments.
var ErrMalformed = errors.New("malformed state")

// Encode serializes groups in slot order. Groups are looked up by identifier,
// so a missing group encodes as an empty segment.
func Encode(groups []domain.Group) string {
	segments := make([]string, len(domain.GroupIDs))
	for i, id := range domain.GroupIDs {
		for _, g := range groups {
			if g.ID != id {
				continue
			}
			ids := slices.Clone(g.PartyIDs)
			slices.Reverse(ids)
			segments[i] = strings.Join(ids, ",")
			break
		}
	}
	return strings.Join(segments, ":")
}

// Decode parses an encoded value into groups in slot order with their
// default names. It rejects values without exactly two colons.
func Decode(value string) ([]domain.Group, error) {
	segments := strings.Split(value, ":")
	if len(segments) != len(domain.GroupIDs) {
		return nil, fmt.Errorf("%w: %d segments", ErrMalformed, len(segments))
	}

	groups := make([]domain.Group, len(domain.GroupIDs))
	for i, id := range domain.GroupIDs {
		ids := []string{}
		for _, part := range strings.Split(segments[i], ",") {
			if part = strings.TrimSpace(part); part != "" {
				ids = append(ids, part)
			}
		}
		slices.Reverse(ids)
		groups[i] = domain.Group{ID: id, Name: domain.GroupName(id), PartyIDs: ids}
	}
	return groups, nil
}
