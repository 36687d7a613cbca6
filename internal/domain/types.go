// Package domain defines the normalized domain types for the seat chart.
// These types are plain data shared by the store, the layout engines and the
// presentation layers.
package domain

// GroupID identifies one of the three fixed groups of the chart.
type GroupID string

// Group identifiers. Slot order in a State is always ruling, opposition, others.
const (
	GroupRuling     GroupID = "ruling"
	GroupOpposition GroupID = "opposition"
	GroupOthers     GroupID = "others"
)

// GroupIDs lists the group identifiers in slot order.
var GroupIDs = []GroupID{GroupRuling, GroupOpposition, GroupOthers}

// Default display names per group.
var groupNames = map[GroupID]string{
	GroupRuling:     "与党",
	GroupOpposition: "野党",
	GroupOthers:     "その他",
}

// GroupName returns the display name for a group identifier, or the identifier
// itself for an unknown one.
func GroupName(id GroupID) string {
	if name, ok := groupNames[id]; ok {
		return name
	}
	return string(id)
}

// IsGroupID reports whether s names one of the fixed groups.
func IsGroupID(s string) bool {
	_, ok := groupNames[GroupID(s)]
	return ok
}

// Party is immutable reference data for one political party.
type Party struct {
	ID        string // Stable identifier (e.g., "ldp")
	Name      string // Full display name
	ShortName string // Short display name used on segments and tooltips
	Seats     int    // Seat count, never negative
	Color     string // Display color token, "#RRGGBB"
}

// Group is one column of the chart: an ordered list of party identifiers.
// Order is top-to-bottom reading order.
type Group struct {
	ID       GroupID
	Name     string
	PartyIDs []string
}

// Clone returns a deep copy of g.
func (g Group) Clone() Group {
	ids := make([]string, len(g.PartyIDs))
	copy(ids, g.PartyIDs)
	return Group{ID: g.ID, Name: g.Name, PartyIDs: ids}
}

// IndexOf returns the position of partyID in the group, or -1.
func (g Group) IndexOf(partyID string) int {
	for i, id := range g.PartyIDs {
		if id == partyID {
			return i
		}
	}
	return -1
}

// Chamber is the reference data for one legislative chamber.
type Chamber struct {
	ID       string  // "house" or "councillors"
	Name     string  // Display name (e.g., "衆議院")
	Total    int     // Total seats in the chamber
	Majority int     // Seats needed for a majority
	Parties  []Party // Parties in display order
}

// PartyByID returns the party with the given identifier.
func (c *Chamber) PartyByID(id string) (Party, bool) {
	for _, p := range c.Parties {
		if p.ID == id {
			return p, true
		}
	}
	return Party{}, false
}

// PartyIDs returns every party identifier of the chamber in display order.
func (c *Chamber) PartyIDs() []string {
	ids := make([]string, len(c.Parties))
	for i, p := range c.Parties {
		ids[i] = p.ID
	}
	return ids
}
