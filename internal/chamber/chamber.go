// Package chamber loads the static party and seat reference data.
// The data ships as an embedded TOML document and can be replaced by a file
// with the same shape.
package chamber

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/h0rv/shuhan/internal/domain"
)

var (
	// ErrUnknownChamber indicates the requested chamber is not in the catalog.
	ErrUnknownChamber = errors.New("unknown chamber")
	// ErrInvalidData indicates the reference data violates a catalog invariant.
	ErrInvalidData = errors.New("invalid chamber data")
)

//go:embed data/chambers.toml
var embedded []byte

// Catalog holds every chamber plus the default group assignment.
// The first chamber is the primary one; the default assignment covers its parties.
type Catalog struct {
	Chambers []*domain.Chamber
	Default  []domain.Group
}

type fileSchema struct {
	Groups []struct {
		ID      string   `toml:"id"`
		Parties []string `toml:"parties"`
	} `toml:"groups"`
	Chambers []struct {
		ID       string `toml:"id"`
		Name     string `toml:"name"`
		Total    int    `toml:"total"`
		Majority int    `toml:"majority"`
		Parties  []struct {
			ID        string `toml:"id"`
			Name      string `toml:"name"`
			ShortName string `toml:"short_name"`
			Seats     int    `toml:"seats"`
			Color     string `toml:"color"`
		} `toml:"parties"`
	} `toml:"chambers"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(embedded)
}

// LoadFile reads a catalog from a TOML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chamber data: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a TOML catalog.
func Parse(data []byte) (*Catalog, error) {
	var raw fileSchema
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode chamber data: %w", err)
	}

	cat := &Catalog{}
	for _, rc := range raw.Chambers {
		ch := &domain.Chamber{
			ID:       rc.ID,
			Name:     rc.Name,
			Total:    rc.Total,
			Majority: rc.Majority,
			Parties:  make([]domain.Party, 0, len(rc.Parties)),
		}
		for _, rp := range rc.Parties {
			ch.Parties = append(ch.Parties, domain.Party{
				ID:        rp.ID,
				Name:      rp.Name,
				ShortName: rp.ShortName,
				Seats:     rp.Seats,
				Color:     rp.Color,
			})
		}
		cat.Chambers = append(cat.Chambers, ch)
	}
	for _, rg := range raw.Groups {
		id := domain.GroupID(rg.ID)
		ids := make([]string, len(rg.Parties))
		copy(ids, rg.Parties)
		cat.Default = append(cat.Default, domain.Group{ID: id, Name: domain.GroupName(id), PartyIDs: ids})
	}

	if err := cat.validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Primary returns the chamber the stacked chart is drawn for.
func (c *Catalog) Primary() *domain.Chamber {
	return c.Chambers[0]
}

// Chamber returns the chamber with the given identifier.
func (c *Catalog) Chamber(id string) (*domain.Chamber, error) {
	for _, ch := range c.Chambers {
		if ch.ID == id {
			return ch, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownChamber, id)
}

// DefaultGroups returns a deep copy of the default assignment.
func (c *Catalog) DefaultGroups() []domain.Group {
	groups := make([]domain.Group, len(c.Default))
	for i, g := range c.Default {
		groups[i] = g.Clone()
	}
	return groups
}

func (c *Catalog) validate() error {
	if len(c.Chambers) == 0 {
		return fmt.Errorf("%w: no chambers", ErrInvalidData)
	}
	for _, ch := range c.Chambers {
		if ch.Total <= 0 || ch.Majority <= 0 || ch.Majority > ch.Total {
			return fmt.Errorf("%w: chamber %q has total %d and majority %d", ErrInvalidData, ch.ID, ch.Total, ch.Majority)
		}
		seen := make(map[string]bool, len(ch.Parties))
		for _, p := range ch.Parties {
			if p.ID == "" || seen[p.ID] {
				return fmt.Errorf("%w: chamber %q has a missing or duplicate party id %q", ErrInvalidData, ch.ID, p.ID)
			}
			if p.Seats < 0 {
				return fmt.Errorf("%w: party %q has negative seats", ErrInvalidData, p.ID)
			}
			seen[p.ID] = true
		}
	}

	if len(c.Default) != len(domain.GroupIDs) {
		return fmt.Errorf("%w: expected %d groups, got %d", ErrInvalidData, len(domain.GroupIDs), len(c.Default))
	}
	for i, g := range c.Default {
		if g.ID != domain.GroupIDs[i] {
			return fmt.Errorf("%w: group %d is %q, want %q", ErrInvalidData, i, g.ID, domain.GroupIDs[i])
		}
	}
	if err := CheckAssignment(c.Primary(), c.Default); err != nil {
		return fmt.Errorf("%w: default assignment: %v", ErrInvalidData, err)
	}

	// Other chambers are drawn from the primary assignment.
	assigned := make(map[string]bool)
	for _, g := range c.Default {
		for _, id := range g.PartyIDs {
			assigned[id] = true
		}
	}
	for _, ch := range c.Chambers[1:] {
		for _, p := range ch.Parties {
			if !assigned[p.ID] {
				return fmt.Errorf("%w: party %q of chamber %q is not in the default assignment", ErrInvalidData, p.ID, ch.ID)
			}
		}
	}
	return nil
}

// CheckAssignment verifies that groups assign every party of ch exactly once
// and mention no other party.
func CheckAssignment(ch *domain.Chamber, groups []domain.Group) error {
	seen := make(map[string]domain.GroupID)
	for _, g := range groups {
		for _, id := range g.PartyIDs {
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("party %q assigned to both %s and %s", id, prev, g.ID)
			}
			if _, ok := ch.PartyByID(id); !ok {
				return fmt.Errorf("party %q is not in chamber %q", id, ch.ID)
			}
			seen[id] = g.ID
		}
	}
	for _, p := range ch.Parties {
		if _, ok := seen[p.ID]; !ok {
			return fmt.Errorf("party %q is not assigned", p.ID)
		}
	}
	return nil
}
