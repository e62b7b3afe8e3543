// Package banding resolves a placement probability and a few profile fields
// to a salary band using an ordered table of inclusive lower-bound rules.
//
// The first band in declared order whose four thresholds are all met wins.
// Tables are never sorted; the configuration order is authoritative.
package banding

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// DefaultBand is the sentinel returned when no configured band qualifies.
const DefaultBand = "Low"

// Threshold bounds enforced when a table is validated.
const (
	maxProbability = 1.0
	maxCGPA        = 10.0
)

// Band is one tier of the rule table. Zero thresholds never disqualify.
type Band struct {
	Name        string  `json:"name" mapstructure:"name"`
	MinProb     float64 `json:"min_prob" mapstructure:"min_prob"`
	MinCGPA     float64 `json:"min_cgpa" mapstructure:"min_cgpa"`
	MinIQ       int     `json:"min_iq" mapstructure:"min_iq"`
	MinProjects int     `json:"min_projects" mapstructure:"min_projects"`
}

// Criteria holds the candidate values compared against band thresholds.
type Criteria struct {
	Probability float64 `json:"probability"`
	CGPA        float64 `json:"cgpa"`
	IQ          int     `json:"iq"`
	Projects    int     `json:"projects_completed"`
}

// Matches reports whether every threshold of b is met by c.
func (b Band) Matches(c Criteria) bool {
	return c.Probability >= b.MinProb &&
		c.CGPA >= b.MinCGPA &&
		c.IQ >= b.MinIQ &&
		c.Projects >= b.MinProjects
}

// CatchAll reports whether b matches every candidate.
func (b Band) CatchAll() bool {
	return b.MinProb <= 0 && b.MinCGPA <= 0 && b.MinIQ <= 0 && b.MinProjects <= 0
}

// covers reports whether b matches every candidate that other matches.
func (b Band) covers(other Band) bool {
	return b.MinProb <= other.MinProb &&
		b.MinCGPA <= other.MinCGPA &&
		b.MinIQ <= other.MinIQ &&
		b.MinProjects <= other.MinProjects
}

// Resolve scans bands in order and returns the first match. When nothing
// matches it returns DefaultBand and a nil band.
func Resolve(c Criteria, bands []Band) (string, *Band) {
	return ResolveWithDefault(c, bands, DefaultBand)
}

// ResolveWithDefault is Resolve with a caller-chosen sentinel name.
func ResolveWithDefault(c Criteria, bands []Band, fallback string) (string, *Band) {
	for i := range bands {
		if bands[i].Matches(c) {
			matched := bands[i]
			return matched.Name, &matched
		}
	}
	return fallback, nil
}

// Table is an immutable, ordered rule table plus its sentinel name.
type Table struct {
	bands    []Band
	fallback string
}

// NewTable copies bands into a new table. An empty fallback selects DefaultBand.
func NewTable(bands []Band, fallback string) *Table {
	if strings.TrimSpace(fallback) == "" {
		fallback = DefaultBand
	}
	cp := make([]Band, len(bands))
	copy(cp, bands)
	return &Table{bands: cp, fallback: fallback}
}

// Bands returns a copy of the ordered bands.
func (t *Table) Bands() []Band {
	cp := make([]Band, len(t.bands))
	copy(cp, t.bands)
	return cp
}

// Len returns the number of configured bands.
func (t *Table) Len() int { return len(t.bands) }

// Default returns the sentinel band name.
func (t *Table) Default() string { return t.fallback }

// Resolution is the outcome of resolving one candidate against a table.
type Resolution struct {
	Band     string
	Matched  *Band
	Index    int
	Criteria Criteria
}

// Sentinel reports whether no configured band qualified.
func (r Resolution) Sentinel() bool { return r.Matched == nil }

// Resolve runs the ordered first-match scan against the table.
func (t *Table) Resolve(c Criteria) Resolution {
	for i := range t.bands {
		if t.bands[i].Matches(c) {
			matched := t.bands[i]
			return Resolution{Band: matched.Name, Matched: &matched, Index: i, Criteria: c}
		}
	}
	return Resolution{Band: t.fallback, Index: -1, Criteria: c}
}

// Validate checks every band's name and threshold domains. All violations
// are reported together and wrap ErrInvalidBand.
func (t *Table) Validate() error {
	var errs []error
	for i, b := range t.bands {
		if strings.TrimSpace(b.Name) == "" {
			errs = append(errs, fmt.Errorf("bands[%d]: name is required", i))
		}
		if math.IsNaN(b.MinProb) || b.MinProb < 0 || b.MinProb > maxProbability {
			errs = append(errs, fmt.Errorf("bands[%d] %q: min_prob %v outside [0, 1]", i, b.Name, b.MinProb))
		}
		if math.IsNaN(b.MinCGPA) || b.MinCGPA < 0 || b.MinCGPA > maxCGPA {
			errs = append(errs, fmt.Errorf("bands[%d] %q: min_cgpa %v outside [0, 10]", i, b.Name, b.MinCGPA))
		}
		if b.MinIQ < 0 {
			errs = append(errs, fmt.Errorf("bands[%d] %q: min_iq %d is negative", i, b.Name, b.MinIQ))
		}
		if b.MinProjects < 0 {
			errs = append(errs, fmt.Errorf("bands[%d] %q: min_projects %d is negative", i, b.Name, b.MinProjects))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidBand, errors.Join(errs...))
}

// Lint returns non-fatal warnings about the table's ordering.
func (t *Table) Lint() []string {
	var warnings []string
	if len(t.bands) == 0 {
		return append(warnings, fmt.Sprintf("no bands configured; every candidate resolves to %q", t.fallback))
	}

	seen := make(map[string]int, len(t.bands))
	for i, b := range t.bands {
		if j, ok := seen[b.Name]; ok {
			warnings = append(warnings, fmt.Sprintf("band %q declared at positions %d and %d", b.Name, j, i))
		} else {
			seen[b.Name] = i
		}
		for j := 0; j < i; j++ {
			if t.bands[j].covers(b) {
				warnings = append(warnings, fmt.Sprintf("band %q at position %d is unreachable: %q at position %d matches first", b.Name, i, t.bands[j].Name, j))
				break
			}
		}
	}

	last := t.bands[len(t.bands)-1]
	if !last.CatchAll() {
		warnings = append(warnings, fmt.Sprintf("last band %q is not a catch-all; unmatched candidates fall back to %q", last.Name, t.fallback))
		if j, ok := seen[t.fallback]; ok && !t.bands[j].CatchAll() {
			warnings = append(warnings, fmt.Sprintf("fallback %q is also a band with thresholds at position %d", t.fallback, j))
		}
	}
	return warnings
}
