// Package dasha implements the hierarchical planetary-period engine: cycle
// tables, the proportional subdivision of periods into an arena-backed
// timeline, point-in-time lookup, per-system applicability and junction
// (sandhi) detection.
package dasha

import (
	"fmt"
	"strings"

	"github.com/turtacn/jyotish-engine/internal/domain/chart"
	"github.com/turtacn/jyotish-engine/internal/domain/zodiac"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// System names a fixed-table period system.
type System string

const (
	Vimshottari System = "vimshottari"
	Ashtottari  System = "ashtottari"
	Yogini      System = "yogini"
)

// ParseSystem resolves a case-insensitive system name.
func ParseSystem(s string) (System, error) {
	sys := System(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := definitions[sys]; !ok {
		return "", errors.New(errors.ErrCodeUnknownSystem, "unknown dasha system").WithDetail(s)
	}
	return sys, nil
}

// Systems returns the supported systems in a stable order.
func Systems() []System { return []System{Vimshottari, Ashtottari, Yogini} }

func (s System) String() string { return string(s) }

// ─────────────────────────────────────────────────────────────────────────────
// Cycle tables
// ─────────────────────────────────────────────────────────────────────────────

// Entry is one ruler of a cycle table.
type Entry struct {
	Lord  zodiac.Planet
	Years int64
	// Label is the traditional name of the period where it differs from the
	// lord (Yogini names); empty otherwise.
	Label string
}

// Name returns the label or, when empty, the lord's name.
func (e Entry) Name() string {
	if e.Label != "" {
		return e.Label
	}
	return e.Lord.String()
}

// CycleTable is an ordered sequence of rulers whose lengths sum to Total.
type CycleTable struct {
	Name    string
	Total   int64
	Entries []Entry
}

// Validate checks that the table is non-empty, every entry has a valid lord
// and a positive length, and the lengths sum to Total.
func (t CycleTable) Validate() error {
	if len(t.Entries) == 0 {
		return errors.New(errors.ErrCodeInvalidCycleTable, "cycle table is empty").WithDetail(t.Name)
	}
	if t.Total <= 0 {
		return errors.New(errors.ErrCodeInvalidCycleTable, "cycle total must be positive").
			WithDetail(fmt.Sprintf("table=%s total=%d", t.Name, t.Total))
	}
	var sum int64
	for i, e := range t.Entries {
		if !e.Lord.Valid() {
			return errors.New(errors.ErrCodeInvalidCycleTable, "entry has no lord").
				WithDetail(fmt.Sprintf("table=%s index=%d", t.Name, i))
		}
		if e.Years <= 0 {
			return errors.New(errors.ErrCodeInvalidCycleTable, "entry length must be positive").
				WithDetail(fmt.Sprintf("table=%s lord=%s years=%d", t.Name, e.Lord, e.Years))
		}
		sum += e.Years
	}
	if sum != t.Total {
		return errors.New(errors.ErrCodeInvalidCycleTable, "entry lengths do not sum to total").
			WithDetail(fmt.Sprintf("table=%s sum=%d total=%d", t.Name, sum, t.Total))
	}
	return nil
}

// IndexOf returns the first entry ruled by p.
func (t CycleTable) IndexOf(p zodiac.Planet) (int, bool) {
	for i, e := range t.Entries {
		if e.Lord == p {
			return i, true
		}
	}
	return -1, false
}

var vimshottariTable = CycleTable{
	Name:  "vimshottari",
	Total: 120,
	Entries: []Entry{
		{Lord: zodiac.Ketu, Years: 7},
		{Lord: zodiac.Venus, Years: 20},
		{Lord: zodiac.Sun, Years: 6},
		{Lord: zodiac.Moon, Years: 10},
		{Lord: zodiac.Mars, Years: 7},
		{Lord: zodiac.Rahu, Years: 18},
		{Lord: zodiac.Jupiter, Years: 16},
		{Lord: zodiac.Saturn, Years: 19},
		{Lord: zodiac.Mercury, Years: 17},
	},
}

var ashtottariTable = CycleTable{
	Name:  "ashtottari",
	Total: 108,
	Entries: []Entry{
		{Lord: zodiac.Sun, Years: 6},
		{Lord: zodiac.Moon, Years: 15},
		{Lord: zodiac.Mars, Years: 8},
		{Lord: zodiac.Mercury, Years: 17},
		{Lord: zodiac.Saturn, Years: 10},
		{Lord: zodiac.Jupiter, Years: 19},
		{Lord: zodiac.Rahu, Years: 12},
		{Lord: zodiac.Venus, Years: 21},
	},
}

var yoginiTable = CycleTable{
	Name:  "yogini",
	Total: 36,
	Entries: []Entry{
		{Lord: zodiac.Moon, Years: 1, Label: "Mangala"},
		{Lord: zodiac.Sun, Years: 2, Label: "Pingala"},
		{Lord: zodiac.Jupiter, Years: 3, Label: "Dhanya"},
		{Lord: zodiac.Mars, Years: 4, Label: "Bhramari"},
		{Lord: zodiac.Mercury, Years: 5, Label: "Bhadrika"},
		{Lord: zodiac.Saturn, Years: 6, Label: "Ulka"},
		{Lord: zodiac.Venus, Years: 7, Label: "Siddha"},
		{Lord: zodiac.Rahu, Years: 8, Label: "Sankata"},
	},
}

// ashtottariGroups assigns contiguous nakshatra runs to the Ashtottari
// lords, beginning at Ardra and wrapping past Revati.
var ashtottariGroups = []struct {
	entry int
	count int
}{
	{0, 4}, // Sun: Ardra..Ashlesha
	{1, 3}, // Moon: Magha..Uttara Phalguni
	{2, 4}, // Mars: Hasta..Vishakha
	{3, 3}, // Mercury: Anuradha..Mula
	{4, 3}, // Saturn: Purva Ashadha..Shravana
	{5, 3}, // Jupiter: Dhanishta..Purva Bhadrapada
	{6, 4}, // Rahu: Uttara Bhadrapada..Bharani
	{7, 3}, // Venus: Krittika..Mrigashira
}

// ─────────────────────────────────────────────────────────────────────────────
// Definitions
// ─────────────────────────────────────────────────────────────────────────────

// Definition bundles a system's table, its starting-point rule and its
// applicability rule.
type Definition struct {
	System     System
	Table      CycleTable
	start      func(moon zodiac.Longitude) StartPoint
	applicable func(c *chart.Chart) (Applicability, error)
}

var definitions = map[System]Definition{
	Vimshottari: {System: Vimshottari, Table: vimshottariTable, start: vimshottariStart, applicable: always},
	Ashtottari:  {System: Ashtottari, Table: ashtottariTable, start: ashtottariStart, applicable: ashtottariApplicable},
	Yogini:      {System: Yogini, Table: yoginiTable, start: yoginiStart, applicable: always},
}

// Lookup returns the definition of s.
func Lookup(s System) (Definition, error) {
	d, ok := definitions[s]
	if !ok {
		return Definition{}, errors.New(errors.ErrCodeUnknownSystem, "unknown dasha system").WithDetail(string(s))
	}
	return d, nil
}

// TableFor returns a copy of the cycle table of s.
func TableFor(s System) (CycleTable, error) {
	d, err := Lookup(s)
	if err != nil {
		return CycleTable{}, err
	}
	t := d.Table
	t.Entries = append([]Entry(nil), t.Entries...)
	return t, nil
}

//Personal.AI order the ending
