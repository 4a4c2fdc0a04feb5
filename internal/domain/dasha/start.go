package dasha

import (
	"math"

	"github.com/turtacn/jyotish-engine/internal/domain/calendar"
	"github.com/turtacn/jyotish-engine/internal/domain/chart"
	"github.com/turtacn/jyotish-engine/internal/domain/zodiac"
)

// StartPoint locates birth inside a cycle table: the entry running at birth
// and the fraction of it already elapsed, in [0,1).
type StartPoint struct {
	Index    int
	Fraction float64
}

// Start returns the starting point for a natal Moon at moon.
func (d Definition) Start(moon zodiac.Longitude) StartPoint { return d.start(moon) }

// StartFor returns the starting point of system s for chart c.
func StartFor(s System, c *chart.Chart) (StartPoint, error) {
	d, err := Lookup(s)
	if err != nil {
		return StartPoint{}, err
	}
	return d.start(c.Moon().Longitude), nil
}

// Balance splits the starting entry into the part consumed before birth and
// the balance remaining at birth, both in grid milliseconds.  Only this
// split is rounded; every later boundary is exact on the grid.
func Balance(t CycleTable, sp StartPoint) (consumed, balance int64) {
	full := calendar.YearsToMillis(t.Entries[sp.Index].Years)
	consumed = int64(math.Round(float64(full) * sp.Fraction))
	if consumed >= full {
		consumed = full - 1
	}
	if consumed < 0 {
		consumed = 0
	}
	return consumed, full - consumed
}

func vimshottariStart(moon zodiac.Longitude) StartPoint {
	return StartPoint{
		Index:    moon.Nakshatra().Index() % len(vimshottariTable.Entries),
		Fraction: moon.NakshatraFraction(),
	}
}

// yoginiStart maps Ashwini to Bhramari and continues in table order.
func yoginiStart(moon zodiac.Longitude) StartPoint {
	return StartPoint{
		Index:    (moon.Nakshatra().Index() + 3) % len(yoginiTable.Entries),
		Fraction: moon.NakshatraFraction(),
	}
}

// ardraIndex is the zero-based index of Ardra, where the Ashtottari groups
// begin.
const ardraIndex = 5

// ashtottariStart measures elapsed time across the whole nakshatra group of
// the ruling lord rather than the single mansion.
func ashtottariStart(moon zodiac.Longitude) StartPoint {
	pos := moon.Degrees() * zodiac.NakshatraCount / zodiac.FullCircle
	rel := pos - ardraIndex
	if rel < 0 {
		rel += zodiac.NakshatraCount
	}
	cum := 0.0
	for _, g := range ashtottariGroups {
		span := float64(g.count)
		if rel < cum+span {
			return StartPoint{Index: g.entry, Fraction: clampFraction((rel - cum) / span)}
		}
		cum += span
	}
	last := ashtottariGroups[len(ashtottariGroups)-1]
	return StartPoint{Index: last.entry, Fraction: clampFraction(1)}
}

func clampFraction(f float64) float64 {
	if f < 0 || math.IsNaN(f) {
		return 0
	}
	if f >= 1 {
		return math.Nextafter(1, 0)
	}
	return f
}

//Personal.AI order the ending
