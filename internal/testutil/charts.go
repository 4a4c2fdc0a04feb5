package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/jyotish-engine/internal/domain/chart"
	"github.com/turtacn/jyotish-engine/internal/domain/zodiac"
)

// FixtureBirth is the birth instant shared by the chart fixtures.
var FixtureBirth = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// NatalBuilder returns an Aries-rising chart with the Moon at 45° (Rohini,
// three eighths elapsed) and Rahu at rahu degrees.  Mars sits in Libra, so
// Rahu in Capricorn is a kendra from the ascendant lord.
func NatalBuilder(rahu float64) *chart.Builder {
	return NatalBuilderAt(FixtureBirth, rahu)
}

// NatalBuilderAt is NatalBuilder for another birth instant or zone.
func NatalBuilderAt(birth time.Time, rahu float64) *chart.Builder {
	return chart.NewBuilder("fixture", birth).
		Ascendant(15).
		Body(zodiac.Sun, 260, 0).
		Body(zodiac.Moon, 45, 0).
		Body(zodiac.Mars, 200, 0).
		Body(zodiac.Mercury, 270, 0).
		Body(zodiac.Jupiter, 100, 0).
		Body(zodiac.Venus, 350, 0).
		Body(zodiac.Saturn, 40, 0).
		Body(zodiac.Rahu, rahu, 0).
		Body(zodiac.Ketu, zodiac.Normalize(rahu+180).Degrees(), 0)
}

// NatalChart builds the chart of NatalBuilder with Rahu in Capricorn.
func NatalChart(t testing.TB) *chart.Chart {
	t.Helper()
	c, err := NatalBuilder(290).Build()
	require.NoError(t, err)
	return c
}

// RahuRisingChart builds the fixture with Rahu in the ascendant, where
// Ashtottari does not apply.
func RahuRisingChart(t testing.TB) *chart.Chart {
	t.Helper()
	c, err := NatalBuilder(20).Build()
	require.NoError(t, err)
	return c
}

// MoonChart builds a minimal chart with an ascendant, the Moon and Mars.
func MoonChart(t testing.TB, name string, asc, moon, mars float64) *chart.Chart {
	t.Helper()
	c, err := chart.NewBuilder(name, FixtureBirth).
		Ascendant(asc).
		Body(zodiac.Moon, moon, 0).
		Body(zodiac.Mars, mars, 0).
		Build()
	require.NoError(t, err)
	return c
}

//Personal.AI order the ending
