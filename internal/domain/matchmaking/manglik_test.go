package matchmaking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/jyotish-engine/internal/domain/chart"
	"github.com/turtacn/jyotish-engine/internal/domain/zodiac"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

var birth = time.Date(1991, 8, 3, 14, 5, 0, 0, time.UTC)

type placement struct {
	planet zodiac.Planet
	deg    float64
}

func buildChart(t *testing.T, asc float64, bodies ...placement) *chart.Chart {
	t.Helper()
	b := chart.NewBuilder("test", birth).Ascendant(asc)
	for _, p := range bodies {
		b.Body(p.planet, p.deg, 0)
	}
	c, err := b.Build()
	require.NoError(t, err)
	return c
}

func TestAssess(t *testing.T) {
	cases := []struct {
		name          string
		asc           float64
		bodies        []placement
		raw           Severity
		effective     Severity
		cancellations []string
	}{
		{
			name:      "seventh house from ascendant",
			asc:       15,
			bodies:    []placement{{zodiac.Moon, 45}, {zodiac.Venus, 350}, {zodiac.Mars, 200}},
			raw:       SeveritySevere,
			effective: SeveritySevere,
		},
		{
			name:      "tenth house",
			asc:       15,
			bodies:    []placement{{zodiac.Moon, 45}, {zodiac.Venus, 350}, {zodiac.Mars, 280}},
			raw:       SeverityNone,
			effective: SeverityNone,
		},
		{
			name:          "exempt sign",
			asc:           285,
			bodies:        []placement{{zodiac.Moon, 45}, {zodiac.Venus, 350}, {zodiac.Mars, 100}},
			raw:           SeveritySevere,
			effective:     SeverityNone,
			cancellations: []string{RuleHouseSignException},
		},
		{
			name:          "own sign stops after reaching none",
			asc:           15,
			bodies:        []placement{{zodiac.Moon, 45}, {zodiac.Venus, 350}, {zodiac.Mars, 10}},
			raw:           SeverityModerate,
			effective:     SeverityNone,
			cancellations: []string{RuleMarsDignity},
		},
		{
			name:          "jupiter aspect and moon conjunction",
			asc:           15,
			bodies:        []placement{{zodiac.Moon, 210}, {zodiac.Jupiter, 80}, {zodiac.Mars, 200}},
			raw:           SeveritySevere,
			effective:     SeverityMild,
			cancellations: []string{RuleJupiterAspect, RuleMoonConjunction},
		},
	}
	a := DefaultManglikAssessor()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := a.Assess(buildChart(t, tc.asc, tc.bodies...))
			require.NoError(t, err)
			assert.Equal(t, tc.raw, got.RawSeverity)
			assert.Equal(t, tc.effective, got.EffectiveSeverity)
			assert.Equal(t, tc.cancellations, got.Cancellations)
		})
	}
}

func TestAssess_References(t *testing.T) {
	got, err := DefaultManglikAssessor().Assess(buildChart(t, 15,
		placement{zodiac.Moon, 45}, placement{zodiac.Venus, 350}, placement{zodiac.Mars, 200}))
	require.NoError(t, err)
	assert.Equal(t, 7, got.MarsHouse)
	assert.Equal(t, zodiac.Libra, got.MarsSign)
	assert.Equal(t, []ReferenceAffliction{
		{FromAscendant, 7, SeveritySevere},
		{FromMoon, 6, SeverityNone},
		{FromVenus, 8, SeveritySevere},
	}, got.References)
}

func TestAssess_UsesRecordedMarsHouse(t *testing.T) {
	c, err := chart.NewBuilder("test", birth).
		Ascendant(15).
		Body(zodiac.Moon, 45, 0).
		Body(zodiac.Mars, 200, 6).
		Build()
	require.NoError(t, err)

	got, err := DefaultManglikAssessor().Assess(c)
	require.NoError(t, err)
	assert.Equal(t, 6, got.MarsHouse)
	assert.Equal(t, []ReferenceAffliction{
		{FromAscendant, 6, SeverityNone},
		{FromMoon, 6, SeverityNone},
	}, got.References)
	assert.Equal(t, SeverityNone, got.RawSeverity)
}

func TestAssess_WithoutAscendant(t *testing.T) {
	c, err := chart.NewBuilder("test", birth).
		Body(zodiac.Moon, 45, 2).
		Body(zodiac.Mars, 200, 7).
		Build()
	require.NoError(t, err)

	got, err := DefaultManglikAssessor().Assess(c)
	require.NoError(t, err)
	assert.Equal(t, 7, got.MarsHouse)
	assert.Equal(t, SeveritySevere, got.RawSeverity)
}

func TestMarsDignityRule(t *testing.T) {
	var rule CancellationRule
	for _, r := range ruleRegistry {
		if r.ID == RuleMarsDignity {
			rule = r
		}
	}
	require.NotNil(t, rule.applies)

	cases := []struct {
		deg  float64
		want bool
	}{
		{5, true},    // Aries, moolatrikona
		{20, true},   // Aries, own
		{215, true},  // Scorpio, own
		{298, true},  // Capricorn, exalted
		{100, false}, // Cancer, debilitated
		{130, false}, // Leo
		{200, false}, // Libra
	}
	for _, tc := range cases {
		lon, err := zodiac.NewLongitude(tc.deg)
		require.NoError(t, err)
		assert.Equal(t, tc.want, rule.applies(ruleInput{mars: lon, marsSign: lon.Sign()}), "mars at %v", tc.deg)
	}
}

func TestAssess_RuleSelection(t *testing.T) {
	c := buildChart(t, 15, placement{zodiac.Moon, 210}, placement{zodiac.Jupiter, 80}, placement{zodiac.Mars, 200})

	only, err := NewManglikAssessor([]string{RuleMarsDignity})
	require.NoError(t, err)
	got, err := only.Assess(c)
	require.NoError(t, err)
	assert.Empty(t, got.Cancellations)
	assert.Equal(t, SeveritySevere, got.EffectiveSeverity)

	ordered, err := NewManglikAssessor([]string{RuleMoonConjunction, RuleHouseSignException})
	require.NoError(t, err)
	assert.Equal(t, []string{RuleHouseSignException, RuleMoonConjunction}, ordered.Rules())

	_, err = NewManglikAssessor([]string{"retrograde"})
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	assert.Equal(t, DefaultManglikRules(), DefaultManglikAssessor().Rules())
}

func TestAssess_MissingMars(t *testing.T) {
	_, err := DefaultManglikAssessor().Assess(buildChart(t, 15, placement{zodiac.Moon, 45}))
	assert.True(t, errors.IsCode(err, errors.CodeMissingBody))
}

func TestAssess_CancellationNeverRaisesSeverity(t *testing.T) {
	a := DefaultManglikAssessor()
	for mars := 1.0; mars < 360; mars += 23 {
		for moon := 5.0; moon < 360; moon += 41 {
			for jup := 2.0; jup < 360; jup += 67 {
				c := buildChart(t, 77, placement{zodiac.Moon, moon}, placement{zodiac.Mars, mars},
					placement{zodiac.Jupiter, jup}, placement{zodiac.Venus, 300})
				got, err := a.Assess(c)
				require.NoError(t, err)
				require.LessOrEqual(t, got.EffectiveSeverity, got.RawSeverity)
				require.GreaterOrEqual(t, got.EffectiveSeverity, SeverityNone)
			}
		}
	}
}

func TestPairDecision(t *testing.T) {
	cases := []struct {
		a, b Severity
		want Decision
	}{
		{SeverityNone, SeverityNone, Compatible},
		{SeverityMild, SeveritySevere, MutuallyCancelled},
		{SeverityModerate, SeverityModerate, MutuallyCancelled},
		{SeverityMild, SeverityNone, MinorImbalance},
		{SeverityNone, SeverityMild, MinorImbalance},
		{SeverityNone, SeverityModerate, Incompatible},
		{SeveritySevere, SeverityNone, Incompatible},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PairDecision(tc.a, tc.b), "%s/%s", tc.a, tc.b)
	}
	assert.Panics(t, func() { PairDecision(NoSeverity, SeverityNone) })
}

func TestHouseSeverityTable(t *testing.T) {
	for h := 1; h <= 12; h++ {
		assert.NotEqual(t, NoSeverity, HouseSeverity(h), "house %d", h)
	}
	assert.Panics(t, func() { HouseSeverity(0) })
	assert.Panics(t, func() { HouseSeverity(13) })
}

//Personal.AI order the ending
