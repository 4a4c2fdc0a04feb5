package matchmaking

import (
	"fmt"

	"github.com/turtacn/jyotish-engine/internal/domain/chart"
	"github.com/turtacn/jyotish-engine/internal/domain/zodiac"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// Severity grades Mars affliction, mildest first.
type Severity uint8

const (
	NoSeverity Severity = iota
	SeverityNone
	SeverityMild
	SeverityModerate
	SeveritySevere
)

func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "None"
	case SeverityMild:
		return "Mild"
	case SeverityModerate:
		return "Moderate"
	case SeveritySevere:
		return "Severe"
	}
	return fmt.Sprintf("Severity(%d)", uint8(s))
}

// MarshalText encodes the severity name.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Afflicted reports a severity above None.
func (s Severity) Afflicted() bool { return s > SeverityNone }

// reduce lowers s by n steps, never below None.
func (s Severity) reduce(n int) Severity {
	if int(s)-n < int(SeverityNone) {
		return SeverityNone
	}
	return Severity(int(s) - n)
}

// houseSeverity is the affliction of Mars in each house from a reference.
var houseSeverity = [zodiac.SignCount + 1]Severity{
	NoSeverity,
	SeverityModerate, SeverityMild, SeverityNone, SeverityModerate, // 1-4
	SeverityNone, SeverityNone, SeveritySevere, SeveritySevere, // 5-8
	SeverityNone, SeverityNone, SeverityNone, SeverityMild, // 9-12
}

// HouseSeverity returns the affliction of Mars in house h.
func HouseSeverity(h int) Severity {
	if !zodiac.ValidHouse(h) {
		panic(fmt.Sprintf("matchmaking: manglik table has no entry for house %d", h))
	}
	return houseSeverity[h]
}

// Reference is a point Mars's house is counted from.
type Reference string

const (
	FromAscendant Reference = "Ascendant"
	FromMoon      Reference = "Moon"
	FromVenus     Reference = "Venus"
)


// ReferenceAffliction is Mars's placement counted from one reference.
type ReferenceAffliction struct {
	Reference Reference
	House     int
	Severity  Severity
}

// ManglikAssessment is the affliction verdict for one chart.
type ManglikAssessment struct {
	// MarsHouse is the house recorded on the chart for Mars.
	MarsHouse   int
	MarsSign    zodiac.Sign
	References  []ReferenceAffliction
	RawSeverity Severity
	// Cancellations lists the ids of the rules that fired, in priority
	// order.
	Cancellations     []string
	EffectiveSeverity Severity
}

// ─────────────────────────────────────────────────────────────────────────────
// Cancellation rules
// ─────────────────────────────────────────────────────────────────────────────

// ruleInput is what cancellation rules inspect.
type ruleInput struct {
	chart     *chart.Chart
	mars      zodiac.Longitude
	marsSign  zodiac.Sign
	marsHouse int
}

// CancellationRule lowers a raw severity when its condition holds.
type CancellationRule struct {
	ID          string
	Description string
	applies     func(in ruleInput) bool
	// toNone cancels the affliction entirely; otherwise steps are removed.
	toNone bool
	steps  int
}

const (
	RuleHouseSignException = "house_sign_exception"
	RuleMarsDignity        = "mars_dignity"
	RuleJupiterAspect      = "jupiter_aspect"
	RuleMoonConjunction    = "moon_conjunction"
)

// houseSignExceptions lists the signs in which Mars in a given house from
// the ascendant is not afflicting.
var houseSignExceptions = map[int][]zodiac.Sign{
	1:  {zodiac.Leo, zodiac.Aquarius},
	2:  {zodiac.Gemini, zodiac.Virgo},
	4:  {zodiac.Aries, zodiac.Scorpio},
	7:  {zodiac.Capricorn, zodiac.Cancer},
	8:  {zodiac.Sagittarius, zodiac.Pisces},
	12: {zodiac.Taurus, zodiac.Libra},
}

// jupiterAspects are the houses from Jupiter that it conjoins or aspects.
var jupiterAspects = map[int]bool{1: true, 5: true, 7: true, 9: true}

var ruleRegistry = []CancellationRule{
	{
		ID:          RuleHouseSignException,
		Description: "Mars occupies an exempt sign for its house",
		toNone:      true,
		applies: func(in ruleInput) bool {
			for _, s := range houseSignExceptions[in.marsHouse] {
				if s == in.marsSign {
					return true
				}
			}
			return false
		},
	},
	{
		ID:          RuleMarsDignity,
		Description: "Mars is exalted, in moolatrikona or in its own sign",
		steps:       2,
		applies: func(in ruleInput) bool {
			switch zodiac.ClassifyDignity(zodiac.Mars, in.mars) {
			case zodiac.Exalted, zodiac.MoolatrikonaDignity, zodiac.OwnSign:
				return true
			}
			return false
		},
	},
	{
		ID:          RuleJupiterAspect,
		Description: "Jupiter conjoins or aspects Mars",
		steps:       1,
		applies: func(in ruleInput) bool {
			jup, err := in.chart.Body(zodiac.Jupiter)
			if err != nil {
				return false
			}
			return jupiterAspects[zodiac.HouseFrom(jup.Sign(), in.marsSign)]
		},
	},
	{
		ID:          RuleMoonConjunction,
		Description: "Mars is conjunct the Moon",
		steps:       1,
		applies: func(in ruleInput) bool {
			return in.chart.Moon().Sign() == in.marsSign
		},
	},
}

// DefaultManglikRules returns the ids of every cancellation rule in
// priority order.
func DefaultManglikRules() []string {
	ids := make([]string, len(ruleRegistry))
	for i, r := range ruleRegistry {
		ids[i] = r.ID
	}
	return ids
}

// ManglikAssessor evaluates Mars affliction with a fixed set of
// cancellation rules.
type ManglikAssessor struct {
	rules []CancellationRule
}

// NewManglikAssessor enables the rules named by ids.  Rules always run in
// registry priority order whatever the order of ids.
func NewManglikAssessor(ids []string) (*ManglikAssessor, error) {
	enabled := make(map[string]bool, len(ids))
	for _, id := range ids {
		enabled[id] = true
	}
	a := &ManglikAssessor{}
	for _, r := range ruleRegistry {
		if enabled[r.ID] {
			a.rules = append(a.rules, r)
			delete(enabled, r.ID)
		}
	}
	for _, id := range ids {
		if enabled[id] {
			return nil, errors.New(errors.CodeInvalidParam, "unknown manglik cancellation rule").WithDetail(id)
		}
	}
	return a, nil
}

// DefaultManglikAssessor enables every rule.
func DefaultManglikAssessor() *ManglikAssessor {
	return &ManglikAssessor{rules: append([]CancellationRule(nil), ruleRegistry...)}
}

// Rules returns the enabled rule ids in priority order.
func (a *ManglikAssessor) Rules() []string {
	ids := make([]string, len(a.rules))
	for i, r := range a.rules {
		ids[i] = r.ID
	}
	return ids
}

// Assess computes the raw and effective severity for c.  The raw severity is
// the worst over the ascendant, Moon and Venus; references missing from the
// chart are skipped.  Cancellations never raise the severity.
//
// The ascendant reference uses the house recorded on the chart for Mars,
// which the chart derives by whole sign when none was supplied.  The Moon
// and Venus references count signs.
func (a *ManglikAssessor) Assess(c *chart.Chart) (ManglikAssessment, error) {
	mars, err := c.Body(zodiac.Mars)
	if err != nil {
		return ManglikAssessment{}, err
	}

	out := ManglikAssessment{
		MarsSign:    mars.Sign(),
		MarsHouse:   mars.House,
		RawSeverity: SeverityNone,
	}
	out.addReference(FromAscendant, mars.House)
	out.addReference(FromMoon, zodiac.HouseFrom(c.Moon().Sign(), mars.Sign()))
	if venus, err := c.Body(zodiac.Venus); err == nil {
		out.addReference(FromVenus, zodiac.HouseFrom(venus.Sign(), mars.Sign()))
	}

	out.EffectiveSeverity = out.RawSeverity
	in := ruleInput{chart: c, mars: mars.Longitude, marsSign: mars.Sign(), marsHouse: out.MarsHouse}
	for _, r := range a.rules {
		if !out.EffectiveSeverity.Afflicted() {
			break
		}
		if !r.applies(in) {
			continue
		}
		out.Cancellations = append(out.Cancellations, r.ID)
		if r.toNone {
			out.EffectiveSeverity = SeverityNone
		} else {
			out.EffectiveSeverity = out.EffectiveSeverity.reduce(r.steps)
		}
	}
	return out, nil
}

func (out *ManglikAssessment) addReference(ref Reference, h int) {
	sev := HouseSeverity(h)
	out.References = append(out.References, ReferenceAffliction{Reference: ref, House: h, Severity: sev})
	if sev > out.RawSeverity {
		out.RawSeverity = sev
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Pair decision
// ─────────────────────────────────────────────────────────────────────────────

// Decision is the Manglik verdict for a couple.
type Decision uint8

const (
	NoDecision Decision = iota
	Compatible
	MutuallyCancelled
	MinorImbalance
	Incompatible
)

func (d Decision) String() string {
	switch d {
	case Compatible:
		return "Compatible"
	case MutuallyCancelled:
		return "MutuallyCancelled"
	case MinorImbalance:
		return "MinorImbalance"
	case Incompatible:
		return "Incompatible"
	}
	return fmt.Sprintf("Decision(%d)", uint8(d))
}

// MarshalText encodes the decision name.
func (d Decision) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// PairDecision combines two effective severities.  Affliction on both sides
// cancels out; one-sided affliction is minor when mild.
func PairDecision(a, b Severity) Decision {
	if a == NoSeverity || b == NoSeverity {
		panic("matchmaking: pair decision on unset severity")
	}
	switch {
	case !a.Afflicted() && !b.Afflicted():
		return Compatible
	case a.Afflicted() && b.Afflicted():
		return MutuallyCancelled
	}
	worse := max(a, b)
	if worse == SeverityMild {
		return MinorImbalance
	}
	return Incompatible
}

//Personal.AI order the ending
