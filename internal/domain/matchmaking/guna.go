// Package matchmaking scores the eight-category (Ashtakoota) compatibility
// of two Moon placements and assesses Mars affliction (Manglik dosha).
package matchmaking

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/turtacn/jyotish-engine/internal/domain/chart"
	"github.com/turtacn/jyotish-engine/internal/domain/zodiac"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// Kind identifies one compatibility category.  Kinds are declared in
// scoring order and carry maxima 1 through 8.
type Kind uint8

const (
	NoKind Kind = iota
	KindVarna
	KindVashya
	KindTara
	KindYoni
	KindGrahaMaitri
	KindGana
	KindBhakoot
	KindNadi
)

// Kinds lists every category in scoring order.
var Kinds = [...]Kind{KindVarna, KindVashya, KindTara, KindYoni, KindGrahaMaitri, KindGana, KindBhakoot, KindNadi}

var kindNames = [...]string{"", "Varna", "Vashya", "Tara", "Yoni", "Graha Maitri", "Gana", "Bhakoot", "Nadi"}

func (k Kind) Valid() bool { return k >= KindVarna && k <= KindNadi }

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Max returns the category's full score, equal to its position.
func (k Kind) Max() decimal.Decimal { return decimal.NewFromInt(int64(k)) }

// Affinity tells whether a category rewards likeness or difference.
type Affinity uint8

const (
	NoAffinity Affinity = iota
	SameIsBest
	DifferenceRequired
)

func (a Affinity) String() string {
	switch a {
	case SameIsBest:
		return "same-is-best"
	case DifferenceRequired:
		return "difference-required"
	}
	return "unset"
}

// Affinity returns how the category treats identical placements.
func (k Kind) Affinity() Affinity {
	if k == KindNadi {
		return DifferenceRequired
	}
	return SameIsBest
}

// Profile is the part of a chart the categories read: the Moon.
type Profile struct {
	Moon         zodiac.Longitude
	Sign         zodiac.Sign
	Nakshatra    zodiac.Nakshatra
	DegreeInSign float64
}

// NewProfile derives a profile from a Moon longitude.
func NewProfile(moon zodiac.Longitude) Profile {
	return Profile{
		Moon:         moon,
		Sign:         moon.Sign(),
		Nakshatra:    moon.Nakshatra(),
		DegreeInSign: moon.DegreeInSign(),
	}
}

// ProfileFromChart derives a profile from c's Moon.
func ProfileFromChart(c *chart.Chart) Profile { return NewProfile(c.Moon().Longitude) }

// Validate rejects zero or inconsistent profiles.
func (p Profile) Validate() error {
	if !p.Sign.Valid() || !p.Nakshatra.Valid() || p.DegreeInSign < 0 || p.DegreeInSign >= zodiac.SignSpan {
		return errors.New(errors.ErrCodeInvalidProfile, "profile is not derived from a Moon longitude").
			WithDetail(fmt.Sprintf("sign=%d nakshatra=%d degree=%v", p.Sign, p.Nakshatra, p.DegreeInSign))
	}
	return nil
}

// GunaCategory is one scored category.
type GunaCategory struct {
	Kind     Kind
	Name     string
	Max      decimal.Decimal
	Obtained decimal.Decimal
	Affinity Affinity
	// IsPositive reports a score of at least half the maximum.
	IsPositive bool
	// Detail describes the inputs, e.g. "Deva/Rakshasa".
	Detail string
}

// ScoreCategory scores category k for the groom and bride profiles.
func ScoreCategory(k Kind, groom, bride Profile) (GunaCategory, error) {
	if !k.Valid() {
		return GunaCategory{}, errors.Newf(errors.CodeInvalidParam, "unknown category %d", uint8(k))
	}
	if err := groom.Validate(); err != nil {
		return GunaCategory{}, err
	}
	if err := bride.Validate(); err != nil {
		return GunaCategory{}, err
	}
	halves, detail := scorers[k](groom, bride)
	obtained := decimal.New(halves*5, -1)
	return GunaCategory{
		Kind:       k,
		Name:       k.String(),
		Max:        k.Max(),
		Obtained:   obtained,
		Affinity:   k.Affinity(),
		IsPositive: obtained.Mul(decimal.NewFromInt(2)).GreaterThanOrEqual(k.Max()),
		Detail:     detail,
	}, nil
}

// scorer returns a category score in half-points.
type scorer func(groom, bride Profile) (int64, string)

var scorers = [...]scorer{
	NoKind:          nil,
	KindVarna:       scoreVarna,
	KindVashya:      scoreVashya,
	KindTara:        scoreTara,
	KindYoni:        scoreYoni,
	KindGrahaMaitri: scoreMaitri,
	KindGana:        scoreGana,
	KindBhakoot:     scoreBhakoot,
	KindNadi:        scoreNadi,
}

func pair(a, b fmt.Stringer) string { return a.String() + "/" + b.String() }

func scoreVarna(g, b Profile) (int64, string) {
	gv, bv := VarnaOf(g.Sign), VarnaOf(b.Sign)
	if gv >= bv {
		return 2, pair(gv, bv)
	}
	return 0, pair(gv, bv)
}

func scoreVashya(g, b Profile) (int64, string) {
	gv, bv := VashyaOf(g.Sign, g.DegreeInSign), VashyaOf(b.Sign, b.DegreeInSign)
	return vashyaHalves[gv][bv], pair(gv, bv)
}

// taraGood counts from one nakshatra to the other and checks the remainder
// of the nine-star cycle.
func taraGood(from, to zodiac.Nakshatra) bool {
	count := (to.Index()-from.Index()+zodiac.NakshatraCount)%zodiac.NakshatraCount + 1
	return !badTara[count%9]
}

func scoreTara(g, b Profile) (int64, string) {
	var halves int64
	if taraGood(g.Nakshatra, b.Nakshatra) {
		halves += 3
	}
	if taraGood(b.Nakshatra, g.Nakshatra) {
		halves += 3
	}
	return halves, pair(g.Nakshatra, b.Nakshatra)
}

func scoreYoni(g, b Profile) (int64, string) {
	gy, by := g.Nakshatra.Yoni(), b.Nakshatra.Yoni()
	return yoniPoints[gy][by] * 2, pair(gy, by)
}

func scoreMaitri(g, b Profile) (int64, string) {
	gl, bl := g.Sign.Lord(), b.Sign.Lord()
	if gl == bl {
		return 10, pair(gl, bl)
	}
	return maitriHalves[zodiac.NaturalRelation(gl, bl)][zodiac.NaturalRelation(bl, gl)], pair(gl, bl)
}

func scoreGana(g, b Profile) (int64, string) {
	gg, bg := g.Nakshatra.Gana(), b.Nakshatra.Gana()
	return ganaPoints[gg][bg] * 2, pair(gg, bg)
}

func scoreBhakoot(g, b Profile) (int64, string) {
	d := zodiac.HouseFrom(g.Sign, b.Sign)
	detail := fmt.Sprintf("%d/%d", d, zodiac.HouseFrom(b.Sign, g.Sign))
	if badBhakoot[d] {
		return 0, detail
	}
	return 14, detail
}

func scoreNadi(g, b Profile) (int64, string) {
	gn, bn := g.Nakshatra.Nadi(), b.Nakshatra.Nadi()
	if gn == bn {
		return 0, pair(gn, bn)
	}
	return 16, pair(gn, bn)
}

//Personal.AI order the ending
