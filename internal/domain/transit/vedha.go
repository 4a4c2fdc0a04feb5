// Package transit evaluates current planetary transits (gochara) against the
// natal Moon: favourable houses, obstruction (vedha) by another transiting
// planet and the growth (upachaya) houses.
package transit

import (
	"fmt"

	"github.com/turtacn/jyotish-engine/internal/domain/zodiac"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// rule pairs each favourable house with the house whose occupant obstructs
// it.
type rule struct {
	favourable []int
	vedha      []int
}

var nodeRule = rule{favourable: []int{3, 6, 11}, vedha: []int{12, 9, 5}}

var rules = [zodiac.PlanetCount + 1]*rule{
	nil,
	{favourable: []int{3, 6, 10, 11}, vedha: []int{9, 12, 4, 5}},                                // Sun
	{favourable: []int{1, 3, 6, 7, 10, 11}, vedha: []int{5, 9, 12, 2, 4, 8}},                    // Moon
	{favourable: []int{3, 6, 11}, vedha: []int{12, 9, 5}},                                       // Mars
	{favourable: []int{2, 4, 6, 8, 10, 11}, vedha: []int{5, 3, 9, 1, 8, 12}},                    // Mercury
	{favourable: []int{2, 5, 7, 9, 11}, vedha: []int{12, 4, 3, 10, 8}},                          // Jupiter
	{favourable: []int{1, 2, 3, 4, 5, 8, 9, 11, 12}, vedha: []int{8, 7, 1, 10, 9, 5, 11, 3, 6}}, // Venus
	{favourable: []int{3, 6, 11}, vedha: []int{12, 9, 5}},                                       // Saturn
	&nodeRule, // Rahu
	&nodeRule, // Ketu
}

func ruleFor(p zodiac.Planet) *rule {
	if !p.Valid() || rules[p] == nil {
		panic(fmt.Sprintf("transit: vedha table has no entry for %s", p))
	}
	return rules[p]
}

// exempt lists pairs that never obstruct each other.
var exempt = map[[2]zodiac.Planet]bool{
	{zodiac.Sun, zodiac.Saturn}:   true,
	{zodiac.Saturn, zodiac.Sun}:   true,
	{zodiac.Moon, zodiac.Mercury}: true,
	{zodiac.Mercury, zodiac.Moon}: true,
}

var upachaya = map[int]bool{3: true, 6: true, 10: true, 11: true}

// IsUpachaya reports whether house h is a growth house.
func IsUpachaya(h int) bool { return upachaya[h] }

// Result is the verdict for one transiting planet.
type Result struct {
	Planet zodiac.Planet
	Sign   zodiac.Sign
	// House is counted from the natal Moon sign.
	House      int
	Favourable bool
	// Obstructed is set when a favourable placement is cancelled by a planet
	// in the matching vedha house.
	Obstructed   bool
	ObstructedBy []zodiac.Planet
	Upachaya     bool
}

// Effective reports a favourable placement that is not obstructed.
func (r Result) Effective() bool { return r.Favourable && !r.Obstructed }

// Evaluate judges each transiting planet from the natal Moon sign.  Results
// follow Planet order.
func Evaluate(natalMoon zodiac.Sign, transits map[zodiac.Planet]zodiac.Sign) ([]Result, error) {
	if !natalMoon.Valid() {
		return nil, errors.Newf(errors.ErrCodeInvalidTransit, "invalid natal moon sign %d", uint8(natalMoon))
	}
	houses := make(map[zodiac.Planet]int, len(transits))
	for p, s := range transits {
		if !p.Valid() || !s.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidTransit, "invalid transit placement").
				WithDetail(fmt.Sprintf("planet=%d sign=%d", uint8(p), uint8(s)))
		}
		houses[p] = zodiac.HouseFrom(natalMoon, s)
	}

	var out []Result
	for _, p := range zodiac.Planets {
		h, ok := houses[p]
		if !ok {
			continue
		}
		r := Result{Planet: p, Sign: transits[p], House: h, Upachaya: IsUpachaya(h)}
		rl := ruleFor(p)
		for i, fav := range rl.favourable {
			if fav != h {
				continue
			}
			r.Favourable = true
			r.ObstructedBy = occupants(houses, rl.vedha[i], p)
			r.Obstructed = len(r.ObstructedBy) > 0
			break
		}
		out = append(out, r)
	}
	return out, nil
}

// occupants returns the planets in house h that can obstruct p.
func occupants(houses map[zodiac.Planet]int, h int, p zodiac.Planet) []zodiac.Planet {
	var out []zodiac.Planet
	for _, q := range zodiac.Planets {
		if q == p || exempt[[2]zodiac.Planet{p, q}] {
			continue
		}
		if qh, ok := houses[q]; ok && qh == h {
			out = append(out, q)
		}
	}
	return out
}

//Personal.AI order the ending
