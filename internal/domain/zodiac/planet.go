// Package zodiac holds the sidereal classification primitives shared by every
// calculator: planets, signs, nakshatras, longitudes and the static rule
// tables keyed by them.
//
// All enumerations reserve their zero value as "unset".  Tables are
// fixed-size arrays indexed by the enumeration; reading an unset entry or an
// out-of-domain value panics because it means a table is incomplete, which is
// a programming error rather than bad input.
package zodiac

import (
	"fmt"
	"strings"

	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// Planet identifies one of the nine grahas.
type Planet uint8

const (
	NoPlanet Planet = iota
	Sun
	Moon
	Mars
	Mercury
	Jupiter
	Venus
	Saturn
	Rahu
	Ketu
)

// PlanetCount is the number of grahas.
const PlanetCount = 9

// Planets lists the grahas in weekday order followed by the nodes.
var Planets = [PlanetCount]Planet{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn, Rahu, Ketu}

var planetNames = [PlanetCount + 1]string{
	"", "Sun", "Moon", "Mars", "Mercury", "Jupiter", "Venus", "Saturn", "Rahu", "Ketu",
}

// Valid reports whether p is one of the nine grahas.
func (p Planet) Valid() bool { return p >= Sun && p <= Ketu }

// IsNode reports whether p is Rahu or Ketu.
func (p Planet) IsNode() bool { return p == Rahu || p == Ketu }

func (p Planet) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Planet(%d)", uint8(p))
	}
	return planetNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Planet) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, errors.Newf(errors.CodeInvalidParam, "cannot marshal planet %d", uint8(p))
	}
	return []byte(planetNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Planet) UnmarshalText(text []byte) error {
	v, err := ParsePlanet(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePlanet resolves a case-insensitive planet name.
func ParsePlanet(s string) (Planet, error) {
	name := strings.TrimSpace(s)
	for _, p := range Planets {
		if strings.EqualFold(planetNames[p], name) {
			return p, nil
		}
	}
	return NoPlanet, errors.Newf(errors.CodeInvalidParam, "unknown planet %q", s)
}

func mustPlanet(p Planet, table string) {
	if !p.Valid() {
		panic(fmt.Sprintf("zodiac: %s lookup with invalid planet %d", table, uint8(p)))
	}
}

//Personal.AI order the ending
