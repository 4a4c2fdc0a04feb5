package zodiac

import (
	"fmt"
	"strings"

	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// Sign is one of the twelve sidereal rasis.
type Sign uint8

const (
	NoSign Sign = iota
	Aries
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

// SignCount is the number of signs.
const SignCount = 12

// Signs lists the signs in zodiacal order.
var Signs = [SignCount]Sign{
	Aries, Taurus, Gemini, Cancer, Leo, Virgo,
	Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces,
}

var signNames = [SignCount + 1]string{
	"", "Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// Valid reports whether s is one of the twelve signs.
func (s Sign) Valid() bool { return s >= Aries && s <= Pisces }

// Index returns the zero-based position of s, Aries = 0.
func (s Sign) Index() int {
	mustSign(s, "index")
	return int(s) - 1
}

// SignAt returns the sign at zero-based position i, wrapping modulo 12.
func SignAt(i int) Sign {
	i %= SignCount
	if i < 0 {
		i += SignCount
	}
	return Sign(i + 1)
}

// Add returns the sign n places after s (n may be negative).
func (s Sign) Add(n int) Sign { return SignAt(s.Index() + n) }

// Opposite returns the seventh sign from s.
func (s Sign) Opposite() Sign { return s.Add(6) }

// HouseFrom counts target from ref inclusively, so the same sign is house 1
// and the next sign is house 2.
func HouseFrom(ref, target Sign) int {
	d := (target.Index() - ref.Index()) % SignCount
	if d < 0 {
		d += SignCount
	}
	return d + 1
}

// SignAtHouse returns the sign occupying house h counted from ref.
func SignAtHouse(ref Sign, h int) Sign { return ref.Add(h - 1) }

func (s Sign) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Sign(%d)", uint8(s))
	}
	return signNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Sign) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.Newf(errors.CodeInvalidParam, "cannot marshal sign %d", uint8(s))
	}
	return []byte(signNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Sign) UnmarshalText(text []byte) error {
	v, err := ParseSign(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSign resolves a case-insensitive sign name.
func ParseSign(str string) (Sign, error) {
	name := strings.TrimSpace(str)
	for _, s := range Signs {
		if strings.EqualFold(signNames[s], name) {
			return s, nil
		}
	}
	return NoSign, errors.Newf(errors.CodeInvalidParam, "unknown sign %q", str)
}

// ValidHouse reports whether h is a house number in [1,12].
func ValidHouse(h int) bool { return h >= 1 && h <= SignCount }

func mustSign(s Sign, table string) {
	if !s.Valid() {
		panic(fmt.Sprintf("zodiac: %s lookup with invalid sign %d", table, uint8(s)))
	}
}

//Personal.AI order the ending
