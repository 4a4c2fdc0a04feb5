package zodiac

import (
	"fmt"
	"strings"

	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// Nakshatra is one of the 27 lunar mansions of 13°20′ each.
type Nakshatra uint8

const (
	NoNakshatra Nakshatra = iota
	Ashwini
	Bharani
	Krittika
	Rohini
	Mrigashira
	Ardra
	Punarvasu
	Pushya
	Ashlesha
	Magha
	PurvaPhalguni
	UttaraPhalguni
	Hasta
	Chitra
	Swati
	Vishakha
	Anuradha
	Jyeshtha
	Mula
	PurvaAshadha
	UttaraAshadha
	Shravana
	Dhanishta
	Shatabhisha
	PurvaBhadrapada
	UttaraBhadrapada
	Revati
)

// NakshatraCount is the number of nakshatras.
const NakshatraCount = 27

var nakshatraNames = [NakshatraCount + 1]string{
	"", "Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni",
	"Uttara Phalguni", "Hasta", "Chitra", "Swati", "Vishakha", "Anuradha",
	"Jyeshtha", "Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana",
	"Dhanishta", "Shatabhisha", "Purva Bhadrapada", "Uttara Bhadrapada",
	"Revati",
}

// Valid reports whether n is one of the 27 nakshatras.
func (n Nakshatra) Valid() bool { return n >= Ashwini && n <= Revati }

// Index returns the zero-based position of n, Ashwini = 0.
func (n Nakshatra) Index() int {
	mustNakshatra(n, "index")
	return int(n) - 1
}

// NakshatraAt returns the nakshatra at zero-based position i, wrapping
// modulo 27.
func NakshatraAt(i int) Nakshatra {
	i %= NakshatraCount
	if i < 0 {
		i += NakshatraCount
	}
	return Nakshatra(i + 1)
}

// Add returns the nakshatra k places after n.
func (n Nakshatra) Add(k int) Nakshatra { return NakshatraAt(n.Index() + k) }

// StartDegree returns the longitude at which n begins.
func (n Nakshatra) StartDegree() float64 {
	return float64(n.Index()) * NakshatraSpan
}

func (n Nakshatra) String() string {
	if !n.Valid() {
		return fmt.Sprintf("Nakshatra(%d)", uint8(n))
	}
	return nakshatraNames[n]
}

// ParseNakshatra resolves a nakshatra name, ignoring case and spaces.
func ParseNakshatra(s string) (Nakshatra, error) {
	norm := func(v string) string { return strings.ToLower(strings.ReplaceAll(v, " ", "")) }
	want := norm(s)
	for i := 1; i <= NakshatraCount; i++ {
		if norm(nakshatraNames[i]) == want {
			return Nakshatra(i), nil
		}
	}
	return NoNakshatra, errors.Newf(errors.CodeInvalidParam, "unknown nakshatra %q", s)
}

// ─────────────────────────────────────────────────────────────────────────────
// Nakshatra attributes
// ─────────────────────────────────────────────────────────────────────────────

// Yoni is the animal symbol of a nakshatra.
type Yoni uint8

const (
	NoYoni Yoni = iota
	Horse
	Elephant
	Sheep
	Serpent
	Dog
	Cat
	Rat
	Cow
	Buffalo
	Tiger
	Deer
	Monkey
	Mongoose
	Lion
)

// YoniCount is the number of yoni animals.
const YoniCount = 14

var yoniNames = [YoniCount + 1]string{
	"", "Horse", "Elephant", "Sheep", "Serpent", "Dog", "Cat", "Rat",
	"Cow", "Buffalo", "Tiger", "Deer", "Monkey", "Mongoose", "Lion",
}

func (y Yoni) Valid() bool { return y >= Horse && y <= Lion }

func (y Yoni) String() string {
	if !y.Valid() {
		return fmt.Sprintf("Yoni(%d)", uint8(y))
	}
	return yoniNames[y]
}

// Gana is the temperament class of a nakshatra.
type Gana uint8

const (
	NoGana Gana = iota
	Deva
	Manushya
	Rakshasa
)

func (g Gana) Valid() bool { return g >= Deva && g <= Rakshasa }

func (g Gana) String() string {
	switch g {
	case Deva:
		return "Deva"
	case Manushya:
		return "Manushya"
	case Rakshasa:
		return "Rakshasa"
	}
	return fmt.Sprintf("Gana(%d)", uint8(g))
}

// Nadi is the constitution class of a nakshatra.
type Nadi uint8

const (
	NoNadi Nadi = iota
	Adi
	Madhya
	Antya
)

func (n Nadi) Valid() bool { return n >= Adi && n <= Antya }

func (n Nadi) String() string {
	switch n {
	case Adi:
		return "Adi"
	case Madhya:
		return "Madhya"
	case Antya:
		return "Antya"
	}
	return fmt.Sprintf("Nadi(%d)", uint8(n))
}

// vimshottariLords is the nine-lord sequence repeated three times across the
// nakshatras, starting with Ketu at Ashwini.
var vimshottariLords = [9]Planet{Ketu, Venus, Sun, Moon, Mars, Rahu, Jupiter, Saturn, Mercury}

var nakshatraYoni = [NakshatraCount + 1]Yoni{
	NoYoni,
	Horse, Elephant, Sheep, Serpent, Serpent, Dog, Cat, Sheep, Cat,
	Rat, Rat, Cow, Buffalo, Tiger, Buffalo, Tiger, Deer, Deer,
	Dog, Monkey, Mongoose, Monkey, Lion, Horse, Lion, Cow, Elephant,
}

var nakshatraGana = [NakshatraCount + 1]Gana{
	NoGana,
	Deva, Manushya, Rakshasa, Manushya, Deva, Manushya, Deva, Deva, Rakshasa,
	Rakshasa, Manushya, Manushya, Deva, Rakshasa, Deva, Rakshasa, Deva, Rakshasa,
	Rakshasa, Manushya, Manushya, Deva, Rakshasa, Rakshasa, Manushya, Manushya, Deva,
}

// nadiPattern repeats every six nakshatras.
var nadiPattern = [6]Nadi{Adi, Madhya, Antya, Antya, Madhya, Adi}

// Lord returns the Vimshottari ruler of n.
func (n Nakshatra) Lord() Planet {
	mustNakshatra(n, "nakshatra lord")
	return vimshottariLords[n.Index()%len(vimshottariLords)]
}

// Yoni returns the animal symbol of n.
func (n Nakshatra) Yoni() Yoni {
	mustNakshatra(n, "yoni")
	y := nakshatraYoni[n]
	if !y.Valid() {
		panic(fmt.Sprintf("zodiac: yoni table has no entry for %s", n))
	}
	return y
}

// Gana returns the temperament class of n.
func (n Nakshatra) Gana() Gana {
	mustNakshatra(n, "gana")
	g := nakshatraGana[n]
	if !g.Valid() {
		panic(fmt.Sprintf("zodiac: gana table has no entry for %s", n))
	}
	return g
}

// Nadi returns the constitution class of n.
func (n Nakshatra) Nadi() Nadi {
	mustNakshatra(n, "nadi")
	return nadiPattern[n.Index()%len(nadiPattern)]
}

func mustNakshatra(n Nakshatra, table string) {
	if !n.Valid() {
		panic(fmt.Sprintf("zodiac: %s lookup with invalid nakshatra %d", table, uint8(n)))
	}
}

//Personal.AI order the ending
