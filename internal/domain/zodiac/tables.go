package zodiac

import "fmt"

// ─────────────────────────────────────────────────────────────────────────────
// Sign lordship
// ─────────────────────────────────────────────────────────────────────────────

var signLords = [SignCount + 1]Planet{
	NoPlanet,
	Mars, Venus, Mercury, Moon, Sun, Mercury,
	Venus, Mars, Jupiter, Saturn, Saturn, Jupiter,
}

// Lord returns the ruler of s.
func (s Sign) Lord() Planet {
	mustSign(s, "sign lord")
	p := signLords[s]
	if !p.Valid() {
		panic(fmt.Sprintf("zodiac: sign lord table has no entry for %s", s))
	}
	return p
}

// ─────────────────────────────────────────────────────────────────────────────
// Exaltation, own signs, moolatrikona
// ─────────────────────────────────────────────────────────────────────────────

// SignDegree is a point in a sign.
type SignDegree struct {
	Sign   Sign
	Degree float64
}

// Longitude converts the point into an absolute longitude.
func (sd SignDegree) Longitude() Longitude {
	return Longitude(float64(sd.Sign.Index())*SignSpan + sd.Degree)
}

var exaltation = [PlanetCount + 1]SignDegree{
	{},
	{Aries, 10},     // Sun
	{Taurus, 3},     // Moon
	{Capricorn, 28}, // Mars
	{Virgo, 15},     // Mercury
	{Cancer, 5},     // Jupiter
	{Pisces, 27},    // Venus
	{Libra, 20},     // Saturn
	{Taurus, 20},    // Rahu
	{Scorpio, 20},   // Ketu
}

// Exaltation returns the sign and degree of deepest exaltation of p.
func Exaltation(p Planet) SignDegree {
	mustPlanet(p, "exaltation")
	e := exaltation[p]
	if !e.Sign.Valid() {
		panic(fmt.Sprintf("zodiac: exaltation table has no entry for %s", p))
	}
	return e
}

// Debilitation returns the point opposite the exaltation of p.
func Debilitation(p Planet) SignDegree {
	e := Exaltation(p)
	return SignDegree{Sign: e.Sign.Opposite(), Degree: e.Degree}
}

var ownSigns = [PlanetCount + 1][]Sign{
	nil,
	{Leo},
	{Cancer},
	{Aries, Scorpio},
	{Gemini, Virgo},
	{Sagittarius, Pisces},
	{Taurus, Libra},
	{Capricorn, Aquarius},
	{Aquarius},
	{Scorpio},
}

// OwnSigns returns the signs ruled by p.  The nodes follow the co-lordship
// convention (Rahu Aquarius, Ketu Scorpio).
func OwnSigns(p Planet) []Sign {
	mustPlanet(p, "own sign")
	s := ownSigns[p]
	if len(s) == 0 {
		panic(fmt.Sprintf("zodiac: own sign table has no entry for %s", p))
	}
	return append([]Sign(nil), s...)
}

// IsOwnSign reports whether p rules s.
func IsOwnSign(p Planet, s Sign) bool {
	for _, o := range OwnSigns(p) {
		if o == s {
			return true
		}
	}
	return false
}

// DegreeRange is a half-open arc [From, To) within one sign.
type DegreeRange struct {
	Sign Sign
	From float64
	To   float64
}

// Contains reports whether l lies inside the range.
func (r DegreeRange) Contains(l Longitude) bool {
	if l.Sign() != r.Sign {
		return false
	}
	d := l.DegreeInSign()
	return d >= r.From && d < r.To
}

var moolatrikona = [PlanetCount + 1]DegreeRange{
	{},
	{Leo, 0, 20},
	{Taurus, 3, 30},
	{Aries, 0, 12},
	{Virgo, 15, 20},
	{Sagittarius, 0, 10},
	{Libra, 0, 15},
	{Aquarius, 0, 20},
	{Gemini, 0, 30},
	{Sagittarius, 0, 30},
}

// Moolatrikona returns the moolatrikona arc of p.
func Moolatrikona(p Planet) DegreeRange {
	mustPlanet(p, "moolatrikona")
	r := moolatrikona[p]
	if !r.Sign.Valid() {
		panic(fmt.Sprintf("zodiac: moolatrikona table has no entry for %s", p))
	}
	return r
}

// ─────────────────────────────────────────────────────────────────────────────
// Natural relationships
// ─────────────────────────────────────────────────────────────────────────────

// Relation is the natural (naisargika) disposition of one planet towards
// another.
type Relation uint8

const (
	NoRelation Relation = iota
	Friend
	Neutral
	Enemy
)

func (r Relation) String() string {
	switch r {
	case Friend:
		return "Friend"
	case Neutral:
		return "Neutral"
	case Enemy:
		return "Enemy"
	}
	return fmt.Sprintf("Relation(%d)", uint8(r))
}

const (
	fr = Friend
	ne = Neutral
	en = Enemy
)

// relations[a][b] is a's view of b.  Rows and columns follow Planet order
// (Sun..Ketu).  A planet counts itself as a friend.
var relations = [PlanetCount + 1][PlanetCount + 1]Relation{
	{},
	//   Sun Moon Mars Merc Jup Ven Sat Rahu Ketu
	{0, fr, fr, fr, ne, fr, en, en, en, en}, // Sun
	{0, fr, fr, ne, fr, ne, ne, ne, en, en}, // Moon
	{0, fr, fr, fr, en, fr, ne, ne, en, fr}, // Mars
	{0, fr, en, ne, fr, ne, fr, ne, fr, ne}, // Mercury
	{0, fr, fr, fr, en, fr, en, ne, ne, ne}, // Jupiter
	{0, en, en, ne, fr, ne, fr, fr, fr, fr}, // Venus
	{0, en, en, en, fr, ne, fr, fr, fr, fr}, // Saturn
	{0, en, en, en, fr, ne, fr, fr, fr, ne}, // Rahu
	{0, en, en, fr, ne, ne, fr, fr, ne, fr}, // Ketu
}

// NaturalRelation returns a's disposition towards b.
func NaturalRelation(a, b Planet) Relation {
	mustPlanet(a, "relation")
	mustPlanet(b, "relation")
	r := relations[a][b]
	if r == NoRelation {
		panic(fmt.Sprintf("zodiac: relation table has no entry for %s→%s", a, b))
	}
	return r
}

// ─────────────────────────────────────────────────────────────────────────────
// Dignity
// ─────────────────────────────────────────────────────────────────────────────

// Dignity is a planet's strength by placement, strongest first.
type Dignity uint8

const (
	NoDignity Dignity = iota
	Exalted
	MoolatrikonaDignity
	OwnSign
	FriendSign
	NeutralSign
	EnemySign
	Debilitated
)

var dignityNames = [...]string{
	"", "Exalted", "Moolatrikona", "Own", "Friend", "Neutral", "Enemy", "Debilitated",
}

func (d Dignity) String() string {
	if d == NoDignity || int(d) >= len(dignityNames) {
		return fmt.Sprintf("Dignity(%d)", uint8(d))
	}
	return dignityNames[d]
}

// ClassifyDignity places p at l on the dignity ladder.  Within a sign that
// holds both exaltation and moolatrikona (Moon, Mercury) the exaltation zone
// ends where the moolatrikona arc begins.
func ClassifyDignity(p Planet, l Longitude) Dignity {
	mustPlanet(p, "dignity")
	s := l.Sign()
	ex := Exaltation(p)
	mt := Moolatrikona(p)

	if mt.Contains(l) {
		return MoolatrikonaDignity
	}
	if s == ex.Sign && (mt.Sign != ex.Sign || l.DegreeInSign() < mt.From) {
		return Exalted
	}
	if s == Debilitation(p).Sign {
		return Debilitated
	}
	if IsOwnSign(p, s) {
		return OwnSign
	}
	lord := s.Lord()
	switch NaturalRelation(p, lord) {
	case Friend:
		return FriendSign
	case Enemy:
		return EnemySign
	default:
		return NeutralSign
	}
}

//Personal.AI order the ending
