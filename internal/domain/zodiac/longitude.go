package zodiac

import (
	"fmt"
	"math"

	"github.com/turtacn/jyotish-engine/pkg/errors"
)

const (
	// FullCircle is the number of degrees in the zodiac.
	FullCircle = 360.0
	// SignSpan is the width of one sign in degrees.
	SignSpan = 30.0
	// NakshatraSpan is the width of one nakshatra (13°20′) in degrees.
	NakshatraSpan = FullCircle / NakshatraCount
	// PadaSpan is the width of one nakshatra quarter (3°20′) in degrees.
	PadaSpan = NakshatraSpan / 4
)

// Longitude is a sidereal ecliptic longitude in degrees, always in [0,360).
type Longitude float64

// NewLongitude validates deg as an input longitude.  Values outside [0,360),
// NaN and infinities are rejected rather than wrapped.
func NewLongitude(deg float64) (Longitude, error) {
	if math.IsNaN(deg) || math.IsInf(deg, 0) || deg < 0 || deg >= FullCircle {
		return 0, errors.New(errors.CodeInvalidLongitude, "longitude outside [0,360)").
			WithDetail(fmt.Sprintf("value=%v", deg))
	}
	return Longitude(deg), nil
}

// MustLongitude is NewLongitude that panics on invalid input.  It is meant
// for constants and tests.
func MustLongitude(deg float64) Longitude {
	l, err := NewLongitude(deg)
	if err != nil {
		panic(err)
	}
	return l
}

// Normalize wraps a computed angle into [0,360) with a single modulo step.
// Negative residues are lifted and a result that rounds up to 360 maps to 0.
func Normalize(deg float64) Longitude {
	m := math.Mod(deg, FullCircle)
	if m < 0 {
		m += FullCircle
	}
	if m >= FullCircle {
		m = 0
	}
	return Longitude(m)
}

// FromSign builds a longitude from a sign and a degree within it.
func FromSign(s Sign, degree float64) (Longitude, error) {
	if !s.Valid() {
		return 0, errors.Newf(errors.CodeInvalidLongitude, "invalid sign %d", uint8(s))
	}
	if math.IsNaN(degree) || degree < 0 || degree >= SignSpan {
		return 0, errors.New(errors.CodeInvalidLongitude, "degree in sign outside [0,30)").
			WithDetail(fmt.Sprintf("value=%v", degree))
	}
	return NewLongitude(float64(s.Index())*SignSpan + degree)
}

// Degrees returns the raw value.
func (l Longitude) Degrees() float64 { return float64(l) }

// Sign returns the sign containing l.
func (l Longitude) Sign() Sign {
	i := int(math.Floor(float64(l) / SignSpan))
	if i >= SignCount {
		i = SignCount - 1
	}
	return Sign(i + 1)
}

// DegreeInSign returns the offset of l from the start of its sign, in [0,30).
func (l Longitude) DegreeInSign() float64 {
	return float64(l) - float64(l.Sign().Index())*SignSpan
}

// nakshatraPosition returns l measured in nakshatra units.  Multiplying by
// 27/360 directly keeps boundary values such as 40/3 exact enough to floor
// into the right mansion.
func (l Longitude) nakshatraPosition() float64 {
	return float64(l) * NakshatraCount / FullCircle
}

// Nakshatra returns the lunar mansion containing l.
func (l Longitude) Nakshatra() Nakshatra {
	i := int(math.Floor(l.nakshatraPosition()))
	if i >= NakshatraCount {
		i = NakshatraCount - 1
	}
	return Nakshatra(i + 1)
}

// NakshatraFraction returns how far l has progressed through its nakshatra,
// in [0,1).
func (l Longitude) NakshatraFraction() float64 {
	pos := l.nakshatraPosition()
	f := pos - math.Floor(pos)
	if f < 0 {
		f = 0
	}
	if f >= 1 {
		f = math.Nextafter(1, 0)
	}
	return f
}

// Pada returns the quarter of the nakshatra containing l, in [1,4].
func (l Longitude) Pada() int {
	p := int(math.Floor(l.NakshatraFraction()*4)) + 1
	if p > 4 {
		p = 4
	}
	return p
}

// Add returns l shifted by deg, normalized.
func (l Longitude) Add(deg float64) Longitude { return Normalize(float64(l) + deg) }

// Distance returns the forward arc from l to other, in [0,360).
func (l Longitude) Distance(other Longitude) float64 {
	return float64(Normalize(float64(other) - float64(l)))
}

// String formats l as sign and degrees-minutes, e.g. "Leo 12°30′".
func (l Longitude) String() string {
	d := l.DegreeInSign()
	deg := math.Floor(d)
	mins := math.Floor((d - deg) * 60)
	return fmt.Sprintf("%s %d°%02d′", l.Sign(), int(deg), int(mins))
}

//Personal.AI order the ending
