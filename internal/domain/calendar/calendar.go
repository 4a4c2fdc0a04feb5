// Package calendar converts between the engine's integer-millisecond period
// grid and civil timestamps.
//
// The period grid uses a fixed year of 365.25 days.  Every period length is
// expressed in whole milliseconds on that grid and converted to a civil
// instant only at the edge, so boundaries never accumulate per-node rounding.
// Calendar-aware arithmetic (AddDate) is used only for user-facing offsets
// such as "as of age 30".
package calendar

import (
	"fmt"
	"math/big"
	"time"

	"github.com/turtacn/jyotish-engine/pkg/errors"
)

const (
	// MillisPerDay is the length of a civil day in milliseconds.
	MillisPerDay int64 = 24 * 60 * 60 * 1000
	// DaysPerYear is the fixed year length of the period grid.
	DaysPerYear = 365.25
	// MillisPerYear is DaysPerYear in milliseconds (31 557 600 000).
	MillisPerYear int64 = MillisPerDay * 36525 / 100
	// MillisPerMonth is one twelfth of MillisPerYear.
	MillisPerMonth int64 = MillisPerYear / 12
)

// YearsToMillis converts whole years to grid milliseconds.
func YearsToMillis(years int64) int64 { return years * MillisPerYear }

// MillisToYears returns the exact rational year count of ms grid
// milliseconds.
func MillisToYears(ms int64) *big.Rat {
	return new(big.Rat).SetFrac(big.NewInt(ms), big.NewInt(MillisPerYear))
}

// MillisToYearsFloat is MillisToYears for display.
func MillisToYearsFloat(ms int64) float64 {
	return float64(ms) / float64(MillisPerYear)
}

// ─────────────────────────────────────────────────────────────────────────────
// Instants
// ─────────────────────────────────────────────────────────────────────────────

// ToMillis returns t as Unix milliseconds.
func ToMillis(t time.Time) int64 { return t.UnixMilli() }

// FromMillis returns the instant ms Unix milliseconds in loc.  A nil loc
// yields UTC.
func FromMillis(ms int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(ms).In(loc)
}

// ValidateBirth rejects zero timestamps and instants that cannot be carried
// on the millisecond grid.
func ValidateBirth(t time.Time) error {
	if t.IsZero() {
		return errors.New(errors.CodeInvalidBirthTime, "birth time is not set")
	}
	if t.Year() < 1 || t.Year() > 9999 {
		return errors.New(errors.CodeInvalidBirthTime, "birth year outside [1,9999]").
			WithDetail(fmt.Sprintf("year=%d", t.Year()))
	}
	return nil
}

// AtAge returns the civil anniversary of birth at age whole years, keeping
// the birth location and wall-clock time.
func AtAge(birth time.Time, age int) (time.Time, error) {
	if age < 0 {
		return time.Time{}, errors.Newf(errors.CodeInvalidParam, "age %d is negative", age)
	}
	return birth.AddDate(age, 0, 0), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Span
// ─────────────────────────────────────────────────────────────────────────────

// Span is a duration broken down the way period balances are quoted: grid
// years, grid months (1/12 year) and days, with the sub-day remainder kept
// in milliseconds.
type Span struct {
	Years  int   `json:"years" yaml:"years"`
	Months int   `json:"months" yaml:"months"`
	Days   int   `json:"days" yaml:"days"`
	Millis int64 `json:"millis" yaml:"millis"`
}

// Breakdown splits a non-negative grid duration into a Span.  Negative input
// is treated as zero.
func Breakdown(ms int64) Span {
	if ms <= 0 {
		return Span{}
	}
	y := ms / MillisPerYear
	ms -= y * MillisPerYear
	m := ms / MillisPerMonth
	ms -= m * MillisPerMonth
	d := ms / MillisPerDay
	ms -= d * MillisPerDay
	return Span{Years: int(y), Months: int(m), Days: int(d), Millis: ms}
}

func (s Span) String() string {
	return fmt.Sprintf("%dy %dm %dd", s.Years, s.Months, s.Days)
}

//Personal.AI order the ending
