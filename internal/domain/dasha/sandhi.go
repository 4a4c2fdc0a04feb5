package dasha

import (
	"fmt"
	"math"
	"time"

	"github.com/turtacn/jyotish-engine/internal/domain/calendar"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// Intensity grades how close an instant is to a period junction.
type Intensity uint8

const (
	IntensityUnset Intensity = iota
	Peak
	Strong
	Mild
	Distant
)

func (i Intensity) String() string {
	switch i {
	case Peak:
		return "peak"
	case Strong:
		return "strong"
	case Mild:
		return "mild"
	case Distant:
		return "distant"
	}
	return "unset"
}

// MarshalText encodes the intensity name.
func (i Intensity) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// JunctionPolicy configures junction detection.
type JunctionPolicy struct {
	// OrbDays caps the window half-width.
	OrbDays float64
	// OrbFraction caps the half-width as a fraction of the shorter of the
	// two adjacent periods.
	OrbFraction float64
	// Lookback and Lookahead bound which boundaries are reported around the
	// evaluation instant.
	Lookback  time.Duration
	Lookahead time.Duration
	Level     Level
	// PeakRatio, StrongRatio and MildRatio are increasing thresholds on
	// distance divided by half-width.
	PeakRatio   float64
	StrongRatio float64
	MildRatio   float64
}

// DefaultJunctionPolicy reports top-level junctions from one year back to
// three years ahead with a half-width of at most 180 days.
func DefaultJunctionPolicy() JunctionPolicy {
	return JunctionPolicy{
		OrbDays:     180,
		OrbFraction: 0.1,
		Lookback:    365 * 24 * time.Hour,
		Lookahead:   3 * 365 * 24 * time.Hour,
		Level:       Mahadasha,
		PeakRatio:   0.25,
		StrongRatio: 0.5,
		MildRatio:   1,
	}
}

// Validate checks the policy's ranges.
func (p JunctionPolicy) Validate() error {
	bad := func(msg string, v interface{}) error {
		return errors.New(errors.ErrCodeInvalidJunctionPolicy, msg).WithDetail(fmt.Sprintf("value=%v", v))
	}
	switch {
	case !(p.OrbDays > 0) || math.IsInf(p.OrbDays, 0):
		return bad("orb days must be positive", p.OrbDays)
	case !(p.OrbFraction > 0 && p.OrbFraction <= 0.5):
		return bad("orb fraction must be in (0,0.5]", p.OrbFraction)
	case p.Lookback < 0:
		return bad("lookback must not be negative", p.Lookback)
	case p.Lookahead < 0:
		return bad("lookahead must not be negative", p.Lookahead)
	case !p.Level.Valid():
		return bad("level out of range", p.Level)
	case !(p.PeakRatio > 0 && p.PeakRatio < p.StrongRatio && p.StrongRatio < p.MildRatio):
		return bad("ratios must be positive and strictly increasing",
			fmt.Sprintf("%g/%g/%g", p.PeakRatio, p.StrongRatio, p.MildRatio))
	}
	return nil
}

// JunctionWindow is the boundary between two adjacent periods of the same
// level and the sensitive window around it.
type JunctionWindow struct {
	From     Period
	To       Period
	Boundary time.Time
	// HalfWidth is the window radius around Boundary.
	HalfWidth   time.Duration
	WindowStart time.Time
	WindowEnd   time.Time
	// Distance is |asOf - Boundary|.
	Distance  time.Duration
	Intensity Intensity
	// Active reports whether asOf lies inside the window.
	Active bool
}

// DetectJunctions lists the junctions at policy.Level whose boundary falls in
// [asOf-Lookback, asOf+Lookahead], in chronological order.
func DetectJunctions(tl *Timeline, policy JunctionPolicy, asOf time.Time) ([]JunctionWindow, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if policy.Level > tl.depth {
		return nil, errors.New(errors.ErrCodeInvalidJunctionPolicy, "junction level deeper than the timeline").
			WithDetail(fmt.Sprintf("level=%d depth=%d", policy.Level, tl.depth))
	}

	at := calendar.ToMillis(asOf)
	from := at - policy.Lookback.Milliseconds()
	to := at + policy.Lookahead.Milliseconds()
	orbMs := int64(math.Round(policy.OrbDays * float64(calendar.MillisPerDay)))

	lo, hi := tl.levelStart[policy.Level], tl.levelStart[policy.Level+1]
	var out []JunctionWindow
	for i := lo; i+1 < hi; i++ {
		a, b := tl.nodes[i], tl.nodes[i+1]
		boundary := a.EndMs
		if boundary < from {
			continue
		}
		if boundary > to {
			break
		}
		shorter := min(a.EndMs-a.StartMs, b.EndMs-b.StartMs)
		half := min(orbMs, int64(math.Round(policy.OrbFraction*float64(shorter))))
		dist := at - boundary
		if dist < 0 {
			dist = -dist
		}
		out = append(out, JunctionWindow{
			From:        Period{tl: tl, idx: i},
			To:          Period{tl: tl, idx: i + 1},
			Boundary:    calendar.FromMillis(boundary, tl.loc),
			HalfWidth:   time.Duration(half) * time.Millisecond,
			WindowStart: calendar.FromMillis(boundary-half, tl.loc),
			WindowEnd:   calendar.FromMillis(boundary+half, tl.loc),
			Distance:    time.Duration(dist) * time.Millisecond,
			Intensity:   policy.grade(dist, half),
			Active:      dist <= half,
		})
	}
	return out, nil
}

// grade maps a distance to an intensity.  Intensity never rises as the
// distance grows.
func (p JunctionPolicy) grade(dist, half int64) Intensity {
	if half <= 0 {
		if dist == 0 {
			return Peak
		}
		return Distant
	}
	r := float64(dist) / float64(half)
	switch {
	case r <= p.PeakRatio:
		return Peak
	case r <= p.StrongRatio:
		return Strong
	case r <= p.MildRatio:
		return Mild
	}
	return Distant
}

//Personal.AI order the ending
