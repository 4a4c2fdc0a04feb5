package dasha

import (
	"time"

	"github.com/turtacn/jyotish-engine/internal/domain/calendar"
	domainDasha "github.com/turtacn/jyotish-engine/internal/domain/dasha"
)

// Period is the application-level view of one period.
type Period struct {
	Level    string    `json:"level"`
	Lord     string    `json:"lord"`
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Years    float64   `json:"years"`
	Children []*Period `json:"children,omitempty"`
}

// StartPoint names the entry running at birth and how much of it had
// elapsed.
type StartPoint struct {
	Lord     string  `json:"lord"`
	Fraction float64 `json:"fraction"`
}

// PeriodsResult is a full timeline.
type PeriodsResult struct {
	ChartID    string        `json:"chart_id"`
	System     string        `json:"system"`
	Policy     string        `json:"balance_policy"`
	StartPoint StartPoint    `json:"start_point"`
	Balance    calendar.Span `json:"balance_at_birth"`
	Start      time.Time     `json:"start"`
	End        time.Time     `json:"end"`
	Periods    []*Period     `json:"periods"`
}

// ActivePeriod is a running period with its progress at the query instant.
type ActivePeriod struct {
	Period
	Progress      float64 `json:"progress"`
	RemainingDays float64 `json:"remaining_days"`
}

// CurrentResult is the chain of running periods, top level first.
type CurrentResult struct {
	ChartID string          `json:"chart_id"`
	System  string          `json:"system"`
	At      time.Time       `json:"at"`
	Chain   []*ActivePeriod `json:"chain"`
}

// Junction is one junction window.
type Junction struct {
	From          string    `json:"from"`
	To            string    `json:"to"`
	Boundary      time.Time `json:"boundary"`
	WindowStart   time.Time `json:"window_start"`
	WindowEnd     time.Time `json:"window_end"`
	HalfWidthDays float64   `json:"half_width_days"`
	DistanceDays  float64   `json:"distance_days"`
	Intensity     string    `json:"intensity"`
	Active        bool      `json:"active"`
}

// SandhiResult lists the junctions near the evaluation instant.
type SandhiResult struct {
	ChartID string      `json:"chart_id"`
	System  string      `json:"system"`
	AsOf    time.Time   `json:"as_of"`
	Level   string      `json:"level"`
	Windows []*Junction `json:"windows"`
}

// ApplicabilityResult is the suitability verdict of one system.
type ApplicabilityResult struct {
	System     string `json:"system"`
	Applicable bool   `json:"applicable"`
	Reason     string `json:"reason"`
}

func toPeriod(p domainDasha.Period, recurse bool) *Period {
	out := &Period{
		Level: p.Level().String(),
		Lord:  p.Lord().String(),
		Name:  p.Name(),
		Path:  p.Path(),
		Start: p.Start(),
		End:   p.End(),
		Years: calendar.MillisToYearsFloat(p.DurationMillis()),
	}
	if recurse {
		for _, c := range p.Children() {
			out.Children = append(out.Children, toPeriod(c, true))
		}
	}
	return out
}

func toJunction(w domainDasha.JunctionWindow) *Junction {
	return &Junction{
		From:          w.From.Path(),
		To:            w.To.Path(),
		Boundary:      w.Boundary,
		WindowStart:   w.WindowStart,
		WindowEnd:     w.WindowEnd,
		HalfWidthDays: w.HalfWidth.Hours() / 24,
		DistanceDays:  w.Distance.Hours() / 24,
		Intensity:     w.Intensity.String(),
		Active:        w.Active,
	}
}

//Personal.AI order the ending
