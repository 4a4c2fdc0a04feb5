package matchmaking

import (
	"github.com/shopspring/decimal"

	"github.com/turtacn/jyotish-engine/internal/domain/chart"
	domainMatch "github.com/turtacn/jyotish-engine/internal/domain/matchmaking"
)

// Profile describes the Moon placement a score was read from.
type Profile struct {
	ChartID   string `json:"chart_id"`
	Name      string `json:"name"`
	Sign      string `json:"moon_sign"`
	Nakshatra string `json:"nakshatra"`
	Pada      int    `json:"pada"`
}

// Category is one scored compatibility category.
type Category struct {
	Name     string          `json:"name"`
	Obtained decimal.Decimal `json:"obtained"`
	Max      decimal.Decimal `json:"max"`
	Affinity string          `json:"affinity"`
	Positive bool            `json:"positive"`
	Detail   string          `json:"detail"`
}

// ScoreResult is the guna score of a couple.
type ScoreResult struct {
	Groom      Profile         `json:"groom"`
	Bride      Profile         `json:"bride"`
	Categories []Category      `json:"categories"`
	Obtained   decimal.Decimal `json:"obtained"`
	Max        decimal.Decimal `json:"max"`
	Ratio      decimal.Decimal `json:"ratio"`
	Rating     string          `json:"rating"`
}

// Reference is Mars's house and severity from one reference point.
type Reference struct {
	From     string `json:"from"`
	House    int    `json:"house"`
	Severity string `json:"severity"`
}

// ManglikResult is the Mars affliction verdict for one chart.
type ManglikResult struct {
	ChartID           string      `json:"chart_id"`
	Name              string      `json:"name"`
	MarsHouse         int         `json:"mars_house"`
	MarsSign          string      `json:"mars_sign"`
	References        []Reference `json:"references"`
	RawSeverity       string      `json:"raw_severity"`
	Cancellations     []string    `json:"cancellations"`
	EffectiveSeverity string      `json:"effective_severity"`

	effective domainMatch.Severity
}

// MatchResult combines the guna score with both Manglik assessments.
type MatchResult struct {
	Compatibility   *ScoreResult   `json:"compatibility"`
	Groom           *ManglikResult `json:"groom_manglik"`
	Bride           *ManglikResult `json:"bride_manglik"`
	ManglikDecision string         `json:"manglik_decision"`
}

// Band is one rating band in points out of 36.
type Band struct {
	Rating string          `json:"rating"`
	Low    decimal.Decimal `json:"low"`
	High   decimal.Decimal `json:"high"`
}

var maxPoints = decimal.NewFromInt(36)

// RatingBands returns the rating bands scaled to points.
func RatingBands() []Band {
	bands := domainMatch.Bands()
	out := make([]Band, len(bands))
	for i, b := range bands {
		out[i] = Band{
			Rating: b.Rating.String(),
			Low:    b.Low.Mul(maxPoints).Round(2),
			High:   b.High.Mul(maxPoints).Round(2),
		}
	}
	return out
}

func toProfile(c *chart.Chart, p domainMatch.Profile) Profile {
	return Profile{
		ChartID:   c.Identity().String(),
		Name:      c.Name(),
		Sign:      p.Sign.String(),
		Nakshatra: p.Nakshatra.String(),
		Pada:      p.Moon.Pada(),
	}
}

func toScoreResult(in *PairInput, groom, bride domainMatch.Profile, r domainMatch.CompatibilityResult) *ScoreResult {
	out := &ScoreResult{
		Groom:      toProfile(in.Groom, groom),
		Bride:      toProfile(in.Bride, bride),
		Categories: make([]Category, 0, len(r.Categories)),
		Obtained:   r.TotalObtained,
		Max:        r.TotalMax,
		Ratio:      r.Ratio.Round(4),
		Rating:     r.Rating.String(),
	}
	for _, c := range r.Categories {
		out.Categories = append(out.Categories, Category{
			Name:     c.Name,
			Obtained: c.Obtained,
			Max:      c.Max,
			Affinity: c.Affinity.String(),
			Positive: c.IsPositive,
			Detail:   c.Detail,
		})
	}
	return out
}

func toManglikResult(c *chart.Chart, a domainMatch.ManglikAssessment) *ManglikResult {
	out := &ManglikResult{
		ChartID:           c.Identity().String(),
		Name:              c.Name(),
		MarsHouse:         a.MarsHouse,
		MarsSign:          a.MarsSign.String(),
		References:        make([]Reference, 0, len(a.References)),
		RawSeverity:       a.RawSeverity.String(),
		Cancellations:     append([]string{}, a.Cancellations...),
		EffectiveSeverity: a.EffectiveSeverity.String(),
		effective:         a.EffectiveSeverity,
	}
	for _, r := range a.References {
		out.References = append(out.References, Reference{
			From:     string(r.Reference),
			House:    r.House,
			Severity: r.Severity.String(),
		})
	}
	return out
}

//Personal.AI order the ending
