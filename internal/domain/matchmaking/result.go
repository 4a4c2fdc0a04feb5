package matchmaking

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// Rating is the qualitative band of a compatibility ratio.
type Rating uint8

const (
	NoRating Rating = iota
	Poor
	Average
	Good
	Excellent
)

func (r Rating) String() string {
	switch r {
	case Poor:
		return "Poor"
	case Average:
		return "Average"
	case Good:
		return "Good"
	case Excellent:
		return "Excellent"
	}
	return fmt.Sprintf("Rating(%d)", uint8(r))
}

// MarshalText encodes the rating name.
func (r Rating) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Band is the half-open ratio range [Low, High) of a rating; the top band
// is closed at 1.
type Band struct {
	Rating Rating
	Low    decimal.Decimal
	High   decimal.Decimal
}

func frac(n, d int64) decimal.Decimal { return decimal.NewFromInt(n).Div(decimal.NewFromInt(d)) }

// ratingThresholds are the lower bounds of Average, Good and Excellent as
// point counts out of 36.
var ratingThresholds = [...]struct {
	rating Rating
	points int64
}{
	{Excellent, 33},
	{Good, 25},
	{Average, 18},
}

// Bands returns the rating bands, which partition [0,1].
func Bands() []Band {
	return []Band{
		{Poor, decimal.Zero, frac(18, 36)},
		{Average, frac(18, 36), frac(25, 36)},
		{Good, frac(25, 36), frac(33, 36)},
		{Excellent, frac(33, 36), decimal.NewFromInt(1)},
	}
}

// RatingFor rates obtained out of max.  Comparisons cross-multiply so band
// edges are exact.
func RatingFor(obtained, max decimal.Decimal) Rating {
	scaled := obtained.Mul(decimal.NewFromInt(36))
	for _, t := range ratingThresholds {
		if scaled.GreaterThanOrEqual(max.Mul(decimal.NewFromInt(t.points))) {
			return t.rating
		}
	}
	return Poor
}

// CompatibilityResult is the aggregate over all categories.
type CompatibilityResult struct {
	Categories    []GunaCategory
	TotalObtained decimal.Decimal
	TotalMax      decimal.Decimal
	Ratio         decimal.Decimal
	Rating        Rating
}

// Category returns the scored category of kind k.
func (r CompatibilityResult) Category(k Kind) (GunaCategory, bool) {
	for _, c := range r.Categories {
		if c.Kind == k {
			return c, true
		}
	}
	return GunaCategory{}, false
}

// Aggregate totals scored categories and rates the ratio.
func Aggregate(categories []GunaCategory) (CompatibilityResult, error) {
	if len(categories) == 0 {
		return CompatibilityResult{}, errors.New(errors.CodeInvalidParam, "no categories to aggregate")
	}
	res := CompatibilityResult{
		Categories:    append([]GunaCategory(nil), categories...),
		TotalObtained: decimal.Zero,
		TotalMax:      decimal.Zero,
	}
	for _, c := range categories {
		if c.Obtained.IsNegative() || c.Obtained.GreaterThan(c.Max) {
			return CompatibilityResult{}, errors.New(errors.CodeValidation, "category score outside [0,max]").
				WithDetail(fmt.Sprintf("category=%s obtained=%s max=%s", c.Name, c.Obtained, c.Max))
		}
		res.TotalObtained = res.TotalObtained.Add(c.Obtained)
		res.TotalMax = res.TotalMax.Add(c.Max)
	}
	if !res.TotalMax.IsPositive() {
		return CompatibilityResult{}, errors.New(errors.CodeValidation, "categories have no maximum")
	}
	res.Ratio = res.TotalObtained.Div(res.TotalMax)
	res.Rating = RatingFor(res.TotalObtained, res.TotalMax)
	return res, nil
}

// Score scores every category for the pair and aggregates the result.
func Score(groom, bride Profile) (CompatibilityResult, error) {
	cats := make([]GunaCategory, 0, len(Kinds))
	for _, k := range Kinds {
		c, err := ScoreCategory(k, groom, bride)
		if err != nil {
			return CompatibilityResult{}, err
		}
		cats = append(cats, c)
	}
	return Aggregate(cats)
}

//Personal.AI order the ending
