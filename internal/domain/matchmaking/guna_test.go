package matchmaking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/jyotish-engine/internal/domain/zodiac"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

func profile(deg float64) Profile { return NewProfile(zodiac.MustLongitude(deg)) }

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestKinds_MaximaSumTo36(t *testing.T) {
	total := decimal.Zero
	for i, k := range Kinds {
		assert.True(t, k.Max().Equal(decimal.NewFromInt(int64(i+1))), k.String())
		total = total.Add(k.Max())
	}
	assert.True(t, total.Equal(decimal.NewFromInt(36)))
	assert.Equal(t, DifferenceRequired, KindNadi.Affinity())
	assert.Equal(t, SameIsBest, KindBhakoot.Affinity())
	assert.Equal(t, "Graha Maitri", KindGrahaMaitri.String())
}

func TestScore_WorkedExample(t *testing.T) {
	// Ashwini against Krittika, both in Aries.
	res, err := Score(profile(0.5), profile(27))
	require.NoError(t, err)

	want := map[Kind]float64{
		KindVarna: 1, KindVashya: 2, KindTara: 1.5, KindYoni: 2,
		KindGrahaMaitri: 5, KindGana: 1, KindBhakoot: 7, KindNadi: 8,
	}
	require.Len(t, res.Categories, 8)
	for i, c := range res.Categories {
		assert.Equal(t, Kinds[i], c.Kind, "fixed order")
		assert.True(t, c.Obtained.Equal(dec(want[c.Kind])), "%s got %s", c.Name, c.Obtained)
	}
	assert.True(t, res.TotalObtained.Equal(dec(27.5)))
	assert.True(t, res.TotalMax.Equal(decimal.NewFromInt(36)))
	assert.Equal(t, Good, res.Rating)

	gana, ok := res.Category(KindGana)
	require.True(t, ok)
	assert.Equal(t, "Deva/Rakshasa", gana.Detail)
	assert.False(t, gana.IsPositive)
}

func TestScore_IdenticalCharts(t *testing.T) {
	for _, deg := range []float64{0.5, 44, 100.25, 181, 250.5, 290, 359.9} {
		p := profile(deg)
		res, err := Score(p, p)
		require.NoError(t, err)
		for _, c := range res.Categories {
			if c.Affinity == DifferenceRequired {
				assert.True(t, c.Obtained.IsZero(), "%s at %v", c.Name, deg)
				continue
			}
			assert.True(t, c.Obtained.Equal(c.Max), "%s at %v got %s", c.Name, deg, c.Obtained)
		}
		assert.True(t, res.TotalObtained.Equal(decimal.NewFromInt(28)))
	}
}

func TestScore_CategoriesWithinBounds(t *testing.T) {
	for g := 0.0; g < 360; g += 7.3 {
		for b := 3.1; b < 360; b += 11.7 {
			res, err := Score(profile(g), profile(b))
			require.NoError(t, err)
			for _, c := range res.Categories {
				require.False(t, c.Obtained.IsNegative(), "%s %v/%v", c.Name, g, b)
				require.True(t, c.Obtained.LessThanOrEqual(c.Max), "%s %v/%v", c.Name, g, b)
			}
			require.True(t, res.TotalMax.Equal(decimal.NewFromInt(36)))
			require.NotEqual(t, NoRating, res.Rating)
		}
	}
}

func TestVarnaIsDirectional(t *testing.T) {
	up, err := ScoreCategory(KindVarna, profile(10), profile(100))
	require.NoError(t, err)
	down, err := ScoreCategory(KindVarna, profile(100), profile(10))
	require.NoError(t, err)
	assert.True(t, up.Obtained.IsZero(), "Kshatriya groom, Brahmin bride")
	assert.True(t, down.Obtained.Equal(decimal.NewFromInt(1)))
}

func TestVashyaSplitSigns(t *testing.T) {
	assert.Equal(t, Manava, VashyaOf(zodiac.Sagittarius, 5))
	assert.Equal(t, Chatushpada, VashyaOf(zodiac.Sagittarius, 15))
	assert.Equal(t, Chatushpada, VashyaOf(zodiac.Capricorn, 14.99))
	assert.Equal(t, Jalachara, VashyaOf(zodiac.Capricorn, 20))
	assert.Equal(t, Keeta, VashyaOf(zodiac.Scorpio, 1))
	assert.Panics(t, func() { VashyaOf(zodiac.NoSign, 1) })
}

func TestBhakoot(t *testing.T) {
	cases := []struct {
		groom, bride float64
		want         int64
	}{
		{10, 40, 0},   // 2/12
		{10, 130, 0},  // 5/9
		{10, 160, 0},  // 6/8
		{10, 70, 7},   // 3/11
		{10, 100, 7},  // 4/10
		{10, 190, 7},  // 7/7
		{10, 15, 7},   // 1/1
		{100, 40, 7},  // 11/3
		{40, 10, 0},   // 12/2
	}
	for _, tc := range cases {
		c, err := ScoreCategory(KindBhakoot, profile(tc.groom), profile(tc.bride))
		require.NoError(t, err)
		assert.True(t, c.Obtained.Equal(decimal.NewFromInt(tc.want)), "%v/%v got %s", tc.groom, tc.bride, c.Obtained)
	}
}

func TestMatrices_Symmetry(t *testing.T) {
	for a := zodiac.Horse; a <= zodiac.Lion; a++ {
		for b := zodiac.Horse; b <= zodiac.Lion; b++ {
			assert.Equal(t, yoniPoints[a][b], yoniPoints[b][a], "%s/%s", a, b)
		}
		assert.Equal(t, int64(4), yoniPoints[a][a])
	}
}

func TestScoreCategory_Rejects(t *testing.T) {
	_, err := ScoreCategory(NoKind, profile(1), profile(2))
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	_, err = ScoreCategory(KindTara, Profile{}, profile(2))
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidProfile))

	_, err = Score(profile(1), Profile{Sign: zodiac.Aries, Nakshatra: zodiac.Ashwini, DegreeInSign: 31})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidProfile))
}

func TestRatingBands(t *testing.T) {
	bands := Bands()
	require.Len(t, bands, 4)
	assert.True(t, bands[0].Low.IsZero())
	assert.True(t, bands[len(bands)-1].High.Equal(decimal.NewFromInt(1)))
	for i := 1; i < len(bands); i++ {
		assert.True(t, bands[i-1].High.Equal(bands[i].Low), "bands %d and %d", i-1, i)
		assert.True(t, bands[i].Low.LessThan(bands[i].High))
	}

	max := decimal.NewFromInt(36)
	cases := []struct {
		points float64
		want   Rating
	}{
		{0, Poor}, {17.5, Poor}, {18, Average}, {24.5, Average},
		{25, Good}, {32.5, Good}, {33, Excellent}, {36, Excellent},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RatingFor(dec(tc.points), max), "%v points", tc.points)
	}
}

func TestAggregate_Validation(t *testing.T) {
	_, err := Aggregate(nil)
	assert.Error(t, err)

	_, err = Aggregate([]GunaCategory{{Kind: KindVarna, Name: "Varna", Max: decimal.NewFromInt(1), Obtained: decimal.NewFromInt(2)}})
	assert.True(t, errors.IsCode(err, errors.CodeValidation))

	res, err := Aggregate([]GunaCategory{{Kind: KindTara, Name: "Tara", Max: decimal.NewFromInt(3), Obtained: dec(1.5)}})
	require.NoError(t, err)
	assert.True(t, res.Ratio.Equal(dec(0.5)))
	assert.Equal(t, Average, res.Rating)
}

//Personal.AI order the ending
