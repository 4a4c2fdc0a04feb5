package zodiac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTables_TotalOverDomain(t *testing.T) {
	for _, s := range Signs {
		assert.NotPanics(t, func() { _ = s.Lord() }, "lord of %s", s)
	}
	for _, p := range Planets {
		assert.NotPanics(t, func() {
			_ = Exaltation(p)
			_ = Debilitation(p)
			_ = OwnSigns(p)
			_ = Moolatrikona(p)
		}, "tables for %s", p)
		for _, q := range Planets {
			assert.NotPanics(t, func() { _ = NaturalRelation(p, q) }, "%s→%s", p, q)
		}
	}
	for i := 0; i < NakshatraCount; i++ {
		n := NakshatraAt(i)
		assert.NotPanics(t, func() {
			_ = n.Lord()
			_ = n.Yoni()
			_ = n.Gana()
			_ = n.Nadi()
		}, "attributes of %s", n)
	}
}

func TestTables_UnsetAccessPanics(t *testing.T) {
	assert.Panics(t, func() { _ = NoSign.Lord() })
	assert.Panics(t, func() { _ = Exaltation(NoPlanet) })
	assert.Panics(t, func() { _ = NaturalRelation(Sun, Planet(42)) })
	assert.Panics(t, func() { _ = NoNakshatra.Yoni() })
	assert.Panics(t, func() { _ = ClassifyDignity(NoPlanet, 0) })
}

func TestSignLords_EachPlanetRulesItsOwnSigns(t *testing.T) {
	for _, p := range Planets {
		if p.IsNode() {
			continue
		}
		for _, s := range OwnSigns(p) {
			assert.Equal(t, p, s.Lord(), "%s should rule %s", p, s)
		}
	}
}

func TestDebilitation_OppositeExaltation(t *testing.T) {
	assert.Equal(t, Libra, Debilitation(Sun).Sign)
	assert.Equal(t, Scorpio, Debilitation(Moon).Sign)
	assert.Equal(t, Cancer, Debilitation(Mars).Sign)
	assert.Equal(t, Aries, Debilitation(Saturn).Sign)
	assert.Equal(t, 20.0, Debilitation(Saturn).Degree)
}

func TestNaturalRelation_Selected(t *testing.T) {
	assert.Equal(t, Friend, NaturalRelation(Sun, Moon))
	assert.Equal(t, Neutral, NaturalRelation(Sun, Mercury))
	assert.Equal(t, Enemy, NaturalRelation(Sun, Saturn))
	assert.Equal(t, Neutral, NaturalRelation(Moon, Saturn))
	assert.Equal(t, Enemy, NaturalRelation(Mercury, Moon))
	assert.Equal(t, Friend, NaturalRelation(Moon, Mercury))
	assert.Equal(t, Friend, NaturalRelation(Venus, Venus))
}

func TestNaturalRelation_MoonHasNoEnemiesAmongSeven(t *testing.T) {
	for _, p := range Planets[:7] {
		assert.NotEqual(t, Enemy, NaturalRelation(Moon, p), "Moon→%s", p)
	}
}

func TestClassifyDignity(t *testing.T) {
	cases := []struct {
		planet Planet
		sign   Sign
		degree float64
		want   Dignity
	}{
		{Sun, Aries, 10, Exalted},
		{Sun, Libra, 10, Debilitated},
		{Sun, Leo, 5, MoolatrikonaDignity},
		{Sun, Leo, 25, OwnSign},
		{Sun, Sagittarius, 1, FriendSign},
		{Sun, Capricorn, 1, EnemySign},
		{Sun, Gemini, 1, NeutralSign},
		{Moon, Taurus, 1, Exalted},
		{Moon, Taurus, 10, MoolatrikonaDignity},
		{Mercury, Virgo, 10, Exalted},
		{Mercury, Virgo, 17, MoolatrikonaDignity},
		{Mercury, Virgo, 25, OwnSign},
		{Mars, Capricorn, 28, Exalted},
		{Mars, Scorpio, 3, OwnSign},
		{Jupiter, Capricorn, 5, Debilitated},
		{Venus, Pisces, 1, Exalted},
		{Saturn, Aquarius, 25, OwnSign},
	}
	for _, tc := range cases {
		l, err := FromSign(tc.sign, tc.degree)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ClassifyDignity(tc.planet, l), "%s in %s %v", tc.planet, tc.sign, tc.degree)
	}
}

func TestNakshatraAttributes(t *testing.T) {
	assert.Equal(t, Ketu, Ashwini.Lord())
	assert.Equal(t, Venus, Bharani.Lord())
	assert.Equal(t, Ketu, Magha.Lord())
	assert.Equal(t, Mercury, Revati.Lord())
	assert.Equal(t, Horse, Ashwini.Yoni())
	assert.Equal(t, Elephant, Revati.Yoni())
	assert.Equal(t, Rakshasa, Krittika.Gana())
	assert.Equal(t, Deva, Revati.Gana())
	assert.Equal(t, Adi, Ashwini.Nadi())
	assert.Equal(t, Antya, Rohini.Nadi())
	assert.Equal(t, Adi, Punarvasu.Nadi())
	assert.Equal(t, Adi, Revati.Nadi())

	counts := map[Gana]int{}
	for i := 0; i < NakshatraCount; i++ {
		counts[NakshatraAt(i).Gana()]++
	}
	assert.Equal(t, map[Gana]int{Deva: 9, Manushya: 9, Rakshasa: 9}, counts)
}

func TestSignArithmetic(t *testing.T) {
	assert.Equal(t, 1, HouseFrom(Leo, Leo))
	assert.Equal(t, 2, HouseFrom(Leo, Virgo))
	assert.Equal(t, 12, HouseFrom(Leo, Cancer))
	assert.Equal(t, 7, HouseFrom(Aries, Libra))
	assert.Equal(t, Cancer, SignAtHouse(Leo, 12))
	assert.Equal(t, Pisces, Aries.Add(-1))
	assert.Equal(t, Aries, SignAt(24))
	assert.Equal(t, Revati, Ashwini.Add(-1))
}

func TestParse(t *testing.T) {
	p, err := ParsePlanet(" jupiter ")
	require.NoError(t, err)
	assert.Equal(t, Jupiter, p)
	_, err = ParsePlanet("Pluto")
	assert.Error(t, err)

	s, err := ParseSign("SCORPIO")
	require.NoError(t, err)
	assert.Equal(t, Scorpio, s)

	n, err := ParseNakshatra("purvaphalguni")
	require.NoError(t, err)
	assert.Equal(t, PurvaPhalguni, n)

	var q Planet
	require.NoError(t, q.UnmarshalText([]byte("Rahu")))
	assert.Equal(t, Rahu, q)
	b, err := q.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Rahu", string(b))
}

//Personal.AI order the ending
