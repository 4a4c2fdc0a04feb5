package matchmaking

import (
	"fmt"

	"github.com/turtacn/jyotish-engine/internal/domain/zodiac"
)

// Varna is the caste class of a Moon sign, lowest first.
type Varna uint8

const (
	NoVarna Varna = iota
	Shudra
	Vaishya
	Kshatriya
	Brahmin
)

func (v Varna) String() string {
	switch v {
	case Shudra:
		return "Shudra"
	case Vaishya:
		return "Vaishya"
	case Kshatriya:
		return "Kshatriya"
	case Brahmin:
		return "Brahmin"
	}
	return fmt.Sprintf("Varna(%d)", uint8(v))
}

var signVarna = [zodiac.SignCount + 1]Varna{
	NoVarna,
	Kshatriya, Vaishya, Shudra, Brahmin, // Aries..Cancer
	Kshatriya, Vaishya, Shudra, Brahmin, // Leo..Scorpio
	Kshatriya, Vaishya, Shudra, Brahmin, // Sagittarius..Pisces
}

// VarnaOf returns the varna of Moon sign s.
func VarnaOf(s zodiac.Sign) Varna {
	if !s.Valid() || signVarna[s] == NoVarna {
		panic(fmt.Sprintf("matchmaking: varna table has no entry for %s", s))
	}
	return signVarna[s]
}

// Vashya is the control class of a Moon placement.
type Vashya uint8

const (
	NoVashya Vashya = iota
	Chatushpada
	Manava
	Jalachara
	Vanachara
	Keeta
)

func (v Vashya) String() string {
	switch v {
	case Chatushpada:
		return "Chatushpada"
	case Manava:
		return "Manava"
	case Jalachara:
		return "Jalachara"
	case Vanachara:
		return "Vanachara"
	case Keeta:
		return "Keeta"
	}
	return fmt.Sprintf("Vashya(%d)", uint8(v))
}

var signVashya = [zodiac.SignCount + 1]Vashya{
	NoVashya,
	Chatushpada, Chatushpada, Manava, Jalachara, // Aries..Cancer
	Vanachara, Manava, Manava, Keeta, // Leo..Scorpio
	NoVashya, NoVashya, Manava, Jalachara, // Sagittarius, Capricorn split at 15°
}

// VashyaOf returns the vashya of a Moon in sign s at degree deg within it.
// Sagittarius and Capricorn change class at the middle of the sign.
func VashyaOf(s zodiac.Sign, deg float64) Vashya {
	switch s {
	case zodiac.Sagittarius:
		if deg < 15 {
			return Manava
		}
		return Chatushpada
	case zodiac.Capricorn:
		if deg < 15 {
			return Chatushpada
		}
		return Jalachara
	}
	if !s.Valid() || signVashya[s] == NoVashya {
		panic(fmt.Sprintf("matchmaking: vashya table has no entry for %s", s))
	}
	return signVashya[s]
}

// Score matrices hold half-points so every cell is an integer.

// vashyaHalves[groom][bride]
var vashyaHalves = [6][6]int64{
	{},
	{0, 4, 2, 2, 1, 2}, // Chatushpada
	{0, 2, 4, 1, 0, 2}, // Manava
	{0, 2, 1, 4, 2, 2}, // Jalachara
	{0, 1, 0, 2, 4, 0}, // Vanachara
	{0, 2, 2, 2, 0, 4}, // Keeta
}

// yoniPoints is symmetric.
var yoniPoints = [zodiac.YoniCount + 1][zodiac.YoniCount + 1]int64{
	{},
	//  Ho El Sh Se Do Ca Ra Co Bu Ti De Mo Mg Li
	{0, 4, 2, 2, 3, 2, 2, 2, 1, 0, 1, 3, 3, 2, 1}, // Horse
	{0, 2, 4, 3, 3, 2, 2, 2, 2, 3, 1, 2, 3, 2, 0}, // Elephant
	{0, 2, 3, 4, 2, 1, 2, 1, 3, 3, 1, 2, 0, 3, 1}, // Sheep
	{0, 3, 3, 2, 4, 2, 1, 1, 1, 1, 2, 2, 2, 0, 2}, // Serpent
	{0, 2, 2, 1, 2, 4, 2, 1, 2, 2, 1, 0, 2, 1, 1}, // Dog
	{0, 2, 2, 2, 1, 2, 4, 0, 2, 2, 1, 3, 3, 2, 1}, // Cat
	{0, 2, 2, 1, 1, 1, 0, 4, 2, 2, 2, 2, 2, 1, 2}, // Rat
	{0, 1, 2, 3, 1, 2, 2, 2, 4, 3, 0, 3, 2, 2, 1}, // Cow
	{0, 0, 3, 3, 1, 2, 2, 2, 3, 4, 1, 2, 2, 2, 1}, // Buffalo
	{0, 1, 1, 1, 2, 1, 1, 2, 0, 1, 4, 1, 1, 2, 1}, // Tiger
	{0, 3, 2, 2, 2, 0, 3, 2, 3, 2, 1, 4, 2, 2, 1}, // Deer
	{0, 3, 3, 0, 2, 2, 3, 2, 2, 2, 1, 2, 4, 3, 2}, // Monkey
	{0, 2, 2, 3, 0, 1, 2, 1, 2, 2, 2, 2, 3, 4, 2}, // Mongoose
	{0, 1, 0, 1, 2, 1, 1, 2, 1, 1, 1, 1, 2, 2, 4}, // Lion
}

// ganaPoints[groom][bride]
var ganaPoints = [4][4]int64{
	{},
	{0, 6, 6, 1}, // Deva
	{0, 5, 6, 0}, // Manushya
	{0, 1, 0, 6}, // Rakshasa
}

// maitriHalves[a][b] scores the pair of natural relations between the two
// Moon-sign lords, in half-points.
var maitriHalves = [4][4]int64{
	{},
	{0, 10, 8, 2}, // Friend
	{0, 8, 6, 1},  // Neutral
	{0, 2, 1, 0},  // Enemy
}

// badTara are the inauspicious remainders of the nine-star count.
var badTara = map[int]bool{3: true, 5: true, 7: true}

// badBhakoot are the house distances forming 2/12, 5/9 and 6/8 pairs.
var badBhakoot = map[int]bool{2: true, 12: true, 5: true, 9: true, 6: true, 8: true}

//Personal.AI order the ending
