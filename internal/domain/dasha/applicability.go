package dasha

import (
	"fmt"

	"github.com/turtacn/jyotish-engine/internal/domain/chart"
	"github.com/turtacn/jyotish-engine/internal/domain/zodiac"
)

// Applicability is the verdict of a system's suitability rule for a chart.
type Applicability struct {
	System     System
	Applicable bool
	Reason     string
}

// IsApplicable evaluates the suitability rule of system s for chart c.
// Systems without a rule always apply.
func IsApplicable(s System, c *chart.Chart) (Applicability, error) {
	d, err := Lookup(s)
	if err != nil {
		return Applicability{}, err
	}
	a, err := d.applicable(c)
	if err != nil {
		return Applicability{}, err
	}
	a.System = s
	return a, nil
}

func always(*chart.Chart) (Applicability, error) {
	return Applicability{Applicable: true, Reason: "system applies to every chart"}, nil
}

// ashtottariHouses are the angular and trinal houses counted from the
// ascendant lord.
var ashtottariHouses = map[int]bool{1: true, 4: true, 5: true, 7: true, 9: true, 10: true}

// ashtottariApplicable requires Rahu in a kendra or trikona from the
// ascendant lord, but not in the ascendant itself.
func ashtottariApplicable(c *chart.Chart) (Applicability, error) {
	ascSign, err := c.AscendantSign()
	if err != nil {
		return Applicability{}, err
	}
	lord := ascSign.Lord()
	lordBody, err := c.Body(lord)
	if err != nil {
		return Applicability{}, err
	}
	rahu, err := c.Body(zodiac.Rahu)
	if err != nil {
		return Applicability{}, err
	}

	if rahu.House == 1 {
		return Applicability{Reason: "Rahu occupies the ascendant"}, nil
	}
	h := (rahu.House-lordBody.House+12)%12 + 1
	if !ashtottariHouses[h] {
		return Applicability{Reason: fmt.Sprintf(
			"Rahu is in house %d from the ascendant lord %s, not a kendra or trikona", h, lord)}, nil
	}
	return Applicability{
		Applicable: true,
		Reason:     fmt.Sprintf("Rahu is in house %d from the ascendant lord %s", h, lord),
	}, nil
}

//Personal.AI order the ending
