// Package chart defines the birth chart consumed by every calculator.  Planet
// longitudes and houses are supplied by an external ephemeris; this package
// validates and exposes them.
package chart

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/jyotish-engine/internal/domain/calendar"
	"github.com/turtacn/jyotish-engine/internal/domain/zodiac"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// identityNamespace scopes chart identities generated by this engine.
var identityNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:jyotish-engine:chart"))

// Body is one tracked body's placement.
type Body struct {
	Longitude zodiac.Longitude
	// House is the occupied house in [1,12].
	House int
}

// Sign returns the sign occupied by the body.
func (b Body) Sign() zodiac.Sign { return b.Longitude.Sign() }

// Chart is a validated birth chart.  Values are immutable once built.
type Chart struct {
	name      string
	birth     time.Time
	ascendant zodiac.Longitude
	hasAsc    bool
	bodies    map[zodiac.Planet]Body
}

// Builder accumulates placements before validation.
type Builder struct {
	name      string
	birth     time.Time
	ascendant *float64
	bodies    map[zodiac.Planet]rawBody
	err       error
}

type rawBody struct {
	longitude float64
	house     int
}

// NewBuilder starts a chart for the given birth instant.
func NewBuilder(name string, birth time.Time) *Builder {
	return &Builder{name: name, birth: birth, bodies: make(map[zodiac.Planet]rawBody)}
}

// Ascendant sets the rising degree.
func (b *Builder) Ascendant(deg float64) *Builder {
	b.ascendant = &deg
	return b
}

// Body places planet p at longitude deg in house.  A house of 0 derives the
// whole-sign house from the ascendant at Build time.
func (b *Builder) Body(p zodiac.Planet, deg float64, house int) *Builder {
	if !p.Valid() {
		if b.err == nil {
			b.err = errors.Newf(errors.CodeInvalidParam, "invalid planet %d", uint8(p))
		}
		return b
	}
	b.bodies[p] = rawBody{longitude: deg, house: house}
	return b
}

// Build validates the accumulated placements.  The Moon is mandatory because
// every period system and every compatibility category is anchored on it.
func (b *Builder) Build() (*Chart, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := calendar.ValidateBirth(b.birth); err != nil {
		return nil, err
	}

	c := &Chart{name: b.name, birth: b.birth, bodies: make(map[zodiac.Planet]Body, len(b.bodies))}
	if b.ascendant != nil {
		asc, err := zodiac.NewLongitude(*b.ascendant)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "invalid ascendant").WithDetail("body=Ascendant")
		}
		c.ascendant = asc
		c.hasAsc = true
	}

	for p, raw := range b.bodies {
		lon, err := zodiac.NewLongitude(raw.longitude)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "invalid body longitude").
				WithDetail(fmt.Sprintf("body=%s value=%v", p, raw.longitude))
		}
		house := raw.house
		switch {
		case house == 0 && c.hasAsc:
			house = zodiac.HouseFrom(c.ascendant.Sign(), lon.Sign())
		case house == 0:
			return nil, errors.New(errors.CodeInvalidHouse, "house missing and no ascendant to derive it").
				WithDetail("body=" + p.String())
		case !zodiac.ValidHouse(house):
			return nil, errors.New(errors.CodeInvalidHouse, "house outside [1,12]").
				WithDetail(fmt.Sprintf("body=%s house=%d", p, house))
		}
		c.bodies[p] = Body{Longitude: lon, House: house}
	}

	if _, ok := c.bodies[zodiac.Moon]; !ok {
		return nil, errors.New(errors.CodeMissingBody, "chart has no Moon")
	}
	return c, nil
}

// Name returns the chart label.
func (c *Chart) Name() string { return c.name }

// Birth returns the birth instant with its original offset.
func (c *Chart) Birth() time.Time { return c.birth }

// Ascendant returns the rising degree and whether it was supplied.
func (c *Chart) Ascendant() (zodiac.Longitude, bool) { return c.ascendant, c.hasAsc }

// AscendantSign returns the rising sign.  Without an explicit ascendant the
// sign of the first house is inferred from any body's house placement.
func (c *Chart) AscendantSign() (zodiac.Sign, error) {
	if c.hasAsc {
		return c.ascendant.Sign(), nil
	}
	for _, p := range zodiac.Planets {
		if b, ok := c.bodies[p]; ok {
			return b.Sign().Add(1 - b.House), nil
		}
	}
	return zodiac.NoSign, errors.New(errors.CodeMissingBody, "chart has no ascendant")
}

// Body returns the placement of p.
func (c *Chart) Body(p zodiac.Planet) (Body, error) {
	b, ok := c.bodies[p]
	if !ok {
		return Body{}, errors.New(errors.CodeMissingBody, "chart is missing a required body").
			WithDetail("body=" + p.String())
	}
	return b, nil
}

// Has reports whether p is placed.
func (c *Chart) Has(p zodiac.Planet) bool {
	_, ok := c.bodies[p]
	return ok
}

// Moon returns the Moon's placement, which Build guarantees.
func (c *Chart) Moon() Body { return c.bodies[zodiac.Moon] }

// Planets returns the placed planets in Planet order.
func (c *Chart) Planets() []zodiac.Planet {
	out := make([]zodiac.Planet, 0, len(c.bodies))
	for _, p := range zodiac.Planets {
		if _, ok := c.bodies[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// HouseOf returns the house of planet p counted from the sign of ref, so
// HouseOf(Mars, Moon) is Mars's house from the Moon.
func (c *Chart) HouseOf(p, ref zodiac.Planet) (int, error) {
	pb, err := c.Body(p)
	if err != nil {
		return 0, err
	}
	rb, err := c.Body(ref)
	if err != nil {
		return 0, err
	}
	return zodiac.HouseFrom(rb.Sign(), pb.Sign()), nil
}

// Identity returns a deterministic identifier derived from the chart's
// content.  Two charts with the same birth instant, offset and placements
// share an identity regardless of name.
func (c *Chart) Identity() uuid.UUID {
	return uuid.NewSHA1(identityNamespace, []byte(c.canonical()))
}

func (c *Chart) canonical() string {
	var sb strings.Builder
	sb.WriteString(c.birth.Format(time.RFC3339Nano))
	if c.hasAsc {
		sb.WriteString("|asc=")
		sb.WriteString(strconv.FormatFloat(c.ascendant.Degrees(), 'g', -1, 64))
	}
	keys := make([]int, 0, len(c.bodies))
	for p := range c.bodies {
		keys = append(keys, int(p))
	}
	sort.Ints(keys)
	for _, k := range keys {
		b := c.bodies[zodiac.Planet(k)]
		fmt.Fprintf(&sb, "|%d=%s@%d", k, strconv.FormatFloat(b.Longitude.Degrees(), 'g', -1, 64), b.House)
	}
	return sb.String()
}

//Personal.AI order the ending
