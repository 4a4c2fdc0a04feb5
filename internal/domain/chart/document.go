package chart

import (
	"bytes"
	"io"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/jyotish-engine/internal/domain/zodiac"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// Document is the on-disk chart format.  YAML is a superset of JSON, so one
// decoder reads both.
//
//	name: Sample
//	birth: 1990-04-12T06:30:00+05:30
//	ascendant: 12.5
//	bodies:
//	  Moon: {longitude: 45.0, house: 2}
//	  Mars: {longitude: 300.2}
type Document struct {
	Name      string                  `yaml:"name" json:"name"`
	Birth     string                  `yaml:"birth" json:"birth"`
	Ascendant *float64                `yaml:"ascendant,omitempty" json:"ascendant,omitempty"`
	Bodies    map[string]BodyDocument `yaml:"bodies" json:"bodies"`
}

// BodyDocument is one body entry of a Document.  Longitude is required; a
// missing house is derived from the ascendant.
type BodyDocument struct {
	Longitude *float64 `yaml:"longitude" json:"longitude"`
	House     int     `yaml:"house,omitempty" json:"house,omitempty"`
}

// Decode parses a chart document from r and validates it.
func Decode(r io.Reader) (*Chart, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeChartParseFailed, "failed to parse chart document")
	}
	return doc.Chart()
}

// Parse is Decode over a byte slice.
func Parse(data []byte) (*Chart, error) {
	return Decode(bytes.NewReader(data))
}

// LoadFile reads and validates the chart at path.
func LoadFile(path string) (*Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeChartParseFailed, "failed to open chart file").WithDetail(path)
	}
	defer f.Close()
	return Decode(f)
}

// Chart converts the document into a validated Chart.
func (d Document) Chart() (*Chart, error) {
	birth, err := time.Parse(time.RFC3339, d.Birth)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidBirthTime, "birth must be RFC3339 with offset").WithDetail(d.Birth)
	}
	b := NewBuilder(d.Name, birth)
	if d.Ascendant != nil {
		b.Ascendant(*d.Ascendant)
	}
	names := make([]string, 0, len(d.Bodies))
	for name := range d.Bodies {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[zodiac.Planet]string, len(names))
	for _, name := range names {
		body := d.Bodies[name]
		p, err := zodiac.ParsePlanet(name)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeChartParseFailed, "unknown body in chart document").WithDetail(name)
		}
		if prev, dup := seen[p]; dup {
			return nil, errors.New(errors.ErrCodeChartParseFailed, "body listed more than once").WithDetail(prev + ", " + name)
		}
		seen[p] = name
		if body.Longitude == nil {
			return nil, errors.New(errors.ErrCodeChartParseFailed, "body longitude missing").WithDetail(name)
		}
		b.Body(p, *body.Longitude, body.House)
	}
	return b.Build()
}

// ToDocument renders c back into its document form.
func (c *Chart) ToDocument() Document {
	doc := Document{
		Name:   c.name,
		Birth:  c.birth.Format(time.RFC3339Nano),
		Bodies: make(map[string]BodyDocument, len(c.bodies)),
	}
	if c.hasAsc {
		asc := c.ascendant.Degrees()
		doc.Ascendant = &asc
	}
	for p, body := range c.bodies {
		lon := body.Longitude.Degrees()
		doc.Bodies[p.String()] = BodyDocument{Longitude: &lon, House: body.House}
	}
	return doc
}

//Personal.AI order the ending
