package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/jyotish-engine/internal/domain/chart"
	"github.com/turtacn/jyotish-engine/internal/domain/transit"
	"github.com/turtacn/jyotish-engine/internal/domain/zodiac"
	"github.com/turtacn/jyotish-engine/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/jyotish-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// NewTransitCmd creates the transit command group.
func NewTransitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transit",
		Short: "Transit evaluation from the natal Moon",
	}
	cmd.AddCommand(newTransitVedhaCmd())
	return cmd
}

// VedhaResult is one transiting planet's verdict.
type VedhaResult struct {
	Planet       string   `json:"planet"`
	Sign         string   `json:"sign"`
	House        int      `json:"house"`
	Favourable   bool     `json:"favourable"`
	Obstructed   bool     `json:"obstructed"`
	ObstructedBy []string `json:"obstructed_by,omitempty"`
	Upachaya     bool     `json:"upachaya"`
	Effective    bool     `json:"effective"`
}

// VedhaReport is the transit verdict for one natal Moon sign.
type VedhaReport struct {
	MoonSign string         `json:"moon_sign"`
	Results  []*VedhaResult `json:"results"`
}

func newTransitVedhaCmd() *cobra.Command {
	var (
		chartPath string
		moonSign  string
		positions []string
	)
	cmd := &cobra.Command{
		Use:   "vedha",
		Short: "Judge transits and their obstructions from the natal Moon",
		Example: "  jyotish transit vedha --chart natal.yaml --position Saturn=Aquarius --position Jupiter=Taurus\n" +
			"  jyotish transit vedha --moon-sign Leo --position Sun=Libra,Mars=Aries",
		RunE: runWith(func(cmd *cobra.Command, cc *CLIContext) (err error) {
			start := time.Now()
			defer func() {
				logging.LogComputation(cc.Logger.Named("transit"), "vedha", start, err)
				prom.RecordComputation(cc.Metrics, "vedha", "transit", time.Since(start), err)
			}()

			moon, err := natalMoonSign(chartPath, moonSign)
			if err != nil {
				return err
			}
			transits, err := parsePositions(positions)
			if err != nil {
				return err
			}
			results, err := transit.Evaluate(moon, transits)
			if err != nil {
				return err
			}
			report := toVedhaReport(moon, results)
			return PrintResult(cmd, report, func(w io.Writer) { renderVedha(w, report) })
		}),
	}
	cmd.Flags().StringVar(&chartPath, "chart", "", "chart file whose Moon sign is the reference")
	cmd.Flags().StringVar(&moonSign, "moon-sign", "", "natal Moon sign, instead of --chart")
	cmd.Flags().StringSliceVar(&positions, "position", nil, "transiting placement as Planet=Sign (repeatable) [REQUIRED]")
	cmd.MarkFlagsOneRequired("chart", "moon-sign")
	cmd.MarkFlagsMutuallyExclusive("chart", "moon-sign")
	_ = cmd.MarkFlagRequired("position")
	return cmd
}

func natalMoonSign(chartPath, moonSign string) (zodiac.Sign, error) {
	if moonSign != "" {
		return zodiac.ParseSign(moonSign)
	}
	c, err := chart.LoadFile(chartPath)
	if err != nil {
		return 0, err
	}
	return c.Moon().Sign(), nil
}

// parsePositions reads Planet=Sign pairs; a planet may appear once.
func parsePositions(pairs []string) (map[zodiac.Planet]zodiac.Sign, error) {
	out := make(map[zodiac.Planet]zodiac.Sign, len(pairs))
	for _, pair := range pairs {
		name, sign, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.InvalidParam("position must be Planet=Sign").WithDetail(pair)
		}
		p, err := zodiac.ParsePlanet(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		s, err := zodiac.ParseSign(strings.TrimSpace(sign))
		if err != nil {
			return nil, err
		}
		if _, dup := out[p]; dup {
			return nil, errors.InvalidParam("planet given twice").WithDetail(p.String())
		}
		out[p] = s
	}
	return out, nil
}

func toVedhaReport(moon zodiac.Sign, results []transit.Result) *VedhaReport {
	report := &VedhaReport{MoonSign: moon.String(), Results: make([]*VedhaResult, 0, len(results))}
	for _, r := range results {
		v := &VedhaResult{
			Planet:     r.Planet.String(),
			Sign:       r.Sign.String(),
			House:      r.House,
			Favourable: r.Favourable,
			Obstructed: r.Obstructed,
			Upachaya:   r.Upachaya,
			Effective:  r.Effective(),
		}
		for _, q := range r.ObstructedBy {
			v.ObstructedBy = append(v.ObstructedBy, q.String())
		}
		report.Results = append(report.Results, v)
	}
	return report
}

func renderVedha(w io.Writer, report *VedhaReport) {
	fmt.Fprintf(w, "Natal Moon: %s\n\n", report.MoonSign)
	rows := make([][]string, 0, len(report.Results))
	for _, r := range report.Results {
		rows = append(rows, []string{
			r.Planet,
			r.Sign,
			strconv.Itoa(r.House),
			strconv.FormatBool(r.Favourable),
			strings.Join(r.ObstructedBy, ","),
			strconv.FormatBool(r.Upachaya),
			strconv.FormatBool(r.Effective),
		})
	}
	fmt.Fprint(w, FormatTable([]string{"PLANET", "SIGN", "HOUSE", "FAVOURABLE", "VEDHA", "UPACHAYA", "EFFECTIVE"}, rows))
}

//Personal.AI order the ending
