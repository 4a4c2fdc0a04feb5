package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	dashaApp "github.com/turtacn/jyotish-engine/internal/application/dasha"
	"github.com/turtacn/jyotish-engine/internal/domain/chart"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

const dateLayout = "2006-01-02"

// NewDashaCmd creates the dasha command group.
func NewDashaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dasha",
		Short: "Planetary period timelines",
		Long:  "Compute period timelines, the running periods at an instant, junction windows and system applicability for a birth chart.",
	}
	cmd.AddCommand(
		newDashaPeriodsCmd(),
		newDashaCurrentCmd(),
		newDashaSandhiCmd(),
		newDashaApplicableCmd(),
	)
	return cmd
}

// timelineFlags are shared by the commands that compute a timeline.
type timelineFlags struct {
	chartPath string
	system    string
	cycles    int
	depth     int
}

func (f *timelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.chartPath, "chart", "", "chart file (JSON or YAML) [REQUIRED]")
	cmd.Flags().StringVar(&f.system, "system", "", "period system: vimshottari, ashtottari or yogini (default: engine.default_system)")
	cmd.Flags().IntVar(&f.cycles, "cycles", 0, "number of full cycles (default: engine.default_cycles)")
	cmd.Flags().IntVar(&f.depth, "depth", 0, "subdivision depth 1-5 (default: engine.default_depth)")
	_ = cmd.MarkFlagRequired("chart")
}

func (f *timelineFlags) input() (dashaApp.TimelineInput, error) {
	c, err := chart.LoadFile(f.chartPath)
	if err != nil {
		return dashaApp.TimelineInput{}, err
	}
	return dashaApp.TimelineInput{Chart: c, System: f.system, Cycles: f.cycles, Depth: f.depth}, nil
}

func newDashaPeriodsCmd() *cobra.Command {
	var flags timelineFlags
	cmd := &cobra.Command{
		Use:   "periods",
		Short: "List the full period timeline",
		RunE: runWith(func(cmd *cobra.Command, cc *CLIContext) error {
			in, err := flags.input()
			if err != nil {
				return err
			}
			res, err := cc.Dasha.Periods(cmd.Context(), &dashaApp.PeriodsInput{TimelineInput: in})
			if err != nil {
				return err
			}
			return PrintResult(cmd, res, func(w io.Writer) { renderPeriods(w, res) })
		}),
	}
	flags.register(cmd)
	return cmd
}

func newDashaCurrentCmd() *cobra.Command {
	var (
		flags timelineFlags
		at    string
		age   int
	)
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the periods running at an instant or age",
		RunE: runWith(func(cmd *cobra.Command, cc *CLIContext) error {
			in, err := flags.input()
			if err != nil {
				return err
			}
			req := &dashaApp.CurrentInput{TimelineInput: in}
			if cmd.Flags().Changed("age") {
				if cmd.Flags().Changed("at") {
					return errors.InvalidParam("--at and --age are mutually exclusive")
				}
				req.Age = &age
			} else if at != "" {
				if req.At, err = parseInstant(at); err != nil {
					return err
				}
			}
			res, err := cc.Dasha.Current(cmd.Context(), req)
			if err != nil {
				return err
			}
			return PrintResult(cmd, res, func(w io.Writer) { renderCurrent(w, res) })
		}),
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&at, "at", "", "instant as RFC3339 or YYYY-MM-DD (default: now)")
	cmd.Flags().IntVar(&age, "age", 0, "civil age in years, evaluated on that birthday")
	return cmd
}

func newDashaSandhiCmd() *cobra.Command {
	var (
		flags timelineFlags
		asOf  string
		level int
	)
	cmd := &cobra.Command{
		Use:   "sandhi",
		Short: "List junction windows around an instant",
		RunE: runWith(func(cmd *cobra.Command, cc *CLIContext) error {
			in, err := flags.input()
			if err != nil {
				return err
			}
			req := &dashaApp.SandhiInput{TimelineInput: in, Level: level}
			if asOf != "" {
				if req.AsOf, err = parseInstant(asOf); err != nil {
					return err
				}
			}
			res, err := cc.Dasha.Sandhi(cmd.Context(), req)
			if err != nil {
				return err
			}
			return PrintResult(cmd, res, func(w io.Writer) { renderSandhi(w, res) })
		}),
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluation instant as RFC3339 or YYYY-MM-DD (default: now)")
	cmd.Flags().IntVar(&level, "level", 0, "period level whose boundaries are examined (default: sandhi.level)")
	return cmd
}

func newDashaApplicableCmd() *cobra.Command {
	var chartPath string
	cmd := &cobra.Command{
		Use:   "applicable",
		Short: "Check which period systems apply to a chart",
		RunE: runWith(func(cmd *cobra.Command, cc *CLIContext) error {
			c, err := chart.LoadFile(chartPath)
			if err != nil {
				return err
			}
			res, err := cc.Dasha.Applicable(cmd.Context(), c)
			if err != nil {
				return err
			}
			return PrintResult(cmd, res, func(w io.Writer) { renderApplicable(w, res) })
		}),
	}
	cmd.Flags().StringVar(&chartPath, "chart", "", "chart file (JSON or YAML) [REQUIRED]")
	_ = cmd.MarkFlagRequired("chart")
	return cmd
}

// parseInstant accepts RFC3339 or a bare date at UTC midnight.
func parseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errors.InvalidParam("instant must be RFC3339 or YYYY-MM-DD").WithDetail(s)
	}
	return t, nil
}

// Renderers

func renderPeriods(w io.Writer, res *dashaApp.PeriodsResult) {
	fmt.Fprintf(w, "System:   %s (%s balance)\n", res.System, res.Policy)
	fmt.Fprintf(w, "Chart:    %s\n", res.ChartID)
	fmt.Fprintf(w, "At birth: %s, %.1f%% elapsed; balance %dy %dm %dd\n\n",
		res.StartPoint.Lord, res.StartPoint.Fraction*100, res.Balance.Years, res.Balance.Months, res.Balance.Days)

	var rows [][]string
	var walk func(ps []*dashaApp.Period, indent int)
	walk = func(ps []*dashaApp.Period, indent int) {
		for _, p := range ps {
			rows = append(rows, []string{
				strings.Repeat("  ", indent) + p.Path,
				p.Start.Format(dateLayout),
				p.End.Format(dateLayout),
				strconv.FormatFloat(p.Years, 'f', 2, 64),
			})
			walk(p.Children, indent+1)
		}
	}
	walk(res.Periods, 0)
	fmt.Fprint(w, FormatTable([]string{"PERIOD", "START", "END", "YEARS"}, rows))
}

func renderCurrent(w io.Writer, res *dashaApp.CurrentResult) {
	fmt.Fprintf(w, "System: %s\nAt:     %s\n\n", res.System, res.At.Format(time.RFC3339))
	rows := make([][]string, 0, len(res.Chain))
	for _, p := range res.Chain {
		rows = append(rows, []string{
			p.Level,
			p.Path,
			p.Start.Format(dateLayout),
			p.End.Format(dateLayout),
			fmt.Sprintf("%.1f%%", p.Progress*100),
			strconv.FormatFloat(p.RemainingDays, 'f', 0, 64),
		})
	}
	fmt.Fprint(w, FormatTable([]string{"LEVEL", "PERIOD", "START", "END", "PROGRESS", "DAYS LEFT"}, rows))
}

func renderSandhi(w io.Writer, res *dashaApp.SandhiResult) {
	fmt.Fprintf(w, "System: %s\nLevel:  %s\nAs of:  %s\n\n", res.System, res.Level, res.AsOf.Format(time.RFC3339))
	if len(res.Windows) == 0 {
		fmt.Fprintln(w, "No junctions in range.")
		return
	}
	rows := make([][]string, 0, len(res.Windows))
	for _, j := range res.Windows {
		active := ""
		if j.Active {
			active = "yes"
		}
		rows = append(rows, []string{
			j.From + " -> " + j.To,
			j.Boundary.Format(dateLayout),
			j.WindowStart.Format(dateLayout) + " .. " + j.WindowEnd.Format(dateLayout),
			j.Intensity,
			active,
		})
	}
	fmt.Fprint(w, FormatTable([]string{"JUNCTION", "BOUNDARY", "WINDOW", "INTENSITY", "ACTIVE"}, rows))
}

func renderApplicable(w io.Writer, res []*dashaApp.ApplicabilityResult) {
	rows := make([][]string, 0, len(res))
	for _, r := range res {
		rows = append(rows, []string{r.System, strconv.FormatBool(r.Applicable), r.Reason})
	}
	fmt.Fprint(w, FormatTable([]string{"SYSTEM", "APPLICABLE", "REASON"}, rows))
}

//Personal.AI order the ending
