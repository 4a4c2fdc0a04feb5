package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	matchApp "github.com/turtacn/jyotish-engine/internal/application/matchmaking"
	"github.com/turtacn/jyotish-engine/internal/domain/chart"
)

// NewMatchCmd creates the match command group.
func NewMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Couple compatibility",
		Long:  "Score couple compatibility over the eight guna categories and assess Mars affliction.",
	}
	cmd.AddCommand(newMatchScoreCmd(), newMatchManglikCmd())
	return cmd
}

func newMatchScoreCmd() *cobra.Command {
	var (
		groomPath string
		bridePath string
		manglik   bool
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a couple's compatibility",
		RunE: runWith(func(cmd *cobra.Command, cc *CLIContext) error {
			groom, err := chart.LoadFile(groomPath)
			if err != nil {
				return err
			}
			bride, err := chart.LoadFile(bridePath)
			if err != nil {
				return err
			}
			in := &matchApp.PairInput{Groom: groom, Bride: bride}

			if manglik {
				res, err := cc.Match.Match(cmd.Context(), in)
				if err != nil {
					return err
				}
				return PrintResult(cmd, res, func(w io.Writer) {
					renderScore(w, res.Compatibility)
					fmt.Fprintln(w)
					renderManglik(w, res.Groom)
					fmt.Fprintln(w)
					renderManglik(w, res.Bride)
					fmt.Fprintf(w, "\nManglik decision: %s\n", res.ManglikDecision)
				})
			}

			res, err := cc.Match.Score(cmd.Context(), in)
			if err != nil {
				return err
			}
			return PrintResult(cmd, res, func(w io.Writer) { renderScore(w, res) })
		}),
	}
	cmd.Flags().StringVar(&groomPath, "groom", "", "groom chart file [REQUIRED]")
	cmd.Flags().StringVar(&bridePath, "bride", "", "bride chart file [REQUIRED]")
	cmd.Flags().BoolVar(&manglik, "manglik", false, "also assess both charts for Manglik affliction")
	_ = cmd.MarkFlagRequired("groom")
	_ = cmd.MarkFlagRequired("bride")
	return cmd
}

func newMatchManglikCmd() *cobra.Command {
	var chartPath string
	cmd := &cobra.Command{
		Use:   "manglik",
		Short: "Assess Mars affliction for one chart",
		RunE: runWith(func(cmd *cobra.Command, cc *CLIContext) error {
			c, err := chart.LoadFile(chartPath)
			if err != nil {
				return err
			}
			res, err := cc.Match.Manglik(cmd.Context(), c)
			if err != nil {
				return err
			}
			return PrintResult(cmd, res, func(w io.Writer) { renderManglik(w, res) })
		}),
	}
	cmd.Flags().StringVar(&chartPath, "chart", "", "chart file (JSON or YAML) [REQUIRED]")
	_ = cmd.MarkFlagRequired("chart")
	return cmd
}

func renderScore(w io.Writer, res *matchApp.ScoreResult) {
	fmt.Fprintf(w, "Groom: %s, Moon in %s, %s pada %d\n", res.Groom.Name, res.Groom.Sign, res.Groom.Nakshatra, res.Groom.Pada)
	fmt.Fprintf(w, "Bride: %s, Moon in %s, %s pada %d\n\n", res.Bride.Name, res.Bride.Sign, res.Bride.Nakshatra, res.Bride.Pada)

	rows := make([][]string, 0, len(res.Categories))
	for _, c := range res.Categories {
		rows = append(rows, []string{c.Name, c.Obtained.String() + "/" + c.Max.String(), c.Detail})
	}
	fmt.Fprint(w, FormatTable([]string{"CATEGORY", "POINTS", "DETAIL"}, rows))
	fmt.Fprintf(w, "\nTotal: %s/%s (%s) %s\n", res.Obtained, res.Max, res.Ratio, res.Rating)

	bands := matchApp.RatingBands()
	legend := make([]string, len(bands))
	for i, b := range bands {
		legend[i] = fmt.Sprintf("%s %s-%s", b.Rating, b.Low.StringFixed(0), b.High.StringFixed(0))
	}
	fmt.Fprintf(w, "Bands: %s\n", strings.Join(legend, ", "))
}

func renderManglik(w io.Writer, res *matchApp.ManglikResult) {
	fmt.Fprintf(w, "%s: Mars in %s, house %d\n", res.Name, res.MarsSign, res.MarsHouse)
	rows := make([][]string, 0, len(res.References))
	for _, r := range res.References {
		rows = append(rows, []string{r.From, strconv.Itoa(r.House), r.Severity})
	}
	fmt.Fprint(w, FormatTable([]string{"FROM", "HOUSE", "SEVERITY"}, rows))
	cancelled := "none"
	if len(res.Cancellations) > 0 {
		cancelled = strings.Join(res.Cancellations, ", ")
	}
	fmt.Fprintf(w, "Raw: %s  Cancellations: %s  Effective: %s\n", res.RawSeverity, cancelled, res.EffectiveSeverity)
}

//Personal.AI order the ending
