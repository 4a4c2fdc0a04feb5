package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	dashaApp "github.com/turtacn/jyotish-engine/internal/application/dasha"
	"github.com/turtacn/jyotish-engine/internal/domain/chart"
	"github.com/turtacn/jyotish-engine/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// NewCacheCmd creates the cache command group for the redis timeline cache.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and purge the timeline cache",
	}
	cmd.AddCommand(newCachePingCmd(), newCachePurgeCmd())
	return cmd
}

// CacheReport is the outcome of a cache command.
type CacheReport struct {
	Status  string `json:"status"`
	Prefix  string `json:"prefix,omitempty"`
	Deleted int64  `json:"deleted"`
}

func requireCache(cc *CLIContext) error {
	if cc.Cache == nil {
		return errors.New(errors.ErrCodeServiceUnavailable, "timeline cache is not available").
			WithDetail("set redis.enabled and check redis.addr")
	}
	return nil
}

func newCachePingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the cache connection",
		RunE: runWith(func(cmd *cobra.Command, cc *CLIContext) error {
			if err := requireCache(cc); err != nil {
				return err
			}
			if err := cc.Cache.Ping(cmd.Context()); err != nil {
				return errors.Wrap(err, errors.ErrCodeCacheError, "cache ping failed")
			}
			report := &CacheReport{Status: "ok"}
			return PrintResult(cmd, report, func(w io.Writer) { fmt.Fprintln(w, "Cache: ok") })
		}),
	}
}

func newCachePurgeCmd() *cobra.Command {
	var chartPath string
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached timelines, for one chart or all",
		RunE: runWith(func(cmd *cobra.Command, cc *CLIContext) error {
			prefix := dashaApp.TimelineKeyPrefix
			if chartPath != "" {
				c, err := chart.LoadFile(chartPath)
				if err != nil {
					return err
				}
				prefix = dashaApp.ChartKeyPrefix(c)
			}
			if err := requireCache(cc); err != nil {
				return err
			}
			n, err := cc.Cache.DeleteByPrefix(cmd.Context(), prefix)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeCacheError, "cache purge failed").WithDetail(prefix)
			}
			cc.Logger.Named("cache").Info("Purged cached timelines", logging.String("prefix", prefix), logging.Int64("deleted", n))
			report := &CacheReport{Status: "ok", Prefix: prefix, Deleted: n}
			return PrintResult(cmd, report, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted %d cached timeline(s) under %q\n", n, prefix)
			})
		}),
	}
	cmd.Flags().StringVar(&chartPath, "chart", "", "limit the purge to this chart's timelines")
	return cmd
}

//Personal.AI order the ending
