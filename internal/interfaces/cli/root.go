// Package cli implements the jyotish command line host: global flags, config
// loading, logger initialisation, service wiring and output formatting.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	dashaApp "github.com/turtacn/jyotish-engine/internal/application/dasha"
	matchApp "github.com/turtacn/jyotish-engine/internal/application/matchmaking"
	"github.com/turtacn/jyotish-engine/internal/config"
	redisinfra "github.com/turtacn/jyotish-engine/internal/infrastructure/database/redis"
	"github.com/turtacn/jyotish-engine/internal/infrastructure/monitoring/logging"
	prom "github.com/turtacn/jyotish-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	MetricsFile  string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Collector    prom.MetricsCollector
	Metrics      *prom.EngineMetrics
	Dasha        dashaApp.Service
	Match        matchApp.Service
	Cache        redisinfra.Cache
	OutputFormat string
	MetricsFile  string

	closers []func() error
}

// NewRootCommand creates the root cobra command with all global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "jyotish",
		Short: "Jyotish period and compatibility engine",
		Long: "jyotish computes planetary period timelines (Vimshottari, Ashtottari, Yogini),\n" +
			"junction windows and system applicability from a birth chart, scores couple\n" +
			"compatibility with the eight-category guna method and Manglik assessment, and\n" +
			"evaluates transit vedha from the natal Moon.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: JYOTISH_* environment and built-in defaults)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error); overrides log.level")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")
	pf.StringVar(&opts.MetricsFile, "metrics-file", "", "write metrics in Prometheus text format to this file after the command")

	cmd.AddCommand(
		NewDashaCmd(),
		NewMatchCmd(),
		NewTransitCmd(),
		NewCacheCmd(),
		newVersionCmd(),
	)
	return cmd
}

// persistentPreRun initializes config, logger, metrics and services, then
// stores CLIContext on the command.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch strings.ToLower(opts.OutputFormat) {
	case "text", "json":
	default:
		return errors.InvalidParam("output must be text or json").WithDetail(opts.OutputFormat)
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	logging.SetDefault(logger)

	collector, err := prom.NewMetricsCollector(prom.CollectorConfig{
		Namespace: cfg.Metrics.Namespace,
		Subsystem: cfg.Metrics.Subsystem,
	}, logger.Named("metrics"))
	if err != nil {
		return fmt.Errorf("metrics initialization failed: %w", err)
	}
	metrics := prom.NewEngineMetrics(collector)

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Collector:    collector,
		Metrics:      metrics,
		OutputFormat: strings.ToLower(opts.OutputFormat),
		MetricsFile:  opts.MetricsFile,
	}
	if cliCtx.MetricsFile == "" && cfg.Metrics.Enabled {
		cliCtx.MetricsFile = cfg.Metrics.TextfilePath
	}

	dashaOpts := []dashaApp.Option{dashaApp.WithMetrics(metrics)}
	if cliCtx.Cache = initCache(cliCtx); cliCtx.Cache != nil {
		dashaOpts = append(dashaOpts, dashaApp.WithCache(cliCtx.Cache))
	}
	if cliCtx.Dasha, err = dashaApp.NewService(cfg, logger, dashaOpts...); err != nil {
		return err
	}
	if cliCtx.Match, err = matchApp.NewService(cfg, logger, matchApp.WithMetrics(metrics)); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads the file named by --config or, without one, the
// environment, then applies the --log-level override.
func initConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		if _, err := logging.ParseLevel(opts.LogLevel); err != nil {
			return nil, err
		}
		cfg.Log.Level = strings.ToLower(opts.LogLevel)
	}
	return cfg, nil
}

// initLogger creates a logger that writes to stderr unless the config names
// other outputs, keeping stdout for results.
func initLogger(cfg *config.Config) (logging.Logger, error) {
	return logging.NewLogger(logging.LogConfig{
		Level:       logging.Level(cfg.Log.Level),
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
}

// initCache connects the redis timeline cache when enabled.  An unreachable
// server is logged and the commands run uncached.
func initCache(cc *CLIContext) redisinfra.Cache {
	if !cc.Config.Redis.Enabled {
		return nil
	}
	client, err := redisinfra.NewClient(cc.Config.Redis, cc.Logger.Named("redis"))
	if err != nil {
		cc.Logger.Warn("Redis unavailable, computing without cache", logging.Err(err))
		return nil
	}
	cc.closers = append(cc.closers, client.Close)
	return redisinfra.NewRedisCache(client, cc.Logger.Named("cache"),
		redisinfra.WithTTLJitter(cc.Config.Redis.TTLJitter),
		redisinfra.WithLookupObserver(func(hit bool) {
			prom.RecordCacheAccess(cc.Metrics, "timeline", hit)
		}))
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLIContext not found in command context")
	}
	return cliCtx, nil
}

// runWith adapts fn into a RunE that receives the CLIContext and always
// finishes the command: metrics are flushed and resources closed whether or
// not fn fails.
func runWith(fn func(cmd *cobra.Command, cc *CLIContext) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cc, err := GetCLIContext(cmd)
		if err != nil {
			return err
		}
		runErr := fn(cmd, cc)
		if finishErr := cc.finish(); finishErr != nil && runErr == nil {
			return finishErr
		}
		return runErr
	}
}

// finish writes the metrics textfile and releases resources.
func (cc *CLIContext) finish() error {
	var firstErr error
	if cc.MetricsFile != "" {
		if err := cc.Collector.WriteTextfile(cc.MetricsFile); err != nil {
			cc.Logger.Error("Failed to write metrics file", logging.String("path", cc.MetricsFile), logging.Err(err))
			firstErr = errors.Wrap(err, errors.ErrCodeInternal, "failed to write metrics file").WithDetail(cc.MetricsFile)
		}
	}
	for _, closeFn := range cc.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	cc.closers = nil
	_ = cc.Logger.Sync()
	return firstErr
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// PrintResult writes data as indented JSON or, for text output, through
// the text renderer.
func PrintResult(cmd *cobra.Command, data interface{}, text func(w io.Writer)) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil || cliCtx.OutputFormat == "json" || text == nil {
		return printJSON(cmd.OutOrStdout(), data)
	}
	text(cmd.OutOrStdout())
	return nil
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

// FormatTable renders headers and rows as an aligned ASCII table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if len(row[i]) > colWidths[i] {
				colWidths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i := range headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			if i == len(headers)-1 {
				sb.WriteString(val)
			} else {
				sb.WriteString(padRight(val, colWidths[i]))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	sep := make([]string, len(colWidths))
	for i, w := range colWidths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

// padRight pads s with spaces to the given width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// The version command needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "jyotish %s (commit: %s, built: %s)\n", Version, GitCommit, BuildDate)
			return nil
		},
	}
}

//Personal.AI order the ending
