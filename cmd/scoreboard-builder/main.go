// Command scoreboard-builder assembles a scoreboard template for one day from the league
// schedule and each game's final box score.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/preston-bernstein/nba-replay-service/internal/builder"
	"github.com/preston-bernstein/nba-replay-service/internal/fixtures"
	"github.com/preston-bernstein/nba-replay-service/internal/logging"
	"github.com/preston-bernstein/nba-replay-service/internal/metrics"
	"github.com/preston-bernstein/nba-replay-service/internal/providers"
	"github.com/preston-bernstein/nba-replay-service/internal/providers/nbacdn"
	"github.com/preston-bernstein/nba-replay-service/internal/timeutil"
)

const (
	defaultOutput   = "res_scoreboard.json"
	defaultTimezone = "America/New_York"
	retryAttempts   = 3
	retryBackoff    = 500 * time.Millisecond
)

type options struct {
	date        string
	timezone    string
	output      string
	assets      string
	baseURL     string
	timeout     time.Duration
	pace        time.Duration
	concurrency int
	logLevel    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr, time.Now); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("scoreboard-builder", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.date, "date", "", "game day as YYYY-MM-DD (defaults to today in --tz)")
	fs.StringVar(&opts.timezone, "tz", defaultTimezone, "IANA timezone used to resolve today's date")
	fs.StringVarP(&opts.output, "out", "o", defaultOutput, "output file, relative paths resolve against --assets")
	fs.StringVar(&opts.assets, "assets", "assets", "directory holding schedule.json")
	fs.StringVar(&opts.baseURL, "base-url", "", "live data CDN base URL")
	fs.DurationVar(&opts.timeout, "timeout", 10*time.Second, "per-request upstream timeout")
	fs.DurationVar(&opts.pace, "pace", 0, "minimum spacing between upstream requests (0 disables pacing)")
	fs.IntVar(&opts.concurrency, "concurrency", 4, "box scores fetched in parallel")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stderr io.Writer, now func() time.Time) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	logger := logging.NewLogger(logging.Config{
		Level:   opts.logLevel,
		Service: "scoreboard-builder",
		Output:  stderr,
	})

	date, err := resolveDate(opts, now)
	if err != nil {
		return err
	}

	upstream, cleanup := buildUpstream(opts, logger)
	defer cleanup()

	store := fixtures.NewFSStore(opts.assets)
	resp, err := builder.New(store, upstream, logger, opts.concurrency).Build(ctx, date)
	if err != nil {
		return fmt.Errorf("build scoreboard for %s: %w", timeutil.FormatDate(date), err)
	}

	if err := store.SaveScoreboard(ctx, opts.output, resp); err != nil {
		return fmt.Errorf("write scoreboard: %w", err)
	}
	logging.Info(logger, "scoreboard written",
		slog.String(logging.FieldDate, timeutil.FormatDate(date)),
		slog.Int(logging.FieldCount, len(resp.Scoreboard.Games)),
		slog.String(logging.FieldPath, opts.output),
	)
	return nil
}

func resolveDate(opts options, now func() time.Time) (time.Time, error) {
	if opts.date == "" {
		return timeutil.DayIn(now(), timeutil.ResolveLocation(opts.timezone)), nil
	}
	date, err := timeutil.ParseDate(opts.date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD): %w", opts.date, err)
	}
	return date, nil
}

func buildUpstream(opts options, logger *slog.Logger) (providers.Upstream, func()) {
	client := nbacdn.NewClient(nbacdn.Config{BaseURL: opts.baseURL, Timeout: opts.timeout})
	var upstream providers.Upstream = client
	cleanup := func() {}
	if opts.pace > 0 {
		paced := providers.NewPacedUpstream(client, opts.pace, logger)
		upstream = paced
		cleanup = paced.Stop
	}
	return providers.NewRetryingUpstream(upstream, logger, metrics.NewRecorder(), client.Name(), retryAttempts, retryBackoff), cleanup
}
