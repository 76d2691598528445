// Package smoke runs a post-deploy smoke check end to end: load the checks,
// probe each one in order with retries, report, and map the run to an exit
// code.
package smoke

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hamed0406/smokecheck/internal/aggregate"
	"github.com/hamed0406/smokecheck/internal/checks"
	"github.com/hamed0406/smokecheck/internal/config"
	"github.com/hamed0406/smokecheck/internal/domain"
	"github.com/hamed0406/smokecheck/internal/notify"
	"github.com/hamed0406/smokecheck/internal/probe"
	"github.com/hamed0406/smokecheck/internal/report"
)

const (
	ExitOK     = 0
	ExitFailed = 1
	ExitConfig = 2
)

const (
	msgNoHost   = "Target host not provided; skipping smoke checks."
	msgNoChecks = "No checks configured; exiting without action."
)

type App struct {
	Config config.Config
	Logger *zap.Logger

	Stdout io.Writer
	Stderr io.Writer

	// Optional overrides, mostly for tests.
	Client   *http.Client
	Clock    probe.Sleeper
	Notifier notify.Notifier
}

// Run executes one smoke-check run. A non-nil error is returned only for a
// fatal configuration problem, together with ExitConfig.
func (a *App) Run(ctx context.Context) (int, error) {
	cfg := a.Config
	log := a.logger()

	specs, err := checks.Load(cfg)
	if err != nil {
		log.Error("checks_invalid", zap.Error(err))
		return ExitConfig, err
	}

	rep := &report.Reporter{
		Stdout:      a.Stdout,
		Stderr:      a.Stderr,
		SummaryPath: cfg.SummaryPath,
		ResultsPath: cfg.ResultsPath,
		Target:      cfg.TargetLabel(),
		Logger:      log,
	}

	if cfg.TargetHost == "" {
		a.skip(rep, msgNoHost)
		return ExitOK, nil
	}
	rep.BaseURL = cfg.BaseURL()

	if len(specs) == 0 {
		a.skip(rep, msgNoChecks)
		return ExitOK, nil
	}

	prober := probe.NewHTTPProber(cfg.TargetScheme, cfg.TargetHost, probe.AttemptTimeout)
	if a.Client != nil {
		prober.Client = a.Client
	}
	retrier := probe.NewRetrier(prober, probe.Policy{
		MaxAttempts:    cfg.MaxAttempts,
		InitialBackoff: cfg.InitialBackoff,
	}, log)
	if a.Clock != nil {
		retrier.Clock = a.Clock
	}

	log.Info("run_started",
		zap.String("target", rep.Target),
		zap.String("url", rep.BaseURL),
		zap.Int("checks", len(specs)),
		zap.Int("max_attempts", retrier.Policy.MaxAttempts),
		zap.Duration("initial_backoff", retrier.Policy.InitialBackoff),
	)

	rep.Begin()
	agg := aggregate.New(len(specs))
	for _, spec := range specs {
		res := retrier.Execute(ctx, spec)
		agg.Add(res)
		rep.Result(res)
	}

	sum := agg.Summary()
	if err := rep.Finish(sum); err != nil {
		log.Warn("report_write_failed", zap.Error(err))
	}
	if !sum.Success {
		a.notifyFailure(ctx, rep, sum)
		return ExitFailed, nil
	}
	return ExitOK, nil
}

func (a *App) skip(rep *report.Reporter, msg string) {
	if err := rep.Skip(msg); err != nil {
		a.logger().Warn("report_write_failed", zap.Error(err))
	}
}

func (a *App) notifyFailure(ctx context.Context, rep *report.Reporter, sum domain.RunSummary) {
	n := a.Notifier
	if n == nil {
		if s := notify.NewSlack(a.Config.SlackWebhook); s != nil {
			n = s
		}
	}
	if n == nil {
		return
	}

	title := fmt.Sprintf("🔴 Post-deploy smoke checks failed (%s → %s)", rep.Target, rep.BaseURL)
	var lines []string
	for _, res := range sum.Results {
		if !res.Success {
			lines = append(lines, report.SummaryLine(res))
		}
	}
	text := fmt.Sprintf("%d of %d checks failed\n%s", sum.Failures(), len(sum.Results), strings.Join(lines, "\n"))

	if err := n.Send(ctx, title, text); err != nil {
		a.logger().Warn("notify_failed", zap.Error(err))
	}
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}
