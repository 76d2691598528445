package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/smokecheck/internal/domain"
)

// Reporter prints results for operators and records the run in the optional
// summary sink and JSON artifact.
type Reporter struct {
	Stdout io.Writer
	Stderr io.Writer

	SummaryPath string // appended to, never truncated
	ResultsPath string // rewritten each run

	Target  string
	BaseURL string // scheme://host

	Logger *zap.Logger
}

type artifact struct {
	Target  string `json:"target"`
	URL     string `json:"url,omitempty"`
	Skipped string `json:"skipped,omitempty"`
	domain.RunSummary
}

func (r *Reporter) Header() string {
	if r.BaseURL == "" {
		return fmt.Sprintf("### Post-deploy smoke checks (%s)", r.Target)
	}
	return fmt.Sprintf("### Post-deploy smoke checks (%s → %s)", r.Target, r.BaseURL)
}

// Begin prints the header line.
func (r *Reporter) Begin() {
	fmt.Fprintln(r.stdout(), r.Header())
}

// Result prints one finalized result: successes to stdout, failures to stderr.
func (r *Reporter) Result(res domain.CheckResult) {
	if res.Success {
		fmt.Fprintln(r.stdout(), ConsoleLine(res))
		return
	}
	fmt.Fprintln(r.stderr(), ConsoleLine(res))
}

// Finish appends the Markdown block to the summary sink and writes the JSON
// artifact. Either destination is skipped when not configured.
func (r *Reporter) Finish(sum domain.RunSummary) error {
	lines := append([]string{r.Header(), ""}, SummaryLines(sum)...)
	err := AppendSummary(r.SummaryPath, lines)
	err = multierr.Append(err, r.writeArtifact(artifact{Target: r.Target, URL: r.BaseURL, RunSummary: sum}))

	r.logger().Info("run_finished",
		zap.String("target", r.Target),
		zap.String("url", r.BaseURL),
		zap.Bool("success", sum.Success),
		zap.Int("checks", len(sum.Results)),
		zap.Int("failures", sum.Failures()),
	)
	return err
}

// Skip reports a run that ended before any check was attempted.
func (r *Reporter) Skip(message string) error {
	fmt.Fprintln(r.stdout(), message)
	r.logger().Warn("run_skipped", zap.String("target", r.Target), zap.String("reason", message))

	lines := []string{r.Header(), "", "- ⚠️ " + message}
	err := AppendSummary(r.SummaryPath, lines)
	return multierr.Append(err, r.writeArtifact(artifact{
		Target:     r.Target,
		URL:        r.BaseURL,
		Skipped:    message,
		RunSummary: domain.RunSummary{Success: true, Empty: true, Results: []domain.CheckResult{}},
	}))
}

func (r *Reporter) writeArtifact(a artifact) error {
	if r.ResultsPath == "" {
		return nil
	}
	b, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if err := os.WriteFile(r.ResultsPath, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// SummaryLines renders one Markdown list item per result, in order.
func SummaryLines(sum domain.RunSummary) []string {
	lines := make([]string, 0, len(sum.Results))
	for _, res := range sum.Results {
		lines = append(lines, SummaryLine(res))
	}
	return lines
}

func SummaryLine(res domain.CheckResult) string {
	if res.Success {
		return fmt.Sprintf("- ✅ %s (%s)", res.Name, details(res))
	}
	return fmt.Sprintf("- ❌ %s failed (%s): %s", res.Name, details(res), res.Error.ValueOrZero())
}

func ConsoleLine(res domain.CheckResult) string {
	if res.Success {
		return fmt.Sprintf("[ok] %s (%s)", res.Name, details(res))
	}
	return fmt.Sprintf("[fail] %s: %s (%s)", res.Name, res.Error.ValueOrZero(), details(res))
}

// details is "status 200, 0.12s, 1 attempt(s)".
func details(res domain.CheckResult) string {
	status := "no status"
	if res.Status.Valid {
		status = fmt.Sprintf("status %d", res.Status.Int64)
	}
	duration := "n/a"
	if res.Duration.Valid {
		duration = fmt.Sprintf("%.2fs", res.Duration.Float64)
	}
	return strings.Join([]string{status, duration, fmt.Sprintf("%d attempt(s)", res.Attempts)}, ", ")
}

// AppendSummary appends lines and a trailing blank line to path. An empty
// path is not an error.
func AppendSummary(path string, lines []string) (err error) {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open summary: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if _, err := io.WriteString(f, b.String()); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func (r *Reporter) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r *Reporter) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

func (r *Reporter) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
