package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/guregu/null/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/smokecheck/internal/domain"
)

var (
	passed = domain.CheckResult{
		Name:     "GET /healthz",
		Attempts: 1,
		Success:  true,
		Status:   null.IntFrom(200),
		Duration: null.FloatFrom(0.1234),
	}
	failed = domain.CheckResult{
		Name:     "GET /health",
		Attempts: 4,
		Status:   null.IntFrom(500),
		Error:    null.StringFrom("http error 500"),
		Duration: null.FloatFrom(0.045),
	}
	unreachable = domain.CheckResult{
		Name:     "POST /emails/send",
		Attempts: 4,
		Error:    null.StringFrom("dial tcp 10.0.0.1:443: connect: connection refused"),
	}
)

func newReporter(t *testing.T) (*Reporter, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	return &Reporter{
		Stdout:  &out,
		Stderr:  &errOut,
		Target:  "api",
		BaseURL: "https://api.example.com",
	}, &out, &errOut
}

func TestLines(t *testing.T) {
	assert.Equal(t, "- ✅ GET /healthz (status 200, 0.12s, 1 attempt(s))", SummaryLine(passed))
	assert.Equal(t, "- ❌ GET /health failed (status 500, 0.04s, 4 attempt(s)): http error 500", SummaryLine(failed))
	assert.Equal(t,
		"- ❌ POST /emails/send failed (no status, n/a, 4 attempt(s)): dial tcp 10.0.0.1:443: connect: connection refused",
		SummaryLine(unreachable))

	assert.Equal(t, "[ok] GET /healthz (status 200, 0.12s, 1 attempt(s))", ConsoleLine(passed))
	assert.Equal(t, "[fail] GET /health: http error 500 (status 500, 0.04s, 4 attempt(s))", ConsoleLine(failed))
}

func TestResult_RoutesByOutcome(t *testing.T) {
	r, out, errOut := newReporter(t)

	r.Begin()
	r.Result(passed)
	r.Result(failed)

	assert.Equal(t,
		"### Post-deploy smoke checks (api → https://api.example.com)\n[ok] GET /healthz (status 200, 0.12s, 1 attempt(s))\n",
		out.String())
	assert.Equal(t, "[fail] GET /health: http error 500 (status 500, 0.04s, 4 attempt(s))\n", errOut.String())
}

func TestFinish_AppendsNeverTruncates(t *testing.T) {
	r, _, _ := newReporter(t)
	r.SummaryPath = filepath.Join(t.TempDir(), "summary.md")
	require.NoError(t, os.WriteFile(r.SummaryPath, []byte("previous step\n"), 0o644))

	sum := domain.RunSummary{Results: []domain.CheckResult{passed, failed}}
	require.NoError(t, r.Finish(sum))
	require.NoError(t, r.Finish(sum))

	b, err := os.ReadFile(r.SummaryPath)
	require.NoError(t, err)
	block := "### Post-deploy smoke checks (api → https://api.example.com)\n" +
		"\n" +
		"- ✅ GET /healthz (status 200, 0.12s, 1 attempt(s))\n" +
		"- ❌ GET /health failed (status 500, 0.04s, 4 attempt(s)): http error 500\n" +
		"\n"
	assert.Equal(t, "previous step\n"+block+block, string(b))
}

func TestFinish_NoDestinationsIsNotAnError(t *testing.T) {
	r, _, _ := newReporter(t)
	assert.NoError(t, r.Finish(domain.RunSummary{Success: true}))
	assert.NoError(t, AppendSummary("", []string{"x"}))
}

func TestFinish_UnwritableSink(t *testing.T) {
	r, _, _ := newReporter(t)
	r.SummaryPath = filepath.Join(t.TempDir(), "missing-dir", "summary.md")
	assert.Error(t, r.Finish(domain.RunSummary{Success: true}))
}

func TestFinish_WritesResultsArtifact(t *testing.T) {
	r, _, _ := newReporter(t)
	r.ResultsPath = filepath.Join(t.TempDir(), "results.json")

	require.NoError(t, r.Finish(domain.RunSummary{Success: false, Results: []domain.CheckResult{passed, unreachable}}))

	b, err := os.ReadFile(r.ResultsPath)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "api", got["target"])
	assert.Equal(t, "https://api.example.com", got["url"])
	assert.Equal(t, false, got["success"])
	results := got["results"].([]any)
	require.Len(t, results, 2)
	assert.Nil(t, results[1].(map[string]any)["status"])
}

func TestSkip(t *testing.T) {
	var out bytes.Buffer
	r := &Reporter{
		Stdout:      &out,
		Target:      "unknown",
		SummaryPath: filepath.Join(t.TempDir(), "summary.md"),
	}

	require.NoError(t, r.Skip("Target host not provided; skipping smoke checks."))

	assert.Equal(t, "Target host not provided; skipping smoke checks.\n", out.String())
	b, err := os.ReadFile(r.SummaryPath)
	require.NoError(t, err)
	assert.Equal(t,
		"### Post-deploy smoke checks (unknown)\n\n- ⚠️ Target host not provided; skipping smoke checks.\n\n",
		string(b))
}
