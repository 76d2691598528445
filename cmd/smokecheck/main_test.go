package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hamed0406/smokecheck/internal/smoke"
)

func TestRun_RejectsPositionalArgs(t *testing.T) {
	assert.Equal(t, smoke.ExitConfig, run([]string{"api"}))
}

func TestRun_NoHostExitsZero(t *testing.T) {
	t.Setenv("TARGET_HOST", "")
	t.Setenv("CHECKS_JSON", "")
	t.Setenv("CHECKS_FILE", "")
	t.Setenv("LOG_DIR", "")
	t.Setenv("GITHUB_STEP_SUMMARY", "")
	t.Setenv("SMOKE_RESULTS_JSON", "")

	assert.Equal(t, smoke.ExitOK, run(nil))
}

func TestRun_MalformedChecksIsFatal(t *testing.T) {
	t.Setenv("TARGET_HOST", "")
	t.Setenv("CHECKS_JSON", `{"path": "/"}`)
	t.Setenv("CHECKS_FILE", "")
	t.Setenv("LOG_DIR", "")

	assert.Equal(t, smoke.ExitConfig, run(nil))
}
