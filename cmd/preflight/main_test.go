package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CHECKS_JSON", "CHECKS_FILE", "TARGET_HOST", "GITHUB_STEP_SUMMARY"} {
		t.Setenv(k, "")
	}
	t.Setenv("DEPLOY_TARGET", "api")
	t.Setenv("TARGET_SCHEME", "https")
}

func TestRun_MalformedChecksFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHECKS_JSON", `{"path": "/"}`)

	var out, errOut bytes.Buffer
	code := run(&out, &errOut)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "✖")
	assert.Contains(t, errOut.String(), "CHECKS_JSON")
	assert.NotContains(t, out.String(), "preflight passed")
}

func TestRun_DefaultChecksPass(t *testing.T) {
	clearEnv(t)
	t.Setenv("TARGET_HOST", "api.example.com")

	var out, errOut bytes.Buffer
	code := run(&out, &errOut)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "✔ target https://api.example.com")
	assert.Contains(t, out.String(), "preflight passed")
}

func TestRun_EmptyHostWarns(t *testing.T) {
	clearEnv(t)

	var out, errOut bytes.Buffer
	code := run(&out, &errOut)

	assert.Equal(t, 0, code)
	assert.Contains(t, errOut.String(), "⚠ TARGET_HOST is empty")
}
