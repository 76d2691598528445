// cmd/preflight/main.go
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hamed0406/smokecheck/internal/checks"
	"github.com/hamed0406/smokecheck/internal/config"
)

// preflight validates the smoke-check environment without sending requests.
func main() {
	os.Exit(run(os.Stdout, os.Stderr))
}

func run(stdout, stderr io.Writer) int {
	fail := func(msg string) int {
		fmt.Fprintln(stderr, "✖", msg)
		return 1
	}
	warn := func(msg string) { fmt.Fprintln(stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Fprintln(stdout, "✔", msg) }

	cfg := config.FromEnv()

	specs, err := checks.Load(cfg)
	if err != nil {
		return fail(err.Error())
	}

	if cfg.TargetHost == "" {
		warn("TARGET_HOST is empty; the run will be skipped.")
	} else {
		ok("target " + cfg.BaseURL())
	}
	if cfg.TargetScheme != "https" && cfg.TargetScheme != "http" {
		warn("TARGET_SCHEME=" + cfg.TargetScheme + " is neither http nor https.")
	}

	switch {
	case cfg.ChecksJSON != "":
		ok(fmt.Sprintf("CHECKS_JSON parsed (%d checks)", len(specs)))
	case cfg.ChecksFile != "":
		ok(fmt.Sprintf("CHECKS_FILE %s parsed (%d checks)", cfg.ChecksFile, len(specs)))
	default:
		ok(fmt.Sprintf("built-in checks for target %q (%d checks)", cfg.TargetLabel(), len(specs)))
	}
	if len(specs) == 0 {
		warn("no checks configured; the run will pass without probing anything.")
	}
	for _, s := range specs {
		ok("  " + s.Name)
	}

	ok(fmt.Sprintf("retry policy: %d attempts, initial backoff %s", cfg.MaxAttempts, cfg.InitialBackoff))

	if cfg.SummaryPath == "" {
		warn("GITHUB_STEP_SUMMARY empty; the Markdown summary will not be written.")
	} else {
		ok("summary sink " + cfg.SummaryPath)
	}

	ok("preflight passed")
	return 0
}
