package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hamed0406/smokecheck/internal/config"
	"github.com/hamed0406/smokecheck/internal/logging"
	"github.com/hamed0406/smokecheck/internal/smoke"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "usage: smokecheck (configured through environment variables)")
		return smoke.ExitConfig
	}

	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		return smoke.ExitConfig
	}
	defer func() { _ = logger.Sync() }()

	app := &smoke.App{
		Config: cfg,
		Logger: logger,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	code, err := app.Run(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "✖", err)
	}
	return code
}
