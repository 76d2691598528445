package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

const (
	DefaultMaxAttempts    = 4
	DefaultInitialBackoff = 2 * time.Second
	DefaultScheme         = "https"
	DefaultRunID          = "local"
	DefaultEmailTo        = "kontakt@salon-bw.pl"
)

// Config is read once at startup and passed to the loader, the retrier and
// the reporter. Nothing else reads the environment.
type Config struct {
	MaxAttempts    int           // attempts per check, >= 1
	InitialBackoff time.Duration // wait before the second attempt, doubled afterwards

	ChecksJSON   string // explicit JSON list of checks
	ChecksFile   string // YAML/JSON file with a list of checks
	DeployTarget string // key into the built-in check table, e.g. "api"

	TargetHost   string // host[:port], ASCII
	TargetScheme string // "https" unless overridden

	RunID   string // CI run id, used in generated probe content
	EmailTo string // recipient for the api email probe

	SummaryPath  string // append-only Markdown sink, e.g. GITHUB_STEP_SUMMARY
	ResultsPath  string // JSON artifact of the run
	SlackWebhook string

	LogDir   string // empty disables the structured log file
	LogLevel string
}

func FromEnv() Config {
	maxAttempts := DefaultMaxAttempts
	if v := strings.TrimSpace(os.Getenv("CHECK_MAX_ATTEMPTS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxAttempts = n
		}
	}

	// seconds, fractions allowed
	backoff := DefaultInitialBackoff
	if v := strings.TrimSpace(os.Getenv("CHECK_BACKOFF_INITIAL")); v != "" {
		if s, err := strconv.ParseFloat(v, 64); err == nil && s > 0 {
			backoff = time.Duration(s * float64(time.Second))
		}
	}

	scheme := strings.ToLower(strings.TrimSpace(os.Getenv("TARGET_SCHEME")))
	if scheme == "" {
		scheme = DefaultScheme
	}

	runID := strings.TrimSpace(os.Getenv("GITHUB_RUN_ID"))
	if runID == "" {
		runID = DefaultRunID
	}

	emailTo := strings.TrimSpace(os.Getenv("SMOKE_EMAIL_TO"))
	if emailTo == "" {
		emailTo = DefaultEmailTo
	}

	logLevel := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
	}

	return Config{
		MaxAttempts:    maxAttempts,
		InitialBackoff: backoff,
		ChecksJSON:     strings.TrimSpace(os.Getenv("CHECKS_JSON")),
		ChecksFile:     strings.TrimSpace(os.Getenv("CHECKS_FILE")),
		DeployTarget:   strings.ToLower(strings.TrimSpace(os.Getenv("DEPLOY_TARGET"))),
		TargetHost:     NormalizeHost(os.Getenv("TARGET_HOST")),
		TargetScheme:   scheme,
		RunID:          runID,
		EmailTo:        emailTo,
		SummaryPath:    strings.TrimSpace(os.Getenv("GITHUB_STEP_SUMMARY")),
		ResultsPath:    strings.TrimSpace(os.Getenv("SMOKE_RESULTS_JSON")),
		SlackWebhook:   strings.TrimSpace(os.Getenv("SLACK_WEBHOOK_URL")),
		LogDir:         strings.TrimSpace(os.Getenv("LOG_DIR")),
		LogLevel:       logLevel,
	}
}

// TargetLabel is the deploy target as shown in reports.
func (c Config) TargetLabel() string {
	if c.DeployTarget == "" {
		return "unknown"
	}
	return c.DeployTarget
}

// BaseURL is scheme://host without a trailing slash.
func (c Config) BaseURL() string {
	return c.TargetScheme + "://" + c.TargetHost
}

// NormalizeHost trims the host and converts internationalized names to their
// ASCII form. ASCII hosts, IPs and host:port pairs are returned unchanged.
func NormalizeHost(raw string) string {
	host := strings.TrimSpace(raw)
	if host == "" || isASCII(host) {
		return host
	}

	name, port := host, ""
	if h, p, err := net.SplitHostPort(host); err == nil {
		name, port = h, p
	}
	ascii, err := idna.Lookup.ToASCII(name)
	if err != nil {
		return host
	}
	if port != "" {
		return net.JoinHostPort(ascii, port)
	}
	return ascii
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
