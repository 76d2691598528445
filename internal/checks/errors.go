package checks

import "fmt"

// ConfigurationError means the check list could not be built. It is fatal and
// is raised before any request is sent.
type ConfigurationError struct {
	Source string // "CHECKS_JSON" or the CHECKS_FILE path
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid check configuration (%s): %v", e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
