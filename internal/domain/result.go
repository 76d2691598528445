package domain

import "github.com/guregu/null/v5"

// CheckResult is the final outcome of one check after retries.
type CheckResult struct {
	Name     string      `json:"name"`
	Attempts int         `json:"attempts"`
	Success  bool        `json:"success"`
	Status   null.Int    `json:"status"`           // null on transport failure
	Error    null.String `json:"error"`            // null on success
	Duration null.Float  `json:"duration_seconds"` // final attempt only
}

type RunSummary struct {
	Success bool          `json:"success"`
	Empty   bool          `json:"empty"`
	Results []CheckResult `json:"results"`
}

func (s RunSummary) Failures() int {
	n := 0
	for _, r := range s.Results {
		if !r.Success {
			n++
		}
	}
	return n
}
