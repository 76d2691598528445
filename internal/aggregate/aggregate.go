package aggregate

import "github.com/hamed0406/smokecheck/internal/domain"

// Aggregator keeps check results in the order the checks were loaded.
type Aggregator struct {
	results []domain.CheckResult
}

func New(expected int) *Aggregator {
	if expected < 0 {
		expected = 0
	}
	return &Aggregator{results: make([]domain.CheckResult, 0, expected)}
}

func (a *Aggregator) Add(r domain.CheckResult) {
	a.results = append(a.results, r)
}

func (a *Aggregator) Len() int { return len(a.results) }

// Summary is successful only when every result succeeded. With no results it
// is vacuously successful and marked Empty.
func (a *Aggregator) Summary() domain.RunSummary {
	out := make([]domain.CheckResult, len(a.results))
	copy(out, a.results)

	success := true
	for _, r := range out {
		if !r.Success {
			success = false
			break
		}
	}
	return domain.RunSummary{
		Success: success,
		Empty:   len(out) == 0,
		Results: out,
	}
}
