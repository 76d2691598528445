package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hamed0406/smokecheck/internal/domain"
)

func TestAggregator_AllPass(t *testing.T) {
	a := New(2)
	a.Add(domain.CheckResult{Name: "GET /healthz", Success: true, Attempts: 1})
	a.Add(domain.CheckResult{Name: "GET /health", Success: true, Attempts: 2})

	s := a.Summary()
	assert.True(t, s.Success)
	assert.False(t, s.Empty)
	assert.Equal(t, 0, s.Failures())
}

func TestAggregator_AnyFailureFailsRun(t *testing.T) {
	a := New(3)
	a.Add(domain.CheckResult{Name: "A", Success: true})
	a.Add(domain.CheckResult{Name: "B", Success: false})
	a.Add(domain.CheckResult{Name: "C", Success: true})

	s := a.Summary()
	assert.False(t, s.Success)
	assert.Equal(t, 1, s.Failures())
}

func TestAggregator_PreservesOrder(t *testing.T) {
	a := New(0)
	for _, n := range []string{"z", "a", "m"} {
		a.Add(domain.CheckResult{Name: n, Success: true})
	}

	s := a.Summary()
	var names []string
	for _, r := range s.Results {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"z", "a", "m"}, names)
	assert.Equal(t, 3, a.Len())
}

func TestAggregator_EmptyIsVacuousSuccess(t *testing.T) {
	s := New(-1).Summary()
	assert.True(t, s.Success)
	assert.True(t, s.Empty)
	assert.Empty(t, s.Results)
}

func TestAggregator_SummaryIsACopy(t *testing.T) {
	a := New(1)
	a.Add(domain.CheckResult{Name: "A", Success: true})
	s := a.Summary()
	s.Results[0].Success = false

	assert.True(t, a.Summary().Success)
}
