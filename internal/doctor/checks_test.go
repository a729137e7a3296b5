package doctor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mholliday/wrench/internal/config"
)

type stubCheck struct {
	name     string
	category string
	result   CheckResult
}

func (c *stubCheck) Name() string     { return c.name }
func (c *stubCheck) Category() string { return c.category }
func (c *stubCheck) Run() CheckResult { return c.result }

func TestRunAll(t *testing.T) {
	checks := []Check{
		&stubCheck{name: "a", result: CheckResult{Name: "a", Status: StatusPass}},
		&stubCheck{name: "b", result: CheckResult{Name: "b", Status: StatusFail}},
	}

	results := RunAll(checks)
	assert.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Name)
	assert.Equal(t, StatusFail, results[1].Status)
}

func TestRunAllParallel(t *testing.T) {
	checks := []Check{
		&stubCheck{name: "a", result: CheckResult{Name: "a", Status: StatusPass}},
		&stubCheck{name: "b", result: CheckResult{Name: "b", Status: StatusWarn}},
		&stubCheck{name: "c", result: CheckResult{Name: "c", Status: StatusPass}},
	}

	results := RunAllParallel(checks)
	assert.Len(t, results, 3)
	// Order is preserved regardless of execution order
	assert.Equal(t, "a", results[0].Name)
	assert.Equal(t, "b", results[1].Name)
	assert.Equal(t, "c", results[2].Name)
}

func TestGroupByCategory(t *testing.T) {
	checks := []Check{
		&stubCheck{name: "a", category: "SSH"},
		&stubCheck{name: "b", category: "CONFIG"},
		&stubCheck{name: "c", category: "SSH"},
	}

	grouped := GroupByCategory(checks)
	assert.Len(t, grouped["SSH"], 2)
	assert.Len(t, grouped["CONFIG"], 1)
}

func TestCountByStatus(t *testing.T) {
	results := []CheckResult{
		{Status: StatusPass},
		{Status: StatusPass},
		{Status: StatusWarn},
		{Status: StatusFail},
	}

	counts := CountByStatus(results)
	assert.Equal(t, 2, counts[StatusPass])
	assert.Equal(t, 1, counts[StatusWarn])
	assert.Equal(t, 1, counts[StatusFail])
}

func TestHasFailures(t *testing.T) {
	assert.False(t, HasFailures([]CheckResult{{Status: StatusPass}, {Status: StatusWarn}}))
	assert.True(t, HasFailures([]CheckResult{{Status: StatusPass}, {Status: StatusFail}}))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Everything looks good", Summary([]CheckResult{{Status: StatusPass}}))
	assert.Equal(t, "1 issue found", Summary([]CheckResult{{Status: StatusFail}}))
	assert.Equal(t, "2 issues found", Summary([]CheckResult{{Status: StatusFail}, {Status: StatusWarn}}))
}

func TestCheckStatusString(t *testing.T) {
	assert.Equal(t, "pass", StatusPass.String())
	assert.Equal(t, "warn", StatusWarn.String())
	assert.Equal(t, "fail", StatusFail.String())
	assert.Equal(t, "unknown", CheckStatus(99).String())
}

func TestCredentialsCheck(t *testing.T) {
	t.Run("no servers", func(t *testing.T) {
		check := &CredentialsCheck{Config: config.DefaultConfig()}
		result := check.Run()
		assert.Equal(t, StatusWarn, result.Status)
	})

	t.Run("all complete", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Servers["web"] = config.Server{Host: "box", User: "deploy", Password: "x"}
		cfg.Servers["db"] = config.Server{Host: "db", User: "admin", KeyFile: "~/.ssh/id"}

		result := (&CredentialsCheck{Config: cfg}).Run()
		assert.Equal(t, StatusPass, result.Status)
	})

	t.Run("no auth method", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Servers["bare"] = config.Server{Host: "box", User: "deploy"}

		result := (&CredentialsCheck{Config: cfg}).Run()
		assert.Equal(t, StatusFail, result.Status)
		assert.Contains(t, result.Message, "1 server")
	})
}

func TestDefaultChecks(t *testing.T) {
	checks := DefaultChecks("", config.DefaultConfig())
	assert.NotEmpty(t, checks)

	grouped := GroupByCategory(checks)
	assert.Contains(t, grouped, "CONFIG")
	assert.Contains(t, grouped, "SSH")
}
