package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/dailysplit/internal/config"
	"github.com/mmynk/dailysplit/internal/service"
)

// Wednesday.
var testNow = time.Date(2024, time.June, 12, 18, 0, 0, 0, time.UTC)

type harness struct {
	dir   string
	codes []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()

	prev := config.DotEnvFile
	config.DotEnvFile = filepath.Join(dir, ".env")
	t.Cleanup(func() { config.DotEnvFile = prev })

	t.Setenv(config.EnvStorage, config.BackendSQLite)
	t.Setenv(config.EnvDBPath, filepath.Join(dir, "state.db"))
	t.Setenv(config.EnvDatabaseURL, "")
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvReportDir, filepath.Join(dir, "reports"))
	t.Setenv(config.EnvReportCurrency, "UZS")
	t.Setenv(config.EnvMetricsFile, filepath.Join(dir, "metrics.prom"))

	return &harness{dir: dir, codes: []string{"DORM4B", "TRIP24", "FLAT01"}}
}

func (h *harness) run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	codes := h.codes
	next := func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		h.codes = codes
		return code, nil
	}

	exit := Execute(context.Background(), args, &stdout, &stderr,
		service.WithClock(func() time.Time { return testNow }),
		service.WithAccessCodeGenerator(next),
	)
	return stdout.String(), stderr.String(), exit
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, code := h.run(t, args...)
	require.Equal(t, 0, code, "dailysplit %v failed: %s", args, errOut)
	return out
}

var expenseID = regexp.MustCompile(`\(([0-9a-f-]{36})\)`)

func TestCLI_WeeklyFlow(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "register", "--name", "Alice", "--email", "alice@example.com")
	assert.Contains(t, out, "as admin")

	out = h.mustRun(t, "group", "create", "--name", "Dorm 4B")
	assert.Contains(t, out, "Access code: DORM4B")
	assert.Equal(t, "DORM4B\n", h.mustRun(t, "group", "code"))

	out = h.mustRun(t, "register", "--name", "Bob", "--email", "bob@example.com", "--code", "dorm4b")
	assert.Contains(t, out, `Joined group "Dorm 4B"`)

	out = h.mustRun(t, "expense", "add", "30000", "-d", "Bread")
	m := expenseID.FindStringSubmatch(out)
	require.Len(t, m, 2)
	bobsExpense := m[1]

	h.mustRun(t, "login", "--name", "Alice", "--email", "alice@example.com")
	h.mustRun(t, "expense", "add", "90000", "-d", "Rent", "-c", "utilities", "--date", "2024-06-10")

	out = h.mustRun(t, "expense", "list")
	assert.Regexp(t, `(?s)2024-06-12.*Bob.*Bread.*2024-06-10.*Alice.*Rent`, out)

	out = h.mustRun(t, "settle", "--this-week")
	assert.Contains(t, out, "Week 2024-06-10 .. 2024-06-16")
	assert.Contains(t, out, "Total spent: 120,000.0 UZS")
	assert.Contains(t, out, "Bob pays Alice 30,000.0 UZS")

	out = h.mustRun(t, "report")
	reportPath := filepath.Join(h.dir, "reports", "Dorm-4B-weekly-settlement.pdf")
	assert.Contains(t, out, reportPath)
	doc, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))

	// admins may delete anyone's expense
	h.mustRun(t, "expense", "delete", bobsExpense)
	out = h.mustRun(t, "settle")
	assert.Contains(t, out, "Bob pays Alice 45,000.0 UZS")

	metricsDump, err := os.ReadFile(filepath.Join(h.dir, "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metricsDump), "dailysplit_settlements_computed_total")
}

func TestCLI_Errors(t *testing.T) {
	h := newHarness(t)

	_, errOut, code := h.run(t, "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not logged in")

	h.mustRun(t, "register", "--name", "Alice", "--email", "alice@example.com")
	h.mustRun(t, "group", "create", "--name", "Dorm 4B")

	_, errOut, code = h.run(t, "register", "--name", "Mallory", "--email", "m@example.com", "--code", "WRONG1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid access code")

	h.mustRun(t, "register", "--name", "Bob", "--email", "bob@example.com", "--code", "DORM4B")
	_, errOut, code = h.run(t, "group", "code")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "permission denied")

	_, errOut, code = h.run(t, "expense", "add", "-d", "Refund", "--", "-5")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "amount")

	_, errOut, code = h.run(t, "expense", "add", "abc", "-d", "Tea")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "must be a number")
}

func TestCLI_Preferences(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "start")
	assert.Contains(t, out, "Welcome to dailysplit!")
	assert.Contains(t, out, "No groups yet")

	out = h.mustRun(t, "start")
	assert.NotContains(t, out, "Welcome to dailysplit!")

	assert.Equal(t, "Theme: light\n", h.mustRun(t, "theme"))
	assert.Equal(t, "Theme: dark\n", h.mustRun(t, "theme", "dark"))
	assert.Equal(t, "Theme: dark\n", h.mustRun(t, "theme"))

	h.mustRun(t, "register", "--name", "Alice", "--email", "alice@example.com")
	h.mustRun(t, "feedback", "submit", "Easy", "to", "use", "-r", "4")
	out = h.mustRun(t, "feedback", "list")
	assert.Contains(t, out, "Easy to use")
	assert.Contains(t, out, "****")
}

func TestCLI_Ephemeral(t *testing.T) {
	h := newHarness(t)

	h.mustRun(t, "--ephemeral", "register", "--name", "Alice", "--email", "alice@example.com")

	_, _, code := h.run(t, "whoami")
	assert.Equal(t, 1, code)
}
