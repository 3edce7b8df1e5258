package commands_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/erp_ledger/internal/commands"
	"github.com/SscSPs/erp_ledger/internal/dto"
)

func runLedgerctl(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := commands.NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSeed_InMemoryReportsCreatedCounts(t *testing.T) {
	out, err := runLedgerctl(t, "--memory", "seed")
	require.NoError(t, err)

	var resp dto.SeedChartResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Positive(t, resp.MainGroupsCreated)
	assert.Positive(t, resp.SubgroupsCreated)
	assert.Positive(t, resp.AccountsCreated)
}

func TestReport_EmptyLedgerIsBalanced(t *testing.T) {
	out, err := runLedgerctl(t, "--memory", "report", "balance-sheet", "--as-of", "2026-03-31")
	require.NoError(t, err)

	var bs dto.BalanceSheetResponse
	require.NoError(t, json.Unmarshal([]byte(out), &bs))
	assert.Equal(t, "2026-03-31", bs.AsOf)
	assert.True(t, bs.IsBalanced)
	assert.True(t, bs.TotalAssets.IsZero())

	out, err = runLedgerctl(t, "--memory", "report", "trial-balance")
	require.NoError(t, err)
	var tb dto.TrialBalanceResponse
	require.NoError(t, json.Unmarshal([]byte(out), &tb))
	assert.True(t, tb.IsBalanced)
}

func TestReport_RejectsBadDate(t *testing.T) {
	_, err := runLedgerctl(t, "--memory", "report", "balance-sheet", "--as-of", "31/03/2026")
	assert.Error(t, err)
}

func TestChartValidate(t *testing.T) {
	out, err := runLedgerctl(t, "chart", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "ok:")

	_, err = runLedgerctl(t, "chart", "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMigrate_ArgumentChecks(t *testing.T) {
	_, err := runLedgerctl(t, "--memory", "migrate", "up")
	assert.Error(t, err)

	_, err = runLedgerctl(t, "--database-url", "postgres://x", "--migrations", "file://m", "migrate", "sideways")
	assert.Error(t, err)
}
