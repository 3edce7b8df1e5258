package commands_test

import (
	"bytes"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/erp_ledger/internal/core/services"
	"github.com/SscSPs/erp_ledger/internal/handlers"
	"github.com/SscSPs/erp_ledger/internal/platform/chartseed"
	"github.com/SscSPs/erp_ledger/internal/platform/config"
	"github.com/SscSPs/erp_ledger/internal/repositories/memory"
)

func newLedgerServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := services.NewServiceContainer(memory.NewRepositoryProvider(memory.NewStore()), nil)
	router, err := handlers.NewRouter(
		&config.Config{IsProduction: true, CORSAllowedOrigins: []string{"*"}},
		svc, chartseed.Default, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	)
	require.NoError(t, err)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestSmoke_AgainstLiveServer(t *testing.T) {
	srv := newLedgerServer(t)

	out, err := runLedgerctl(t, "smoke", "--server", srv.URL)
	require.NoError(t, err, out)
	assert.Contains(t, out, "purchase   DPO")
	assert.Contains(t, out, "JV-000001")
	assert.Contains(t, out, "PV-000001")
	assert.Contains(t, out, "RV-000001")
	assert.Contains(t, out, "balanced=true")

	// A second run on the same ledger keeps it balanced.
	out, err = runLedgerctl(t, "smoke", "--server", srv.URL)
	require.NoError(t, err, out)
	assert.Contains(t, out, "PV-000002")
}

func TestSmoke_UnknownCashAccountFails(t *testing.T) {
	srv := newLedgerServer(t)

	_, err := runLedgerctl(t, "smoke", "--server", srv.URL, "--cash-account", "999999")
	assert.Error(t, err)
}
