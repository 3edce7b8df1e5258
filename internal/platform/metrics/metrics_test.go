package metrics_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestFailureReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&apperrors.UnbalancedEntryError{VoucherType: "journal"}, "unbalanced"},
		{fmt.Errorf("wrap: %w", &apperrors.AccountNotFoundError{Hint: "role COGS"}), "account_not_found"},
		{&apperrors.InvalidAmountError{Field: "amount"}, "invalid_amount"},
		{fmt.Errorf("%w: bad", apperrors.ErrValidation), "validation"},
		{apperrors.ErrNotFound, "not_found"},
		{apperrors.ErrDuplicate, "conflict"},
		{errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, metrics.FailureReason(tt.err), tt.err.Error())
	}
}

func TestVouchersPostedCounter(t *testing.T) {
	before := testutil.ToFloat64(metrics.VouchersPostedTotal.WithLabelValues("contra"))
	metrics.VouchersPostedTotal.WithLabelValues("contra").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.VouchersPostedTotal.WithLabelValues("contra")))
}
