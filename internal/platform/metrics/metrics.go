// Package metrics holds the Prometheus collectors of the ledger service.
package metrics

import (
	"errors"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "erp_ledger"

var (
	VouchersPostedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vouchers_posted_total",
		Help:      "Vouchers posted, by voucher type.",
	}, []string{"type"})

	VouchersCancelledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vouchers_cancelled_total",
		Help:      "Vouchers cancelled, by voucher type.",
	}, []string{"type"})

	PostingFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posting_failures_total",
		Help:      "Business events whose posting was rejected, by event and reason.",
	}, []string{"event", "reason"})

	ReportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_duration_seconds",
		Help:      "Time spent computing financial reports.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"report", "cache"})

	ReportImbalancesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_sheet_inconsistencies_total",
		Help:      "Balance sheets computed with isBalanced=false or a net income mismatch.",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests, by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency, by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// FailureReason maps an error to a low-cardinality label value.
func FailureReason(err error) string {
	var (
		unbalanced *apperrors.UnbalancedEntryError
		notFound   *apperrors.AccountNotFoundError
		invalid    *apperrors.InvalidAmountError
	)
	switch {
	case errors.As(err, &unbalanced):
		return "unbalanced"
	case errors.As(err, &notFound):
		return "account_not_found"
	case errors.As(err, &invalid):
		return "invalid_amount"
	case errors.Is(err, apperrors.ErrValidation):
		return "validation"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}
