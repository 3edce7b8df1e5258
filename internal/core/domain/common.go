package domain

import (
	"strings"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
)

// AuditFields holds standard audit information for domain entities.
// CreatedBy and LastUpdatedBy carry the actor reported by the caller.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// NewAuditFields stamps both the creation and last-update columns.
func NewAuditFields(actor string, now time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     now,
		CreatedBy:     actor,
		LastUpdatedAt: now,
		LastUpdatedBy: actor,
	}
}

// DateLayout is the calendar-date format used by vouchers and reports.
const DateLayout = "2006-01-02"

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the calendar day.
// An empty input resolves to the day of now.
func ParseDate(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return StartOfDay(now), nil
	}
	if t, err := time.Parse(DateLayout, input); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, input)
	if err != nil {
		return time.Time{}, &apperrors.InvalidDateError{Input: input, Err: err}
	}
	return StartOfDay(t), nil
}
