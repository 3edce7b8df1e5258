package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// Machine readable error codes returned next to the message.
const (
	codeUnbalancedEntry = "UNBALANCED_ENTRY"
	codeAccountNotFound = "ACCOUNT_NOT_FOUND"
	codeInvalidAmount   = "INVALID_AMOUNT"
	codeInvalidDate     = "INVALID_DATE"
	codeValidation      = "VALIDATION_ERROR"
	codeNotFound        = "NOT_FOUND"
	codeConflict        = "CONFLICT"
	codeInternal        = "INTERNAL_ERROR"
)

// respondError maps a service error onto a status code and JSON body.
// Posting failures a client can fix (missing role account, unbalanced lines)
// are 422; malformed input is 400. Unexpected errors are logged and hidden
// behind fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var (
		unbalanced *apperrors.UnbalancedEntryError
		notFound   *apperrors.AccountNotFoundError
		amount     *apperrors.InvalidAmountError
		date       *apperrors.InvalidDateError
	)

	switch {
	case errors.As(err, &unbalanced):
		logger.Warn("Unbalanced voucher rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       err.Error(),
			"code":        codeUnbalancedEntry,
			"totalDebit":  unbalanced.TotalDebit.StringFixed(2),
			"totalCredit": unbalanced.TotalCredit.StringFixed(2),
		})
	case errors.As(err, &notFound):
		logger.Warn("Posting account not found", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": codeAccountNotFound})
	case errors.As(err, &amount):
		logger.Warn("Invalid amount", slog.String("field", amount.Field), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeInvalidAmount})
	case errors.As(err, &date):
		logger.Warn("Invalid date", slog.String("input", date.Input))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeInvalidDate})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": codeValidation})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": codeNotFound})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": codeConflict})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback, "code": codeInternal})
	}
}

// respondBindError reports a request body or query that failed to bind.
func respondBindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error(), "code": codeValidation})
}
