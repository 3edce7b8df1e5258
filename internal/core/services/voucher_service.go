package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/platform/metrics"
	"github.com/SscSPs/erp_ledger/internal/utils/accounting"
	"github.com/google/uuid"
)

const defaultVoucherPageSize = 20

// voucherService provides manual voucher entry, the voucher lifecycle and queries.
type voucherService struct {
	BaseService
	txManager portsrepo.TransactionManager
	reader    portsrepo.VoucherReader
}

// NewVoucherService creates a new VoucherSvcFacade.
func NewVoucherService(txManager portsrepo.TransactionManager, reader portsrepo.VoucherReader, options ...ServiceOption) portssvc.VoucherSvcFacade {
	svc := &voucherService{txManager: txManager, reader: reader}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

// resolveEntryAccount finds the account of a manual entry by id or by code.
func resolveEntryAccount(ctx context.Context, tx portsrepo.LedgerTx, req dto.VoucherEntryRequest) (*domain.Account, error) {
	var (
		acc  *domain.Account
		err  error
		hint string
	)
	if req.AccountID != "" {
		acc, err = tx.FindAccountByIDInTx(ctx, req.AccountID)
		hint = "id " + req.AccountID
	} else {
		acc, err = tx.FindAccountByCodeInTx(ctx, req.AccountCode)
		hint = "code " + req.AccountCode
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, &apperrors.AccountNotFoundError{Hint: hint}
		}
		return nil, err
	}
	return acc, nil
}

// CreateVoucher records a manual voucher. Drafts may be unbalanced and carry
// no number; with req.Post the voucher is posted in the same transaction.
func (s *voucherService) CreateVoucher(ctx context.Context, req dto.CreateVoucherRequest, actor string) (*domain.Voucher, error) {
	now := s.Now()
	date, err := domain.ParseDate(req.Date, now)
	if err != nil {
		return nil, err
	}

	voucher := domain.Voucher{
		VoucherID:         uuid.NewString(),
		Type:              req.Type,
		Date:              date,
		Narration:         req.Narration,
		CashBankAccountID: req.CashBankAccountID,
		Status:            domain.VoucherDraft,
		SourceType:        domain.SourceManual,
		Entries:           make([]domain.VoucherEntry, len(req.Entries)),
		AuditFields:       domain.NewAuditFields(actor, now),
	}

	err = s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		for i, e := range req.Entries {
			acc, err := resolveEntryAccount(ctx, tx, e)
			if err != nil {
				return err
			}
			voucher.Entries[i] = domain.VoucherEntry{
				EntryID:     uuid.NewString(),
				VoucherID:   voucher.VoucherID,
				AccountID:   acc.AccountID,
				AccountCode: acc.Code,
				AccountName: acc.Name,
				Description: e.Description,
				Debit:       e.Debit,
				Credit:      e.Credit,
				SortOrder:   i + 1,
			}
		}
		if voucher.CashBankAccountID != nil {
			if _, err := resolveAccount(ctx, tx, *voucher.CashBankAccountID, domain.RoleCashOrBank); err != nil {
				return err
			}
		}

		if req.Post {
			return postVoucherInTx(ctx, tx, &voucher, actor, now, true)
		}

		// Drafts are checked line by line; balance is enforced on posting.
		if err := voucher.ValidateEntries(); err != nil {
			var unbalanced *apperrors.UnbalancedEntryError
			if !errors.As(err, &unbalanced) {
				return err
			}
		}
		if err := tx.InsertVoucher(ctx, voucher); err != nil {
			return fmt.Errorf("saving draft voucher: %w", err)
		}
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Voucher creation failed", slog.String("type", string(req.Type)), slog.String("error", err.Error()))
		return nil, err
	}

	if voucher.Status == domain.VoucherPosted {
		recordPosted(voucher)
	}
	s.LogInfo(ctx, "Voucher created",
		slog.String("voucher_id", voucher.VoucherID),
		slog.String("voucher_number", voucher.VoucherNumber),
		slog.String("status", string(voucher.Status)))
	return &voucher, nil
}

// PostVoucher moves a draft voucher to posted.
func (s *voucherService) PostVoucher(ctx context.Context, voucherID string, actor string) (*domain.Voucher, error) {
	now := s.Now()
	var voucher *domain.Voucher
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		v, err := tx.FindVoucherForUpdate(ctx, voucherID)
		if err != nil {
			return err
		}
		if !v.Status.CanTransitionTo(domain.VoucherPosted) {
			return fmt.Errorf("%w: voucher %s is %s and cannot be posted", apperrors.ErrConflict, voucherID, v.Status)
		}
		if err := postVoucherInTx(ctx, tx, v, actor, now, false); err != nil {
			return err
		}
		voucher = v
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Voucher posting failed", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
		return nil, err
	}

	recordPosted(*voucher)
	s.LogInfo(ctx, "Voucher posted", slog.String("voucher_id", voucherID), slog.String("voucher_number", voucher.VoucherNumber))
	return voucher, nil
}

// CancelVoucher reverses the running-balance effect of a posted voucher and
// marks it cancelled. Its entries are kept and excluded from reports.
func (s *voucherService) CancelVoucher(ctx context.Context, voucherID string, actor string) (*domain.Voucher, error) {
	now := s.Now()
	var voucher *domain.Voucher
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		v, err := tx.FindVoucherForUpdate(ctx, voucherID)
		if err != nil {
			return err
		}
		if !v.Status.CanTransitionTo(domain.VoucherCancelled) {
			return fmt.Errorf("%w: voucher %s is %s and cannot be cancelled", apperrors.ErrConflict, voucherID, v.Status)
		}

		accounts, err := tx.LockAccounts(ctx, v.AccountIDs())
		if err != nil {
			return err
		}
		changes, err := accounting.CalculateBalanceChanges(v.Entries, accounts, true)
		if err != nil {
			return err
		}
		if err := tx.ApplyBalanceChanges(ctx, changes, actor, now); err != nil {
			return fmt.Errorf("reversing balances of %s: %w", v.VoucherNumber, err)
		}

		v.Status = domain.VoucherCancelled
		cancelledAt := now
		v.CancelledAt = &cancelledAt
		v.LastUpdatedAt = now
		v.LastUpdatedBy = actor
		if err := tx.UpdateVoucherHeader(ctx, *v); err != nil {
			return fmt.Errorf("cancelling voucher %s: %w", v.VoucherNumber, err)
		}
		if _, err := tx.BumpLedgerRevision(ctx); err != nil {
			return err
		}
		voucher = v
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Voucher cancellation failed", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
		return nil, err
	}

	metrics.VouchersCancelledTotal.WithLabelValues(string(voucher.Type)).Inc()
	s.LogInfo(ctx, "Voucher cancelled", slog.String("voucher_id", voucherID), slog.String("voucher_number", voucher.VoucherNumber))
	return voucher, nil
}

// GetVoucherByID returns a voucher with its entries.
func (s *voucherService) GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	v, err := s.reader.FindVoucherByID(ctx, voucherID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find voucher", slog.String("voucher_id", voucherID))
		}
		return nil, fmt.Errorf("failed to find voucher %s: %w", voucherID, err)
	}
	return v, nil
}

// GetVoucherByNumber returns a voucher by its number, e.g. JV-000001.
func (s *voucherService) GetVoucherByNumber(ctx context.Context, voucherNumber string) (*domain.Voucher, error) {
	v, err := s.reader.FindVoucherByNumber(ctx, voucherNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find voucher", slog.String("voucher_number", voucherNumber))
		}
		return nil, fmt.Errorf("failed to find voucher %s: %w", voucherNumber, err)
	}
	return v, nil
}

// ListVouchers searches vouchers newest first.
func (s *voucherService) ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	filter := domain.VoucherFilter{
		Search: params.Search,
		Number: params.Number,
		Type:   domain.VoucherType(params.Type),
		Status: domain.VoucherStatus(params.Status),
	}
	if params.FromDate != "" {
		from, err := domain.ParseDate(params.FromDate, s.Now())
		if err != nil {
			return nil, err
		}
		filter.FromDate = &from
	}
	if params.ToDate != "" {
		to, err := domain.ParseDate(params.ToDate, s.Now())
		if err != nil {
			return nil, err
		}
		filter.ToDate = &to
	}
	if filter.FromDate != nil && filter.ToDate != nil && filter.ToDate.Before(*filter.FromDate) {
		return nil, fmt.Errorf("%w: toDate is before fromDate", apperrors.ErrValidation)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultVoucherPageSize
	}

	vouchers, nextToken, err := s.reader.ListVouchers(ctx, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list vouchers")
		return nil, fmt.Errorf("failed to retrieve vouchers: %w", err)
	}

	s.LogDebug(ctx, "Vouchers listed", slog.Int("count", len(vouchers)))
	return &dto.ListVouchersResponse{
		Vouchers:  dto.ToVoucherResponses(vouchers),
		NextToken: nextToken,
	}, nil
}
