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
	"github.com/google/uuid"
)

// roleNoneInput is the request value that clears an account's role.
const roleNoneInput = "NONE"

// chartService manages main groups, subgroups and accounts.
type chartService struct {
	BaseService
	txManager portsrepo.TransactionManager
	reader    portsrepo.ChartReader
}

// NewChartService creates a new ChartSvcFacade.
func NewChartService(txManager portsrepo.TransactionManager, reader portsrepo.ChartReader, options ...ServiceOption) portssvc.ChartSvcFacade {
	svc := &chartService{txManager: txManager, reader: reader}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.ChartSvcFacade = (*chartService)(nil)

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}

func (s *chartService) ListMainGroups(ctx context.Context) ([]domain.MainGroup, error) {
	groups, err := s.reader.ListMainGroups(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list main groups")
		return nil, fmt.Errorf("failed to list main groups: %w", err)
	}
	if groups == nil {
		return []domain.MainGroup{}, nil
	}
	return groups, nil
}

func (s *chartService) GetSubgroupsByMainGroup(ctx context.Context, mainGroupID string) ([]domain.Subgroup, error) {
	if _, err := s.reader.FindMainGroupByID(ctx, mainGroupID); err != nil {
		return nil, fmt.Errorf("main group %s: %w", mainGroupID, err)
	}
	subs, err := s.reader.GetSubgroupsByMainGroup(ctx, mainGroupID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list subgroups", slog.String("main_group_id", mainGroupID))
		return nil, fmt.Errorf("failed to list subgroups: %w", err)
	}
	if subs == nil {
		return []domain.Subgroup{}, nil
	}
	return subs, nil
}

func (s *chartService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	acc, err := s.reader.FindAccountByID(ctx, accountID)
	if err != nil {
		if !isNotFound(err) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return acc, nil
}

func (s *chartService) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	acc, err := s.reader.FindAccountByCode(ctx, code)
	if err != nil {
		if !isNotFound(err) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("code", code))
		}
		return nil, err
	}
	return acc, nil
}

func (s *chartService) FindAccountsBySubgroup(ctx context.Context, subgroupID string) ([]domain.Account, error) {
	accounts, err := s.reader.FindAccountsBySubgroup(ctx, subgroupID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts of subgroup", slog.String("subgroup_id", subgroupID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *chartService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	filter := domain.AccountFilter{
		SubgroupID: params.SubgroupID,
		Status:     domain.AccountStatus(params.Status),
		Role:       domain.AccountRole(params.Role),
	}
	if !filter.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown account role %q", apperrors.ErrValidation, params.Role)
	}
	accounts, err := s.reader.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *chartService) CreateMainGroup(ctx context.Context, req dto.CreateMainGroupRequest, actor string) (*domain.MainGroup, error) {
	if !domain.IsNumericCode(req.Code) {
		return nil, fmt.Errorf("%w: main group code %q must be numeric", apperrors.ErrValidation, req.Code)
	}
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, req.Category)
	}
	now := s.Now()
	group := domain.MainGroup{
		MainGroupID:  uuid.NewString(),
		Code:         req.Code,
		Name:         req.Name,
		Category:     req.Category,
		DisplayOrder: req.DisplayOrder,
		AuditFields:  domain.NewAuditFields(actor, now),
	}

	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if existing, err := tx.FindMainGroupByCode(ctx, req.Code); err == nil {
			return fmt.Errorf("%w: main group code %s is used by %s", apperrors.ErrDuplicate, req.Code, existing.Name)
		} else if !isNotFound(err) {
			return err
		}
		if err := tx.InsertMainGroup(ctx, group); err != nil {
			return err
		}
		_, err := tx.BumpLedgerRevision(ctx)
		return err
	})
	if err != nil {
		s.LogWarn(ctx, "Main group creation failed", slog.String("code", req.Code), slog.String("error", err.Error()))
		return nil, err
	}
	s.LogInfo(ctx, "Main group created", slog.String("main_group_id", group.MainGroupID), slog.String("code", group.Code))
	return &group, nil
}

func (s *chartService) CreateSubgroup(ctx context.Context, req dto.CreateSubgroupRequest, actor string) (*domain.Subgroup, error) {
	now := s.Now()
	sub := domain.Subgroup{
		SubgroupID:  uuid.NewString(),
		Code:        req.Code,
		Name:        req.Name,
		MainGroupID: req.MainGroupID,
		AuditFields: domain.NewAuditFields(actor, now),
	}

	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		group, err := tx.FindMainGroupByIDInTx(ctx, req.MainGroupID)
		if err != nil {
			return fmt.Errorf("main group %s: %w", req.MainGroupID, err)
		}
		if err := domain.ValidateSubgroupCode(group.Code, req.Code); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if _, err := tx.FindSubgroupByCode(ctx, req.Code); err == nil {
			return fmt.Errorf("%w: subgroup code %s already exists", apperrors.ErrDuplicate, req.Code)
		} else if !isNotFound(err) {
			return err
		}
		if err := tx.InsertSubgroup(ctx, sub); err != nil {
			return err
		}
		_, err = tx.BumpLedgerRevision(ctx)
		return err
	})
	if err != nil {
		s.LogWarn(ctx, "Subgroup creation failed", slog.String("code", req.Code), slog.String("error", err.Error()))
		return nil, err
	}
	s.LogInfo(ctx, "Subgroup created", slog.String("subgroup_id", sub.SubgroupID), slog.String("code", sub.Code))
	return &sub, nil
}

// CreateAccount allocates the next code of the subgroup while holding the
// subgroup row lock.
func (s *chartService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown account role %q", apperrors.ErrValidation, req.Role)
	}
	kind := req.Kind
	if kind == "" {
		kind = domain.KindRegular
	}
	now := s.Now()
	var account domain.Account

	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		sub, err := tx.LockSubgroup(ctx, req.SubgroupID)
		if err != nil {
			return fmt.Errorf("subgroup %s: %w", req.SubgroupID, err)
		}
		group, err := tx.FindMainGroupByIDInTx(ctx, sub.MainGroupID)
		if err != nil {
			return fmt.Errorf("main group of subgroup %s: %w", sub.Code, err)
		}
		codes, err := tx.ListAccountCodesInSubgroup(ctx, sub.SubgroupID)
		if err != nil {
			return err
		}
		code, err := domain.AccountCodeFor(sub.Code, domain.NextAccountSequence(sub.Code, codes))
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}

		opening := domain.Round2(req.OpeningBalance)
		account = domain.Account{
			AccountID:      uuid.NewString(),
			Code:           code,
			Name:           req.Name,
			Description:    req.Description,
			SubgroupID:     sub.SubgroupID,
			Kind:           kind,
			Role:           req.Role,
			OpeningBalance: opening,
			CurrentBalance: opening,
			Status:         domain.AccountActive,
			CanDelete:      true,
			NormalSide:     group.Category.NormalSide(),
			AuditFields:    domain.NewAuditFields(actor, now),
		}
		if err := tx.InsertAccount(ctx, account); err != nil {
			return err
		}
		_, err = tx.BumpLedgerRevision(ctx)
		return err
	})
	if err != nil {
		s.LogWarn(ctx, "Account creation failed", slog.String("subgroup_id", req.SubgroupID), slog.String("error", err.Error()))
		return nil, err
	}
	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *chartService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error) {
	var account *domain.Account
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		acc, err := tx.FindAccountByIDInTx(ctx, accountID)
		if err != nil {
			return err
		}
		if req.Name != nil {
			acc.Name = *req.Name
		}
		if req.Description != nil {
			acc.Description = *req.Description
		}
		if req.Status != nil {
			if *req.Status != domain.AccountActive && *req.Status != domain.AccountInactive {
				return fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, *req.Status)
			}
			acc.Status = *req.Status
		}
		if req.Role != nil {
			role := *req.Role
			if role == roleNoneInput {
				role = domain.RoleNone
			}
			if !role.Valid() {
				return fmt.Errorf("%w: unknown account role %q", apperrors.ErrValidation, *req.Role)
			}
			acc.Role = role
		}
		acc.LastUpdatedAt = s.Now()
		acc.LastUpdatedBy = actor
		if err := tx.UpdateAccount(ctx, *acc); err != nil {
			return err
		}
		if _, err := tx.BumpLedgerRevision(ctx); err != nil {
			return err
		}
		account = acc
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Account update failed", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, err
	}
	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return account, nil
}

// DeleteAccount removes an account that no voucher, draft or posted, refers to.
func (s *chartService) DeleteAccount(ctx context.Context, accountID string, actor string) error {
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		acc, err := tx.FindAccountByIDInTx(ctx, accountID)
		if err != nil {
			return err
		}
		if !acc.CanDelete {
			return fmt.Errorf("%w: account %s has postings and cannot be deleted", apperrors.ErrConflict, acc.Code)
		}
		if err := tx.DeleteAccount(ctx, accountID); err != nil {
			return err
		}
		_, err = tx.BumpLedgerRevision(ctx)
		return err
	})
	if err != nil {
		s.LogWarn(ctx, "Account deletion failed", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("actor", actor))
	return nil
}

// SeedChart installs the groups and accounts of chart that are missing,
// matching existing rows by code.
func (s *chartService) SeedChart(ctx context.Context, chart domain.ChartDefinition, actor string) (*dto.SeedChartResponse, error) {
	now := s.Now()
	audit := domain.NewAuditFields(actor, now)
	resp := &dto.SeedChartResponse{}

	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		*resp = dto.SeedChartResponse{}
		for _, gd := range chart.MainGroups {
			group, err := tx.FindMainGroupByCode(ctx, gd.Code)
			switch {
			case err == nil:
			case isNotFound(err):
				if !domain.IsNumericCode(gd.Code) || !gd.Category.Valid() {
					return fmt.Errorf("%w: main group %q has an invalid code or category %q", apperrors.ErrValidation, gd.Code, gd.Category)
				}
				group = &domain.MainGroup{
					MainGroupID:  uuid.NewString(),
					Code:         gd.Code,
					Name:         gd.Name,
					Category:     gd.Category,
					DisplayOrder: gd.DisplayOrder,
					AuditFields:  audit,
				}
				if err := tx.InsertMainGroup(ctx, *group); err != nil {
					return err
				}
				resp.MainGroupsCreated++
			default:
				return err
			}

			for _, sd := range gd.Subgroups {
				sub, err := tx.FindSubgroupByCode(ctx, sd.Code)
				switch {
				case err == nil:
					if sub.MainGroupID != group.MainGroupID {
						return fmt.Errorf("%w: subgroup %s exists under another main group", apperrors.ErrValidation, sd.Code)
					}
				case isNotFound(err):
					if err := domain.ValidateSubgroupCode(group.Code, sd.Code); err != nil {
						return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
					}
					sub = &domain.Subgroup{
						SubgroupID:  uuid.NewString(),
						Code:        sd.Code,
						Name:        sd.Name,
						MainGroupID: group.MainGroupID,
						AuditFields: audit,
					}
					if err := tx.InsertSubgroup(ctx, *sub); err != nil {
						return err
					}
					resp.SubgroupsCreated++
				default:
					return err
				}

				for _, ad := range sd.Accounts {
					_, err := tx.FindAccountByCodeInTx(ctx, ad.Code)
					if err == nil {
						continue
					}
					if !isNotFound(err) {
						return err
					}
					if _, ok := domain.AccountSequence(sub.Code, ad.Code); !ok {
						return fmt.Errorf("%w: account code %s does not belong to subgroup %s", apperrors.ErrValidation, ad.Code, sub.Code)
					}
					if !ad.Role.Valid() {
						return fmt.Errorf("%w: account %s has unknown role %q", apperrors.ErrValidation, ad.Code, ad.Role)
					}
					kind := ad.Kind
					if kind == "" {
						kind = domain.KindRegular
					}
					opening := domain.Round2(ad.OpeningBalance)
					if err := tx.InsertAccount(ctx, domain.Account{
						AccountID:      uuid.NewString(),
						Code:           ad.Code,
						Name:           ad.Name,
						Description:    ad.Description,
						SubgroupID:     sub.SubgroupID,
						Kind:           kind,
						Role:           ad.Role,
						OpeningBalance: opening,
						CurrentBalance: opening,
						Status:         domain.AccountActive,
						CanDelete:      true,
						NormalSide:     group.Category.NormalSide(),
						AuditFields:    audit,
					}); err != nil {
						return err
					}
					resp.AccountsCreated++
				}
			}
		}
		if resp.MainGroupsCreated+resp.SubgroupsCreated+resp.AccountsCreated > 0 {
			if _, err := tx.BumpLedgerRevision(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Chart seed failed")
		return nil, err
	}
	s.LogInfo(ctx, "Chart seeded",
		slog.Int("main_groups", resp.MainGroupsCreated),
		slog.Int("subgroups", resp.SubgroupsCreated),
		slog.Int("accounts", resp.AccountsCreated))
	return resp, nil
}
