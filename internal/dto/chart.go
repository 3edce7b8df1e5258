package dto

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateMainGroupRequest defines the data needed to create a main group.
type CreateMainGroupRequest struct {
	Code         string               `json:"code" binding:"required,numeric_code"`
	Name         string               `json:"name" binding:"required"`
	Category     domain.GroupCategory `json:"category" binding:"required,oneof=ASSET LIABILITY CAPITAL DRAWINGS REVENUE EXPENSE COST"`
	DisplayOrder int                  `json:"displayOrder"`
}

// CreateSubgroupRequest defines the data needed to create a subgroup.
// Code must extend the parent main group's code.
type CreateSubgroupRequest struct {
	Code        string `json:"code" binding:"required,numeric_code"`
	Name        string `json:"name" binding:"required"`
	MainGroupID string `json:"mainGroupID" binding:"required"`
}

// CreateAccountRequest defines the data needed to create an account.
// The account code is generated from the subgroup.
type CreateAccountRequest struct {
	SubgroupID     string             `json:"subgroupID" binding:"required"`
	Name           string             `json:"name" binding:"required"`
	Description    string             `json:"description"`
	Kind           domain.AccountKind `json:"kind" binding:"omitempty,oneof=regular person"`
	Role           domain.AccountRole `json:"role" binding:"omitempty,oneof=INVENTORY PAYABLE_CONTROL RECEIVABLE_CONTROL CASH_OR_BANK REVENUE COGS"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"`
}

// UpdateAccountRequest defines the fields that may change after creation.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Status      *domain.AccountStatus `json:"status" binding:"omitempty,oneof=Active Inactive"`
	Role        *domain.AccountRole   `json:"role" binding:"omitempty,oneof=INVENTORY PAYABLE_CONTROL RECEIVABLE_CONTROL CASH_OR_BANK REVENUE COGS NONE"`
}

// ListAccountsParams filters the account listing.
type ListAccountsParams struct {
	SubgroupID string `form:"subgroupID"`
	Status     string `form:"status" binding:"omitempty,oneof=Active Inactive"`
	Role       string `form:"role"`
}

// MainGroupResponse defines the data returned for a main group.
type MainGroupResponse struct {
	MainGroupID  string               `json:"mainGroupID"`
	Code         string               `json:"code"`
	Name         string               `json:"name"`
	Category     domain.GroupCategory `json:"category"`
	DisplayOrder int                  `json:"displayOrder"`
}

// SubgroupResponse defines the data returned for a subgroup.
type SubgroupResponse struct {
	SubgroupID  string `json:"subgroupID"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	MainGroupID string `json:"mainGroupID"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string               `json:"accountID"`
	Code           string               `json:"code"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	SubgroupID     string               `json:"subgroupID"`
	Kind           domain.AccountKind   `json:"kind"`
	Role           domain.AccountRole   `json:"role,omitempty"`
	NormalSide     domain.BalanceSide   `json:"normalSide"`
	OpeningBalance decimal.Decimal      `json:"openingBalance"`
	CurrentBalance decimal.Decimal      `json:"currentBalance"`
	Status         domain.AccountStatus `json:"status"`
	CanDelete      bool                 `json:"canDelete"`
	CreatedAt      time.Time            `json:"createdAt"`
	CreatedBy      string               `json:"createdBy"`
	LastUpdatedAt  time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy  string               `json:"lastUpdatedBy"`
}

// SeedChartResponse reports what a chart seed created.
type SeedChartResponse struct {
	MainGroupsCreated int `json:"mainGroupsCreated"`
	SubgroupsCreated  int `json:"subgroupsCreated"`
	AccountsCreated   int `json:"accountsCreated"`
}

// ToMainGroupResponse converts a domain.MainGroup to its DTO.
func ToMainGroupResponse(g *domain.MainGroup) MainGroupResponse {
	return MainGroupResponse{
		MainGroupID:  g.MainGroupID,
		Code:         g.Code,
		Name:         g.Name,
		Category:     g.Category,
		DisplayOrder: g.DisplayOrder,
	}
}

// ToMainGroupResponses converts a slice of main groups.
func ToMainGroupResponses(groups []domain.MainGroup) []MainGroupResponse {
	out := make([]MainGroupResponse, len(groups))
	for i := range groups {
		out[i] = ToMainGroupResponse(&groups[i])
	}
	return out
}

// ToSubgroupResponse converts a domain.Subgroup to its DTO.
func ToSubgroupResponse(s *domain.Subgroup) SubgroupResponse {
	return SubgroupResponse{
		SubgroupID:  s.SubgroupID,
		Code:        s.Code,
		Name:        s.Name,
		MainGroupID: s.MainGroupID,
	}
}

// ToSubgroupResponses converts a slice of subgroups.
func ToSubgroupResponses(subs []domain.Subgroup) []SubgroupResponse {
	out := make([]SubgroupResponse, len(subs))
	for i := range subs {
		out[i] = ToSubgroupResponse(&subs[i])
	}
	return out
}

// ToAccountResponse converts a domain.Account to its DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      a.AccountID,
		Code:           a.Code,
		Name:           a.Name,
		Description:    a.Description,
		SubgroupID:     a.SubgroupID,
		Kind:           a.Kind,
		Role:           a.Role,
		NormalSide:     a.NormalSide,
		OpeningBalance: a.OpeningBalance,
		CurrentBalance: a.CurrentBalance,
		Status:         a.Status,
		CanDelete:      a.CanDelete,
		CreatedAt:      a.CreatedAt,
		CreatedBy:      a.CreatedBy,
		LastUpdatedAt:  a.LastUpdatedAt,
		LastUpdatedBy:  a.LastUpdatedBy,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
