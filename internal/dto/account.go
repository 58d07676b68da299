package dto

import (
	"time"

	"github.com/SscSPs/boutique_treasury/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
// CurrentBalance is never accepted; it starts at InitialBalance.
type CreateAccountRequest struct {
	Name           string             `json:"name" binding:"required,max=100"`
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=CASH BANK MOBILE_MONEY"`
	AccountNumber  string             `json:"accountNumber" binding:"max=64"`
	BankName       string             `json:"bankName" binding:"max=100"`
	Currency       string             `json:"currency" binding:"omitempty,len=3"`
	InitialBalance decimal.Decimal    `json:"initialBalance"`
	AlertThreshold *decimal.Decimal   `json:"alertThreshold" binding:"omitempty,non_negative_decimal"`
	OverdraftLimit *decimal.Decimal   `json:"overdraftLimit" binding:"omitempty,non_negative_decimal"`
	Description    string             `json:"description"`
	IsDefault      bool               `json:"isDefault"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name           *string          `json:"name" binding:"omitempty,max=100"`
	AccountNumber  *string          `json:"accountNumber"`
	BankName       *string          `json:"bankName"`
	Description    *string          `json:"description"`
	AlertThreshold *decimal.Decimal `json:"alertThreshold" binding:"omitempty,non_negative_decimal"`
	OverdraftLimit *decimal.Decimal `json:"overdraftLimit" binding:"omitempty,non_negative_decimal"`
	// InitialBalance may only change while no cash flow references the account.
	InitialBalance *decimal.Decimal `json:"initialBalance"`
	IsDefault      *bool            `json:"isDefault"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string             `json:"accountID"`
	ApplicationID  string             `json:"applicationID"`
	BoutiqueID     string             `json:"boutiqueID"`
	Name           string             `json:"name"`
	AccountType    domain.AccountType `json:"accountType"`
	AccountNumber  string             `json:"accountNumber"`
	BankName       string             `json:"bankName"`
	Currency       string             `json:"currency"`
	InitialBalance decimal.Decimal    `json:"initialBalance"`
	CurrentBalance decimal.Decimal    `json:"currentBalance"`
	AlertThreshold *decimal.Decimal   `json:"alertThreshold,omitempty"`
	OverdraftLimit *decimal.Decimal   `json:"overdraftLimit,omitempty"`
	IsLowBalance   bool               `json:"isLowBalance"`
	Description    string             `json:"description"`
	IsActive       bool               `json:"isActive"`
	IsDefault      bool               `json:"isDefault"`
	CreatedAt      time.Time          `json:"createdAt"`
	CreatedBy      string             `json:"createdBy"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy  string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		ApplicationID:  acc.ApplicationID,
		BoutiqueID:     acc.BoutiqueID,
		Name:           acc.Name,
		AccountType:    acc.AccountType,
		AccountNumber:  acc.AccountNumber,
		BankName:       acc.BankName,
		Currency:       acc.Currency,
		InitialBalance: acc.InitialBalance,
		CurrentBalance: acc.CurrentBalance,
		AlertThreshold: acc.AlertThreshold,
		OverdraftLimit: acc.OverdraftLimit,
		IsLowBalance:   acc.IsLowBalance(),
		Description:    acc.Description,
		IsActive:       acc.IsActive,
		IsDefault:      acc.IsDefault,
		CreatedAt:      acc.CreatedAt,
		CreatedBy:      acc.CreatedBy,
		LastUpdatedAt:  acc.LastUpdatedAt,
		LastUpdatedBy:  acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	IncludeInactive bool `form:"includeInactive"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountDetailParams bounds the balance replay; zero dates are open.
type AccountDetailParams struct {
	From time.Time `form:"from" time_format:"2006-01-02"`
	To   time.Time `form:"to" time_format:"2006-01-02"`
}

// AccountDetailResponse is an account with its balance evolution.
type AccountDetailResponse struct {
	Account        AccountResponse          `json:"account"`
	From           *time.Time               `json:"from,omitempty"`
	To             *time.Time               `json:"to,omitempty"`
	OpeningBalance decimal.Decimal          `json:"openingBalance"`
	ClosingBalance decimal.Decimal          `json:"closingBalance"`
	TotalIn        decimal.Decimal          `json:"totalIn"`
	TotalOut       decimal.Decimal          `json:"totalOut"`
	Movements      []domain.BalanceMovement `json:"movements"`
}

// ToAccountDetailResponse converts a domain.AccountDetail.
func ToAccountDetailResponse(d *domain.AccountDetail) AccountDetailResponse {
	return AccountDetailResponse{
		Account:        ToAccountResponse(&d.Account),
		From:           d.From,
		To:             d.To,
		OpeningBalance: d.OpeningBalance,
		ClosingBalance: d.ClosingBalance,
		TotalIn:        d.TotalIn,
		TotalOut:       d.TotalOut,
		Movements:      d.Movements,
	}
}
