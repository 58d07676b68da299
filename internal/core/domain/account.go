package domain

import (
	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountType defines where the money of an account physically lives.
type AccountType string

const (
	AccountTypeCash        AccountType = "CASH"
	AccountTypeBank        AccountType = "BANK"
	AccountTypeMobileMoney AccountType = "MOBILE_MONEY"
)

// AccountTypes lists every supported account type in display order.
var AccountTypes = []AccountType{AccountTypeCash, AccountTypeBank, AccountTypeMobileMoney}

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeCash, AccountTypeBank, AccountTypeMobileMoney:
		return true
	}
	return false
}

// Account is a treasury account. CurrentBalance is only ever changed as a side
// effect of approved cash flows.
type Account struct {
	AccountID      string           `json:"accountID"`
	Scope                           // Owning application and boutique
	Name           string           `json:"name"`
	AccountType    AccountType      `json:"accountType"`
	AccountNumber  string           `json:"accountNumber"` // IBAN, phone number, till id
	BankName       string           `json:"bankName"`
	Currency       string           `json:"currency"`
	InitialBalance decimal.Decimal  `json:"initialBalance"`
	CurrentBalance decimal.Decimal  `json:"currentBalance"`
	AlertThreshold *decimal.Decimal `json:"alertThreshold,omitempty"`
	OverdraftLimit *decimal.Decimal `json:"overdraftLimit,omitempty"` // BANK only
	Description    string           `json:"description"`
	IsActive       bool             `json:"isActive"`
	IsDefault      bool             `json:"isDefault"`
	AuditFields
}

// IsLowBalance reports whether the balance has dropped to the alert threshold.
func (a Account) IsLowBalance() bool {
	return a.AlertThreshold != nil && a.CurrentBalance.LessThanOrEqual(*a.AlertThreshold)
}

// CanCover reports whether the account holds at least amount.
func (a Account) CanCover(amount decimal.Decimal) bool {
	return a.CurrentBalance.GreaterThanOrEqual(amount)
}

// CanSpend reports whether an outflow of amount keeps the balance within the
// overdraft limit. Accounts without a limit cannot go below zero.
func (a Account) CanSpend(amount decimal.Decimal) bool {
	available := a.CurrentBalance
	if a.OverdraftLimit != nil {
		available = available.Add(*a.OverdraftLimit)
	}
	return available.GreaterThanOrEqual(amount)
}

// ValidateLimits checks threshold and overdraft settings against the account type.
func (a Account) ValidateLimits() error {
	if a.OverdraftLimit != nil {
		if a.AccountType != AccountTypeBank {
			return apperrors.NewValidationError("overdraft limit is only allowed on BANK accounts")
		}
		if a.OverdraftLimit.IsNegative() {
			return apperrors.NewValidationError("overdraft limit cannot be negative")
		}
	}
	if a.AlertThreshold != nil && a.AlertThreshold.IsNegative() {
		return apperrors.NewValidationError("alert threshold cannot be negative")
	}
	return nil
}

// RebaseInitialBalance changes the opening balance and shifts the current
// balance by the same delta. Callers must ensure no cash flow references the account.
func (a *Account) RebaseInitialBalance(initial decimal.Decimal) {
	delta := initial.Sub(a.InitialBalance)
	a.InitialBalance = initial
	a.CurrentBalance = a.CurrentBalance.Add(delta)
}

// DefaultCurrency is used when neither the request nor the account names one.
const DefaultCurrency = "XOF"
