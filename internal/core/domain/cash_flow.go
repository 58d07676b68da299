package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
	"github.com/shopspring/decimal"
)

// CashFlowType is the direction of a ledger entry.
type CashFlowType string

const (
	CashFlowTypeIncome   CashFlowType = "INCOME"
	CashFlowTypeExpense  CashFlowType = "EXPENSE"
	CashFlowTypeTransfer CashFlowType = "TRANSFER"
)

// IsValid reports whether t is a known cash flow type.
func (t CashFlowType) IsValid() bool {
	switch t {
	case CashFlowTypeIncome, CashFlowTypeExpense, CashFlowTypeTransfer:
		return true
	}
	return false
}

// Inverse returns the contra type used by reversals. TRANSFER has none.
func (t CashFlowType) Inverse() (CashFlowType, bool) {
	switch t {
	case CashFlowTypeIncome:
		return CashFlowTypeExpense, true
	case CashFlowTypeExpense:
		return CashFlowTypeIncome, true
	}
	return "", false
}

// ReferencePrefix is the prefix of generated human references.
func (t CashFlowType) ReferencePrefix() string {
	switch t {
	case CashFlowTypeIncome:
		return "INC"
	case CashFlowTypeExpense:
		return "EXP"
	}
	return "TRF"
}

// CashFlowStatus is the workflow state of a ledger entry.
type CashFlowStatus string

const (
	CashFlowStatusDraft     CashFlowStatus = "DRAFT"
	CashFlowStatusPending   CashFlowStatus = "PENDING"
	CashFlowStatusApproved  CashFlowStatus = "APPROVED"
	CashFlowStatusRejected  CashFlowStatus = "REJECTED"
	CashFlowStatusCancelled CashFlowStatus = "CANCELLED"
)

// IsValid reports whether s is a known status.
func (s CashFlowStatus) IsValid() bool {
	switch s {
	case CashFlowStatusDraft, CashFlowStatusPending, CashFlowStatusApproved, CashFlowStatusRejected, CashFlowStatusCancelled:
		return true
	}
	return false
}

// allowedTransitions is the manual workflow. System and transfer entries are
// created APPROVED and never pass through it.
var allowedTransitions = map[CashFlowStatus][]CashFlowStatus{
	CashFlowStatusDraft:   {CashFlowStatusPending, CashFlowStatusCancelled},
	CashFlowStatusPending: {CashFlowStatusApproved, CashFlowStatusRejected, CashFlowStatusCancelled},
}

// CanTransitionTo reports whether the workflow allows moving from s to next.
func (s CashFlowStatus) CanTransitionTo(next CashFlowStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentMethod records how money moved.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodMobileMoney, PaymentMethodCard, PaymentMethodCheck, PaymentMethodOther:
		return true
	}
	return false
}

// RelatedType names the upstream event that produced a system cash flow.
type RelatedType string

const (
	RelatedTypeSale     RelatedType = "SALE"
	RelatedTypePurchase RelatedType = "PURCHASE"
)

// TransferCategoryID is the sentinel category carried by TRANSFER entries.
const TransferCategoryID = "TRANSFER"

// Workflow errors. All of them are client errors.
var (
	ErrInvalidStatusTransition = fmt.Errorf("%w: cash flow is not in a state that allows this action", apperrors.ErrValidation)
	ErrNotCashFlowOwner        = fmt.Errorf("%w: only the creator of the cash flow can perform this action", apperrors.ErrForbidden)
	ErrTransferNotApprovable   = fmt.Errorf("%w: transfers are approved on creation", apperrors.ErrValidation)
	ErrNotReversible           = fmt.Errorf("%w: cash flow cannot be reversed", apperrors.ErrValidation)
	ErrAlreadyReconciled       = fmt.Errorf("%w: cash flow is already reconciled", apperrors.ErrValidation)
	ErrInsufficientBalance     = fmt.Errorf("%w: insufficient balance on account", apperrors.ErrValidation)
	ErrCategoryTypeMismatch    = fmt.Errorf("%w: category type does not match cash flow type", apperrors.ErrValidation)
)

// ErrReferenceTaken reports a reference already held by another entry of the
// scope. Writers draw a new reference and retry.
var ErrReferenceTaken = fmt.Errorf("%w: cash flow reference already in use", apperrors.ErrConflict)

// CashFlow is a single ledger entry.
type CashFlow struct {
	CashFlowID           string          `json:"cashFlowID"`
	Scope                                // Owning application and boutique
	Reference            string          `json:"reference"`
	Type                 CashFlowType    `json:"type"`
	Status               CashFlowStatus  `json:"status"`
	CategoryID           string          `json:"categoryID"`
	Label                string          `json:"label"`
	Description          string          `json:"description"`
	Amount               decimal.Decimal `json:"amount"`
	TaxAmount            decimal.Decimal `json:"taxAmount"`
	TaxRate              decimal.Decimal `json:"taxRate"`
	Currency             string          `json:"currency"`
	AccountID            string          `json:"accountID"`
	DestinationAccountID *string         `json:"destinationAccountID,omitempty"` // TRANSFER only
	PaymentMethod        PaymentMethod   `json:"paymentMethod"`
	Date                 time.Time       `json:"date"`

	ThirdPartyName      string       `json:"thirdPartyName"`
	ThirdPartyReference string       `json:"thirdPartyReference"` // invoice, receipt or external number
	RelatedType         *RelatedType `json:"relatedType,omitempty"`
	RelatedID           *string      `json:"relatedID,omitempty"`

	IsReconciled           bool       `json:"isReconciled"`
	ReconciledAt           *time.Time `json:"reconciledAt,omitempty"`
	ReconciledBy           *string    `json:"reconciledBy,omitempty"`
	BankStatementReference *string    `json:"bankStatementReference,omitempty"`

	IsSystemGenerated bool    `json:"isSystemGenerated"`
	AutoApproved      bool    `json:"autoApproved"`
	BudgetID          *string `json:"budgetID,omitempty"`

	IsReversal         bool    `json:"isReversal"`
	IsReversed         bool    `json:"isReversed"`
	OriginalCashFlowID *string `json:"originalCashFlowID,omitempty"`
	ReversalCashFlowID *string `json:"reversalCashFlowID,omitempty"`

	SubmittedAt     *time.Time `json:"submittedAt,omitempty"`
	SubmittedBy     *string    `json:"submittedBy,omitempty"`
	ValidatedAt     *time.Time `json:"validatedAt,omitempty"`
	ValidatedBy     *string    `json:"validatedBy,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	RejectedBy      *string    `json:"rejectedBy,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
	CancelledBy     *string    `json:"cancelledBy,omitempty"`
	AuditFields
}

// IsOwnedBy reports whether actorID created the entry.
func (cf CashFlow) IsOwnedBy(actorID string) bool {
	return cf.CreatedBy == actorID
}

// Touches reports whether the entry references accountID as source or destination.
func (cf CashFlow) Touches(accountID string) bool {
	return cf.AccountID == accountID || (cf.DestinationAccountID != nil && *cf.DestinationAccountID == accountID)
}

// CountsAsActivity reports whether the entry contributes to income or expense
// totals. Transfers move money internally and reversal pairs cancel out.
func (cf CashFlow) CountsAsActivity() bool {
	return cf.Status == CashFlowStatusApproved &&
		cf.Type != CashFlowTypeTransfer &&
		!cf.IsReversal && !cf.IsReversed
}

// MatchesSearch does a case-insensitive search over reference, label and description.
func (cf CashFlow) MatchesSearch(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(cf.Reference), term) ||
		strings.Contains(strings.ToLower(cf.Label), term) ||
		strings.Contains(strings.ToLower(cf.Description), term)
}

func (cf *CashFlow) transition(next CashFlowStatus) error {
	if !cf.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: current status is %s, cannot move to %s", ErrInvalidStatusTransition, cf.Status, next)
	}
	cf.Status = next
	return nil
}

// Submit moves a DRAFT into PENDING on behalf of its creator.
func (cf *CashFlow) Submit(actorID string, now time.Time) error {
	if cf.Status != CashFlowStatusDraft {
		return fmt.Errorf("%w: only DRAFT entries can be submitted (status %s)", ErrInvalidStatusTransition, cf.Status)
	}
	if !cf.IsOwnedBy(actorID) {
		return ErrNotCashFlowOwner
	}
	if err := cf.transition(CashFlowStatusPending); err != nil {
		return err
	}
	cf.SubmittedAt = &now
	cf.SubmittedBy = &actorID
	cf.Touch(actorID, now)
	return nil
}

// Approve moves a PENDING entry into APPROVED. The caller applies balances.
func (cf *CashFlow) Approve(actorID string, now time.Time) error {
	if cf.Type == CashFlowTypeTransfer {
		return ErrTransferNotApprovable
	}
	if cf.Status != CashFlowStatusPending {
		return fmt.Errorf("%w: only PENDING entries can be approved (status %s)", ErrInvalidStatusTransition, cf.Status)
	}
	if err := cf.transition(CashFlowStatusApproved); err != nil {
		return err
	}
	cf.ValidatedAt = &now
	cf.ValidatedBy = &actorID
	cf.Touch(actorID, now)
	return nil
}

// Reject moves a PENDING entry into REJECTED with a mandatory reason.
func (cf *CashFlow) Reject(actorID, reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperrors.NewValidationError("a rejection reason is required")
	}
	if cf.Status != CashFlowStatusPending {
		return fmt.Errorf("%w: only PENDING entries can be rejected (status %s)", ErrInvalidStatusTransition, cf.Status)
	}
	if err := cf.transition(CashFlowStatusRejected); err != nil {
		return err
	}
	cf.RejectedAt = &now
	cf.RejectedBy = &actorID
	cf.RejectionReason = &reason
	cf.Touch(actorID, now)
	return nil
}

// Cancel withdraws a DRAFT or PENDING entry on behalf of its creator.
func (cf *CashFlow) Cancel(actorID string, now time.Time) error {
	if !cf.IsOwnedBy(actorID) {
		return ErrNotCashFlowOwner
	}
	if err := cf.transition(CashFlowStatusCancelled); err != nil {
		return err
	}
	cf.CancelledAt = &now
	cf.CancelledBy = &actorID
	cf.Touch(actorID, now)
	return nil
}

// Reconcile marks an APPROVED entry as matched against a bank statement.
func (cf *CashFlow) Reconcile(actorID string, statementRef *string, now time.Time) error {
	if err := cf.CheckReconcilable(); err != nil {
		return err
	}
	cf.IsReconciled = true
	cf.ReconciledAt = &now
	cf.ReconciledBy = &actorID
	cf.BankStatementReference = statementRef
	cf.Touch(actorID, now)
	return nil
}

// CheckReconcilable validates reconciliation preconditions without mutating.
func (cf CashFlow) CheckReconcilable() error {
	if cf.Status != CashFlowStatusApproved {
		return fmt.Errorf("%w: only APPROVED entries can be reconciled (entry %s is %s)", ErrInvalidStatusTransition, cf.CashFlowID, cf.Status)
	}
	if cf.IsReconciled {
		return fmt.Errorf("%w: entry %s", ErrAlreadyReconciled, cf.CashFlowID)
	}
	return nil
}

// CheckReversible validates reversal preconditions without mutating.
func (cf CashFlow) CheckReversible() error {
	switch {
	case cf.Status != CashFlowStatusApproved:
		return fmt.Errorf("%w: only APPROVED entries can be reversed (status %s)", ErrNotReversible, cf.Status)
	case cf.Type == CashFlowTypeTransfer:
		return fmt.Errorf("%w: transfers are not reversible", ErrNotReversible)
	case cf.IsReversal:
		return fmt.Errorf("%w: entry is itself a reversal", ErrNotReversible)
	case cf.IsReversed:
		return fmt.Errorf("%w: entry has already been reversed", ErrNotReversible)
	}
	return nil
}

// EnsureEditable checks that a DRAFT is being amended by its creator.
func (cf CashFlow) EnsureEditable(actorID string) error {
	if cf.Status != CashFlowStatusDraft {
		return fmt.Errorf("%w: only DRAFT entries can be edited (status %s)", ErrInvalidStatusTransition, cf.Status)
	}
	if !cf.IsOwnedBy(actorID) {
		return ErrNotCashFlowOwner
	}
	return nil
}

// CashFlowSortField is a sortable column of the ledger listing.
type CashFlowSortField string

const (
	SortByDate      CashFlowSortField = "date"
	SortByAmount    CashFlowSortField = "amount"
	SortByCreatedAt CashFlowSortField = "createdAt"
)

// CashFlowFilter narrows ledger queries. Zero values mean "no constraint";
// PageSize 0 returns every match.
type CashFlowFilter struct {
	Types       []CashFlowType
	Statuses    []CashFlowStatus
	AccountID   string // source or destination
	CategoryIDs []string
	BudgetID    string
	CreatedBy   string
	DateFrom    *time.Time // inclusive
	DateTo      *time.Time // exclusive
	Search      string
	Page        int
	PageSize    int
	SortBy      CashFlowSortField
	SortDesc    bool
}

// Matches applies every constraint of the filter except paging and sorting.
func (f CashFlowFilter) Matches(cf CashFlow) bool {
	if len(f.Types) > 0 && !containsValue(f.Types, cf.Type) {
		return false
	}
	if len(f.Statuses) > 0 && !containsValue(f.Statuses, cf.Status) {
		return false
	}
	if f.AccountID != "" && !cf.Touches(f.AccountID) {
		return false
	}
	if len(f.CategoryIDs) > 0 && !containsValue(f.CategoryIDs, cf.CategoryID) {
		return false
	}
	if f.BudgetID != "" && (cf.BudgetID == nil || *cf.BudgetID != f.BudgetID) {
		return false
	}
	if f.CreatedBy != "" && cf.CreatedBy != f.CreatedBy {
		return false
	}
	if f.DateFrom != nil && cf.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && !cf.Date.Before(*f.DateTo) {
		return false
	}
	return cf.MatchesSearch(f.Search)
}

func containsValue[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
