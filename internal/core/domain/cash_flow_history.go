package domain

import "time"

// CashFlowAction names a history event.
type CashFlowAction string

const (
	ActionCreated    CashFlowAction = "CREATED"
	ActionUpdated    CashFlowAction = "UPDATED"
	ActionSubmitted  CashFlowAction = "SUBMITTED"
	ActionApproved   CashFlowAction = "APPROVED"
	ActionRejected   CashFlowAction = "REJECTED"
	ActionReconciled CashFlowAction = "RECONCILED"
	ActionCancelled  CashFlowAction = "CANCELLED"
)

// CashFlowHistory is an append-only audit row. It references its cash flow by id only.
type CashFlowHistory struct {
	HistoryID  string          `json:"historyID"`
	CashFlowID string          `json:"cashFlowID"`
	Action     CashFlowAction  `json:"action"`
	OldStatus  *CashFlowStatus `json:"oldStatus,omitempty"`
	NewStatus  CashFlowStatus  `json:"newStatus"`
	Comment    string          `json:"comment"`
	ActorID    string          `json:"actorID"`
	CreatedAt  time.Time       `json:"createdAt"`
}
