package domain

import (
	"strings"
	"time"

	"github.com/SscSPs/boutique_treasury/internal/apperrors"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // Actor reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // Actor reference
}

// NewAuditFields stamps creation and last update with the same actor and time.
func NewAuditFields(actorID string, now time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}
}

// Touch records a modification.
func (a *AuditFields) Touch(actorID string, now time.Time) {
	a.LastUpdatedAt = now
	a.LastUpdatedBy = actorID
}

// Scope isolates every treasury record to one application and boutique.
type Scope struct {
	ApplicationID string `json:"applicationID"`
	BoutiqueID    string `json:"boutiqueID"`
}

// Validate ensures both halves of the scope are present.
func (s Scope) Validate() error {
	if strings.TrimSpace(s.ApplicationID) == "" || strings.TrimSpace(s.BoutiqueID) == "" {
		return apperrors.NewValidationError("application and boutique identifiers are required")
	}
	return nil
}

// String renders the scope as a stable key, e.g. for cache entries.
func (s Scope) String() string {
	return s.ApplicationID + ":" + s.BoutiqueID
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns the first instant of t's month.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
