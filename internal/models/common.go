package models

import "time"

// AuditFields are the audit columns shared by every treasury table.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
	LastUpdatedBy string    `db:"last_updated_by"`
}

// Scope columns isolate rows per application and boutique.
type Scope struct {
	ApplicationID string `db:"application_id"`
	BoutiqueID    string `db:"boutique_id"`
}
