package models

// Category represents a row of treasury_categories.
type Category struct {
	CategoryID  string `db:"category_id"`
	Scope
	Name        string `db:"name"`
	Type        string `db:"type"`
	Description string `db:"description"`
	Color       string `db:"color"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}
