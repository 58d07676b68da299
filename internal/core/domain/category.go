package domain

// CategoryType classifies a category as income or expense.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
)

// IsValid reports whether t is a known category type.
func (t CategoryType) IsValid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category classifies cash flows of the matching type.
type Category struct {
	CategoryID  string       `json:"categoryID"`
	Scope                    // Owning application and boutique
	Name        string       `json:"name"`
	Type        CategoryType `json:"type"`
	Description string       `json:"description"`
	Color       string       `json:"color"`
	IsActive    bool         `json:"isActive"`
	AuditFields
}

// Accepts reports whether a cash flow of type t may use this category.
func (c Category) Accepts(t CashFlowType) bool {
	switch t {
	case CashFlowTypeIncome:
		return c.Type == CategoryTypeIncome
	case CashFlowTypeExpense:
		return c.Type == CategoryTypeExpense
	}
	return false
}
