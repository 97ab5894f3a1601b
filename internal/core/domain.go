package core

import (
	"errors"
	"strings"
)

const (
	Expenses TxType = "Expenses"
	Income   TxType = "Income"
	Savings  TxType = "Savings"
)

type (
	TxType string

	Money struct {
		Cents int64
	}

	// Transaction is one dated entry of the ledger. ID is assigned once at
	// creation and never changes; Category only carries meaning for Expenses.
	Transaction struct {
		ID       string
		Date     string
		Type     TxType
		Amount   Money
		Category string
		Notes    string
	}
)

var (
	ErrEmptyDate     = errors.New("empty date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
)

// SuggestedCategories is the fixed set offered by the expense section.
var SuggestedCategories = []string{"Rent", "Groceries", "Travel", "Utilities", "Others"}

// ParseType maps a section or persisted tag onto a TxType. The singular
// "Expense" is accepted as an alias for Expenses.
func ParseType(s string) (TxType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense", "expenses":
		return Expenses, nil
	case "income":
		return Income, nil
	case "savings", "saving":
		return Savings, nil
	}
	return "", ErrInvalidType
}

func (t TxType) String() string {
	return string(t)
}

func (t TxType) IsValid() bool {
	switch t {
	case Expenses, Income, Savings:
		return true
	default:
		return false
	}
}

// HasCategory reports whether records of this type carry a category.
func (t TxType) HasCategory() bool {
	return t == Expenses
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Date) == "" {
		return ErrEmptyDate
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	return t.Amount.Validate()
}

// Normalize clears fields that do not apply to the record's type.
func (t Transaction) Normalize() Transaction {
	t.Date = strings.TrimSpace(t.Date)
	t.Category = strings.TrimSpace(t.Category)
	if !t.Type.HasCategory() {
		t.Category = ""
	}
	return t
}
