package core

// Breakdown holds the totals shown next to the transaction log.
//
// Savings is always the income/expense residual floored at zero, so the three
// chart slices stay mutually exclusive. Savings entered directly are reported
// in RecordedSavings and never added to a slice.
type Breakdown struct {
	Income          Money
	Expenses        Money
	Savings         Money
	RecordedSavings Money
}

// NoData reports whether there is nothing to chart.
func (b Breakdown) NoData() bool {
	return b.Income.Cents == 0 && b.Expenses.Cents == 0 && b.Savings.Cents == 0
}

// Summarize aggregates the collection. The result does not depend on order.
func Summarize(txs []Transaction) Breakdown {
	var b Breakdown
	for _, t := range txs {
		switch t.Type {
		case Income:
			b.Income = b.Income.Add(t.Amount)
		case Expenses:
			b.Expenses = b.Expenses.Add(t.Amount)
		case Savings:
			b.RecordedSavings = b.RecordedSavings.Add(t.Amount)
		}
	}
	if residual := b.Income.Cents - b.Expenses.Cents; residual > 0 {
		b.Savings = Money{Cents: residual}
	}
	return b
}
