package core

// FilterExpenses returns the expenses belonging to the given entity, or all
// of them when entityID is empty.
func FilterExpenses(expenses []Expense, entityID string) []Expense {
	if entityID == "" {
		return append([]Expense(nil), expenses...)
	}
	var out []Expense
	for _, e := range expenses {
		if e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out
}

// FilterSummaries returns the per-entity summaries for the given entity, or
// all of them when entityID is empty.
func FilterSummaries(summaries []EntityExpenseSummary, entityID string) []EntityExpenseSummary {
	if entityID == "" {
		return append([]EntityExpenseSummary(nil), summaries...)
	}
	var out []EntityExpenseSummary
	for _, s := range summaries {
		if s.EntityID == entityID {
			out = append(out, s)
		}
	}
	return out
}

// SummarizeExpenses rebuilds the per-entity summaries from scratch, keyed in
// entity declaration order. Entities without expenses get no summary.
func SummarizeExpenses(entities []Entity, expenses []Expense) []EntityExpenseSummary {
	var out []EntityExpenseSummary
	for _, ent := range entities {
		var sum EntityExpenseSummary
		sum.EntityID = ent.ID
		sum.CUIT = ent.CUIT
		for _, e := range expenses {
			if e.EntityID != ent.ID {
				continue
			}
			sum.Total = sum.Total.Add(e.Amount)
			sum.ReceiptCount++
			sum.Expenses = append(sum.Expenses, e)
		}
		if sum.ReceiptCount > 0 {
			out = append(out, sum)
		}
	}
	return out
}

// TotalCollected sums the raw amounts of a set of collections.
func TotalCollected(cols []Collection) Money {
	var sum Money
	for _, c := range cols {
		sum = sum.Add(c.Amount)
	}
	return sum
}
