package core

import "testing"

func TestSummarizeExpenses(t *testing.T) {
	entities := []Entity{
		{ID: "E-A", CUIT: "30-11111111-1"},
		{ID: "E-B", CUIT: "30-22222222-2"},
		{ID: "E-C", CUIT: "30-33333333-3"},
	}
	expenses := []Expense{
		{ID: "G-1", EntityID: "E-A", Amount: Pesos(100)},
		{ID: "G-2", EntityID: "E-A", Amount: Pesos(200)},
		{ID: "G-3", EntityID: "E-B", Amount: Pesos(50)},
	}

	summaries := SummarizeExpenses(entities, expenses)
	if len(summaries) != 2 {
		t.Fatalf("len = %d, want 2 (entities without expenses get no summary)", len(summaries))
	}

	byEntity := map[string]EntityExpenseSummary{}
	for _, s := range summaries {
		byEntity[s.EntityID] = s
	}

	a := byEntity["E-A"]
	if a.Total.Cents != Pesos(300).Cents || a.ReceiptCount != 2 || len(a.Expenses) != 2 {
		t.Errorf("E-A summary = %+v", a)
	}
	if a.CUIT != "30-11111111-1" {
		t.Errorf("E-A cuit = %s", a.CUIT)
	}
	b := byEntity["E-B"]
	if b.Total.Cents != Pesos(50).Cents || b.ReceiptCount != 1 {
		t.Errorf("E-B summary = %+v", b)
	}
}

func TestFilterExpenses(t *testing.T) {
	expenses := []Expense{
		{ID: "G-1", EntityID: "E-A"},
		{ID: "G-2", EntityID: "E-B"},
	}
	if got := FilterExpenses(expenses, ""); len(got) != 2 {
		t.Errorf("unfiltered len = %d", len(got))
	}
	got := FilterExpenses(expenses, "E-B")
	if len(got) != 1 || got[0].ID != "G-2" {
		t.Errorf("filtered = %+v", got)
	}
}

func TestFilterSummaries(t *testing.T) {
	summaries := []EntityExpenseSummary{
		{EntityID: "E-A"}, {EntityID: "E-B"},
	}
	got := FilterSummaries(summaries, "E-A")
	if len(got) != 1 || got[0].EntityID != "E-A" {
		t.Errorf("filtered = %+v", got)
	}
}

func TestTotalCollected(t *testing.T) {
	cols := []Collection{
		{Amount: Pesos(100)},
		{Amount: Pesos(250)},
	}
	if got := TotalCollected(cols); got.Cents != Pesos(350).Cents {
		t.Errorf("total = %d", got.Cents)
	}
}
