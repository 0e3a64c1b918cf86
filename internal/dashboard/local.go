package dashboard

import (
	"context"

	"facturita/internal/core"
	"facturita/internal/store"
)

// LocalAPI serves the container directly from the in-process store, skipping
// HTTP entirely. Used when the dashboard runs inside the backend binary.
type LocalAPI struct {
	Store *store.Store
}

var _ API = (*LocalAPI)(nil)

func (l *LocalAPI) TaxTotals(ctx context.Context, period string) ([]core.TaxTotal, string, error) {
	totals, resolved := l.Store.TaxTotals(ctx, period)
	return totals, resolved, nil
}

func (l *LocalAPI) Expenses(ctx context.Context, entityID string) ([]core.Expense, []core.EntityExpenseSummary, error) {
	expenses, summaries := l.Store.Expenses(ctx, entityID)
	return expenses, summaries, nil
}

func (l *LocalAPI) Collections(ctx context.Context, pointID string) ([]core.Collection, error) {
	return l.Store.Collections(ctx, pointID), nil
}

func (l *LocalAPI) SubmitInvoice(ctx context.Context, req core.BillRequest) (core.Invoice, error) {
	return l.Store.SubmitInvoice(ctx, req)
}

func (l *LocalAPI) ResetDemo(ctx context.Context) error {
	return l.Store.Reset(ctx)
}

func (l *LocalAPI) RegenerateDemo(ctx context.Context) (core.Money, error) {
	return l.Store.Regenerate(ctx)
}
