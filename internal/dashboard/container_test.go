package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"facturita/internal/core"
	"facturita/internal/seed"
)

// fakeAPI scripts transport behaviour per operation.
type fakeAPI struct {
	taxTotals   []core.TaxTotal
	taxErr      error
	expenses    []core.Expense
	summaries   []core.EntityExpenseSummary
	expensesErr error
	collections []core.Collection
	colErr      error
	invoice     core.Invoice
	submitErr   error
	resetErr    error
	regenerated core.Money
	regenErr    error
	submitCalls int
}

func (f *fakeAPI) TaxTotals(_ context.Context, period string) ([]core.TaxTotal, string, error) {
	return f.taxTotals, period, f.taxErr
}
func (f *fakeAPI) Expenses(_ context.Context, _ string) ([]core.Expense, []core.EntityExpenseSummary, error) {
	return f.expenses, f.summaries, f.expensesErr
}
func (f *fakeAPI) Collections(_ context.Context, _ string) ([]core.Collection, error) {
	return f.collections, f.colErr
}
func (f *fakeAPI) SubmitInvoice(_ context.Context, _ core.BillRequest) (core.Invoice, error) {
	f.submitCalls++
	return f.invoice, f.submitErr
}
func (f *fakeAPI) ResetDemo(_ context.Context) error { return f.resetErr }
func (f *fakeAPI) RegenerateDemo(_ context.Context) (core.Money, error) {
	return f.regenerated, f.regenErr
}

// recorder captures observer notifications.
type recorder struct {
	issued   []core.Invoice
	rejected []string
}

func (r *recorder) InvoiceIssued(_ context.Context, inv core.Invoice) {
	r.issued = append(r.issued, inv)
}

func (r *recorder) InvoiceRejected(_ context.Context, msg string) {
	r.rejected = append(r.rejected, msg)
}

func newTestContainer(api API) *Container {
	c := New(api, seed.Baseline(), seed.DefaultPeriod)
	c.SetStartDelay(0)
	return c
}

func TestFetchTaxTotalsReplacesSlice(t *testing.T) {
	api := &fakeAPI{taxTotals: []core.TaxTotal{{CUIT: "30-1", Total: core.Pesos(42), Period: "2025-10"}}}
	c := newTestContainer(api)

	if err := c.FetchTaxTotals(context.Background(), ""); err != nil {
		t.Fatalf("FetchTaxTotals: %v", err)
	}
	snap := c.Snapshot()
	if len(snap.Data.TaxTotals) != 1 || snap.Data.TaxTotals[0].CUIT != "30-1" {
		t.Errorf("tax totals = %+v", snap.Data.TaxTotals)
	}
	if snap.Loading {
		t.Error("loading flag not cleared")
	}
	if snap.LastError != "" {
		t.Errorf("last error = %q", snap.LastError)
	}
}

func TestFetchTaxTotalsUnavailableRetainsSlice(t *testing.T) {
	api := &fakeAPI{taxErr: fmt.Errorf("%w: connection refused", ErrUnavailable)}
	c := newTestContainer(api)
	before := c.Snapshot().Data.TaxTotals

	if err := c.FetchTaxTotals(context.Background(), ""); err != nil {
		t.Fatalf("fallback should swallow the error, got %v", err)
	}
	snap := c.Snapshot()
	if len(snap.Data.TaxTotals) != len(before) {
		t.Errorf("fallback replaced the slice: %d != %d", len(snap.Data.TaxTotals), len(before))
	}
	if snap.LastError != "" {
		t.Errorf("transport failure surfaced: %q", snap.LastError)
	}
}

func TestFetchTaxTotalsOtherErrorRecorded(t *testing.T) {
	api := &fakeAPI{taxErr: errors.New("boom")}
	c := newTestContainer(api)

	if err := c.FetchTaxTotals(context.Background(), ""); err == nil {
		t.Fatal("expected error")
	}
	snap := c.Snapshot()
	if snap.LastError != "boom" {
		t.Errorf("last error = %q", snap.LastError)
	}
	if snap.Loading {
		t.Error("loading flag not cleared on failure")
	}
}

func TestFetchExpensesFallbackFilters(t *testing.T) {
	api := &fakeAPI{expensesErr: fmt.Errorf("%w: no route", ErrUnavailable)}
	c := newTestContainer(api)

	expenses, summaries, err := c.FetchExpenses(context.Background(), "E-C")
	if err != nil {
		t.Fatalf("FetchExpenses: %v", err)
	}
	if len(expenses) != 2 {
		t.Errorf("E-C local expenses = %d, want 2", len(expenses))
	}
	if len(summaries) != 1 || summaries[0].EntityID != "E-C" {
		t.Errorf("E-C local summaries = %+v", summaries)
	}
}

func TestFetchCollectionsFallbackAnnotates(t *testing.T) {
	api := &fakeAPI{colErr: fmt.Errorf("%w: refused", ErrUnavailable)}
	c := newTestContainer(api)

	cols, err := c.FetchCollections(context.Background(), "P4")
	if err != nil {
		t.Fatalf("FetchCollections: %v", err)
	}
	for _, col := range cols {
		if col.Point != "P4" {
			t.Errorf("collection %s from point %s leaked through the filter", col.ID, col.Point)
		}
		if col.Amount.Cents != col.Invoiced.Add(col.Pending).Cents {
			t.Errorf("collection %s not annotated: %d != %d + %d",
				col.ID, col.Amount.Cents, col.Invoiced.Cents, col.Pending.Cents)
		}
	}
}

func TestSubmitInvoiceSuccessNotifies(t *testing.T) {
	inv := core.Invoice{ID: "F-010", EntityID: "E-A", CollectionID: "R-110", Amount: core.Pesos(40000)}
	api := &fakeAPI{invoice: inv}
	c := newTestContainer(api)
	rec := &recorder{}
	c.Observe(rec)

	got, err := c.SubmitInvoice(context.Background(), core.BillRequest{
		CollectionID: "R-110", EntityID: "E-A", Amount: core.Pesos(40000),
	})
	if err != nil {
		t.Fatalf("SubmitInvoice: %v", err)
	}
	if got.ID != "F-010" {
		t.Errorf("invoice = %+v", got)
	}
	if len(rec.issued) != 1 || rec.issued[0].ID != "F-010" {
		t.Errorf("issued notifications = %+v", rec.issued)
	}
	snap := c.Snapshot()
	if len(snap.Data.Invoices) != 10 {
		t.Errorf("local invoices = %d, want 10", len(snap.Data.Invoices))
	}
}

func TestSubmitInvoiceValidationFailureNotifies(t *testing.T) {
	api := &fakeAPI{submitErr: errors.New("el monto solicitado ($90.001) excede el saldo pendiente ($90.000)")}
	c := newTestContainer(api)
	rec := &recorder{}
	c.Observe(rec)

	_, err := c.SubmitInvoice(context.Background(), core.BillRequest{
		CollectionID: "R-110", EntityID: "E-A", Amount: core.Pesos(90001),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(rec.rejected) != 1 {
		t.Fatalf("rejected notifications = %+v", rec.rejected)
	}
	snap := c.Snapshot()
	if snap.LastError == "" {
		t.Error("validation failure not recorded")
	}
	if len(snap.Data.Invoices) != 9 {
		t.Errorf("failed submission mutated local data: %d invoices", len(snap.Data.Invoices))
	}
}

func TestSubmitInvoiceRejectedBeforeTransport(t *testing.T) {
	tests := []struct {
		name string
		req  core.BillRequest
		want error
	}{
		{"missing collection", core.BillRequest{EntityID: "E-A", Amount: core.Pesos(100)}, core.ErrCollectionNotFound},
		{"zero amount", core.BillRequest{CollectionID: "R-110", EntityID: "E-A"}, core.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			c := newTestContainer(api)
			rec := &recorder{}
			c.Observe(rec)

			_, err := c.SubmitInvoice(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if api.submitCalls != 0 {
				t.Errorf("transport called %d times for an invalid request", api.submitCalls)
			}
			if len(rec.rejected) != 1 {
				t.Errorf("rejected notifications = %+v", rec.rejected)
			}
		})
	}
}

func TestSubmitInvoiceFallbackBillsLocally(t *testing.T) {
	api := &fakeAPI{submitErr: fmt.Errorf("%w: refused", ErrUnavailable)}
	c := newTestContainer(api)
	rec := &recorder{}
	c.Observe(rec)

	inv, err := c.SubmitInvoice(context.Background(), core.BillRequest{
		CollectionID: "R-110", EntityID: "E-A", Amount: core.Pesos(40000),
	})
	if err != nil {
		t.Fatalf("local fallback: %v", err)
	}
	if inv.ID != "F-010" {
		t.Errorf("locally billed invoice id = %s", inv.ID)
	}
	if len(rec.issued) != 1 {
		t.Errorf("issued notifications = %+v", rec.issued)
	}

	// The canonical algorithm ran in full: link, tax total and commission.
	snap := c.Snapshot()
	if len(snap.Data.Links) != 10 {
		t.Errorf("links = %d", len(snap.Data.Links))
	}
	var commission *core.Expense
	for i := range snap.Data.Expenses {
		if snap.Data.Expenses[i].Concept == "Comisión por Facturación" {
			commission = &snap.Data.Expenses[i]
		}
	}
	if commission == nil {
		t.Fatal("no commission expense recorded on the fallback path")
	}
	if commission.Amount.Cents != core.Pesos(800).Cents {
		t.Errorf("commission = %d cents, want 2%% of 40000 pesos", commission.Amount.Cents)
	}
}

func TestSubmitInvoiceFallbackValidation(t *testing.T) {
	api := &fakeAPI{submitErr: fmt.Errorf("%w: refused", ErrUnavailable)}
	c := newTestContainer(api)
	rec := &recorder{}
	c.Observe(rec)

	_, err := c.SubmitInvoice(context.Background(), core.BillRequest{
		CollectionID: "R-110", EntityID: "E-A", Amount: core.Pesos(90001),
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("got %v, want ErrInvalidAmount", err)
	}
	if len(rec.rejected) != 1 {
		t.Errorf("rejected notifications = %+v", rec.rejected)
	}
}

func TestLogBoundedAtFifty(t *testing.T) {
	api := &fakeAPI{}
	c := newTestContainer(api)

	for i := 0; i < 40; i++ {
		_ = c.FetchTaxTotals(context.Background(), "")
	}
	snap := c.Snapshot()
	if len(snap.Logs) != LogLimit {
		t.Fatalf("logs = %d, want %d", len(snap.Logs), LogLimit)
	}
	// Newest first.
	for i := 1; i < len(snap.Logs); i++ {
		if snap.Logs[i].Timestamp.After(snap.Logs[i-1].Timestamp) {
			t.Fatalf("log %d newer than log %d", i, i-1)
		}
	}
}

func TestStartLoadsConcurrently(t *testing.T) {
	api := &fakeAPI{
		taxTotals: []core.TaxTotal{{CUIT: "30-1", Period: "2025-10"}},
		expenses:  []core.Expense{{ID: "G-X", EntityID: "E-A", Amount: core.Pesos(1)}},
	}
	c := newTestContainer(api)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	snap := c.Snapshot()
	if len(snap.Data.TaxTotals) != 1 {
		t.Errorf("tax totals not loaded: %+v", snap.Data.TaxTotals)
	}
	if len(snap.Data.Expenses) != 1 {
		t.Errorf("expenses not loaded: %+v", snap.Data.Expenses)
	}
}

func TestSetStartDelay(t *testing.T) {
	c := New(&fakeAPI{}, seed.Baseline(), seed.DefaultPeriod)
	if c.startDelay != time.Second {
		t.Fatalf("default start delay = %v", c.startDelay)
	}
	c.SetStartDelay(0)
	if c.startDelay != 0 {
		t.Errorf("start delay after override = %v", c.startDelay)
	}
}

func TestResetDemoDataRestoresBaseline(t *testing.T) {
	api := &fakeAPI{invoice: core.Invoice{ID: "F-010"}}
	c := newTestContainer(api)

	if _, err := c.SubmitInvoice(context.Background(), core.BillRequest{
		CollectionID: "R-110", EntityID: "E-A", Amount: core.Pesos(1000),
	}); err != nil {
		t.Fatalf("SubmitInvoice: %v", err)
	}

	if err := c.ResetDemoData(context.Background(), seed.Baseline()); err != nil {
		t.Fatalf("ResetDemoData: %v", err)
	}
	snap := c.Snapshot()
	if len(snap.Data.Invoices) != 9 {
		t.Errorf("invoices after reset = %d, want baseline 9", len(snap.Data.Invoices))
	}
}
