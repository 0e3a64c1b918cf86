package core

import (
	"errors"
	"testing"
	"time"
)

func testDataset() Dataset {
	return Dataset{
		Entities: []Entity{
			{ID: "E-A", Name: "CUIT A", CUIT: "30-11111111-1"},
			{ID: "E-B", Name: "CUIT B", CUIT: "30-22222222-2"},
		},
		Points: []CollectionPoint{{ID: "P1", Name: "Sucursal"}},
		Collection: []Collection{
			{ID: "R-101", Point: "P1", Date: "2025-10-01", Amount: Pesos(120000), Method: "Tarjeta"},
			{ID: "R-102", Point: "P1", Date: "2025-10-02", Amount: Pesos(50000), Method: "Efectivo"},
		},
		TaxTotals: []TaxTotal{
			{CUIT: "30-11111111-1", Total: Pesos(500000), Period: "2025-10"},
		},
	}
}

var billNow = time.Date(2025, 10, 20, 12, 0, 0, 0, time.UTC)

func TestBillSuccess(t *testing.T) {
	ds := testDataset()
	req := BillRequest{CollectionID: "R-101", EntityID: "E-A", Amount: Pesos(50000)}

	res, err := ds.Bill(req, "2025-10", billNow)
	if err != nil {
		t.Fatalf("Bill: %v", err)
	}

	if res.Invoice.ID != "F-001" {
		t.Errorf("invoice id = %s, want F-001", res.Invoice.ID)
	}
	if res.Invoice.ReceiptNumber != "0001-00000001" {
		t.Errorf("receipt = %s", res.Invoice.ReceiptNumber)
	}
	if len(res.Invoice.AuthCode) != 12 {
		t.Errorf("auth code %q is not 12 digits", res.Invoice.AuthCode)
	}
	if res.Invoice.AuthExpiry != "2025-11-19" {
		t.Errorf("auth expiry = %s, want issue+30d", res.Invoice.AuthExpiry)
	}
	if res.Invoice.IssuedAt != "2025-10-20" {
		t.Errorf("issued at = %s", res.Invoice.IssuedAt)
	}

	if len(ds.Invoices) != 1 || len(ds.Links) != 1 {
		t.Fatalf("invoices=%d links=%d, want 1 and 1", len(ds.Invoices), len(ds.Links))
	}
	if ds.Links[0].Amount.Cents != Pesos(50000).Cents {
		t.Errorf("link amount = %d", ds.Links[0].Amount.Cents)
	}

	pending := Pending(ds.Collection[0], ds.Links)
	if pending.Cents != Pesos(70000).Cents {
		t.Errorf("pending = %d cents, want 70000 pesos", pending.Cents)
	}

	// Tax total for E-A's CUIT grows by the invoiced amount.
	if ds.TaxTotals[0].Total.Cents != Pesos(550000).Cents {
		t.Errorf("tax total = %d cents, want 550000 pesos", ds.TaxTotals[0].Total.Cents)
	}

	// 2% commission recorded as an expense with a summary entry.
	if res.Commission.Amount.Cents != Pesos(1000).Cents {
		t.Errorf("commission = %d cents, want 1000 pesos", res.Commission.Amount.Cents)
	}
	if res.Commission.Concept != "Comisión por Facturación" {
		t.Errorf("commission concept = %q", res.Commission.Concept)
	}
	if len(ds.Summaries) != 1 || ds.Summaries[0].Total.Cents != Pesos(1000).Cents {
		t.Errorf("summary not updated: %+v", ds.Summaries)
	}
}

func TestBillSequence(t *testing.T) {
	ds := testDataset()

	if _, err := ds.Bill(BillRequest{CollectionID: "R-101", EntityID: "E-A", Amount: Pesos(50000)}, "2025-10", billNow); err != nil {
		t.Fatalf("first bill: %v", err)
	}
	if _, err := ds.Bill(BillRequest{CollectionID: "R-101", EntityID: "E-B", Amount: Pesos(70000)}, "2025-10", billNow); err != nil {
		t.Fatalf("second bill: %v", err)
	}

	if ds.Invoices[1].ID != "F-002" || ds.Links[1].ID != "RF-002" {
		t.Errorf("sequential ids: invoice=%s link=%s", ds.Invoices[1].ID, ds.Links[1].ID)
	}
	if pending := Pending(ds.Collection[0], ds.Links); pending.Cents != 0 {
		t.Errorf("pending after exhausting = %d, want 0", pending.Cents)
	}

	// A third submission exceeds the now-zero balance and must not mutate.
	before := len(ds.Invoices)
	_, err := ds.Bill(BillRequest{CollectionID: "R-101", EntityID: "E-A", Amount: Pesos(1)}, "2025-10", billNow)
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if len(ds.Invoices) != before {
		t.Errorf("rejected submission mutated the dataset")
	}

	// E-B had no tax total; billing created one.
	found := false
	for _, tt := range ds.TaxTotals {
		if tt.CUIT == "30-22222222-2" && tt.Period == "2025-10" {
			found = true
			if tt.Total.Cents != Pesos(70000).Cents {
				t.Errorf("E-B tax total = %d cents", tt.Total.Cents)
			}
		}
	}
	if !found {
		t.Error("no tax total created for E-B")
	}
}

func TestBillRejections(t *testing.T) {
	cases := []struct {
		name string
		req  BillRequest
		want error
	}{
		{"unknown collection", BillRequest{CollectionID: "R-999", EntityID: "E-A", Amount: Pesos(10)}, ErrCollectionNotFound},
		{"zero amount", BillRequest{CollectionID: "R-101", EntityID: "E-A", Amount: Money{}}, ErrInvalidAmount},
		{"negative amount", BillRequest{CollectionID: "R-101", EntityID: "E-A", Amount: Money{Cents: -100}}, ErrInvalidAmount},
		{"exceeds pending", BillRequest{CollectionID: "R-101", EntityID: "E-A", Amount: Pesos(120001)}, ErrInvalidAmount},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ds := testDataset()
			_, err := ds.Bill(c.req, "2025-10", billNow)
			if !errors.Is(err, c.want) {
				t.Fatalf("got %v, want %v", err, c.want)
			}
			if len(ds.Invoices) != 0 || len(ds.Links) != 0 || len(ds.Expenses) != 0 {
				t.Error("failed billing mutated the dataset")
			}
			if ds.TaxTotals[0].Total.Cents != Pesos(500000).Cents {
				t.Error("failed billing changed the tax total")
			}
		})
	}
}

func TestBillRequestValidate(t *testing.T) {
	cases := []struct {
		name string
		req  BillRequest
		want error
	}{
		{"ok", BillRequest{CollectionID: "R-101", EntityID: "E-A", Amount: Pesos(10)}, nil},
		{"blank collection", BillRequest{CollectionID: "  ", EntityID: "E-A", Amount: Pesos(10)}, ErrCollectionNotFound},
		{"zero amount", BillRequest{CollectionID: "R-101", EntityID: "E-A"}, ErrInvalidAmount},
		{"negative amount", BillRequest{CollectionID: "R-101", EntityID: "E-A", Amount: Money{Cents: -1}}, ErrInvalidAmount},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.req.Validate(); !errors.Is(err, c.want) {
				t.Errorf("got %v, want %v", err, c.want)
			}
		})
	}
}

func TestBillExceedsPendingMessage(t *testing.T) {
	ds := testDataset()
	_, err := ds.Bill(BillRequest{CollectionID: "R-102", EntityID: "E-A", Amount: Pesos(80000)}, "2025-10", billNow)
	if err == nil {
		t.Fatal("expected error")
	}
	want := "el monto solicitado ($80.000) excede el saldo pendiente ($50.000)"
	if got := err.Error(); got != "monto inválido: "+want {
		t.Errorf("message = %q", got)
	}
}

func TestAnnotate(t *testing.T) {
	ds := testDataset()
	ds.Links = []InvoiceLink{
		{ID: "RF-001", CollectionID: "R-101", InvoiceID: "F-001", Amount: Pesos(30000)},
		{ID: "RF-002", CollectionID: "R-101", InvoiceID: "F-002", Amount: Pesos(20000)},
	}
	cols := Annotate(ds.Collection, ds.Links)
	if cols[0].Invoiced.Cents != Pesos(50000).Cents {
		t.Errorf("invoiced = %d", cols[0].Invoiced.Cents)
	}
	if cols[0].Pending.Cents != Pesos(70000).Cents {
		t.Errorf("pending = %d", cols[0].Pending.Cents)
	}
	if cols[1].Invoiced.Cents != 0 || cols[1].Pending.Cents != Pesos(50000).Cents {
		t.Errorf("untouched collection annotated wrong: %+v", cols[1])
	}
	// Annotate must not mutate its input.
	if ds.Collection[0].Invoiced.Cents != 0 {
		t.Error("Annotate mutated the source slice")
	}
}

func TestFilterCollections(t *testing.T) {
	cols := []Collection{
		{ID: "R-1", Point: "P1"},
		{ID: "R-2", Point: "P2"},
		{ID: "R-3", Point: "P1"},
	}
	if got := FilterCollections(cols, ""); len(got) != 3 {
		t.Errorf("unfiltered len = %d", len(got))
	}
	got := FilterCollections(cols, "P1")
	if len(got) != 2 || got[0].ID != "R-1" || got[1].ID != "R-3" {
		t.Errorf("P1 filter = %+v", got)
	}
}

func TestFilterTaxTotals(t *testing.T) {
	totals := []TaxTotal{
		{CUIT: "30-1", Period: "2025-10"},
		{CUIT: "30-2", Period: "2025-09"},
	}
	got := FilterTaxTotals(totals, "2025-10")
	if len(got) != 1 || got[0].CUIT != "30-1" {
		t.Errorf("filtered = %+v", got)
	}
}
