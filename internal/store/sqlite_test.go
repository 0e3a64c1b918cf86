package store

import (
	"context"
	"path/filepath"
	"testing"

	"facturita/internal/core"
)

func TestSQLiteSnapshotsRoundtrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	blobs, err := NewSQLiteSnapshots(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteSnapshots: %v", err)
	}
	defer blobs.Close()

	snap, err := blobs.Load(ctx)
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if snap != nil {
		t.Fatalf("fresh database returned a snapshot: %+v", snap)
	}

	want := Snapshot{
		Invoices: []core.Invoice{{ID: "F-010", EntityID: "E-A", Amount: core.Pesos(40000)}},
		Links:    []core.InvoiceLink{{ID: "RF-010", CollectionID: "R-110", InvoiceID: "F-010", Amount: core.Pesos(40000)}},
		TaxTotals: []core.TaxTotal{
			{CUIT: "30-11111111-1", Total: core.Pesos(540000), Period: "2025-10"},
		},
	}
	if err := blobs.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := blobs.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || len(got.Invoices) != 1 || got.Invoices[0].ID != "F-010" {
		t.Fatalf("loaded = %+v", got)
	}
	if got.TaxTotals[0].Total.Cents != core.Pesos(540000).Cents {
		t.Errorf("tax total = %d", got.TaxTotals[0].Total.Cents)
	}

	// Second save overwrites in place.
	want.Invoices = append(want.Invoices, core.Invoice{ID: "F-011"})
	if err := blobs.Save(ctx, want); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	got, err = blobs.Load(ctx)
	if err != nil {
		t.Fatalf("Load after overwrite: %v", err)
	}
	if len(got.Invoices) != 2 {
		t.Errorf("invoices after overwrite = %d", len(got.Invoices))
	}

	if err := blobs.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, err = blobs.Load(ctx)
	if err != nil {
		t.Fatalf("Load after clear: %v", err)
	}
	if got != nil {
		t.Errorf("snapshot survived clear: %+v", got)
	}
}

func TestSQLiteSnapshotsCorruptBlobFallsBack(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	blobs, err := NewSQLiteSnapshots(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteSnapshots: %v", err)
	}
	defer blobs.Close()

	if _, err := blobs.db.ExecContext(ctx,
		`INSERT INTO demo_snapshots (key, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		SnapshotKey, []byte("{not json")); err != nil {
		t.Fatalf("insert corrupt blob: %v", err)
	}

	snap, err := blobs.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap != nil {
		t.Errorf("corrupt blob produced a snapshot: %+v", snap)
	}
}
