// Package store owns the mutable demo dataset. The dataset lives in memory
// and is mutated synchronously under a single mutex; the mutable subset
// (invoices, links, tax totals) is persisted as one JSON snapshot through a
// pluggable SnapshotStore so a restart picks up where the demo left off.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"facturita/internal/core"
	"facturita/internal/seed"
)

// SnapshotKey is the fixed key the mutable subset is persisted under.
const SnapshotKey = "facturita-dashboard-data"

// Snapshot is the persisted mutable subset of the demo dataset.
type Snapshot struct {
	Invoices  []core.Invoice     `json:"facturas"`
	Links     []core.InvoiceLink `json:"recaudacionFacturas"`
	TaxTotals []core.TaxTotal    `json:"facturacionARCA"`
}

// SnapshotStore persists the snapshot blob. Absence of a snapshot means
// "use the baseline seed data".
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
	Clear(ctx context.Context) error
	Close() error
}

// Store is the demo backend's single source of truth.
type Store struct {
	mu     sync.Mutex
	data   core.Dataset
	period string
	blobs  SnapshotStore
	now    func() time.Time
}

// New builds a store seeded from the baseline, overlaid with any persisted
// snapshot. blobs may be nil, in which case nothing is persisted.
func New(ctx context.Context, blobs SnapshotStore, period string) (*Store, error) {
	if period == "" {
		period = seed.DefaultPeriod
	}
	s := &Store{
		data:   seed.Baseline(),
		period: period,
		blobs:  blobs,
		now:    time.Now,
	}
	if blobs != nil {
		snap, err := blobs.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		if snap != nil {
			s.data.Invoices = snap.Invoices
			s.data.Links = snap.Links
			s.data.TaxTotals = snap.TaxTotals
			slog.InfoContext(ctx, "Restored demo snapshot",
				"key", SnapshotKey,
				"invoices", len(snap.Invoices),
				"links", len(snap.Links),
				"tax_totals", len(snap.TaxTotals))
		}
	}
	return s, nil
}

// Period returns the active reporting period.
func (s *Store) Period() string {
	return s.period
}

// TaxTotals returns the tax-authority totals for the given period, or for
// the active period when empty.
func (s *Store) TaxTotals(_ context.Context, period string) ([]core.TaxTotal, string) {
	if period == "" {
		period = s.period
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.FilterTaxTotals(s.data.TaxTotals, period), period
}

// Expenses returns expense records and per-entity summaries, optionally
// filtered by entity.
func (s *Store) Expenses(_ context.Context, entityID string) ([]core.Expense, []core.EntityExpenseSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.FilterExpenses(s.data.Expenses, entityID),
		core.FilterSummaries(s.data.Summaries, entityID)
}

// Collections returns collections optionally filtered by point, each with a
// freshly computed invoiced and pending amount.
func (s *Store) Collections(_ context.Context, pointID string) []core.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Annotate(core.FilterCollections(s.data.Collection, pointID), s.data.Links)
}

// LastAuthorizedNumber fabricates the tax authority's "last authorized
// receipt number" lookup for a CUIT and sales point.
func (s *Store) LastAuthorizedNumber(cuit, salesPoint string) (string, string, int) {
	if salesPoint == "" {
		salesPoint = "0001"
	}
	return cuit, salesPoint, rand.Intn(1000) + 1
}

// SubmitInvoice validates the request against the collection's pending
// balance; on success it appends the invoice, link and commission expense,
// bumps the entity's tax total for the active period, and persists the
// mutable subset.
func (s *Store) SubmitInvoice(ctx context.Context, req core.BillRequest) (core.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.data.Bill(req, s.period, s.now())
	if err != nil {
		return core.Invoice{}, err
	}
	s.persist(ctx)
	slog.InfoContext(ctx, "Invoice issued",
		"invoice", res.Invoice.ID,
		"entity", req.EntityID,
		"collection", req.CollectionID,
		"amount_cents", req.Amount.Cents)
	return res.Invoice, nil
}

// Reset restores the baseline dataset and discards the persisted snapshot.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = seed.Baseline()
	if s.blobs != nil {
		if err := s.blobs.Clear(ctx); err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
	}
	slog.InfoContext(ctx, "Demo data reset to baseline")
	return nil
}

// Regenerate replaces the collection set with a fresh variant, restores
// invoices, links and tax totals to baseline, and persists. It reports the
// total collected amount of the new set.
func (s *Store) Regenerate(ctx context.Context) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := seed.Baseline()
	s.data.Collection = seed.Variant()
	s.data.Invoices = base.Invoices
	s.data.Links = base.Links
	s.data.TaxTotals = base.TaxTotals
	s.persist(ctx)
	total := core.TotalCollected(s.data.Collection)
	slog.InfoContext(ctx, "Demo data regenerated",
		"collections", len(s.data.Collection),
		"total_cents", total.Cents)
	return total, nil
}

// Data returns a deep copy of the current dataset.
func (s *Store) Data() core.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// persist writes the mutable subset; callers hold the mutex. Persistence
// failures are logged, not surfaced: the in-memory state is authoritative
// for the session.
func (s *Store) persist(ctx context.Context) {
	if s.blobs == nil {
		return
	}
	snap := Snapshot{
		Invoices:  append([]core.Invoice(nil), s.data.Invoices...),
		Links:     append([]core.InvoiceLink(nil), s.data.Links...),
		TaxTotals: append([]core.TaxTotal(nil), s.data.TaxTotals...),
	}
	if err := s.blobs.Save(ctx, snap); err != nil {
		slog.ErrorContext(ctx, "Failed persisting demo snapshot", "error", err, "key", SnapshotKey)
	}
}

// Close releases the snapshot backend.
func (s *Store) Close() error {
	if s.blobs != nil {
		return s.blobs.Close()
	}
	return nil
}
