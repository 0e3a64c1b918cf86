// Package dashboard holds the client-side view of the demo data: a single
// state container that calls the backend API, falls back to local
// computation when the backend is unreachable, and keeps a bounded log of
// recent calls for the on-page inspector.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"facturita/internal/core"
	"facturita/internal/notify"
)

// ErrUnavailable marks a transport-level failure: the backend could not be
// reached or answered with something that is not JSON. It is recovered
// silently via the local fallback paths and never shown to the user.
var ErrUnavailable = errors.New("backend no disponible")

// API is the backend contract the container talks to. The in-process store
// and the remote HTTP client both implement it.
type API interface {
	TaxTotals(ctx context.Context, period string) ([]core.TaxTotal, string, error)
	Expenses(ctx context.Context, entityID string) ([]core.Expense, []core.EntityExpenseSummary, error)
	Collections(ctx context.Context, pointID string) ([]core.Collection, error)
	SubmitInvoice(ctx context.Context, req core.BillRequest) (core.Invoice, error)
	ResetDemo(ctx context.Context) error
	RegenerateDemo(ctx context.Context) (core.Money, error)
}

// State is a point-in-time copy of the container for rendering.
type State struct {
	Data      core.Dataset
	Loading   bool
	LastError string
	Logs      []APILog
	Period    string
}

// Container is the single source of truth for the dashboard UI.
type Container struct {
	mu        sync.Mutex
	api       API
	data      core.Dataset
	loading   bool
	lastErr   string
	logs      []APILog
	period    string
	observers notify.Multi

	startDelay time.Duration
	now        func() time.Time
}

// New builds a container over the given transport, pre-populated with the
// seed dataset so the page has something to show before the first fetch.
func New(api API, seedData core.Dataset, period string) *Container {
	return &Container{
		api:        api,
		data:       seedData.Clone(),
		period:     period,
		startDelay: time.Second,
		now:        time.Now,
	}
}

// Observe registers an observer for billing notifications.
func (c *Container) Observe(n notify.Notifier) {
	c.mu.Lock()
	c.observers = append(c.observers, n)
	c.mu.Unlock()
}

// SetStartDelay overrides how long Start waits before the initial load.
func (c *Container) SetStartDelay(d time.Duration) {
	c.mu.Lock()
	c.startDelay = d
	c.mu.Unlock()
}

// Snapshot returns a deep copy of the current state.
func (c *Container) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Data:      c.data.Clone(),
		Loading:   c.loading,
		LastError: c.lastErr,
		Logs:      append([]APILog(nil), c.logs...),
		Period:    c.period,
	}
}

// Start waits briefly so the backend can come up, then loads tax totals and
// expenses concurrently. It blocks until the initial load finishes or the
// context is cancelled.
func (c *Container) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.startDelay):
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.FetchTaxTotals(gctx, "") })
	g.Go(func() error { _, _, err := c.FetchExpenses(gctx, ""); return err })
	return g.Wait()
}

// FetchTaxTotals refreshes the tax-authority totals for the given period
// (active period when empty). When the backend is unreachable the in-memory
// slice is retained unchanged.
func (c *Container) FetchTaxTotals(ctx context.Context, period string) error {
	c.setLoading(true)
	defer c.setLoading(false)
	c.setError("")

	if period == "" {
		period = c.period
	}
	url := "/api/arca/facturacion?periodo=" + period
	c.addLog("GET", url, map[string]string{"periodo": period}, nil)

	totals, _, err := c.api.TaxTotals(ctx, period)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			slog.DebugContext(ctx, "Backend unreachable, keeping in-memory tax totals")
			c.addLog("GET", url, nil, map[string]string{"fallback": "local"})
			return nil
		}
		c.setError(err.Error())
		c.addLog("GET", url, nil, map[string]string{"error": err.Error()})
		return err
	}

	c.mu.Lock()
	c.data.TaxTotals = totals
	c.mu.Unlock()
	c.addLog("GET", url, nil, map[string]int{"total": len(totals)})
	return nil
}

// FetchExpenses returns expense records and per-entity summaries, optionally
// filtered by entity. On transport failure it filters the in-memory slices
// locally.
func (c *Container) FetchExpenses(ctx context.Context, entityID string) ([]core.Expense, []core.EntityExpenseSummary, error) {
	c.setLoading(true)
	defer c.setLoading(false)
	c.setError("")

	url := "/api/gastos"
	if entityID != "" {
		url += "?entidadId=" + entityID
	}
	c.addLog("GET", url, map[string]string{"entidadId": entityID}, nil)

	expenses, summaries, err := c.api.Expenses(ctx, entityID)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			c.mu.Lock()
			expenses = core.FilterExpenses(c.data.Expenses, entityID)
			summaries = core.FilterSummaries(c.data.Summaries, entityID)
			c.mu.Unlock()
			c.addLog("GET", url, nil, map[string]string{"fallback": "local"})
			return expenses, summaries, nil
		}
		c.setError(err.Error())
		c.addLog("GET", url, nil, map[string]string{"error": err.Error()})
		return nil, nil, err
	}

	if entityID == "" {
		c.mu.Lock()
		c.data.Expenses = expenses
		c.data.Summaries = summaries
		c.mu.Unlock()
	}
	c.addLog("GET", url, nil, map[string]int{"gastos": len(expenses)})
	return expenses, summaries, nil
}

// FetchCollections returns collections optionally filtered by point, each
// annotated with invoiced and pending amounts. On transport failure the
// annotation is recomputed locally from the in-memory link records.
func (c *Container) FetchCollections(ctx context.Context, pointID string) ([]core.Collection, error) {
	c.setLoading(true)
	defer c.setLoading(false)
	c.setError("")

	url := "/api/recaudaciones"
	if pointID != "" {
		url += "?punto=" + pointID
	}
	c.addLog("GET", url, map[string]string{"punto": pointID}, nil)

	cols, err := c.api.Collections(ctx, pointID)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			c.mu.Lock()
			cols = core.Annotate(core.FilterCollections(c.data.Collection, pointID), c.data.Links)
			c.mu.Unlock()
			c.addLog("GET", url, nil, map[string]string{"fallback": "local"})
			return cols, nil
		}
		c.setError(err.Error())
		c.addLog("GET", url, nil, map[string]string{"error": err.Error()})
		return nil, err
	}

	if pointID == "" {
		c.mu.Lock()
		c.data.Collection = cols
		c.mu.Unlock()
	}
	c.addLog("GET", url, nil, map[string]int{"recaudaciones": len(cols)})
	return cols, nil
}

// SubmitInvoice issues an invoice through the backend, running the same
// billing algorithm locally when the backend is unreachable. Success and
// validation failure are both broadcast to registered observers.
func (c *Container) SubmitInvoice(ctx context.Context, req core.BillRequest) (core.Invoice, error) {
	if err := req.Validate(); err != nil {
		c.setError(err.Error())
		c.observers.InvoiceRejected(ctx, err.Error())
		return core.Invoice{}, err
	}

	c.setLoading(true)
	defer c.setLoading(false)
	c.setError("")
	c.addLog("POST", "/api/facturar", req, nil)

	inv, err := c.api.SubmitInvoice(ctx, req)
	switch {
	case err == nil:
		c.mu.Lock()
		c.data.Invoices = append(c.data.Invoices, inv)
		c.data.Links = append(c.data.Links, core.InvoiceLink{
			ID:           fmt.Sprintf("RF-%03d", len(c.data.Links)+1),
			CollectionID: req.CollectionID,
			InvoiceID:    inv.ID,
			Amount:       req.Amount,
		})
		c.mu.Unlock()
		c.addLog("POST", "/api/facturar", nil, inv)
		// The server also recorded the commission expense and the tax
		// total bump; pull both so the cards agree with the backend.
		_ = c.FetchTaxTotals(ctx, "")
		_, _, _ = c.FetchExpenses(ctx, "")
		c.observers.InvoiceIssued(ctx, inv)
		return inv, nil

	case errors.Is(err, ErrUnavailable):
		slog.InfoContext(ctx, "Backend unreachable, billing locally",
			"collection", req.CollectionID, "entity", req.EntityID)
		c.mu.Lock()
		res, billErr := c.data.Bill(req, c.period, c.now())
		c.mu.Unlock()
		if billErr != nil {
			c.setError(billErr.Error())
			c.addLog("POST", "/api/facturar", nil, map[string]string{"error": billErr.Error()})
			c.observers.InvoiceRejected(ctx, billErr.Error())
			return core.Invoice{}, billErr
		}
		c.addLog("POST", "/api/facturar", nil, map[string]string{"fallback": "local", "factura": res.Invoice.ID})
		c.observers.InvoiceIssued(ctx, res.Invoice)
		return res.Invoice, nil

	default:
		c.setError(err.Error())
		c.addLog("POST", "/api/facturar", nil, map[string]string{"error": err.Error()})
		c.observers.InvoiceRejected(ctx, err.Error())
		return core.Invoice{}, err
	}
}

// ResetDemoData restores the backend to its baseline and mirrors the reset
// locally.
func (c *Container) ResetDemoData(ctx context.Context, baseline core.Dataset) error {
	c.setLoading(true)
	defer c.setLoading(false)
	c.addLog("POST", "/api/demo/reset", nil, nil)

	if err := c.api.ResetDemo(ctx); err != nil {
		c.setError(err.Error())
		c.addLog("POST", "/api/demo/reset", nil, map[string]string{"error": err.Error()})
		return err
	}
	c.mu.Lock()
	c.data = baseline.Clone()
	c.mu.Unlock()
	return c.FetchTaxTotals(ctx, "")
}

// GenerateNewDemoData asks the backend for a fresh collection variant and
// refreshes local state.
func (c *Container) GenerateNewDemoData(ctx context.Context) error {
	c.setLoading(true)
	defer c.setLoading(false)
	c.addLog("POST", "/api/demo/generate", nil, nil)

	total, err := c.api.RegenerateDemo(ctx)
	if err != nil {
		c.setError(err.Error())
		c.addLog("POST", "/api/demo/generate", nil, map[string]string{"error": err.Error()})
		return err
	}
	c.addLog("POST", "/api/demo/generate", nil, map[string]any{"totalRecaudaciones": total})
	if _, err := c.FetchCollections(ctx, ""); err != nil {
		return err
	}
	return c.FetchTaxTotals(ctx, "")
}

func (c *Container) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

func (c *Container) setError(msg string) {
	c.mu.Lock()
	c.lastErr = msg
	c.mu.Unlock()
}
