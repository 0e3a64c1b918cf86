package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"facturita/internal/core"
	"facturita/internal/export"
)

func (s *Server) rejected(r *http.Request, err error) {
	if s.notifier != nil {
		s.notifier.InvoiceRejected(r.Context(), err.Error())
	}
}

// writeJSON serializes the success envelope. Payload maps keep the Spanish
// wire keys of the original contract.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed encoding response", "error", err)
	}
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// handleTaxTotals serves GET /api/arca/facturacion?periodo=.
func (s *Server) handleTaxTotals(w http.ResponseWriter, r *http.Request) {
	totals, period := s.store.TaxTotals(r.Context(), r.URL.Query().Get("periodo"))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    totals,
		"periodo": period,
	})
}

// handleLastNumber serves GET /api/arca/ultimoNumero?cuit=&pv=.
func (s *Server) handleLastNumber(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cuit, salesPoint, last := s.store.LastAuthorizedNumber(q.Get("cuit"), q.Get("pv"))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"cuit":         cuit,
			"pv":           salesPoint,
			"ultimoNumero": last,
		},
	})
}

// handleExpenses serves GET /api/gastos?entidadId=.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, summaries := s.store.Expenses(r.Context(), r.URL.Query().Get("entidadId"))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"gastos":           expenses,
			"gastosPorEntidad": summaries,
		},
	})
}

// handleCollections serves GET /api/recaudaciones?punto=.
func (s *Server) handleCollections(w http.ResponseWriter, r *http.Request) {
	cols := s.store.Collections(r.Context(), r.URL.Query().Get("punto"))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    cols,
	})
}

// handleBill serves POST /api/facturar.
func (s *Server) handleBill(w http.ResponseWriter, r *http.Request) {
	var req core.BillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.ErrorContext(r.Context(), "Invalid billing request body", "error", err)
		writeFailure(w, http.StatusBadRequest, "cuerpo de la solicitud inválido")
		return
	}

	inv, err := s.store.SubmitInvoice(r.Context(), req)
	switch {
	case errors.Is(err, core.ErrCollectionNotFound):
		s.rejected(r, err)
		writeFailure(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, core.ErrInvalidAmount):
		s.rejected(r, err)
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Billing failed", "error", err, "collection", req.CollectionID)
		s.rejected(r, err)
		writeFailure(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.notifier != nil {
		s.notifier.InvoiceIssued(r.Context(), inv)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"factura": inv,
	})
}

// handleReset serves POST /api/demo/reset.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Reset(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Demo reset failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Datos de demo restaurados",
	})
}

// handleRegenerate serves POST /api/demo/generate.
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	total, err := s.store.Regenerate(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Demo regeneration failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Nuevos datos de demo generados",
		"data": map[string]any{
			"totalRecaudaciones": total,
		},
	})
}

// handleExportCollections serves GET /api/export/recaudaciones?format=csv|json.
func (s *Server) handleExportCollections(w http.ResponseWriter, r *http.Request) {
	ds := s.store.Data()
	cols := core.Annotate(ds.Collection, ds.Links)
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="recaudaciones.csv"`)
		if err := export.CollectionsCSV(w, cols); err != nil {
			slog.ErrorContext(r.Context(), "Collections export failed", "error", err)
		}
	case "json":
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="recaudaciones.json"`)
		if err := export.CollectionsJSON(w, cols); err != nil {
			slog.ErrorContext(r.Context(), "Collections export failed", "error", err)
		}
	default:
		writeFailure(w, http.StatusBadRequest, "formato no soportado")
	}
}

// handleExportExpenses serves GET /api/export/gastos?format=csv|json.
func (s *Server) handleExportExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, _ := s.store.Expenses(r.Context(), r.URL.Query().Get("entidadId"))
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="gastos.csv"`)
		if err := export.ExpensesCSV(w, expenses); err != nil {
			slog.ErrorContext(r.Context(), "Expenses export failed", "error", err)
		}
	case "json":
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="gastos.json"`)
		if err := export.ExpensesJSON(w, expenses); err != nil {
			slog.ErrorContext(r.Context(), "Expenses export failed", "error", err)
		}
	default:
		writeFailure(w, http.StatusBadRequest, "formato no soportado")
	}
}

// handlePrintInvoice renders the printable receipt for one invoice.
func (s *Server) handlePrintInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ds := s.store.Data()
	for _, inv := range ds.Invoices {
		if inv.ID == id {
			entity := ds.Entity(inv.EntityID)
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if err := export.PrintableInvoice(w, inv, entity); err != nil {
				slog.ErrorContext(r.Context(), "Invoice print render failed", "error", err, "invoice", id)
			}
			return
		}
	}
	http.NotFound(w, r)
}

// handlePrintExpense renders the printable receipt for one expense.
func (s *Server) handlePrintExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ds := s.store.Data()
	for _, exp := range ds.Expenses {
		if exp.ID == id {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if err := export.PrintableExpense(w, exp); err != nil {
				slog.ErrorContext(r.Context(), "Expense print render failed", "error", err, "expense", id)
			}
			return
		}
	}
	http.NotFound(w, r)
}

// handleIndex renders the dashboard page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := s.indexData()
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type indexView struct {
	Period      string
	Loading     bool
	LastError   string
	Entities    []core.Entity
	Points      []core.CollectionPoint
	Collections []core.Collection
	Invoices    []core.Invoice
	TaxTotals   []core.TaxTotal
	Summaries   []core.EntityExpenseSummary
	Logs        []logView
}

type logView struct {
	Time   string
	Method string
	URL    string
}

func (s *Server) indexData() indexView {
	view := indexView{Period: s.store.Period()}

	if s.container != nil {
		snap := s.container.Snapshot()
		view.Loading = snap.Loading
		view.LastError = snap.LastError
		for _, l := range snap.Logs {
			view.Logs = append(view.Logs, logView{
				Time:   l.Timestamp.Format("15:04:05"),
				Method: l.Method,
				URL:    l.URL,
			})
		}
	}

	ds := s.store.Data()
	view.Entities = ds.Entities
	view.Points = ds.Points
	view.Collections = core.Annotate(ds.Collection, ds.Links)
	view.Invoices = ds.Invoices
	view.TaxTotals = core.FilterTaxTotals(ds.TaxTotals, s.store.Period())
	view.Summaries = ds.Summaries
	return view
}
