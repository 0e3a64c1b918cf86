// Package export renders displayed rows as CSV or JSON downloads and single
// records as printable HTML receipts.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"facturita/internal/core"
)

// CollectionsCSV writes annotated collections as CSV, one row per collection.
func CollectionsCSV(w io.Writer, cols []core.Collection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "punto", "fecha", "importe", "medio", "referencia", "facturado", "pendiente"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, c := range cols {
		row := []string{
			c.ID,
			c.Point,
			c.Date,
			c.Amount.Decimal(),
			c.Method,
			c.Reference,
			c.Invoiced.Decimal(),
			c.Pending.Decimal(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", c.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExpensesCSV writes expense records as CSV.
func ExpensesCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "entidadId", "concepto", "monto", "fecha", "facturaA", "puntoRecaudacion"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range expenses {
		row := []string{
			e.ID,
			e.EntityID,
			e.Concept,
			e.Amount.Decimal(),
			e.Date,
			e.ReceiptA,
			e.Point,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CollectionsJSON writes annotated collections as a JSON array.
func CollectionsJSON(w io.Writer, cols []core.Collection) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cols)
}

// ExpensesJSON writes expense records as a JSON array.
func ExpensesJSON(w io.Writer, expenses []core.Expense) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(expenses)
}
