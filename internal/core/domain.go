package core

import (
	"errors"
	"strings"
	"time"
)

// JSON field names follow the wire contract of the original demo backend,
// which is Spanish throughout (importe, medio, periodo, ...).

type (
	// Entity is a tax subject (one CUIT) invoices and expenses belong to.
	Entity struct {
		ID   string `json:"id"`
		Name string `json:"nombre"`
		CUIT string `json:"cuit"`
	}

	// CollectionPoint is a physical or virtual place where money is collected.
	CollectionPoint struct {
		ID   string `json:"id"`
		Name string `json:"nombre"`
	}

	// Collection is a recorded cash/card/transfer intake at a collection
	// point. Invoiced and Pending are derived from the link records and are
	// only meaningful on annotated copies (see Annotate).
	Collection struct {
		ID        string `json:"id"`
		Point     string `json:"punto"`
		Date      string `json:"fecha"`
		Amount    Money  `json:"importe"`
		Method    string `json:"medio"`
		Reference string `json:"referencia"`
		Invoiced  Money  `json:"facturado"`
		Pending   Money  `json:"pendiente"`
	}

	// Invoice is a billing document issued against one collection for one
	// entity, up to the collection's pending balance.
	Invoice struct {
		ID            string `json:"id"`
		EntityID      string `json:"entidadId"`
		CollectionID  string `json:"recaudacionId"`
		Amount        Money  `json:"monto"`
		AuthCode      string `json:"caeFake"`
		AuthExpiry    string `json:"vtoCaeFake"`
		ReceiptNumber string `json:"nroComprobante"`
		DocumentURL   string `json:"pdfFakeUrl"`
		IssuedAt      string `json:"fechaEmision"`
	}

	// InvoiceLink ties a portion of a collection's amount to an invoice.
	InvoiceLink struct {
		ID           string `json:"id"`
		CollectionID string `json:"recaudacionId"`
		InvoiceID    string `json:"facturaId"`
		Amount       Money  `json:"monto"`
	}

	// TaxTotal is the cumulative invoiced amount per CUIT per period,
	// mirroring a regulator-reported billing ledger.
	TaxTotal struct {
		CUIT   string `json:"cuit"`
		Total  Money  `json:"total"`
		Period string `json:"periodo"`
	}

	// Expense is a third-party-issued cost record attributed to an entity.
	Expense struct {
		ID            string `json:"id"`
		EntityID      string `json:"entidadId"`
		Concept       string `json:"concepto"`
		Amount        Money  `json:"monto"`
		Date          string `json:"fecha"`
		ReceiptA      string `json:"facturaA"`
		ReceiptNumber string `json:"nroComprobante,omitempty"`
		Point         string `json:"puntoRecaudacion"`
		IssuerCUIT    string `json:"cuitEmisor,omitempty"`
		IssuerName    string `json:"nombreEmisor,omitempty"`
		DocumentURL   string `json:"pdfUrl,omitempty"`
	}

	// EntityExpenseSummary is a derived aggregate over one entity's expenses.
	EntityExpenseSummary struct {
		EntityID     string    `json:"entidadId"`
		CUIT         string    `json:"cuit"`
		Total        Money     `json:"totalGastos"`
		ReceiptCount int       `json:"cantidadFacturasA"`
		Expenses     []Expense `json:"gastos"`
	}

	// Dataset is the full demo data set as held in memory and exchanged
	// with the dashboard.
	Dataset struct {
		Entities   []Entity               `json:"entidades"`
		Points     []CollectionPoint      `json:"puntosRecaudacion"`
		Collection []Collection           `json:"recaudaciones"`
		Invoices   []Invoice              `json:"facturas"`
		Links      []InvoiceLink          `json:"recaudacionFacturas"`
		TaxTotals  []TaxTotal             `json:"facturacionARCA"`
		Expenses   []Expense              `json:"gastos"`
		Summaries  []EntityExpenseSummary `json:"gastosPorEntidad"`
	}

	// BillRequest is a request to issue an invoice against a collection.
	BillRequest struct {
		CollectionID string `json:"recaudacionId"`
		EntityID     string `json:"entidadId"`
		Amount       Money  `json:"monto"`
	}
)

var (
	ErrCollectionNotFound = errors.New("recaudación no encontrada")
	ErrInvalidAmount      = errors.New("monto inválido")
)

func (r BillRequest) Validate() error {
	if strings.TrimSpace(r.CollectionID) == "" {
		return ErrCollectionNotFound
	}
	if r.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ISODate formats a timestamp the way the wire contract carries dates.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// PeriodOf returns the reporting period (YYYY-MM) a timestamp falls in.
func PeriodOf(t time.Time) string {
	return t.Format("2006-01")
}

// Entity returns the entity with the given id, or nil.
func (ds *Dataset) Entity(id string) *Entity {
	for i := range ds.Entities {
		if ds.Entities[i].ID == id {
			return &ds.Entities[i]
		}
	}
	return nil
}

// CollectionByID returns the collection with the given id, or nil.
func (ds *Dataset) CollectionByID(id string) *Collection {
	for i := range ds.Collection {
		if ds.Collection[i].ID == id {
			return &ds.Collection[i]
		}
	}
	return nil
}

// Clone returns a deep copy so callers can hand datasets across goroutines
// without sharing backing arrays.
func (ds Dataset) Clone() Dataset {
	out := Dataset{
		Entities:   append([]Entity(nil), ds.Entities...),
		Points:     append([]CollectionPoint(nil), ds.Points...),
		Collection: append([]Collection(nil), ds.Collection...),
		Invoices:   append([]Invoice(nil), ds.Invoices...),
		Links:      append([]InvoiceLink(nil), ds.Links...),
		TaxTotals:  append([]TaxTotal(nil), ds.TaxTotals...),
		Expenses:   append([]Expense(nil), ds.Expenses...),
	}
	out.Summaries = make([]EntityExpenseSummary, len(ds.Summaries))
	for i, s := range ds.Summaries {
		s.Expenses = append([]Expense(nil), s.Expenses...)
		out.Summaries[i] = s
	}
	return out
}
