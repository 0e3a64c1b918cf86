package core

import (
	"fmt"
	"math/rand"
	"time"
)

// CommissionRate is the percentage of an invoiced amount charged back as a
// billing-commission expense.
const CommissionRate = 2

// Invoiced sums the link amounts bound to a collection.
func Invoiced(links []InvoiceLink, collectionID string) Money {
	var sum Money
	for _, l := range links {
		if l.CollectionID == collectionID {
			sum = sum.Add(l.Amount)
		}
	}
	return sum
}

// Pending returns the portion of the collection's amount not yet linked to
// any invoice.
func Pending(c Collection, links []InvoiceLink) Money {
	return c.Amount.Sub(Invoiced(links, c.ID))
}

// Annotate returns copies of the collections with Invoiced and Pending
// recomputed from the link records.
func Annotate(cols []Collection, links []InvoiceLink) []Collection {
	out := make([]Collection, len(cols))
	for i, c := range cols {
		c.Invoiced = Invoiced(links, c.ID)
		c.Pending = c.Amount.Sub(c.Invoiced)
		out[i] = c
	}
	return out
}

// FilterCollections returns the collections recorded at the given point, or
// all of them when pointID is empty.
func FilterCollections(cols []Collection, pointID string) []Collection {
	if pointID == "" {
		return append([]Collection(nil), cols...)
	}
	var out []Collection
	for _, c := range cols {
		if c.Point == pointID {
			out = append(out, c)
		}
	}
	return out
}

// FilterTaxTotals returns the totals reported for the given period.
func FilterTaxTotals(totals []TaxTotal, period string) []TaxTotal {
	var out []TaxTotal
	for _, t := range totals {
		if t.Period == period {
			out = append(out, t)
		}
	}
	return out
}

// NewAuthCode generates a 12-digit authorization code.
func NewAuthCode() string {
	return fmt.Sprintf("%012d", 100000000000+rand.Int63n(900000000000))
}

// BillResult carries everything a successful billing run produced.
type BillResult struct {
	Invoice    Invoice
	Link       InvoiceLink
	Commission Expense
}

// Bill runs the canonical billing algorithm against the dataset, in place:
// validate the request against the collection's pending balance, synthesize
// the invoice and its link record, bump the entity's tax total for the given
// period, and append the billing-commission expense with its summary update.
// The same algorithm runs on the server store and on the dashboard's local
// fallback path, so the two can never diverge.
//
// On any error the dataset is left untouched.
func (ds *Dataset) Bill(req BillRequest, period string, now time.Time) (*BillResult, error) {
	c := ds.CollectionByID(req.CollectionID)
	if c == nil {
		return nil, ErrCollectionNotFound
	}
	if req.Amount.Cents <= 0 {
		return nil, fmt.Errorf("%w: el monto debe ser mayor a cero", ErrInvalidAmount)
	}
	pending := Pending(*c, ds.Links)
	if req.Amount.Cents > pending.Cents {
		return nil, fmt.Errorf("%w: el monto solicitado ($%s) excede el saldo pendiente ($%s)",
			ErrInvalidAmount, req.Amount.Pretty(), pending.Pretty())
	}

	seq := len(ds.Invoices) + 1
	inv := Invoice{
		ID:            fmt.Sprintf("F-%03d", seq),
		EntityID:      req.EntityID,
		CollectionID:  req.CollectionID,
		Amount:        req.Amount,
		AuthCode:      NewAuthCode(),
		AuthExpiry:    ISODate(now.AddDate(0, 0, 30)),
		ReceiptNumber: fmt.Sprintf("0001-%08d", seq),
		DocumentURL:   fmt.Sprintf("/pdfs/factura-%03d.pdf", seq),
		IssuedAt:      ISODate(now),
	}
	link := InvoiceLink{
		ID:           fmt.Sprintf("RF-%03d", len(ds.Links)+1),
		CollectionID: req.CollectionID,
		InvoiceID:    inv.ID,
		Amount:       req.Amount,
	}
	ds.Invoices = append(ds.Invoices, inv)
	ds.Links = append(ds.Links, link)

	if ent := ds.Entity(req.EntityID); ent != nil {
		ds.addTaxTotal(ent.CUIT, req.Amount, period)
	}

	commission := Expense{
		ID:       fmt.Sprintf("G-%03d", len(ds.Expenses)+1),
		EntityID: req.EntityID,
		Concept:  "Comisión por Facturación",
		Amount:   req.Amount.Percent(CommissionRate),
		Date:     ISODate(now),
		ReceiptA: fmt.Sprintf("FA-%08d", len(ds.Expenses)+1),
		Point:    c.Point,
	}
	ds.Expenses = append(ds.Expenses, commission)
	ds.applyExpense(commission)

	return &BillResult{Invoice: inv, Link: link, Commission: commission}, nil
}

func (ds *Dataset) addTaxTotal(cuit string, amount Money, period string) {
	for i := range ds.TaxTotals {
		if ds.TaxTotals[i].CUIT == cuit && ds.TaxTotals[i].Period == period {
			ds.TaxTotals[i].Total = ds.TaxTotals[i].Total.Add(amount)
			return
		}
	}
	ds.TaxTotals = append(ds.TaxTotals, TaxTotal{CUIT: cuit, Total: amount, Period: period})
}

// applyExpense folds a freshly appended expense into the owning entity's
// summary, creating the summary if the entity has none yet.
func (ds *Dataset) applyExpense(e Expense) {
	for i := range ds.Summaries {
		if ds.Summaries[i].EntityID == e.EntityID {
			ds.Summaries[i].Total = ds.Summaries[i].Total.Add(e.Amount)
			ds.Summaries[i].ReceiptCount++
			ds.Summaries[i].Expenses = append(ds.Summaries[i].Expenses, e)
			return
		}
	}
	cuit := ""
	if ent := ds.Entity(e.EntityID); ent != nil {
		cuit = ent.CUIT
	}
	ds.Summaries = append(ds.Summaries, EntityExpenseSummary{
		EntityID:     e.EntityID,
		CUIT:         cuit,
		Total:        e.Amount,
		ReceiptCount: 1,
		Expenses:     []Expense{e},
	})
}
