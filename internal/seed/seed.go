// Package seed holds the baseline demo dataset the service boots from and
// resets back to. The figures are deliberately round and internally
// consistent: the pre-existing invoices and links add up to the initial tax
// totals, and the per-entity expense summaries match their member records.
package seed

import "facturita/internal/core"

// Baseline returns a fresh copy of the seed dataset. Callers own the copy
// and may mutate it freely.
func Baseline() core.Dataset {
	ds := core.Dataset{
		Entities: []core.Entity{
			{ID: "E-A", Name: "CUIT A", CUIT: "30-11111111-1"},
			{ID: "E-B", Name: "CUIT B", CUIT: "30-22222222-2"},
			{ID: "E-C", Name: "CUIT C", CUIT: "30-33333333-3"},
		},
		Points: []core.CollectionPoint{
			{ID: "P1", Name: "Sucursal Resistencia"},
			{ID: "P2", Name: "Sucursal Corrientes"},
			{ID: "P3", Name: "Kiosco Centro"},
			{ID: "P4", Name: "Ventanilla Online"},
		},
		Collection: []core.Collection{
			{ID: "R-101", Point: "P1", Date: "2025-10-01", Amount: core.Pesos(120000), Method: "Tarjeta", Reference: "TX-AAA"},
			{ID: "R-102", Point: "P1", Date: "2025-10-02", Amount: core.Pesos(50000), Method: "Efectivo", Reference: "EF-001"},
			{ID: "R-103", Point: "P2", Date: "2025-10-03", Amount: core.Pesos(80000), Method: "MercadoPago", Reference: "MP-45"},
			{ID: "R-104", Point: "P3", Date: "2025-10-04", Amount: core.Pesos(100000), Method: "Transferencia", Reference: "TR-77"},
			{ID: "R-105", Point: "P4", Date: "2025-10-05", Amount: core.Pesos(10000), Method: "Tarjeta", Reference: "TX-BBB"},
			{ID: "R-106", Point: "P1", Date: "2025-10-06", Amount: core.Pesos(75000), Method: "Efectivo", Reference: "EF-002"},
			{ID: "R-107", Point: "P2", Date: "2025-10-07", Amount: core.Pesos(45000), Method: "MercadoPago", Reference: "MP-46"},
			{ID: "R-108", Point: "P3", Date: "2025-10-08", Amount: core.Pesos(60000), Method: "Transferencia", Reference: "TR-78"},
			{ID: "R-109", Point: "P4", Date: "2025-10-09", Amount: core.Pesos(25000), Method: "Tarjeta", Reference: "TX-CCC"},
			{ID: "R-110", Point: "P1", Date: "2025-10-10", Amount: core.Pesos(90000), Method: "Efectivo", Reference: "EF-003"},
			{ID: "R-111", Point: "P2", Date: "2025-10-11", Amount: core.Pesos(65000), Method: "MercadoPago", Reference: "MP-47"},
			{ID: "R-112", Point: "P3", Date: "2025-10-12", Amount: core.Pesos(55000), Method: "Transferencia", Reference: "TR-79"},
			{ID: "R-113", Point: "P4", Date: "2025-10-13", Amount: core.Pesos(35000), Method: "Tarjeta", Reference: "TX-DDD"},
			{ID: "R-114", Point: "P1", Date: "2025-10-14", Amount: core.Pesos(80000), Method: "Efectivo", Reference: "EF-004"},
			{ID: "R-115", Point: "P2", Date: "2025-10-15", Amount: core.Pesos(70000), Method: "MercadoPago", Reference: "MP-48"},
		},
		Invoices: []core.Invoice{
			{ID: "F-001", EntityID: "E-A", CollectionID: "R-101", Amount: core.Pesos(200000), AuthCode: "123456789234", AuthExpiry: "2025-11-17", ReceiptNumber: "0001-00000001", DocumentURL: "/pdfs/factura-001.pdf", IssuedAt: "2025-10-01"},
			{ID: "F-002", EntityID: "E-A", CollectionID: "R-102", Amount: core.Pesos(150000), AuthCode: "123456789235", AuthExpiry: "2025-11-18", ReceiptNumber: "0001-00000002", DocumentURL: "/pdfs/factura-002.pdf", IssuedAt: "2025-10-05"},
			{ID: "F-003", EntityID: "E-A", CollectionID: "R-103", Amount: core.Pesos(150000), AuthCode: "123456789236", AuthExpiry: "2025-11-19", ReceiptNumber: "0001-00000003", DocumentURL: "/pdfs/factura-003.pdf", IssuedAt: "2025-10-08"},
			{ID: "F-004", EntityID: "E-B", CollectionID: "R-104", Amount: core.Pesos(120000), AuthCode: "234567890345", AuthExpiry: "2025-11-20", ReceiptNumber: "0001-00000004", DocumentURL: "/pdfs/factura-004.pdf", IssuedAt: "2025-10-02"},
			{ID: "F-005", EntityID: "E-B", CollectionID: "R-105", Amount: core.Pesos(100000), AuthCode: "234567890346", AuthExpiry: "2025-11-21", ReceiptNumber: "0001-00000005", DocumentURL: "/pdfs/factura-005.pdf", IssuedAt: "2025-10-06"},
			{ID: "F-006", EntityID: "E-B", CollectionID: "R-106", Amount: core.Pesos(80000), AuthCode: "234567890347", AuthExpiry: "2025-11-22", ReceiptNumber: "0001-00000006", DocumentURL: "/pdfs/factura-006.pdf", IssuedAt: "2025-10-10"},
			{ID: "F-007", EntityID: "E-C", CollectionID: "R-107", Amount: core.Pesos(100000), AuthCode: "345678901456", AuthExpiry: "2025-11-23", ReceiptNumber: "0001-00000007", DocumentURL: "/pdfs/factura-007.pdf", IssuedAt: "2025-10-03"},
			{ID: "F-008", EntityID: "E-C", CollectionID: "R-108", Amount: core.Pesos(80000), AuthCode: "345678901457", AuthExpiry: "2025-11-24", ReceiptNumber: "0001-00000008", DocumentURL: "/pdfs/factura-008.pdf", IssuedAt: "2025-10-07"},
			{ID: "F-009", EntityID: "E-C", CollectionID: "R-109", Amount: core.Pesos(70000), AuthCode: "345678901458", AuthExpiry: "2025-11-25", ReceiptNumber: "0001-00000009", DocumentURL: "/pdfs/factura-009.pdf", IssuedAt: "2025-10-12"},
		},
		Links: []core.InvoiceLink{
			{ID: "RF-001", CollectionID: "R-101", InvoiceID: "F-001", Amount: core.Pesos(200000)},
			{ID: "RF-002", CollectionID: "R-102", InvoiceID: "F-002", Amount: core.Pesos(150000)},
			{ID: "RF-003", CollectionID: "R-103", InvoiceID: "F-003", Amount: core.Pesos(150000)},
			{ID: "RF-004", CollectionID: "R-104", InvoiceID: "F-004", Amount: core.Pesos(120000)},
			{ID: "RF-005", CollectionID: "R-105", InvoiceID: "F-005", Amount: core.Pesos(100000)},
			{ID: "RF-006", CollectionID: "R-106", InvoiceID: "F-006", Amount: core.Pesos(80000)},
			{ID: "RF-007", CollectionID: "R-107", InvoiceID: "F-007", Amount: core.Pesos(100000)},
			{ID: "RF-008", CollectionID: "R-108", InvoiceID: "F-008", Amount: core.Pesos(80000)},
			{ID: "RF-009", CollectionID: "R-109", InvoiceID: "F-009", Amount: core.Pesos(70000)},
		},
		TaxTotals: []core.TaxTotal{
			{CUIT: "30-11111111-1", Total: core.Pesos(500000), Period: "2025-10"},
			{CUIT: "30-22222222-2", Total: core.Pesos(300000), Period: "2025-10"},
			{CUIT: "30-33333333-3", Total: core.Pesos(250000), Period: "2025-10"},
		},
		Expenses: []core.Expense{
			{ID: "G-001", EntityID: "E-A", Concept: "Servicios de Administración", Amount: core.Pesos(150000), Date: "2025-10-01", ReceiptA: "FA-00000001", ReceiptNumber: "0001-00000001", Point: "P1", IssuerCUIT: "20-12345678-9", IssuerName: "YPF Don Bosco", DocumentURL: "/pdfs/gasto-001.pdf"},
			{ID: "G-002", EntityID: "E-A", Concept: "Mantenimiento de Sistemas", Amount: core.Pesos(80000), Date: "2025-10-05", ReceiptA: "FA-00000002", ReceiptNumber: "0001-00000002", Point: "P2", IssuerCUIT: "30-98765432-1", IssuerName: "Tech Solutions S.A.", DocumentURL: "/pdfs/gasto-002.pdf"},
			{ID: "G-003", EntityID: "E-A", Concept: "Consultoría Técnica", Amount: core.Pesos(120000), Date: "2025-10-10", ReceiptA: "FA-00000003", ReceiptNumber: "0001-00000003", Point: "P1", IssuerCUIT: "27-45678912-3", IssuerName: "Consultores del Norte", DocumentURL: "/pdfs/gasto-003.pdf"},
			{ID: "G-004", EntityID: "E-B", Concept: "Servicios de Administración", Amount: core.Pesos(100000), Date: "2025-10-02", ReceiptA: "FA-00000004", ReceiptNumber: "0001-00000004", Point: "P3", IssuerCUIT: "20-11111111-1", IssuerName: "Shell Corrientes", DocumentURL: "/pdfs/gasto-004.pdf"},
			{ID: "G-005", EntityID: "E-B", Concept: "Infraestructura", Amount: core.Pesos(90000), Date: "2025-10-08", ReceiptA: "FA-00000005", ReceiptNumber: "0001-00000005", Point: "P4", IssuerCUIT: "30-22222222-2", IssuerName: "Constructora del Litoral", DocumentURL: "/pdfs/gasto-005.pdf"},
			{ID: "G-006", EntityID: "E-C", Concept: "Servicios de Administración", Amount: core.Pesos(75000), Date: "2025-10-03", ReceiptA: "FA-00000006", ReceiptNumber: "0001-00000006", Point: "P2", IssuerCUIT: "20-33333333-3", IssuerName: "Axion Resistencia", DocumentURL: "/pdfs/gasto-006.pdf"},
			{ID: "G-007", EntityID: "E-C", Concept: "Desarrollo de Software", Amount: core.Pesos(110000), Date: "2025-10-12", ReceiptA: "FA-00000007", ReceiptNumber: "0001-00000007", Point: "P3", IssuerCUIT: "30-44444444-4", IssuerName: "Software Solutions", DocumentURL: "/pdfs/gasto-007.pdf"},
		},
	}
	ds.Summaries = core.SummarizeExpenses(ds.Entities, ds.Expenses)
	return ds
}

// Variant returns the regenerated collection set used by the demo-data
// generator. Invoices, links and tax totals always revert to baseline when
// the variant is applied, so the variant deliberately reuses the first ten
// collection ids the baseline invoices reference.
func Variant() []core.Collection {
	base := Baseline()
	return append([]core.Collection(nil), base.Collection[:10]...)
}

// DefaultPeriod is the reporting period the seed figures belong to.
const DefaultPeriod = "2025-10"
