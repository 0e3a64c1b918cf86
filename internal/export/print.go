package export

import (
	"fmt"
	"html/template"
	"io"

	"facturita/internal/core"
)

var invoiceTmpl = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Factura {{.Invoice.ID}}</title>
<style>
body { font-family: monospace; max-width: 32rem; margin: 2rem auto; }
h1 { font-size: 1.2rem; border-bottom: 2px solid #000; padding-bottom: .5rem; }
dl { display: grid; grid-template-columns: auto 1fr; gap: .25rem 1rem; }
dt { font-weight: bold; }
.total { font-size: 1.4rem; margin-top: 1rem; }
.fine { color: #666; font-size: .8rem; margin-top: 2rem; }
</style>
</head>
<body>
<h1>Factura {{.Invoice.ID}} · Comprobante {{.Invoice.ReceiptNumber}}</h1>
<dl>
{{if .Entity}}<dt>Entidad</dt><dd>{{.Entity.Name}} (CUIT {{.Entity.CUIT}})</dd>{{end}}
<dt>Recaudación</dt><dd>{{.Invoice.CollectionID}}</dd>
<dt>Fecha de emisión</dt><dd>{{.Invoice.IssuedAt}}</dd>
<dt>CAE</dt><dd>{{.Invoice.AuthCode}} (vto. {{.Invoice.AuthExpiry}})</dd>
</dl>
<p class="total">Total: ${{.Invoice.Amount.Pretty}}</p>
<p class="fine">Comprobante de demostración, sin validez fiscal.</p>
<script src="/static/print.js" defer></script>
</body>
</html>
`))

var expenseTmpl = template.Must(template.New("expense").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Gasto {{.ID}}</title>
<style>
body { font-family: monospace; max-width: 32rem; margin: 2rem auto; }
h1 { font-size: 1.2rem; border-bottom: 2px solid #000; padding-bottom: .5rem; }
dl { display: grid; grid-template-columns: auto 1fr; gap: .25rem 1rem; }
dt { font-weight: bold; }
.total { font-size: 1.4rem; margin-top: 1rem; }
.fine { color: #666; font-size: .8rem; margin-top: 2rem; }
</style>
</head>
<body>
<h1>Gasto {{.ID}} · Factura A {{.ReceiptA}}</h1>
<dl>
<dt>Concepto</dt><dd>{{.Concept}}</dd>
<dt>Fecha</dt><dd>{{.Date}}</dd>
{{if .IssuerName}}<dt>Emisor</dt><dd>{{.IssuerName}} (CUIT {{.IssuerCUIT}})</dd>{{end}}
{{if .Point}}<dt>Punto</dt><dd>{{.Point}}</dd>{{end}}
</dl>
<p class="total">Total: ${{.Amount.Pretty}}</p>
<p class="fine">Comprobante de demostración, sin validez fiscal.</p>
<script src="/static/print.js" defer></script>
</body>
</html>
`))

// PrintableInvoice renders a standalone printable receipt page for one
// invoice. entity may be nil.
func PrintableInvoice(w io.Writer, inv core.Invoice, entity *core.Entity) error {
	data := struct {
		Invoice core.Invoice
		Entity  *core.Entity
	}{inv, entity}
	if err := invoiceTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render invoice %s: %w", inv.ID, err)
	}
	return nil
}

// PrintableExpense renders a standalone printable receipt page for one
// expense record.
func PrintableExpense(w io.Writer, exp core.Expense) error {
	if err := expenseTmpl.Execute(w, exp); err != nil {
		return fmt.Errorf("render expense %s: %w", exp.ID, err)
	}
	return nil
}
