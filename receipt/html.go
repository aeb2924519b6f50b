package receipt

import (
	"html/template"
	"io"

	"github.com/pkg/errors"
)

var page = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": Money,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Number}}</title>
<style>
body { font-family: sans-serif; font-size: 14px; color: #111; }
.receipt { max-width: 640px; margin: 0 auto; padding: 24px; }
.head { text-align: center; margin-bottom: 16px; }
.head h1 { font-size: 18px; margin: 0; }
.muted { color: #6b6b6b; font-size: 12px; }
.box { border: 1px solid #ddd; border-radius: 6px; padding: 12px; }
.row { display: flex; justify-content: space-between; padding: 2px 0; }
.items .row { border-bottom: 1px solid #eee; padding: 8px 0; }
.total { font-weight: 600; border-top: 1px solid #ddd; margin-top: 8px; padding-top: 8px; }
.actions { text-align: center; margin-top: 16px; }
@media print {
  .actions { display: none; }
  .box { border: 0; }
  @page { size: A4 portrait; margin: 10mm; }
}
</style>
</head>
<body>
<div class="receipt">
  <div class="head">
    <h1>{{.Title}}</h1>
    <div class="muted">Receipt &bull; Order #{{.R.OrderID}}</div>
  </div>
  <div class="box">
    <div class="row"><span class="muted">Student</span><span>{{.R.Student}} ({{.R.StudentID}})</span></div>
    <div class="row"><span class="muted">Phone</span><span>{{.R.Phone}}</span></div>
    <div class="row"><span class="muted">Type</span><span>{{.R.TypeLabel}}</span></div>
    {{- if .R.Location}}
    <div class="row"><span class="muted">Location</span><span>{{.R.Location}}</span></div>
    {{- end}}
    <div class="row"><span class="muted">Time</span><span>{{.R.Time}}</span></div>
  </div>
  <div class="items">
    <h3>Items</h3>
    {{- range .R.Lines}}
    <div class="row">
      <div><div>{{.Name}}</div><div class="muted">{{money .UnitPrice}} &times; {{.Quantity}}</div></div>
      <div>{{money .Subtotal}}</div>
    </div>
    {{- end}}
    <div class="row total"><span>Total</span><span>{{money .R.Total}}</span></div>
  </div>
  <p class="muted" style="text-align:center">{{.Footer}}</p>
  <div class="actions"><button onclick="window.print()">Print Receipt</button></div>
</div>
</body>
</html>
`))

// WriteHTML renders the print view of r.
func WriteHTML(w io.Writer, r Receipt) error {
	data := struct {
		Number string
		Title  string
		Footer string
		R      Receipt
	}{r.Number, Title, Footer, r}
	return errors.Wrap(page.Execute(w, data), "render receipt page")
}
