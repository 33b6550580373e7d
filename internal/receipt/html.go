package receipt

import (
	"bytes"
	"html/template"
)

var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"name": itemName,
}).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Receipt {{.Order.OrderNumber}}</title>
  <style>
    body { font-family: monospace; max-width: 420px; margin: 0 auto; }
    h1 { text-align: center; font-size: 1.2em; }
    .meta, .totals { margin: 1em 0; }
    table { width: 100%; border-collapse: collapse; }
    td.amount { text-align: right; }
    .total-row { font-weight: bold; border-top: 1px solid #000; }
    .footer { text-align: center; margin-top: 2em; }
  </style>
</head>
<body>
  <h1>{{.Restaurant.Name}}</h1>
  {{if .Restaurant.Address}}<p style="text-align:center">{{.Restaurant.Address}}</p>{{end}}
  <div class="meta">
    <div>Order #{{.Order.OrderNumber}}</div>
    <div>Type: {{.Order.Type}}</div>
    <div>{{.Order.CreatedAt.Format "2006-01-02 15:04"}}</div>
    {{if .Order.CustomerName}}<div>Customer: {{.Order.CustomerName}}</div>{{end}}
    {{if .Order.TableNumber}}<div>Table: {{.Order.TableNumber}}</div>{{end}}
  </div>
  <table>
    {{range .Order.Items}}
    <tr>
      <td>{{.Quantity}}x {{name .}}</td>
      <td class="amount">{{printf "%.2f" .TotalPrice}}</td>
    </tr>
    {{if .Instructions}}<tr><td colspan="2"><em>{{.Instructions}}</em></td></tr>{{end}}
    {{end}}
  </table>
  <table class="totals">
    <tr><td>Subtotal</td><td class="amount">{{printf "%.2f" .Order.Subtotal}}</td></tr>
    <tr><td>Tax</td><td class="amount">{{printf "%.2f" .Order.Tax}}</td></tr>
    {{if gt .Order.DeliveryFee 0.0}}<tr><td>Delivery</td><td class="amount">{{printf "%.2f" .Order.DeliveryFee}}</td></tr>{{end}}
    <tr class="total-row"><td>TOTAL</td><td class="amount">{{printf "%.2f" .Order.Total}}</td></tr>
  </table>
  {{if .Order.Instructions}}<p><em>{{.Order.Instructions}}</em></p>{{end}}
  <p class="footer">Thank you!</p>
</body>
</html>`))

// HTMLRenderer renders a printable HTML document for browser printing.
type HTMLRenderer struct{}

func (r *HTMLRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *HTMLRenderer) Render(receipt *Receipt) ([]byte, error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, receipt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
