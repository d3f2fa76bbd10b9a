package notify

import (
	"bytes"
	"html/template"

	"safi-kitchen/internal/models"
)

// receiptTmpl mirrors the monospace ticket the dashboard sends to the print
// surface.
var receiptTmpl = template.Must(template.New("receipt").Parse(
	`<html><body style="font-family: monospace; padding: 20px;">` +
		`<h2>SAFI PILAU HQ</h2><hr/>` +
		`<p>ORDER ID: {{.ID}}</p>` +
		`<p>CUSTOMER: {{.CustomerName}}</p>` +
		`<p>ITEMS: {{.Items}}</p>` +
		`</body></html>`))

// Receipt renders the printable HTML fragment for one order.
func Receipt(order *models.Order) (string, error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, order); err != nil {
		return "", err
	}
	return buf.String(), nil
}
