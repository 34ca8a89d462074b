package invoice

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/MrJamesThe3rd/invoicer/internal/client"
)

// Sender identifies the business the invoice is issued by.
type Sender struct {
	Name    string
	Email   string
	Address string
}

type Email struct {
	To      string
	Subject string
	HTML    string
}

var emailTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #222;">
<p>Dear {{.Client.Name}},</p>
<p>Please find below invoice <strong>{{.Invoice.Number}}</strong> issued on {{.IssueDate}}.
Payment is due by <strong>{{.DueDate}}</strong>.</p>
<table cellpadding="6" cellspacing="0" border="1" style="border-collapse: collapse;">
<thead>
<tr><th>Date</th><th>Description</th><th>Hours</th><th>Rate</th><th>Amount</th></tr>
</thead>
<tbody>
{{- range .Items}}
<tr><td>{{.Date}}</td><td>{{.Description}}</td><td align="right">{{.Hours}}</td><td align="right">{{.Rate}}</td><td align="right">{{.Amount}}</td></tr>
{{- end}}
</tbody>
<tfoot>
<tr><td colspan="4" align="right"><strong>Total</strong></td><td align="right"><strong>{{.Total}}</strong></td></tr>
</tfoot>
</table>
{{- if .Invoice.Notes}}
<p>{{.Invoice.Notes}}</p>
{{- end}}
<p>Kind regards,<br>{{.Sender.Name}}{{if .Sender.Email}}<br>{{.Sender.Email}}{{end}}{{if .Sender.Address}}<br>{{.Sender.Address}}{{end}}</p>
</body>
</html>
`))

type emailItem struct {
	Date        string
	Description string
	Hours       string
	Rate        string
	Amount      string
}

// RenderEmail builds the message body for an invoice. Delivery is left to the caller.
func RenderEmail(inv *Invoice, c *client.Client, sender Sender) (*Email, error) {
	items := make([]emailItem, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, emailItem{
			Date:        it.Date.Format("2006-01-02"),
			Description: it.Description,
			Hours:       it.Hours.StringFixed(2),
			Rate:        it.Rate.StringFixed(2),
			Amount:      it.Amount.StringFixed(2),
		})
	}

	data := struct {
		Invoice   *Invoice
		Client    *client.Client
		Sender    Sender
		IssueDate string
		DueDate   string
		Items     []emailItem
		Total     string
	}{
		Invoice:   inv,
		Client:    c,
		Sender:    sender,
		IssueDate: inv.IssueDate.Format("2006-01-02"),
		DueDate:   inv.DueDate.Format("2006-01-02"),
		Items:     items,
		Total:     inv.Total.StringFixed(2),
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering invoice email: %w", err)
	}

	subject := fmt.Sprintf("Invoice %s", inv.Number)
	if sender.Name != "" {
		subject = fmt.Sprintf("Invoice %s from %s", inv.Number, sender.Name)
	}

	return &Email{
		To:      c.Email,
		Subject: subject,
		HTML:    buf.String(),
	}, nil
}
