// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/spicebazaar/marketplace-backend/internal/config"
	"github.com/spicebazaar/marketplace-backend/internal/domain/order"
)

// Service renders printable order sheets for the back office
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateOrderSheet renders a packing and contact sheet for an order
func (s *Service) GenerateOrderSheet(o *order.Order) (*bytes.Buffer, error) {
	data := orderSheetData{
		Order:       o,
		GeneratedAt: time.Now().Format("January 2, 2006 15:04"),
		SiteName:    s.config.App.Name,
		Total:       formatMoney(o.TotalAmount),
		Lines:       make([]orderSheetLine, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		data.Lines = append(data.Lines, orderSheetLine{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   formatMoney(item.Price),
			LineTotal:   formatMoney(item.TotalPrice),
		})
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) generateHTML(data orderSheetData) (string, error) {
	tmpl := template.Must(template.New("order_sheet").Parse(orderSheetTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func formatMoney(amount int64) string {
	return fmt.Sprintf("%.2f", float64(amount)/100)
}

type orderSheetData struct {
	Order       *order.Order
	GeneratedAt string
	SiteName    string
	Total       string
	Lines       []orderSheetLine
}

type orderSheetLine struct {
	ProductName string
	Quantity    int
	UnitPrice   string
	LineTotal   string
}

const orderSheetTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Order {{.Order.OrderNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #222; }
        .header { border-bottom: 2px solid #b5551d; padding-bottom: 12px; margin-bottom: 20px; }
        .header h1 { margin: 0; font-size: 22px; }
        .header .meta { color: #666; font-size: 12px; margin-top: 4px; }
        .contact { margin-bottom: 20px; }
        .contact td { padding: 3px 12px 3px 0; font-size: 13px; }
        .contact .label { color: #666; }
        table.items { width: 100%; border-collapse: collapse; margin-bottom: 16px; }
        table.items th { text-align: left; background: #f7f1ea; padding: 8px; font-size: 12px; border-bottom: 1px solid #ddd; }
        table.items td { padding: 8px; font-size: 13px; border-bottom: 1px solid #eee; }
        table.items .num { text-align: right; }
        .total { text-align: right; font-size: 15px; font-weight: bold; }
        .status { display: inline-block; padding: 2px 8px; border-radius: 3px; background: #f7f1ea; font-size: 12px; }
        .notes { margin-top: 20px; font-size: 12px; color: #444; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.SiteName}} &mdash; Order {{.Order.OrderNumber}}</h1>
        <div class="meta">Generated {{.GeneratedAt}} &middot; Status: <span class="status">{{.Order.Status}}</span></div>
    </div>

    <table class="contact">
        <tr><td class="label">Email</td><td>{{.Order.CustomerEmail}}</td></tr>
        <tr><td class="label">WhatsApp</td><td>{{.Order.CustomerWhatsApp}}</td></tr>
        <tr><td class="label">Placed</td><td>{{.Order.CreatedAt.Format "January 2, 2006 15:04"}}</td></tr>
    </table>

    <table class="items">
        <thead>
            <tr><th>Product</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Line total</th></tr>
        </thead>
        <tbody>
            {{range .Lines}}
            <tr>
                <td>{{.ProductName}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{.UnitPrice}}</td>
                <td class="num">{{.LineTotal}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="total">Total: {{.Total}}</div>

    {{if .Order.AdminNotes}}
    <div class="notes"><strong>Notes:</strong> {{.Order.AdminNotes}}</div>
    {{end}}
</body>
</html>
`
