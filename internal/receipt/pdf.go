package receipt

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/signintech/gopdf"
	"github.com/skip2/go-qrcode"
)

// PDFRenderer renders an A4 receipt document with a QR code of the order
// number, for download or email attachment.
type PDFRenderer struct {
	FontPath string
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{FontPath: "./fonts/DejaVuSans.ttf"}
}

func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

func (r *PDFRenderer) Render(receipt *Receipt) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := pdf.AddTTFFont("dejavu", r.FontPath); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	if err := pdf.SetFont("dejavu", "", 14); err != nil {
		return nil, fmt.Errorf("failed to set font: %w", err)
	}

	// Header
	pdf.SetX(40)
	pdf.SetY(30)
	pdf.Cell(nil, receipt.Restaurant.Name)
	pdf.Br(18)
	if receipt.Restaurant.Address != "" {
		pdf.SetX(40)
		pdf.Cell(nil, receipt.Restaurant.Address)
		pdf.Br(18)
	}

	// Order info
	pdf.SetY(90)
	info := []string{
		fmt.Sprintf("Order #%s", receipt.Order.OrderNumber),
		fmt.Sprintf("Type: %s", receipt.Order.Type),
		fmt.Sprintf("Date: %s", receipt.Order.CreatedAt.Format("2006-01-02 15:04")),
	}
	if receipt.Order.CustomerName != "" {
		info = append(info, "Customer: "+receipt.Order.CustomerName)
	}
	for _, line := range info {
		pdf.SetX(40)
		pdf.Cell(nil, line)
		pdf.Br(20)
	}

	// Items
	pdf.Br(10)
	for _, item := range receipt.Order.Items {
		pdf.SetX(40)
		pdf.Cell(nil, fmt.Sprintf("%dx %s", item.Quantity, itemName(item)))
		pdf.SetX(440)
		pdf.Cell(nil, fmt.Sprintf("%.2f", item.TotalPrice))
		pdf.Br(20)
	}

	// Totals
	pdf.Br(10)
	type totalLine struct {
		label  string
		amount float64
	}
	totals := []totalLine{
		{"Subtotal", receipt.Order.Subtotal},
		{"Tax", receipt.Order.Tax},
	}
	if receipt.Order.DeliveryFee > 0 {
		totals = append(totals, totalLine{"Delivery", receipt.Order.DeliveryFee})
	}
	totals = append(totals, totalLine{"TOTAL", receipt.Order.Total})
	for _, t := range totals {
		pdf.SetX(40)
		pdf.Cell(nil, t.label)
		pdf.SetX(440)
		pdf.Cell(nil, fmt.Sprintf("%.2f", t.amount))
		pdf.Br(20)
	}

	// QR code of the order number for pickup verification
	qrBytes, err := qrcode.Encode(receipt.Order.OrderNumber, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(qrBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode QR image: %w", err)
	}
	pdf.Br(10)
	if err := pdf.ImageFrom(img, 40, pdf.GetY(), &gopdf.Rect{W: 100, H: 100}); err != nil {
		return nil, fmt.Errorf("failed to draw QR code: %w", err)
	}

	// Footer
	pdf.SetY(780)
	pdf.SetX(40)
	pdf.Cell(nil, "Thank you for your order.")

	var buf bytes.Buffer
	if err := pdf.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}
