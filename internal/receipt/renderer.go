package receipt

import (
	"fmt"

	"resto-suite/internal/models"
)

// PrinterType selects the receipt output format, configured per restaurant.
type PrinterType string

const (
	PrinterThermal PrinterType = "thermal"
	PrinterHTML    PrinterType = "html"
	PrinterPDF     PrinterType = "pdf"
)

func (t PrinterType) Valid() bool {
	switch t {
	case PrinterThermal, PrinterHTML, PrinterPDF:
		return true
	}
	return false
}

// Receipt bundles everything a renderer needs.
type Receipt struct {
	Restaurant *models.Restaurant
	Order      *models.Order
}

// Renderer turns a receipt into printable output. Rendering is pure
// formatting; it performs no I/O besides font loading.
type Renderer interface {
	Render(receipt *Receipt) ([]byte, error)
	ContentType() string
}

// ForPrinterType returns the renderer matching the restaurant's configured
// printer.
func ForPrinterType(t PrinterType) (Renderer, error) {
	switch t {
	case PrinterThermal:
		return &ESCPOSRenderer{}, nil
	case PrinterHTML:
		return &HTMLRenderer{}, nil
	case PrinterPDF:
		return NewPDFRenderer(), nil
	}
	return nil, fmt.Errorf("unknown printer type %q", t)
}

// itemName resolves the display name of an order item, falling back to the
// menu item id when the join row is missing.
func itemName(item *models.OrderItem) string {
	if item.MenuItem != nil {
		return item.MenuItem.Name
	}
	return item.MenuItemID
}
