package receipt

import (
	"bytes"
	"fmt"
	"strings"
)

// ESC/POS control sequences for standard thermal printers.
var (
	escInit        = []byte{0x1B, 0x40}       // initialize
	escAlignCenter = []byte{0x1B, 0x61, 0x01} // center alignment
	escAlignLeft   = []byte{0x1B, 0x61, 0x00} // left alignment
	escBoldOn      = []byte{0x1B, 0x45, 0x01}
	escBoldOff     = []byte{0x1B, 0x45, 0x00}
	escCut         = []byte{0x1D, 0x56, 0x42, 0x00} // partial cut with feed
)

// ESCPOSRenderer renders the raw byte stream for thermal printers. Line
// width comes from the restaurant's printer configuration.
type ESCPOSRenderer struct{}

func (r *ESCPOSRenderer) ContentType() string {
	return "application/octet-stream"
}

func (r *ESCPOSRenderer) Render(receipt *Receipt) ([]byte, error) {
	width := receipt.Restaurant.PrinterWidth
	if width <= 0 {
		width = 32
	}

	var buf bytes.Buffer
	buf.Write(escInit)

	buf.Write(escAlignCenter)
	buf.Write(escBoldOn)
	buf.WriteString(receipt.Restaurant.Name + "\n")
	buf.Write(escBoldOff)
	if receipt.Restaurant.Address != "" {
		buf.WriteString(receipt.Restaurant.Address + "\n")
	}
	if receipt.Restaurant.Phone != "" {
		buf.WriteString(receipt.Restaurant.Phone + "\n")
	}

	buf.Write(escAlignLeft)
	buf.WriteString(strings.Repeat("-", width) + "\n")
	buf.WriteString(fmt.Sprintf("Order #%s\n", receipt.Order.OrderNumber))
	buf.WriteString(fmt.Sprintf("Type: %s\n", receipt.Order.Type))
	buf.WriteString(receipt.Order.CreatedAt.Format("2006-01-02 15:04") + "\n")
	if receipt.Order.CustomerName != "" {
		buf.WriteString("Customer: " + receipt.Order.CustomerName + "\n")
	}
	if receipt.Order.TableNumber != "" {
		buf.WriteString("Table: " + receipt.Order.TableNumber + "\n")
	}
	buf.WriteString(strings.Repeat("-", width) + "\n")

	for _, item := range receipt.Order.Items {
		buf.WriteString(priceLine(fmt.Sprintf("%dx %s", item.Quantity, itemName(item)), item.TotalPrice, width))
		if item.Instructions != "" {
			buf.WriteString("  * " + item.Instructions + "\n")
		}
	}

	buf.WriteString(strings.Repeat("-", width) + "\n")
	buf.WriteString(priceLine("Subtotal", receipt.Order.Subtotal, width))
	buf.WriteString(priceLine("Tax", receipt.Order.Tax, width))
	if receipt.Order.DeliveryFee > 0 {
		buf.WriteString(priceLine("Delivery", receipt.Order.DeliveryFee, width))
	}
	buf.Write(escBoldOn)
	buf.WriteString(priceLine("TOTAL", receipt.Order.Total, width))
	buf.Write(escBoldOff)

	if receipt.Order.Instructions != "" {
		buf.WriteString(strings.Repeat("-", width) + "\n")
		buf.WriteString(receipt.Order.Instructions + "\n")
	}

	buf.Write(escAlignCenter)
	buf.WriteString("\nThank you!\n\n")
	buf.Write(escCut)

	return buf.Bytes(), nil
}

// priceLine left-pads the amount so it ends at the right edge of the paper.
// Labels too long for the width are truncated rather than wrapped.
func priceLine(label string, amount float64, width int) string {
	price := fmt.Sprintf("%.2f", amount)
	maxLabel := width - len(price) - 1
	if maxLabel < 1 {
		maxLabel = 1
	}
	if len(label) > maxLabel {
		label = label[:maxLabel]
	}
	padding := width - len(label) - len(price)
	if padding < 1 {
		padding = 1
	}
	return label + strings.Repeat(" ", padding) + price + "\n"
}
