package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLRender(t *testing.T) {
	out, err := (&HTMLRenderer{}).Render(sampleReceipt(32))
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<h1>Trattoria</h1>")
	assert.Contains(t, html, "Order #ORD-20260310-0001")
	assert.Contains(t, html, "2x Margherita")
	assert.Contains(t, html, "1x item-2")
	assert.Contains(t, html, "20.45")
	// Delivery row is omitted for zero fee
	assert.NotContains(t, html, "Delivery")
}

func TestHTMLRender_EscapesCustomerInput(t *testing.T) {
	r := sampleReceipt(32)
	r.Order.Instructions = "<script>alert(1)</script>"

	out, err := (&HTMLRenderer{}).Render(r)
	require.NoError(t, err)

	assert.NotContains(t, string(out), "<script>")
}

func TestForPrinterType(t *testing.T) {
	for _, printerType := range []PrinterType{PrinterThermal, PrinterHTML, PrinterPDF} {
		renderer, err := ForPrinterType(printerType)
		require.NoError(t, err)
		assert.NotNil(t, renderer)
	}

	_, err := ForPrinterType(PrinterType("dot_matrix"))
	assert.Error(t, err)
}
