package receipt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto-suite/internal/models"
)

func sampleReceipt(width int) *Receipt {
	return &Receipt{
		Restaurant: &models.Restaurant{
			ID:           "rest-1",
			Name:         "Trattoria",
			Address:      "Main St 1",
			PrinterType:  "thermal",
			PrinterWidth: width,
		},
		Order: &models.Order{
			ID:           "order-1",
			OrderNumber:  "ORD-20260310-0001",
			Type:         models.OrderTypePickup,
			Status:       models.OrderStatusPending,
			CustomerName: "Ada",
			Subtotal:     19.00,
			Tax:          1.45,
			Total:        20.45,
			CreatedAt:    time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC),
			Items: []*models.OrderItem{
				{
					Quantity:   2,
					TotalPrice: 29.00,
					MenuItemID: "item-1",
					MenuItem:   &models.MenuItem{Name: "Margherita"},
				},
				{
					Quantity:     1,
					TotalPrice:   4.50,
					MenuItemID:   "item-2",
					Instructions: "no ice",
				},
			},
		},
	}
}

func TestESCPOSRender(t *testing.T) {
	out, err := (&ESCPOSRenderer{}).Render(sampleReceipt(32))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte{0x1B, 0x40}), "output starts with printer init")
	assert.True(t, bytes.HasSuffix(out, []byte{0x1D, 0x56, 0x42, 0x00}), "output ends with cut command")

	text := string(out)
	assert.Contains(t, text, "Trattoria")
	assert.Contains(t, text, "Order #ORD-20260310-0001")
	assert.Contains(t, text, "2x Margherita")
	// Item without a menu join falls back to its id
	assert.Contains(t, text, "1x item-2")
	assert.Contains(t, text, "* no ice")
	assert.Contains(t, text, "TOTAL")
	assert.Contains(t, text, "20.45")
}

func TestESCPOSRender_LinesRespectPaperWidth(t *testing.T) {
	out, err := (&ESCPOSRenderer{}).Render(sampleReceipt(24))
	require.NoError(t, err)

	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		printable := stripControl(line)
		assert.LessOrEqual(t, len(printable), 24, "line %q exceeds paper width", printable)
		lines = append(lines, printable)
	}

	// Align and bold sequences share lines with text; stripping them must
	// leave the full-width rule and the bolded total intact.
	assert.Contains(t, lines, strings.Repeat("-", 24))
	assert.Contains(t, lines, "TOTAL              20.45")
}

func TestESCPOSRender_ZeroWidthFallsBackToDefault(t *testing.T) {
	out, err := (&ESCPOSRenderer{}).Render(sampleReceipt(0))
	require.NoError(t, err)
	assert.Contains(t, string(out), strings.Repeat("-", 32))
}

func TestPriceLine(t *testing.T) {
	line := priceLine("Subtotal", 19.00, 32)
	assert.Equal(t, 33, len(line), "line fills the width plus newline")
	assert.True(t, strings.HasSuffix(line, "19.00\n"))

	// Overlong label gets truncated, not wrapped
	line = priceLine(strings.Repeat("x", 60), 5.00, 20)
	assert.LessOrEqual(t, len(line), 21)
}

// stripControl removes whole ESC/POS command sequences, including their
// command and parameter bytes, leaving only the printable receipt text.
func stripControl(line string) string {
	data := []byte(line)
	var b strings.Builder
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case 0x1B:
			// ESC @ is bare; the other commands carry one parameter byte
			if i+1 < len(data) && data[i+1] != 0x40 {
				i += 2
			} else {
				i++
			}
		case 0x1D:
			// GS V m n cut sequence
			i += 3
		default:
			if data[i] >= 0x20 {
				b.WriteByte(data[i])
			}
		}
	}
	return b.String()
}
