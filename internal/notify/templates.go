package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"resto-suite/internal/models"
)

var confirmationTmpl = template.Must(template.New("order_confirmation").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Thank you for your order, {{.CustomerName}}!</h2>
  <p>Your order <strong>#{{.OrderNumber}}</strong> at {{.RestaurantName}} has been received.</p>
  <table border="0" cellpadding="6" cellspacing="0" style="border-collapse: collapse; width: 100%;">
    <tr style="background: #f4f4f4;">
      <th align="left">Item</th><th align="right">Qty</th><th align="right">Price</th><th align="right">Total</th>
    </tr>
    {{range .Items}}
    <tr>
      <td>{{.Name}}</td>
      <td align="right">{{.Quantity}}</td>
      <td align="right">{{printf "%.2f" .UnitPrice}}</td>
      <td align="right">{{printf "%.2f" .TotalPrice}}</td>
    </tr>
    {{end}}
  </table>
  <p>
    Subtotal: {{printf "%.2f" .Subtotal}}<br>
    Tax: {{printf "%.2f" .Tax}}<br>
    {{if gt .DeliveryFee 0.0}}Delivery fee: {{printf "%.2f" .DeliveryFee}}<br>{{end}}
    <strong>Total: {{printf "%.2f" .Total}}</strong>
  </p>
  <p>{{.RestaurantName}}{{if .RestaurantPhone}} · {{.RestaurantPhone}}{{end}}</p>
</body>
</html>`))

type confirmationItem struct {
	Name       string
	Quantity   int
	UnitPrice  float64
	TotalPrice float64
}

type confirmationData struct {
	CustomerName    string
	OrderNumber     string
	RestaurantName  string
	RestaurantPhone string
	Items           []confirmationItem
	Subtotal        float64
	Tax             float64
	DeliveryFee     float64
	Total           float64
}

// BuildOrderConfirmation renders the itemized confirmation email. Item names
// come from the joined menu item rows; a missing join falls back to the id.
func BuildOrderConfirmation(restaurant *models.Restaurant, order *models.Order, items []*models.OrderItem) (subject, htmlBody string, err error) {
	data := confirmationData{
		CustomerName:    order.CustomerName,
		OrderNumber:     order.OrderNumber,
		RestaurantName:  restaurant.Name,
		RestaurantPhone: restaurant.Phone,
		Subtotal:        order.Subtotal,
		Tax:             order.Tax,
		DeliveryFee:     order.DeliveryFee,
		Total:           order.Total,
	}
	for _, item := range items {
		name := item.MenuItemID
		if item.MenuItem != nil {
			name = item.MenuItem.Name
		}
		data.Items = append(data.Items, confirmationItem{
			Name:       name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}

	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return fmt.Sprintf("Order confirmation #%s", order.OrderNumber), buf.String(), nil
}

var statusMessages = map[models.OrderStatus]string{
	models.OrderStatusConfirmed: "Your order has been confirmed and is in the queue.",
	models.OrderStatusPreparing: "Your order is now being prepared.",
	models.OrderStatusReady:     "Your order is ready for pickup.",
	models.OrderStatusServed:    "Your order has been served. Enjoy!",
	models.OrderStatusCancelled: "Your order has been cancelled. Contact us if this is unexpected.",
}

// BuildStatusUpdate renders the status update email, with fallback text for
// unrecognized status values.
func BuildStatusUpdate(restaurant *models.Restaurant, order *models.Order) (subject, htmlBody string) {
	message, ok := statusMessages[order.Status]
	if !ok {
		message = fmt.Sprintf("Your order status changed to: %s", order.Status)
	}

	subject = fmt.Sprintf("Order #%s update", order.OrderNumber)
	htmlBody = fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Hi %s,</h2>
  <p>%s</p>
  <p>Order <strong>#%s</strong> · %s</p>
</body>
</html>`, template.HTMLEscapeString(order.CustomerName), message, template.HTMLEscapeString(order.OrderNumber), template.HTMLEscapeString(restaurant.Name))
	return subject, htmlBody
}
