package payment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v82"
)

func TestAmountToCents(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{0, 0},
		{10, 1000},
		{42.50, 4250},
		{19.99, 1999},
		{0.1, 10},
		// 29.35 is not exactly representable as a float64; naive
		// int64(amount*100) truncates it to 2934.
		{29.35, 2935},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, amountToCents(tc.amount), "amount %v", tc.amount)
	}
}

func TestClassifyStripeError(t *testing.T) {
	cardErr := &stripe.Error{Type: stripe.ErrorTypeCard, Msg: "Your card has insufficient funds."}
	assert.ErrorIs(t, classifyStripeError(cardErr), ErrCardDeclined)

	apiErr := &stripe.Error{Type: stripe.ErrorTypeAPI, Msg: "upstream timeout"}
	assert.ErrorIs(t, classifyStripeError(apiErr), ErrGatewayUnavailable)

	invalidErr := &stripe.Error{Type: stripe.ErrorTypeInvalidRequest, Msg: "No such payment_intent"}
	classified := classifyStripeError(invalidErr)
	assert.ErrorIs(t, classified, ErrInvalidPaymentRequest)
	assert.NotErrorIs(t, classified, ErrCardDeclined)
	assert.NotErrorIs(t, classified, ErrGatewayUnavailable)

	assert.ErrorIs(t, classifyStripeError(errors.New("dial tcp: timeout")), ErrGatewayUnavailable)
}

func TestPublicStripeMessage(t *testing.T) {
	assert.Equal(t, "Your card was declined.", publicStripeMessage(errors.New("raw")))
	assert.Equal(t, "Insufficient funds.", publicStripeMessage(&stripe.Error{Msg: "Insufficient funds."}))
}
