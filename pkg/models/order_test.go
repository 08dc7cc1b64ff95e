package models

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},
		{StatusShipped, StatusProcessing, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusProcessing, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.False(t, StatusShipped.Terminal())
	assert.False(t, OrderStatus("refunded").Terminal())
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("refunded").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentCard.Valid())
	assert.True(t, PaymentUPI.Valid())
	assert.True(t, PaymentCOD.Valid())
	assert.False(t, PaymentMethod("paypal").Valid())
	assert.False(t, PaymentMethod("").Valid())
}

func TestGenerateOrderID(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d+-[0-9A-Z]{9}$`)

	first := GenerateOrderID()
	second := GenerateOrderID()

	require.Regexp(t, pattern, first)
	require.Regexp(t, pattern, second)
	assert.NotEqual(t, first, second)
}

func TestAddressMissingFields(t *testing.T) {
	full := Address{
		FullName:     "A B",
		Phone:        "123",
		AddressLine1: "X",
		City:         "C",
		State:        "S",
		ZipCode:      "1",
		Country:      "US",
	}
	assert.Empty(t, full.MissingFields())

	// addressLine2 is the only optional field
	full.AddressLine2 = ""
	assert.Empty(t, full.MissingFields())

	partial := Address{FullName: "A B", Country: "US"}
	assert.ElementsMatch(t,
		[]string{"phone", "address_line1", "city", "state", "zip_code"},
		partial.MissingFields())
}

func TestSnapshotLine(t *testing.T) {
	line := CartLine{
		Product: Product{
			ID:    "p1",
			Name:  "Minimalist Wireless Earbuds Pro",
			Image: "/images/earbuds.jpg",
			Price: 25.50,
		},
		Quantity: 3,
	}

	snap := SnapshotLine(line)

	assert.Equal(t, "p1", snap.ProductID)
	assert.Equal(t, "Minimalist Wireless Earbuds Pro", snap.ProductName)
	assert.Equal(t, "/images/earbuds.jpg", snap.ProductImage)
	assert.Equal(t, 25.50, snap.ProductPrice)
	assert.Equal(t, 3, snap.Quantity)
	assert.Equal(t, 76.50, snap.Subtotal)
}
