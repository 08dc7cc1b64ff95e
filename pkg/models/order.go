package models

import (
	"fmt"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
	PaymentCOD  PaymentMethod = "cod"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCard, PaymentUPI, PaymentCOD:
		return true
	}
	return false
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// statusTransitions is the order lifecycle:
//
//	pending -> processing -> shipped -> delivered
//	pending | processing | shipped -> cancelled
//
// delivered and cancelled are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return len(statusTransitions[s]) == 0 && s.Valid()
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Address is the shipping address captured at checkout. Everything except
// the second address line is required.
type Address struct {
	FullName     string `bson:"full_name" json:"full_name" binding:"required"`
	Phone        string `bson:"phone" json:"phone" binding:"required"`
	AddressLine1 string `bson:"address_line1" json:"address_line1" binding:"required"`
	AddressLine2 string `bson:"address_line2,omitempty" json:"address_line2,omitempty"`
	City         string `bson:"city" json:"city" binding:"required"`
	State        string `bson:"state" json:"state" binding:"required"`
	ZipCode      string `bson:"zip_code" json:"zip_code" binding:"required"`
	Country      string `bson:"country" json:"country" binding:"required"`
}

// MissingFields returns the names of required address fields that are empty.
func (a Address) MissingFields() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"full_name", a.FullName},
		{"phone", a.Phone},
		{"address_line1", a.AddressLine1},
		{"city", a.City},
		{"state", a.State},
		{"zip_code", a.ZipCode},
		{"country", a.Country},
	}
	for _, field := range required {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// OrderLineSnapshot freezes the catalog fields of one cart line at order
// time, so later catalog edits never change what the customer bought.
type OrderLineSnapshot struct {
	ProductID    string  `bson:"product_id" json:"product_id"`
	ProductName  string  `bson:"product_name" json:"product_name"`
	ProductImage string  `bson:"product_image" json:"product_image"`
	ProductPrice float64 `bson:"product_price" json:"product_price"`
	Quantity     int     `bson:"quantity" json:"quantity"`
	Subtotal     float64 `bson:"subtotal" json:"subtotal"`
}

// SnapshotLine captures a cart line into an order line snapshot.
func SnapshotLine(line CartLine) OrderLineSnapshot {
	return OrderLineSnapshot{
		ProductID:    line.Product.ID,
		ProductName:  line.Product.Name,
		ProductImage: line.Product.Image,
		ProductPrice: line.Product.Price,
		Quantity:     line.Quantity,
		Subtotal:     line.Subtotal(),
	}
}

// Order is the persisted order record. After creation only Status and
// UpdatedAt may change; items, address, total and payment method are frozen.
type Order struct {
	ID             bson.ObjectID       `bson:"_id,omitempty" json:"id"`
	UserID         string              `bson:"user_id" json:"user_id"`
	Items          []OrderLineSnapshot `bson:"items" json:"items"`
	TotalPrice     float64             `bson:"total_price" json:"total_price"`
	Address        Address             `bson:"address" json:"address"`
	PaymentMethod  PaymentMethod       `bson:"payment_method" json:"payment_method"`
	Status         OrderStatus         `bson:"status" json:"status"`
	OrderID        string              `bson:"order_id" json:"order_id"`
	IdempotencyKey string              `bson:"idempotency_key,omitempty" json:"-"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updated_at"`
}

func (o *Order) SetTimestamps() {
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
}

// CheckoutRequest turns the referenced session's cart into an order. Address
// and payment fields are validated again in the order core; the binding tags
// only reject obviously malformed payloads early.
type CheckoutRequest struct {
	SessionID     string        `json:"session_id" binding:"required"`
	Address       Address       `json:"address"`
	PaymentMethod PaymentMethod `json:"payment_method" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}

const orderIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateOrderID returns the human-facing order code:
// ORD-<unix ms>-<9 uppercase base36 chars>. Uniqueness is probabilistic; the
// storage layer holds the unique index and callers retry on conflict.
func GenerateOrderID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = orderIDAlphabet[rand.Intn(len(orderIDAlphabet))]
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}
