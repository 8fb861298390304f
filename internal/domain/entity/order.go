package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderStatusConfirmed = "confirmed"

var (
	// Orders above this subtotal ship free.
	FreeShippingThreshold = decimal.NewFromInt(500)
	ShippingFee           = decimal.NewFromInt(50)
)

type OrderLine struct {
	ProductID string  `json:"product_id" firestore:"productId"`
	Name      string  `json:"name" firestore:"name"`
	Price     float64 `json:"price" firestore:"price"`
	Quantity  int     `json:"quantity" firestore:"quantity"`
}

type Order struct {
	ID        string      `json:"id" firestore:"-"`
	UserID    string      `json:"user_id" firestore:"userId"`
	Email     string      `json:"email" firestore:"email"`
	Items     []OrderLine `json:"items" firestore:"items"`
	ItemCount int         `json:"item_count" firestore:"itemCount"`
	Subtotal  string      `json:"subtotal" firestore:"subtotal"`
	Shipping  string      `json:"shipping" firestore:"shipping"`
	Total     string      `json:"total" firestore:"total"`
	Status    string      `json:"status" firestore:"status"`
	CreatedAt time.Time   `json:"created_at" firestore:"createdAt"`
}

// ShippingFor is the flat fee for subtotals up to the threshold, else zero.
func ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	return ShippingFee
}

// NewOrder prices the cart lines into an order summary.
func NewOrder(userID, email string, items []*CartItem, now time.Time) *Order {
	subtotal := CartTotal(items)
	shipping := ShippingFor(subtotal)

	lines := make([]OrderLine, 0, len(items))
	count := 0
	for _, item := range items {
		lines = append(lines, OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
		count += item.Quantity
	}

	return &Order{
		UserID:    userID,
		Email:     email,
		Items:     lines,
		ItemCount: count,
		Subtotal:  subtotal.StringFixed(2),
		Shipping:  shipping.StringFixed(2),
		Total:     subtotal.Add(shipping).StringFixed(2),
		Status:    OrderStatusConfirmed,
		CreatedAt: now,
	}
}
