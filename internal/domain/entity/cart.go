package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultCartCategory = "other"

type CartSeller struct {
	Name    string `json:"name" firestore:"name"`
	Contact string `json:"contact" firestore:"contact"`
}

type CartItemMetadata struct {
	Rating  float64 `json:"rating" firestore:"rating"`
	Reviews int     `json:"reviews" firestore:"reviews"`
}

type CartItem struct {
	ID            string           `json:"id" firestore:"-"`
	UserID        string           `json:"user_id" firestore:"userId"`
	ProductID     string           `json:"product_id" firestore:"productId"`
	Name          string           `json:"name" firestore:"name"`
	Image         string           `json:"image" firestore:"image"`
	Price         float64          `json:"price" firestore:"price"`
	OriginalPrice float64          `json:"original_price,omitempty" firestore:"originalPrice,omitempty"`
	Quantity      int              `json:"quantity" firestore:"quantity"`
	Category      string           `json:"category" firestore:"category"`
	Seller        CartSeller       `json:"seller" firestore:"seller"`
	Metadata      CartItemMetadata `json:"metadata" firestore:"metadata"`
	AddedAt       time.Time        `json:"added_at" firestore:"addedAt"`
	UpdatedAt     time.Time        `json:"updated_at,omitempty" firestore:"updatedAt,omitempty"`
}

// CartProduct is the snapshot of a purchasable item taken when it is added.
type CartProduct struct {
	ProductID     string
	Name          string
	Image         string
	Price         float64
	OriginalPrice float64
	Category      string
	Rating        float64
	Reviews       int
}

// NewCartItem builds the line item stored for a product added to the cart.
func NewCartItem(userID string, p CartProduct, qty int, now time.Time) *CartItem {
	category := strings.TrimSpace(p.Category)
	if category == "" {
		category = DefaultCartCategory
	}
	return &CartItem{
		UserID:        userID,
		ProductID:     p.ProductID,
		Name:          p.Name,
		Image:         p.Image,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Quantity:      qty,
		Category:      category,
		Seller: CartSeller{
			Name:    fmt.Sprintf("%s Supplier", category),
			Contact: fmt.Sprintf("support@%smarket.com", strings.ToLower(strings.ReplaceAll(category, " ", ""))),
		},
		Metadata: CartItemMetadata{
			Rating:  p.Rating,
			Reviews: p.Reviews,
		},
		AddedAt: now,
	}
}

// MergeCartItem applies "add qty of product" to items. When a line for the
// product already exists its quantity is incremented and that line is
// returned with created=false; otherwise a new line is appended.
func MergeCartItem(items []*CartItem, userID string, p CartProduct, qty int, now time.Time) ([]*CartItem, *CartItem, bool) {
	for _, item := range items {
		if item.ProductID == p.ProductID {
			item.Quantity += qty
			item.UpdatedAt = now
			return items, item, false
		}
	}
	item := NewCartItem(userID, p, qty, now)
	return append(items, item), item, true
}

type CartSummary struct {
	Items     []*CartItem `json:"items"`
	ItemCount int         `json:"item_count"`
	Total     string      `json:"total"`
}

// CartTotal is the sum of price × quantity with two decimal places.
func CartTotal(items []*CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total.Round(2)
}

func SummarizeCart(items []*CartItem) *CartSummary {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	if items == nil {
		items = []*CartItem{}
	}
	return &CartSummary{
		Items:     items,
		ItemCount: count,
		Total:     CartTotal(items).StringFixed(2),
	}
}
