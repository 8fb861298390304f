package repository

import (
	"context"

	"farmily/internal/domain/entity"
)

type CartRepository interface {
	ListByUser(ctx context.Context, uid string) ([]*entity.CartItem, error)
	GetByID(ctx context.Context, id string) (*entity.CartItem, error)
	// Add merges qty of the product into the user's cart in one transaction.
	Add(ctx context.Context, uid string, product entity.CartProduct, qty int) (*entity.CartItem, error)
	UpdateQuantity(ctx context.Context, id string, qty int) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, uid string) (int, error)
	// Checkout reads the user's cart, stores the order build returns and
	// deletes the cart lines in one transaction.
	Checkout(ctx context.Context, uid string, build func(items []*entity.CartItem) (*entity.Order, error)) (*entity.Order, error)
}
