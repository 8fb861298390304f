package usecase

import (
	"context"
	"strings"
	"time"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/pkg/errors"
	"farmily/pkg/logger"
)

type CartUseCase struct {
	cartRepo repository.CartRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

func NewCartUseCase(cartRepo repository.CartRepository, userRepo repository.UserRepository) *CartUseCase {
	return &CartUseCase{
		cartRepo: cartRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

func (uc *CartUseCase) Get(ctx context.Context, uid string) (*entity.CartSummary, error) {
	items, err := uc.cartRepo.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return entity.SummarizeCart(items), nil
}

func (uc *CartUseCase) Add(ctx context.Context, uid string, product entity.CartProduct, qty int) (*entity.CartItem, error) {
	if strings.TrimSpace(product.ProductID) == "" {
		return nil, errors.BadRequest("product_id is required", nil)
	}
	if qty <= 0 {
		qty = 1
	}
	if product.Price < 0 {
		return nil, errors.BadRequest("price cannot be negative", nil)
	}
	return uc.cartRepo.Add(ctx, uid, product, qty)
}

func (uc *CartUseCase) ownedItem(ctx context.Context, uid, id string) (*entity.CartItem, error) {
	item, err := uc.cartRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.UserID != uid {
		return nil, errors.Forbidden("This cart item belongs to another user", nil)
	}
	return item, nil
}

func (uc *CartUseCase) UpdateQuantity(ctx context.Context, uid, id string, qty int) (*entity.CartItem, error) {
	if qty < 1 {
		return nil, errors.BadRequest("quantity must be at least 1", nil)
	}
	item, err := uc.ownedItem(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if err := uc.cartRepo.UpdateQuantity(ctx, id, qty); err != nil {
		return nil, err
	}
	item.Quantity = qty
	return item, nil
}

func (uc *CartUseCase) Remove(ctx context.Context, uid, id string) error {
	if _, err := uc.ownedItem(ctx, uid, id); err != nil {
		return err
	}
	return uc.cartRepo.Delete(ctx, id)
}

func (uc *CartUseCase) Clear(ctx context.Context, uid string) (int, error) {
	return uc.cartRepo.DeleteByUser(ctx, uid)
}

// Checkout turns the cart into an order and empties it. Shipping is charged
// up to the free-shipping threshold.
func (uc *CartUseCase) Checkout(ctx context.Context, uid string) (*entity.Order, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	email := strings.TrimSpace(user.Email)
	if email == "" {
		return nil, errors.BadRequest("Please complete your user profile before checkout", nil)
	}

	order, err := uc.cartRepo.Checkout(ctx, uid, func(items []*entity.CartItem) (*entity.Order, error) {
		if len(items) == 0 {
			return nil, errors.BadRequest("Your cart is empty", nil)
		}
		return entity.NewOrder(uid, email, items, uc.now()), nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Order %s placed by %s: %s GHS for %d items", order.ID, uid, order.Total, order.ItemCount)
	return order, nil
}
