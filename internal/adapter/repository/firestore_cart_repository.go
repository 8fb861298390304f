package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/pkg/errors"
)

const (
	cartCollection  = "cart"
	orderCollection = "orders"
)

type firestoreCartRepository struct {
	client *firestore.Client
}

func NewFirestoreCartRepository(client *firestore.Client) repository.CartRepository {
	return &firestoreCartRepository{
		client: client,
	}
}

func decodeCartItem(doc *firestore.DocumentSnapshot) (*entity.CartItem, error) {
	var item entity.CartItem
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse cart item", err)
	}
	item.ID = doc.Ref.ID
	return &item, nil
}

func (r *firestoreCartRepository) ListByUser(ctx context.Context, uid string) ([]*entity.CartItem, error) {
	iter := r.client.Collection(cartCollection).Where("userId", "==", uid).Documents(ctx)
	defer iter.Stop()

	items := []*entity.CartItem{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.FromFirestore(err, "Cart item", "load cart")
		}
		item, err := decodeCartItem(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *firestoreCartRepository) GetByID(ctx context.Context, id string) (*entity.CartItem, error) {
	doc, err := r.client.Collection(cartCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, errors.FromFirestore(err, "Cart item", "get cart item")
	}
	return decodeCartItem(doc)
}

func (r *firestoreCartRepository) Add(ctx context.Context, uid string, product entity.CartProduct, qty int) (*entity.CartItem, error) {
	col := r.client.Collection(cartCollection)
	query := col.Where("userId", "==", uid)

	var result *entity.CartItem
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(query).GetAll()
		if err != nil {
			return err
		}

		items := make([]*entity.CartItem, 0, len(docs))
		for _, doc := range docs {
			item, err := decodeCartItem(doc)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		_, item, created := entity.MergeCartItem(items, uid, product, qty, time.Now())
		if created {
			ref := col.NewDoc()
			item.ID = ref.ID
			result = item
			return tx.Create(ref, item)
		}

		result = item
		return tx.Update(col.Doc(item.ID), []firestore.Update{
			{Path: "quantity", Value: item.Quantity},
			{Path: "updatedAt", Value: item.UpdatedAt},
		})
	})
	if err != nil {
		return nil, errors.FromFirestore(err, "Cart item", "add to cart")
	}
	return result, nil
}

func (r *firestoreCartRepository) UpdateQuantity(ctx context.Context, id string, qty int) error {
	_, err := r.client.Collection(cartCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "quantity", Value: qty},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return errors.FromFirestore(err, "Cart item", "update cart item")
	}
	return nil
}

func (r *firestoreCartRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(cartCollection).Doc(id).Delete(ctx)
	if err != nil {
		return errors.FromFirestore(err, "Cart item", "remove cart item")
	}
	return nil
}

func (r *firestoreCartRepository) DeleteByUser(ctx context.Context, uid string) (int, error) {
	docs, err := r.client.Collection(cartCollection).Where("userId", "==", uid).Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.FromFirestore(err, "Cart item", "clear cart")
	}
	if len(docs) == 0 {
		return 0, nil
	}

	bw := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for _, doc := range docs {
		job, err := bw.Delete(doc.Ref)
		if err != nil {
			bw.End()
			return 0, errors.Internal("Failed to clear cart", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	removed := 0
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return removed, errors.FromFirestore(err, "Cart item", "clear cart")
		}
		removed++
	}
	return removed, nil
}

func (r *firestoreCartRepository) Checkout(ctx context.Context, uid string, build func(items []*entity.CartItem) (*entity.Order, error)) (*entity.Order, error) {
	query := r.client.Collection(cartCollection).Where("userId", "==", uid)

	var order *entity.Order
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(query).GetAll()
		if err != nil {
			return err
		}

		items := make([]*entity.CartItem, 0, len(docs))
		for _, doc := range docs {
			item, err := decodeCartItem(doc)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		built, err := build(items)
		if err != nil {
			return err
		}

		ref := r.client.Collection(orderCollection).NewDoc()
		built.ID = ref.ID
		if err := tx.Create(ref, built); err != nil {
			return err
		}
		for _, doc := range docs {
			if err := tx.Delete(doc.Ref); err != nil {
				return err
			}
		}
		order = built
		return nil
	})
	if err != nil {
		return nil, errors.FromFirestore(err, "Order", "check out")
	}
	return order, nil
}
