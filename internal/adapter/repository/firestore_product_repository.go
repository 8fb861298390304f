package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/pkg/errors"
)

const productsCollection = "products"

type firestoreProductRepository struct {
	client *firestore.Client
}

func NewFirestoreProductRepository(client *firestore.Client) repository.ProductRepository {
	return &firestoreProductRepository{
		client: client,
	}
}

func (r *firestoreProductRepository) Create(ctx context.Context, product *entity.Product) error {
	ref := r.client.Collection(productsCollection).NewDoc()
	if _, err := ref.Create(ctx, product); err != nil {
		return errors.FromFirestore(err, "Product", "create product")
	}
	product.ID = ref.ID
	return nil
}

func (r *firestoreProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	doc, err := r.client.Collection(productsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, errors.FromFirestore(err, "Product", "get product")
	}

	var product entity.Product
	if err := doc.DataTo(&product); err != nil {
		return nil, errors.Internal("Failed to parse product data", err)
	}
	product.ID = doc.Ref.ID
	return &product, nil
}

func (r *firestoreProductRepository) Update(ctx context.Context, product *entity.Product) error {
	_, err := r.client.Collection(productsCollection).Doc(product.ID).Set(ctx, product)
	if err != nil {
		return errors.FromFirestore(err, "Product", "update product")
	}
	return nil
}

func (r *firestoreProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(productsCollection).Doc(id).Delete(ctx)
	if err != nil {
		return errors.FromFirestore(err, "Product", "delete product")
	}
	return nil
}

func (r *firestoreProductRepository) List(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, r.client.Collection(productsCollection).OrderBy("createdAt", firestore.Desc))
}

func (r *firestoreProductRepository) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Product, error) {
	return r.list(ctx, r.client.Collection(productsCollection).Where("sellerId", "==", sellerID))
}

func (r *firestoreProductRepository) list(ctx context.Context, query firestore.Query) ([]*entity.Product, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	products := []*entity.Product{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.FromFirestore(err, "Product", "list products")
		}

		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			return nil, errors.Internal("Failed to parse product data", err)
		}
		product.ID = doc.Ref.ID
		products = append(products, &product)
	}
	return products, nil
}
