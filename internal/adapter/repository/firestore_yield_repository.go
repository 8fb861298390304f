package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/pkg/errors"
)

const yieldsCollection = "farmYields"

type firestoreYieldRepository struct {
	client *firestore.Client
}

func NewFirestoreYieldRepository(client *firestore.Client) repository.YieldRepository {
	return &firestoreYieldRepository{
		client: client,
	}
}

func decodeYield(doc *firestore.DocumentSnapshot) (*entity.FarmYield, error) {
	var y entity.FarmYield
	if err := doc.DataTo(&y); err != nil {
		return nil, errors.Internal("Failed to parse yield data", err)
	}
	y.ID = doc.Ref.ID
	return &y, nil
}

func (r *firestoreYieldRepository) Create(ctx context.Context, y *entity.FarmYield) error {
	ref := r.client.Collection(yieldsCollection).NewDoc()
	if _, err := ref.Create(ctx, y); err != nil {
		return errors.FromFirestore(err, "Yield record", "save yield record")
	}
	y.ID = ref.ID
	return nil
}

func (r *firestoreYieldRepository) GetByID(ctx context.Context, id string) (*entity.FarmYield, error) {
	doc, err := r.client.Collection(yieldsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, errors.FromFirestore(err, "Yield record", "get yield record")
	}
	return decodeYield(doc)
}

func (r *firestoreYieldRepository) Update(ctx context.Context, y *entity.FarmYield) error {
	_, err := r.client.Collection(yieldsCollection).Doc(y.ID).Set(ctx, y)
	if err != nil {
		return errors.FromFirestore(err, "Yield record", "update yield record")
	}
	return nil
}

func (r *firestoreYieldRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(yieldsCollection).Doc(id).Delete(ctx)
	if err != nil {
		return errors.FromFirestore(err, "Yield record", "delete yield record")
	}
	return nil
}

func (r *firestoreYieldRepository) ListByUser(ctx context.Context, uid string) ([]*entity.FarmYield, error) {
	iter := r.client.Collection(yieldsCollection).
		Where("userId", "==", uid).
		OrderBy("year", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	records := []*entity.FarmYield{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.FromFirestore(err, "Yield record", "list yield records")
		}
		y, err := decodeYield(doc)
		if err != nil {
			return nil, err
		}
		records = append(records, y)
	}
	return records, nil
}
