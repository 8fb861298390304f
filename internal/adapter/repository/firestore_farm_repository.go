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
	farmsCollection  = "farms"
	fieldsCollection = "fields"
)

type firestoreFarmRepository struct {
	client *firestore.Client
}

func NewFirestoreFarmRepository(client *firestore.Client) repository.FarmRepository {
	return &firestoreFarmRepository{
		client: client,
	}
}

func (r *firestoreFarmRepository) CreateFarm(ctx context.Context, farm *entity.Farm) error {
	ref := r.client.Collection(farmsCollection).NewDoc()
	if _, err := ref.Create(ctx, farm); err != nil {
		return errors.FromFirestore(err, "Farm", "create farm")
	}
	farm.ID = ref.ID
	return nil
}

func (r *firestoreFarmRepository) GetFarm(ctx context.Context, id string) (*entity.Farm, error) {
	doc, err := r.client.Collection(farmsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, errors.FromFirestore(err, "Farm", "get farm")
	}

	var farm entity.Farm
	if err := doc.DataTo(&farm); err != nil {
		return nil, errors.Internal("Failed to parse farm data", err)
	}
	farm.ID = doc.Ref.ID
	return &farm, nil
}

func (r *firestoreFarmRepository) ListFarms(ctx context.Context, ownerID string) ([]*entity.Farm, error) {
	iter := r.client.Collection(farmsCollection).Where("ownerId", "==", ownerID).Documents(ctx)
	defer iter.Stop()

	farms := []*entity.Farm{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.FromFirestore(err, "Farm", "list farms")
		}

		var farm entity.Farm
		if err := doc.DataTo(&farm); err != nil {
			return nil, errors.Internal("Failed to parse farm data", err)
		}
		farm.ID = doc.Ref.ID
		farms = append(farms, &farm)
	}
	return farms, nil
}

func (r *firestoreFarmRepository) AddField(ctx context.Context, field *entity.Field) error {
	farmRef := r.client.Collection(farmsCollection).Doc(field.FarmID)
	fieldRef := r.client.Collection(fieldsCollection).NewDoc()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(farmRef); err != nil {
			return err
		}
		if err := tx.Create(fieldRef, field); err != nil {
			return err
		}
		return tx.Update(farmRef, []firestore.Update{
			{Path: "fieldIds", Value: firestore.ArrayUnion(fieldRef.ID)},
			{Path: "updatedAt", Value: time.Now()},
		})
	})
	if err != nil {
		return errors.FromFirestore(err, "Farm", "add field")
	}
	field.ID = fieldRef.ID
	return nil
}

func (r *firestoreFarmRepository) GetField(ctx context.Context, id string) (*entity.Field, error) {
	doc, err := r.client.Collection(fieldsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, errors.FromFirestore(err, "Field", "get field")
	}

	var field entity.Field
	if err := doc.DataTo(&field); err != nil {
		return nil, errors.Internal("Failed to parse field data", err)
	}
	field.ID = doc.Ref.ID
	return &field, nil
}

func (r *firestoreFarmRepository) ListFields(ctx context.Context, farmID string) ([]*entity.Field, error) {
	iter := r.client.Collection(fieldsCollection).Where("farmId", "==", farmID).Documents(ctx)
	defer iter.Stop()

	fields := []*entity.Field{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.FromFirestore(err, "Field", "list fields")
		}

		var field entity.Field
		if err := doc.DataTo(&field); err != nil {
			return nil, errors.Internal("Failed to parse field data", err)
		}
		field.ID = doc.Ref.ID
		fields = append(fields, &field)
	}
	return fields, nil
}

func (r *firestoreFarmRepository) AppendNote(ctx context.Context, fieldID string, note entity.FieldNote) error {
	_, err := r.client.Collection(fieldsCollection).Doc(fieldID).Update(ctx, []firestore.Update{
		{Path: "notes", Value: firestore.ArrayUnion(note)},
	})
	if err != nil {
		return errors.FromFirestore(err, "Field", "add note")
	}
	return nil
}

func (r *firestoreFarmRepository) SetGrowthStage(ctx context.Context, fieldID, stage string, date time.Time) error {
	_, err := r.client.Collection(fieldsCollection).Doc(fieldID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"growthStages", stage, "date"}, Value: date},
	})
	if err != nil {
		return errors.FromFirestore(err, "Field", "update growth stage")
	}
	return nil
}

func (r *firestoreFarmRepository) AppendMetric(ctx context.Context, fieldID, metric string, reading entity.MetricReading) error {
	_, err := r.client.Collection(fieldsCollection).Doc(fieldID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"metrics", metric}, Value: firestore.ArrayUnion(reading)},
	})
	if err != nil {
		return errors.FromFirestore(err, "Field", "record metric")
	}
	return nil
}
