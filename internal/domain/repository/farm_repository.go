package repository

import (
	"context"
	"time"

	"farmily/internal/domain/entity"
)

type FarmRepository interface {
	CreateFarm(ctx context.Context, farm *entity.Farm) error
	GetFarm(ctx context.Context, id string) (*entity.Farm, error)
	ListFarms(ctx context.Context, ownerID string) ([]*entity.Farm, error)

	// AddField creates the field and links it to its farm atomically.
	AddField(ctx context.Context, field *entity.Field) error
	GetField(ctx context.Context, id string) (*entity.Field, error)
	ListFields(ctx context.Context, farmID string) ([]*entity.Field, error)
	AppendNote(ctx context.Context, fieldID string, note entity.FieldNote) error
	SetGrowthStage(ctx context.Context, fieldID, stage string, date time.Time) error
	AppendMetric(ctx context.Context, fieldID, metric string, reading entity.MetricReading) error
}
