package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/pkg/errors"
)

type FarmUseCase struct {
	farmRepo repository.FarmRepository
	now      func() time.Time
}

func NewFarmUseCase(farmRepo repository.FarmRepository) *FarmUseCase {
	return &FarmUseCase{
		farmRepo: farmRepo,
		now:      time.Now,
	}
}

func (uc *FarmUseCase) CreateFarm(ctx context.Context, uid, name, location string) (*entity.Farm, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.BadRequest("name is required", nil)
	}
	now := uc.now()
	farm := &entity.Farm{
		Name:      name,
		Location:  strings.TrimSpace(location),
		OwnerID:   uid,
		Members:   []entity.FarmMember{{UserID: uid, Role: entity.RoleOwner}},
		FieldIDs:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.farmRepo.CreateFarm(ctx, farm); err != nil {
		return nil, err
	}
	return farm, nil
}

func (uc *FarmUseCase) ListFarms(ctx context.Context, uid string) ([]*entity.Farm, error) {
	return uc.farmRepo.ListFarms(ctx, uid)
}

func (uc *FarmUseCase) ownedFarm(ctx context.Context, uid, farmID string) (*entity.Farm, error) {
	farm, err := uc.farmRepo.GetFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}
	if farm.OwnerID != uid {
		return nil, errors.Forbidden("You do not own this farm", nil)
	}
	return farm, nil
}

func (uc *FarmUseCase) ownedField(ctx context.Context, uid, fieldID string) (*entity.Field, error) {
	field, err := uc.farmRepo.GetField(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	if field.OwnerID != uid {
		return nil, errors.Forbidden("You do not own this field", nil)
	}
	return field, nil
}

func (uc *FarmUseCase) AddField(ctx context.Context, uid, farmID, name string) (*entity.Field, error) {
	farm, err := uc.ownedFarm(ctx, uid, farmID)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = entity.DefaultFieldName(len(farm.FieldIDs) + 1)
	}

	field := &entity.Field{
		Name:      name,
		OwnerID:   uid,
		FarmID:    farm.ID,
		Notes:     []entity.FieldNote{},
		YieldData: []entity.YieldPoint{},
		Metrics: entity.FieldMetrics{
			Moisture:    []entity.MetricReading{},
			Temperature: []entity.MetricReading{},
			Rainfall:    []entity.MetricReading{},
		},
		CreatedAt: uc.now(),
	}
	if err := uc.farmRepo.AddField(ctx, field); err != nil {
		return nil, err
	}
	return field, nil
}

func (uc *FarmUseCase) ListFields(ctx context.Context, uid, farmID string) ([]*entity.Field, error) {
	if _, err := uc.ownedFarm(ctx, uid, farmID); err != nil {
		return nil, err
	}
	return uc.farmRepo.ListFields(ctx, farmID)
}

func (uc *FarmUseCase) GetField(ctx context.Context, uid, fieldID string) (*entity.Field, error) {
	return uc.ownedField(ctx, uid, fieldID)
}

// AddNote appends a note. Quick-action types use stock text; custom notes
// need their own.
func (uc *FarmUseCase) AddNote(ctx context.Context, uid, fieldID, noteType, text string) (*entity.FieldNote, error) {
	if _, err := uc.ownedField(ctx, uid, fieldID); err != nil {
		return nil, err
	}

	if noteType == "" {
		noteType = entity.NoteCustom
	}
	text = strings.TrimSpace(text)
	if stock, ok := entity.NoteText(noteType); ok && text == "" {
		text = stock
	}
	if text == "" {
		return nil, errors.BadRequest("Note text is required", nil)
	}

	note := entity.FieldNote{
		ID:   uuid.New().String(),
		Type: noteType,
		Text: text,
		Date: uc.now(),
	}
	if err := uc.farmRepo.AppendNote(ctx, fieldID, note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (uc *FarmUseCase) SetGrowthStage(ctx context.Context, uid, fieldID, stage string, date time.Time) error {
	if !entity.IsGrowthStage(stage) {
		return errors.BadRequest("Unknown growth stage", nil)
	}
	if date.IsZero() {
		date = uc.now()
	}
	if _, err := uc.ownedField(ctx, uid, fieldID); err != nil {
		return err
	}
	return uc.farmRepo.SetGrowthStage(ctx, fieldID, stage, date)
}

func (uc *FarmUseCase) RecordMetric(ctx context.Context, uid, fieldID, metric string, value float64) (*entity.MetricReading, error) {
	if !entity.IsMetric(metric) {
		return nil, errors.BadRequest("Unknown metric", nil)
	}
	if _, err := uc.ownedField(ctx, uid, fieldID); err != nil {
		return nil, err
	}
	reading := entity.MetricReading{Value: value, At: uc.now()}
	if err := uc.farmRepo.AppendMetric(ctx, fieldID, metric, reading); err != nil {
		return nil, err
	}
	return &reading, nil
}
