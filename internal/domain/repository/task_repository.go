package repository

import (
	"context"

	"farmily/internal/domain/entity"
)

type TaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	Update(ctx context.Context, task *entity.Task) error
	Delete(ctx context.Context, id string) error
	ListByCreator(ctx context.Context, uid string) ([]*entity.Task, error)
}

type YieldRepository interface {
	Create(ctx context.Context, y *entity.FarmYield) error
	GetByID(ctx context.Context, id string) (*entity.FarmYield, error)
	Update(ctx context.Context, y *entity.FarmYield) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, uid string) ([]*entity.FarmYield, error)
}
