package usecase

import (
	"context"
	"strings"
	"time"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/pkg/errors"
)

type TaskUseCase struct {
	taskRepo repository.TaskRepository
	now      func() time.Time
}

func NewTaskUseCase(taskRepo repository.TaskRepository) *TaskUseCase {
	return &TaskUseCase{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

type TaskInput struct {
	Title         string
	Description   string
	Status        string
	DueDate       time.Time
	Progress      *int
	ProgressLabel string
	Priority      string
	Category      string
	AssignedTo    string
	FarmID        string
	FieldID       string
}

func validStatus(s string) bool {
	switch s {
	case entity.TaskStatusPending, entity.TaskStatusInProgress, entity.TaskStatusCompleted:
		return true
	}
	return false
}

func validPriority(p string) bool {
	switch p {
	case entity.PriorityHigh, entity.PriorityMedium, entity.PriorityLow:
		return true
	}
	return false
}

// progress resolves the numeric progress from either form of input and
// snaps it onto one of the five buckets.
func (in TaskInput) progress() (int, error) {
	if in.ProgressLabel != "" {
		v, ok := entity.ProgressValue(entity.ProgressLabel(in.ProgressLabel))
		if !ok {
			return 0, errors.BadRequest("Unknown progress label", nil)
		}
		return v, nil
	}
	if in.Progress == nil {
		return 0, nil
	}
	if *in.Progress < 0 || *in.Progress > 100 {
		return 0, errors.BadRequest("progress must be between 0 and 100", nil)
	}
	v, _ := entity.ProgressValue(entity.LabelForProgress(*in.Progress))
	return v, nil
}

func (in TaskInput) apply(task *entity.Task) error {
	task.Title = strings.TrimSpace(in.Title)
	if task.Title == "" {
		return errors.BadRequest("title is required", nil)
	}
	if in.DueDate.IsZero() {
		return errors.BadRequest("due_date is required", nil)
	}

	status := in.Status
	if status == "" {
		status = entity.TaskStatusPending
	}
	if !validStatus(status) {
		return errors.BadRequest("Unknown task status", nil)
	}
	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	if !validPriority(priority) {
		return errors.BadRequest("Unknown task priority", nil)
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = entity.DefaultTaskCategory
	}

	progress, err := in.progress()
	if err != nil {
		return err
	}

	task.Description = in.Description
	task.Status = status
	task.DueDate = in.DueDate
	task.Progress = progress
	task.Priority = priority
	task.Category = category
	task.AssignedTo = in.AssignedTo
	task.FarmID = in.FarmID
	task.FieldID = in.FieldID
	return nil
}

func (uc *TaskUseCase) Create(ctx context.Context, uid string, in TaskInput) (*entity.Task, error) {
	now := uc.now()
	task := &entity.Task{CreatedBy: uid, CreatedAt: now, UpdatedAt: now}
	if err := in.apply(task); err != nil {
		return nil, err
	}
	if task.AssignedTo == "" {
		task.AssignedTo = uid
	}
	if err := uc.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *TaskUseCase) owned(ctx context.Context, uid, id string) (*entity.Task, error) {
	task, err := uc.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.CreatedBy != uid {
		return nil, errors.Forbidden("You can only change your own tasks", nil)
	}
	return task, nil
}

func (uc *TaskUseCase) Get(ctx context.Context, uid, id string) (*entity.Task, error) {
	return uc.owned(ctx, uid, id)
}

func (uc *TaskUseCase) Update(ctx context.Context, uid, id string, in TaskInput) (*entity.Task, error) {
	task, err := uc.owned(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(task); err != nil {
		return nil, err
	}
	if task.AssignedTo == "" {
		task.AssignedTo = uid
	}
	task.UpdatedAt = uc.now()
	if err := uc.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *TaskUseCase) Delete(ctx context.Context, uid, id string) error {
	if _, err := uc.owned(ctx, uid, id); err != nil {
		return err
	}
	return uc.taskRepo.Delete(ctx, id)
}

type TaskList struct {
	Tasks           []*entity.Task `json:"tasks"`
	OverallProgress int            `json:"overall_progress"`
	Total           int            `json:"total"`
}

// List filters and sorts the caller's tasks. Overall progress covers all of
// them, not just the filtered view.
func (uc *TaskUseCase) List(ctx context.Context, uid string, filter entity.TaskFilter, sortBy entity.TaskSort) (*TaskList, error) {
	tasks, err := uc.taskRepo.ListByCreator(ctx, uid)
	if err != nil {
		return nil, err
	}

	view := entity.FilterTasks(tasks, filter)
	entity.SortTasks(view, sortBy)
	return &TaskList{
		Tasks:           view,
		OverallProgress: entity.OverallProgress(tasks),
		Total:           len(tasks),
	}, nil
}
