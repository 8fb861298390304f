package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"farmily/internal/domain/entity"
	"farmily/internal/usecase"
	"farmily/pkg/response"
)

type TaskHandler struct {
	taskUseCase *usecase.TaskUseCase
}

func NewTaskHandler(taskUseCase *usecase.TaskUseCase) *TaskHandler {
	return &TaskHandler{
		taskUseCase: taskUseCase,
	}
}

type taskRequest struct {
	Title         string    `json:"title" validate:"required,max=200"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	DueDate       time.Time `json:"due_date"`
	Progress      *int      `json:"progress" validate:"omitempty,gte=0,lte=100"`
	ProgressLabel string    `json:"progress_label"`
	Priority      string    `json:"priority"`
	Category      string    `json:"category"`
	AssignedTo    string    `json:"assigned_to"`
	FarmID        string    `json:"farm_id"`
	FieldID       string    `json:"field_id"`
}

func (r taskRequest) input() usecase.TaskInput {
	return usecase.TaskInput{
		Title:         r.Title,
		Description:   r.Description,
		Status:        r.Status,
		DueDate:       r.DueDate,
		Progress:      r.Progress,
		ProgressLabel: r.ProgressLabel,
		Priority:      r.Priority,
		Category:      r.Category,
		AssignedTo:    r.AssignedTo,
		FarmID:        r.FarmID,
		FieldID:       r.FieldID,
	}
}

func (h *TaskHandler) bind(c echo.Context) (usecase.TaskInput, error) {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return usecase.TaskInput{}, err
	}
	if err := c.Validate(&req); err != nil {
		return usecase.TaskInput{}, err
	}
	return req.input(), nil
}

func (h *TaskHandler) CreateTask(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	in, err := h.bind(c)
	if err != nil {
		return response.Error(c, err)
	}

	task, err := h.taskUseCase.Create(c.Request().Context(), uid, in)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, task)
}

// ListTasks accepts filter=all|pending|completed and sort=date|status|priority.
func (h *TaskHandler) ListTasks(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	filter := entity.TaskFilter(c.QueryParam("filter"))
	if filter == "" {
		filter = entity.TaskFilterAll
	}
	sortBy := entity.TaskSort(c.QueryParam("sort"))
	if sortBy == "" {
		sortBy = entity.TaskSortDate
	}

	list, err := h.taskUseCase.List(c.Request().Context(), uid, filter, sortBy)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, list)
}

func (h *TaskHandler) GetTask(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	task, err := h.taskUseCase.Get(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, task)
}

func (h *TaskHandler) UpdateTask(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	in, err := h.bind(c)
	if err != nil {
		return response.Error(c, err)
	}

	task, err := h.taskUseCase.Update(c.Request().Context(), uid, c.Param("id"), in)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, task)
}

func (h *TaskHandler) DeleteTask(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.taskUseCase.Delete(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Task deleted successfully",
	})
}
