package handler

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmily/internal/adapter/api"
	"farmily/internal/domain/entity"
	"farmily/internal/usecase"
	"farmily/pkg/errors"
)

type memTaskRepo struct {
	tasks map[string]*entity.Task
}

func (r *memTaskRepo) Create(_ context.Context, t *entity.Task) error {
	t.ID = fmt.Sprintf("task-%d", len(r.tasks)+1)
	r.tasks[t.ID] = t
	return nil
}

func (r *memTaskRepo) GetByID(_ context.Context, id string) (*entity.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, errors.NotFound("Task", nil)
	}
	cp := *t
	return &cp, nil
}

func (r *memTaskRepo) Update(_ context.Context, t *entity.Task) error {
	r.tasks[t.ID] = t
	return nil
}

func (r *memTaskRepo) Delete(_ context.Context, id string) error {
	delete(r.tasks, id)
	return nil
}

func (r *memTaskRepo) ListByCreator(_ context.Context, uid string) ([]*entity.Task, error) {
	var out []*entity.Task
	for _, t := range r.tasks {
		if t.CreatedBy == uid {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

type memYieldRepo struct {
	records []*entity.FarmYield
}

func (r *memYieldRepo) Create(_ context.Context, y *entity.FarmYield) error {
	y.ID = fmt.Sprintf("y%d", len(r.records)+1)
	r.records = append(r.records, y)
	return nil
}

func (r *memYieldRepo) GetByID(_ context.Context, id string) (*entity.FarmYield, error) {
	for _, y := range r.records {
		if y.ID == id {
			return y, nil
		}
	}
	return nil, errors.NotFound("Yield record", nil)
}

func (r *memYieldRepo) Update(context.Context, *entity.FarmYield) error { return nil }
func (r *memYieldRepo) Delete(context.Context, string) error           { return nil }

func (r *memYieldRepo) ListByUser(_ context.Context, uid string) ([]*entity.FarmYield, error) {
	var out []*entity.FarmYield
	for _, y := range r.records {
		if y.UserID == uid {
			out = append(out, y)
		}
	}
	return out, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = api.NewValidator()
	return e
}

// as stands in for the auth middleware.
func as(uid string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("uid", uid)
			return next(c)
		}
	}
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestCurrentUserRequiresUID(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, err := currentUser(c)
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	c.Set("uid", "farmer-1")
	uid, err := currentUser(c)
	require.NoError(t, err)
	assert.Equal(t, "farmer-1", uid)
}

func TestTaskHandlerFlow(t *testing.T) {
	h := NewTaskHandler(usecase.NewTaskUseCase(&memTaskRepo{tasks: map[string]*entity.Task{}}))
	e := newEcho()
	g := e.Group("/v1/tasks", as("farmer-1"))
	g.POST("", h.CreateTask)
	g.GET("", h.ListTasks)
	g.GET("/:id", h.GetTask)

	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	rec, env := do(t, e, http.MethodPost, "/v1/tasks", `{"title":"Weed plot B","due_date":"`+due+`","progress":40}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var task entity.Task
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, 50, task.Progress)
	assert.Equal(t, entity.TaskStatusPending, task.Status)
	assert.Equal(t, "farmer-1", task.AssignedTo)

	rec, env = do(t, e, http.MethodPost, "/v1/tasks", `{"due_date":"`+due+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "title is required", env.Error.Message)

	rec, env = do(t, e, http.MethodGet, "/v1/tasks?filter=pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list usecase.TaskList
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Total)
	assert.Len(t, list.Tasks, 1)

	rec, env = do(t, e, http.MethodGet, "/v1/tasks/task-404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestTaskHandlerForbidsOtherUsers(t *testing.T) {
	repo := &memTaskRepo{tasks: map[string]*entity.Task{
		"task-1": {ID: "task-1", Title: "Mine", CreatedBy: "farmer-1", DueDate: time.Now()},
	}}
	h := NewTaskHandler(usecase.NewTaskUseCase(repo))
	e := newEcho()
	e.GET("/v1/tasks/:id", h.GetTask, as("farmer-2"))

	rec, env := do(t, e, http.MethodGet, "/v1/tasks/task-1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, env.Success)
}

func TestYieldExportServesWorkbook(t *testing.T) {
	repo := &memYieldRepo{}
	h := NewYieldHandler(usecase.NewYieldUseCase(repo))
	e := newEcho()
	g := e.Group("/v1/yields", as("farmer-1"))
	g.POST("", h.CreateYield)
	g.GET("/export", h.Export)

	rec, _ := do(t, e, http.MethodPost, "/v1/yields", `{"farm_name":"Akosua Farms","year":2025,"crop_type":"Maize","acreage":3,"total_yield":10}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 3.33, repo.records[0].YieldPerAcre)

	rec, env := do(t, e, http.MethodPost, "/v1/yields", `{"farm_name":"x","year":2025,"crop_type":"Maize","acreage":3,"irrigation":"Sometimes"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	rec, _ = do(t, e, http.MethodGet, "/v1/yields/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "farm-yields.xlsx")
	// xlsx files are zip archives.
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))
}

func TestMeetingHandler(t *testing.T) {
	h := NewMeetingHandler(usecase.NewMeetingUseCase(nil, "", ""))
	e := newEcho()
	e.POST("/v1/meetings", h.CreateMeeting, as("farmer-1"))
	e.GET("/v1/meetings/:id/join", h.JoinMeeting, as("farmer-1"))

	rec, env := do(t, e, http.MethodPost, "/v1/meetings", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Len(t, created["meeting_id"], 6)

	rec, _ = do(t, e, http.MethodGet, "/v1/meetings/12/join", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, e, http.MethodGet, "/v1/meetings/482913/join", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "MEETINGS_DISABLED", env.Error.Code)
}

func TestCheckHealth(t *testing.T) {
	e := newEcho()
	e.GET("/health", NewHealthHandler(map[string]Pinger{
		"firestore": func(context.Context) error { return nil },
	}).CheckHealth)

	rec, _ := do(t, e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Server is running")

	e = newEcho()
	e.GET("/health", NewHealthHandler(map[string]Pinger{
		"redis": func(context.Context) error { return stderrors.New("connection refused") },
	}).CheckHealth)

	rec, _ = do(t, e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}
