package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"farmily/internal/usecase"
	"farmily/pkg/response"
)

type FarmHandler struct {
	farmUseCase *usecase.FarmUseCase
}

func NewFarmHandler(farmUseCase *usecase.FarmUseCase) *FarmHandler {
	return &FarmHandler{
		farmUseCase: farmUseCase,
	}
}

type createFarmRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Location string `json:"location"`
}

type addFieldRequest struct {
	Name string `json:"name" validate:"max=100"`
}

type addNoteRequest struct {
	Type string `json:"type" validate:"required"`
	Text string `json:"text"`
}

type growthStageRequest struct {
	Date time.Time `json:"date"`
}

type metricRequest struct {
	Value float64 `json:"value"`
}

func (h *FarmHandler) CreateFarm(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req createFarmRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	farm, err := h.farmUseCase.CreateFarm(c.Request().Context(), uid, req.Name, req.Location)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, farm)
}

func (h *FarmHandler) ListFarms(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	farms, err := h.farmUseCase.ListFarms(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, farms)
}

func (h *FarmHandler) AddField(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req addFieldRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	field, err := h.farmUseCase.AddField(c.Request().Context(), uid, c.Param("id"), req.Name)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, field)
}

func (h *FarmHandler) ListFields(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	fields, err := h.farmUseCase.ListFields(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, fields)
}

func (h *FarmHandler) GetField(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	field, err := h.farmUseCase.GetField(c.Request().Context(), uid, c.Param("fieldId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, field)
}

func (h *FarmHandler) AddNote(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req addNoteRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	note, err := h.farmUseCase.AddNote(c.Request().Context(), uid, c.Param("fieldId"), req.Type, req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, note)
}

func (h *FarmHandler) SetGrowthStage(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req growthStageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	stage := c.Param("stage")
	if err := h.farmUseCase.SetGrowthStage(c.Request().Context(), uid, c.Param("fieldId"), stage, req.Date); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Growth stage updated",
		"stage":   stage,
	})
}

func (h *FarmHandler) RecordMetric(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req metricRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	reading, err := h.farmUseCase.RecordMetric(c.Request().Context(), uid, c.Param("fieldId"), c.Param("metric"), req.Value)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, reading)
}
