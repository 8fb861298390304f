package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"farmily/internal/usecase"
	"farmily/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type YieldHandler struct {
	yieldUseCase *usecase.YieldUseCase
}

func NewYieldHandler(yieldUseCase *usecase.YieldUseCase) *YieldHandler {
	return &YieldHandler{
		yieldUseCase: yieldUseCase,
	}
}

type yieldRequest struct {
	FarmName        string  `json:"farm_name" validate:"required"`
	Year            int     `json:"year" validate:"required,gte=1900,lte=2100"`
	CropType        string  `json:"crop_type" validate:"required"`
	Acreage         float64 `json:"acreage" validate:"gt=0"`
	TotalYield      float64 `json:"total_yield" validate:"gte=0"`
	Irrigation      string  `json:"irrigation" validate:"omitempty,oneof=Yes No"`
	FertilizerUsed  string  `json:"fertilizer_used"`
	AdditionalNotes string  `json:"additional_notes"`
}

func (h *YieldHandler) bind(c echo.Context) (usecase.YieldInput, error) {
	var req yieldRequest
	if err := c.Bind(&req); err != nil {
		return usecase.YieldInput{}, err
	}
	if err := c.Validate(&req); err != nil {
		return usecase.YieldInput{}, err
	}
	return usecase.YieldInput{
		FarmName:        req.FarmName,
		Year:            req.Year,
		CropType:        req.CropType,
		Acreage:         req.Acreage,
		TotalYield:      req.TotalYield,
		Irrigation:      req.Irrigation,
		FertilizerUsed:  req.FertilizerUsed,
		AdditionalNotes: req.AdditionalNotes,
	}, nil
}

func (h *YieldHandler) CreateYield(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	in, err := h.bind(c)
	if err != nil {
		return response.Error(c, err)
	}

	record, err := h.yieldUseCase.Create(c.Request().Context(), uid, in)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, record)
}

func (h *YieldHandler) ListYields(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	records, err := h.yieldUseCase.List(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, records)
}

func (h *YieldHandler) UpdateYield(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	in, err := h.bind(c)
	if err != nil {
		return response.Error(c, err)
	}

	record, err := h.yieldUseCase.Update(c.Request().Context(), uid, c.Param("id"), in)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, record)
}

func (h *YieldHandler) DeleteYield(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.yieldUseCase.Delete(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Yield record deleted successfully",
	})
}

func (h *YieldHandler) Report(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	report, err := h.yieldUseCase.Report(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, report)
}

func (h *YieldHandler) Export(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	data, err := h.yieldUseCase.Export(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "farm-yields.xlsx"))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}
