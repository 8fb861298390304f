package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"farmily/internal/domain/entity"
	"farmily/internal/usecase"
	"farmily/pkg/errors"
	"farmily/pkg/logger"
	"farmily/pkg/response"
)

type IntegrationHandler struct {
	weatherUseCase   *usecase.WeatherUseCase
	marketUseCase    *usecase.MarketUseCase
	detectionUseCase *usecase.CropDetectionUseCase
}

func NewIntegrationHandler(weather *usecase.WeatherUseCase, market *usecase.MarketUseCase, detection *usecase.CropDetectionUseCase) *IntegrationHandler {
	return &IntegrationHandler{
		weatherUseCase:   weather,
		marketUseCase:    market,
		detectionUseCase: detection,
	}
}

type endpointRequest struct {
	URL string `json:"url" validate:"required,url"`
}

func (h *IntegrationHandler) Weather(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return response.Error(c, errors.BadRequest("lat must be a number", err))
	}
	lon, err := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil {
		return response.Error(c, errors.BadRequest("lon must be a number", err))
	}

	forecast, err := h.weatherUseCase.Forecast(c.Request().Context(), lat, lon)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, forecast)
}

func optionalFloat(c echo.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.BadRequest(name+" must be a number", err)
	}
	return &v, nil
}

// marketFilter reads categories (comma separated, category accepted too),
// min_price, max_price, q and sort.
func marketFilter(c echo.Context) (entity.MarketFilter, error) {
	var filter entity.MarketFilter
	for _, raw := range []string{c.QueryParam("categories"), c.QueryParam("category")} {
		for _, cat := range strings.Split(raw, ",") {
			if cat = strings.TrimSpace(cat); cat != "" {
				filter.Categories = append(filter.Categories, cat)
			}
		}
	}

	var err error
	if filter.MinPrice, err = optionalFloat(c, "min_price"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = optionalFloat(c, "max_price"); err != nil {
		return filter, err
	}
	filter.Query = c.QueryParam("q")
	filter.Sort = entity.MarketSort(c.QueryParam("sort"))
	return filter, nil
}

func (h *IntegrationHandler) MarketPrices(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))

	filter, err := marketFilter(c)
	if err != nil {
		return response.Error(c, err)
	}

	result, err := h.marketUseCase.Prices(c.Request().Context(), filter, page)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, result.Items, int64(result.Total), result.Page, result.PageSize)
}

func (h *IntegrationHandler) DetectionHealth(c echo.Context) error {
	return response.Success(c, h.detectionUseCase.Health(c.Request().Context()))
}

func (h *IntegrationHandler) Predict(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		logger.Debug("Crop detection without file from %s: %v", uid, err)
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.BadRequest("Could not read uploaded file", err))
	}
	defer src.Close()

	result, err := h.detectionUseCase.Predict(c.Request().Context(), uid, file.Filename, src)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *IntegrationHandler) GetEndpoint(c echo.Context) error {
	return response.Success(c, map[string]string{
		"url": h.detectionUseCase.Endpoint(),
	})
}

func (h *IntegrationHandler) SetEndpoint(c echo.Context) error {
	var req endpointRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	url, err := h.detectionUseCase.SetEndpoint(req.URL)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"url": url,
	})
}
