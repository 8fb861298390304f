package usecase

import (
	"context"
	stderrors "errors"
	"io"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/service"
	"farmily/internal/infrastructure/ratelimit"
	"farmily/pkg/errors"
	"farmily/pkg/logger"
	"farmily/pkg/utils"
)

const MarketPageSize = 12

type WeatherUseCase struct {
	weather service.WeatherService
}

func NewWeatherUseCase(weather service.WeatherService) *WeatherUseCase {
	return &WeatherUseCase{weather: weather}
}

func (uc *WeatherUseCase) Forecast(ctx context.Context, lat, lon float64) (*entity.WeatherForecast, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, errors.BadRequest("lat and lon are out of range", nil)
	}
	forecast, err := uc.weather.Forecast(ctx, lat, lon)
	if err != nil {
		logger.Error("Weather lookup failed: %v", err)
		return nil, errors.Unavailable("Weather data is unavailable right now", err)
	}
	return forecast, nil
}

type MarketUseCase struct {
	prices service.MarketPriceService
}

func NewMarketUseCase(prices service.MarketPriceService) *MarketUseCase {
	return &MarketUseCase{prices: prices}
}

// Prices lists the converted shopping results after filtering and sorting.
func (uc *MarketUseCase) Prices(ctx context.Context, filter entity.MarketFilter, page int) (*entity.MarketPage, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, errors.BadRequest("min_price cannot exceed max_price", nil)
	}
	if !entity.IsMarketSort(filter.Sort) {
		return nil, errors.BadRequest("sort must be one of price-low, price-high, rating", nil)
	}

	products, err := uc.prices.Products(ctx, "")
	if err != nil {
		logger.Error("Market price lookup failed: %v", err)
		return nil, errors.Unavailable("Failed to fetch products. Please try again later.", err)
	}
	products = entity.FilterMarketProducts(products, filter)

	if page <= 0 {
		page = 1
	}
	total := len(products)
	return &entity.MarketPage{
		Items:      utils.PageSlice(products, page, MarketPageSize),
		Total:      total,
		Page:       page,
		PageSize:   MarketPageSize,
		TotalPages: (total + MarketPageSize - 1) / MarketPageSize,
	}, nil
}

type CropDetectionUseCase struct {
	detector service.CropDetectionService
	limiter  Limiter
}

func NewCropDetectionUseCase(detector service.CropDetectionService, limiter Limiter) *CropDetectionUseCase {
	return &CropDetectionUseCase{
		detector: detector,
		limiter:  limiter,
	}
}

type DetectionStatus struct {
	Endpoint  string `json:"endpoint"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

func (uc *CropDetectionUseCase) Health(ctx context.Context) *DetectionStatus {
	status := &DetectionStatus{Endpoint: uc.detector.Endpoint()}
	if err := uc.detector.Health(ctx); err != nil {
		status.Error = err.Error()
		return status
	}
	status.Reachable = true
	return status
}

func (uc *CropDetectionUseCase) Predict(ctx context.Context, uid, filename string, image io.Reader) (*entity.CropDetection, error) {
	if ok, wait := uc.limiter.Allow(uid, ratelimit.ActionDetectCrop); !ok {
		return nil, errors.TooManyRequests("Too many detection requests. Please wait a moment.", wait)
	}
	result, err := uc.detector.Predict(ctx, filename, image)
	if err != nil {
		logger.Warn("Crop detection failed for %s: %v", uid, err)
		if stderrors.Is(err, service.ErrDetectorUnreachable) {
			return nil, errors.Unavailable(service.ErrDetectorUnreachable.Error(), err)
		}
		return nil, errors.Unavailable(err.Error(), err)
	}
	return result, nil
}

func (uc *CropDetectionUseCase) Endpoint() string {
	return uc.detector.Endpoint()
}

func (uc *CropDetectionUseCase) SetEndpoint(raw string) (string, error) {
	if err := uc.detector.SetEndpoint(raw); err != nil {
		return "", errors.BadRequest(err.Error(), err)
	}
	logger.Info("Crop detection endpoint set to %s", uc.detector.Endpoint())
	return uc.detector.Endpoint(), nil
}
