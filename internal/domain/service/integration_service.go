package service

import (
	"context"
	"errors"
	"io"

	"farmily/internal/domain/entity"
)

type WeatherService interface {
	Forecast(ctx context.Context, lat, lon float64) (*entity.WeatherForecast, error)
}

type MarketPriceService interface {
	// Products returns the converted listings for one search category, or
	// for every category when category is empty.
	Products(ctx context.Context, category string) ([]*entity.MarketProduct, error)
}

// ErrDetectorUnreachable is wrapped by CropDetectionService when the model
// endpoint cannot be reached at all.
var ErrDetectorUnreachable = errors.New("Cannot analyze: API is unreachable. Please check the API URL and try again.")

type CropDetectionService interface {
	Health(ctx context.Context) error
	Predict(ctx context.Context, filename string, image io.Reader) (*entity.CropDetection, error)
	Endpoint() string
	SetEndpoint(raw string) error
}
