package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"farmily/internal/domain/entity"
	"farmily/internal/infrastructure/cache"
	"farmily/pkg/logger"
)

const weatherDaily = "weathercode,temperature_2m_max,temperature_2m_min,precipitation_sum,windspeed_10m_max,uv_index_max"

// Recorder receives integration and cache outcomes for metrics.
type Recorder interface {
	ExternalCall(integration, outcome string)
	CacheLookup(cache string, hit bool)
}

type nopRecorder struct{}

func (nopRecorder) ExternalCall(string, string) {}
func (nopRecorder) CacheLookup(string, bool)    {}

// OpenMeteoClient fetches forecasts from open-meteo and caches them per
// coordinate rounded to two decimals.
type OpenMeteoClient struct {
	baseURL    string
	httpClient *http.Client
	cache      cache.Cache
	ttl        time.Duration
	recorder   Recorder
}

func NewOpenMeteoClient(baseURL string, timeout time.Duration, c cache.Cache, ttl time.Duration, r Recorder) *OpenMeteoClient {
	if r == nil {
		r = nopRecorder{}
	}
	return &OpenMeteoClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		cache:      c,
		ttl:        ttl,
		recorder:   r,
	}
}

type openMeteoResponse struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Timezone       string  `json:"timezone"`
	CurrentWeather struct {
		Temperature   float64 `json:"temperature"`
		WindSpeed     float64 `json:"windspeed"`
		WindDirection float64 `json:"winddirection"`
		WeatherCode   int     `json:"weathercode"`
		Time          string  `json:"time"`
	} `json:"current_weather"`
	Daily struct {
		Time          []string  `json:"time"`
		WeatherCode   []int     `json:"weathercode"`
		TempMax       []float64 `json:"temperature_2m_max"`
		TempMin       []float64 `json:"temperature_2m_min"`
		Precipitation []float64 `json:"precipitation_sum"`
		WindSpeedMax  []float64 `json:"windspeed_10m_max"`
		UVIndexMax    []float64 `json:"uv_index_max"`
	} `json:"daily"`
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func (c *OpenMeteoClient) Forecast(ctx context.Context, lat, lon float64) (*entity.WeatherForecast, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("coordinates out of range: %v,%v", lat, lon)
	}

	key := fmt.Sprintf("weather:%.2f:%.2f", lat, lon)
	var cached entity.WeatherForecast
	if c.cache != nil {
		if err := cache.GetJSON(ctx, c.cache, key, &cached); err == nil {
			c.recorder.CacheLookup("weather", true)
			return &cached, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			logger.Warn("Weather cache read failed: %v", err)
		}
		c.recorder.CacheLookup("weather", false)
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("daily", weatherDaily)
	q.Set("current_weather", "true")
	q.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recorder.ExternalCall("weather", "error")
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.recorder.ExternalCall("weather", "error")
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var raw openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		c.recorder.ExternalCall("weather", "error")
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}
	c.recorder.ExternalCall("weather", "ok")

	forecast := &entity.WeatherForecast{
		Latitude:  raw.Latitude,
		Longitude: raw.Longitude,
		Timezone:  raw.Timezone,
		Current: entity.CurrentWeather{
			Temperature:   raw.CurrentWeather.Temperature,
			WindSpeed:     raw.CurrentWeather.WindSpeed,
			WindDirection: raw.CurrentWeather.WindDirection,
			WeatherCode:   raw.CurrentWeather.WeatherCode,
			Condition:     entity.WeatherCondition(raw.CurrentWeather.WeatherCode),
			Time:          raw.CurrentWeather.Time,
		},
		Daily:     make([]entity.DailyWeather, 0, len(raw.Daily.Time)),
		FetchedAt: time.Now().UTC(),
	}
	for i, day := range raw.Daily.Time {
		code := -1
		if i < len(raw.Daily.WeatherCode) {
			code = raw.Daily.WeatherCode[i]
		}
		forecast.Daily = append(forecast.Daily, entity.DailyWeather{
			Date:          day,
			WeatherCode:   code,
			Condition:     entity.WeatherCondition(code),
			TempMax:       at(raw.Daily.TempMax, i),
			TempMin:       at(raw.Daily.TempMin, i),
			Precipitation: at(raw.Daily.Precipitation, i),
			WindSpeedMax:  at(raw.Daily.WindSpeedMax, i),
			UVIndexMax:    at(raw.Daily.UVIndexMax, i),
		})
	}

	if c.cache != nil {
		if err := cache.SetJSON(ctx, c.cache, key, forecast, c.ttl); err != nil {
			logger.Warn("Weather cache write failed: %v", err)
		}
	}

	return forecast, nil
}
