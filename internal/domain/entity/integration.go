package entity

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// WeatherCondition maps a WMO weather code to a short description.
func WeatherCondition(code int) string {
	switch {
	case code < 0:
		return "Unknown"
	case code == 0:
		return "Clear sky"
	case code <= 3:
		return "Partly cloudy"
	case code <= 49:
		return "Foggy/cloudy"
	case code <= 69:
		return "Rainy"
	case code <= 79:
		return "Snowy"
	case code <= 99:
		return "Thunderstorm"
	default:
		return "Unknown"
	}
}

type CurrentWeather struct {
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection float64 `json:"wind_direction"`
	WeatherCode   int     `json:"weather_code"`
	Condition     string  `json:"condition"`
	Time          string  `json:"time"`
}

type DailyWeather struct {
	Date          string  `json:"date"`
	WeatherCode   int     `json:"weather_code"`
	Condition     string  `json:"condition"`
	TempMax       float64 `json:"temp_max"`
	TempMin       float64 `json:"temp_min"`
	Precipitation float64 `json:"precipitation"`
	WindSpeedMax  float64 `json:"wind_speed_max"`
	UVIndexMax    float64 `json:"uv_index_max"`
}

type WeatherForecast struct {
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Timezone  string         `json:"timezone"`
	Current   CurrentWeather `json:"current"`
	Daily     []DailyWeather `json:"daily"`
	FetchedAt time.Time      `json:"fetched_at"`
}

const (
	MarketCategoryTools       = "tools"
	MarketCategoryFertilizers = "fertilizers"
	MarketCategorySeeds       = "seeds"
	MarketCategoryOther       = "other"
)

type MarketProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Source   string  `json:"source"`
	Link     string  `json:"link"`
	Image    string  `json:"image"`
	Rating   float64 `json:"rating"`
	Reviews  int     `json:"reviews"`
	Category string  `json:"category"`
}

type MarketPage struct {
	Items      []*MarketProduct `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

type CropDetection struct {
	Status          string  `json:"status"`
	Prediction      string  `json:"prediction"`
	Label           string  `json:"label"`
	Healthy         bool    `json:"healthy"`
	Confidence      float64 `json:"confidence"`
	ConfidenceLabel string  `json:"confidence_label"`
	Warning         string  `json:"warning,omitempty"`
	Note            string  `json:"note,omitempty"`
	Description     string  `json:"description,omitempty"`
	Treatment       string  `json:"treatment,omitempty"`
}

const (
	LowConfidence      = 0.4
	ModerateConfidence = 0.6
	HighConfidence     = 0.8
)

// ConfidenceLabel names a model confidence between 0 and 1.
func ConfidenceLabel(confidence float64) string {
	switch {
	case confidence > HighConfidence:
		return "High"
	case confidence > ModerateConfidence:
		return "Moderate"
	case confidence > LowConfidence:
		return "Low"
	default:
		return "Very low"
	}
}

// Annotate fills the derived fields: readable label, confidence wording and
// the catalogue entry for the predicted condition.
func (d *CropDetection) Annotate() {
	d.Label = strings.ReplaceAll(d.Prediction, "_", " ")
	d.Healthy = d.Prediction == "healthy"
	d.ConfidenceLabel = ConfidenceLabel(d.Confidence)

	pct := int(math.Round(d.Confidence * 100))
	switch {
	case d.Confidence < LowConfidence:
		d.Warning = fmt.Sprintf("Warning: Low confidence detection (%d%%). Results may not be reliable.", pct)
	case d.Confidence < ModerateConfidence:
		d.Note = fmt.Sprintf("Note: Moderate confidence (%d%%). Additional verification recommended.", pct)
	}

	if info, ok := CropConditions[d.Prediction]; ok {
		d.Description = info.Description
		d.Treatment = info.Treatment
	}
}
