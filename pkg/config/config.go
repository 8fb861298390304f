package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort        string
	Environment       string
	FirebaseProject   string
	FirebaseAPIKey    string
	CredentialsFile   string
	StorageBucket     string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	CacheTTL          time.Duration
	LogLevel          string
	LogFormat         string
	OpenMeteoURL      string
	SerperURL         string
	SerperAPIKey      string
	USDToGHSRate      float64
	CropDetectionURL  string
	AgoraAppID        string
	AgoraToken        string
	CORSOrigins       []string
	HTTPClientTimeout time.Duration
	MaxUploadSize     int64
}

func defaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("FIREBASE_PROJECT", "")
	v.SetDefault("FIREBASE_API_KEY", "")
	v.SetDefault("GOOGLE_APPLICATION_CREDENTIALS", "")
	v.SetDefault("STORAGE_BUCKET", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("OPEN_METEO_URL", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("SERPER_URL", "https://google.serper.dev/shopping")
	v.SetDefault("SERPER_API_KEY", "")
	v.SetDefault("USD_TO_GHS_RATE", 12.5)
	v.SetDefault("CROP_DETECTION_URL", "")
	v.SetDefault("AGORA_APP_ID", "")
	v.SetDefault("AGORA_TOKEN", "")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("HTTP_CLIENT_TIMEOUT", "25s")
	v.SetDefault("MAX_UPLOAD_SIZE", 10<<20)
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ServerPort:        v.GetString("SERVER_PORT"),
		Environment:       v.GetString("ENVIRONMENT"),
		FirebaseProject:   v.GetString("FIREBASE_PROJECT"),
		FirebaseAPIKey:    v.GetString("FIREBASE_API_KEY"),
		CredentialsFile:   v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),
		StorageBucket:     v.GetString("STORAGE_BUCKET"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		CacheTTL:          v.GetDuration("CACHE_TTL"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		OpenMeteoURL:      v.GetString("OPEN_METEO_URL"),
		SerperURL:         v.GetString("SERPER_URL"),
		SerperAPIKey:      v.GetString("SERPER_API_KEY"),
		USDToGHSRate:      v.GetFloat64("USD_TO_GHS_RATE"),
		CropDetectionURL:  v.GetString("CROP_DETECTION_URL"),
		AgoraAppID:        v.GetString("AGORA_APP_ID"),
		AgoraToken:        v.GetString("AGORA_TOKEN"),
		CORSOrigins:       splitList(v.GetString("CORS_ORIGINS")),
		HTTPClientTimeout: v.GetDuration("HTTP_CLIENT_TIMEOUT"),
		MaxUploadSize:     v.GetInt64("MAX_UPLOAD_SIZE"),
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
		if cfg.IsDevelopment() {
			cfg.LogFormat = "console"
		}
	}

	if cfg.FirebaseProject == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT is required")
	}
	if cfg.USDToGHSRate <= 0 {
		return nil, fmt.Errorf("USD_TO_GHS_RATE must be positive, got %v", cfg.USDToGHSRate)
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
