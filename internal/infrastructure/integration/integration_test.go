package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/service"
	"farmily/internal/infrastructure/cache"
)

type countingRecorder struct {
	calls  map[string]int
	hits   int
	misses int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{calls: map[string]int{}}
}

func (r *countingRecorder) ExternalCall(integration, outcome string) {
	r.calls[integration+":"+outcome]++
}

func (r *countingRecorder) CacheLookup(_ string, hit bool) {
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

const openMeteoPayload = `{
  "latitude": 5.6,
  "longitude": -0.19,
  "timezone": "Africa/Accra",
  "current_weather": {"temperature": 29.4, "windspeed": 11.2, "winddirection": 200, "weathercode": 2, "time": "2026-10-14T12:00"},
  "daily": {
    "time": ["2026-10-14", "2026-10-15"],
    "weathercode": [2, 61],
    "temperature_2m_max": [31.0, 28.5],
    "temperature_2m_min": [24.1, 23.8],
    "precipitation_sum": [0, 12.4],
    "windspeed_10m_max": [14.0, 18.2],
    "uv_index_max": [9.1]
  }
}`

func TestOpenMeteoForecastMapsAndCaches(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "5.6000", r.URL.Query().Get("latitude"))
		assert.Equal(t, "-0.1900", r.URL.Query().Get("longitude"))
		assert.Equal(t, "true", r.URL.Query().Get("current_weather"))
		assert.Equal(t, weatherDaily, r.URL.Query().Get("daily"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, openMeteoPayload)
	}))
	defer srv.Close()

	rec := newCountingRecorder()
	client := NewOpenMeteoClient(srv.URL, time.Second, cache.NewMemoryCache(), time.Minute, rec)

	f, err := client.Forecast(context.Background(), 5.6, -0.19)
	require.NoError(t, err)
	assert.Equal(t, "Africa/Accra", f.Timezone)
	assert.Equal(t, 29.4, f.Current.Temperature)
	assert.Equal(t, entity.WeatherCondition(2), f.Current.Condition)
	require.Len(t, f.Daily, 2)
	assert.Equal(t, 12.4, f.Daily[1].Precipitation)
	assert.Equal(t, 0.0, f.Daily[1].UVIndexMax)

	_, err = client.Forecast(context.Background(), 5.6, -0.19)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 1, rec.misses)
	assert.Equal(t, 1, rec.calls["weather:ok"])
}

func TestOpenMeteoForecastErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(srv.URL, time.Second, nil, 0, nil)

	_, err := client.Forecast(context.Background(), 91, 0)
	assert.Error(t, err)

	_, err = client.Forecast(context.Background(), 5, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestParseAndConvertPrice(t *testing.T) {
	p, err := ParsePrice("$1,299.50")
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.RequireFromString("1299.50")))

	_, err = ParsePrice("Free")
	assert.Error(t, err)

	assert.Equal(t, 150.0, ConvertPrice("$12.00", decimal.NewFromFloat(12.5)))
	assert.Equal(t, 0.0, ConvertPrice("n/a", decimal.NewFromFloat(12.5)))
}

func TestCategorizeProduct(t *testing.T) {
	assert.Equal(t, entity.MarketCategoryTools, CategorizeProduct("Garden Tool Set"))
	assert.Equal(t, entity.MarketCategoryFertilizers, CategorizeProduct("NPK Fertilizer 25kg"))
	assert.Equal(t, entity.MarketCategorySeeds, CategorizeProduct("Hybrid Maize Seeds"))
	assert.Equal(t, entity.MarketCategoryOther, CategorizeProduct("Rain Boots"))
}

func TestSerperProducts(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))
		assert.Equal(t, http.MethodPost, r.Method)

		var body serperRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		queries = append(queries, body.Q)
		if body.Q == SearchQueries[entity.MarketCategoryFertilizers] {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, `{"shopping":[{"title":"Steel Hoe Tool","source":"Agro","price":"$10.00","rating":4.5,"ratingCount":12}]}`)
	}))
	defer srv.Close()

	client := NewSerperClient(srv.URL, "secret", 12.5, time.Second, nil, 0, nil)

	items, err := client.Products(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"farm tools", "agricultural fertilizers", "farming seeds"}, queries)
	require.Len(t, items, 2)
	assert.Equal(t, "tools-1", items[0].ID)
	assert.Equal(t, "seeds-1", items[1].ID)
	assert.Equal(t, 125.0, items[0].Price)
	assert.Equal(t, "GHS", items[0].Currency)

	_, err = client.Products(context.Background(), "livestock")
	assert.Error(t, err)

	_, err = client.Products(context.Background(), entity.MarketCategoryFertilizers)
	assert.Error(t, err)
}

func TestSerperProductsRequiresKey(t *testing.T) {
	client := NewSerperClient("http://unused", "", 12.5, time.Second, nil, 0, nil)
	_, err := client.Products(context.Background(), "")
	assert.Error(t, err)
}

func TestCropDetectionSetEndpoint(t *testing.T) {
	client := NewCropDetectionClient("", time.Second, nil)
	assert.Error(t, client.Health(context.Background()))
	assert.Error(t, client.SetEndpoint("ftp://model.local"))
	assert.Error(t, client.SetEndpoint("not a url"))
	assert.Equal(t, "", client.Endpoint())

	require.NoError(t, client.SetEndpoint(" https://abc.ngrok.app/ "))
	assert.Equal(t, "https://abc.ngrok.app", client.Endpoint())
}

func TestCropDetectionPredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.Header.Get("ngrok-skip-browser-warning"))
		switch r.URL.Path {
		case "/health":
			io.WriteString(w, `{"status":"ok"}`)
		case "/predict":
			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			data, _ := io.ReadAll(file)
			assert.Equal(t, "leaf.jpg", header.Filename)
			if string(data) == "bad" {
				w.WriteHeader(http.StatusBadRequest)
				io.WriteString(w, `{"status":"error","error":"Invalid image"}`)
				return
			}
			io.WriteString(w, `{"status":"success","prediction":"Late_blight","confidence":0.91}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewCropDetectionClient(srv.URL, time.Second, nil)
	require.NoError(t, client.Health(context.Background()))

	d, err := client.Predict(context.Background(), "leaf.jpg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.Equal(t, "Late blight", d.Label)
	assert.Equal(t, "High", d.ConfidenceLabel)
	assert.Equal(t, entity.CropConditions["Late_blight"].Treatment, d.Treatment)

	_, err = client.Predict(context.Background(), "leaf.jpg", strings.NewReader("bad"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid image")
}

func TestCropDetectionUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewCropDetectionClient(url, time.Second, nil)
	_, err := client.Predict(context.Background(), "leaf.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, service.ErrDetectorUnreachable)
}
