package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"farmily/internal/domain/entity"
	"farmily/internal/infrastructure/cache"
	"farmily/pkg/logger"
)

// SearchQueries are the shopping searches behind each market category.
var SearchQueries = map[string]string{
	entity.MarketCategoryTools:       "farm tools",
	entity.MarketCategoryFertilizers: "agricultural fertilizers",
	entity.MarketCategorySeeds:       "farming seeds",
}

var queryOrder = []string{
	entity.MarketCategoryTools,
	entity.MarketCategoryFertilizers,
	entity.MarketCategorySeeds,
}

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// ParsePrice keeps the digits and dots of a display price such as "$1,299.00".
func ParsePrice(raw string) (decimal.Decimal, error) {
	cleaned := nonNumeric.ReplaceAllString(raw, "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("no numeric price in %q", raw)
	}
	return decimal.NewFromString(cleaned)
}

// ConvertPrice turns a USD display price into the local currency amount.
func ConvertPrice(raw string, rate decimal.Decimal) float64 {
	usd, err := ParsePrice(raw)
	if err != nil {
		return 0
	}
	v, _ := usd.Mul(rate).Round(2).Float64()
	return v
}

// CategorizeProduct buckets a listing by keywords in its title.
func CategorizeProduct(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "tool") || strings.Contains(lower, "equipment"):
		return entity.MarketCategoryTools
	case strings.Contains(lower, "fertilizer") || strings.Contains(lower, "nutrient"):
		return entity.MarketCategoryFertilizers
	case strings.Contains(lower, "seed") || strings.Contains(lower, "plant"):
		return entity.MarketCategorySeeds
	default:
		return entity.MarketCategoryOther
	}
}

type SerperClient struct {
	url        string
	apiKey     string
	rate       decimal.Decimal
	currency   string
	httpClient *http.Client
	cache      cache.Cache
	ttl        time.Duration
	recorder   Recorder
}

func NewSerperClient(url, apiKey string, usdRate float64, timeout time.Duration, c cache.Cache, ttl time.Duration, r Recorder) *SerperClient {
	if r == nil {
		r = nopRecorder{}
	}
	return &SerperClient{
		url:        url,
		apiKey:     apiKey,
		rate:       decimal.NewFromFloat(usdRate),
		currency:   "GHS",
		httpClient: &http.Client{Timeout: timeout},
		cache:      c,
		ttl:        ttl,
		recorder:   r,
	}
}

type serperRequest struct {
	Q  string `json:"q"`
	GL string `json:"gl"`
	HL string `json:"hl"`
}

type serperResponse struct {
	Shopping []struct {
		Title       string  `json:"title"`
		Source      string  `json:"source"`
		Link        string  `json:"link"`
		Price       string  `json:"price"`
		ImageURL    string  `json:"imageUrl"`
		Rating      float64 `json:"rating"`
		RatingCount int     `json:"ratingCount"`
	} `json:"shopping"`
}

// Products searches one category, or all three in order when category is
// empty. Failed categories are skipped as long as one succeeds.
func (c *SerperClient) Products(ctx context.Context, category string) ([]*entity.MarketProduct, error) {
	if c.apiKey == "" {
		return nil, errors.New("shopping API key is not configured")
	}

	categories := queryOrder
	if category != "" {
		if _, ok := SearchQueries[category]; !ok {
			return nil, fmt.Errorf("unknown market category %q", category)
		}
		categories = []string{category}
	}

	var (
		out     []*entity.MarketProduct
		lastErr error
		ok      bool
	)
	for _, cat := range categories {
		items, err := c.search(ctx, cat)
		if err != nil {
			logger.Warn("Market search %q failed: %v", cat, err)
			lastErr = err
			continue
		}
		ok = true
		out = append(out, items...)
	}
	if !ok {
		return nil, lastErr
	}
	return out, nil
}

func (c *SerperClient) search(ctx context.Context, category string) ([]*entity.MarketProduct, error) {
	query := SearchQueries[category]
	key := "market:" + category

	if c.cache != nil {
		var cached []*entity.MarketProduct
		if err := cache.GetJSON(ctx, c.cache, key, &cached); err == nil {
			c.recorder.CacheLookup("market", true)
			return cached, nil
		}
		c.recorder.CacheLookup("market", false)
	}

	body, err := json.Marshal(serperRequest{Q: query, GL: "us", HL: "en"})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recorder.ExternalCall("market", "error")
		return nil, fmt.Errorf("shopping request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.recorder.ExternalCall("market", "error")
		return nil, fmt.Errorf("shopping API returned status %d", resp.StatusCode)
	}

	var raw serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		c.recorder.ExternalCall("market", "error")
		return nil, fmt.Errorf("failed to decode shopping response: %w", err)
	}
	c.recorder.ExternalCall("market", "ok")

	items := make([]*entity.MarketProduct, 0, len(raw.Shopping))
	for i, s := range raw.Shopping {
		items = append(items, &entity.MarketProduct{
			ID:       fmt.Sprintf("%s-%d", category, i+1),
			Name:     s.Title,
			Price:    ConvertPrice(s.Price, c.rate),
			Currency: c.currency,
			Source:   s.Source,
			Link:     s.Link,
			Image:    s.ImageURL,
			Rating:   s.Rating,
			Reviews:  s.RatingCount,
			Category: CategorizeProduct(s.Title),
		})
	}

	if c.cache != nil {
		if err := cache.SetJSON(ctx, c.cache, key, items, c.ttl); err != nil {
			logger.Warn("Market cache write failed: %v", err)
		}
	}
	return items, nil
}
