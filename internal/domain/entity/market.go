package entity

import (
	"sort"
	"strings"
)

type MarketSort string

const (
	MarketSortDefault   MarketSort = ""
	MarketSortPriceLow  MarketSort = "price-low"
	MarketSortPriceHigh MarketSort = "price-high"
	MarketSortRating    MarketSort = "rating"
)

func IsMarketSort(s MarketSort) bool {
	switch s {
	case MarketSortDefault, MarketSortPriceLow, MarketSortPriceHigh, MarketSortRating:
		return true
	}
	return false
}

// MarketFilter narrows shopping results. An empty Categories list keeps
// every category; nil price bounds are open.
type MarketFilter struct {
	Categories []string
	MinPrice   *float64
	MaxPrice   *float64
	Query      string
	Sort       MarketSort
}

func (f MarketFilter) matches(p *MarketProduct, categories map[string]bool) bool {
	if len(categories) > 0 && !categories[p.Category] {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.Query != "" && !strings.Contains(strings.ToLower(p.Name), f.Query) {
		return false
	}
	return true
}

// FilterMarketProducts applies the category, price and name filters, then
// sorts. The input slice is left untouched.
func FilterMarketProducts(products []*MarketProduct, f MarketFilter) []*MarketProduct {
	categories := make(map[string]bool, len(f.Categories))
	for _, c := range f.Categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" && c != "all" {
			categories[c] = true
		}
	}
	f.Query = strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]*MarketProduct, 0, len(products))
	for _, p := range products {
		if f.matches(p, categories) {
			out = append(out, p)
		}
	}

	switch f.Sort {
	case MarketSortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case MarketSortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case MarketSortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out
}
