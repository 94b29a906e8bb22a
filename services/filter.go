package services

import (
	"sort"
	"strings"

	"foodify/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

const (
	PriceBandAll    = "all"
	PriceBandLow    = "low"    // price <= 10
	PriceBandMedium = "medium" // 10 < price <= 15
	PriceBandHigh   = "high"   // price > 15
)

var (
	priceBandLowMax    = decimal.NewFromInt(10)
	priceBandMediumMax = decimal.NewFromInt(15)
)

// FilterState is the full input of the visible-items query besides the
// catalog itself.
type FilterState struct {
	SearchTerm string
	Category   string // empty = no filter
	PriceBand  string
	SortKey    string
}

// DefaultFilterState returns the storefront defaults: no search, all
// categories, all prices, sorted by name.
func DefaultFilterState() FilterState {
	return FilterState{PriceBand: PriceBandAll, SortKey: SortName}
}

func matchesSearch(it models.MenuItem, term string) bool {
	q := strings.ToLower(strings.TrimSpace(term))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(it.Name), q) ||
		strings.Contains(strings.ToLower(it.Description), q)
}

func matchesPriceBand(it models.MenuItem, band string) bool {
	switch band {
	case PriceBandLow:
		return it.Price.LessThanOrEqual(priceBandLowMax)
	case PriceBandMedium:
		return it.Price.GreaterThan(priceBandLowMax) && it.Price.LessThanOrEqual(priceBandMediumMax)
	case PriceBandHigh:
		return it.Price.GreaterThan(priceBandMediumMax)
	default: // PriceBandAll or anything unrecognized
		return true
	}
}

// VisibleItems applies search, category and price-band filters and sorts the
// result. It is pure: the input slice is never mutated and a fresh slice is
// returned even when nothing is filtered out. An unknown sort key falls back
// to the name sort.
func VisibleItems(items []models.MenuItem, f FilterState) []models.MenuItem {
	out := make([]models.MenuItem, 0, len(items))
	for _, it := range items {
		if !matchesSearch(it, f.SearchTerm) {
			continue
		}
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if !matchesPriceBand(it, f.PriceBand) {
			continue
		}
		out = append(out, it)
	}

	switch f.SortKey {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price.LessThan(out[j].Price)
		})
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Price.GreaterThan(out[j].Price)
		})
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Rating > out[j].Rating
		})
	default: // SortName
		cl := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool {
			return cl.CompareString(out[i].Name, out[j].Name) < 0
		})
	}
	return out
}
