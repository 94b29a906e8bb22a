package services

import (
	"testing"

	"foodify/catalog"
	"foodify/models"

	"github.com/shopspring/decimal"
)

func item(id int64, name, category, price string, rating float64, desc string) models.MenuItem {
	return models.MenuItem{
		ID:          id,
		Name:        name,
		Category:    category,
		Price:       decimal.RequireFromString(price),
		Rating:      rating,
		Description: desc,
	}
}

func names(items []models.MenuItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestPriceBandsPartitionCatalog(t *testing.T) {
	all := catalog.Default().Items()
	bands := []string{PriceBandLow, PriceBandMedium, PriceBandHigh}

	seen := make(map[int64]int)
	total := 0
	for _, band := range bands {
		f := DefaultFilterState()
		f.PriceBand = band
		for _, it := range VisibleItems(all, f) {
			seen[it.ID]++
			total++
		}
	}
	if total != len(all) {
		t.Errorf("bands are not exhaustive: matched %d of %d items", total, len(all))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("item %d matched %d bands, want exactly 1", id, n)
		}
	}
}

func TestPriceBandBoundaries(t *testing.T) {
	items := []models.MenuItem{
		item(1, "Exactly Ten", "Pizza", "10.00", 4, ""),
		item(2, "Exactly Fifteen", "Pizza", "15.00", 4, ""),
		item(3, "Just Over Ten", "Pizza", "10.01", 4, ""),
		item(4, "Just Over Fifteen", "Pizza", "15.01", 4, ""),
	}
	tests := []struct {
		band string
		want []string
	}{
		{PriceBandLow, []string{"Exactly Ten"}},
		{PriceBandMedium, []string{"Exactly Fifteen", "Just Over Ten"}},
		{PriceBandHigh, []string{"Just Over Fifteen"}},
		{PriceBandAll, []string{"Exactly Fifteen", "Exactly Ten", "Just Over Fifteen", "Just Over Ten"}},
	}
	for _, tt := range tests {
		t.Run(tt.band, func(t *testing.T) {
			f := DefaultFilterState()
			f.PriceBand = tt.band
			got := names(VisibleItems(items, f))
			if len(got) != len(tt.want) {
				t.Fatalf("band %s: got %v, want %v", tt.band, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("band %s: got %v, want %v", tt.band, got, tt.want)
					break
				}
			}
		})
	}
}

func TestSearchPizzaSortedByPrice(t *testing.T) {
	f := DefaultFilterState()
	f.SearchTerm = "pizza"
	f.SortKey = SortPriceLow
	got := names(VisibleItems(catalog.Default().Items(), f))
	want := []string{"Margherita Pizza", "Pepperoni Pizza"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSearchMatchesDescription(t *testing.T) {
	f := DefaultFilterState()
	f.SearchTerm = "mozzarella"
	got := VisibleItems(catalog.Default().Items(), f)
	if len(got) != 2 {
		t.Errorf("expected both pizzas via description match, got %v", names(got))
	}
}

func TestWhitespaceSearchMatchesAll(t *testing.T) {
	all := catalog.Default().Items()
	f := DefaultFilterState()
	f.SearchTerm = "   "
	if got := VisibleItems(all, f); len(got) != len(all) {
		t.Errorf("whitespace search returned %d of %d items", len(got), len(all))
	}
}

func TestCategoryFilter(t *testing.T) {
	f := DefaultFilterState()
	f.Category = "Drinks"
	got := VisibleItems(catalog.Default().Items(), f)
	if len(got) != 2 {
		t.Fatalf("expected 2 drinks, got %v", names(got))
	}
	for _, it := range got {
		if it.Category != "Drinks" {
			t.Errorf("unexpected category %s", it.Category)
		}
	}
}

func TestSortKeys(t *testing.T) {
	all := catalog.Default().Items()

	t.Run("rating descending", func(t *testing.T) {
		f := DefaultFilterState()
		f.SortKey = SortRating
		got := VisibleItems(all, f)
		for i := 1; i < len(got); i++ {
			if got[i-1].Rating < got[i].Rating {
				t.Fatalf("ratings not descending at %d: %v", i, names(got))
			}
		}
	})

	t.Run("price descending", func(t *testing.T) {
		f := DefaultFilterState()
		f.SortKey = SortPriceHigh
		got := VisibleItems(all, f)
		for i := 1; i < len(got); i++ {
			if got[i-1].Price.LessThan(got[i].Price) {
				t.Fatalf("prices not descending at %d: %v", i, names(got))
			}
		}
	})

	t.Run("unknown key falls back to name", func(t *testing.T) {
		byName := DefaultFilterState()
		unknown := DefaultFilterState()
		unknown.SortKey = "bogus"
		a := names(VisibleItems(all, byName))
		b := names(VisibleItems(all, unknown))
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("unknown sort key diverged from name sort: %v vs %v", a, b)
			}
		}
	})
}

func TestVisibleItemsDoesNotMutateInput(t *testing.T) {
	all := catalog.Default().Items()
	before := names(all)
	f := DefaultFilterState()
	f.SortKey = SortPriceHigh
	VisibleItems(all, f)
	after := names(all)
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("input slice was reordered")
		}
	}
}

func TestResetFiltersIsIdempotent(t *testing.T) {
	s := NewStore(catalog.Default(), Options{})
	s.SetSearchTerm("pizza")
	s.SetCategory("Pizza")
	s.SetPriceBand(PriceBandHigh)
	s.SetSortKey(SortRating)

	s.ResetFilters()
	once := names(s.VisibleItems())
	s.ResetFilters()
	twice := names(s.VisibleItems())

	if len(once) != len(twice) {
		t.Fatalf("reset not idempotent: %v vs %v", once, twice)
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("reset not idempotent: %v vs %v", once, twice)
		}
	}
	if len(once) != len(s.Catalog()) {
		t.Errorf("after reset expected full catalog, got %d items", len(once))
	}
}
