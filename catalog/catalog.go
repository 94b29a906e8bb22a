package catalog

import (
	"fmt"

	"foodify/models"

	"github.com/shopspring/decimal"
)

// PopularMinRating is the rating threshold for the popular-items view.
const PopularMinRating = 4.5

// Catalog is the immutable set of menu items and categories, loaded once at
// startup. All accessors return copies so callers can never mutate it.
type Catalog struct {
	items      []models.MenuItem
	categories []models.Category
}

func New(categories []models.Category, items []models.MenuItem) (*Catalog, error) {
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		if known[c.Name] {
			return nil, fmt.Errorf("duplicate category: %s", c.Name)
		}
		known[c.Name] = true
	}
	seen := make(map[int64]bool, len(items))
	for _, it := range items {
		if seen[it.ID] {
			return nil, fmt.Errorf("duplicate menu item id: %d", it.ID)
		}
		seen[it.ID] = true
		if !known[it.Category] {
			return nil, fmt.Errorf("menu item %q has unknown category %q", it.Name, it.Category)
		}
		if it.Price.IsNegative() {
			return nil, fmt.Errorf("menu item %q has negative price", it.Name)
		}
		if it.Rating < 0 || it.Rating > 5 {
			return nil, fmt.Errorf("menu item %q has rating outside [0,5]", it.Name)
		}
	}
	return &Catalog{
		items:      append([]models.MenuItem(nil), items...),
		categories: append([]models.Category(nil), categories...),
	}, nil
}

func (c *Catalog) Items() []models.MenuItem {
	return append([]models.MenuItem(nil), c.items...)
}

func (c *Catalog) Categories() []models.Category {
	return append([]models.Category(nil), c.categories...)
}

func (c *Catalog) ItemByID(id int64) (models.MenuItem, bool) {
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return models.MenuItem{}, false
}

// Popular returns the items rated PopularMinRating or better, in catalog
// order. It ignores filter and search state entirely.
func (c *Catalog) Popular() []models.MenuItem {
	var out []models.MenuItem
	for _, it := range c.items {
		if it.Rating >= PopularMinRating {
			out = append(out, it)
		}
	}
	return out
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Default returns the seeded storefront catalog.
func Default() *Catalog {
	categories := []models.Category{
		{ID: 1, Name: "Pizza", Icon: "🍕"},
		{ID: 2, Name: "Burgers", Icon: "🍔"},
		{ID: 3, Name: "Drinks", Icon: "🥤"},
		{ID: 4, Name: "Desserts", Icon: "🍰"},
		{ID: 5, Name: "Asian", Icon: "🍜"},
		{ID: 6, Name: "Healthy", Icon: "🥗"},
	}
	items := []models.MenuItem{
		{ID: 1, Name: "Margherita Pizza", Category: "Pizza", Price: price("12.99"), Rating: 4.5, Description: "Fresh mozzarella, tomato sauce, basil", ImageRef: "https://images.unsplash.com/photo-1604382355076-af4b0eb60143?w=300&h=200&fit=crop"},
		{ID: 2, Name: "Pepperoni Pizza", Category: "Pizza", Price: price("15.99"), Rating: 4.8, Description: "Pepperoni, mozzarella, tomato sauce", ImageRef: "https://images.unsplash.com/photo-1565299624946-b28f40a0ca4b?w=300&h=200&fit=crop"},
		{ID: 3, Name: "Classic Burger", Category: "Burgers", Price: price("9.99"), Rating: 4.3, Description: "Beef patty, lettuce, tomato, onion", ImageRef: "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=300&h=200&fit=crop"},
		{ID: 4, Name: "Cheese Burger", Category: "Burgers", Price: price("11.99"), Rating: 4.6, Description: "Beef patty, cheese, lettuce, tomato", ImageRef: "https://images.unsplash.com/photo-1586190848861-99aa4a171e90?w=300&h=200&fit=crop"},
		{ID: 5, Name: "Coca Cola", Category: "Drinks", Price: price("2.99"), Rating: 4.2, Description: "Classic refreshing cola", ImageRef: "https://images.unsplash.com/photo-1581636625402-29b2a704ef13?w=300&h=200&fit=crop"},
		{ID: 6, Name: "Fresh Juice", Category: "Drinks", Price: price("4.99"), Rating: 4.7, Description: "Freshly squeezed orange juice", ImageRef: "https://images.unsplash.com/photo-1622597467836-f3285f2131b8?w=300&h=200&fit=crop"},
		{ID: 7, Name: "Chocolate Cake", Category: "Desserts", Price: price("6.99"), Rating: 4.9, Description: "Rich chocolate cake with frosting", ImageRef: "https://images.unsplash.com/photo-1578985545062-69928b1d9587?w=300&h=200&fit=crop"},
		{ID: 8, Name: "Ice Cream", Category: "Desserts", Price: price("4.99"), Rating: 4.4, Description: "Vanilla ice cream with toppings", ImageRef: "https://images.unsplash.com/photo-1567206563064-6f60f40a2b57?w=300&h=200&fit=crop"},
		{ID: 9, Name: "Ramen Bowl", Category: "Asian", Price: price("13.99"), Rating: 4.6, Description: "Traditional Japanese ramen", ImageRef: "https://images.unsplash.com/photo-1569718212165-3a8278d5f624?w=300&h=200&fit=crop"},
		{ID: 10, Name: "Caesar Salad", Category: "Healthy", Price: price("8.99"), Rating: 4.3, Description: "Fresh lettuce, croutons, parmesan", ImageRef: "https://images.unsplash.com/photo-1546793665-c74683f339c1?w=300&h=200&fit=crop"},
	}
	c, err := New(categories, items)
	if err != nil {
		panic(err) // seed data is static
	}
	return c
}
