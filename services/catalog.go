package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"bikefood/models"
)

// Catalog is the read-only restaurant and menu provider. Records are
// queried by id; anything else is the caller's concern.
type Catalog struct {
	restaurants []models.Restaurant
	items       []models.MenuItem
}

// NewCatalog returns a catalog backed by the given records.
func NewCatalog(restaurants []models.Restaurant, items []models.MenuItem) *Catalog {
	return &Catalog{restaurants: restaurants, items: items}
}

// Restaurants lists all restaurants in catalog order.
func (c *Catalog) Restaurants() []models.Restaurant {
	out := make([]models.Restaurant, len(c.restaurants))
	copy(out, c.restaurants)
	return out
}

// Restaurant returns the restaurant with the given id.
func (c *Catalog) Restaurant(id string) (models.Restaurant, error) {
	for _, r := range c.restaurants {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Restaurant{}, fmt.Errorf("restaurant %q: %w", id, ErrNotFound)
}

// MenuItem returns the menu item with the given id.
func (c *Catalog) MenuItem(id string) (models.MenuItem, error) {
	for _, m := range c.items {
		if m.ID == id {
			return m, nil
		}
	}
	return models.MenuItem{}, fmt.Errorf("menu item %q: %w", id, ErrNotFound)
}

// Menu lists a restaurant's items in catalog order.
func (c *Catalog) Menu(restaurantID string) []models.MenuItem {
	var out []models.MenuItem
	for _, m := range c.items {
		if m.RestaurantID == restaurantID {
			out = append(out, m)
		}
	}
	return out
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DemoCatalog is the seeded catalog the prototype ships with.
func DemoCatalog() *Catalog {
	restaurants := []models.Restaurant{
		{ID: "1", Name: "Pizza Palace", Rating: 4.7, Distance: "0.8 km", Category: "Fast Food", Address: "15 Sam Nujoma St"},
		{ID: "2", Name: "Burger House", Rating: 4.9, Distance: "1.2 km", Category: "Fast Food", Address: "8 Nelson Mandela Ave"},
		{ID: "3", Name: "Sushi Station", Rating: 4.8, Distance: "2.1 km", Category: "Asian", Address: "22 Julius Nyerere Way"},
		{ID: "4", Name: "Pasta Paradise", Rating: 4.6, Distance: "1.5 km", Category: "Italian", Address: "3 Leopold Takawira St"},
	}
	items := []models.MenuItem{
		{ID: "m1", RestaurantID: "1", Name: "Margherita Pizza", Price: price("12.99")},
		{ID: "m2", RestaurantID: "2", Name: "Cheeseburger Deluxe", Price: price("10.99")},
		{ID: "m3", RestaurantID: "3", Name: "Sushi Platter", Price: price("18.99")},
		{ID: "m4", RestaurantID: "1", Name: "Caesar Salad", Price: price("8.99")},
		{ID: "m5", RestaurantID: "1", Name: "Chocolate Cake", Price: price("6.99")},
		{ID: "m6", RestaurantID: "1", Name: "Iced Coffee", Price: price("4.99")},
	}
	return NewCatalog(restaurants, items)
}

// DemoCouriers is the seeded courier roster.
func DemoCouriers() []models.CourierRef {
	return []models.CourierRef{
		{ID: "b1", Name: "James Moyo", Rating: 4.9},
		{ID: "b2", Name: "Sarah Ndlovu", Rating: 4.8},
		{ID: "b3", Name: "David Chikwanha", Rating: 5.0},
	}
}
