package models

// RestaurantRecord is one scraped restaurant with its full menu.
// Built once per successfully parsed detail page and never mutated after.
type RestaurantRecord struct {
	Name       string         `json:"name"`
	URL        string         `json:"url"`
	Image      string         `json:"image"`
	Address    string         `json:"address"`
	PostalCode string         `json:"postal_code"`
	Latitude   string         `json:"latitude"`
	Longitude  string         `json:"longitude"`
	Phone      string         `json:"phone"`
	Email      string         `json:"email"`
	Cuisines   []string       `json:"cuisines"`
	Menu       []MenuCategory `json:"menu"`
}

// MenuCategory keeps items in on-page presentation order.
type MenuCategory struct {
	Category string     `json:"category"`
	Items    []MenuItem `json:"items"`
}

type MenuItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
}

// ScrapeJob is the per-run configuration owned by the orchestrator.
type ScrapeJob struct {
	Location       string
	Limit          int
	MaxRestaurants int
	Headless       bool
}
