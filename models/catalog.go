package models

// CatalogLine represents a product line backed by one remote spreadsheet
type CatalogLine struct {
	Name     string `json:"name" yaml:"name"`
	Slug     string `json:"slug" yaml:"slug"`
	SourceID string `json:"sourceId" yaml:"sourceId"`
}

// CatalogPage represents a page of filtered products returned to the client
type CatalogPage struct {
	Line       CatalogLine   `json:"line"`
	Query      string        `json:"query"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
	TotalItems int           `json:"totalItems"`
	Items      []ProductCard `json:"items"`
	Notice     string        `json:"notice,omitempty"`
}

// ProductCard is the presentation view of a product. Image bytes are served
// separately through ImageURL.
type ProductCard struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Price       string `json:"price"`
	PriceLabel  string `json:"priceLabel"`
	HasImage    bool   `json:"hasImage"`
	ImageURL    string `json:"imageUrl,omitempty"`
	InCart      int    `json:"inCart"`
}
