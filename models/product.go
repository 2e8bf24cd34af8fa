package models

import "github.com/shopspring/decimal"

// ProductRecord is one data row of a catalog spreadsheet.
// Records are immutable once parsed and are replaced wholesale on re-parse.
type ProductRecord struct {
	SourceID    string
	Code        string
	Description string
	Price       decimal.Decimal
	// SourceRow is the 1-based spreadsheet row, used to bind images.
	SourceRow int
	Image     []byte
}

// HasImage reports whether an embedded image was bound to the record
func (p ProductRecord) HasImage() bool {
	return len(p.Image) > 0
}

// IndexedProduct pairs a record with its normalized search fields
type IndexedProduct struct {
	ProductRecord
	CodeNormalized        string
	DescriptionNormalized string
}

// CatalogSnapshot is the parsed, indexed content of one catalog document
type CatalogSnapshot struct {
	SourceID string
	Location string
	Products []IndexedProduct

	byCode map[string]int
}

// NewCatalogSnapshot creates a snapshot over already indexed products.
// When codes repeat, lookups resolve to the last occurrence.
func NewCatalogSnapshot(sourceID, location string, products []IndexedProduct) *CatalogSnapshot {
	byCode := make(map[string]int, len(products))
	for i, p := range products {
		byCode[p.Code] = i
	}
	return &CatalogSnapshot{
		SourceID: sourceID,
		Location: location,
		Products: products,
		byCode:   byCode,
	}
}

// Lookup returns the product with the given code
func (s *CatalogSnapshot) Lookup(code string) (IndexedProduct, bool) {
	if s == nil {
		return IndexedProduct{}, false
	}
	i, ok := s.byCode[code]
	if !ok {
		return IndexedProduct{}, false
	}
	return s.Products[i], true
}

// Len returns the number of products in the snapshot
func (s *CatalogSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Products)
}
