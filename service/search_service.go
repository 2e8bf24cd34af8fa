package service

import (
	"strings"

	"catalogo-millex/models"
	"catalogo-millex/utils"
)

// BuildIndex computes the normalized search fields for every record and
// wraps them in a snapshot. Fields are always derived together with the record.
func BuildIndex(sourceID, location string, records []models.ProductRecord) *models.CatalogSnapshot {
	products := make([]models.IndexedProduct, len(records))
	for i, rec := range records {
		products[i] = models.IndexedProduct{
			ProductRecord:         rec,
			CodeNormalized:        utils.Normalize(rec.Code),
			DescriptionNormalized: utils.Normalize(rec.Description),
		}
	}
	return models.NewCatalogSnapshot(sourceID, location, products)
}

// Search returns the products whose code or description contains query,
// ignoring case and accents, in catalog order. A blank query returns every product.
func Search(snapshot *models.CatalogSnapshot, query string) []models.IndexedProduct {
	if snapshot == nil {
		return nil
	}
	needle := utils.Normalize(query)
	if needle == "" {
		return snapshot.Products
	}

	var matches []models.IndexedProduct
	for _, p := range snapshot.Products {
		if strings.Contains(p.CodeNormalized, needle) || strings.Contains(p.DescriptionNormalized, needle) {
			matches = append(matches, p)
		}
	}
	return matches
}
