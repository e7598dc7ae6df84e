package handlers

import (
	"html/template"

	"finitefield.org/storefront-web/internal/catalog"
	"finitefield.org/storefront-web/internal/listing"
	"finitefield.org/storefront-web/internal/taxonomy"
)

// RelatedSize caps the related products strip.
const RelatedSize = 4

// lowStockThreshold triggers the "only N left" hint.
const lowStockThreshold = 5

// ProductData is the view model for the product detail page.
type ProductData struct {
	Card        ProductCard
	Description template.HTML
	Images      []string
	Tags        []string
	Categories  []string
	Stock       int
	LowStock    bool
	Related     []ProductCard
}

// BuildProductData renders p and the products sharing one of its categories.
func BuildProductData(p catalog.Product, all []catalog.Product, table *taxonomy.Table, money Money, m Membership) ProductData {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img.URL != "" {
			images = append(images, img.URL)
		}
	}
	data := ProductData{
		Card:        Card(p, money, m),
		Description: RenderDescription(p.Description),
		Images:      images,
		Tags:        p.Tags,
		Stock:       p.Stock,
		LowStock:    p.InStock() && p.Stock <= lowStockThreshold,
	}
	if table != nil {
		data.Categories = table.Memberships(p, taxonomy.GroupCategory)
		data.Related = Cards(listing.Related(all, p, table, RelatedSize), money, m)
	}
	return data
}
