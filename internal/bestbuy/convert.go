package bestbuy

import (
	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

// ToRecords converts provider items into normalized product records. Items
// without a sku cannot be de-duplicated and are dropped; the count of
// dropped items is returned so callers can report it as metadata.
func ToRecords(items []Item) (records []domain.ProductRecord, skipped int) {
	records = make([]domain.ProductRecord, 0, len(items))
	for i := range items {
		record, ok := toRecord(&items[i])
		if !ok {
			skipped++
			continue
		}
		records = append(records, record)
	}
	return records, skipped
}

func toRecord(item *Item) (domain.ProductRecord, bool) {
	sku := item.Product.SKU.String()
	if sku == "" {
		return domain.ProductRecord{}, false
	}

	r := domain.ProductRecord{
		SKU:                sku,
		Name:               item.Product.Name,
		Price:              item.Product.RegularPrice,
		SalePrice:          item.Product.SalePrice,
		ImageURL:           item.Product.Image,
		OnlineAvailability: item.Product.OnlineAvailability,
		Raw:                item.Raw,
	}

	if len(item.Product.CategoryPath) > 0 {
		r.CategoryPath = make([]string, 0, len(item.Product.CategoryPath))
		for _, node := range item.Product.CategoryPath {
			r.CategoryPath = append(r.CategoryPath, node.Name)
		}
	}

	return r, true
}
