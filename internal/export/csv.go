// Package export renders query results for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

// csvHeader is the fixed column set, matching the normalized record fields.
var csvHeader = []string{"sku", "name", "price", "category_path", "image_url"}

// WriteCSV writes records as CSV in the given order, one row per record.
// Nullable prices render as empty cells; the category path is joined with "/".
func WriteCSV(w io.Writer, records []domain.ProductRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i := range records {
		r := &records[i]
		row := []string{
			r.SKU,
			r.Name,
			formatPrice(r.Price),
			r.CategoryPathString(),
			r.ImageURL,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for sku %s: %w", r.SKU, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

func formatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}
