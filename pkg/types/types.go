// Package domain defines the core business types for catalog-explorer.
package domain

import (
	"encoding/json"
	"strings"
)

// QueryMode identifies the kind of catalog query being made.
type QueryMode string

// Query mode constants.
const (
	ModeKeyword  QueryMode = "keyword"
	ModeSKU      QueryMode = "sku"
	ModeCategory QueryMode = "category"
)

// QueryRequest is a tagged variant over the three query modes. Exactly one
// of Keyword, SKUs, or CategoryID is consulted, selected by Mode.
type QueryRequest struct {
	Mode       QueryMode `json:"mode"`
	Keyword    string    `json:"keyword,omitempty"`
	SKUs       []string  `json:"skus,omitempty"`
	CategoryID string    `json:"category_id,omitempty"`
}

// ProductRecord is the normalized representation of one catalog item.
// Fields absent from the provider response keep their zero/nil defaults.
type ProductRecord struct {
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	Price              *float64        `json:"price,omitempty"`
	SalePrice          *float64        `json:"sale_price,omitempty"`
	CategoryPath       []string        `json:"category_path,omitempty"`
	ImageURL           string          `json:"image_url,omitempty"`
	OnlineAvailability *bool           `json:"online_availability,omitempty"`
	Raw                json.RawMessage `json:"raw,omitempty"`
}

// CategoryPathString returns the category path joined root-to-leaf with "/".
func (p *ProductRecord) CategoryPathString() string {
	return strings.Join(p.CategoryPath, "/")
}

// Category is one entry of the provider's category tree, used by the
// category browse picker.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IncompleteInfo marks a partial result: the query gathered some records but
// one page or batch could not complete. Page and Batch are 1-based; the one
// that does not apply to the mode is zero.
type IncompleteInfo struct {
	Mode   QueryMode `json:"mode"`
	Page   int       `json:"page,omitempty"`
	Batch  int       `json:"batch,omitempty"`
	Reason string    `json:"reason"`
}

// QueryResult is the outcome of one engine execution: an ordered,
// de-duplicated record list plus aggregation metadata. A non-nil Incomplete
// means the result is usable but does not cover the whole query.
type QueryResult struct {
	Records        []ProductRecord `json:"records"`
	UnmatchedSKUs  int             `json:"unmatched_skus"`
	SkippedRecords int             `json:"skipped_records"`
	PagesFetched   int             `json:"pages_fetched"`
	Incomplete     *IncompleteInfo `json:"incomplete,omitempty"`
}

// Partial reports whether the result covers only part of the query.
func (r *QueryResult) Partial() bool {
	return r.Incomplete != nil
}
