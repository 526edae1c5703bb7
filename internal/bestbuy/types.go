package bestbuy

import "encoding/json"

// pageEnvelope is the provider's paginated response wrapper. Products are
// kept as raw JSON so each item's original fragment can travel with the
// normalized record.
type pageEnvelope struct {
	From        int               `json:"from"`
	To          int               `json:"to"`
	Total       int               `json:"total"`
	CurrentPage int               `json:"currentPage"`
	TotalPages  int               `json:"totalPages"`
	Products    []json.RawMessage `json:"products"`
}

type categoriesEnvelope struct {
	Categories []wireCategory `json:"categories"`
}

type wireCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Item pairs the decoded provider product with its raw JSON fragment.
type Item struct {
	Product Product
	Raw     json.RawMessage
}

// SKU is a provider product identifier. The provider defines sku as an
// integer but other catalogs use strings; both JSON shapes decode to the
// string form.
type SKU string

func (s SKU) String() string {
	return string(s)
}

// UnmarshalJSON accepts a JSON string or number.
func (s *SKU) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = SKU(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = SKU(num.String())
	return nil
}

// Product is the subset of provider product fields the tool consumes.
type Product struct {
	SKU                SKU            `json:"sku"`
	Name               string         `json:"name"`
	RegularPrice       *float64       `json:"regularPrice"`
	SalePrice          *float64       `json:"salePrice"`
	OnlineAvailability *bool          `json:"onlineAvailability"`
	Image              string         `json:"image"`
	CategoryPath       []CategoryNode `json:"categoryPath"`
}

// CategoryNode is one step of a product's category path, root to leaf.
type CategoryNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
