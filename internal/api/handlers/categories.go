package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/storefront-tools/catalog-explorer/internal/bestbuy"
	domain "github.com/storefront-tools/catalog-explorer/pkg/types"
)

// CategoriesHandler serves the provider category tree for the browse picker.
type CategoriesHandler struct {
	client bestbuy.Client
}

// NewCategoriesHandler creates a new CategoriesHandler.
func NewCategoriesHandler(client bestbuy.Client) *CategoriesHandler {
	return &CategoriesHandler{client: client}
}

// CategoriesOutput is the response body for the categories endpoint.
type CategoriesOutput struct {
	Body struct {
		Categories []domain.Category `json:"categories" doc:"Provider categories, id and display name"`
	}
}

// List fetches the provider category tree.
func (h *CategoriesHandler) List(ctx context.Context, _ *struct{}) (*CategoriesOutput, error) {
	categories, err := h.client.Categories(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrAuthentication) {
			return nil, huma.Error502BadGateway("catalog credential rejected by provider")
		}
		return nil, huma.Error502BadGateway("fetching categories: " + err.Error())
	}

	out := &CategoriesOutput{}
	out.Body.Categories = categories
	return out, nil
}

// RegisterCategoriesRoutes registers the categories endpoint with the Huma API.
func RegisterCategoriesRoutes(api huma.API, h *CategoriesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List provider categories",
		Description: "Returns the catalog provider's category tree for the browse picker.",
		Tags:        []string{"query"},
		Errors:      []int{http.StatusBadGateway},
	}, h.List)
}
