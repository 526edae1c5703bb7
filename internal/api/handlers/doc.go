// Package handlers implements HTTP handlers for the catalog-explorer API.
package handlers

// ErrorResponse is the error body for the echo-native routes; the huma routes
// use its problem-details errors instead.
type ErrorResponse struct {
	Error string `json:"error" example:"empty keyword"`
}

// StatusResponse is the body of the health probes.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}
