package domain

import "errors"

// Sentinel errors shared between the engine and its callers. Callers match
// with errors.Is; wrapping adds the specific detail.
var (
	// ErrInvalidRequest rejects a query before any network call: empty
	// keyword, empty SKU set, or missing category id.
	ErrInvalidRequest = errors.New("invalid query request")

	// ErrAuthentication means the provider rejected the API credential.
	// Never retried.
	ErrAuthentication = errors.New("catalog credential rejected")

	// ErrUpstreamUnavailable means every attempt was exhausted and zero
	// usable records were obtained.
	ErrUpstreamUnavailable = errors.New("catalog provider unavailable")
)
