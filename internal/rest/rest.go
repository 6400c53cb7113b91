package rest

// ErrorResponse is the shared JSON error body returned by all handlers.
// Code carries a machine-readable rule code (e.g. INACTIVE_RESOURCE) when
// the failure is a business-rule rejection.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}
