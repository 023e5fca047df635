// Package httpapi provides HTTP handlers and data transfer objects for the people search API.
package httpapi

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	UserCount int    `json:"user_count"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
