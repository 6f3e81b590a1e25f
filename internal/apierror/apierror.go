// Package apierror provides the error response envelopes for the API.
// Every 4xx/5xx body goes through this package so the shape stays uniform and
// internal details (driver errors, stack traces) never reach a client.
package apierror

// APIError is the canonical single-message error envelope.
type APIError struct {
	Error string `json:"error"`
}

func New(msg string) *APIError {
	return &APIError{Error: msg}
}

// ValidationError carries per-field failures from request validation.
type ValidationError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Error: "Error de validacion", Fields: fields}
}
