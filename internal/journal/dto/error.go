package dto

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the confirmation body for delete operations.
type MessageResponse struct {
	Message string `json:"message"`
}
