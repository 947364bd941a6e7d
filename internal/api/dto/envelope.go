package dto

// SuccessResponse wraps a single payload.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Detail  string         `json:"detail,omitempty"`
}

// OK builds a success envelope.
func OK(data any, message string) SuccessResponse {
	return SuccessResponse{Success: true, Data: data, Message: message}
}
