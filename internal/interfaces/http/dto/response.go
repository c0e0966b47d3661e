package dto

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo represents error details. Gate is set only on
// CONFIRMATION_REQUIRED errors and names the confirmation the client must
// re-submit with.
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Gate      string `json:"gate,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithRequestID creates an error response carrying the
// request ID for correlation
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// NewConfirmationResponse creates the CONFIRMATION_REQUIRED error response
func NewConfirmationResponse(gate, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      CodeConfirmationRequired,
			Message:   message,
			Gate:      gate,
			RequestID: requestID,
		},
	}
}

// IDRequest represents a request with an ID path parameter
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
