package dto

import "net/http"

// Handler-level error codes
const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeInvalidJSON          = "INVALID_JSON"
	CodeInternal             = "INTERNAL_ERROR"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes missing from the map fall back to 500.
var errorCodeHTTPStatus = map[string]int{
	// Input
	CodeBadRequest:           http.StatusBadRequest,
	CodeInvalidJSON:          http.StatusBadRequest,
	"INVALID_EMAIL":          http.StatusBadRequest,
	"INVALID_PASSWORD":       http.StatusBadRequest,
	"INVALID_DISPLAY_NAME":   http.StatusBadRequest,
	"INVALID_RATE":           http.StatusBadRequest,
	"INVALID_ROLE":           http.StatusBadRequest,
	"INVALID_TEAM_NAME":      http.StatusBadRequest,
	"INVALID_OWNER":          http.StatusBadRequest,
	"INVALID_INVOICE_NUMBER": http.StatusBadRequest,
	"INVALID_STATUS":         http.StatusBadRequest,
	"INVALID_INPUT":          http.StatusBadRequest,
	"EMPTY_FILE":             http.StatusBadRequest,

	// Auth
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"FORBIDDEN":           http.StatusForbidden,

	// Resources
	"NOT_FOUND":      http.StatusNotFound,
	"EMAIL_TAKEN":    http.StatusConflict,
	"ALREADY_EXISTS": http.StatusConflict,
	"ALREADY_SAVED":  http.StatusConflict,

	// Confirmation gates come back as conflicts the client resolves by
	// re-submitting with the gate's flag
	CodeConfirmationRequired: http.StatusConflict,

	// Business rules
	"COMPANY_PAID_DATE_REQUIRED": http.StatusUnprocessableEntity,
	"INVALID_STATE":              http.StatusUnprocessableEntity,
	"ITEM_NOT_READY":             http.StatusUnprocessableEntity,
	"NOT_RETRYABLE":              http.StatusUnprocessableEntity,
	"EXPORT_EMPTY":               http.StatusUnprocessableEntity,
	"EXPORT_TOO_LARGE":           http.StatusUnprocessableEntity,
	"TEAM_NOT_FOUND":             http.StatusUnprocessableEntity,
	"MANAGER_NOT_FOUND":          http.StatusUnprocessableEntity,
	"NOT_A_MANAGER":              http.StatusUnprocessableEntity,
	"CONCURRENCY_CONFLICT":       http.StatusConflict,

	// Uploads
	"FILE_TOO_LARGE":        http.StatusRequestEntityTooLarge,
	"UNSUPPORTED_FILE_TYPE": http.StatusUnsupportedMediaType,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
