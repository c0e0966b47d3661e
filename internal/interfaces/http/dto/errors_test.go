package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"FORBIDDEN", http.StatusForbidden},
		{"NOT_FOUND", http.StatusNotFound},
		{"EMAIL_TAKEN", http.StatusConflict},
		{CodeConfirmationRequired, http.StatusConflict},
		{"COMPANY_PAID_DATE_REQUIRED", http.StatusUnprocessableEntity},
		{"UNSUPPORTED_FILE_TYPE", http.StatusUnsupportedMediaType},
		{"FILE_TOO_LARGE", http.StatusRequestEntityTooLarge},
		{"SOMETHING_NOBODY_MAPPED", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewConfirmationResponse(t *testing.T) {
	resp := NewConfirmationResponse("ZERO_COST", "Cost is blank", "req-1")

	assert.False(t, resp.Success)
	assert.Equal(t, CodeConfirmationRequired, resp.Error.Code)
	assert.Equal(t, "ZERO_COST", resp.Error.Gate)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}
