package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeExternalService, http.StatusBadGateway},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"PAYMENT_EXCEEDS_BALANCE", http.StatusUnprocessableEntity},
		{"INVALID_CUSTOMER", http.StatusBadRequest},
		{"INVALID_FORMAT", http.StatusBadRequest},
		{"RULE_NOT_FOUND", http.StatusNotFound},
		{"ALREADY_ACTIVE", http.StatusConflict},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeInvalidState, NormalizeErrorCode("INVALID_STATE"))
	assert.Equal(t, ErrCodeExternalService, NormalizeErrorCode("EXTERNAL_SERVICE_ERROR"))
	assert.Equal(t, "INVALID_ACTIVITY_TYPE", NormalizeErrorCode("INVALID_ACTIVITY_TYPE"))
	assert.Equal(t, ErrCodeValidation, NormalizeErrorCode(ErrCodeValidation))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(NormalizeErrorCode("CONCURRENCY_CONFLICT")))
}

func TestLegacyCodesResolveToKnownStatus(t *testing.T) {
	for legacy, code := range LegacyErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "%s maps to %s which has no status", legacy, code)
	}
}

func TestEnvelopeShape(t *testing.T) {
	t.Run("success omits error", func(t *testing.T) {
		raw, err := json.Marshal(OK(map[string]int{"n": 1}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"data":{"n":1}}`, string(raw))
	})

	t.Run("error omits data", func(t *testing.T) {
		raw, err := json.Marshal(Fail(ErrCodeNotFound, "Customer not found").WithRequestID("req-1"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_NOT_FOUND","message":"Customer not found","request_id":"req-1"}}`, string(raw))
	})

	t.Run("validation details", func(t *testing.T) {
		resp := Fail(ErrCodeValidation, "Request validation failed", ValidationDetail{Field: "name", Message: "This field is required"})
		require.NotNil(t, resp.Error)
		assert.Equal(t, ErrCodeValidation, resp.Error.Code)
		assert.Len(t, resp.Error.Details, 1)
	})
}

func TestPage(t *testing.T) {
	resp := Page([]int{1, 2}, 41, 2, 20)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Equal(t, 2, resp.Meta.Page)

	resp = Page(nil, 0, 0, 0)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 20, resp.Meta.PageSize)
	assert.Zero(t, resp.Meta.TotalPages)
}
