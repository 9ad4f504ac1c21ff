package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emre/uninews/internal/app/models/dto"
	"github.com/emre/uninews/internal/pkg/apperrors"
)

func handleOnRecorder(t *testing.T, err error) (*httptest.ResponseRecorder, dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	HandleAPIError(c, err)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder, body
}

func TestHandleAPIErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"post not found", apperrors.ErrPostNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"account disabled", apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"revoked token", apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"validation", apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"unknown role", apperrors.ErrUnknownRole, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"duplicate username", apperrors.ErrUsernameAlreadyTaken, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"upstream failure", apperrors.ErrExternalService, http.StatusBadGateway, dto.ErrorCodeExternalServiceError},
		{"unexpected error", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, body := handleOnRecorder(t, tt.err)
			assert.Equal(t, tt.wantStatus, recorder.Code)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestHandleAPIErrorSurfacesCustomMessage(t *testing.T) {
	err := apperrors.NewCustomError(apperrors.ErrValidationFailed, "title must be at least 5 characters")

	recorder, body := handleOnRecorder(t, err)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "title must be at least 5 characters", body.Error.Message)
}

func TestHandleAPIErrorWrappedSentinel(t *testing.T) {
	// errors wrapped with %w still map through the sentinel chain
	err := apperrors.NewCustomError(apperrors.ErrPostNotFound, "post 42 not found")

	recorder, body := handleOnRecorder(t, err)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "post 42 not found", body.Error.Message)
}
