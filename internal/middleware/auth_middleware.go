package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appauth "github.com/emre/uninews/internal/app/auth"
	"github.com/emre/uninews/internal/app/models"
	"github.com/emre/uninews/internal/app/models/dto"
	"github.com/emre/uninews/internal/pkg/apperrors"
	"github.com/emre/uninews/internal/pkg/auth"
)

const capabilitiesKey = "capabilities"

// AuthMiddleware for authentication and authorization.
// Tokens carry identity only; the capability set is resolved from the
// database on every request so revoked permissions take effect immediately.
type AuthMiddleware struct {
	jwtService   *auth.JWTService
	capabilities *appauth.CapabilityService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, capabilities *appauth.CapabilityService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:   jwtService,
		capabilities: capabilities,
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")

	// Swagger UI sometimes puts the token in query parameters
	if authHeader == "" {
		if queryToken := c.Query("authorization"); queryToken != "" {
			authHeader = queryToken
		} else if queryToken := c.Query("token"); queryToken != "" {
			authHeader = queryToken
		}
	}

	if authHeader == "" {
		return ""
	}

	authHeader = strings.Trim(authHeader, "\"'")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	// Accept a raw JWT for convenience
	if strings.Count(authHeader, ".") == 2 {
		return authHeader
	}
	return authHeader
}

func (m *AuthMiddleware) authenticate(c *gin.Context, tokenString string) bool {
	claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
	if err != nil {
		errorCode := dto.ErrorCodeInvalidToken
		errorDetails := "Invalid token"
		if errors.Is(err, auth.ErrExpiredToken) {
			errorCode = dto.ErrorCodeExpiredToken
			errorDetails = "Token has expired"
		} else if errors.Is(err, auth.ErrInvalidFormat) {
			errorDetails = "Invalid token format"
		}

		errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(errorDetails)
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return false
	}

	caps, err := m.capabilities.Resolve(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountDisabled) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Account is disabled")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return false
		}
		if errors.Is(err, apperrors.ErrUserNotFound) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed").WithDetails("Account no longer exists")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return false
		}
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
		return false
	}

	c.Set("userID", claims.UserID)
	c.Set("username", claims.Username)
	c.Set("email", claims.Email)
	c.Set(capabilitiesKey, *caps)
	return true
}

// JWTAuth validates the token and resolves the caller's live capability set
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if !m.authenticate(c, tokenString) {
			return
		}

		c.Next()
	}
}

// OptionalJWTAuth resolves capabilities when a valid token is present and
// falls through as anonymous otherwise.
func (m *AuthMiddleware) OptionalJWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			c.Next()
			return
		}

		caps, err := m.capabilities.Resolve(c.Request.Context(), claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("email", claims.Email)
		c.Set(capabilitiesKey, *caps)
		c.Next()
	}
}

// StaffRequired rejects callers whose live capability set lacks the staff flag.
// Must run after JWTAuth.
func (m *AuthMiddleware) StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		caps := GetCapabilities(c)
		if caps.UserID == 0 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if !caps.IsStaff && !caps.IsSuperuser {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// GetCapabilities returns the caller's capability set, zero for anonymous
func GetCapabilities(c *gin.Context) models.Capabilities {
	if v, exists := c.Get(capabilitiesKey); exists {
		if caps, ok := v.(models.Capabilities); ok {
			return caps
		}
	}
	return models.Capabilities{}
}
