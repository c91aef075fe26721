package middleware

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CustomClaims contains the custom claims from Auth0 JWT
type CustomClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
	// Auth0IDKey is the context key for the Auth0 user ID (subject)
	Auth0IDKey contextKey = "auth0_id"
	// GroupIDKey is the context key for the caller's group ID
	GroupIDKey contextKey = "group_id"
	// MemberIDKey is the context key for the caller's member ID
	MemberIDKey contextKey = "member_id"
)

// TokenValidator validates a raw JWT. *validator.Validator implements it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (interface{}, error)
}

// MemberResolver maps a signed-in identity to its group and member
type MemberResolver interface {
	ResolveMember(ctx context.Context, auth0ID string) (groupID int32, memberID int32, err error)
}

// AuthMiddleware provides JWT validation middleware
type AuthMiddleware struct {
	validator TokenValidator
	members   MemberResolver
}

// NewAuth0Validator builds an RS256 validator for access tokens issued by the
// Auth0 tenant at domain for audience. Signing keys are cached for five minutes.
func NewAuth0Validator(domain, audience string) (*validator.Validator, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	return validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
}

// NewAuthMiddlewareWithValidator creates an AuthMiddleware around an existing validator
func NewAuthMiddlewareWithValidator(v TokenValidator, members MemberResolver) *AuthMiddleware {
	return &AuthMiddleware{validator: v, members: members}
}

// Authenticate validates the bearer token and stores the claims in the context.
// It does not require the caller to be a member yet; the auth callback runs behind it.
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorizedError(c, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
				return unauthorizedError(c, "invalid authorization header format")
			}

			claims, err := m.validator.ValidateToken(c.Request().Context(), parts[1])
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				return unauthorizedError(c, "invalid token")
			}

			validatedClaims, ok := claims.(*validator.ValidatedClaims)
			if !ok || validatedClaims.RegisteredClaims.Subject == "" {
				return unauthorizedError(c, "invalid claims")
			}

			ctx := context.WithValue(c.Request().Context(), ClaimsKey, validatedClaims)
			ctx = context.WithValue(ctx, Auth0IDKey, validatedClaims.RegisteredClaims.Subject)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireMember resolves the authenticated identity to a member and injects the
// group and member IDs. Must run after Authenticate.
func (m *AuthMiddleware) RequireMember() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth0ID := GetAuth0ID(c)
			if auth0ID == "" {
				return unauthorizedError(c, "not authenticated")
			}

			groupID, memberID, err := m.members.ResolveMember(c.Request().Context(), auth0ID)
			if err != nil {
				if errors.Is(err, domain.ErrMemberNotFound) {
					log.Debug().Str("auth0_id", auth0ID).Msg("Member lookup failed")
					return unauthorizedError(c, "member not found, complete sign-in first")
				}
				log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to resolve member")
				return internalError(c, "failed to resolve member")
			}

			ctx := context.WithValue(c.Request().Context(), GroupIDKey, groupID)
			ctx = context.WithValue(ctx, MemberIDKey, memberID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetAuth0ID extracts the Auth0 user ID from the context
func GetAuth0ID(c echo.Context) string {
	if id, ok := c.Request().Context().Value(Auth0IDKey).(string); ok {
		return id
	}
	return ""
}

// GetClaims extracts the validated claims from the context
func GetClaims(c echo.Context) *validator.ValidatedClaims {
	if claims, ok := c.Request().Context().Value(ClaimsKey).(*validator.ValidatedClaims); ok {
		return claims
	}
	return nil
}

// GetCustomClaims extracts the custom claims from the context
func GetCustomClaims(c echo.Context) *CustomClaims {
	claims := GetClaims(c)
	if claims == nil {
		return nil
	}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok {
		return custom
	}
	return nil
}

// GetGroupID extracts the group ID from the context
func GetGroupID(c echo.Context) int32 {
	if id, ok := c.Request().Context().Value(GroupIDKey).(int32); ok {
		return id
	}
	return 0
}

// GetMemberID extracts the member ID from the context
func GetMemberID(c echo.Context) int32 {
	if id, ok := c.Request().Context().Value(MemberIDKey).(int32); ok {
		return id
	}
	return 0
}
