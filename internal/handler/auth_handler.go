package handler

import (
	"net/http"

	"github.com/dafibh/kikoba/kikoba-backend/internal/middleware"
	"github.com/dafibh/kikoba/kikoba-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// AuthCallbackResponse represents the response from the auth callback
type AuthCallbackResponse struct {
	Member    MemberResponse `json:"member"`
	Group     GroupResponse  `json:"group"`
	IsNewUser bool           `json:"isNewUser"`
}

// GroupResponse represents a group in API responses
type GroupResponse struct {
	ID   int32  `json:"id"`
	Name string `json:"name"`
}

// Callback handles the first request after sign-in
// @Summary Auth callback
// @Description Links the token identity to a member, creating a group for first-time users
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AuthCallbackResponse
// @Failure 401 {object} ProblemDetails
// @Failure 500 {object} ProblemDetails
// @Router /auth/callback [post]
func (h *AuthHandler) Callback(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		log.Error().Msg("No Auth0 ID in context - middleware may not be configured")
		return NewUnauthorizedError(c, "Authentication required")
	}

	identity := service.Identity{Auth0ID: auth0ID}
	if claims := middleware.GetCustomClaims(c); claims != nil {
		identity.Email = claims.Email
		identity.Name = claims.Name
	}

	result, err := h.authService.Authenticate(c.Request().Context(), identity)
	if err != nil {
		log.Error().Err(err).Str("auth0_id", auth0ID).Msg("Failed to authenticate member")
		return NewInternalError(c, "Failed to authenticate member")
	}

	if result.IsNewUser {
		log.Info().
			Str("auth0_id", auth0ID).
			Int32("group_id", result.Group.ID).
			Int32("member_id", result.Member.ID).
			Msg("New member registered")
	}

	return c.JSON(http.StatusOK, AuthCallbackResponse{
		Member:    toMemberResponse(result.Member),
		Group:     GroupResponse{ID: result.Group.ID, Name: result.Group.Name},
		IsNewUser: result.IsNewUser,
	})
}

// Me returns the current member and their group
// @Summary Current member
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AuthCallbackResponse
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	ctx := c.Request().Context()
	member, err := h.authService.GetMemberByAuth0ID(ctx, auth0ID)
	if err != nil {
		log.Debug().Err(err).Str("auth0_id", auth0ID).Msg("Member lookup failed")
		return NewNotFoundError(c, "Member not found")
	}

	group, err := h.authService.GetGroup(ctx, member.GroupID)
	if err != nil {
		log.Error().Err(err).Int32("group_id", member.GroupID).Msg("Failed to get group")
		return NewInternalError(c, "Failed to get group")
	}

	return c.JSON(http.StatusOK, AuthCallbackResponse{
		Member: toMemberResponse(member),
		Group:  GroupResponse{ID: group.ID, Name: group.Name},
	})
}

// LogoutResponse represents the response from logout
type LogoutResponse struct {
	Message string `json:"message"`
}

// Logout handles member logout
// POST /auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	auth0ID := middleware.GetAuth0ID(c)
	if auth0ID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	log.Info().Str("auth0_id", auth0ID).Msg("Member logged out")

	// Auth0 handles actual session termination
	return c.JSON(http.StatusOK, LogoutResponse{
		Message: "Logged out successfully",
	})
}
