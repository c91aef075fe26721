package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/dafibh/kikoba/kikoba-backend/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// JWTValidator validates JWT tokens and returns the caller's group ID
type JWTValidator interface {
	ValidateToken(ctx context.Context, token string) (groupID int32, err error)
}

// WebSocketConfig configures the /ws endpoint
type WebSocketConfig struct {
	AllowedOrigins []string
}

// WebSocketHandler upgrades authenticated clients and subscribes them to their group's events
type WebSocketHandler struct {
	hub       *websocket.Hub
	validator JWTValidator
	origins   map[string]struct{}
	upgrader  ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *websocket.Hub, validator JWTValidator, cfg WebSocketConfig) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:       hub,
		validator: validator,
		origins:   make(map[string]struct{}, len(cfg.AllowedOrigins)),
	}
	for _, origin := range cfg.AllowedOrigins {
		h.origins[origin] = struct{}{}
	}
	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin accepts listed browser origins and clients that send none
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if _, ok := h.origins[origin]; ok {
		return true
	}
	log.Warn().Str("origin", origin).Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// bearerToken reads the access token from the Authorization header, falling back to
// the token query parameter used by browsers, which cannot set headers on upgrade
func bearerToken(r *http.Request) string {
	if auth := r.Header.Get(echo.HeaderAuthorization); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}

// HandleWS handles GET /ws
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	token := bearerToken(c.Request())
	if token == "" {
		return NewUnauthorizedError(c, "Missing access token")
	}

	groupID, err := h.validator.ValidateToken(c.Request().Context(), token)
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket connection rejected: invalid token")
		return NewUnauthorizedError(c, "Invalid access token")
	}

	// Checked again by the hub after the upgrade; this only saves the upgrade
	if !h.hub.HasRoom(groupID) {
		log.Warn().Int32("group_id", groupID).Msg("WebSocket connection rejected: group at capacity")
		return NewServiceUnavailableError(c, "Too many live connections for this group")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		log.Error().Err(err).Int32("group_id", groupID).Msg("WebSocket upgrade failed")
		return nil
	}

	client, err := h.hub.Serve(conn, groupID)
	if err != nil {
		log.Warn().Err(err).Int32("group_id", groupID).Msg("WebSocket connection closed after upgrade")
		return nil
	}

	log.Info().
		Int32("group_id", groupID).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")
	return nil
}
