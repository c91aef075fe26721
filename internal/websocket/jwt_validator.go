package websocket

import (
	"context"
	"errors"

	"github.com/auth0/go-jwt-middleware/v2/validator"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrGroupNotFound = errors.New("group not found")
)

// TokenValidator validates a raw JWT. *validator.Validator implements it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (interface{}, error)
}

// GroupLookup resolves the group of a signed-in identity
type GroupLookup interface {
	GroupIDForSubject(ctx context.Context, auth0ID string) (int32, error)
}

// GroupTokenValidator turns the access token of an upgrade request into the group
// whose events the connection receives
type GroupTokenValidator struct {
	tokens TokenValidator
	groups GroupLookup
}

// NewGroupTokenValidator wraps the API's token validator with a group lookup
func NewGroupTokenValidator(tokens TokenValidator, groups GroupLookup) *GroupTokenValidator {
	return &GroupTokenValidator{tokens: tokens, groups: groups}
}

// ValidateToken returns the caller's group. Callers without a group are rejected
// with ErrGroupNotFound.
func (v *GroupTokenValidator) ValidateToken(ctx context.Context, token string) (int32, error) {
	claims, err := v.tokens.ValidateToken(ctx, token)
	if err != nil {
		return 0, ErrInvalidToken
	}

	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok || validated.RegisteredClaims.Subject == "" {
		return 0, ErrInvalidToken
	}

	groupID, err := v.groups.GroupIDForSubject(ctx, validated.RegisteredClaims.Subject)
	if err != nil {
		return 0, ErrGroupNotFound
	}
	return groupID, nil
}
