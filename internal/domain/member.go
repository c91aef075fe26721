package domain

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMemberNotFound          = errors.New("member not found")
	ErrMemberEmailInvalid      = errors.New("member email is invalid")
	ErrMemberDedicationInvalid = errors.New("dedication must not be negative and have at most 2 decimal places")
)

// Member is a person in a group. Auth0ID links the member to the identity provider
// once they have signed in; members added by an admin start unlinked.
type Member struct {
	ID            int32           `json:"id"`
	GroupID       int32           `json:"groupId"`
	Auth0ID       *string         `json:"-"`
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	Dedication    decimal.Decimal `json:"dedication"`
	PictureObject *string         `json:"-"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Validate checks the editable member fields
func (m *Member) Validate() error {
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return ErrNameRequired
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if m.Email != "" {
		if _, err := mail.ParseAddress(m.Email); err != nil {
			return ErrMemberEmailInvalid
		}
	}
	if m.Dedication.IsNegative() || !IsStorableAmount(m.Dedication) {
		return ErrMemberDedicationInvalid
	}
	return nil
}

// IsLinked reports whether the member has signed in at least once
func (m *Member) IsLinked() bool {
	return m.Auth0ID != nil && *m.Auth0ID != ""
}

// MemberRepository defines the interface for member persistence operations
type MemberRepository interface {
	Create(ctx context.Context, member *Member) (*Member, error)
	CreateTx(ctx context.Context, tx interface{}, member *Member) (*Member, error)
	GetByID(ctx context.Context, groupID int32, id int32) (*Member, error)
	GetByAuth0ID(ctx context.Context, auth0ID string) (*Member, error)
	GetUnlinkedByEmail(ctx context.Context, email string) (*Member, error)
	LinkAuth0ID(ctx context.Context, id int32, auth0ID string) (*Member, error)
	ListByGroup(ctx context.Context, groupID int32) ([]*Member, error)
	Update(ctx context.Context, member *Member) (*Member, error)
	UpdatePicture(ctx context.Context, groupID int32, id int32, objectPath *string) error
}
