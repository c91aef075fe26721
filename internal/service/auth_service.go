package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// AuthService turns a verified identity into a member of a group
type AuthService struct {
	tx         domain.Transactor
	groupRepo  domain.GroupRepository
	memberRepo domain.MemberRepository
}

func NewAuthService(tx domain.Transactor, groupRepo domain.GroupRepository, memberRepo domain.MemberRepository) *AuthService {
	return &AuthService{
		tx:         tx,
		groupRepo:  groupRepo,
		memberRepo: memberRepo,
	}
}

// Identity is what the identity provider tells us about the caller
type Identity struct {
	Auth0ID string
	Email   string
	Name    string
}

// AuthResult represents the result of an authentication operation
type AuthResult struct {
	Member    *domain.Member
	Group     *domain.Group
	IsNewUser bool
}

// Authenticate handles the first request after sign-in. A known identity returns its
// member. Otherwise a member the group added earlier with the same email is linked to
// the identity; failing that, a new group is created with the caller as first member.
func (s *AuthService) Authenticate(ctx context.Context, identity Identity) (*AuthResult, error) {
	if identity.Auth0ID == "" {
		return nil, domain.ErrUnauthorized
	}

	member, err := s.memberRepo.GetByAuth0ID(ctx, identity.Auth0ID)
	if err == nil {
		return s.result(ctx, member, false)
	}
	if !errors.Is(err, domain.ErrMemberNotFound) {
		log.Error().Err(err).Str("auth0_id", identity.Auth0ID).Msg("Failed to look up member")
		return nil, err
	}

	email := strings.TrimSpace(identity.Email)
	if email != "" {
		invited, err := s.memberRepo.GetUnlinkedByEmail(ctx, email)
		switch {
		case err == nil:
			linked, err := s.memberRepo.LinkAuth0ID(ctx, invited.ID, identity.Auth0ID)
			if err != nil {
				log.Error().Err(err).Int32("member_id", invited.ID).Msg("Failed to link member")
				return nil, err
			}
			log.Info().Int32("group_id", linked.GroupID).Int32("member_id", linked.ID).Msg("Linked invited member")
			return s.result(ctx, linked, false)
		case !errors.Is(err, domain.ErrMemberNotFound):
			log.Error().Err(err).Msg("Failed to look up invited member")
			return nil, err
		}
	}

	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = email
	}
	if name == "" {
		name = "Member"
	}

	var group *domain.Group
	err = s.tx.WithTx(ctx, func(tx interface{}) error {
		var err error
		group, err = s.groupRepo.CreateTx(ctx, tx, &domain.Group{Name: domain.DefaultGroupName})
		if err != nil {
			return err
		}
		auth0ID := identity.Auth0ID
		member, err = s.memberRepo.CreateTx(ctx, tx, &domain.Member{
			GroupID: group.ID,
			Auth0ID: &auth0ID,
			Email:   email,
			Name:    name,
		})
		return err
	})
	if err != nil {
		log.Error().Err(err).Str("auth0_id", identity.Auth0ID).Msg("Failed to create group for new member")
		return nil, err
	}

	log.Info().Int32("group_id", group.ID).Int32("member_id", member.ID).Msg("Created new group with first member")
	return &AuthResult{Member: member, Group: group, IsNewUser: true}, nil
}

func (s *AuthService) result(ctx context.Context, member *domain.Member, isNew bool) (*AuthResult, error) {
	group, err := s.groupRepo.GetByID(ctx, member.GroupID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Member: member, Group: group, IsNewUser: isNew}, nil
}

// GetMemberByAuth0ID returns the member signed in as auth0ID
func (s *AuthService) GetMemberByAuth0ID(ctx context.Context, auth0ID string) (*domain.Member, error) {
	return s.memberRepo.GetByAuth0ID(ctx, auth0ID)
}

// GetGroup returns a group by ID
func (s *AuthService) GetGroup(ctx context.Context, groupID int32) (*domain.Group, error) {
	return s.groupRepo.GetByID(ctx, groupID)
}

// ResolveMember returns the group and member IDs for a signed-in identity
func (s *AuthService) ResolveMember(ctx context.Context, auth0ID string) (groupID int32, memberID int32, err error) {
	member, err := s.memberRepo.GetByAuth0ID(ctx, auth0ID)
	if err != nil {
		return 0, 0, err
	}
	return member.GroupID, member.ID, nil
}

// GroupIDForSubject returns the group of a signed-in identity
func (s *AuthService) GroupIDForSubject(ctx context.Context, auth0ID string) (int32, error) {
	groupID, _, err := s.ResolveMember(ctx, auth0ID)
	return groupID, err
}
