package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// MemberService manages the people of a group
type MemberService struct {
	memberRepo     domain.MemberRepository
	avatars        *AvatarService
	eventPublisher websocket.EventPublisher
}

func NewMemberService(memberRepo domain.MemberRepository, avatars *AvatarService) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		avatars:    avatars,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *MemberService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *MemberService) publishEvent(groupID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(groupID, event)
	}
}

// AddMemberInput is an admin adding someone who has not signed in yet
type AddMemberInput struct {
	Name       string
	Email      string
	Dedication decimal.Decimal
}

// AddMember creates an unlinked member. They are linked on first sign-in with the same email.
func (s *MemberService) AddMember(ctx context.Context, groupID int32, input AddMemberInput) (*domain.Member, error) {
	member := &domain.Member{
		GroupID:    groupID,
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		Dedication: input.Dedication,
	}
	if err := member.Validate(); err != nil {
		return nil, err
	}

	created, err := s.memberRepo.Create(ctx, member)
	if err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) {
			log.Error().Err(err).Int32("group_id", groupID).Msg("Failed to add member")
		}
		return nil, err
	}

	s.publishEvent(groupID, websocket.MemberUpdated(created))
	return created, nil
}

func (s *MemberService) GetMember(ctx context.Context, groupID, memberID int32) (*domain.Member, error) {
	return s.memberRepo.GetByID(ctx, groupID, memberID)
}

func (s *MemberService) ListMembers(ctx context.Context, groupID int32) ([]*domain.Member, error) {
	return s.memberRepo.ListByGroup(ctx, groupID)
}

// UpdateProfileInput holds the editable profile fields. Nil fields are left unchanged.
type UpdateProfileInput struct {
	Name       *string
	Dedication *decimal.Decimal
}

func (s *MemberService) UpdateProfile(ctx context.Context, groupID, memberID int32, input UpdateProfileInput) (*domain.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, groupID, memberID)
	if err != nil {
		return nil, err
	}

	updated := *member
	if input.Name != nil {
		updated.Name = strings.TrimSpace(*input.Name)
	}
	if input.Dedication != nil {
		updated.Dedication = *input.Dedication
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.memberRepo.Update(ctx, &updated)
	if err != nil {
		log.Error().Err(err).Int32("group_id", groupID).Int32("member_id", memberID).Msg("Failed to update member")
		return nil, err
	}

	s.publishEvent(groupID, websocket.MemberUpdated(saved))
	return saved, nil
}

// SetAvatar stores a new picture and removes the previous one
func (s *MemberService) SetAvatar(ctx context.Context, groupID, memberID int32, data []byte, filename string) (*Avatar, error) {
	member, err := s.memberRepo.GetByID(ctx, groupID, memberID)
	if err != nil {
		return nil, err
	}

	path, err := s.avatars.Store(ctx, groupID, memberID, data, filename)
	if err != nil {
		return nil, err
	}

	if err := s.memberRepo.UpdatePicture(ctx, groupID, memberID, &path); err != nil {
		_ = s.avatars.Delete(ctx, path)
		return nil, err
	}

	if member.PictureObject != nil {
		if err := s.avatars.Delete(ctx, *member.PictureObject); err != nil {
			log.Warn().Err(err).Int32("member_id", memberID).Msg("Failed to delete previous avatar")
		}
	}

	s.publishEvent(groupID, websocket.MemberUpdated(map[string]interface{}{"id": memberID, "avatarChanged": true}))
	return s.avatars.Presign(ctx, path)
}

// GetAvatar returns presigned URLs for a member's picture, or ErrNotFound when they have none
func (s *MemberService) GetAvatar(ctx context.Context, groupID, memberID int32) (*Avatar, error) {
	member, err := s.memberRepo.GetByID(ctx, groupID, memberID)
	if err != nil {
		return nil, err
	}
	if member.PictureObject == nil {
		return nil, domain.ErrNotFound
	}
	return s.avatars.Presign(ctx, *member.PictureObject)
}
