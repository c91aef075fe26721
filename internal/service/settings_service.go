package service

import (
	"context"
	"errors"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/util"
	"github.com/dafibh/kikoba/kikoba-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// SettingsService owns the per-group settings, currently the next meeting
type SettingsService struct {
	tx             domain.Transactor
	settingsRepo   domain.SettingsRepository
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

func NewSettingsService(tx domain.Transactor, settingsRepo domain.SettingsRepository) *SettingsService {
	return &SettingsService{
		tx:           tx,
		settingsRepo: settingsRepo,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *SettingsService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// NextMeeting returns the group's next meeting. Meetings recur monthly: a stored date
// that has passed rolls forward month by month, and a group that never set one meets
// a month from today.
func (s *SettingsService) NextMeeting(ctx context.Context, groupID int32) (*domain.MeetingInfo, error) {
	today := util.DateOnly(s.now())

	settings, err := s.settingsRepo.GetByGroup(ctx, groupID)
	if err != nil {
		if !errors.Is(err, domain.ErrSettingsNotFound) {
			log.Error().Err(err).Int32("group_id", groupID).Msg("Failed to load settings")
			return nil, err
		}
		next := util.AddCalendarMonths(today, 1)
		return &domain.MeetingInfo{Date: next, DaysRemaining: daysBetween(today, next), IsDefault: true}, nil
	}

	anchor := util.DateOnly(settings.NextMeetingDate)
	next := anchor
	for n := 1; next.Before(today); n++ {
		next = util.AddCalendarMonths(anchor, n)
	}

	return &domain.MeetingInfo{
		Date:          next,
		DaysRemaining: daysBetween(today, next),
		Notes:         settings.Notes,
	}, nil
}

// UpdateSettingsInput holds the settings a group admin can change
type UpdateSettingsInput struct {
	NextMeetingDate time.Time
	Notes           *string
}

func (s *SettingsService) UpdateSettings(ctx context.Context, groupID int32, input UpdateSettingsInput) (*domain.Settings, error) {
	if input.NextMeetingDate.IsZero() {
		return nil, domain.ErrMeetingDateRequired
	}
	if input.Notes != nil && len(*input.Notes) > domain.MaxNotesLength {
		return nil, domain.ErrNotesTooLong
	}

	var saved *domain.Settings
	err := s.tx.WithTx(ctx, func(tx interface{}) error {
		var err error
		saved, err = s.settingsRepo.UpsertTx(ctx, tx, &domain.Settings{
			GroupID:         groupID,
			NextMeetingDate: util.DateOnly(input.NextMeetingDate),
			Notes:           input.Notes,
		})
		return err
	})
	if err != nil {
		log.Error().Err(err).Int32("group_id", groupID).Msg("Failed to update settings")
		return nil, err
	}

	if s.eventPublisher != nil {
		s.eventPublisher.Publish(groupID, websocket.SettingsUpdated(map[string]interface{}{
			"nextMeetingDate": saved.NextMeetingDate.Format("2006-01-02"),
			"notes":           saved.Notes,
		}))
	}
	return saved, nil
}

// daysBetween counts whole calendar days from a to b
func daysBetween(a, b time.Time) int {
	return int(util.DateOnly(b).Sub(util.DateOnly(a)).Hours() / 24)
}
