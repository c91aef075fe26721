package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/dafibh/kikoba/kikoba-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingsService(today time.Time) (*SettingsService, *testutil.MockSettingsRepository, *testutil.MockEventPublisher) {
	repo := testutil.NewMockSettingsRepository()
	publisher := testutil.NewMockEventPublisher()
	svc := NewSettingsService(testutil.NewMockTransactor(), repo)
	svc.SetEventPublisher(publisher)
	svc.now = func() time.Time { return today.Add(14 * time.Hour) }
	return svc, repo, publisher
}

func TestNextMeeting_DefaultsToNextMonth(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		want  time.Time
		days  int
	}{
		{"mid month", date(2024, time.July, 15), date(2024, time.August, 15), 31},
		{"clamped to month end", date(2024, time.January, 31), date(2024, time.February, 29), 29},
		{"year end", date(2024, time.December, 10), date(2025, time.January, 10), 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newSettingsService(tt.today)

			info, err := svc.NextMeeting(context.Background(), 1)
			require.NoError(t, err)
			assert.True(t, info.IsDefault)
			assert.Equal(t, tt.want, info.Date)
			assert.Equal(t, tt.days, info.DaysRemaining)
			assert.Nil(t, info.Notes)
		})
	}
}

func TestNextMeeting_StoredDate(t *testing.T) {
	tests := []struct {
		name   string
		today  time.Time
		stored time.Time
		want   time.Time
		days   int
	}{
		{"upcoming", date(2024, time.July, 15), date(2024, time.July, 20), date(2024, time.July, 20), 5},
		{"today", date(2024, time.July, 15), date(2024, time.July, 15), date(2024, time.July, 15), 0},
		{"rolls forward", date(2024, time.July, 15), date(2024, time.May, 10), date(2024, time.August, 10), 26},
		{"keeps the anchor day", date(2024, time.March, 5), date(2024, time.January, 31), date(2024, time.March, 31), 26},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newSettingsService(tt.today)
			notes := "Bring passbooks"
			repo.Settings[1] = &domain.Settings{GroupID: 1, NextMeetingDate: tt.stored, Notes: &notes}

			info, err := svc.NextMeeting(context.Background(), 1)
			require.NoError(t, err)
			assert.False(t, info.IsDefault)
			assert.Equal(t, tt.want, info.Date)
			assert.Equal(t, tt.days, info.DaysRemaining)
			require.NotNil(t, info.Notes)
			assert.Equal(t, notes, *info.Notes)
		})
	}
}

func TestUpdateSettings(t *testing.T) {
	svc, repo, publisher := newSettingsService(date(2024, time.July, 15))
	notes := "Community hall"

	saved, err := svc.UpdateSettings(context.Background(), 1, UpdateSettingsInput{
		NextMeetingDate: time.Date(2024, time.August, 3, 18, 0, 0, 0, time.UTC),
		Notes:           &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.August, 3), saved.NextMeetingDate)
	assert.Contains(t, repo.Settings, int32(1))
	assert.Equal(t, []string{"settings.updated"}, publisher.Types())

	info, err := svc.NextMeeting(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 19, info.DaysRemaining)
}

func TestUpdateSettings_Invalid(t *testing.T) {
	svc, repo, publisher := newSettingsService(date(2024, time.July, 15))

	_, err := svc.UpdateSettings(context.Background(), 1, UpdateSettingsInput{})
	assert.ErrorIs(t, err, domain.ErrMeetingDateRequired)

	long := strings.Repeat("x", domain.MaxNotesLength+1)
	_, err = svc.UpdateSettings(context.Background(), 1, UpdateSettingsInput{NextMeetingDate: date(2024, time.August, 1), Notes: &long})
	assert.ErrorIs(t, err, domain.ErrNotesTooLong)

	assert.Empty(t, repo.Settings)
	assert.Empty(t, publisher.Events)
}
