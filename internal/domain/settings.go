package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSettingsNotFound    = errors.New("settings not found")
	ErrMeetingDateRequired = errors.New("next meeting date is required")
)

// Settings holds the per-group configuration. There is one row per group.
type Settings struct {
	GroupID         int32     `json:"groupId"`
	NextMeetingDate time.Time `json:"nextMeetingDate"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// MeetingInfo is the next meeting as shown on the dashboard
type MeetingInfo struct {
	Date          time.Time `json:"date"`
	DaysRemaining int       `json:"daysRemaining"`
	Notes         *string   `json:"notes,omitempty"`
	IsDefault     bool      `json:"isDefault"`
}

type SettingsRepository interface {
	GetByGroup(ctx context.Context, groupID int32) (*Settings, error)
	UpsertTx(ctx context.Context, tx interface{}, settings *Settings) (*Settings, error)
}
