package domain

import (
	"context"
	"time"
)

// Group is the tenant every member, loan and contribution belongs to
type Group struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultGroupName is used for the group created on a first login
const DefaultGroupName = "My Group"

// GroupRepository defines the interface for group persistence operations
type GroupRepository interface {
	GetByID(ctx context.Context, id int32) (*Group, error)
	CreateTx(ctx context.Context, tx interface{}, group *Group) (*Group, error)
}
