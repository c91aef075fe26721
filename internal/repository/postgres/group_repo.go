package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GroupRepository implements domain.GroupRepository using PostgreSQL
type GroupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

const groupColumns = `id, name, created_at, updated_at`

// GetByID retrieves a group by its ID
func (r *GroupRepository) GetByID(ctx context.Context, id int32) (*domain.Group, error) {
	var g domain.Group
	err := r.pool.QueryRow(ctx, `SELECT `+groupColumns+` FROM groups WHERE id = $1`, id).
		Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}
	return &g, nil
}

// CreateTx creates a group within a transaction
func (r *GroupRepository) CreateTx(ctx context.Context, tx interface{}, group *domain.Group) (*domain.Group, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	var g domain.Group
	err = pgxTx.QueryRow(ctx, `
		INSERT INTO groups (name) VALUES ($1)
		RETURNING `+groupColumns, group.Name).
		Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
