package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/kikoba/kikoba-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MemberRepository implements domain.MemberRepository using PostgreSQL
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

const memberColumns = `id, group_id, auth0_id, email, name, dedication, picture_object, created_at, updated_at`

// Create creates a member that has not signed in yet
func (r *MemberRepository) Create(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	return r.create(ctx, r.pool, member)
}

// CreateTx creates a member within a transaction
func (r *MemberRepository) CreateTx(ctx context.Context, tx interface{}, member *domain.Member) (*domain.Member, error) {
	pgxTx, err := asTx(tx)
	if err != nil {
		return nil, err
	}
	return r.create(ctx, pgxTx, member)
}

func (r *MemberRepository) create(ctx context.Context, q querier, member *domain.Member) (*domain.Member, error) {
	dedication, err := decimalToPgNumeric(member.Dedication)
	if err != nil {
		return nil, err
	}
	created, err := scanMember(q.QueryRow(ctx, `
		INSERT INTO members (group_id, auth0_id, email, name, dedication)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+memberColumns,
		member.GroupID, member.Auth0ID, member.Email, member.Name, dedication))
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

// GetByID retrieves a member by ID within a group
func (r *MemberRepository) GetByID(ctx context.Context, groupID int32, id int32) (*domain.Member, error) {
	return r.getOne(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1 AND group_id = $2`, id, groupID)
}

// GetByAuth0ID retrieves the member linked to an identity
func (r *MemberRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*domain.Member, error) {
	return r.getOne(ctx, `SELECT `+memberColumns+` FROM members WHERE auth0_id = $1`, auth0ID)
}

// GetUnlinkedByEmail finds the oldest member with this email that has never signed in
func (r *MemberRepository) GetUnlinkedByEmail(ctx context.Context, email string) (*domain.Member, error) {
	return r.getOne(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE auth0_id IS NULL AND LOWER(email) = LOWER($1)
		ORDER BY id
		LIMIT 1`, email)
}

// LinkAuth0ID attaches an identity to an unlinked member
func (r *MemberRepository) LinkAuth0ID(ctx context.Context, id int32, auth0ID string) (*domain.Member, error) {
	member, err := r.getOne(ctx, `
		UPDATE members SET auth0_id = $2, updated_at = NOW()
		WHERE id = $1 AND auth0_id IS NULL
		RETURNING `+memberColumns, id, auth0ID)
	if err != nil {
		return nil, mapError(err)
	}
	return member, nil
}

// ListByGroup returns the members of a group in the order they were added
func (r *MemberRepository) ListByGroup(ctx context.Context, groupID int32) ([]*domain.Member, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+memberColumns+` FROM members WHERE group_id = $1 ORDER BY id`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update saves the editable profile fields
func (r *MemberRepository) Update(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	dedication, err := decimalToPgNumeric(member.Dedication)
	if err != nil {
		return nil, err
	}
	return r.getOne(ctx, `
		UPDATE members SET name = $3, dedication = $4, updated_at = NOW()
		WHERE id = $1 AND group_id = $2
		RETURNING `+memberColumns, member.ID, member.GroupID, member.Name, dedication)
}

// UpdatePicture sets or clears the stored picture object
func (r *MemberRepository) UpdatePicture(ctx context.Context, groupID int32, id int32, objectPath *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE members SET picture_object = $3, updated_at = NOW()
		WHERE id = $1 AND group_id = $2`, id, groupID, objectPath)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) getOne(ctx context.Context, sql string, args ...any) (*domain.Member, error) {
	member, err := scanMember(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	var dedication pgtype.Numeric
	if err := row.Scan(&m.ID, &m.GroupID, &m.Auth0ID, &m.Email, &m.Name, &dedication, &m.PictureObject, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Dedication = pgNumericToDecimal(dedication)
	return &m, nil
}
