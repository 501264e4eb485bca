package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kamwana/chamameet/internal/domain"
)

type MemberRepo struct {
	pool *pgxpool.Pool
}

func NewMemberRepo(pool *pgxpool.Pool) *MemberRepo {
	return &MemberRepo{pool: pool}
}

const memberColumns = `id, full_name, email, phone, role, presence, created_at, updated_at`

func (r *MemberRepo) Create(ctx context.Context, m *domain.Member) error {
	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		m.ID, m.FullName, m.Email, m.Phone, m.Role, m.Presence, m.CreatedAt, m.UpdatedAt,
	)
	return err
}

func (r *MemberRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	var m domain.Member
	err := r.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1`, id,
	).Scan(&m.ID, &m.FullName, &m.Email, &m.Phone, &m.Role, &m.Presence, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepo) List(ctx context.Context) ([]domain.Member, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+memberColumns+` FROM members ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.FullName, &m.Email, &m.Phone, &m.Role, &m.Presence, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *MemberRepo) UpdatePresence(ctx context.Context, id uuid.UUID, presence domain.Presence) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE members SET presence = $2, updated_at = $3 WHERE id = $1`,
		id, presence, time.Now(),
	)
	return err
}
