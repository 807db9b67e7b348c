package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedroaba/fono-api-c317/internal/domain"
)

// SessionRepository é o adaptador de persistência para sessões de login.
// Invalidate e InvalidateAllForUser são idempotentes: linhas já invalidadas
// nunca são tocadas de novo.
type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	GetByID(ctx context.Context, id string) (domain.Session, error)
	Invalidate(ctx context.Context, id string) error
	InvalidateAllForUser(ctx context.Context, userID string) error
}

type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

func (r *PgSessionRepository) Create(ctx context.Context, session domain.Session) error {
	const query = `
		INSERT INTO sessions (id, user_id, created_at, invalidated_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.CreatedAt,
		session.InvalidatedAt,
	)
	return err
}

func (r *PgSessionRepository) GetByID(ctx context.Context, id string) (domain.Session, error) {
	const query = `
		SELECT id, user_id, created_at, invalidated_at
		FROM sessions
		WHERE id = $1
	`
	var session domain.Session
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.CreatedAt,
		&session.InvalidatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Session{}, err
	}
	return session, err
}

func (r *PgSessionRepository) Invalidate(ctx context.Context, id string) error {
	const query = `
		UPDATE sessions
		SET invalidated_at = NOW()
		WHERE id = $1 AND invalidated_at IS NULL
	`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *PgSessionRepository) InvalidateAllForUser(ctx context.Context, userID string) error {
	const query = `
		UPDATE sessions
		SET invalidated_at = NOW()
		WHERE user_id = $1 AND invalidated_at IS NULL
	`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}
