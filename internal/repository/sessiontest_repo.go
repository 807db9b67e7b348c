package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedroaba/fono-api-c317/internal/domain"
)

// SessionTestRepository define o contrato de persistência para session tests.
type SessionTestRepository interface {
	Create(ctx context.Context, test domain.SessionTest) error
	GetByIDAndUser(ctx context.Context, id, userID string) (domain.SessionTest, error)
	ListByUser(ctx context.Context, userID string) ([]domain.SessionTest, error)
	Delete(ctx context.Context, id string) error
}

type PgSessionTestRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionTestRepository(pool *pgxpool.Pool) *PgSessionTestRepository {
	return &PgSessionTestRepository{pool: pool}
}

func (r *PgSessionTestRepository) Create(ctx context.Context, test domain.SessionTest) error {
	const query = `
		INSERT INTO session_tests (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query, test.ID, test.UserID, test.CreatedAt, test.UpdatedAt)
	return err
}

func (r *PgSessionTestRepository) GetByIDAndUser(ctx context.Context, id, userID string) (domain.SessionTest, error) {
	const query = `
		SELECT id, user_id, created_at, updated_at
		FROM session_tests
		WHERE id = $1 AND user_id = $2
	`
	var t domain.SessionTest
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(&t.ID, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *PgSessionTestRepository) ListByUser(ctx context.Context, userID string) ([]domain.SessionTest, error) {
	const query = `
		SELECT id, user_id, created_at, updated_at
		FROM session_tests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.SessionTest, 0)
	for rows.Next() {
		var t domain.SessionTest
		if err := rows.Scan(&t.ID, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *PgSessionTestRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM session_tests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
