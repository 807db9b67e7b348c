package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedroaba/fono-api-c317/internal/domain"
)

// PronounceTestRepository define o contrato de persistência para pronounce
// tests.
type PronounceTestRepository interface {
	Create(ctx context.Context, test domain.PronounceTest) error
	GetByID(ctx context.Context, id string) (domain.PronounceTest, error)
	ListBySessionTest(ctx context.Context, sessionTestID string) ([]domain.PronounceTest, error)
	Update(ctx context.Context, id string, score *int, feedback *string) (domain.PronounceTest, error)
	Delete(ctx context.Context, id string) error
}

type PgPronounceTestRepository struct {
	pool *pgxpool.Pool
}

func NewPgPronounceTestRepository(pool *pgxpool.Pool) *PgPronounceTestRepository {
	return &PgPronounceTestRepository{pool: pool}
}

func (r *PgPronounceTestRepository) Create(ctx context.Context, test domain.PronounceTest) error {
	const query = `
		INSERT INTO pronounce_tests (id, user_id, session_test_id, pronounce_id, score, feedback, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		test.ID,
		test.UserID,
		test.SessionTestID,
		test.PronounceID,
		test.Score,
		test.Feedback,
		test.CreatedAt,
		test.UpdatedAt,
	)
	return err
}

func (r *PgPronounceTestRepository) GetByID(ctx context.Context, id string) (domain.PronounceTest, error) {
	const query = `
		SELECT id, user_id, session_test_id, pronounce_id, score, feedback, created_at, updated_at
		FROM pronounce_tests
		WHERE id = $1
	`
	return r.scanTest(r.pool.QueryRow(ctx, query, id))
}

func (r *PgPronounceTestRepository) ListBySessionTest(ctx context.Context, sessionTestID string) ([]domain.PronounceTest, error) {
	const query = `
		SELECT id, user_id, session_test_id, pronounce_id, score, feedback, created_at, updated_at
		FROM pronounce_tests
		WHERE session_test_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, sessionTestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.PronounceTest, 0)
	for rows.Next() {
		var t domain.PronounceTest
		if err := rows.Scan(&t.ID, &t.UserID, &t.SessionTestID, &t.PronounceID, &t.Score, &t.Feedback, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *PgPronounceTestRepository) Update(ctx context.Context, id string, score *int, feedback *string) (domain.PronounceTest, error) {
	const query = `
		UPDATE pronounce_tests
		SET score = COALESCE($2, score),
		    feedback = COALESCE($3, feedback),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, user_id, session_test_id, pronounce_id, score, feedback, created_at, updated_at
	`
	return r.scanTest(r.pool.QueryRow(ctx, query, id, score, feedback))
}

func (r *PgPronounceTestRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pronounce_tests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgPronounceTestRepository) scanTest(row pgx.Row) (domain.PronounceTest, error) {
	var t domain.PronounceTest
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.SessionTestID,
		&t.PronounceID,
		&t.Score,
		&t.Feedback,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PronounceTest{}, err
	}
	return t, err
}
