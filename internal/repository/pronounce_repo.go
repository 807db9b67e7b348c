package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedroaba/fono-api-c317/internal/domain"
)

// PronounceWithOwner agrega um pronounce com o dono e os testes ligados a
// ele, como a listagem expõe.
type PronounceWithOwner struct {
	Pronounce domain.Pronounce
	Owner     domain.User
	Tests     []domain.PronounceTest
}

// PronounceRepository define o contrato de persistência para pronounces.
type PronounceRepository interface {
	Create(ctx context.Context, pronounce domain.Pronounce) error
	List(ctx context.Context, page, limit int) ([]PronounceWithOwner, int, error)
	Delete(ctx context.Context, id string) error
}

type PgPronounceRepository struct {
	pool *pgxpool.Pool
}

func NewPgPronounceRepository(pool *pgxpool.Pool) *PgPronounceRepository {
	return &PgPronounceRepository{pool: pool}
}

func (r *PgPronounceRepository) Create(ctx context.Context, pronounce domain.Pronounce) error {
	const query = `
		INSERT INTO pronounces (id, user_id, word, speak, embedding, score, feedback, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		pronounce.ID,
		pronounce.UserID,
		pronounce.Word,
		pronounce.Speak,
		pronounce.Embedding,
		pronounce.Score,
		pronounce.Feedback,
		pronounce.CreatedAt,
		pronounce.UpdatedAt,
	)
	return err
}

func (r *PgPronounceRepository) List(ctx context.Context, page, limit int) ([]PronounceWithOwner, int, error) {
	const query = `
		SELECT p.id, p.user_id, p.word, p.speak, p.embedding, p.score, p.feedback, p.created_at, p.updated_at,
		       u.id, u.email, u.name, u.password_hash, u.created_at, u.updated_at
		FROM pronounces p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`
	offset := (page - 1) * limit
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]PronounceWithOwner, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var item PronounceWithOwner
		p := &item.Pronounce
		u := &item.Owner
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Word, &p.Speak, &p.Embedding, &p.Score, &p.Feedback, &p.CreatedAt, &p.UpdatedAt,
			&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		item.Tests = make([]domain.PronounceTest, 0)
		items = append(items, item)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.attachTests(ctx, items, ids); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pronounces`).Scan(&total); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *PgPronounceRepository) attachTests(ctx context.Context, items []PronounceWithOwner, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	const query = `
		SELECT id, user_id, session_test_id, pronounce_id, score, feedback, created_at, updated_at
		FROM pronounce_tests
		WHERE pronounce_id = ANY($1)
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	byPronounce := make(map[string][]domain.PronounceTest)
	for rows.Next() {
		var t domain.PronounceTest
		var pronounceID *string
		if err := rows.Scan(&t.ID, &t.UserID, &t.SessionTestID, &pronounceID, &t.Score, &t.Feedback, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return err
		}
		if pronounceID != nil {
			t.PronounceID = pronounceID
			byPronounce[*pronounceID] = append(byPronounce[*pronounceID], t)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range items {
		if tests, ok := byPronounce[items[i].Pronounce.ID]; ok {
			items[i].Tests = tests
		}
	}
	return nil
}

func (r *PgPronounceRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pronounces WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
