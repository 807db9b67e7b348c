package domain

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// User representa uma conta da aplicação. O hash de senha nunca sai pela API.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session é o artefato de autenticação. O ID é o próprio bearer token
// enviado no cookie. InvalidatedAt só transiciona de nil para um instante,
// nunca o contrário.
type Session struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	CreatedAt     time.Time  `json:"created_at"`
	InvalidatedAt *time.Time `json:"invalidated_at,omitempty"`
}

// Pronounce guarda uma prática de pronúncia de uma palavra.
type Pronounce struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Word      string          `json:"word"`
	Speak     []int32         `json:"speak"`
	Embedding pgvector.Vector `json:"embedding"`
	Score     int             `json:"score"`
	Feedback  string          `json:"feedback"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SessionTest agrupa pronounce tests de um usuário.
type SessionTest struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PronounceTest é um teste pontuado dentro de um session test. A ligação
// com um pronounce é opcional.
type PronounceTest struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	SessionTestID string    `json:"session_test_id"`
	PronounceID   *string   `json:"pronounce_id,omitempty"`
	Score         *int      `json:"score"`
	Feedback      *string   `json:"feedback"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
