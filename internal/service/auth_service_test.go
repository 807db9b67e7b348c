package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pedroaba/fono-api-c317/internal/domain"
	"github.com/pedroaba/fono-api-c317/internal/repository"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) error {
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, int, error) {
	users := make([]domain.User, 0, len(m.usersByID))
	for _, user := range m.usersByID {
		users = append(users, user)
	}
	return users, len(users), nil
}

func (m *mockUserRepo) Update(_ context.Context, id string, email, name *string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if email != nil {
		delete(m.usersByEmail, user.Email)
		user.Email = *email
		m.usersByEmail[user.Email] = id
	}
	if name != nil {
		user.Name = *name
	}
	m.usersByID[id] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(m.usersByEmail, user.Email)
	delete(m.usersByID, id)
	return nil
}

type mockSessionRepo struct {
	sessions         map[string]domain.Session
	invalidateAllErr error
	invalidateWrites int
	now              func() time.Time
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{
		sessions: make(map[string]domain.Session),
		now:      time.Now,
	}
}

func (m *mockSessionRepo) Create(_ context.Context, session domain.Session) error {
	m.sessions[session.ID] = session
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (domain.Session, error) {
	session, ok := m.sessions[id]
	if !ok {
		return domain.Session{}, pgx.ErrNoRows
	}
	return session, nil
}

func (m *mockSessionRepo) Invalidate(_ context.Context, id string) error {
	session, ok := m.sessions[id]
	if !ok || session.InvalidatedAt != nil {
		return nil
	}
	at := m.now().UTC()
	session.InvalidatedAt = &at
	m.sessions[id] = session
	m.invalidateWrites++
	return nil
}

func (m *mockSessionRepo) InvalidateAllForUser(_ context.Context, userID string) error {
	if m.invalidateAllErr != nil {
		return m.invalidateAllErr
	}
	at := m.now().UTC()
	for id, session := range m.sessions {
		if session.UserID == userID && session.InvalidatedAt == nil {
			session.InvalidatedAt = &at
			m.sessions[id] = session
		}
	}
	return nil
}

func (m *mockSessionRepo) liveCount(userID string) int {
	count := 0
	for _, session := range m.sessions {
		if session.UserID == userID && session.InvalidatedAt == nil {
			count++
		}
	}
	return count
}

func seedUser(t *testing.T, users *mockUserRepo, email, password string) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := domain.User{
		ID:           "user-" + email,
		Email:        email,
		Name:         "Test User",
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestAuthServiceSignIn_Success(t *testing.T) {
	users := newMockUserRepo()
	sessions := newMockSessionRepo()
	user := seedUser(t, users, "user@example.com", "password123")
	svc := NewAuthService(zap.NewNop(), users, sessions, false)

	session, err := svc.SignIn(context.Background(), "user@example.com", "password123")
	if err != nil {
		t.Fatalf("expected sign-in to succeed, got %v", err)
	}
	if session.UserID != user.ID {
		t.Fatalf("expected session owned by %q, got %q", user.ID, session.UserID)
	}

	resolved, err := svc.ResolveSession(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("expected fresh session to resolve, got %v", err)
	}
	if resolved.ID != session.ID {
		t.Fatalf("expected session %q, got %q", session.ID, resolved.ID)
	}
}

func TestAuthServiceSignIn_UnknownEmailAndWrongPasswordLookSame(t *testing.T) {
	users := newMockUserRepo()
	sessions := newMockSessionRepo()
	seedUser(t, users, "user@example.com", "password123")
	svc := NewAuthService(zap.NewNop(), users, sessions, false)

	_, errUnknown := svc.SignIn(context.Background(), "missing@example.com", "password123")
	_, errWrongPass := svc.SignIn(context.Background(), "user@example.com", "wrong-password")

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", errUnknown)
	}
	if !errors.Is(errWrongPass, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", errWrongPass)
	}
}

func TestAuthServiceSignIn_InvalidatesPriorSessions(t *testing.T) {
	users := newMockUserRepo()
	sessions := newMockSessionRepo()
	user := seedUser(t, users, "user@example.com", "password123")
	svc := NewAuthService(zap.NewNop(), users, sessions, false)

	for i := 0; i < 3; i++ {
		if _, err := svc.SignIn(context.Background(), "user@example.com", "password123"); err != nil {
			t.Fatalf("sign-in %d failed: %v", i, err)
		}
	}

	if got := sessions.liveCount(user.ID); got != 1 {
		t.Fatalf("expected exactly 1 live session after repeated sign-ins, got %d", got)
	}
}

func TestAuthServiceSignIn_SurvivesInvalidationFailure(t *testing.T) {
	users := newMockUserRepo()
	sessions := newMockSessionRepo()
	sessions.invalidateAllErr = errors.New("store down")
	seedUser(t, users, "user@example.com", "password123")
	svc := NewAuthService(zap.NewNop(), users, sessions, false)

	session, err := svc.SignIn(context.Background(), "user@example.com", "password123")
	if err != nil {
		t.Fatalf("expected sign-in to succeed despite invalidation failure, got %v", err)
	}
	if session.ID == "" {
		t.Fatalf("expected a session to be issued")
	}
}

func TestAuthServiceResolveSession_None(t *testing.T) {
	users := newMockUserRepo()
	sessions := newMockSessionRepo()
	svc := NewAuthService(zap.NewNop(), users, sessions, false)

	if _, err := svc.ResolveSession(context.Background(), ""); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession for empty token, got %v", err)
	}
	if _, err := svc.ResolveSession(context.Background(), "dev:deadbeef"); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession for unknown token, got %v", err)
	}
}

func TestAuthServiceResolveSession_ExpiryBoundary(t *testing.T) {
	users := newMockUserRepo()
	sessions := newMockSessionRepo()
	seedUser(t, users, "user@example.com", "password123")
	svc := NewAuthService(zap.NewNop(), users, sessions, false)

	session, err := svc.SignIn(context.Background(), "user@example.com", "password123")
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}

	svc.now = func() time.Time { return session.CreatedAt.Add(47 * time.Hour) }
	if _, err := svc.ResolveSession(context.Background(), session.ID); err != nil {
		t.Fatalf("expected session at 1d23h to be live, got %v", err)
	}

	svc.now = func() time.Time { return session.CreatedAt.Add(49 * time.Hour) }
	if _, err := svc.ResolveSession(context.Background(), session.ID); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected session at 2d1h to be expired, got %v", err)
	}

	// Expiração é propriedade de leitura: a linha continua sem invalidated_at.
	stored, err := sessions.GetByID(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("stored session lookup failed: %v", err)
	}
	if stored.InvalidatedAt != nil {
		t.Fatalf("expected expired session to keep null invalidated_at")
	}
}

func TestAuthServiceSignOut_Idempotent(t *testing.T) {
	users := newMockUserRepo()
	sessions := newMockSessionRepo()
	seedUser(t, users, "user@example.com", "password123")
	svc := NewAuthService(zap.NewNop(), users, sessions, false)

	session, err := svc.SignIn(context.Background(), "user@example.com", "password123")
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}

	if err := svc.SignOut(context.Background(), session.ID); err != nil {
		t.Fatalf("first sign-out failed: %v", err)
	}
	firstWrites := sessions.invalidateWrites
	if err := svc.SignOut(context.Background(), session.ID); err != nil {
		t.Fatalf("second sign-out failed: %v", err)
	}
	if sessions.invalidateWrites != firstWrites {
		t.Fatalf("expected repeated sign-out to be a no-op on the store")
	}

	if _, err := svc.ResolveSession(context.Background(), session.ID); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected signed-out session to resolve to none, got %v", err)
	}
}

func TestAuthServiceSessionSupersession(t *testing.T) {
	users := newMockUserRepo()
	sessions := newMockSessionRepo()
	seedUser(t, users, "u1@example.com", "password123")
	svc := NewAuthService(zap.NewNop(), users, sessions, false)

	sessionA, err := svc.SignIn(context.Background(), "u1@example.com", "password123")
	if err != nil {
		t.Fatalf("first sign-in failed: %v", err)
	}
	sessionB, err := svc.SignIn(context.Background(), "u1@example.com", "password123")
	if err != nil {
		t.Fatalf("second sign-in failed: %v", err)
	}

	if _, err := svc.ResolveSession(context.Background(), sessionA.ID); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected superseded session A to resolve to none, got %v", err)
	}
	if _, err := svc.ResolveSession(context.Background(), sessionB.ID); err != nil {
		t.Fatalf("expected session B to be live, got %v", err)
	}

	if err := svc.SignOut(context.Background(), sessionB.ID); err != nil {
		t.Fatalf("sign-out failed: %v", err)
	}
	if _, err := svc.ResolveSession(context.Background(), sessionB.ID); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected signed-out session B to resolve to none, got %v", err)
	}
}

func TestAuthServiceIdentity_UserDeleted(t *testing.T) {
	users := newMockUserRepo()
	sessions := newMockSessionRepo()
	user := seedUser(t, users, "user@example.com", "password123")
	svc := NewAuthService(zap.NewNop(), users, sessions, false)

	session, err := svc.SignIn(context.Background(), "user@example.com", "password123")
	if err != nil {
		t.Fatalf("sign-in failed: %v", err)
	}

	if err := users.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, _, err := svc.Identity(context.Background(), session.ID); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected identity of deleted user to resolve to none, got %v", err)
	}
}

func TestWholeDays(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 0},
		{23 * time.Hour, 0},
		{24 * time.Hour, 1},
		{47 * time.Hour, 1},
		{48 * time.Hour, 2},
		{49 * time.Hour, 2},
		{-time.Hour, 0},
	}
	for _, tc := range cases {
		if got := wholeDays(base, base.Add(tc.elapsed)); got != tc.want {
			t.Fatalf("wholeDays(%v) = %d, want %d", tc.elapsed, got, tc.want)
		}
	}
}
