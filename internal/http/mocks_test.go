package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pedroaba/fono-api-c317/internal/domain"
	"github.com/pedroaba/fono-api-c317/internal/repository"
	"github.com/pedroaba/fono-api-c317/internal/transcription"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	lastFilter   repository.UserFilter
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
	m.lastFilter = filter
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
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]domain.Session)}
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
	at := time.Now().UTC()
	session.InvalidatedAt = &at
	m.sessions[id] = session
	return nil
}

func (m *mockSessionRepo) InvalidateAllForUser(_ context.Context, userID string) error {
	if m.invalidateAllErr != nil {
		return m.invalidateAllErr
	}
	at := time.Now().UTC()
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

type mockSessionTestRepo struct {
	tests map[string]domain.SessionTest
}

func newMockSessionTestRepo() *mockSessionTestRepo {
	return &mockSessionTestRepo{tests: make(map[string]domain.SessionTest)}
}

func (m *mockSessionTestRepo) Create(_ context.Context, test domain.SessionTest) error {
	m.tests[test.ID] = test
	return nil
}

func (m *mockSessionTestRepo) GetByIDAndUser(_ context.Context, id, userID string) (domain.SessionTest, error) {
	test, ok := m.tests[id]
	if !ok || test.UserID != userID {
		return domain.SessionTest{}, pgx.ErrNoRows
	}
	return test, nil
}

func (m *mockSessionTestRepo) ListByUser(_ context.Context, userID string) ([]domain.SessionTest, error) {
	items := make([]domain.SessionTest, 0)
	for _, test := range m.tests {
		if test.UserID == userID {
			items = append(items, test)
		}
	}
	return items, nil
}

func (m *mockSessionTestRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.tests[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.tests, id)
	return nil
}

type mockPronounceTestRepo struct {
	tests map[string]domain.PronounceTest
}

func newMockPronounceTestRepo() *mockPronounceTestRepo {
	return &mockPronounceTestRepo{tests: make(map[string]domain.PronounceTest)}
}

func (m *mockPronounceTestRepo) Create(_ context.Context, test domain.PronounceTest) error {
	m.tests[test.ID] = test
	return nil
}

func (m *mockPronounceTestRepo) GetByID(_ context.Context, id string) (domain.PronounceTest, error) {
	test, ok := m.tests[id]
	if !ok {
		return domain.PronounceTest{}, pgx.ErrNoRows
	}
	return test, nil
}

func (m *mockPronounceTestRepo) ListBySessionTest(_ context.Context, sessionTestID string) ([]domain.PronounceTest, error) {
	items := make([]domain.PronounceTest, 0)
	for _, test := range m.tests {
		if test.SessionTestID == sessionTestID {
			items = append(items, test)
		}
	}
	return items, nil
}

func (m *mockPronounceTestRepo) Update(_ context.Context, id string, score *int, feedback *string) (domain.PronounceTest, error) {
	test, ok := m.tests[id]
	if !ok {
		return domain.PronounceTest{}, pgx.ErrNoRows
	}
	if score != nil {
		test.Score = score
	}
	if feedback != nil {
		test.Feedback = feedback
	}
	test.UpdatedAt = time.Now().UTC()
	m.tests[id] = test
	return test, nil
}

func (m *mockPronounceTestRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.tests[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.tests, id)
	return nil
}

type mockPronounceRepo struct {
	pronounces map[string]domain.Pronounce
	owner      domain.User
}

func newMockPronounceRepo() *mockPronounceRepo {
	return &mockPronounceRepo{pronounces: make(map[string]domain.Pronounce)}
}

func (m *mockPronounceRepo) Create(_ context.Context, pronounce domain.Pronounce) error {
	m.pronounces[pronounce.ID] = pronounce
	return nil
}

func (m *mockPronounceRepo) List(_ context.Context, page, limit int) ([]repository.PronounceWithOwner, int, error) {
	items := make([]repository.PronounceWithOwner, 0, len(m.pronounces))
	for _, pronounce := range m.pronounces {
		owner := m.owner
		if owner.ID == "" {
			owner = domain.User{ID: pronounce.UserID}
		}
		items = append(items, repository.PronounceWithOwner{
			Pronounce: pronounce,
			Owner:     owner,
			Tests:     []domain.PronounceTest{},
		})
	}
	return items, len(m.pronounces), nil
}

func (m *mockPronounceRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.pronounces[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.pronounces, id)
	return nil
}

type stubTranscriptionClient struct {
	healthy bool
	result  transcription.Result
	err     error
}

func (s *stubTranscriptionClient) Transcribe(_ context.Context, _ []byte, _ string) (transcription.Result, error) {
	if s.err != nil {
		return transcription.Result{}, s.err
	}
	return s.result, nil
}

func (s *stubTranscriptionClient) Healthy(_ context.Context) bool {
	return s.healthy
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

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	return performRequestWithCookie(r, method, path, body, "")
}

func performRequestWithCookie(r http.Handler, method, path string, body interface{}, sessionToken string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sessionToken})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func init() {
	gin.SetMode(gin.TestMode)
}
