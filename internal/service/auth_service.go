package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pedroaba/fono-api-c317/internal/domain"
	"github.com/pedroaba/fono-api-c317/internal/repository"
)

// SessionLifetimeDays limita a idade de uma sessão em dias inteiros.
const SessionLifetimeDays = 2

// SessionMaxAge é a duração usada no cookie de sessão.
const SessionMaxAge = SessionLifetimeDays * 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoActiveSession    = errors.New("no active session")
)

// AuthService concentra emissão, resolução e invalidação de sessões.
type AuthService struct {
	logger     *zap.Logger
	users      repository.UserRepository
	sessions   repository.SessionRepository
	production bool
	now        func() time.Time
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, sessions repository.SessionRepository, production bool) *AuthService {
	return &AuthService{
		logger:     logger,
		users:      users,
		sessions:   sessions,
		production: production,
		now:        time.Now,
	}
}

// SignIn valida credenciais e emite uma nova sessão. Email desconhecido e
// senha errada retornam o mesmo ErrInvalidCredentials para não permitir
// enumeração de usuários.
func (s *AuthService) SignIn(ctx context.Context, emailAddr, password string) (domain.Session, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" || password == "" {
		return domain.Session{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, ErrInvalidCredentials
		}
		return domain.Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.Session{}, ErrInvalidCredentials
	}

	// Melhor esforço: uma falha aqui não pode bloquear o login. Sessões
	// órfãs acabam expirando pela regra de idade.
	s.InvalidateAllSessions(ctx, user.ID)

	session := domain.Session{
		ID:        NewSessionToken(s.production),
		UserID:    user.ID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.Session{}, err
	}

	return session, nil
}

// SignOut invalida a sessão informada. Repetir a operação é um no-op.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	return s.sessions.Invalidate(ctx, sessionID)
}

// ResolveSession devolve a sessão viva para o token, ou ErrNoActiveSession.
// Expiração é calculada na leitura comparando timestamps; nada é escrito de
// volta, então uma sessão expirada continua com invalidated_at nulo.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, ErrNoActiveSession
	}

	session, err := s.sessions.GetByID(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, ErrNoActiveSession
		}
		return domain.Session{}, err
	}
	if session.InvalidatedAt != nil {
		return domain.Session{}, ErrNoActiveSession
	}
	if wholeDays(session.CreatedAt, s.now()) >= SessionLifetimeDays {
		return domain.Session{}, ErrNoActiveSession
	}

	return session, nil
}

// Identity resolve token em sessão viva e usuário dono, numa passada só.
// Usuário removido depois da emissão da sessão conta como não autenticado,
// não como erro.
func (s *AuthService) Identity(ctx context.Context, token string) (domain.Session, domain.User, error) {
	session, err := s.ResolveSession(ctx, token)
	if err != nil {
		return domain.Session{}, domain.User{}, err
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, domain.User{}, ErrNoActiveSession
		}
		return domain.Session{}, domain.User{}, err
	}

	return session, user, nil
}

// ResolveUser devolve o usuário dono da sessão viva do token.
func (s *AuthService) ResolveUser(ctx context.Context, token string) (domain.User, error) {
	_, user, err := s.Identity(ctx, token)
	return user, err
}

// InvalidateAllSessions invalida em lote as sessões vivas do usuário.
// Falhas são registradas e engolidas: o chamador (login, exclusão de conta)
// segue em frente.
func (s *AuthService) InvalidateAllSessions(ctx context.Context, userID string) {
	if err := s.sessions.InvalidateAllForUser(ctx, userID); err != nil {
		s.logger.Warn("invalidate user sessions failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

// wholeDays conta dias inteiros decorridos entre dois instantes.
func wholeDays(from, to time.Time) int {
	diff := to.Sub(from)
	if diff < 0 {
		return 0
	}
	return int(diff.Hours() / 24)
}
