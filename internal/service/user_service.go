package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pedroaba/fono-api-c317/internal/domain"
	"github.com/pedroaba/fono-api-c317/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserService coordena regras de negócio para usuários.
type UserService struct {
	logger   *zap.Logger
	users    repository.UserRepository
	sessions repository.SessionRepository
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, sessions repository.SessionRepository) *UserService {
	return &UserService{
		logger:   logger,
		users:    users,
		sessions: sessions,
	}
}

type CreateUserInput struct {
	Email    string
	Password string
	Name     string
}

func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (domain.User, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(input.Email))

	_, err := s.users.GetByEmail(ctx, emailAddr)
	if err == nil {
		return domain.User{}, ErrEmailTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: string(hashBytes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, int, error) {
	return s.users.List(ctx, filter)
}

func (s *UserService) UpdateUser(ctx context.Context, id string, email, name *string) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	if email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*email))
		email = &normalized
	}
	return s.users.Update(ctx, id, email, name)
}

// DeleteUser invalida as sessões vivas do usuário antes de remover a conta.
// A invalidação é melhor esforço: falha nela não impede a exclusão.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}

	if err := s.sessions.InvalidateAllForUser(ctx, id); err != nil {
		s.logger.Warn("invalidate sessions before delete failed",
			zap.String("user_id", id),
			zap.Error(err),
		)
	}

	return s.users.Delete(ctx, id)
}
