package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/BRuslanB/OrderService/internal/auth"
	"github.com/BRuslanB/OrderService/internal/domain"
	"github.com/BRuslanB/OrderService/internal/ports"
)

// Проверка, что AuthService удовлетворяет интерфейсу верхнего уровня (порт приложения).
var _ ports.AuthService = (*AuthService)(nil)

// tokenProvider — зависимость на выпуск/отзыв токенов;
// сужена до нужных методов ради подмены в тестах.
type tokenProvider interface {
	Issue(user *domain.User) (string, error)
	Revoke(ctx context.Context, token string) error
}

// AuthService — регистрация, вход и выход.
// Ошибки входа не различают «нет пользователя» и «неверный пароль»:
// обе отдаются как ErrUnauthorized, чтобы не подсказывать перебором.
type AuthService struct {
	users  ports.UserRepository
	tokens tokenProvider
	log    ports.Logger
}

// NewAuthService — DI-конструктор.
func NewAuthService(users ports.UserRepository, tokens tokenProvider, log ports.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Signup — регистрирует пользователя с базовой ролью USER.
// Имя и почта должны быть свободны.
func (s *AuthService) Signup(ctx context.Context, username, password, email string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || password == "" || email == "" {
		return fmt.Errorf("%w: username, password and email are required", domain.ErrInvalidInput)
	}

	if taken, err := s.users.ExistsByUsername(ctx, username); err != nil {
		s.log.Errorf(ctx, "exists by username failed user=%s err=%v", username, err)
		return err
	} else if taken {
		return fmt.Errorf("%w: username %q is already taken", domain.ErrInvalidInput, username)
	}

	if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
		s.log.Errorf(ctx, "exists by email failed err=%v", err)
		return err
	} else if taken {
		return fmt.Errorf("%w: email is already in use", domain.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Enabled:      true,
		Roles:        []domain.Role{domain.RoleUser},
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.log.Errorf(ctx, "user create failed user=%s err=%v", username, err)
		return err
	}

	s.log.Infof(ctx, "user registered user=%s", username)
	return nil
}

// Login — проверяет учётные данные и выдаёт подписанный токен.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		s.log.Errorf(ctx, "get user failed user=%s err=%v", username, err)
		return "", err
	}
	if user == nil || !user.Enabled || !auth.CheckPassword(user.PasswordHash, password) {
		return "", fmt.Errorf("%w: bad credentials", domain.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.log.Errorf(ctx, "token issue failed user=%s err=%v", username, err)
		return "", err
	}

	s.log.Infof(ctx, "user logged in user=%s", username)
	return token, nil
}

// Logout — отзывает токен (помещает в денилист до его естественного истечения).
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		return err
	}
	s.log.Infof(ctx, "token revoked")
	return nil
}
