package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BRuslanB/OrderService/internal/domain"
	"github.com/BRuslanB/OrderService/internal/ports"
	"github.com/BRuslanB/OrderService/pkg/metrics"
	"github.com/golang-jwt/jwt/v5"
)

// bearerPrefix — схема заголовка Authorization.
const bearerPrefix = "Bearer "

// tokenClaims — полезная нагрузка токена: subject = имя пользователя,
// roles — список ролей, iat/exp — выдача и абсолютное истечение.
type tokenClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenProvider — выпуск, проверка и отзыв токенов (HS256).
// Проверка денилиста выполняется на каждом Verify: отозванный токен
// отклоняется, даже если криптографически он ещё действителен.
type TokenProvider struct {
	secret   []byte
	ttl      time.Duration
	denylist ports.TokenDenylist
	now      func() time.Time
}

func NewTokenProvider(secret string, ttl time.Duration, denylist ports.TokenDenylist) *TokenProvider {
	return &TokenProvider{
		secret:   []byte(secret),
		ttl:      ttl,
		denylist: denylist,
		now:      time.Now,
	}
}

// Issue — подписывает токен для пользователя с его ролями.
func (p *TokenProvider) Issue(user *domain.User) (string, error) {
	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, string(r))
	}

	now := p.now()
	claims := tokenClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	metrics.TokensIssued.Inc()
	return token, nil
}

// Verify — проверяет подпись, срок действия и денилист.
// Любой дефект токена → domain.ErrTokenInvalid; ошибка хранилища
// денилиста пробрасывается как есть (класс «неожиданный сбой»).
func (p *TokenProvider) Verify(ctx context.Context, token string) (domain.Principal, error) {
	claims, err := p.parse(token)
	if err != nil {
		return domain.Anonymous, err
	}

	revoked, err := p.denylist.IsRevoked(ctx, token)
	if err != nil {
		return domain.Anonymous, fmt.Errorf("denylist check: %w", err)
	}
	if revoked {
		return domain.Anonymous, fmt.Errorf("%w: token revoked", domain.ErrTokenInvalid)
	}

	roles := make([]domain.Role, 0, len(claims.Roles))
	for _, r := range claims.Roles {
		roles = append(roles, domain.Role(r))
	}
	return domain.Principal{Username: claims.Subject, Roles: roles}, nil
}

// Revoke — отзывает действующий токен: кладёт его в денилист с TTL,
// равным остатку срока действия. Невалидный (в т.ч. уже отозванный)
// токен отклоняется без создания записи — денилист не растёт от мусора.
func (p *TokenProvider) Revoke(ctx context.Context, token string) error {
	if _, err := p.Verify(ctx, token); err != nil {
		return err
	}

	claims, err := p.parse(token)
	if err != nil {
		return err
	}

	remaining := claims.ExpiresAt.Sub(p.now())
	if err := p.denylist.Revoke(ctx, token, remaining); err != nil {
		return fmt.Errorf("denylist revoke: %w", err)
	}
	metrics.TokensRevoked.Inc()
	return nil
}

func (p *TokenProvider) parse(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	).ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	return claims, nil
}

// ResolveBearer — достаёт токен из заголовка "Authorization: Bearer <token>".
// Отсутствие или неправильный формат — не ошибка: запрос просто анонимный,
// решение о доступе принимает политика маршрута.
func ResolveBearer(header string) string {
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(header[len(bearerPrefix):])
	}
	return ""
}
