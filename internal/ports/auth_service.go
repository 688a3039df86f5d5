package ports

import "context"

// AuthService — регистрация, вход и выход.
type AuthService interface {
	// Signup — регистрирует пользователя с базовой ролью USER.
	Signup(ctx context.Context, username, password, email string) error

	// Login — проверяет учётные данные и выдаёт подписанный токен.
	Login(ctx context.Context, username, password string) (string, error)

	// Logout — отзывает токен (помещает в денилист до его естественного истечения).
	Logout(ctx context.Context, token string) error
}
