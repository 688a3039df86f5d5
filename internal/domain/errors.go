package domain

import "errors"

// Таксономия ошибок сервиса. Транспорт мапит их в HTTP-статусы через errors.Is.
var (
	// ErrNotFound — сущность отсутствует или мягко удалена (точечный поиск).
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized — личность вызывающего не установлена: токена нет,
	// он просрочен, отозван или не проходит проверку подписи.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden — аутентифицирован, но не владелец и не админ.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput — ошибка валидации входных данных.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotAuthenticated — нарушение предусловия: операция требует
	// аутентификации, а адаптер передал анонимного вызывающего.
	// Это баг адаптера, а не проблема учётных данных (не ErrUnauthorized).
	ErrNotAuthenticated = errors.New("caller is not authenticated")

	// ErrTokenInvalid — токен не является корректным действующим токеном.
	ErrTokenInvalid = errors.New("invalid token")
)
