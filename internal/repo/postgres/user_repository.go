package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/BRuslanB/OrderService/internal/domain"
	"github.com/BRuslanB/OrderService/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что UserRepository удовлетворяет интерфейсу UserRepository.
var _ ports.UserRepository = (*UserRepository)(nil)

// UserRepository — реализация репозитория пользователей на Postgres (pgxpool).
// Роли нормализованы: roles — справочник, user_roles — связка many-to-many.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository - конструктор UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository { return &UserRepository{pool: pool} }

// Create — транзакционно создаёт пользователя и привязывает его роли.
// Роли берутся из справочника по имени; неизвестная роль — ошибка.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil || user.Username == "" {
		return errors.New("user is empty or username is required")
	}

	transaction, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// При уже завершённой транзакции Rollback вернёт ErrTxClosed — игнорируем.
		if rbErr := transaction.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	if err = transaction.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, email, enabled)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, user.Username, user.PasswordHash, user.Email, user.Enabled).Scan(&user.ID); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	for _, role := range user.Roles {
		tag, err := transaction.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id)
			SELECT $1, id FROM roles WHERE name = $2
		`, user.ID, string(role))
		if err != nil {
			return fmt.Errorf("bind role %q: %w", role, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("bind role %q: role not found", role)
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetByUsername — пользователь вместе с ролями. Если не нашли, возвращает (nil, nil).
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User

	err := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, email, enabled
		FROM users WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.Enabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT r.name
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`, user.ID)
	if err != nil {
		return nil, fmt.Errorf("select roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		user.Roles = append(user.Roles, domain.Role(name))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("roles rows: %w", err)
	}

	return &user, nil
}

// ExistsByUsername — проверка занятости имени пользователя.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)
	`, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists by username: %w", err)
	}
	return exists, nil
}

// ExistsByEmail — проверка занятости адреса почты.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists by email: %w", err)
	}
	return exists, nil
}
