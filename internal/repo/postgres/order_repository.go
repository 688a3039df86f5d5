package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BRuslanB/OrderService/internal/domain"
	"github.com/BRuslanB/OrderService/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что OrderRepository удовлетворяет интерфейсу OrderRepository.
var _ ports.OrderRepository = (*OrderRepository)(nil)

// OrderRepository — реализация репозитория заказов на Postgres (pgxpool).
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository - конструктор OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository { return &OrderRepository{pool: pool} }

const orderColumns = `order_id, customer_name, total_price, status, deleted, created_at, updated_at`

// Create — транзакционно вставляет новый заказ вместе с позициями.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order == nil || order.OrderID == "" {
		return errors.New("order is empty or order_id is required")
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

	if _, err = transaction.Exec(ctx, `
		INSERT INTO orders (
			order_id, customer_name, total_price, status, deleted, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		order.OrderID, order.CustomerName, order.TotalPrice, string(order.Status),
		order.Deleted, order.CreatedAt, order.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if len(order.Products) > 0 {
		if err = copyProducts(ctx, transaction, order.OrderID, order.Products); err != nil {
			return err
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Save — транзакционно сохраняет заказ целиком (идемпотентный upsert
// основной записи + replace позиций: удаляем и вставляем список заново).
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if order == nil || order.OrderID == "" {
		return errors.New("order is empty or order_id is required")
	}

	transaction, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := transaction.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	// 1) orders — upsert по order_id (PRIMARY KEY).
	if _, err = transaction.Exec(ctx, `
		INSERT INTO orders (
			order_id, customer_name, total_price, status, deleted, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_id) DO UPDATE SET
			customer_name = EXCLUDED.customer_name,
			total_price = EXCLUDED.total_price,
			status = EXCLUDED.status,
			deleted = EXCLUDED.deleted,
			updated_at = EXCLUDED.updated_at
	`,
		order.OrderID, order.CustomerName, order.TotalPrice, string(order.Status),
		order.Deleted, order.CreatedAt, order.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}

	// 2) products — replace: удаляем и вставляем список заново.
	if _, err = transaction.Exec(ctx, `DELETE FROM products WHERE order_id = $1`, order.OrderID); err != nil {
		return fmt.Errorf("delete products: %w", err)
	}
	if len(order.Products) > 0 {
		if err = copyProducts(ctx, transaction, order.OrderID, order.Products); err != nil {
			return err
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetByID — получить заказ по id, включая мягко удалённые.
// Если записи нет вовсе, возвращает (nil, nil).
func (r *OrderRepository) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var order domain.Order
	var status string

	err := r.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE order_id = $1
	`, orderID).Scan(&order.OrderID, &order.CustomerName, &order.TotalPrice, &status,
		&order.Deleted, &order.CreatedAt, &order.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}
	order.Status = domain.Status(status)

	// products (0..N)
	rows, err := r.pool.Query(ctx, `
		SELECT name, price, quantity
		FROM products WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(&product.Name, &product.Price, &product.Quantity); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		order.Products = append(order.Products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("products rows: %w", err)
	}

	return &order, nil
}

// ListNotDeleted — все живые заказы (без фильтра).
func (r *OrderRepository) ListNotDeleted(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE NOT deleted
		ORDER BY created_at DESC, order_id DESC
	`)
}

// ListFiltered — живые заказы, удовлетворяющие фильтру.
// Условия необязательные и объединяются по AND; пустой фильтр
// эквивалентен ListNotDeleted.
func (r *OrderRepository) ListFiltered(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	conditions := []string{"NOT deleted"}
	args := make([]any, 0, 3)

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conditions = append(conditions, fmt.Sprintf("total_price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("total_price <= $%d", len(args)))
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY created_at DESC, order_id DESC
	`
	return r.list(ctx, query, args...)
}

// list — общий путь листингов: база заказов одним запросом,
// затем products для всех ID страницы через ANY, склейка в памяти.
func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	byID := make(map[string]*domain.Order)
	ids := make([]string, 0)

	for rows.Next() {
		order := &domain.Order{}
		var status string
		if err := rows.Scan(
			&order.OrderID, &order.CustomerName, &order.TotalPrice, &status,
			&order.Deleted, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order base: %w", err)
		}
		order.Status = domain.Status(status)
		orders = append(orders, order)
		byID[order.OrderID] = order
		ids = append(ids, order.OrderID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders rows: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil // пустой список
	}

	// Products для всех ID списка (сбор в map).
	pRows, err := r.pool.Query(ctx, `
		SELECT order_id, name, price, quantity
		FROM products
		WHERE order_id = ANY($1::text[])
		ORDER BY order_id, id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	for pRows.Next() {
		var id string
		var product domain.Product
		if err := pRows.Scan(&id, &product.Name, &product.Price, &product.Quantity); err != nil {
			pRows.Close()
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if order := byID[id]; order != nil {
			order.Products = append(order.Products, product)
		}
	}
	if err := pRows.Err(); err != nil {
		pRows.Close()
		return nil, fmt.Errorf("products rows: %w", err)
	}
	pRows.Close()

	return orders, nil
}

// copyProducts — вставка products через COPY (CopyFromRows); быстрее, чем INSERT в цикле.
func copyProducts(ctx context.Context, tx pgx.Tx, orderID string, products []domain.Product) error {
	rows := make([][]any, 0, len(products))
	for _, product := range products {
		rows = append(rows, []any{orderID, product.Name, product.Price, product.Quantity})
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"products"},
		[]string{"order_id", "name", "price", "quantity"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy products: %w", err)
	}
	return nil
}
