package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"catalogo-millex/db"
	"catalogo-millex/models"
)

const defaultListLimit = 50

// Fixed-width so created_at sorts as text
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// OrderRepository logs handed-off orders in a SQL database
// Implements OrderRepositoryInterface
type OrderRepository struct {
	conn   *sql.DB
	driver string
	logger *zap.Logger
}

// NewOrderRepository creates a new OrderRepository; driver selects placeholder style
func NewOrderRepository(conn *sql.DB, driver string, logger *zap.Logger) *OrderRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderRepository{conn: conn, driver: driver, logger: logger}
}

// Ensure OrderRepository implements OrderRepositoryInterface
var _ OrderRepositoryInterface = (*OrderRepository)(nil)

// Save inserts an order as a single row; lines are stored as JSON
func (r *OrderRepository) Save(ctx context.Context, order *models.Order) error {
	lines, err := json.Marshal(order.Summary.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode order lines: %w", err)
	}

	query := db.Rebind(r.driver, `
		INSERT INTO orders (id, session_id, total, item_count, lines, message, handoff_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = r.conn.ExecContext(ctx, query,
		order.ID,
		order.SessionID,
		order.Summary.Total.String(),
		order.Summary.ItemCount,
		string(lines),
		order.Message,
		order.HandoffURL,
		order.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		r.logger.Error("❌ failed to insert order", zap.String("orderId", order.ID), zap.Error(err))
		return fmt.Errorf("failed to insert order: %w", err)
	}

	r.logger.Info("💾 order saved", zap.String("orderId", order.ID), zap.String("total", order.Summary.Total.String()))
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := db.Rebind(r.driver, `
		SELECT id, session_id, total, item_count, lines, message, handoff_url, created_at
		FROM orders
		WHERE id = ?
	`)
	order, err := scanOrder(r.conn.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	return order, nil
}

// ListRecent returns up to limit orders, newest first
func (r *OrderRepository) ListRecent(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := db.Rebind(r.driver, `
		SELECT id, session_id, total, item_count, lines, message, handoff_url, created_at
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`)
	rows, err := r.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		order              models.Order
		total, lines, when string
	)
	err := row.Scan(
		&order.ID,
		&order.SessionID,
		&total,
		&order.Summary.ItemCount,
		&lines,
		&order.Message,
		&order.HandoffURL,
		&when,
	)
	if err != nil {
		return nil, err
	}

	order.Summary.Total, err = decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("invalid stored total %q: %w", total, err)
	}
	if err := json.Unmarshal([]byte(lines), &order.Summary.Lines); err != nil {
		return nil, fmt.Errorf("invalid stored lines: %w", err)
	}
	order.CreatedAt, err = time.Parse(timestampLayout, when)
	if err != nil {
		return nil, fmt.Errorf("invalid stored timestamp %q: %w", when, err)
	}
	return &order, nil
}
