package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"safi-kitchen/internal/config"
	"safi-kitchen/internal/logger"
	"safi-kitchen/internal/models"

	_ "github.com/go-sql-driver/mysql"
)

var ErrOrderNotFound = errors.New("order not found")

type MySQLStore struct {
	db  *sql.DB
	log *logger.Logger
}

func NewMySQLStore(cfg config.DatabaseConfig, log *logger.Logger) (*MySQLStore, error) {
	log.LogDatabase("CONNECT", "mysql", fmt.Sprintf("Connecting to MySQL at %s:%s", cfg.Host, cfg.Port))

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Error("DATABASE", "Failed to open MySQL connection: "+err.Error())
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxLifetime)

	if err := db.Ping(); err != nil {
		log.Error("DATABASE", "Failed to ping MySQL: "+err.Error())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &MySQLStore{
		db:  db,
		log: log,
	}

	if err := store.initTables(); err != nil {
		log.Error("DATABASE", "Failed to initialize tables: "+err.Error())
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	log.LogDatabase("SUCCESS", "mysql", "MySQL connection established and tables initialized")
	return store, nil
}

func (s *MySQLStore) initTables() error {
	s.log.LogDatabase("MIGRATE", "mysql", "Creating orders table if not exists")

	query := `
    CREATE TABLE IF NOT EXISTS orders (
        id VARCHAR(16) PRIMARY KEY,
        customer_name TEXT NOT NULL,
        items TEXT NOT NULL,
        total_price BIGINT NOT NULL,
        status VARCHAR(20) NOT NULL,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        INDEX idx_status (status),
        INDEX idx_created_at (created_at)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
    `

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create orders table: %w", err)
	}

	s.log.LogDatabase("SUCCESS", "mysql", "Orders table ready")
	return nil
}

// SaveOrder inserts the draft and reads the row back so the caller sees the
// created_at the store assigned.
func (s *MySQLStore) SaveOrder(draft *models.OrderDraft) (*models.Order, error) {
	s.log.LogDatabase("INSERT", "mysql", fmt.Sprintf("Saving order %s", draft.ID))

	query := `
    INSERT INTO orders (id, customer_name, items, total_price, status)
    VALUES (?, ?, ?, ?, ?)
    `

	_, err := s.db.Exec(query,
		draft.ID, draft.CustomerName, draft.Items, draft.TotalPrice, draft.Status,
	)

	if err != nil {
		s.log.Error("DATABASE", fmt.Sprintf("Failed to save order %s: %s", draft.ID, err.Error()))
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	order, err := s.GetOrder(draft.ID)
	if err != nil {
		return nil, err
	}

	s.log.LogDatabase("SUCCESS", "mysql", fmt.Sprintf("Order %s saved successfully", draft.ID))
	return order, nil
}

func (s *MySQLStore) GetOrder(orderID string) (*models.Order, error) {
	s.log.LogDatabase("SELECT", "mysql", fmt.Sprintf("Fetching order %s", orderID))

	query := `
    SELECT id, customer_name, items, total_price, status, created_at
    FROM orders WHERE id = ?
    `

	order := &models.Order{}
	err := s.db.QueryRow(query, orderID).Scan(
		&order.ID, &order.CustomerName, &order.Items, &order.TotalPrice, &order.Status, &order.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			s.log.LogDatabase("NOT_FOUND", "mysql", fmt.Sprintf("Order %s not found", orderID))
			return nil, ErrOrderNotFound
		}
		s.log.Error("DATABASE", fmt.Sprintf("Failed to get order %s: %s", orderID, err.Error()))
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

func (s *MySQLStore) ListOrders() ([]*models.Order, error) {
	s.log.LogDatabase("SELECT", "mysql", "Listing orders newest first")

	query := `
    SELECT id, customer_name, items, total_price, status, created_at
    FROM orders
    ORDER BY created_at DESC
    `

	rows, err := s.db.Query(query)
	if err != nil {
		s.log.Error("DATABASE", fmt.Sprintf("Failed to list orders: %s", err.Error()))
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		err := rows.Scan(
			&order.ID, &order.CustomerName, &order.Items, &order.TotalPrice, &order.Status, &order.CreatedAt,
		)

		if err != nil {
			s.log.Error("DATABASE", fmt.Sprintf("Failed to scan order row: %s", err.Error()))
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		s.log.Error("DATABASE", fmt.Sprintf("Row iteration error: %s", err.Error()))
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	s.log.LogDatabase("SUCCESS", "mysql", fmt.Sprintf("Listed %d orders", len(orders)))
	return orders, nil
}

func (s *MySQLStore) UpdateOrderStatus(orderID string, status models.OrderStatus) error {
	s.log.LogDatabase("UPDATE", "mysql", fmt.Sprintf("Updating order %s to %s", orderID, status))

	result, err := s.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, orderID)
	if err != nil {
		s.log.Error("DATABASE", fmt.Sprintf("Failed to update order %s: %s", orderID, err.Error()))
		return fmt.Errorf("failed to update order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		// Either the id does not exist or the row already holds this status;
		// distinguish so callers get a clean not-found.
		if _, err := s.GetOrder(orderID); err != nil {
			return err
		}
	}

	s.log.LogDatabase("SUCCESS", "mysql", fmt.Sprintf("Order %s updated to %s", orderID, status))
	return nil
}

func (s *MySQLStore) UpdateStatusBulk(orderIDs []string, status models.OrderStatus) error {
	if len(orderIDs) == 0 {
		return nil
	}

	s.log.LogDatabase("UPDATE", "mysql", fmt.Sprintf("Bulk updating %d orders to %s", len(orderIDs), status))

	placeholders := strings.Repeat("?,", len(orderIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]interface{}, 0, len(orderIDs)+1)
	args = append(args, status)
	for _, id := range orderIDs {
		args = append(args, id)
	}

	query := fmt.Sprintf(`UPDATE orders SET status = ? WHERE id IN (%s)`, placeholders)
	if _, err := s.db.Exec(query, args...); err != nil {
		s.log.Error("DATABASE", fmt.Sprintf("Failed bulk status update: %s", err.Error()))
		return fmt.Errorf("failed bulk status update: %w", err)
	}

	s.log.LogDatabase("SUCCESS", "mysql", fmt.Sprintf("Bulk updated %d orders to %s", len(orderIDs), status))
	return nil
}

func (s *MySQLStore) Close() error {
	s.log.LogDatabase("CLOSE", "mysql", "Closing MySQL connection")
	return s.db.Close()
}

func (s *MySQLStore) HealthCheck() error {
	return s.db.Ping()
}
