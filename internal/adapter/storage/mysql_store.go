package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/ndquoc/inventory-api/internal/core/domain"
	"github.com/ndquoc/inventory-api/internal/port"
)

const mysqlErrDuplicateEntry = 1062

// querier is satisfied by both *sql.DB and *sql.Tx so the same store
// code serves plain reads and transaction-scoped locked access.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MySQLStore persists the Inventory aggregate in a single MySQL table and
// owns the concurrency contract: GetForUpdate takes a row-level write
// lock that is held until the enclosing transaction ends.
type MySQLStore struct {
	db   *sql.DB
	q    querier
	inTx bool
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db, q: db}
}

// Execute implements port.TransactionScope. The repository handed to fn
// shares one transaction; commit is the row lock release point.
func (s *MySQLStore) Execute(ctx context.Context, fn func(repo port.InventoryRepository) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&MySQLStore{q: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *MySQLStore) Get(ctx context.Context, productID string) (*domain.Inventory, error) {
	inv, err := s.scanOne(ctx, `
		SELECT product_id, total_quantity, reserved_quantity, minimum_stock_level, created_at, updated_at
		FROM inventory WHERE product_id = ?`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	return inv, nil
}

func (s *MySQLStore) GetForUpdate(ctx context.Context, productID string) (*domain.Inventory, error) {
	if !s.inTx {
		return nil, errors.New("GetForUpdate called outside a transaction scope")
	}

	inv, err := s.scanOne(ctx, `
		SELECT product_id, total_quantity, reserved_quantity, minimum_stock_level, created_at, updated_at
		FROM inventory WHERE product_id = ? FOR UPDATE`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("query inventory for update: %w", err)
	}
	return inv, nil
}

func (s *MySQLStore) Save(ctx context.Context, inv *domain.Inventory) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO inventory (product_id, total_quantity, reserved_quantity, minimum_stock_level, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			total_quantity = VALUES(total_quantity),
			reserved_quantity = VALUES(reserved_quantity),
			minimum_stock_level = VALUES(minimum_stock_level),
			updated_at = VALUES(updated_at)`,
		inv.ProductID, inv.TotalQuantity, inv.ReservedQuantity, inv.MinimumStockLevel,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert inventory: %w", err)
	}
	return nil
}

func (s *MySQLStore) Create(ctx context.Context, inv *domain.Inventory) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO inventory (product_id, total_quantity, reserved_quantity, minimum_stock_level, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		inv.ProductID, inv.TotalQuantity, inv.ReservedQuantity, inv.MinimumStockLevel,
		inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
			return fmt.Errorf("%w: product %s", domain.ErrAlreadyExists, inv.ProductID)
		}
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

func (s *MySQLStore) FindLowStock(ctx context.Context) ([]domain.Inventory, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT product_id, total_quantity, reserved_quantity, minimum_stock_level, created_at, updated_at
		FROM inventory
		WHERE total_quantity - reserved_quantity < minimum_stock_level`)
	if err != nil {
		return nil, fmt.Errorf("query low stock: %w", err)
	}
	defer rows.Close()

	var items []domain.Inventory
	for rows.Next() {
		var inv domain.Inventory
		if err := rows.Scan(&inv.ProductID, &inv.TotalQuantity, &inv.ReservedQuantity,
			&inv.MinimumStockLevel, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan low stock row: %w", err)
		}
		items = append(items, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate low stock rows: %w", err)
	}
	return items, nil
}

func (s *MySQLStore) Delete(ctx context.Context, productID string) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM inventory WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("delete inventory: %w", err)
	}
	return nil
}

// AppendEvent writes an event to the append-only audit log. Best-effort:
// the publisher calls this outside the mutating transaction.
func (s *MySQLStore) AppendEvent(ctx context.Context, event domain.Event) error {
	data, err := domain.EncodeEvent(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	_, err = s.q.ExecContext(ctx, `
		INSERT INTO event_log (event_type, product_id, event_data, timestamp)
		VALUES (?, ?, ?, ?)`,
		string(event.Type()), event.Product(), data, event.OccurredAt(),
	)
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}
	return nil
}

// InitSchema creates the inventory and event_log tables if absent.
// Called on startup.
func (s *MySQLStore) InitSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS inventory (
			product_id VARCHAR(255) NOT NULL PRIMARY KEY,
			total_quantity INT NOT NULL DEFAULT 0,
			reserved_quantity INT NOT NULL DEFAULT 0,
			minimum_stock_level INT NOT NULL DEFAULT 0,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS event_log (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			event_type VARCHAR(64) NOT NULL,
			product_id VARCHAR(255) NOT NULL,
			event_data JSON NOT NULL,
			timestamp DATETIME(6) NOT NULL,
			INDEX idx_event_log_type (event_type),
			INDEX idx_event_log_product (product_id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *MySQLStore) scanOne(ctx context.Context, query string, args ...any) (*domain.Inventory, error) {
	var inv domain.Inventory
	err := s.q.QueryRowContext(ctx, query, args...).Scan(
		&inv.ProductID, &inv.TotalQuantity, &inv.ReservedQuantity,
		&inv.MinimumStockLevel, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
