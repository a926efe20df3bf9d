package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/ndquoc/inventory-api/internal/core/domain"
	"github.com/ndquoc/inventory-api/internal/port"
)

func getMySQLStore(t *testing.T) (*MySQLStore, *sql.DB) {
	t.Helper()

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/inventory?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	store := NewMySQLStore(db)
	if err := store.InitSchema(context.Background()); err != nil {
		t.Fatalf("init schema failed: %v", err)
	}
	return store, db
}

func seedInventory(t *testing.T, store *MySQLStore, productID string, total, reserved, minimum int) {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	inv := &domain.Inventory{
		ProductID:         productID,
		TotalQuantity:     total,
		ReservedQuantity:  reserved,
		MinimumStockLevel: minimum,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := store.Save(context.Background(), inv); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func cleanup(t *testing.T, db *sql.DB, productIDs ...string) {
	t.Helper()
	for _, id := range productIDs {
		db.ExecContext(context.Background(), `DELETE FROM inventory WHERE product_id = ?`, id)
		db.ExecContext(context.Background(), `DELETE FROM event_log WHERE product_id = ?`, id)
	}
}

func TestGet(t *testing.T) {
	store, db := getMySQLStore(t)
	defer db.Close()
	defer cleanup(t, db, "it-get")

	seedInventory(t, store, "it-get", 50, 5, 10)

	inv, err := store.Get(context.Background(), "it-get")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if inv == nil {
		t.Fatal("expected inventory, got nil")
	}
	if inv.TotalQuantity != 50 || inv.ReservedQuantity != 5 || inv.MinimumStockLevel != 10 {
		t.Errorf("unexpected row: %+v", inv)
	}
}

func TestGet_NotFound(t *testing.T) {
	store, db := getMySQLStore(t)
	defer db.Close()

	inv, err := store.Get(context.Background(), "it-nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv != nil {
		t.Error("expected nil for nonexistent product")
	}
}

func TestGetForUpdate_NotFoundInsideTx(t *testing.T) {
	store, db := getMySQLStore(t)
	defer db.Close()

	err := store.Execute(context.Background(), func(repo port.InventoryRepository) error {
		_, err := repo.GetForUpdate(context.Background(), "it-nonexistent")
		return err
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetForUpdate_OutsideTxFails(t *testing.T) {
	store, db := getMySQLStore(t)
	defer db.Close()

	if _, err := store.GetForUpdate(context.Background(), "whatever"); err == nil {
		t.Error("expected error for GetForUpdate outside a transaction")
	}
}

func TestCreate_Strict(t *testing.T) {
	store, db := getMySQLStore(t)
	defer db.Close()
	defer cleanup(t, db, "it-create")

	now := time.Now().UTC().Truncate(time.Microsecond)
	inv := &domain.Inventory{ProductID: "it-create", TotalQuantity: 10, CreatedAt: now, UpdatedAt: now}

	if err := store.Create(context.Background(), inv); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err := store.Create(context.Background(), inv)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestSave_Upsert(t *testing.T) {
	store, db := getMySQLStore(t)
	defer db.Close()
	defer cleanup(t, db, "it-upsert")

	seedInventory(t, store, "it-upsert", 100, 0, 10)

	// Second save with changed quantities updates in place.
	seedInventory(t, store, "it-upsert", 80, 20, 15)

	inv, err := store.Get(context.Background(), "it-upsert")
	if err != nil || inv == nil {
		t.Fatalf("Get failed: %v", err)
	}
	if inv.TotalQuantity != 80 || inv.ReservedQuantity != 20 || inv.MinimumStockLevel != 15 {
		t.Errorf("upsert did not update: %+v", inv)
	}
}

func TestFindLowStock(t *testing.T) {
	store, db := getMySQLStore(t)
	defer db.Close()
	defer cleanup(t, db, "it-low", "it-ok", "it-edge")

	seedInventory(t, store, "it-low", 10, 8, 5)  // available 2 < 5
	seedInventory(t, store, "it-ok", 100, 0, 5)  // available 100
	seedInventory(t, store, "it-edge", 20, 15, 5) // available 5 == 5

	items, err := store.FindLowStock(context.Background())
	if err != nil {
		t.Fatalf("FindLowStock failed: %v", err)
	}

	found := map[string]bool{}
	for _, inv := range items {
		found[inv.ProductID] = true
	}
	if !found["it-low"] {
		t.Error("expected it-low in low stock results")
	}
	if found["it-ok"] || found["it-edge"] {
		t.Errorf("unexpected products in low stock results: %v", found)
	}
}

func TestDelete(t *testing.T) {
	store, db := getMySQLStore(t)
	defer db.Close()

	seedInventory(t, store, "it-delete", 10, 0, 0)

	if err := store.Delete(context.Background(), "it-delete"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	inv, err := store.Get(context.Background(), "it-delete")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if inv != nil {
		t.Error("expected record gone after delete")
	}
}

func TestAppendEvent(t *testing.T) {
	store, db := getMySQLStore(t)
	defer db.Close()
	defer cleanup(t, db, "it-event")

	event := domain.InventoryReserved{ProductID: "it-event", Quantity: 3, Timestamp: time.Now().UTC()}
	if err := store.AppendEvent(context.Background(), event); err != nil {
		t.Fatalf("AppendEvent failed: %v", err)
	}

	var count int
	db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM event_log WHERE product_id = ? AND event_type = ?`,
		"it-event", "InventoryReserved").Scan(&count)
	if count != 1 {
		t.Errorf("expected 1 event log row, got %d", count)
	}
}

// Concurrent transactions on the same product must serialize on the row
// lock: no reservation may be lost and the total must never oversell.
func TestExecute_SerializesConcurrentReservations(t *testing.T) {
	store, db := getMySQLStore(t)
	defer db.Close()
	defer cleanup(t, db, "it-lock")

	seedInventory(t, store, "it-lock", 20, 0, 0)

	const workers = 10
	var wg sync.WaitGroup
	successes := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			err := store.Execute(ctx, func(repo port.InventoryRepository) error {
				inv, err := repo.GetForUpdate(ctx, "it-lock")
				if err != nil {
					return err
				}
				if _, err := inv.Reserve(2, time.Now().UTC()); err != nil {
					return err
				}
				return repo.Save(ctx, inv)
			})
			if err == nil {
				successes <- struct{}{}
			}
		}()
	}

	wg.Wait()
	close(successes)

	var ok int
	for range successes {
		ok++
	}
	if ok != workers {
		t.Fatalf("expected all %d reservations to succeed, got %d", workers, ok)
	}

	inv, err := store.Get(context.Background(), "it-lock")
	if err != nil || inv == nil {
		t.Fatalf("Get failed: %v", err)
	}
	if inv.ReservedQuantity != workers*2 {
		t.Errorf("lost update: expected reserved %d, got %d", workers*2, inv.ReservedQuantity)
	}
}

// Oversell check: more contenders than stock, each wanting the remainder.
func TestExecute_NoOversell(t *testing.T) {
	store, db := getMySQLStore(t)
	defer db.Close()
	defer cleanup(t, db, "it-oversell")

	seedInventory(t, store, "it-oversell", 5, 0, 0)

	const workers = 15
	var wg sync.WaitGroup
	var mu sync.Mutex
	var successes, conflicts int

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			err := store.Execute(ctx, func(repo port.InventoryRepository) error {
				inv, err := repo.GetForUpdate(ctx, "it-oversell")
				if err != nil {
					return err
				}
				if _, err := inv.Reserve(1, time.Now().UTC()); err != nil {
					return err
				}
				return repo.Save(ctx, inv)
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrInsufficientStock):
				conflicts++
			default:
				t.Errorf("worker %d: unexpected error: %v", n, err)
			}
		}(i)
	}

	wg.Wait()

	if successes != 5 {
		t.Errorf("expected exactly 5 successful reservations, got %d (conflicts %d)", successes, conflicts)
	}

	inv, _ := store.Get(context.Background(), "it-oversell")
	if inv.ReservedQuantity != 5 {
		t.Errorf("expected reserved 5, got %d", inv.ReservedQuantity)
	}
}
