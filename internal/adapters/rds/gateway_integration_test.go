package rds_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/AdamDragMarqo/stock-mate/internal/adapters/rds"
	"github.com/AdamDragMarqo/stock-mate/internal/domain/record"
	"github.com/AdamDragMarqo/stock-mate/internal/logging"
)

func TestMain(m *testing.M) {
	logging.InitLogger()
	os.Exit(m.Run())
}

/* ---------- setup helpers ---------- */

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	if dsn := os.Getenv("TEST_PG_DSN"); dsn != "" {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			t.Fatalf("pgxpool.New: %v", err)
		}
		t.Cleanup(func() { pool.Close() })
		applyMigrations(t, pool)
		return pool
	}

	if testing.Short() {
		t.Skip("short mode: no TEST_PG_DSN and containers disabled")
	}

	pgC, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("stockmate"),
		postgres.WithUsername("user"),
		postgres.WithPassword("pass"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable&pool_max_conns=5")
	if err != nil {
		t.Fatalf("conn string: %v", err)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	applyMigrations(t, pool)
	return pool
}

func applyMigrations(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join("testdata", "001_init.sql")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}

	up := extractGooseUp(string(b))
	if strings.TrimSpace(up) == "" {
		up = string(b)
	}
	if _, err := pool.Exec(ctx, up); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
}

func extractGooseUp(all string) string {
	const upTag = "-- +goose Up"
	const downTag = "-- +goose Down"
	upIdx := strings.Index(all, upTag)
	if upIdx == -1 {
		return ""
	}
	rest := all[upIdx+len(upTag):]
	downIdx := strings.Index(rest, downTag)
	if downIdx == -1 {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(rest[:downIdx])
}

func countRows(t *testing.T, pool *pgxpool.Pool, table, id string) int {
	t.Helper()
	var n int
	err := pool.QueryRow(context.Background(),
		"SELECT count(*) FROM "+table+" WHERE id = $1", id).Scan(&n)
	require.NoError(t, err)
	return n
}

/* ---------- tests ---------- */

func TestInsertProductIsIdempotent(t *testing.T) {
	pool := setupPool(t)
	client := rds.NewClient(pool)
	ctx := context.Background()

	p := record.ProductToPersist{
		ID:          "prod-it-1",
		Name:        "TestProduct",
		Description: "TestDescription",
		SafetyStock: 10,
		MaxStock:    50,
		Quantity:    30,
	}

	require.NoError(t, client.InsertProduct(ctx, p))
	require.NoError(t, client.InsertProduct(ctx, p), "second delivery must not error")

	assert.Equal(t, 1, countRows(t, pool, "products", p.ID))
}

func TestInsertProductKeepsFirstWrite(t *testing.T) {
	pool := setupPool(t)
	client := rds.NewClient(pool)
	ctx := context.Background()

	first := record.ProductToPersist{
		ID: "prod-it-2", Name: "Original", Description: "D",
		SafetyStock: 1, MaxStock: 2, Quantity: 1,
	}
	replay := first
	replay.Name = "Mutated"

	require.NoError(t, client.InsertProduct(ctx, first))
	require.NoError(t, client.InsertProduct(ctx, replay))

	var name string
	err := pool.QueryRow(ctx,
		"SELECT product_name FROM products WHERE id = $1", first.ID).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "Original", name, "replay must not overwrite the persisted row")
}

func TestInsertSupplierAndCustomer(t *testing.T) {
	pool := setupPool(t)
	client := rds.NewClient(pool)
	ctx := context.Background()

	require.NoError(t, client.InsertSupplier(ctx, record.SupplierToPersist{
		ID: "sup-it-1", Name: "TestSupplier",
	}))
	require.NoError(t, client.InsertCustomer(ctx, record.CustomerToPersist{
		ID: "cust-it-1", Name: "TestCustomer", Email: "buyer@example.com",
	}))

	assert.Equal(t, 1, countRows(t, pool, "suppliers", "sup-it-1"))
	assert.Equal(t, 1, countRows(t, pool, "customers", "cust-it-1"))
}

func TestInsertPurchaseOrderWithPositions(t *testing.T) {
	pool := setupPool(t)
	client := rds.NewClient(pool)
	ctx := context.Background()

	o := record.PurchaseOrderToPersist{
		ID:         "po-it-1",
		SupplierID: "sup-it-1",
		OrderDate:  "2024-03-01",
		Positions: []record.OrderPosition{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 5},
		},
	}

	require.NoError(t, client.InsertPurchaseOrder(ctx, o))
	require.NoError(t, client.InsertPurchaseOrder(ctx, o), "redelivered order is a no-op")

	assert.Equal(t, 1, countRows(t, pool, "purchase_orders", o.ID))

	var positions int
	err := pool.QueryRow(ctx,
		"SELECT count(*) FROM purchase_order_positions WHERE order_id = $1", o.ID).Scan(&positions)
	require.NoError(t, err)
	assert.Equal(t, 2, positions)
}

func TestInsertInventory(t *testing.T) {
	pool := setupPool(t)
	client := rds.NewClient(pool)
	ctx := context.Background()

	entry := record.InventoryToPersist{ID: "inv-it-1", ProductID: "p1", Quantity: 12}
	require.NoError(t, client.InsertInventory(ctx, entry))
	require.NoError(t, client.InsertInventory(ctx, entry))

	assert.Equal(t, 1, countRows(t, pool, "inventory_entries", entry.ID))
}
