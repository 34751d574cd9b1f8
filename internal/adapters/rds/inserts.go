package rds

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/AdamDragMarqo/stock-mate/internal/domain/record"
	"github.com/AdamDragMarqo/stock-mate/internal/logging"
)

// Inserts are keyed by the identifier assigned at mapping time.
// ON CONFLICT (id) DO NOTHING makes a redelivered record a no-op, which
// together with the stable identity gives effectively-once persistence.
const (
	qInsertProduct = `INSERT INTO products (
    id, product_name, description, safety_stock, max_stock, quantity
) VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO NOTHING;`

	qInsertCustomer = `INSERT INTO customers (
    id, customer_name, email
) VALUES ($1,$2,$3)
ON CONFLICT (id) DO NOTHING;`

	qInsertSupplier = `INSERT INTO suppliers (
    id, supplier_name, contact_email
) VALUES ($1,$2,$3)
ON CONFLICT (id) DO NOTHING;`

	qInsertPurchaseOrder = `INSERT INTO purchase_orders (
    id, supplier_id, order_date
) VALUES ($1,$2,NULLIF($3,'')::date)
ON CONFLICT (id) DO NOTHING;`

	qInsertOrderPosition = `INSERT INTO purchase_order_positions (
    order_id, product_id, quantity
) VALUES ($1,$2,$3)
ON CONFLICT (order_id, product_id) DO NOTHING;`

	qInsertInventory = `INSERT INTO inventory_entries (
    id, product_id, quantity
) VALUES ($1,$2,$3)
ON CONFLICT (id) DO NOTHING;`
)

func (c *Client) InsertProduct(ctx context.Context, r record.ProductToPersist) error {
	ct, err := c.pool.Exec(ctx, qInsertProduct,
		r.ID, r.Name, r.Description, r.SafetyStock, r.MaxStock, r.Quantity)
	if err != nil {
		logging.LogError("insert product failed", err, logrus.Fields{"id": r.ID})
		return classify(err)
	}
	logInserted("product", r.ID, ct.RowsAffected())
	return nil
}

func (c *Client) InsertCustomer(ctx context.Context, r record.CustomerToPersist) error {
	ct, err := c.pool.Exec(ctx, qInsertCustomer, r.ID, r.Name, r.Email)
	if err != nil {
		logging.LogError("insert customer failed", err, logrus.Fields{"id": r.ID})
		return classify(err)
	}
	logInserted("customer", r.ID, ct.RowsAffected())
	return nil
}

func (c *Client) InsertSupplier(ctx context.Context, r record.SupplierToPersist) error {
	ct, err := c.pool.Exec(ctx, qInsertSupplier, r.ID, r.Name, r.Email)
	if err != nil {
		logging.LogError("insert supplier failed", err, logrus.Fields{"id": r.ID})
		return classify(err)
	}
	logInserted("supplier", r.ID, ct.RowsAffected())
	return nil
}

// InsertPurchaseOrder writes the order and its positions in one
// transaction, so a timed-out insert leaves no partial order behind.
func (c *Client) InsertPurchaseOrder(ctx context.Context, r record.PurchaseOrderToPersist) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		logging.LogError("insert purchase order: begin failed", err, logrus.Fields{"id": r.ID})
		return classify(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, qInsertPurchaseOrder, r.ID, r.SupplierID, r.OrderDate)
	if err != nil {
		logging.LogError("insert purchase order failed", err, logrus.Fields{"id": r.ID})
		return classify(err)
	}
	for _, p := range r.Positions {
		if _, err := tx.Exec(ctx, qInsertOrderPosition, r.ID, p.ProductID, p.Quantity); err != nil {
			logging.LogError("insert order position failed", err, logrus.Fields{
				"id": r.ID, "product_id": p.ProductID,
			})
			return classify(err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		logging.LogError("insert purchase order: commit failed", err, logrus.Fields{"id": r.ID})
		return classify(err)
	}
	logInserted("purchase_order", r.ID, ct.RowsAffected())
	return nil
}

func (c *Client) InsertInventory(ctx context.Context, r record.InventoryToPersist) error {
	ct, err := c.pool.Exec(ctx, qInsertInventory, r.ID, r.ProductID, r.Quantity)
	if err != nil {
		logging.LogError("insert inventory failed", err, logrus.Fields{"id": r.ID})
		return classify(err)
	}
	logInserted("inventory", r.ID, ct.RowsAffected())
	return nil
}

func logInserted(kind, id string, rows int64) {
	if rows == 0 {
		logging.LogInfo("record already persisted, skipped", logrus.Fields{"kind": kind, "id": id})
		return
	}
	logging.LogInfo("record persisted", logrus.Fields{"kind": kind, "id": id})
}
