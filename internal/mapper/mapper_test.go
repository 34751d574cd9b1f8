package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdamDragMarqo/stock-mate/internal/domain/record"
	"github.com/AdamDragMarqo/stock-mate/internal/events"
)

func TestToRecordGeneratesIdentity(t *testing.T) {
	body := `{"name":"TestProduct","description":"TestDescription","safety_stock":10,"max_stock":50,"quantity":30}`
	rec, err := ToRecord(events.NewProductScheduled, []byte(body))
	require.NoError(t, err)

	p, ok := rec.(record.ProductToPersist)
	require.True(t, ok)
	assert.NotEmpty(t, p.ID, "mapper must assign an identifier when the payload omits one")
	assert.Equal(t, "TestProduct", p.Name)
	assert.Equal(t, "TestDescription", p.Description)
	assert.Equal(t, int64(10), p.SafetyStock)
	assert.Equal(t, int64(50), p.MaxStock)
	assert.Equal(t, int64(30), p.Quantity)
}

func TestToRecordPreservesSuppliedIdentity(t *testing.T) {
	body := `{"id":"prod-42","name":"P","description":"D","safety_stock":1,"max_stock":2,"quantity":1}`
	rec, err := ToRecord(events.NewProductScheduled, []byte(body))
	require.NoError(t, err)
	assert.Equal(t, "prod-42", rec.RecordID())
}

func TestToRecordSupplier(t *testing.T) {
	rec, err := ToRecord(events.NewSupplierScheduled, []byte(`{"name":"TestSupplier"}`))
	require.NoError(t, err)

	s, ok := rec.(record.SupplierToPersist)
	require.True(t, ok)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "TestSupplier", s.Name)
}

func TestToRecordPurchaseOrderPositions(t *testing.T) {
	body := `{"supplier_id":"sup-1","order_positions":[{"product_id":"p1","quantity":2}]}`
	rec, err := ToRecord(events.NewPurchaseOrderScheduled, []byte(body))
	require.NoError(t, err)

	o, ok := rec.(record.PurchaseOrderToPersist)
	require.True(t, ok)
	assert.Equal(t, "sup-1", o.SupplierID)
	require.Len(t, o.Positions, 1)
	assert.Equal(t, record.OrderPosition{ProductID: "p1", Quantity: 2}, o.Positions[0])
}

func TestToRecordDistinctIdentitiesPerCall(t *testing.T) {
	body := []byte(`{"name":"S"}`)
	a, err := ToRecord(events.NewSupplierScheduled, body)
	require.NoError(t, err)
	b, err := ToRecord(events.NewSupplierScheduled, body)
	require.NoError(t, err)
	assert.NotEqual(t, a.RecordID(), b.RecordID())
}

func TestToRecordSalesOrderNotSupported(t *testing.T) {
	_, err := ToRecord(events.NewSalesOrderScheduled, []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnsupported)
}
