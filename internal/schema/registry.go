package schema

import (
	"errors"

	"github.com/AdamDragMarqo/stock-mate/internal/events"
)

var ErrSchemaNotFound = errors.New("no schema registered for event type")

var orderPositionSchema = Schema{
	Name: "order_position",
	Fields: []Field{
		{Name: "product_id", Type: String, Required: true},
		{Name: "quantity", Type: Integer, Required: true, MinValue: atLeast(1)},
	},
}

var registry = map[events.Type]Schema{
	events.NewProductScheduled: {
		Name: "product",
		Fields: []Field{
			{Name: "name", Type: String, Required: true},
			{Name: "description", Type: String, Required: true},
			{Name: "safety_stock", Type: Integer, Required: true, MinValue: atLeast(0)},
			{Name: "max_stock", Type: Integer, Required: true, MinValue: atLeast(0)},
			{Name: "quantity", Type: Integer, Required: true, MinValue: atLeast(0)},
		},
	},
	events.NewCustomerScheduled: {
		Name: "customer",
		Fields: []Field{
			{Name: "name", Type: String, Required: true},
			{Name: "email", Type: String, Format: FormatEmail},
		},
	},
	events.NewSupplierScheduled: {
		Name: "supplier",
		Fields: []Field{
			{Name: "name", Type: String, Required: true},
			{Name: "contact_email", Type: String, Format: FormatEmail},
		},
	},
	events.NewPurchaseOrderScheduled: {
		Name: "purchase_order",
		Fields: []Field{
			{Name: "supplier_id", Type: String, Required: true},
			{Name: "order_date", Type: String, Format: FormatDate},
			{Name: "order_positions", Type: Array, Required: true, Elem: &orderPositionSchema},
		},
	},
	events.NewInventoryScheduled: {
		Name: "inventory",
		Fields: []Field{
			{Name: "product_id", Type: String, Required: true},
			{Name: "quantity", Type: Integer, Required: true, MinValue: atLeast(0)},
		},
	},
}

// ForEvent returns the structural contract for an event type.
func ForEvent(t events.Type) (Schema, error) {
	s, ok := registry[t]
	if !ok {
		return Schema{}, ErrSchemaNotFound
	}
	return s, nil
}
