package events

// Type enumerates the domain-change events the pipeline understands.
// The set is closed: every type has exactly one schema and one record shape.
type Type string

const (
	NewProductScheduled       Type = "NewProductScheduled"
	NewCustomerScheduled      Type = "NewCustomerScheduled"
	NewSupplierScheduled      Type = "NewSupplierScheduled"
	NewPurchaseOrderScheduled Type = "NewPurchaseOrderScheduled"
	NewInventoryScheduled     Type = "NewInventoryScheduled"
	// NewSalesOrderScheduled is recognized but has no persistence path yet.
	NewSalesOrderScheduled Type = "NewSalesOrderScheduled"
)

func (t Type) String() string { return string(t) }

// DefaultTopic is the canonical topic an event of this type is emitted on.
func DefaultTopic(t Type) string {
	switch t {
	case NewProductScheduled:
		return "NewProductTopic"
	case NewCustomerScheduled:
		return "NewCustomerTopic"
	case NewSupplierScheduled:
		return "NewSupplierTopic"
	case NewPurchaseOrderScheduled:
		return "NewPurchaseOrderTopic"
	case NewInventoryScheduled:
		return "NewInventoryTopic"
	case NewSalesOrderScheduled:
		return "NewSalesOrderTopic"
	}
	return ""
}
