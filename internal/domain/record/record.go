package record

// Kind tags the closed set of persistence record shapes.
type Kind string

const (
	KindProduct       Kind = "product"
	KindCustomer      Kind = "customer"
	KindSupplier      Kind = "supplier"
	KindPurchaseOrder Kind = "purchase_order"
	KindInventory     Kind = "inventory"
)

// Record is the typed, validated, identity-bearing form of one domain change.
// Every variant carries a unique identifier before it reaches the store.
type Record interface {
	RecordID() string
	RecordKind() Kind
}

type ProductToPersist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SafetyStock int64  `json:"safety_stock"`
	MaxStock    int64  `json:"max_stock"`
	Quantity    int64  `json:"quantity"`
}

func (p ProductToPersist) RecordID() string { return p.ID }
func (p ProductToPersist) RecordKind() Kind { return KindProduct }

type CustomerToPersist struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func (c CustomerToPersist) RecordID() string { return c.ID }
func (c CustomerToPersist) RecordKind() Kind { return KindCustomer }

type SupplierToPersist struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"contact_email,omitempty"`
}

func (s SupplierToPersist) RecordID() string { return s.ID }
func (s SupplierToPersist) RecordKind() Kind { return KindSupplier }

type OrderPosition struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type PurchaseOrderToPersist struct {
	ID         string          `json:"id"`
	SupplierID string          `json:"supplier_id"`
	OrderDate  string          `json:"order_date,omitempty"`
	Positions  []OrderPosition `json:"order_positions"`
}

func (o PurchaseOrderToPersist) RecordID() string { return o.ID }
func (o PurchaseOrderToPersist) RecordKind() Kind { return KindPurchaseOrder }

type InventoryToPersist struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

func (i InventoryToPersist) RecordID() string { return i.ID }
func (i InventoryToPersist) RecordKind() Kind { return KindInventory }
