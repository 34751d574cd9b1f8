package mapper

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AdamDragMarqo/stock-mate/internal/domain/record"
	"github.com/AdamDragMarqo/stock-mate/internal/events"
)

// ErrUnsupported marks an event type that is recognized but has no
// persistence path yet. Distinct from an unroutable origin tag.
var ErrUnsupported = errors.New("event type not supported")

// ToRecord converts an already-validated payload into the record variant
// for its event type. A supplied id is carried through unchanged; an
// absent one is assigned here, so every record is identity-bearing before
// it reaches the store.
func ToRecord(t events.Type, payload []byte) (record.Record, error) {
	switch t {
	case events.NewProductScheduled:
		var r record.ProductToPersist
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, err
		}
		r.ID = ensureID(r.ID)
		return r, nil

	case events.NewCustomerScheduled:
		var r record.CustomerToPersist
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, err
		}
		r.ID = ensureID(r.ID)
		return r, nil

	case events.NewSupplierScheduled:
		var r record.SupplierToPersist
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, err
		}
		r.ID = ensureID(r.ID)
		return r, nil

	case events.NewPurchaseOrderScheduled:
		var r record.PurchaseOrderToPersist
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, err
		}
		r.ID = ensureID(r.ID)
		return r, nil

	case events.NewInventoryScheduled:
		var r record.InventoryToPersist
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, err
		}
		r.ID = ensureID(r.ID)
		return r, nil

	case events.NewSalesOrderScheduled:
		return nil, ErrUnsupported
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, t)
}

func ensureID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}
