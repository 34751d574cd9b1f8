package routing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AdamDragMarqo/stock-mate/internal/domain/record"
	"github.com/AdamDragMarqo/stock-mate/internal/events"
	"github.com/AdamDragMarqo/stock-mate/internal/mapper"
	"github.com/AdamDragMarqo/stock-mate/internal/schema"
)

var (
	// ErrUnroutable marks an origin tag matching no known event type.
	ErrUnroutable = errors.New("origin tag matches no known event type")
	// ErrAmbiguousTag marks a tag matched by more than one pattern at
	// lookup time. Overlap between the patterns themselves is rejected
	// earlier, when the router is built.
	ErrAmbiguousTag = errors.New("origin tag matches more than one pattern")
)

// Gateway is the persistence port the router binds persist operations to.
// Implemented by the rds client; small fakes stand in for it in tests.
type Gateway interface {
	InsertProduct(ctx context.Context, r record.ProductToPersist) error
	InsertCustomer(ctx context.Context, r record.CustomerToPersist) error
	InsertSupplier(ctx context.Context, r record.SupplierToPersist) error
	InsertPurchaseOrder(ctx context.Context, r record.PurchaseOrderToPersist) error
	InsertInventory(ctx context.Context, r record.InventoryToPersist) error
}

// Binding is everything needed to process one routed notification:
// the event type, its schema, the mapping step and the persist step.
type Binding struct {
	Event     events.Type
	Supported bool
	Schema    schema.Schema
	Map       func(payload []byte) (record.Record, error)
	Persist   func(ctx context.Context, gw Gateway, rec record.Record) error
}

type route struct {
	pattern string
	binding Binding
}

// Router matches origin tags against a static substring table built once
// at startup. Read-only afterwards, safe for concurrent use.
type Router struct {
	routes []route
}

// New builds the routing table. Overlapping patterns are a configuration
// defect and fail construction rather than being resolved at runtime.
// Topics the deployment subscribes to may be passed in; each must resolve
// to exactly one pattern, so an unroutable or ambiguous subscription is
// caught at startup instead of per message.
func New(topics ...string) (*Router, error) {
	routes := []route{
		{"Product", mustBinding(events.NewProductScheduled, persistProduct)},
		{"Customer", mustBinding(events.NewCustomerScheduled, persistCustomer)},
		{"Supplier", mustBinding(events.NewSupplierScheduled, persistSupplier)},
		{"PurchaseOrder", mustBinding(events.NewPurchaseOrderScheduled, persistPurchaseOrder)},
		{"Inventory", mustBinding(events.NewInventoryScheduled, persistInventory)},
		{"SalesOrder", unsupportedBinding(events.NewSalesOrderScheduled)},
	}
	r, err := newRouter(routes)
	if err != nil {
		return nil, err
	}
	for _, topic := range topics {
		if _, err := r.Route(topic); err != nil {
			return nil, fmt.Errorf("subscribed topic %q: %w", topic, err)
		}
	}
	return r, nil
}

func newRouter(routes []route) (*Router, error) {
	for i := range routes {
		for j := i + 1; j < len(routes); j++ {
			a, b := routes[i].pattern, routes[j].pattern
			if strings.Contains(a, b) || strings.Contains(b, a) {
				return nil, fmt.Errorf("ambiguous routing patterns %q and %q", a, b)
			}
		}
	}
	return &Router{routes: routes}, nil
}

// Route resolves an origin tag to its binding. The tag is matched by
// substring against the canonical event names, so "NewProductTopic" and
// a fully qualified topic ARN both route the same way.
func (r *Router) Route(originTag string) (Binding, error) {
	var (
		matched Binding
		hits    int
	)
	for _, rt := range r.routes {
		if strings.Contains(originTag, rt.pattern) {
			matched = rt.binding
			hits++
		}
	}
	switch hits {
	case 0:
		return Binding{}, fmt.Errorf("%w: %q", ErrUnroutable, originTag)
	case 1:
		return matched, nil
	default:
		return Binding{}, fmt.Errorf("%w: %q", ErrAmbiguousTag, originTag)
	}
}

func mustBinding(t events.Type, persist func(ctx context.Context, gw Gateway, rec record.Record) error) Binding {
	s, err := schema.ForEvent(t)
	if err != nil {
		panic(fmt.Sprintf("routing: %s: %v", t, err))
	}
	return Binding{
		Event:     t,
		Supported: true,
		Schema:    s,
		Map: func(payload []byte) (record.Record, error) {
			return mapper.ToRecord(t, payload)
		},
		Persist: persist,
	}
}

func unsupportedBinding(t events.Type) Binding {
	return Binding{Event: t}
}

func persistProduct(ctx context.Context, gw Gateway, rec record.Record) error {
	r, ok := rec.(record.ProductToPersist)
	if !ok {
		return fmt.Errorf("persist product: unexpected record kind %s", rec.RecordKind())
	}
	return gw.InsertProduct(ctx, r)
}

func persistCustomer(ctx context.Context, gw Gateway, rec record.Record) error {
	r, ok := rec.(record.CustomerToPersist)
	if !ok {
		return fmt.Errorf("persist customer: unexpected record kind %s", rec.RecordKind())
	}
	return gw.InsertCustomer(ctx, r)
}

func persistSupplier(ctx context.Context, gw Gateway, rec record.Record) error {
	r, ok := rec.(record.SupplierToPersist)
	if !ok {
		return fmt.Errorf("persist supplier: unexpected record kind %s", rec.RecordKind())
	}
	return gw.InsertSupplier(ctx, r)
}

func persistPurchaseOrder(ctx context.Context, gw Gateway, rec record.Record) error {
	r, ok := rec.(record.PurchaseOrderToPersist)
	if !ok {
		return fmt.Errorf("persist purchase order: unexpected record kind %s", rec.RecordKind())
	}
	return gw.InsertPurchaseOrder(ctx, r)
}

func persistInventory(ctx context.Context, gw Gateway, rec record.Record) error {
	r, ok := rec.(record.InventoryToPersist)
	if !ok {
		return fmt.Errorf("persist inventory: unexpected record kind %s", rec.RecordKind())
	}
	return gw.InsertInventory(ctx, r)
}
