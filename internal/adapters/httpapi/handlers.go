package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	kaf "github.com/AdamDragMarqo/stock-mate/internal/adapters/kafka"
	"github.com/AdamDragMarqo/stock-mate/internal/events"
	"github.com/AdamDragMarqo/stock-mate/internal/logging"
	"github.com/AdamDragMarqo/stock-mate/internal/schema"
	"github.com/AdamDragMarqo/stock-mate/internal/validation"
)

// EmitterHandlers accepts domain-change payloads over HTTP, validates them
// against the event's schema and publishes them to the event topic. The
// consumer re-validates regardless: delivery is at-least-once and
// producers are not trusted.
type EmitterHandlers struct {
	prod kaf.Producer
}

func NewEmitterHandlers(prod kaf.Producer) *EmitterHandlers {
	return &EmitterHandlers{prod: prod}
}

func (h *EmitterHandlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	h.emit(w, r, events.NewProductScheduled)
}

func (h *EmitterHandlers) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	h.emit(w, r, events.NewCustomerScheduled)
}

func (h *EmitterHandlers) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	h.emit(w, r, events.NewSupplierScheduled)
}

func (h *EmitterHandlers) CreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	h.emit(w, r, events.NewPurchaseOrderScheduled)
}

func (h *EmitterHandlers) CreateInventory(w http.ResponseWriter, r *http.Request) {
	h.emit(w, r, events.NewInventoryScheduled)
}

func (h *EmitterHandlers) CreateSalesOrder(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotImplemented, "sales orders are not supported yet")
}

func (h *EmitterHandlers) emit(w http.ResponseWriter, r *http.Request, t events.Type) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logging.LogError("reading request body failed", err, logrus.Fields{"event_type": t.String()})
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	s, err := schema.ForEvent(t)
	if err != nil {
		logging.LogError("schema lookup failed", err, logrus.Fields{"event_type": t.String()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if res := validation.Validate(body, s); !res.Valid {
		writeError(w, http.StatusBadRequest, res.Diagnostic)
		return
	}

	topic := events.DefaultTopic(t)
	headers := map[string]string{"detail-type": t.String()}
	if err := h.prod.Publish(r.Context(), topic, nil, body, headers); err != nil {
		logging.LogError("publish failed", err, logrus.Fields{"topic": topic, "event_type": t.String()})
		writeError(w, http.StatusServiceUnavailable, "event could not be published")
		return
	}

	logging.LogInfo("event published", logrus.Fields{"topic": topic, "event_type": t.String()})
	writeJSON(w, http.StatusAccepted, map[string]string{"result": "Event sent."})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

var startedAt = time.Now()

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"started_at": startedAt.Format(time.RFC3339),
		"uptime_sec": int(time.Since(startedAt).Seconds()),
	})
}
