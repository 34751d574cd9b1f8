package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/AdamDragMarqo/stock-mate/internal/adapters/cache"
	"github.com/AdamDragMarqo/stock-mate/internal/logging"
	"github.com/AdamDragMarqo/stock-mate/internal/mapper"
	"github.com/AdamDragMarqo/stock-mate/internal/routing"
	"github.com/AdamDragMarqo/stock-mate/internal/validation"
)

// Ingestor drives route -> validate -> map -> persist for every record in
// an envelope. One record's failure never aborts the others; only a
// transient store failure escapes, so the substrate redelivers the batch.
type Ingestor struct {
	router *routing.Router
	gw     routing.Gateway
	seen   cache.SeenCache
}

// NewIngestor wires the shared router and gateway. seen may be nil, in
// which case redelivered records fall through to the idempotent insert.
func NewIngestor(router *routing.Router, gw routing.Gateway, seen cache.SeenCache) *Ingestor {
	return &Ingestor{router: router, gw: gw, seen: seen}
}

// Handle processes the envelope and returns one outcome per record, in
// order. The returned error is non-nil only when at least one record hit
// a transient failure; everything else is terminal per record.
func (in *Ingestor) Handle(ctx context.Context, env Envelope) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(env.Records))
	transient := 0

	for i, n := range env.Records {
		out := in.process(ctx, i, n)
		if out.Status == StatusTransient {
			transient++
		}
		logOutcome(out)
		outcomes = append(outcomes, out)
	}

	if transient > 0 {
		return outcomes, fmt.Errorf("%w: %d of %d records", ErrTransient, transient, len(env.Records))
	}
	return outcomes, nil
}

func (in *Ingestor) process(ctx context.Context, idx int, n Notification) Outcome {
	out := Outcome{Index: idx, Topic: n.OriginTopic}

	binding, err := in.router.Route(n.OriginTopic)
	if err != nil {
		out.Status = StatusUnroutable
		out.Diagnostic = err.Error()
		return out
	}
	if !binding.Supported {
		out.Status = StatusUnsupported
		out.Diagnostic = fmt.Sprintf("%s is not supported yet", binding.Event)
		return out
	}

	res := validation.Validate([]byte(n.Body), binding.Schema)
	if !res.Valid {
		if res.Malformed {
			out.Status = StatusMalformed
		} else {
			out.Status = StatusSchemaViolation
		}
		out.Diagnostic = res.Diagnostic
		return out
	}

	rec, err := binding.Map([]byte(n.Body))
	if err != nil {
		if errors.Is(err, mapper.ErrUnsupported) {
			out.Status = StatusUnsupported
		} else {
			out.Status = StatusSchemaViolation
		}
		out.Diagnostic = err.Error()
		return out
	}
	out.RecordID = rec.RecordID()

	if in.seen != nil && in.seen.Seen(rec.RecordID()) {
		out.Status = StatusDuplicate
		return out
	}

	if err := binding.Persist(ctx, in.gw, rec); err != nil {
		switch {
		case errors.Is(err, ErrTransient):
			out.Status = StatusTransient
		case errors.Is(err, ErrConflict):
			out.Status = StatusConflict
		default:
			// Anything the store rejected outright. Retrying the same
			// bytes cannot change the verdict, so the record is terminal
			// and must not hold the batch hostage.
			out.Status = StatusInvalidData
		}
		out.Diagnostic = err.Error()
		return out
	}

	if in.seen != nil {
		_ = in.seen.Mark(rec.RecordID())
	}
	out.Status = StatusPersisted
	return out
}

func logOutcome(out Outcome) {
	fields := logrus.Fields{
		"index":  out.Index,
		"topic":  out.Topic,
		"status": string(out.Status),
	}
	if out.RecordID != "" {
		fields["record_id"] = out.RecordID
	}
	switch out.Status {
	case StatusPersisted, StatusDuplicate:
		logging.LogInfo("record processed", fields)
	default:
		fields["diagnostic"] = out.Diagnostic
		logging.LogError("record failed", nil, fields)
	}
}
