package rds

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AdamDragMarqo/stock-mate/internal/pipeline"
)

// Client is the durable-store gateway. It owns one pool for its lifetime
// and performs no retries; retry policy belongs to the messaging substrate.
type Client struct {
	pool *pgxpool.Pool
}

func NewClient(pool *pgxpool.Pool) *Client { return &Client{pool: pool} }

func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *Client) Close() {
	c.pool.Close()
}

// classify maps driver errors onto the pipeline taxonomy. Only failures
// where the server never gave a verdict are transient; once the server
// rejects the data, redelivering the same bytes can never succeed, so
// those must not feed the retry path.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return pipeline.ErrTransient
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		switch pgerr.Code {
		case "23505":
			return pipeline.ErrConflict
		case "40001", "40P01", "57014":
			return pipeline.ErrTransient
		}
		if len(pgerr.Code) >= 2 && pgerr.Code[:2] == "08" {
			// connection exception class
			return pipeline.ErrTransient
		}
		// 22xxx (bad data), 23xxx (constraint violations) and every other
		// server verdict: terminal per record.
		return fmt.Errorf("%w: %s (%s)", pipeline.ErrInvalidData, pgerr.Message, pgerr.Code)
	}
	// No server verdict (dial failure, dropped connection): transient, so
	// a redelivery gets another attempt against the idempotent insert.
	return pipeline.ErrTransient
}
