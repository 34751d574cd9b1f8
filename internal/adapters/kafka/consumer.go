package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	kgo "github.com/segmentio/kafka-go"
)

// Message is one fetched notification before routing: the raw body and
// the topic it arrived on.
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
	Raw     kgo.Message
}

// Handler processes one fetched batch. Returning an error means the batch
// is not committed and will be delivered again.
type Handler func(ctx context.Context, msgs []Message) error

type Consumer interface {
	Subscribe(ctx context.Context, topics []string, groupID string, handler Handler) error
	Close() error
}

type ConsumerConfig struct {
	Brokers           []string
	ClientID          string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	SessionTimeout    time.Duration
	RebalanceTimeout  time.Duration
	HeartbeatInterval time.Duration
	StartOffset       int64
	BatchSize         int
	BatchWindow       time.Duration
	MaxRetries        int
	Backoff           time.Duration
}

type readerConsumer struct {
	cfg ConsumerConfig

	mu     sync.Mutex
	reader *kgo.Reader
	closed bool
}

func NewConsumer(cfg ConsumerConfig) Consumer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.BatchWindow <= 0 {
		cfg.BatchWindow = 250 * time.Millisecond
	}
	return &readerConsumer{cfg: cfg}
}

// Subscribe reads from all topics in one consumer group and hands the
// handler batches of up to BatchSize messages. Offsets are committed only
// after the handler succeeds: at-least-once, with idempotent handlers
// expected downstream.
func (c *readerConsumer) Subscribe(ctx context.Context, topics []string, groupID string, handler Handler) error {
	r := kgo.NewReader(kgo.ReaderConfig{
		Brokers:           c.cfg.Brokers,
		GroupID:           groupID,
		GroupTopics:       topics,
		MinBytes:          c.cfg.MinBytes,
		MaxBytes:          c.cfg.MaxBytes,
		MaxWait:           c.cfg.MaxWait,
		StartOffset:       c.cfg.StartOffset,
		SessionTimeout:    c.cfg.SessionTimeout,
		RebalanceTimeout:  c.cfg.RebalanceTimeout,
		HeartbeatInterval: c.cfg.HeartbeatInterval,
	})
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return r.Close()
	}
	c.reader = r
	c.mu.Unlock()
	defer c.release(r)

	for {
		raw, err := c.fetchBatch(ctx, r)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || c.isClosed() {
				return nil
			}
			time.Sleep(200 * time.Millisecond)
			continue
		}
		if len(raw) == 0 {
			continue
		}

		msgs := make([]Message, 0, len(raw))
		for _, m := range raw {
			msgs = append(msgs, toMessage(m))
		}

		var hErr error
		for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
			hErr = handler(ctx, msgs)
			if hErr == nil {
				break
			}
			if ctx.Err() != nil {
				return nil
			}
			time.Sleep(c.cfg.Backoff * time.Duration(attempt+1))
		}
		if hErr != nil {
			// Uncommitted; the batch comes back after restart/rebalance.
			return fmt.Errorf("handler gave up after %d retries: %w", c.cfg.MaxRetries, hErr)
		}

		if err := r.CommitMessages(ctx, raw...); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// fetchBatch blocks for the first message, then drains whatever else
// arrives within the batch window, up to BatchSize.
func (c *readerConsumer) fetchBatch(ctx context.Context, r *kgo.Reader) ([]kgo.Message, error) {
	first, err := r.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}
	batch := []kgo.Message{first}

	drainCtx, cancel := context.WithTimeout(ctx, c.cfg.BatchWindow)
	defer cancel()
	for len(batch) < c.cfg.BatchSize {
		m, err := r.FetchMessage(drainCtx)
		if err != nil {
			break
		}
		batch = append(batch, m)
	}
	return batch, nil
}

func (c *readerConsumer) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// release closes r on the way out of Subscribe unless Close already took
// ownership of it.
func (c *readerConsumer) release(r *kgo.Reader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reader == r {
		c.reader = nil
		_ = r.Close()
	}
}

// Close is idempotent and safe to call from a goroutine other than the
// one running Subscribe.
func (c *readerConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.reader == nil {
		return nil
	}
	err := c.reader.Close()
	c.reader = nil
	return err
}

func toMessage(m kgo.Message) Message {
	hdrs := make(map[string]string, len(m.Headers))
	for _, h := range m.Headers {
		hdrs[h.Key] = string(h.Value)
	}
	return Message{
		Topic:   m.Topic,
		Key:     m.Key,
		Value:   m.Value,
		Headers: hdrs,
		Raw:     m,
	}
}
