package service

import (
	"context"
	"encoding/json"
	"time"

	"overcooked-delivery/tracker-svc/internal/domain"

	"go.uber.org/zap"
)

const maxReadBackoff = 30 * time.Second

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	// RetryDelay is the first pause after a failed read; it doubles on every
	// consecutive failure up to maxReadBackoff.
	RetryDelay time.Duration
	logger     *zap.SugaredLogger
}

func NewConsumer(reader MessageReader, store StoreInterface, logger *zap.SugaredLogger) *Consumer {
	return &Consumer{
		Reader:     reader,
		Store:      store,
		RetryDelay: time.Second,
		logger:     logger,
	}
}

// Start reads order events until ctx is cancelled. Bad messages are logged
// and skipped.
func (c *Consumer) Start(ctx context.Context) {
	c.logger.Infow("tracker consumer starting")
	backoff := c.RetryDelay
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if ctx.Err() != nil {
			c.logger.Infow("tracker consumer stopped")
			return
		}
		if err != nil {
			c.logger.Errorw("error reading message", "error", err, "retry_in", backoff)
			select {
			case <-ctx.Done():
				c.logger.Infow("tracker consumer stopped")
				return
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, maxReadBackoff)
			continue
		}
		backoff = c.RetryDelay

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			c.logger.Warnw("skipping malformed order event", "offset", message.Offset, "error", err)
			continue
		}

		if err := c.ProcessEvent(ctx, event); err != nil {
			c.logger.Errorw("failed to process order event", "order_id", event.OrderID, "error", err)
		}
	}
}

func (c *Consumer) ProcessEvent(ctx context.Context, event domain.OrderEvent) error {
	snap, err := domain.NewSnapshot(event)
	if err != nil {
		return err
	}

	written, err := c.Store.SaveSnapshot(ctx, snap)
	if err != nil {
		return err
	}
	if !written {
		c.logger.Infow("ignored out-of-order event", "order_id", event.OrderID, "status", event.OrderStatus)
		return nil
	}

	c.logger.Infow("order snapshot updated",
		"order_id", event.OrderID,
		"status", event.OrderStatus,
		"payment_status", event.PaymentStatus,
	)
	return nil
}

var _ ConsumerInterface = (*Consumer)(nil)
