package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"overcooked-delivery/apperr"
	"overcooked-delivery/orderstatus"
	"overcooked-delivery/tracker-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func Key(orderID int64) string {
	return fmt.Sprintf("order:%d:status", orderID)
}

// maxSaveAttempts bounds optimistic retries when another writer touches the
// same order between WATCH and EXEC.
const maxSaveAttempts = 10

// SaveSnapshot stores snap unless a newer snapshot for the same order is
// already present. It reports whether snap was written. The comparison and
// the write run under WATCH so concurrent consumers cannot both pass the check.
func (s *Store) SaveSnapshot(ctx context.Context, snap domain.Snapshot) (bool, error) {
	key := Key(snap.OrderID)

	var written bool
	save := func(tx *redis.Tx) error {
		written = false
		stored, err := tx.HGet(ctx, key, "updated_at").Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			if prev, perr := time.Parse(time.RFC3339Nano, stored); perr == nil && prev.After(snap.UpdatedAt) {
				return nil
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, map[string]interface{}{
				"order_id":         snap.OrderID,
				"tracking_id":      snap.TrackingID,
				"order_status":     string(snap.OrderStatus),
				"order_label":      snap.OrderStatusDisplay.Label,
				"order_emphasis":   string(snap.OrderStatusDisplay.Emphasis),
				"payment_status":   string(snap.PaymentStatus),
				"payment_label":    snap.PaymentStatusDisplay.Label,
				"payment_emphasis": string(snap.PaymentStatusDisplay.Emphasis),
				"updated_at":       snap.UpdatedAt.UTC().Format(time.RFC3339Nano),
			})
			pipe.Expire(ctx, key, s.ttl)
			return nil
		})
		written = err == nil
		return err
	}

	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		err := s.rdb.Watch(ctx, save, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return false, err
		}
		return written, nil
	}
	return false, fmt.Errorf("order %d: snapshot kept changing after %d attempts", snap.OrderID, maxSaveAttempts)
}

func (s *Store) GetSnapshot(ctx context.Context, orderID int64) (*domain.Snapshot, error) {
	fields, err := s.rdb.HGetAll(ctx, Key(orderID)).Result()
	if err != nil {
		return nil, apperr.Network("read order snapshot", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("order %d: %w", orderID, apperr.ErrNotFound)
	}

	id, err := strconv.ParseInt(fields["order_id"], 10, 64)
	if err != nil {
		return nil, apperr.Integrity("snapshot for order %d has bad id %q", orderID, fields["order_id"])
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, fields["updated_at"])
	if err != nil {
		return nil, apperr.Integrity("snapshot for order %d has bad timestamp", orderID)
	}

	return &domain.Snapshot{
		OrderID:       id,
		TrackingID:    fields["tracking_id"],
		OrderStatus:   orderstatus.OrderStatus(fields["order_status"]),
		PaymentStatus: orderstatus.PaymentStatus(fields["payment_status"]),
		OrderStatusDisplay: orderstatus.Presentation{
			Label:    fields["order_label"],
			Emphasis: orderstatus.Emphasis(fields["order_emphasis"]),
		},
		PaymentStatusDisplay: orderstatus.Presentation{
			Label:    fields["payment_label"],
			Emphasis: orderstatus.Emphasis(fields["payment_emphasis"]),
		},
		UpdatedAt: updatedAt,
	}, nil
}
