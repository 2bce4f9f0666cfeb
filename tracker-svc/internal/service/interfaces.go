package service

import (
	"context"

	"overcooked-delivery/tracker-svc/internal/domain"
	"overcooked-delivery/tracker-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	SaveSnapshot(ctx context.Context, snap domain.Snapshot) (bool, error)
	GetSnapshot(ctx context.Context, orderID int64) (*domain.Snapshot, error)
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	ProcessEvent(ctx context.Context, event domain.OrderEvent) error
}

type TrackingServiceInterface interface {
	Get(ctx context.Context, orderID int64) (*domain.Snapshot, error)
}

var _ StoreInterface = (*storage.Store)(nil)
