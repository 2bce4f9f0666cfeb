package service

import (
	"context"

	"overcooked-delivery/tracker-svc/internal/domain"
)

type TrackingService struct {
	store StoreInterface
}

func NewTrackingService(store StoreInterface) *TrackingService {
	return &TrackingService{store: store}
}

func (s *TrackingService) Get(ctx context.Context, orderID int64) (*domain.Snapshot, error) {
	return s.store.GetSnapshot(ctx, orderID)
}

var _ TrackingServiceInterface = (*TrackingService)(nil)
