package tests

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"overcooked-delivery/order-svc/internal/domain"
	"overcooked-delivery/order-svc/internal/mocks"
	"overcooked-delivery/order-svc/internal/storage"
	"overcooked-delivery/orderstatus"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestKafkaPublisher_PublishOrderEvent(t *testing.T) {
	writer := mocks.NewMessageWriter(t)
	publisher := storage.NewKafkaPublisher(writer)

	event := domain.OrderEvent{
		OrderID:       12,
		TrackingID:    "trk-12",
		OrderStatus:   orderstatus.OnTheWay,
		PaymentStatus: orderstatus.PaymentPaid,
		OccurredAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(m kafka.Message) bool {
		var decoded domain.OrderEvent
		if err := json.Unmarshal(m.Value, &decoded); err != nil {
			return false
		}
		return string(m.Key) == "12" && decoded.OrderStatus == orderstatus.OnTheWay && decoded.TrackingID == "trk-12"
	})).Return(nil).Once()

	assert.NoError(t, publisher.PublishOrderEvent(context.Background(), event))
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	writer := mocks.NewMessageWriter(t)
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	err := storage.NewKafkaPublisher(writer).PublishOrderEvent(context.Background(), domain.OrderEvent{OrderID: 1})

	assert.ErrorIs(t, err, assert.AnError)
}
