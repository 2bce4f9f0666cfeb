package tests

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"overcooked-delivery/apperr"
	"overcooked-delivery/orderstatus"
	"overcooked-delivery/tracker-svc/internal/domain"
	"overcooked-delivery/tracker-svc/internal/mocks"
	"overcooked-delivery/tracker-svc/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func nopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func event(id int64, status orderstatus.OrderStatus, payment orderstatus.PaymentStatus) domain.OrderEvent {
	return domain.OrderEvent{
		OrderID:       id,
		TrackingID:    "trk",
		OrderStatus:   status,
		PaymentStatus: payment,
		OccurredAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestConsumer_ProcessEvent(t *testing.T) {
	tests := []struct {
		name           string
		input          domain.OrderEvent
		setupMockStore func(*mocks.StoreInterface)
		wantErr        error
	}{
		{
			name:  "success",
			input: event(1, orderstatus.OnTheWay, orderstatus.PaymentPaid),
			setupMockStore: func(m *mocks.StoreInterface) {
				m.On("SaveSnapshot", mock.Anything, mock.MatchedBy(func(s domain.Snapshot) bool {
					return s.OrderID == 1 &&
						s.OrderStatusDisplay.Label == "On the way" &&
						s.PaymentStatusDisplay.Label == "Paid"
				})).Return(true, nil).Once()
			},
		},
		{
			name:  "older event ignored",
			input: event(1, orderstatus.Accepted, orderstatus.PaymentPending),
			setupMockStore: func(m *mocks.StoreInterface) {
				m.On("SaveSnapshot", mock.Anything, mock.Anything).Return(false, nil).Once()
			},
		},
		{
			name:           "unknown status",
			input:          event(1, "TELEPORTED", orderstatus.PaymentPaid),
			setupMockStore: func(m *mocks.StoreInterface) {},
			wantErr:        apperr.ErrIntegrity,
		},
		{
			name:  "redis error",
			input: event(1, orderstatus.Placed, orderstatus.PaymentPending),
			setupMockStore: func(m *mocks.StoreInterface) {
				m.On("SaveSnapshot", mock.Anything, mock.Anything).Return(false, errors.New("redis error")).Once()
			},
			wantErr: errors.New("redis error"),
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockStore := mocks.NewStoreInterface(t)
			testCase.setupMockStore(mockStore)

			consumer := service.NewConsumer(nil, mockStore, nopLogger())
			err := consumer.ProcessEvent(context.Background(), testCase.input)

			switch {
			case testCase.wantErr == nil:
				assert.NoError(t, err)
			case errors.Is(testCase.wantErr, apperr.ErrIntegrity):
				assert.ErrorIs(t, err, apperr.ErrIntegrity)
			default:
				assert.EqualError(t, err, testCase.wantErr.Error())
			}
		})
	}
}

func TestConsumer_StartSkipsBadMessagesAndStops(t *testing.T) {
	reader := mocks.NewMessageReader(t)
	store := mocks.NewStoreInterface(t)
	ctx, cancel := context.WithCancel(context.Background())

	good, err := json.Marshal(event(5, orderstatus.Preparing, orderstatus.PaymentPaid))
	require.NoError(t, err)

	reader.On("ReadMessage", mock.Anything).Return(kafka.Message{Value: []byte("{not json")}, nil).Once()
	reader.On("ReadMessage", mock.Anything).Return(kafka.Message{Value: []byte(`{"orderId":6,"orderStatus":"LOST","paymentStatus":"PAID"}`)}, nil).Once()
	reader.On("ReadMessage", mock.Anything).Return(kafka.Message{}, errors.New("broker hiccup")).Once()
	reader.On("ReadMessage", mock.Anything).Return(kafka.Message{Value: good}, nil).Once()
	reader.On("ReadMessage", mock.Anything).Run(func(mock.Arguments) { cancel() }).
		Return(kafka.Message{}, context.Canceled).Once()

	store.On("SaveSnapshot", mock.Anything, mock.MatchedBy(func(s domain.Snapshot) bool {
		return s.OrderID == 5 && s.OrderStatus == orderstatus.Preparing
	})).Return(true, nil).Once()

	consumer := service.NewConsumer(reader, store, nopLogger())
	consumer.RetryDelay = time.Millisecond
	done := make(chan struct{})
	go func() {
		consumer.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop after cancellation")
	}
}

func TestConsumer_StartBacksOffOnReadErrors(t *testing.T) {
	reader := mocks.NewMessageReader(t)
	ctx, cancel := context.WithCancel(context.Background())

	var reads atomic.Int32
	reader.On("ReadMessage", mock.Anything).
		Run(func(mock.Arguments) { reads.Add(1) }).
		Return(kafka.Message{}, errors.New("broker unreachable"))

	consumer := service.NewConsumer(reader, mocks.NewStoreInterface(t), nopLogger())
	consumer.RetryDelay = 20 * time.Millisecond
	done := make(chan struct{})
	go func() {
		consumer.Start(ctx)
		close(done)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop while backing off")
	}
	// 20+40+80 ms fit in the window; a spinning loop would read thousands of times.
	assert.LessOrEqual(t, reads.Load(), int32(6))
	assert.GreaterOrEqual(t, reads.Load(), int32(2))
}
