package tests

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"overcooked-delivery/storefront-svc/internal/domain"
	"overcooked-delivery/storefront-svc/internal/service"
	"overcooked-delivery/storefront-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisStorage(t *testing.T) (*storage.RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return storage.NewRedisStorage(client, time.Hour), mr
}

func newSessionStorage(t *testing.T) service.LocalStorage {
	t.Helper()
	rs, _ := newRedisStorage(t)
	return rs.ForSession("session-1")
}

func provider(rs *storage.RedisStorage) service.StorageProvider {
	return func(sessionID string) service.LocalStorage { return rs.ForSession(sessionID) }
}

func line(id, restaurant, price string, quantity int) domain.CartLine {
	return domain.CartLine{
		ID:           id,
		Name:         "item " + id,
		Price:        decimal.RequireFromString(price),
		Quantity:     quantity,
		RestaurantID: restaurant,
	}
}

func storeSession(t *testing.T, st service.LocalStorage, user domain.User, token string) {
	t.Helper()
	payload, err := json.Marshal(user)
	require.NoError(t, err)
	require.NoError(t, st.SetMany(context.Background(), map[string]string{
		service.KeyUser:        string(payload),
		service.KeyAccessToken: token,
	}))
}

func customer() domain.User {
	return domain.User{
		ID:        "u-1",
		Name:      "Ada Diner",
		Email:     "ada@example.com",
		Phone:     "+49 30 1234567",
		Type:      "Customer",
		ProfileID: "cust-77",
	}
}

func nopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type recordingMirror struct {
	mirrored []domain.User
	cleared  int
}

func (m *recordingMirror) Mirror(user domain.User) error {
	m.mirrored = append(m.mirrored, user)
	return nil
}

func (m *recordingMirror) Clear() {
	m.cleared++
}
