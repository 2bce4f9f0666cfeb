package service

import (
	"context"

	"overcooked-delivery/storefront-svc/internal/domain"
)

// Keys of the per-session durable storage.
const (
	KeyCart          = "cart"
	KeyUser          = "user"
	KeyAccessToken   = "accessToken"
	KeyCheckoutDraft = "checkoutDraft"
)

type LocalStorage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

// StorageProvider opens the durable slot of one browser session.
type StorageProvider func(sessionID string) LocalStorage

type AuthClient interface {
	Login(ctx context.Context, credentials domain.Credentials) (*domain.Session, error)
}

type OrderClient interface {
	CreateOrder(ctx context.Context, accessToken string, draft domain.OrderDraft) (*domain.Order, error)
}

type PaymentGateway interface {
	CreateIntent(ctx context.Context, req domain.PaymentIntentRequest) (*domain.PaymentIntent, error)
	GetIntent(ctx context.Context, id string) (*domain.PaymentIntent, error)
}

// SessionMirror copies the signed-in user somewhere the browser can read it.
type SessionMirror interface {
	Mirror(user domain.User) error
	Clear()
}

type SessionObservable interface {
	Snapshot() domain.SessionSnapshot
	Subscribe(fn func(domain.SessionSnapshot)) (cancel func())
}

type StorefrontOpener interface {
	Open(ctx context.Context, sessionID string, mirror SessionMirror) (*Storefront, func(), error)
}
