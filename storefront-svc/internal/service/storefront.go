package service

import (
	"context"
	"errors"
	"sync"

	"overcooked-delivery/apperr"
	"overcooked-delivery/storefront-svc/internal/domain"

	"go.uber.org/zap"
)

// Storefront bundles the stores of one browser session.
type Storefront struct {
	SessionID string
	Cart      *CartStore
	Checkout  *CheckoutStaging
	Session   *SessionRouter
}

// StorefrontLoader opens a session's stores from durable storage. Requests
// for the same session are serialised so read-modify-write cycles on the
// stored keys do not interleave.
type StorefrontLoader struct {
	storage StorageProvider
	auth    AuthClient
	pricing domain.Pricing
	logger  *zap.SugaredLogger
	locks   *keyedMutex
}

func NewStorefrontLoader(storage StorageProvider, auth AuthClient, pricing domain.Pricing, logger *zap.SugaredLogger) *StorefrontLoader {
	return &StorefrontLoader{
		storage: storage,
		auth:    auth,
		pricing: pricing,
		logger:  logger,
		locks:   newKeyedMutex(),
	}
}

var _ StorefrontOpener = (*StorefrontLoader)(nil)

func (l *StorefrontLoader) Pricing() domain.Pricing {
	return l.pricing
}

// Open rehydrates every store of sessionID. The caller must call release when
// done with the returned storefront.
func (l *StorefrontLoader) Open(ctx context.Context, sessionID string, mirror SessionMirror) (*Storefront, func(), error) {
	release := l.locks.Lock(sessionID)

	sf, err := l.open(ctx, sessionID, mirror)
	if err != nil {
		release()
		return nil, nil, err
	}
	return sf, release, nil
}

func (l *StorefrontLoader) open(ctx context.Context, sessionID string, mirror SessionMirror) (*Storefront, error) {
	storage := l.storage(sessionID)

	cart, err := NewCartStore(ctx, storage, l.pricing)
	if errors.Is(err, apperr.ErrIntegrity) {
		l.logger.Warnw("resetting unreadable cart", "session", sessionID, "error", err)
		if err := storage.Delete(ctx, KeyCart); err != nil {
			return nil, apperr.Network("reset cart", err)
		}
		cart, err = NewCartStore(ctx, storage, l.pricing)
	}
	if err != nil {
		return nil, err
	}

	checkout, err := NewCheckoutStaging(ctx, storage)
	if errors.Is(err, apperr.ErrIntegrity) {
		l.logger.Warnw("resetting unreadable checkout draft", "session", sessionID, "error", err)
		if err := storage.Delete(ctx, KeyCheckoutDraft); err != nil {
			return nil, apperr.Network("reset checkout draft", err)
		}
		checkout, err = NewCheckoutStaging(ctx, storage)
	}
	if err != nil {
		return nil, err
	}

	router := NewSessionRouter(storage, l.auth, mirror, l.logger)
	if err := router.Rehydrate(ctx); err != nil {
		return nil, err
	}

	return &Storefront{
		SessionID: sessionID,
		Cart:      cart,
		Checkout:  checkout,
		Session:   router,
	}, nil
}

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.Unlock()
			k.mu.Lock()
			m.refs--
			if m.refs == 0 {
				delete(k.locks, key)
			}
			k.mu.Unlock()
		})
	}
}
