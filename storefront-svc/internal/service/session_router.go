package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"overcooked-delivery/apperr"
	"overcooked-delivery/storefront-svc/internal/domain"

	"go.uber.org/zap"
)

// SessionRouter owns the signed-in session of one browser and decides where
// a user lands after login.
type SessionRouter struct {
	mu         sync.Mutex
	storage    LocalStorage
	auth       AuthClient
	mirror     SessionMirror
	logger     *zap.SugaredLogger
	state      domain.AuthState
	loading    bool
	session    *domain.Session
	generation uint64
	observers  map[int]func(domain.SessionSnapshot)
	nextID     int
}

func NewSessionRouter(storage LocalStorage, auth AuthClient, mirror SessionMirror, logger *zap.SugaredLogger) *SessionRouter {
	return &SessionRouter{
		storage:   storage,
		auth:      auth,
		mirror:    mirror,
		logger:    logger,
		state:     domain.Unauthenticated,
		loading:   true,
		observers: make(map[int]func(domain.SessionSnapshot)),
	}
}

// Rehydrate restores a previously stored session without calling the auth
// backend. Loading stays true until the stored keys have been checked.
func (r *SessionRouter) Rehydrate(ctx context.Context) error {
	session, err := r.loadStored(ctx)

	r.mu.Lock()
	r.loading = false
	if session != nil {
		r.session = session
		r.state = domain.Authenticated
	}
	snapshot := r.snapshotLocked()
	r.mu.Unlock()

	r.notify(snapshot)
	return err
}

func (r *SessionRouter) loadStored(ctx context.Context) (*domain.Session, error) {
	rawUser, hasUser, err := r.storage.Get(ctx, KeyUser)
	if err != nil {
		return nil, apperr.Network("load user", err)
	}
	token, hasToken, err := r.storage.Get(ctx, KeyAccessToken)
	if err != nil {
		return nil, apperr.Network("load access token", err)
	}
	if !hasUser && !hasToken {
		return nil, nil
	}

	var user domain.User
	if hasUser && hasToken && token != "" {
		if err := json.Unmarshal([]byte(rawUser), &user); err == nil && user.ID != "" {
			return &domain.Session{User: user, AccessToken: token}, nil
		}
	}

	// Half a session is no session.
	r.logger.Warnw("discarding incomplete stored session", "hasUser", hasUser, "hasToken", hasToken)
	if err := r.storage.Delete(ctx, KeyUser, KeyAccessToken); err != nil {
		return nil, apperr.Network("discard stored session", err)
	}
	return nil, nil
}

// Login authenticates against the backend and installs the session. On any
// failure the previous session stays exactly as it was.
func (r *SessionRouter) Login(ctx context.Context, credentials domain.Credentials) (domain.Destination, error) {
	r.mu.Lock()
	r.generation++
	gen := r.generation
	r.state = domain.Authenticating
	snapshot := r.snapshotLocked()
	r.mu.Unlock()
	r.notify(snapshot)

	session, err := r.auth.Login(ctx, credentials)
	if err == nil {
		err = validateSession(session)
	}

	r.mu.Lock()
	if r.generation != gen {
		r.mu.Unlock()
		r.logger.Infow("dropping superseded login response", "email", credentials.Email)
		return "", apperr.ErrStaleResponse
	}
	if err != nil {
		r.restoreStateLocked()
		snapshot = r.snapshotLocked()
		r.mu.Unlock()
		r.notify(snapshot)
		return "", loginError(err)
	}

	if err := r.install(ctx, session); err != nil {
		r.restoreStateLocked()
		snapshot = r.snapshotLocked()
		r.mu.Unlock()
		r.notify(snapshot)
		return "", err
	}
	r.session = session
	r.state = domain.Authenticated
	snapshot = r.snapshotLocked()
	r.mu.Unlock()
	r.notify(snapshot)

	return domain.DestinationFor(session.User), nil
}

// install writes user and token together. Callers hold r.mu.
func (r *SessionRouter) install(ctx context.Context, session *domain.Session) error {
	payload, err := json.Marshal(session.User)
	if err != nil {
		return apperr.Integrity("encode user: %v", err)
	}
	if err := r.storage.SetMany(ctx, map[string]string{
		KeyUser:        string(payload),
		KeyAccessToken: session.AccessToken,
	}); err != nil {
		return apperr.Network("persist session", err)
	}
	if r.mirror != nil {
		if err := r.mirror.Mirror(session.User); err != nil {
			r.logger.Warnw("failed to mirror user", "error", err)
		}
	}
	return nil
}

// Logout forgets the session locally. It does not navigate anywhere.
func (r *SessionRouter) Logout(ctx context.Context) error {
	r.mu.Lock()
	r.generation++
	if err := r.storage.Delete(ctx, KeyUser, KeyAccessToken); err != nil {
		r.mu.Unlock()
		return apperr.Network("clear session", err)
	}
	if r.mirror != nil {
		r.mirror.Clear()
	}
	r.session = nil
	r.state = domain.Unauthenticated
	snapshot := r.snapshotLocked()
	r.mu.Unlock()

	r.notify(snapshot)
	return nil
}

func (r *SessionRouter) Session() (domain.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return domain.Session{}, false
	}
	return *r.session, true
}

func (r *SessionRouter) Snapshot() domain.SessionSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Subscribe registers fn for every state change until cancel is called.
func (r *SessionRouter) Subscribe(fn func(domain.SessionSnapshot)) (cancel func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.observers[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.observers, id)
		r.mu.Unlock()
	}
}

func (r *SessionRouter) restoreStateLocked() {
	if r.session != nil {
		r.state = domain.Authenticated
	} else {
		r.state = domain.Unauthenticated
	}
}

func (r *SessionRouter) snapshotLocked() domain.SessionSnapshot {
	snapshot := domain.SessionSnapshot{State: r.state, Loading: r.loading}
	if r.session != nil {
		session := *r.session
		snapshot.Session = &session
	}
	return snapshot
}

func (r *SessionRouter) notify(snapshot domain.SessionSnapshot) {
	r.mu.Lock()
	observers := make([]func(domain.SessionSnapshot), 0, len(r.observers))
	for _, fn := range r.observers {
		observers = append(observers, fn)
	}
	r.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

// loginError reports every failed login as an authentication error. Causes of
// other kinds are flattened into the message so they cannot change the status.
func loginError(err error) error {
	if errors.Is(err, apperr.ErrAuthentication) && !errors.Is(err, apperr.ErrValidation) {
		return err
	}
	return fmt.Errorf("%w: %v", apperr.ErrAuthentication, err)
}

func validateSession(session *domain.Session) error {
	if session == nil || session.User.ID == "" || session.AccessToken == "" {
		return apperr.Authentication(errors.New("malformed login response"))
	}
	return nil
}
