package service

import "overcooked-delivery/storefront-svc/internal/domain"

type Decision int

const (
	DecisionPending Decision = iota
	DecisionRedirectLogin
	DecisionAllow
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionRedirectLogin:
		return "redirect_login"
	default:
		return "pending"
	}
}

// AccessGuard admits sessions whose role is in the allowed set. Admins are
// admitted everywhere.
type AccessGuard struct {
	allowed map[domain.Role]struct{}
}

func NewAccessGuard(roles ...domain.Role) *AccessGuard {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return &AccessGuard{allowed: allowed}
}

func (g *AccessGuard) Evaluate(snapshot domain.SessionSnapshot) Decision {
	if snapshot.Loading {
		return DecisionPending
	}
	if snapshot.Session == nil {
		return DecisionRedirectLogin
	}
	user := snapshot.Session.User
	if user.AdminOverride() {
		return DecisionAllow
	}
	if _, ok := g.allowed[user.Role()]; !ok {
		return DecisionRedirectLogin
	}
	return DecisionAllow
}

// Bind reports the current decision to fn and reports again after every
// session change.
func (g *AccessGuard) Bind(session SessionObservable, fn func(Decision)) (cancel func()) {
	cancel = session.Subscribe(func(snapshot domain.SessionSnapshot) {
		fn(g.Evaluate(snapshot))
	})
	fn(g.Evaluate(session.Snapshot()))
	return cancel
}
