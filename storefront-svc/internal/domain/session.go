package domain

import "strings"

// Role is the account type reported by the auth backend. Admin access is a
// separate capability on the user, not a role.
type Role int

const (
	RoleUnknown Role = iota
	RoleCustomer
	RoleDriver
	RoleRestaurant
)

func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer":
		return RoleCustomer
	case "driver":
		return RoleDriver
	case "restaurant":
		return RoleRestaurant
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "Customer"
	case RoleDriver:
		return "Driver"
	case RoleRestaurant:
		return "Restaurant"
	default:
		return "Unknown"
	}
}

// User is the principal returned by the auth backend. ProfileID points at the
// customer, driver or restaurant record the account belongs to.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Type      string `json:"type"`
	IsAdmin   bool   `json:"isAdmin"`
	ProfileID string `json:"profileId,omitempty"`
}

func (u User) Role() Role {
	return ParseRole(u.Type)
}

func (u User) AdminOverride() bool {
	return u.IsAdmin
}

type Session struct {
	User        User   `json:"user"`
	AccessToken string `json:"token"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthState int

const (
	Unauthenticated AuthState = iota
	Authenticating
	Authenticated
)

func (s AuthState) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

func (s AuthState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SessionSnapshot is what observers of the session router receive.
type SessionSnapshot struct {
	State   AuthState `json:"state"`
	Loading bool      `json:"loading"`
	Session *Session  `json:"-"`
}

type Destination string

const (
	DestinationAdmin        Destination = "/admin"
	DestinationCustomerHome Destination = "/"
	DestinationDriver       Destination = "/driver"
	DestinationRestaurant   Destination = "/restaurant"
	DestinationLogin        Destination = "/login"
)

// DestinationFor picks the landing surface after a successful login.
func DestinationFor(u User) Destination {
	if u.AdminOverride() {
		return DestinationAdmin
	}
	switch u.Role() {
	case RoleCustomer:
		return DestinationCustomerHome
	case RoleDriver:
		return DestinationDriver
	case RoleRestaurant:
		return DestinationRestaurant
	default:
		return DestinationLogin
	}
}
