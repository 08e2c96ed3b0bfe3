package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleOrganizer Role = "organizer"
	RoleGuest     Role = "guest"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOrganizer, RoleGuest:
		return Role(s), true
	default:
		return "", false
	}
}

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Plan         Plan      `json:"plan"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the minimal authenticated identity the RSVP engine needs.
// It is always passed explicitly by the caller, never read from globals.
type Identity struct {
	UserID int64
	Name   string
	Email  string
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Role == "" {
		r.Role = string(RoleGuest)
	}
}

func (r *RegisterRequest) Validate() error {
	if r.Name == "" {
		return Invalid("name", "is required")
	}
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return Invalid("email", "must be a valid email address")
	}
	if len(r.Password) < 8 {
		return Invalid("password", "must be at least 8 characters")
	}
	if _, ok := ParseRole(r.Role); !ok {
		return Invalid("role", "must be 'organizer' or 'guest'")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}
