package domain

import "time"

// Role enumerates account privilege levels.
type Role string

const (
	RoleCustomer   Role = "CUSTOMER"
	RoleDriver     Role = "DRIVER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Valid reports whether the role belongs to the closed enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleDriver, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// AccountStatus represents lifecycle states for an account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

// Account is the locally-owned record bound to one external identity.
// ExternalID is immutable once set; Role is assigned at creation and never
// changed by any sync or registration path.
type Account struct {
	ID         string
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
	Phone      *string
	Avatar     *string
	Role       Role
	Status     AccountStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsActive derives the caller-visible activity flag from status.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// AccountView is the caller-facing projection of an account. It never
// carries the external identity id.
type AccountView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     *string   `json:"phone,omitempty"`
	Avatar    *string   `json:"avatar,omitempty"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// View projects the account for API responses.
func (a *Account) View() AccountView {
	return AccountView{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Phone:     a.Phone,
		Avatar:    a.Avatar,
		Role:      a.Role,
		IsActive:  a.IsActive(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
