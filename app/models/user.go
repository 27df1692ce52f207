package models

import "gorm.io/gorm"

// Roles a user can hold. Stored uppercase.
const (
	RoleAdmin    = "ADMIN"
	RoleEditor   = "EDITOR"
	RoleCustomer = "CUSTOMER"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleCustomer:
		return true
	}
	return false
}

// User is the primary user model. Every user owns exactly one cart,
// created alongside the account.
type User struct {
	gorm.Model
	Username string  `gorm:"uniqueIndex;size:80;not null"  json:"username"`
	Email    string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string  `gorm:"size:255;not null" json:"-"` // hashed, never serialised
	Role     string  `gorm:"size:20;not null;default:CUSTOMER" json:"role"`
	Active   bool    `gorm:"not null;default:true" json:"is_active"`
	Cart     *Cart   `json:"-"`
	Orders   []Order `json:"-"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
