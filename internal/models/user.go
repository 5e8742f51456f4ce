package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles recognized by the access policy.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           string    `db:"id" json:"user_id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Claims defines the structure of the JWT claims. The user ID travels
// in the registered Subject field.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Principal returns the authenticated identity carried by the claims.
func (c *Claims) Principal() *User {
	return &User{
		ID:       c.Subject,
		Username: c.Username,
		Role:     c.Role,
	}
}
