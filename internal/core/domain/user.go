package domain

import (
	"encoding/base64"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// ValidRole reports whether role is one of the two account roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}

// SeedUserID is the id of the bootstrap admin account. It cannot be deleted.
const SeedUserID = 1

// User is a console account. Password holds a bcrypt hash for accounts created
// by this service; documents migrated from the old console may still carry a
// base64-obscured password, which VerifyPassword accepts until the account is
// upgraded.
type User struct {
	ID        int        `json:"id"`
	Username  string     `json:"username"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	Password  string     `json:"password"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// HasLegacyPassword reports whether the stored credential predates bcrypt.
func (u User) HasLegacyPassword() bool {
	return !strings.HasPrefix(u.Password, "$2")
}

// VerifyPassword checks a plaintext password against the stored credential,
// handling both the bcrypt and the legacy base64 format.
func (u User) VerifyPassword(plain string) bool {
	if u.HasLegacyPassword() {
		decoded, err := base64.StdEncoding.DecodeString(u.Password)
		return err == nil && string(decoded) == plain
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// HashPassword produces the bcrypt credential stored for new or updated
// accounts.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
