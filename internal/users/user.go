package users

import (
	"strings"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// User is a marketplace account. PasswordHash never leaves the process.
type User struct {
	ID           string
	FullName     string
	Email        string
	CompanyName  string
	Role         enums.Role
	PasswordHash string
}

// Profile is the transport shape that omits credentials.
type Profile struct {
	ID          string     `json:"id"`
	FullName    string     `json:"fullName"`
	Email       string     `json:"email"`
	CompanyName string     `json:"companyName"`
	Role        enums.Role `json:"role"`
}

// Profile strips the credential from the user record.
func (u User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		CompanyName: u.CompanyName,
		Role:        u.Role,
	}
}

// CreateUserInput holds the data required to register a new account.
type CreateUserInput struct {
	FullName    string
	Email       string
	CompanyName string
	Role        enums.Role
	Password    string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
