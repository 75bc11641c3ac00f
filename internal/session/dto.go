package session

import "github.com/angelmondragon/marketplace-backend/internal/users"

// LoginInput carries credentials and the optional post-login target.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	From     string `json:"from,omitempty"`
}

// RegisterInput is the registration form.
type RegisterInput struct {
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	CompanyName     string `json:"companyName" validate:"required"`
	Role            string `json:"role" validate:"required,oneof=buyer vendor"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// Issued is a session snapshot with the token that addresses it.
type Issued struct {
	Token   string `json:"token"`
	Session State  `json:"session"`
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Issued
	Redirect string `json:"redirect"`
}

// RegisterResult is returned on a successful registration.
type RegisterResult struct {
	User     users.Profile `json:"user"`
	Redirect string        `json:"redirect"`
}
