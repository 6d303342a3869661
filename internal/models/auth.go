package models

import "time"

// LoginProps are the credentials posted to the login endpoint.
type LoginProps struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserLogged is returned after a successful login.
type UserLogged struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Session is the authenticated identity carried by a valid token.
type Session struct {
	UserID    string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

type ChangePasswordInput struct {
	CurrentPassword         string `json:"current_password" validate:"required"`
	NewPassword             string `json:"new_password" validate:"required,password"`
	NewPasswordConfirmation string `json:"new_password_confirmation" validate:"required,eqfield=NewPassword"`
}
