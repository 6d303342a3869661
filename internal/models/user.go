package models

import "time"

// Roles a user can hold.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Birthdate      string    `json:"birthdate"` // YYYY-MM-DD
	Role           string    `json:"role"`
	MilitaryRankID string    `json:"military_rank_id,omitempty"`
	PasswordHash   string    `json:"-"` // don’t expose hash
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// CreateUserInput is the payload accepted when an administrator registers a user.
type CreateUserInput struct {
	Name                 string `json:"name" validate:"required,max=120"`
	Email                string `json:"email" validate:"required,email,max=254"`
	Phone                string `json:"phone" validate:"required,phone"`
	Birthdate            string `json:"birthdate" validate:"required,birthdate"`
	Role                 string `json:"role" validate:"required,oneof=admin user"`
	MilitaryRankID       string `json:"military_rank_id,omitempty" validate:"omitempty,uuid"`
	Password             string `json:"password" validate:"required,password"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// UpdateUserInput replaces the profile fields of an existing user.
type UpdateUserInput struct {
	Name           string `json:"name" validate:"required,max=120"`
	Email          string `json:"email" validate:"required,email,max=254"`
	Phone          string `json:"phone" validate:"required,phone"`
	Birthdate      string `json:"birthdate" validate:"required,birthdate"`
	Role           string `json:"role" validate:"required,oneof=admin user"`
	MilitaryRankID string `json:"military_rank_id,omitempty" validate:"omitempty,uuid"`
}

// SignUpInput is the public self-registration payload. The role is always "user".
type SignUpInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	Birthdate            string `json:"birthdate"`
	MilitaryRankID       string `json:"military_rank_id,omitempty"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// CreateInput converts a sign-up payload into a regular user creation.
func (in SignUpInput) CreateInput() CreateUserInput {
	return CreateUserInput{
		Name:                 in.Name,
		Email:                in.Email,
		Phone:                in.Phone,
		Birthdate:            in.Birthdate,
		Role:                 RoleUser,
		MilitaryRankID:       in.MilitaryRankID,
		Password:             in.Password,
		PasswordConfirmation: in.PasswordConfirmation,
	}
}
