package auth

import "github.com/delispi/delispi-backend/internal/users"

// RegisterRequest is the validated registration payload.
type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

// LoginRequest is the validated login payload.
type LoginRequest struct {
	Email    string
	Password string
}

// AuthResponse carries the minted token and the authenticated user.
type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}
