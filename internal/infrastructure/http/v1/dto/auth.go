package dto

import (
	"rentware/internal/domain/auth"
)

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the token pair plus the authenticated user.
type LoginResponse struct {
	Tokens *auth.TokenPair `json:"tokens"`
	User   *auth.User      `json:"user"`
}

// RefreshRequest exchanges a refresh token for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RegisterRequest creates a new user account.
type RegisterRequest struct {
	Email    string    `json:"email" binding:"required,email"`
	Password string    `json:"password" binding:"required"`
	FullName string    `json:"fullName"`
	Role     auth.Role `json:"role"`
}

// ChangePasswordRequest rotates the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}
