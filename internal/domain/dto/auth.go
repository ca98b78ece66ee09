// Package dto defines Data Transfer Objects for authentication.
package dto

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginRequest represents the JSON request body for the login endpoint.
//
// @Description Request to authenticate a user
// @Example {"email": "planner@warehouse.example", "password": "opensesame1"}
type LoginRequest struct {
	// Email is the account's email address.
	Email string `json:"email" binding:"required,email" example:"planner@warehouse.example"`
	// Password is the account's password.
	Password string `json:"password" binding:"required,min=6" example:"opensesame1"`
} // @name LoginRequest

// RegisterRequest represents the JSON request body for the register endpoint.
//
// @Description Request to register a new user
// @Example {"email": "planner@warehouse.example", "username": "planner", "password": "opensesame1", "name": "Allocation Planner"}
type RegisterRequest struct {
	// Email is the account's email address.
	Email string `json:"email" binding:"required,email" example:"planner@warehouse.example"`
	// Username is the account's unique username.
	Username string `json:"username" binding:"required,min=3,max=30" example:"planner"`
	// Password is the account's password (minimum 6 characters).
	Password string `json:"password" binding:"required,min=6" example:"opensesame1"`
	// Name is the account holder's full name (optional).
	Name string `json:"name,omitempty" example:"Allocation Planner"`
} // @name RegisterRequest

// LoginResponse represents the JSON response body for the login endpoint.
//
// @Description Successful authentication response with JWT tokens
type LoginResponse struct {
	// Token is the JWT access token.
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	// RefreshToken is the JWT refresh token.
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	// User contains the authenticated user information.
	User UserResponse `json:"user"`
} // @name LoginResponse

// TokenPair carries the access/refresh tokens issued by the auth service.
// It lives in dto rather than service so both http and service can use it
// without an import cycle.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

// Claims is the identity carried inside a JWT.
type Claims struct {
	UserID primitive.ObjectID `json:"user_id"`
	Email  string             `json:"email"`
	Name   string             `json:"name"`
}

// UserResponse represents user information in API responses.
type UserResponse struct {
	// Email is the account's email address.
	Email string `json:"email" example:"planner@warehouse.example"`
	// Name is the account holder's full name.
	Name string `json:"name,omitempty" example:"Allocation Planner"`
} // @name UserResponse

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Validate performs custom validation on the login request.
func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return invalidField("email", "email is required")
	}
	if len(r.Password) < 6 {
		return invalidField("password", "password must be at least 6 characters")
	}
	return nil
}

// Validate performs custom validation on the register request.
func (r *RegisterRequest) Validate() error {
	if r.Email == "" {
		return invalidField("email", "email is required")
	}
	switch {
	case r.Username == "":
		return invalidField("username", "username is required")
	case len(r.Username) < 3:
		return invalidField("username", "username must be at least 3 characters")
	case len(r.Username) > 30:
		return invalidField("username", "username must be at most 30 characters")
	}
	if len(r.Password) < 6 {
		return invalidField("password", "password must be at least 6 characters")
	}
	return nil
}
