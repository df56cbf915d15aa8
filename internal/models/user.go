package models

import "time"

// User represents an account in the credential store.
type User struct {
	ID           string    `json:"id"         bson:"_id,omitempty"`
	Username     string    `json:"username"   bson:"username"`
	PasswordHash string    `json:"-"          bson:"password_hash"` // never serialize
	Role         string    `json:"role"       bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// RegisterRequest is the JSON body for POST /register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest is the JSON body for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
