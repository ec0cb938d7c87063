package domain

import "time"

// User is a confirmed user record. It is written exactly once per subject:
// as the terminal effect of successful signup verification, or on the first
// federated sign-in. The gates never mutate it afterwards.
type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Email        string    `json:"email" dynamodbav:"email"`
	Verified     bool      `json:"verified" dynamodbav:"verified"`
	AuthProvider string    `json:"provider,omitempty" dynamodbav:"auth_provider"` // "" (password) | "google" | "facebook"
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
}
