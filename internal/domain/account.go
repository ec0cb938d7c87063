package domain

import "time"

// Account is an identity-provider account: the credential side of a user,
// kept separate from the confirmed User record the gates promote into.
// PasswordHash is empty for federated accounts.
type Account struct {
	UID           string    `json:"uid" dynamodbav:"uid"`
	Email         string    `json:"email" dynamodbav:"email"`
	PasswordHash  string    `json:"-" dynamodbav:"password_hash"`
	EmailVerified bool      `json:"email_verified" dynamodbav:"email_verified"`
	Provider      string    `json:"provider,omitempty" dynamodbav:"provider"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
}
