package domain

// Verification kinds. Signup and signin challenges share one table under
// separate sort keys, so a subject holds at most one pending record of each
// kind at any time.
const (
	VerificationSignUp = "signup"
	VerificationSignIn = "signin"
)

// VerificationRecord is a pending email-code challenge.
// PK: subject_id, SK: kind. A record exists if and only if the action is
// pending: successful confirmation deletes it, failed attempts leave it
// untouched so the caller may retry or request a resend.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type VerificationRecord struct {
	SubjectID   string `json:"subject_id" dynamodbav:"subject_id"`
	Kind        string `json:"kind" dynamodbav:"kind"`
	Code        string `json:"-" dynamodbav:"code"`
	Name        string `json:"-" dynamodbav:"name,omitempty"` // signup only: prospective display name
	Email       string `json:"-" dynamodbav:"email"`
	Credential  string `json:"-" dynamodbav:"credential,omitempty"` // signin only: provider credential held until the code is confirmed
	ExpiresAt   int64  `json:"-" dynamodbav:"expires_at"`           // TTL (Unix seconds)
	EmailSentAt int64  `json:"-" dynamodbav:"email_sent_at"`
	CreatedAt   int64  `json:"created_at" dynamodbav:"created_at"`
}
