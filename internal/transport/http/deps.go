package http

import (
	"context"

	"github.com/minhaz23-oss/fbLogin/internal/domain"
	"github.com/minhaz23-oss/fbLogin/internal/infrastructure/facebook"
	"github.com/minhaz23-oss/fbLogin/internal/infrastructure/google"
	"github.com/minhaz23-oss/fbLogin/internal/infrastructure/identity"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

// VerificationRepository is the minimal interface the router requires from a
// verification-record store.
type VerificationRepository interface {
	Put(ctx context.Context, v *domain.VerificationRecord) error
	Get(ctx context.Context, subjectID, kind string) (*domain.VerificationRecord, error)
	Update(ctx context.Context, subjectID, kind string, updates map[string]interface{}) error
	Delete(ctx context.Context, subjectID, kind string) error
}

// IdentityProvider is the minimal interface the router requires from the
// identity layer: account records, credential checks, and session minting.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, uid, email, password, provider string) (*domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	VerifyCredential(ctx context.Context, email, password string) (string, *domain.Account, error)
	IssueCredential(ctx context.Context, uid, email string) (string, error)
	MarkEmailVerified(ctx context.Context, uid string) error
	MintSessionFromToken(ctx context.Context, credential string) (*identity.Session, error)
	VerifySession(ctx context.Context, token string) (*identity.SessionClaims, error)
}

// Mailer is the minimal interface the router requires from an email sender.
type Mailer interface {
	SendEmail(to, subject, htmlBody string) error
}

// GoogleVerifier validates Google ID tokens.
type GoogleVerifier interface {
	Verify(ctx context.Context, token string) (*google.Payload, error)
}

// FacebookVerifier validates Facebook access tokens.
type FacebookVerifier interface {
	Verify(ctx context.Context, token string) (*facebook.Payload, error)
}
