package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/minhaz23-oss/fbLogin/internal/domain"
	jwtinfra "github.com/minhaz23-oss/fbLogin/internal/infrastructure/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Credential tokens mirror the one-hour validity of provider ID tokens, so a
// stored credential outlives the sign-in code it is paired with.
const credentialTTL = time.Hour

// SessionTTL is the fixed session-cookie lifetime.
const SessionTTL = 7 * 24 * time.Hour

// Session is a minted session cookie value plus its absolute expiry.
type Session struct {
	Token     string
	UID       string
	Email     string
	ExpiresAt time.Time
}

// SessionClaims identifies the signed-in subject carried by a session cookie.
type SessionClaims struct {
	UID   string
	Email string
}

type accountStore interface {
	Put(ctx context.Context, a *domain.Account) error
	Get(ctx context.Context, uid string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Update(ctx context.Context, uid string, updates map[string]interface{}) error
}

type tokenSigner interface {
	Sign(uid, email, purpose string, ttl time.Duration) (string, error)
	Verify(token, purpose string) (*jwtinfra.Claims, error)
}

// Provider is the identity collaborator consumed by the gates: account
// records, credential checks, and session minting. Passwords are bcrypt
// hashes; credentials and sessions are RS256 JWTs.
type Provider struct {
	accounts accountStore
	tokens   tokenSigner
}

func NewProvider(accounts accountStore, tokens tokenSigner) *Provider {
	return &Provider{accounts: accounts, tokens: tokens}
}

// CreateAccount registers a new account. password is empty for federated
// accounts, which are created email-verified.
func (p *Provider) CreateAccount(ctx context.Context, uid, email, password, provider string) (*domain.Account, error) {
	if _, err := p.accounts.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("this email is already in use: %w", domain.ErrAlreadyExists)
	}
	a := &domain.Account{
		UID:           uid,
		Email:         email,
		Provider:      provider,
		EmailVerified: provider != "",
		CreatedAt:     time.Now().UTC(),
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		a.PasswordHash = string(hash)
	}
	if err := p.accounts.Put(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (p *Provider) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return p.accounts.GetByEmail(ctx, email)
}

// VerifyCredential checks the password and, on success, returns a
// short-lived credential token exchangeable for a session.
func (p *Provider) VerifyCredential(ctx context.Context, email, password string) (string, *domain.Account, error) {
	a, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("user does not exist, please create an account: %w", domain.ErrNoSuchAccount)
	}
	if a.PasswordHash == "" {
		return "", nil, fmt.Errorf("account uses federated sign-in: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	cred, err := p.tokens.Sign(a.UID, a.Email, jwtinfra.PurposeCredential, credentialTTL)
	if err != nil {
		return "", nil, err
	}
	return cred, a, nil
}

// IssueCredential mints a credential token for a subject the caller has
// already authenticated out of band (federated sign-in).
func (p *Provider) IssueCredential(ctx context.Context, uid, email string) (string, error) {
	return p.tokens.Sign(uid, email, jwtinfra.PurposeCredential, credentialTTL)
}

func (p *Provider) MarkEmailVerified(ctx context.Context, uid string) error {
	return p.accounts.Update(ctx, uid, map[string]interface{}{"email_verified": true})
}

// MintSessionFromToken exchanges a valid credential token for a session.
func (p *Provider) MintSessionFromToken(ctx context.Context, credential string) (*Session, error) {
	claims, err := p.tokens.Verify(credential, jwtinfra.PurposeCredential)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired credential: %w", domain.ErrUnauthorized)
	}
	expiresAt := time.Now().Add(SessionTTL)
	token, err := p.tokens.Sign(claims.UID, claims.Email, jwtinfra.PurposeSession, SessionTTL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, UID: claims.UID, Email: claims.Email, ExpiresAt: expiresAt}, nil
}

// VerifySession validates a session cookie value.
func (p *Provider) VerifySession(ctx context.Context, token string) (*SessionClaims, error) {
	claims, err := p.tokens.Verify(token, jwtinfra.PurposeSession)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired session: %w", domain.ErrUnauthorized)
	}
	return &SessionClaims{UID: claims.UID, Email: claims.Email}, nil
}
