package signin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/minhaz23-oss/fbLogin/internal/domain"
	"github.com/minhaz23-oss/fbLogin/internal/infrastructure/identity"
	"github.com/minhaz23-oss/fbLogin/internal/pkg/clock"
)

type BeginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// BeginResult carries the subject id of the pending sign-in. Code is the
// issued verification code; handlers echo it only outside production. On
// ErrEmailNotVerified the UID is still populated so the caller can be
// redirected back to the registration gate.
type BeginResult struct {
	UID   string
	Email string
	Code  string
}

type FederatedRequest struct {
	UID      string
	Name     string
	Email    string
	Provider string // "google" | "facebook"
}

// Service is the sign-in confirmation gate: credential-checked -> pending ->
// confirmed. Federated sign-in skips the pending step entirely.
type Service interface {
	Begin(ctx context.Context, req BeginRequest) (*BeginResult, error)
	Confirm(ctx context.Context, uid, code string) (*identity.Session, error)
	Federated(ctx context.Context, req FederatedRequest) (*identity.Session, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type codeFlow interface {
	Get(ctx context.Context, subjectID, kind string) (*domain.VerificationRecord, error)
	Issue(ctx context.Context, v *domain.VerificationRecord) (string, error)
	Match(ctx context.Context, subjectID, kind, code string) (*domain.VerificationRecord, error)
	Consume(ctx context.Context, subjectID, kind string) error
}

type identityProvider interface {
	VerifyCredential(ctx context.Context, email, password string) (string, *domain.Account, error)
	CreateAccount(ctx context.Context, uid, email, password, provider string) (*domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	IssueCredential(ctx context.Context, uid, email string) (string, error)
	MintSessionFromToken(ctx context.Context, credential string) (*identity.Session, error)
}

type service struct {
	users    userStore
	codes    codeFlow
	identity identityProvider
	clock    clock.Clock
}

type ServiceDeps struct {
	Users    userStore
	Codes    codeFlow
	Identity identityProvider
	Clock    clock.Clock
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:    deps.Users,
		codes:    deps.Codes,
		identity: deps.Identity,
		clock:    deps.Clock,
	}
}

// Begin runs the credential check at the identity provider and, on success,
// opens a pending sign-in: the provider credential is held in the
// verification record until the emailed code is confirmed.
func (s *service) Begin(ctx context.Context, req BeginRequest) (*BeginResult, error) {
	cred, acct, err := s.identity.VerifyCredential(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.Get(ctx, acct.UID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if _, perr := s.codes.Get(ctx, acct.UID, domain.VerificationSignUp); perr == nil {
			return &BeginResult{UID: acct.UID},
				fmt.Errorf("please verify your email before signing in: %w", domain.ErrEmailNotVerified)
		}
		// Provider account exists but neither a confirmed user nor a pending
		// registration does: a prior partial failure.
		return nil, fmt.Errorf("account issue, please try signing up again: %w", domain.ErrAccountInconsistent)
	}
	code, err := s.codes.Issue(ctx, &domain.VerificationRecord{
		SubjectID:  acct.UID,
		Kind:       domain.VerificationSignIn,
		Email:      req.Email,
		Credential: cred,
	})
	if err != nil {
		return nil, err
	}
	return &BeginResult{UID: acct.UID, Email: req.Email, Code: code}, nil
}

// Confirm matches the emailed code and exchanges the stored credential for a
// session. The pending record is deleted only after the session is minted.
func (s *service) Confirm(ctx context.Context, uid, code string) (*identity.Session, error) {
	rec, err := s.codes.Match(ctx, uid, domain.VerificationSignIn, code)
	if err != nil {
		return nil, err
	}
	sess, err := s.identity.MintSessionFromToken(ctx, rec.Credential)
	if err != nil {
		return nil, err
	}
	if err := s.codes.Consume(ctx, uid, domain.VerificationSignIn); err != nil {
		slog.Warn("failed to delete signin verification record", "uid", uid, "err", err)
	}
	return sess, nil
}

// Federated signs in a subject already authenticated by an external provider.
// No verification code is involved. The user record is created on first
// sign-in and never overwritten after that; repeated calls only refresh the
// session.
func (s *service) Federated(ctx context.Context, req FederatedRequest) (*identity.Session, error) {
	if _, err := s.identity.GetAccountByEmail(ctx, req.Email); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if _, err := s.identity.CreateAccount(ctx, req.UID, req.Email, "", req.Provider); err != nil {
			return nil, err
		}
	}
	if _, err := s.users.Get(ctx, req.UID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		u := &domain.User{
			UserID:       req.UID,
			Name:         req.Name,
			Email:        req.Email,
			Verified:     true,
			AuthProvider: req.Provider,
			CreatedAt:    s.clock.Now(),
		}
		if err := s.users.Put(ctx, u); err != nil {
			return nil, err
		}
	}
	cred, err := s.identity.IssueCredential(ctx, req.UID, req.Email)
	if err != nil {
		return nil, err
	}
	return s.identity.MintSessionFromToken(ctx, cred)
}
