package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/minhaz23-oss/fbLogin/internal/domain"
	"github.com/minhaz23-oss/fbLogin/internal/pkg/clock"
	"github.com/minhaz23-oss/fbLogin/internal/pkg/id"
)

type SignUpRequest struct {
	UID      string `json:"uid"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Result carries the subject id of the pending registration. Code is the
// issued verification code; handlers echo it only outside production.
type Result struct {
	UID  string
	Code string
}

// Service is the registration gate: absent -> pending -> verified.
type Service interface {
	RequestSignUp(ctx context.Context, req SignUpRequest) (*Result, error)
	ConfirmSignUp(ctx context.Context, uid, code string) error
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
	CreateAccount(ctx context.Context, uid, email, password, provider string) (*domain.Account, error)
	MarkEmailVerified(ctx context.Context, uid string) error
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

// RequestSignUp opens a pending registration: it creates the identity
// account, issues a verification code, and emails it. A confirmed user or an
// already-pending registration for the same subject rejects the request.
func (s *service) RequestSignUp(ctx context.Context, req SignUpRequest) (*Result, error) {
	uid := req.UID
	if uid == "" {
		uid = id.New()
	}
	if _, err := s.users.Get(ctx, uid); err == nil {
		return nil, fmt.Errorf("user already exists, please sign in: %w", domain.ErrAlreadyExists)
	}
	if _, err := s.codes.Get(ctx, uid, domain.VerificationSignUp); err == nil {
		return nil, fmt.Errorf("verification request already exists, please check your email for the verification code: %w", domain.ErrAlreadyPending)
	}
	if _, err := s.identity.CreateAccount(ctx, uid, req.Email, req.Password, ""); err != nil {
		return nil, err
	}
	code, err := s.codes.Issue(ctx, &domain.VerificationRecord{
		SubjectID: uid,
		Kind:      domain.VerificationSignUp,
		Name:      req.Name,
		Email:     req.Email,
	})
	if err != nil {
		// Delivery failures keep the record in place; resend retries it.
		return nil, err
	}
	return &Result{UID: uid, Code: code}, nil
}

// ConfirmSignUp promotes a pending registration into a confirmed user. The
// pending record is deleted last, so a crash mid-sequence leaves a state the
// caller can retry: a pre-existing user record is tolerated and the
// remaining steps still run.
func (s *service) ConfirmSignUp(ctx context.Context, uid, code string) error {
	rec, err := s.codes.Match(ctx, uid, domain.VerificationSignUp, code)
	if err != nil {
		return err
	}
	if _, err := s.users.Get(ctx, uid); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		u := &domain.User{
			UserID:    uid,
			Name:      rec.Name,
			Email:     rec.Email,
			Verified:  true,
			CreatedAt: s.clock.Now(),
		}
		if err := s.users.Put(ctx, u); err != nil {
			return err
		}
	}
	if err := s.identity.MarkEmailVerified(ctx, uid); err != nil {
		return err
	}
	if err := s.codes.Consume(ctx, uid, domain.VerificationSignUp); err != nil {
		slog.Warn("failed to delete signup verification record", "uid", uid, "err", err)
	}
	return nil
}
