package verification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minhaz23-oss/fbLogin/internal/domain"
	"github.com/minhaz23-oss/fbLogin/internal/pkg/clock"
	"github.com/minhaz23-oss/fbLogin/internal/pkg/code"
)

// Code lifetimes per kind, and the minimum interval between resends for the
// same record.
const (
	SignUpCodeTTL  = 30 * time.Minute
	SignInCodeTTL  = 15 * time.Minute
	ResendCooldown = 30 * time.Second
)

type Store interface {
	Put(ctx context.Context, v *domain.VerificationRecord) error
	Get(ctx context.Context, subjectID, kind string) (*domain.VerificationRecord, error)
	Update(ctx context.Context, subjectID, kind string, updates map[string]interface{}) error
	Delete(ctx context.Context, subjectID, kind string) error
}

type Mailer interface {
	SendEmail(to, subject, htmlBody string) error
}

// Lifecycle implements the verification-record state machine shared by the
// registration and sign-in gates: issue a code, match it against a pending
// record, consume the record, or replace the code on resend.
type Lifecycle struct {
	store  Store
	mailer Mailer
	clock  clock.Clock
}

func NewLifecycle(store Store, mailer Mailer, clk clock.Clock) *Lifecycle {
	return &Lifecycle{store: store, mailer: mailer, clock: clk}
}

// Get returns the pending record for (subjectID, kind), or a
// domain.ErrNotFound-wrapped error.
func (l *Lifecycle) Get(ctx context.Context, subjectID, kind string) (*domain.VerificationRecord, error) {
	return l.store.Get(ctx, subjectID, kind)
}

// Issue generates a fresh code, persists the record with kind-specific
// expiry, and emails the code. The record is created before the email is
// dispatched; if delivery fails the record is kept so a resend can retry it,
// and the caller sees domain.ErrEmailDelivery.
func (l *Lifecycle) Issue(ctx context.Context, v *domain.VerificationRecord) (string, error) {
	c, err := code.Generate(code.DefaultLength)
	if err != nil {
		return "", err
	}
	now := l.clock.Now().Unix()
	v.Code = c
	v.ExpiresAt = l.clock.Now().Add(ttlFor(v.Kind)).Unix()
	v.CreatedAt = now
	v.EmailSentAt = now
	if err := l.store.Put(ctx, v); err != nil {
		return "", err
	}
	if err := l.mailer.SendEmail(v.Email, "Your Verification Code", codeEmailBody(c)); err != nil {
		slog.Warn("verification email failed", "subject_id", v.SubjectID, "kind", v.Kind, "err", err)
		return "", fmt.Errorf("failed to send verification email, please try again: %w", domain.ErrEmailDelivery)
	}
	return c, nil
}

// Match checks the submitted code against the pending record. The record is
// returned on success and never mutated: wrong codes and expired codes leave
// it in place so the caller can retry or ask for a resend.
func (l *Lifecycle) Match(ctx context.Context, subjectID, kind, submitted string) (*domain.VerificationRecord, error) {
	v, err := l.store.Get(ctx, subjectID, kind)
	if err != nil {
		return nil, fmt.Errorf("verification request not found: %w", domain.ErrNotFound)
	}
	if v.Code != submitted || l.clock.Now().Unix() > v.ExpiresAt {
		return nil, fmt.Errorf("invalid or expired verification code: %w", domain.ErrInvalidCode)
	}
	return v, nil
}

// Consume deletes the pending record after a successful confirmation.
func (l *Lifecycle) Consume(ctx context.Context, subjectID, kind string) error {
	return l.store.Delete(ctx, subjectID, kind)
}

// Resend replaces the code and expiry of an existing record in place,
// preserving created_at, and re-sends the email. A 30s server-side cooldown
// applies between sends.
func (l *Lifecycle) Resend(ctx context.Context, subjectID, email, kind string) (string, error) {
	v, err := l.store.Get(ctx, subjectID, kind)
	if err != nil {
		return "", fmt.Errorf("verification request not found: %w", domain.ErrNotFound)
	}
	now := l.clock.Now()
	if now.Unix() < v.EmailSentAt+int64(ResendCooldown.Seconds()) {
		return "", fmt.Errorf("please wait before requesting another code: %w", domain.ErrResendCooldown)
	}
	c, err := code.Generate(code.DefaultLength)
	if err != nil {
		return "", err
	}
	updates := map[string]interface{}{
		"code":          c,
		"expires_at":    now.Add(ttlFor(kind)).Unix(),
		"email_sent_at": now.Unix(),
	}
	if err := l.store.Update(ctx, subjectID, kind, updates); err != nil {
		return "", err
	}
	if err := l.mailer.SendEmail(email, "Your Verification Code", codeEmailBody(c)); err != nil {
		slog.Warn("verification email failed", "subject_id", subjectID, "kind", kind, "err", err)
		return "", fmt.Errorf("failed to send verification email, please try again: %w", domain.ErrEmailDelivery)
	}
	return c, nil
}

func ttlFor(kind string) time.Duration {
	if kind == domain.VerificationSignIn {
		return SignInCodeTTL
	}
	return SignUpCodeTTL
}

func codeEmailBody(c string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2>Your Verification Code</h2>
  <p>Use the following code to verify your email address:</p>
  <div style="background-color: #f4f4f4; padding: 12px; text-align: center; font-size: 24px; font-weight: bold; letter-spacing: 2px; margin: 20px 0;">
    %s
  </div>
  <p>If you didn't request this code, please ignore this email.</p>
</div>`, c)
}
