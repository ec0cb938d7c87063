package signin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minhaz23-oss/fbLogin/internal/domain"
	"github.com/minhaz23-oss/fbLogin/internal/infrastructure/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

type mockCodeFlow struct{ mock.Mock }

func (m *mockCodeFlow) Get(ctx context.Context, subjectID, kind string) (*domain.VerificationRecord, error) {
	args := m.Called(ctx, subjectID, kind)
	if v, _ := args.Get(0).(*domain.VerificationRecord); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCodeFlow) Issue(ctx context.Context, v *domain.VerificationRecord) (string, error) {
	args := m.Called(ctx, v)
	return args.String(0), args.Error(1)
}
func (m *mockCodeFlow) Match(ctx context.Context, subjectID, kind, code string) (*domain.VerificationRecord, error) {
	args := m.Called(ctx, subjectID, kind, code)
	if v, _ := args.Get(0).(*domain.VerificationRecord); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCodeFlow) Consume(ctx context.Context, subjectID, kind string) error {
	return m.Called(ctx, subjectID, kind).Error(0)
}

type mockIdentity struct{ mock.Mock }

func (m *mockIdentity) VerifyCredential(ctx context.Context, email, password string) (string, *domain.Account, error) {
	args := m.Called(ctx, email, password)
	if a, _ := args.Get(1).(*domain.Account); a != nil {
		return args.String(0), a, args.Error(2)
	}
	return args.String(0), nil, args.Error(2)
}
func (m *mockIdentity) CreateAccount(ctx context.Context, uid, email, password, provider string) (*domain.Account, error) {
	args := m.Called(ctx, uid, email, password, provider)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockIdentity) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockIdentity) IssueCredential(ctx context.Context, uid, email string) (string, error) {
	args := m.Called(ctx, uid, email)
	return args.String(0), args.Error(1)
}
func (m *mockIdentity) MintSessionFromToken(ctx context.Context, credential string) (*identity.Session, error) {
	args := m.Called(ctx, credential)
	if s, _ := args.Get(0).(*identity.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var frozen = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(us *mockUserStore, cf *mockCodeFlow, idp *mockIdentity) Service {
	return NewService(ServiceDeps{Users: us, Codes: cf, Identity: idp, Clock: fixedClock{frozen}})
}

// --- Begin ---

func TestBegin_NoSuchAccount(t *testing.T) {
	idp := &mockIdentity{}
	idp.On("VerifyCredential", mock.Anything, "x@x.com", "password123").
		Return("", nil, domain.ErrNoSuchAccount)

	svc := newTestService(&mockUserStore{}, &mockCodeFlow{}, idp)
	_, err := svc.Begin(context.Background(), BeginRequest{Email: "x@x.com", Password: "password123"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoSuchAccount))
}

func TestBegin_WrongPassword(t *testing.T) {
	idp := &mockIdentity{}
	idp.On("VerifyCredential", mock.Anything, "a@b.com", "wrongpass").
		Return("", nil, domain.ErrUnauthorized)

	svc := newTestService(&mockUserStore{}, &mockCodeFlow{}, idp)
	_, err := svc.Begin(context.Background(), BeginRequest{Email: "a@b.com", Password: "wrongpass"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestBegin_PendingSignUp_ReturnsUIDWithError(t *testing.T) {
	us := &mockUserStore{}
	cf := &mockCodeFlow{}
	idp := &mockIdentity{}

	idp.On("VerifyCredential", mock.Anything, "a@b.com", "password123").
		Return("cred", &domain.Account{UID: "u1", Email: "a@b.com"}, nil)
	us.On("Get", mock.Anything, "u1").Return(nil, domain.ErrNotFound)
	cf.On("Get", mock.Anything, "u1", "signup").Return(&domain.VerificationRecord{SubjectID: "u1"}, nil)

	svc := newTestService(us, cf, idp)
	res, err := svc.Begin(context.Background(), BeginRequest{Email: "a@b.com", Password: "password123"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmailNotVerified))
	require.NotNil(t, res)
	assert.Equal(t, "u1", res.UID)
}

func TestBegin_AccountWithoutUserOrPending_Inconsistent(t *testing.T) {
	us := &mockUserStore{}
	cf := &mockCodeFlow{}
	idp := &mockIdentity{}

	idp.On("VerifyCredential", mock.Anything, "a@b.com", "password123").
		Return("cred", &domain.Account{UID: "u1"}, nil)
	us.On("Get", mock.Anything, "u1").Return(nil, domain.ErrNotFound)
	cf.On("Get", mock.Anything, "u1", "signup").Return(nil, domain.ErrNotFound)

	svc := newTestService(us, cf, idp)
	_, err := svc.Begin(context.Background(), BeginRequest{Email: "a@b.com", Password: "password123"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAccountInconsistent))
}

func TestBegin_HappyPath_StoresCredentialInRecord(t *testing.T) {
	us := &mockUserStore{}
	cf := &mockCodeFlow{}
	idp := &mockIdentity{}

	idp.On("VerifyCredential", mock.Anything, "a@b.com", "password123").
		Return("cred-token", &domain.Account{UID: "u1", Email: "a@b.com"}, nil)
	us.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Verified: true}, nil)
	cf.On("Issue", mock.Anything, mock.MatchedBy(func(v *domain.VerificationRecord) bool {
		return v.SubjectID == "u1" && v.Kind == domain.VerificationSignIn &&
			v.Email == "a@b.com" && v.Credential == "cred-token"
	})).Return("XYZ789", nil)

	svc := newTestService(us, cf, idp)
	res, err := svc.Begin(context.Background(), BeginRequest{Email: "a@b.com", Password: "password123"})

	require.NoError(t, err)
	assert.Equal(t, "u1", res.UID)
	assert.Equal(t, "a@b.com", res.Email)
	assert.Equal(t, "XYZ789", res.Code)
	cf.AssertExpectations(t)
}

// --- Confirm ---

func TestConfirm_InvalidCode(t *testing.T) {
	cf := &mockCodeFlow{}
	cf.On("Match", mock.Anything, "u1", "signin", "WRONG1").Return(nil, domain.ErrInvalidCode)

	svc := newTestService(&mockUserStore{}, cf, &mockIdentity{})
	_, err := svc.Confirm(context.Background(), "u1", "WRONG1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidCode))
}

func TestConfirm_HappyPath_MintsSessionThenConsumes(t *testing.T) {
	cf := &mockCodeFlow{}
	idp := &mockIdentity{}

	cf.On("Match", mock.Anything, "u1", "signin", "XYZ789").Return(&domain.VerificationRecord{
		SubjectID:  "u1",
		Kind:       domain.VerificationSignIn,
		Credential: "cred-token",
	}, nil)
	idp.On("MintSessionFromToken", mock.Anything, "cred-token").
		Return(&identity.Session{Token: "sess-token", UID: "u1"}, nil)
	cf.On("Consume", mock.Anything, "u1", "signin").Return(nil)

	svc := newTestService(&mockUserStore{}, cf, idp)
	sess, err := svc.Confirm(context.Background(), "u1", "XYZ789")

	require.NoError(t, err)
	assert.Equal(t, "sess-token", sess.Token)
	cf.AssertExpectations(t)
	idp.AssertExpectations(t)
}

func TestConfirm_ExpiredCredential_KeepsRecord(t *testing.T) {
	cf := &mockCodeFlow{}
	idp := &mockIdentity{}

	cf.On("Match", mock.Anything, "u1", "signin", "XYZ789").Return(&domain.VerificationRecord{
		SubjectID:  "u1",
		Credential: "stale-cred",
	}, nil)
	idp.On("MintSessionFromToken", mock.Anything, "stale-cred").
		Return(nil, domain.ErrUnauthorized)

	svc := newTestService(&mockUserStore{}, cf, idp)
	_, err := svc.Confirm(context.Background(), "u1", "XYZ789")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	cf.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_ConsumeFailure_StillReturnsSession(t *testing.T) {
	cf := &mockCodeFlow{}
	idp := &mockIdentity{}

	cf.On("Match", mock.Anything, "u1", "signin", "XYZ789").Return(&domain.VerificationRecord{
		SubjectID:  "u1",
		Credential: "cred-token",
	}, nil)
	idp.On("MintSessionFromToken", mock.Anything, "cred-token").
		Return(&identity.Session{Token: "sess-token"}, nil)
	cf.On("Consume", mock.Anything, "u1", "signin").Return(errors.New("dynamo down"))

	svc := newTestService(&mockUserStore{}, cf, idp)
	sess, err := svc.Confirm(context.Background(), "u1", "XYZ789")

	require.NoError(t, err)
	assert.Equal(t, "sess-token", sess.Token)
}

// --- Federated ---

func TestFederated_FirstSignIn_CreatesAccountAndUser(t *testing.T) {
	us := &mockUserStore{}
	idp := &mockIdentity{}

	idp.On("GetAccountByEmail", mock.Anything, "g@b.com").Return(nil, domain.ErrNotFound)
	idp.On("CreateAccount", mock.Anything, "g1", "g@b.com", "", "google").
		Return(&domain.Account{UID: "g1", Email: "g@b.com", Provider: "google"}, nil)
	us.On("Get", mock.Anything, "g1").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.UserID == "g1" && u.Name == "Grace" && u.Email == "g@b.com" &&
			u.Verified && u.AuthProvider == "google"
	})).Return(nil)
	idp.On("IssueCredential", mock.Anything, "g1", "g@b.com").Return("cred", nil)
	idp.On("MintSessionFromToken", mock.Anything, "cred").
		Return(&identity.Session{Token: "sess-token", UID: "g1"}, nil)

	svc := newTestService(us, &mockCodeFlow{}, idp)
	sess, err := svc.Federated(context.Background(), FederatedRequest{
		UID: "g1", Name: "Grace", Email: "g@b.com", Provider: "google",
	})

	require.NoError(t, err)
	assert.Equal(t, "sess-token", sess.Token)
	us.AssertExpectations(t)
	idp.AssertExpectations(t)
}

func TestFederated_RepeatSignIn_Idempotent(t *testing.T) {
	us := &mockUserStore{}
	idp := &mockIdentity{}

	idp.On("GetAccountByEmail", mock.Anything, "g@b.com").
		Return(&domain.Account{UID: "g1", Email: "g@b.com", Provider: "google"}, nil)
	us.On("Get", mock.Anything, "g1").Return(&domain.User{UserID: "g1", Name: "Grace"}, nil)
	idp.On("IssueCredential", mock.Anything, "g1", "g@b.com").Return("cred", nil)
	idp.On("MintSessionFromToken", mock.Anything, "cred").
		Return(&identity.Session{Token: "sess-token-2"}, nil)

	svc := newTestService(us, &mockCodeFlow{}, idp)
	sess, err := svc.Federated(context.Background(), FederatedRequest{
		UID: "g1", Name: "Grace", Email: "g@b.com", Provider: "google",
	})

	require.NoError(t, err)
	assert.Equal(t, "sess-token-2", sess.Token)
	idp.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	us.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}
