package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/minhaz23-oss/fbLogin/internal/domain"
	"github.com/minhaz23-oss/fbLogin/internal/infrastructure/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) VerifySession(ctx context.Context, token string) (*identity.SessionClaims, error) {
	args := m.Called(ctx, token)
	if c, _ := args.Get(0).(*identity.SessionClaims); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestSession_MissingCookie(t *testing.T) {
	v := &mockVerifier{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	Session(v)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	v.AssertNotCalled(t, "VerifySession", mock.Anything, mock.Anything)
}

func TestSession_InvalidToken(t *testing.T) {
	v := &mockVerifier{}
	v.On("VerifySession", mock.Anything, "bad-token").Return(nil, domain.ErrUnauthorized)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bad-token"})
	rr := httptest.NewRecorder()
	Session(v)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSession_ValidToken_InjectsClaims(t *testing.T) {
	v := &mockVerifier{}
	v.On("VerifySession", mock.Anything, "good-token").
		Return(&identity.SessionClaims{UID: "u1", Email: "a@b.com"}, nil)

	var got *identity.SessionClaims
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "good-token"})
	rr := httptest.NewRecorder()
	Session(v)(capture).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UID)
	assert.Equal(t, "a@b.com", got.Email)
}

func TestSessionFromContext_Absent(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)
}
