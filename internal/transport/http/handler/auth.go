package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/minhaz23-oss/fbLogin/internal/application/registration"
	"github.com/minhaz23-oss/fbLogin/internal/application/signin"
	"github.com/minhaz23-oss/fbLogin/internal/domain"
	"github.com/minhaz23-oss/fbLogin/internal/infrastructure/facebook"
	"github.com/minhaz23-oss/fbLogin/internal/infrastructure/google"
	"github.com/minhaz23-oss/fbLogin/internal/infrastructure/identity"
	"github.com/minhaz23-oss/fbLogin/internal/pkg/validate"
)

type googleVerifier interface {
	Verify(ctx context.Context, token string) (*google.Payload, error)
}

type facebookVerifier interface {
	Verify(ctx context.Context, token string) (*facebook.Payload, error)
}

type resender interface {
	Resend(ctx context.Context, subjectID, email, kind string) (string, error)
}

// AuthHandler handles the signup, signin, resend, and federated endpoints.
type AuthHandler struct {
	reg      registration.Service
	signin   signin.Service
	resend   resender
	google   googleVerifier
	facebook facebookVerifier

	// echoCodes exposes issued verification codes in responses; never set in
	// production.
	echoCodes     bool
	secureCookies bool
}

type AuthHandlerDeps struct {
	Registration  registration.Service
	SignIn        signin.Service
	Resender      resender
	Google        googleVerifier
	Facebook      facebookVerifier
	EchoCodes     bool
	SecureCookies bool
}

func NewAuthHandler(deps AuthHandlerDeps) *AuthHandler {
	return &AuthHandler{
		reg:           deps.Registration,
		signin:        deps.SignIn,
		resend:        deps.Resender,
		google:        deps.Google,
		facebook:      deps.Facebook,
		echoCodes:     deps.EchoCodes,
		secureCookies: deps.SecureCookies,
	}
}

func (h *AuthHandler) code(c string) string {
	if h.echoCodes {
		return c
	}
	return ""
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req registration.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	res, err := h.reg.RequestSignUp(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ResultEnvelope{
		Success:          true,
		Message:          "Verification code sent to your email.",
		UID:              res.UID,
		VerificationCode: h.code(res.Code),
	})
}

func (h *AuthHandler) VerifySignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID  string `json:"uid" validate:"required"`
		Code string `json:"code" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.reg.ConfirmSignUp(r.Context(), req.UID, req.Code); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ResultEnvelope{Success: true, Message: "Email verified successfully"})
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signin.BeginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	res, err := h.signin.Begin(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrEmailNotVerified) && res != nil {
			// Send the caller back to the registration gate with the uid it
			// needs to confirm.
			writeJSON(w, http.StatusForbidden, ResultEnvelope{
				Success:              false,
				Message:              err.Error(),
				UID:                  res.UID,
				RequiresVerification: true,
			})
			return
		}
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ResultEnvelope{
		Success:              true,
		Message:              "Verification code sent to your email.",
		UID:                  res.UID,
		Email:                res.Email,
		RequiresVerification: true,
		VerificationCode:     h.code(res.Code),
	})
}

func (h *AuthHandler) VerifySignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID  string `json:"uid" validate:"required"`
		Code string `json:"code" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	sess, err := h.signin.Confirm(r.Context(), req.UID, req.Code)
	if err != nil {
		httpError(w, err)
		return
	}
	setSessionCookie(w, sess.Token, identity.SessionTTL, h.secureCookies)
	writeJSON(w, http.StatusOK, ResultEnvelope{Success: true, Message: "Sign in successful"})
}

func (h *AuthHandler) Resend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID              string `json:"uid" validate:"required"`
		Email            string `json:"email" validate:"required,email"`
		VerificationType string `json:"verificationType" validate:"required,oneof=signup signin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	code, err := h.resend.Resend(r.Context(), req.UID, req.Email, req.VerificationType)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ResultEnvelope{
		Success:          true,
		Message:          "Verification code resent to your email.",
		VerificationCode: h.code(code),
	})
}

// Federated handles /auth/federated/{provider}. The provider token is
// verified server-side; the profile embedded in the token wins over anything
// in the request body.
func (h *AuthHandler) Federated(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var fedReq signin.FederatedRequest
	switch chi.URLParam(r, "provider") {
	case "google":
		p, err := h.google.Verify(r.Context(), req.Token)
		if err != nil {
			httpError(w, err)
			return
		}
		fedReq = signin.FederatedRequest{UID: p.Sub, Name: p.Name, Email: p.Email, Provider: "google"}
	case "facebook":
		p, err := h.facebook.Verify(r.Context(), req.Token)
		if err != nil {
			httpError(w, err)
			return
		}
		fedReq = signin.FederatedRequest{UID: p.ID, Name: p.Name, Email: p.Email, Provider: "facebook"}
	default:
		writeError(w, http.StatusBadRequest, "unknown provider")
		return
	}

	sess, err := h.signin.Federated(r.Context(), fedReq)
	if err != nil {
		httpError(w, err)
		return
	}
	setSessionCookie(w, sess.Token, identity.SessionTTL, h.secureCookies)
	writeJSON(w, http.StatusOK, ResultEnvelope{Success: true, Message: "Sign in successful"})
}
