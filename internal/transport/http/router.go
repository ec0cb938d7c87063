package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/minhaz23-oss/fbLogin/internal/application/registration"
	"github.com/minhaz23-oss/fbLogin/internal/application/signin"
	"github.com/minhaz23-oss/fbLogin/internal/application/verification"
	"github.com/minhaz23-oss/fbLogin/internal/config"
	"github.com/minhaz23-oss/fbLogin/internal/pkg/clock"
	"github.com/minhaz23-oss/fbLogin/internal/transport/http/handler"
	appmiddleware "github.com/minhaz23-oss/fbLogin/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         UserRepository
	VerificationRepo VerificationRepository
	Identity         IdentityProvider
	Mailer           Mailer
	Google           GoogleVerifier
	Facebook         FacebookVerifier
	Clock            clock.Clock
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	var sessionMw func(http.Handler) http.Handler
	if deps.Identity != nil {
		sessionMw = appmiddleware.Session(deps.Identity)
	} else {
		sessionMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	codes := verification.NewLifecycle(deps.VerificationRepo, deps.Mailer, deps.Clock)
	regSvc := registration.NewService(registration.ServiceDeps{
		Users:    deps.UserRepo,
		Codes:    codes,
		Identity: deps.Identity,
		Clock:    deps.Clock,
	})
	signinSvc := signin.NewService(signin.ServiceDeps{
		Users:    deps.UserRepo,
		Codes:    codes,
		Identity: deps.Identity,
		Clock:    deps.Clock,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(handler.AuthHandlerDeps{
		Registration:  regSvc,
		SignIn:        signinSvc,
		Resender:      codes,
		Google:        deps.Google,
		Facebook:      deps.Facebook,
		EchoCodes:     !cfg.Production(),
		SecureCookies: cfg.Production(),
	})
	sessionH := handler.NewSessionHandler(deps.UserRepo, cfg.Production())

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check", healthH.Ping)
		r.Post("/health-check", healthH.Ping)

		r.Route("/auth", func(r chi.Router) {
			r.Use(sensitiveRL.Limit)

			r.Post("/sign-up", authH.SignUp)
			r.Post("/sign-up/verify", authH.VerifySignUp)
			r.Post("/sign-in", authH.SignIn)
			r.Post("/sign-in/verify", authH.VerifySignIn)
			r.Post("/resend", authH.Resend)
			r.Post("/federated/{provider}", authH.Federated)
		})

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(sessionMw)

			r.Get("/me", sessionH.Me)
			r.Post("/sessions/logout", sessionH.Logout)
		})
	})

	return r
}
