package http

import (
	"net/http"

	"github.com/chatterbox/auth-api/internal/application/account"
	"github.com/chatterbox/auth-api/internal/config"
	"github.com/chatterbox/auth-api/internal/infrastructure/dynamo"
	googleinfra "github.com/chatterbox/auth-api/internal/infrastructure/google"
	jwtinfra "github.com/chatterbox/auth-api/internal/infrastructure/jwt"
	"github.com/chatterbox/auth-api/internal/infrastructure/mail"
	s3infra "github.com/chatterbox/auth-api/internal/infrastructure/s3"
	"github.com/chatterbox/auth-api/internal/infrastructure/sns"
	"github.com/chatterbox/auth-api/internal/transport/http/handler"
	appmiddleware "github.com/chatterbox/auth-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *dynamo.UserRepo
	Mailer      mail.Mailer
	SMSSender   sns.SMSSender
	BlobStore   *s3infra.Store
	JWTProvider *jwtinfra.Provider
	// GoogleProvider may be nil; the google routes then answer 503.
	GoogleProvider *googleinfra.Provider
	Logger         zerolog.Logger
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
		AllowCredentials: true, // session rides in a cookie
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	accountSvc := account.NewService(account.ServiceDeps{
		UserRepo:    deps.UserRepo,
		Mailer:      deps.Mailer,
		SMSSender:   deps.SMSSender,
		BlobStore:   deps.BlobStore,
		JWTProvider: deps.JWTProvider,
		Logger:      deps.Logger,
	})

	cookies := handler.CookieBaker{
		TTL:    cfg.JWTExpiry(),
		Secure: !cfg.IsDevelopment(),
	}

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(accountSvc, cookies)
	googleH := handler.NewGoogleHandler(accountSvc, deps.GoogleProvider, cookies, cfg.ClientURL)

	authMw := appmiddleware.Auth(deps.JWTProvider)

	r.Get("/health", healthH.Ping)

	r.Route("/auth", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.With(sensitiveRL.Limit).Post("/signup", authH.Signup)
		r.Post("/verify-email", authH.VerifyEmail)
		r.With(sensitiveRL.Limit).Post("/send-otp", authH.SendOTP)
		r.Post("/verify-otp", authH.VerifyOTP)
		r.With(sensitiveRL.Limit).Post("/login", authH.Login)
		r.Post("/logout", authH.Logout)
		r.With(sensitiveRL.Limit).Post("/forgot-password", authH.ForgotPassword)
		r.Post("/reset-password", authH.ResetPassword)
		r.Get("/google", googleH.Redirect)
		r.Get("/google/callback", googleH.Callback)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/check", authH.Check)
			r.Put("/update-profile", authH.UpdateProfile)
			r.Put("/change-password", authH.ChangePassword)
		})
	})

	return r
}
