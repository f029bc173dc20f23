package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/careconnect-health/careconnect-api/shared/auth"
)

// NewRouter wires all routes. The route shape mirrors the public API:
// credential operations are open, profile operations and password change
// require an authenticated session.
func NewRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	tokenIssuer *auth.TokenIssuer,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, "ok", nil)
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/logout", authHandler.Logout)
		r.Post("/verify-email", authHandler.VerifyEmail)
		r.Post("/user/forget-password", authHandler.ForgotPassword)
		r.Post("/reset-code", authHandler.VerifyResetCode)
		r.Post("/reset-password", authHandler.ResetPassword)
		r.Delete("/delete-user/{id}", userHandler.DeleteUser)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(tokenIssuer))

			r.Get("/user", userHandler.ListUsers)
			r.Get("/user/{id}", userHandler.GetUser)
			r.Put("/update-user/{id}", userHandler.UpdateUser)
			r.Post("/update-password", authHandler.UpdatePassword)
		})
	})

	return r
}
