package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/careconnect-health/careconnect-api/internal/config"
	"github.com/careconnect-health/careconnect-api/internal/model"
	"github.com/careconnect-health/careconnect-api/internal/payload"
	"github.com/careconnect-health/careconnect-api/internal/usecase"
	"github.com/careconnect-health/careconnect-api/shared/validator"
)

// AuthHandler serves the registration, authentication, and password-recovery
// endpoints.
type AuthHandler struct {
	authUsecase     usecase.AuthUsecase
	passwordUsecase usecase.PasswordUsecase
	validator       *validator.Validator
	cfg             *config.AppConfig
	logger          *zerolog.Logger
}

func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	passwordUsecase usecase.PasswordUsecase,
	validator *validator.Validator,
	cfg *config.AppConfig,
	logger *zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUsecase:     authUsecase,
		passwordUsecase: passwordUsecase,
		validator:       validator,
		cfg:             cfg,
		logger:          logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if messages := h.validator.Struct(req); messages != nil {
		respondValidationErrors(w, messages)
		return
	}

	user, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    req.Password,
		Gender:      model.Gender(req.Gender),
		PhoneNumber: req.PhoneNumber,
		Role:        model.Role(req.Role),
	})
	if err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, "User created successfully.", payload.NewUserResponse(user))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if messages := h.validator.Struct(req); messages != nil {
		respondValidationErrors(w, messages)
		return
	}

	user, token, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	h.setSessionCookie(w, token)
	respondJSON(w, http.StatusOK, "Welcome back "+user.FullName, payload.NewUserResponse(user))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.clearSessionCookie(w)
	respondJSON(w, http.StatusOK, "Logout successfully", nil)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if messages := h.validator.Struct(req); messages != nil {
		respondValidationErrors(w, messages)
		return
	}

	if _, err := h.authUsecase.VerifyEmail(r.Context(), req.Code); err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, "Email verified successfully.", nil)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if messages := h.validator.Struct(req); messages != nil {
		respondValidationErrors(w, messages)
		return
	}

	if err := h.passwordUsecase.RequestPasswordReset(r.Context(), req.Email); err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, "Password reset code sent to your email", nil)
}

func (h *AuthHandler) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyResetCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if messages := h.validator.Struct(req); messages != nil {
		respondValidationErrors(w, messages)
		return
	}

	if err := h.passwordUsecase.VerifyResetCode(r.Context(), req.Email, req.Code); err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, "Reset code verified", nil)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if messages := h.validator.Struct(req); messages != nil {
		respondValidationErrors(w, messages)
		return
	}

	if _, err := h.passwordUsecase.ResetPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, "Password reset successfully", nil)
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req payload.UpdatePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if messages := h.validator.Struct(req); messages != nil {
		respondValidationErrors(w, messages)
		return
	}

	if err := h.passwordUsecase.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, "Password updated successfully", nil)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.Token.SessionTokenExpiresIn.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Environment == "production",
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
