package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/mwolniarski/project-management-backend/internal/application/auth"
	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/infrastructure/http/middleware"
)

type AuthHandler struct {
	login          *auth.Login
	refresh        *auth.Refresh
	register       *auth.Register
	confirmEmail   *auth.ConfirmEmail
	forgotPassword *auth.ForgotPassword
	resetPassword  *auth.ResetPassword
	validate       *validator.Validate
	log            zerolog.Logger
}

func NewAuthHandler(login *auth.Login, refresh *auth.Refresh, register *auth.Register, confirmEmail *auth.ConfirmEmail, forgotPassword *auth.ForgotPassword, resetPassword *auth.ResetPassword, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		login:          login,
		refresh:        refresh,
		register:       register,
		confirmEmail:   confirmEmail,
		forgotPassword: forgotPassword,
		resetPassword:  resetPassword,
		validate:       validator.New(),
		log:            log,
	}
}

// tokensResponse is the wire shape of an issued pair. Expiration times are
// TTLs in milliseconds.
type tokensResponse struct {
	AccessToken                string `json:"accessToken"`
	AccessTokenExpirationTime  int64  `json:"accessTokenExpirationTime"`
	RefreshToken               string `json:"refreshToken"`
	RefreshTokenExpirationTime int64  `json:"refreshTokenExpirationTime"`
}

func toTokensResponse(pair *ports.TokenPair) tokensResponse {
	return tokensResponse{
		AccessToken:                pair.AccessToken,
		AccessTokenExpirationTime:  pair.AccessTokenExpiration,
		RefreshToken:               pair.RefreshToken,
		RefreshTokenExpirationTime: pair.RefreshTokenExpiration,
	}
}

// Login handles POST /login. The identifier field is named username even
// though it carries the email address.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	email := SanitizeEmail(body.Username)
	password := SanitizePassword(body.Password)
	if email == "" || password == "" {
		writeErr(w, http.StatusBadRequest, "", "invalid email or password length")
		return
	}
	result, err := h.login.Execute(r.Context(), auth.LoginInput{Email: email, Password: password})
	if err != nil {
		AuditLog(h.log, r, "user.login", email, false, err.Error())
		middleware.RecordAuthAttempt("login", false)
		writeDomainErr(w, err)
		return
	}
	AuditLog(h.log, r, "user.login", email, true, "")
	middleware.RecordAuthAttempt("login", true)
	writeJSON(w, http.StatusOK, toTokensResponse(result.Tokens))
}

// RefreshToken handles GET /api/refreshToken. The refresh token rides in
// the Authorization header as a bearer credential.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		writeErr(w, http.StatusUnauthorized, "", "missing or invalid authorization")
		return
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	result, err := h.refresh.Execute(r.Context(), auth.RefreshInput{RefreshToken: token})
	if err != nil {
		middleware.RecordAuthAttempt("refresh", false)
		writeDomainErr(w, err)
		return
	}
	middleware.RecordAuthAttempt("refresh", true)
	writeJSON(w, http.StatusOK, toTokensResponse(result.Tokens))
}

// Register handles POST /api/registration: a new organization with its
// first user.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrganizationName string `json:"organizationName" validate:"required,max=120"`
		FirstName        string `json:"firstName" validate:"max=60"`
		LastName         string `json:"lastName" validate:"max=60"`
		Email            string `json:"email" validate:"required,email,max=254"`
		Password         string `json:"password" validate:"required,min=8,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	email := SanitizeEmail(body.Email)
	password := SanitizePassword(body.Password)
	if email == "" || password == "" {
		writeErr(w, http.StatusBadRequest, "", "invalid email or password length")
		return
	}
	result, err := h.register.Execute(r.Context(), auth.RegisterInput{
		OrganizationName: body.OrganizationName,
		FirstName:        body.FirstName,
		LastName:         body.LastName,
		Email:            email,
		Password:         password,
	})
	if err != nil {
		AuditLog(h.log, r, "user.register", email, false, err.Error())
		middleware.RecordAuthAttempt("register", false)
		writeDomainErr(w, err)
		return
	}
	AuditLog(h.log, r, "user.register", email, true, "")
	middleware.RecordAuthAttempt("register", true)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"organizationId": result.OrganizationID,
		"userId":         result.UserID,
	})
}

// ConfirmRegistration handles POST /api/registration/confirm?token=...
func (h *AuthHandler) ConfirmRegistration(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeErr(w, http.StatusBadRequest, "", "token is required")
		return
	}
	if err := h.confirmEmail.Execute(r.Context(), token); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
}

// ForgotPassword handles POST /api/password/reset. The response is the
// same whether or not the email exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"required,email,max=254"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	if err := h.forgotPassword.Execute(r.Context(), SanitizeEmail(body.Email)); err != nil {
		h.log.Error().Err(err).Msg("forgot password failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ResetPassword handles POST /api/password/reset/{token}.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := pathParam(r, "token")
	var body struct {
		Password string `json:"password" validate:"required,min=8,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	if err := h.resetPassword.Execute(r.Context(), token, SanitizePassword(body.Password)); err != nil {
		AuditLog(h.log, r, "user.password_reset", "", false, err.Error())
		writeDomainErr(w, err)
		return
	}
	AuditLog(h.log, r, "user.password_reset", "", true, "")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
