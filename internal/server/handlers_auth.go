package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yogibear102/wealthfolio/internal/common"
	"github.com/yogibear102/wealthfolio/internal/models"
)

const bcryptCost = 10

// signJWT creates a signed HMAC-SHA256 JWT for the given user.
func signJWT(user *models.User, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":           user.ID,
		"email":         user.Email,
		"base_currency": user.BaseCurrency,
		"iss":           "wealthfolio-server",
		"iat":           now.Unix(),
		"exp":           now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// hashPassword hashes a password with bcrypt. Passwords longer than 72 bytes
// are truncated to bcrypt's input limit rather than rejected.
func hashPassword(password string) (string, error) {
	raw := []byte(password)
	if len(raw) > 72 {
		raw = raw[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(raw, bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	raw := []byte(password)
	if len(raw) > 72 {
		raw = raw[:72]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), raw) == nil
}

type registerRequest struct {
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	BaseCurrency  string  `json:"base_currency"`
	LiquidEquity  float64 `json:"liquid_equity"`
	MonthlyIncome float64 `json:"monthly_income"`
}

type userResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	FirstName     string  `json:"first_name,omitempty"`
	LastName      string  `json:"last_name,omitempty"`
	BaseCurrency  string  `json:"base_currency"`
	LiquidEquity  float64 `json:"liquid_equity"`
	MonthlyIncome float64 `json:"monthly_income"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		BaseCurrency:  u.BaseCurrency,
		LiquidEquity:  u.LiquidEquity,
		MonthlyIncome: u.MonthlyIncome,
	}
}

// handleUserRegister handles POST /api/users.
func (s *Server) handleUserRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req registerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		WriteError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if len(req.Password) < 8 {
		WriteError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	if _, err := s.app.Storage.Users().GetByEmail(r.Context(), req.Email); err == nil {
		WriteError(w, http.StatusConflict, "Email already registered")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	baseCurrency := strings.ToUpper(req.BaseCurrency)
	if baseCurrency == "" {
		baseCurrency = s.app.Config.BaseCurrency
	}

	user := &models.User{
		ID:            uuid.NewString(),
		Email:         req.Email,
		PasswordHash:  hash,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		BaseCurrency:  baseCurrency,
		LiquidEquity:  req.LiquidEquity,
		MonthlyIncome: req.MonthlyIncome,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.app.Storage.Users().Save(r.Context(), user); err != nil {
		WriteServiceError(w, err)
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered")
	WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleAuthLogin handles POST /api/auth/login.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := s.app.Storage.Users().GetByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || !checkPassword(user.PasswordHash, req.Password) {
		WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to sign token")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserResponse(user),
	})
}

// handleAuthValidate handles GET /api/auth/validate.
func (s *Server) handleAuthValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uc := s.requireUser(w, r)
	if uc == nil {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"valid":   true,
		"user_id": uc.UserID,
		"email":   uc.Email,
	})
}

type settingsRequest struct {
	BaseCurrency  *string  `json:"base_currency"`
	MonthlyIncome *float64 `json:"monthly_income"`
	FirstName     *string  `json:"first_name"`
	LastName      *string  `json:"last_name"`
}

// handleSettings handles GET and PUT /api/settings.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut) {
		return
	}

	uc := s.requireUser(w, r)
	if uc == nil {
		return
	}

	user, err := s.app.Storage.Users().Get(r.Context(), uc.UserID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	if r.Method == http.MethodGet {
		WriteJSON(w, http.StatusOK, toUserResponse(user))
		return
	}

	var req settingsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if req.BaseCurrency != nil {
		ccy := strings.ToUpper(strings.TrimSpace(*req.BaseCurrency))
		if len(ccy) != 3 {
			WriteError(w, http.StatusBadRequest, "base_currency must be a 3-letter code")
			return
		}
		user.BaseCurrency = ccy
	}
	if req.MonthlyIncome != nil {
		if *req.MonthlyIncome < 0 {
			WriteError(w, http.StatusBadRequest, "monthly_income must not be negative")
			return
		}
		user.MonthlyIncome = *req.MonthlyIncome
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if err := s.app.Storage.Users().Save(r.Context(), user); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toUserResponse(user))
}
