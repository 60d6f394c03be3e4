package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogibear102/wealthfolio/internal/common"
	"github.com/yogibear102/wealthfolio/internal/models"
)

func TestSignJWTRoundTrip(t *testing.T) {
	cfg := &common.AuthConfig{JWTSecret: "test-secret-key", TokenExpiry: "1h"}
	user := &models.User{ID: "u1", Email: "alice@example.com", BaseCurrency: "EUR"}

	token, err := signJWT(user, cfg)
	require.NoError(t, err)

	_, claims, err := validateJWT(token, []byte(cfg.JWTSecret))
	require.NoError(t, err)
	assert.Equal(t, "u1", claims["sub"])
	assert.Equal(t, "alice@example.com", claims["email"])
	assert.Equal(t, "EUR", claims["base_currency"])
	assert.Equal(t, "wealthfolio-server", claims["iss"])
}

func TestValidateJWTExpired(t *testing.T) {
	cfg := &common.AuthConfig{JWTSecret: "test-secret-key", TokenExpiry: "-1h"}
	user := &models.User{ID: "u1", Email: "alice@example.com"}

	token, err := signJWT(user, cfg)
	require.NoError(t, err)

	_, _, err = validateJWT(token, []byte(cfg.JWTSecret))
	assert.Error(t, err)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	cfg := &common.AuthConfig{JWTSecret: "test-secret-key", TokenExpiry: "1h"}
	user := &models.User{ID: "u1", Email: "alice@example.com"}

	token, err := signJWT(user, cfg)
	require.NoError(t, err)

	_, _, err = validateJWT(token, []byte("a-different-secret"))
	assert.Error(t, err)
}

func TestValidateJWTRejectsNoneAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = validateJWT(token, []byte("test-secret-key"))
	assert.Error(t, err)
}

func TestRegisterLoginValidateFlow(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/users", "", map[string]any{
		"email":          "Bob@Example.com",
		"password":       "correct-horse",
		"first_name":     "Bob",
		"liquid_equity":  5000.0,
		"monthly_income": 2500.0,
	})
	requireStatus(t, rec, http.StatusCreated)

	var created userResponse
	decodeBody(t, rec, &created)
	assert.Equal(t, "bob@example.com", created.Email)
	assert.Equal(t, "USD", created.BaseCurrency)
	assert.NotEmpty(t, created.ID)

	// The password hash never leaves the server.
	assert.NotContains(t, rec.Body.String(), "password")

	rec = h.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "bob@example.com",
		"password": "correct-horse",
	})
	requireStatus(t, rec, http.StatusOK)

	var login struct {
		Token string       `json:"token"`
		User  userResponse `json:"user"`
	}
	decodeBody(t, rec, &login)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, created.ID, login.User.ID)

	rec = h.do(t, http.MethodGet, "/api/auth/validate", login.Token, nil)
	requireStatus(t, rec, http.StatusOK)

	var validated struct {
		Valid  bool   `json:"valid"`
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}
	decodeBody(t, rec, &validated)
	assert.True(t, validated.Valid)
	assert.Equal(t, created.ID, validated.UserID)
	assert.Equal(t, "bob@example.com", validated.Email)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/users", "", map[string]any{
		"email":    "not-an-email",
		"password": "correct-horse",
	})
	requireStatus(t, rec, http.StatusBadRequest)

	rec = h.do(t, http.MethodPost, "/api/users", "", map[string]any{
		"email":    "bob@example.com",
		"password": "short",
	})
	requireStatus(t, rec, http.StatusBadRequest)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newHarness(t)
	h.seedUser(t, &models.User{ID: "u1", Email: "bob@example.com", BaseCurrency: "USD"})

	rec := h.do(t, http.MethodPost, "/api/users", "", map[string]any{
		"email":    "bob@example.com",
		"password": "correct-horse",
	})
	requireStatus(t, rec, http.StatusConflict)
}

func TestLoginWrongPassword(t *testing.T) {
	h := newHarness(t)

	hash, err := hashPassword("correct-horse")
	require.NoError(t, err)
	h.seedUser(t, &models.User{ID: "u1", Email: "bob@example.com", PasswordHash: hash})

	rec := h.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "bob@example.com",
		"password": "wrong-horse",
	})
	requireStatus(t, rec, http.StatusUnauthorized)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")

	// Unknown email produces the same message as a wrong password.
	rec = h.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "nobody@example.com",
		"password": "correct-horse",
	})
	requireStatus(t, rec, http.StatusUnauthorized)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
}

func TestValidateRequiresToken(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/api/auth/validate", "", nil)
	requireStatus(t, rec, http.StatusUnauthorized)
}

func TestSettingsUpdate(t *testing.T) {
	h := newHarness(t)
	token := h.seedUser(t, &models.User{
		ID:            "u1",
		Email:         "bob@example.com",
		BaseCurrency:  "USD",
		MonthlyIncome: 2000,
	})

	rec := h.do(t, http.MethodPut, "/api/settings", token, map[string]any{
		"base_currency":  "eur",
		"monthly_income": 3200.0,
	})
	requireStatus(t, rec, http.StatusOK)

	var updated userResponse
	decodeBody(t, rec, &updated)
	assert.Equal(t, "EUR", updated.BaseCurrency)
	assert.Equal(t, 3200.0, updated.MonthlyIncome)

	// GET reflects the persisted state; untouched fields survive.
	rec = h.do(t, http.MethodGet, "/api/settings", token, nil)
	requireStatus(t, rec, http.StatusOK)
	decodeBody(t, rec, &updated)
	assert.Equal(t, "EUR", updated.BaseCurrency)
	assert.Equal(t, "bob@example.com", updated.Email)
}

func TestSettingsRejectsBadCurrency(t *testing.T) {
	h := newHarness(t)
	token := h.seedUser(t, &models.User{ID: "u1", Email: "bob@example.com", BaseCurrency: "USD"})

	rec := h.do(t, http.MethodPut, "/api/settings", token, map[string]any{
		"base_currency": "EURO",
	})
	requireStatus(t, rec, http.StatusBadRequest)
}
