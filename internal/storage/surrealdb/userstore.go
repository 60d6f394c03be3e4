package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/yogibear102/wealthfolio/internal/common"
	"github.com/yogibear102/wealthfolio/internal/interfaces"
	"github.com/yogibear102/wealthfolio/internal/models"
)

type UserStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewUserStore(db *surrealdb.DB, logger *common.Logger) *UserStore {
	return &UserStore{
		db:     db,
		logger: logger,
	}
}

// userRow is the stored document. The record id is derived from the user ID;
// the "id" content field is left to SurrealDB.
type userRow struct {
	UserID        string    `json:"user_id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	BaseCurrency  string    `json:"base_currency"`
	LiquidEquity  float64   `json:"liquid_equity"`
	MonthlyIncome float64   `json:"monthly_income"`
	CreatedAt     time.Time `json:"created_at"`
}

func userToRow(u *models.User) *userRow {
	return &userRow{
		UserID:        u.ID,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		BaseCurrency:  u.BaseCurrency,
		LiquidEquity:  u.LiquidEquity,
		MonthlyIncome: u.MonthlyIncome,
		CreatedAt:     u.CreatedAt,
	}
}

func rowToUser(r *userRow) *models.User {
	return &models.User{
		ID:            r.UserID,
		Email:         r.Email,
		PasswordHash:  r.PasswordHash,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		BaseCurrency:  r.BaseCurrency,
		LiquidEquity:  r.LiquidEquity,
		MonthlyIncome: r.MonthlyIncome,
		CreatedAt:     r.CreatedAt,
	}
}

func (s *UserStore) Get(ctx context.Context, userID string) (*models.User, error) {
	row, err := surrealdb.Select[userRow](ctx, s.db, surrealmodels.NewRecordID("user", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	if row == nil || row.UserID == "" {
		return nil, fmt.Errorf("user not found: %s", userID)
	}
	return rowToUser(row), nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	sql := "SELECT * FROM user WHERE email = $email LIMIT 1"
	vars := map[string]any{"email": email}

	results, err := surrealdb.Query[[]userRow](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return rowToUser(&(*results)[0].Result[0]), nil
	}
	return nil, fmt.Errorf("user not found: %s", email)
}

func (s *UserStore) Save(ctx context.Context, user *models.User) error {
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID("user", user.ID),
		"record": userToRow(user),
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]userRow](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save user after retries: %w", lastErr)
}

func (s *UserStore) Delete(ctx context.Context, userID string) error {
	_, err := surrealdb.Delete[userRow](ctx, s.db, surrealmodels.NewRecordID("user", userID))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// Compile-time check
var _ interfaces.UserStore = (*UserStore)(nil)
