// Package testutil provides utilities for testing
package testutil

import (
	"context"
	"io"
	"testing"
	"time"

	"tally/internal/accounting"
	"tally/internal/audit"
	"tally/internal/auth"
	"tally/internal/config"
	"tally/internal/exchange"
	"tally/internal/models"
	"tally/internal/repository/memory"
	"tally/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// TestContext holds common test dependencies backed by in-memory
// repositories, so tests run without a database.
type TestContext struct {
	T           *testing.T
	Config      *config.Config
	EntryRepo   *memory.EntryRepository
	UserRepo    *memory.UserRepository
	AuthService *auth.Service
	AuditLog    *audit.Logger
	Log         *logrus.Logger
}

// NewTestContext creates a new test context with all dependencies
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)
	validation.Initialize()

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test_secret_key"
	cfg.Auth.TokenDuration = time.Hour
	cfg.Auth.RegistrationOpen = true

	return &TestContext{
		T:           t,
		Config:      cfg,
		EntryRepo:   memory.NewEntryRepository(),
		UserRepo:    memory.NewUserRepository(),
		AuthService: auth.NewService(cfg),
		AuditLog:    audit.NewLogger(log),
		Log:         log,
	}
}

// AccountingService builds an accounting service over the test
// repositories and the given gateway
func (tc *TestContext) AccountingService(gateway exchange.Gateway) *accounting.Service {
	return accounting.NewService(tc.EntryRepo, gateway)
}

// CreateTestUser creates a user with the given role and returns it
func (tc *TestContext) CreateTestUser(email, password string, role models.Role) *models.User {
	tc.T.Helper()

	hashed, err := tc.AuthService.HashPassword(password)
	require.NoError(tc.T, err, "Failed to hash password")

	user := &models.User{
		Email:    email,
		Password: hashed,
		Name:     "Test User",
		Role:     role,
	}
	err = tc.UserRepo.Create(context.Background(), user)
	require.NoError(tc.T, err, "Failed to create test user")
	return user
}

// GetTestJWT generates an access token for the given user
func (tc *TestContext) GetTestJWT(user *models.User) string {
	tc.T.Helper()

	token, err := tc.AuthService.GenerateToken(user)
	require.NoError(tc.T, err, "Failed to generate test JWT")
	return token
}

// CreateTestEntry stores an entry directly in the repository
func (tc *TestContext) CreateTestEntry(description string, amount string, currency models.Currency, entryType models.EntryType) *models.Entry {
	tc.T.Helper()

	entry := &models.Entry{
		Date:        time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Currency:    currency,
		Type:        entryType,
		UserID:      uuid.New(),
	}
	err := tc.EntryRepo.Create(context.Background(), entry)
	require.NoError(tc.T, err, "Failed to create test entry")
	return entry
}
