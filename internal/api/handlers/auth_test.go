package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"tally/internal/api/handlers"
	"tally/internal/api/middleware"
	"tally/internal/models"
	"tally/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(tc *testutil.TestContext) *gin.Engine {
	handler := handlers.NewAuthHandler(tc.UserRepo, tc.AuthService, tc.Config, tc.AuditLog, tc.Log)
	authMiddleware := middleware.NewAuthMiddleware(tc.AuthService, tc.UserRepo)

	router := gin.New()
	router.POST("/auth/register", handler.Register)
	router.POST("/auth/login", handler.Login)
	router.GET("/auth/me", authMiddleware.AuthRequired(), handler.Me)
	return router
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{
			name:       "Valid Registration",
			body:       models.RegisterRequest{Email: "new@test.com", Password: "password123", Name: "New User"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Invalid Email",
			body:       models.RegisterRequest{Email: "not-an-email", Password: "password123", Name: "New User"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Short Password",
			body:       models.RegisterRequest{Email: "new@test.com", Password: "short", Name: "New User"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Blank Name",
			body:       models.RegisterRequest{Email: "new@test.com", Password: "password123", Name: "   "},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContext(t)
			router := newAuthRouter(tc)

			w := doJSON(router, "POST", "/auth/register", "", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusCreated {
				var resp models.LoginResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.AccessToken)
				assert.Equal(t, models.RoleUser, resp.User.Role, "new accounts start as regular users")

				// The response never carries the password hash
				assert.NotContains(t, w.Body.String(), "password")
			}
		})
	}
}

func TestAuthHandler_RegisterDuplicateEmail(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newAuthRouter(tc)
	tc.CreateTestUser("taken@test.com", "password123", models.RoleUser)

	w := doJSON(router, "POST", "/auth/register", "", models.RegisterRequest{
		Email: "taken@test.com", Password: "password123", Name: "Other User",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_RegisterClosed(t *testing.T) {
	tc := testutil.NewTestContext(t)
	tc.Config.Auth.RegistrationOpen = false
	router := newAuthRouter(tc)

	w := doJSON(router, "POST", "/auth/register", "", models.RegisterRequest{
		Email: "new@test.com", Password: "password123", Name: "New User",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newAuthRouter(tc)
	user := tc.CreateTestUser("user@test.com", "password123", models.RoleAdmin)

	w := doJSON(router, "POST", "/auth/login", "", models.LoginRequest{
		Email: "user@test.com", Password: "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, user.ID, resp.User.ID)

	// The issued token resolves back to the same identity
	claims, err := tc.AuthService.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthHandler_LoginRejectsBadCredentials(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newAuthRouter(tc)
	tc.CreateTestUser("user@test.com", "password123", models.RoleUser)

	// Wrong password and unknown email are indistinguishable
	w := doJSON(router, "POST", "/auth/login", "", models.LoginRequest{
		Email: "user@test.com", Password: "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	wrongPassword := w.Body.String()

	w = doJSON(router, "POST", "/auth/login", "", models.LoginRequest{
		Email: "nobody@test.com", Password: "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, wrongPassword, w.Body.String())
}

func TestAuthHandler_Me(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newAuthRouter(tc)
	user := tc.CreateTestUser("user@test.com", "password123", models.RoleUser)

	w := doJSON(router, "GET", "/auth/me", tc.GetTestJWT(user), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)

	w = doJSON(router, "GET", "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
