package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tally/internal/api/middleware"
	"tally/internal/auth"
	"tally/internal/models"
	"tally/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(tc *testutil.TestContext) *gin.Engine {
	authMiddleware := middleware.NewAuthMiddleware(tc.AuthService, tc.UserRepo)

	router := gin.New()
	router.GET("/protected", authMiddleware.AuthRequired(), func(c *gin.Context) {
		user := auth.GetUserFromContext(c)
		require.NotNil(tc.T, user)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	router.GET("/admin", authMiddleware.AuthRequired(), authMiddleware.AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func request(router *gin.Engine, path, header string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newProtectedRouter(tc)
	user := tc.CreateTestUser("user@test.com", "password123", models.RoleUser)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "Valid Token", header: "Bearer " + tc.GetTestJWT(user), wantStatus: http.StatusOK},
		{name: "No Header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "Not Bearer", header: "Basic abc123", wantStatus: http.StatusUnauthorized},
		{name: "Garbage Token", header: "Bearer garbage", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(router, "/protected", tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthRequiredRejectsDeletedUser(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newProtectedRouter(tc)

	// Token for an identity the store does not know
	ghost := &models.User{Role: models.RoleUser}
	token, err := tc.AuthService.GenerateToken(ghost)
	require.NoError(t, err)

	w := request(router, "/protected", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRequired(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newProtectedRouter(tc)

	admin := tc.CreateTestUser("admin@test.com", "password123", models.RoleAdmin)
	user := tc.CreateTestUser("user@test.com", "password123", models.RoleUser)

	w := request(router, "/admin", "Bearer "+tc.GetTestJWT(admin))
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(router, "/admin", "Bearer "+tc.GetTestJWT(user))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRequiredUsesStoredRole(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newProtectedRouter(tc)

	// A token claiming admin for a user the store knows as a regular
	// user must not grant admin access
	user := tc.CreateTestUser("user@test.com", "password123", models.RoleUser)
	forged := *user
	forged.Role = models.RoleAdmin
	token, err := tc.AuthService.GenerateToken(&forged)
	require.NoError(t, err)

	w := request(router, "/admin", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
