package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tally/internal/api/handlers"
	"tally/internal/api/middleware"
	"tally/internal/models"
	"tally/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newEntryRouter wires the entry handler behind the same auth middleware
// chain the real route setup uses
func newEntryRouter(tc *testutil.TestContext) *gin.Engine {
	handler := handlers.NewEntryHandler(tc.AccountingService(nil), tc.AuditLog, tc.Log)
	authMiddleware := middleware.NewAuthMiddleware(tc.AuthService, tc.UserRepo)

	router := gin.New()
	entries := router.Group("/entries")
	entries.Use(authMiddleware.AuthRequired())
	entries.GET("", handler.ListEntries)
	entries.GET("/:id", handler.GetEntry)

	admin := entries.Group("")
	admin.Use(authMiddleware.AdminRequired())
	admin.POST("", handler.CreateEntry)
	admin.PUT("/:id", handler.UpdateEntry)
	admin.DELETE("/:id", handler.DeleteEntry)

	return router
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEntryHandler_ListEntries(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newEntryRouter(tc)

	reader := tc.CreateTestUser("reader@test.com", "password123", models.RoleUser)
	token := tc.GetTestJWT(reader)

	for i := 0; i < 12; i++ {
		tc.CreateTestEntry(fmt.Sprintf("entry %d", i), "10.00", models.CurrencyUSD, models.EntryTypeExpense)
	}
	tc.CreateTestEntry("groceries", "25.00", models.CurrencyEUR, models.EntryTypeExpense)

	// Default page size is nine
	w := doJSON(router, "GET", "/entries", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.EntryListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Entries, 9)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, 1, resp.Page)

	// Second page carries the remainder
	w = doJSON(router, "GET", "/entries?page=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Entries, 4)

	// Currency filter
	w = doJSON(router, "GET", "/entries?currency=eur", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "groceries", resp.Entries[0].Description)

	// Unknown currency is rejected before touching the store
	w = doJSON(router, "GET", "/entries?currency=JPY", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Listing requires authentication
	w = doJSON(router, "GET", "/entries", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEntryHandler_GetEntry(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newEntryRouter(tc)

	reader := tc.CreateTestUser("reader@test.com", "password123", models.RoleUser)
	token := tc.GetTestJWT(reader)
	entry := tc.CreateTestEntry("rent", "1200.00", models.CurrencyUSD, models.EntryTypeExpense)

	w := doJSON(router, "GET", "/entries/"+entry.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, "rent", got.Description)

	w = doJSON(router, "GET", "/entries/"+uuid.New().String(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, "GET", "/entries/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEntryHandler_CreateEntry(t *testing.T) {
	validBody := models.CreateEntryRequest{
		Date:        "2024-03-20",
		Description: "Groceries",
		Currency:    "USD",
		Type:        "Expense",
	}
	validBody.Amount = mustDecimal("42.50")

	tests := []struct {
		name       string
		role       models.Role
		anonymous  bool
		body       interface{}
		wantStatus int
	}{
		{name: "Valid Entry (Admin)", role: models.RoleAdmin, body: validBody, wantStatus: http.StatusCreated},
		{name: "Not Authorized (Regular User)", role: models.RoleUser, body: validBody, wantStatus: http.StatusForbidden},
		{name: "Not Authenticated", anonymous: true, body: validBody, wantStatus: http.StatusUnauthorized},
		{name: "Malformed Body", role: models.RoleAdmin, body: "not json", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContext(t)
			router := newEntryRouter(tc)

			token := ""
			if !tt.anonymous {
				user := tc.CreateTestUser("actor@test.com", "password123", tt.role)
				token = tc.GetTestJWT(user)
			}

			w := doJSON(router, "POST", "/entries", token, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusCreated {
				var created models.Entry
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
				assert.NotEqual(t, uuid.Nil, created.ID)
				assert.Equal(t, models.CurrencyUSD, created.Currency)
			}
		})
	}
}

func TestEntryHandler_CreateEntryValidation(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newEntryRouter(tc)

	admin := tc.CreateTestUser("admin@test.com", "password123", models.RoleAdmin)
	token := tc.GetTestJWT(admin)

	body := models.CreateEntryRequest{
		Date:        "2024-03-20",
		Description: "",
		Currency:    "JPY",
		Type:        "Expense",
	}
	body.Amount = mustDecimal("-1")

	w := doJSON(router, "POST", "/entries", token, body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp models.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Fields, 3, "every violated field reported in one response")
	assert.Contains(t, resp.Fields, "amount")
	assert.Contains(t, resp.Fields, "description")
	assert.Contains(t, resp.Fields, "currency")
}

func TestEntryHandler_UpdateEntry(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newEntryRouter(tc)

	admin := tc.CreateTestUser("admin@test.com", "password123", models.RoleAdmin)
	token := tc.GetTestJWT(admin)
	entry := tc.CreateTestEntry("rent", "1200.00", models.CurrencyUSD, models.EntryTypeExpense)

	w := doJSON(router, "PUT", "/entries/"+entry.ID.String(), token, map[string]string{
		"description": "rent march",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "rent march", updated.Description)
	assert.Equal(t, models.CurrencyUSD, updated.Currency, "unsent fields keep their values")

	// Updating a missing entry is 404, never an implicit create
	w = doJSON(router, "PUT", "/entries/"+uuid.New().String(), token, map[string]string{
		"description": "ghost",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEntryHandler_DeleteEntry(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newEntryRouter(tc)

	admin := tc.CreateTestUser("admin@test.com", "password123", models.RoleAdmin)
	token := tc.GetTestJWT(admin)
	entry := tc.CreateTestEntry("rent", "1200.00", models.CurrencyUSD, models.EntryTypeExpense)

	w := doJSON(router, "DELETE", "/entries/"+entry.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// A second delete of the same id is an error
	w = doJSON(router, "DELETE", "/entries/"+entry.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEntryHandler_MutationsLeaveStoreUntouchedForUsers(t *testing.T) {
	tc := testutil.NewTestContext(t)
	router := newEntryRouter(tc)

	user := tc.CreateTestUser("user@test.com", "password123", models.RoleUser)
	token := tc.GetTestJWT(user)
	entry := tc.CreateTestEntry("rent", "1200.00", models.CurrencyUSD, models.EntryTypeExpense)

	w := doJSON(router, "DELETE", "/entries/"+entry.ID.String(), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The entry is still readable afterwards
	w = doJSON(router, "GET", "/entries/"+entry.ID.String(), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
