package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maitred/internal/auth"
	"maitred/internal/models"
	"maitred/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return NewServer(Options{
		Store:         st,
		Issuer:        auth.NewTokenIssuer("test-secret", time.Hour),
		Sessions:      auth.NewMemorySessionStore(),
		PublicBaseURL: "http://localhost:8080",
	})
}

// signUpAs registers an account and forces the wanted role directly, since
// fresh accounts always start as waiters.
func signUpAs(t *testing.T, s *Server, email string, role models.Role) {
	t.Helper()
	user, err := s.staff.SignUp(email, "Test "+string(role), "password123")
	require.NoError(t, err)
	if role != models.DefaultRole {
		require.NoError(t, s.store.DB.Model(user).Update("role", role).Error)
	}
}

func login(t *testing.T, s *Server, email string) string {
	return loginWith(t, s, email, "password123")
}

func loginWith(t *testing.T, s *Server, email, password string) string {
	t.Helper()
	body, _ := json.Marshal(gin.H{"email": email, "password": password})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func do(s *Server, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body []byte
	if payload != nil {
		body, _ = json.Marshal(payload)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	s.Router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := do(s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignUpValidation(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodPost, "/api/v1/signup", "", gin.H{
		"email": "not-an-email", "name": "X", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(s, http.MethodPost, "/api/v1/signup", "", gin.H{
		"email": "short@maitred.local", "name": "X", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(s, http.MethodPost, "/api/v1/signup", "", gin.H{
		"email": "ok@maitred.local", "name": "X", "password": "password123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password", "hash must never leak")

	w = do(s, http.MethodPost, "/api/v1/signup", "", gin.H{
		"email": "ok@maitred.local", "name": "Dup", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	s := newTestServer(t)
	signUpAs(t, s, "w@maitred.local", models.RoleWaiter)

	w := do(s, http.MethodPost, "/api/v1/login", "", gin.H{
		"email": "w@maitred.local", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticationRequired(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/api/v1/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(s, http.MethodGet, "/api/v1/orders", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	signUpAs(t, s, "w@maitred.local", models.RoleWaiter)
	token := login(t, s, "w@maitred.local")

	w := do(s, http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(s, http.MethodPost, "/api/v1/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// the token itself is still unexpired, only the session is gone
	w = do(s, http.MethodGet, "/api/v1/orders", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	signUpAs(t, s, "cashier@maitred.local", models.RoleCashier)
	token := login(t, s, "cashier@maitred.local")

	w := do(s, http.MethodPost, "/api/v1/orders", token, gin.H{
		"customerName": "Walk-in",
		"items": []gin.H{
			{"name": "Burger", "quantity": 2, "unitPriceCents": 500},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID         uint               `json:"ID"`
		Number     string             `json:"number"`
		Status     models.OrderStatus `json:"status"`
		TotalCents int                `json:"totalCents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "K-0001", created.Number)
	assert.Equal(t, models.OrderStatusWaiting, created.Status)
	assert.Equal(t, 1000, created.TotalCents)

	// skipping Cooking is a conflict
	w = do(s, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/mark-done", created.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(s, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/start-cooking", created.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(s, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/mark-done", created.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(s, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/start-cooking", created.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRoleEnforcement(t *testing.T) {
	s := newTestServer(t)
	signUpAs(t, s, "waiter@maitred.local", models.RoleWaiter)
	token := login(t, s, "waiter@maitred.local")

	// waiters may read but not check out orders
	w := do(s, http.MethodPost, "/api/v1/orders", token, gin.H{
		"customerName": "X",
		"items":        []gin.H{{"name": "Burger", "quantity": 1, "unitPriceCents": 500}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// nor edit the menu or see staff
	w = do(s, http.MethodPost, "/api/v1/menu", token, gin.H{
		"name": "Burger", "category": "Burgers", "priceCents": 899,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(s, http.MethodGet, "/api/v1/staff", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// but tables are theirs to manage
	w = do(s, http.MethodPost, "/api/v1/tables", token, gin.H{"name": "T1"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestMenuAndRecipeEndpoints(t *testing.T) {
	s := newTestServer(t)
	signUpAs(t, s, "mgr@maitred.local", models.RoleManager)
	token := login(t, s, "mgr@maitred.local")

	w := do(s, http.MethodPost, "/api/v1/menu", token, gin.H{
		"name":       "Classic Burger",
		"category":   "Burgers",
		"priceCents": 899,
		"available":  true,
		"recipe":     []gin.H{{"stockItemId": 1, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var item models.MenuItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))

	// the public item carries no recipe data
	assert.NotContains(t, w.Body.String(), "stockItemId")

	w = do(s, http.MethodGet, fmt.Sprintf("/api/v1/menu/%d/recipe", item.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "stockItemId")

	w = do(s, http.MethodPost, "/api/v1/menu", token, gin.H{
		"name": "Mystery", "category": "Desserts", "priceCents": 100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkTablePaid(t *testing.T) {
	s := newTestServer(t)
	signUpAs(t, s, "cashier@maitred.local", models.RoleCashier)
	signUpAs(t, s, "waiter@maitred.local", models.RoleWaiter)
	cashier := login(t, s, "cashier@maitred.local")
	waiter := login(t, s, "waiter@maitred.local")

	w := do(s, http.MethodPost, "/api/v1/tables", waiter, gin.H{"name": "T1"})
	require.Equal(t, http.StatusCreated, w.Code)
	var table models.Table
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &table))

	// billing is not a waiter concern
	w = do(s, http.MethodPost, fmt.Sprintf("/api/v1/tables/%d/mark-paid", table.ID), waiter, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(s, http.MethodPost, fmt.Sprintf("/api/v1/tables/%d/mark-paid", table.ID), cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var paid models.Table
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &paid))
	assert.Equal(t, models.TableStatusEmpty, paid.Status)
	assert.Nil(t, paid.OrderID)
}

func TestSeedEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := do(s, http.MethodGet, "/api/v1/seed", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Seeded  struct {
			MenuItems int `json:"menuItems"`
			Users     int `json:"users"`
		} `json:"seeded"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotZero(t, resp.Seeded.MenuItems)
	assert.NotZero(t, resp.Seeded.Users)

	// demo accounts can log in right away
	loginWith(t, s, "manager@maitred.local", "manager-demo")
}

func TestAdviceUnavailableWithoutModel(t *testing.T) {
	s := newTestServer(t)
	signUpAs(t, s, "mgr@maitred.local", models.RoleManager)
	token := login(t, s, "mgr@maitred.local")

	w := do(s, http.MethodPost, "/api/v1/advice", token, gin.H{"section": "Menu"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
