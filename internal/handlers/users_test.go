package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"classifieds/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryHandlers(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := h.SetupRouter(nil)
	alice := newClient(t, r)
	alice.register("alice")

	w := alice.do(http.MethodPost, "/api/categories", map[string]string{"name": "Electronics", "description": "Phones"})
	require.Equal(t, http.StatusCreated, w.Code)
	electronics := decode[models.Category](t, w)

	w = alice.do(http.MethodPost, "/api/categories", map[string]string{"name": "electronics"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ALREADY_EXISTS")

	w = alice.do(http.MethodPut, fmt.Sprintf("/api/categories/%d", electronics.ID), map[string]string{"name": "Electronics", "description": "Gadgets"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Gadgets", decode[models.Category](t, w).Description)

	w = alice.do(http.MethodPost, "/api/listings", map[string]any{"title": "iPhone 14", "price": "799.99", "category_id": electronics.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = alice.do(http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Categories []models.Category `json:"categories"`
	}](t, w)
	require.Len(t, list.Categories, 1)
	assert.Equal(t, int64(1), list.Categories[0].ListingCount)

	w = alice.do(http.MethodGet, fmt.Sprintf("/api/categories/%d", electronics.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "iPhone 14")

	w = alice.do(http.MethodDelete, fmt.Sprintf("/api/categories/%d", electronics.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CATEGORY_IN_USE")

	assert.Equal(t, http.StatusNotFound, alice.do(http.MethodGet, "/api/categories/999", nil).Code)
}

func TestUserHandlers(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := h.SetupRouter(nil)
	alice := newClient(t, r)
	aliceID := alice.register("alice")
	bob := newClient(t, r)
	bob.register("bob")
	anon := newClient(t, r)

	category := decode[models.Category](t, alice.do(http.MethodPost, "/api/categories", map[string]string{"name": "Furniture"}))
	for _, title := range []string{"Leather Sofa", "Dining Table"} {
		w := alice.do(http.MethodPost, "/api/listings", map[string]any{"title": title, "price": "100", "category_id": category.ID})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w := bob.do(http.MethodPost, "/api/listings", map[string]any{"title": "Office Chair", "price": "50", "category_id": category.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("Public Profile", func(t *testing.T) {
		w := anon.do(http.MethodGet, fmt.Sprintf("/api/users/%d", aliceID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		profile := decode[models.User](t, w)
		assert.Equal(t, "alice", profile.Username)
		assert.Len(t, profile.Listings, 2)
	})

	t.Run("Anonymous Reads Hide Contact Details", func(t *testing.T) {
		listings := anon.do(http.MethodGet, "/api/listings", nil)
		require.Equal(t, http.StatusOK, listings.Code)
		assert.Contains(t, listings.Body.String(), `"username":"alice"`)

		first := decode[pageResp](t, listings).Items[0]
		for _, path := range []string{
			"/api/listings",
			fmt.Sprintf("/api/listings/%d", first.ID),
			fmt.Sprintf("/api/categories/%d", category.ID),
			fmt.Sprintf("/api/users/%d", aliceID),
			"/api/home",
		} {
			w := anon.do(http.MethodGet, path, nil)
			require.Equal(t, http.StatusOK, w.Code, path)
			assert.NotContains(t, w.Body.String(), "@example.com", path)
			assert.NotContains(t, w.Body.String(), "last_login_at", path)
		}

		me := alice.do(http.MethodGet, "/api/users/me", nil)
		require.Equal(t, http.StatusOK, me.Code)
		assert.Contains(t, me.Body.String(), `"email":"alice@example.com"`)
	})

	t.Run("Delete Account Cascades And Logs Out", func(t *testing.T) {
		w := alice.do(http.MethodDelete, "/api/users/me", nil)
		require.Equal(t, http.StatusOK, w.Code)

		assert.Equal(t, http.StatusUnauthorized, alice.do(http.MethodGet, "/api/users/me", nil).Code)
		assert.Equal(t, http.StatusNotFound, anon.do(http.MethodGet, fmt.Sprintf("/api/users/%d", aliceID), nil).Code)

		page := decode[pageResp](t, anon.do(http.MethodGet, "/api/listings", nil))
		assert.Equal(t, int64(1), page.TotalCount)
		assert.Equal(t, "Office Chair", page.Items[0].Title)

		w = alice.do(http.MethodPost, "/api/login", LoginRequest{Username: "alice", Password: "secret123"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "ACCOUNT_INACTIVE")
	})
}

func TestHomeHandler(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := h.SetupRouter(nil)
	alice := newClient(t, r)
	alice.register("alice")
	category := decode[models.Category](t, alice.do(http.MethodPost, "/api/categories", map[string]string{"name": "Electronics"}))
	alice.do(http.MethodPost, "/api/listings", map[string]any{"title": "iPhone 14", "price": "799.99", "category_id": category.ID})

	w := newClient(t, r).do(http.MethodGet, "/api/home", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[map[string]any](t, w)
	assert.Equal(t, float64(1), summary["total_listings"])
	assert.Equal(t, float64(1), summary["total_categories"])
	assert.Equal(t, float64(1), summary["total_users"])
}

func TestUpdateProfileHandler(t *testing.T) {
	h, db := setupTestHandler(t)
	r := h.SetupRouter(nil)
	alice := newClient(t, r)
	aliceID := alice.register("alice")
	newClient(t, r).register("bob")

	w := newClient(t, r).do(http.MethodPut, "/api/users/me", map[string]string{"username": "ghost", "email": "ghost@example.com"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = alice.do(http.MethodPut, "/api/users/me", map[string]string{"username": "bob", "email": "alice@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already taken")

	w = alice.do(http.MethodPut, "/api/users/me", map[string]string{"username": "alice", "email": "alice@example.org"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	me := decode[map[string]any](t, w)
	assert.Equal(t, "alice@example.org", me["email"])

	var entry models.AuditLog
	require.NoError(t, db.Where("action = ? AND entity_name = ? AND entity_id = ?",
		models.ActionUpdate, models.EntityUser, aliceID).First(&entry).Error)
	assert.Equal(t, "192.0.2.1", entry.IPAddress)
	assert.Contains(t, string(entry.Changes), "alice@example.org")
}
