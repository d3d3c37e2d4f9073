package handlers

import (
	"net/http"
	"time"

	"classifieds/internal/middleware"
	"classifieds/internal/models"
	"classifieds/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// accountResponse is the account holder's own view. Everywhere else a user
// renders as models.PublicUser.
type accountResponse struct {
	ID          uint             `json:"id"`
	Username    string           `json:"username"`
	Email       string           `json:"email"`
	IsActive    bool             `json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
	LastLoginAt *time.Time       `json:"last_login_at,omitempty"`
	Listings    []models.Listing `json:"listings,omitempty"`
}

func newAccountResponse(u *models.User) accountResponse {
	return accountResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
		Listings:    u.Listings,
	}
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.users.Profile(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountResponse(user))
}

func (h *Handler) UpdateMe(c *gin.Context) {
	var req services.ProfileInput
	if !h.bindJSON(c, &req) {
		return
	}
	userID := middleware.CurrentUserID(c)
	user, err := h.users.UpdateProfile(c.Request.Context(), userID, userID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountResponse(user))
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	user, err := h.users.Profile(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteAccount deactivates the caller and their listings, then ends the session.
func (h *Handler) DeleteAccount(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if err := h.users.Deactivate(c.Request.Context(), userID, userID); err != nil {
		h.respondError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
