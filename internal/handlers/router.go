package handlers

import (
	"net/http"

	"classifieds/internal/middleware"
	"classifieds/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "classifieds_session"

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.ClientIP())
	if rateLimiter != nil {
		r.Use(middleware.RateLimit(rateLimiter))
	}

	store := cookie.NewStore([]byte(h.cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   h.cfg.SessionMaxAgeDays * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(middleware.LoadUser(h.users, h.logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := r.Group("/api")

	// Public Routes
	api.GET("/home", h.Home)
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
	api.GET("/listings", h.ListListings)
	api.GET("/listings/:id", h.GetListing)
	api.GET("/categories", h.ListCategories)
	api.GET("/categories/:id", h.GetCategory)

	// Protected Routes
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/listings", h.CreateListing)
		authorized.PUT("/listings/:id", h.UpdateListing)
		authorized.DELETE("/listings/:id", h.DeleteListing)
		authorized.GET("/listings/:id/history", h.ListingHistory)

		authorized.POST("/categories", h.CreateCategory)
		authorized.PUT("/categories/:id", h.UpdateCategory)
		authorized.DELETE("/categories/:id", h.DeleteCategory)

		authorized.GET("/users/me", h.Me)
		authorized.PUT("/users/me", h.UpdateMe)
		authorized.DELETE("/users/me", h.DeleteAccount)
	}

	api.GET("/users/:id", h.GetUser)

	return r
}
