package handlers

import (
	"log/slog"

	"classifieds/internal/config"
	"classifieds/internal/services"
)

type Handler struct {
	cfg        config.Config
	logger     *slog.Logger
	listings   *services.ListingService
	users      *services.UserService
	categories *services.CategoryService
	home       *services.HomeService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	listings *services.ListingService,
	users *services.UserService,
	categories *services.CategoryService,
	home *services.HomeService,
) *Handler {
	return &Handler{
		cfg:        cfg,
		logger:     logger,
		listings:   listings,
		users:      users,
		categories: categories,
		home:       home,
	}
}
