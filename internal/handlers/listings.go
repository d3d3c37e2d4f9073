package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"classifieds/internal/middleware"
	"classifieds/internal/repository"
	"classifieds/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ListListings never rejects its query string: unparseable values are ignored.
func (h *Handler) ListListings(c *gin.Context) {
	page, err := h.listings.List(c.Request.Context(), listingQuery(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func listingQuery(c *gin.Context) repository.ListingQuery {
	q := repository.ListingQuery{
		Title: c.Query("search_title"),
		Sort:  repository.ListingSort(strings.ToLower(c.Query("sort_by"))),
	}
	if v, err := strconv.Atoi(c.Query("category_id")); err == nil {
		q.CategoryID = v
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		q.Page = v
	}
	q.MinPrice = queryDecimal(c, "min_price")
	q.MaxPrice = queryDecimal(c, "max_price")
	return q
}

func queryDecimal(c *gin.Context, key string) *decimal.Decimal {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

func (h *Handler) GetListing(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	listing, err := h.listings.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *Handler) CreateListing(c *gin.Context) {
	var req services.ListingInput
	if !h.bindJSON(c, &req) {
		return
	}
	listing, err := h.listings.Create(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

func (h *Handler) UpdateListing(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req services.ListingInput
	if !h.bindJSON(c, &req) {
		return
	}
	listing, err := h.listings.Update(c.Request.Context(), id, middleware.CurrentUserID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *Handler) DeleteListing(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.listings.SoftDelete(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted successfully"})
}

func (h *Handler) ListingHistory(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	entries, err := h.listings.History(c.Request.Context(), id, middleware.CurrentUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
