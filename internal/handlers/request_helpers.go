package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"livemart/internal/cart"
	"livemart/internal/orders"
	"livemart/internal/store"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Error().Str("route", route).Interface("panic", r).Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Debug().Str("route", route).Int("status", status).Str("message", message).Msg("request failed")
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondDomainError maps the business error taxonomy onto HTTP statuses.
// Everything unrecognized is a 500 and gets logged with the route.
func respondDomainError(c *gin.Context, route string, err error) {
	var cartStockErr cart.InsufficientStockError
	if errors.As(err, &cartStockErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "insufficient stock",
			"productId": cartStockErr.ProductID.Hex(),
			"available": cartStockErr.Available,
			"requested": cartStockErr.Requested,
		})
		return
	}

	var orderStockErr orders.InsufficientStockError
	if errors.As(err, &orderStockErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "insufficient stock",
			"productId": orderStockErr.ProductID.Hex(),
			"available": orderStockErr.Available,
			"requested": orderStockErr.Requested,
		})
		return
	}

	var moqErr cart.BelowMinimumOrderError
	if errors.As(err, &moqErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     moqErr.Error(),
			"productId": moqErr.ProductID.Hex(),
			"minimum":   moqErr.Minimum,
		})
		return
	}

	var transitionErr orders.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": transitionErr.Error()})
		return
	}

	switch {
	case errors.Is(err, cart.ErrSelfPurchase):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrEmptyCart):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, store.ErrInsufficientStock):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "insufficient stock"})
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrDuplicate):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "conflict"})
	default:
		log.Error().Str("route", route).Err(err).Msg("internal error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
