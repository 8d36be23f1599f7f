package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"livemart/internal/middleware"
	"livemart/internal/models"
	"livemart/internal/store"
)

type createFeedbackRequest struct {
	Type      string `json:"type" binding:"required,oneof=product service general"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"required"`
	ProductID string `json:"productId" binding:"omitempty,objectid"`
	OrderID   string `json:"orderId" binding:"omitempty,objectid"`
}

func CreateFeedback(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "POST /feedback")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "POST /feedback", "unauthorized")
			return
		}

		var req createFeedbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "POST /feedback", "invalid request: "+err.Error())
			return
		}

		now := time.Now()
		fb := &models.Feedback{
			User:      principal.ID,
			Type:      req.Type,
			Rating:    req.Rating,
			Comment:   req.Comment,
			Status:    models.FeedbackPending,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if req.ProductID != "" {
			productID, err := primitive.ObjectIDFromHex(req.ProductID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, "POST /feedback", "invalid product id")
				return
			}
			fb.Product = &productID
		}
		if req.OrderID != "" {
			orderID, err := primitive.ObjectIDFromHex(req.OrderID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, "POST /feedback", "invalid order id")
				return
			}
			fb.Order = &orderID
		}

		if err := st.CreateFeedback(c.Request.Context(), fb); err != nil {
			respondDomainError(c, "POST /feedback", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"feedback": fb})
	}
}

// GetFeedback lists approved feedback for a product, or the caller's own
// submissions when no product is given.
func GetFeedback(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "GET /feedback")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "GET /feedback", "unauthorized")
			return
		}

		q := store.FeedbackQuery{}
		if productStr := c.Query("product"); productStr != "" {
			productID, err := primitive.ObjectIDFromHex(productStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, "GET /feedback", "invalid product id")
				return
			}
			q.Product = &productID
			q.Status = models.FeedbackApproved
		} else {
			q.User = &principal.ID
		}

		list, err := st.ListFeedback(c.Request.Context(), q)
		if err != nil {
			respondDomainError(c, "GET /feedback", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"feedback": list, "count": len(list)})
	}
}
