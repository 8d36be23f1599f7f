package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"livemart/internal/cart"
	"livemart/internal/middleware"
	"livemart/internal/models"
)

func GetCart(agg *cart.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "GET /cart")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "GET /cart", "unauthorized")
			return
		}

		current, err := agg.Get(c.Request.Context(), principal.ID)
		if err != nil {
			respondDomainError(c, "GET /cart", err)
			return
		}

		fulfillment := c.DefaultQuery("fulfillment", models.FulfillDelivery)
		totals, err := agg.Quote(c.Request.Context(), principal.ID, fulfillment)
		if err != nil {
			respondDomainError(c, "GET /cart", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"cart": current, "totals": totals})
	}
}

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required,objectid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

func AddToCart(agg *cart.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "POST /cart")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "POST /cart", "unauthorized")
			return
		}

		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "POST /cart", "invalid request: "+err.Error())
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "POST /cart", "invalid product id")
			return
		}

		updated, err := agg.AddItem(c.Request.Context(), principal, productID, req.Quantity)
		if err != nil {
			respondDomainError(c, "POST /cart", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"cart": updated})
	}
}

type cartItemRequest struct {
	Product  string `json:"product" binding:"required,objectid"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type updateCartRequest struct {
	Items []cartItemRequest `json:"items" binding:"dive"`
}

func UpdateCart(agg *cart.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "PUT /cart")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "PUT /cart", "unauthorized")
			return
		}

		var req updateCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "PUT /cart", "invalid request: "+err.Error())
			return
		}

		items := make([]models.CartItem, 0, len(req.Items))
		for _, item := range req.Items {
			productID, err := primitive.ObjectIDFromHex(item.Product)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, "PUT /cart", "invalid product id: "+item.Product)
				return
			}
			items = append(items, models.CartItem{Product: productID, Quantity: item.Quantity})
		}

		updated, err := agg.ReplaceItems(c.Request.Context(), principal.ID, items)
		if err != nil {
			respondDomainError(c, "PUT /cart", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"cart": updated})
	}
}

func RemoveFromCart(agg *cart.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "DELETE /cart/:productId")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "DELETE /cart/:productId", "unauthorized")
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "DELETE /cart/:productId", "invalid product id")
			return
		}

		updated, err := agg.RemoveItem(c.Request.Context(), principal.ID, productID)
		if err != nil {
			respondDomainError(c, "DELETE /cart/:productId", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"cart": updated})
	}
}
