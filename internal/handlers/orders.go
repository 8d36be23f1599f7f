package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"livemart/internal/middleware"
	"livemart/internal/models"
	"livemart/internal/orders"
)

type orderItemRequest struct {
	Product  string `json:"product" binding:"required,objectid"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type shippingAddressRequest struct {
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	ZipCode string `json:"zipCode" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
}

type createOrderRequest struct {
	Items             []orderItemRequest     `json:"items" binding:"dive"`
	ShippingAddress   shippingAddressRequest `json:"shippingAddress" binding:"required"`
	PaymentMethod     string                 `json:"paymentMethod" binding:"omitempty,oneof=online offline cod"`
	FulfillmentMethod string                 `json:"fulfillmentMethod" binding:"omitempty,oneof=delivery pickup"`
	ScheduledDate     *time.Time             `json:"scheduledDate"`
	Notes             string                 `json:"notes"`
	RetailerID        string                 `json:"retailerId" binding:"omitempty,objectid"`
}

func CreateOrder(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "POST /orders")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "POST /orders", "unauthorized")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "POST /orders", "invalid request: "+err.Error())
			return
		}

		items := make([]orders.LineItemInput, 0, len(req.Items))
		for _, item := range req.Items {
			productID, err := primitive.ObjectIDFromHex(item.Product)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, "POST /orders", "invalid product id: "+item.Product)
				return
			}
			items = append(items, orders.LineItemInput{ProductID: productID, Quantity: item.Quantity})
		}

		input := orders.PlaceOrderInput{
			Items: items,
			ShippingAddress: models.ShippingAddress{
				Address: req.ShippingAddress.Address,
				City:    req.ShippingAddress.City,
				State:   req.ShippingAddress.State,
				ZipCode: req.ShippingAddress.ZipCode,
				Phone:   req.ShippingAddress.Phone,
			},
			PaymentMethod:     req.PaymentMethod,
			FulfillmentMethod: req.FulfillmentMethod,
			ScheduledDate:     req.ScheduledDate,
			Notes:             req.Notes,
		}

		if req.RetailerID != "" {
			counterpart, err := primitive.ObjectIDFromHex(req.RetailerID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, "POST /orders", "invalid retailer id")
				return
			}
			input.RetailerContext = &counterpart
		}

		order, err := svc.PlaceOrder(c.Request.Context(), principal, input)
		if err != nil {
			respondDomainError(c, "POST /orders", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"order": order})
	}
}

func GetOrders(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "GET /orders")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "GET /orders", "unauthorized")
			return
		}

		list, err := svc.ListOrders(c.Request.Context(), principal)
		if err != nil {
			respondDomainError(c, "GET /orders", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"orders": list, "count": len(list)})
	}
}

func GetOrder(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "GET /orders/:id")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "GET /orders/:id", "unauthorized")
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "GET /orders/:id", "invalid order id")
			return
		}

		order, err := svc.GetOrder(c.Request.Context(), principal, id)
		if err != nil {
			respondDomainError(c, "GET /orders/:id", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

type updateOrderRequest struct {
	Status         string     `json:"status" binding:"omitempty,oneof=pending confirmed processing shipped delivered cancelled"`
	TrackingNumber string     `json:"trackingNumber"`
	DeliveryDate   *time.Time `json:"deliveryDate"`
}

func UpdateOrder(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "PATCH /orders/:id")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "PATCH /orders/:id", "unauthorized")
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "PATCH /orders/:id", "invalid order id")
			return
		}

		var req updateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "PATCH /orders/:id", "invalid request: "+err.Error())
			return
		}

		order, err := svc.UpdateStatus(c.Request.Context(), principal, id, orders.UpdateStatusInput{
			Status:         req.Status,
			TrackingNumber: req.TrackingNumber,
			DeliveryDate:   req.DeliveryDate,
		})
		if err != nil {
			respondDomainError(c, "PATCH /orders/:id", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}
