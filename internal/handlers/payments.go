package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"livemart/internal/middleware"
	"livemart/internal/models"
	"livemart/internal/orders"
	"livemart/internal/payment"
	"livemart/internal/store"
)

type createIntentRequest struct {
	OrderID  string `json:"orderId" binding:"required,objectid"`
	Currency string `json:"currency"`
}

func CreatePaymentIntent(svc *orders.Service, gw payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "POST /payments/intent")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "POST /payments/intent", "unauthorized")
			return
		}

		var req createIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "POST /payments/intent", "invalid request: "+err.Error())
			return
		}

		orderID, err := primitive.ObjectIDFromHex(req.OrderID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "POST /payments/intent", "invalid order id")
			return
		}

		order, err := svc.GetOrder(c.Request.Context(), principal, orderID)
		if err != nil {
			respondDomainError(c, "POST /payments/intent", err)
			return
		}
		if order.PaymentStatus == models.PaymentPaid {
			respondWithError(c, http.StatusConflict, "POST /payments/intent", "order already paid")
			return
		}

		currency := req.Currency
		if currency == "" {
			currency = "usd"
		}

		intent, err := gw.CreateIntent(c.Request.Context(), order.Total, currency, map[string]string{
			"orderId":     order.ID.Hex(),
			"orderNumber": order.OrderNumber,
		})
		if err != nil {
			log.Error().Err(err).Str("order", order.OrderNumber).Msg("payment intent creation failed")
			respondWithError(c, http.StatusBadGateway, "POST /payments/intent", "payment gateway unavailable")
			return
		}

		c.JSON(http.StatusOK, intent)
	}
}

type verifyPaymentRequest struct {
	OrderID   string `json:"orderId" binding:"required,objectid"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// VerifyPayment is the synchronous completion path: the client returns from
// the gateway with a signature over "orderId|paymentId" and we settle the
// order without waiting for the webhook.
func VerifyPayment(svc *orders.Service, gw payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "POST /payments/verify")

		if _, ok := middleware.PrincipalFrom(c); !ok {
			respondWithError(c, http.StatusUnauthorized, "POST /payments/verify", "unauthorized")
			return
		}

		var req verifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "POST /payments/verify", "invalid request: "+err.Error())
			return
		}

		orderID, err := primitive.ObjectIDFromHex(req.OrderID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "POST /payments/verify", "invalid order id")
			return
		}

		if !gw.VerifySignature([]byte(req.OrderID+"|"+req.PaymentID), req.Signature) {
			respondWithError(c, http.StatusBadRequest, "POST /payments/verify", "invalid payment signature")
			return
		}

		order, err := svc.MarkPaymentResult(c.Request.Context(), orderID, orders.OutcomePaid, req.PaymentID)
		if err != nil {
			respondDomainError(c, "POST /payments/verify", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

// PaymentWebhook handles asynchronous gateway notifications. Deliveries with
// a valid signature are always acknowledged with 200 so the gateway stops
// retrying; failures that a retry cannot heal are only logged.
func PaymentWebhook(svc *orders.Service, gw payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "POST /payments/webhook")

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "POST /payments/webhook", "unreadable payload")
			return
		}

		event, err := gw.ParseWebhook(body, c.GetHeader("X-Payment-Signature"))
		if err != nil {
			if errors.Is(err, payment.ErrBadSignature) {
				respondWithError(c, http.StatusBadRequest, "POST /payments/webhook", "invalid signature")
				return
			}
			respondWithError(c, http.StatusBadRequest, "POST /payments/webhook", "malformed payload")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(event.OrderID)
		if err != nil {
			log.Warn().Str("type", event.Type).Str("orderId", event.OrderID).Msg("webhook without usable order reference")
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		var outcome string
		switch event.Type {
		case payment.EventSucceeded:
			outcome = orders.OutcomePaid
		case payment.EventFailed:
			outcome = orders.OutcomeFailed
		default:
			log.Debug().Str("type", event.Type).Msg("ignoring unhandled webhook event")
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		if _, err := svc.MarkPaymentResult(c.Request.Context(), orderID, outcome, event.PaymentID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Warn().Str("orderId", event.OrderID).Msg("webhook references unknown order")
				c.JSON(http.StatusOK, gin.H{"received": true})
				return
			}
			respondDomainError(c, "POST /payments/webhook", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
