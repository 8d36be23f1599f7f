package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"livemart/internal/middleware"
	"livemart/internal/models"
	"livemart/internal/store"
)

type createQueryRequest struct {
	Subject   string `json:"subject" binding:"required"`
	Message   string `json:"message" binding:"required"`
	OrderID   string `json:"orderId" binding:"omitempty,objectid"`
	ProductID string `json:"productId" binding:"omitempty,objectid"`
}

func CreateQuery(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "POST /queries")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "POST /queries", "unauthorized")
			return
		}

		var req createQueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "POST /queries", "invalid request: "+err.Error())
			return
		}

		now := time.Now()
		query := &models.Query{
			User:      principal.ID,
			Subject:   req.Subject,
			Message:   req.Message,
			Status:    models.QueryOpen,
			Responses: []models.QueryResponse{},
			CreatedAt: now,
			UpdatedAt: now,
		}

		if req.OrderID != "" {
			orderID, err := primitive.ObjectIDFromHex(req.OrderID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, "POST /queries", "invalid order id")
				return
			}
			query.Order = &orderID
		}
		if req.ProductID != "" {
			productID, err := primitive.ObjectIDFromHex(req.ProductID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, "POST /queries", "invalid product id")
				return
			}
			query.Product = &productID
		}

		if err := st.CreateQuery(c.Request.Context(), query); err != nil {
			respondDomainError(c, "POST /queries", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"query": query})
	}
}

func GetQueries(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "GET /queries")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "GET /queries", "unauthorized")
			return
		}

		list, err := st.ListQueries(c.Request.Context(), &principal.ID)
		if err != nil {
			respondDomainError(c, "GET /queries", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"queries": list, "count": len(list)})
	}
}

func GetQuery(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "GET /queries/:id")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "GET /queries/:id", "unauthorized")
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "GET /queries/:id", "invalid query id")
			return
		}

		query, err := st.GetQuery(c.Request.Context(), id)
		if err != nil {
			respondDomainError(c, "GET /queries/:id", err)
			return
		}
		if query.User != principal.ID {
			respondWithError(c, http.StatusForbidden, "GET /queries/:id", "access denied")
			return
		}

		c.JSON(http.StatusOK, gin.H{"query": query})
	}
}

type respondQueryRequest struct {
	Message string `json:"message" binding:"required"`
}

// RespondToQuery appends a message to the thread. A first response moves an
// open query to in_progress.
func RespondToQuery(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "POST /queries/:id/responses")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "POST /queries/:id/responses", "unauthorized")
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "POST /queries/:id/responses", "invalid query id")
			return
		}

		var req respondQueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "POST /queries/:id/responses", "invalid request: "+err.Error())
			return
		}

		query, err := st.GetQuery(c.Request.Context(), id)
		if err != nil {
			respondDomainError(c, "POST /queries/:id/responses", err)
			return
		}
		if query.User != principal.ID {
			respondWithError(c, http.StatusForbidden, "POST /queries/:id/responses", "access denied")
			return
		}

		query.Responses = append(query.Responses, models.QueryResponse{
			ID:        uuid.NewString(),
			User:      principal.ID,
			Message:   req.Message,
			CreatedAt: time.Now(),
		})
		if query.Status == models.QueryOpen {
			query.Status = models.QueryInProgress
		}
		query.UpdatedAt = time.Now()

		if err := st.UpdateQuery(c.Request.Context(), query); err != nil {
			respondDomainError(c, "POST /queries/:id/responses", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"query": query})
	}
}

type updateQueryStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_progress resolved closed"`
}

func UpdateQueryStatus(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "PATCH /queries/:id")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "PATCH /queries/:id", "unauthorized")
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "PATCH /queries/:id", "invalid query id")
			return
		}

		var req updateQueryStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "PATCH /queries/:id", "invalid request: "+err.Error())
			return
		}

		query, err := st.GetQuery(c.Request.Context(), id)
		if err != nil {
			respondDomainError(c, "PATCH /queries/:id", err)
			return
		}
		if query.User != principal.ID {
			respondWithError(c, http.StatusForbidden, "PATCH /queries/:id", "access denied")
			return
		}

		query.Status = req.Status
		query.UpdatedAt = time.Now()

		if err := st.UpdateQuery(c.Request.Context(), query); err != nil {
			respondDomainError(c, "PATCH /queries/:id", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"query": query})
	}
}
