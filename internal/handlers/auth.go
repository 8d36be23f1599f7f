package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"livemart/internal/middleware"
	"livemart/internal/models"
	"livemart/internal/store"
)

// Geocoder resolves a postal address to coordinates. Registration tolerates
// geocoding failures; sellers without coordinates simply stay out of
// proximity results.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
}

type shopLocationRequest struct {
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	ZipCode string `json:"zipCode" binding:"required"`
}

type registerRequest struct {
	Name         string               `json:"name" binding:"required"`
	Email        string               `json:"email" binding:"required,email"`
	Password     string               `json:"password" binding:"required,min=6"`
	Phone        string               `json:"phone"`
	Role         string               `json:"role" binding:"required,oneof=customer retailer wholesaler"`
	BusinessName string               `json:"businessName"`
	Location     *shopLocationRequest `json:"location"`
}

func Register(st store.Store, geocoder Geocoder, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "POST /auth/register")

		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "POST /auth/register", "invalid request: "+err.Error())
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondDomainError(c, "POST /auth/register", err)
			return
		}

		now := time.Now()
		user := &models.User{
			Name:         req.Name,
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			PasswordHash: string(hash),
			Phone:        req.Phone,
			Role:         req.Role,
			BusinessName: req.BusinessName,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if req.Location != nil {
			location := &models.ShopLocation{
				Address: req.Location.Address,
				City:    req.Location.City,
				State:   req.Location.State,
				ZipCode: req.Location.ZipCode,
			}
			if user.IsSeller() && geocoder != nil {
				full := strings.Join([]string{location.Address, location.City, location.State, location.ZipCode}, ", ")
				coords, err := geocoder.Geocode(c.Request.Context(), full)
				if err != nil {
					log.Warn().Err(err).Str("email", user.Email).Msg("geocoding failed during registration")
				} else {
					location.Coordinates = coords
				}
			}
			user.Location = location
		}

		if err := st.CreateUser(c.Request.Context(), user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				respondWithError(c, http.StatusConflict, "POST /auth/register", "email already registered")
				return
			}
			respondDomainError(c, "POST /auth/register", err)
			return
		}

		token, err := signToken(user, jwtSecret, tokenTTL)
		if err != nil {
			respondDomainError(c, "POST /auth/register", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Login(st store.Store, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "POST /auth/login")

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "POST /auth/login", "invalid request: "+err.Error())
			return
		}

		user, err := st.GetUserByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(c, http.StatusUnauthorized, "POST /auth/login", "invalid credentials")
				return
			}
			respondDomainError(c, "POST /auth/login", err)
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			respondWithError(c, http.StatusUnauthorized, "POST /auth/login", "invalid credentials")
			return
		}

		token, err := signToken(user, jwtSecret, tokenTTL)
		if err != nil {
			respondDomainError(c, "POST /auth/login", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

func GetProfile(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "GET /auth/me")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "GET /auth/me", "unauthorized")
			return
		}

		user, err := st.GetUser(c.Request.Context(), principal.ID)
		if err != nil {
			respondDomainError(c, "GET /auth/me", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

func signToken(user *models.User, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": user.ID.Hex(),
		"role":   user.Role,
		"exp":    time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
