package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"livemart/internal/handlers"
	"livemart/internal/models"
	"livemart/internal/store/memory"
)

type stubGeocoder struct {
	coords *models.Coordinates
}

func (s stubGeocoder) Geocode(context.Context, string) (*models.Coordinates, error) {
	return s.coords, nil
}

func authRouter(st *memory.Store, geocoder handlers.Geocoder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handlers.RegisterValidations()

	r := gin.New()
	r.POST("/auth/register", handlers.Register(st, geocoder, "test-secret", time.Hour))
	r.POST("/auth/login", handlers.Login(st, "test-secret", time.Hour))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterGeocodesSellerLocation(t *testing.T) {
	st := memory.New()
	r := authRouter(st, stubGeocoder{coords: &models.Coordinates{Lat: 23.81, Lng: 90.41}})

	w := postJSON(t, r, "/auth/register", gin.H{
		"name":     "Mirpur Grocery",
		"email":    "grocer@example.com",
		"password": "secret123",
		"role":     "retailer",
		"location": gin.H{
			"address": "12 Main Road",
			"city":    "Dhaka",
			"state":   "Dhaka",
			"zipCode": "1207",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.NotEmpty(t, body.Token)
	require.NotNil(t, body.User.Location)
	require.NotNil(t, body.User.Location.Coordinates)
	assert.Equal(t, 23.81, body.User.Location.Coordinates.Lat)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	st := memory.New()
	r := authRouter(st, stubGeocoder{})

	payload := gin.H{
		"name":     "Someone",
		"email":    "dup@example.com",
		"password": "secret123",
		"role":     "customer",
	}

	require.Equal(t, http.StatusCreated, postJSON(t, r, "/auth/register", payload).Code)
	assert.Equal(t, http.StatusConflict, postJSON(t, r, "/auth/register", payload).Code)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	r := authRouter(memory.New(), stubGeocoder{})

	w := postJSON(t, r, "/auth/register", gin.H{
		"name":     "Someone",
		"email":    "x@example.com",
		"password": "secret123",
		"role":     "admin",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRoundTrip(t *testing.T) {
	st := memory.New()
	r := authRouter(st, stubGeocoder{})

	require.Equal(t, http.StatusCreated, postJSON(t, r, "/auth/register", gin.H{
		"name":     "Buyer",
		"email":    "buyer@example.com",
		"password": "secret123",
		"role":     "customer",
	}).Code)

	ok := postJSON(t, r, "/auth/login", gin.H{"email": "buyer@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, ok.Code)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(ok.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Token)

	bad := postJSON(t, r, "/auth/login", gin.H{"email": "buyer@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, bad.Code)
}
