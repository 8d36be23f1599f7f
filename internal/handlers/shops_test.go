package handlers_test

import (
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

type fakeCache struct {
	data map[string][]byte
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := f.data[key]
	return value, ok, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.data[key] = value
	f.sets++
	return nil
}

func TestGetShopsSortsAndCaches(t *testing.T) {
	gin.SetMode(gin.TestMode)

	st := memory.New()
	for _, u := range []models.User{
		{Name: "Far Shop", Email: "far@test", Role: models.RoleRetailer, Location: &models.ShopLocation{
			Coordinates: &models.Coordinates{Lat: 0, Lng: 1},
		}},
		{Name: "Near Shop", Email: "near@test", Role: models.RoleWholesaler, Location: &models.ShopLocation{
			Coordinates: &models.Coordinates{Lat: 0, Lng: 0.01},
		}},
		{Name: "Just A Customer", Email: "c@test", Role: models.RoleCustomer},
	} {
		user := u
		require.NoError(t, st.CreateUser(context.Background(), &user))
	}

	cache := newFakeCache()
	r := gin.New()
	r.GET("/shops", handlers.GetShops(st, cache, time.Minute))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shops?lat=0&lng=0", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Shops []struct {
			Shop     models.User `json:"shop"`
			Distance *float64    `json:"distance"`
		} `json:"shops"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	require.Equal(t, 2, body.Count)
	assert.Equal(t, "Near Shop", body.Shops[0].Shop.Name)
	assert.Equal(t, "Far Shop", body.Shops[1].Shop.Name)
	assert.Equal(t, 1, cache.sets)

	// Second hit is served from cache, not recomputed.
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/shops?lat=0&lng=0", nil))
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, w.Body.String(), w2.Body.String())
	assert.Equal(t, 1, cache.sets)
}

func TestGetShopsRejectsHalfOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/shops", handlers.GetShops(memory.New(), newFakeCache(), time.Minute))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shops?lat=23.8", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetShopsRadiusFiltering(t *testing.T) {
	gin.SetMode(gin.TestMode)

	st := memory.New()
	inside := models.User{Name: "Inside", Email: "in@test", Role: models.RoleRetailer, Location: &models.ShopLocation{
		Coordinates: &models.Coordinates{Lat: 0, Lng: 0},
	}}
	outside := models.User{Name: "Outside", Email: "out@test", Role: models.RoleRetailer, Location: &models.ShopLocation{
		Coordinates: &models.Coordinates{Lat: 0.2, Lng: 0},
	}}
	require.NoError(t, st.CreateUser(context.Background(), &inside))
	require.NoError(t, st.CreateUser(context.Background(), &outside))

	r := gin.New()
	r.GET("/shops", handlers.GetShops(st, newFakeCache(), time.Minute))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shops?lat=0&lng=0&radius=10", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
}
