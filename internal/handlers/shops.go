package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"livemart/internal/cache"
	"livemart/internal/models"
	"livemart/internal/shops"
	"livemart/internal/store"
)

// GetShops lists sellers, sorted by distance when an origin is given. The
// response is cached whole per query string; shop listings tolerate short
// staleness.
func GetShops(st store.Store, ch cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "GET /shops")

		lat, err := parseFloatParam(c.Query("lat"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "GET /shops", err.Error())
			return
		}
		lng, err := parseFloatParam(c.Query("lng"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "GET /shops", err.Error())
			return
		}
		radius, err := parseFloatParam(c.Query("radius"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "GET /shops", err.Error())
			return
		}

		if (lat == nil) != (lng == nil) {
			respondWithError(c, http.StatusBadRequest, "GET /shops", "lat and lng must be provided together")
			return
		}
		if radius != nil && lat == nil {
			respondWithError(c, http.StatusBadRequest, "GET /shops", "radius requires lat and lng")
			return
		}

		key := "shops:" + c.Request.URL.RawQuery
		if cached, ok, err := ch.Get(c.Request.Context(), key); err != nil {
			log.Warn().Err(err).Msg("shops cache read failed")
		} else if ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			return
		}

		sellers, err := st.ListSellers(c.Request.Context())
		if err != nil {
			respondDomainError(c, "GET /shops", err)
			return
		}

		var origin *models.Coordinates
		if lat != nil {
			origin = &models.Coordinates{Lat: *lat, Lng: *lng}
		}

		results := shops.FindNearby(sellers, origin, radius)

		body, err := json.Marshal(gin.H{"shops": results, "count": len(results)})
		if err != nil {
			respondDomainError(c, "GET /shops", err)
			return
		}

		if err := ch.Set(c.Request.Context(), key, body, ttl); err != nil {
			log.Warn().Err(err).Msg("shops cache write failed")
		}

		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
	}
}
