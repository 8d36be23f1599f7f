// Package shops computes seller proximity for the discovery pages.
package shops

import (
	"sort"

	"livemart/internal/geo"
	"livemart/internal/models"
)

// Result pairs a seller with its distance from the query origin. DistanceKm
// is nil for sellers without coordinates.
type Result struct {
	Seller     models.User `json:"shop"`
	DistanceKm *float64    `json:"distance"`
}

// FindNearby attaches distances and sorts ascending when an origin is given.
// With a radius, sellers lacking coordinates are excluded; without one they
// are kept at the end of the list.
func FindNearby(sellers []models.User, origin *models.Coordinates, radiusKm *float64) []Result {
	results := make([]Result, 0, len(sellers))

	for _, seller := range sellers {
		var distance *float64
		if origin != nil && seller.Location != nil && seller.Location.Coordinates != nil {
			d := geo.DistanceKm(origin.Lat, origin.Lng, seller.Location.Coordinates.Lat, seller.Location.Coordinates.Lng)
			distance = &d
		}

		if origin != nil && radiusKm != nil {
			if distance == nil || *distance > *radiusKm {
				continue
			}
		}

		results = append(results, Result{Seller: seller, DistanceKm: distance})
	}

	if origin != nil {
		sort.SliceStable(results, func(i, j int) bool {
			a, b := results[i].DistanceKm, results[j].DistanceKm
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return *a < *b
		})
	}

	return results
}
