package shops

import (
	"testing"

	"livemart/internal/models"
)

func seller(name string, coords *models.Coordinates) models.User {
	location := &models.ShopLocation{City: "Dhaka", Coordinates: coords}
	return models.User{Name: name, Role: models.RoleRetailer, Location: location}
}

func TestFindNearbySortsByDistance(t *testing.T) {
	sellers := []models.User{
		seller("far", &models.Coordinates{Lat: 0, Lng: 1}),
		seller("near", &models.Coordinates{Lat: 0, Lng: 0.01}),
		seller("mid", &models.Coordinates{Lat: 0, Lng: 0.5}),
	}

	results := FindNearby(sellers, &models.Coordinates{Lat: 0, Lng: 0}, nil)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	names := []string{results[0].Seller.Name, results[1].Seller.Name, results[2].Seller.Name}
	if names[0] != "near" || names[1] != "mid" || names[2] != "far" {
		t.Fatalf("unexpected order: %v", names)
	}
}

func TestFindNearbyKeepsUnlocatedSellersLastWithoutRadius(t *testing.T) {
	sellers := []models.User{
		seller("unlocated", nil),
		seller("located", &models.Coordinates{Lat: 0, Lng: 0.01}),
	}

	results := FindNearby(sellers, &models.Coordinates{Lat: 0, Lng: 0}, nil)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Seller.Name != "located" {
		t.Fatalf("expected located first, got %s", results[0].Seller.Name)
	}
	if results[1].DistanceKm != nil {
		t.Fatalf("expected nil distance for unlocated seller")
	}
}

func TestFindNearbyRadiusExcludes(t *testing.T) {
	sellers := []models.User{
		seller("inside", &models.Coordinates{Lat: 0, Lng: 0}),          // 0 km
		seller("outside", &models.Coordinates{Lat: 0.135, Lng: 0}),     // ~15 km
		seller("unlocated", nil),
	}

	radius := 10.0
	results := FindNearby(sellers, &models.Coordinates{Lat: 0, Lng: 0}, &radius)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Seller.Name != "inside" {
		t.Fatalf("unexpected seller: %s", results[0].Seller.Name)
	}
	if results[0].DistanceKm == nil || *results[0].DistanceKm != 0 {
		t.Fatalf("expected 0 km distance")
	}
}

func TestFindNearbyWithoutOriginKeepsInputOrder(t *testing.T) {
	sellers := []models.User{
		seller("b", &models.Coordinates{Lat: 0, Lng: 1}),
		seller("a", &models.Coordinates{Lat: 0, Lng: 0}),
	}

	results := FindNearby(sellers, nil, nil)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Seller.Name != "b" {
		t.Fatalf("expected input order preserved, got %s first", results[0].Seller.Name)
	}
	if results[0].DistanceKm != nil {
		t.Fatalf("expected nil distance without origin")
	}
}
