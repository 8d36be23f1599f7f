package catalog

import (
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"livemart/internal/models"
)

func activeProduct(name string, price float64, seller primitive.ObjectID) models.Product {
	return models.Product{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Price:     price,
		Stock:     10,
		Seller:    seller,
		Status:    models.ProductActive,
		CreatedAt: time.Now(),
	}
}

func TestApplyExcludesInactiveProducts(t *testing.T) {
	seller := primitive.NewObjectID()
	inactive := activeProduct("hidden", 10, seller)
	inactive.Status = models.ProductInactive

	page := Apply([]models.Product{activeProduct("visible", 10, seller), inactive}, nil, Filter{})

	if page.Total != 1 {
		t.Fatalf("expected 1 match, got %d", page.Total)
	}
	if page.Products[0].Name != "visible" {
		t.Fatalf("unexpected product: %s", page.Products[0].Name)
	}
}

func TestApplyPaginationMath(t *testing.T) {
	seller := primitive.NewObjectID()
	products := make([]models.Product, 0, 25)
	for i := 0; i < 25; i++ {
		products = append(products, activeProduct(fmt.Sprintf("p%02d", i), 10, seller))
	}

	page := Apply(products, nil, Filter{Page: 2, PageSize: 10})

	if page.Total != 25 {
		t.Fatalf("total: expected 25, got %d", page.Total)
	}
	if page.Pages != 3 {
		t.Fatalf("pages: expected 3, got %d", page.Pages)
	}
	if len(page.Products) != 10 {
		t.Fatalf("page size: expected 10, got %d", len(page.Products))
	}

	last := Apply(products, nil, Filter{Page: 3, PageSize: 10})
	if len(last.Products) != 5 {
		t.Fatalf("last page: expected 5, got %d", len(last.Products))
	}

	past := Apply(products, nil, Filter{Page: 9, PageSize: 10})
	if len(past.Products) != 0 {
		t.Fatalf("past-end page: expected empty, got %d", len(past.Products))
	}
	if past.Total != 25 {
		t.Fatalf("past-end total: expected 25, got %d", past.Total)
	}
}

func TestApplyGeoFilterRunsBeforePagination(t *testing.T) {
	near := primitive.NewObjectID()
	far := primitive.NewObjectID()
	coords := map[primitive.ObjectID]models.Coordinates{
		near: {Lat: 0, Lng: 0},
		far:  {Lat: 0, Lng: 1}, // ~111 km away
	}

	products := make([]models.Product, 0, 30)
	for i := 0; i < 15; i++ {
		products = append(products, activeProduct(fmt.Sprintf("near%02d", i), 10, near))
		products = append(products, activeProduct(fmt.Sprintf("far%02d", i), 10, far))
	}

	page := Apply(products, coords, Filter{
		Geo:      &GeoFilter{Lat: 0, Lng: 0, RadiusKm: 50},
		Page:     1,
		PageSize: 10,
	})

	// Totals count geo matches, not raw candidates.
	if page.Total != 15 {
		t.Fatalf("total: expected 15, got %d", page.Total)
	}
	if page.Pages != 2 {
		t.Fatalf("pages: expected 2, got %d", page.Pages)
	}
	for _, p := range page.Products {
		if p.Seller != near {
			t.Fatalf("far seller leaked through geo filter: %s", p.Name)
		}
	}
}

func TestApplyGeoFilterExcludesSellersWithoutCoordinates(t *testing.T) {
	located := primitive.NewObjectID()
	unlocated := primitive.NewObjectID()
	coords := map[primitive.ObjectID]models.Coordinates{located: {Lat: 0, Lng: 0}}

	page := Apply([]models.Product{
		activeProduct("located", 10, located),
		activeProduct("unlocated", 10, unlocated),
	}, coords, Filter{Geo: &GeoFilter{Lat: 0, Lng: 0, RadiusKm: 50}})

	if page.Total != 1 {
		t.Fatalf("expected 1 match, got %d", page.Total)
	}
	if page.Products[0].Name != "located" {
		t.Fatalf("unexpected product: %s", page.Products[0].Name)
	}
}

func TestApplySearchMatchesAnyTerm(t *testing.T) {
	seller := primitive.NewObjectID()
	apple := activeProduct("Fresh Apples", 5, seller)
	banana := activeProduct("Banana Bunch", 3, seller)
	tagged := activeProduct("Mystery Box", 8, seller)
	tagged.Tags = models.StringList{"organic", "apple"}

	products := []models.Product{apple, banana, tagged}

	page := Apply(products, nil, Filter{Search: "apple mango"})
	if page.Total != 2 {
		t.Fatalf("expected 2 matches (name and tag), got %d", page.Total)
	}

	none := Apply(products, nil, Filter{Search: "papaya"})
	if none.Total != 0 {
		t.Fatalf("expected 0 matches, got %d", none.Total)
	}
}

func TestApplyPriceBoundsAndStock(t *testing.T) {
	seller := primitive.NewObjectID()
	cheap := activeProduct("cheap", 5, seller)
	mid := activeProduct("mid", 50, seller)
	soldOut := activeProduct("sold out", 50, seller)
	soldOut.Stock = 0

	minPrice := 10.0
	maxPrice := 100.0
	page := Apply([]models.Product{cheap, mid, soldOut}, nil, Filter{
		MinPrice:    &minPrice,
		MaxPrice:    &maxPrice,
		InStockOnly: true,
	})

	if page.Total != 1 {
		t.Fatalf("expected 1 match, got %d", page.Total)
	}
	if page.Products[0].Name != "mid" {
		t.Fatalf("unexpected product: %s", page.Products[0].Name)
	}
}

func TestApplySortByPrice(t *testing.T) {
	seller := primitive.NewObjectID()
	products := []models.Product{
		activeProduct("b", 30, seller),
		activeProduct("a", 10, seller),
		activeProduct("c", 20, seller),
	}

	page := Apply(products, nil, Filter{SortBy: SortPrice, SortOrder: OrderAsc})

	prices := []float64{page.Products[0].Price, page.Products[1].Price, page.Products[2].Price}
	if prices[0] != 10 || prices[1] != 20 || prices[2] != 30 {
		t.Fatalf("unexpected order: %v", prices)
	}

	desc := Apply(products, nil, Filter{SortBy: SortPrice, SortOrder: OrderDesc})
	if desc.Products[0].Price != 30 {
		t.Fatalf("expected 30 first, got %f", desc.Products[0].Price)
	}
}
