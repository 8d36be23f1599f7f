// Package catalog applies discovery filters over candidate products. The
// store hands over the coarse candidate set; everything here is pure and
// in-memory, which keeps geo filtering ahead of pagination math.
package catalog

import (
	"math"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"livemart/internal/geo"
	"livemart/internal/models"
)

const defaultPageSize = 20

// Sort fields and directions accepted by the catalog.
const (
	SortCreatedAt = "createdAt"
	SortPrice     = "price"
	SortName      = "name"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// GeoFilter restricts products to sellers within RadiusKm of the origin.
type GeoFilter struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

type Filter struct {
	Category    string
	Search      string
	MinPrice    *float64
	MaxPrice    *float64
	InStockOnly bool
	Seller      *primitive.ObjectID
	SellerType  string
	Geo         *GeoFilter
	SortBy      string
	SortOrder   string
	Page        int
	PageSize    int
}

// Page is one slice of the filtered catalog. Total and Pages count all
// matches after every filter, including geo, has been applied.
type Page struct {
	Products []models.Product `json:"products"`
	Page     int              `json:"page"`
	PageSize int              `json:"limit"`
	Total    int              `json:"total"`
	Pages    int              `json:"pages"`
}

// Apply runs the full filter pipeline: eligibility, field filters, geo,
// sort, then pagination. sellerCoords maps seller ids to their shop
// coordinates; sellers missing from the map are excluded by the geo filter.
func Apply(products []models.Product, sellerCoords map[primitive.ObjectID]models.Coordinates, f Filter) Page {
	matched := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !matches(p, f) {
			continue
		}
		if f.Geo != nil {
			coords, ok := sellerCoords[p.Seller]
			if !ok {
				continue
			}
			distance := geo.DistanceKm(f.Geo.Lat, f.Geo.Lng, coords.Lat, coords.Lng)
			if distance > f.Geo.RadiusKm {
				continue
			}
		}
		matched = append(matched, p)
	}

	sortProducts(matched, f.SortBy, f.SortOrder)

	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	total := len(matched)
	pages := 0
	if total > 0 {
		pages = int(math.Ceil(float64(total) / float64(pageSize)))
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Products: matched[start:end],
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Pages:    pages,
	}
}

func matches(p models.Product, f Filter) bool {
	if p.Status != models.ProductActive {
		return false
	}
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.Search != "" && !matchesSearch(p, f.Search) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.InStockOnly && p.Stock <= 0 {
		return false
	}
	if f.Seller != nil && p.Seller != *f.Seller {
		return false
	}
	if f.SellerType != "" && !strings.EqualFold(p.SellerType, f.SellerType) {
		return false
	}
	return true
}

// matchesSearch implements case-insensitive match-any-term semantics over
// name, description and tags.
func matchesSearch(p models.Product, search string) bool {
	terms := strings.Fields(strings.ToLower(search))
	if len(terms) == 0 {
		return true
	}

	name := strings.ToLower(p.Name)
	description := strings.ToLower(p.Description)

	for _, term := range terms {
		if strings.Contains(name, term) || strings.Contains(description, term) {
			return true
		}
		for _, tag := range p.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				return true
			}
		}
	}
	return false
}

func sortProducts(products []models.Product, sortBy, order string) {
	asc := order == OrderAsc

	var less func(a, b models.Product) bool
	switch sortBy {
	case SortPrice:
		less = func(a, b models.Product) bool { return a.Price < b.Price }
	case SortName:
		less = func(a, b models.Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		less = func(a, b models.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}

	sort.SliceStable(products, func(i, j int) bool {
		if asc {
			return less(products[i], products[j])
		}
		return less(products[j], products[i])
	})
}
