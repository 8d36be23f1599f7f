package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"livemart/internal/catalog"
	"livemart/internal/middleware"
	"livemart/internal/models"
	"livemart/internal/store"
)

func GetProducts(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "GET /products")

		filter, err := buildCatalogFilter(c)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "GET /products", err.Error())
			return
		}

		products, err := st.ListProducts(c.Request.Context(), store.ProductQuery{Status: models.ProductActive})
		if err != nil {
			respondDomainError(c, "GET /products", err)
			return
		}

		var sellerCoords map[primitive.ObjectID]models.Coordinates
		if filter.Geo != nil {
			sellerCoords, err = sellerCoordinates(c.Request.Context(), st)
			if err != nil {
				respondDomainError(c, "GET /products", err)
				return
			}
		}

		page := catalog.Apply(products, sellerCoords, filter)
		c.JSON(http.StatusOK, gin.H{
			"products": page.Products,
			"pagination": gin.H{
				"page":  page.Page,
				"limit": page.PageSize,
				"total": page.Total,
				"pages": page.Pages,
			},
		})
	}
}

// SearchProducts is the catalog listing with a mandatory search term.
func SearchProducts(st store.Store) gin.HandlerFunc {
	list := GetProducts(st)
	return func(c *gin.Context) {
		if strings.TrimSpace(c.Query("q")) == "" && strings.TrimSpace(c.Query("search")) == "" {
			respondWithError(c, http.StatusBadRequest, "GET /products/search", "missing search term")
			return
		}
		list(c)
	}
}

func GetProduct(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "GET /products/:id")

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "GET /products/:id", "invalid product id")
			return
		}

		product, err := st.GetProduct(c.Request.Context(), id)
		if err != nil {
			respondDomainError(c, "GET /products/:id", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}

type createProductRequest struct {
	Name             string   `json:"name" binding:"required"`
	Description      string   `json:"description" binding:"required"`
	Category         string   `json:"category" binding:"required"`
	Subcategory      string   `json:"subcategory"`
	Images           []string `json:"images"`
	Price            float64  `json:"price" binding:"required,gt=0"`
	Stock            int      `json:"stock" binding:"min=0"`
	MinOrderQuantity int      `json:"minOrderQuantity" binding:"omitempty,min=1"`
	IsProxy          bool     `json:"isProxy"`
	ProxySource      string   `json:"proxySource" binding:"omitempty,objectid"`
	Tags             []string `json:"tags"`
}

func CreateProduct(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "POST /products")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "POST /products", "unauthorized")
			return
		}
		if principal.Role != models.RoleRetailer && principal.Role != models.RoleWholesaler {
			respondWithError(c, http.StatusForbidden, "POST /products", "only retailers and wholesalers can list products")
			return
		}

		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "POST /products", "invalid request: "+err.Error())
			return
		}

		var proxySource *primitive.ObjectID
		if req.ProxySource != "" {
			if !req.IsProxy {
				respondWithError(c, http.StatusBadRequest, "POST /products", "proxySource requires isProxy")
				return
			}
			source, err := primitive.ObjectIDFromHex(req.ProxySource)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, "POST /products", "invalid proxySource")
				return
			}
			proxySource = &source
		}

		now := time.Now()
		product := &models.Product{
			Name:             req.Name,
			Description:      req.Description,
			Category:         req.Category,
			Subcategory:      req.Subcategory,
			Images:           req.Images,
			Price:            req.Price,
			Stock:            req.Stock,
			MinOrderQuantity: req.MinOrderQuantity,
			Seller:           principal.ID,
			SellerType:       principal.Role,
			IsProxy:          req.IsProxy,
			ProxySource:      proxySource,
			Status:           models.ProductActive,
			Tags:             req.Tags,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		if err := st.CreateProduct(c.Request.Context(), product); err != nil {
			respondDomainError(c, "POST /products", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"product": product})
	}
}

// updateProductRequest uses pointer fields so absent keys leave the stored
// value untouched.
type updateProductRequest struct {
	Name             *string   `json:"name"`
	Description      *string   `json:"description"`
	Category         *string   `json:"category"`
	Subcategory      *string   `json:"subcategory"`
	Images           *[]string `json:"images"`
	Price            *float64  `json:"price"`
	Stock            *int      `json:"stock"`
	MinOrderQuantity *int      `json:"minOrderQuantity"`
	Status           *string   `json:"status" binding:"omitempty,oneof=active inactive out_of_stock"`
	Tags             *[]string `json:"tags"`
}

func UpdateProduct(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "PUT /products/:id")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "PUT /products/:id", "unauthorized")
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "PUT /products/:id", "invalid product id")
			return
		}

		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "PUT /products/:id", "invalid request: "+err.Error())
			return
		}

		product, err := st.GetProduct(c.Request.Context(), id)
		if err != nil {
			respondDomainError(c, "PUT /products/:id", err)
			return
		}
		if product.Seller != principal.ID {
			respondWithError(c, http.StatusForbidden, "PUT /products/:id", "access denied")
			return
		}

		if req.Name != nil {
			product.Name = *req.Name
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.Category != nil {
			product.Category = *req.Category
		}
		if req.Subcategory != nil {
			product.Subcategory = *req.Subcategory
		}
		if req.Images != nil {
			product.Images = *req.Images
		}
		if req.Price != nil {
			if *req.Price <= 0 {
				respondWithError(c, http.StatusBadRequest, "PUT /products/:id", "price must be positive")
				return
			}
			product.Price = *req.Price
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				respondWithError(c, http.StatusBadRequest, "PUT /products/:id", "stock cannot be negative")
				return
			}
			product.Stock = *req.Stock
		}
		if req.MinOrderQuantity != nil {
			if *req.MinOrderQuantity < 1 {
				respondWithError(c, http.StatusBadRequest, "PUT /products/:id", "minOrderQuantity must be at least 1")
				return
			}
			product.MinOrderQuantity = *req.MinOrderQuantity
		}
		if req.Status != nil {
			product.Status = *req.Status
		}
		if req.Tags != nil {
			product.Tags = *req.Tags
		}
		product.UpdatedAt = time.Now()

		if err := st.UpdateProduct(c.Request.Context(), product); err != nil {
			respondDomainError(c, "PUT /products/:id", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}

func DeleteProduct(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer handlePanic(c, "DELETE /products/:id")

		principal, ok := middleware.PrincipalFrom(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, "DELETE /products/:id", "unauthorized")
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, "DELETE /products/:id", "invalid product id")
			return
		}

		product, err := st.GetProduct(c.Request.Context(), id)
		if err != nil {
			respondDomainError(c, "DELETE /products/:id", err)
			return
		}
		if product.Seller != principal.ID {
			respondWithError(c, http.StatusForbidden, "DELETE /products/:id", "access denied")
			return
		}

		if err := st.DeleteProduct(c.Request.Context(), id); err != nil {
			respondDomainError(c, "DELETE /products/:id", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

func buildCatalogFilter(c *gin.Context) (catalog.Filter, error) {
	page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
	if err != nil {
		return catalog.Filter{}, err
	}

	search := c.Query("search")
	if search == "" {
		search = c.Query("q")
	}

	filter := catalog.Filter{
		Category:    c.Query("category"),
		Search:      search,
		SellerType:  c.Query("sellerType"),
		InStockOnly: c.Query("inStock") == "true",
		SortBy:      c.DefaultQuery("sortBy", catalog.SortCreatedAt),
		SortOrder:   c.DefaultQuery("sortOrder", catalog.OrderDesc),
		Page:        page,
		PageSize:    limit,
	}

	if filter.MinPrice, err = parseFloatParam(c.Query("minPrice")); err != nil {
		return catalog.Filter{}, err
	}
	if filter.MaxPrice, err = parseFloatParam(c.Query("maxPrice")); err != nil {
		return catalog.Filter{}, err
	}

	if sellerStr := c.Query("seller"); sellerStr != "" {
		seller, err := primitive.ObjectIDFromHex(sellerStr)
		if err != nil {
			return catalog.Filter{}, err
		}
		filter.Seller = &seller
	}

	lat, err := parseFloatParam(c.Query("lat"))
	if err != nil {
		return catalog.Filter{}, err
	}
	lng, err := parseFloatParam(c.Query("lng"))
	if err != nil {
		return catalog.Filter{}, err
	}
	radius, err := parseFloatParam(c.Query("maxDistance"))
	if err != nil {
		return catalog.Filter{}, err
	}

	if lat != nil && lng != nil && radius != nil {
		filter.Geo = &catalog.GeoFilter{Lat: *lat, Lng: *lng, RadiusKm: *radius}
	}

	return filter, nil
}

func sellerCoordinates(ctx context.Context, st store.Store) (map[primitive.ObjectID]models.Coordinates, error) {
	sellers, err := st.ListSellers(ctx)
	if err != nil {
		return nil, err
	}

	coords := make(map[primitive.ObjectID]models.Coordinates, len(sellers))
	for _, seller := range sellers {
		if seller.Location != nil && seller.Location.Coordinates != nil {
			coords[seller.ID] = *seller.Location.Coordinates
		}
	}
	return coords, nil
}
