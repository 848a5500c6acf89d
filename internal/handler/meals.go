package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mealcatalog/internal/config"
	"mealcatalog/internal/model"
	"mealcatalog/internal/service"
)

// MealHandler serves stateless catalog views
type MealHandler struct {
	catalog *service.CatalogService
	limits  config.SearchConfig
}

// NewMealHandler creates a new meal handler
func NewMealHandler(catalogService *service.CatalogService, limits config.SearchConfig) *MealHandler {
	return &MealHandler{
		catalog: catalogService,
		limits:  limits,
	}
}

// List handles GET /api/v1/meals
func (h *MealHandler) List(c *gin.Context) {
	f, err := filtersFromQuery(c)
	if err != nil {
		respondErr(c, err)
		return
	}

	pages, err := intQuery(c, "pages")
	if err != nil {
		respondErr(c, err)
		return
	}
	pageSize, err := intQuery(c, "pageSize")
	if err != nil {
		respondErr(c, err)
		return
	}
	p, size := clampWindow(h.limits, pages, pageSize)

	view, err := h.catalog.View(f, p, size)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "", view)
}

// Get handles GET /api/v1/meals/:id
func (h *MealHandler) Get(c *gin.Context) {
	meal, err := h.catalog.GetMeal(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "", meal)
}

// Metadata handles GET /api/v1/meals/filters/metadata
func (h *MealHandler) Metadata(c *gin.Context) {
	respondOK(c, "", h.catalog.Metadata())
}

// Refresh handles POST /api/v1/catalog/refresh
func (h *MealHandler) Refresh(c *gin.Context) {
	start := time.Now()
	n, err := h.catalog.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusBadGateway, err.Error())
		return
	}
	respondOK(c, "Catalog refreshed", model.RefreshResponse{
		Meals: n,
		Took:  time.Since(start).Milliseconds(),
	})
}

// filtersFromQuery reads a FilterState from the storefront's query params
func filtersFromQuery(c *gin.Context) (model.FilterState, error) {
	f := model.DefaultFilterState()
	f.SearchTerm = c.Query("q")

	if category := c.Query("category"); category != "" {
		f.Category = &category
	}

	var err error
	if f.PriceRange.Min, err = floatQuery(c, "minPrice"); err != nil {
		return f, err
	}
	if f.PriceRange.Max, err = floatQuery(c, "maxPrice"); err != nil {
		return f, err
	}
	if f.RatingFloor, err = floatQuery(c, "rating"); err != nil {
		return f, err
	}
	if f.DeliveryCeiling, err = intPtrQuery(c, "delivery"); err != nil {
		return f, err
	}
	if f.ExperienceFloor, err = intPtrQuery(c, "experience"); err != nil {
		return f, err
	}

	if s := c.Query("sortBy"); s != "" {
		if f.SortKey, err = model.ParseSortKey(s); err != nil {
			return f, err
		}
	}
	if s := c.Query("sortOrder"); s != "" {
		if f.SortDirection, err = model.ParseSortDirection(s); err != nil {
			return f, err
		}
	}
	return f, nil
}

func floatQuery(c *gin.Context, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", model.ErrInvalidFilter, key)
	}
	return &v, nil
}

func intPtrQuery(c *gin.Context, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", model.ErrInvalidFilter, key)
	}
	return &v, nil
}

func intQuery(c *gin.Context, key string) (int, error) {
	v, err := intPtrQuery(c, key)
	if err != nil || v == nil {
		return 0, err
	}
	return *v, nil
}

// clampWindow applies the configured defaults and caps to a requested window
func clampWindow(limits config.SearchConfig, pages, pageSize int) (int, int) {
	if pages <= 0 {
		pages = 1
	}
	if pageSize <= 0 {
		pageSize = limits.DefaultPageSize
	}
	if limits.MaxPageSize > 0 && pageSize > limits.MaxPageSize {
		pageSize = limits.MaxPageSize
	}
	if limits.MaxPages > 0 && pages > limits.MaxPages {
		pages = limits.MaxPages
	}
	return pages, pageSize
}
