package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Afzalsd/Ecom-SAAS/internal/cache"
	"github.com/Afzalsd/Ecom-SAAS/internal/config"
	"github.com/Afzalsd/Ecom-SAAS/internal/domain/product"
	"github.com/Afzalsd/Ecom-SAAS/internal/domain/user"
	"github.com/Afzalsd/Ecom-SAAS/internal/http/middlewares"
	"github.com/Afzalsd/Ecom-SAAS/internal/observability"
	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ProductStore is the catalog contract the handlers need.
type ProductStore interface {
	Create(ctx context.Context, userID string, req product.CreateProductRequest) (product.Product, error)
	GetByID(ctx context.Context, id string) (product.Product, error)
	List(ctx context.Context, filter product.ListFilter) ([]product.Product, int, error)
	Update(ctx context.Context, id string, req product.UpdateProductRequest) (product.Product, error)
	Delete(ctx context.Context, id string) error
}

type ProductsHandler struct {
	store ProductStore
	cache *cache.ProductCache
	prom  *observability.Prom
	log   *slog.Logger
}

func NewProductsHandler(store ProductStore, productCache *cache.ProductCache, prom *observability.Prom, log *slog.Logger) *ProductsHandler {
	return &ProductsHandler{
		store: store,
		cache: productCache,
		prom:  prom,
		log:   log,
	}
}

type listResponse struct {
	Products []product.Product `json:"products"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

func (h *ProductsHandler) CreateProduct(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	var req product.CreateProductRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		RespondBadRequest(ctx, "Invalid product", gin.H{"fields": fieldErrs})
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	p, err := h.store.Create(cctx, userID, req)

	if err != nil {
		if errors.Is(err, product.ErrSKUTaken) {
			RespondError(ctx, http.StatusBadRequest, "sku_taken", "Product with this SKU already exists", nil)
			return
		}

		h.log.Error("create product", "err", err)
		RespondInternal(ctx, "Could not create product")
		return
	}

	h.invalidate(cctx, p.ID)

	ctx.JSON(http.StatusCreated, p)
}

func (h *ProductsHandler) GetProductByID(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	key := cache.ProductKey(id)

	var cached product.Product
	if h.cache.GetJSON(cctx, key, &cached) {
		h.countCache("item", true)
		RespondJSONWithETag(ctx, http.StatusOK, cached)
		return
	}
	h.countCache("item", false)

	p, err := h.store.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			RespondNotFound(ctx, "Product not found")
			return
		}

		h.log.Error("get product", "err", err, "id", id)
		RespondInternal(ctx, "Could not fetch product")
		return
	}

	h.cache.SetJSON(cctx, key, p)

	RespondJSONWithETag(ctx, http.StatusOK, p)
}

func (h *ProductsHandler) ListProducts(ctx *gin.Context) {
	filter, fieldErrs := parseListFilter(ctx)

	if len(fieldErrs) > 0 {
		RespondBadRequest(ctx, "Invalid list filters", gin.H{"fields": fieldErrs})
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	key := cache.ProductListKey(h.cache.ListVersion(cctx), filter)

	var cached listResponse
	if h.cache.GetJSON(cctx, key, &cached) {
		h.countCache("list", true)
		RespondJSONWithETag(ctx, http.StatusOK, cached)
		return
	}
	h.countCache("list", false)

	products, total, err := h.store.List(cctx, filter)

	if err != nil {
		h.log.Error("list products", "err", err)
		RespondInternal(ctx, "Could not list products")
		return
	}

	resp := listResponse{
		Products: products,
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}

	h.cache.SetJSON(cctx, key, resp)

	RespondJSONWithETag(ctx, http.StatusOK, resp)
}

func (h *ProductsHandler) UpdateProduct(ctx *gin.Context) {
	id := ctx.Param("id")

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	var req product.UpdateProductRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		RespondBadRequest(ctx, "Invalid product", gin.H{"fields": fieldErrs})
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	existing, err := h.store.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			RespondNotFound(ctx, "Product not found")
			return
		}

		h.log.Error("load product for update", "err", err, "id", id)
		RespondInternal(ctx, "Could not update product")
		return
	}

	// owner or admin only
	role, _ := middlewares.RoleFromContext(ctx)
	if existing.UserID != userID && role != user.RoleAdmin {
		RespondForbidden(ctx, "Not allowed to modify this product")
		return
	}

	p, err := h.store.Update(cctx, id, req)

	if err != nil {
		switch {
		case errors.Is(err, product.ErrNotFound):
			RespondNotFound(ctx, "Product not found")
		case errors.Is(err, product.ErrSKUTaken):
			RespondError(ctx, http.StatusBadRequest, "sku_taken", "Product with this SKU already exists", nil)
		default:
			h.log.Error("update product", "err", err, "id", id)
			RespondInternal(ctx, "Could not update product")
		}
		return
	}

	h.invalidate(cctx, id)

	ctx.JSON(http.StatusOK, p)
}

func (h *ProductsHandler) DeleteProduct(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.store.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			RespondNotFound(ctx, "Product not found")
			return
		}

		h.log.Error("delete product", "err", err, "id", id)
		RespondInternal(ctx, "Could not delete product")
		return
	}

	h.invalidate(cctx, id)

	ctx.Status(http.StatusNoContent)
}

func (h *ProductsHandler) invalidate(ctx context.Context, id string) {
	h.cache.Delete(ctx, cache.ProductKey(id))
	h.cache.BumpListVersion(ctx)
}

func (h *ProductsHandler) countCache(kind string, hit bool) {
	if h.prom == nil {
		return
	}

	if hit {
		h.prom.CacheHits.WithLabelValues(kind).Inc()
		return
	}

	h.prom.CacheMisses.WithLabelValues(kind).Inc()
}

func parseListFilter(ctx *gin.Context) (product.ListFilter, []FieldError) {
	var fieldErrs []FieldError

	filter := product.ListFilter{
		Limit: defaultListLimit,
	}

	strParam := func(name string) *string {
		if v, ok := ctx.GetQuery(name); ok && v != "" {
			return &v
		}
		return nil
	}

	filter.Category = strParam("category")
	filter.Brand = strParam("brand")
	filter.Collection = strParam("collections")

	if g := strParam("gender"); g != nil {
		normalized, ok := product.NormalizeGender(*g)
		if !ok {
			fieldErrs = append(fieldErrs, FieldError{
				Field:   "gender",
				Rule:    "oneof",
				Message: "must be one of men, women, unisex",
			})
		} else {
			filter.Gender = &normalized
		}
	}

	if v, ok := ctx.GetQuery("published"); ok && v != "" {
		published, err := strconv.ParseBool(v)
		if err != nil {
			fieldErrs = append(fieldErrs, FieldError{Field: "published", Rule: "boolean"})
		} else {
			filter.Published = &published
		}
	}

	if v, ok := ctx.GetQuery("limit"); ok && v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxListLimit {
			fieldErrs = append(fieldErrs, FieldError{
				Field:   "limit",
				Rule:    "range",
				Message: "must be between 1 and " + strconv.Itoa(maxListLimit),
			})
		} else {
			filter.Limit = limit
		}
	}

	if v, ok := ctx.GetQuery("offset"); ok && v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			fieldErrs = append(fieldErrs, FieldError{Field: "offset", Rule: "gte", Param: "0"})
		} else {
			filter.Offset = offset
		}
	}

	return filter, fieldErrs
}
