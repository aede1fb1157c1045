package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Afzalsd/Ecom-SAAS/internal/domain/product"
	"github.com/google/uuid"
)

type ProductsRepo struct {
	mu    sync.RWMutex
	items map[string]product.Product
	skus  map[string]string // sku -> id
}

func NewProductsRepo() *ProductsRepo {
	return &ProductsRepo{
		items: make(map[string]product.Product),
		skus:  make(map[string]string),
	}
}

func (r *ProductsRepo) Create(_ context.Context, userID string, req product.CreateProductRequest) (product.Product, error) {
	now := time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.skus[req.SKU]; exists {
		return product.Product{}, product.ErrSKUTaken
	}

	p := product.Product{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Discount:        req.Discount,
		CountInStock:    req.CountInStock,
		SKU:             req.SKU,
		Category:        req.Category,
		Brand:           req.Brand,
		Sizes:           req.Sizes,
		Colors:          req.Colors,
		Collection:      req.Collection,
		Material:        req.Material,
		Gender:          req.Gender,
		Images:          req.Images,
		IsFeatured:      req.IsFeatured,
		IsPublished:     req.IsPublished,
		Tags:            req.Tags,
		UserID:          userID,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
		Dimensions:      req.Dimensions,
		Weight:          req.Weight,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	r.items[p.ID] = p
	r.skus[p.SKU] = p.ID

	return p, nil
}

func (r *ProductsRepo) GetByID(_ context.Context, id string) (product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return product.Product{}, product.ErrNotFound
	}

	return p, nil
}

func (r *ProductsRepo) List(_ context.Context, filter product.ListFilter) ([]product.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]product.Product, 0, len(r.items))

	for _, p := range r.items {
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		if filter.Brand != nil && p.Brand != *filter.Brand {
			continue
		}
		if filter.Gender != nil && p.Gender != *filter.Gender {
			continue
		}
		if filter.Collection != nil && p.Collection != *filter.Collection {
			continue
		}
		if filter.Published != nil && p.IsPublished != *filter.Published {
			continue
		}
		matched = append(matched, p)
	}

	// newest first, same ordering the SQL repo uses
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)

	if filter.Offset >= len(matched) {
		return []product.Product{}, total, nil
	}

	matched = matched[filter.Offset:]

	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	return matched, total, nil
}

func (r *ProductsRepo) Update(_ context.Context, id string, req product.UpdateProductRequest) (product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return product.Product{}, product.ErrNotFound
	}

	if other, exists := r.skus[req.SKU]; exists && other != id {
		return product.Product{}, product.ErrSKUTaken
	}

	delete(r.skus, p.SKU)

	p.Name = req.Name
	p.Description = req.Description
	p.Price = req.Price
	p.Discount = req.Discount
	p.CountInStock = req.CountInStock
	p.SKU = req.SKU
	p.Category = req.Category
	p.Brand = req.Brand
	p.Sizes = req.Sizes
	p.Colors = req.Colors
	p.Collection = req.Collection
	p.Material = req.Material
	p.Gender = req.Gender
	p.Images = req.Images
	p.IsFeatured = req.IsFeatured
	p.IsPublished = req.IsPublished
	p.Tags = req.Tags
	p.MetaTitle = req.MetaTitle
	p.MetaDescription = req.MetaDescription
	p.MetaKeywords = req.MetaKeywords
	p.Dimensions = req.Dimensions
	p.Weight = req.Weight
	p.UpdatedAt = time.Now().UTC()

	r.items[id] = p
	r.skus[p.SKU] = id

	return p, nil
}

func (r *ProductsRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return product.ErrNotFound
	}

	delete(r.items, id)
	delete(r.skus, p.SKU)

	return nil
}
