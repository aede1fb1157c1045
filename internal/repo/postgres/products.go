package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Afzalsd/Ecom-SAAS/internal/domain/product"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductsRepo struct {
	pool *pgxpool.Pool
}

func NewProductsRepo(pool *pgxpool.Pool) *ProductsRepo {
	return &ProductsRepo{pool: pool}
}

const productColumns = `id, name, description, price, discount, count_in_stock, sku,
	category, brand, sizes, colors, collection, material, gender, images,
	is_featured, is_published, rating, num_reviews, tags, user_id,
	meta_title, meta_description, meta_keywords, dimensions, weight,
	created_at, updated_at`

func scanProduct(row pgx.Row) (product.Product, error) {
	var p product.Product

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Discount, &p.CountInStock, &p.SKU,
		&p.Category, &p.Brand, &p.Sizes, &p.Colors, &p.Collection, &p.Material, &p.Gender, &p.Images,
		&p.IsFeatured, &p.IsPublished, &p.Rating, &p.NumReviews, &p.Tags, &p.UserID,
		&p.MetaTitle, &p.MetaDescription, &p.MetaKeywords, &p.Dimensions, &p.Weight,
		&p.CreatedAt, &p.UpdatedAt,
	)

	return p, err
}

func (r *ProductsRepo) Create(ctx context.Context, userID string, req product.CreateProductRequest) (product.Product, error) {
	now := time.Now().UTC()

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

	_, err := r.pool.Exec(ctx,
		`INSERT INTO products (`+productColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28)`,
		p.ID, p.Name, p.Description, p.Price, p.Discount, p.CountInStock, p.SKU,
		p.Category, p.Brand, p.Sizes, p.Colors, p.Collection, p.Material, p.Gender, p.Images,
		p.IsFeatured, p.IsPublished, p.Rating, p.NumReviews, p.Tags, p.UserID,
		p.MetaTitle, p.MetaDescription, p.MetaKeywords, p.Dimensions, p.Weight,
		p.CreatedAt, p.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			return product.Product{}, product.ErrSKUTaken
		}

		return product.Product{}, err
	}

	return p, nil
}

func (r *ProductsRepo) GetByID(ctx context.Context, id string) (product.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, product.ErrNotFound
		}

		return product.Product{}, err
	}

	return p, nil
}

func (r *ProductsRepo) List(ctx context.Context, filter product.ListFilter) ([]product.Product, int, error) {
	baseQuery := `SELECT ` + productColumns + `, COUNT(*) OVER() AS total FROM products`

	var conds []string
	var args []interface{}

	argsPosition := 1

	if filter.Category != nil {
		conds = append(conds, fmt.Sprintf("category = $%d", argsPosition))
		args = append(args, *filter.Category)
		argsPosition++
	}

	if filter.Brand != nil {
		conds = append(conds, fmt.Sprintf("brand = $%d", argsPosition))
		args = append(args, *filter.Brand)
		argsPosition++
	}

	if filter.Gender != nil {
		conds = append(conds, fmt.Sprintf("gender = $%d", argsPosition))
		args = append(args, *filter.Gender)
		argsPosition++
	}

	if filter.Collection != nil {
		conds = append(conds, fmt.Sprintf("collection = $%d", argsPosition))
		args = append(args, *filter.Collection)
		argsPosition++
	}

	if filter.Published != nil {
		conds = append(conds, fmt.Sprintf("is_published = $%d", argsPosition))
		args = append(args, *filter.Published)
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// stable ordering for pagination
	query += fmt.Sprintf(" ORDER BY created_at DESC, id ASC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)

	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	output := make([]product.Product, 0, filter.Limit)
	total := 0

	for rows.Next() {
		var p product.Product
		var t int

		err = rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Discount, &p.CountInStock, &p.SKU,
			&p.Category, &p.Brand, &p.Sizes, &p.Colors, &p.Collection, &p.Material, &p.Gender, &p.Images,
			&p.IsFeatured, &p.IsPublished, &p.Rating, &p.NumReviews, &p.Tags, &p.UserID,
			&p.MetaTitle, &p.MetaDescription, &p.MetaKeywords, &p.Dimensions, &p.Weight,
			&p.CreatedAt, &p.UpdatedAt, &t,
		)

		if err != nil {
			return nil, 0, err
		}

		total = t
		output = append(output, p)
	}

	err = rows.Err()

	if err != nil {
		return nil, 0, err
	}

	return output, total, nil
}

func (r *ProductsRepo) Update(ctx context.Context, id string, req product.UpdateProductRequest) (product.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`UPDATE products SET
			name = $2,
			description = $3,
			price = $4,
			discount = $5,
			count_in_stock = $6,
			sku = $7,
			category = $8,
			brand = $9,
			sizes = $10,
			colors = $11,
			collection = $12,
			material = $13,
			gender = $14,
			images = $15,
			is_featured = $16,
			is_published = $17,
			tags = $18,
			meta_title = $19,
			meta_description = $20,
			meta_keywords = $21,
			dimensions = $22,
			weight = $23,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns,
		id,
		req.Name, req.Description, req.Price, req.Discount, req.CountInStock, req.SKU,
		req.Category, req.Brand, req.Sizes, req.Colors, req.Collection, req.Material, req.Gender,
		req.Images, req.IsFeatured, req.IsPublished, req.Tags,
		req.MetaTitle, req.MetaDescription, req.MetaKeywords, req.Dimensions, req.Weight,
	))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, product.ErrNotFound
		}

		if IsUniqueViolation(err) {
			return product.Product{}, product.ErrSKUTaken
		}

		return product.Product{}, err
	}

	return p, nil
}

func (r *ProductsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)

	if err != nil {
		return err
	}

	// if no rows were deleted the id did not exist
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}

	return nil
}
