package product

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("product not found")
	ErrSKUTaken = errors.New("sku already in use")
)

type Image struct {
	URL     string `json:"url" binding:"required,url"`
	AltText string `json:"altText" binding:"omitempty,max=200"`
}

type Dimensions struct {
	Length float64 `json:"length" binding:"omitempty,gte=0"`
	Width  float64 `json:"width" binding:"omitempty,gte=0"`
	Height float64 `json:"height" binding:"omitempty,gte=0"`
}

type Product struct {
	ID              string     `json:"_id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Price           float64    `json:"price"`
	Discount        float64    `json:"discount,omitempty"`
	CountInStock    int        `json:"countInStock"`
	SKU             string     `json:"sku"`
	Category        string     `json:"category"`
	Brand           string     `json:"brand,omitempty"`
	Sizes           []string   `json:"sizes"`
	Colors          []string   `json:"colors"`
	Collection      string     `json:"collections"`
	Material        string     `json:"material,omitempty"`
	Gender          string     `json:"gender,omitempty"`
	Images          []Image    `json:"images"`
	IsFeatured      bool       `json:"isFeatured"`
	IsPublished     bool       `json:"isPublished"`
	Rating          float64    `json:"rating"`
	NumReviews      int        `json:"numReviews"`
	Tags            []string   `json:"tags,omitempty"`
	UserID          string     `json:"user"`
	MetaTitle       string     `json:"metaTitle,omitempty"`
	MetaDescription string     `json:"metaDescription,omitempty"`
	MetaKeywords    string     `json:"metaKeywords,omitempty"`
	Dimensions      Dimensions `json:"dimensions"`
	Weight          float64    `json:"weight,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type CreateProductRequest struct {
	Name            string     `json:"name" binding:"required,min=2,max=200"`
	Description     string     `json:"description" binding:"required,max=5000"`
	Price           float64    `json:"price" binding:"required,gt=0"`
	Discount        float64    `json:"discount" binding:"omitempty,gte=0"`
	CountInStock    int        `json:"countInStock" binding:"gte=0"`
	SKU             string     `json:"sku" binding:"required,min=2,max=64"`
	Category        string     `json:"category" binding:"required,max=100"`
	Brand           string     `json:"brand" binding:"omitempty,max=100"`
	Sizes           []string   `json:"sizes" binding:"required,min=1,dive,min=1"`
	Colors          []string   `json:"colors" binding:"required,min=1,dive,min=1"`
	Collection      string     `json:"collections" binding:"required,max=100"`
	Material        string     `json:"material" binding:"omitempty,max=100"`
	Gender          string     `json:"gender" binding:"omitempty"`
	Images          []Image    `json:"images" binding:"omitempty,dive"`
	IsFeatured      bool       `json:"isFeatured"`
	IsPublished     bool       `json:"isPublished"`
	Tags            []string   `json:"tags" binding:"omitempty,dive,min=1"`
	MetaTitle       string     `json:"metaTitle" binding:"omitempty,max=200"`
	MetaDescription string     `json:"metaDescription" binding:"omitempty,max=500"`
	MetaKeywords    string     `json:"metaKeywords" binding:"omitempty,max=500"`
	Dimensions      Dimensions `json:"dimensions"`
	Weight          float64    `json:"weight" binding:"omitempty,gte=0"`
}

// Full-payload update, same shape and rules as create.
type UpdateProductRequest = CreateProductRequest

// ListFilter holds optional catalog filters; nil means not filtered.
type ListFilter struct {
	Category   *string
	Brand      *string
	Gender     *string
	Collection *string
	Published  *bool
	Limit      int
	Offset     int
}
