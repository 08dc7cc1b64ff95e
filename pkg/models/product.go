package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the catalog read model. The cart and order components treat it
// as immutable reference data: they copy fields out of it but never write it.
type Product struct {
	ID            string    `bson:"_id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Brand         string    `bson:"brand" json:"brand"`
	Price         float64   `bson:"price" json:"price"`
	OriginalPrice float64   `bson:"original_price,omitempty" json:"original_price,omitempty"`
	Rating        float64   `bson:"rating" json:"rating"`
	ReviewCount   int       `bson:"review_count" json:"review_count"`
	Category      string    `bson:"category" json:"category"`
	Tags          []string  `bson:"tags" json:"tags"`
	Image         string    `bson:"image" json:"image"`
	Images        []string  `bson:"images" json:"images"`
	Description   string    `bson:"description" json:"description"`
	Features      []string  `bson:"features" json:"features"`
	InStock       bool      `bson:"in_stock" json:"in_stock"`
	Popularity    int       `bson:"popularity" json:"popularity"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

func (p *Product) SetTimestamps() {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// CreateProductRequest represents the request payload for loading catalog items
type CreateProductRequest struct {
	ID            string   `json:"id"`
	Name          string   `json:"name" binding:"required"`
	Brand         string   `json:"brand" binding:"required"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	OriginalPrice float64  `json:"original_price"`
	Category      string   `json:"category" binding:"required"`
	Tags          []string `json:"tags"`
	Image         string   `json:"image"`
	Images        []string `json:"images"`
	Description   string   `json:"description"`
	Features      []string `json:"features"`
	InStock       bool     `json:"in_stock"`
	Popularity    int      `json:"popularity"`
}

func (req *CreateProductRequest) ToProduct() *Product {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	product := &Product{
		ID:            id,
		Name:          req.Name,
		Brand:         req.Brand,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Category:      req.Category,
		Tags:          req.Tags,
		Image:         req.Image,
		Images:        req.Images,
		Description:   req.Description,
		Features:      req.Features,
		InStock:       req.InStock,
		Popularity:    req.Popularity,
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	product.SetTimestamps()
	return product
}
