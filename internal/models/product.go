package models

import "time"

// Category is a product category as published by the catalog API.
type Category struct {
	ID    int    `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Slug  string `json:"slug,omitempty" bson:"slug,omitempty"`
	Image string `json:"image,omitempty" bson:"image,omitempty"`
}

// Product represents a product in the catalog. Values are treated as
// read-only once fetched.
type Product struct {
	ID          int        `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Slug        string     `json:"slug,omitempty" bson:"slug,omitempty"`
	Description string     `json:"description" bson:"description"`
	Price       float64    `json:"price" bson:"price"`
	Category    Category   `json:"category" bson:"category"`
	Images      []string   `json:"images" bson:"images"`
	CreatedAt   *time.Time `json:"creationAt,omitempty" bson:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
}
