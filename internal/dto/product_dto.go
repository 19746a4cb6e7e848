package dto

import "io"

type CreateProductInput struct {
	Name        string `json:"name" form:"name" binding:"required,max=100"`
	Description string `json:"description" form:"description"`
	Price       int    `json:"price" form:"price" binding:"required,gt=0"`
	Category    string `json:"category" form:"category" binding:"max=50"`
	Stock       int    `json:"stock" form:"stock" binding:"gte=0"`
}

type UpdateProductInput struct {
	Name        *string `json:"name" form:"name"`
	Description *string `json:"description" form:"description"`
	Price       *int    `json:"price" form:"price" binding:"omitempty,gt=0"`
	Category    *string `json:"category" form:"category"`
	Stock       *int    `json:"stock" form:"stock" binding:"omitempty,gte=0"`
	Active      *bool   `json:"active" form:"active"`
}

// ImageFile is an uploaded product image.
type ImageFile struct {
	Reader   io.Reader
	FileName string
}
