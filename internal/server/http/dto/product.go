package dto

import "github.com/hunabku/comanda/internal/domain/model"

// ProductRequest describes a catalog create/update payload.
type ProductRequest struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	LocalizedName        string  `json:"localized_name"`
	Description          string  `json:"description"`
	LocalizedDescription string  `json:"localized_description"`
	Price                float64 `json:"price"`
	Category             string  `json:"category"`
	ImageURL             string  `json:"image_url"`
	Available            bool    `json:"available"`
	Featured             bool    `json:"featured"`
}

// ProductResponse is the catalog entry representation.
type ProductResponse struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	LocalizedName        string  `json:"localized_name,omitempty"`
	Description          string  `json:"description,omitempty"`
	LocalizedDescription string  `json:"localized_description,omitempty"`
	Price                float64 `json:"price"`
	Category             string  `json:"category,omitempty"`
	ImageURL             string  `json:"image_url,omitempty"`
	Available            bool    `json:"available"`
	Featured             bool    `json:"featured"`
}

// ToProduct maps a request payload onto the domain model.
func (r ProductRequest) ToProduct() model.Product {
	return model.Product{
		ID:                   r.ID,
		Name:                 r.Name,
		LocalizedName:        r.LocalizedName,
		Description:          r.Description,
		LocalizedDescription: r.LocalizedDescription,
		Price:                r.Price,
		Category:             r.Category,
		ImageURL:             r.ImageURL,
		Available:            r.Available,
		Featured:             r.Featured,
	}
}

// ToProductResponse maps a domain product onto the wire representation.
func ToProductResponse(product model.Product) ProductResponse {
	return ProductResponse{
		ID:                   product.ID,
		Name:                 product.Name,
		LocalizedName:        product.LocalizedName,
		Description:          product.Description,
		LocalizedDescription: product.LocalizedDescription,
		Price:                product.Price,
		Category:             product.Category,
		ImageURL:             product.ImageURL,
		Available:            product.Available,
		Featured:             product.Featured,
	}
}
