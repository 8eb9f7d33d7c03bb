package model

import "time"

// Product is a menu entry. Customers read it; staff own its lifecycle.
type Product struct {
	ID                   string
	Name                 string
	LocalizedName        string
	Description          string
	LocalizedDescription string
	Price                float64
	Category             string
	ImageURL             string
	Available            bool
	Featured             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
