package models

import "time"

// Property представляет объект недвижимости в каталоге.
type Property struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	City        string     `json:"city"`
	Address     string     `json:"address"`
	Price       float64    `json:"price"`
	Bedrooms    int        `json:"bedrooms"`
	AreaSqm     float64    `json:"area_sqm"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// PropertyRequest используется для приёма данных объекта из JSON-запроса
// при создании и обновлении администратором.
type PropertyRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=200"`
	Description string  `json:"description" validate:"required"`
	City        string  `json:"city" validate:"required"`
	Address     string  `json:"address" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Bedrooms    int     `json:"bedrooms" validate:"required,gt=0"`
	AreaSqm     float64 `json:"area_sqm" validate:"required,gt=0"`
}

// PropertyFilter описывает необязательные фильтры выборки каталога.
type PropertyFilter struct {
	City     string
	MinPrice float64
	MaxPrice float64
	Bedrooms int
	Limit    int
	Offset   int
}
