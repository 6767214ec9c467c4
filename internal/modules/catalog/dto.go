package catalog

import "oficina/internal/domain"

type ListQuery struct {
	Page     int      `form:"page"`
	Limit    int      `form:"limit"`
	Search   string   `form:"search"`
	Category string   `form:"category"`
	Tags     string   `form:"tags"`
	MinPrice *float64 `form:"minPrice"`
	MaxPrice *float64 `form:"maxPrice"`
	Sort     string   `form:"sort"`
}

type AdminListQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search"`
}

// EntryRequest is used for create and for the full overwrite on update.
// A nil IsActive keeps the current flag (true on create).
type EntryRequest struct {
	Name              string            `json:"name" validate:"required,max=120"`
	Description       string            `json:"description" validate:"required,max=2000"`
	Category          string            `json:"category" validate:"required,max=60"`
	BasePrice         float64           `json:"basePrice" validate:"gte=0"`
	EstimatedDuration string            `json:"estimatedDuration" validate:"required,max=60"`
	Tags              []string          `json:"tags" validate:"max=20,dive,max=40"`
	Image             string            `json:"image" validate:"omitempty,url"`
	IsActive          *bool             `json:"isActive"`
	Difficulty        domain.Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	RequiredParts     []string          `json:"requiredParts" validate:"dive,max=100"`
	Warranty          string            `json:"warranty" validate:"max=60"`
}

// Item is a catalog entry as listed publicly. IsFavorito is only set for
// authenticated callers.
type Item struct {
	domain.CatalogEntry
	IsFavorito *bool `json:"isFavorito,omitempty"`
}

type Page struct {
	Servicos    []Item `json:"servicos"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	TotalItems  int64  `json:"totalItems"`
	HasNext     bool   `json:"hasNext"`
	HasPrev     bool   `json:"hasPrev"`
}

type Details struct {
	domain.CatalogEntry
	Avaliacoes      []domain.Review `json:"avaliacoes"`
	MediaAvaliacoes float64         `json:"mediaAvaliacoes"`
	TotalAvaliacoes int             `json:"totalAvaliacoes"`
	IsFavorito      bool            `json:"isFavorito"`
}
