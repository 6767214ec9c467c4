package favorite

import (
	"time"

	"oficina/internal/domain"
)

type AddFavoriteRequest struct {
	CatalogEntryID int64 `json:"catalogoServicoId" validate:"required"`
}

// Item is a favorited catalog entry.
type Item struct {
	domain.CatalogEntry
	IsFavorito   bool      `json:"isFavorito"`
	DataFavorito time.Time `json:"dataFavorito"`
}
