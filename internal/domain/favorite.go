package domain

import "time"

// Favorite links a user to a catalog entry; unique per pair.
type Favorite struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	CatalogEntryID int64     `json:"catalogoServicoId"`
	CreatedAt      time.Time `json:"createdAt"`

	Entry *CatalogEntry `json:"-"`
}
