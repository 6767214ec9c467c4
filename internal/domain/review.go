package domain

import "time"

// Review is unique per (user, catalog entry). Edits send it back to moderation.
type Review struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	CatalogEntryID int64     `json:"catalogoServicoId"`
	BookingID      *int64    `json:"servicoId,omitempty"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	IsApproved     bool      `json:"isApproved"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	User  *UserRef    `json:"user,omitempty"`
	Entry *CatalogRef `json:"catalogoServico,omitempty"`
}

const (
	MinRating = 1
	MaxRating = 5
)
