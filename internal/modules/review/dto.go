package review

type CreateReviewRequest struct {
	CatalogEntryID int64  `json:"catalogoServicoId" validate:"required"`
	Rating         int    `json:"rating" validate:"required,min=1,max=5"`
	Comment        string `json:"comment" validate:"max=1000"`
	BookingID      *int64 `json:"servicoId"`
}

// UpdateReviewRequest keeps the stored value of any omitted field.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}
