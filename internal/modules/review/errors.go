package review

import "oficina/internal/pkg/apperror"

var (
	ErrEntryNotFound   = apperror.New(apperror.ErrNotFound, "catalog entry not found")
	ErrReviewNotFound  = apperror.New(apperror.ErrNotFound, "review not found")
	ErrAlreadyReviewed = apperror.New(apperror.ErrAlreadyExists, "entry already reviewed")
)
