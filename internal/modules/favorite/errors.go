package favorite

import "oficina/internal/pkg/apperror"

var (
	ErrEntryNotFound    = apperror.New(apperror.ErrNotFound, "catalog entry not found")
	ErrFavoriteNotFound = apperror.New(apperror.ErrNotFound, "favorite not found")
	ErrAlreadyFavorite  = apperror.New(apperror.ErrAlreadyExists, "entry already in favorites")
)
