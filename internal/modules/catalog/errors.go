package catalog

import "oficina/internal/pkg/apperror"

var ErrEntryNotFound = apperror.New(apperror.ErrNotFound, "catalog entry not found")
