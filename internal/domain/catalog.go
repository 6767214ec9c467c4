package domain

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// CatalogEntry is a sellable service template curated by admins.
// Entries are never deleted, only deactivated.
type CatalogEntry struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	Category          string     `json:"category"`
	BasePrice         float64    `json:"basePrice"`
	EstimatedDuration string     `json:"estimatedDuration"`
	Tags              []string   `json:"tags"`
	Image             string     `json:"image,omitempty"`
	IsActive          bool       `json:"isActive"`
	Difficulty        Difficulty `json:"difficulty"`
	RequiredParts     []string   `json:"requiredParts"`
	Warranty          string     `json:"warranty,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type CatalogRef struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	BasePrice float64 `json:"basePrice"`
}

type TagCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
