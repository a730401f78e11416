package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCategoryColor is assigned to every category created through review
// approval. Curated palettes are an external rendering concern.
const DefaultCategoryColor = "#808080"

// FallbackCategoryName is the pre-seeded category used when the classifier
// fails for an individual gene.
const FallbackCategoryName = "Unknown"

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Color     string    `gorm:"not null;column:color;default:'#808080'" json:"color"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Category) TableName() string { return "category" }

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// NormalizeCategoryName maps free-text classifier output onto the store's
// case-normalized namespace: trimmed, single-spaced, Title Case per word.
func NormalizeCategoryName(name string) string {
	words := strings.Fields(strings.TrimSpace(name))
	for i, w := range words {
		lower := strings.ToLower(w)
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}

// NormalizeSymbol upper-cases and trims a gene symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
