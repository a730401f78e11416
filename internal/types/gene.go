package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Gene struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Symbol       string         `gorm:"uniqueIndex;not null;column:symbol" json:"symbol"`
	CategoryID   *uuid.UUID     `gorm:"type:uuid;index;column:category_id" json:"category_id,omitempty"`
	Category     *Category      `gorm:"constraint:OnDelete:SET NULL;foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Description  string         `gorm:"column:description" json:"description"`
	ExtendedData datatypes.JSON `gorm:"column:extended_data" json:"extended_data,omitempty"`
	IsEnriched   bool           `gorm:"not null;default:false;column:is_enriched" json:"is_enriched"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (Gene) TableName() string { return "gene" }

func (g *Gene) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// GeneDetails is the structured blob cached in Gene.ExtendedData once a gene
// has been enriched.
type GeneDetails struct {
	FullName             string   `json:"full_name"`
	FunctionSummary      string   `json:"function_summary"`
	DiseaseRelevance     string   `json:"disease_relevance"`
	KnownDrugs           []string `json:"known_drugs"`
	ClinicalSignificance string   `json:"clinical_significance"`
}

// GeneDetailsResponse wraps cached details with the cache-hit flag surfaced
// to callers.
type GeneDetailsResponse struct {
	Symbol      string      `json:"symbol"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Details     GeneDetails `json:"details"`
	Cached      bool        `json:"cached"`
}
