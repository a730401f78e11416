package repos

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bionet-project/bionet-backend/internal/repos/testutil"
	"github.com/bionet-project/bionet-backend/internal/types"
	"gorm.io/datatypes"
)

func TestGeneRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)
	catRepo := NewCategoryRepo(db, log)
	repo := NewGeneRepo(db, log)

	cat, err := catRepo.EnsureExists(ctx, nil, "Tumor Suppressor", "#ff3333")
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	catID := cat.ID

	created, err := repo.Create(ctx, nil, []*types.Gene{
		{Symbol: "TP53", CategoryID: &catID, Description: "Guardian of the genome"},
		{Symbol: "BRCA1", CategoryID: &catID, Description: "DNA repair"},
	})
	if err != nil || len(created) != 2 {
		t.Fatalf("Create: err=%v len=%d", err, len(created))
	}

	got, err := repo.GetBySymbol(ctx, nil, "TP53")
	if err != nil {
		t.Fatalf("GetBySymbol: %v", err)
	}
	if got.Category == nil || got.Category.Name != "Tumor Suppressor" {
		t.Fatalf("GetBySymbol: category not preloaded: %+v", got.Category)
	}
	if got.IsEnriched {
		t.Fatalf("GetBySymbol: new gene should not be enriched")
	}

	if _, err := repo.GetBySymbol(ctx, nil, "NOPE"); err == nil {
		t.Fatalf("GetBySymbol(missing): expected error")
	}

	bySym, err := repo.GetBySymbols(ctx, nil, []string{"TP53", "BRCA1", "NOPE"})
	if err != nil || len(bySym) != 2 {
		t.Fatalf("GetBySymbols: err=%v len=%d", err, len(bySym))
	}

	details := types.GeneDetails{FullName: "Tumor protein p53", KnownDrugs: []string{"APR-246"}}
	blob, _ := json.Marshal(details)
	if err := repo.SetExtendedData(ctx, nil, "TP53", datatypes.JSON(blob)); err != nil {
		t.Fatalf("SetExtendedData: %v", err)
	}

	enriched, err := repo.GetBySymbol(ctx, nil, "TP53")
	if err != nil {
		t.Fatalf("GetBySymbol(after enrich): %v", err)
	}
	if !enriched.IsEnriched || len(enriched.ExtendedData) == 0 {
		t.Fatalf("SetExtendedData: flag or blob missing: enriched=%v len=%d", enriched.IsEnriched, len(enriched.ExtendedData))
	}
	var round types.GeneDetails
	if err := json.Unmarshal(enriched.ExtendedData, &round); err != nil || round.FullName != details.FullName {
		t.Fatalf("SetExtendedData: blob round trip: err=%v got=%+v", err, round)
	}

	// Duplicate symbols are rejected by the unique index.
	if _, err := repo.Create(ctx, nil, []*types.Gene{{Symbol: "TP53"}}); err == nil {
		t.Fatalf("Create(duplicate): expected error")
	}

	if rows, err := repo.Create(ctx, nil, nil); err != nil || len(rows) != 0 {
		t.Fatalf("Create(empty): err=%v len=%d", err, len(rows))
	}
}
