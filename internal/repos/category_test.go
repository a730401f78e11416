package repos

import (
	"context"
	"testing"

	"github.com/bionet-project/bionet-backend/internal/repos/testutil"
	"github.com/bionet-project/bionet-backend/internal/types"
	"gorm.io/gorm"
)

func TestCategoryRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewCategoryRepo(db, testutil.Logger(t))

	kinase, err := repo.EnsureExists(ctx, nil, "Kinase", "#ffaa00")
	if err != nil {
		t.Fatalf("EnsureExists(create): %v", err)
	}
	if kinase.ID.String() == "" || kinase.Name != "Kinase" || kinase.Color != "#ffaa00" {
		t.Fatalf("EnsureExists(create): unexpected row %+v", kinase)
	}

	again, err := repo.EnsureExists(ctx, nil, "Kinase", "#000000")
	if err != nil {
		t.Fatalf("EnsureExists(existing): %v", err)
	}
	if again.ID != kinase.ID {
		t.Fatalf("EnsureExists(existing): expected same row, got %s vs %s", again.ID, kinase.ID)
	}
	if again.Color != "#ffaa00" {
		t.Fatalf("EnsureExists(existing): color overwritten to %s", again.Color)
	}

	if _, err := repo.EnsureExists(ctx, nil, "Ion Channel", types.DefaultCategoryColor); err != nil {
		t.Fatalf("EnsureExists(second): %v", err)
	}

	all, err := repo.GetAll(ctx, nil)
	if err != nil || len(all) != 2 {
		t.Fatalf("GetAll: err=%v len=%d", err, len(all))
	}
	if all[0].Name != "Ion Channel" || all[1].Name != "Kinase" {
		t.Fatalf("GetAll: expected name order, got %s, %s", all[0].Name, all[1].Name)
	}

	byName, err := repo.GetByNames(ctx, nil, []string{"Kinase", "Missing"})
	if err != nil || len(byName) != 1 {
		t.Fatalf("GetByNames: err=%v len=%d", err, len(byName))
	}
	if byName["Kinase"].ID != kinase.ID {
		t.Fatalf("GetByNames: wrong row for Kinase")
	}

	empty, err := repo.GetByNames(ctx, nil, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("GetByNames(empty): err=%v len=%d", err, len(empty))
	}
}

func TestCategoryRepoEnsureInsideTransaction(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewCategoryRepo(db, testutil.Logger(t))

	seeded, err := repo.EnsureExists(ctx, nil, "Receptor", types.DefaultCategoryColor)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Resolving a name that already exists must not disturb the enclosing
	// transaction; later statements in the same transaction still run.
	if err := db.Transaction(func(tx *gorm.DB) error {
		got, err := repo.EnsureExists(ctx, tx, "Receptor", "#123456")
		if err != nil {
			return err
		}
		if got.ID != seeded.ID {
			t.Fatalf("expected the seeded row, got %s", got.ID)
		}
		if _, err := repo.EnsureExists(ctx, tx, "Transporter", types.DefaultCategoryColor); err != nil {
			return err
		}
		var count int64
		return tx.Model(&types.Category{}).Count(&count).Error
	}); err != nil {
		t.Fatalf("transaction: %v", err)
	}

	all, err := repo.GetAll(ctx, nil)
	if err != nil || len(all) != 2 {
		t.Fatalf("GetAll: err=%v len=%d", err, len(all))
	}
}

func TestCategoryRepoConcurrentEnsure(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewCategoryRepo(db, testutil.Logger(t))

	const workers = 8
	ids := make([]string, workers)
	errs := make([]error, workers)
	done := make(chan int, workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			cat, err := repo.EnsureExists(ctx, nil, "Receptor", types.DefaultCategoryColor)
			if err == nil {
				ids[w] = cat.ID.String()
			}
			errs[w] = err
			done <- w
		}(w)
	}
	for i := 0; i < workers; i++ {
		<-done
	}
	for w := 0; w < workers; w++ {
		if errs[w] != nil {
			t.Fatalf("worker %d: %v", w, errs[w])
		}
		if ids[w] != ids[0] {
			t.Fatalf("worker %d resolved a different row: %s vs %s", w, ids[w], ids[0])
		}
	}

	all, err := repo.GetAll(ctx, nil)
	if err != nil || len(all) != 1 {
		t.Fatalf("expected exactly one Receptor row: err=%v len=%d", err, len(all))
	}
}
