package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-care-log/internal/domain/carelogs"
	"pet-care-log/internal/domain/pets"
	"pet-care-log/internal/ports/store"
)

func TestPetRepo_ListByOwner_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewPetRepo()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mustPet(t, repo, pets.Pet{ID: "p1", OwnerID: "u1", Name: "Old", Species: pets.SpeciesDog, CreatedAt: base})
	mustPet(t, repo, pets.Pet{ID: "p2", OwnerID: "u1", Name: "New", Species: pets.SpeciesCat, CreatedAt: base.Add(time.Hour)})
	mustPet(t, repo, pets.Pet{ID: "p3", OwnerID: "u2", Name: "Other", Species: pets.SpeciesBird, CreatedAt: base})

	got, err := repo.ListByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "p2" || got[1].ID != "p1" {
		t.Fatalf("expected [p2 p1], got %+v", ids(got))
	}

	none, err := repo.ListByOwner(ctx, "nobody")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty list, got %v %v", none, err)
	}
}

func TestPetRepo_AssignsIDAndCreatedAt(t *testing.T) {
	repo := NewPetRepo()

	p, err := repo.Create(context.Background(), pets.Pet{OwnerID: "u1", Name: "Milo", Species: pets.SpeciesDog})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" || p.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at assigned, got %+v", p)
	}

	if _, err := repo.Create(context.Background(), p); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate id, got %v", err)
	}
}

func TestPetRepo_GetByID_NotFound(t *testing.T) {
	_, err := NewPetRepo().GetByID(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}
}

func TestLogRepo_OrderAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewLogRepo()

	t1 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	a := mustLog(t, repo, carelogs.Log{PetID: "p1", Type: carelogs.TypeFeeding, Timestamp: t1})
	b := mustLog(t, repo, carelogs.Log{PetID: "p1", Type: carelogs.TypeWalking, Timestamp: t1})
	c := mustLog(t, repo, carelogs.Log{PetID: "p1", Type: carelogs.TypeMedical, Timestamp: t1.Add(time.Hour)})
	mustLog(t, repo, carelogs.Log{PetID: "p2", Type: carelogs.TypeOther, Timestamp: t1})

	if a.Seq >= b.Seq {
		t.Fatalf("expected increasing seq, got %d %d", a.Seq, b.Seq)
	}

	got, err := repo.ListByPet(ctx, "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || got[0].ID != c.ID || got[1].ID != a.ID || got[2].ID != b.ID {
		t.Fatalf("unexpected order: %+v", got)
	}

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := repo.GetByID(ctx, a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func mustPet(t *testing.T, repo pets.Repository, p pets.Pet) pets.Pet {
	t.Helper()
	out, err := repo.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("create pet: %v", err)
	}
	return out
}

func mustLog(t *testing.T, repo carelogs.Repository, l carelogs.Log) carelogs.Log {
	t.Helper()
	out, err := repo.Create(context.Background(), l)
	if err != nil {
		t.Fatalf("create log: %v", err)
	}
	return out
}

func ids(ps []pets.Pet) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}
