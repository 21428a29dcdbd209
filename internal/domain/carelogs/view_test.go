package carelogs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pet-care-log/internal/platform/notify"
	"pet-care-log/internal/ports/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Fakes
// -------------------------

type fakeRepo struct {
	mu    sync.Mutex
	byPet map[string][]Log
	err   error
	calls map[string]int

	// hook corre dentro de ListByPet, antes de devolver; sirve para simular
	// que el usuario hace algo mientras la carga está en vuelo.
	hook func(petID string)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byPet: map[string][]Log{}, calls: map[string]int{}}
}

func (r *fakeRepo) Create(ctx context.Context, l Log) (Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPet[l.PetID] = append(r.byPet[l.PetID], l)
	return l, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (Log, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, items := range r.byPet {
		for _, l := range items {
			if l.ID == id {
				return l, nil
			}
		}
	}
	return Log{}, store.ErrNotFound
}

func (r *fakeRepo) ListByPet(ctx context.Context, petID string) ([]Log, error) {
	r.mu.Lock()
	r.calls[petID]++
	items := append([]Log(nil), r.byPet[petID]...)
	err := r.err
	hook := r.hook
	r.mu.Unlock()

	if hook != nil {
		hook(petID)
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	return errors.New("not used")
}

type activePet struct{ id string }

func (a *activePet) ActivePetID() string { return a.id }

func recordNotices(bus *notify.Bus) *[]notify.Event {
	var got []notify.Event
	bus.Subscribe(func(ctx context.Context, e notify.Event) {
		got = append(got, e)
	}, notify.KindNotice)
	return &got
}

func strp(s string) *string { return &s }

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

// -------------------------
// DeriveView
// -------------------------

func TestDeriveView_OrderIndependentOfFilter(t *testing.T) {
	logs := []Log{
		{ID: "a", Type: TypeFeeding, Timestamp: t0.Add(3 * time.Hour), Notes: strp("kibble")},
		{ID: "b", Type: TypeWalking, Timestamp: t0.Add(2 * time.Hour), Caregiver: strp("Ana")},
		{ID: "c", Type: TypeFeeding, Timestamp: t0.Add(1 * time.Hour), Notes: strp("Wet food")},
		{ID: "d", Type: TypeMedical, Timestamp: t0},
	}

	ids := func(in []Log) []string {
		out := make([]string, 0, len(in))
		for _, l := range in {
			out = append(out, l.ID)
		}
		return out
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(DeriveView(logs, FilterAll, "")))
	assert.Equal(t, []string{"a", "c"}, ids(DeriveView(logs, FilterType(TypeFeeding), "")))
	assert.Equal(t, []string{"c"}, ids(DeriveView(logs, FilterType(TypeFeeding), "FOOD")))
	assert.Equal(t, []string{"b"}, ids(DeriveView(logs, FilterAll, "ana")))
	assert.Empty(t, DeriveView(logs, FilterType(TypeGrooming), ""))
	assert.Empty(t, DeriveView(logs, FilterAll, "nothing matches"))
}

func TestDeriveView_SearchIgnoresNullFields(t *testing.T) {
	logs := []Log{{ID: "x", Type: TypeOther, Timestamp: t0}}

	assert.Len(t, DeriveView(logs, FilterAll, ""), 1)
	assert.Empty(t, DeriveView(logs, FilterAll, "x"))
}

func TestDeriveView_FilterByWalking(t *testing.T) {
	logs := []Log{
		{ID: "feed", Type: TypeFeeding, Timestamp: t0},
		{ID: "walk", Type: TypeWalking, Timestamp: t0.Add(time.Hour)},
	}
	SortForView(logs)

	got := DeriveView(logs, FilterType(TypeWalking), "")
	require.Len(t, got, 1)
	assert.Equal(t, "walk", got[0].ID)
}

func TestSortForView_TiesKeepInsertionOrder(t *testing.T) {
	logs := []Log{
		{ID: "second", Timestamp: t0, Seq: 2},
		{ID: "older", Timestamp: t0.Add(-time.Minute), Seq: 3},
		{ID: "first", Timestamp: t0, Seq: 1},
		{ID: "newest", Timestamp: t0.Add(time.Minute), Seq: 4},
	}
	SortForView(logs)

	assert.Equal(t, "newest", logs[0].ID)
	assert.Equal(t, "first", logs[1].ID)
	assert.Equal(t, "second", logs[2].ID)
	assert.Equal(t, "older", logs[3].ID)
}

func TestParseFilter(t *testing.T) {
	f, ok := ParseFilter("")
	assert.True(t, ok)
	assert.Equal(t, FilterAll, f)

	f, ok = ParseFilter("Walking")
	assert.True(t, ok)
	assert.Equal(t, FilterType(TypeWalking), f)

	_, ok = ParseFilter("bath")
	assert.False(t, ok)
}

// -------------------------
// View
// -------------------------

func TestView_SwitchLoadsAndAppliesFilter(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.byPet["A"] = []Log{
		{ID: "1", PetID: "A", Type: TypeFeeding, Timestamp: t0, Seq: 1},
		{ID: "2", PetID: "A", Type: TypeWalking, Timestamp: t0.Add(time.Hour), Seq: 2},
	}
	active := &activePet{id: "A"}
	v := NewView(repo, active, notify.NewBus(), nil)

	require.NoError(t, v.Switch(ctx, "A"))
	require.Len(t, v.Logs(), 2)
	assert.Equal(t, "2", v.Logs()[0].ID)

	v.SetFilter(ctx, FilterType(TypeWalking))
	require.Len(t, v.Visible(), 1)
	assert.Equal(t, "2", v.Visible()[0].ID)

	// el filtro sobrevive a una recarga
	require.NoError(t, v.Reload(ctx))
	assert.Len(t, v.Visible(), 1)

	v.SetSearch(ctx, "nope")
	assert.Empty(t, v.Visible())
	assert.Len(t, v.Logs(), 2)
}

func TestView_StaleResponseForPreviousPetIsDiscarded(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.byPet["A"] = []Log{{ID: "a1", PetID: "A", Type: TypeFeeding, Timestamp: t0}}
	repo.byPet["B"] = []Log{{ID: "b1", PetID: "B", Type: TypeWalking, Timestamp: t0}}

	active := &activePet{id: "A"}
	v := NewView(repo, active, notify.NewBus(), nil)

	repo.hook = func(petID string) {
		if petID != "A" {
			return
		}
		repo.hook = nil
		// el usuario cambia a B mientras la carga de A sigue en vuelo
		active.id = "B"
		require.NoError(t, v.Switch(ctx, "B"))
	}

	_, err := v.Load(ctx, "A")
	assert.ErrorIs(t, err, ErrStaleResponse)

	assert.Equal(t, "B", v.PetID())
	require.Len(t, v.Logs(), 1)
	assert.Equal(t, "b1", v.Logs()[0].ID)
}

func TestView_OlderLoadOfSamePetDoesNotOverwriteNewer(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.byPet["A"] = []Log{{ID: "old", PetID: "A", Type: TypeFeeding, Timestamp: t0}}
	active := &activePet{id: "A"}
	v := NewView(repo, active, notify.NewBus(), nil)

	repo.hook = func(petID string) {
		repo.hook = nil
		repo.mu.Lock()
		repo.byPet["A"] = append(repo.byPet["A"], Log{ID: "new", PetID: "A", Type: TypeFeeding, Timestamp: t0.Add(time.Hour)})
		repo.mu.Unlock()
		_, err := v.Load(ctx, "A")
		require.NoError(t, err)
	}

	_, err := v.Load(ctx, "A")
	assert.ErrorIs(t, err, ErrStaleResponse)
	assert.Len(t, v.Logs(), 2)
}

func TestView_OlderLoadDoesNotLandAfterNewerFailure(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.byPet["A"] = []Log{{ID: "old", PetID: "A", Type: TypeFeeding, Timestamp: t0}}
	v := NewView(repo, &activePet{id: "A"}, notify.NewBus(), nil)

	repo.hook = func(petID string) {
		repo.hook = nil
		// mientras la primera carga vuela se crea un log y la recarga falla
		repo.mu.Lock()
		repo.byPet["A"] = append(repo.byPet["A"], Log{ID: "new", PetID: "A", Type: TypeFeeding, Timestamp: t0.Add(time.Hour)})
		repo.err = errors.New("boom")
		repo.mu.Unlock()

		_, err := v.Load(ctx, "A")
		require.Error(t, err)

		repo.mu.Lock()
		repo.err = nil
		repo.mu.Unlock()
	}

	_, err := v.Load(ctx, "A")
	assert.ErrorIs(t, err, ErrStaleResponse)
	assert.Empty(t, v.Visible())

	// la siguiente recarga trae el estado real
	require.NoError(t, v.Reload(ctx))
	assert.Len(t, v.Visible(), 2)
}

func TestView_LoadFailureKeepsViewAndNotifies(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.byPet["A"] = []Log{{ID: "a1", PetID: "A", Type: TypeFeeding, Timestamp: t0}}
	bus := notify.NewBus()
	notices := recordNotices(bus)
	v := NewView(repo, &activePet{id: "A"}, bus, nil)

	require.NoError(t, v.Switch(ctx, "A"))

	repo.err = errors.New("network down")
	err := v.Reload(ctx)
	require.Error(t, err)
	assert.True(t, store.IsStoreError(err))

	assert.Len(t, v.Logs(), 1)
	require.Len(t, *notices, 1)
	assert.Equal(t, notify.LevelError, (*notices)[0].Level)
	assert.Contains(t, (*notices)[0].Message, "network down")
}

func TestView_SwitchDropsPreviousPetLogs(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.byPet["A"] = []Log{{ID: "a1", PetID: "A", Type: TypeFeeding, Timestamp: t0}}
	active := &activePet{id: "A"}
	v := NewView(repo, active, notify.NewBus(), nil)
	require.NoError(t, v.Switch(ctx, "A"))

	active.id = "B"
	repo.err = errors.New("boom")
	require.Error(t, v.Switch(ctx, "B"))

	// sin cache entre mascotas: no quedan los logs de A
	assert.Equal(t, "B", v.PetID())
	assert.Empty(t, v.Logs())
}

func TestView_ClearResetsFilters(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	v := NewView(repo, &activePet{id: "A"}, notify.NewBus(), nil)
	require.NoError(t, v.Switch(ctx, "A"))
	v.SetFilter(ctx, FilterType(TypeMedical))
	v.SetSearch(ctx, "vet")

	v.Clear(ctx)

	f, s := v.Filter()
	assert.Equal(t, FilterAll, f)
	assert.Equal(t, "", s)
	assert.Equal(t, "", v.PetID())
	assert.NoError(t, v.Reload(ctx))
	assert.Zero(t, repo.calls[""])
}
