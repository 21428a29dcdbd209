package mutations

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"pet-care-log/internal/domain/carelogs"
	"pet-care-log/internal/domain/pets"
	"pet-care-log/internal/domain/session"
	"pet-care-log/internal/platform/notify"
	"pet-care-log/internal/ports/blob"
	"pet-care-log/internal/ports/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Fakes
// -------------------------

type petRepo struct {
	created []pets.Pet
	err     error
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	if r.err != nil {
		return pets.Pet{}, r.err
	}
	p.ID = "pet-1"
	r.created = append(r.created, p)
	return p, nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	return pets.Pet{}, store.ErrNotFound
}

func (r *petRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	return r.created, nil
}

type logRepo struct {
	created []carelogs.Log
	deleted []string
	err     error
}

func (r *logRepo) Create(ctx context.Context, l carelogs.Log) (carelogs.Log, error) {
	if r.err != nil {
		return carelogs.Log{}, r.err
	}
	l.ID = "log-1"
	r.created = append(r.created, l)
	return l, nil
}

func (r *logRepo) GetByID(ctx context.Context, id string) (carelogs.Log, error) {
	return carelogs.Log{}, store.ErrNotFound
}

func (r *logRepo) ListByPet(ctx context.Context, petID string) ([]carelogs.Log, error) {
	return r.created, nil
}

func (r *logRepo) Delete(ctx context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	r.deleted = append(r.deleted, id)
	return nil
}

type blobStore struct {
	uploads map[string]string
	err     error
}

func (b *blobStore) Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) error {
	if b.err != nil {
		return b.err
	}
	data, _ := io.ReadAll(r)
	if b.uploads == nil {
		b.uploads = map[string]string{}
	}
	b.uploads[bucket+"/"+path] = string(data)
	return nil
}

func (b *blobStore) PublicURL(bucket, path string) string {
	return "https://files.test/" + bucket + "/" + path
}

type scope struct{ owner, pet string }

func (s scope) OwnerID() string     { return s.owner }
func (s scope) ActivePetID() string { return s.pet }

type fixture struct {
	svc    *Service
	pets   *petRepo
	logs   *logRepo
	blobs  *blobStore
	events []notify.Event
}

func newFixture(sc scope) *fixture {
	f := &fixture{pets: &petRepo{}, logs: &logRepo{}, blobs: &blobStore{}}
	bus := notify.NewBus()
	bus.Subscribe(func(ctx context.Context, e notify.Event) {
		f.events = append(f.events, e)
	})
	f.svc = NewService(Deps{
		Pets:  f.pets,
		Logs:  f.logs,
		Blobs: f.blobs,
		Scope: sc,
		Bus:   bus,
	})
	f.svc.newName = func() string { return "rnd" }
	return f
}

func (f *fixture) kinds() []notify.Kind {
	out := make([]notify.Kind, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Kind)
	}
	return out
}

func (f *fixture) notices(level notify.Level) []string {
	var out []string
	for _, e := range f.events {
		if e.Kind == notify.KindNotice && e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// -------------------------
// CreatePet
// -------------------------

func TestCreatePet_WithoutPhoto(t *testing.T) {
	f := newFixture(scope{owner: "u1"})

	p, err := f.svc.CreatePet(context.Background(), PetForm{Name: "Buddy", Species: "dog", DateOfBirth: "2021-02-03"})
	require.NoError(t, err)

	assert.Equal(t, "pet-1", p.ID)
	assert.Nil(t, p.PhotoURL)
	require.NotNil(t, p.DateOfBirth)
	assert.Equal(t, "2021-02-03", p.DateOfBirth.Format(pets.DateLayout))
	assert.Empty(t, f.blobs.uploads)
	assert.Equal(t, []string{"Buddy has been added!"}, f.notices(notify.LevelSuccess))
	assert.Contains(t, f.kinds(), notify.KindPetCreated)
}

func TestCreatePet_UploadsPhotoUnderOwnerFolder(t *testing.T) {
	f := newFixture(scope{owner: "u1"})

	p, err := f.svc.CreatePet(context.Background(), PetForm{
		Name:    "Milo",
		Species: "cat",
		Photo:   &Photo{FileName: "Milo.JPG", ContentType: "image/jpeg", Body: strings.NewReader("img")},
	})
	require.NoError(t, err)

	assert.Equal(t, "img", f.blobs.uploads["pet-photos/u1/rnd.jpg"])
	require.NotNil(t, p.PhotoURL)
	assert.Equal(t, "https://files.test/pet-photos/u1/rnd.jpg", *p.PhotoURL)
}

func TestCreatePet_ValidationNeverReachesStore(t *testing.T) {
	f := newFixture(scope{owner: "u1"})

	cases := []PetForm{
		{Species: "dog"},
		{Name: "Rex"},
		{Name: "Rex", Species: "dragon"},
		{Name: "Rex", Species: "dog", DateOfBirth: "03/02/2021"},
	}
	for _, form := range cases {
		form.Photo = &Photo{FileName: "a.png", Body: strings.NewReader("x")}
		_, err := f.svc.CreatePet(context.Background(), form)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Empty(t, f.pets.created)
	assert.Empty(t, f.blobs.uploads)
	assert.Empty(t, f.events)
}

func TestCreatePet_InsertFailureLeavesPhotoAndNotifies(t *testing.T) {
	f := newFixture(scope{owner: "u1"})
	f.pets.err = errors.New("insert rejected")

	_, err := f.svc.CreatePet(context.Background(), PetForm{
		Name:    "Milo",
		Species: "cat",
		Photo:   &Photo{FileName: "m.png", Body: strings.NewReader("img")},
	})
	require.Error(t, err)
	assert.True(t, store.IsStoreError(err))

	// no hay rollback de la foto
	assert.Len(t, f.blobs.uploads, 1)
	assert.Equal(t, []string{"insert rejected"}, f.notices(notify.LevelError))
	assert.NotContains(t, f.kinds(), notify.KindPetCreated)
}

func TestCreatePet_UploadFailureSkipsInsert(t *testing.T) {
	f := newFixture(scope{owner: "u1"})
	f.blobs.err = store.ErrConflict

	_, err := f.svc.CreatePet(context.Background(), PetForm{
		Name:    "Milo",
		Species: "cat",
		Photo:   &Photo{FileName: "m.png", Body: strings.NewReader("img")},
	})
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.Empty(t, f.pets.created)
}

func TestCreatePet_RequiresSession(t *testing.T) {
	f := newFixture(scope{})
	_, err := f.svc.CreatePet(context.Background(), PetForm{Name: "Rex", Species: "dog"})
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

// -------------------------
// CreateLog / DeleteLog
// -------------------------

func TestCreateLog_FeedingWithQuantity(t *testing.T) {
	f := newFixture(scope{owner: "u1", pet: "p1"})
	ts := time.Date(2025, 4, 1, 8, 30, 0, 0, time.UTC)

	l, err := f.svc.CreateLog(context.Background(), LogForm{
		Type:         "feeding",
		Timestamp:    ts,
		Quantity:     "50",
		QuantityUnit: "grams",
	})
	require.NoError(t, err)

	require.NotNil(t, l.Quantity)
	assert.Equal(t, 50.0, *l.Quantity)
	require.NotNil(t, l.QuantityUnit)
	assert.Equal(t, "grams", *l.QuantityUnit)
	assert.Nil(t, l.DurationMins)
	assert.Nil(t, l.Caregiver)
	assert.Equal(t, "p1", l.PetID)

	var created []notify.Event
	for _, e := range f.events {
		if e.Kind == notify.KindLogCreated {
			created = append(created, e)
		}
	}
	require.Len(t, created, 1)
	assert.Equal(t, "p1", created[0].PetID)
}

func TestCreateLog_UnparseableNumbersBecomeNull(t *testing.T) {
	f := newFixture(scope{owner: "u1", pet: "p1"})

	l, err := f.svc.CreateLog(context.Background(), LogForm{
		Type:         "walking",
		Timestamp:    time.Now(),
		Quantity:     "lots",
		DurationMins: "30.7",
	})
	require.NoError(t, err)
	assert.Nil(t, l.Quantity)
	require.NotNil(t, l.DurationMins)
	assert.Equal(t, 30, *l.DurationMins)
}

func TestCreateLog_Validation(t *testing.T) {
	f := newFixture(scope{owner: "u1"})
	_, err := f.svc.CreateLog(context.Background(), LogForm{Type: "feeding", Timestamp: time.Now()})
	assert.ErrorIs(t, err, ErrNoActivePet)

	f = newFixture(scope{owner: "u1", pet: "p1"})
	_, err = f.svc.CreateLog(context.Background(), LogForm{Timestamp: time.Now()})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.CreateLog(context.Background(), LogForm{Type: "bath", Timestamp: time.Now()})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, f.logs.created)
}

func TestDeleteLog(t *testing.T) {
	f := newFixture(scope{owner: "u1", pet: "p1"})

	require.NoError(t, f.svc.DeleteLog(context.Background(), "log-9"))
	assert.Equal(t, []string{"log-9"}, f.logs.deleted)
	assert.Contains(t, f.kinds(), notify.KindLogDeleted)

	f = newFixture(scope{owner: "u1", pet: "p1"})
	f.logs.err = store.ErrNotFound
	err := f.svc.DeleteLog(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, []string{"not found"}, f.notices(notify.LevelError))
	assert.NotContains(t, f.kinds(), notify.KindLogDeleted)
}

// -------------------------
// Forms
// -------------------------

func TestNewLogForm_TruncatesToMinute(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 30, 45, 123, time.UTC)
	form := NewLogForm(now)
	assert.Equal(t, time.Date(2025, 4, 1, 8, 30, 0, 0, time.UTC), form.Timestamp)
	assert.Equal(t, "", form.Type)
}

func TestForms_Reset(t *testing.T) {
	pf := PetForm{Name: "Buddy", Species: "dog", Photo: &Photo{FileName: "a.png"}}
	pf.Reset()
	assert.Equal(t, PetForm{}, pf)

	lf := LogForm{Type: "feeding", Quantity: "3", Notes: "x"}
	later := time.Date(2025, 4, 2, 9, 15, 59, 0, time.UTC)
	lf.Reset(later)
	assert.Equal(t, NewLogForm(later), lf)
	assert.Equal(t, 15, lf.Timestamp.Minute())
	assert.Zero(t, lf.Timestamp.Second())
}

func TestParseFormTime(t *testing.T) {
	loc := time.FixedZone("AR", -3*3600)

	got, ok := ParseFormTime("2025-04-01T08:30", loc)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 4, 1, 11, 30, 0, 0, time.UTC), got.UTC())

	got, ok = ParseFormTime("2025-04-01T08:30:00Z", loc)
	require.True(t, ok)
	assert.Equal(t, 8, got.UTC().Hour())

	_, ok = ParseFormTime("yesterday", loc)
	assert.False(t, ok)
}

func TestPhotoPath(t *testing.T) {
	assert.Equal(t, "u1/abc.png", photoPath("u1", "abc", "Photo.PNG"))
	assert.Equal(t, "u1/abc", photoPath("u1", "abc", "noext"))
}

var _ blob.Store = (*blobStore)(nil)
