package mutations

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-care-log/internal/domain/carelogs"
	"pet-care-log/internal/domain/pets"
	"pet-care-log/internal/domain/session"
	"pet-care-log/internal/platform/logger"
	"pet-care-log/internal/platform/notify"
	"pet-care-log/internal/ports/blob"
	"pet-care-log/internal/ports/store"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoActivePet  = errors.New("no active pet")
)

// ValidationError: falta o está mal un campo requerido. Se detecta antes de
// llamar al store.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(err error) error {
	return &ValidationError{Err: err}
}

// Scope es lo que el servicio necesita saber de la sesión (session.Context).
type Scope interface {
	OwnerID() string
	ActivePetID() string
}

// Service valida y manda al store las altas y bajas. Nunca aplica cambios
// optimistas: confirma contra el store y publica el evento para que el engine
// dueño recargue.
type Service struct {
	pets  pets.Repository
	logs  carelogs.Repository
	blobs blob.Store
	scope Scope
	bus   *notify.Bus
	log   logger.Logger

	now     func() time.Time
	newName func() string
}

type Deps struct {
	Pets   pets.Repository
	Logs   carelogs.Repository
	Blobs  blob.Store
	Scope  Scope
	Bus    *notify.Bus
	Logger logger.Logger
}

func NewService(d Deps) *Service {
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		pets:    d.Pets,
		logs:    d.Logs,
		blobs:   d.Blobs,
		scope:   d.Scope,
		bus:     d.Bus,
		log:     log.With(map[string]any{"component": "mutations"}),
		now:     time.Now,
		newName: uuid.NewString,
	}
}

// NewLogForm abre un formulario de log con el reloj del servicio.
func (s *Service) NewLogForm() LogForm {
	return NewLogForm(s.now())
}

// CreatePet sube la foto (si hay) y después inserta la mascota con la URL
// pública. No es atómico: si el insert falla, la foto queda huérfana.
func (s *Service) CreatePet(ctx context.Context, form PetForm) (pets.Pet, error) {
	ownerID := s.scope.OwnerID()
	if ownerID == "" {
		return pets.Pet{}, session.ErrNotAuthenticated
	}

	in := pets.CreateInput{
		Name:    form.Name,
		Species: form.Species,
		Breed:   form.Breed,
		Notes:   form.Notes,
	}
	if dob := strings.TrimSpace(form.DateOfBirth); dob != "" {
		t, err := time.Parse(pets.DateLayout, dob)
		if err != nil {
			return pets.Pet{}, invalid(errors.New("date of birth must be YYYY-MM-DD"))
		}
		in.DateOfBirth = &t
	}

	p, err := in.Normalize(ownerID)
	if err != nil {
		return pets.Pet{}, invalid(err)
	}

	uploaded := ""
	if form.Photo != nil && form.Photo.Body != nil {
		path := photoPath(ownerID, s.newName(), form.Photo.FileName)
		if err := s.blobs.Upload(ctx, blob.PetPhotosBucket, path, form.Photo.Body, form.Photo.ContentType); err != nil {
			return pets.Pet{}, s.fail(ctx, "blob.upload", err, map[string]any{"owner_id": ownerID, "path": path})
		}
		url := s.blobs.PublicURL(blob.PetPhotosBucket, path)
		p.PhotoURL = &url
		uploaded = path
	}

	created, err := s.pets.Create(ctx, p)
	if err != nil {
		if uploaded != "" {
			s.log.Warn("pet insert failed after photo upload; photo left in storage", map[string]any{"path": uploaded})
		}
		return pets.Pet{}, s.fail(ctx, "pets.insert", err, map[string]any{"owner_id": ownerID})
	}

	s.log.Info("pet created", map[string]any{"owner_id": ownerID, "pet_id": created.ID})
	s.bus.Notice(ctx, notify.LevelSuccess, created.Name+" has been added!")
	s.bus.Publish(ctx, notify.Event{Kind: notify.KindPetCreated, OwnerID: ownerID, PetID: created.ID})
	return created, nil
}

// CreateLog registra un log para la mascota activa.
func (s *Service) CreateLog(ctx context.Context, form LogForm) (carelogs.Log, error) {
	ownerID := s.scope.OwnerID()
	if ownerID == "" {
		return carelogs.Log{}, session.ErrNotAuthenticated
	}
	petID := s.scope.ActivePetID()
	if petID == "" {
		return carelogs.Log{}, invalid(ErrNoActivePet)
	}

	l, err := carelogs.CreateInput{
		Type:         form.Type,
		Timestamp:    form.Timestamp,
		Quantity:     parseQuantity(form.Quantity),
		QuantityUnit: form.QuantityUnit,
		DurationMins: parseMinutes(form.DurationMins),
		Caregiver:    form.Caregiver,
		Notes:        form.Notes,
	}.Normalize(petID)
	if err != nil {
		return carelogs.Log{}, invalid(err)
	}

	created, err := s.logs.Create(ctx, l)
	if err != nil {
		return carelogs.Log{}, s.fail(ctx, "logs.insert", err, map[string]any{"pet_id": petID})
	}

	s.log.Info("log created", map[string]any{"pet_id": petID, "log_id": created.ID, "type": string(created.Type)})
	s.bus.Notice(ctx, notify.LevelSuccess, "Log added successfully!")
	s.bus.Publish(ctx, notify.Event{Kind: notify.KindLogCreated, OwnerID: ownerID, PetID: petID, LogID: created.ID})
	return created, nil
}

// DeleteLog borra sin pedir confirmación (eso es de la UI).
func (s *Service) DeleteLog(ctx context.Context, logID string) error {
	ownerID := s.scope.OwnerID()
	if ownerID == "" {
		return session.ErrNotAuthenticated
	}
	logID = strings.TrimSpace(logID)
	if logID == "" {
		return invalid(errors.New("log id is required"))
	}

	if err := s.logs.Delete(ctx, logID); err != nil {
		return s.fail(ctx, "logs.delete", err, map[string]any{"log_id": logID})
	}

	petID := s.scope.ActivePetID()
	s.log.Info("log deleted", map[string]any{"pet_id": petID, "log_id": logID})
	s.bus.Notice(ctx, notify.LevelSuccess, "Log deleted")
	s.bus.Publish(ctx, notify.Event{Kind: notify.KindLogDeleted, OwnerID: ownerID, PetID: petID, LogID: logID})
	return nil
}

// fail envuelve en store.Error, loguea y avisa con el mensaje tal cual.
func (s *Service) fail(ctx context.Context, op string, err error, fields map[string]any) error {
	err = store.Wrap(op, err)
	f := map[string]any{"op": op, "error": err}
	for k, v := range fields {
		f[k] = v
	}
	s.log.Error("store operation failed", f)
	s.bus.Notice(ctx, notify.LevelError, err.Error())
	return err
}
