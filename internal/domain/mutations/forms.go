package mutations

import (
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// PetForm es lo que llena el usuario para registrar una mascota.
type PetForm struct {
	Name        string
	Species     string
	Breed       string
	DateOfBirth string // YYYY-MM-DD, opcional
	Notes       string
	Photo       *Photo
}

// Photo es el binario opcional de la mascota; FileName solo aporta la extensión.
type Photo struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

// Reset deja el formulario vacío (después de un alta exitosa).
func (f *PetForm) Reset() {
	*f = PetForm{}
}

// LogForm es el formulario de alta de un log. Los numéricos llegan como
// texto: lo que no parsea se toma como ausente, no como error.
type LogForm struct {
	Type         string
	Timestamp    time.Time
	Quantity     string
	QuantityUnit string
	DurationMins string
	Caregiver    string
	Notes        string
}

// NewLogForm abre el formulario con timestamp = ahora, a precisión de minuto.
func NewLogForm(now time.Time) LogForm {
	return LogForm{Timestamp: now.Truncate(time.Minute)}
}

// Reset vuelve a los defaults, capturando de nuevo el "ahora".
func (f *LogForm) Reset(now time.Time) {
	*f = NewLogForm(now)
}

// formTimeLayouts: RFC3339 y el formato de un input datetime-local.
var formTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseFormTime interpreta un timestamp tipeado por el usuario; sin zona
// explícita se toma loc.
func ParseFormTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range formTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseQuantity(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseMinutes acepta "30" y también "30.5" (se trunca), como un parseInt.
func parseMinutes(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	n := int(f)
	return &n
}

// photoPath arma <owner>/<uuid>.<ext>; el nombre random evita colisiones.
func photoPath(ownerID, randomName, fileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ext == "" {
		return ownerID + "/" + randomName
	}
	return ownerID + "/" + randomName + "." + ext
}
