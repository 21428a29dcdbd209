package carelogs

import (
	"strings"
	"time"
)

// LogType es el tipo de cuidado registrado.
// @Enum feeding, walking, grooming, medical, medication, other
type LogType string

const (
	TypeFeeding    LogType = "feeding"
	TypeWalking    LogType = "walking"
	TypeGrooming   LogType = "grooming"
	TypeMedical    LogType = "medical"
	TypeMedication LogType = "medication"
	TypeOther      LogType = "other"
)

var AllTypes = []LogType{TypeFeeding, TypeWalking, TypeGrooming, TypeMedical, TypeMedication, TypeOther}

func ParseType(s string) (LogType, bool) {
	t := LogType(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range AllTypes {
		if v == t {
			return t, true
		}
	}
	return "", false
}

// Icon y Label son para salida de texto (CLI).
func (t LogType) Icon() string {
	switch t {
	case TypeFeeding:
		return "🍖"
	case TypeWalking:
		return "🚶"
	case TypeGrooming:
		return "✂️"
	case TypeMedical:
		return "💊"
	case TypeMedication:
		return "💉"
	default:
		return "📝"
	}
}

func (t LogType) Label() string {
	if t == "" {
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

// UsesQuantity / UsesDuration: qué campos opcionales ofrece el formulario
// según el tipo. El contrato no prohíbe mandarlos para otros tipos.
func (t LogType) UsesQuantity() bool { return t == TypeFeeding }
func (t LogType) UsesDuration() bool { return t == TypeWalking }

// FilterType es "all" o uno de los LogType.
type FilterType string

const FilterAll FilterType = "all"

func ParseFilter(s string) (FilterType, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(FilterAll)) {
		return FilterAll, true
	}
	t, ok := ParseType(s)
	if !ok {
		return "", false
	}
	return FilterType(t), true
}

// Log es un evento de cuidado. Se crea y se borra; nunca se edita.
type Log struct {
	ID    string
	PetID string

	Type      LogType
	Timestamp time.Time

	Quantity     *float64
	QuantityUnit *string
	DurationMins *int
	Caregiver    *string
	Notes        *string

	// Seq es el orden de inserción que asigna el store; desempata timestamps iguales.
	Seq int64
}
