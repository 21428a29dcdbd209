package pets

import (
	"strings"
	"time"
)

// Species define las especies soportadas.
// @Enum dog, cat, bird, rabbit, other
type Species string

const (
	SpeciesDog    Species = "dog"
	SpeciesCat    Species = "cat"
	SpeciesBird   Species = "bird"
	SpeciesRabbit Species = "rabbit"
	SpeciesOther  Species = "other"
)

// AllSpecies en el orden en que se ofrecen al usuario.
var AllSpecies = []Species{SpeciesDog, SpeciesCat, SpeciesBird, SpeciesRabbit, SpeciesOther}

func ParseSpecies(s string) (Species, bool) {
	sp := Species(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range AllSpecies {
		if v == sp {
			return sp, true
		}
	}
	return "", false
}

// Pet es el perfil de una mascota. Pertenece a un solo owner y no se edita
// en el lugar: se crea y se lee.
type Pet struct {
	ID      string
	OwnerID string

	Name    string
	Species Species

	Breed       *string
	DateOfBirth *time.Time // solo fecha (YYYY-MM-DD)
	Notes       *string
	PhotoURL    *string

	CreatedAt time.Time
}

const DateLayout = "2006-01-02"
