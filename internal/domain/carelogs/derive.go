package carelogs

import (
	"sort"
	"strings"
)

// DeriveView filtra logs por tipo y por texto. Es pura y conserva el orden de
// entrada: nunca reordena.
func DeriveView(logs []Log, filter FilterType, search string) []Log {
	if filter == "" {
		filter = FilterAll
	}
	term := strings.ToLower(search)

	out := make([]Log, 0, len(logs))
	for _, l := range logs {
		if !matchesType(l, filter) {
			continue
		}
		if !matchesSearch(l, term) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matchesType(l Log, filter FilterType) bool {
	return filter == FilterAll || string(l.Type) == string(filter)
}

// term ya viene en minúsculas; vacío pasa todo.
func matchesSearch(l Log, term string) bool {
	if term == "" {
		return true
	}
	if l.Notes != nil && strings.Contains(strings.ToLower(*l.Notes), term) {
		return true
	}
	if l.Caregiver != nil && strings.Contains(strings.ToLower(*l.Caregiver), term) {
		return true
	}
	return false
}

// SortForView ordena in-place: timestamp desc, y a igual timestamp por orden
// de inserción del store.
func SortForView(logs []Log) {
	sort.SliceStable(logs, func(i, j int) bool {
		a, b := logs[i], logs[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.Seq < b.Seq
	})
}
