package domain

import "time"

// Schema maps property name to property type for one record store.
type Schema map[string]string

func (s Schema) Has(field string) bool {
	_, ok := s[field]
	return ok
}

// RowPatch carries the field values written to a row in a single request.
type RowPatch struct {
	Numbers map[string]float64
	Dates   map[string]time.Time
}
