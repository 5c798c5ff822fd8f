package application

import (
	"context"
	"fmt"
	"time"

	"notion-price-sync/internal/domain"
)

// Updater writes a price into a located row.
type Updater struct {
	store  RecordStore
	fields domain.Fields
	clock  Clock
}

func NewUpdater(store RecordStore, fields domain.Fields, clock Clock) *Updater {
	if clock == nil {
		clock = realClock{}
	}
	return &Updater{store: store, fields: fields, clock: clock}
}

// Update checks the schema before writing. The last-updated timestamp is
// only sent when the store defines that field.
func (u *Updater) Update(ctx context.Context, schema domain.Schema, rowID string, price float64) error {
	if !schema.Has(u.fields.Price) {
		return fmt.Errorf("%w: %q", domain.ErrSchemaMissingField, u.fields.Price)
	}
	patch := domain.RowPatch{
		Numbers: map[string]float64{u.fields.Price: price},
	}
	if u.fields.LastUpdated != "" && schema.Has(u.fields.LastUpdated) {
		patch.Dates = map[string]time.Time{u.fields.LastUpdated: u.clock.Now().UTC()}
	}
	return u.store.PatchRow(ctx, rowID, patch)
}
