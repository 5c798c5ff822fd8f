package application

import (
	"context"
	"fmt"

	"notion-price-sync/internal/domain"
)

// Locator resolves an instrument name to the id of its row.
type Locator struct {
	store      RecordStore
	titleField string
}

func NewLocator(store RecordStore, titleField string) *Locator {
	return &Locator{store: store, titleField: titleField}
}

// Find returns the id of the only row whose title equals title.
// No match and more than one match are both errors.
func (l *Locator) Find(ctx context.Context, storeID, title string) (string, error) {
	ids, err := l.store.QueryByTitle(ctx, storeID, l.titleField, title)
	if err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: store %s has no row with %s == %q", domain.ErrRecordNotFound, storeID, l.titleField, title)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: store %s has %d rows with %s == %q", domain.ErrAmbiguousRecord, storeID, len(ids), l.titleField, title)
	}
}
