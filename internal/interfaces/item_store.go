package interfaces

import (
	"context"

	"github.com/sheikh-saqib/cashbook/internal/models"
)

type ItemStore interface {
	SaveItem(ctx context.Context, item models.Item) error
	GetItem(ctx context.Context, id uint64) (models.Item, error)
	ListItems(ctx context.Context) ([]models.Item, error)
	ListItemsByKind(ctx context.Context, kind models.Entry) ([]models.Item, error)
	// LastID returns the highest stored item id, or 0 when empty.
	LastID(ctx context.Context) (uint64, error)
}
