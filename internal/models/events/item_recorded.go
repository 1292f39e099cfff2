package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/sheikh-saqib/cashbook/internal/models"
)

// ItemRecorded is published after an item has been stored.
type ItemRecorded struct {
	EventID     string       `json:"event_id"`
	ItemID      uint64       `json:"item_id"`
	Kind        models.Entry `json:"kind"`
	Amount      uint32       `json:"amount"`
	Signed      int64        `json:"signed"`
	Description *string      `json:"description,omitempty"`
	Date        string       `json:"date"`
	OccurredAt  time.Time    `json:"occurred_at"`
}

func NewItemRecorded(item models.Item, at time.Time) ItemRecorded {
	item = item.Clone()
	return ItemRecorded{
		EventID:     uuid.New().String(),
		ItemID:      item.ID,
		Kind:        item.Kind,
		Amount:      item.Amount,
		Signed:      item.Extract(),
		Description: item.Description,
		Date:        item.Date,
		OccurredAt:  at,
	}
}
