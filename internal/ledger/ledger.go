package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/sheikh-saqib/cashbook/internal/idgen"
	interfaces "github.com/sheikh-saqib/cashbook/internal/interfaces"
	"github.com/sheikh-saqib/cashbook/internal/models"
	"github.com/sheikh-saqib/cashbook/internal/models/events"
	"github.com/shopspring/decimal"
)

// Ledger records items and reports on them.
// It holds the storage layer, an optional event publisher and the
// generator that assigns item ids.
type Ledger struct {
	store     interfaces.ItemStore
	publisher interfaces.EventPublisher // nil disables events
	ids       models.IDSource
	now       func() time.Time
}

// Posting describes an item to record. A nil Description leaves the item
// without one; an empty Date keeps models.DefaultDate.
type Posting struct {
	Kind        models.Entry
	Amount      uint32
	Description *string
	Date        string
}

// Totals splits the ledger into its income and expense magnitudes.
type Totals struct {
	In  int64 `json:"in"`
	Out int64 `json:"out"`
	Net int64 `json:"net"`
}

// Report is a consistent view of the ledger at one point in time.
type Report struct {
	Balance decimal.Decimal
	Totals  Totals
	Count   int
}

// NewLedger creates a Ledger. publisher may be nil. A nil ids falls back to
// the process-wide generator.
func NewLedger(store interfaces.ItemStore, publisher interfaces.EventPublisher, ids models.IDSource) *Ledger {
	if ids == nil {
		ids = idgen.Default
	}
	return &Ledger{
		store:     store,
		publisher: publisher,
		ids:       ids,
		now:       time.Now,
	}
}

// Record builds an item from p, stores it and publishes an ItemRecorded
// event. A failed publish is logged, not returned: the item is already stored.
func (l *Ledger) Record(ctx context.Context, p Posting) (models.Item, error) {
	item := models.NewItemFrom(l.ids, p.Kind).WithAmount(p.Amount)
	if p.Description != nil {
		item = item.WithDescription(*p.Description)
	}
	if p.Date != "" {
		item = item.WithDate(p.Date)
	}

	if err := l.store.SaveItem(ctx, item); err != nil {
		return models.Item{}, fmt.Errorf("save item: %w", err)
	}
	slog.InfoContext(ctx, "item recorded", "item_id", item.ID, "kind", item.Kind, "amount", item.Amount)

	if l.publisher != nil {
		event := events.NewItemRecorded(item, l.now())
		if err := l.publisher.Publish(ctx, strconv.FormatUint(item.ID, 10), event); err != nil {
			slog.WarnContext(ctx, "publish item event failed", "item_id", item.ID, "error", err)
		}
	}
	return item, nil
}

func (l *Ledger) Item(ctx context.Context, id uint64) (models.Item, error) {
	return l.store.GetItem(ctx, id)
}

func (l *Ledger) Items(ctx context.Context) ([]models.Item, error) {
	items, err := l.store.ListItems(ctx)
	if err != nil {
		return []models.Item{}, err
	}
	return items, nil
}

func (l *Ledger) ItemsByKind(ctx context.Context, kind models.Entry) ([]models.Item, error) {
	items, err := l.store.ListItemsByKind(ctx, kind)
	if err != nil {
		return []models.Item{}, err
	}
	return items, nil
}

// Balance folds every item's signed value into an arbitrary precision
// decimal, so it cannot overflow.
func (l *Ledger) Balance(ctx context.Context) (decimal.Decimal, error) {
	items, err := l.store.ListItems(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return balanceOf(items), nil
}

// Totals sums income and expenses separately with checked arithmetic.
// It returns models.ErrSumOverflow if any total leaves the int64 range.
func (l *Ledger) Totals(ctx context.Context) (Totals, error) {
	items, err := l.store.ListItems(ctx)
	if err != nil {
		return Totals{}, err
	}
	return totalsOf(items)
}

// Report computes the balance and totals from a single read of the store,
// so Balance always equals Totals.Net.
func (l *Ledger) Report(ctx context.Context) (Report, error) {
	items, err := l.store.ListItems(ctx)
	if err != nil {
		return Report{}, err
	}

	totals, err := totalsOf(items)
	if err != nil {
		return Report{}, err
	}
	return Report{Balance: balanceOf(items), Totals: totals, Count: len(items)}, nil
}

func balanceOf(items []models.Item) decimal.Decimal {
	balance := decimal.NewFromInt((models.Item{}).Empty())
	for _, item := range items {
		balance = balance.Add(decimal.NewFromInt(item.Extract()))
	}
	return balance
}

func totalsOf(items []models.Item) (Totals, error) {
	var ins, outs []models.Item
	for _, item := range items {
		if item.Kind == models.Out {
			outs = append(outs, item)
		} else {
			ins = append(ins, item)
		}
	}

	in, err := models.Sum(ins)
	if err != nil {
		return Totals{}, err
	}
	out, err := models.Sum(outs)
	if err != nil {
		return Totals{}, err
	}
	net, err := models.Sum(items)
	if err != nil {
		return Totals{}, err
	}
	return Totals{In: in, Out: -out, Net: net}, nil
}
