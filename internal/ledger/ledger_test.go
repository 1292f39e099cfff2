package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sheikh-saqib/cashbook/internal/idgen"
	"github.com/sheikh-saqib/cashbook/internal/models"
	"github.com/sheikh-saqib/cashbook/internal/models/events"
	"github.com/sheikh-saqib/cashbook/internal/storage"
	"github.com/sheikh-saqib/cashbook/internal/storage/memory"
	"github.com/shopspring/decimal"
)

type published struct {
	key   string
	event any
}

type fakePublisher struct {
	sent []published
	err  error
}

func (f *fakePublisher) Publish(ctx context.Context, key string, event any) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{key: key, event: event})
	return nil
}

// failingStore fails every call.
type failingStore struct {
	memory.ItemStore
	err error
}

func (f *failingStore) SaveItem(ctx context.Context, item models.Item) error { return f.err }
func (f *failingStore) ListItems(ctx context.Context) ([]models.Item, error) {
	return nil, f.err
}

func newTestLedger(pub *fakePublisher) *Ledger {
	var l *Ledger
	if pub == nil {
		l = NewLedger(memory.NewItemStore(), nil, idgen.New())
	} else {
		l = NewLedger(memory.NewItemStore(), pub, idgen.New())
	}
	l.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	l := newTestLedger(pub)

	desc := "Some desc"
	item, err := l.Record(ctx, Posting{Kind: models.Out, Amount: 4200, Description: &desc, Date: "Some date"})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if item.ID != 1 {
		t.Errorf("ID = %d, want 1", item.ID)
	}
	if item.Kind != models.Out || item.Amount != 4200 || item.Date != "Some date" || item.DescriptionOr("") != desc {
		t.Errorf("Record = %+v", item)
	}

	stored, err := l.Item(ctx, item.ID)
	if err != nil {
		t.Fatalf("Item failed: %v", err)
	}
	if stored.Amount != 4200 {
		t.Errorf("stored Amount = %d, want 4200", stored.Amount)
	}

	if len(pub.sent) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.sent))
	}
	if pub.sent[0].key != "1" {
		t.Errorf("event key = %q, want 1", pub.sent[0].key)
	}
	ev, ok := pub.sent[0].event.(events.ItemRecorded)
	if !ok {
		t.Fatalf("event is %T, want events.ItemRecorded", pub.sent[0].event)
	}
	if ev.Signed != -4200 || ev.ItemID != 1 {
		t.Errorf("event = %+v", ev)
	}
}

func TestRecordDefaults(t *testing.T) {
	l := newTestLedger(nil)

	item, err := l.Record(context.Background(), Posting{Kind: models.In})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if item.Amount != 0 || item.Description != nil || item.Date != models.DefaultDate {
		t.Errorf("Record = %+v, want defaults", item)
	}
}

func TestRecordIDsIncrease(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(nil)

	for want := uint64(1); want <= 5; want++ {
		item, err := l.Record(ctx, Posting{Kind: models.In, Amount: 1})
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if item.ID != want {
			t.Errorf("ID = %d, want %d", item.ID, want)
		}
	}
}

func TestRecordPublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(&fakePublisher{err: errors.New("broker down")})

	item, err := l.Record(ctx, Posting{Kind: models.In, Amount: 10})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := l.Item(ctx, item.ID); err != nil {
		t.Errorf("item not stored: %v", err)
	}
}

func TestRecordStoreFailure(t *testing.T) {
	boom := errors.New("disk full")
	pub := &fakePublisher{}
	l := NewLedger(&failingStore{err: boom}, pub, idgen.New())

	_, err := l.Record(context.Background(), Posting{Kind: models.In, Amount: 10})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
	if len(pub.sent) != 0 {
		t.Error("event published for an item that was not stored")
	}
}

func TestItemNotFound(t *testing.T) {
	l := newTestLedger(nil)
	_, err := l.Item(context.Background(), 42)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBalanceAndTotals(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		postings []Posting
		balance  int64
		totals   Totals
	}{
		{
			name:    "empty ledger",
			balance: 0,
			totals:  Totals{},
		},
		{
			name: "income minus expense",
			postings: []Posting{
				{Kind: models.In, Amount: 100},
				{Kind: models.Out, Amount: 30},
			},
			balance: 70,
			totals:  Totals{In: 100, Out: 30, Net: 70},
		},
		{
			name: "overdrawn",
			postings: []Posting{
				{Kind: models.Out, Amount: 50},
				{Kind: models.In, Amount: 20},
				{Kind: models.Out, Amount: 5},
			},
			balance: -35,
			totals:  Totals{In: 20, Out: 55, Net: -35},
		},
		{
			name: "max amounts",
			postings: []Posting{
				{Kind: models.In, Amount: 4294967295},
				{Kind: models.In, Amount: 4294967295},
			},
			balance: 8589934590,
			totals:  Totals{In: 8589934590, Net: 8589934590},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(nil)
			for _, p := range tt.postings {
				if _, err := l.Record(ctx, p); err != nil {
					t.Fatalf("Record failed: %v", err)
				}
			}

			balance, err := l.Balance(ctx)
			if err != nil {
				t.Fatalf("Balance failed: %v", err)
			}
			if !balance.Equal(decimal.NewFromInt(tt.balance)) {
				t.Errorf("Balance = %s, want %d", balance, tt.balance)
			}

			totals, err := l.Totals(ctx)
			if err != nil {
				t.Fatalf("Totals failed: %v", err)
			}
			if totals != tt.totals {
				t.Errorf("Totals = %+v, want %+v", totals, tt.totals)
			}
		})
	}
}

func TestItemsByKind(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(nil)

	l.Record(ctx, Posting{Kind: models.In, Amount: 1})
	l.Record(ctx, Posting{Kind: models.Out, Amount: 2})
	l.Record(ctx, Posting{Kind: models.Out, Amount: 3})

	outs, err := l.ItemsByKind(ctx, models.Out)
	if err != nil {
		t.Fatalf("ItemsByKind failed: %v", err)
	}
	if len(outs) != 2 {
		t.Errorf("got %d out items, want 2", len(outs))
	}

	all, err := l.Items(ctx)
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d items, want 3", len(all))
	}
}

func TestReportingErrors(t *testing.T) {
	boom := errors.New("connection reset")
	l := NewLedger(&failingStore{err: boom}, nil, nil)

	if _, err := l.Balance(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Balance err = %v, want %v", err, boom)
	}
	if _, err := l.Totals(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Totals err = %v, want %v", err, boom)
	}
	if _, err := l.Items(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Items err = %v, want %v", err, boom)
	}
}

// growingStore records a new income item every time it is listed, as if a
// write landed between two reads.
type growingStore struct {
	*memory.ItemStore
	ids   *idgen.Generator
	reads int
}

func (g *growingStore) ListItems(ctx context.Context) ([]models.Item, error) {
	g.reads++
	if err := g.ItemStore.SaveItem(ctx, models.NewItemFrom(g.ids, models.In).WithAmount(10)); err != nil {
		return nil, err
	}
	return g.ItemStore.ListItems(ctx)
}

func TestReportUsesOneSnapshot(t *testing.T) {
	ctx := context.Background()
	store := &growingStore{ItemStore: memory.NewItemStore(), ids: idgen.NewAfter(100)}
	l := NewLedger(store, nil, idgen.New())

	if _, err := l.Record(ctx, Posting{Kind: models.Out, Amount: 4}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	report, err := l.Report(ctx)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if store.reads != 1 {
		t.Errorf("Report read the store %d times, want 1", store.reads)
	}
	if !report.Balance.Equal(decimal.NewFromInt(report.Totals.Net)) {
		t.Errorf("Balance %s disagrees with Net %d", report.Balance, report.Totals.Net)
	}
	if report.Totals.In-report.Totals.Out != report.Totals.Net {
		t.Errorf("Totals = %+v, in - out != net", report.Totals)
	}
	if report.Count != 2 || report.Totals.Net != 6 {
		t.Errorf("Report = %+v, want 2 items netting 6", report)
	}
}

func TestReportErrors(t *testing.T) {
	boom := errors.New("connection reset")
	l := NewLedger(&failingStore{err: boom}, nil, nil)

	if _, err := l.Report(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Report err = %v, want %v", err, boom)
	}
}
