package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/lib/pq"
	interfaces "github.com/sheikh-saqib/cashbook/internal/interfaces" // interface ItemStore
	"github.com/sheikh-saqib/cashbook/internal/models"
	"github.com/sheikh-saqib/cashbook/internal/storage"
)

// uniqueViolation is the SQLSTATE postgres reports for a primary key clash.
const uniqueViolation = pq.ErrorCode("23505")

const schema = `CREATE TABLE IF NOT EXISTS items (
	id          BIGINT PRIMARY KEY,
	kind        TEXT   NOT NULL CHECK (kind IN ('in', 'out')),
	amount      BIGINT NOT NULL CHECK (amount BETWEEN 0 AND 4294967295),
	description TEXT,
	date        TEXT   NOT NULL
)`

type ItemStore struct {
	db *sql.DB
}

// Open connects to postgres with the lib/pq driver and checks the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{
		db: db,
	}
}

// Migrate creates the items table if it does not exist.
func (p *ItemStore) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate items: %w", err)
	}
	return nil
}

func (p *ItemStore) SaveItem(ctx context.Context, item models.Item) error {
	const query = `INSERT INTO items (id, kind, amount, description, date)
	VALUES ($1,$2,$3,$4,$5)`

	var description sql.NullString
	if item.Description != nil {
		description = sql.NullString{String: *item.Description, Valid: true}
	}

	_, err := p.db.ExecContext(ctx, query, int64(item.ID), item.Kind.String(), int64(item.Amount), description, item.Date)
	if isUniqueViolation(err) {
		return fmt.Errorf("item %d: %w", item.ID, storage.ErrDuplicate)
	}
	return err
}

func (p *ItemStore) GetItem(ctx context.Context, id uint64) (models.Item, error) {
	const query = `SELECT id, kind, amount, description, date FROM items WHERE id = $1`

	item, err := scanItem(p.db.QueryRowContext(ctx, query, int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, fmt.Errorf("item %d: %w", id, storage.ErrNotFound)
	}
	return item, err
}

func (p *ItemStore) ListItems(ctx context.Context) ([]models.Item, error) {
	const query = `SELECT id, kind, amount, description, date FROM items ORDER BY id`

	return p.queryItems(ctx, query)
}

func (p *ItemStore) ListItemsByKind(ctx context.Context, kind models.Entry) ([]models.Item, error) {
	const query = `SELECT id, kind, amount, description, date FROM items
	WHERE kind = $1 ORDER BY id`

	return p.queryItems(ctx, query, kind.String())
}

func (p *ItemStore) LastID(ctx context.Context) (uint64, error) {
	const query = `SELECT COALESCE(MAX(id), 0) FROM items`

	var last int64
	if err := p.db.QueryRowContext(ctx, query).Scan(&last); err != nil {
		return 0, err
	}
	return uint64(last), nil
}

func (p *ItemStore) queryItems(ctx context.Context, query string, args ...any) ([]models.Item, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var items []models.Item

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (models.Item, error) {
	var (
		id          int64
		kind        string
		amount      int64
		description sql.NullString
		date        string
	)
	if err := s.Scan(&id, &kind, &amount, &description, &date); err != nil {
		return models.Item{}, err
	}
	return itemFromRow(id, kind, amount, description, date)
}

func itemFromRow(id int64, kind string, amount int64, description sql.NullString, date string) (models.Item, error) {
	entry, err := models.ParseEntry(kind)
	if err != nil {
		return models.Item{}, fmt.Errorf("item %d: %w", id, err)
	}
	// rows written outside this store may bypass the CHECK on older tables
	if amount < 0 || amount > math.MaxUint32 {
		return models.Item{}, fmt.Errorf("item %d: amount %d out of range", id, amount)
	}
	item := models.Item{
		ID:     uint64(id),
		Kind:   entry,
		Amount: uint32(amount),
		Date:   date,
	}
	if description.Valid {
		item = item.WithDescription(description.String)
	}
	return item, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

var _ interfaces.ItemStore = (*ItemStore)(nil)
