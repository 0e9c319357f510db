package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"food-console/config"
	"food-console/db"
	"food-console/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	saveBorder       = "===================="
	saveTimestampFmt = "2006-01-02 15:04:05"
)

// OrderStore persists saved orders and renders them back for "View Saves".
type OrderStore interface {
	SaveOrder(ctx context.Context, rec models.SavedOrder) error
	// LoadSaves returns every saved block in save order, or "" when nothing was saved.
	LoadSaves(ctx context.Context) (string, error)
}

// NewSavedOrder snapshots o at time now. o must hold at least one item.
func NewSavedOrder(o *Order, now time.Time) models.SavedOrder {
	return models.SavedOrder{
		Ref:          uuid.NewString(),
		CustomerName: o.CustomerName,
		IsDelivery:   o.IsDelivery,
		Address:      o.Address,
		ItemsTotal:   o.Total(),
		DeliveryFee:  o.DeliveryCharge(),
		GrandTotal:   o.GrandTotal(),
		Summary:      o.Summary(),
		SavedAt:      now,
	}
}

// FormatSaveEntry renders the block appended to the saves log.
func FormatSaveEntry(rec models.SavedOrder) string {
	return fmt.Sprintf("%s\n%s: %s\n%s\n",
		saveBorder, rec.SavedAt.Local().Format(saveTimestampFmt), rec.Summary, saveBorder)
}

func formatSaves(recs []models.SavedOrder) string {
	var b strings.Builder
	for _, r := range recs {
		b.WriteString(FormatSaveEntry(r))
	}
	return b.String()
}

// FileStore appends saved orders to a flat, human-readable log file.
type FileStore struct {
	Path string
}

func (s *FileStore) SaveOrder(_ context.Context, rec models.SavedOrder) error {
	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open saves file %s: %w", s.Path, err)
	}
	if _, err := f.WriteString(FormatSaveEntry(rec)); err != nil {
		f.Close()
		return fmt.Errorf("append saves file %s: %w", s.Path, err)
	}
	return f.Close()
}

func (s *FileStore) LoadSaves(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read saves file %s: %w", s.Path, err)
	}
	return string(data), nil
}

// PostgresStore keeps saved orders in the saved_orders table through db.Pool.
type PostgresStore struct{}

func (PostgresStore) SaveOrder(ctx context.Context, rec models.SavedOrder) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO saved_orders (
			ref, customer_name, is_delivery, address,
			items_total, delivery_fee, grand_total, summary, saved_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.Ref, rec.CustomerName, rec.IsDelivery, rec.Address,
		rec.ItemsTotal, rec.DeliveryFee, rec.GrandTotal, rec.Summary, rec.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("insert saved order: %w", err)
	}
	return nil
}

func (PostgresStore) LoadSaves(ctx context.Context) (string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, ref, customer_name, is_delivery, address,
			items_total, delivery_fee, grand_total, summary, saved_at
		FROM saved_orders
		ORDER BY saved_at, id`,
	)
	if err != nil {
		return "", fmt.Errorf("query saved orders: %w", err)
	}
	defer rows.Close()

	var recs []models.SavedOrder
	for rows.Next() {
		var r models.SavedOrder
		var id int64
		if err := rows.Scan(&id, &r.Ref, &r.CustomerName, &r.IsDelivery, &r.Address,
			&r.ItemsTotal, &r.DeliveryFee, &r.GrandTotal, &r.Summary, &r.SavedAt); err != nil {
			return "", fmt.Errorf("scan saved order: %w", err)
		}
		r.ID = uint(id)
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate saved orders: %w", err)
	}
	return formatSaves(recs), nil
}

// SQLiteStore keeps saved orders in a local SQLite database via gorm.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore migrates the saved_orders table on gdb.
func NewSQLiteStore(gdb *gorm.DB) (*SQLiteStore, error) {
	if err := gdb.AutoMigrate(&models.SavedOrder{}); err != nil {
		return nil, fmt.Errorf("migrate saved_orders: %w", err)
	}
	return &SQLiteStore{db: gdb}, nil
}

func (s *SQLiteStore) SaveOrder(ctx context.Context, rec models.SavedOrder) error {
	rec.ID = 0
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert saved order: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadSaves(ctx context.Context) (string, error) {
	var recs []models.SavedOrder
	if err := s.db.WithContext(ctx).Order("saved_at, id").Find(&recs).Error; err != nil {
		return "", fmt.Errorf("query saved orders: %w", err)
	}
	return formatSaves(recs), nil
}

// OpenOrderStore returns the store selected by cfg.Saves.Backend and a function that
// releases its resources.
func OpenOrderStore(cfg *config.Config) (OrderStore, func(), error) {
	switch cfg.Saves.Backend {
	case config.SavesBackendPostgres:
		if err := db.Init(cfg.DB); err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		return PostgresStore{}, db.Close, nil
	case config.SavesBackendSQLite:
		gdb, err := db.OpenSQLite(cfg.Saves.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		store, err := NewSQLiteStore(gdb)
		if err != nil {
			_ = db.CloseSQLite(gdb)
			return nil, nil, err
		}
		return store, func() { _ = db.CloseSQLite(gdb) }, nil
	default:
		return &FileStore{Path: cfg.Saves.File}, func() {}, nil
	}
}
