// Package pgstore is a PostgreSQL EntryStore built on gorm, for sharing one
// journal between machines.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"daylog/internal/day"
	"daylog/internal/storage"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// entryRow is the progress_entries table.
type entryRow struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"index:idx_progress_user_date,priority:1;not null"`
	Date      string    `gorm:"index:idx_progress_user_date,priority:2;size:10;not null"`
	Note      string    `gorm:"type:text"`
	Images    []string  `gorm:"serializer:json"`
	Tags      []string  `gorm:"serializer:json"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (entryRow) TableName() string { return "progress_entries" }

func fromEntry(e storage.Entry) entryRow {
	return entryRow{
		ID:        e.ID,
		UserID:    e.UserID,
		Date:      e.Date,
		Note:      e.Note,
		Images:    e.Images,
		Tags:      e.Tags,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (r entryRow) entry() storage.Entry {
	images := r.Images
	if images == nil {
		images = []string{}
	}
	return storage.Entry{
		ID:        r.ID,
		UserID:    r.UserID,
		Date:      r.Date,
		Note:      r.Note,
		Images:    images,
		Tags:      r.Tags,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

// Store implements storage.EntryStore over PostgreSQL.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

var _ storage.EntryStore = (*Store)(nil)

// Open connects to dsn and migrates the schema.
func Open(dsn string, log *zap.Logger) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres store: empty DSN")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return New(db, log)
}

// New wraps an existing gorm connection and migrates the schema.
func New(db *gorm.DB, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := db.AutoMigrate(&entryRow{}); err != nil {
		return nil, fmt.Errorf("migrate progress_entries: %w", err)
	}
	return &Store{db: db, log: log, now: time.Now}, nil
}

// SetNowFunc overrides the clock used for timestamps.
func (s *Store) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) find(q *gorm.DB) ([]storage.Entry, error) {
	var rows []entryRow
	if err := q.Order("date ASC, created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	out := make([]storage.Entry, len(rows))
	for i, r := range rows {
		out[i] = r.entry()
	}
	return out, nil
}

func (s *Store) user(ctx context.Context, userID string) *gorm.DB {
	return s.db.WithContext(ctx).Model(&entryRow{}).Where("user_id = ?", userID)
}

func (s *Store) FetchAll(ctx context.Context, userID string) ([]storage.Entry, error) {
	return s.find(s.user(ctx, userID))
}

// FetchByDateRange relies on dates being stored as zero-padded YYYY-MM-DD,
// which sorts lexically.
func (s *Store) FetchByDateRange(ctx context.Context, userID string, from, to day.Date) ([]storage.Entry, error) {
	q := s.user(ctx, userID)
	if !from.IsZero() {
		q = q.Where("date >= ?", from.String())
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", to.String())
	}
	return s.find(q)
}

func (s *Store) FetchByMonth(ctx context.Context, userID string, year int, month time.Month) ([]storage.Entry, error) {
	first := day.New(year, month, 1)
	return s.FetchByDateRange(ctx, userID, first, first.EndOfMonth())
}

func (s *Store) FetchByDate(ctx context.Context, userID string, date day.Date) ([]storage.Entry, error) {
	var rows []entryRow
	err := s.user(ctx, userID).Where("date = ?", date.String()).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	out := make([]storage.Entry, len(rows))
	for i, r := range rows {
		out[i] = r.entry()
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, userID, id string) (*storage.Entry, error) {
	var row entryRow
	err := s.user(ctx, userID).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	e := row.entry()
	return &e, nil
}

func (s *Store) Add(ctx context.Context, userID string, in storage.EntryInput) (*storage.Entry, error) {
	e, err := storage.NewEntry(userID, in, s.now().UTC())
	if err != nil {
		return nil, err
	}
	row := fromEntry(e)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	s.log.Debug("entry added", zap.String("id", e.ID), zap.String("date", e.Date))
	return &e, nil
}

func (s *Store) Update(ctx context.Context, userID, id string, patch storage.EntryPatch) (*storage.Entry, error) {
	var updated storage.Entry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row entryRow
		err := tx.Where("user_id = ? AND id = ?", userID, id).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
		}
		if err != nil {
			return err
		}

		e := row.entry()
		if err := storage.ApplyPatch(&e, patch, s.now().UTC()); err != nil {
			return err
		}
		next := fromEntry(e)
		if err := tx.Save(&next).Error; err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Store) Delete(ctx context.Context, userID, id string) (*storage.Entry, error) {
	e, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	res := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&entryRow{})
	if res.Error != nil {
		return nil, fmt.Errorf("delete entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return e, nil
}

func (s *Store) Restore(ctx context.Context, e storage.Entry) error {
	if e.ID == "" || e.UserID == "" {
		return errors.New("restore: entry id and user id are required")
	}
	if _, err := day.Parse(e.Date); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrInvalidDate, err)
	}
	row := fromEntry(e)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("restore entry: %w", err)
	}
	return nil
}

func (s *Store) Tags(ctx context.Context, userID string) ([]string, error) {
	var rows []entryRow
	if err := s.user(ctx, userID).Select("tags").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	entries := make([]storage.Entry, len(rows))
	for i, r := range rows {
		entries[i] = storage.Entry{Tags: r.Tags}
	}
	return storage.CollectTags(entries), nil
}
