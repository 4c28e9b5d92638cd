// Package store persists alert subscribers and ingested listings in sqlite
// via gorm. The scoring core never touches it; only the alerts and listings
// collaborators do.
package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/firstmover/alert-api/internal/domain"
)

type subscriberRow struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"index"`
	Phone     string `gorm:"index"`
	ZipCode   string
	CreatedAt time.Time
}

func (subscriberRow) TableName() string { return "subscribers" }

type listingRow struct {
	ID         string `gorm:"primaryKey"`
	Address    string
	Price      *int
	Source     string
	IngestedAt time.Time
}

func (listingRow) TableName() string { return "listings" }

// Store wraps the gorm handle.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if necessary) the sqlite database at path and runs
// migrations. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&subscriberRow{}, &listingRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveSubscriber appends a subscription record.
func (s *Store) SaveSubscriber(ctx context.Context, sub domain.Subscriber) (domain.Subscriber, error) {
	row := subscriberRow{
		Email:     sub.Email,
		Phone:     sub.Phone,
		ZipCode:   sub.ZipCode,
		CreatedAt: sub.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Subscriber{}, fmt.Errorf("save subscriber: %w", err)
	}
	sub.ID = row.ID
	return sub, nil
}

// CountSubscribers returns the number of stored subscriptions.
func (s *Store) CountSubscribers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&subscriberRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return n, nil
}

// SaveListing persists an ingested listing.
func (s *Store) SaveListing(ctx context.Context, l domain.Listing) error {
	row := listingRow{
		ID:         l.ID,
		Address:    l.Address,
		Price:      l.Price,
		Source:     l.Source,
		IngestedAt: l.IngestedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save listing: %w", err)
	}
	return nil
}

// Listings returns all ingested listings, newest first.
func (s *Store) Listings(ctx context.Context) ([]domain.Listing, error) {
	var rows []listingRow
	if err := s.db.WithContext(ctx).Order("ingested_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}

	out := make([]domain.Listing, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Listing{
			ID:         row.ID,
			Address:    row.Address,
			Price:      row.Price,
			Source:     row.Source,
			IngestedAt: row.IngestedAt,
		})
	}
	return out, nil
}

// CountListings returns the number of ingested listings.
func (s *Store) CountListings(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&listingRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return n, nil
}
