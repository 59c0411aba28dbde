package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/haulwatch/haulwatch/internal/config"
	"github.com/haulwatch/haulwatch/internal/service"
	"github.com/haulwatch/haulwatch/internal/storage"
)

// initStore opens the run store and brings its schema up to date.
func initStore(ctx context.Context) (service.RunStore, error) {
	dbPath := config.DatabasePath()
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// parseReferenceDate interprets the reference date setting. An empty value
// means today, truncated to midnight UTC.
func parseReferenceDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reference date %q (want 2006-01-02): %w", s, err)
	}
	return t, nil
}
