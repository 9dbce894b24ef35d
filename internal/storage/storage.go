package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/voltscout/supplier-scraper/internal/models"
)

// SnapshotStore keeps the latest scrape result per supplier and kind in a
// single JSON file. It is the sink for CLI runs without a database.
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]*models.ScrapeResult
	filename  string
}

func NewSnapshotStore(filename string) (*SnapshotStore, error) {
	s := &SnapshotStore{
		snapshots: make(map[string]*models.ScrapeResult),
		filename:  filename,
	}

	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// Put replaces the stored snapshot for the result's supplier and kind.
func (s *SnapshotStore) Put(result *models.ScrapeResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.Supplier == "" || result.Kind == "" {
		return fmt.Errorf("snapshot needs supplier and kind")
	}
	if result.ScrapedAt.IsZero() {
		result.ScrapedAt = time.Now()
	}

	s.snapshots[key(result.Supplier, result.Kind)] = result
	return s.save()
}

// Get returns the stored snapshot for a supplier and kind, if any.
func (s *SnapshotStore) Get(supplier, kind string) (*models.ScrapeResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.snapshots[key(supplier, kind)]
	return result, ok
}

// Stats counts stored records per kind plus a total.
func (s *SnapshotStore) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]int)
	total := 0
	for _, result := range s.snapshots {
		stats[result.Kind] += result.Count()
		total += result.Count()
	}
	stats["total"] = total
	return stats
}

func key(supplier, kind string) string {
	return supplier + "/" + kind
}

func (s *SnapshotStore) save() error {
	data, err := json.MarshalIndent(s.snapshots, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first for atomicity
	tmpFile := s.filename + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpFile, s.filename)
}

func (s *SnapshotStore) load() error {
	data, err := os.ReadFile(s.filename)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, &s.snapshots)
}
