// Package db provides the user record store and its optional Postgres backing.
package db

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dsjohal14/peoplepicker/internal/scope/record"
)

// Store keeps user records in memory in their source order
type Store struct {
	mu      sync.RWMutex
	records []record.Record
	byID    map[string]int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		records: make([]record.Record, 0),
		byID:    make(map[string]int),
	}
}

// OpenStore creates a store loaded from a dataset file
func OpenStore(path string) (*Store, error) {
	s := NewStore()
	if err := s.LoadFile(path); err != nil {
		return nil, err
	}
	return s, nil
}

// add appends a record, replacing any record with the same ID in place
func (s *Store) add(rec record.Record) {
	if i, ok := s.byID[rec.ID]; ok {
		s.records[i] = rec
		return
	}
	s.byID[rec.ID] = len(s.records)
	s.records = append(s.records, rec)
}

// Replace swaps the whole record set, keeping the first occurrence order of IDs
func (s *Store) Replace(records []record.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]record.Record, 0, len(records))
	s.byID = make(map[string]int, len(records))
	for _, rec := range records {
		s.add(rec)
	}
}

// Get retrieves a record by ID
func (s *Store) Get(id string) (record.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return record.Record{}, false
	}
	return s.records[i], true
}

// All returns a snapshot of every record in store order
func (s *Store) All() []record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]record.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Count returns the number of records in the store
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close releases the store
func (s *Store) Close() error {
	return nil
}

// LoadFile replaces the store contents with a dataset file.
// Files ending in .jsonl hold one record per line; anything else is a JSON array.
func (s *Store) LoadFile(path string) error {
	records, err := ReadDataset(path)
	if err != nil {
		return err
	}
	s.Replace(records)
	return nil
}

// ReadDataset decodes a JSON array or JSONL dataset file
func ReadDataset(path string) ([]record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return readJSONL(f)
	}

	var records []record.Record
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %w", path, err)
	}
	return records, nil
}

func readJSONL(f *os.File) ([]record.Record, error) {
	records := make([]record.Record, 0)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var rec record.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record on line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, scanner.Err()
}

// WriteDataset writes records in the format ReadDataset expects for path.
// The file is written next to path and renamed into place.
func WriteDataset(path string, records []record.Record) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}

	if err := encodeDataset(f, path, records); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close dataset file: %w", err)
	}
	return os.Rename(tmp, path)
}

func encodeDataset(f *os.File, path string, records []record.Record) error {
	encoder := json.NewEncoder(f)
	if !strings.EqualFold(filepath.Ext(path), ".jsonl") {
		if records == nil {
			records = []record.Record{}
		}
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(records); err != nil {
			return fmt.Errorf("failed to encode dataset: %w", err)
		}
		return nil
	}

	for i := range records {
		if err := encoder.Encode(records[i]); err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
	}
	return nil
}
