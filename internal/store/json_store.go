package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONStore keeps every record in a single JSON object on disk.
type JSONStore struct {
	filePath string
	mu       sync.RWMutex
	records  map[string]json.RawMessage
}

func NewJSONStore(filePath string) (*JSONStore, error) {
	s := &JSONStore{
		filePath: filePath,
		records:  make(map[string]json.RawMessage),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.records[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *JSONStore) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("record %q is not valid JSON", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = append(json.RawMessage(nil), value...)
	return s.persistLocked()
}

func (s *JSONStore) SetMany(_ context.Context, records map[string][]byte) error {
	for key, value := range records {
		if !json.Valid(value) {
			return fmt.Errorf("record %q is not valid JSON", key)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range records {
		s.records[key] = append(json.RawMessage(nil), value...)
	}
	return s.persistLocked()
}

func (s *JSONStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return nil
	}
	delete(s.records, key)
	return s.persistLocked()
}

func (s *JSONStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterPrefix(sortedKeys(s.records), prefix), nil
}

func (s *JSONStore) Close() error {
	return nil
}

// load reads the file if present. An unparsable file is moved aside to
// <path>.corrupt and the store starts empty.
func (s *JSONStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var records map[string]json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return os.Rename(s.filePath, s.filePath+".corrupt")
	}
	if records != nil {
		s.records = records
	}
	return nil
}

func (s *JSONStore) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.filePath)
}
