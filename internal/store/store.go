// Package store persists JSON documents under namespaced keys.
//
// Backends deal in raw bytes. The generic helpers Get, Set and Update add JSON
// encoding on top, and Get never fails: absent, unreadable or undecodable
// records all yield the caller's fallback.
package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// BatchSetter is implemented by backends that can write several records at once.
type BatchSetter interface {
	SetMany(ctx context.Context, records map[string][]byte) error
}

// Get decodes the record under key, returning fallback on absence or any failure.
func Get[T any](ctx context.Context, s Store, key string, fallback T) T {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return fallback
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return fallback
	}
	return value
}

// Set encodes value and overwrites the record under key.
func Set[T any](ctx context.Context, s Store, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, raw)
}

// Update reads the record (or fallback), applies fn and writes the result back.
// It is not atomic against concurrent writers.
func Update[T any](ctx context.Context, s Store, key string, fn func(T) T, fallback T) (T, error) {
	next := fn(Get(ctx, s, key, fallback))
	if err := Set(ctx, s, key, next); err != nil {
		return next, err
	}
	return next, nil
}

// SetMany writes all records, in one batch when the backend supports it.
func SetMany(ctx context.Context, s Store, records map[string][]byte) error {
	if batch, ok := s.(BatchSetter); ok {
		return batch.SetMany(ctx, records)
	}
	for _, key := range sortedKeys(records) {
		if err := s.Set(ctx, key, records[key]); err != nil {
			return err
		}
	}
	return nil
}

type namespaced struct {
	inner     Store
	namespace string
}

// Namespaced prefixes every key with namespace before it reaches inner.
func Namespaced(inner Store, namespace string) Store {
	if namespace == "" {
		return inner
	}
	return &namespaced{inner: inner, namespace: namespace}
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.inner.Get(ctx, n.namespace+key)
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.inner.Set(ctx, n.namespace+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.namespace+key)
}

func (n *namespaced) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := n.inner.Keys(ctx, n.namespace+prefix)
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(keys))
	for _, key := range keys {
		result = append(result, strings.TrimPrefix(key, n.namespace))
	}
	return result, nil
}

func (n *namespaced) SetMany(ctx context.Context, records map[string][]byte) error {
	prefixed := make(map[string][]byte, len(records))
	for key, value := range records {
		prefixed[n.namespace+key] = value
	}
	return SetMany(ctx, n.inner, prefixed)
}

func (n *namespaced) Close() error {
	return n.inner.Close()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func filterPrefix(keys []string, prefix string) []string {
	result := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			result = append(result, key)
		}
	}
	return result
}
