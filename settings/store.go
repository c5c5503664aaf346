// store.go: Key-value backends for settings.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"fmt"
	"sync"

	bolt "go.etcd.io/bbolt"
)

// Store is an opaque string key-value store. Values written by Settings are
// envelope strings or plain non-secret values; the store never interprets
// them.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Put(key, value string) error
	Delete(key string) error
}

// Entry is one key-value pair of a batch write.
type Entry struct {
	Key   string
	Value string
}

// Batcher is implemented by stores that can write several entries
// atomically. Settings uses it when a change spans more than one key.
type Batcher interface {
	PutBatch(entries []Entry) error
}

// MemoryStore is a Store backed by a map. Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get implements Store.
func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Put implements Store.
func (m *MemoryStore) Put(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// PutBatch implements Batcher.
func (m *MemoryStore) PutBatch(entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.values[e.Key] = e.Value
	}
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// settingsBucket holds every key written through a BoltStore.
var settingsBucket = []byte("settings")

// BoltStore is a Store persisted in a single bbolt file.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens or creates the database at path and makes sure the
// settings bucket exists.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(settingsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", settingsBucket, err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Get implements Store.
func (s *BoltStore) Get(key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(settingsBucket)
		if b == nil {
			return fmt.Errorf("settings bucket not found")
		}
		// string() copies, the slice is only valid during the transaction
		if v := b.Get([]byte(key)); v != nil {
			value, ok = string(v), true
		}
		return nil
	})
	return value, ok, err
}

// Put implements Store.
func (s *BoltStore) Put(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(settingsBucket).Put([]byte(key), []byte(value))
	})
}

// PutBatch implements Batcher. All entries are written in one transaction.
func (s *BoltStore) PutBatch(entries []Entry) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(settingsBucket)
		for _, e := range entries {
			if err := b.Put([]byte(e.Key), []byte(e.Value)); err != nil {
				return fmt.Errorf("failed to put %s: %w", e.Key, err)
			}
		}
		return nil
	})
}

// Delete implements Store.
func (s *BoltStore) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(settingsBucket).Delete([]byte(key))
	})
}
