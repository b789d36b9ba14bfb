// SPDX-FileCopyrightText: 2024 EdgeKit, Inc.
// SPDX-License-Identifier: Apache-2.0
package main

import (
	"errors"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/goph/emperror"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNoValue is returned by DataStore reads when nothing is stored under the
// requested key.
var ErrNoValue = errors.New("no value stored for key")

// DataStore is the narrow key-value persistence contract the relay depends
// on.  Map writes are whole-map replacements, never per-key merges, so
// concurrent writers cannot interleave partial updates.  Implementations must
// be safe for concurrent use.
type DataStore interface {
	GetMap(key string) (map[string]string, error)
	SetMap(key string, value map[string]string) error
	GetInt64(key string) (int64, error)
	SetInt64(key string, value int64) error
	Remove(key string) error
}

// dataStoreKeyPrefix namespaces relay keys inside a shared keyspace.
const dataStoreKeyPrefix = "edgerelay:store:"

// PebbleDataStore persists values in a local pebble instance, msgpack-encoded.
// Suitable for single-node deployments; see RedisDataStore for shared ones.
type PebbleDataStore struct {
	db *pebble.DB
}

func NewPebbleDataStore(db *pebble.DB) *PebbleDataStore {
	return &PebbleDataStore{db: db}
}

func (p *PebbleDataStore) get(key string, out interface{}) error {
	raw, closer, err := p.db.Get([]byte(dataStoreKeyPrefix + key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return ErrNoValue
		}
		return emperror.Wrap(err, "pebble read failed")
	}
	defer closer.Close()

	if err := msgpack.Unmarshal(raw, out); err != nil {
		return emperror.WrapWith(err, "corrupt stored value", "key", key)
	}
	return nil
}

func (p *PebbleDataStore) set(key string, value interface{}) error {
	raw, err := msgpack.Marshal(value)
	if err != nil {
		return emperror.WrapWith(err, "encoding stored value failed", "key", key)
	}
	return p.db.Set([]byte(dataStoreKeyPrefix+key), raw, pebble.Sync)
}

func (p *PebbleDataStore) GetMap(key string) (map[string]string, error) {
	var m map[string]string
	if err := p.get(key, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (p *PebbleDataStore) SetMap(key string, value map[string]string) error {
	return p.set(key, value)
}

func (p *PebbleDataStore) GetInt64(key string) (int64, error) {
	var v int64
	if err := p.get(key, &v); err != nil {
		return 0, err
	}
	return v, nil
}

func (p *PebbleDataStore) SetInt64(key string, value int64) error {
	return p.set(key, value)
}

func (p *PebbleDataStore) Remove(key string) error {
	return p.db.Delete([]byte(dataStoreKeyPrefix+key), pebble.Sync)
}

// MemoryDataStore is an in-memory DataStore for tests and ephemeral runs.
type MemoryDataStore struct {
	lock sync.Mutex
	maps map[string]map[string]string
	ints map[string]int64
}

func NewMemoryDataStore() *MemoryDataStore {
	return &MemoryDataStore{
		maps: make(map[string]map[string]string),
		ints: make(map[string]int64),
	}
}

func (m *MemoryDataStore) GetMap(key string) (map[string]string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	stored, ok := m.maps[key]
	if !ok {
		return nil, ErrNoValue
	}

	out := make(map[string]string, len(stored))
	for k, v := range stored {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryDataStore) SetMap(key string, value map[string]string) error {
	stored := make(map[string]string, len(value))
	for k, v := range value {
		stored[k] = v
	}

	m.lock.Lock()
	m.maps[key] = stored
	m.lock.Unlock()
	return nil
}

func (m *MemoryDataStore) GetInt64(key string) (int64, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	v, ok := m.ints[key]
	if !ok {
		return 0, ErrNoValue
	}
	return v, nil
}

func (m *MemoryDataStore) SetInt64(key string, value int64) error {
	m.lock.Lock()
	m.ints[key] = value
	m.lock.Unlock()
	return nil
}

func (m *MemoryDataStore) Remove(key string) error {
	m.lock.Lock()
	delete(m.maps, key)
	delete(m.ints, key)
	m.lock.Unlock()
	return nil
}
