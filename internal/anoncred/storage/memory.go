// Package storage provides the StateStore implementations: an in-process
// store for tests and single-node deployments, a Redis store and a
// PostgreSQL store.
package storage

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/attestra/go-anoncred-infra/internal/anoncred"
	"github.com/attestra/go-anoncred-infra/internal/anoncred/group"
)

// MemoryStore keeps the engine state in process memory. A single RWMutex
// linearizes all mutations; readers always observe complete rings. The
// counter uses an atomic so concurrent successful verifications never lose
// increments.
type MemoryStore struct {
	mu      sync.RWMutex
	admin   string
	issuers [][]byte
	rings   map[string][][]byte
	counter atomic.Uint64
}

// NewMemoryStore creates an empty in-memory state.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rings: make(map[string][][]byte)}
}

func (m *MemoryStore) InitAdmin(_ context.Context, admin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.admin != "" {
		return anoncred.ErrAlreadyInitialized
	}
	m.admin = admin
	return nil
}

func (m *MemoryStore) Admin(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.admin, nil
}

func (m *MemoryStore) AppendIssuer(_ context.Context, pub []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.issuers {
		if group.ConstantTimeEqualBytes(existing, pub) {
			return anoncred.ErrDuplicateIssuer
		}
	}
	m.issuers = append(m.issuers, cloneBytes(pub))
	return nil
}

func (m *MemoryStore) Issuers(_ context.Context) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][]byte, len(m.issuers))
	for i, b := range m.issuers {
		out[i] = cloneBytes(b)
	}
	return out, nil
}

func (m *MemoryStore) HasIssuer(_ context.Context, pub []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, existing := range m.issuers {
		if group.ConstantTimeEqualBytes(existing, pub) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) SaveRing(_ context.Context, attribute string, members [][]byte) error {
	snapshot := make([][]byte, len(members))
	for i, b := range members {
		snapshot[i] = cloneBytes(b)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rings[attribute] = snapshot
	return nil
}

func (m *MemoryStore) GetRing(_ context.Context, attribute string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ring, ok := m.rings[attribute]
	if !ok {
		return nil, anoncred.ErrRingNotFound
	}
	out := make([][]byte, len(ring))
	for i, b := range ring {
		out[i] = cloneBytes(b)
	}
	return out, nil
}

func (m *MemoryStore) IncrementVerifications(_ context.Context) (uint64, error) {
	return m.counter.Add(1), nil
}

func (m *MemoryStore) VerificationCount(_ context.Context) (uint64, error) {
	return m.counter.Load(), nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
