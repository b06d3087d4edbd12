package cipherstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store used when no cipher engine is configured
// (local development) and in tests. It never inspects the ciphertext; it only
// mimics the engine's handle and grant bookkeeping. A proof is accepted when
// it is non-empty.
type Memory struct {
	mu     sync.Mutex
	values map[Handle]*memoryValue
}

type memoryValue struct {
	ciphertext []byte
	grants     map[string]struct{}
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[Handle]*memoryValue)}
}

// Ingest stores the ciphertext under a fresh handle.
func (m *Memory) Ingest(_ context.Context, ciphertext, proof []byte) (Handle, error) {
	if len(proof) == 0 {
		return "", ErrInvalidProof
	}

	handle := Handle(uuid.NewString())

	stored := make([]byte, len(ciphertext))
	copy(stored, ciphertext)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[handle] = &memoryValue{
		ciphertext: stored,
		grants:     make(map[string]struct{}),
	}

	return handle, nil
}

// GrantAccess records decryption rights for principal over handle.
func (m *Memory) GrantAccess(_ context.Context, handle Handle, principal string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.values[handle]
	if !ok {
		return ErrUnknownHandle
	}

	value.grants[principal] = struct{}{}

	return nil
}

// HasAccess reports whether principal holds decryption rights over handle.
func (m *Memory) HasAccess(handle Handle, principal string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.values[handle]
	if !ok {
		return false
	}

	_, granted := value.grants[principal]

	return granted
}
