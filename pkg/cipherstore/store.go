// Package cipherstore talks to the external homomorphic-encryption engine
// that holds ciphertexts and enforces decryption access. The rest of the
// service only ever sees opaque handles; no plaintext crosses this boundary.
package cipherstore

import (
	"context"
	"errors"
)

// Handle is an opaque, comparable reference to an encrypted value held by
// the cipher engine.
type Handle string

// ErrInvalidProof indicates the engine rejected the ciphertext validity proof.
var ErrInvalidProof = errors.New("cipher engine rejected ciphertext proof")

// ErrUnknownHandle indicates a grant was requested for a handle the engine
// has never issued.
var ErrUnknownHandle = errors.New("unknown ciphertext handle")

// Store is the narrow interface the core consumes. Ingest verifies the proof
// and stores the ciphertext, returning a handle; GrantAccess gives a named
// principal decryption rights over a previously ingested value.
type Store interface {
	Ingest(ctx context.Context, ciphertext, proof []byte) (Handle, error)
	GrantAccess(ctx context.Context, handle Handle, principal string) error
}
