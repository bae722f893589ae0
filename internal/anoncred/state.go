package anoncred

import "context"

// StateStore is the persisted state of the credential engine: the admin
// identity, the issuer registry, the per-attribute rings and the verification
// counter. Implementations must linearize writes and give readers a complete
// snapshot, never a partially written ring. Points cross this boundary as
// uncompressed 96-byte G1 encodings; secret scalars never do.
//
// The store is handed to every service explicitly. There is no package-level
// singleton, and tearing the store down tears the whole engine state down
// with it.
type StateStore interface {
	// InitAdmin records the admin identity exactly once and returns
	// ErrAlreadyInitialized on any later call.
	InitAdmin(ctx context.Context, admin string) error

	// Admin returns the recorded admin identity, or "" when the engine
	// has not been initialized.
	Admin(ctx context.Context) (string, error)

	// AppendIssuer adds an issuer public key to the registry, preserving
	// insertion order. Returns ErrDuplicateIssuer when the key is already
	// present.
	AppendIssuer(ctx context.Context, pub []byte) error

	// Issuers returns the registered issuer keys in registration order.
	Issuers(ctx context.Context) ([][]byte, error)

	// HasIssuer reports whether the public key is registered.
	HasIssuer(ctx context.Context, pub []byte) (bool, error)

	// SaveRing stores the member list under the attribute, replacing any
	// prior ring wholesale.
	SaveRing(ctx context.Context, attribute string, members [][]byte) error

	// GetRing returns the current ring snapshot for the attribute, or
	// ErrRingNotFound.
	GetRing(ctx context.Context, attribute string) ([][]byte, error)

	// IncrementVerifications atomically adds one to the verification
	// counter and returns the new value. Lost increments under concurrent
	// successful verifications are a correctness bug.
	IncrementVerifications(ctx context.Context) (uint64, error)

	// VerificationCount returns the current counter value.
	VerificationCount(ctx context.Context) (uint64, error)
}
