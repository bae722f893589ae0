package anoncred

import "github.com/pkg/errors"

// Error taxonomy of the credential engine. Every failure is terminal for the
// call that raised it; the engine never retries internally. A cryptographically
// invalid signature is NOT in this list: verification reports it as a plain
// false result, and reserves errors for missing or malformed state/input.
var (
	// ErrAlreadyInitialized is returned when Initialize is called on an
	// engine state that already has an admin.
	ErrAlreadyInitialized = errors.New("engine already initialized")

	// ErrUnauthorized is returned when a mutation is attempted by an
	// identity that is not the admin (registry) or not a registered
	// issuer (ring store).
	ErrUnauthorized = errors.New("caller is not authorized")

	// ErrDuplicateIssuer is returned when registering a public key that is
	// already in the issuer registry.
	ErrDuplicateIssuer = errors.New("issuer already registered")

	// ErrInvalidRingSize is returned for rings with fewer than MinRingSize
	// members. A one-member ring offers no anonymity.
	ErrInvalidRingSize = errors.New("ring must have at least two members")

	// ErrDuplicateMember is returned when two ring members are
	// bit-identical.
	ErrDuplicateMember = errors.New("duplicate ring member")

	// ErrRingNotFound is returned when no ring is stored under the
	// requested attribute.
	ErrRingNotFound = errors.New("no ring stored for attribute")

	// ErrKeyMismatch is returned by the signer when the secret key does
	// not correspond to the ring member at the claimed index.
	ErrKeyMismatch = errors.New("secret key does not match ring member")

	// ErrInvalidParameter is returned for out-of-range or structurally
	// malformed call parameters.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// MinRingSize is the smallest anonymity set the engine accepts.
const MinRingSize = 2
