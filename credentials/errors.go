package credentials

import "errors"

// ErrCredential is wrapped by every error returned from Load. Callers test
// for it with errors.Is to tell credential problems from other failures.
var ErrCredential = errors.New("credentials: cannot load credentials")

// Keystore errors.
var (
	// ErrEmptyKeystore is returned when a keystore holds no entries.
	ErrEmptyKeystore = errors.New("credentials: keystore is empty")

	// ErrAliasNotFound is returned when a configured alias is not present
	// in the keystore.
	ErrAliasNotFound = errors.New("credentials: alias not found")

	// ErrAmbiguousAlias is returned when no alias is configured and the
	// keystore holds more than one private key entry.
	ErrAmbiguousAlias = errors.New("credentials: keystore holds several keys, alias required")

	// ErrNoPrivateKey is returned when the selected entry carries no
	// private key.
	ErrNoPrivateKey = errors.New("credentials: no private key entry")

	// ErrUnsupportedKey is returned for private keys that cannot be used
	// for the configured purpose.
	ErrUnsupportedKey = errors.New("credentials: unsupported private key")

	// ErrIncorrectPassword is returned when the keystore MAC does not
	// verify with the given password.
	ErrIncorrectPassword = errors.New("credentials: incorrect keystore password")

	// ErrMalformedKeystore is returned when the keystore cannot be decoded.
	ErrMalformedKeystore = errors.New("credentials: malformed keystore")
)
