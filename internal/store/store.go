// Package store provides the persistence gateway: JSON key/value
// load/save of the tracked collections, scoped by user or session.
package store

import (
	"context"
	"errors"
)

// Logical data keys, backend-agnostic.
const (
	KeyContentItems   = "contentItems"
	KeyEngagementData = "engagementData"
	KeyAPIConfig      = "apiConfig"
	KeyUsers          = "users"
	KeySessions       = "sessions"
	KeyPrefs          = "prefs"
)

// GlobalScope holds data that is not tied to a user or session: the
// user registry, the session registry and UI preferences.
const GlobalScope = "global"

// Common store errors.
var (
	// ErrNotFound indicates the key has no value in the backend.
	ErrNotFound = errors.New("key not found")
)

// Gateway is the persistence interface the service layer consumes.
// Values are JSON-serializable; a single scope has a single writer, so
// sequential consistency per scope is all implementations must provide.
type Gateway interface {
	// Save stores value under (scope, key), replacing any prior value.
	Save(ctx context.Context, scope, key string, value any) error

	// Load unmarshals the value at (scope, key) into dest. Returns
	// ErrNotFound when the key is absent; dest is left untouched.
	// A corrupt stored value is treated as absent: the key is cleared
	// and ErrNotFound returned.
	Load(ctx context.Context, scope, key string, dest any) error

	// Delete removes the value at (scope, key). Deleting a missing key
	// is not an error.
	Delete(ctx context.Context, scope, key string) error
}
