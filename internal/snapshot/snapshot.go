// Package snapshot persists store state as keyed, versioned JSON blobs.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys of the three persisted blobs.
const (
	KeyPreferences = "nutri-preferences"
	KeyPantry      = "nutri-pantry"
	KeyMealPlan    = "nutri-meal-plan"
)

// Version is the envelope version written by this build.
const Version = 1

// ErrUnknownVersion is returned by Decode when a blob was written by an
// incompatible build.
var ErrUnknownVersion = errors.New("unknown snapshot version")

// Store is a key-value snapshot backend.
type Store interface {
	// Load returns the blob stored under key. The boolean is false when
	// nothing has been saved yet.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
}

type envelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

// Encode wraps state in a versioned envelope.
func Encode(state any) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot state: %w", err)
	}
	data, err := json.Marshal(envelope{Version: Version, State: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot envelope: %w", err)
	}
	return data, nil
}

// Decode unwraps an envelope produced by Encode into dst.
func Decode(data []byte, dst any) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("failed to unmarshal snapshot envelope: %w", err)
	}
	if env.Version != Version {
		return fmt.Errorf("%w: %d", ErrUnknownVersion, env.Version)
	}
	if err := json.Unmarshal(env.State, dst); err != nil {
		return fmt.Errorf("failed to unmarshal snapshot state: %w", err)
	}
	return nil
}

// Restore loads key from store into dst. It reports false when no snapshot
// exists; dst is left untouched in that case and on error.
func Restore(ctx context.Context, store Store, key string, dst any) (bool, error) {
	data, ok, err := store.Load(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to load snapshot %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := Decode(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Persist encodes state and saves it under key.
func Persist(ctx context.Context, store Store, key string, state any) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	if err := store.Save(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", key, err)
	}
	return nil
}
