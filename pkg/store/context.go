package store

import (
	"context"
	"errors"
)

// contextKey is a private type for context keys to prevent collisions
type contextKey string

const (
	storeIDKey   contextKey = "store_id"
	storeSlugKey contextKey = "store_slug"
)

var (
	// ErrNoStoreInContext is returned when store context is missing
	ErrNoStoreInContext = errors.New("no store in context")
)

// WithStoreContext adds store information to the context.
// This should be called by middleware after extracting the store from headers.
func WithStoreContext(ctx context.Context, id, slug string) context.Context {
	ctx = context.WithValue(ctx, storeIDKey, id)
	ctx = context.WithValue(ctx, storeSlugKey, slug)
	return ctx
}

// WithStoreID adds only the store ID to context
func WithStoreID(ctx context.Context, storeID string) context.Context {
	return context.WithValue(ctx, storeIDKey, storeID)
}

// StoreID extracts the store ID from context.
// Returns ErrNoStoreInContext if no store ID is found.
// Repositories use this to scope every query to the requesting store.
func StoreID(ctx context.Context) (string, error) {
	id, ok := ctx.Value(storeIDKey).(string)
	if !ok || id == "" {
		return "", ErrNoStoreInContext
	}
	return id, nil
}

// StoreSlug extracts the store slug from context
func StoreSlug(ctx context.Context) (string, error) {
	slug, ok := ctx.Value(storeSlugKey).(string)
	if !ok || slug == "" {
		return "", ErrNoStoreInContext
	}
	return slug, nil
}

// MustStoreID extracts the store ID from context and panics if not found.
// Use only in cases where a missing store is a programming error.
func MustStoreID(ctx context.Context) string {
	id, err := StoreID(ctx)
	if err != nil {
		panic("store ID not found in context")
	}
	return id
}
