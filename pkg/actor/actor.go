// Package actor provides a universal pattern for identifying and tracking
// the user/system performing actions across services.
//
// This package is used for:
// - The stock ledger (who recorded a movement)
// - Audit fields on batch mutations
// - Event payloads consumed by other services
package actor

import (
	"context"
	"fmt"
)

// Actor represents the entity performing an action in the system.
type Actor struct {
	// ID is the unique identifier of the actor (user ID)
	ID string `json:"id"`

	// Name is the actor's display name
	Name string `json:"name"`

	// Email is the actor's email address
	Email string `json:"email"`

	// StoreID is the store the actor is acting in
	StoreID string `json:"store_id"`

	// System is true for automated actions (consumers, schedulers)
	System bool `json:"system,omitempty"`
}

// SystemActor returns an actor representing an automated process,
// e.g. the purchase-order consumer creating batches on goods receipt.
func SystemActor(component, storeID string) *Actor {
	return &Actor{
		ID:      "system:" + component,
		Name:    component,
		StoreID: storeID,
		System:  true,
	}
}

// String returns a human-readable representation for logs
func (a *Actor) String() string {
	if a == nil {
		return "<nil actor>"
	}
	if a.System {
		return fmt.Sprintf("system(%s)", a.Name)
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// UserID returns the acting user's ID, or empty for nil actors.
// Ledger rows store this as the performed_by column.
func (a *Actor) UserID() string {
	if a == nil {
		return ""
	}
	return a.ID
}

type contextKey struct{}

// WithActor adds the actor to the context
func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// FromContext extracts the actor from the context, or nil if absent
func FromContext(ctx context.Context) *Actor {
	if a, ok := ctx.Value(contextKey{}).(*Actor); ok {
		return a
	}
	return nil
}
