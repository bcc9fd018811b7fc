package identity

import "context"

// Identity is an authenticated principal as seen by the journal. ID is the
// provider's stable subject; it is stored as review owner and rater.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored in ctx, if any.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok && id != nil
}
