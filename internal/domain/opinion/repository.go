package opinion

import "context"

// Repository serves quick opinions for a scope. Implementations may be
// static; the digest only needs a small rotating set.
type Repository interface {
	ListByScope(ctx context.Context, scope string, limit int) ([]Opinion, error)
}
