package teammeta

import "context"

// Repository resolves team names to directory metadata. The bool reports
// whether the directory had an entry; callers fall back to derived values
// when it did not.
type Repository interface {
	GetByName(ctx context.Context, scope, name string) (Meta, bool, error)
}
