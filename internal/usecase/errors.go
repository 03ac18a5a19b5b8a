package usecase

import "errors"

// Request-level failures, mapped onto HTTP statuses by the API layer.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// Pipeline failures. Generation distinguishes fetch errors that degrade to
// the stub dataset from conditions that must abort the run.
var (
	// ErrUpstreamUnavailable marks a failed game-data fetch. The pipeline
	// degrades to the stub dataset instead of aborting.
	ErrUpstreamUnavailable = errors.New("upstream game data unavailable")

	// ErrEmptyUpstreamData means the fetch succeeded but carried zero
	// payloads. Unlike a transport failure this aborts the run.
	ErrEmptyUpstreamData = errors.New("upstream returned no game payloads")

	// ErrNoEligibleGames means nothing survived the completed/scored
	// filter. Publishing an empty digest would mislead readers, so the
	// run aborts without writing a document.
	ErrNoEligibleGames = errors.New("no eligible games for ranking")
)
