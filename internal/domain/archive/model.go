package archive

import "time"

const (
	RunStatusSucceeded = "SUCCEEDED"
	RunStatusDegraded  = "DEGRADED"
	RunStatusFailed    = "FAILED"
)

// Run records one digest generation run for audit.
type Run struct {
	ID         string
	Scope      string
	Season     int
	Week       int
	Status     string
	RawGames   int
	TopGames   int
	UsedStub   bool
	DurationMS int64
	ErrorText  string
	StartedAt  time.Time
}

// Payload is one raw upstream response retained for replay. PayloadHash
// deduplicates identical fetches.
type Payload struct {
	Source          string
	EntityType      string
	EntityKey       string
	Scope           string
	Season          int
	Week            int
	PayloadJSON     string
	PayloadHash     string
	SourceFetchedAt *time.Time
}
