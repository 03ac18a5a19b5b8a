package usecase

import (
	"context"
	"time"

	"github.com/gridironlab/weekly-digest/internal/domain/archive"
)

// SeasonTypeRegular is the only season type the digest covers.
const SeasonTypeRegular = "regular"

// GameDataProvider fetches one week of games from the upstream data source.
// Implementations return the raw payloads alongside the parsed games so the
// orchestrator can archive exactly what was fetched.
type GameDataProvider interface {
	FetchWeekGames(ctx context.Context, query GamesQuery) ([]UpstreamGame, []archive.Payload, error)
}

// GamesQuery identifies one week of one division's schedule.
type GamesQuery struct {
	Season     int
	Week       int
	SeasonType string
	Division   string
}

// UpstreamGame mirrors the provider's game payload after decoding. Pointer
// fields are nil when the payload omitted them.
type UpstreamGame struct {
	ID             string
	HomeTeam       string
	AwayTeam       string
	HomeID         int64
	AwayID         int64
	HomePoints     *int
	AwayPoints     *int
	Completed      bool
	Periods        *int
	ConferenceGame bool
	KickoffAt      *time.Time
	Tags           []string
}
