package usecase

import (
	"strings"

	"github.com/gridironlab/weekly-digest/internal/domain/game"
)

// NormalizeGames maps upstream payloads to canonical records. It is purely
// structural: records missing scores or marked incomplete are kept and left
// for the ranker to filter, and absent optional fields get safe defaults
// instead of failing the run.
func NormalizeGames(games []UpstreamGame) []game.Record {
	records := make([]game.Record, 0, len(games))
	for _, g := range games {
		records = append(records, normalizeGame(g))
	}

	return records
}

func normalizeGame(g UpstreamGame) game.Record {
	periods := game.RegulationPeriods
	if g.Periods != nil && *g.Periods > 0 {
		periods = *g.Periods
	}

	tags := g.Tags
	if tags == nil {
		tags = []string{}
	}

	return game.Record{
		ID:             strings.TrimSpace(g.ID),
		HomeTeam:       strings.TrimSpace(g.HomeTeam),
		AwayTeam:       strings.TrimSpace(g.AwayTeam),
		HomeID:         g.HomeID,
		AwayID:         g.AwayID,
		HomeScore:      g.HomePoints,
		AwayScore:      g.AwayPoints,
		Completed:      g.Completed,
		PeriodsPlayed:  periods,
		ConferenceGame: g.ConferenceGame,
		KickoffAt:      g.KickoffAt,
		Tags:           tags,
	}
}
