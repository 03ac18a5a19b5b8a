package collegedata

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/gridironlab/weekly-digest/internal/domain/archive"
	"github.com/gridironlab/weekly-digest/internal/usecase"
)

const stubSourceName = "stub"

// StubProvider is the designed degradation path: when the live fetch fails,
// the pipeline runs against this fixed single-game dataset so a draft is
// always produced. It never errors.
type StubProvider struct {
	now func() time.Time
}

func NewStubProvider() *StubProvider {
	return &StubProvider{now: time.Now}
}

func (p *StubProvider) FetchWeekGames(_ context.Context, query usecase.GamesQuery) ([]usecase.UpstreamGame, []archive.Payload, error) {
	homeScore, awayScore := 31, 28
	periods := 4

	games := []usecase.UpstreamGame{
		{
			ID:             fmt.Sprintf("stub-%d-%d", query.Season, query.Week),
			HomeTeam:       "Placeholder State",
			AwayTeam:       "Fallback Tech",
			HomePoints:     &homeScore,
			AwayPoints:     &awayScore,
			Completed:      true,
			Periods:        &periods,
			ConferenceGame: false,
			Tags:           []string{"placeholder"},
		},
	}

	raw, err := sonic.Marshal(games)
	if err != nil {
		// The fixed dataset always marshals; keep the provider infallible.
		raw = []byte("[]")
	}
	sum := sha256.Sum256(raw)
	fetchedAt := p.now().UTC()

	payloads := []archive.Payload{
		{
			Source:          stubSourceName,
			EntityType:      "stub_dataset",
			EntityKey:       fmt.Sprintf("stub:games:%d:%d", query.Season, query.Week),
			Season:          query.Season,
			Week:            query.Week,
			PayloadJSON:     string(raw),
			PayloadHash:     hex.EncodeToString(sum[:]),
			SourceFetchedAt: &fetchedAt,
		},
	}

	return games, payloads, nil
}
