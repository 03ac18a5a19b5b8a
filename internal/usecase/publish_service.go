package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/gridironlab/weekly-digest/internal/domain/draft"
	"github.com/gridironlab/weekly-digest/internal/domain/game"
	"github.com/gridironlab/weekly-digest/internal/domain/teammeta"
	"github.com/gridironlab/weekly-digest/internal/platform/logging"
)

// PublishService maps synthesized records to the published schema. Directory
// lookups are best effort: a missing or failing lookup falls back to derived
// values and never fails the pipeline.
type PublishService struct {
	teams  teammeta.Repository
	logger *logging.Logger
}

func NewPublishService(teams teammeta.Repository, logger *logging.Logger) *PublishService {
	return &PublishService{
		teams:  teams,
		logger: logger,
	}
}

func (s *PublishService) MapGame(ctx context.Context, scope string, r game.Record) draft.PublishedGame {
	home, homeID := s.teamRef(ctx, scope, r.HomeTeam)
	away, awayID := s.teamRef(ctx, scope, r.AwayTeam)

	// Upstream ids win; the directory only back-fills when the payload
	// carried none.
	if r.HomeID != 0 {
		homeID = r.HomeID
	}
	if r.AwayID != 0 {
		awayID = r.AwayID
	}

	return draft.PublishedGame{
		Home:          home,
		Away:          away,
		Final:         FormatFinal(r),
		Recap:         r.Recap,
		OneStat:       r.OneStat,
		WhyItMattered: r.WhyItMattered,
		Tags:          publishedTags(r),
		IDs: draft.GameIDs{
			HomeID: homeID,
			AwayID: awayID,
			GameID: r.ID,
		},
	}
}

func (s *PublishService) teamRef(ctx context.Context, scope, name string) (draft.TeamRef, int64) {
	ref := draft.TeamRef{
		Name: name,
		Abbr: fallbackAbbr(name),
	}

	if s.teams == nil {
		return ref, 0
	}

	meta, ok, err := s.teams.GetByName(ctx, scope, name)
	if err != nil {
		s.logger.WarnContext(ctx, "team directory lookup failed", "scope", scope, "team", name, "error", err)
		return ref, 0
	}
	if !ok {
		return ref, 0
	}

	if abbr := strings.TrimSpace(meta.Abbr); abbr != "" {
		ref.Abbr = abbr
	}
	ref.Logo = meta.Logo

	return ref, meta.ID
}

// FormatFinal renders the score line with an en dash. Downstream display and
// search indexing match on the exact byte sequence.
func FormatFinal(r game.Record) string {
	return fmt.Sprintf("%d–%d", scoreOrZero(r.HomeScore), scoreOrZero(r.AwayScore))
}

func fallbackAbbr(name string) string {
	runes := []rune(strings.TrimSpace(name))
	if len(runes) > 4 {
		runes = runes[:4]
	}

	return strings.ToUpper(string(runes))
}

func publishedTags(r game.Record) []string {
	tags := append([]string{}, r.Tags...)
	if r.IsOvertime() {
		tags = append(tags, "overtime")
	}
	if r.IsShootout() {
		tags = append(tags, "shootout")
	}
	if r.IsClose() {
		tags = append(tags, "one-score")
	}
	if r.IsTie() {
		tags = append(tags, "tie")
	}
	if r.ConferenceGame {
		tags = append(tags, "conference")
	}

	return tags
}

func scoreOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
