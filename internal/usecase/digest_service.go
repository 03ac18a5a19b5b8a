package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/gridironlab/weekly-digest/internal/domain/archive"
	"github.com/gridironlab/weekly-digest/internal/domain/draft"
	"github.com/gridironlab/weekly-digest/internal/domain/game"
	"github.com/gridironlab/weekly-digest/internal/domain/opinion"
	"github.com/gridironlab/weekly-digest/internal/platform/id"
	"github.com/gridironlab/weekly-digest/internal/platform/logging"
)

const (
	quickOpinionsLimit = 3
	whatsNextLimit     = 3
)

// BuildHookNotifier pings the static-site build pipeline after a draft
// lands. Delivery is best effort.
type BuildHookNotifier interface {
	NotifyDraftPublished(ctx context.Context, note BuildNote) error
}

type BuildNote struct {
	Scope  string
	Season int
	Week   int
	Path   string
}

type GenerateInput struct {
	Scope  string
	Season int
	Week   int
}

type GenerateResult struct {
	Scope       string `json:"scope"`
	Season      int    `json:"season"`
	Week        int    `json:"week"`
	Path        string `json:"path"`
	UsedStub    bool   `json:"used_stub"`
	RawGames    int    `json:"raw_games"`
	TopGames    int    `json:"top_games"`
	DurationMs  int64  `json:"duration_ms"`
	RunID       string `json:"run_id,omitempty"`
	GeneratedAt string `json:"generated_at"`
}

// DigestService runs the draft pipeline end to end: fetch, normalize, rank,
// synthesize, map, assemble, persist. One call produces one draft document
// for one scope and week; concurrent calls share no state.
type DigestService struct {
	provider        GameDataProvider
	fallback        GameDataProvider
	opinions        opinion.Repository
	drafts          draft.Repository
	archiveRepo     archive.Repository
	recaps          *RecapService
	publisher       *PublishService
	ids             id.Generator
	hook            BuildHookNotifier
	divisionByScope map[string]string
	logger          *logging.Logger
	now             func() time.Time
}

func NewDigestService(
	provider GameDataProvider,
	fallback GameDataProvider,
	opinions opinion.Repository,
	drafts draft.Repository,
	archiveRepo archive.Repository,
	recaps *RecapService,
	publisher *PublishService,
	ids id.Generator,
	hook BuildHookNotifier,
	divisionByScope map[string]string,
	logger *logging.Logger,
	now func() time.Time,
) *DigestService {
	if now == nil {
		now = time.Now
	}

	return &DigestService{
		provider:        provider,
		fallback:        fallback,
		opinions:        opinions,
		drafts:          drafts,
		archiveRepo:     archiveRepo,
		recaps:          recaps,
		publisher:       publisher,
		ids:             ids,
		hook:            hook,
		divisionByScope: divisionByScope,
		logger:          logger,
		now:             now,
	}
}

func (s *DigestService) Generate(ctx context.Context, input GenerateInput) (draft.Document, GenerateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DigestService.Generate")
	defer span.End()

	scope := strings.TrimSpace(input.Scope)
	if scope == "" {
		return draft.Document{}, GenerateResult{}, fmt.Errorf("%w: scope is required", ErrInvalidInput)
	}
	division, ok := s.divisionByScope[scope]
	if !ok {
		return draft.Document{}, GenerateResult{}, fmt.Errorf("%w: unknown scope %q", ErrInvalidInput, scope)
	}
	if input.Season < 1 {
		return draft.Document{}, GenerateResult{}, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}
	if input.Week < 1 {
		return draft.Document{}, GenerateResult{}, fmt.Errorf("%w: week must be >= 1", ErrInvalidInput)
	}
	if s.provider == nil || s.fallback == nil || s.drafts == nil {
		return draft.Document{}, GenerateResult{}, fmt.Errorf("%w: digest pipeline is not fully configured", ErrDependencyUnavailable)
	}

	input.Scope = scope
	start := s.now()

	currentQuery := GamesQuery{
		Season:     input.Season,
		Week:       input.Week,
		SeasonType: SeasonTypeRegular,
		Division:   division,
	}
	nextQuery := currentQuery
	nextQuery.Week++

	// The two fetches are the only suspension points in the run. Everything
	// after them is computed eagerly on private data.
	var (
		games    []UpstreamGame
		payloads []archive.Payload
		fetchErr error

		upcoming    []UpstreamGame
		upcomingErr error
	)
	var wg conc.WaitGroup
	wg.Go(func() {
		games, payloads, fetchErr = s.provider.FetchWeekGames(ctx, currentQuery)
	})
	wg.Go(func() {
		upcoming, _, upcomingErr = s.provider.FetchWeekGames(ctx, nextQuery)
	})
	wg.Wait()

	usedStub := false
	if fetchErr != nil {
		// Single attempt, no backoff: a failed fetch degrades to the fixed
		// stub dataset so the weekly publish never blocks on the upstream.
		s.logger.WarnContext(ctx, "game data fetch failed, falling back to stub dataset",
			"scope", scope, "season", input.Season, "week", input.Week,
			"error", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, fetchErr))
		usedStub = true
		var stubErr error
		games, payloads, stubErr = s.fallback.FetchWeekGames(ctx, currentQuery)
		if stubErr != nil {
			err := fmt.Errorf("%w: fallback provider: %v", ErrUpstreamUnavailable, stubErr)
			s.logger.ErrorContext(ctx, "fallback dataset fetch failed",
				"scope", scope, "season", input.Season, "week", input.Week, "error", stubErr)
			s.recordRun(ctx, input, start, archive.RunStatusFailed, usedStub, 0, 0, err, payloads)
			return draft.Document{}, GenerateResult{}, err
		}
	} else if len(games) == 0 {
		err := fmt.Errorf("%w: scope=%s season=%d week=%d", ErrEmptyUpstreamData, scope, input.Season, input.Week)
		s.recordRun(ctx, input, start, archive.RunStatusFailed, usedStub, 0, 0, err, payloads)
		return draft.Document{}, GenerateResult{}, err
	}

	if upcomingErr != nil {
		s.logger.WarnContext(ctx, "upcoming games fetch failed, using static teaser",
			"scope", scope, "season", input.Season, "week", nextQuery.Week, "error", upcomingErr)
		upcoming = nil
	}

	records := NormalizeGames(games)
	ranked := game.Rank(records, game.TopGamesLimit)
	if len(ranked) == 0 {
		err := fmt.Errorf("%w: scope=%s season=%d week=%d", ErrNoEligibleGames, scope, input.Season, input.Week)
		s.recordRun(ctx, input, start, archive.RunStatusFailed, usedStub, len(records), 0, err, payloads)
		return draft.Document{}, GenerateResult{}, err
	}

	topGames := make([]draft.PublishedGame, 0, len(ranked))
	for _, r := range ranked {
		r = s.recaps.Synthesize(r)
		topGames = append(topGames, s.publisher.MapGame(ctx, scope, r))
	}

	generatedAt := draft.FormatGeneratedAt(s.now())
	doc := draft.Document{
		Meta: draft.Meta{
			Season:      input.Season,
			Week:        input.Week,
			Scope:       scope,
			GeneratedAt: generatedAt,
			Sources:     payloadSources(payloads),
		},
		TopGames:      topGames,
		QuickOpinions: s.quickOpinions(ctx, scope),
		WhatsNext:     buildWhatsNext(upcoming),
	}

	path, err := s.drafts.Save(ctx, doc)
	if err != nil {
		saveErr := fmt.Errorf("save draft: %w", err)
		s.recordRun(ctx, input, start, archive.RunStatusFailed, usedStub, len(records), len(topGames), saveErr, payloads)
		return draft.Document{}, GenerateResult{}, saveErr
	}

	status := archive.RunStatusSucceeded
	if usedStub {
		status = archive.RunStatusDegraded
	}
	runID := s.recordRun(ctx, input, start, status, usedStub, len(records), len(topGames), nil, payloads)
	s.notifyBuildHook(ctx, input, path)

	result := GenerateResult{
		Scope:       scope,
		Season:      input.Season,
		Week:        input.Week,
		Path:        path,
		UsedStub:    usedStub,
		RawGames:    len(records),
		TopGames:    len(topGames),
		DurationMs:  s.now().Sub(start).Milliseconds(),
		RunID:       runID,
		GeneratedAt: generatedAt,
	}

	s.logger.InfoContext(ctx, "digest draft generated",
		"scope", scope, "season", input.Season, "week", input.Week,
		"path", path, "topGames", len(topGames), "usedStub", usedStub,
		"durationMs", result.DurationMs)

	return doc, result, nil
}

func (s *DigestService) quickOpinions(ctx context.Context, scope string) []string {
	out := []string{}
	if s.opinions == nil {
		return out
	}

	items, err := s.opinions.ListByScope(ctx, scope, quickOpinionsLimit)
	if err != nil {
		s.logger.WarnContext(ctx, "quick opinions lookup failed", "scope", scope, "error", err)
		return out
	}
	for _, item := range items {
		out = append(out, item.Text)
	}

	return out
}

// buildWhatsNext teases up to three scheduled games from the following week.
// With nothing usable it falls back to a fixed placeholder entry so the
// section never renders empty.
func buildWhatsNext(upcoming []UpstreamGame) []draft.Matchup {
	matchups := make([]draft.Matchup, 0, whatsNextLimit)
	for _, g := range upcoming {
		if g.Completed {
			continue
		}
		if strings.TrimSpace(g.HomeTeam) == "" || strings.TrimSpace(g.AwayTeam) == "" {
			continue
		}

		when := "TBD"
		if g.KickoffAt != nil {
			when = g.KickoffAt.UTC().Format("Mon, Jan 2")
		}
		hook := "A cross-conference measuring stick."
		if g.ConferenceGame {
			hook = "Conference standings on the line."
		}

		matchups = append(matchups, draft.Matchup{
			When:  when,
			Match: fmt.Sprintf("%s @ %s", g.AwayTeam, g.HomeTeam),
			Hook:  hook,
		})
		if len(matchups) == whatsNextLimit {
			break
		}
	}

	if len(matchups) == 0 {
		matchups = append(matchups, draft.Matchup{
			When:  "TBD",
			Match: "Next week's slate",
			Hook:  "Schedules firm up once this week's results land.",
		})
	}

	return matchups
}

// recordRun archives the raw payloads and the run row. Archive failures are
// logged and swallowed; the archive is an audit trail, not a publish gate.
func (s *DigestService) recordRun(
	ctx context.Context,
	input GenerateInput,
	start time.Time,
	status string,
	usedStub bool,
	rawGames, topGames int,
	runErr error,
	payloads []archive.Payload,
) string {
	if s.archiveRepo == nil {
		return ""
	}

	runID, err := s.ids.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate run id failed, skipping archive", "error", err)
		return ""
	}

	if len(payloads) > 0 {
		// Providers know season and week but not the scope; stamp it here.
		for i := range payloads {
			if payloads[i].Scope == "" {
				payloads[i].Scope = input.Scope
			}
		}
		if err := s.archiveRepo.UpsertPayloads(ctx, payloads); err != nil {
			s.logger.WarnContext(ctx, "archive payloads failed", "scope", input.Scope, "error", err)
		}
	}

	run := archive.Run{
		ID:         runID,
		Scope:      input.Scope,
		Season:     input.Season,
		Week:       input.Week,
		Status:     status,
		RawGames:   rawGames,
		TopGames:   topGames,
		UsedStub:   usedStub,
		DurationMS: s.now().Sub(start).Milliseconds(),
		StartedAt:  start,
	}
	if runErr != nil {
		run.ErrorText = runErr.Error()
	}

	if err := s.archiveRepo.InsertRun(ctx, run); err != nil {
		s.logger.WarnContext(ctx, "archive run failed", "scope", input.Scope, "runId", runID, "error", err)
	}

	return runID
}

func (s *DigestService) notifyBuildHook(ctx context.Context, input GenerateInput, path string) {
	if s.hook == nil {
		return
	}

	note := BuildNote{
		Scope:  input.Scope,
		Season: input.Season,
		Week:   input.Week,
		Path:   path,
	}
	if err := s.hook.NotifyDraftPublished(ctx, note); err != nil {
		s.logger.WarnContext(ctx, "build hook notify failed", "scope", input.Scope, "path", path, "error", err)
	}
}

func payloadSources(payloads []archive.Payload) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, p := range payloads {
		source := strings.TrimSpace(p.Source)
		if source == "" {
			continue
		}
		if _, ok := seen[source]; ok {
			continue
		}
		seen[source] = struct{}{}
		out = append(out, source)
	}

	return out
}
