package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gridironlab/weekly-digest/internal/domain/archive"
	"github.com/gridironlab/weekly-digest/internal/domain/draft"
	"github.com/gridironlab/weekly-digest/internal/domain/opinion"
	"github.com/gridironlab/weekly-digest/internal/platform/logging"
)

func TestDigestService_Generate_AssemblesDocument(t *testing.T) {
	t.Parallel()

	kickoff := time.Date(2025, time.November, 15, 19, 30, 0, 0, time.UTC)
	provider := &stubGameProvider{
		gamesByWeek: map[int][]UpstreamGame{
			14: {
				upstreamGame("g1", "Georgia", "Auburn", 45, 42, 5),
				upstreamGame("g2", "Texas", "Baylor", 52, 10, 4),
			},
			15: {
				{ID: "n1", HomeTeam: "Georgia", AwayTeam: "Tennessee", KickoffAt: &kickoff, ConferenceGame: true},
				{ID: "n2", HomeTeam: "Ohio State", AwayTeam: "Oregon"},
			},
		},
		payloadsByWeek: map[int][]archive.Payload{
			14: {
				{Source: "collegedata", EntityKey: "games:2025:14"},
				{Source: "collegedata", EntityKey: "games:2025:14:extra"},
			},
		},
	}
	drafts := &stubDraftRepo{path: "college/week_14.json"}
	archiveRepo := &stubArchiveRepo{}
	hook := &stubBuildHook{}

	svc := newTestDigestService(provider, &stubGameProvider{}, drafts, archiveRepo, hook)

	doc, result, err := svc.Generate(context.Background(), GenerateInput{Scope: "college", Season: 2025, Week: 14})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if doc.Meta.Season != 2025 || doc.Meta.Week != 14 || doc.Meta.Scope != "college" {
		t.Fatalf("unexpected meta: %+v", doc.Meta)
	}
	if doc.Meta.GeneratedAt != "2025-11-17T09:00:00Z" {
		t.Fatalf("unexpected generatedAt: %q", doc.Meta.GeneratedAt)
	}
	if len(doc.Meta.Sources) != 1 || doc.Meta.Sources[0] != "collegedata" {
		t.Fatalf("sources should dedupe by payload source: %v", doc.Meta.Sources)
	}

	if len(doc.TopGames) != 2 {
		t.Fatalf("unexpected top game count: got=%d want=2", len(doc.TopGames))
	}
	// The overtime shootout outranks the blowout.
	if doc.TopGames[0].IDs.GameID != "g1" {
		t.Fatalf("unexpected leader: got=%q", doc.TopGames[0].IDs.GameID)
	}
	if doc.TopGames[0].Recap == "" || doc.TopGames[0].OneStat == "" || doc.TopGames[0].WhyItMattered == "" {
		t.Fatalf("synthesized copy missing: %+v", doc.TopGames[0])
	}

	if len(doc.QuickOpinions) != 2 {
		t.Fatalf("unexpected quick opinions: %v", doc.QuickOpinions)
	}
	if len(doc.WhatsNext) != 2 {
		t.Fatalf("unexpected whats next count: got=%d", len(doc.WhatsNext))
	}
	if doc.WhatsNext[0].Match != "Tennessee @ Georgia" || doc.WhatsNext[0].When != "Sat, Nov 15" {
		t.Fatalf("unexpected first matchup: %+v", doc.WhatsNext[0])
	}
	if doc.WhatsNext[0].Hook != "Conference standings on the line." {
		t.Fatalf("unexpected hook: %q", doc.WhatsNext[0].Hook)
	}
	if doc.WhatsNext[1].When != "TBD" {
		t.Fatalf("missing kickoff should render TBD: %+v", doc.WhatsNext[1])
	}

	if result.Path != "college/week_14.json" || result.UsedStub || result.RawGames != 2 || result.TopGames != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.RunID == "" {
		t.Fatalf("expected an archived run id")
	}

	if len(archiveRepo.runs) != 1 || archiveRepo.runs[0].Status != archive.RunStatusSucceeded {
		t.Fatalf("unexpected archived runs: %+v", archiveRepo.runs)
	}
	if len(archiveRepo.payloads) != 2 {
		t.Fatalf("unexpected archived payloads: got=%d want=2", len(archiveRepo.payloads))
	}
	if len(hook.notes) != 1 || hook.notes[0].Path != "college/week_14.json" {
		t.Fatalf("unexpected build hook notes: %+v", hook.notes)
	}
}

func TestDigestService_Generate_FallsBackToStub(t *testing.T) {
	t.Parallel()

	provider := &stubGameProvider{
		errByWeek: map[int]error{14: errors.New("upstream 503"), 15: errors.New("upstream 503")},
	}
	fallback := &stubGameProvider{
		gamesByWeek: map[int][]UpstreamGame{
			14: {upstreamGame("stub-1", "Springfield A&M", "Shelbyville Tech", 31, 28, 4)},
		},
		payloadsByWeek: map[int][]archive.Payload{
			14: {{Source: "stub", EntityKey: "stub:week"}},
		},
	}
	drafts := &stubDraftRepo{path: "college/week_14.json"}
	archiveRepo := &stubArchiveRepo{}

	svc := newTestDigestService(provider, fallback, drafts, archiveRepo, nil)

	doc, result, err := svc.Generate(context.Background(), GenerateInput{Scope: "college", Season: 2025, Week: 14})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if !result.UsedStub {
		t.Fatalf("result should flag the stub fallback: %+v", result)
	}
	if len(doc.TopGames) != 1 || doc.TopGames[0].IDs.GameID != "stub-1" {
		t.Fatalf("document should be built from stub games: %+v", doc.TopGames)
	}
	if len(doc.Meta.Sources) != 1 || doc.Meta.Sources[0] != "stub" {
		t.Fatalf("sources should come from the stub payloads: %v", doc.Meta.Sources)
	}
	if len(archiveRepo.runs) != 1 || archiveRepo.runs[0].Status != archive.RunStatusDegraded {
		t.Fatalf("stub runs should archive as degraded: %+v", archiveRepo.runs)
	}
}

func TestDigestService_Generate_FailedFallbackAborts(t *testing.T) {
	t.Parallel()

	provider := &stubGameProvider{
		errByWeek: map[int]error{14: errors.New("upstream 503"), 15: errors.New("upstream 503")},
	}
	fallback := &stubGameProvider{
		errByWeek: map[int]error{14: errors.New("stub dataset unreadable")},
	}
	drafts := &stubDraftRepo{path: "college/week_14.json"}
	archiveRepo := &stubArchiveRepo{}

	svc := newTestDigestService(provider, fallback, drafts, archiveRepo, nil)

	_, _, err := svc.Generate(context.Background(), GenerateInput{Scope: "college", Season: 2025, Week: 14})
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got=%v", err)
	}
	if !strings.Contains(err.Error(), "stub dataset unreadable") {
		t.Fatalf("error should carry the fallback cause: %v", err)
	}
	if drafts.saved != 0 {
		t.Fatalf("no document should be written when the fallback also fails")
	}
	if len(archiveRepo.runs) != 1 || archiveRepo.runs[0].Status != archive.RunStatusFailed ||
		!archiveRepo.runs[0].UsedStub {
		t.Fatalf("failed fallback runs should archive as failed stub runs: %+v", archiveRepo.runs)
	}
}

func TestDigestService_Generate_EmptyUpstreamAborts(t *testing.T) {
	t.Parallel()

	provider := &stubGameProvider{gamesByWeek: map[int][]UpstreamGame{}}
	drafts := &stubDraftRepo{path: "college/week_14.json"}
	archiveRepo := &stubArchiveRepo{}

	svc := newTestDigestService(provider, &stubGameProvider{}, drafts, archiveRepo, nil)

	_, _, err := svc.Generate(context.Background(), GenerateInput{Scope: "college", Season: 2025, Week: 14})
	if !errors.Is(err, ErrEmptyUpstreamData) {
		t.Fatalf("expected ErrEmptyUpstreamData, got=%v", err)
	}
	if drafts.saved != 0 {
		t.Fatalf("no document should be written on empty upstream data")
	}
	if len(archiveRepo.runs) != 1 || archiveRepo.runs[0].Status != archive.RunStatusFailed {
		t.Fatalf("aborted runs should archive as failed: %+v", archiveRepo.runs)
	}
}

func TestDigestService_Generate_NoEligibleGamesAborts(t *testing.T) {
	t.Parallel()

	// Games arrive but none are completed with both scores.
	provider := &stubGameProvider{
		gamesByWeek: map[int][]UpstreamGame{
			14: {
				{ID: "g1", HomeTeam: "Georgia", AwayTeam: "Auburn", Completed: false},
				{ID: "g2", HomeTeam: "Texas", AwayTeam: "Baylor", Completed: true},
			},
		},
	}
	drafts := &stubDraftRepo{path: "college/week_14.json"}

	svc := newTestDigestService(provider, &stubGameProvider{}, drafts, nil, nil)

	_, _, err := svc.Generate(context.Background(), GenerateInput{Scope: "college", Season: 2025, Week: 14})
	if !errors.Is(err, ErrNoEligibleGames) {
		t.Fatalf("expected ErrNoEligibleGames, got=%v", err)
	}
	if drafts.saved != 0 {
		t.Fatalf("no document should be written without eligible games")
	}
}

func TestDigestService_Generate_SaveFailureSurfaces(t *testing.T) {
	t.Parallel()

	provider := &stubGameProvider{
		gamesByWeek: map[int][]UpstreamGame{
			14: {upstreamGame("g1", "Georgia", "Auburn", 45, 42, 5)},
		},
	}
	drafts := &stubDraftRepo{saveErr: errors.New("disk full")}
	archiveRepo := &stubArchiveRepo{}

	svc := newTestDigestService(provider, &stubGameProvider{}, drafts, archiveRepo, nil)

	_, _, err := svc.Generate(context.Background(), GenerateInput{Scope: "college", Season: 2025, Week: 14})
	if err == nil || !strings.Contains(err.Error(), "save draft") {
		t.Fatalf("expected save failure, got=%v", err)
	}
	if len(archiveRepo.runs) != 1 || archiveRepo.runs[0].Status != archive.RunStatusFailed {
		t.Fatalf("save failures should archive as failed: %+v", archiveRepo.runs)
	}
}

func TestDigestService_Generate_UpcomingFetchFailureUsesPlaceholder(t *testing.T) {
	t.Parallel()

	provider := &stubGameProvider{
		gamesByWeek: map[int][]UpstreamGame{
			14: {upstreamGame("g1", "Georgia", "Auburn", 45, 42, 5)},
		},
		errByWeek: map[int]error{15: errors.New("upstream 500")},
	}
	drafts := &stubDraftRepo{path: "college/week_14.json"}

	svc := newTestDigestService(provider, &stubGameProvider{}, drafts, nil, nil)

	doc, _, err := svc.Generate(context.Background(), GenerateInput{Scope: "college", Season: 2025, Week: 14})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(doc.WhatsNext) != 1 || doc.WhatsNext[0].Match != "Next week's slate" {
		t.Fatalf("expected the static placeholder matchup: %+v", doc.WhatsNext)
	}
}

func TestDigestService_Generate_InputValidation(t *testing.T) {
	t.Parallel()

	svc := newTestDigestService(&stubGameProvider{}, &stubGameProvider{}, &stubDraftRepo{}, nil, nil)

	tests := []struct {
		name  string
		input GenerateInput
	}{
		{name: "missing scope", input: GenerateInput{Season: 2025, Week: 14}},
		{name: "unknown scope", input: GenerateInput{Scope: "pro", Season: 2025, Week: 14}},
		{name: "missing season", input: GenerateInput{Scope: "college", Week: 14}},
		{name: "missing week", input: GenerateInput{Scope: "college", Season: 2025}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := svc.Generate(context.Background(), tc.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got=%v", err)
			}
		})
	}
}

func newTestDigestService(
	provider, fallback GameDataProvider,
	drafts draft.Repository,
	archiveRepo archive.Repository,
	hook BuildHookNotifier,
) *DigestService {
	now := func() time.Time {
		return time.Date(2025, time.November, 17, 9, 0, 0, 0, time.UTC)
	}

	return NewDigestService(
		provider,
		fallback,
		stubOpinionRepo{},
		drafts,
		archiveRepo,
		NewRecapService(func(int) int { return 0 }),
		NewPublishService(nil, logging.NewNop()),
		stubIDGenerator{},
		hook,
		map[string]string{"college": "fbs"},
		logging.NewNop(),
		now,
	)
}

func upstreamGame(id, home, away string, homePts, awayPts, periods int) UpstreamGame {
	return UpstreamGame{
		ID:         id,
		HomeTeam:   home,
		AwayTeam:   away,
		HomePoints: &homePts,
		AwayPoints: &awayPts,
		Completed:  true,
		Periods:    &periods,
	}
}

type stubGameProvider struct {
	gamesByWeek    map[int][]UpstreamGame
	payloadsByWeek map[int][]archive.Payload
	errByWeek      map[int]error
}

func (s *stubGameProvider) FetchWeekGames(_ context.Context, query GamesQuery) ([]UpstreamGame, []archive.Payload, error) {
	if err := s.errByWeek[query.Week]; err != nil {
		return nil, nil, err
	}
	return s.gamesByWeek[query.Week], s.payloadsByWeek[query.Week], nil
}

type stubDraftRepo struct {
	mu      sync.Mutex
	path    string
	saveErr error
	saved   int
	lastDoc draft.Document
}

func (s *stubDraftRepo) Save(_ context.Context, doc draft.Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.saved++
	s.lastDoc = doc
	return s.path, nil
}

func (s *stubDraftRepo) GetByWeek(_ context.Context, _ string, _ int) (draft.Document, bool, error) {
	return draft.Document{}, false, nil
}

func (s *stubDraftRepo) ListWeeks(_ context.Context, _ string) ([]int, error) {
	return nil, nil
}

type stubOpinionRepo struct{}

func (stubOpinionRepo) ListByScope(_ context.Context, scope string, _ int) ([]opinion.Opinion, error) {
	return []opinion.Opinion{
		{Scope: scope, Text: "The committee has a tiebreaker headache coming."},
		{Scope: scope, Text: "Special teams decided more games than anyone will admit."},
	}, nil
}

type stubArchiveRepo struct {
	mu       sync.Mutex
	runs     []archive.Run
	payloads []archive.Payload
}

func (s *stubArchiveRepo) InsertRun(_ context.Context, run archive.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

func (s *stubArchiveRepo) UpsertPayloads(_ context.Context, items []archive.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, items...)
	return nil
}

func (s *stubArchiveRepo) ListRecentRuns(_ context.Context, _ string, _ int) ([]archive.Run, error) {
	return nil, nil
}

type stubIDGenerator struct{}

func (stubIDGenerator) NewID() (string, error) {
	return "run-0001", nil
}

type stubBuildHook struct {
	mu    sync.Mutex
	notes []BuildNote
}

func (s *stubBuildHook) NotifyDraftPublished(_ context.Context, note BuildNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, note)
	return nil
}
