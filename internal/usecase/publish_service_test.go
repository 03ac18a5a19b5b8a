package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/gridironlab/weekly-digest/internal/domain/game"
	"github.com/gridironlab/weekly-digest/internal/domain/teammeta"
	"github.com/gridironlab/weekly-digest/internal/platform/logging"
)

func TestPublishService_MapGame_UsesDirectoryMetadata(t *testing.T) {
	t.Parallel()

	svc := NewPublishService(stubTeamMetaRepo{
		metas: map[string]teammeta.Meta{
			"Georgia": {Abbr: "UGA", Logo: "https://cdn.example.com/logos/uga.png", ID: 61},
		},
	}, logging.NewNop())

	record := publishRecord(31, 17)
	got := svc.MapGame(context.Background(), "college", record)

	if got.Home.Name != "Georgia" || got.Home.Abbr != "UGA" {
		t.Fatalf("unexpected home ref: %+v", got.Home)
	}
	if got.Home.Logo != "https://cdn.example.com/logos/uga.png" {
		t.Fatalf("unexpected home logo: %q", got.Home.Logo)
	}
	if got.IDs.HomeID != 61 || got.IDs.AwayID != 2 || got.IDs.GameID != "401628472" {
		t.Fatalf("unexpected ids: %+v", got.IDs)
	}
}

func TestPublishService_MapGame_FallbackAbbreviation(t *testing.T) {
	t.Parallel()

	svc := NewPublishService(stubTeamMetaRepo{}, logging.NewNop())

	record := publishRecord(31, 17)
	record.HomeTeam = "Fresno State"
	got := svc.MapGame(context.Background(), "college", record)

	if got.Home.Abbr != "FRES" {
		t.Fatalf("unexpected fallback abbr: got=%q want=%q", got.Home.Abbr, "FRES")
	}
	if got.Home.Logo != "" {
		t.Fatalf("missing directory entry should leave the logo empty: got=%q", got.Home.Logo)
	}
}

func TestPublishService_MapGame_ShortNameAbbreviation(t *testing.T) {
	t.Parallel()

	svc := NewPublishService(nil, logging.NewNop())

	record := publishRecord(31, 17)
	record.AwayTeam = "UAB"
	got := svc.MapGame(context.Background(), "college", record)

	if got.Away.Abbr != "UAB" {
		t.Fatalf("unexpected short-name abbr: got=%q", got.Away.Abbr)
	}
}

func TestPublishService_MapGame_LookupFailureFallsBack(t *testing.T) {
	t.Parallel()

	svc := NewPublishService(stubTeamMetaRepo{err: errors.New("directory down")}, logging.NewNop())

	record := publishRecord(31, 17)
	got := svc.MapGame(context.Background(), "college", record)

	if got.Home.Abbr != "GEOR" {
		t.Fatalf("lookup failure should fall back to the derived abbr: got=%q", got.Home.Abbr)
	}
}

func TestPublishService_MapGame_DirectoryIDBackfillsMissingUpstreamID(t *testing.T) {
	t.Parallel()

	svc := NewPublishService(stubTeamMetaRepo{
		metas: map[string]teammeta.Meta{
			"Georgia": {Abbr: "UGA", ID: 61},
			"Auburn":  {Abbr: "AUB", ID: 2},
		},
	}, logging.NewNop())

	record := publishRecord(31, 17)
	record.HomeID = 0
	record.AwayID = 0
	got := svc.MapGame(context.Background(), "college", record)

	if got.IDs.HomeID != 61 || got.IDs.AwayID != 2 {
		t.Fatalf("directory ids should back-fill missing upstream ids: %+v", got.IDs)
	}
}

func TestPublishService_MapGame_BlankDirectoryAbbrKeepsFallback(t *testing.T) {
	t.Parallel()

	svc := NewPublishService(stubTeamMetaRepo{
		metas: map[string]teammeta.Meta{
			"Georgia": {Abbr: "  ", Logo: "https://cdn.example.com/logos/uga.png"},
		},
	}, logging.NewNop())

	got := svc.MapGame(context.Background(), "college", publishRecord(31, 17))
	if got.Home.Abbr != "GEOR" {
		t.Fatalf("blank directory abbr should keep the fallback: got=%q", got.Home.Abbr)
	}
	if got.Home.Logo == "" {
		t.Fatalf("logo should still come from the directory entry")
	}
}

func TestFormatFinal_UsesEnDash(t *testing.T) {
	t.Parallel()

	got := FormatFinal(publishRecord(31, 17))
	if got != "31–17" {
		t.Fatalf("unexpected final line: got=%q want=%q", got, "31–17")
	}
}

func TestPublishedTags_AppendsDerivedTags(t *testing.T) {
	t.Parallel()

	home, away := 45, 42
	record := game.Derive(game.Record{
		HomeTeam:       "Georgia",
		AwayTeam:       "Auburn",
		HomeScore:      &home,
		AwayScore:      &away,
		Completed:      true,
		PeriodsPlayed:  5,
		ConferenceGame: true,
		Tags:           []string{"rivalry"},
	})

	got := publishedTags(record)
	want := []string{"rivalry", "overtime", "shootout", "one-score", "conference"}
	if len(got) != len(want) {
		t.Fatalf("unexpected tag count: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected tag at %d: got=%q want=%q", i, got[i], want[i])
		}
	}
}

func TestPublishedTags_TiedFinalGainsTieTag(t *testing.T) {
	t.Parallel()

	got := publishedTags(publishRecord(21, 21))
	want := []string{"one-score", "tie"}
	if len(got) != len(want) {
		t.Fatalf("unexpected tags: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected tag at %d: got=%q want=%q", i, got[i], want[i])
		}
	}

	if tags := publishedTags(publishRecord(28, 24)); len(tags) != 1 || tags[0] != "one-score" {
		t.Fatalf("decided one-score game must not carry the tie tag: %v", tags)
	}
}

func publishRecord(home, away int) game.Record {
	return game.Derive(game.Record{
		ID:            "401628472",
		HomeTeam:      "Georgia",
		AwayTeam:      "Auburn",
		HomeID:        61,
		AwayID:        2,
		HomeScore:     &home,
		AwayScore:     &away,
		Completed:     true,
		PeriodsPlayed: 4,
	})
}

type stubTeamMetaRepo struct {
	metas map[string]teammeta.Meta
	err   error
}

func (s stubTeamMetaRepo) GetByName(_ context.Context, _ string, name string) (teammeta.Meta, bool, error) {
	if s.err != nil {
		return teammeta.Meta{}, false, s.err
	}
	meta, ok := s.metas[name]
	return meta, ok, nil
}
