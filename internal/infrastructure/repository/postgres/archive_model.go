package postgres

import (
	"database/sql"
	"time"

	"github.com/gridironlab/weekly-digest/internal/domain/archive"
)

type digestRunTableModel struct {
	ID         int64          `db:"id"`
	PublicID   string         `db:"public_id"`
	Scope      string         `db:"scope"`
	Season     int            `db:"season"`
	Week       int            `db:"week"`
	Status     string         `db:"status"`
	RawGames   int            `db:"raw_games"`
	TopGames   int            `db:"top_games"`
	UsedStub   bool           `db:"used_stub"`
	DurationMS int64          `db:"duration_ms"`
	ErrorText  sql.NullString `db:"error_text"`
	StartedAt  time.Time      `db:"started_at"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (m digestRunTableModel) toDomain() archive.Run {
	return archive.Run{
		ID:         m.PublicID,
		Scope:      m.Scope,
		Season:     m.Season,
		Week:       m.Week,
		Status:     m.Status,
		RawGames:   m.RawGames,
		TopGames:   m.TopGames,
		UsedStub:   m.UsedStub,
		DurationMS: m.DurationMS,
		ErrorText:  m.ErrorText.String,
		StartedAt:  m.StartedAt,
	}
}

type digestRunInsertModel struct {
	PublicID   string    `db:"public_id"`
	Scope      string    `db:"scope"`
	Season     int       `db:"season"`
	Week       int       `db:"week"`
	Status     string    `db:"status"`
	RawGames   int       `db:"raw_games"`
	TopGames   int       `db:"top_games"`
	UsedStub   bool      `db:"used_stub"`
	DurationMS int64     `db:"duration_ms"`
	ErrorText  *string   `db:"error_text"`
	StartedAt  time.Time `db:"started_at"`
}

type rawPayloadInsertModel struct {
	Source          string     `db:"source"`
	EntityType      string     `db:"entity_type"`
	EntityKey       string     `db:"entity_key"`
	Scope           string     `db:"scope"`
	Season          int        `db:"season"`
	Week            int        `db:"week"`
	Payload         string     `db:"payload"`
	PayloadHash     string     `db:"payload_hash"`
	SourceFetchedAt *time.Time `db:"source_fetched_at"`
}

func nullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
