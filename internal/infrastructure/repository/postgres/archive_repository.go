package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gridironlab/weekly-digest/internal/domain/archive"
	qb "github.com/gridironlab/weekly-digest/internal/platform/querybuilder"
)

type ArchiveRepository struct {
	db *sqlx.DB
}

func NewArchiveRepository(db *sqlx.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

func (r *ArchiveRepository) InsertRun(ctx context.Context, run archive.Run) error {
	insertModel := digestRunInsertModel{
		PublicID:   run.ID,
		Scope:      run.Scope,
		Season:     run.Season,
		Week:       run.Week,
		Status:     run.Status,
		RawGames:   run.RawGames,
		TopGames:   run.TopGames,
		UsedStub:   run.UsedStub,
		DurationMS: run.DurationMS,
		ErrorText:  nullableString(run.ErrorText),
		StartedAt:  run.StartedAt,
	}

	query, args, err := qb.InsertModel("digest_runs", insertModel, "ON CONFLICT (public_id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert digest run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert digest run %s: %w", run.ID, err)
	}

	return nil
}

func (r *ArchiveRepository) UpsertPayloads(ctx context.Context, items []archive.Payload) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert payloads: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		insertModel := rawPayloadInsertModel{
			Source:          item.Source,
			EntityType:      item.EntityType,
			EntityKey:       item.EntityKey,
			Scope:           item.Scope,
			Season:          item.Season,
			Week:            item.Week,
			Payload:         item.PayloadJSON,
			PayloadHash:     item.PayloadHash,
			SourceFetchedAt: item.SourceFetchedAt,
		}

		query, args, err := qb.InsertModel("raw_upstream_payloads", insertModel, `ON CONFLICT (source, entity_type, entity_key) WHERE deleted_at IS NULL
DO UPDATE SET
    scope = EXCLUDED.scope,
    season = EXCLUDED.season,
    week = EXCLUDED.week,
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    source_fetched_at = EXCLUDED.source_fetched_at,
    ingested_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert payload query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert payload entity=%s key=%s: %w", item.EntityType, item.EntityKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert payloads tx: %w", err)
	}

	return nil
}

func (r *ArchiveRepository) ListRecentRuns(ctx context.Context, scope string, limit int) ([]archive.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := qb.Select("*").From("digest_runs").
		Where(qb.Eq("scope", scope)).
		OrderBy("started_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select digest runs query: %w", err)
	}

	var rows []digestRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return r.listRecentRunsLiteral(ctx, scope, limit)
		}
		return nil, fmt.Errorf("select digest runs: %w", err)
	}

	return runsToDomain(rows), nil
}

func (r *ArchiveRepository) listRecentRunsLiteral(ctx context.Context, scope string, limit int) ([]archive.Run, error) {
	query := fmt.Sprintf(
		"SELECT * FROM digest_runs WHERE scope = %s ORDER BY started_at DESC, id DESC LIMIT %d",
		quoteLiteral(scope), limit,
	)

	var rows []digestRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select digest runs literal fallback: %w", err)
	}

	return runsToDomain(rows), nil
}

func runsToDomain(rows []digestRunTableModel) []archive.Run {
	out := make([]archive.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
