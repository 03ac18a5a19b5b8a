package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "scope", "status").
		From("digest_runs").
		Where(Eq("scope", "college"), Eq("season", 2025)).
		OrderBy("started_at DESC").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, scope, status FROM digest_runs WHERE scope = $1 AND season = $2 ORDER BY started_at DESC LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "college" || args[1] != 2025 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("digest_runs").
		Columns("id", "scope").
		Values("run-1", "college").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO digest_runs (id, scope) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "run-1" || args[1] != "college" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_MultiRow(t *testing.T) {
	query, args, err := InsertInto("raw_payloads").
		Columns("source", "entity_key").
		Values("collegedata", "games:2025:13").
		Values("collegedata", "games:2025:14").
		Suffix("ON CONFLICT (source, entity_key, payload_hash) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO raw_payloads (source, entity_key) VALUES ($1, $2), ($3, $4) ON CONFLICT (source, entity_key, payload_hash) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type runRow struct {
		ID     string `db:"id"`
		Scope  string `db:"scope"`
		Week   int    `db:"week"`
		Turn   int    `db:"-"`
		hidden string
	}
	_ = runRow{hidden: ""}.hidden

	query, args, err := InsertModel("digest_runs", runRow{ID: "run-1", Scope: "college", Week: 14}, "")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO digest_runs (id, scope, week) VALUES ($1, $2, $3)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "run-1" || args[1] != "college" || args[2] != 14 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
