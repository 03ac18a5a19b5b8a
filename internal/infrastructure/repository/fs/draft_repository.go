package fs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gridironlab/weekly-digest/internal/domain/draft"
)

// DraftRepository persists digest documents as pretty-printed JSON files under
// root, one file per scope and week. Writes go through a temp file and rename
// so consumers never observe a partial document.
type DraftRepository struct {
	root string
}

func NewDraftRepository(root string) *DraftRepository {
	return &DraftRepository{root: root}
}

// Root exposes the store root (primarily for the preview server).
func (r *DraftRepository) Root() string {
	return r.root
}

func (r *DraftRepository) Save(_ context.Context, doc draft.Document) (string, error) {
	scope := strings.TrimSpace(doc.Meta.Scope)
	if scope == "" {
		return "", fmt.Errorf("save draft: empty scope")
	}
	if doc.Meta.Week < 1 {
		return "", fmt.Errorf("save draft: invalid week %d", doc.Meta.Week)
	}

	rel := relPath(scope, doc.Meta.Week)
	target := filepath.Join(r.root, rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create draft dir for scope %s: %w", scope, err)
	}

	data, err := sonic.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode draft %s: %w", rel, err)
	}
	data = append(data, '\n')

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return rel, nil
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write draft temp file %s: %w", rel, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return "", fmt.Errorf("publish draft %s: %w", rel, err)
	}

	return rel, nil
}

func (r *DraftRepository) GetByWeek(_ context.Context, scope string, week int) (draft.Document, bool, error) {
	rel := relPath(scope, week)
	data, err := os.ReadFile(filepath.Join(r.root, rel))
	if err != nil {
		if os.IsNotExist(err) {
			return draft.Document{}, false, nil
		}
		return draft.Document{}, false, fmt.Errorf("read draft %s: %w", rel, err)
	}

	var doc draft.Document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return draft.Document{}, false, fmt.Errorf("decode draft %s: %w", rel, err)
	}

	return doc, true, nil
}

func (r *DraftRepository) ListWeeks(_ context.Context, scope string) ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(r.root, scope))
	if err != nil {
		if os.IsNotExist(err) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("list drafts for scope %s: %w", scope, err)
	}

	weeks := make([]int, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		week, ok := parseWeekFile(entry.Name())
		if !ok {
			continue
		}
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	return weeks, nil
}

func relPath(scope string, week int) string {
	return filepath.Join(scope, fmt.Sprintf("week_%02d.json", week))
}

func parseWeekFile(name string) (int, bool) {
	if !strings.HasPrefix(name, "week_") || !strings.HasSuffix(name, ".json") {
		return 0, false
	}
	week, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "week_"), ".json"))
	if err != nil || week < 1 {
		return 0, false
	}
	return week, true
}
