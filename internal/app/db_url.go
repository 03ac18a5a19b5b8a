package app

import (
	"net/url"
	"strings"
)

// lib/pq option understood by PgBouncer-style transaction poolers, which
// reject binary results for statements prepared on another backend.
const preparedBinaryResultParam = "disable_prepared_binary_result"

// normalizeDBURL forces disable_prepared_binary_result=yes onto the
// connection URL unless the caller opted out or set the parameter explicitly.
func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Has(preparedBinaryResultParam) {
		return raw
	}
	query.Set(preparedBinaryResultParam, "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// dbNameFromURL extracts the database name from either a postgres:// URL or
// a key=value DSN. Returns "" when neither form carries one.
func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if name := dbNameFromURLPath(trimmed); name != "" {
		return name
	}
	return dbNameFromKeywordDSN(trimmed)
}

func dbNameFromURLPath(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
}

func dbNameFromKeywordDSN(raw string) string {
	for _, token := range strings.Fields(raw) {
		value, ok := strings.CutPrefix(token, "dbname=")
		if !ok {
			continue
		}
		if name := strings.Trim(strings.TrimSpace(value), `"'`); name != "" {
			return name
		}
	}
	return ""
}
