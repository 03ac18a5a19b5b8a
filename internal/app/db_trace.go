package app

import "strings"

// Span attributes carry the query with whitespace runs collapsed and a hard
// length cap so the db.statement value stays readable in the trace UI.
const tracedQueryLimit = 512

func formatDBQueryForTrace(query string) string {
	flat := strings.Join(strings.Fields(query), " ")
	if len(flat) > tracedQueryLimit {
		return flat[:tracedQueryLimit] + "..."
	}
	return flat
}
