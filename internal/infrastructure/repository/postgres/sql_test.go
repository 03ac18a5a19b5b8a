package postgres

import (
	"errors"
	"testing"
)

func TestIsBindParameterMismatch(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"bind count mismatch", errors.New(`pq: bind message supplies 2 parameters, but prepared statement "" requires 1 (08P01)`), true},
		{"protocol violation code", errors.New("pq: driver fault (08P01)"), true},
		{"unrelated error", errors.New("pq: relation digest_runs does not exist"), false},
		{"nil error", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isBindParameterMismatch(tc.err); got != tc.want {
				t.Fatalf("isBindParameterMismatch(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsUnnamedPreparedStatementMissing(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"missing statement message", errors.New("pq: unnamed prepared statement does not exist (26000)"), true},
		{"sqlstate only", errors.New("pq: prepared statement gone (26000)"), true},
		{"unrelated error", errors.New("pq: relation digest_runs does not exist"), false},
		{"nil error", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isUnnamedPreparedStatementMissing(tc.err); got != tc.want {
				t.Fatalf("isUnnamedPreparedStatementMissing(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestQuoteLiteral(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"weekly_digest": "'weekly_digest'",
		"o'hara":        "'o''hara'",
		"":              "''",
	}
	for input, want := range cases {
		if got := quoteLiteral(input); got != want {
			t.Fatalf("quoteLiteral(%q) = %q, want %q", input, got, want)
		}
	}
}
