package draft

import "time"

// TeamRef is the published view of one side of a game.
type TeamRef struct {
	Name string `json:"name"`
	Abbr string `json:"abbr"`
	Logo string `json:"logo"`
}

// GameIDs carries upstream identifiers for deep links. Zero values mean the
// upstream payload had none.
type GameIDs struct {
	HomeID int64  `json:"homeId"`
	AwayID int64  `json:"awayId"`
	GameID string `json:"gameId"`
}

// PublishedGame is the externally visible shape of one ranked game. It is
// immutable once constructed.
type PublishedGame struct {
	Home          TeamRef  `json:"home"`
	Away          TeamRef  `json:"away"`
	Final         string   `json:"final"`
	Recap         string   `json:"recap"`
	OneStat       string   `json:"oneStat"`
	WhyItMattered string   `json:"whyItMattered"`
	Tags          []string `json:"tags"`
	IDs           GameIDs  `json:"ids"`
}

// Matchup is one upcoming game teased at the bottom of the digest.
type Matchup struct {
	When  string `json:"when"`
	Match string `json:"match"`
	Hook  string `json:"hook"`
}

// Meta carries provenance for one generation run.
type Meta struct {
	Season      int      `json:"season"`
	Week        int      `json:"week"`
	Scope       string   `json:"scope"`
	GeneratedAt string   `json:"generatedAt"`
	Sources     []string `json:"sources"`
}

// Document is one assembled weekly digest draft. It is written once and
// never mutated afterwards.
type Document struct {
	Meta          Meta            `json:"meta"`
	TopGames      []PublishedGame `json:"topGames"`
	QuickOpinions []string        `json:"quickOpinions"`
	WhatsNext     []Matchup       `json:"whatsNext"`
}

// FormatGeneratedAt renders the assembly timestamp the way the published
// document expects it.
func FormatGeneratedAt(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
