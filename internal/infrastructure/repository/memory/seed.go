package memory

import (
	"fmt"

	"github.com/gridironlab/weekly-digest/internal/domain/opinion"
	"github.com/gridironlab/weekly-digest/internal/domain/teammeta"
)

const (
	ScopeCollege = "college"
)

// SeedTeamMeta returns the built-in team directory used when no external
// directory service is configured. Logos point at the public ESPN CDN; teams
// missing here fall back to derived abbreviations downstream.
func SeedTeamMeta() map[string]map[string]teammeta.Meta {
	college := map[string]teammeta.Meta{}
	add := func(name, abbr string, espnID int64) {
		college[name] = teammeta.Meta{
			Abbr: abbr,
			Logo: fmt.Sprintf("https://a.espncdn.com/i/teamlogos/ncaa/500/%d.png", espnID),
			ID:   espnID,
		}
	}

	add("Air Force", "AFA", 2005)
	add("Alabama", "ALA", 333)
	add("Boise State", "BSU", 68)
	add("Colorado State", "CSU", 36)
	add("Fresno State", "FRES", 278)
	add("Georgia", "UGA", 61)
	add("Hawai'i", "HAW", 62)
	add("LSU", "LSU", 99)
	add("Michigan", "MICH", 130)
	add("Nevada", "NEV", 2440)
	add("New Mexico", "UNM", 167)
	add("Notre Dame", "ND", 87)
	add("Ohio State", "OSU", 194)
	add("Oregon", "ORE", 2483)
	add("Penn State", "PSU", 213)
	add("San Diego State", "SDSU", 21)
	add("San Jose State", "SJSU", 23)
	add("Texas", "TEX", 251)
	add("UNLV", "UNLV", 2439)
	add("Utah State", "USU", 328)
	add("Washington", "WASH", 264)
	add("Wyoming", "WYO", 2751)

	return map[string]map[string]teammeta.Meta{
		ScopeCollege: college,
	}
}

// SeedOpinions returns the fixed commentary rotation per scope.
func SeedOpinions() []opinion.Opinion {
	return []opinion.Opinion{
		{Scope: ScopeCollege, Text: "The transfer portal giveth, and Saturday it took away."},
		{Scope: ScopeCollege, Text: "Somewhere a defensive coordinator is updating his resume."},
		{Scope: ScopeCollege, Text: "The committee will regret this."},
		{Scope: ScopeCollege, Text: "Week-to-week chaos is the sport's best feature, not a bug."},
		{Scope: ScopeCollege, Text: "Fourth-quarter play calling decided more games than talent did."},
		{Scope: ScopeCollege, Text: "If your team won ugly, it still counts. Ask the poll voters."},
	}
}
