package game

import "time"

// Character buckets a completed game by how it played out. It is computed
// once per ranked game and drives recap phrasing downstream.
type Character string

const (
	CharacterOvertime         Character = "OVERTIME"
	CharacterShootoutClose    Character = "SHOOTOUT_CLOSE"
	CharacterClose            Character = "CLOSE"
	CharacterShootoutDominant Character = "SHOOTOUT_DOMINANT"
	CharacterDominant         Character = "DOMINANT"
)

const (
	// RegulationPeriods is a game with no overtime.
	RegulationPeriods = 4

	WinnerHome = "home"
	WinnerAway = "away"
)

// Record is one normalized game. Score pointers are nil when the upstream
// payload carried no value; such records survive normalization but are
// ineligible for ranking.
type Record struct {
	ID             string
	HomeTeam       string
	AwayTeam       string
	HomeID         int64
	AwayID         int64
	HomeScore      *int
	AwayScore      *int
	Completed      bool
	PeriodsPlayed  int
	ConferenceGame bool
	KickoffAt      *time.Time
	Tags           []string

	// Derived by the ranker.
	ScoreDifferential int
	TotalPoints       int
	WinnerSide        string
	RankScore         int

	// Filled by the recap synthesizer.
	Recap         string
	OneStat       string
	WhyItMattered string
}

// Eligible reports whether the record can be ranked: the game finished and
// both final scores are present and non-negative.
func (r Record) Eligible() bool {
	return r.Completed &&
		r.HomeScore != nil && r.AwayScore != nil &&
		*r.HomeScore >= 0 && *r.AwayScore >= 0
}

func (r Record) IsOvertime() bool {
	return r.PeriodsPlayed > RegulationPeriods
}

func (r Record) IsTie() bool {
	return r.HomeScore != nil && r.AwayScore != nil && *r.HomeScore == *r.AwayScore
}

// IsClose and IsShootout read derived fields, so they are only meaningful
// after Derive has run.
func (r Record) IsClose() bool {
	return r.ScoreDifferential <= closeMargin
}

func (r Record) IsShootout() bool {
	return r.TotalPoints > shootoutTotal
}

func (r Record) WinnerName() string {
	if r.WinnerSide == WinnerAway {
		return r.AwayTeam
	}
	return r.HomeTeam
}

func (r Record) LoserName() string {
	if r.WinnerSide == WinnerAway {
		return r.HomeTeam
	}
	return r.AwayTeam
}

func (r Record) WinnerScore() int {
	if r.WinnerSide == WinnerAway {
		return scoreValue(r.AwayScore)
	}
	return scoreValue(r.HomeScore)
}

func (r Record) LoserScore() int {
	if r.WinnerSide == WinnerAway {
		return scoreValue(r.HomeScore)
	}
	return scoreValue(r.AwayScore)
}

func scoreValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
