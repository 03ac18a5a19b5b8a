package game

import "sort"

// TopGamesLimit caps how many ranked games make the digest.
const TopGamesLimit = 5

const (
	closeMargin   = 8
	tightMargin   = 4
	shootoutTotal = 70
	blowoutTotal  = 80
)

// Derive fills the computed fields for an eligible record. Ineligible
// records are returned unchanged. Ties resolve to the home side; that
// convention predates this service and is kept for output parity.
func Derive(r Record) Record {
	if !r.Eligible() {
		return r
	}

	home := *r.HomeScore
	away := *r.AwayScore

	diff := home - away
	if diff < 0 {
		diff = -diff
	}
	r.ScoreDifferential = diff
	r.TotalPoints = home + away

	if home >= away {
		r.WinnerSide = WinnerHome
	} else {
		r.WinnerSide = WinnerAway
	}

	return r
}

// Score computes the excitement score from the derived fields. Every bonus
// is additive except the overtime tier, where only one of the two bonuses
// fires per record.
func Score(r Record) int {
	score := 0

	if r.ScoreDifferential <= closeMargin {
		score += 6
	}
	if r.ScoreDifferential <= tightMargin {
		score += 4
	}
	if r.ScoreDifferential == 0 {
		score += 3
	}

	if r.TotalPoints > shootoutTotal {
		score += 3
	}
	if r.TotalPoints > blowoutTotal {
		score += 2
	}

	if r.ConferenceGame {
		score++
	}

	switch {
	case r.PeriodsPlayed > RegulationPeriods+1:
		score += 6
	case r.PeriodsPlayed == RegulationPeriods+1:
		score += 4
	}

	return score
}

// Rank filters out ineligible records, derives and scores the rest, orders
// them by score descending and truncates to limit. The sort is stable:
// equal scores keep the upstream order, which is the only tie-break the
// input defines.
func Rank(records []Record, limit int) []Record {
	eligible := make([]Record, 0, len(records))
	for _, r := range records {
		if !r.Eligible() {
			continue
		}
		r = Derive(r)
		r.RankScore = Score(r)
		eligible = append(eligible, r)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].RankScore > eligible[j].RankScore
	})

	if limit > 0 && len(eligible) > limit {
		eligible = eligible[:limit]
	}

	return eligible
}

// Classify buckets a derived record for recap dispatch.
func Classify(r Record) Character {
	switch {
	case r.IsOvertime():
		return CharacterOvertime
	case r.IsShootout() && r.IsClose():
		return CharacterShootoutClose
	case r.IsClose():
		return CharacterClose
	case r.IsShootout():
		return CharacterShootoutDominant
	default:
		return CharacterDominant
	}
}
