package usecase

import (
	"fmt"
	"math/rand/v2"

	"github.com/gridironlab/weekly-digest/internal/domain/game"
)

// RecapService turns a ranked record into digest copy: a two-sentence recap,
// a one-stat line and a why-it-mattered rationale. Everything is
// deterministic except the rationale draw, which goes through an injectable
// picker so tests can pin it.
type RecapService struct {
	pick func(n int) int
}

func NewRecapService(pick func(n int) int) *RecapService {
	if pick == nil {
		pick = rand.IntN
	}

	return &RecapService{pick: pick}
}

func (s *RecapService) Synthesize(r game.Record) game.Record {
	character := game.Classify(r)

	r.Recap = headline(r, character) + " " + closer(r)
	r.OneStat = oneStat(r)

	candidates := rationaleCandidates(r.IsShootout(), r.IsClose())
	r.WhyItMattered = candidates[s.pick(len(candidates))]

	return r
}

func headline(r game.Record, character game.Character) string {
	winner, loser := r.WinnerName(), r.LoserName()
	high, low := r.WinnerScore(), r.LoserScore()

	switch character {
	case game.CharacterOvertime:
		if r.IsShootout() {
			return fmt.Sprintf("%s outlasted %s %d-%d in an overtime shootout.", winner, loser, high, low)
		}
		return fmt.Sprintf("%s survived %s %d-%d in a tight overtime battle.", winner, loser, high, low)
	case game.CharacterShootoutClose:
		return fmt.Sprintf("%s outgunned %s by %d %s in a high-scoring shootout.",
			winner, loser, r.ScoreDifferential, pointWord(r.ScoreDifferential))
	case game.CharacterClose:
		return fmt.Sprintf("%s slipped past %s %d-%d in a narrow victory.", winner, loser, high, low)
	case game.CharacterShootoutDominant:
		return fmt.Sprintf("%s poured it on against %s, winning %d-%d in a full-throttle shootout.", winner, loser, high, low)
	default:
		return fmt.Sprintf("%s handled %s %d-%d from start to finish.", winner, loser, high, low)
	}
}

// closer always speaks about the home side in shootouts, whichever side won.
// That asymmetry predates this service; downstream copy depends on it.
func closer(r game.Record) string {
	if r.IsShootout() {
		if r.WinnerSide == game.WinnerHome {
			return fmt.Sprintf("%s came up with the stops that mattered.", r.HomeTeam)
		}
		return fmt.Sprintf("%s fell short on late drives.", r.HomeTeam)
	}

	if r.IsClose() {
		return "It was still anyone's game late in the fourth."
	}
	return fmt.Sprintf("%s established momentum early and never let go.", r.WinnerName())
}

func oneStat(r game.Record) string {
	switch {
	case r.IsOvertime():
		return fmt.Sprintf("%d periods of football", r.PeriodsPlayed)
	case r.IsShootout():
		return fmt.Sprintf("%d combined points", r.TotalPoints)
	case r.IsClose():
		return fmt.Sprintf("decided by %d %s", r.ScoreDifferential, pointWord(r.ScoreDifferential))
	default:
		return fmt.Sprintf("%s won by %d", r.WinnerName(), r.ScoreDifferential)
	}
}

// rationaleResilience appears in every candidate set.
const rationaleResilience = "Both sides showed the kind of resilience that carries deep into the season."

func rationaleCandidates(isShootout, isClose bool) [3]string {
	switch {
	case isShootout && isClose:
		return [3]string{
			rationaleResilience,
			"Offenses like these change conference title math in a hurry.",
			"A scoring duel this tight will echo through the rankings conversation.",
		}
	case isShootout:
		return [3]string{
			rationaleResilience,
			"An offensive statement that will show up in every scouting report.",
			"Pace like this forces every defensive coordinator on the schedule to adjust.",
		}
	case isClose:
		return [3]string{
			rationaleResilience,
			"One-score finishes like this define a season's trajectory.",
			"Games this tight reshape how the committee weighs the resume.",
		}
	default:
		return [3]string{
			rationaleResilience,
			"A complete performance that resets expectations for the stretch run.",
			"Control from wire to wire is the kind of signal voters remember.",
		}
	}
}

func pointWord(n int) string {
	if n == 1 {
		return "point"
	}
	return "points"
}
