/* pairings.go
 * Contains pairing generation: uniform random pairing for round 1, score-group Swiss pairing for
 * later rounds, validation of caller-supplied manual pairing sets, and the round start commit
 * Authors: Zachary Bower
 */

package tournament

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// GeneratePairings builds the candidate pairings for the next round without mutating any player
// state, so callers can preview and discard them freely. Round 1 pairs a uniform random shuffle of
// the active players; every later round uses the Swiss walk over the standings order.
// Postconditions: Returns pairings with sequential IDs (bye first when present), or a StateError
// when the tournament is already finished or past its final round
func (t *Tournament) GeneratePairings() ([]Pairing, error) {
	if err := t.checkCanStartRound(); err != nil {
		return nil, err
	}

	if t.CurrentRound == 0 {
		return t.generateRandomPairings(), nil
	}
	return t.generateSwissPairings(), nil
}

func (t *Tournament) checkCanStartRound() error {
	if t.IsFinished {
		return newStateError("tournament is already finished")
	}
	if t.CurrentRound >= t.TotalRounds {
		return newStateError("all %d rounds have already been started", t.TotalRounds)
	}
	return nil
}

// generateRandomPairings shuffles the active players and pairs them consecutively. With an odd
// count the last shuffled player receives the bye
func (t *Tournament) generateRandomPairings() []Pairing {
	active := t.activePlayers()
	shuffled := append([]*Player{}, active...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var pairings []Pairing
	if len(shuffled)%2 == 1 {
		last := shuffled[len(shuffled)-1]
		shuffled = shuffled[:len(shuffled)-1]
		pairings = append(pairings, newByePairing(last))
	}
	for i := 0; i+1 < len(shuffled); i += 2 {
		pairings = append(pairings, newPairing(shuffled[i], shuffled[i+1]))
	}

	renumberPairings(pairings)
	return pairings
}

// generateSwissPairings recomputes the tie-break statistics, sorts the active players by the
// standings order and walks the list top to bottom. For each unpaired player the opponent search
// prefers an unfaced player on the same score, then any unfaced player, and finally tolerates a
// repeat opponent so that every active player is always paired
func (t *Tournament) generateSwissPairings() []Pairing {
	t.UpdateStatistics()

	sorted := t.activePlayers()
	sort.SliceStable(sorted, func(i, j int) bool {
		return standingsLess(sorted[i], sorted[j])
	})

	used := make(map[int]bool)
	var pairings []Pairing

	if len(sorted)%2 == 1 {
		bye := selectByeRecipient(sorted, used)
		used[bye.ID] = true
		pairings = append(pairings, newByePairing(bye))
	}

	for i, p1 := range sorted {
		if used[p1.ID] {
			continue
		}
		used[p1.ID] = true

		opp := findOpponent(sorted, i+1, p1, used)
		if opp == nil {
			// cannot happen with an even unpaired count, but never leave a player half-paired
			used[p1.ID] = false
			continue
		}
		used[opp.ID] = true
		pairings = append(pairings, newPairing(p1, opp))
	}

	renumberPairings(pairings)
	return pairings
}

// selectByeRecipient scans the standings from the bottom and prefers the lowest-ranked player who
// has never had a bye; if everyone has, it takes the bottom-most player with the fewest byes
func selectByeRecipient(sorted []*Player, used map[int]bool) *Player {
	var candidate *Player
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		if used[p.ID] {
			continue
		}
		if p.ByeCount == 0 {
			return p
		}
		if candidate == nil || p.ByeCount < candidate.ByeCount {
			candidate = p
		}
	}
	return candidate
}

// findOpponent searches the remaining standings for the best available opponent for p1:
// (a) same score, never faced; (b) any score, never faced; (c) any remaining player
func findOpponent(sorted []*Player, from int, p1 *Player, used map[int]bool) *Player {
	var sameScore, unfaced, any *Player
	for _, p2 := range sorted[from:] {
		if used[p2.ID] {
			continue
		}
		if any == nil {
			any = p2
		}
		if p1.hasFaced(p2.ID) {
			continue
		}
		if unfaced == nil {
			unfaced = p2
		}
		if sameScore == nil && floatsEqual(float64(p1.Score), float64(p2.Score)) {
			sameScore = p2
		}
	}
	if sameScore != nil {
		return sameScore
	}
	if unfaced != nil {
		return unfaced
	}
	return any
}

func (p *Player) hasFaced(opponentID int) bool {
	for _, id := range p.Opponents {
		if id == opponentID {
			return true
		}
	}
	return false
}

func newPairing(p1, p2 *Player) Pairing {
	snap2 := snapshotPlayer(p2)
	return Pairing{
		Player1: snapshotPlayer(p1),
		Player2: &snap2,
	}
}

// newByePairing marks the pairing completed immediately; the bye points themselves are only awarded
// when the round is committed by StartRound
func newByePairing(p *Player) Pairing {
	return Pairing{
		Player1:   snapshotPlayer(p),
		Player2:   nil,
		Result:    ResultBye,
		Completed: true,
	}
}

func renumberPairings(pairings []Pairing) {
	for i := range pairings {
		pairings[i].ID = i + 1
	}
}

// BuildCustomPairings validates a caller-supplied manual pairing set instead of generating one.
// Preconditions: Receives the requested pairings; Player2ID == 0 marks a solo bye entry
// Postconditions: Returns renumbered pairings, or a ValidationError naming every unknown, repeated
// or missing player and rejecting sets with more than one bye
func (t *Tournament) BuildCustomPairings(custom []CustomPairing) ([]Pairing, error) {
	if err := t.checkCanStartRound(); err != nil {
		return nil, err
	}
	if len(custom) == 0 {
		return nil, newValidationError("custom pairing set is empty")
	}

	var problems []string
	seen := make(map[int]bool)
	byeCount := 0

	resolve := func(id int) *Player {
		p := t.playerByID(id)
		if p == nil {
			problems = append(problems, fmt.Sprintf("unknown player id %d", id))
			return nil
		}
		if p.Dropped {
			problems = append(problems, fmt.Sprintf("player '%s' has dropped out", p.Name))
			return nil
		}
		if seen[id] {
			problems = append(problems, fmt.Sprintf("player '%s' appears more than once", p.Name))
			return nil
		}
		seen[id] = true
		return p
	}

	var pairings []Pairing
	for _, cp := range custom {
		p1 := resolve(cp.Player1ID)
		if cp.Player2ID == 0 {
			byeCount++
			if p1 != nil {
				pairings = append(pairings, newByePairing(p1))
			}
			continue
		}
		p2 := resolve(cp.Player2ID)
		if p1 != nil && p2 != nil {
			pairings = append(pairings, newPairing(p1, p2))
		}
	}

	if byeCount > 1 {
		problems = append(problems, fmt.Sprintf("%d byes requested but at most one is allowed", byeCount))
	}
	for _, p := range t.activePlayers() {
		if !seen[p.ID] {
			problems = append(problems, fmt.Sprintf("player '%s' is missing from the pairing set", p.Name))
		}
	}

	if len(problems) > 0 {
		return nil, newValidationError("invalid custom pairings: %s", strings.Join(problems, "; "))
	}

	renumberPairings(pairings)
	return pairings, nil
}

// StartRound commits a generated or custom pairing set as the next round. Any bye pairing is scored
// here: the recipient is awarded the bye points, their bye count is incremented and a bye result
// entry is appended.
// Postconditions: CurrentRound is incremented and the new round appended, or a StateError is
// returned when the round limit has been reached
func (t *Tournament) StartRound(pairings []Pairing) (*Round, error) {
	if err := t.checkCanStartRound(); err != nil {
		return nil, err
	}
	if len(pairings) == 0 {
		return nil, newValidationError("cannot start a round without pairings")
	}

	roundNum := t.CurrentRound + 1
	now := time.Now().Unix()

	round := Round{
		Round:     roundNum,
		Pairings:  pairings,
		StartedAt: now,
	}

	for i := range round.Pairings {
		p := &round.Pairings[i]
		if p.Player2 != nil {
			continue
		}
		recipient := t.playerByID(p.Player1.ID)
		if recipient == nil {
			return nil, newNotFoundError("bye recipient %d is not in the roster", p.Player1.ID)
		}
		t.awardPoints(recipient, t.Settings.ByePoints, entryBye, roundNum, p.ID)
		recipient.ByeCount++
		p.Result = ResultBye
		p.Completed = true
	}

	t.Rounds = append(t.Rounds, round)
	t.CurrentRound = roundNum
	t.refreshRoundCompletion(roundNum)

	return &t.Rounds[len(t.Rounds)-1], nil
}
