/* standings.go
 * Contains the tie-break statistic recomputation and the final ranking. The statistics are always
 * recomputed wholesale from the opponent sets and result entries, never maintained incrementally
 * Authors: Zachary Bower
 */

package tournament

import (
	"sort"
	"time"
)

// scoreEpsilon treats near-equal floating point sort keys as tied
const scoreEpsilon = 0.001

func floatsEqual(a, b float64) bool {
	diff := a - b
	return diff < scoreEpsilon && diff > -scoreEpsilon
}

// UpdateStatistics recomputes Buchholz, SOS-Buchholz, OMW% and OOMW% for every player in two
// strictly separated passes. OOMW% is the average of the opponents' OMW% values, so it must not be
// computed until the first pass has finished for all players; folding it into the first pass would
// read partially updated values and silently corrupt the rankings
func (t *Tournament) UpdateStatistics() {
	// pass 1: Buchholz from current scores, OMW% from opponents' result entries
	for i := range t.Players {
		p := &t.Players[i]
		buchholz := 0
		winOrBye := 0
		totalResults := 0
		for _, oppID := range p.Opponents {
			opp := t.playerByID(oppID)
			if opp == nil {
				continue
			}
			buchholz += opp.Score
			for _, entry := range opp.Results {
				totalResults++
				if entry.ResultType == entryWin || entry.ResultType == entryBye {
					winOrBye++
				}
			}
		}
		p.Buchholz = buchholz
		if totalResults > 0 {
			p.OMWPercentage = float64(winOrBye) / float64(totalResults) * 100
		} else {
			p.OMWPercentage = 0
		}
	}

	// pass 2: SOS-Buchholz and OOMW% over the finalized pass-1 values
	for i := range t.Players {
		p := &t.Players[i]
		sos := 0
		omwSum := 0.0
		opponents := 0
		for _, oppID := range p.Opponents {
			opp := t.playerByID(oppID)
			if opp == nil {
				continue
			}
			sos += opp.Buchholz
			omwSum += opp.OMWPercentage
			opponents++
		}
		p.SOSBuchholz = sos
		if opponents > 0 {
			p.OOMWPercentage = omwSum / float64(opponents)
		} else {
			p.OOMWPercentage = 0
		}
	}
}

// standingsLess orders players for pairing and ranking: score, then OMW%, then Buchholz, then
// OOMW%, all descending, with float comparisons treating differences under scoreEpsilon as ties
func standingsLess(a, b *Player) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !floatsEqual(a.OMWPercentage, b.OMWPercentage) {
		return a.OMWPercentage > b.OMWPercentage
	}
	if a.Buchholz != b.Buchholz {
		return a.Buchholz > b.Buchholz
	}
	if !floatsEqual(a.OOMWPercentage, b.OOMWPercentage) {
		return a.OOMWPercentage > b.OOMWPercentage
	}
	return false
}

// FinalRanking recomputes the tie-break statistics and returns every player, dropped ones
// included, in standings order with 1-based ranks assigned. Ranks are strictly positional: players
// with exactly equal sort keys still receive distinct consecutive ranks
func (t *Tournament) FinalRanking() []Player {
	t.UpdateStatistics()

	ranked := make([]*Player, 0, len(t.Players))
	for i := range t.Players {
		ranked = append(ranked, &t.Players[i])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return standingsLess(ranked[i], ranked[j])
	})

	result := make([]Player, 0, len(ranked))
	for i, p := range ranked {
		p.Rank = i + 1
		result = append(result, snapshotPlayer(p))
	}
	return result
}

// Finish freezes the tournament. Hardened relative to the original behavior: finishing is only
// allowed once the final round is complete.
// Postconditions: Tie-break statistics and ranks are final, IsFinished is set, or a StateError is
// returned when rounds remain or the current round is still in progress
func (t *Tournament) Finish() error {
	if t.IsFinished {
		return newStateError("tournament is already finished")
	}
	if t.CurrentRound < t.TotalRounds {
		return newStateError("cannot finish: %d of %d rounds played", t.CurrentRound, t.TotalRounds)
	}
	last, err := t.roundByNumber(t.CurrentRound)
	if err != nil {
		return newStateError("cannot finish: no rounds have been played")
	}
	if !last.Completed {
		return newStateError("cannot finish: round %d is still in progress", last.Round)
	}

	t.FinalRanking()
	t.IsFinished = true
	t.FinishedAt = time.Now().Unix()
	return nil
}
