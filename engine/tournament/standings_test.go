/* standings_test.go
 * Contains unit tests for the two-pass tie-break recomputation, the standings order, the final
 * ranking and the tournament finish
 * Authors: Zachary Bower
 */

package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// playRound commits a pairing set and records the given results in pairing ID order
func playRound(t *testing.T, tourney *Tournament, custom []CustomPairing, results ...ResultCode) {
	t.Helper()
	round := startCustomRound(t, tourney, custom)
	idx := 0
	for _, p := range round.Pairings {
		if p.Player2 == nil {
			continue
		}
		require.Less(t, idx, len(results), "not enough results for round %d", round.Round)
		require.NoError(t, tourney.RecordResult(round.Round, p.ID, results[idx], nil))
		idx++
	}
}

// region UpdateStatistics tests

func TestUpdateStatistics_SingleRound(t *testing.T) {
	tourney := newTestTournament(t, "A", "B", "C", "D")
	playRound(t, tourney, []CustomPairing{{1, 2}, {3, 4}}, ResultPlayer1Win, ResultPlayer1Win)

	tourney.UpdateStatistics()

	a, b := &tourney.Players[0], &tourney.Players[1]
	// A beat B, so B's only opponent is on one win and A's is on one loss
	assert.Equal(t, 0, a.Buchholz)
	assert.Equal(t, 3, b.Buchholz)
	assert.InDelta(t, 0, a.OMWPercentage, scoreEpsilon)
	assert.InDelta(t, 100, b.OMWPercentage, scoreEpsilon)
	assert.Equal(t, 3, a.SOSBuchholz)
	assert.InDelta(t, 100, a.OOMWPercentage, scoreEpsilon)
	assert.InDelta(t, 0, b.OOMWPercentage, scoreEpsilon)
}

func TestUpdateStatistics_TwoRounds(t *testing.T) {
	tourney := newTestTournament(t, "A", "B", "C", "D")
	playRound(t, tourney, []CustomPairing{{1, 2}, {3, 4}}, ResultPlayer1Win, ResultPlayer1Win)
	playRound(t, tourney, []CustomPairing{{1, 3}, {2, 4}}, ResultPlayer1Win, ResultPlayer1Win)

	tourney.UpdateStatistics()

	a := tourney.Players[0]
	// A's opponents B and C hold six points between them, one win and one loss each
	assert.Equal(t, 6, a.Buchholz)
	assert.InDelta(t, 50, a.OMWPercentage, scoreEpsilon)
	assert.Equal(t, 12, a.SOSBuchholz)
	assert.InDelta(t, 50, a.OOMWPercentage, scoreEpsilon)
}

func TestUpdateStatistics_OOMWIsMeanOfOpponentsOMW(t *testing.T) {
	tourney := newTestTournament(t, "A", "B", "C", "D")
	playRound(t, tourney, []CustomPairing{{1, 2}, {3, 4}}, ResultPlayer1Win, ResultPlayer1Win)
	playRound(t, tourney, []CustomPairing{{1, 3}, {2, 4}}, ResultPlayer1Win, ResultPlayer1Win)

	tourney.UpdateStatistics()

	for i := range tourney.Players {
		p := tourney.Players[i]
		sum := 0.0
		for _, oppID := range p.Opponents {
			sum += tourney.playerByID(oppID).OMWPercentage
		}
		expected := sum / float64(len(p.Opponents))
		assert.InDelta(t, expected, p.OOMWPercentage, scoreEpsilon, "player %s", p.Name)
	}
}

func TestUpdateStatistics_Idempotent(t *testing.T) {
	tourney := newTestTournament(t, "A", "B", "C", "D")
	playRound(t, tourney, []CustomPairing{{1, 2}, {3, 4}}, ResultPlayer1Win, ResultDraw)

	tourney.UpdateStatistics()
	snapshot := make([]Player, len(tourney.Players))
	copy(snapshot, tourney.Players)

	tourney.UpdateStatistics()

	for i := range tourney.Players {
		p := tourney.Players[i]
		assert.Equal(t, snapshot[i].Buchholz, p.Buchholz)
		assert.Equal(t, snapshot[i].SOSBuchholz, p.SOSBuchholz)
		assert.InDelta(t, snapshot[i].OMWPercentage, p.OMWPercentage, scoreEpsilon)
		assert.InDelta(t, snapshot[i].OOMWPercentage, p.OOMWPercentage, scoreEpsilon)
	}
}

func TestUpdateStatistics_ByeCountsAsWinForOpponentOMW(t *testing.T) {
	tourney := newTestTournament(t, "A", "B", "C")
	playRound(t, tourney, []CustomPairing{{1, 2}, {3, 0}}, ResultPlayer1Win)
	playRound(t, tourney, []CustomPairing{{1, 3}, {2, 0}}, ResultPlayer2Win)

	tourney.UpdateStatistics()

	// A's opponents are B (loss + bye) and C (bye + win): 3 of 4 entries count as wins
	a := tourney.Players[0]
	assert.InDelta(t, 75, a.OMWPercentage, scoreEpsilon)
}

func TestUpdateStatistics_NoOpponentsZeroed(t *testing.T) {
	tourney := newTestTournament(t, "A", "B")

	tourney.UpdateStatistics()

	for _, p := range tourney.Players {
		assert.Zero(t, p.Buchholz)
		assert.Zero(t, p.SOSBuchholz)
		assert.Zero(t, p.OMWPercentage)
		assert.Zero(t, p.OOMWPercentage)
	}
}

// endregion

// region standings order tests

func TestStandingsLess_ScoreFirst(t *testing.T) {
	a := &Player{Score: 6, OMWPercentage: 0}
	b := &Player{Score: 3, OMWPercentage: 100}

	assert.True(t, standingsLess(a, b))
	assert.False(t, standingsLess(b, a))
}

func TestStandingsLess_OMWBreaksScoreTie(t *testing.T) {
	a := &Player{Score: 3, OMWPercentage: 66.7}
	b := &Player{Score: 3, OMWPercentage: 33.3}

	assert.True(t, standingsLess(a, b))
}

func TestStandingsLess_BuchholzBreaksOMWTie(t *testing.T) {
	a := &Player{Score: 3, OMWPercentage: 50, Buchholz: 9}
	b := &Player{Score: 3, OMWPercentage: 50, Buchholz: 6}

	assert.True(t, standingsLess(a, b))
}

func TestStandingsLess_NearEqualFloatsAreTied(t *testing.T) {
	a := &Player{Score: 3, OMWPercentage: 50.0, Buchholz: 6, OOMWPercentage: 40.0}
	b := &Player{Score: 3, OMWPercentage: 50.0005, Buchholz: 6, OOMWPercentage: 40.0}

	assert.False(t, standingsLess(a, b))
	assert.False(t, standingsLess(b, a))
}

// endregion

// region FinalRanking tests

func TestFinalRanking_OrdersByStandings(t *testing.T) {
	tourney := newTestTournament(t, "A", "B", "C", "D")
	playRound(t, tourney, []CustomPairing{{1, 2}, {3, 4}}, ResultPlayer1Win, ResultPlayer1Win)
	playRound(t, tourney, []CustomPairing{{1, 3}, {2, 4}}, ResultPlayer1Win, ResultPlayer1Win)

	ranking := tourney.FinalRanking()

	require.Len(t, ranking, 4)
	assert.Equal(t, "A", ranking[0].Name)
	assert.Equal(t, 1, ranking[0].Rank)
	assert.Equal(t, "D", ranking[3].Name)
	assert.Equal(t, 4, ranking[3].Rank)
}

func TestFinalRanking_StrictPositionalRanks(t *testing.T) {
	tourney := newTestTournament(t, "A", "B", "C", "D")
	playRound(t, tourney, []CustomPairing{{1, 2}, {3, 4}}, ResultDraw, ResultDraw)

	ranking := tourney.FinalRanking()

	// all four are fully tied but still get distinct consecutive ranks
	for i, p := range ranking {
		assert.Equal(t, i+1, p.Rank)
	}
}

func TestFinalRanking_IncludesDroppedPlayers(t *testing.T) {
	tourney := newTestTournament(t, "A", "B", "C", "D")
	playRound(t, tourney, []CustomPairing{{1, 2}, {3, 4}}, ResultPlayer1Win, ResultPlayer1Win)
	tourney.Players[1].Dropped = true

	ranking := tourney.FinalRanking()

	assert.Len(t, ranking, 4)
}

func TestFinalRanking_WritesRanksToRoster(t *testing.T) {
	tourney := newTestTournament(t, "A", "B")
	playRound(t, tourney, []CustomPairing{{1, 2}}, ResultPlayer1Win)

	tourney.FinalRanking()

	assert.Equal(t, 1, tourney.Players[0].Rank)
	assert.Equal(t, 2, tourney.Players[1].Rank)
}

// endregion

// region Finish tests

// playFullTournament plays every round of a 2-player tournament to completion
func playFullTournament(t *testing.T, tourney *Tournament) {
	t.Helper()
	for tourney.CurrentRound < tourney.TotalRounds {
		playRound(t, tourney, []CustomPairing{{1, 2}}, ResultPlayer1Win)
	}
}

func TestFinish_Success(t *testing.T) {
	tourney := newTestTournament(t, "A", "B")
	playFullTournament(t, tourney)

	err := tourney.Finish()

	require.NoError(t, err)
	assert.True(t, tourney.IsFinished)
	assert.NotZero(t, tourney.FinishedAt)
	assert.Equal(t, 1, tourney.Players[0].Rank)
}

func TestFinish_BeforeFinalRoundRejected(t *testing.T) {
	tourney := newTestTournament(t, "A", "B")
	playRound(t, tourney, []CustomPairing{{1, 2}}, ResultPlayer1Win)

	err := tourney.Finish()

	require.Error(t, err)
	var serr *StateError
	assert.ErrorAs(t, err, &serr)
	assert.False(t, tourney.IsFinished)
}

func TestFinish_IncompleteLastRoundRejected(t *testing.T) {
	tourney := newTestTournament(t, "A", "B")
	playRound(t, tourney, []CustomPairing{{1, 2}}, ResultPlayer1Win)
	playRound(t, tourney, []CustomPairing{{1, 2}}, ResultPlayer1Win)
	startCustomRound(t, tourney, []CustomPairing{{1, 2}})

	err := tourney.Finish()

	require.Error(t, err)
	var serr *StateError
	assert.ErrorAs(t, err, &serr)
}

func TestFinish_AlreadyFinishedRejected(t *testing.T) {
	tourney := newTestTournament(t, "A", "B")
	playFullTournament(t, tourney)
	require.NoError(t, tourney.Finish())

	err := tourney.Finish()

	require.Error(t, err)
	var serr *StateError
	assert.ErrorAs(t, err, &serr)
}

// endregion
