/* lifecycle_test.go
 * Contains an end-to-end test driving a five player tournament from initialization through every
 * round to the final ranking, using generated pairings throughout
 * Authors: Zachary Bower
 */

package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFivePlayerTournament_EndToEnd(t *testing.T) {
	tourney := newTestTournament(t, "Alice", "Bob", "Carol", "Dave", "Erin")
	require.Equal(t, 3, tourney.TotalRounds)

	// round 1: random pairings, two matches plus a bye
	pairings, err := tourney.GeneratePairings()
	require.NoError(t, err)
	round, err := tourney.StartRound(pairings)
	require.NoError(t, err)

	var firstByeID int
	matches := 0
	for _, p := range round.Pairings {
		if p.Player2 == nil {
			firstByeID = p.Player1.ID
			continue
		}
		matches++
		require.NoError(t, tourney.RecordResult(1, p.ID, ResultPlayer1Win, nil))
	}
	require.Equal(t, 2, matches)
	require.NotZero(t, firstByeID)
	assert.True(t, tourney.Rounds[0].Completed)

	// two winners plus the bye recipient sit on 3 points, the two losers on 0
	onThree, onZero := 0, 0
	for _, p := range tourney.Players {
		switch p.Score {
		case 3:
			onThree++
		case 0:
			onZero++
		}
	}
	assert.Equal(t, 3, onThree)
	assert.Equal(t, 2, onZero)
	assert.Equal(t, 1, tourney.playerByID(firstByeID).ByeCount)

	// round 2: Swiss pairings pair the leaders together and give the bye to a pointless player
	pairings, err = tourney.GeneratePairings()
	require.NoError(t, err)
	round, err = tourney.StartRound(pairings)
	require.NoError(t, err)

	leaderPairings := 0
	for _, p := range round.Pairings {
		if p.Player2 == nil {
			assert.NotEqual(t, firstByeID, p.Player1.ID)
			assert.Zero(t, p.Player1.Score)
			continue
		}
		if p.Player1.Score == 3 && p.Player2.Score == 3 {
			leaderPairings++
		}
		require.NoError(t, tourney.RecordResult(2, p.ID, ResultPlayer1Win, nil))
	}
	assert.Equal(t, 1, leaderPairings)

	// round 3
	pairings, err = tourney.GeneratePairings()
	require.NoError(t, err)
	round, err = tourney.StartRound(pairings)
	require.NoError(t, err)
	for _, p := range round.Pairings {
		if p.Player2 == nil {
			continue
		}
		require.NoError(t, tourney.RecordResult(3, p.ID, ResultPlayer1Win, nil))
	}

	// every round hands out 9 points: two decisive matches and one bye
	assert.Equal(t, 27, totalPoints(tourney))

	// no fourth round
	_, err = tourney.GeneratePairings()
	require.Error(t, err)

	require.NoError(t, tourney.Finish())
	assert.True(t, tourney.IsFinished)

	ranking := tourney.FinalRanking()
	require.Len(t, ranking, 5)
	for i := 1; i < len(ranking); i++ {
		assert.GreaterOrEqual(t, ranking[i-1].Score, ranking[i].Score)
	}
	assert.Equal(t, 1, ranking[0].Rank)
}

func TestTournament_EveryPlayerPairedEveryRound(t *testing.T) {
	tourney := newTestTournament(t, "A", "B", "C", "D", "E", "F", "G")

	for r := 1; r <= tourney.TotalRounds; r++ {
		pairings, err := tourney.GeneratePairings()
		require.NoError(t, err)
		round, err := tourney.StartRound(pairings)
		require.NoError(t, err)

		assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7}, pairedIDs(round.Pairings), "round %d", r)

		for _, p := range round.Pairings {
			if p.Player2 == nil {
				continue
			}
			require.NoError(t, tourney.RecordResult(r, p.ID, ResultPlayer1Win, nil))
		}
	}
}
