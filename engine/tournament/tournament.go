/* tournament.go
 * Contains tournament initialization and the shared roster/round lookup helpers used by the pairing,
 * results and standings code
 * Authors: Zachary Bower
 */

package tournament

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DefaultSettings returns the standard scoring configuration: 3 points for a win or bye, 1 for a
// draw, 0 for a loss
func DefaultSettings() Settings {
	return Settings{
		WinPoints:  3,
		DrawPoints: 1,
		LossPoints: 0,
		ByePoints:  3,
	}
}

// New validates the raw player name list and builds a fresh tournament aggregate.
// Preconditions: Receives the raw list of player names and the initialization options
// Postconditions: Returns a tournament with sequential player IDs in input order, zeroed statistics
// and the computed round count, or a ValidationError if fewer than 2 usable names remain after
// trimming or any name repeats
func New(names []string, opts Options) (*Tournament, error) {
	var cleaned []string
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		cleaned = append(cleaned, trimmed)
	}

	if len(cleaned) < 2 {
		return nil, newValidationError("at least 2 players are required but got %d", len(cleaned))
	}

	seen := make(map[string]bool)
	for _, name := range cleaned {
		if seen[name] {
			return nil, newValidationError("duplicate player name: '%s'", name)
		}
		seen[name] = true
	}

	players := make([]Player, 0, len(cleaned))
	for i, name := range cleaned {
		players = append(players, Player{
			ID:        i + 1,
			Name:      name,
			Opponents: []int{},
			Results:   []ResultEntry{},
		})
	}

	settings := DefaultSettings()
	settings.AllowDraws = opts.AllowDraws
	settings.AllowDoubleLoss = opts.AllowDoubleLoss

	now := time.Now()
	title := opts.TournamentName
	if title == "" {
		title = fmt.Sprintf("%d Player Swiss %s", len(players), now.Format("2006-01-02"))
	}

	return &Tournament{
		TournamentID:   fmt.Sprintf("tournament_%d", now.UnixNano()),
		TournamentName: title,
		Players:        players,
		Rounds:         []Round{},
		CurrentRound:   0,
		TotalRounds:    roundCount(len(players), opts.CustomRounds),
		Settings:       settings,
		CreatedAt:      now.Unix(),
	}, nil
}

// roundCount computes the number of rounds: max(3, ceil(log2(n))), or the manual override when
// supplied, which is floored at 3 as well
func roundCount(playerCount int, custom int) int {
	if custom > 0 {
		if custom < 3 {
			return 3
		}
		return custom
	}
	rounds := int(math.Ceil(math.Log2(float64(playerCount))))
	if rounds < 3 {
		return 3
	}
	return rounds
}

// playerByID returns a live pointer into the roster, or nil for an unknown ID
func (t *Tournament) playerByID(id int) *Player {
	for i := range t.Players {
		if t.Players[i].ID == id {
			return &t.Players[i]
		}
	}
	return nil
}

// activePlayers returns live pointers to every non-dropped player in roster order
func (t *Tournament) activePlayers() []*Player {
	var active []*Player
	for i := range t.Players {
		if !t.Players[i].Dropped {
			active = append(active, &t.Players[i])
		}
	}
	return active
}

// roundByNumber resolves a 1-based round number to a live round pointer
func (t *Tournament) roundByNumber(roundNum int) (*Round, error) {
	if roundNum < 1 || roundNum > len(t.Rounds) {
		return nil, newNotFoundError("round %d does not exist", roundNum)
	}
	return &t.Rounds[roundNum-1], nil
}

// pairingByID resolves a pairing within a round
func (r *Round) pairingByID(pairingID int) (*Pairing, error) {
	for i := range r.Pairings {
		if r.Pairings[i].ID == pairingID {
			return &r.Pairings[i], nil
		}
	}
	return nil, newNotFoundError("pairing %d does not exist in round %d", pairingID, r.Round)
}

// snapshotPlayer copies a player for embedding into a pairing. Slices are cloned so later roster
// mutations can never show through in historical pairing displays
func snapshotPlayer(p *Player) Player {
	snap := *p
	snap.Opponents = append([]int{}, p.Opponents...)
	snap.Results = append([]ResultEntry{}, p.Results...)
	return snap
}

// DropPlayers marks every listed player as withdrawn. Dropped players keep their recorded results
// and their place in the final ranking but are excluded from all future pairings.
// Preconditions: Receives a non-empty list of player IDs
// Postconditions: Every listed player is marked dropped, or a NotFoundError is returned and no
// player is touched when any ID is unknown
func (t *Tournament) DropPlayers(playerIDs []int) error {
	if len(playerIDs) == 0 {
		return newValidationError("no players to drop")
	}
	for _, id := range playerIDs {
		if t.playerByID(id) == nil {
			return newNotFoundError("player %d does not exist", id)
		}
	}
	for _, id := range playerIDs {
		t.playerByID(id).Dropped = true
	}
	return nil
}

// Clone returns a deep copy of the aggregate. Mutating the copy, including the players embedded in
// its pairings, never shows through in the original
func (t *Tournament) Clone() *Tournament {
	c := *t
	c.Players = make([]Player, len(t.Players))
	for i := range t.Players {
		c.Players[i] = snapshotPlayer(&t.Players[i])
	}
	c.Rounds = make([]Round, len(t.Rounds))
	for i, rd := range t.Rounds {
		round := rd
		round.Pairings = make([]Pairing, len(rd.Pairings))
		for j, p := range rd.Pairings {
			pairing := p
			pairing.Player1 = snapshotPlayer(&p.Player1)
			if p.Player2 != nil {
				opp := snapshotPlayer(p.Player2)
				pairing.Player2 = &opp
			}
			round.Pairings[j] = pairing
		}
		c.Rounds[i] = round
	}
	return &c
}

// CurrentPairings returns the pairings of the in-progress (latest) round, or nil before the first
// round has started
func (t *Tournament) CurrentPairings() []Pairing {
	if t.CurrentRound == 0 || len(t.Rounds) == 0 {
		return nil
	}
	return t.Rounds[t.CurrentRound-1].Pairings
}

// Statistics recomputes the tie-break statistics and returns a read-only progress snapshot
func (t *Tournament) Statistics() Statistics {
	t.UpdateStatistics()

	completed := 0
	for _, rd := range t.Rounds {
		if rd.Completed {
			completed++
		}
	}

	players := make([]Player, 0, len(t.Players))
	for i := range t.Players {
		players = append(players, snapshotPlayer(&t.Players[i]))
	}

	return Statistics{
		TournamentID:    t.TournamentID,
		TournamentName:  t.TournamentName,
		CurrentRound:    t.CurrentRound,
		TotalRounds:     t.TotalRounds,
		CompletedRounds: completed,
		ActivePlayers:   len(t.activePlayers()),
		IsFinished:      t.IsFinished,
		Players:         players,
	}
}
