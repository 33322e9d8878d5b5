/* results.go
 * Contains result recording, result correction with full rollback-then-replay, and the destructive
 * pairing recalculation that truncates rounds made stale by a correction
 * Authors: Zachary Bower
 */

package tournament

import "time"

// RecordResult records the outcome of a pairing, awards points to both players, links them as
// opponents and re-evaluates round completion.
// Preconditions: Receives the 1-based round number, the pairing ID within that round, the result
// code and an optional list of player IDs to mark as dropped
// Postconditions: Returns a NotFoundError for unknown round/pairing, a ValidationError for bye
// pairings or result codes disabled by the settings, and a StateError when the pairing already has
// a result (corrections must go through CorrectResult)
func (t *Tournament) RecordResult(roundNum, pairingID int, result ResultCode, droppedIDs []int) error {
	round, err := t.roundByNumber(roundNum)
	if err != nil {
		return err
	}
	pairing, err := round.pairingByID(pairingID)
	if err != nil {
		return err
	}
	if pairing.Player2 == nil {
		return newValidationError("pairing %d is a bye and is scored automatically", pairingID)
	}
	if pairing.Completed {
		return newStateError("pairing %d already has a result; use a correction instead", pairingID)
	}
	if err := t.checkResultAllowed(result); err != nil {
		return err
	}

	if err := t.applyResult(pairing, result, roundNum); err != nil {
		return err
	}
	pairing.Result = result
	pairing.Completed = true

	t.applyDrops(droppedIDs)
	t.refreshRoundCompletion(roundNum)
	return nil
}

// checkResultAllowed rejects result codes a match cannot produce, including draw and double-loss
// results when the corresponding setting is disabled
func (t *Tournament) checkResultAllowed(result ResultCode) error {
	switch result {
	case ResultPlayer1Win, ResultPlayer2Win:
		return nil
	case ResultDraw:
		if !t.Settings.AllowDraws {
			return newValidationError("draw results are disabled for this tournament")
		}
		return nil
	case ResultDoubleLoss:
		if !t.Settings.AllowDoubleLoss {
			return newValidationError("double-loss results are disabled for this tournament")
		}
		return nil
	case ResultBye, ResultNone:
		return newValidationError("'%s' is not a recordable match result", result)
	default:
		return newValidationError("unknown result code '%s'", result)
	}
}

// applyResult awards points and result entries to both live players and links them as opponents.
// The opponent link is idempotent so repeat pairings never duplicate entries
func (t *Tournament) applyResult(pairing *Pairing, result ResultCode, roundNum int) error {
	p1 := t.playerByID(pairing.Player1.ID)
	p2 := t.playerByID(pairing.Player2.ID)
	if p1 == nil || p2 == nil {
		return newNotFoundError("pairing %d references players missing from the roster", pairing.ID)
	}

	s := t.Settings
	switch result {
	case ResultPlayer1Win:
		t.awardPoints(p1, s.WinPoints, entryWin, roundNum, pairing.ID)
		t.awardPoints(p2, s.LossPoints, entryLoss, roundNum, pairing.ID)
	case ResultPlayer2Win:
		t.awardPoints(p1, s.LossPoints, entryLoss, roundNum, pairing.ID)
		t.awardPoints(p2, s.WinPoints, entryWin, roundNum, pairing.ID)
	case ResultDraw:
		t.awardPoints(p1, s.DrawPoints, entryDraw, roundNum, pairing.ID)
		t.awardPoints(p2, s.DrawPoints, entryDraw, roundNum, pairing.ID)
	case ResultDoubleLoss:
		t.awardPoints(p1, s.LossPoints, entryLoss, roundNum, pairing.ID)
		t.awardPoints(p2, s.LossPoints, entryLoss, roundNum, pairing.ID)
	default:
		return newValidationError("unknown result code '%s'", result)
	}

	p1.addOpponent(p2.ID)
	p2.addOpponent(p1.ID)
	return nil
}

func (t *Tournament) awardPoints(p *Player, points int, resultType string, roundNum, pairingID int) {
	p.Score += points
	p.Results = append(p.Results, ResultEntry{
		Round:      roundNum,
		PairingID:  pairingID,
		Points:     points,
		ResultType: resultType,
		Timestamp:  time.Now().Unix(),
	})
}

func (p *Player) addOpponent(id int) {
	if !p.hasFaced(id) {
		p.Opponents = append(p.Opponents, id)
	}
}

func (t *Tournament) applyDrops(droppedIDs []int) {
	for _, id := range droppedIDs {
		if p := t.playerByID(id); p != nil {
			p.Dropped = true
		}
	}
}

// refreshRoundCompletion marks the round completed iff every pairing has a result
func (t *Tournament) refreshRoundCompletion(roundNum int) {
	round, err := t.roundByNumber(roundNum)
	if err != nil {
		return
	}
	for i := range round.Pairings {
		if !round.Pairings[i].Completed {
			round.Completed = false
			return
		}
	}
	if !round.Completed {
		round.Completed = true
		round.CompletedAt = time.Now().Unix()
	}
}

// CorrectResult overwrites a recorded result with a full rollback-then-replay: the original points,
// result entries and opponent links are reversed before the new result is applied exactly as a
// fresh recording would be. The pairing players' dropped flags are reset and only the newly
// requested drops re-applied.
// Postconditions: Returns true when later rounds exist, signalling that their pairings were
// computed from now-stale data and should be recalculated; the engine never does that by itself
func (t *Tournament) CorrectResult(roundNum, pairingID int, newResult ResultCode, droppedIDs []int) (bool, error) {
	round, err := t.roundByNumber(roundNum)
	if err != nil {
		return false, err
	}
	pairing, err := round.pairingByID(pairingID)
	if err != nil {
		return false, err
	}
	if !pairing.Completed {
		return false, newValidationError("pairing %d has no result to correct", pairingID)
	}
	if pairing.Player2 == nil || pairing.Result == ResultBye {
		return false, newValidationError("bye pairing %d cannot be corrected", pairingID)
	}
	if err := t.checkResultAllowed(newResult); err != nil {
		return false, err
	}

	original := pairing.Result

	t.rollbackPairing(roundNum, pairing)

	p1 := t.playerByID(pairing.Player1.ID)
	p2 := t.playerByID(pairing.Player2.ID)
	if p1 != nil {
		p1.Dropped = false
	}
	if p2 != nil {
		p2.Dropped = false
	}

	if err := t.applyResult(pairing, newResult, roundNum); err != nil {
		return false, err
	}
	t.applyDrops(droppedIDs)

	if !pairing.Corrected {
		pairing.OriginalResult = original
	}
	pairing.Corrected = true
	pairing.CorrectionTime = time.Now().Unix()
	pairing.Result = newResult
	pairing.Completed = true
	t.refreshRoundCompletion(roundNum)

	return len(t.Rounds) > roundNum, nil
}

// rollbackPairing reverses the score, result-entry, bye and opponent effects of one completed
// pairing. Entries are matched by their (round, pairingID) undo token
func (t *Tournament) rollbackPairing(roundNum int, pairing *Pairing) {
	p1 := t.playerByID(pairing.Player1.ID)
	if p1 != nil {
		t.removeResultEntries(p1, roundNum, pairing.ID)
		if pairing.Result == ResultBye && p1.ByeCount > 0 {
			p1.ByeCount--
		}
	}
	if pairing.Player2 == nil {
		return
	}
	p2 := t.playerByID(pairing.Player2.ID)
	if p2 != nil {
		t.removeResultEntries(p2, roundNum, pairing.ID)
	}
	if p1 != nil && p2 != nil && !t.metElsewhere(p1.ID, p2.ID, roundNum, pairing.ID) {
		p1.removeOpponent(p2.ID)
		p2.removeOpponent(p1.ID)
	}
}

func (t *Tournament) removeResultEntries(p *Player, roundNum, pairingID int) {
	kept := p.Results[:0]
	for _, entry := range p.Results {
		if entry.Round == roundNum && entry.PairingID == pairingID {
			p.Score -= entry.Points
			continue
		}
		kept = append(kept, entry)
	}
	p.Results = kept
}

func (p *Player) removeOpponent(id int) {
	kept := p.Opponents[:0]
	for _, oppID := range p.Opponents {
		if oppID != id {
			kept = append(kept, oppID)
		}
	}
	p.Opponents = kept
}

// metElsewhere reports whether the two players share another completed pairing besides the one
// being rolled back, which keeps the opponent link intact for repeat pairings
func (t *Tournament) metElsewhere(id1, id2, roundNum, pairingID int) bool {
	for _, round := range t.Rounds {
		for _, p := range round.Pairings {
			if round.Round == roundNum && p.ID == pairingID {
				continue
			}
			if !p.Completed || p.Player2 == nil {
				continue
			}
			if (p.Player1.ID == id1 && p.Player2.ID == id2) ||
				(p.Player1.ID == id2 && p.Player2.ID == id1) {
				return true
			}
		}
	}
	return false
}

// RecalculateFromRound irrevocably discards every round after the given one and rolls back the
// score and opponent effects of the discarded results so the roster reflects only the surviving
// rounds. The caller must re-generate pairings and start the now-current round again.
// Postconditions: CurrentRound equals roundNum, tie-break statistics are recomputed, and a
// NotFoundError is returned for an unknown round number
func (t *Tournament) RecalculateFromRound(roundNum int) error {
	if _, err := t.roundByNumber(roundNum); err != nil {
		return err
	}

	discarded := t.Rounds[roundNum:]
	t.Rounds = t.Rounds[:roundNum]

	for i := len(discarded) - 1; i >= 0; i-- {
		round := discarded[i]
		for j := range round.Pairings {
			pairing := &round.Pairings[j]
			if pairing.Completed {
				t.rollbackPairing(round.Round, pairing)
			}
		}
	}

	t.CurrentRound = roundNum
	t.IsFinished = false
	t.FinishedAt = 0
	t.UpdateStatistics()
	return nil
}
