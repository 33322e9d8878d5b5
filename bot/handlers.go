/* handlers.go
 * Contains testable handler methods that accept a DiscordSession interface. Each handler maps one
 * director command onto the engine API and reports the outcome back to the channel
 * Authors: Zachary Bower
 */

package bot

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"swiss-td/engine/tournament"

	"github.com/bwmarrin/discordgo"
	"github.com/go-andiamo/splitter"
)

// helpMessageHandler handles the $help command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Swiss TD Bot v1.0\n")
	res.WriteString("`$new name1 ... nameN`: Starts a new tournament with the given players. Names that contain spaces need to be encased in \" (e.g. \"Alice Smith\")\n")
	res.WriteString("`$start`: Generates the pairings for the next round and starts it. Round 1 is paired randomly, later rounds use Swiss pairing on the standings\n")
	res.WriteString("`$pairings`: Shows the pairings of the current round\n")
	res.WriteString("`$result round board p1|p2|draw|dl [dropped...]`: Records a match result. Any extra names are marked as dropped from future rounds\n")
	res.WriteString("`$correct round board p1|p2|draw|dl [dropped...]`: Overwrites a recorded result. If later rounds exist you will be told to recalculate them\n")
	res.WriteString("`$drop name1 ... nameN`: Withdraws the named players from all future pairings. Their recorded results stay on the books\n")
	res.WriteString("`$recalc round confirm`: Discards every round after the given one so they can be re-paired. Destructive, hence the explicit confirm\n")
	res.WriteString("`$standings`: Shows the current standings with tie-break statistics\n")
	res.WriteString("`$finish`: Finishes the tournament once the final round is complete and saves it into the history\n")
	res.WriteString("`$history [load|delete id | clear]`: Lists, restores, deletes or clears finished tournaments\n")
	res.WriteString("`$export`: Dumps the full tournament as a portable document\n")
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// splitArgs tokenizes a command message, honoring double quotes so player names with spaces stay
// intact, and returns everything after the command word
func splitArgs(content string) []string {
	spaceSplitter, _ := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	tokens, _ := spaceSplitter.Split(content)
	var args []string
	for _, token := range tokens[1:] {
		token = strings.Trim(token, "\"“”")
		if token != "" {
			args = append(args, token)
		}
	}
	return args
}

// parseResultCode maps the short result words used in commands onto engine result codes
func parseResultCode(input string) (tournament.ResultCode, error) {
	switch strings.ToLower(input) {
	case "p1", "1", "player1_win":
		return tournament.ResultPlayer1Win, nil
	case "p2", "2", "player2_win":
		return tournament.ResultPlayer2Win, nil
	case "draw", "d":
		return tournament.ResultDraw, nil
	case "dl", "double_loss":
		return tournament.ResultDoubleLoss, nil
	default:
		return tournament.ResultNone, fmt.Errorf("unknown result '%s', expected p1, p2, draw or dl", input)
	}
}

// resolveDropNames fuzzily matches dropped player names against the roster
func (b *Bot) resolveDropNames(names []string) ([]int, error) {
	if len(names) == 0 {
		return nil, nil
	}
	t := b.APIPtr.Current()
	if t == nil {
		return nil, fmt.Errorf("no tournament in progress")
	}
	ids, unresolved := tournament.ResolvePlayerNames(names, t.Players)
	if len(unresolved) > 0 {
		return nil, fmt.Errorf("the following player names are invalid: '%s'", strings.Join(unresolved, "', '"))
	}
	return ids, nil
}

// newTournamentHandler handles the $new command with a DiscordSession interface
func (b *Bot) newTournamentHandler(session DiscordSession, message *discordgo.MessageCreate) {
	names := splitArgs(message.Content)

	err := b.APIPtr.Initialize(names, b.Options)
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("An error occured creating the tournament: %s", err))
		return
	}

	t := b.APIPtr.Current()
	var res strings.Builder
	res.WriteString(fmt.Sprintf("%s created with %d players over %d rounds:\n", t.TournamentName, len(t.Players), t.TotalRounds))
	for _, p := range t.Players {
		res.WriteString(fmt.Sprintf("- %d. %s\n", p.ID, p.Name))
	}
	res.WriteString("Use $start to pair the first round")
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// startRoundHandler handles the $start command with a DiscordSession interface
func (b *Bot) startRoundHandler(session DiscordSession, message *discordgo.MessageCreate) {
	round, err := b.APIPtr.StartNewRound(nil)
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("An error occured starting the round: %s", err))
		return
	}

	var res strings.Builder
	res.WriteString(fmt.Sprintf("Round %d pairings:\n", round.Round))
	res.WriteString(formatPairings(round.Pairings))
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// pairingsHandler handles the $pairings command with a DiscordSession interface
func (b *Bot) pairingsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	pairings, err := b.APIPtr.GetCurrentRoundPairings()
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occured getting the pairings")
		return
	}
	if len(pairings) == 0 {
		session.ChannelMessageSend(message.ChannelID, "No round has been started yet. Use $start")
		return
	}

	t := b.APIPtr.Current()
	var res strings.Builder
	res.WriteString(fmt.Sprintf("Round %d pairings:\n", t.CurrentRound))
	res.WriteString(formatPairings(pairings))
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// formatPairings renders pairings as board lines, byes last the way they are displayed on a wall
// chart: completed pairings show their recorded result code
func formatPairings(pairings []tournament.Pairing) string {
	var sb strings.Builder
	for _, p := range pairings {
		if p.Player2 == nil {
			sb.WriteString(fmt.Sprintf("%d. %s (%d) has the BYE\n", p.ID, p.Player1.Name, p.Player1.Score))
			continue
		}
		line := fmt.Sprintf("%d. %s (%d) vs %s (%d)", p.ID, p.Player1.Name, p.Player1.Score, p.Player2.Name, p.Player2.Score)
		if p.Completed {
			line += fmt.Sprintf(" [%s]", p.Result)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// recordResultHandler handles the $result command with a DiscordSession interface
func (b *Bot) recordResultHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := splitArgs(message.Content)
	if len(args) < 3 {
		session.ChannelMessageSend(message.ChannelID, "Usage: $result round board p1|p2|draw|dl [dropped...]")
		return
	}

	roundNum, err1 := strconv.Atoi(args[0])
	pairingID, err2 := strconv.Atoi(args[1])
	result, err3 := parseResultCode(args[2])
	if err1 != nil || err2 != nil || err3 != nil {
		session.ChannelMessageSend(message.ChannelID, "Usage: $result round board p1|p2|draw|dl [dropped...]")
		return
	}

	droppedIDs, err := b.resolveDropNames(args[3:])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, err.Error())
		return
	}

	if err := b.APIPtr.RecordMatchResult(roundNum, pairingID, result, droppedIDs); err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("An error occured recording the result: %s", err))
		return
	}

	res := fmt.Sprintf("Result recorded for round %d board %d", roundNum, pairingID)
	if t := b.APIPtr.Current(); t != nil && t.CurrentRound == roundNum {
		if rd := t.Rounds[roundNum-1]; rd.Completed {
			res += "\nRound complete. Use $start for the next round or $finish after the last one"
		}
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// correctResultHandler handles the $correct command with a DiscordSession interface
func (b *Bot) correctResultHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := splitArgs(message.Content)
	if len(args) < 3 {
		session.ChannelMessageSend(message.ChannelID, "Usage: $correct round board p1|p2|draw|dl [dropped...]")
		return
	}

	roundNum, err1 := strconv.Atoi(args[0])
	pairingID, err2 := strconv.Atoi(args[1])
	result, err3 := parseResultCode(args[2])
	if err1 != nil || err2 != nil || err3 != nil {
		session.ChannelMessageSend(message.ChannelID, "Usage: $correct round board p1|p2|draw|dl [dropped...]")
		return
	}

	droppedIDs, err := b.resolveDropNames(args[3:])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, err.Error())
		return
	}

	needsRecalc, err := b.APIPtr.CorrectMatchResult(roundNum, pairingID, result, droppedIDs)
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("An error occured correcting the result: %s", err))
		return
	}

	res := fmt.Sprintf("Result corrected for round %d board %d", roundNum, pairingID)
	if needsRecalc {
		res += fmt.Sprintf("\nLater rounds were paired from the old result. Run `$recalc %d confirm` to discard and re-pair them", roundNum)
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// dropHandler handles the $drop command with a DiscordSession interface. Names are fuzzily matched
// against the roster the same way dropped names on $result are
func (b *Bot) dropHandler(session DiscordSession, message *discordgo.MessageCreate) {
	names := splitArgs(message.Content)
	if len(names) == 0 {
		session.ChannelMessageSend(message.ChannelID, "Usage: $drop name1 ... nameN")
		return
	}

	ids, err := b.resolveDropNames(names)
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, err.Error())
		return
	}

	if err := b.APIPtr.DropPlayers(ids); err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("An error occured dropping the players: %s", err))
		return
	}

	var dropped []string
	t := b.APIPtr.Current()
	for _, id := range ids {
		for _, p := range t.Players {
			if p.ID == id {
				dropped = append(dropped, p.Name)
			}
		}
	}
	session.ChannelMessageSend(message.ChannelID,
		fmt.Sprintf("Dropped from future rounds: %s", strings.Join(dropped, ", ")))
}

// recalcHandler handles the $recalc command with a DiscordSession interface. Recalculation discards
// rounds irrevocably, so the command refuses to run without an explicit confirm argument
func (b *Bot) recalcHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := splitArgs(message.Content)
	if len(args) < 1 {
		session.ChannelMessageSend(message.ChannelID, "Usage: $recalc round confirm")
		return
	}
	roundNum, err := strconv.Atoi(args[0])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, "Usage: $recalc round confirm")
		return
	}
	if len(args) < 2 || strings.ToLower(args[1]) != "confirm" {
		session.ChannelMessageSend(message.ChannelID,
			fmt.Sprintf("This will discard every round after round %d and cannot be undone. Run `$recalc %d confirm` to proceed", roundNum, roundNum))
		return
	}

	if err := b.APIPtr.RecalculatePairingsFromRound(roundNum); err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("An error occured recalculating: %s", err))
		return
	}
	session.ChannelMessageSend(message.ChannelID,
		fmt.Sprintf("Rounds after round %d discarded. Use $start to re-pair round %d", roundNum, roundNum+1))
}

// standingsHandler handles the $standings command with a DiscordSession interface
func (b *Bot) standingsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	ranking, err := b.APIPtr.GetFinalRanking()
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occured getting the standings")
		return
	}

	var res strings.Builder
	res.WriteString("Standings:\n")
	for _, p := range ranking {
		name := p.Name
		if p.Dropped {
			name += " (dropped)"
		}
		res.WriteString(fmt.Sprintf("%d. %s: %d pts, OMW %.1f%%, Buchholz %d\n", p.Rank, name, p.Score, p.OMWPercentage, p.Buchholz))
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// finishHandler handles the $finish command with a DiscordSession interface
func (b *Bot) finishHandler(session DiscordSession, message *discordgo.MessageCreate) {
	if err := b.APIPtr.FinishTournament(); err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("An error occured finishing the tournament: %s", err))
		return
	}

	ranking, err := b.APIPtr.GetFinalRanking()
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "Tournament finished")
		return
	}

	var res strings.Builder
	res.WriteString("Tournament finished! Final ranking:\n")
	for _, p := range ranking {
		res.WriteString(fmt.Sprintf("%d. %s: %d pts\n", p.Rank, p.Name, p.Score))
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// historyHandler handles the $history command and its load/delete/clear subcommands with a
// DiscordSession interface
func (b *Bot) historyHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := splitArgs(message.Content)

	if len(args) >= 1 {
		switch strings.ToLower(args[0]) {
		case "load":
			if len(args) < 2 {
				session.ChannelMessageSend(message.ChannelID, "Usage: $history load id")
				return
			}
			if err := b.APIPtr.LoadFromHistory(args[1]); err != nil {
				log.Println(err)
				session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("An error occured loading the tournament: %s", err))
				return
			}
			session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("Tournament %s restored as the current tournament", args[1]))
			return
		case "delete":
			if len(args) < 2 {
				session.ChannelMessageSend(message.ChannelID, "Usage: $history delete id")
				return
			}
			if err := b.APIPtr.DeleteHistoryTournament(args[1]); err != nil {
				log.Println(err)
				session.ChannelMessageSend(message.ChannelID, "An error occured deleting the history entry")
				return
			}
			session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("Tournament %s removed from history", args[1]))
			return
		case "clear":
			if err := b.APIPtr.ClearAllHistory(); err != nil {
				log.Println(err)
				session.ChannelMessageSend(message.ChannelID, "An error occured clearing the history")
				return
			}
			session.ChannelMessageSend(message.ChannelID, "Tournament history cleared")
			return
		}
	}

	entries, err := b.APIPtr.GetTournamentHistory()
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occured getting the history")
		return
	}
	if len(entries) == 0 {
		session.ChannelMessageSend(message.ChannelID, "No finished tournaments in history")
		return
	}

	var res strings.Builder
	res.WriteString("Finished tournaments:\n")
	for _, entry := range entries {
		res.WriteString(fmt.Sprintf("- %s: %s, %d players, winner %s (id %s)\n",
			entry.TournamentName, formatDate(entry.FinishedAt), entry.PlayerCount, entry.Winner, entry.TournamentID))
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}

func formatDate(unix int64) string {
	if unix == 0 {
		return "unknown date"
	}
	return time.Unix(unix, 0).Format("2006-01-02")
}

// exportHandler handles the $export command with a DiscordSession interface
func (b *Bot) exportHandler(session DiscordSession, message *discordgo.MessageCreate) {
	doc, err := b.APIPtr.ExportTournament()
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("An error occured exporting the tournament: %s", err))
		return
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occured serializing the export")
		return
	}
	session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("```json\n%s\n```", payload))
}
