/* bot.go
 * Contains logic used for creating and running the tournament director bot. Requires a discord bot
 * token and an engine API pointer, both of which are passed in from main.go
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"swiss-td/engine"
	"swiss-td/engine/tournament"

	"github.com/bwmarrin/discordgo"
)

type Bot struct {
	BotToken string
	APIPtr   *engine.API
	// Defaults applied to tournaments created with $new
	Options tournament.Options
}

func NewBot(botToken string, apiPtr *engine.API, opts tournament.Options) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}

	return &Bot{
		BotToken: botToken,
		APIPtr:   apiPtr,
		Options:  opts,
	}, nil
}

func (b *Bot) Run() error {
	// create a session
	discord, err := discordgo.New("Bot " + b.BotToken)
	if err != nil {
		return err
	}

	// add an event handler
	discord.AddHandler(b.newMessage)

	// open session
	discord.Open()
	defer discord.Close() // close session, after function termination

	// keep bot running until there is NO os interruption (ctrl + C)
	fmt.Println("Bot running....")
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	return nil
}

func (b *Bot) newMessage(discord *discordgo.Session, message *discordgo.MessageCreate) {
	b.newMessageHandler(discord, message, discord.State.User.ID)
}

// newMessageHandler routes messages to appropriate handlers with a DiscordSession interface.
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// Prevent bot from responding to its own messages
	if message.Author.ID == botUserID {
		return
	}

	// Route to appropriate handler
	switch {
	case startsWith(message.Content, "$help"):
		b.helpMessageHandler(session, message)

	case startsWith(message.Content, "$new"):
		b.newTournamentHandler(session, message)

	case startsWith(message.Content, "$start"):
		b.startRoundHandler(session, message)

	case startsWith(message.Content, "$pairings"):
		b.pairingsHandler(session, message)

	case startsWith(message.Content, "$result"):
		b.recordResultHandler(session, message)

	case startsWith(message.Content, "$correct"):
		b.correctResultHandler(session, message)

	case startsWith(message.Content, "$drop"):
		b.dropHandler(session, message)

	case startsWith(message.Content, "$recalc"):
		b.recalcHandler(session, message)

	case startsWith(message.Content, "$standings"):
		b.standingsHandler(session, message)

	case startsWith(message.Content, "$finish"):
		b.finishHandler(session, message)

	case startsWith(message.Content, "$history"):
		b.historyHandler(session, message)

	case startsWith(message.Content, "$export"):
		b.exportHandler(session, message)
	}
}

// Helper function to check if a string starts with a given substring
// Preconditions: Recieves an input string and a substring
// Postconditions: Returns true if the substring is at the start of the string, else returns false
func startsWith(inputString string, substring string) bool {
	//Check if the substring is present in the input string
	if !strings.Contains(inputString, substring) {
		return false
	}
	strLength := len(substring)
	for i := 0; i < strLength; i++ {
		if inputString[i] != substring[i] {
			return false
		}
	}
	return true
}
