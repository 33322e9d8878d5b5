/* main.go
 * The "main" method for running the tournament director bot and the read-only web view
 * Usage: go run main.go -db="<database>" -addr="<listen address>"
 * Authors: Zachary Bower
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"swiss-td/bot"
	"swiss-td/engine"
	"swiss-td/engine/tournament"
	"swiss-td/web"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()

	//Flags
	dbPtr := flag.String("db", "swiss_td", "MongoDB database name the tournaments are stored in")
	addrPtr := flag.String("addr", ":8080", "Listen address for the read-only web view")
	webPtr := flag.String("web", "true", "Serve the read-only web view: takes true or false as argument")
	allowDrawsPtr := flag.String("allowDraws", "false", "Allow draw results: takes true or false as argument")
	allowDoubleLossPtr := flag.String("allowDoubleLoss", "false", "Allow double-loss results: takes true or false as argument")
	roundsPtr := flag.Int("rounds", 0, "Manual round count override, 0 computes max(3, ceil(log2(players)))")
	testPtr := flag.String("test", "false", "Use main or test bot: takes true or false as argument")

	flag.Parse()

	if err != nil {
		log.Fatal("Error loading .env file")
	}

	var discordToken string
	if *testPtr == "false" { //Load production bot token
		discordToken = os.Getenv("DISCORD_PROD_TOKEN")
	} else if *testPtr == "true" {
		discordToken = os.Getenv("DISCORD_BETA_TOKEN")
	} else {
		fmt.Println("Invalid \"test\" flag. Should be true or false")
		return
	}

	allowDraws, err := convertStrToBool(*allowDrawsPtr)
	if err != nil {
		log.Fatalf("invalid allowDraws flag: %v", err)
	}
	allowDoubleLoss, err := convertStrToBool(*allowDoubleLossPtr)
	if err != nil {
		log.Fatalf("invalid allowDoubleLoss flag: %v", err)
	}
	serveWeb, err := convertStrToBool(*webPtr)
	if err != nil {
		log.Fatalf("invalid web flag: %v", err)
	}

	api, err := engine.NewAPI(*dbPtr, os.Getenv("MONGO_PROD_URI"))
	if err != nil {
		log.Fatalf("failed to initialize API: %v", err)
	}
	defer func() {
		if err = api.Store.GetClient().Disconnect(context.TODO()); err != nil {
			panic(err)
		}
	}()

	// Resume an in-progress tournament after a restart; absence is fine
	if err := api.Load(); err != nil {
		log.Println(err)
	}

	opts := tournament.Options{
		AllowDraws:      allowDraws,
		AllowDoubleLoss: allowDoubleLoss,
		CustomRounds:    *roundsPtr,
	}

	if serveWeb {
		go func() {
			if err := web.Start(web.Config{Addr: *addrPtr, API: api}); err != nil {
				log.Println("web server stopped:", err)
			}
		}()
	}

	//Init bot and run
	tdBot, err := bot.NewBot(discordToken, api, opts)
	if err != nil {
		log.Fatalf("failed to initialize bot: %v", err)
	}
	if err := tdBot.Run(); err != nil {
		log.Fatalf("bot stopped: %v", err)
	}
}
