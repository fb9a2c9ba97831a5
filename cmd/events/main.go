package main

import (
	"log"
	"os"

	"github.com/driftsocial/server/pkg/api/events"
	"github.com/driftsocial/server/pkg/db"
	"github.com/driftsocial/server/pkg/rdb"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
)

func main() {
	// Load dotenv
	godotenv.Load()

	// Initialise Sentry
	sentry.Init(sentry.ClientOptions{
		Dsn: os.Getenv("EVENTS_SENTRY_DSN"),
	})

	// Init MongoDB (session token lookups)
	if err := db.Init(os.Getenv("MONGO_URI"), os.Getenv("MONGO_DB")); err != nil {
		panic(err)
	}

	// Init Redis
	if err := rdb.Init(os.Getenv("REDIS_URI")); err != nil {
		panic(err)
	}

	// Get expose address
	exposeAddr := os.Getenv("EVENTS_ADDRESS")
	if exposeAddr == "" {
		exposeAddr = ":3001"
	}

	// Create & run server
	server := events.NewServer()
	err := server.Run(exposeAddr)
	if err != nil {
		log.Fatalln(err)
	}
}
