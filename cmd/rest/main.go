package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/driftsocial/server/pkg/api/rest"
	"github.com/driftsocial/server/pkg/db"
	"github.com/driftsocial/server/pkg/feedid"
	"github.com/driftsocial/server/pkg/networks"
	"github.com/driftsocial/server/pkg/rdb"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
)

func main() {
	// Load dotenv
	godotenv.Load()

	// Init Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn: os.Getenv("SENTRY_DSN"),
	}); err != nil {
		panic(err)
	}

	// Init ID generator
	if err := feedid.Init(os.Getenv("NODE_ID")); err != nil {
		panic(err)
	}

	// Init MongoDB
	if err := db.Init(os.Getenv("MONGO_URI"), os.Getenv("MONGO_DB")); err != nil {
		panic(err)
	}

	// Init Redis
	if err := rdb.Init(os.Getenv("REDIS_URI")); err != nil {
		panic(err)
	}

	// Init IP netblocks
	if err := networks.LoadBlocks(); err != nil {
		panic(err)
	}
	networks.ListenFirewall()

	// Serve HTTP router
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "3000"
	}
	log.Println("Serving HTTP server on :" + port)
	http.ListenAndServe(":"+port, rest.Router())

	// Wait for Sentry events to flush
	sentry.Flush(time.Second * 5)
}
