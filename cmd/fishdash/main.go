package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/Daz-Mac/fishing-assistant/internal/api"
	"github.com/Daz-Mac/fishing-assistant/internal/ingest"
	"github.com/Daz-Mac/fishing-assistant/internal/store"
)

type cli struct {
	DB           string        `name:"db" default:"data/fishdash.db" help:"Path to SQLite database."`
	Port         string        `name:"port" default:"8080" help:"HTTP server port."`
	HAURL        string        `name:"ha-url" env:"HA_URL" help:"Home Assistant base URL, e.g. http://homeassistant.local:8123."`
	HAToken      string        `name:"ha-token" env:"HA_TOKEN" help:"Home Assistant long-lived access token."`
	Entities     []string      `name:"entity" env:"FISHDASH_ENTITIES" help:"Score entities to poll."`
	PollInterval time.Duration `name:"poll-interval" default:"5m" help:"How often to poll Home Assistant."`
	NoPoll       bool          `name:"no-poll" help:"Disable polling (server only, relies on pushed states)."`
	Once         bool          `name:"once" help:"Poll once and exit."`
}

func main() {
	var flags cli
	kong.Parse(&flags,
		kong.Name("fishdash"),
		kong.Description("Fishing conditions dashboard backed by Home Assistant sensors."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	db, err := sql.Open("sqlite", flags.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	canPoll := flags.HAURL != "" && flags.HAToken != "" && len(flags.Entities) > 0
	var poller *ingest.Poller
	if canPoll {
		ha := ingest.NewHA(flags.HAURL, flags.HAToken)
		poller = ingest.NewPoller(ha, st, flags.Entities, flags.PollInterval)
	}

	if flags.Once {
		if poller == nil {
			log.Fatal("--once requires --ha-url, --ha-token and at least one --entity")
		}
		log.Println("running single poll")
		for _, entity := range flags.Entities {
			if err := poller.PollEntity(ctx, entity); err != nil {
				log.Fatalf("poll %s: %v", entity, err)
			}
		}
		log.Println("done")
		return
	}

	switch {
	case flags.NoPoll:
		log.Println("polling disabled (--no-poll)")
	case poller == nil:
		log.Println("polling disabled (set --ha-url, --ha-token and --entity to enable)")
	default:
		go poller.Run(ctx)
	}

	server := api.NewServer(st, flags.Port)

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			server.WarmBanners(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	log.Printf("starting server on :%s", flags.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
