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

	"github.com/lox/luggify/internal/api"
	"github.com/lox/luggify/internal/climate"
	"github.com/lox/luggify/internal/geocode"
	"github.com/lox/luggify/internal/packing"
	"github.com/lox/luggify/internal/store"
	"github.com/lox/luggify/internal/weather"
)

type cli struct {
	DB          string        `help:"Path to SQLite database." default:"data/luggify.db" env:"LUGGIFY_DB"`
	Port        string        `help:"HTTP server port." default:"8080" env:"PORT"`
	Timeout     time.Duration `help:"Upstream request timeout." default:"15s" env:"UPSTREAM_TIMEOUT"`
	Lang        string        `help:"Default response language (en or ru)." default:"en" env:"LUGGIFY_LANG"`
	GeocodeURL  string        `help:"Override geocoding API base URL." env:"GEOCODE_URL"`
	ForecastURL string        `help:"Override forecast API base URL." env:"FORECAST_URL"`
	ArchiveURL  string        `help:"Override historical weather API base URL." env:"ARCHIVE_URL"`
}

func main() {
	var flags cli
	kong.Parse(&flags,
		kong.Name("luggify"),
		kong.Description("Travel packing list generator."),
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

	geocoder := geocode.NewClient(flags.GeocodeURL, flags.Timeout)
	forecast := weather.NewForecastClient(flags.ForecastURL, flags.Timeout)
	archive := weather.NewArchiveClient(flags.ArchiveURL, flags.Timeout)
	builder := climate.NewBuilder(forecast, archive, climate.NewCodeTable())
	pipeline := packing.NewPipeline(geocoder, builder)

	server := api.NewServer(st, pipeline, geocoder, flags.Port, flags.Lang)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("starting server on :%s", flags.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
