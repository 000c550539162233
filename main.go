package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/wizbikini/glowvote/cliparse"
	"github.com/wizbikini/glowvote/db"
	"github.com/wizbikini/glowvote/middleware"
	"github.com/wizbikini/glowvote/payments"
	"github.com/wizbikini/glowvote/router"
)

func main() {
	var err error

	// Load .env if present, then parse configuration
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env")
	}

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database (embedded sqlite by default)
	driver := "sqlite"
	if cfg.DatabaseType == "postgres" {
		driver = "postgres"
	}
	dbConn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// sqlite allows a single writer; funnel everything through one
	// connection so racing settlers queue instead of hitting SQLITE_BUSY
	if driver == "sqlite" {
		dbConn.SetMaxOpenConns(1)
	}

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables) and seed candidates on first run
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	if err := db.SeedCandidates(dbConn, cfg.Candidates); err != nil {
		slog.Error("candidate seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	// Payment provider
	provider := payments.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.ProviderTimeout)

	// Create router
	mux := router.NewRouter(dbConn, cfg, provider)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux, cfg.AllowedOrigins),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
