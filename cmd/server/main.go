/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the account engine server. Handles configuration,
  first-run seeding, dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and environment configuration
  2. Apply command-line flag overrides
  3. Open the SQLite snapshot store
  4. Restore the last snapshot, or run first-time seeding
  5. Configure the HTTP router
  6. Start the server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides PORT)
  -db      SQLite database path (overrides DB_PATH; ":memory:" works)
  -seed    First-run seed mode: blank or sample (overrides SEED_MODE)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait up to 30s for active
  requests, close the database, exit.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pocketfin/account-engine/account"
	"github.com/pocketfin/account-engine/api"
	"github.com/pocketfin/account-engine/config"
	"github.com/pocketfin/account-engine/factory"
	"github.com/pocketfin/account-engine/store/sqlite"
)

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()
	cfg := config.Load()

	port := flag.String("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	seedMode := flag.String("seed", cfg.SeedMode, "first-run seed mode: blank or sample")
	flag.Parse()
	cfg.Port = *port
	cfg.DBPath = *dbPath
	cfg.SeedMode = *seedMode

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	st, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer st.Close()

	container, err := restoreOrSeed(context.Background(), cfg, st)
	if err != nil {
		log.Fatalf("Failed to initialize account state: %v", err)
	}

	handler := api.NewHandler(container, st, api.SeedDefaults{
		BlankBalance:        cfg.BlankBalance,
		SampleBalance:       cfg.SampleBalance,
		SampleBeneficiaries: cfg.SampleBeneficiaries,
	})
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// restoreOrSeed brings up the state container: from the persisted snapshot
// when one exists, otherwise by running the configured first-time seed and
// setting the one-time gate.
func restoreOrSeed(ctx context.Context, cfg *config.Config, st *sqlite.Store) (*account.Container, error) {
	initialized, err := st.Initialized(ctx)
	if err != nil {
		return nil, err
	}

	if initialized {
		state, err := st.LoadState(ctx)
		if err != nil {
			return nil, err
		}
		if state != nil {
			log.Printf("Restored account state: %d beneficiaries, %d transactions",
				len(state.Beneficiaries), len(state.Transactions))
			return account.Restore(*state), nil
		}
		// Flag set but no snapshot: fall through and reseed.
	}

	container := account.NewContainer(account.User{
		ID:        1,
		FirstName: cfg.UserFirstName,
		LastName:  cfg.UserLastName,
	})

	var data account.SeedData
	switch cfg.SeedMode {
	case config.SeedModeSample:
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		data = factory.Sample(rng, time.Now(), cfg.SampleBeneficiaries, cfg.SampleBalance)
	default:
		data = account.BlankSeed(cfg.BlankBalance)
	}
	container.Seed(data)

	if err := st.SaveState(ctx, container.Snapshot()); err != nil {
		return nil, err
	}
	if err := st.SetInitialized(ctx); err != nil {
		return nil, err
	}
	log.Printf("Seeded new account (%s mode)", cfg.SeedMode)
	return container, nil
}
