package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/pageza/recipe-finder/config"
	"github.com/pageza/recipe-finder/internal/app"
	"github.com/pageza/recipe-finder/internal/database"
	"github.com/pageza/recipe-finder/internal/session"
)

func main() {
	// Parse command line flags
	reset := flag.Bool("reset", false, "Clear the cached login")
	migrate := flag.Bool("migrate", false, "Create or update the SQLite session table and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	ctx := context.Background()

	if *migrate {
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("failed to migrate session database: %v", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		fmt.Printf("Session table ready in %s\n", cfg.SQLitePath)
		return
	}

	store, closer, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open %s session store: %v", cfg.SessionBackend, err)
	}
	defer closer()

	sess, err := session.Open(ctx, store)
	if err != nil {
		log.Fatalf("failed to load session: %v", err)
	}

	if *reset {
		if err := sess.SignOut(ctx); err != nil {
			log.Fatalf("failed to clear session: %v", err)
		}
		fmt.Println("Session cleared.")
		return
	}

	state := sess.Snapshot()
	if !state.LoggedIn {
		fmt.Printf("Not logged in (%s backend)\n", cfg.SessionBackend)
		return
	}
	fmt.Printf("Logged in as %s (%s) using the %s backend\n", state.Username, state.FirstName, cfg.SessionBackend)
}
