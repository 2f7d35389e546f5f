// Package main implements the entry point for the StackIt API server, the
// Q&A platform backend handling profiles, questions, answers, voting, and
// notification fan-out.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if *migrateCmd != "" {
		if err := app.runMigrations(*migrateCmd); err != nil {
			slog.Error("migration failed", "command", *migrateCmd, "error", err)
			os.Exit(1)
		}
		return
	}

	if err := app.runMigrations("up"); err != nil {
		slog.Error("migration failed on startup", "error", err)
		os.Exit(1)
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
