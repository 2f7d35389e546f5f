package main

import (
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/stackit-qa/stackit-api/migrations"
)

// runMigrations applies the embedded goose migrations against the
// application database. Supported commands: up, down, status.
func (app *application) runMigrations(command string) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	app.logger.Info("running migrations", "command", command)

	switch command {
	case "up":
		return goose.Up(app.db, ".")
	case "down":
		return goose.Down(app.db, ".")
	case "status":
		return goose.Status(app.db, ".")
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}
