package migrator

import (
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Direction selects what Run does with the embedded migrations.
type Direction string

const (
	Up     Direction = "up"
	Down   Direction = "down"
	Status Direction = "status"
)

// Run opens dbUrl and applies direction to the migrations in files.
// Down rolls back a single migration.
func Run(dbUrl string, files fs.FS, direction Direction) error {
	db, err := sql.Open("pgx", dbUrl)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	goose.SetBaseFS(files)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	switch direction {
	case Up:
		err = goose.Up(db, ".")
	case Down:
		err = goose.Down(db, ".")
	case Status:
		err = goose.Status(db, ".")
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations %s: %w", direction, err)
	}
	return nil
}
