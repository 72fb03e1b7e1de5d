package postgres

import (
	"database/sql"
	"fmt"
	"os"
)

// candidate locations of schema.sql, depending on where the binary is started
var schemaPaths = []string{
	"script/migration/schema.sql",       // From repo root (go run ./cmd/api)
	"../script/migration/schema.sql",    // From cmd/
	"../../script/migration/schema.sql", // From cmd/api or internal/...
	"../../../script/migration/schema.sql",
}

func findSchema() string {
	for _, path := range schemaPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return schemaPaths[0]
}

// RunMigrations executes the schema.sql file to initialize the database
func RunMigrations(db *sql.DB) error {
	schemaPath := findSchema()

	content, err := os.ReadFile(schemaPath)
	if err != nil {
		wd, _ := os.Getwd()
		return fmt.Errorf("failed to read migration file '%s' (wd: %s): %w", schemaPath, wd, err)
	}

	if _, err := db.Exec(string(content)); err != nil {
		return fmt.Errorf("failed to execute schema.sql: %w", err)
	}

	return nil
}
