package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const defaultMigrationsDir = "internal/adapters/repository/postgres/migrations"

// Applies a single migration file by name suffix, e.g.
// `go run ./cmd/migrations schema.up` runs 000001_schema.up.sql.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("a migration name is required")
	}
	name := os.Args[1]

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = defaultMigrationsDir
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := run(db, dir, name); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Migration applied.")
}

func run(db *sql.DB, dir, name string) error {
	path, err := findMigration(dir, name)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read migration: %w", err)
	}

	if _, err := db.Exec(string(content)); err != nil {
		return fmt.Errorf("failed to apply %s: %w", filepath.Base(path), err)
	}
	return nil
}

func findMigration(dir, name string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read migrations dir %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), name+".sql") {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no migration matching %q in %s", name, dir)
}

func dbConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)
}
