package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"log"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// MigrationManager owns the netflix_titles schema. There is a single schema
// version; it is torn down and re-applied on every load, so goose runs
// unversioned and leaves no bookkeeping tables in the database.
type MigrationManager struct {
	db *sql.DB
}

func NewMigrationManager(db *sql.DB) *MigrationManager {
	return &MigrationManager{db: db}
}

func (m *MigrationManager) Initialize() error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return nil
}

func (m *MigrationManager) Up() error {
	if err := goose.Up(m.db, "migrations", goose.WithNoVersioning()); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (m *MigrationManager) Reset() error {
	if err := goose.Reset(m.db, "migrations", goose.WithNoVersioning()); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}

// Recreate drops netflix_titles and creates it again, empty.
func (m *MigrationManager) Recreate() error {
	if err := m.Reset(); err != nil {
		return err
	}

	if err := m.Up(); err != nil {
		return err
	}

	log.Println("Table netflix_titles recreated")
	return nil
}
