package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DBFileName is the name of the database file created in the data directory
const DBFileName = "netflix.db"

const insertTitleQuery = `
INSERT OR IGNORE INTO netflix_titles (show_id, type, title, director, "cast", country,
	date_added, release_year, rating, duration, listed_in, description)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Progress receives one Add call per row handed to the database.
// *progressbar.ProgressBar satisfies it.
type Progress interface {
	Add(n int) error
}

type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	dataPath string
}

func NewSQLiteStorage(dataPath string) *SQLiteStorage {
	dbPath := filepath.Join(dataPath, DBFileName)
	return &SQLiteStorage{
		dbPath:   dbPath,
		dataPath: dataPath,
	}
}

// Path returns the location of the database file
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Initialize opens the database and recreates the netflix_titles table.
// Any rows from a previous run are gone afterwards.
func (s *SQLiteStorage) Initialize() error {
	if err := os.MkdirAll(s.dataPath, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if s.db == nil {
		db, err := sql.Open("sqlite3", s.dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		s.db = db
	}

	migrationManager := NewMigrationManager(s.db)
	if err := migrationManager.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize schema manager: %w", err)
	}

	if err := migrationManager.Recreate(); err != nil {
		return fmt.Errorf("failed to recreate schema: %w", err)
	}

	log.Printf("SQLite database initialized at: %s", s.dbPath)
	return nil
}

// InsertTitles writes all titles in a single transaction. Rows whose show_id
// is already present are skipped; any other failure rolls the batch back.
// It returns the number of rows actually inserted.
func (s *SQLiteStorage) InsertTitles(ctx context.Context, titles []Title, progress Progress) (inserted int, err error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertTitleQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range titles {
		res, execErr := stmt.ExecContext(ctx,
			t.ShowID, t.Type, t.Title, t.Director, t.Cast, t.Country,
			t.DateAdded, t.ReleaseYear, t.Rating, t.Duration, t.ListedIn, t.Description)
		if execErr != nil {
			return 0, fmt.Errorf("failed to insert title %q: %w", t.ShowID, execErr)
		}

		affected, raErr := res.RowsAffected()
		if raErr != nil {
			return 0, fmt.Errorf("failed to read rows affected: %w", raErr)
		}
		inserted += int(affected)

		if progress != nil {
			_ = progress.Add(1)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// CountTitles returns the number of rows in netflix_titles
func (s *SQLiteStorage) CountTitles(ctx context.Context) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM netflix_titles").Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count titles: %w", err)
	}
	return total, nil
}

func (s *SQLiteStorage) GetStats(ctx context.Context) (map[string]int, error) {
	stats := make(map[string]int)

	total, err := s.CountTitles(ctx)
	if err != nil {
		return nil, err
	}
	stats["total"] = total

	var movies int
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM netflix_titles WHERE type = 'Movie'").Scan(&movies)
	if err != nil {
		return nil, fmt.Errorf("failed to get movies count: %w", err)
	}
	stats["movies"] = movies

	var shows int
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM netflix_titles WHERE type = 'TV Show'").Scan(&shows)
	if err != nil {
		return nil, fmt.Errorf("failed to get tv shows count: %w", err)
	}
	stats["tv_shows"] = shows

	return stats, nil
}

func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *SQLiteStorage) GetDB() (*sql.DB, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return s.db, nil
}
