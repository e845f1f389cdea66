package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrisonrobin/tasktrack/pkg/model"
)

// SQLiteAdapter keeps the snapshot in a SQLite database. Every Save rewrites
// the tasks table inside one transaction.
type SQLiteAdapter struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at dbPath.
func NewSQLite(dbPath string) (*SQLiteAdapter, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	s := &SQLiteAdapter{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", dbPath, err)
	}
	return s, nil
}

func (s *SQLiteAdapter) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			priority INTEGER NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			due_date TEXT,
			tags TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS snapshot_meta (
			version INTEGER NOT NULL,
			saved_at TEXT NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteAdapter) Close() error {
	return s.db.Close()
}

func (s *SQLiteAdapter) Load(ctx context.Context) (map[string]model.Task, error) {
	var saves int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshot_meta`).Scan(&saves); err != nil {
		return nil, fmt.Errorf("failed to read snapshot metadata: %w", err)
	}
	if saves == 0 {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, priority, status, created_at, due_date, tags
		FROM tasks
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make(map[string]model.Task)
	for rows.Next() {
		var t model.Task
		var status, createdAt, tagsJSON string
		var dueDate sql.NullString

		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &status, &createdAt, &dueDate, &tagsJSON); err != nil {
			return nil, err
		}
		t.Status = model.Status(status)

		t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("task %s: failed to parse created_at: %w", t.ID, err)
		}
		if dueDate.Valid {
			due, err := time.Parse(time.RFC3339Nano, dueDate.String)
			if err != nil {
				return nil, fmt.Errorf("task %s: failed to parse due_date: %w", t.ID, err)
			}
			t.DueDate = &due
		}
		if err := json.Unmarshal([]byte(tagsJSON), &t.Tags); err != nil {
			return nil, fmt.Errorf("task %s: failed to parse tags: %w", t.ID, err)
		}

		tasks[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := validate(tasks); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return tasks, nil
}

func (s *SQLiteAdapter) Save(ctx context.Context, tasks map[string]model.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (id, title, description, priority, status, created_at, due_date, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for id, t := range tasks {
		tags := t.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return err
		}

		var due sql.NullString
		if t.DueDate != nil {
			due = sql.NullString{String: t.DueDate.Format(time.RFC3339Nano), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, id, t.Title, t.Description, t.Priority, string(t.Status),
			t.CreatedAt.Format(time.RFC3339Nano), due, string(tagsJSON)); err != nil {
			return fmt.Errorf("failed to insert task %s: %w", id, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_meta`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO snapshot_meta (version, saved_at) VALUES (?, ?)`,
		documentVersion, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}

	return tx.Commit()
}
