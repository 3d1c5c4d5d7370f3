package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02 15:04:05"

type SQLiteStorage struct {
	db *sql.DB
}

var _ Interface = &SQLiteStorage{}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if path == "" {
		path = filepath.Join("data", "app_builder.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db at %s: %w", path, err)
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS projects (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            description TEXT,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        );
        CREATE TABLE IF NOT EXISTS versions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            project_id INTEGER NOT NULL,
            version_number INTEGER NOT NULL,
            changes TEXT,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY (project_id) REFERENCES projects (id)
        );
        CREATE INDEX IF NOT EXISTS idx_versions_project ON versions (project_id);
    `)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) CreateProject(ctx context.Context, project Project) (int64, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (name, description, created_at, updated_at) VALUES (?, ?, datetime(?), datetime(?))`,
		project.Name, project.Description, now.Format(timeLayout), now.Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert project %s: %w", project.Name, err)
	}
	return result.LastInsertId()
}

func (s *SQLiteStorage) GetProject(ctx context.Context, id int64) (*Project, error) {
	var p Project
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	p.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return &p, nil
}

func (s *SQLiteStorage) SaveVersion(ctx context.Context, version Version) error {
	createdAt := version.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO versions (project_id, version_number, changes, created_at) VALUES (?, ?, ?, datetime(?))`,
		version.ProjectID, version.Number, version.Changes, createdAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save version %d for project %d: %w", version.Number, version.ProjectID, err)
	}
	return nil
}

func (s *SQLiteStorage) CountVersions(ctx context.Context, projectID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM versions WHERE project_id = ?`, projectID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count versions for project %d: %w", projectID, err)
	}
	return count, nil
}

func (s *SQLiteStorage) VersionsByProject(ctx context.Context, projectID int64) ([]Version, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, version_number, changes, created_at
		 FROM versions WHERE project_id = ? ORDER BY version_number ASC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []Version
	for rows.Next() {
		var v Version
		var createdAt string
		if err = rows.Scan(&v.ID, &v.ProjectID, &v.Number, &v.Changes, &createdAt); err != nil {
			return nil, err
		}
		v.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		versions = append(versions, v)
	}
	return versions, rows.Err()
}
