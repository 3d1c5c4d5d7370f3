package storage

import (
	"context"
	"time"
)

type Interface interface {
	CreateProject(ctx context.Context, project Project) (int64, error)
	GetProject(ctx context.Context, id int64) (*Project, error)
	SaveVersion(ctx context.Context, version Version) error
	CountVersions(ctx context.Context, projectID int64) (int, error)
	VersionsByProject(ctx context.Context, projectID int64) ([]Version, error)
}

type Project struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Version is one finalized build: Number is assigned as the project's
// current version count plus one at completion time.
type Version struct {
	ID        int64     `json:"id" db:"id"`
	ProjectID int64     `json:"project_id" db:"project_id"`
	Number    int       `json:"version_number" db:"version_number"`
	Changes   string    `json:"changes" db:"changes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
