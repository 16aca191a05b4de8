package sqlite

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/artpar/wizide/domain/vpath"
	"github.com/artpar/wizide/ports"
)

// BuildLog is the builder used when no remote build service is
// configured: it records each request in the builds table and reports
// success when the built entity exists.
type BuildLog struct {
	db    *DB
	files *FileStore
}

// NewBuildLog creates a build log over db.
func NewBuildLog(db *DB) *BuildLog {
	return &BuildLog{db: db, files: NewFileStore(db)}
}

// BuildRecord is one recorded build request.
type BuildRecord struct {
	ID          int64
	Path        string
	Entire      bool
	Status      int
	RequestedAt time.Time
}

// Build records a build of path. An empty path with entire set rebuilds
// everything and always succeeds.
func (b *BuildLog) Build(ctx context.Context, path string, entire bool) (ports.Response, error) {
	status := http.StatusOK
	if p := vpath.Entity(vpath.Clean(path)); p != "" {
		ok, err := b.files.Exists(ctx, p)
		if err != nil {
			return ports.Response{}, err
		}
		if !ok {
			status = http.StatusNotFound
		}
	} else if !entire {
		status = http.StatusBadRequest
	}

	_, err := b.db.ExecContext(ctx, `
		INSERT INTO builds (path, entire, status) VALUES (?, ?, ?)
	`, vpath.Clean(path), entire, status)
	if err != nil {
		return ports.Response{}, fmt.Errorf("record build: %w", err)
	}
	return ports.Response{Status: status}, nil
}

// Recent returns the latest builds, newest first.
func (b *BuildLog) Recent(ctx context.Context, limit int) ([]BuildRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, path, entire, status, requested_at
		FROM builds
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	var out []BuildRecord
	for rows.Next() {
		var r BuildRecord
		if err := rows.Scan(&r.ID, &r.Path, &r.Entire, &r.Status, &r.RequestedAt); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

var _ ports.Builder = (*BuildLog)(nil)
