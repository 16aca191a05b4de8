package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/artpar/wizide/domain/vpath"
	"github.com/artpar/wizide/ports"
)

// FileStore implements ports.Store on the files table.
type FileStore struct {
	db *DB
}

// NewFileStore creates a SQLite file store.
func NewFileStore(db *DB) *FileStore {
	return &FileStore{db: db}
}

// withinClause matches a path and everything below it on whole segments.
const withinClause = `(path = ? OR path LIKE ? ESCAPE '\')`

func withinArgs(root string) []any {
	return []any{root, likeEscape(root) + "/%"}
}

func likeEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Fetch returns the content stored at path, or 404.
func (s *FileStore) Fetch(ctx context.Context, path string) (ports.Response, error) {
	var content []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT content FROM files WHERE path = ?
	`, vpath.Clean(path)).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Response{Status: http.StatusNotFound}, nil
	}
	if err != nil {
		return ports.Response{}, fmt.Errorf("fetch %s: %w", path, err)
	}
	return ports.Response{Status: http.StatusOK, Payload: content}, nil
}

// Save upserts content at path.
func (s *FileStore) Save(ctx context.Context, path string, content []byte) (ports.Response, error) {
	p := vpath.Clean(path)
	if p == "" {
		return ports.Response{Status: http.StatusBadRequest}, nil
	}
	if content == nil {
		content = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (path, content)
		VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content = excluded.content,
			updated_at = CURRENT_TIMESTAMP
	`, p, content)
	if err != nil {
		return ports.Response{}, fmt.Errorf("save %s: %w", p, err)
	}
	return ports.Response{Status: http.StatusOK}, nil
}

// Rename moves every file within from to the same position within to in
// one transaction. It answers 404 when from is empty and 400 when to is
// already in use or either path does not address an entity.
func (s *FileStore) Rename(ctx context.Context, from, to string) (ports.Response, error) {
	from, to = vpath.Clean(from), vpath.Clean(to)
	if vpath.Depth(from) <= vpath.SegmentEntity || vpath.Depth(to) <= vpath.SegmentEntity {
		return ports.Response{Status: http.StatusBadRequest}, nil
	}
	if from == to {
		return ports.Response{Status: http.StatusOK}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ports.Response{}, fmt.Errorf("begin rename: %w", err)
	}
	defer tx.Rollback()

	var taken int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM files WHERE `+withinClause, withinArgs(to)...,
	).Scan(&taken); err != nil {
		return ports.Response{}, fmt.Errorf("rename %s: %w", from, err)
	}
	if taken > 0 {
		return ports.Response{Status: http.StatusBadRequest}, nil
	}

	paths, err := queryPaths(ctx, tx, `SELECT path FROM files WHERE `+withinClause, withinArgs(from)...)
	if err != nil {
		return ports.Response{}, fmt.Errorf("rename %s: %w", from, err)
	}
	if len(paths) == 0 {
		return ports.Response{Status: http.StatusNotFound}, nil
	}

	for _, p := range paths {
		if _, err := tx.ExecContext(ctx, `
			UPDATE files SET path = ?, updated_at = CURRENT_TIMESTAMP WHERE path = ?
		`, vpath.Rebase(p, from, to), p); err != nil {
			return ports.Response{}, fmt.Errorf("rename %s: %w", p, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return ports.Response{}, fmt.Errorf("commit rename: %w", err)
	}
	return ports.Response{Status: http.StatusOK}, nil
}

// Delete removes path and everything within it.
func (s *FileStore) Delete(ctx context.Context, path string) (ports.Response, error) {
	p := vpath.Clean(path)
	if p == "" {
		return ports.Response{Status: http.StatusBadRequest}, nil
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE `+withinClause, withinArgs(p)...)
	if err != nil {
		return ports.Response{}, fmt.Errorf("delete %s: %w", p, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return ports.Response{}, err
	}
	if rows == 0 {
		return ports.Response{Status: http.StatusNotFound}, nil
	}
	return ports.Response{Status: http.StatusOK}, nil
}

// Exists reports whether anything is stored within path.
func (s *FileStore) Exists(ctx context.Context, path string) (bool, error) {
	p := vpath.Clean(path)
	if p == "" {
		return false, nil
	}
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM files WHERE `+withinClause+`)`, withinArgs(p)...,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", p, err)
	}
	return exists, nil
}

// List returns the distinct child segments directly below prefix, sorted.
func (s *FileStore) List(ctx context.Context, prefix string) ([]string, error) {
	root := vpath.Clean(prefix)

	var (
		paths []string
		err   error
	)
	if root == "" {
		paths, err = queryPaths(ctx, s.db, `SELECT path FROM files`)
	} else {
		paths, err = queryPaths(ctx, s.db,
			`SELECT path FROM files WHERE path LIKE ? ESCAPE '\'`, likeEscape(root)+"/%")
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}

	depth := len(vpath.Split(root))
	seen := make(map[string]bool)
	for _, p := range paths {
		if seg := vpath.Segment(p, depth); seg != "" {
			seen[seg] = true
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryPaths(ctx context.Context, q queryer, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ ports.Store = (*FileStore)(nil)
