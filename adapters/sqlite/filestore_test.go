package sqlite_test

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/artpar/wizide/adapters/sqlite"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "wizide.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seed(t *testing.T, s *sqlite.FileStore, files map[string]string) {
	t.Helper()
	for p, c := range files {
		resp, err := s.Save(context.Background(), p, []byte(c))
		if err != nil || !resp.OK() {
			t.Fatalf("Save(%s) = %d, %v", p, resp.Status, err)
		}
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	versions, err := db.Versions(ctx)
	if err != nil {
		t.Fatalf("versions: %v", err)
	}
	if len(versions) != 2 || versions[0] != "001_files" || versions[1] != "002_builds" {
		t.Errorf("versions = %v", versions)
	}
}

func TestFileStore_SaveFetch(t *testing.T) {
	s := sqlite.NewFileStore(setupTestDB(t))
	ctx := context.Background()

	resp, err := s.Save(ctx, "app/main/app.json", []byte(`{"id":"main"}`))
	if err != nil || !resp.OK() {
		t.Fatalf("Save = %d, %v", resp.Status, err)
	}

	got, err := s.Fetch(ctx, "/app/main/app.json/")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !got.OK() || string(got.Payload) != `{"id":"main"}` {
		t.Errorf("Fetch = %d %q", got.Status, got.Payload)
	}

	// overwrite
	if _, err := s.Save(ctx, "app/main/app.json", []byte(`{"id":"main","title":"Main"}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = s.Fetch(ctx, "app/main/app.json")
	if string(got.Payload) != `{"id":"main","title":"Main"}` {
		t.Errorf("after overwrite Payload = %q", got.Payload)
	}
}

func TestFileStore_FetchMissing(t *testing.T) {
	s := sqlite.NewFileStore(setupTestDB(t))

	resp, err := s.Fetch(context.Background(), "app/none/app.json")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if resp.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", resp.Status)
	}
}

func TestFileStore_SaveEmpty(t *testing.T) {
	s := sqlite.NewFileStore(setupTestDB(t))
	ctx := context.Background()

	resp, _ := s.Save(ctx, "", []byte("x"))
	if resp.Status != http.StatusBadRequest {
		t.Errorf("empty path Status = %d, want 400", resp.Status)
	}

	resp, err := s.Save(ctx, "app/a/app.scss", nil)
	if err != nil || !resp.OK() {
		t.Fatalf("nil content Save = %d, %v", resp.Status, err)
	}
	got, _ := s.Fetch(ctx, "app/a/app.scss")
	if !got.OK() || len(got.Payload) != 0 {
		t.Errorf("Fetch = %d %q", got.Status, got.Payload)
	}
}

func TestFileStore_Rename(t *testing.T) {
	tests := []struct {
		name       string
		from, to   string
		wantStatus int
		present    []string
		absent     []string
	}{
		{
			name: "moves entity", from: "app/x", to: "app/y",
			wantStatus: http.StatusOK,
			present:    []string{"app/y/app.json", "app/y/view.ts", "app/x2/app.json"},
			absent:     []string{"app/x/app.json", "app/x/view.ts"},
		},
		{
			name: "target taken", from: "app/x", to: "app/x2",
			wantStatus: http.StatusBadRequest,
			present:    []string{"app/x/app.json", "app/x2/app.json"},
		},
		{
			name: "domain root source", from: "app/", to: "app/home",
			wantStatus: http.StatusBadRequest,
			present:    []string{"app/x/app.json", "app/x/view.ts", "app/x2/app.json"},
			absent:     []string{"app/home/x/app.json"},
		},
		{
			name: "missing source", from: "app/nope", to: "app/new",
			wantStatus: http.StatusNotFound,
			absent:     []string{"app/new/app.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sqlite.NewFileStore(setupTestDB(t))
			ctx := context.Background()
			seed(t, s, map[string]string{
				"app/x/app.json":  "x",
				"app/x/view.ts":   "v",
				"app/x2/app.json": "x2",
			})

			resp, err := s.Rename(ctx, tt.from, tt.to)
			if err != nil {
				t.Fatalf("Rename failed: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", resp.Status, tt.wantStatus)
			}
			for _, p := range tt.present {
				if r, _ := s.Fetch(ctx, p); !r.OK() {
					t.Errorf("%s missing after rename", p)
				}
			}
			for _, p := range tt.absent {
				if r, _ := s.Fetch(ctx, p); r.OK() {
					t.Errorf("%s still present after rename", p)
				}
			}
		})
	}
}

func TestFileStore_LikeWildcardsAreLiteral(t *testing.T) {
	s := sqlite.NewFileStore(setupTestDB(t))
	ctx := context.Background()
	seed(t, s, map[string]string{
		"app/a_b/app.json": "1",
		"app/axb/app.json": "2",
	})

	resp, err := s.Delete(ctx, "app/a_b")
	if err != nil || !resp.OK() {
		t.Fatalf("Delete = %d, %v", resp.Status, err)
	}
	if ok, _ := s.Exists(ctx, "app/axb"); !ok {
		t.Error("app/axb was deleted by a wildcard match")
	}
}

func TestFileStore_DeleteExists(t *testing.T) {
	s := sqlite.NewFileStore(setupTestDB(t))
	ctx := context.Background()
	seed(t, s, map[string]string{
		"route/a/app.json":      "a",
		"route/a/controller.py": "c",
		"route/ab/app.json":     "ab",
	})

	resp, _ := s.Delete(ctx, "route/a")
	if !resp.OK() {
		t.Fatalf("Delete status = %d", resp.Status)
	}
	if ok, _ := s.Exists(ctx, "route/a"); ok {
		t.Error("route/a should be gone")
	}
	if ok, _ := s.Exists(ctx, "route/ab"); !ok {
		t.Error("route/ab must survive")
	}

	resp, _ = s.Delete(ctx, "route/a")
	if resp.Status != http.StatusNotFound {
		t.Errorf("second Delete status = %d, want 404", resp.Status)
	}
}

func TestFileStore_List(t *testing.T) {
	s := sqlite.NewFileStore(setupTestDB(t))
	ctx := context.Background()
	seed(t, s, map[string]string{
		"app/b/app.json":   "",
		"app/a/app.json":   "",
		"app/a/view.ts":    "",
		"route/r/app.json": "",
	})

	got, err := s.List(ctx, "app")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("List(app) = %v", got)
	}

	got, _ = s.List(ctx, "")
	if len(got) != 2 || got[0] != "app" || got[1] != "route" {
		t.Errorf("List() = %v", got)
	}
}

func TestBuildLog(t *testing.T) {
	db := setupTestDB(t)
	files := sqlite.NewFileStore(db)
	builds := sqlite.NewBuildLog(db)
	ctx := context.Background()
	seed(t, files, map[string]string{"app/main/app.json": "{}"})

	tests := []struct {
		path   string
		entire bool
		want   int
	}{
		{"app/main/app.json", false, http.StatusOK},
		{"app/gone", false, http.StatusNotFound},
		{"", true, http.StatusOK},
		{"", false, http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp, err := builds.Build(ctx, tt.path, tt.entire)
		if err != nil {
			t.Fatalf("Build(%q) failed: %v", tt.path, err)
		}
		if resp.Status != tt.want {
			t.Errorf("Build(%q, %v) = %d, want %d", tt.path, tt.entire, resp.Status, tt.want)
		}
	}

	recent, err := builds.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != len(tests) {
		t.Fatalf("len(Recent) = %d, want %d", len(recent), len(tests))
	}
	if recent[0].Entire || recent[0].Status != http.StatusBadRequest {
		t.Errorf("newest = %+v", recent[0])
	}
	if recent[3].Path != "app/main/app.json" || recent[3].RequestedAt.IsZero() {
		t.Errorf("oldest = %+v", recent[3])
	}
}
