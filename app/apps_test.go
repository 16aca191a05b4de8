package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/wizide/adapters/memory"
	"github.com/artpar/wizide/app"
	"github.com/artpar/wizide/core/session"
)

const mainInfo = `{"id":"page.main","title":"Main","namespace":"main","category":"pages","viewuri":"/main"}`

func openMain(t *testing.T, f *fixture) (*app.AppCatalog, *session.Editor) {
	t.Helper()
	f.seed(t, map[string]string{
		"app/page.main/app.json": mainInfo,
		"app/page.main/view.pug": "div main",
	})
	c := app.NewAppCatalog(f.deps, app.AppCatalogConfig{Mode: app.ModePage})
	entry, err := c.Entry(context.Background(), "page.main")
	require.NoError(t, err)
	e, err := c.Open(context.Background(), entry, -1)
	require.NoError(t, err)
	return c, e
}

func TestAppCatalog_Load(t *testing.T) {
	f := newFixture(t)
	f.seed(t, map[string]string{
		"app/page.main/app.json":     mainInfo,
		"app/page.empty/app.json":    `{"id":"page.empty","title":"Empty"}`,
		"app/page.broken/app.json":   `not json`,
		"app/component.nav/app.json": `{"id":"component.nav","category":"layout"}`,
		"app/page.noinfo/view.pug":   "div",
	})
	c := app.NewAppCatalog(f.deps, app.AppCatalogConfig{Mode: app.ModePage})

	groups, err := c.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, app.UncategorizedLabel, groups[0].Category)
	assert.Equal(t, "page.empty", groups[0].Entries[0].ID)
	assert.Equal(t, "pages", groups[1].Category)
	assert.Equal(t, "page.main", groups[1].Entries[0].ID)

	assert.Len(t, c.Entries(), 2)
	assert.Len(t, c.Search("main"), 1)
	assert.Equal(t, groups, c.Groups())
}

func TestAppCatalog_OpenTabs(t *testing.T) {
	tests := []struct {
		mode string
		want []string
	}{
		{app.ModePage, []string{"info", "Pug", "Component", "SCSS", "Service", "API", "Socket"}},
		{"component", []string{"info", "Pug", "Component", "SCSS", "API", "Socket"}},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			f := newFixture(t)
			c := app.NewAppCatalog(f.deps, app.AppCatalogConfig{Mode: tt.mode})
			e, err := c.Open(context.Background(), app.Entry{ID: tt.mode + ".main", Namespace: "main"}, -1)
			require.NoError(t, err)

			assert.Equal(t, tt.want, tabNames(e))
			assert.Equal(t, "app/"+tt.mode+".main", e.Path())
			assert.Equal(t, "main", e.Title())
			assert.Equal(t, tt.mode+".main", e.Subtitle())
			assert.Equal(t, 1, e.Current())
			assert.True(t, e.Activated())
			assert.Equal(t, "app/"+tt.mode+".main/app.json", e.Tab(0).Path())
			assert.Equal(t, session.ViewInfo, e.Tab(0).ViewRef())

			component := e.Tab(2)
			assert.Equal(t, session.ViewMonaco, component.ViewRef())
			assert.Equal(t, map[string]any{"language": "typescript", "renderValidationDecorations": "off"}, component.Config()["monaco"])
			assert.Equal(t, map[string]any{"language": "pug"}, e.Tab(1).Config()["monaco"])
		})
	}
}

func TestAppCatalog_TabData(t *testing.T) {
	f := newFixture(t)
	_, e := openMain(t, f)
	ctx := context.Background()

	info := e.Tab(0).Data(ctx)
	assert.Equal(t, "page.main", info.String("id"))
	assert.Equal(t, app.ModePage, info.String("mode"))

	pug := e.Tab(1).Data(ctx)
	assert.Equal(t, session.Payload{"mode": app.ModePage, "data": "div main"}, pug)
	assert.Equal(t, "/main", e.MetaPayload("info").String("viewuri"))

	// missing resource reads as empty
	assert.Equal(t, session.Payload{}, e.Tab(2).Data(ctx))
}

func TestAppCatalog_CodeTabUpdate(t *testing.T) {
	f := newFixture(t)
	_, e := openMain(t, f)
	ctx := context.Background()

	pug := e.Tab(1)
	pug.Data(ctx)
	require.NoError(t, pug.Update(ctx, session.Payload{"data": "div updated"}))

	assert.Equal(t, "div updated", f.read(t, "app/page.main/view.pug"))
	assert.Equal(t, []memory.Notice{
		{Level: "success", Message: app.MsgUpdated},
		{Level: "info", Message: app.MsgBuildFinished},
	}, f.notices.Notices())
	assert.Equal(t, []memory.Build{{Path: "app/page.main/view.pug", Entire: false}}, f.builds.Builds())
	assert.Equal(t, []string{"/main"}, f.preview.URIs())
}

func TestAppCatalog_BuildFailure(t *testing.T) {
	f := newFixture(t)
	_, e := openMain(t, f)
	f.builds.Fail(http.StatusInternalServerError, nil)

	require.NoError(t, e.Tab(1).Update(context.Background(), session.Payload{"data": "div"}))

	notices := f.notices.Notices()
	require.Len(t, notices, 2)
	assert.Equal(t, memory.Notice{Level: "error", Message: app.MsgBuildFailed}, notices[1])
}

func TestAppCatalog_RenameInfo(t *testing.T) {
	f := newFixture(t)
	_, e := openMain(t, f)
	ctx := context.Background()

	err := e.Tab(0).Update(ctx, session.Payload{
		"id":        "page.main",
		"mode":      app.ModePage,
		"namespace": "home",
		"title":     "",
		"viewuri":   "/home",
	})
	require.NoError(t, err)

	assert.Equal(t, "app/page.home", e.Path())
	assert.Equal(t, "home", e.Title())
	assert.Equal(t, "page.home", e.Subtitle())
	for _, p := range tabPaths(e) {
		assert.Contains(t, p, "app/page.home/")
	}

	assert.Equal(t, "div main", f.read(t, "app/page.home/view.pug"))
	assert.Empty(t, f.read(t, "app/page.main/view.pug"))

	var saved map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.read(t, "app/page.home/app.json")), &saved))
	assert.Equal(t, "page.home", saved["id"])

	assert.Equal(t, []memory.Build{{Path: "app/page.home/app.json", Entire: true}}, f.builds.Builds())
	assert.Equal(t, []string{"/home"}, f.preview.URIs())
}

func TestAppCatalog_RenameSourceIsEditorPath(t *testing.T) {
	tests := []struct {
		name string
		id   any
	}{
		{"no id", nil},
		{"empty id", ""},
		{"other entity id", "page.other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed(t, map[string]string{"app/page.other/app.json": `{"id":"page.other"}`})
			_, e := openMain(t, f)

			payload := session.Payload{"mode": app.ModePage, "namespace": "home"}
			if tt.id != nil {
				payload["id"] = tt.id
			}
			require.NoError(t, e.Tab(0).Update(context.Background(), payload))

			assert.ElementsMatch(t, []string{
				"app/page.home/app.json",
				"app/page.home/view.pug",
				"app/page.other/app.json",
			}, f.store.Paths())
			assert.Equal(t, "app/page.home", e.Path())
		})
	}
}

func TestAppCatalog_RenameRejectedLeavesEditor(t *testing.T) {
	f := newFixture(t)
	f.seed(t, map[string]string{"app/page.taken/app.json": `{"id":"page.taken"}`})
	_, e := openMain(t, f)
	before := e.Snapshot()

	err := e.Tab(0).Update(context.Background(), session.Payload{
		"id":        "page.main",
		"mode":      app.ModePage,
		"namespace": "taken",
	})
	require.NoError(t, err)

	after := e.Snapshot()
	assert.Equal(t, before.Path, after.Path)
	assert.Equal(t, before.Title, after.Title)
	assert.Equal(t, before.Subtitle, after.Subtitle)
	assert.Equal(t, before.Tabs, after.Tabs)

	assert.Equal(t, []memory.Notice{{Level: "error", Message: app.MsgInvalidRename}}, f.notices.Notices())
	assert.Equal(t, "div main", f.read(t, "app/page.main/view.pug"))
	assert.Empty(t, f.builds.Builds())
}

func TestAppCatalog_InfoValidation(t *testing.T) {
	tests := []struct {
		namespace string
		want      string
	}{
		{"Home", "invalid namespace"},
		{"ho", "namespace must be at least 3 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			f := newFixture(t)
			_, e := openMain(t, f)

			err := e.Tab(0).Update(context.Background(), session.Payload{"id": "page.main", "namespace": tt.namespace})
			require.NoError(t, err)

			assert.Equal(t, []memory.Notice{{Level: "error", Message: tt.want}}, f.notices.Notices())
			assert.Equal(t, "app/page.main", e.Path())
			assert.Equal(t, mainInfo, f.read(t, "app/page.main/app.json"))
		})
	}
}

func TestAppCatalog_Create(t *testing.T) {
	f := newFixture(t)
	c := app.NewAppCatalog(f.deps, app.AppCatalogConfig{Mode: app.ModePage})
	ctx := context.Background()

	e, err := c.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, "New", e.Title())
	assert.True(t, e.Activated())
	assert.Equal(t, app.ModePage, e.Tab(0).Data(ctx).String("mode"))

	require.NoError(t, e.Tab(0).Update(ctx, session.Payload{
		"mode":      app.ModePage,
		"namespace": "blog",
		"title":     "Blog",
	}))

	assert.Equal(t, session.StateClosed, e.State())
	assert.Equal(t, 0, f.mgr.Len())

	var saved map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.read(t, "app/page.blog/app.json")), &saved))
	assert.Equal(t, "page.blog", saved["id"])
	assert.Equal(t, "Blog", saved["title"])

	require.Len(t, c.Entries(), 1)
	assert.Equal(t, "page.blog", c.Entries()[0].ID)
}

func TestAppCatalog_CreateExisting(t *testing.T) {
	f := newFixture(t)
	f.seed(t, map[string]string{"app/page.blog/app.json": `{"id":"page.blog"}`})
	c := app.NewAppCatalog(f.deps, app.AppCatalogConfig{Mode: app.ModePage})
	ctx := context.Background()

	e, err := c.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, e.Tab(0).Update(ctx, session.Payload{"namespace": "blog"}))

	assert.Equal(t, []memory.Notice{{Level: "error", Message: app.MsgExists}}, f.notices.Notices())
	assert.Equal(t, session.StateOpen, e.State())
	assert.Equal(t, `{"id":"page.blog"}`, f.read(t, "app/page.blog/app.json"))
}

func TestAppCatalog_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	f.seed(t, map[string]string{"app/page.mainx/app.json": `{"id":"page.mainx"}`})
	c, e := openMain(t, f)
	ctx := context.Background()

	sub, err := f.mgr.Create(session.EditorSpec{Path: "app/page.main/view.pug"}).Open(-1)
	require.NoError(t, err)
	other, err := c.Open(ctx, app.Entry{ID: "page.mainx"}, -1)
	require.NoError(t, err)

	require.NoError(t, e.Close(ctx))

	assert.Equal(t, session.StateClosed, sub.State())
	assert.Equal(t, []*session.Editor{other}, f.mgr.Editors())
	assert.Empty(t, f.read(t, "app/page.main/app.json"))
	assert.NotEmpty(t, f.read(t, "app/page.mainx/app.json"))
	assert.Equal(t, []memory.Build{{Path: "app/page.main", Entire: true}}, f.builds.Builds())

	require.Len(t, c.Entries(), 1)
	assert.Equal(t, "page.mainx", c.Entries()[0].ID)
}

func TestAppCatalog_Clone(t *testing.T) {
	f := newFixture(t)
	_, e := openMain(t, f)

	require.NoError(t, e.Clone(context.Background(), 0))

	editors := f.mgr.Editors()
	require.Len(t, editors, 2)
	assert.NotSame(t, e, editors[0])
	assert.Equal(t, e.Path(), editors[0].Path())
	assert.True(t, editors[0].Activated())
	assert.Equal(t, tabPaths(e), tabPaths(editors[0]))
}

func TestAppCatalog_CloseWithCloneOpen(t *testing.T) {
	f := newFixture(t)
	c, e := openMain(t, f)
	ctx := context.Background()

	require.NoError(t, e.Clone(ctx, 0))
	clone := f.mgr.Editors()[0]
	require.NotSame(t, e, clone)

	require.NoError(t, e.Close(ctx))

	assert.Equal(t, 0, f.mgr.Len())
	assert.Equal(t, session.StateClosed, clone.State())
	assert.Empty(t, f.store.Paths())
	assert.Empty(t, c.Entries())
	assert.Equal(t, []memory.Build{{Path: "app/page.main", Entire: true}}, f.builds.Builds())
	assert.Equal(t, []memory.Notice{{Level: "info", Message: app.MsgBuildFinished}}, f.notices.Notices())
}

func TestAppCatalog_Active(t *testing.T) {
	f := newFixture(t)
	c, _ := openMain(t, f)

	assert.True(t, c.Active(app.Entry{ID: "page.main"}))
	assert.False(t, c.Active(app.Entry{ID: "page.other"}))

	other := app.NewAppCatalog(f.deps, app.AppCatalogConfig{Mode: "component"})
	assert.False(t, other.Active(app.Entry{ID: "page.main"}))
}

func TestAppCatalog_EntryNotFound(t *testing.T) {
	f := newFixture(t)
	c := app.NewAppCatalog(f.deps, app.AppCatalogConfig{Mode: app.ModePage})

	_, err := c.Entry(context.Background(), "page.none")
	assert.ErrorIs(t, err, session.ErrNotFound)
}
