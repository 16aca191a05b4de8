package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/wizide/adapters/memory"
	"github.com/artpar/wizide/app"
	"github.com/artpar/wizide/core/session"
)

func openUsers(t *testing.T, f *fixture) (*app.RouteCatalog, *session.Editor) {
	t.Helper()
	f.seed(t, map[string]string{
		"route/api.users/app.json":      `{"id":"api.users","title":"Users","route":"/api/users","viewuri":"/api/users"}`,
		"route/api.users/controller.py": "print('users')",
	})
	c := app.NewRouteCatalog(f.deps, "")
	groups, err := c.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)

	e, err := c.Open(context.Background(), groups[0].Entries[0], -1)
	require.NoError(t, err)
	return c, e
}

func TestRouteCatalog_Open(t *testing.T) {
	f := newFixture(t)
	c, e := openUsers(t, f)

	assert.Equal(t, []string{"info", "Controller"}, tabNames(e))
	assert.Equal(t, []string{"route/api.users/app.json", "route/api.users/controller.py"}, tabPaths(e))
	assert.Equal(t, "Users", e.Title())
	assert.Equal(t, "/api/users", e.Subtitle())
	assert.Equal(t, "api.users", e.MetaString("id"))
	assert.Equal(t, map[string]any{"language": "python"}, e.Tab(1).Config()["monaco"])
	assert.True(t, c.Active(app.Entry{ID: "api.users"}))
	assert.Equal(t, "route.list", c.ComponentID())
}

func TestRouteCatalog_ControllerData(t *testing.T) {
	f := newFixture(t)
	_, e := openUsers(t, f)
	ctx := context.Background()

	controller := e.Tab(1)
	assert.Equal(t, session.Payload{"data": "print('users')"}, controller.Data(ctx))
	assert.Equal(t, "/api/users", controller.MetaPayload("info").String("viewuri"))

	require.NoError(t, controller.Update(ctx, session.Payload{"data": "print('v2')"}))
	assert.Equal(t, "print('v2')", f.read(t, "route/api.users/controller.py"))
	assert.Equal(t, []string{"/api/users"}, f.preview.URIs())
	assert.Empty(t, f.builds.Builds())
}

func TestRouteCatalog_Rename(t *testing.T) {
	f := newFixture(t)
	_, e := openUsers(t, f)

	err := e.Tab(0).Update(context.Background(), session.Payload{
		"id":    "api.people",
		"title": "",
		"route": "/api/people",
	})
	require.NoError(t, err)

	assert.Equal(t, "route/api.people", e.Path())
	assert.Equal(t, "api.people", e.Title())
	assert.Equal(t, "/api/people", e.Subtitle())
	assert.Equal(t, "api.people", e.MetaString("id"))
	assert.Equal(t, []string{"route/api.people/app.json", "route/api.people/controller.py"}, tabPaths(e))
	assert.Equal(t, "print('users')", f.read(t, "route/api.people/controller.py"))
}

func TestRouteCatalog_RenameInfoWithoutID(t *testing.T) {
	f := newFixture(t)
	f.seed(t, map[string]string{
		"route/api.orders/app.json":     `{"id":"api.orders"}`,
		"route/api.users/app.json":      `{"title":"Users","route":"/api/users"}`,
		"route/api.users/controller.py": "print('users')",
	})
	c := app.NewRouteCatalog(f.deps, "")
	ctx := context.Background()
	entry, err := c.Entry(ctx, "api.users")
	require.NoError(t, err)
	e, err := c.Open(ctx, entry, -1)
	require.NoError(t, err)

	e.Tab(1).Data(ctx)
	assert.Equal(t, "api.users", e.MetaString("id"))

	require.NoError(t, e.Tab(0).Update(ctx, session.Payload{"id": "api.people", "route": "/api/people"}))

	assert.ElementsMatch(t, []string{
		"route/api.orders/app.json",
		"route/api.people/app.json",
		"route/api.people/controller.py",
	}, f.store.Paths())
	assert.Equal(t, "api.people", e.MetaString("id"))
}

func TestRouteCatalog_CloseWithCloneOpen(t *testing.T) {
	f := newFixture(t)
	_, e := openUsers(t, f)
	ctx := context.Background()

	require.NoError(t, e.Clone(ctx, -1))
	require.Equal(t, 2, f.mgr.Len())

	require.NoError(t, e.Close(ctx))

	assert.Equal(t, 0, f.mgr.Len())
	assert.Empty(t, f.store.Paths())
}

func TestRouteCatalog_RenameRejected(t *testing.T) {
	f := newFixture(t)
	f.seed(t, map[string]string{"route/api.taken/app.json": `{"id":"api.taken"}`})
	_, e := openUsers(t, f)

	require.NoError(t, e.Tab(0).Update(context.Background(), session.Payload{"id": "api.taken"}))

	assert.Equal(t, "route/api.users", e.Path())
	assert.Equal(t, "api.users", e.MetaString("id"))
	assert.Equal(t, []string{"route/api.users/app.json", "route/api.users/controller.py"}, tabPaths(e))
	assert.Equal(t, []memory.Notice{{Level: "error", Message: app.MsgInvalidRename}}, f.notices.Notices())
}

func TestRouteCatalog_CreateValidation(t *testing.T) {
	f := newFixture(t)
	c := app.NewRouteCatalog(f.deps, "")
	ctx := context.Background()

	e, err := c.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, e.Tab(0).Update(ctx, session.Payload{"id": "Api.New"}))
	require.NoError(t, e.Tab(0).Update(ctx, session.Payload{"id": "ap"}))
	assert.Equal(t, []memory.Notice{
		{Level: "error", Message: "invalid id"},
		{Level: "error", Message: "id must be at least 3 characters"},
	}, f.notices.Notices())

	f.notices.Reset()
	require.NoError(t, e.Tab(0).Update(ctx, session.Payload{"id": "api.new", "route": "/api/new"}))
	assert.Equal(t, session.StateClosed, e.State())
	assert.Contains(t, f.read(t, "route/api.new/app.json"), `"route": "/api/new"`)
	assert.Equal(t, []memory.Notice{{Level: "success", Message: app.MsgUpdated}}, f.notices.Notices())
}

func TestRouteCatalog_Delete(t *testing.T) {
	f := newFixture(t)
	c, e := openUsers(t, f)

	require.NoError(t, e.Close(context.Background()))

	assert.Equal(t, 0, f.mgr.Len())
	assert.Empty(t, f.read(t, "route/api.users/app.json"))
	assert.Empty(t, c.Entries())
	assert.Empty(t, f.builds.Builds())
}
