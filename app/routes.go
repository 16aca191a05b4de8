package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/artpar/wizide/core/session"
	"github.com/artpar/wizide/domain/vpath"
)

// RouteDomain is the store domain holding route entities.
const RouteDomain = "route"

// RouteCatalog lists routes and opens editors over them.
type RouteCatalog struct {
	catalog
}

// NewRouteCatalog creates a route catalog.
func NewRouteCatalog(deps Deps, componentID string) *RouteCatalog {
	return &RouteCatalog{catalog: newCatalog(deps, RouteDomain, firstNonEmpty(componentID, "route.list"))}
}

// Load refreshes the route list.
func (c *RouteCatalog) Load(ctx context.Context) ([]Group, error) {
	entries, err := c.load(ctx, nil)
	if err != nil {
		return nil, err
	}
	return GroupEntries(entries), nil
}

// Active reports whether the activated editor shows the route entry.
func (c *RouteCatalog) Active(entry Entry) bool {
	return c.deps.Manager.IsActive(c.componentID, func(e *session.Editor) bool {
		return e.MetaString("id") == entry.ID
	})
}

// Entry reads one route's info file.
func (c *RouteCatalog) Entry(ctx context.Context, id string) (Entry, error) {
	entry, ok, err := c.fetchEntry(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if !ok {
		return Entry{}, fmt.Errorf("route %s: %w", id, session.ErrNotFound)
	}
	return entry, nil
}

// Create opens a "New" editor whose info tab creates a route on update.
func (c *RouteCatalog) Create(ctx context.Context) (*session.Editor, error) {
	editor := c.deps.Manager.Create(session.EditorSpec{ComponentID: c.componentID, Title: "New"})

	editor.Create(session.TabSpec{Name: "info", ViewRef: session.ViewInfo}).
		OnData(func(context.Context, *session.Tab) (session.Payload, error) {
			return session.Payload{"id": "", "title": "", "route": "", "viewuri": "", "category": ""}, nil
		}).
		OnUpdate(func(ctx context.Context, tab *session.Tab, p session.Payload) error {
			data := payloadOr(ctx, tab, p)
			id := data.String("id")
			if err := ValidateIdentifier("id", id); err != nil {
				c.rejectInvalid(ctx, err)
				return nil
			}
			taken, err := c.exists(ctx, id)
			if err != nil {
				return err
			}
			if taken {
				c.deps.Notifier.Error(ctx, MsgExists)
				return nil
			}

			content, err := marshalInfo(data)
			if err != nil {
				return err
			}
			if err := editor.Close(ctx); err != nil {
				return err
			}
			if _, err := c.save(ctx, vpath.Resource(RouteDomain, id, InfoFile), content); err != nil {
				return err
			}
			_, err = c.Load(ctx)
			return err
		})

	return c.show(editor, -1)
}

// Open opens an editor over entry at location (negative appends) and
// activates it. The editor keeps the route id in its meta under "id".
func (c *RouteCatalog) Open(ctx context.Context, entry Entry, location int) (*session.Editor, error) {
	root := vpath.Join(RouteDomain, entry.ID)

	editor := c.deps.Manager.Create(session.EditorSpec{
		ComponentID: c.componentID,
		Path:        root,
		Title:       firstNonEmpty(entry.Title, entry.ID),
		Subtitle:    entry.Route,
		Current:     1,
		Meta:        session.Meta{"id": entry.ID},
	})

	editor.Create(session.TabSpec{
		Name:    "info",
		ViewRef: session.ViewInfo,
		Path:    vpath.Join(root, InfoFile),
	}).
		OnData(func(ctx context.Context, tab *session.Tab) (session.Payload, error) {
			data, err := c.fetchPayload(ctx, tab.Path())
			if err != nil || data == nil {
				return nil, err
			}
			if id := data.String("id"); id != "" {
				editor.SetMeta("id", id)
			}
			return data, nil
		}).
		OnUpdate(func(ctx context.Context, tab *session.Tab, p session.Payload) error {
			return c.updateInfo(ctx, editor, payloadOr(ctx, tab, p))
		})

	editor.Create(session.TabSpec{
		Name:    "Controller",
		ViewRef: session.ViewMonaco,
		Path:    vpath.Join(root, "controller.py"),
		Config:  monacoConfig("python"),
	}).
		OnData(func(ctx context.Context, tab *session.Tab) (session.Payload, error) {
			tab.SetMeta("info", editor.Tab(0).Data(ctx))
			text, ok, err := c.fetchText(ctx, tab.Path())
			if err != nil || !ok {
				return nil, err
			}
			return session.Payload{"data": text}, nil
		}).
		OnUpdate(func(ctx context.Context, tab *session.Tab, p session.Payload) error {
			data := payloadOr(ctx, tab, p)
			return c.update(ctx, tab.Path(), data.String("data"), tab.MetaPayload("info").String("viewuri"))
		})

	editor.OnDelete(func(ctx context.Context, e *session.Editor) error {
		path := e.Path()
		if err := c.closeRelated(ctx, e); err != nil {
			c.logger.Warn().Err(err).Str("path", path).Msg("closing related editors")
		}
		if _, err := c.deps.Store.Delete(ctx, path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		_, err := c.Load(ctx)
		return err
	})

	editor.OnClone(func(ctx context.Context, _ *session.Editor, location int) error {
		_, err := c.Open(ctx, entry, location)
		return err
	})

	return c.show(editor, location)
}

// updateInfo saves an edited info tab, renaming the route first when its
// id changed.
func (c *RouteCatalog) updateInfo(ctx context.Context, editor *session.Editor, data session.Payload) error {
	to := data.String("id")
	if err := ValidateIdentifier("id", to); err != nil {
		c.rejectInvalid(ctx, err)
		return nil
	}

	from := entityID(editor)
	if from != to {
		if err := c.rename(ctx, from, to); err != nil {
			if errors.Is(err, ErrRenameRejected) {
				c.deps.Notifier.Error(ctx, MsgInvalidRename)
				return nil
			}
			return err
		}
	}

	editor.Relocate(session.Modification{
		Path:     session.Str(vpath.Join(RouteDomain, to)),
		Title:    session.Str(firstNonEmpty(data.String("title"), to)),
		Subtitle: session.Str(data.String("route")),
		Meta:     session.Meta{"id": to},
	}, vpath.SegmentEntity, to)

	content, err := marshalInfo(data)
	if err != nil {
		return err
	}
	return c.update(ctx, vpath.Join(editor.Path(), InfoFile), string(content), data.String("viewuri"))
}

// update saves content, reloads the list and moves the preview. Routes
// are served without a build step.
func (c *RouteCatalog) update(ctx context.Context, path, content, viewURI string) error {
	ok, err := c.save(ctx, path, []byte(content))
	if err != nil || !ok {
		return err
	}
	if _, err := c.Load(ctx); err != nil {
		return err
	}
	return c.preview(ctx, viewURI)
}
