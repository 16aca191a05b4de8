package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/artpar/wizide/core/session"
	"github.com/artpar/wizide/domain/vpath"
)

// AppDomain is the store domain holding app entities.
const AppDomain = "app"

// ModePage is the app mode that carries a service module.
const ModePage = "page"

// appResources lists the code tabs of an app editor, in tab order.
var appResources = []struct {
	name     string
	file     string
	lang     string
	pageOnly bool
}{
	{name: "Pug", file: "view.pug", lang: "pug"},
	{name: "Component", file: "view.ts", lang: "typescript"},
	{name: "SCSS", file: "view.scss", lang: "scss"},
	{name: "Service", file: "service.ts", lang: "typescript", pageOnly: true},
	{name: "API", file: "api.py", lang: "python"},
	{name: "Socket", file: "socket.py", lang: "python"},
}

// AppCatalogConfig contains configuration for AppCatalog.
type AppCatalogConfig struct {
	ComponentID string
	// Mode restricts the catalog to app ids prefixed with "<mode>.".
	Mode string
}

// AppCatalog lists apps of one mode and opens editors over them.
type AppCatalog struct {
	catalog
	mode string
}

// NewAppCatalog creates an app catalog.
func NewAppCatalog(deps Deps, cfg AppCatalogConfig) *AppCatalog {
	componentID := cfg.ComponentID
	if componentID == "" {
		componentID = "app." + firstNonEmpty(cfg.Mode, "list")
	}
	return &AppCatalog{
		catalog: newCatalog(deps, AppDomain, componentID),
		mode:    cfg.Mode,
	}
}

// Mode returns the app mode this catalog lists.
func (c *AppCatalog) Mode() string {
	return c.mode
}

// Load refreshes the app list.
func (c *AppCatalog) Load(ctx context.Context) ([]Group, error) {
	entries, err := c.load(ctx, func(id string) bool {
		return c.mode == "" || strings.HasPrefix(id, c.mode+".")
	})
	if err != nil {
		return nil, err
	}
	return GroupEntries(entries), nil
}

// Active reports whether the activated editor shows the app entry.
func (c *AppCatalog) Active(entry Entry) bool {
	return c.deps.Manager.IsActive(c.componentID, func(e *session.Editor) bool {
		return e.Subtitle() == entry.ID
	})
}

// Entry reads one app's info file.
func (c *AppCatalog) Entry(ctx context.Context, id string) (Entry, error) {
	entry, ok, err := c.fetchEntry(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if !ok {
		return Entry{}, fmt.Errorf("app %s: %w", id, session.ErrNotFound)
	}
	return entry, nil
}

// Create opens a "New" editor whose info tab creates an app on update.
func (c *AppCatalog) Create(ctx context.Context) (*session.Editor, error) {
	editor := c.deps.Manager.Create(session.EditorSpec{ComponentID: c.componentID, Title: "New"})

	editor.Create(session.TabSpec{Name: "info", ViewRef: session.ViewInfo}).
		OnData(func(context.Context, *session.Tab) (session.Payload, error) {
			return session.Payload{
				"mode":      c.mode,
				"id":        "",
				"title":     "",
				"namespace": "",
				"viewuri":   "",
				"category":  "",
			}, nil
		}).
		OnUpdate(func(ctx context.Context, tab *session.Tab, p session.Payload) error {
			return c.createApp(ctx, editor, payloadOr(ctx, tab, p))
		})

	return c.show(editor, -1)
}

func (c *AppCatalog) createApp(ctx context.Context, editor *session.Editor, data session.Payload) error {
	namespace := data.String("namespace")
	if err := ValidateIdentifier("namespace", namespace); err != nil {
		c.rejectInvalid(ctx, err)
		return nil
	}

	id := appID(firstNonEmpty(data.String("mode"), c.mode), namespace)
	taken, err := c.exists(ctx, id)
	if err != nil {
		return err
	}
	if taken {
		c.deps.Notifier.Error(ctx, MsgExists)
		return nil
	}

	data["id"] = id
	content, err := marshalInfo(data)
	if err != nil {
		return err
	}

	if err := editor.Close(ctx); err != nil {
		return err
	}
	if _, err := c.save(ctx, vpath.Resource(AppDomain, id, InfoFile), content); err != nil {
		return err
	}
	_, err = c.Load(ctx)
	return err
}

// Open opens an editor over entry at location (negative appends) and
// activates it.
func (c *AppCatalog) Open(ctx context.Context, entry Entry, location int) (*session.Editor, error) {
	root := vpath.Join(AppDomain, entry.ID)
	mode := c.mode

	editor := c.deps.Manager.Create(session.EditorSpec{
		ComponentID: c.componentID,
		Path:        root,
		Title:       firstNonEmpty(entry.Title, entry.Namespace),
		Subtitle:    entry.ID,
		Current:     1,
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
			data["mode"] = mode
			return data, nil
		}).
		OnUpdate(func(ctx context.Context, tab *session.Tab, p session.Payload) error {
			return c.updateInfo(ctx, editor, payloadOr(ctx, tab, p))
		})

	for _, r := range appResources {
		if r.pageOnly && mode != ModePage {
			continue
		}
		editor.Create(session.TabSpec{
			Name:    r.name,
			ViewRef: session.ViewMonaco,
			Path:    vpath.Join(root, r.file),
			Config:  monacoConfig(r.lang),
		}).
			OnData(func(ctx context.Context, tab *session.Tab) (session.Payload, error) {
				editorInfo(ctx, editor)
				text, ok, err := c.fetchText(ctx, tab.Path())
				if err != nil || !ok {
					return nil, err
				}
				return session.Payload{"mode": mode, "data": text}, nil
			}).
			OnUpdate(func(ctx context.Context, tab *session.Tab, p session.Payload) error {
				data := payloadOr(ctx, tab, p)
				viewURI := editor.MetaPayload("info").String("viewuri")
				return c.update(ctx, tab.Path(), data.String("data"), false, viewURI)
			})
	}

	editor.OnDelete(func(ctx context.Context, e *session.Editor) error {
		path := e.Path()
		if err := c.closeRelated(ctx, e); err != nil {
			c.logger.Warn().Err(err).Str("path", path).Msg("closing related editors")
		}
		if _, err := c.deps.Store.Delete(ctx, path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		if _, err := c.Load(ctx); err != nil {
			return err
		}
		return c.build(ctx, path, true)
	})

	editor.OnClone(func(ctx context.Context, _ *session.Editor, location int) error {
		_, err := c.Open(ctx, entry, location)
		return err
	})

	return c.show(editor, location)
}

// updateInfo saves an edited info tab, renaming the app first when its
// namespace changed.
func (c *AppCatalog) updateInfo(ctx context.Context, editor *session.Editor, data session.Payload) error {
	namespace := data.String("namespace")
	if err := ValidateIdentifier("namespace", namespace); err != nil {
		c.rejectInvalid(ctx, err)
		return nil
	}

	from := entityID(editor)
	to := appID(firstNonEmpty(data.String("mode"), c.mode), namespace)
	moved := from != to

	if moved {
		if err := c.rename(ctx, from, to); err != nil {
			if errors.Is(err, ErrRenameRejected) {
				c.deps.Notifier.Error(ctx, MsgInvalidRename)
				return nil
			}
			return err
		}
	}

	data["id"] = to
	editor.Relocate(session.Modification{
		Path:     session.Str(vpath.Join(AppDomain, to)),
		Title:    session.Str(firstNonEmpty(data.String("title"), namespace)),
		Subtitle: session.Str(to),
	}, vpath.SegmentEntity, to)

	content, err := marshalInfo(data)
	if err != nil {
		return err
	}
	return c.update(ctx, vpath.Join(editor.Path(), InfoFile), string(content), moved, data.String("viewuri"))
}

// update saves content, reloads the list, rebuilds and moves the preview.
func (c *AppCatalog) update(ctx context.Context, path, content string, entire bool, viewURI string) error {
	if _, err := c.save(ctx, path, []byte(content)); err != nil {
		return err
	}
	if _, err := c.Load(ctx); err != nil {
		return err
	}
	if err := c.build(ctx, path, entire); err != nil {
		return err
	}
	return c.preview(ctx, viewURI)
}

// appID builds "<mode>.<namespace>", or the bare namespace without a mode.
func appID(mode, namespace string) string {
	if mode == "" {
		return namespace
	}
	return mode + "." + namespace
}
