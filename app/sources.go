package app

import (
	"context"
	"fmt"

	"github.com/artpar/wizide/core/session"
)

// SourceFile is one file of a multi-file source item.
type SourceFile struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
	Lang string `json:"lang" yaml:"lang"`
}

// SourceItem is a framework source entry. An item without Files is a
// single file at Path.
type SourceItem struct {
	Title    string       `json:"title" yaml:"title"`
	Subtitle string       `json:"subtitle" yaml:"subtitle"`
	Path     string       `json:"path" yaml:"path"`
	Lang     string       `json:"lang,omitempty" yaml:"lang"`
	Files    []SourceFile `json:"files,omitempty" yaml:"files"`
}

// DefaultSourceItems lists the framework files of a project.
func DefaultSourceItems() []SourceItem {
	return []SourceItem{
		{Title: "App Module", Subtitle: "app.module", Path: "angular/app/app.module.ts", Lang: "typescript"},
		{Title: "App Routing", Subtitle: "app-routing.module", Path: "angular/app/app-routing.module.ts", Lang: "typescript"},
		{
			Title:    "App UI",
			Subtitle: "app.component",
			Path:     "angular",
			Files: []SourceFile{
				{Name: "index", Path: "angular/index.pug", Lang: "pug"},
				{Name: "app-root", Path: "angular/app/app.component.pug", Lang: "pug"},
				{Name: "component", Path: "angular/app/app.component.ts", Lang: "typescript"},
				{Name: "scss", Path: "angular/app/app.component.scss", Lang: "scss"},
			},
		},
		{Title: "Build Options", Subtitle: "app.component", Path: "angular/angular.build.options.json", Lang: "json"},
		{Title: "Wiz Class", Subtitle: "wiz.ts", Path: "angular/wiz.ts", Lang: "typescript"},
	}
}

// SourceCatalog opens editors over a fixed list of source files.
type SourceCatalog struct {
	catalog
	items []SourceItem
}

// NewSourceCatalog creates a source catalog over items. Nil items use
// DefaultSourceItems.
func NewSourceCatalog(deps Deps, componentID string, items []SourceItem) *SourceCatalog {
	if items == nil {
		items = DefaultSourceItems()
	}
	return &SourceCatalog{
		catalog: newCatalog(deps, "", firstNonEmpty(componentID, "source.list")),
		items:   items,
	}
}

// Items returns the source items.
func (c *SourceCatalog) Items() []SourceItem {
	out := make([]SourceItem, len(c.items))
	copy(out, c.items)
	return out
}

// Item returns the item at path.
func (c *SourceCatalog) Item(path string) (SourceItem, error) {
	for _, it := range c.items {
		if it.Path == path {
			return it, nil
		}
	}
	return SourceItem{}, fmt.Errorf("source %s: %w", path, session.ErrNotFound)
}

// Active reports whether the activated editor shows item.
func (c *SourceCatalog) Active(item SourceItem) bool {
	return c.deps.Manager.IsActive(c.componentID, func(e *session.Editor) bool {
		return e.Path() == item.Path
	})
}

// Open opens an editor over item and activates it. Single-file items are
// unique: opening one twice activates the editor already open.
func (c *SourceCatalog) Open(ctx context.Context, item SourceItem) (*session.Editor, error) {
	editor := c.deps.Manager.Create(session.EditorSpec{
		ComponentID: c.componentID,
		Path:        item.Path,
		Title:       item.Title,
		Subtitle:    item.Subtitle,
		Unique:      len(item.Files) == 0,
	})

	if len(item.Files) == 0 {
		c.createTab(editor, SourceFile{Path: item.Path, Lang: item.Lang})
	}
	for _, f := range item.Files {
		c.createTab(editor, f)
	}

	return c.show(editor, -1)
}

func (c *SourceCatalog) createTab(editor *session.Editor, f SourceFile) {
	editor.Create(session.TabSpec{
		Name:    f.Name,
		ViewRef: session.ViewMonaco,
		Path:    f.Path,
		Config:  monacoConfig(f.Lang),
	}).
		OnData(func(ctx context.Context, tab *session.Tab) (session.Payload, error) {
			text, ok, err := c.fetchText(ctx, tab.Path())
			if err != nil || !ok {
				return nil, err
			}
			return session.Payload{"data": text}, nil
		}).
		OnUpdate(func(ctx context.Context, tab *session.Tab, p session.Payload) error {
			data := payloadOr(ctx, tab, p)
			ok, err := c.save(ctx, tab.Path(), []byte(data.String("data")))
			if err != nil || !ok {
				return err
			}
			return c.build(ctx, tab.Path(), false)
		})
}
