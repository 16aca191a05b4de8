package render_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/artpar/wizide/adapters/render"
	"github.com/artpar/wizide/core/session"
)

func newRenderer() *render.Renderer {
	return render.New(&bytes.Buffer{})
}

func TestTabStrip(t *testing.T) {
	r := newRenderer()
	editors := []session.EditorSnapshot{
		{Title: "Main Page", Path: "app/page.main"},
		{Path: "route/api.users", Activated: true},
		{},
	}

	out := r.TabStrip(editors, 0)
	for _, want := range []string{"Main Page", "route/api.users", "untitled"} {
		if !strings.Contains(out, want) {
			t.Errorf("strip %q missing %q", out, want)
		}
	}

	if narrow := r.TabStrip(editors, 10); strings.Contains(narrow, "untitled") {
		t.Errorf("narrow strip not truncated: %q", narrow)
	}
}

func TestEditor(t *testing.T) {
	r := newRenderer()
	out := r.Editor(session.EditorSnapshot{
		Title:    "Main",
		Subtitle: "page.main",
		Path:     "app/page.main",
		Current:  1,
		Tabs: []session.TabSnapshot{
			{Index: 0, Name: "info", Path: "app/page.main/app.json"},
			{Index: 1, Name: "Pug", Path: "app/page.main/view.pug"},
		},
	})

	for _, want := range []string{"Main", "page.main", "> 1", "view.pug", "  0"} {
		if !strings.Contains(out, want) {
			t.Errorf("editor view missing %q:\n%s", want, out)
		}
	}
}

func TestTab_BuiltinViews(t *testing.T) {
	r := newRenderer()

	info, err := r.Tab(session.TabSnapshot{ViewRef: session.ViewInfo}, session.Payload{
		"id":    "page.main",
		"title": "Main",
	})
	if err != nil {
		t.Fatalf("info view: %v", err)
	}
	if !strings.Contains(info, "page.main") || strings.Index(info, "id") > strings.Index(info, "title") {
		t.Errorf("info view = %q", info)
	}

	code, err := r.Tab(session.TabSnapshot{
		ViewRef: session.ViewMonaco,
		Config:  session.Config{"monaco": map[string]any{"language": "python"}},
	}, session.Payload{"data": "import os\nprint(os.getcwd())\n"})
	if err != nil {
		t.Fatalf("code view: %v", err)
	}
	for _, want := range []string{"[python]", "1", "import os", "2", "print(os.getcwd())"} {
		if !strings.Contains(code, want) {
			t.Errorf("code view missing %q:\n%s", want, code)
		}
	}
}

func TestTab_UnknownView(t *testing.T) {
	r := newRenderer()
	_, err := r.Tab(session.TabSnapshot{ViewRef: "canvas"}, nil)
	if !errors.Is(err, render.ErrUnknownView) {
		t.Errorf("err = %v, want ErrUnknownView", err)
	}
}

func TestRegister(t *testing.T) {
	r := newRenderer()
	r.Register("canvas", func(_ *render.Renderer, tab session.TabSnapshot, _ session.Payload) string {
		return "canvas:" + tab.Path
	})

	out, err := r.Tab(session.TabSnapshot{ViewRef: "canvas", Path: "app/a/view.pug"}, nil)
	if err != nil || out != "canvas:app/a/view.pug" {
		t.Errorf("Tab = %q, %v", out, err)
	}

	views := r.Views()
	if len(views) != 3 || views[0] != "canvas" {
		t.Errorf("Views = %v", views)
	}
}
