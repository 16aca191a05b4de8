// Package render is the terminal rendering collaborator. It draws editor
// tab strips and tab bodies from session snapshots, dispatching on each
// tab's view reference.
package render

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/artpar/wizide/core/session"
)

// ErrUnknownView is returned for a tab whose view reference has no
// registered view.
var ErrUnknownView = errors.New("unknown view")

// View draws one tab body.
type View func(r *Renderer, tab session.TabSnapshot, data session.Payload) string

// Renderer draws snapshots for one output.
type Renderer struct {
	lg *lipgloss.Renderer

	tab       lipgloss.Style
	activeTab lipgloss.Style
	title     lipgloss.Style
	subtitle  lipgloss.Style
	key       lipgloss.Style
	gutter    lipgloss.Style
	muted     lipgloss.Style

	mu    sync.RWMutex
	views map[session.ViewRef]View
}

// New creates a renderer whose color profile is detected from w.
func New(w io.Writer) *Renderer {
	lg := lipgloss.NewRenderer(w)
	r := &Renderer{
		lg:        lg,
		tab:       lg.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245")),
		activeTab: lg.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("25")),
		title:     lg.NewStyle().Bold(true),
		subtitle:  lg.NewStyle().Foreground(lipgloss.Color("245")),
		key:       lg.NewStyle().Foreground(lipgloss.Color("33")),
		gutter:    lg.NewStyle().Foreground(lipgloss.Color("240")),
		muted:     lg.NewStyle().Faint(true),
		views:     make(map[session.ViewRef]View),
	}
	r.Register(session.ViewInfo, infoView)
	r.Register(session.ViewMonaco, codeView)
	return r
}

// Register binds a view to ref, replacing any previous one.
func (r *Renderer) Register(ref session.ViewRef, v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[ref] = v
}

// Views returns the registered view references in order.
func (r *Renderer) Views() []session.ViewRef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]session.ViewRef, 0, len(r.views))
	for ref := range r.views {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TabStrip draws one label per editor, highlighting the activated one.
// A positive width truncates the strip.
func (r *Renderer) TabStrip(editors []session.EditorSnapshot, width int) string {
	labels := make([]string, 0, len(editors))
	for _, e := range editors {
		style := r.tab
		if e.Activated {
			style = r.activeTab
		}
		labels = append(labels, style.Render(editorLabel(e)))
	}
	strip := lipgloss.JoinHorizontal(lipgloss.Top, labels...)
	if width > 0 {
		strip = r.lg.NewStyle().MaxWidth(width).Render(strip)
	}
	return strip
}

// Editor draws an editor header and its tab list. The current slot is
// marked with '>'.
func (r *Renderer) Editor(e session.EditorSnapshot) string {
	var b strings.Builder
	b.WriteString(r.title.Render(editorLabel(e)))
	if e.Subtitle != "" {
		b.WriteString(" " + r.subtitle.Render(e.Subtitle))
	}
	b.WriteString("\n")
	if e.Path != "" {
		b.WriteString(r.muted.Render(e.Path) + "\n")
	}
	for _, t := range e.Tabs {
		marker := " "
		if t.Index == e.Current {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %d %s %s\n", marker, t.Index, r.key.Render(t.Name), r.muted.Render(t.Path))
	}
	return b.String()
}

// Tab draws a tab body with the view registered for its reference.
func (r *Renderer) Tab(tab session.TabSnapshot, data session.Payload) (string, error) {
	r.mu.RLock()
	v, ok := r.views[tab.ViewRef]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%s: %w", tab.ViewRef, ErrUnknownView)
	}
	return v(r, tab, data), nil
}

func editorLabel(e session.EditorSnapshot) string {
	if e.Title != "" {
		return e.Title
	}
	if e.Path != "" {
		return e.Path
	}
	return "untitled"
}

// infoView draws payload keys as an aligned key/value list.
func infoView(r *Renderer, _ session.TabSnapshot, data session.Payload) string {
	keys := make([]string, 0, len(data))
	width := 0
	for k := range data {
		keys = append(keys, k)
		width = max(width, len(k))
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		label := r.key.Render(fmt.Sprintf("%-*s", width, k))
		fmt.Fprintf(&b, "%s  %v\n", label, data[k])
	}
	return b.String()
}

// codeView draws payload["data"] with line numbers. The language comes
// from the tab config, {"monaco": {"language": ...}}.
func codeView(r *Renderer, tab session.TabSnapshot, data session.Payload) string {
	var b strings.Builder
	if lang := language(tab.Config); lang != "" {
		b.WriteString(r.muted.Render("["+lang+"]") + "\n")
	}
	text := data.String("data")
	if text == "" {
		return b.String()
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	digits := len(fmt.Sprint(len(lines)))
	for i, line := range lines {
		fmt.Fprintf(&b, "%s %s\n", r.gutter.Render(fmt.Sprintf("%*d", digits, i+1)), line)
	}
	return b.String()
}

func language(cfg session.Config) string {
	m, ok := cfg["monaco"].(map[string]any)
	if !ok {
		return ""
	}
	lang, _ := m["language"].(string)
	return lang
}
