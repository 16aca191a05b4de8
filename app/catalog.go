// Package app contains the catalog services that list store entities and
// open editors over them. Each catalog owns the bindings of the editors it
// opens: loading and saving content, renaming, cascading deletes and
// triggering builds.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/artpar/wizide/core/session"
	"github.com/artpar/wizide/domain/vpath"
	"github.com/artpar/wizide/ports"
)

// Notification messages shown by catalog bindings.
const (
	MsgUpdated       = "Updated"
	MsgBuildFinished = "Build Finish"
	MsgBuildFailed   = "Error on build"
	MsgSaveFailed    = "Update failed"
	MsgInvalidRename = "invalid namespace"
	MsgExists        = "namespace already exists"
)

// InfoFile is the resource holding an entity's metadata.
const InfoFile = "app.json"

// MinIdentifierLength is the shortest accepted namespace or id.
const MinIdentifierLength = 3

var identifierPattern = regexp.MustCompile(`^[a-z0-9.]+$`)

// ErrRenameRejected is returned when the store refuses an entity rename.
var ErrRenameRejected = errors.New("rename rejected")

// ValidationError describes an identifier that failed validation.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateIdentifier checks an entity namespace or id. field names the
// value in the returned message.
func ValidateIdentifier(field, value string) error {
	if !identifierPattern.MatchString(value) {
		return &ValidationError{Field: field, Value: value, Message: "invalid " + field}
	}
	if len(value) < MinIdentifierLength {
		return &ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("%s must be at least %d characters", field, MinIdentifierLength),
		}
	}
	return nil
}

// Deps contains dependencies shared by the catalogs.
type Deps struct {
	Manager   *session.Manager
	Store     ports.Store
	Builder   ports.Builder   // optional
	Notifier  ports.Notifier
	Previewer ports.Previewer // optional
	Logger    zerolog.Logger
}

// Entry is one listed entity, decoded from its info file.
type Entry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Namespace string `json:"namespace,omitempty"`
	Mode      string `json:"mode,omitempty"`
	Route     string `json:"route,omitempty"`
	Category  string `json:"category"`
	ViewURI   string `json:"viewuri,omitempty"`
}

// Subtitle returns the secondary label: the route when set, else the id.
func (e Entry) Subtitle() string {
	if e.Route != "" {
		return e.Route
	}
	return e.ID
}

// Match reports whether keyword occurs in the title or subtitle, ignoring
// case. An empty keyword matches everything.
func (e Entry) Match(keyword string) bool {
	k := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(e.Title), k) ||
		strings.Contains(strings.ToLower(e.Subtitle()), k)
}

// UncategorizedLabel groups entries without a category.
const UncategorizedLabel = "undefined"

// Group is a category of entries, in listing order.
type Group struct {
	Category string  `json:"category"`
	Entries  []Entry `json:"entries"`
}

// GroupEntries groups entries by category. Groups appear in the order
// their first entry does.
func GroupEntries(entries []Entry) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, e := range entries {
		category := e.Category
		if category == "" {
			category = UncategorizedLabel
		}
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, Group{Category: category})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}

// catalog is the state shared by entity catalogs: the store domain it
// lists and the last loaded entries.
type catalog struct {
	deps        Deps
	domain      string
	componentID string
	logger      zerolog.Logger

	mu      sync.RWMutex
	entries []Entry
}

func newCatalog(deps Deps, domain, componentID string) catalog {
	return catalog{
		deps:        deps,
		domain:      domain,
		componentID: componentID,
		logger:      deps.Logger.With().Str("catalog", componentID).Logger(),
	}
}

// ComponentID returns the id stamped on editors this catalog opens.
func (c *catalog) ComponentID() string {
	return c.componentID
}

// Groups returns the last loaded entries grouped by category.
func (c *catalog) Groups() []Group {
	return GroupEntries(c.Entries())
}

// Entries returns the last loaded entries.
func (c *catalog) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Search returns the loaded entries matching keyword.
func (c *catalog) Search(keyword string) []Entry {
	var out []Entry
	for _, e := range c.Entries() {
		if e.Match(keyword) {
			out = append(out, e)
		}
	}
	return out
}

// load lists the domain and decodes each entity's info file. keep filters
// entity ids.
func (c *catalog) load(ctx context.Context, keep func(id string) bool) ([]Entry, error) {
	ids, err := c.deps.Store.List(ctx, c.domain)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.domain, err)
	}

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		if keep != nil && !keep(id) {
			continue
		}
		entry, ok, err := c.fetchEntry(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			entries = append(entries, entry)
		}
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	c.logger.Debug().Int("count", len(entries)).Msg("catalog loaded")
	return entries, nil
}

// fetchEntry reads one info file. A missing or malformed file yields ok=false.
func (c *catalog) fetchEntry(ctx context.Context, id string) (Entry, bool, error) {
	path := vpath.Resource(c.domain, id, InfoFile)
	resp, err := c.deps.Store.Fetch(ctx, path)
	if err != nil {
		return Entry{}, false, fmt.Errorf("fetch %s: %w", path, err)
	}
	if !resp.OK() {
		return Entry{}, false, nil
	}
	var entry Entry
	if err := json.Unmarshal(resp.Payload, &entry); err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("skipping malformed info file")
		return Entry{}, false, nil
	}
	if entry.ID == "" {
		entry.ID = id
	}
	return entry, true, nil
}

// fetchPayload reads path as a JSON object. Non-success statuses and
// undecodable content yield nil.
func (c *catalog) fetchPayload(ctx context.Context, path string) (session.Payload, error) {
	resp, err := c.deps.Store.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, nil
	}
	p, err := session.DecodePayload(resp.Payload)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("info file is not a JSON object")
		return nil, nil
	}
	return p, nil
}

// fetchText reads path as text for a code tab. A non-success status
// yields nil.
func (c *catalog) fetchText(ctx context.Context, path string) (string, bool, error) {
	resp, err := c.deps.Store.Fetch(ctx, path)
	if err != nil {
		return "", false, err
	}
	if !resp.OK() {
		return "", false, nil
	}
	return string(resp.Payload), true, nil
}

// rejectInvalid notifies a validation failure. It reports whether err was
// one, leaving any other error to the caller.
func (c *catalog) rejectInvalid(ctx context.Context, err error) bool {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	c.deps.Notifier.Error(ctx, verr.Message)
	return true
}

// rename asks the store to move one entity to a new id. Both ids must be
// valid identifiers; anything else would address the whole domain.
func (c *catalog) rename(ctx context.Context, from, to string) error {
	for _, id := range []string{from, to} {
		if err := ValidateIdentifier("id", id); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrRenameRejected, id, err)
		}
	}
	resp, err := c.deps.Store.Rename(ctx, vpath.Join(c.domain, from), vpath.Join(c.domain, to))
	if err != nil {
		return fmt.Errorf("rename %s to %s: %w", from, to, err)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: %s to %s (status %d)", ErrRenameRejected, from, to, resp.Status)
	}
	return nil
}

// exists reports whether an entity id is taken.
func (c *catalog) exists(ctx context.Context, id string) (bool, error) {
	ok, err := c.deps.Store.Exists(ctx, vpath.Join(c.domain, id))
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", id, err)
	}
	return ok, nil
}

// save writes content and notifies the outcome. It reports whether the
// store accepted the write.
func (c *catalog) save(ctx context.Context, path string, content []byte) (bool, error) {
	resp, err := c.deps.Store.Save(ctx, path, content)
	if err != nil {
		return false, fmt.Errorf("save %s: %w", path, err)
	}
	if !resp.OK() {
		c.logger.Warn().Str("path", path).Int("status", resp.Status).Msg("save rejected")
		c.deps.Notifier.Error(ctx, MsgSaveFailed)
		return false, nil
	}
	c.deps.Notifier.Success(ctx, MsgUpdated)
	return true, nil
}

// build triggers a rebuild and notifies the outcome.
func (c *catalog) build(ctx context.Context, path string, entire bool) error {
	if c.deps.Builder == nil {
		return nil
	}
	resp, err := c.deps.Builder.Build(ctx, path, entire)
	if err != nil {
		c.deps.Notifier.Error(ctx, MsgBuildFailed)
		return fmt.Errorf("build %s: %w", path, err)
	}
	if resp.OK() {
		c.deps.Notifier.Info(ctx, MsgBuildFinished)
	} else {
		c.logger.Warn().Str("path", path).Int("status", resp.Status).Msg("build failed")
		c.deps.Notifier.Error(ctx, MsgBuildFailed)
	}
	return nil
}

// preview moves the live preview when a view URI is known.
func (c *catalog) preview(ctx context.Context, viewURI string) error {
	if viewURI == "" || c.deps.Previewer == nil {
		return nil
	}
	return c.deps.Previewer.Move(ctx, viewURI)
}

// show opens and activates editor, returning the registered one.
func (c *catalog) show(editor *session.Editor, location int) (*session.Editor, error) {
	opened, err := editor.Open(location)
	if err != nil {
		return nil, err
	}
	if err := opened.Activate(); err != nil {
		return nil, err
	}
	return opened, nil
}

// closeRelated removes every editor found under e from the registry. The
// store removal of e's path covers their content, so only e itself is
// closed; the others are dismissed without running their delete bindings.
func (c *catalog) closeRelated(ctx context.Context, e *session.Editor) error {
	var errs []error
	for related := range c.deps.Manager.Find(e) {
		if related != e {
			related.Dismiss()
			continue
		}
		if err := related.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// entityID returns the id segment of the editor's own path.
func entityID(e *session.Editor) string {
	return vpath.Segment(e.Path(), vpath.SegmentEntity)
}

// editorInfo loads the editor's info tab into its meta under "info".
func editorInfo(ctx context.Context, e *session.Editor) session.Payload {
	info := e.Tab(0).Data(ctx)
	e.SetMeta("info", info)
	return info
}

// marshalInfo encodes an info payload the way info files are stored.
func marshalInfo(p session.Payload) ([]byte, error) {
	return json.MarshalIndent(p, "", "    ")
}

// payloadOr returns p, or the tab's current data when p is nil.
func payloadOr(ctx context.Context, tab *session.Tab, p session.Payload) session.Payload {
	if p != nil {
		return p
	}
	return tab.Data(ctx)
}

// monacoConfig builds the code tab configuration for lang.
func monacoConfig(lang string) session.Config {
	monaco := map[string]any{"language": lang}
	if lang == "typescript" {
		monaco["renderValidationDecorations"] = "off"
	}
	return session.Config{"monaco": monaco}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
