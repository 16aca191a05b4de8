// Package http provides the JSON API over the editor session: the editor
// registry, tab data and the entity catalogs.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/artpar/wizide/adapters/metrics"
	"github.com/artpar/wizide/adapters/render"
	"github.com/artpar/wizide/app"
	"github.com/artpar/wizide/core/session"
	_ "github.com/artpar/wizide/docs/swagger" // swagger docs
	"github.com/artpar/wizide/domain/revision"
	"github.com/artpar/wizide/ports"
)

const maxBodySize = 10 << 20

// ErrorResponseBody represents an error response body for swagger docs.
type ErrorResponseBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details for swagger docs.
type ErrorDetail struct {
	Code    string `json:"code" example:"not_found"`
	Message string `json:"message" example:"editor not found"`
}

// VersionResponse represents the version endpoint response.
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
	Service string `json:"service" example:"wizide"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Editors int    `json:"editors" example:"3"`
}

// TabResponse is a tab together with the output of its data binding.
type TabResponse struct {
	Tab  session.TabSnapshot `json:"tab"`
	Data session.Payload     `json:"data"`
}

// EntryView is a catalog entry as listed by the API.
type EntryView struct {
	app.Entry
	Active bool `json:"active"`
}

// GroupView is a category of catalog entries.
type GroupView struct {
	Category string      `json:"category"`
	Entries  []EntryView `json:"entries"`
}

// SourceView is a source item as listed by the API.
type SourceView struct {
	app.SourceItem
	Active bool `json:"active"`
}

// OpenRequest is the optional body of open and clone calls.
type OpenRequest struct {
	// Location is the registry index to insert at; negative appends.
	Location *int   `json:"location,omitempty" example:"-1"`
	Path     string `json:"path,omitempty" example:"angular/wiz.ts"`
}

// Catalogs are the entity catalogs served under /api.
type Catalogs struct {
	// Apps holds one catalog per app mode.
	Apps    map[string]*app.AppCatalog
	Routes  *app.RouteCatalog
	Sources *app.SourceCatalog
}

// RouterConfig holds the collaborators served by the router.
type RouterConfig struct {
	Manager  *session.Manager
	Catalogs Catalogs
	Hub      *Hub
	Renderer *render.Renderer
	Logger   zerolog.Logger
	Version  string

	Metrics        *metrics.Collector
	MetricsPath    string
	MetricsHandler http.Handler // defaults to promhttp.Handler()
	EnableOpenAPI  bool

	// APIKeyHash enables bearer auth on /api when set.
	APIKeyHash string
	Hasher     ports.Hasher

	// Timeout bounds non-streaming API requests. Defaults to 60s.
	Timeout time.Duration
}

// Handler serves the API.
type Handler struct {
	manager  *session.Manager
	catalogs Catalogs
	renderer *render.Renderer
	logger   zerolog.Logger
	version  string
}

// NewRouter creates the main HTTP router.
func NewRouter(cfg RouterConfig) chi.Router {
	h := &Handler{
		manager:  cfg.Manager,
		catalogs: cfg.Catalogs,
		renderer: cfg.Renderer,
		logger:   cfg.Logger,
		version:  cfg.Version,
	}
	if h.version == "" {
		h.version = "dev"
	}
	if h.renderer == nil {
		h.renderer = render.New(io.Discard)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	metricsPath := cfg.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggingMiddleware(cfg.Logger, metricsPath))
	r.Use(middleware.Recoverer)

	if cfg.Metrics != nil {
		r.Use(NewMetricsMiddleware(cfg.Metrics, metricsPath))
	}

	r.Get("/health", h.Health)
	r.Get("/version", h.Version)

	if cfg.MetricsHandler != nil {
		r.Handle(metricsPath, cfg.MetricsHandler)
	} else if cfg.Metrics != nil {
		r.Handle(metricsPath, promhttp.Handler())
	}

	if cfg.EnableOpenAPI {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(NewAuthMiddleware(cfg.APIKeyHash, cfg.Hasher))

		// streaming, outside the request timeout
		if cfg.Hub != nil {
			r.Get("/events", cfg.Hub.ServeHTTP)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(timeout))

			r.Route("/editors", func(r chi.Router) {
				r.Get("/", h.ListEditors)
				r.Get("/activated", h.ActivatedEditor)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetEditor)
					r.Delete("/", h.CloseEditor)
					r.Post("/activate", h.ActivateEditor)
					r.Post("/dismiss", h.DismissEditor)
					r.Post("/clone", h.CloneEditor)
					r.Get("/tabs/{index}", h.GetTab)
					r.Put("/tabs/{index}", h.UpdateTab)
					r.Get("/tabs/{index}/view", h.ViewTab)
				})
			})

			r.Route("/apps/{mode}", func(r chi.Router) {
				r.Get("/", h.ListApps)
				r.Post("/", h.CreateApp)
				r.Post("/{id}/open", h.OpenApp)
			})

			r.Route("/routes", func(r chi.Router) {
				r.Get("/", h.ListRoutes)
				r.Post("/", h.CreateRoute)
				r.Post("/{id}/open", h.OpenRoute)
			})

			r.Get("/sources", h.ListSources)
			r.Post("/sources/open", h.OpenSource)
		})
	})

	return r
}

// Health returns a liveness check.
//
//	@Summary		Liveness check
//	@Description	Returns OK and the number of open editors
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Editors: h.manager.Len()})
}

// Version returns the service version.
//
//	@Summary		Get service version
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	VersionResponse
//	@Router			/version [get]
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: h.version, Service: "wizide"})
}

// ListEditors returns every open editor in registry order.
//
//	@Summary		List open editors
//	@Tags			Editors
//	@Produce		json
//	@Success		200	{array}		session.EditorSnapshot
//	@Failure		401	{object}	ErrorResponseBody
//	@Security		BearerAuth
//	@Router			/api/editors [get]
func (h *Handler) ListEditors(w http.ResponseWriter, r *http.Request) {
	editors := h.manager.Editors()
	out := make([]session.EditorSnapshot, 0, len(editors))
	for _, e := range editors {
		out = append(out, e.Snapshot())
	}
	writeJSON(w, http.StatusOK, out)
}

// ActivatedEditor returns the activated editor.
//
//	@Summary		Get the activated editor
//	@Tags			Editors
//	@Produce		json
//	@Success		200	{object}	session.EditorSnapshot
//	@Failure		404	{object}	ErrorResponseBody	"No editor is activated"
//	@Security		BearerAuth
//	@Router			/api/editors/activated [get]
func (h *Handler) ActivatedEditor(w http.ResponseWriter, r *http.Request) {
	e := h.manager.Activated()
	if e == nil {
		writeError(w, http.StatusNotFound, "not_found", "no editor is activated")
		return
	}
	writeJSON(w, http.StatusOK, e.Snapshot())
}

// GetEditor returns one editor.
//
//	@Summary		Get an editor
//	@Tags			Editors
//	@Produce		json
//	@Param			id	path		string	true	"Editor ID"
//	@Success		200	{object}	session.EditorSnapshot
//	@Failure		404	{object}	ErrorResponseBody
//	@Security		BearerAuth
//	@Router			/api/editors/{id} [get]
func (h *Handler) GetEditor(w http.ResponseWriter, r *http.Request) {
	e, ok := h.editor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, e.Snapshot())
}

// ActivateEditor makes an editor the activated one.
//
//	@Summary		Activate an editor
//	@Tags			Editors
//	@Produce		json
//	@Param			id	path		string	true	"Editor ID"
//	@Success		200	{object}	session.EditorSnapshot
//	@Failure		404	{object}	ErrorResponseBody
//	@Failure		409	{object}	ErrorResponseBody	"Editor is not open"
//	@Security		BearerAuth
//	@Router			/api/editors/{id}/activate [post]
func (h *Handler) ActivateEditor(w http.ResponseWriter, r *http.Request) {
	e, ok := h.editor(w, r)
	if !ok {
		return
	}
	if err := e.Activate(); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e.Snapshot())
}

// CloseEditor runs the editor's delete binding and removes it.
//
//	@Summary		Close an editor
//	@Description	Runs the delete binding (which may delete the entity) and removes the editor
//	@Tags			Editors
//	@Param			id	path	string	true	"Editor ID"
//	@Success		204
//	@Failure		404	{object}	ErrorResponseBody
//	@Failure		500	{object}	ErrorResponseBody	"Delete binding failed; the editor is removed regardless"
//	@Security		BearerAuth
//	@Router			/api/editors/{id} [delete]
func (h *Handler) CloseEditor(w http.ResponseWriter, r *http.Request) {
	e, ok := h.editor(w, r)
	if !ok {
		return
	}
	if err := e.Close(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DismissEditor removes an editor without running its delete binding.
//
//	@Summary		Dismiss an editor
//	@Tags			Editors
//	@Param			id	path	string	true	"Editor ID"
//	@Success		204
//	@Failure		404	{object}	ErrorResponseBody
//	@Security		BearerAuth
//	@Router			/api/editors/{id}/dismiss [post]
func (h *Handler) DismissEditor(w http.ResponseWriter, r *http.Request) {
	e, ok := h.editor(w, r)
	if !ok {
		return
	}
	if !e.Dismiss() {
		writeError(w, http.StatusConflict, "conflict", "editor is not open")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CloneEditor runs the editor's clone binding.
//
//	@Summary		Clone an editor
//	@Tags			Editors
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Editor ID"
//	@Param			body	body		OpenRequest	false	"Insert location"
//	@Success		200		{array}		session.EditorSnapshot
//	@Failure		404		{object}	ErrorResponseBody
//	@Security		BearerAuth
//	@Router			/api/editors/{id}/clone [post]
func (h *Handler) CloneEditor(w http.ResponseWriter, r *http.Request) {
	e, ok := h.editor(w, r)
	if !ok {
		return
	}
	req, ok := decodeOpen(w, r)
	if !ok {
		return
	}
	if err := e.Clone(r.Context(), req.location()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ListEditors(w, r)
}

// GetTab returns a tab and the output of its data binding.
//
//	@Summary		Get tab data
//	@Tags			Editors
//	@Produce		json
//	@Param			id		path		string	true	"Editor ID"
//	@Param			index	path		int		true	"Tab index"
//	@Success		200		{object}	TabResponse
//	@Header			200		{string}	ETag	"Digest of the tab data"
//	@Failure		404		{object}	ErrorResponseBody
//	@Security		BearerAuth
//	@Router			/api/editors/{id}/tabs/{index} [get]
func (h *Handler) GetTab(w http.ResponseWriter, r *http.Request) {
	tab, index, ok := h.tab(w, r)
	if !ok {
		return
	}
	writeTab(w, tab, index, tab.Data(r.Context()))
}

// UpdateTab invokes a tab's update binding with the request body.
//
//	@Summary		Update tab data
//	@Description	Invokes the update binding once. Validation failures are reported as notifications, not errors.
//	@Tags			Editors
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Editor ID"
//	@Param			index	path		int				true	"Tab index"
//	@Param			body	body		object			true	"Payload"
//	@Param			If-Match	header	string			false	"ETag from a previous read"
//	@Success		200		{object}	TabResponse
//	@Failure		400		{object}	ErrorResponseBody
//	@Failure		404		{object}	ErrorResponseBody
//	@Failure		412		{object}	ErrorResponseBody	"Tab data changed since the ETag was issued"
//	@Security		BearerAuth
//	@Router			/api/editors/{id}/tabs/{index} [put]
func (h *Handler) UpdateTab(w http.ResponseWriter, r *http.Request) {
	tab, index, ok := h.tab(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "failed to read request body")
		return
	}
	payload, err := session.DecodePayload(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "body must be a JSON object")
		return
	}
	if tags := r.Header.Get("If-Match"); tags != "" {
		if !matchETag(tags, tab.Data(r.Context())) {
			writeError(w, http.StatusPreconditionFailed, "precondition_failed", "tab data changed since it was read")
			return
		}
	}
	if err := tab.Update(r.Context(), payload); err != nil {
		h.fail(w, r, err)
		return
	}
	writeTab(w, tab, index, tab.Data(r.Context()))
}

// ViewTab renders a tab body as text.
//
//	@Summary		Render a tab
//	@Tags			Editors
//	@Produce		plain
//	@Param			id		path		string	true	"Editor ID"
//	@Param			index	path		int		true	"Tab index"
//	@Success		200		{string}	string
//	@Failure		404		{object}	ErrorResponseBody
//	@Failure		422		{object}	ErrorResponseBody	"No view for the tab's view reference"
//	@Security		BearerAuth
//	@Router			/api/editors/{id}/tabs/{index}/view [get]
func (h *Handler) ViewTab(w http.ResponseWriter, r *http.Request) {
	tab, index, ok := h.tab(w, r)
	if !ok {
		return
	}
	out, err := h.renderer.Tab(tab.Snapshot(index), tab.Data(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, out)
}

// ListApps lists the apps of one mode.
//
//	@Summary		List apps
//	@Tags			Apps
//	@Produce		json
//	@Param			mode	path		string	true	"App mode"	example(page)
//	@Param			q		query		string	false	"Keyword filter on title and subtitle"
//	@Success		200		{array}		GroupView
//	@Failure		404		{object}	ErrorResponseBody	"Unknown mode"
//	@Security		BearerAuth
//	@Router			/api/apps/{mode} [get]
func (h *Handler) ListApps(w http.ResponseWriter, r *http.Request) {
	c, ok := h.apps(w, r)
	if !ok {
		return
	}
	groups, err := c.Load(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if q := r.URL.Query().Get("q"); q != "" {
		groups = app.GroupEntries(c.Search(q))
	}
	writeJSON(w, http.StatusOK, groupViews(groups, c.Active))
}

// CreateApp opens a "New" editor. Updating its info tab creates the app.
//
//	@Summary		Start creating an app
//	@Tags			Apps
//	@Produce		json
//	@Param			mode	path		string	true	"App mode"
//	@Success		201		{object}	session.EditorSnapshot
//	@Failure		404		{object}	ErrorResponseBody
//	@Security		BearerAuth
//	@Router			/api/apps/{mode} [post]
func (h *Handler) CreateApp(w http.ResponseWriter, r *http.Request) {
	c, ok := h.apps(w, r)
	if !ok {
		return
	}
	e, err := c.Create(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e.Snapshot())
}

// OpenApp opens an editor over an app and activates it.
//
//	@Summary		Open an app
//	@Tags			Apps
//	@Accept			json
//	@Produce		json
//	@Param			mode	path		string		true	"App mode"
//	@Param			id		path		string		true	"App ID"
//	@Param			body	body		OpenRequest	false	"Insert location"
//	@Success		200		{object}	session.EditorSnapshot
//	@Failure		404		{object}	ErrorResponseBody
//	@Security		BearerAuth
//	@Router			/api/apps/{mode}/{id}/open [post]
func (h *Handler) OpenApp(w http.ResponseWriter, r *http.Request) {
	c, ok := h.apps(w, r)
	if !ok {
		return
	}
	req, ok := decodeOpen(w, r)
	if !ok {
		return
	}
	entry, err := c.Entry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	e, err := c.Open(r.Context(), entry, req.location())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e.Snapshot())
}

// ListRoutes lists routes.
//
//	@Summary		List routes
//	@Tags			Routes
//	@Produce		json
//	@Param			q	query		string	false	"Keyword filter on title and subtitle"
//	@Success		200	{array}		GroupView
//	@Security		BearerAuth
//	@Router			/api/routes [get]
func (h *Handler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	c, ok := h.routes(w)
	if !ok {
		return
	}
	groups, err := c.Load(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if q := r.URL.Query().Get("q"); q != "" {
		groups = app.GroupEntries(c.Search(q))
	}
	writeJSON(w, http.StatusOK, groupViews(groups, c.Active))
}

// CreateRoute opens a "New" editor. Updating its info tab creates the route.
//
//	@Summary		Start creating a route
//	@Tags			Routes
//	@Produce		json
//	@Success		201	{object}	session.EditorSnapshot
//	@Security		BearerAuth
//	@Router			/api/routes [post]
func (h *Handler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	c, ok := h.routes(w)
	if !ok {
		return
	}
	e, err := c.Create(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e.Snapshot())
}

// OpenRoute opens an editor over a route and activates it.
//
//	@Summary		Open a route
//	@Tags			Routes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Route ID"
//	@Param			body	body		OpenRequest	false	"Insert location"
//	@Success		200		{object}	session.EditorSnapshot
//	@Failure		404		{object}	ErrorResponseBody
//	@Security		BearerAuth
//	@Router			/api/routes/{id}/open [post]
func (h *Handler) OpenRoute(w http.ResponseWriter, r *http.Request) {
	c, ok := h.routes(w)
	if !ok {
		return
	}
	req, ok := decodeOpen(w, r)
	if !ok {
		return
	}
	entry, err := c.Entry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	e, err := c.Open(r.Context(), entry, req.location())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e.Snapshot())
}

// ListSources lists the framework source items.
//
//	@Summary		List source items
//	@Tags			Sources
//	@Produce		json
//	@Success		200	{array}	SourceView
//	@Security		BearerAuth
//	@Router			/api/sources [get]
func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sources(w)
	if !ok {
		return
	}
	items := c.Items()
	out := make([]SourceView, 0, len(items))
	for _, it := range items {
		out = append(out, SourceView{SourceItem: it, Active: c.Active(it)})
	}
	writeJSON(w, http.StatusOK, out)
}

// OpenSource opens an editor over a source item and activates it.
//
//	@Summary		Open a source item
//	@Tags			Sources
//	@Accept			json
//	@Produce		json
//	@Param			body	body		OpenRequest	true	"Item path"
//	@Success		200		{object}	session.EditorSnapshot
//	@Failure		400		{object}	ErrorResponseBody
//	@Failure		404		{object}	ErrorResponseBody
//	@Security		BearerAuth
//	@Router			/api/sources/open [post]
func (h *Handler) OpenSource(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sources(w)
	if !ok {
		return
	}
	req, ok := decodeOpen(w, r)
	if !ok {
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "path is required")
		return
	}
	item, err := c.Item(req.Path)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	e, err := c.Open(r.Context(), item)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e.Snapshot())
}

func (h *Handler) editor(w http.ResponseWriter, r *http.Request) (*session.Editor, bool) {
	e, err := h.manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return e, true
}

func (h *Handler) tab(w http.ResponseWriter, r *http.Request) (*session.Tab, int, bool) {
	e, ok := h.editor(w, r)
	if !ok {
		return nil, 0, false
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "tab index must be an integer")
		return nil, 0, false
	}
	if index < 0 || index >= e.TabCount() {
		writeError(w, http.StatusNotFound, "not_found", "tab not found")
		return nil, 0, false
	}
	return e.Tab(index), index, true
}

func (h *Handler) apps(w http.ResponseWriter, r *http.Request) (*app.AppCatalog, bool) {
	mode := chi.URLParam(r, "mode")
	c, ok := h.catalogs.Apps[mode]
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "unknown app mode "+strconv.Quote(mode))
		return nil, false
	}
	return c, true
}

func (h *Handler) routes(w http.ResponseWriter) (*app.RouteCatalog, bool) {
	if h.catalogs.Routes == nil {
		writeError(w, http.StatusNotFound, "not_found", "route catalog is disabled")
		return nil, false
	}
	return h.catalogs.Routes, true
}

func (h *Handler) sources(w http.ResponseWriter) (*app.SourceCatalog, bool) {
	if h.catalogs.Sources == nil {
		writeError(w, http.StatusNotFound, "not_found", "source catalog is disabled")
		return nil, false
	}
	return h.catalogs.Sources, true
}

// fail maps err to a status code and writes it.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *app.ValidationError
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, ports.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, session.ErrClosed), errors.Is(err, session.ErrNotOpen):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, app.ErrRenameRejected):
		writeError(w, http.StatusConflict, "rename_rejected", err.Error())
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "invalid_request", verr.Message)
	case errors.Is(err, render.ErrUnknownView):
		writeError(w, http.StatusUnprocessableEntity, "unknown_view", err.Error())
	default:
		h.logger.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func (o OpenRequest) location() int {
	if o.Location == nil {
		return -1
	}
	return *o.Location
}

// decodeOpen reads an optional OpenRequest body. The location query
// parameter is accepted as well.
func decodeOpen(w http.ResponseWriter, r *http.Request) (OpenRequest, bool) {
	var req OpenRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "failed to read request body")
		return req, false
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
			return req, false
		}
	}
	if v := r.URL.Query().Get("location"); v != "" && req.Location == nil {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "location must be an integer")
			return req, false
		}
		req.Location = &n
	}
	return req, true
}

func groupViews(groups []app.Group, active func(app.Entry) bool) []GroupView {
	out := make([]GroupView, 0, len(groups))
	for _, g := range groups {
		gv := GroupView{Category: g.Category, Entries: make([]EntryView, 0, len(g.Entries))}
		for _, e := range g.Entries {
			gv.Entries = append(gv.Entries, EntryView{Entry: e, Active: active(e)})
		}
		out = append(out, gv)
	}
	return out
}

// writeTab writes a tab with an ETag over its data.
func writeTab(w http.ResponseWriter, tab *session.Tab, index int, data session.Payload) {
	w.Header().Set("ETag", tabETag(data))
	writeJSON(w, http.StatusOK, TabResponse{Tab: tab.Snapshot(index), Data: data})
}

// tabETag digests the JSON encoding of data. Map keys encode sorted, so
// equal data always yields the same tag.
func tabETag(data session.Payload) string {
	encoded, _ := json.Marshal(data)
	return `"` + revision.Digest(encoded) + `"`
}

// matchETag reports whether any tag in an If-Match header value names the
// current data.
func matchETag(header string, data session.Payload) bool {
	encoded, _ := json.Marshal(data)
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "W/")
		if tag == "*" {
			return true
		}
		if digest := strings.Trim(tag, `"`); digest != "" && revision.Matches(digest, encoded) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponseBody{Error: ErrorDetail{Code: code, Message: message}})
}

// NewAuthMiddleware requires a bearer token matching hash. An empty hash
// disables the check.
func NewAuthMiddleware(hash string, hasher ports.Hasher) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if hash == "" || hasher == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractAPIKey(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing_api_key", "API token required")
				return
			}
			if !hasher.Compare([]byte(hash), token) {
				writeError(w, http.StatusUnauthorized, "invalid_api_key", "The provided API token is invalid")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractAPIKey reads the token from the Authorization header or, for
// websocket clients that cannot set headers, the api_key query parameter.
func extractAPIKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	return r.URL.Query().Get("api_key")
}

// NewMetricsMiddleware creates middleware that records request metrics.
func NewMetricsMiddleware(m *metrics.Collector, metricsPath string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipObservation(r.URL.Path, metricsPath) || r.URL.Path == "/api/events" {
				next.ServeHTTP(w, r)
				return
			}

			m.RequestsInFlight.Inc()
			defer m.RequestsInFlight.Dec()

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			m.RequestsTotal.WithLabelValues(r.Method, route, statusLabel(ww.Status())).Inc()
			m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// statusLabel returns a string label for the status code.
func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "other"
	}
}

// NewLoggingMiddleware logs HTTP requests at debug level.
func NewLoggingMiddleware(logger zerolog.Logger, metricsPath string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if skipObservation(r.URL.Path, metricsPath) {
				return
			}

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}

func skipObservation(path, metricsPath string) bool {
	return path == "/health" || path == metricsPath || strings.HasPrefix(path, "/swagger")
}
