package server

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/pearls/pkg/buildinfo"
	"github.com/matzehuels/pearls/pkg/composition"
	perrors "github.com/matzehuels/pearls/pkg/errors"
	"github.com/matzehuels/pearls/pkg/gallery"
	"github.com/matzehuels/pearls/pkg/palette"
	"github.com/matzehuels/pearls/pkg/pipeline"
	"github.com/matzehuels/pearls/pkg/raster"
)

// Response headers describing a rendered artifact.
const (
	HeaderSeed  = "X-Pearls-Seed"
	HeaderHash  = "X-Pearls-Hash"
	HeaderCache = "X-Cache"
)

// maxBodyBytes limits JSON request bodies.
const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

// handleRender renders a composition described by query parameters. A
// missing seed is chosen at random and echoed in X-Pearls-Seed.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, opts, chi.URLParam(r, "format"))
}

func (s *Server) handleRenderEntry(w http.ResponseWriter, r *http.Request) {
	e, ok := s.loadEntry(w, r)
	if !ok {
		return
	}
	s.render(w, r, e.Options, chi.URLParam(r, "format"))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, opts pipeline.Options, format string) {
	opts.Formats = []string{format}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheStatus := "MISS"
	if result.CacheInfo.RenderHit {
		cacheStatus = "HIT"
	}
	h := w.Header()
	h.Set("Content-Type", pipeline.ContentTypes[format])
	h.Set(HeaderSeed, strconv.FormatUint(opts.Seed, 10))
	h.Set(HeaderHash, result.Hash)
	h.Set(HeaderCache, cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handleRandomPalette(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	n, err := intParam(q, "n", len(palette.DefaultColors))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if n < 1 || n > palette.MaxColors {
		s.writeError(w, r, perrors.New(perrors.ErrCodeInvalidParameter, "n must be in [1, %d], got %d", palette.MaxColors, n))
		return
	}
	seed, err := uintParam(q, "seed", rand.Uint64N(composition.MaxSeed+1))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"seed":    seed,
		"palette": palette.Random(raster.NewSource(seed), n),
	})
}

type createEntryRequest struct {
	Name    string           `json:"name"`
	Options pipeline.Options `json:"options"`
}

// handleCreateEntry validates the options by composing them, so only
// renderable entries are stored.
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	opts := req.Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}
	comp, err := s.runner.Compose(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hash, err := pipeline.Hash(comp)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	e, err := gallery.NewEntry(req.Name, opts, hash)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), e); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/gallery/"+e.ID)
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query(), "limit", gallery.DefaultListLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entries, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	if e, ok := s.loadEntry(w, r); ok {
		writeJSON(w, http.StatusOK, e)
	}
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := gallery.ValidateID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadEntry(w http.ResponseWriter, r *http.Request) (*gallery.Entry, bool) {
	id := chi.URLParam(r, "id")
	if err := gallery.ValidateID(id); err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	e, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return e, true
}

// =============================================================================
// Query parsing
// =============================================================================

// optionsFromQuery builds pipeline options from query parameters:
// rows, cols, density, seed, background, colors (comma separated),
// stroke, margin, size, type, scale, title, detailed and refresh.
func optionsFromQuery(q url.Values) (pipeline.Options, error) {
	var (
		opts pipeline.Options
		err  error
	)
	if opts.Rows, err = intParam(q, "rows", 0); err != nil {
		return opts, err
	}
	if opts.Cols, err = intParam(q, "cols", 0); err != nil {
		return opts, err
	}
	if opts.Density, err = optionalFloatParam(q, "density"); err != nil {
		return opts, err
	}
	if opts.Seed, err = uintParam(q, "seed", rand.Uint64N(composition.MaxSeed+1)); err != nil {
		return opts, err
	}
	if opts.StrokeWidth, err = floatParam(q, "stroke", 0); err != nil {
		return opts, err
	}
	if opts.MarginFraction, err = optionalFloatParam(q, "margin"); err != nil {
		return opts, err
	}
	if opts.Size, err = floatParam(q, "size", 0); err != nil {
		return opts, err
	}
	if opts.Scale, err = floatParam(q, "scale", 0); err != nil {
		return opts, err
	}
	if opts.Detailed, err = boolParam(q, "detailed"); err != nil {
		return opts, err
	}
	if opts.Refresh, err = boolParam(q, "refresh"); err != nil {
		return opts, err
	}
	opts.Background = q.Get("background")
	if c := q.Get("colors"); c != "" {
		opts.Colors = strings.Split(c, ",")
	}
	opts.VizType = q.Get("type")
	opts.Title = q.Get("title")
	return opts, nil
}

func intParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, perrors.New(perrors.ErrCodeInvalidParameter, "%s: not an integer: %q", name, v)
	}
	return n, nil
}

func uintParam(q url.Values, name string, def uint64) (uint64, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, perrors.New(perrors.ErrCodeInvalidParameter, "%s: not an unsigned integer: %q", name, v)
	}
	return n, nil
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, perrors.New(perrors.ErrCodeInvalidParameter, "%s: not a number: %q", name, v)
	}
	return f, nil
}

// optionalFloatParam returns nil when the parameter is absent, so an
// explicit 0 can be told apart from "use the default".
func optionalFloatParam(q url.Values, name string) (*float64, error) {
	if q.Get(name) == "" {
		return nil, nil
	}
	f, err := floatParam(q, name, 0)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, perrors.New(perrors.ErrCodeInvalidParameter, "%s: not a boolean: %q", name, v)
	}
	return b, nil
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code      perrors.Code `json:"code"`
	Error     string       `json:"error"`
	RequestID string       `json:"request_id,omitempty"`
}

// statusCode maps error codes to HTTP status codes.
func statusCode(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case perrors.IsInvalid(err):
		return http.StatusBadRequest
	case perrors.Is(err, perrors.ErrCodeNotFound):
		return http.StatusNotFound
	case perrors.Is(err, perrors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusCode(err)
	code := perrors.GetCode(err)
	msg := perrors.UserMessage(err)
	if code == "" {
		code = perrors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Code: code, Error: msg, RequestID: RequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
