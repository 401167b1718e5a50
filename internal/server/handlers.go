package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/trifractal/pkg/buildinfo"
	"github.com/matzehuels/trifractal/pkg/config"
	errs "github.com/matzehuels/trifractal/pkg/errors"
	"github.com/matzehuels/trifractal/pkg/fractal"
	"github.com/matzehuels/trifractal/pkg/pipeline"
	"github.com/matzehuels/trifractal/pkg/session"
)

// =============================================================================
// Request / Response Types
// =============================================================================

type createRequest struct {
	MaxDepth *int            `json:"max_depth,omitempty"`
	Config   json.RawMessage `json:"config,omitempty"`
}

type levelRequest struct {
	Level *int `json:"level"`
}

type depthRequest struct {
	MaxDepth *int `json:"max_depth"`
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type hitRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type sessionResponse struct {
	session.Info
	Nodes      int     `json:"nodes"`
	TreeWidth  float64 `json:"tree_width"`
	TreeHeight float64 `json:"tree_height"`
}

type hitResponse struct {
	Depth     int               `json:"depth"`
	X         float64           `json:"x"`
	Y         float64           `json:"y"`
	Color     fractal.Color     `json:"color"`
	Selection session.Selection `json:"selection"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
		"build":    buildinfo.Get(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	cfg, err := s.sessionConfig(req.Config)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.MaxDepth != nil {
		cfg.MaxDepth = *req.MaxDepth
	}

	id, _, err := s.sessions.Create(cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("session created", "id", id, "max_depth", cfg.MaxDepth)

	w.Header().Set("Location", "/sessions/"+id)
	s.writeSession(w, r, id, http.StatusCreated)
}

// sessionConfig layers a partial config from a request onto the server's
// base config. Keys the request omits keep the base values.
func (s *Server) sessionConfig(raw json.RawMessage) (config.Config, error) {
	cfg := s.cfg
	cfg.Palette = slices.Clone(s.cfg.Palette)
	if len(raw) == 0 || string(raw) == "null" {
		return cfg, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return config.Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid session config")
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.sessions.Get(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeSession(w, r, id, http.StatusOK)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("session deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req levelRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Level == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "level is required"))
		return
	}
	s.withSession(w, r, func(sess *session.Session) error {
		return sess.SelectLevel(*req.Level)
	})
}

func (s *Server) handleShowAll(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) error {
		sess.ShowAll()
		return nil
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *session.Session) error {
		sess.ResetSelection()
		return nil
	})
}

func (s *Server) handleDepth(w http.ResponseWriter, r *http.Request) {
	var req depthRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.MaxDepth == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "max_depth is required"))
		return
	}
	s.withSession(w, r, func(sess *session.Session) error {
		return sess.ChangeMaxDepth(*req.MaxDepth)
	})
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withSession(w, r, func(sess *session.Session) error {
		return sess.Resize(req.Width, req.Height)
	})
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	var req hitRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	n, ok := sess.PointerHit(req.X, req.Y)
	if !ok {
		s.writeError(w, r, errs.New(errs.ErrCodeNoHit, "no node at (%g, %g)", req.X, req.Y))
		return
	}
	writeJSON(w, http.StatusOK, hitResponse{
		Depth:     n.Depth,
		X:         n.LayoutX,
		Y:         n.LayoutY,
		Color:     n.Color,
		Selection: sess.Selection(),
	})
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fractal.Levels(sess.Tree().Root))
}

// handleRender serves the current session state in the format named by
// the path. Query parameters mirror the render command's flags.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, err := renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := opts.Formats[0]

	artifacts, hit, err := s.runner.RenderSnapshot(r.Context(), sess.Snapshot(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifacts[format]); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
}

func renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.Options{
		VizType:     q.Get("viz"),
		View:        q.Get("view"),
		Formats:     []string{format},
		Title:       q.Get("title"),
		Interactive: parseBool(q.Get("interactive")),
		Detailed:    parseBool(q.Get("detailed")),
		Refresh:     parseBool(q.Get("refresh")),
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return pipeline.Options{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid scale %q", v)
		}
		opts.Scale = scale
	}
	return opts, nil
}

func parseBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

// withSession runs fn against the session named in the path and replies
// with the resulting session state.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*session.Session) error) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := fn(sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeSession(w, r, id, http.StatusOK)
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, id string, status int) {
	info, err := s.sessions.Info(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap := sess.Snapshot()
	writeJSON(w, status, sessionResponse{
		Info:       info,
		Nodes:      fractal.Count(snap.Root),
		TreeWidth:  snap.TreeWidth,
		TreeHeight: snap.TreeHeight,
	})
}

// =============================================================================
// Helpers
// =============================================================================

// decodeBody decodes a JSON request body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
