package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/tonegraph/pkg/analysis"
	"github.com/matzehuels/tonegraph/pkg/buildinfo"
	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
	gio "github.com/matzehuels/tonegraph/pkg/io"
	"github.com/matzehuels/tonegraph/pkg/layout"
	"github.com/matzehuels/tonegraph/pkg/notation/parsers"
	"github.com/matzehuels/tonegraph/pkg/pipeline"
	"github.com/matzehuels/tonegraph/pkg/render/score"
	"github.com/matzehuels/tonegraph/pkg/store"
)

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type parserInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Text        bool   `json:"text"`
	Image       bool   `json:"image"`
}

type validateResponse struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}

type analyzeResponse struct {
	Components           [][]string             `json:"connected_components"`
	TransformationCycles [][]string             `json:"transformation_cycles"`
	Network              analysis.NetworkReport `json:"transformation_network"`
	Invariants           map[string][]string    `json:"invariant_structures"`
	Metrics              *analysis.Metrics      `json:"metrics,omitempty"`
}

type compareRequest struct {
	First  json.RawMessage `json:"graph1"`
	Second json.RawMessage `json:"graph2"`
}

type createResponse struct {
	ID string `json:"id"`
}

var contentTypes = map[string]string{
	pipeline.FormatJSON:    "application/json",
	pipeline.FormatGraphML: "application/graphml+xml",
	pipeline.FormatYAML:    "application/yaml",
	pipeline.FormatMsgpack: "application/vnd.msgpack",
	pipeline.FormatDOT:     "text/vnd.graphviz",
	pipeline.FormatSVG:     "image/svg+xml",
	string(score.MusicXML): "application/vnd.recordare.musicxml+xml",
	string(score.MEI):      "application/mei+xml",
	string(score.Humdrum):  "text/plain; charset=utf-8",
	string(score.LilyPond): "text/plain; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleParsers(w http.ResponseWriter, r *http.Request) {
	out := make([]parserInfo, len(parsers.All))
	for i, p := range parsers.All {
		out[i] = parserInfo{p.Name, p.Description, p.AcceptsText(), p.AcceptsImage()}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	input, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, bodyError(err))
		return
	}
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	g, hit, err := s.runner.Extract(r.Context(), chi.URLParam(r, "parser"), input, refresh)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	s.writeGraph(w, http.StatusOK, g)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	g, ok := s.readGraph(w, r)
	if !ok {
		return
	}
	issues := s.runner.Validate(r.Context(), g)
	if issues == nil {
		issues = []string{}
	}
	s.writeJSON(w, http.StatusOK, validateResponse{Valid: len(issues) == 0, Issues: issues})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	g, ok := s.readGraph(w, r)
	if !ok {
		return
	}
	a := analysis.New(g)
	resp := analyzeResponse{
		Components:           a.ConnectedComponents(),
		TransformationCycles: a.TransformationCycles(),
		Network:              a.AnalyzeTransformationNetwork(),
		Invariants:           a.InvariantStructures(),
	}
	if withMetrics, _ := strconv.ParseBool(r.URL.Query().Get("metrics")); withMetrics {
		m := analysis.CollectMetrics(g)
		resp.Metrics = &m
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	g, ok := s.readGraph(w, r)
	if !ok {
		return
	}
	out, err := s.runner.Optimize(r.Context(), g, r.URL.Query()["strategy"]...)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeGraph(w, http.StatusOK, out)
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	g, ok := s.readGraph(w, r)
	if !ok {
		return
	}
	out, err := s.runner.Transform(r.Context(), g, chi.URLParam(r, "code"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeGraph(w, http.StatusOK, out)
}

// handleLayout takes layout parameters from the query string, so
// /v1/layout/tonnetz?spacing=2 sets Params{"spacing": "2"}.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	g, ok := s.readGraph(w, r)
	if !ok {
		return
	}
	params := layout.Params{}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	out, hit, err := s.runner.Layout(r.Context(), g, chi.URLParam(r, "name"), params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	s.writeGraph(w, http.StatusOK, out)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, bodyError(err))
		return
	}
	if len(req.First) == 0 || len(req.Second) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "graph1 and graph2 are required"))
		return
	}
	g1, err := gio.Load(bytes.NewReader(req.First), gio.FormatJSON)
	if err != nil {
		s.writeError(w, err)
		return
	}
	g2, err := gio.Load(bytes.NewReader(req.Second), gio.FormatJSON)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := s.compareOpts
	if v := r.URL.Query().Get("max_steps"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "max_steps: want a non-negative integer, got %q", v))
			return
		}
		opts.MaxSteps = n
	}
	report, hit, err := s.runner.Compare(r.Context(), g1, g2, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	g, ok := s.readGraph(w, r)
	if !ok {
		return
	}
	format := chi.URLParam(r, "format")
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	data, err := s.runner.Render(r.Context(), g, format, pipeline.RenderOptions{
		Title:    r.URL.Query().Get("title"),
		Detailed: detailed,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	ct, ok := contentTypes[format]
	if !ok {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleGraphList(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	entries, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []store.Entry{}
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGraphCreate(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	g, ok := s.readGraph(w, r)
	if !ok {
		return
	}
	id, err := store.Create(r.Context(), s.store, g)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/graphs/"+id)
	s.writeJSON(w, http.StatusCreated, createResponse{ID: id})
}

func (s *Server) handleGraphPut(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	g, ok := s.readGraph(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.store.Put(r.Context(), id, g); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, createResponse{ID: id})
}

func (s *Server) handleGraphGet(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeGraph(w, http.StatusOK, g)
}

func (s *Server) handleGraphDelete(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store != nil {
		return true
	}
	s.writeError(w, errors.New(errors.ErrCodeUnsupported, "graph store is not configured"))
	return false
}

// readGraph decodes a graph JSON body, writing the error response itself on
// failure.
func (s *Server) readGraph(w http.ResponseWriter, r *http.Request) (*graph.Graph, bool) {
	g, err := gio.ReadJSON(r.Body)
	if err != nil {
		var mbe *http.MaxBytesError
		if stderrors.As(err, &mbe) {
			err = bodyError(err)
		}
		s.writeError(w, err)
		return nil, false
	}
	return g, true
}

func (s *Server) writeGraph(w http.ResponseWriter, status int, g *graph.Graph) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := gio.WriteJSON(g, w); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	s.writeJSON(w, status, errorBody{Code: code, Message: errors.UserMessage(err)})
}

func statusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound), errors.Is(err, errors.ErrCodeFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, errors.ErrCodeTimeout):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func bodyError(err error) error {
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
