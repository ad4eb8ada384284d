package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/weathif/internal/domain"
	"github.com/couchcryptid/weathif/internal/location"
	"github.com/couchcryptid/weathif/internal/overlay"
	"github.com/couchcryptid/weathif/internal/pipeline"
	"github.com/couchcryptid/weathif/internal/report"
	"github.com/couchcryptid/weathif/internal/session"
)

const maxBodyBytes = 64 << 10

type parametersResponse struct {
	Parameters []domain.ParameterSpec `json:"parameters"`
	Layers     []overlay.Layer        `json:"overlay_layers"`
	Opacity    opacitySpec            `json:"overlay_opacity"`
}

type opacitySpec struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
}

type scenarioResponse struct {
	Scenario domain.Scenario `json:"scenario"`
	Report   report.Report   `json:"report"`
	Map      overlay.MapView `json:"map"`
}

type sessionResponse struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	State     location.Snapshot `json:"state"`
}

type evaluateRequest struct {
	Query             string              `json:"query"`
	Click             *domain.Coordinates `json:"click,omitempty"`
	TemperatureDeltaC float64             `json:"temperature_delta_c"`
	RainfallPctChange float64             `json:"rainfall_pct_change"`
	Layers            []string            `json:"layers,omitempty"`
	Opacity           *float64            `json:"opacity,omitempty"`
}

type evaluateResponse struct {
	scenarioResponse
	State location.Snapshot `json:"state"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleParameters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, parametersResponse{
		Parameters: domain.ParameterSpecs(),
		Layers:     overlay.Layers(),
		Opacity:    opacitySpec{Min: overlay.MinOpacity, Max: overlay.MaxOpacity, Default: overlay.DefaultOpacity},
	})
}

func (s *Server) handleOverlays(w http.ResponseWriter, r *http.Request) {
	layers, opacity, err := overlayQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	tiles, err := overlay.Tiles(s.deps.OverlayAPIKey, layers, opacity)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"overlays": tiles})
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params, err := adjustmentQuery(q.Get("temperature_delta_c"), q.Get("rainfall_pct_change"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	layers, opacity, err := overlayQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	tiles, err := overlay.Tiles(s.deps.OverlayAPIKey, layers, opacity)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sc, err := s.deps.Evaluator.EvaluateQuery(r.Context(), q.Get("q"), params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buildScenarioResponse(sc, tiles))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.deps.Sessions.Create()
	writeJSON(w, http.StatusCreated, sessionResponse{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt,
		State:     sess.Snapshot(),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.deps.Sessions.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt,
		State:     sess.Snapshot(),
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	sess, err := s.deps.Sessions.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req evaluateRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, &domain.InvalidParameterError{Name: "body", Reason: err.Error()})
		return
	}

	opacity := overlay.DefaultOpacity
	if req.Opacity != nil {
		opacity = *req.Opacity
	}
	tiles, err := overlay.Tiles(s.deps.OverlayAPIKey, req.Layers, opacity)
	if err != nil {
		s.writeError(w, err)
		return
	}

	in := pipeline.Input{
		Query: req.Query,
		Click: req.Click,
		Params: domain.AdjustmentParameters{
			TemperatureDeltaC: req.TemperatureDeltaC,
			RainfallPctChange: req.RainfallPctChange,
		},
	}

	sc, snap, err := s.deps.Evaluator.EvaluateSession(r.Context(), sess, in)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, evaluateResponse{
		scenarioResponse: buildScenarioResponse(sc, tiles),
		State:            snap,
	})
}

func buildScenarioResponse(sc domain.Scenario, tiles []overlay.Tile) scenarioResponse {
	return scenarioResponse{
		Scenario: sc,
		Report:   report.Build(sc),
		Map:      overlay.View(sc.Location, tiles),
	}
}

func adjustmentQuery(tempDelta, rainPct string) (domain.AdjustmentParameters, error) {
	var p domain.AdjustmentParameters
	var err error
	if p.TemperatureDeltaC, err = parseFloatParam("temperature_delta_c", tempDelta, 0); err != nil {
		return p, err
	}
	if p.RainfallPctChange, err = parseFloatParam("rainfall_pct_change", rainPct, 0); err != nil {
		return p, err
	}
	return p, nil
}

func overlayQuery(r *http.Request) ([]string, float64, error) {
	q := r.URL.Query()
	var layers []string
	if v := q.Get("layers"); v != "" {
		layers = strings.Split(v, ",")
	}
	opacity, err := parseFloatParam("opacity", q.Get("opacity"), overlay.DefaultOpacity)
	return layers, opacity, err
}

func parseFloatParam(name, raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &domain.InvalidParameterError{Name: name, Reason: "not a number"}
	}
	return v, nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsInvalidParameter(err):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrLocationNotFound), errors.Is(err, session.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrGeocoderUnavailable):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
