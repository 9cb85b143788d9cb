package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"musescore/internal/chart"
	"musescore/internal/dataset"
	"musescore/internal/geo"
	"musescore/internal/scoring"
	"musescore/internal/types"
)

const (
	defaultRadiusMiles = 10.0
	minOutlierGroup    = 3
)

func (s *Server) snapshot() (*dataset.Snapshot, error) {
	snap := s.store.Current()
	if snap == nil {
		return nil, errNoDataset
	}
	return snap, nil
}

func floatParam(r *http.Request, name string, required bool, def float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%w: %s is required", scoring.ErrInvalidInput, name)
		}
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", scoring.ErrInvalidInput, name, raw)
	}
	return v, nil
}

// zipParam returns the {zip} path segment without surrounding whitespace.
func zipParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "zip"))
}

func agiParam(r *http.Request) (float64, error) {
	return floatParam(r, "agi", true, 0)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	records := 0
	if snap := s.store.Current(); snap != nil {
		records = snap.Len()
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "records": records})
}

type scoreResponse struct {
	Area   types.AreaRecord    `json:"area"`
	Result scoring.ScoreResult `json:"result"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	agi, err := agiParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	area, res, err := s.scorer.Score(snap, zipParam(r), agi)
	s.metrics.ObserveScore(err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{Area: area, Result: res})
}

type exclusionJSON struct {
	Zip   string `json:"zip"`
	Error string `json:"error"`
}

type batchResponse struct {
	AGI      float64          `json:"agi"`
	Count    int              `json:"count"`
	Results  []scoring.Scored `json:"results"`
	Excluded []exclusionJSON  `json:"excluded,omitempty"`
}

// scoreAll runs a batch over the current snapshot and records its metrics.
func (s *Server) scoreAll(agi float64) ([]scoring.Scored, []scoring.Exclusion, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, nil, err
	}
	start := time.Now()
	scored, excluded, err := s.scorer.ScoreAll(snap, agi)
	if err != nil {
		return nil, nil, err
	}
	s.metrics.ObserveBatch(time.Since(start), len(excluded))
	return scored, excluded, nil
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	agi, err := agiParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	scored, excluded, err := s.scoreAll(agi)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	if state := strings.TrimSpace(q.Get("state")); state != "" {
		filtered := scored[:0]
		for _, sc := range scored {
			if strings.EqualFold(sc.Area.StateID, state) {
				filtered = append(filtered, sc)
			}
		}
		scored = filtered
	}
	if label := q.Get("label"); label != "" {
		scored = scoring.FilterByLabel(scored, label)
	}

	resp := batchResponse{AGI: agi, Count: len(scored), Results: scored}
	for _, ex := range excluded {
		resp.Excluded = append(resp.Excluded, exclusionJSON{Zip: ex.Zip, Error: ex.Err.Error()})
	}
	writeJSON(w, http.StatusOK, resp)
}

type regionsResponse struct {
	AGI       float64                 `json:"agi"`
	Summaries []scoring.RegionSummary `json:"summaries"`
	Means     map[string]float64      `json:"means"`
	Highlight map[string]string       `json:"highlight,omitempty"`
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	agi, err := agiParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	scored, _, err := s.scoreAll(agi)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	summaries := scoring.Summarize(scored)
	resp := regionsResponse{AGI: agi, Summaries: summaries, Means: scoring.AggregateByRegion(scored)}
	if selected := r.URL.Query().Get("selected"); selected != "" {
		states := make([]string, len(summaries))
		for i, sum := range summaries {
			states[i] = sum.State
		}
		resp.Highlight = scoring.Highlight(states, selected)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegionChart(w http.ResponseWriter, r *http.Request) {
	agi, err := agiParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	scored, _, err := s.scoreAll(agi)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	p, err := chart.RegionBars(scoring.Summarize(scored), chart.Options{Selected: r.URL.Query().Get("selected")})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := chart.Write(&buf, p, chart.DefaultWidth, chart.DefaultHeight, "png"); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	agi, err := agiParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	miles, err := floatParam(r, "miles", false, defaultRadiusMiles)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	near, err := geo.ScoreNearby(s.scorer, snap, zipParam(r), agi, miles)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if near == nil {
		near = []geo.ScoredNeighbor{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"zip": zipParam(r), "miles": miles, "results": near})
}

func (s *Server) handleOutliers(w http.ResponseWriter, r *http.Request) {
	agi, err := agiParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	scored, _, err := s.scoreAll(agi)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := scoring.FindOutliers(scored, minOutlierGroup)
	if out == nil {
		out = []scoring.Outlier{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"agi": agi, "results": out})
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	if s.boundaries == nil {
		s.fail(w, r, fmt.Errorf("%w: no boundary layer loaded", scoring.ErrNotFound))
		return
	}
	lat, err := floatParam(r, "lat", true, 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	lng, err := floatParam(r, "lng", true, 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	zip, ok := s.boundaries.Locate(lat, lng)
	if !ok {
		s.fail(w, r, fmt.Errorf("%w: no zip contains %.5f,%.5f", scoring.ErrNotFound, lat, lng))
		return
	}

	if r.URL.Query().Get("agi") == "" {
		writeJSON(w, http.StatusOK, map[string]any{"zip": zip})
		return
	}
	snap, err := s.snapshot()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	agi, err := agiParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	area, res, err := s.scorer.Score(snap, zip, agi)
	s.metrics.ObserveScore(err)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{Area: area, Result: res})
}
