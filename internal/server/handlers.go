package server

import (
	"net/http"
	"slices"

	"github.com/matzehuels/gridrule/pkg/buildinfo"
	"github.com/matzehuels/gridrule/pkg/denoise"
	"github.com/matzehuels/gridrule/pkg/errors"
	"github.com/matzehuels/gridrule/pkg/grid"
	"github.com/matzehuels/gridrule/pkg/pipeline"
	"github.com/matzehuels/gridrule/pkg/task"
)

// SolveRequest is the body of /v1/solve and /v1/infer.
type SolveRequest struct {
	Task    task.Task         `json:"task"`
	Options *pipeline.Options `json:"options,omitempty"`
}

// InferResponse is returned by /v1/infer.
type InferResponse struct {
	Rule       pipeline.Envelope    `json:"rule"`
	Candidates []pipeline.Candidate `json:"candidates"`
	TrainScore float64              `json:"train_score"`
}

// ApplyRequest is the body of /v1/apply.
type ApplyRequest struct {
	Rule   pipeline.Envelope `json:"rule"`
	Inputs []grid.Grid       `json:"inputs"`
}

// ApplyResponse is returned by /v1/apply.
type ApplyResponse struct {
	Predictions []grid.Grid `json:"predictions"`
}

// DenoiseRequest is the body of /v1/denoise.
type DenoiseRequest struct {
	Grid    grid.Grid        `json:"grid"`
	Options *denoise.Options `json:"options,omitempty"`
}

// DenoiseResponse is returned by /v1/denoise.
type DenoiseResponse struct {
	Grid grid.Grid `json:"grid"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeJSONError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), req.Task, s.options(req.Options))
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	rep, err := result.Report()
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleInfer(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	if err := req.Task.Validate(); err != nil {
		s.writeJSONError(w, r, err)
		return
	}

	rl, cands, _, err := s.runner.InferWithCacheInfo(r.Context(), req.Task.Pairs(), s.options(req.Options))
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	env, err := pipeline.Wrap(rl)
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, InferResponse{
		Rule:       env,
		Candidates: cands,
		TrainScore: pipeline.TrainScore(cands, rl.Kind()),
	})
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	rl, err := req.Rule.Unwrap()
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	for i, g := range req.Inputs {
		if g.Empty() {
			s.writeJSONError(w, r, errors.New(errors.ErrCodeInvalidGrid, "inputs[%d]: grid cannot be empty", i))
			return
		}
	}

	preds, err := s.runner.Apply(r.Context(), rl, req.Inputs, s.options(nil))
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ApplyResponse{Predictions: preds})
}

func (s *Server) handleDenoise(w http.ResponseWriter, r *http.Request) {
	var req DenoiseRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	if req.Grid.Empty() {
		s.writeJSONError(w, r, errors.New(errors.ErrCodeInvalidGrid, "grid cannot be empty"))
		return
	}

	opts := s.options(nil).Denoise
	if req.Options != nil {
		opts = mergeDenoise(opts, *req.Options)
	}
	if err := opts.Validate(); err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DenoiseResponse{Grid: denoise.Denoise(req.Grid, opts)})
}

// options layers req over the server defaults. Zero fields in req keep
// the default.
func (s *Server) options(req *pipeline.Options) pipeline.Options {
	opts := s.defaults
	opts.Markers = slices.Clone(opts.Markers)
	opts.Logger = s.logger
	if req == nil {
		opts.SetDefaults()
		return opts
	}
	if req.Solver != "" {
		opts.Solver = req.Solver
	}
	if len(req.Markers) > 0 {
		opts.Markers = req.Markers
	}
	if req.Trail != 0 {
		opts.Trail = req.Trail
	}
	if req.Fallback != nil {
		opts.Fallback = req.Fallback
	}
	opts.Denoise = mergeDenoise(opts.Denoise, req.Denoise)
	opts.Refresh = req.Refresh
	opts.SetDefaults()
	return opts
}

func mergeDenoise(base, over denoise.Options) denoise.Options {
	if over.MinRows != 0 {
		base.MinRows = over.MinRows
	}
	if over.MinCols != 0 {
		base.MinCols = over.MinCols
	}
	if over.Threshold != 0 {
		base.Threshold = over.Threshold
	}
	return base
}
