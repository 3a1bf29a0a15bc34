package server

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/molline/pkg/buildinfo"
	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/line"
	"github.com/matzehuels/molline/pkg/pipeline"
	"github.com/matzehuels/molline/pkg/registry"
)

// MoleculeRequest names a molecule by SMILES text or by JSON graph.
// Exactly one of the two must be set.
type MoleculeRequest struct {
	SMILES string          `json:"smiles,omitempty"`
	Graph  json.RawMessage `json:"graph,omitempty"`
	Name   string          `json:"name,omitempty"`
}

func (m MoleculeRequest) input() (pipeline.Input, error) {
	hasGraph := len(m.Graph) > 0 && string(m.Graph) != "null"
	switch {
	case m.SMILES != "" && hasGraph:
		return pipeline.Input{}, errors.New(errors.ErrCodeInvalidInput, "give either smiles or graph, not both")
	case m.SMILES != "":
		return pipeline.Input{ID: m.Name, Format: pipeline.FormatSMILES, Data: m.SMILES}, nil
	case hasGraph:
		return pipeline.Input{ID: m.Name, Format: pipeline.FormatJSON, Data: string(m.Graph)}, nil
	default:
		return pipeline.Input{}, errors.New(errors.ErrCodeInvalidInput, "smiles or graph is required")
	}
}

// CanonicalizeRequest is the body of POST /v1/canonicalize.
type CanonicalizeRequest struct {
	MoleculeRequest
	Options *line.Options `json:"options,omitempty"`
	Refresh bool          `json:"refresh,omitempty"`
}

// CanonicalizeResponse is the body of a successful POST /v1/canonicalize.
type CanonicalizeResponse struct {
	Name     string         `json:"name,omitempty"`
	Text     string         `json:"text"`
	Warnings []line.Warning `json:"warnings,omitempty"`
	Atoms    int            `json:"atoms"`
	CacheHit bool           `json:"cache_hit"`
}

// BatchRequest is the body of POST /v1/batch.
type BatchRequest struct {
	Records []pipeline.Input `json:"records"`
	Options *line.Options    `json:"options,omitempty"`
	Refresh bool             `json:"refresh,omitempty"`
}

// BatchResponse is the body of POST /v1/batch. Failed records carry
// error and code; the request itself succeeds.
type BatchResponse struct {
	Records []pipeline.Record `json:"records"`
	Stats   BatchStats        `json:"stats"`
}

// BatchStats summarizes a batch.
type BatchStats struct {
	Records    int   `json:"records"`
	Succeeded  int   `json:"succeeded"`
	Failed     int   `json:"failed"`
	CacheHits  int   `json:"cache_hits"`
	Warnings   int   `json:"warnings"`
	DurationMS int64 `json:"duration_ms"`
}

// RegisterResponse is the body of POST /v1/molecules.
type RegisterResponse struct {
	registry.Record
	Created bool `json:"created"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

// lineDefaults returns a private copy of the server's line options for a
// request body to decode over, so fields the client leaves out keep their
// defaults.
func (s *Server) lineDefaults() *line.Options {
	o := s.opts.Line
	o.OrganicElements = slices.Clone(o.OrganicElements)
	if o.Root != nil {
		root := *o.Root
		o.Root = &root
	}
	return &o
}

// options builds per-request pipeline options from the server defaults.
func (s *Server) options(r *http.Request, lineOpts *line.Options, refresh bool) pipeline.Options {
	opts := s.opts
	if lineOpts != nil {
		opts.Line = *lineOpts
	}
	opts.Refresh = refresh
	opts.Logger = s.requestLogger(r)
	return opts
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// handleCanonicalize handles POST /v1/canonicalize.
func (s *Server) handleCanonicalize(w http.ResponseWriter, r *http.Request) {
	req := CanonicalizeRequest{Options: s.lineDefaults()}
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.runner.Canonicalize(r.Context(), in, s.options(r, req.Options, req.Refresh))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CanonicalizeResponse{
		Name:     rec.ID,
		Text:     rec.Text,
		Warnings: rec.Warnings,
		Atoms:    rec.Atoms,
		CacheHit: rec.CacheHit,
	})
}

// handleBatch handles POST /v1/batch.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	req := BatchRequest{Options: s.lineDefaults()}
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Records) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "records cannot be empty"))
		return
	}
	if len(req.Records) > s.maxBatch {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "too many records: %d (max %d)", len(req.Records), s.maxBatch))
		return
	}

	res, err := s.runner.Execute(r.Context(), req.Records, s.options(r, req.Options, req.Refresh))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st := res.Stats
	writeJSON(w, http.StatusOK, BatchResponse{
		Records: res.Records,
		Stats: BatchStats{
			Records:    st.Records,
			Succeeded:  st.Succeeded,
			Failed:     st.Failed,
			CacheHits:  st.CacheHits,
			Warnings:   st.Warnings,
			DurationMS: st.Duration.Milliseconds(),
		},
	})
}

// canonical serializes a molecule with the registry's fixed options.
func (s *Server) canonical(r *http.Request, in pipeline.Input) (pipeline.Record, error) {
	return s.runner.Canonicalize(r.Context(), in, s.options(r, nil, false))
}

// handleRegister handles POST /v1/molecules. It answers 201 when the
// structure is new and 200 with the existing record otherwise.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req MoleculeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.canonical(r, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	source := in.Data
	if in.Format != pipeline.FormatSMILES {
		source = ""
	}
	stored, created, err := s.registry.Register(r.Context(), registry.Record{
		Canonical: rec.Text,
		Source:    source,
		Name:      rec.ID,
		Atoms:     rec.Atoms,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		s.requestLogger(r).Info("registered", "id", stored.ID, "canonical", stored.Canonical)
	}
	writeJSON(w, status, RegisterResponse{Record: stored, Created: created})
}

// handleLookup handles GET /v1/molecules?smiles=...
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	smiles := r.URL.Query().Get("smiles")
	if smiles == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "smiles query parameter is required"))
		return
	}
	rec, err := s.canonical(r, pipeline.Input{Format: pipeline.FormatSMILES, Data: smiles})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	stored, err := s.registry.Lookup(r.Context(), rec.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// handleGet handles GET /v1/molecules/{id}.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	stored, err := s.registry.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}
