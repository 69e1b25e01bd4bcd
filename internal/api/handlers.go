package api

import (
	"encoding/json"
	"net/http"

	"github.com/treekit/treekit/pkg/buildinfo"
	"github.com/treekit/treekit/pkg/cache"
	"github.com/treekit/treekit/pkg/errors"
	"github.com/treekit/treekit/pkg/layout"
	"github.com/treekit/treekit/pkg/pipeline"
	"github.com/treekit/treekit/pkg/tree"
	"github.com/treekit/treekit/pkg/treeio"
)

// LayoutRequest is the body of POST /v1/layout.
type LayoutRequest struct {
	Tree    treeio.Document  `json:"tree"`
	Options pipeline.Options `json:"options"`
}

// LayoutResponse is the body returned by POST /v1/layout.
type LayoutResponse struct {
	TreeHash string            `json:"tree_hash"`
	Coords   treeio.CoordTable `json:"coords"`
	CacheHit bool              `json:"cache_hit"`
}

// ConsensusRequest is the body of POST /v1/consensus.
type ConsensusRequest struct {
	Trees     []treeio.Document `json:"trees"`
	Reference *treeio.Document  `json:"reference,omitempty"`
	Options   pipeline.Options  `json:"options"`
}

// ConsensusResponse is the body returned by POST /v1/consensus.
type ConsensusResponse struct {
	Tree     treeio.Document `json:"tree"`
	CacheHit bool            `json:"cache_hit"`
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}
	t, err := treeio.FromDocument(req.Tree)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := req.Options
	if err := opts.ValidateForLayout(); err != nil {
		s.writeError(w, r, err)
		return
	}

	table, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), t, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	orient, _ := layout.ParseOrientation(opts.Orientation)
	coords, err := treeio.ToCoordTable(t, &table, orient)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := LayoutResponse{Coords: coords, CacheHit: hit}
	if data, err := treeio.MarshalTree(t); err == nil {
		resp.TreeHash = cache.Hash(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConsensus(w http.ResponseWriter, r *http.Request) {
	var req ConsensusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}
	trees := make([]*tree.Tree, len(req.Trees))
	for i, doc := range req.Trees {
		t, err := treeio.FromDocument(doc)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.GetCode(err), err, "tree %d", i))
			return
		}
		trees[i] = t
	}
	opts := req.Options
	if req.Reference != nil {
		ref, err := treeio.FromDocument(*req.Reference)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.GetCode(err), err, "reference tree"))
			return
		}
		opts.Reference = ref
	}
	if err := opts.ValidateForConsensus(); err != nil {
		s.writeError(w, r, err)
		return
	}

	cons, hit, err := s.runner.ConsensusWithCacheInfo(r.Context(), trees, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := treeio.ToDocument(cons)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ConsensusResponse{Tree: doc, CacheHit: hit})
}

// statusFor maps error codes to HTTP statuses.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeFileNotFound, errors.ErrCodeNameNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInternal, "":
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= 500 {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
	}
	var body errorBody
	body.Error.Code = string(code)
	if body.Error.Code == "" {
		body.Error.Code = string(errors.ErrCodeInternal)
	}
	body.Error.Message = errors.UserMessage(err)
	body.Error.RequestID = RequestID(r.Context())
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
