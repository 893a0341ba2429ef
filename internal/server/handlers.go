package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bgpfig/bgpfig/pkg/errors"
	"github.com/bgpfig/bgpfig/pkg/pipeline"
	"github.com/bgpfig/bgpfig/pkg/share"
)

// exportRequest is the body of POST /api/v1/export.
type exportRequest struct {
	Snapshot json.RawMessage `json:"snapshot"`
	Formats  []string        `json:"formats,omitempty"`
	Overlays []string        `json:"overlays,omitempty"`
	Prefix   string          `json:"prefix,omitempty"`
	Weights  bool            `json:"weights,omitempty"`
}

// exportResponse is the body of a successful export. Artifact bytes are
// base64-encoded by encoding/json.
type exportResponse struct {
	SnapshotHash string            `json:"snapshot_hash"`
	RouterCount  int               `json:"router_count"`
	LinkCount    int               `json:"link_count"`
	RenderHit    bool              `json:"render_hit"`
	Artifacts    map[string][]byte `json:"artifacts"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Snapshot: req.Snapshot,
		Formats:  req.Formats,
		Overlays: req.Overlays,
		Prefix:   req.Prefix,
		Weights:  req.Weights,
		Logger:   s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, exportResponse{
		SnapshotHash: result.SnapshotHash,
		RouterCount:  result.Stats.RouterCount,
		LinkCount:    result.Stats.LinkCount,
		RenderHit:    result.CacheInfo.RenderHit,
		Artifacts:    result.Artifacts,
	})
}

// createShareRequest is the body of POST /api/v1/shares.
type createShareRequest struct {
	Name     string          `json:"name,omitempty"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// shareResponse describes a stored share. The snapshot and document are
// only included when reading a single share.
type shareResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name,omitempty"`
	Snapshot  json.RawMessage `json:"snapshot,omitempty"`
	Document  string          `json:"document,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	var req createShareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := errors.ValidateShareName(req.Name); err != nil {
		s.writeError(w, err)
		return
	}

	// Render the document up front. This both validates the snapshot and
	// freezes the share contents; later format changes never alter a share.
	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Snapshot: req.Snapshot,
		Formats:  []string{pipeline.FormatTeX},
		Logger:   s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	sh := share.New(req.Name, req.Snapshot, string(result.Artifacts[pipeline.FormatTeX]), s.cfg.Share.TTL.Duration)
	if err := s.shares.Set(r.Context(), sh); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "store share"))
		return
	}

	s.logger.Info("share created", "id", sh.ID, "name", sh.Name)
	s.writeJSON(w, http.StatusCreated, shareResponse{
		ID:        sh.ID,
		Name:      sh.Name,
		CreatedAt: sh.CreatedAt,
		ExpiresAt: sh.ExpiresAt,
	})
}

func (s *Server) handleGetShare(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sh, err := s.shares.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "load share"))
		return
	}
	if sh == nil {
		s.writeError(w, errors.New(errors.ErrCodeShareNotFound, "share %s not found", id))
		return
	}

	s.writeJSON(w, http.StatusOK, shareResponse{
		ID:        sh.ID,
		Name:      sh.Name,
		Snapshot:  sh.Snapshot,
		Document:  sh.Document,
		CreatedAt: sh.CreatedAt,
		ExpiresAt: sh.ExpiresAt,
	})
}

func (s *Server) handleDeleteShare(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.shares.Delete(r.Context(), id); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStore, err, "delete share"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Request / Response Helpers
// =============================================================================

// decodeJSON decodes a request body, bounding its size first.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, errors.MaxSnapshotBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}

	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}

	s.writeJSON(w, status, errorResponse{
		Error: errorBody{
			Code:    string(code),
			Message: errors.UserMessage(err),
		},
	})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidSnapshot,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidOverlay,
		errors.ErrCodeInvalidPrefix,
		errors.ErrCodeInvalidShare:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound,
		errors.ErrCodeFileNotFound,
		errors.ErrCodeShareNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
