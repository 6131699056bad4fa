package server

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"

	"github.com/matzehuels/stackprint/pkg/buildinfo"
	"github.com/matzehuels/stackprint/pkg/errors"
	"github.com/matzehuels/stackprint/pkg/fingerprint"
	"github.com/matzehuels/stackprint/pkg/observability"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

type request struct {
	Path    string `json:"path"`
	Refresh bool   `json:"refresh"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleFingerprint(w http.ResponseWriter, r *http.Request) {
	req, root, err := s.decode(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	fp, hit, err := s.runner.Fingerprint(r.Context(), root, fingerprint.Options{
		Config:  s.cfg.Analyze,
		Refresh: req.Refresh,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, hit)
	writeJSON(w, http.StatusOK, fp)
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	req, root, err := s.decode(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	m, hit, err := s.runner.Manifest(r.Context(), root, req.Refresh)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, hit)
	writeJSON(w, http.StatusOK, m)
}

// decode parses the request body and resolves its path below the root.
func (s *Server) decode(r *http.Request) (request, string, error) {
	var req request
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && err != io.EOF {
		return req, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	if req.Path == "" {
		req.Path = "."
	}
	if err := errors.ValidatePath(req.Path); err != nil {
		return req, "", err
	}
	return req, filepath.Join(s.cfg.Root, filepath.FromSlash(req.Path)), nil
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidPath, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupportedEcosystem:
		return http.StatusNotFound
	case errors.ErrCodeManifestParse:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, r.Host, r.URL.Path, err)
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
