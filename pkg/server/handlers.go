package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/matzehuels/beanchain/pkg/cache"
	"github.com/matzehuels/beanchain/pkg/errors"
	"github.com/matzehuels/beanchain/pkg/render/nodelink"
	"github.com/matzehuels/beanchain/pkg/service"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

// healthResponse is the body of /healthz.
type healthResponse struct {
	Status string `json:"status"`
	Nodes  int    `json:"nodes"`
	Views  int    `json:"views"`
}

func (s *Server) handleGraphData(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resolve(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRoots(w http.ResponseWriter, r *http.Request) {
	list, err := s.Service().ListRoots(r.Context(), parseFilter(r.URL.Query()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handlePackages(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"packages": s.Service().Packages(r.Context()),
	})
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resolve(w, r)
	if !ok {
		return
	}
	dot := nodelink.ToDOT(res, renderOptions(r))
	s.writeBody(w, r, "text/vnd.graphviz; charset=utf-8", []byte(dot))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	res, ok := s.resolve(w, r)
	if !ok {
		return
	}
	svg, err := nodelink.RenderSVG(r.Context(), nodelink.ToDOT(res, renderOptions(r)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeBody(w, r, "image/svg+xml", svg)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	svc := s.Service()
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Nodes:  svc.Graph().NodeCount(),
		Views:  svc.CachedViews(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
}

// resolve runs the query of r, writing the error response on failure.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) (*service.Resolution, bool) {
	q := r.URL.Query()
	root := q.Get("root")
	res, err := s.Service().Resolve(r.Context(), root, parseFilter(q))
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			err = errors.Wrap(errors.ErrCodeNotFound, err, "Unknown bean '%s'", root)
		}
		s.writeError(w, r, err)
		return nil, false
	}
	return res, true
}

func renderOptions(r *http.Request) nodelink.Options {
	return nodelink.Options{Detailed: parseBool(r.URL.Query().Get("detailed"))}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeBody writes a rendered document with an ETag derived from its
// content, answering 304 when the client already holds it.
func (s *Server) writeBody(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	etag := fmt.Sprintf("%q", cache.Hash(body)[:16])
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
	}
	s.writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}
