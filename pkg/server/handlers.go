package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/wordcloud/pkg/buildinfo"
	"github.com/matzehuels/wordcloud/pkg/cloud"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/render/sink"
	"github.com/matzehuels/wordcloud/pkg/session"
)

// sessionResponse is the JSON view of a session.
type sessionResponse struct {
	ID    string        `json:"id"`
	State session.State `json:"state"`
	Stats cloud.Stats   `json:"stats"`
}

func view(id string, sess *session.Session) sessionResponse {
	return sessionResponse{ID: id, State: sess.Snapshot(), Stats: sess.Stats()}
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Current())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, sess, err := s.create(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+id)
	writeJSON(w, http.StatusCreated, view(id, sess))
}

// withSession resolves the {id} parameter before calling fn.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(id string, sess *session.Session)) {
	id := chi.URLParam(r, "id")
	sess, err := s.lookup(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	fn(id, sess)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session.Session) {
		writeJSON(w, http.StatusOK, view(id, sess))
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session.Session) {
		sess.Clear()
		s.drop(id)
		w.WriteHeader(http.StatusNoContent)
	})
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session.Session) {
		var cfg cloud.LayoutConfig
		if err := decodeJSON(w, r, &cfg); err != nil {
			s.writeError(w, err)
			return
		}
		if err := sess.SetConfig(cfg); err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view(id, sess))
	})
}

func (s *Server) handleSetEntries(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session.Session) {
		var entries []cloud.NameEntry
		if err := decodeJSON(w, r, &entries); err != nil {
			s.writeError(w, err)
			return
		}
		for _, e := range entries {
			if err := errors.ValidateLabel(e.Label); err != nil {
				s.writeError(w, err)
				return
			}
		}
		if err := sess.SetEntries(entries); err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view(id, sess))
	})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session.Session) {
		body, err := readBody(w, r)
		if err != nil {
			s.writeError(w, err)
			return
		}
		n := sess.ImportCSV(string(body))
		writeJSON(w, http.StatusOK, map[string]any{"imported": n, "session": view(id, sess)})
	})
}

func (s *Server) handleAddNames(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session.Session) {
		body, err := readBody(w, r)
		if err != nil {
			s.writeError(w, err)
			return
		}
		n := sess.AddNames(string(body))
		writeJSON(w, http.StatusOK, map[string]any{"added": n, "session": view(id, sess)})
	})
}

func (s *Server) handleReseed(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session.Session) {
		var seed uint64
		if q := r.URL.Query().Get("seed"); q != "" {
			v, err := strconv.ParseUint(q, 10, 64)
			if err != nil {
				s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid seed %q", q))
				return
			}
			seed = v
		}
		sess.Reseed(seed)
		writeJSON(w, http.StatusOK, view(id, sess))
	})
}

func labelParam(r *http.Request) string {
	raw := chi.URLParam(r, "label")
	if label, err := url.PathUnescape(raw); err == nil {
		return label
	}
	return raw
}

func (s *Server) handleToggleHidden(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session.Session) {
		if err := sess.ToggleHidden(labelParam(r)); err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view(id, sess))
	})
}

func (s *Server) handleToggleHighlight(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(id string, sess *session.Session) {
		if err := sess.ToggleHighlight(labelParam(r)); err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view(id, sess))
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(_ string, sess *session.Session) {
		res, err := sess.RequestLayout(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		opts := sess.PipelineOptions()
		data, err := sink.RenderJSON(res, opts.Config, opts.Seed)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})
}

func (s *Server) handlePreview(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.withSession(w, r, func(_ string, sess *session.Session) {
			res, err := sess.RequestLayout(r.Context())
			if err != nil {
				s.writeError(w, err)
				return
			}
			opts := sess.PipelineOptions()
			opts.Formats = []string{format}
			artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), res, opts)
			if err != nil {
				s.writeError(w, err)
				return
			}
			w.Header().Set("Content-Type", contentType)
			w.Header().Set("X-Cache", cacheHeader(hit))
			w.Write(artifacts[format])
		})
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(_ string, sess *session.Session) {
		var buf bytes.Buffer
		proj, err := sess.ExportPDF(r.Context(), &buf)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sink.ExportFileName(time.Now())))
		w.Header().Set("X-Unresolved-Words", strconv.Itoa(len(proj.Unresolved)))
		w.Write(buf.Bytes())
	})
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// =============================================================================
// Request and response helpers
// =============================================================================

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	return body, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidKey:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= 500 {
		s.logger.Error("request failed", "code", code, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: code})
}
