// Package httpapi is the thin HTTP transport around the document session
// core: session requests, the editing-server callback, uploads, listings,
// deletion and content download.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/docbridge/internal/callback"
	"github.com/dmitrijs2005/docbridge/internal/common"
	"github.com/dmitrijs2005/docbridge/internal/dockey"
	"github.com/dmitrijs2005/docbridge/internal/logging"
	"github.com/dmitrijs2005/docbridge/internal/session"
	"github.com/dmitrijs2005/docbridge/internal/storage"
)

// maxCallbackBody bounds the callback JSON payload; document content itself
// travels over the separate fetch URL, not the callback body.
const maxCallbackBody = 1 << 20

type Server struct {
	store             *storage.FileStorage
	sessions          *session.Builder
	callbacks         *callback.Processor
	documentServerURL string
	maxUploadSize     int64
	logger            logging.Logger
}

func NewServer(store *storage.FileStorage, sessions *session.Builder, callbacks *callback.Processor,
	documentServerURL string, maxUploadSize int64, logger logging.Logger) *Server {
	return &Server{
		store:             store,
		sessions:          sessions,
		callbacks:         callbacks,
		documentServerURL: documentServerURL,
		maxUploadSize:     maxUploadSize,
		logger:            logger,
	}
}

// Handler returns the root handler with CORS applied.
func (s *Server) Handler() http.Handler {
	return withCORS(http.HandlerFunc(s.route))
}

func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case path == "/api/health" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"service":   "docbridge",
			"timestamp": time.Now().UnixMilli(),
		})

	case path == "/api/office/info" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]string{
			"documentServerUrl": s.documentServerURL,
			"apiUrl":            s.documentServerURL + "/web-apps/apps/api/documents/api.js",
		})

	case path == "/api/office/callback" && r.Method == http.MethodPost:
		s.handleCallback(w, r)

	case path == "/api/docs" && r.Method == http.MethodGet:
		s.handleList(w, r)

	case path == "/api/docs/upload" && r.Method == http.MethodPost:
		s.handleUpload(w, r)

	case strings.HasPrefix(path, "/api/docs/") && r.Method == http.MethodDelete:
		s.handleDelete(w, r, strings.TrimPrefix(path, "/api/docs/"))

	case strings.HasPrefix(path, "/api/doc/") && r.Method == http.MethodGet:
		s.handleSession(w, r, strings.TrimPrefix(path, "/api/doc/"))

	case strings.HasPrefix(path, "/uploads/") && r.Method == http.MethodGet:
		s.handleDownload(w, r, strings.TrimPrefix(path, "/uploads/"))

	default:
		writeError(w, http.StatusNotFound, "route not found")
	}
}

// handleSession answers a session request with the signed editor descriptor.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request, id string) {
	q := r.URL.Query()

	cfg, err := s.sessions.Build(r.Context(), session.Request{
		DocumentID: id,
		FileType:   q.Get("fileType"),
		UserID:     q.Get("userId"),
		UserName:   q.Get("userName"),
		Mode:       q.Get("mode"),
	})
	if err != nil {
		s.logger.Warn(r.Context(), "session request failed", "id", id, "reason", err.Error())
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}

// handleCallback decodes and processes an editing-server callback. The
// endpoint always answers HTTP 200; processing failure is communicated only
// via the error field in the body, per the editing server's retry contract.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	var ev callback.Event

	body := http.MaxBytesReader(w, r.Body, maxCallbackBody)
	if err := json.NewDecoder(body).Decode(&ev); err != nil {
		s.logger.Warn(r.Context(), "undecodable callback payload", "reason", err.Error())
		writeJSON(w, http.StatusOK, map[string]any{"error": 1, "message": "invalid callback payload"})
		return
	}

	s.logger.Info(r.Context(), "callback received", "status", ev.Status.String(), "key", ev.Key)

	if err := s.callbacks.Process(r.Context(), &ev); err != nil {
		s.logger.Error(r.Context(), "callback processing failed", "key", ev.Key, "reason", err.Error())
		writeJSON(w, http.StatusOK, map[string]any{"error": 1, "message": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"error": 0})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	docs := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, map[string]string{"id": id})
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize+maxCallbackBody)

	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	id, err := s.store.SaveUpload(header.Filename, header.Size, file)
	if err != nil {
		s.logger.Warn(r.Context(), "upload rejected", "name", header.Filename, "reason", err.Error())
		writeError(w, statusFor(err), err.Error())
		return
	}

	s.logger.Info(r.Context(), "document uploaded", "id", id, "size", header.Size)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "documentId": id})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	fileType := r.URL.Query().Get("fileType")
	if fileType == "" {
		fileType = session.DefaultFileType
	}

	if err := s.store.Delete(id, fileType); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	s.logger.Info(r.Context(), "document deleted", "id", id, "fileType", fileType)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleDownload serves stored content. Containment is delegated to the
// storage resolver; responses are uncached so the editor always fetches the
// latest save.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request, name string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		writeError(w, http.StatusBadRequest, "invalid document name")
		return
	}

	p, err := s.store.FilePath(name[:i], name[i+1:])
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	http.ServeFile(w, r, p)
}

// statusFor maps the shared error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrSizeLimitExceeded):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrInvalidDocumentID),
		errors.Is(err, common.ErrInvalidPath),
		errors.Is(err, common.ErrUnsupportedFileType),
		errors.Is(err, dockey.ErrKeyTooLong):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrSignatureMismatch),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrMalformedToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success":   false,
		"error":     message,
		"status":    status,
		"timestamp": time.Now().UnixMilli(),
	})
}

// withCORS applies a permissive CORS policy; deployments fronted by a fixed
// origin should tighten this at the proxy.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
