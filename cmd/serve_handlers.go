package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/pipeline"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to disk.
const multipartMemory = 8 << 20

type textRequest struct {
	Text          string   `json:"text" validate:"required"`
	OCRConfidence *float64 `json:"ocr_confidence" validate:"omitempty,min=0,max=1"`
	Enrich        *bool    `json:"enrich"`
}

func (s *apiServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/cards", s.handleCard)
		r.Post("/cards/text", s.handleText)
		r.Post("/batches", s.handleBatch)
		r.Get("/batches/{id}", s.handleBatchStatus)
	})
	return r
}

func (s *apiServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatus(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatus(w, http.StatusOK, map[string]any{
		"pipeline": s.pipeline.Status(),
		"breakers": s.breakers.Statuses(),
	})
}

// handleCard processes one uploaded image synchronously.
func (s *apiServer) handleCard(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.pipeline.Images().MaxBytes()+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close() //nolint:errcheck

	if err := s.pipeline.Images().CheckName(header.Filename); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dir, err := os.MkdirTemp(s.uploadDir, "card-*")
	if err != nil {
		zap.L().Error("api: create upload dir", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	path, err := saveUpload(dir, filepath.Base(header.Filename), file)
	if err != nil {
		zap.L().Error("api: save upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}

	res := s.pipeline.ProcessImage(r.Context(), path, opts)
	status := http.StatusOK
	if res.FailureKind == model.FailureInvalidFile {
		status = http.StatusBadRequest
	}
	writeJSONStatus(w, status, res)
}

// handleText parses already-recognized text.
func (s *apiServer) handleText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := pipeline.Options{Enrich: s.enrichDefault}
	if req.Enrich != nil {
		opts.Enrich = *req.Enrich
	}
	writeJSONStatus(w, http.StatusOK, s.pipeline.ProcessText(r.Context(), req.Text, req.OCRConfidence, opts))
}

// handleBatch stores the uploaded images and starts an async batch job.
func (s *apiServer) handleBatch(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	maxImages := s.pipeline.MaxImages()
	if maxImages > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, int64(maxImages)*s.pipeline.Images().MaxBytes()+multipartMemory)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	files := r.MultipartForm.File["images[]"]
	if len(files) == 0 {
		files = r.MultipartForm.File["images"]
	}
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no images uploaded")
		return
	}
	if maxImages > 0 && len(files) > maxImages {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d images per batch", maxImages))
		return
	}

	dir, err := os.MkdirTemp(s.uploadDir, "batch-*")
	if err != nil {
		zap.L().Error("api: create batch dir", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}
	paths := make([]string, 0, len(files))
	for i, fh := range files {
		path, err := saveFileHeader(dir, i, fh)
		if err != nil {
			_ = os.RemoveAll(dir)
			zap.L().Error("api: save batch upload", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "could not store upload")
			return
		}
		paths = append(paths, path)
	}

	job := s.jobs.Submit(s.ctx, paths, opts, func() {
		if err := os.RemoveAll(dir); err != nil {
			zap.L().Warn("api: remove batch uploads", zap.String("dir", dir), zap.Error(err))
		}
	})
	w.Header().Set("Location", "/api/batches/"+job.ID)
	writeJSONStatus(w, http.StatusAccepted, job)
}

func (s *apiServer) handleBatchStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "batch not found")
		return
	}
	writeJSONStatus(w, http.StatusOK, job)
}

// options reads the enrich and force_vlm query parameters.
func (s *apiServer) options(r *http.Request) (pipeline.Options, error) {
	opts := pipeline.Options{Enrich: s.enrichDefault}
	q := r.URL.Query()
	if v := q.Get("enrich"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, eris.Errorf("invalid enrich value %q", v)
		}
		opts.Enrich = b
	}
	if v := q.Get("force_vlm"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, eris.Errorf("invalid force_vlm value %q", v)
		}
		opts.ForceVLM = b
	}
	return opts, nil
}

// saveFileHeader stores the i-th file of a batch, prefixing the index so
// duplicate names do not collide.
func saveFileHeader(dir string, i int, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck
	return saveUpload(dir, fmt.Sprintf("%03d_%s", i, filepath.Base(fh.Filename)), f)
}

func saveUpload(dir, name string, src io.Reader) (string, error) {
	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", err
	}
	return path, dst.Close()
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSONStatus(w, status, map[string]any{
		"error":     msg,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
