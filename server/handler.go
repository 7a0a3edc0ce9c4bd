package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pagefuse/pagefuse/archive"
	"github.com/pagefuse/pagefuse/inline"
)

// Download filenames for the two input modes.
const (
	zipDownloadName = "combined_from_zip.html"
	urlDownloadName = "combined_from_url.html"
)

// handleCombine dispatches a POST / to the bundle or URL pipeline. The
// two input modes are mutually exclusive: a non-empty file upload wins,
// then the url form field.
func (s *Server) handleCombine(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	logger := s.logger.With("request_id", reqID)
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadSize)
	if err := r.ParseMultipartForm(s.cfg.Server.MaxUploadSize); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			s.metrics.observe("invalid", "error", time.Since(start).Seconds())
			plainError(w, http.StatusBadRequest, fmt.Errorf("parse form: %w", err))
			return
		}
		// Plain (non-multipart) form posts can still carry a url field.
		if err := r.ParseForm(); err != nil {
			s.metrics.observe("invalid", "error", time.Since(start).Seconds())
			plainError(w, http.StatusBadRequest, fmt.Errorf("parse form: %w", err))
			return
		}
	}

	if file, header, err := r.FormFile("file"); err == nil && header.Filename != "" {
		defer file.Close()
		s.combineZip(w, file, logger, start)
		return
	}

	if rawURL := r.FormValue("url"); rawURL != "" {
		s.combineURL(w, r, rawURL, logger, start)
		return
	}

	s.metrics.observe("invalid", "error", time.Since(start).Seconds())
	plainError(w, http.StatusBadRequest, errors.New("provide a ZIP file upload or a url form field"))
}

// combineZip runs the bundle pipeline: save the upload, extract it into a
// request-scoped directory, and inline everything found in the tree. The
// working directory is removed on every exit path.
func (s *Server) combineZip(w http.ResponseWriter, upload multipart.File, logger *slog.Logger, start time.Time) {
	outcome := "error"
	defer func() {
		s.metrics.observe("zip", outcome, time.Since(start).Seconds())
	}()

	workDir, err := os.MkdirTemp("", "pagefuse-*")
	if err != nil {
		logger.Error("create work directory", "error", err)
		plainError(w, http.StatusInternalServerError, errors.New("temporary storage unavailable"))
		return
	}
	defer os.RemoveAll(workDir)

	zipPath := filepath.Join(workDir, "upload.zip")
	if err := saveUpload(upload, zipPath); err != nil {
		logger.Error("save upload", "error", err)
		plainError(w, http.StatusBadRequest, err)
		return
	}

	bundleDir := filepath.Join(workDir, "bundle")
	if err := os.Mkdir(bundleDir, 0o755); err != nil {
		logger.Error("create bundle directory", "error", err)
		plainError(w, http.StatusInternalServerError, errors.New("temporary storage unavailable"))
		return
	}
	if err := archive.ExtractZip(zipPath, bundleDir, s.cfg.Server.MaxExtractedSize); err != nil {
		logger.Warn("extract archive", "error", err)
		plainError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.combiner.CombineBundle(os.DirFS(bundleDir))
	if err != nil {
		logger.Warn("combine bundle", "error", err)
		plainError(w, combineStatus(err), err)
		return
	}

	outcome = "ok"
	s.metrics.assetsInlined.Add(float64(result.Inlined))
	logger.Info("bundle combined", "inlined", result.Inlined)
	sendDocument(w, zipDownloadName, result.HTML)
}

// combineURL runs the remote pipeline against a user-supplied URL.
func (s *Server) combineURL(w http.ResponseWriter, r *http.Request, rawURL string, logger *slog.Logger, start time.Time) {
	outcome := "error"
	defer func() {
		s.metrics.observe("url", outcome, time.Since(start).Seconds())
	}()

	result, err := s.combiner.CombineURL(r.Context(), rawURL)
	if err != nil {
		logger.Warn("combine url", "url", rawURL, "error", err)
		plainError(w, combineStatus(err), err)
		return
	}

	outcome = "ok"
	s.metrics.assetsInlined.Add(float64(result.Inlined))
	s.metrics.assetsSkipped.Add(float64(result.Skipped))
	logger.Info("url combined", "url", rawURL, "inlined", result.Inlined, "skipped", result.Skipped)
	sendDocument(w, urlDownloadName, result.HTML)
}

// saveUpload copies the uploaded file to disk.
func saveUpload(upload multipart.File, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, upload); err != nil {
		return fmt.Errorf("write upload: %w", err)
	}
	return nil
}

// sendDocument writes the combined document as an attachment download.
func sendDocument(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// plainError renders a fatal pipeline error as a plain-text body.
func plainError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, "An error occurred: %v\n", err)
}

// combineStatus maps pipeline errors to HTTP status codes: a bundle with
// no document is the client's fault, everything else is an upstream or
// internal failure.
func combineStatus(err error) int {
	if errors.Is(err, inline.ErrNoDocument) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}
