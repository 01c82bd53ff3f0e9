package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Sreyas-J-S/CutStack/pkg/buildinfo"
	"github.com/Sreyas-J-S/CutStack/pkg/errors"
	"github.com/Sreyas-J-S/CutStack/pkg/impose"
	"github.com/Sreyas-J-S/CutStack/pkg/observability"
)

// Multipart form field names, fixed by the public API.
const (
	formFilePDF       = "pdf_file"
	formFieldNUp      = "n_up"
	formFieldPassword = "password"

	// maxFormMemory bounds the in-memory part of multipart parsing; larger
	// uploads spill to temp files.
	maxFormMemory = 32 << 20
)

// errorResponse is the JSON error envelope shared by all endpoints.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleProcess accepts a PDF upload and responds with the imposed document.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	src, filename, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	density := impose.DefaultDensity
	if v := strings.TrimSpace(r.FormValue(formFieldNUp)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidDensity, "n_up must be an integer, got %q", v))
			return
		}
		density = n
	}
	if density < 1 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidDensity, "n_up must be >= 1, got %d", density))
		return
	}
	if density > s.cfg.MaxDensity {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidDensity, "n_up %d exceeds the maximum of %d", density, s.cfg.MaxDensity))
		return
	}

	if err := s.gate.Enter(); err != nil {
		observability.Server().OnRejected(ctx, r.Method, r.URL.Path, "capacity")
		s.writeError(w, r, err)
		return
	}
	defer s.gate.Leave()

	opts := impose.Options{
		Density:     density,
		SheetWidth:  s.cfg.SheetWidth,
		SheetHeight: s.cfg.SheetHeight,
		Password:    r.FormValue(formFieldPassword),
		Logger:      s.logger.With("request_id", RequestID(ctx)),
	}

	var result *impose.Result
	err = s.gate.Render(func() error {
		var runErr error
		result, runErr = s.runner.Run(ctx, src, opts)
		return runErr
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(result.Output) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "document has no pages"))
		return
	}

	name := fmt.Sprintf("imposed_%dup_%s", density, errors.SanitizeFilename(filename))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("X-Imposition-Grid", result.Grid.String())
	w.Header().Set("X-Imposition-Sheets", strconv.Itoa(result.Sheets))
	if result.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Output)
}

// handleCountPages reports the page count of an uploaded document without
// composing anything.
func (s *Server) handleCountPages(w http.ResponseWriter, r *http.Request) {
	src, _, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	info, _, err := s.runner.Inspect(r.Context(), src, r.FormValue(formFieldPassword))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"pages": info.Pages})
}

// readUpload extracts the uploaded document from the multipart form,
// enforcing the configured size cap on the whole request body.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		if maxBytesExceeded(err) {
			return nil, "", errors.Wrap(errors.ErrCodeContentTooLarge, err, "upload exceeds %d bytes", s.cfg.MaxUploadBytes)
		}
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "parse multipart form")
	}

	file, header, err := r.FormFile(formFilePDF)
	if err != nil {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "form file %q is required", formFilePDF)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		if maxBytesExceeded(err) {
			return nil, "", errors.Wrap(errors.ErrCodeContentTooLarge, err, "upload exceeds %d bytes", s.cfg.MaxUploadBytes)
		}
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read upload")
	}

	return data, header.Filename, nil
}

// writeError renders the error envelope with the HTTP status implied by the
// error code. Capacity rejections additionally carry a Retry-After header.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := RequestID(r.Context())

	var capErr *errors.CapacityError
	if stderrors.As(err, &capErr) {
		w.Header().Set("Retry-After", strconv.Itoa(capErr.RetryAfter))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:     capErr.Error(),
			Code:      string(capErr.Code()),
			RequestID: requestID,
		})
		return
	}

	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"request_id", requestID,
			"code", code,
			"error", err)
	}

	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(code),
		RequestID: requestID,
	})
}

// statusForCode maps error codes onto HTTP statuses. Client mistakes map to
// 4xx; anything unrecognized is a 500.
func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidDensity,
		errors.ErrCodeInvalidSheet,
		errors.ErrCodeDocumentMalformed,
		errors.ErrCodeDocumentEncrypted:
		return http.StatusBadRequest
	case errors.ErrCodeContentTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeCapacityExceeded:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func maxBytesExceeded(err error) bool {
	var mbe *http.MaxBytesError
	return stderrors.As(err, &mbe)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
