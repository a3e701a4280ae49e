package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/2beens/fitassist/internal/garmin"
	"github.com/2beens/fitassist/internal/ingest"
	"github.com/2beens/fitassist/internal/storage"
	"github.com/2beens/fitassist/internal/telemetry/tracing"
	"github.com/2beens/fitassist/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	maxUploadMemory = 32 << 20
	fetchDateLayout = "2006-01-02"
)

type uploadResponse struct {
	Message string   `json:"message"`
	Files   []string `json:"files"`
	RunID   string   `json:"run_id"`
}

type fetchRequest struct {
	UserID string `json:"user_id"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

type fetchResponse struct {
	Message string `json:"message"`
	RunID   string `json:"run_id"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
}

func (handler *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.upload")
	defer span.End()
	r = r.WithContext(ctx)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		log.Errorf("upload: parse multipart form: %s", err)
		pkg.WriteJSONError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warnf("upload: remove multipart temp files: %s", err)
		}
	}()

	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, "upload", err, "")
		return
	}

	full := false
	if raw := r.FormValue("full"); raw != "" {
		full, err = strconv.ParseBool(raw)
		if err != nil {
			pkg.WriteJSONError(w, "invalid full flag", http.StatusBadRequest)
			return
		}
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		pkg.WriteJSONError(w, "no files uploaded", http.StatusBadRequest)
		return
	}

	if err := pkg.EnsureDir(handler.uploadDir); err != nil {
		log.Errorf("upload: ensure upload dir: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	dir, err := os.MkdirTemp(handler.uploadDir, "upload-")
	if err != nil {
		log.Errorf("upload: create temp dir: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	names := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := storeUploadedFile(dir, fh)
		if err != nil {
			if rmErr := os.RemoveAll(dir); rmErr != nil {
				log.Errorf("upload: remove temp dir %s: %s", dir, rmErr)
			}
			if errors.Is(err, errBadFileName) {
				pkg.WriteJSONError(w, "invalid file name", http.StatusBadRequest)
				return
			}
			log.Errorf("upload: store %s: %s", fh.Filename, err)
			pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		names = append(names, name)
	}

	runID := handler.ingestor.StartUpload(dir, userID, full)
	span.SetAttributes(
		attribute.String("run.id", runID),
		attribute.Int("files", len(names)),
	)
	log.Infof("upload: %d files for %s, ingest run %s started", len(names), userID, runID)

	pkg.WriteJSONResponse(w, uploadResponse{
		Message: "Files uploaded successfully. Processing in background.",
		Files:   names,
		RunID:   runID,
	}, http.StatusAccepted)
}

var errBadFileName = errors.New("bad file name")

func storeUploadedFile(dir string, fh *multipart.FileHeader) (_ string, err error) {
	name := filepath.Base(filepath.Clean("/" + fh.Filename))
	if name == "/" || name == "." || name == "" {
		return "", fmt.Errorf("%w: %q", errBadFileName, fh.Filename)
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}

func (handler *Handler) handleFetch(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if !handler.ingestor.CanFetch() {
		pkg.WriteJSONError(w, "remote fetching is not configured", http.StatusServiceUnavailable)
		return
	}

	// an empty body fetches the default range for the default user
	var req fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, err := storage.NormalizeUserID(req.UserID)
	if err != nil {
		writeError(w, "fetch", err, "")
		return
	}

	dateRange, err := parseDateRange(req.Start, req.End)
	if err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	runID, err := handler.ingestor.StartFetch(userID, dateRange)
	if err != nil {
		writeError(w, "fetch", err, "")
		return
	}
	log.Infof("fetch: ingest run %s started for %s [%s - %s]", runID, userID, req.Start, req.End)

	pkg.WriteJSONResponse(w, fetchResponse{
		Message: "Fetch started. Processing in background.",
		RunID:   runID,
		Start:   req.Start,
		End:     req.End,
	}, http.StatusAccepted)
}

func parseDateRange(start, end string) (garmin.DateRange, error) {
	var r garmin.DateRange
	var err error
	if start != "" {
		if r.Start, err = time.Parse(fetchDateLayout, start); err != nil {
			return r, errors.New("invalid start date, expected YYYY-MM-DD")
		}
	}
	if end != "" {
		if r.End, err = time.Parse(fetchDateLayout, end); err != nil {
			return r, errors.New("invalid end date, expected YYYY-MM-DD")
		}
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return r, errors.New("end date before start date")
	}
	return r, nil
}

func (handler *Handler) handleRunStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		pkg.WriteJSONError(w, "invalid run id", http.StatusBadRequest)
		return
	}

	status, err := handler.runStatuses.Get(r.Context(), id)
	if err != nil {
		writeError(w, "run status", err, "run not found")
		return
	}
	pkg.WriteJSONResponse(w, status, http.StatusOK)
}

func (handler *Handler) handleListData(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, "list data", err, "")
		return
	}

	available, err := handler.repo.List(r.Context(), userID)
	if err != nil {
		writeError(w, "list data", err, "no data found")
		return
	}
	pkg.WriteJSONResponse(w, available, http.StatusOK)
}

func (handler *Handler) handleDeleteData(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "DELETE, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	family, err := ingest.ParseFamily(mux.Vars(r)["family"])
	if err != nil {
		writeError(w, "delete data", err, "")
		return
	}
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, "delete data", err, "")
		return
	}
	timestamp := r.URL.Query().Get("timestamp")

	if err := handler.repo.Delete(r.Context(), family, userID, timestamp); err != nil {
		writeError(w, "delete data", err, fmt.Sprintf("no %s data found", family))
		return
	}

	log.Infof("deleted %s snapshot [%s] of %s", family, timestamp, userID)
	pkg.WriteJSONResponse(w, map[string]string{
		"deleted":   string(family),
		"timestamp": timestamp,
	}, http.StatusOK)
}
