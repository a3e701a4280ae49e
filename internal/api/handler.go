package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/fitassist/internal/advisor"
	"github.com/2beens/fitassist/internal/analysis"
	"github.com/2beens/fitassist/internal/garmin"
	"github.com/2beens/fitassist/internal/ingest"
	"github.com/2beens/fitassist/internal/middleware"
	"github.com/2beens/fitassist/internal/pipeline"
	"github.com/2beens/fitassist/internal/storage"
	"github.com/2beens/fitassist/internal/telemetry/metrics"
	"github.com/2beens/fitassist/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=api_test

const (
	defaultAnalysisDays = 90
	defaultDistance     = analysis.Distance5K
)

type snapshotRepo interface {
	Load(ctx context.Context, family ingest.Family, userID, timestamp string) (*ingest.Table, error)
	List(ctx context.Context, userID string) (map[ingest.Family][]string, error)
	Delete(ctx context.Context, family ingest.Family, userID, timestamp string) error
}

type runAnalyzer interface {
	RaceTimes(ctx context.Context, userID, distance string, days int) (*analysis.RaceTimesReport, error)
	TrainingStatus(ctx context.Context, userID string, days int) (*analysis.TrainingStatusReport, error)
	HeatAltitude(ctx context.Context, userID string, days int) (*analysis.HeatAltitudeAnalysis, error)
}

type trainingAdvisor interface {
	SuggestWorkouts(ctx context.Context, data advisor.TrainingData, count int) ([]advisor.Workout, error)
	EvaluateRecovery(ctx context.Context, data advisor.TrainingData) (*advisor.RecoveryAdvice, error)
	AnalyzeProgress(ctx context.Context, data advisor.TrainingData, weeks int) (*advisor.ProgressAnalysis, error)
	TrainingPlan(ctx context.Context, data advisor.TrainingData, req advisor.PlanRequest) (*advisor.TrainingPlan, error)
}

type ingestRunner interface {
	StartUpload(dir, userID string, full bool) string
	StartFetch(userID string, r garmin.DateRange) (string, error)
	CanFetch() bool
}

type runStatusReader interface {
	Get(ctx context.Context, id string) (*pipeline.RunStatus, error)
}

type Handler struct {
	repo        snapshotRepo
	analyzer    runAnalyzer
	advisor     trainingAdvisor
	ingestor    ingestRunner
	runStatuses runStatusReader
	uploadDir   string
}

func NewHandler(
	repo snapshotRepo,
	analyzer runAnalyzer,
	advisor trainingAdvisor,
	ingestor ingestRunner,
	runStatuses runStatusReader,
	uploadDir string,
) *Handler {
	return &Handler{
		repo:        repo,
		analyzer:    analyzer,
		advisor:     advisor,
		ingestor:    ingestor,
		runStatuses: runStatuses,
		uploadDir:   uploadDir,
	}
}

func (handler *Handler) SetupRoutes(
	r *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	ingestAllowedPerMin int,
) {
	r.HandleFunc("/", handler.handleRoot).Methods("GET").Name("root")

	// uploads and fetches start background work, keep them on a short leash
	limited := middleware.RateLimit(rateLimiter, "ingest", ingestAllowedPerMin, metricsManager)
	r.Handle("/upload", limited(http.HandlerFunc(handler.handleUpload))).Methods("POST", "OPTIONS").Name("upload")
	r.Handle("/fetch", limited(http.HandlerFunc(handler.handleFetch))).Methods("POST", "OPTIONS").Name("fetch")
	r.HandleFunc("/runs/{id}", handler.handleRunStatus).Methods("GET").Name("run-status")

	r.HandleFunc("/analyze/race_times", handler.handleRaceTimes).Methods("GET").Name("analyze-race-times")
	r.HandleFunc("/analyze/training_status", handler.handleTrainingStatus).Methods("GET").Name("analyze-training-status")
	r.HandleFunc("/analyze/heat_altitude", handler.handleHeatAltitude).Methods("GET").Name("analyze-heat-altitude")

	r.HandleFunc("/recommendations", handler.handleRecommendations).Methods("GET").Name("recommendations")
	r.HandleFunc("/training_plan", handler.handleTrainingPlan).Methods("POST", "OPTIONS").Name("training-plan")

	r.HandleFunc("/data/list", handler.handleListData).Methods("GET").Name("list-data")
	r.HandleFunc("/data/{family}", handler.handleDeleteData).Methods("DELETE", "OPTIONS").Name("delete-data")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSONResponse(w, map[string]string{"message": "Welcome to Garmin Fitness Assistant API"}, http.StatusOK)
}

// userIDParam reads user_id from the query or form, falling back to the default user.
func userIDParam(r *http.Request) (string, error) {
	return storage.NormalizeUserID(r.FormValue("user_id"))
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, errors.New("invalid " + name)
	}
	return v, nil
}

// writeError maps domain errors onto status codes. Details only go to the log.
func writeError(w http.ResponseWriter, op string, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, storage.ErrSnapshotNotFound),
		errors.Is(err, analysis.ErrNoData),
		errors.Is(err, pipeline.ErrRunNotFound):
		log.Debugf("%s: %s", op, err)
		pkg.WriteJSONError(w, notFoundMsg, http.StatusNotFound)
	case errors.Is(err, analysis.ErrInvalidDistance):
		pkg.WriteJSONError(w, "invalid distance", http.StatusBadRequest)
	case errors.Is(err, storage.ErrInvalidID), errors.Is(err, ingest.ErrUnknownFamily):
		pkg.WriteJSONError(w, "invalid identifier", http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", op, err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}
