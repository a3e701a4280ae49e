package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/2beens/fitassist/internal/advisor"
	"github.com/2beens/fitassist/internal/analysis"
	"github.com/2beens/fitassist/internal/ingest"
	"github.com/2beens/fitassist/internal/storage"
	"github.com/2beens/fitassist/internal/telemetry/tracing"
	"github.com/2beens/fitassist/pkg"

	log "github.com/sirupsen/logrus"
)

const (
	recommendedWorkouts = 3
	progressWeeks       = 4
	defaultPlanWeeks    = 8
	defaultPlanSessions = 4
	maxPlanWeeks        = 52
	maxPlanSessions     = 14
)

type recommendationsResponse struct {
	WorkoutSuggestions      []advisor.Workout         `json:"workout_suggestions"`
	RecoveryRecommendations *advisor.RecoveryAdvice   `json:"recovery_recommendations"`
	ProgressAnalysis        *advisor.ProgressAnalysis `json:"progress_analysis"`
}

type trainingPlanRequest struct {
	advisor.PlanRequest
	UserID string `json:"user_id"`
}

func (handler *Handler) handleRaceTimes(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, "race times", err, "")
		return
	}
	days, err := intParam(r, "days", defaultAnalysisDays)
	if err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	distance := r.URL.Query().Get("distance")
	if distance == "" {
		distance = defaultDistance
	}

	report, err := handler.analyzer.RaceTimes(r.Context(), userID, distance, days)
	if err != nil {
		writeError(w, "race times", err, "No race predictions data found")
		return
	}
	pkg.WriteJSONResponse(w, report, http.StatusOK)
}

func (handler *Handler) handleTrainingStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, "training status", err, "")
		return
	}
	days, err := intParam(r, "days", defaultAnalysisDays)
	if err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := handler.analyzer.TrainingStatus(r.Context(), userID, days)
	if err != nil {
		writeError(w, "training status", err, "No training history data found")
		return
	}
	pkg.WriteJSONResponse(w, report, http.StatusOK)
}

func (handler *Handler) handleHeatAltitude(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, "heat altitude", err, "")
		return
	}
	days, err := intParam(r, "days", defaultAnalysisDays)
	if err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := handler.analyzer.HeatAltitude(r.Context(), userID, days)
	if err != nil {
		writeError(w, "heat altitude", err, "No heat and altitude data found")
		return
	}
	pkg.WriteJSONResponse(w, report, http.StatusOK)
}

func (handler *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recommendations")
	defer span.End()

	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, "recommendations", err, "")
		return
	}

	data, err := handler.trainingData(ctx, userID)
	if err != nil {
		writeError(w, "recommendations", err, "")
		return
	}
	if tableEmpty(data.RacePredictions) && tableEmpty(data.TrainingHistory) {
		pkg.WriteJSONError(w, "Insufficient data for recommendations", http.StatusNotFound)
		return
	}

	workouts, err := handler.advisor.SuggestWorkouts(ctx, data, recommendedWorkouts)
	if err != nil {
		writeError(w, "recommendations", err, "")
		return
	}
	recovery, err := handler.advisor.EvaluateRecovery(ctx, data)
	if err != nil {
		writeError(w, "recommendations", err, "")
		return
	}
	progress, err := handler.advisor.AnalyzeProgress(ctx, data, progressWeeks)
	if err != nil {
		writeError(w, "recommendations", err, "")
		return
	}

	pkg.WriteJSONResponse(w, recommendationsResponse{
		WorkoutSuggestions:      workouts,
		RecoveryRecommendations: recovery,
		ProgressAnalysis:        progress,
	}, http.StatusOK)
}

func (handler *Handler) handleTrainingPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trainingPlan")
	defer span.End()

	var req trainingPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Weeks == 0 {
		req.Weeks = defaultPlanWeeks
	}
	if req.SessionsPerWeek == 0 {
		req.SessionsPerWeek = defaultPlanSessions
	}
	if err := validatePlanRequest(req.PlanRequest); err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	userID, err := storage.NormalizeUserID(req.UserID)
	if err != nil {
		writeError(w, "training plan", err, "")
		return
	}

	data, err := handler.trainingData(ctx, userID)
	if err != nil {
		writeError(w, "training plan", err, "")
		return
	}

	plan, err := handler.advisor.TrainingPlan(ctx, data, req.PlanRequest)
	if err != nil {
		writeError(w, "training plan", err, "")
		return
	}
	pkg.WriteJSONResponse(w, plan, http.StatusOK)
}

func validatePlanRequest(req advisor.PlanRequest) error {
	if _, err := analysis.DistanceColumn(req.GoalDistance); err != nil {
		return errors.New("invalid goal_distance")
	}
	if req.TargetTime == "" {
		return errors.New("target_time missing")
	}
	if req.Weeks < 1 || req.Weeks > maxPlanWeeks {
		return errors.New("invalid weeks")
	}
	if req.SessionsPerWeek < 1 || req.SessionsPerWeek > maxPlanSessions {
		return errors.New("invalid sessions_per_week")
	}
	return nil
}

// trainingData loads the latest snapshots advice is based on. Missing
// families stay nil.
func (handler *Handler) trainingData(ctx context.Context, userID string) (advisor.TrainingData, error) {
	var data advisor.TrainingData
	targets := []struct {
		family ingest.Family
		dst    **ingest.Table
	}{
		{family: ingest.FamilyRacePredictions, dst: &data.RacePredictions},
		{family: ingest.FamilyTrainingHistory, dst: &data.TrainingHistory},
		{family: ingest.FamilyActivities, dst: &data.Activities},
	}

	for _, target := range targets {
		t, err := handler.repo.Load(ctx, target.family, userID, "")
		if errors.Is(err, storage.ErrSnapshotNotFound) {
			log.Debugf("training data of %s: no %s snapshot", userID, target.family)
			continue
		}
		if err != nil {
			return data, err
		}
		*target.dst = t
	}
	return data, nil
}

func tableEmpty(t *ingest.Table) bool {
	return t == nil || t.Empty()
}
