//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/fitassist/internal/pipeline"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportFiles = map[string]string{
	"RunRacePredictions_20240101_20240601_1.json": `[
		{"timestamp": "2024-03-01", "raceTime5K": 1520, "raceTime10K": 3190, "raceTimeHalf": 7100, "raceTimeMarathon": 15200},
		{"timestamp": "2024-03-20", "raceTime5K": 1490, "raceTime10K": 3120, "raceTimeHalf": 6950, "raceTimeMarathon": 14900}
	]`,
	"TrainingHistory_20240101_20240601_1.json": `[
		{"calendarDate": "2024-03-01", "trainingStatus": "productive"},
		{"calendarDate": "2024-03-02", "trainingStatus": "maintaining"}
	]`,
	"summarizedActivities_1.json": `[{"summarizedActivitiesExport": [
		{"activityId": 1, "activityType": "running", "startTimeLocal": 1709280000000, "distance": 500000, "duration": 1500000}
	]}]`,
}

func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path, contentType string, body io.Reader) (int, []byte) {
	t := s.T()
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) upload(ctx context.Context, userID string) string {
	t := s.T()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("user_id", userID))
	for name, content := range exportFiles {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	status, body := s.doRequest(ctx, http.MethodPost, "/upload", mw.FormDataContentType(), &buf)
	require.Equal(t, http.StatusAccepted, status, string(body))

	var uploadResp struct {
		Files []string `json:"files"`
		RunID string   `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal(body, &uploadResp))
	assert.Len(t, uploadResp.Files, len(exportFiles))
	require.NotEmpty(t, uploadResp.RunID)
	return uploadResp.RunID
}

func (s *IntegrationTestSuite) waitForRun(ctx context.Context, runID string) pipeline.RunStatus {
	t := s.T()
	var runStatus pipeline.RunStatus
	require.Eventually(t, func() bool {
		status, body := s.doRequest(ctx, http.MethodGet, "/runs/"+runID, "", nil)
		if status != http.StatusOK {
			return false
		}
		require.NoError(t, json.Unmarshal(body, &runStatus))
		return runStatus.State != pipeline.StateRunning
	}, 20*time.Second, 200*time.Millisecond)
	return runStatus
}

func (s *IntegrationTestSuite) TestUploadAnalyzeDelete() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	t := s.T()
	userID := strings.ToLower(gofakeit.Username())

	runID := s.upload(ctx, userID)
	runStatus := s.waitForRun(ctx, runID)
	require.Equal(t, pipeline.StateSuccess, runStatus.State, runStatus.Error)
	assert.Equal(t, pipeline.SourceUpload, runStatus.Source)
	assert.Equal(t, userID, runStatus.UserID)
	assert.Equal(t, 2, runStatus.Rows["race_predictions"])
	assert.Equal(t, 1, runStatus.Rows["activities"])

	var snapshotRows int
	require.NoError(t, s.DB.QueryRow(ctx, `SELECT count(*) FROM snapshot WHERE user_id = $1;`, userID).Scan(&snapshotRows))
	assert.Equal(t, 3, snapshotRows)

	status, body := s.doRequest(ctx, http.MethodGet, "/data/list?user_id="+userID, "", nil)
	require.Equal(t, http.StatusOK, status)
	var listResp map[string][]string
	require.NoError(t, json.Unmarshal(body, &listResp))
	assert.Len(t, listResp["race_predictions"], 1)
	assert.Len(t, listResp["training_history"], 1)
	assert.Len(t, listResp["activities"], 1)

	status, body = s.doRequest(ctx, http.MethodGet, "/analyze/race_times?distance=10K&days=36500&user_id="+userID, "", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var raceTimes struct {
		LatestPredictions map[string]string `json:"latest_predictions"`
		Improvement       struct {
			Improved bool `json:"improved"`
		} `json:"improvement"`
	}
	require.NoError(t, json.Unmarshal(body, &raceTimes))
	assert.Equal(t, "52:00", raceTimes.LatestPredictions["10K"])
	assert.True(t, raceTimes.Improvement.Improved)

	status, body = s.doRequest(ctx, http.MethodGet, "/analyze/training_status?days=36500&user_id="+userID, "", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Contains(t, string(body), `"productive":1`)

	status, body = s.doRequest(ctx, http.MethodGet, "/recommendations?user_id="+userID, "", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Contains(t, string(body), "workout_suggestions")

	planReq := fmt.Sprintf(`{"goal_distance": "Half", "target_time": "1:45:00", "weeks": 4, "user_id": %q}`, userID)
	status, body = s.doRequest(ctx, http.MethodPost, "/training_plan", "application/json", strings.NewReader(planReq))
	require.Equal(t, http.StatusOK, status, string(body))
	var plan struct {
		Weeks          int                 `json:"weeks"`
		StructuredPlan map[string][]string `json:"structured_plan"`
	}
	require.NoError(t, json.Unmarshal(body, &plan))
	assert.Equal(t, 4, plan.Weeks)
	assert.NotEmpty(t, plan.StructuredPlan)

	status, _ = s.doRequest(ctx, http.MethodDelete, "/data/race_predictions?user_id="+userID, "", nil)
	require.Equal(t, http.StatusOK, status)

	status, body = s.doRequest(ctx, http.MethodGet, "/analyze/race_times?user_id="+userID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), "No race predictions data found")
}

func (s *IntegrationTestSuite) TestUploadTwice_KeepsBothSnapshots() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	t := s.T()
	userID := strings.ToLower(gofakeit.Username())

	for i := 0; i < 2; i++ {
		runStatus := s.waitForRun(ctx, s.upload(ctx, userID))
		require.Equal(t, pipeline.StateSuccess, runStatus.State, runStatus.Error)
	}

	status, body := s.doRequest(ctx, http.MethodGet, "/data/list?user_id="+userID, "", nil)
	require.Equal(t, http.StatusOK, status)
	var listResp map[string][]string
	require.NoError(t, json.Unmarshal(body, &listResp))
	require.Len(t, listResp["activities"], 2)
	assert.NotEqual(t, listResp["activities"][0], listResp["activities"][1])
}

func (s *IntegrationTestSuite) TestFetch_NotConfigured() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status, _ := s.doRequest(ctx, http.MethodPost, "/fetch", "application/json", strings.NewReader(`{}`))
	assert.Equal(s.T(), http.StatusServiceUnavailable, status)
}

func (s *IntegrationTestSuite) TestRunStatus_Unknown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status, _ := s.doRequest(ctx, http.MethodGet, "/runs/"+gofakeit.UUID(), "", nil)
	assert.Equal(s.T(), http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestMetricsEndpoint() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	t := s.T()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metricsEndpoint, nil)
	require.NoError(t, err)
	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "fitassist_api_life_signal")
	assert.Contains(t, string(body), "pgxpool_")
}
