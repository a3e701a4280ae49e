//go:build integration_test || all_tests

package integration_testing

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, ctx context.Context) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("files", "RunRacePredictions_20240101_1.json")
	require.NoError(t, err)
	_, err = fw.Write([]byte(`[{"timestamp": "2024-03-10", "raceTime5K": 1500}]`))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverEndpoint+"/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func Test_NewServer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, cleanupFunc, err := serverSetup(ctx, t.TempDir())
	require.NoError(t, err)
	defer cleanupFunc()
	require.NotNil(t, server)

	t.Run("root", func(t *testing.T) {
		resp, err := http.Get(serverEndpoint + "/")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("cors preflight", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, http.MethodOptions, serverEndpoint+"/training_plan", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://localhost:3000")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown route", func(t *testing.T) {
		resp, err := http.Get(serverEndpoint + "/nothing-here")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("uploads are rate limited", func(t *testing.T) {
		var statuses []int
		for i := 0; i < uploadRateLimit+1; i++ {
			resp, err := http.DefaultClient.Do(uploadRequest(t, ctx))
			require.NoError(t, err)
			statuses = append(statuses, resp.StatusCode)
			require.NoError(t, resp.Body.Close())
		}
		assert.Equal(t, []int{http.StatusAccepted, http.StatusAccepted, http.StatusTooManyRequests}, statuses)
	})
}
