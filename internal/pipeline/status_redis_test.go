//go:build integration_test || all_tests

package pipeline_test

import (
	"testing"
	"time"

	"github.com/2beens/fitassist/internal/pipeline"
	testingpkg "github.com/2beens/fitassist/pkg/testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStatusStore_Redis(t *testing.T) {
	ctx, rdb := testingpkg.GetRedisClientAndCtx(t)
	store := pipeline.NewRunStatusStore(rdb, time.Minute)

	id := gofakeit.UUID()
	_, err := store.Get(ctx, id)
	require.ErrorIs(t, err, pipeline.ErrRunNotFound)

	started := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.Put(ctx, pipeline.RunStatus{
		ID:      id,
		Source:  pipeline.SourceFetch,
		UserID:  "alice",
		State:   pipeline.StateRunning,
		Started: started,
	}))

	finished := started.Add(3 * time.Second)
	require.NoError(t, store.Put(ctx, pipeline.RunStatus{
		ID:        id,
		Source:    pipeline.SourceFetch,
		UserID:    "alice",
		State:     pipeline.StatePartial,
		Started:   started,
		Finished:  &finished,
		Snapshots: map[string]string{"activities": "activities_20240401_120000.json"},
		Rows:      map[string]int{"activities": 12},
		Error:     "sleep: day 2024-03-02 failed",
	}))

	status, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatePartial, status.State)
	assert.True(t, started.Equal(status.Started))
	require.NotNil(t, status.Finished)
	assert.True(t, finished.Equal(*status.Finished))
	assert.Equal(t, 12, status.Rows["activities"])

	ttl, err := rdb.TTL(ctx, "fitassist:run:"+id).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute, "ttl: %s", ttl)

	require.NoError(t, rdb.Del(ctx, "fitassist:run:"+id).Err())
}
