package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	StateRunning = "running"
	StateSuccess = "success"
	StatePartial = "partial"
	StateFailure = "failure"

	runKeyPrefix     = "fitassist:run:"
	DefaultStatusTTL = 24 * time.Hour
)

var ErrRunNotFound = errors.New("ingestion run not found")

// RunStatus is the externally visible state of an ingestion run.
type RunStatus struct {
	ID        string            `json:"id"`
	Source    Source            `json:"source"`
	UserID    string            `json:"user_id"`
	State     string            `json:"state"`
	Started   time.Time         `json:"started"`
	Finished  *time.Time        `json:"finished,omitempty"`
	Snapshots map[string]string `json:"snapshots,omitempty"`
	Rows      map[string]int    `json:"rows,omitempty"`
	Error     string            `json:"error,omitempty"`
}

func (r *Run) status(state string) RunStatus {
	st := RunStatus{
		ID:      r.ID,
		Source:  r.Source,
		UserID:  r.UserID,
		State:   state,
		Started: r.Started,
	}
	if state == StateRunning {
		return st
	}

	finished := r.Started.Add(r.Duration)
	st.Finished = &finished
	st.Snapshots = make(map[string]string, len(r.Snapshots))
	for family, name := range r.Snapshots {
		st.Snapshots[string(family)] = name
	}
	st.Rows = make(map[string]int, len(r.Rows))
	for family, n := range r.Rows {
		st.Rows[string(family)] = n
	}
	if r.Err != nil {
		st.Error = r.Err.Error()
	}
	return st
}

// RunStatusStore keeps run states in redis for a limited time.
type RunStatusStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRunStatusStore(rdb *redis.Client, ttl time.Duration) *RunStatusStore {
	if ttl <= 0 {
		ttl = DefaultStatusTTL
	}
	return &RunStatusStore{
		rdb: rdb,
		ttl: ttl,
	}
}

func runKey(id string) string {
	return runKeyPrefix + id
}

func (s *RunStatusStore) Put(ctx context.Context, status RunStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshal run status: %w", err)
	}
	if err := s.rdb.Set(ctx, runKey(status.ID), string(data), s.ttl).Err(); err != nil {
		return fmt.Errorf("store run status %s: %w", status.ID, err)
	}
	return nil
}

func (s *RunStatusStore) Get(ctx context.Context, id string) (*RunStatus, error) {
	data, err := s.rdb.Get(ctx, runKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run status %s: %w", id, err)
	}

	var status RunStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, fmt.Errorf("unmarshal run status %s: %w", id, err)
	}
	return &status, nil
}
