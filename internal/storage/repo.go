package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitassist/internal/ingest"
)

const (
	DefaultUserID = "default"

	snapshotTimeLayout = "20060102_150405"
	snapshotExt        = ".json"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrInvalidID        = errors.New("invalid identifier")
)

// Repository keeps timestamped snapshots of canonical tables, per family and user.
// An empty timestamp on Load or Delete selects the latest snapshot; otherwise the
// newest snapshot whose name contains timestamp is used.
type Repository interface {
	Save(ctx context.Context, family ingest.Family, userID string, table *ingest.Table) (string, error)
	Load(ctx context.Context, family ingest.Family, userID, timestamp string) (*ingest.Table, error)
	// List returns snapshot names per family, newest first. Families without snapshots are omitted.
	List(ctx context.Context, userID string) (map[ingest.Family][]string, error)
	Delete(ctx context.Context, family ingest.Family, userID, timestamp string) error
}

// NormalizeUserID maps an empty id to DefaultUserID and rejects ids
// that could escape a storage directory.
func NormalizeUserID(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return DefaultUserID, nil
	}
	if err := validateID(userID); err != nil {
		return "", err
	}
	return userID, nil
}

func validateID(id string) error {
	if id == "" || id == "." || strings.Contains(id, "..") || strings.ContainsAny(id, `/\`+"\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func validateFamily(family ingest.Family) error {
	if _, err := ingest.ParseFamily(string(family)); err != nil {
		return err
	}
	return validateID(string(family))
}

// snapshotName builds <family>_<YYYYMMDD_HHMMSS>[_N].json
func snapshotName(family ingest.Family, at time.Time, seq int) string {
	name := string(family) + "_" + at.Format(snapshotTimeLayout)
	if seq > 0 {
		name += "_" + strconv.Itoa(seq)
	}
	return name + snapshotExt
}

type snapshotStamp struct {
	at  string
	seq int
}

func parseSnapshotName(family ingest.Family, name string) (snapshotStamp, bool) {
	rest, ok := strings.CutPrefix(name, string(family)+"_")
	if !ok {
		return snapshotStamp{}, false
	}
	rest, ok = strings.CutSuffix(rest, snapshotExt)
	if !ok || len(rest) < len(snapshotTimeLayout) {
		return snapshotStamp{}, false
	}
	at := rest[:len(snapshotTimeLayout)]
	if _, err := time.Parse(snapshotTimeLayout, at); err != nil {
		return snapshotStamp{}, false
	}
	stamp := snapshotStamp{at: at}
	if suffix := rest[len(snapshotTimeLayout):]; suffix != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(suffix, "_"))
		if err != nil || !strings.HasPrefix(suffix, "_") {
			return snapshotStamp{}, false
		}
		stamp.seq = n
	}
	return stamp, true
}

// sortNewestFirst orders snapshot names by their embedded time and collision
// sequence; names that do not parse go last, by name descending.
func sortNewestFirst(family ingest.Family, names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		si, okI := parseSnapshotName(family, names[i])
		sj, okJ := parseSnapshotName(family, names[j])
		switch {
		case okI && okJ:
			if si.at != sj.at {
				return si.at > sj.at
			}
			if si.seq != sj.seq {
				return si.seq > sj.seq
			}
			return names[i] > names[j]
		case okI != okJ:
			return okI
		default:
			return names[i] > names[j]
		}
	})
}

// pickSnapshot selects from names sorted newest first.
func pickSnapshot(names []string, timestamp string) (string, bool) {
	for _, name := range names {
		if timestamp == "" || strings.Contains(name, timestamp) {
			return name, true
		}
	}
	return "", false
}
