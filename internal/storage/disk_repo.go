package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/2beens/fitassist/internal/ingest"
	"github.com/2beens/fitassist/internal/telemetry/tracing"
	"github.com/2beens/fitassist/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// collisions within one second get a numeric suffix, up to this many
const maxNameAttempts = 1000

var _ Repository = (*DiskRepo)(nil)

// DiskRepo stores snapshots as JSON files:
// <root>/<family>/<user_id>/<family>_<YYYYMMDD_HHMMSS>.json
type DiskRepo struct {
	root string
	now  func() time.Time
}

func NewDiskRepo(root string) (*DiskRepo, error) {
	if err := pkg.EnsureDir(root); err != nil {
		return nil, fmt.Errorf("create storage root %s: %w", root, err)
	}
	for _, family := range ingest.ExportFamilies {
		if err := pkg.EnsureDir(filepath.Join(root, string(family))); err != nil {
			return nil, fmt.Errorf("create %s dir: %w", family, err)
		}
	}

	return &DiskRepo{
		root: root,
		now:  time.Now,
	}, nil
}

func (r *DiskRepo) Root() string {
	return r.root
}

func (r *DiskRepo) userDir(family ingest.Family, userID string) (string, string, error) {
	if err := validateFamily(family); err != nil {
		return "", "", err
	}
	userID, err := NormalizeUserID(userID)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(r.root, string(family), userID), userID, nil
}

func (r *DiskRepo) Save(ctx context.Context, family ingest.Family, userID string, table *ingest.Table) (_ string, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskRepo.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	dir, userID, err := r.userDir(family, userID)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("family", string(family)))
	span.SetAttributes(attribute.String("user.id", userID))

	data, err := table.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("marshal %s table: %w", family, err)
	}

	if err := pkg.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create user dir: %w", err)
	}

	f, name, err := r.createSnapshotFile(dir, family)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close snapshot %s: %w", name, closeErr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", name, err)
	}

	log.Debugf("disk repo: saved %d %s rows for %s to %s", table.Len(), family, userID, name)
	return name, nil
}

// createSnapshotFile claims a fresh snapshot name; O_EXCL keeps concurrent
// saves within the same second from overwriting each other.
func (r *DiskRepo) createSnapshotFile(dir string, family ingest.Family) (*os.File, string, error) {
	at := r.now()
	for seq := 0; seq < maxNameAttempts; seq++ {
		name := snapshotName(family, at, seq)
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create snapshot %s: %w", name, err)
		}
	}
	return nil, "", fmt.Errorf("no free snapshot name for %s at %s", family, at.Format(snapshotTimeLayout))
}

func (r *DiskRepo) Load(ctx context.Context, family ingest.Family, userID, timestamp string) (_ *ingest.Table, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskRepo.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	dir, _, err := r.userDir(family, userID)
	if err != nil {
		return nil, err
	}

	name, err := r.resolve(dir, family, timestamp)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("snapshot", name))

	data, err := readAll(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}

	table, err := ingest.TableFromJSON(family, data)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", name, err)
	}
	return table, nil
}

func (r *DiskRepo) List(ctx context.Context, userID string) (_ map[ingest.Family][]string, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskRepo.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	userID, err = NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("read storage root: %w", err)
	}

	result := map[ingest.Family][]string{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		family, err := ingest.ParseFamily(entry.Name())
		if err != nil {
			continue
		}
		names, err := snapshotNames(filepath.Join(r.root, entry.Name(), userID), family)
		if err != nil {
			return nil, err
		}
		if len(names) > 0 {
			result[family] = names
		}
	}

	span.SetAttributes(attribute.Int("families", len(result)))
	return result, nil
}

func (r *DiskRepo) Delete(ctx context.Context, family ingest.Family, userID, timestamp string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "diskRepo.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	dir, userID, err := r.userDir(family, userID)
	if err != nil {
		return err
	}

	name, err := r.resolve(dir, family, timestamp)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrSnapshotNotFound
		}
		return fmt.Errorf("remove snapshot %s: %w", name, err)
	}

	log.Debugf("disk repo: deleted %s of %s", name, userID)
	return nil
}

func (r *DiskRepo) resolve(dir string, family ingest.Family, timestamp string) (string, error) {
	names, err := snapshotNames(dir, family)
	if err != nil {
		return "", err
	}
	name, ok := pickSnapshot(names, timestamp)
	if !ok {
		return "", ErrSnapshotNotFound
	}
	return name, nil
}

// snapshotNames lists the json files of dir, newest first; a missing dir has none.
func snapshotNames(dir string, family ingest.Family) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), snapshotExt) {
			continue
		}
		names = append(names, entry.Name())
	}
	sortNewestFirst(family, names)
	return names, nil
}

func readAll(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
