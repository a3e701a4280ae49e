package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitassist/internal/ingest"
	"github.com/2beens/fitassist/internal/telemetry/tracing"
	"github.com/2beens/fitassist/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS public.snapshot
(
    id         SERIAL PRIMARY KEY,
    family     VARCHAR     NOT NULL,
    user_id    VARCHAR     NOT NULL,
    name       VARCHAR     NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    data       JSONB       NOT NULL DEFAULT '[]',
    UNIQUE (family, user_id, name)
);

CREATE INDEX IF NOT EXISTS ix_snapshot_family_user ON public.snapshot (family, user_id, created_at);
`

var _ Repository = (*PsqlRepo)(nil)

// PsqlRepo keeps snapshots in the snapshot table. Names follow the disk layout
// file names, so both backends list and select snapshots the same way.
type PsqlRepo struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewPsqlRepo(db *pgxpool.Pool) *PsqlRepo {
	return &PsqlRepo{
		db:  db,
		now: time.Now,
	}
}

func (r *PsqlRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("create snapshot schema: %w", err)
	}
	return nil
}

func (r *PsqlRepo) Save(ctx context.Context, family ingest.Family, userID string, table *ingest.Table) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "psqlRepo.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateFamily(family); err != nil {
		return "", err
	}
	userID, err = NormalizeUserID(userID)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("family", string(family)))
	span.SetAttributes(attribute.String("user.id", userID))

	data, err := table.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("marshal %s table: %w", family, err)
	}

	createdAt := r.now()
	for seq := 0; seq < maxNameAttempts; seq++ {
		name := snapshotName(family, createdAt, seq)
		_, err := r.db.Exec(
			ctx,
			`INSERT INTO snapshot (family, user_id, name, created_at, data) VALUES ($1, $2, $3, $4, $5);`,
			string(family), userID, name, createdAt, data,
		)
		if err == nil {
			log.Debugf("psql repo: saved %d %s rows for %s as %s", table.Len(), family, userID, name)
			return name, nil
		}
		if !pkg.IsUniqueViolationError(err) {
			return "", fmt.Errorf("insert snapshot: %w", err)
		}
	}

	return "", fmt.Errorf("no free snapshot name for %s at %s", family, createdAt.Format(snapshotTimeLayout))
}

func (r *PsqlRepo) Load(ctx context.Context, family ingest.Family, userID, timestamp string) (_ *ingest.Table, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "psqlRepo.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	name, userID, err := r.resolve(ctx, family, userID, timestamp)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("snapshot", name))

	var data []byte
	err = r.db.QueryRow(
		ctx,
		`SELECT data FROM snapshot WHERE family = $1 AND user_id = $2 AND name = $3;`,
		string(family), userID, name,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("select snapshot: %w", err)
	}

	table, err := ingest.TableFromJSON(family, data)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", name, err)
	}
	return table, nil
}

func (r *PsqlRepo) List(ctx context.Context, userID string) (_ map[ingest.Family][]string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "psqlRepo.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	userID, err = NormalizeUserID(userID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT family, name FROM snapshot WHERE user_id = $1;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[ingest.Family][]string{}
	for rows.Next() {
		var family, name string
		if err := rows.Scan(&family, &name); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		result[ingest.Family(family)] = append(result[ingest.Family(family)], name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for family, names := range result {
		sortNewestFirst(family, names)
	}
	span.SetAttributes(attribute.Int("families", len(result)))
	return result, nil
}

func (r *PsqlRepo) Delete(ctx context.Context, family ingest.Family, userID, timestamp string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "psqlRepo.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	name, userID, err := r.resolve(ctx, family, userID, timestamp)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM snapshot WHERE family = $1 AND user_id = $2 AND name = $3;`,
		string(family), userID, name,
	)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}

func (r *PsqlRepo) resolve(ctx context.Context, family ingest.Family, userID, timestamp string) (string, string, error) {
	if err := validateFamily(family); err != nil {
		return "", "", err
	}
	userID, err := NormalizeUserID(userID)
	if err != nil {
		return "", "", err
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT name FROM snapshot WHERE family = $1 AND user_id = $2;`,
		string(family), userID,
	)
	if err != nil {
		return "", "", err
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return "", "", fmt.Errorf("collect snapshot names: %w", err)
	}

	sortNewestFirst(family, names)
	name, ok := pickSnapshot(names, timestamp)
	if !ok {
		return "", "", ErrSnapshotNotFound
	}
	return name, userID, nil
}
