package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrReportNotFound = errors.New("report not found")

// Repo keeps report documents as JSONB in report_generations, scoped per user.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Insert(ctx context.Context, userID int, doc Document, generatedAt time.Time) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.reports.insert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	id := uuid.NewString()
	_, err = r.db.Exec(
		ctx,
		`INSERT INTO report_generations (id, user_id, generated_at, document) VALUES ($1::uuid, $2, $3, $4);`,
		id, userID, generatedAt, doc,
	)
	if err != nil {
		return "", fmt.Errorf("insert report: %w", err)
	}

	span.SetAttributes(attribute.String("report.id", id))
	return id, nil
}

func (r *Repo) List(ctx context.Context, userID, limit, skip int) (_ []StoredReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.reports.list")
	span.SetAttributes(attribute.Int("limit", limit), attribute.Int("skip", skip))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id::text, generated_at, document
			FROM report_generations
			WHERE user_id = $1
			ORDER BY generated_at DESC, id
			LIMIT $2 OFFSET $3;`,
		userID, limit, skip,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []StoredReport{}
	for rows.Next() {
		stored, err := scanStored(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		reports = append(reports, *stored)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *Repo) Get(ctx context.Context, userID int, id string) (_ *StoredReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.reports.get")
	span.SetAttributes(attribute.String("report.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	stored, err := scanStored(r.db.QueryRow(
		ctx,
		`SELECT id::text, generated_at, document FROM report_generations WHERE id = $1::uuid AND user_id = $2;`,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("select report: %w", err)
	}
	return stored, nil
}

func (r *Repo) Delete(ctx context.Context, userID int, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.reports.delete")
	span.SetAttributes(attribute.String("report.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM report_generations WHERE id = $1::uuid AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

func scanStored(row pgx.Row) (*StoredReport, error) {
	var stored StoredReport
	if err := row.Scan(&stored.ID, &stored.GeneratedAt, &stored.Document); err != nil {
		return nil, err
	}
	return &stored, nil
}
