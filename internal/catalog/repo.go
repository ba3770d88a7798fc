package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"
	"github.com/gonzalo9292/myworkout/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const ListLimit = 200

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrCatalogInUse     = errors.New("exercises are referenced by routines or workouts")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// List returns exercises having an image, ordered by name.
func (r *Repo) List(ctx context.Context, limit int) (_ []ExerciseListItem, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if limit <= 0 || limit > ListLimit {
		limit = ListLimit
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, wger_id, name, description_text, image_url
			FROM exercises
			WHERE image_url IS NOT NULL AND image_url <> ''
			ORDER BY name
			LIMIT $1;`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]ExerciseListItem, 0, limit)
	for rows.Next() {
		var ex ExerciseListItem
		if err := rows.Scan(&ex.ID, &ex.WgerID, &ex.Name, &ex.DescriptionText, &ex.ImageURL); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("exercises.count", len(exercises)))
	return exercises, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	var ex Exercise
	err = r.db.QueryRow(
		ctx,
		`SELECT id, wger_id, name, description_html, description_text, image_url, created_at, updated_at
			FROM exercises WHERE id = $1;`,
		id,
	).Scan(
		&ex.ID, &ex.WgerID, &ex.Name, &ex.DescriptionHTML, &ex.DescriptionText, &ex.ImageURL,
		&ex.CreatedAt, &ex.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT m.id, m.name, m.wger_id
			FROM exercise_muscles em
			JOIN muscles m ON m.id = em.muscle_id
			WHERE em.exercise_id = $1
			ORDER BY m.name;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ex.Muscles = []Muscle{}
	for rows.Next() {
		var m Muscle
		if err := rows.Scan(&m.ID, &m.Name, &m.WgerID); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		ex.Muscles = append(ex.Muscles, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &ex, nil
}

// Reset deletes every exercise and its muscle relations. Muscles are kept.
func (r *Repo) Reset(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.reset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM exercise_muscles;`); err != nil {
			return fmt.Errorf("delete exercise muscles: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM exercises;`)
		if err != nil {
			return fmt.Errorf("delete exercises: %w", err)
		}
		span.SetAttributes(attribute.Int64("exercises.deleted", tag.RowsAffected()))
		return nil
	})
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return ErrCatalogInUse
		}
		return err
	}
	return nil
}

// RunInTx runs fn with a writer bound to a single transaction, committed only when fn succeeds.
func (r *Repo) RunInTx(ctx context.Context, fn func(w SyncWriter) error) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return fn(&pgSyncWriter{tx: tx})
	})
}

type SyncWriter interface {
	UpsertMuscle(ctx context.Context, wgerID int, name string) (int, error)
	UpsertExercise(ctx context.Context, ex ExerciseUpsert) (id int, inserted bool, err error)
	LinkMuscle(ctx context.Context, exerciseID, muscleID int) (bool, error)
}

type pgSyncWriter struct {
	tx pgx.Tx
}

func (w *pgSyncWriter) UpsertMuscle(ctx context.Context, wgerID int, name string) (int, error) {
	var id int
	err := w.tx.QueryRow(
		ctx,
		`INSERT INTO muscles (wger_id, name) VALUES ($1, $2)
			ON CONFLICT (wger_id) DO UPDATE SET name = EXCLUDED.name
			RETURNING id;`,
		wgerID, name,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert muscle %d: %w", wgerID, err)
	}
	return id, nil
}

func (w *pgSyncWriter) UpsertExercise(ctx context.Context, ex ExerciseUpsert) (int, bool, error) {
	var (
		id       int
		inserted bool
	)
	// xmax is 0 only for freshly inserted rows
	err := w.tx.QueryRow(
		ctx,
		`INSERT INTO exercises (wger_id, name, description_html, description_text, image_url)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (wger_id) DO UPDATE SET
				name = EXCLUDED.name,
				description_html = EXCLUDED.description_html,
				description_text = EXCLUDED.description_text,
				image_url = EXCLUDED.image_url,
				updated_at = now()
			RETURNING id, (xmax = 0);`,
		ex.WgerID, ex.Name, ex.DescriptionHTML, ex.DescriptionText, ex.ImageURL,
	).Scan(&id, &inserted)
	if err != nil {
		return 0, false, fmt.Errorf("upsert exercise %d: %w", ex.WgerID, err)
	}
	return id, inserted, nil
}

func (w *pgSyncWriter) LinkMuscle(ctx context.Context, exerciseID, muscleID int) (bool, error) {
	tag, err := w.tx.Exec(
		ctx,
		`INSERT INTO exercise_muscles (exercise_id, muscle_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING;`,
		exerciseID, muscleID,
	)
	if err != nil {
		return false, fmt.Errorf("link exercise %d muscle %d: %w", exerciseID, muscleID, err)
	}
	return tag.RowsAffected() == 1, nil
}
