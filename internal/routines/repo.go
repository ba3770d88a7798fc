package routines

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

var (
	ErrRoutineNotFound  = errors.New("routine not found")
	ErrItemNotFound     = errors.New("routine item not found")
	ErrExerciseNotFound = errors.New("exercise not found")
)

// Repo scopes every query to the owning user; routines of other users look missing.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) List(ctx context.Context, userID int) (_ []Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, notes FROM routines WHERE user_id = $1 ORDER BY id DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routines := []Routine{}
	for rows.Next() {
		var routine Routine
		if err := rows.Scan(&routine.ID, &routine.Name, &routine.Notes); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		routines = append(routines, routine)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("routines.count", len(routines)))
	return routines, nil
}

func (r *Repo) Create(ctx context.Context, userID int, req RoutineRequest) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	routine := Routine{
		Name:  req.Name,
		Notes: req.Notes,
	}
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO routines (user_id, name, notes) VALUES ($1, $2, $3) RETURNING id;`,
		userID, req.Name, req.Notes,
	).Scan(&routine.ID)
	if err != nil {
		return nil, fmt.Errorf("insert routine: %w", err)
	}

	span.SetAttributes(attribute.Int("routine.id", routine.ID))
	return &routine, nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *Detail, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.get")
	span.SetAttributes(attribute.Int("routine.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	detail := Detail{Items: []Item{}}
	err = r.db.QueryRow(
		ctx,
		`SELECT id, name, notes FROM routines WHERE id = $1 AND user_id = $2;`,
		id, userID,
	).Scan(&detail.ID, &detail.Name, &detail.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoutineNotFound
		}
		return nil, fmt.Errorf("select routine: %w", err)
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT
				ri.id, ri.routine_id, ri.exercise_id, ri.position, ri.sets, ri.reps, ri.weight_kg, ri.notes,
				e.name, e.image_url
			FROM routine_items ri
				JOIN exercises e ON e.id = ri.exercise_id
			WHERE ri.routine_id = $1
			ORDER BY ri.position, ri.id;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		detail.Items = append(detail.Items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &detail, nil
}

func (r *Repo) Update(ctx context.Context, userID, id int, req RoutineRequest) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.update")
	span.SetAttributes(attribute.Int("routine.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE routines SET name = $1, notes = $2 WHERE id = $3 AND user_id = $4;`,
		req.Name, req.Notes, id, userID,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrRoutineNotFound
	}

	return &Routine{
		ID:    id,
		Name:  req.Name,
		Notes: req.Notes,
	}, nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.delete")
	span.SetAttributes(attribute.Int("routine.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM routines WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRoutineNotFound
	}
	return nil
}

func (r *Repo) AddItem(ctx context.Context, userID, routineID int, newItem NewItem) (_ *Item, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.addItem")
	span.SetAttributes(attribute.Int("routine.id", routineID))
	span.SetAttributes(attribute.Int("exercise.id", newItem.ExerciseID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var item *Item
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		// row lock serializes concurrent appends to the same routine
		var lockedID int
		err := tx.QueryRow(
			ctx,
			`SELECT id FROM routines WHERE id = $1 AND user_id = $2 FOR UPDATE;`,
			routineID, userID,
		).Scan(&lockedID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrRoutineNotFound
			}
			return fmt.Errorf("lock routine: %w", err)
		}

		position := 0
		if newItem.Position != nil {
			position = *newItem.Position
		} else {
			err := tx.QueryRow(
				ctx,
				`SELECT COALESCE(MAX(position), 0) + 1 FROM routine_items WHERE routine_id = $1;`,
				routineID,
			).Scan(&position)
			if err != nil {
				return fmt.Errorf("next position: %w", err)
			}
		}

		row := tx.QueryRow(
			ctx,
			`WITH inserted AS (
				INSERT INTO routine_items (routine_id, exercise_id, position, sets, reps, weight_kg, notes)
					VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING id, routine_id, exercise_id, position, sets, reps, weight_kg, notes
			)
			SELECT
				i.id, i.routine_id, i.exercise_id, i.position, i.sets, i.reps, i.weight_kg, i.notes,
				e.name, e.image_url
			FROM inserted i
				JOIN exercises e ON e.id = i.exercise_id;`,
			routineID, newItem.ExerciseID, position, newItem.Sets, newItem.Reps, newItem.WeightKg, newItem.Notes,
		)
		item, err = scanItem(row)
		if err != nil {
			if pkg.IsForeignKeyViolationError(err) {
				return ErrExerciseNotFound
			}
			return fmt.Errorf("insert routine item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("item.id", item.ID))
	return item, nil
}

func (r *Repo) DeleteItem(ctx context.Context, userID, routineID, itemID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.deleteItem")
	span.SetAttributes(attribute.Int("routine.id", routineID))
	span.SetAttributes(attribute.Int("item.id", itemID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM routine_items ri
			USING routines r
			WHERE ri.id = $1
				AND ri.routine_id = $2
				AND r.id = ri.routine_id
				AND r.user_id = $3;`,
		itemID, routineID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (*Item, error) {
	var item Item
	if err := row.Scan(
		&item.ID, &item.RoutineID, &item.ExerciseID, &item.Position,
		&item.Sets, &item.Reps, &item.WeightKg, &item.Notes,
		&item.ExerciseName, &item.ExerciseImageURL,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
