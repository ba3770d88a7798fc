package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"
	"github.com/gonzalo9292/myworkout/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrWorkoutExists    = errors.New("workout already exists for that date")
	ErrItemNotFound     = errors.New("workout item not found")
	ErrSetNotFound      = errors.New("workout set not found")
	ErrSetExists        = errors.New("set index already used")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrRoutineNotFound  = errors.New("routine not found")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) ListRecent(ctx context.Context, userID, limit int) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listRecent")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if limit <= 0 || limit > RecentLimit {
		limit = RecentLimit
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, workout_date, notes, created_at
			FROM workouts
			WHERE user_id = $1
			ORDER BY workout_date DESC
			LIMIT $2;`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := []Workout{}
	for rows.Next() {
		workout, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		workouts = append(workouts, *workout)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("workouts.count", len(workouts)))
	return workouts, nil
}

func (r *Repo) GetByDate(ctx context.Context, userID int, date time.Time) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.getByDate")
	span.SetAttributes(attribute.String("date", date.Format(pkg.DateLayout)))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workout, err := scanWorkout(r.db.QueryRow(
		ctx,
		`SELECT id, workout_date, notes, created_at FROM workouts WHERE user_id = $1 AND workout_date = $2;`,
		userID, date,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("select workout: %w", err)
	}
	return workout, nil
}

func (r *Repo) Create(ctx context.Context, userID int, newWorkout NewWorkout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workout, err := scanWorkout(r.db.QueryRow(
		ctx,
		`INSERT INTO workouts (user_id, workout_date, notes)
			VALUES ($1, $2, $3)
			RETURNING id, workout_date, notes, created_at;`,
		userID, newWorkout.Date, newWorkout.Notes,
	))
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrWorkoutExists
		}
		return nil, fmt.Errorf("insert workout: %w", err)
	}

	span.SetAttributes(attribute.Int("workout.id", workout.ID))
	return workout, nil
}

// Get returns the workout with its items by position, each with its sets by index.
func (r *Repo) Get(ctx context.Context, userID, id int) (_ *Detail, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	span.SetAttributes(attribute.Int("workout.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workout, err := scanWorkout(r.db.QueryRow(
		ctx,
		`SELECT id, workout_date, notes, created_at FROM workouts WHERE id = $1 AND user_id = $2;`,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("select workout: %w", err)
	}

	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Detail{
		Workout: *workout,
		Items:   items,
	}, nil
}

func (r *Repo) items(ctx context.Context, workoutID int) ([]Item, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT wi.id, wi.workout_id, wi.exercise_id, wi.position, wi.notes, e.name, e.image_url
			FROM workout_items wi
				JOIN exercises e ON e.id = wi.exercise_id
			WHERE wi.workout_id = $1
			ORDER BY wi.position, wi.id;`,
		workoutID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	itemIndex := map[int]int{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		itemIndex[item.ID] = len(items)
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	setRows, err := r.db.Query(
		ctx,
		`SELECT ws.id, ws.workout_item_id, ws.set_index, ws.reps, ws.weight_kg
			FROM workout_sets ws
				JOIN workout_items wi ON wi.id = ws.workout_item_id
			WHERE wi.workout_id = $1
			ORDER BY ws.workout_item_id, ws.set_index;`,
		workoutID,
	)
	if err != nil {
		return nil, err
	}
	defer setRows.Close()

	for setRows.Next() {
		set, err := scanSet(setRows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if i, ok := itemIndex[set.WorkoutItemID]; ok {
			items[i].Sets = append(items[i].Sets, *set)
		}
	}
	if err := setRows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	span.SetAttributes(attribute.Int("workout.id", id))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM workouts WHERE id = $1 AND user_id = $2;`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func (r *Repo) AddItem(ctx context.Context, userID, workoutID int, newItem NewItem) (_ *Item, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.addItem")
	span.SetAttributes(attribute.Int("workout.id", workoutID))
	span.SetAttributes(attribute.Int("exercise.id", newItem.ExerciseID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var item *Item
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockWorkout(ctx, tx, userID, workoutID); err != nil {
			return err
		}

		var position int
		if newItem.Position != nil {
			position = *newItem.Position
		} else {
			next, err := nextItemPosition(ctx, tx, workoutID)
			if err != nil {
				return err
			}
			position = next
		}

		item, err = scanItem(tx.QueryRow(
			ctx,
			`WITH inserted AS (
				INSERT INTO workout_items (workout_id, exercise_id, position, notes)
					VALUES ($1, $2, $3, $4)
				RETURNING id, workout_id, exercise_id, position, notes
			)
			SELECT i.id, i.workout_id, i.exercise_id, i.position, i.notes, e.name, e.image_url
			FROM inserted i
				JOIN exercises e ON e.id = i.exercise_id;`,
			workoutID, newItem.ExerciseID, position, newItem.Notes,
		))
		if err != nil {
			if pkg.IsForeignKeyViolationError(err) {
				return ErrExerciseNotFound
			}
			return fmt.Errorf("insert workout item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("item.id", item.ID))
	return item, nil
}

// AddRoutine appends the routine's items, in routine order, after the workout's last item.
func (r *Repo) AddRoutine(ctx context.Context, userID, workoutID, routineID int) (_ *Detail, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.addRoutine")
	span.SetAttributes(attribute.Int("workout.id", workoutID))
	span.SetAttributes(attribute.Int("routine.id", routineID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockWorkout(ctx, tx, userID, workoutID); err != nil {
			return err
		}

		var owned bool
		err := tx.QueryRow(
			ctx,
			`SELECT EXISTS (SELECT 1 FROM routines WHERE id = $1 AND user_id = $2);`,
			routineID, userID,
		).Scan(&owned)
		if err != nil {
			return fmt.Errorf("check routine: %w", err)
		}
		if !owned {
			return ErrRoutineNotFound
		}

		next, err := nextItemPosition(ctx, tx, workoutID)
		if err != nil {
			return err
		}

		tag, err := tx.Exec(
			ctx,
			`INSERT INTO workout_items (workout_id, exercise_id, position, notes)
				SELECT $1::int, ri.exercise_id, $2::int + ROW_NUMBER() OVER (ORDER BY ri.position, ri.id) - 1, ri.notes
				FROM routine_items ri
				WHERE ri.routine_id = $3;`,
			workoutID, next, routineID,
		)
		if err != nil {
			return fmt.Errorf("copy routine items: %w", err)
		}
		span.SetAttributes(attribute.Int64("items.added", tag.RowsAffected()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, userID, workoutID)
}

func (r *Repo) DeleteItem(ctx context.Context, userID, workoutID, itemID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.deleteItem")
	span.SetAttributes(attribute.Int("workout.id", workoutID))
	span.SetAttributes(attribute.Int("item.id", itemID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout_items wi
			USING workouts w
			WHERE wi.id = $1
				AND wi.workout_id = $2
				AND w.id = wi.workout_id
				AND w.user_id = $3;`,
		itemID, workoutID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *Repo) AddSet(ctx context.Context, userID, workoutID, itemID int, req AddSetRequest) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.addSet")
	span.SetAttributes(attribute.Int("item.id", itemID))
	span.SetAttributes(attribute.Int("set.index", req.SetIndex))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	set, err := scanSet(r.db.QueryRow(
		ctx,
		`INSERT INTO workout_sets (workout_item_id, set_index, reps, weight_kg)
			SELECT wi.id, $2::int, $3::int, $4::numeric
			FROM workout_items wi
				JOIN workouts w ON w.id = wi.workout_id
			WHERE wi.id = $1 AND wi.workout_id = $5 AND w.user_id = $6
			RETURNING id, workout_item_id, set_index, reps, weight_kg;`,
		itemID, req.SetIndex, req.Reps, req.WeightKg, workoutID, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrSetExists
		}
		return nil, fmt.Errorf("insert workout set: %w", err)
	}

	span.SetAttributes(attribute.Int("set.id", set.ID))
	return set, nil
}

func (r *Repo) DeleteSet(ctx context.Context, userID, workoutID, itemID, setID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.deleteSet")
	span.SetAttributes(attribute.Int("item.id", itemID))
	span.SetAttributes(attribute.Int("set.id", setID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout_sets ws
			USING workout_items wi, workouts w
			WHERE ws.id = $1
				AND ws.workout_item_id = $2
				AND wi.id = ws.workout_item_id
				AND wi.workout_id = $3
				AND w.id = wi.workout_id
				AND w.user_id = $4;`,
		setID, itemID, workoutID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSetNotFound
	}
	return nil
}

// AnalyticsRows flattens the user's workouts in [from, to] to one row per set.
func (r *Repo) AnalyticsRows(ctx context.Context, userID int, from, to time.Time) (_ []AnalyticsRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.analyticsRows")
	span.SetAttributes(attribute.String("from", from.Format(pkg.DateLayout)))
	span.SetAttributes(attribute.String("to", to.Format(pkg.DateLayout)))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT
				w.id, w.workout_date, wi.id, wi.exercise_id, e.name,
				ws.id, ws.set_index, ws.reps, ws.weight_kg
			FROM workouts w
				JOIN workout_items wi ON wi.workout_id = w.id
				JOIN exercises e ON e.id = wi.exercise_id
				LEFT JOIN workout_sets ws ON ws.workout_item_id = wi.id
			WHERE w.user_id = $1 AND w.workout_date BETWEEN $2 AND $3
			ORDER BY w.workout_date, wi.position, wi.id, ws.set_index;`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []AnalyticsRow{}
	for rows.Next() {
		var (
			row         AnalyticsRow
			workoutDate time.Time
		)
		if err := rows.Scan(
			&row.WorkoutID, &workoutDate, &row.ItemID, &row.ExerciseID, &row.ExerciseName,
			&row.SetID, &row.SetIndex, &row.Reps, &row.WeightKg,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		row.WorkoutDate = workoutDate.Format(pkg.DateLayout)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("rows.count", len(result)))
	return result, nil
}

func lockWorkout(ctx context.Context, tx pgx.Tx, userID, workoutID int) error {
	var id int
	err := tx.QueryRow(
		ctx,
		`SELECT id FROM workouts WHERE id = $1 AND user_id = $2 FOR UPDATE;`,
		workoutID, userID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrWorkoutNotFound
		}
		return fmt.Errorf("lock workout: %w", err)
	}
	return nil
}

func nextItemPosition(ctx context.Context, tx pgx.Tx, workoutID int) (int, error) {
	var next int
	err := tx.QueryRow(
		ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM workout_items WHERE workout_id = $1;`,
		workoutID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next position: %w", err)
	}
	return next, nil
}

func scanWorkout(row pgx.Row) (*Workout, error) {
	var (
		workout     Workout
		workoutDate time.Time
	)
	if err := row.Scan(&workout.ID, &workoutDate, &workout.Notes, &workout.CreatedAt); err != nil {
		return nil, err
	}
	workout.WorkoutDate = workoutDate.Format(pkg.DateLayout)
	return &workout, nil
}

func scanItem(row pgx.Row) (*Item, error) {
	item := Item{Sets: []Set{}}
	if err := row.Scan(
		&item.ID, &item.WorkoutID, &item.ExerciseID, &item.Position, &item.Notes,
		&item.ExerciseName, &item.ExerciseImageURL,
	); err != nil {
		return nil, err
	}
	return &item, nil
}

func scanSet(row pgx.Row) (*Set, error) {
	var set Set
	if err := row.Scan(&set.ID, &set.WorkoutItemID, &set.SetIndex, &set.Reps, &set.WeightKg); err != nil {
		return nil, err
	}
	return &set, nil
}
