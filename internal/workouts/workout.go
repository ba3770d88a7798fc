package workouts

import (
	"strings"
	"time"

	"github.com/gonzalo9292/myworkout/pkg"
)

// RecentLimit caps GET /workouts without a date.
const RecentLimit = 30

type Workout struct {
	ID          int       `json:"id"`
	WorkoutDate string    `json:"workout_date"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

type Set struct {
	ID            int      `json:"id"`
	WorkoutItemID int      `json:"workout_item_id"`
	SetIndex      int      `json:"set_index"`
	Reps          *int     `json:"reps"`
	WeightKg      *float64 `json:"weight_kg"`
}

type Item struct {
	ID               int     `json:"id"`
	WorkoutID        int     `json:"workout_id"`
	ExerciseID       int     `json:"exercise_id"`
	Position         int     `json:"position"`
	Notes            *string `json:"notes"`
	ExerciseName     string  `json:"exercise_name"`
	ExerciseImageURL *string `json:"exercise_image_url"`
	Sets             []Set   `json:"sets"`
}

type Detail struct {
	Workout
	Items []Item `json:"items"`
}

// AnalyticsRow is one set of a workout; items without sets produce a row with the set fields null.
type AnalyticsRow struct {
	WorkoutID    int      `json:"workout_id"`
	WorkoutDate  string   `json:"workout_date"`
	ItemID       int      `json:"item_id"`
	ExerciseID   int      `json:"exercise_id"`
	ExerciseName string   `json:"exercise_name"`
	SetID        *int     `json:"set_id"`
	SetIndex     *int     `json:"set_index"`
	Reps         *int     `json:"reps"`
	WeightKg     *float64 `json:"weight_kg"`
}

type AnalyticsRowsResponse struct {
	From string         `json:"from"`
	To   string         `json:"to"`
	Rows []AnalyticsRow `json:"rows"`
}

type DeletedResponse struct {
	DeletedID int `json:"deletedId"`
}

type CreateRequest struct {
	Date  string  `json:"date"`
	Notes *string `json:"notes"`
}

type NewWorkout struct {
	Date  time.Time
	Notes *string
}

func (req CreateRequest) Validate() (NewWorkout, error) {
	date, err := pkg.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return NewWorkout{}, pkg.NewValidationError("date must be YYYY-MM-DD")
	}
	return NewWorkout{
		Date:  date,
		Notes: trimmedOrNil(req.Notes),
	}, nil
}

type AddItemRequest struct {
	ExerciseID int     `json:"exerciseId"`
	Position   *int    `json:"position"`
	Notes      *string `json:"notes"`
}

type NewItem struct {
	ExerciseID int
	// nil appends after the last item
	Position *int
	Notes    *string
}

func (req AddItemRequest) Validate() (NewItem, error) {
	if req.ExerciseID <= 0 {
		return NewItem{}, pkg.NewValidationError("exerciseId must be a positive integer")
	}
	if req.Position != nil && *req.Position < 1 {
		return NewItem{}, pkg.NewValidationError("position must be >= 1")
	}
	return NewItem{
		ExerciseID: req.ExerciseID,
		Position:   req.Position,
		Notes:      trimmedOrNil(req.Notes),
	}, nil
}

type AddSetRequest struct {
	SetIndex int      `json:"setIndex"`
	Reps     *int     `json:"reps"`
	WeightKg *float64 `json:"weightKg"`
}

func (req AddSetRequest) Validate() error {
	if req.SetIndex < 1 {
		return pkg.NewValidationError("setIndex must be >= 1")
	}
	if req.Reps != nil && *req.Reps < 0 {
		return pkg.NewValidationError("reps must be >= 0")
	}
	return pkg.ValidateWeightKg(req.WeightKg)
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
