package routines

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gonzalo9292/myworkout/pkg"
)

type Routine struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Notes *string `json:"notes"`
}

type Item struct {
	ID               int      `json:"id"`
	RoutineID        int      `json:"routine_id"`
	ExerciseID       int      `json:"exercise_id"`
	Position         int      `json:"position"`
	Sets             *int     `json:"sets"`
	Reps             *string  `json:"reps"`
	WeightKg         *float64 `json:"weight_kg"`
	Notes            *string  `json:"notes"`
	ExerciseName     string   `json:"exercise_name"`
	ExerciseImageURL *string  `json:"exercise_image_url"`
}

type Detail struct {
	Routine
	Items []Item `json:"items"`
}

type DeletedResponse struct {
	DeletedID int `json:"deletedId"`
}

type RoutineRequest struct {
	Name  string  `json:"name"`
	Notes *string `json:"notes"`
}

// Normalize trims the fields and checks that a name is given.
func (req RoutineRequest) Normalize() (RoutineRequest, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return RoutineRequest{}, pkg.NewValidationError("name is required")
	}
	return RoutineRequest{
		Name:  name,
		Notes: trimmedOrNil(req.Notes),
	}, nil
}

// Reps is usually a number but can be a range like "8-12", so both forms are accepted.
type Reps string

func (r *Reps) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Reps(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("reps must be a string or a number")
	}
	if _, err := strconv.ParseFloat(num.String(), 64); err != nil {
		return fmt.Errorf("reps must be a string or a number")
	}
	*r = Reps(num.String())
	return nil
}

type AddItemRequest struct {
	ExerciseID int      `json:"exerciseId"`
	Position   *int     `json:"position"`
	Sets       *int     `json:"sets"`
	Reps       *Reps    `json:"reps"`
	WeightKg   *float64 `json:"weightKg"`
	Notes      *string  `json:"notes"`
}

// NewItem is a validated AddItemRequest.
type NewItem struct {
	ExerciseID int
	// nil appends after the last item
	Position *int
	Sets     *int
	Reps     *string
	WeightKg *float64
	Notes    *string
}

func (req AddItemRequest) Validate() (NewItem, error) {
	if req.ExerciseID <= 0 {
		return NewItem{}, pkg.NewValidationError("exerciseId must be a positive integer")
	}
	if req.Position != nil && *req.Position < 1 {
		return NewItem{}, pkg.NewValidationError("position must be >= 1")
	}
	if req.Sets != nil && *req.Sets < 0 {
		return NewItem{}, pkg.NewValidationError("sets must be >= 0")
	}
	if err := pkg.ValidateWeightKg(req.WeightKg); err != nil {
		return NewItem{}, err
	}

	var reps *string
	if req.Reps != nil {
		s := string(*req.Reps)
		reps = trimmedOrNil(&s)
	}

	return NewItem{
		ExerciseID: req.ExerciseID,
		Position:   req.Position,
		Sets:       req.Sets,
		Reps:       reps,
		WeightKg:   req.WeightKg,
		Notes:      trimmedOrNil(req.Notes),
	}, nil
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
