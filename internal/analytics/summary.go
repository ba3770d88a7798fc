package analytics

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Row is one row of the core /analytics/workouts answer.
type Row struct {
	WorkoutID    *int     `json:"workout_id"`
	WorkoutDate  string   `json:"workout_date"`
	ItemID       *int     `json:"item_id"`
	ExerciseID   *int     `json:"exercise_id"`
	ExerciseName *string  `json:"exercise_name"`
	SetID        *int     `json:"set_id"`
	SetIndex     *int     `json:"set_index"`
	Reps         *int     `json:"reps"`
	WeightKg     *Decimal `json:"weight_kg"`
}

// Decimal accepts a JSON number or a numeric string, as SQL decimals are often sent.
// Anything unparsable counts as zero.
type Decimal float64

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*d = 0
		return nil
	}
	*d = Decimal(f)
	return nil
}

type Summary struct {
	Workouts    int     `json:"workouts"`
	Exercises   int     `json:"exercises"`
	Sets        int     `json:"sets"`
	TotalReps   int     `json:"total_reps"`
	TotalVolume float64 `json:"total_volume"`
}

type DayVolume struct {
	Date   string  `json:"date"`
	Volume float64 `json:"volume"`
}

type ExerciseVolume struct {
	Exercise string  `json:"exercise"`
	Volume   float64 `json:"volume"`
}

type Result struct {
	From       string           `json:"from"`
	To         string           `json:"to"`
	Summary    Summary          `json:"summary"`
	ByDay      []DayVolume      `json:"by_day"`
	ByExercise []ExerciseVolume `json:"by_exercise"`
}

// Compute aggregates the rows of [from, to].
// Workouts and exercises are counted over all rows, sets, reps and volume only over rows having a set.
func Compute(from, to string, rows []Row) Result {
	result := Result{
		From:       from,
		To:         to,
		ByDay:      []DayVolume{},
		ByExercise: []ExerciseVolume{},
	}
	if len(rows) == 0 {
		return result
	}

	workouts := map[int]bool{}
	exercises := map[int]bool{}
	volumeByDay := map[string]float64{}
	volumeByExercise := map[string]float64{}
	totalVolume := 0.0

	for _, row := range rows {
		if row.WorkoutID != nil {
			workouts[*row.WorkoutID] = true
		}
		if row.ExerciseID != nil {
			exercises[*row.ExerciseID] = true
		}

		if row.SetID == nil {
			continue
		}

		reps := 0
		if row.Reps != nil {
			reps = *row.Reps
		}
		weight := 0.0
		if row.WeightKg != nil {
			weight = float64(*row.WeightKg)
		}
		volume := float64(reps) * weight

		result.Summary.Sets++
		result.Summary.TotalReps += reps
		totalVolume += volume

		if day := dayOf(row.WorkoutDate); day != "" {
			volumeByDay[day] += volume
		}
		volumeByExercise[exerciseLabel(row)] += volume
	}

	result.Summary.Workouts = len(workouts)
	result.Summary.Exercises = len(exercises)
	result.Summary.TotalVolume = round2(totalVolume)

	for day, volume := range volumeByDay {
		result.ByDay = append(result.ByDay, DayVolume{Date: day, Volume: round2(volume)})
	}
	slices.SortFunc(result.ByDay, func(a, b DayVolume) int {
		return strings.Compare(a.Date, b.Date)
	})

	for exercise, volume := range volumeByExercise {
		result.ByExercise = append(result.ByExercise, ExerciseVolume{Exercise: exercise, Volume: round2(volume)})
	}
	slices.SortFunc(result.ByExercise, func(a, b ExerciseVolume) int {
		if c := cmp.Compare(b.Volume, a.Volume); c != 0 {
			return c
		}
		return strings.Compare(a.Exercise, b.Exercise)
	})

	return result
}

func dayOf(workoutDate string) string {
	if len(workoutDate) > 10 {
		return workoutDate[:10]
	}
	return workoutDate
}

func exerciseLabel(row Row) string {
	if row.ExerciseName != nil && *row.ExerciseName != "" {
		return *row.ExerciseName
	}
	if row.ExerciseID != nil {
		return fmt.Sprintf("exercise_%d", *row.ExerciseID)
	}
	return "unknown_exercise"
}

// round2 rounds half away from zero to 2 decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
