package catalog

import "time"

type Muscle struct {
	ID     int    `json:"id"`
	WgerID int    `json:"wger_id"`
	Name   string `json:"name"`
}

// ExerciseListItem is a row of GET /exercises.
type ExerciseListItem struct {
	ID              int     `json:"id"`
	WgerID          int     `json:"wger_id"`
	Name            string  `json:"name"`
	DescriptionText *string `json:"description_text"`
	ImageURL        *string `json:"image_url"`
}

type Exercise struct {
	ID              int       `json:"id"`
	WgerID          int       `json:"wger_id"`
	Name            string    `json:"name"`
	DescriptionHTML *string   `json:"description_html"`
	DescriptionText *string   `json:"description_text"`
	ImageURL        *string   `json:"image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Muscles         []Muscle  `json:"muscles"`
}

// ExerciseUpsert is what the sync writes for a single WGER exercise.
type ExerciseUpsert struct {
	WgerID          int
	Name            string
	DescriptionHTML *string
	DescriptionText *string
	ImageURL        *string
}

type SkippedCounts struct {
	NoPreferredLanguage int `json:"noSpanish"`
	NoImage             int `json:"noImage"`
	Garbage             int `json:"garbage"`
	DuplicateName       int `json:"duplicateName"`
}

type SyncReport struct {
	Message               string        `json:"message"`
	OnlyPreferredLanguage bool          `json:"onlySpanish"`
	OnlyWithImage         bool          `json:"onlyWithImage"`
	MaxExercisesToProcess int           `json:"maxExercisesToProcess"`
	LanguageID            int           `json:"wgerLangEs"`
	Inserted              int           `json:"inserted"`
	Updated               int           `json:"updated"`
	RelationsInserted     int           `json:"relationsInserted"`
	Skipped               SkippedCounts `json:"skipped"`
	DurationMs            int64         `json:"durationMs"`
}

type ResetResponse struct {
	Message string `json:"message"`
}
