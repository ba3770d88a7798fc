package catalog

import (
	"bytes"
	"encoding/json"
	"math"
)

type wgerPage[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type WgerMuscle struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	NameEN string `json:"name_en"`
}

type WgerImage struct {
	Image string `json:"image"`
}

type WgerTranslation struct {
	Language    int    `json:"language"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type WgerExerciseInfo struct {
	ID               int               `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	Muscles          MuscleRefs        `json:"muscles"`
	MusclesSecondary MuscleRefs        `json:"muscles_secondary"`
	Images           []WgerImage       `json:"images"`
	Translations     []WgerTranslation `json:"translations"`
}

// MuscleRefs decodes WGER muscle lists given either as ids or as objects carrying an id.
// Items of any other shape are dropped.
type MuscleRefs []int

func (m *MuscleRefs) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	ids := make([]int, 0, len(raw))
	for _, item := range raw {
		if id, ok := muscleRefID(item); ok {
			ids = append(ids, id)
		}
	}
	*m = ids
	return nil
}

func muscleRefID(item json.RawMessage) (int, bool) {
	var num float64
	if err := json.Unmarshal(item, &num); err == nil {
		return integral(num)
	}

	var obj struct {
		ID *float64 `json:"id"`
	}
	if err := json.Unmarshal(item, &obj); err == nil && obj.ID != nil {
		return integral(*obj.ID)
	}

	return 0, false
}

func integral(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
