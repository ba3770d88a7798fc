package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	garbageNames    = map[string]bool{
		"test":     true,
		"asdf":     true,
		"exercise": true,
	}
)

type bestText struct {
	name         string
	descHTML     string
	hasPreferred bool
}

// pickBestText prefers the direct name, then a translation in the preferred language, then any translation.
func pickBestText(ex WgerExerciseInfo, languageID int) bestText {
	if name := strings.TrimSpace(ex.Name); name != "" {
		// exerciseinfo is requested in the preferred language
		return bestText{
			name:         name,
			descHTML:     strings.TrimSpace(ex.Description),
			hasPreferred: true,
		}
	}

	var preferred, anyLang *WgerTranslation
	for i := range ex.Translations {
		tr := &ex.Translations[i]
		if strings.TrimSpace(tr.Name) == "" {
			continue
		}
		if anyLang == nil {
			anyLang = tr
		}
		if preferred == nil && tr.Language == languageID {
			preferred = tr
		}
	}

	best := preferred
	if best == nil {
		best = anyLang
	}
	if best == nil {
		return bestText{}
	}

	return bestText{
		name:         strings.TrimSpace(best.Name),
		descHTML:     strings.TrimSpace(best.Description),
		hasPreferred: preferred != nil,
	}
}

func isGarbageName(name string) bool {
	n := strings.TrimSpace(name)
	if len([]rune(n)) < 3 {
		return true
	}
	return garbageNames[strings.ToLower(n)]
}

func stripHTML(html string) string {
	text := htmlTagRegex.ReplaceAllString(html, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func pickFirstImageURL(ex WgerExerciseInfo) *string {
	if len(ex.Images) == 0 {
		return nil
	}
	url := strings.TrimSpace(ex.Images[0].Image)
	if url == "" {
		return nil
	}
	return &url
}

func muscleName(m WgerMuscle) string {
	if name := strings.TrimSpace(m.Name); name != "" {
		return name
	}
	if name := strings.TrimSpace(m.NameEN); name != "" {
		return name
	}
	return fmt.Sprintf("Muscle %d", m.ID)
}

// unionMuscleIDs dedupes primary then secondary ids, keeping first-seen order.
func unionMuscleIDs(primary, secondary []int) []int {
	seen := make(map[int]bool, len(primary)+len(secondary))
	ids := make([]int, 0, len(primary)+len(secondary))
	for _, list := range [][]int{primary, secondary} {
		for _, id := range list {
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
