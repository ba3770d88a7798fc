package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/gonzalo9292/myworkout/internal/analytics"
)

const (
	DefaultSource  = "frontend-angular"
	DefaultTrigger = "user_click"
)

type Range struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

type PDF struct {
	Filename  *string `json:"filename,omitempty"`
	Generated *bool   `json:"generated,omitempty"`
}

type Meta struct {
	GeneratedAt *string `json:"generated_at,omitempty"`
	Source      *string `json:"source,omitempty"`
	Trigger     *string `json:"trigger,omitempty"`
}

// DocumentResult is an analytics result as the client sends it back, any part may be missing.
type DocumentResult struct {
	From       string                     `json:"from"`
	To         string                     `json:"to"`
	Summary    *analytics.Summary         `json:"summary"`
	ByDay      []analytics.DayVolume      `json:"by_day"`
	ByExercise []analytics.ExerciseVolume `json:"by_exercise"`
}

// Document is what gets stored for a generated report.
type Document struct {
	Range  *Range          `json:"range,omitempty"`
	Result *DocumentResult `json:"result,omitempty"`
	PDF    *PDF              `json:"pdf,omitempty"`
	Meta   *Meta             `json:"meta,omitempty"`
}

type CreateRequest Document

type CreateResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

type DeleteResponse struct {
	OK      bool   `json:"ok"`
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

type ListResponse struct {
	Items []Report `json:"items"`
	Limit int      `json:"limit"`
	Skip  int      `json:"skip"`
}

type ReportPDF struct {
	Filename  *string `json:"filename"`
	Generated bool    `json:"generated"`
}

type ReportResult struct {
	From       *string                    `json:"from"`
	To         *string                    `json:"to"`
	Summary    *analytics.Summary         `json:"summary"`
	ByDay      []analytics.DayVolume      `json:"by_day"`
	ByExercise []analytics.ExerciseVolume `json:"by_exercise"`
}

// Report is the normalized view of a stored Document.
type Report struct {
	ID          string       `json:"id"`
	GeneratedAt string       `json:"generated_at"`
	Range       Range        `json:"range"`
	PDF         ReportPDF    `json:"pdf"`
	Result      ReportResult `json:"result"`
}

// StoredReport is a row of report_generations.
type StoredReport struct {
	ID          string
	GeneratedAt time.Time
	Document    Document
}

// Prepare completes a create request: generation time, range taken from the result,
// and the pdf file name when the range is known.
func Prepare(req CreateRequest, now time.Time) (Document, time.Time) {
	doc := Document(req)

	if doc.Meta == nil {
		doc.Meta = &Meta{}
	}
	generatedAt := now.UTC()
	if doc.Meta.GeneratedAt == nil || strings.TrimSpace(*doc.Meta.GeneratedAt) == "" {
		formatted := generatedAt.Format(time.RFC3339)
		doc.Meta.GeneratedAt = &formatted
	} else if parsed, err := time.Parse(time.RFC3339, *doc.Meta.GeneratedAt); err == nil {
		generatedAt = parsed.UTC()
	}
	if doc.Meta.Source == nil {
		doc.Meta.Source = strPtr(DefaultSource)
	}
	if doc.Meta.Trigger == nil {
		doc.Meta.Trigger = strPtr(DefaultTrigger)
	}

	if doc.Range == nil {
		doc.Range = &Range{}
	}
	if doc.Result != nil {
		if isBlank(doc.Range.From) && doc.Result.From != "" {
			doc.Range.From = strPtr(doc.Result.From)
		}
		if isBlank(doc.Range.To) && doc.Result.To != "" {
			doc.Range.To = strPtr(doc.Result.To)
		}
	}

	if doc.PDF == nil {
		doc.PDF = &PDF{}
	}
	if doc.PDF.Generated == nil {
		generated := true
		doc.PDF.Generated = &generated
	}
	if isBlank(doc.PDF.Filename) && !isBlank(doc.Range.From) && !isBlank(doc.Range.To) {
		doc.PDF.Filename = strPtr(Filename(*doc.Range.From, *doc.Range.To))
	}

	return doc, generatedAt
}

// Normalize shapes a stored report for clients, filling what older documents may lack.
func Normalize(stored StoredReport) Report {
	doc := stored.Document
	report := Report{
		ID: stored.ID,
		Result: ReportResult{
			ByDay:      []analytics.DayVolume{},
			ByExercise: []analytics.ExerciseVolume{},
		},
	}

	if doc.Result != nil {
		report.Result.From = nilIfBlank(doc.Result.From)
		report.Result.To = nilIfBlank(doc.Result.To)
		report.Result.Summary = doc.Result.Summary
		if doc.Result.ByDay != nil {
			report.Result.ByDay = doc.Result.ByDay
		}
		if doc.Result.ByExercise != nil {
			report.Result.ByExercise = doc.Result.ByExercise
		}
	}

	if doc.Range != nil {
		report.Range.From = nilIfBlank(deref(doc.Range.From))
		report.Range.To = nilIfBlank(deref(doc.Range.To))
	}
	if report.Range.From == nil {
		report.Range.From = report.Result.From
	}
	if report.Range.To == nil {
		report.Range.To = report.Result.To
	}

	report.GeneratedAt = stored.GeneratedAt.UTC().Format(time.RFC3339)
	if doc.Meta != nil && !isBlank(doc.Meta.GeneratedAt) {
		report.GeneratedAt = *doc.Meta.GeneratedAt
	}

	report.PDF.Generated = true
	if doc.PDF != nil {
		if doc.PDF.Generated != nil {
			report.PDF.Generated = *doc.PDF.Generated
		}
		report.PDF.Filename = nilIfBlank(deref(doc.PDF.Filename))
	}
	if report.PDF.Filename == nil && report.Range.From != nil && report.Range.To != nil {
		report.PDF.Filename = strPtr(Filename(*report.Range.From, *report.Range.To))
	}

	return report
}

// Filename turns a YYYY-MM-DD range into Progreso_del_DD-MM-YYYY_al_DD-MM-YYYY.pdf.
func Filename(from, to string) string {
	return fmt.Sprintf("Progreso_del_%s_al_%s.pdf", dayMonthYear(from), dayMonthYear(to))
}

func dayMonthYear(ymd string) string {
	if len(ymd) >= 10 && ymd[4] == '-' && ymd[7] == '-' {
		return fmt.Sprintf("%s-%s-%s", ymd[8:10], ymd[5:7], ymd[0:4])
	}
	return ymd
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func nilIfBlank(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string {
	return &s
}
