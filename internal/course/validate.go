package course

import (
	"net/url"
	"strings"
	"time"

	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/models"
)

// ValidateFile checks the metadata shape only; whether the object exists is
// the file verifier's job.
func ValidateFile(field string, f models.File) error {
	if strings.TrimSpace(f.Name) == "" {
		return apperror.Field(field+".name", "this field is required")
	}
	if strings.TrimSpace(f.URL) == "" {
		return apperror.Field(field+".url", "this field is required")
	}
	u, err := url.ParseRequestURI(f.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return apperror.Field(field+".url", "must be an absolute URL")
	}
	return nil
}

func validateWindow(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() {
		return time.Time{}, time.Time{}, apperror.Field("start_date_time", "this field is required")
	}
	if end.IsZero() {
		return time.Time{}, time.Time{}, apperror.Field("end_date_time", "this field is required")
	}
	start, end = start.UTC().Truncate(time.Millisecond), end.UTC().Truncate(time.Millisecond)
	if !start.Before(end) {
		return time.Time{}, time.Time{}, apperror.Field("end_date_time", "must be after start_date_time")
	}
	return start, end, nil
}

func validateQuestion(q models.Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return apperror.Field("questions.text", "this field is required")
	}
	if len(q.Options) == 0 {
		return apperror.Field("questions.options", "at least one option is required")
	}
	if q.Points < 0 {
		return apperror.Field("questions.points", "must be greater than or equal to 0")
	}
	for _, opt := range q.Options {
		if opt == q.CorrectAnswer {
			return nil
		}
	}
	return apperror.Field("questions.correct_answer", "must be one of the options")
}
