// Package submission implements the per-(item, student) submission lifecycle:
// NOT_OPEN -> OPEN -> SUBMITTED -> GRADED, with CLOSED when the window passes
// without a submission.
package submission

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/course"
	"github.com/RubachokBoss/course-service/internal/models"
)

var newID = func() string { return uuid.New().String() }

// Window is the inclusive interval in which submissions are accepted.
type Window struct {
	Start time.Time
	End   time.Time
}

func WindowOf(it *course.Item) Window {
	return Window{Start: it.StartDateTime, End: it.EndDateTime}
}

// Phase places now relative to the window, ignoring submissions.
func (w Window) Phase(now time.Time) models.SubmissionStatus {
	now = now.UTC()
	switch {
	case now.Before(w.Start.UTC()):
		return models.SubmissionStatusNotOpen
	case now.After(w.End.UTC()):
		return models.SubmissionStatusClosed
	default:
		return models.SubmissionStatusOpen
	}
}

// Status of one student's interaction with an item. An existing submission
// overrides the window state.
func Status(w Window, sub *models.Submission, now time.Time) models.SubmissionStatus {
	if sub != nil {
		if sub.IsGraded() {
			return models.SubmissionStatusGraded
		}
		return models.SubmissionStatusSubmitted
	}
	return w.Phase(now)
}

// StatusOf is Status for a located item.
func StatusOf(it *course.Item, studentID string, now time.Time) (models.SubmissionStatus, *models.Submission) {
	sub := it.FindSubmission(studentID)
	return Status(WindowOf(it), sub, now), sub
}

// Submit appends the student's single submission to the item. It must run
// inside a conditional write of the whole course so the duplicate check and
// the append are one atomic step.
func Submit(it *course.Item, studentID string, in models.NewSubmission, now time.Time) (models.Submission, error) {
	now = now.UTC()

	if strings.TrimSpace(studentID) == "" {
		return models.Submission{}, apperror.Field("student_id", "this field is required")
	}
	if it.FindSubmission(studentID) != nil {
		return models.Submission{}, apperror.DuplicateSubmission("a submission already exists for this student")
	}

	switch WindowOf(it).Phase(now) {
	case models.SubmissionStatusNotOpen:
		return models.Submission{}, apperror.WindowNotOpen("submissions are not open yet")
	case models.SubmissionStatusClosed:
		return models.Submission{}, apperror.WindowClosed("the submission window has closed")
	}

	if err := validateContent(it, in); err != nil {
		return models.Submission{}, err
	}

	sub := models.Submission{
		ID:          newID(),
		StudentID:   studentID,
		Content:     in.Content,
		Files:       append([]models.File{}, in.Files...),
		SubmittedAt: now,
	}
	if it.Kind == models.ItemKindQuiz && len(in.Answers) > 0 {
		sub.Answers = append([]string(nil), in.Answers...)
	}

	*it.Submissions = append(*it.Submissions, sub)
	return sub, nil
}

func validateContent(it *course.Item, in models.NewSubmission) error {
	for _, f := range in.Files {
		if err := course.ValidateFile("files", f); err != nil {
			return err
		}
	}

	hasAnswers := false
	if it.Kind == models.ItemKindQuiz && it.Quiz != nil && len(in.Answers) > 0 {
		if len(in.Answers) > len(it.Quiz.Questions) {
			return apperror.Field("answers", "more answers than questions")
		}
		for _, a := range in.Answers {
			if strings.TrimSpace(a) != "" {
				hasAnswers = true
				break
			}
		}
	}

	if strings.TrimSpace(in.Content) == "" && len(in.Files) == 0 && !hasAnswers {
		return apperror.Validation("a submission needs text content or at least one file")
	}
	return nil
}
