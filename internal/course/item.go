package course

import (
	"time"

	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/models"
)

// Item is a submittable assignment or quiz located inside a course.
// Submissions points into the course document, so appending through it
// mutates the course.
type Item struct {
	Kind          models.ItemKind
	ChapterIndex  int
	ItemIndex     int
	ID            string
	Title         string
	StartDateTime time.Time
	EndDateTime   time.Time
	TotalPoints   float64
	Submissions   *[]models.Submission
	Assignment    *models.Assignment
	Quiz          *models.Quiz
}

// Locate resolves ref against c. A stable ID takes precedence over position.
func Locate(c *models.Course, ref models.ItemRef) (*Item, error) {
	if ref.ID != "" {
		return locateByID(c, ref)
	}

	ch, err := chapterAt(c, ref.ChapterIndex)
	if err != nil {
		return nil, err
	}

	switch ref.Kind {
	case models.ItemKindAssignment:
		if ref.ItemIndex < 0 || ref.ItemIndex >= len(ch.Assignments) {
			return nil, apperror.NotFound("assignment %d not found in chapter %d", ref.ItemIndex, ref.ChapterIndex)
		}
		return assignmentItem(ch, ref.ChapterIndex, ref.ItemIndex), nil
	case models.ItemKindQuiz:
		if ref.ItemIndex < 0 || ref.ItemIndex >= len(ch.Quizzes) {
			return nil, apperror.NotFound("quiz %d not found in chapter %d", ref.ItemIndex, ref.ChapterIndex)
		}
		return quizItem(ch, ref.ChapterIndex, ref.ItemIndex), nil
	default:
		return nil, apperror.Field("kind", "must be assignment or quiz")
	}
}

func locateByID(c *models.Course, ref models.ItemRef) (*Item, error) {
	for ci := range c.Chapters {
		ch := &c.Chapters[ci]
		if ref.Kind == "" || ref.Kind == models.ItemKindAssignment {
			for ii := range ch.Assignments {
				if ch.Assignments[ii].ID == ref.ID {
					return assignmentItem(ch, ci, ii), nil
				}
			}
		}
		if ref.Kind == "" || ref.Kind == models.ItemKindQuiz {
			for ii := range ch.Quizzes {
				if ch.Quizzes[ii].ID == ref.ID {
					return quizItem(ch, ci, ii), nil
				}
			}
		}
	}
	return nil, apperror.NotFound("item %s not found", ref.ID)
}

func assignmentItem(ch *models.Chapter, ci, ii int) *Item {
	a := &ch.Assignments[ii]
	return &Item{
		Kind:          models.ItemKindAssignment,
		ChapterIndex:  ci,
		ItemIndex:     ii,
		ID:            a.ID,
		Title:         a.Title,
		StartDateTime: a.StartDateTime,
		EndDateTime:   a.EndDateTime,
		TotalPoints:   a.TotalPoints,
		Submissions:   &a.Submissions,
		Assignment:    a,
	}
}

func quizItem(ch *models.Chapter, ci, ii int) *Item {
	q := &ch.Quizzes[ii]
	return &Item{
		Kind:          models.ItemKindQuiz,
		ChapterIndex:  ci,
		ItemIndex:     ii,
		ID:            q.ID,
		Title:         q.Title,
		StartDateTime: q.StartDateTime,
		EndDateTime:   q.EndDateTime,
		TotalPoints:   q.TotalPoints,
		Submissions:   &q.Submissions,
		Quiz:          q,
	}
}

// FindSubmission returns the student's submission for the item, or nil.
func (it *Item) FindSubmission(studentID string) *models.Submission {
	subs := *it.Submissions
	for i := range subs {
		if subs[i].StudentID == studentID {
			return &subs[i]
		}
	}
	return nil
}

func (it *Item) Ref() models.ItemRef {
	return models.ItemRef{
		Kind:         it.Kind,
		ID:           it.ID,
		ChapterIndex: it.ChapterIndex,
		ItemIndex:    it.ItemIndex,
	}
}

// Projections flattens the embedded assignments into the read-only
// (courseId, chapterIndex, itemIndex) view. Submissions are left out.
func Projections(c *models.Course) []models.AssignmentProjection {
	var out []models.AssignmentProjection
	for ci, ch := range c.Chapters {
		for ii, a := range ch.Assignments {
			a.Submissions = nil
			a.Files = append([]models.File(nil), a.Files...)
			out = append(out, models.AssignmentProjection{
				CourseID:     c.ID,
				ChapterIndex: ci,
				ItemIndex:    ii,
				Assignment:   a,
			})
		}
	}
	return out
}
