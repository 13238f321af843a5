package course

import (
	"fmt"
	"strings"
	"time"

	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/models"
)

func AddLesson(c *models.Course, chapterIndex int, in models.NewLesson, now time.Time) (models.Lesson, error) {
	ch, err := chapterAt(c, chapterIndex)
	if err != nil {
		return models.Lesson{}, err
	}
	lesson, err := buildLesson(in)
	if err != nil {
		return models.Lesson{}, err
	}

	now = now.UTC()
	lesson.ID = newID()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now
	ch.Lessons = append(ch.Lessons, lesson)
	touch(c, now)
	return lesson, nil
}

// UpdateLesson replaces the editable fields of a lesson.
func UpdateLesson(c *models.Course, chapterIndex, itemIndex int, in models.NewLesson, now time.Time) (models.Lesson, error) {
	ch, err := chapterAt(c, chapterIndex)
	if err != nil {
		return models.Lesson{}, err
	}
	if itemIndex < 0 || itemIndex >= len(ch.Lessons) {
		return models.Lesson{}, apperror.NotFound("lesson %d not found in chapter %d", itemIndex, chapterIndex)
	}
	updated, err := buildLesson(in)
	if err != nil {
		return models.Lesson{}, err
	}

	current := &ch.Lessons[itemIndex]
	current.Title = updated.Title
	current.Content = updated.Content
	current.File = updated.File
	current.UpdatedAt = now.UTC()
	touch(c, now)
	return *current, nil
}

func RemoveLesson(c *models.Course, chapterIndex, itemIndex int, now time.Time) error {
	ch, err := chapterAt(c, chapterIndex)
	if err != nil {
		return err
	}
	if itemIndex < 0 || itemIndex >= len(ch.Lessons) {
		return apperror.NotFound("lesson %d not found in chapter %d", itemIndex, chapterIndex)
	}
	ch.Lessons = append(ch.Lessons[:itemIndex:itemIndex], ch.Lessons[itemIndex+1:]...)
	touch(c, now)
	return nil
}

func AddAssignment(c *models.Course, chapterIndex int, in models.NewAssignment, now time.Time) (models.Assignment, error) {
	ch, err := chapterAt(c, chapterIndex)
	if err != nil {
		return models.Assignment{}, err
	}
	a, err := buildAssignment(in)
	if err != nil {
		return models.Assignment{}, err
	}

	now = now.UTC()
	a.ID = newID()
	a.Submissions = []models.Submission{}
	a.CreatedAt = now
	a.UpdatedAt = now
	ch.Assignments = append(ch.Assignments, a)
	touch(c, now)
	return a, nil
}

// UpdateAssignment revalidates and replaces the assignment definition while
// keeping its ID and submissions.
func UpdateAssignment(c *models.Course, chapterIndex, itemIndex int, in models.NewAssignment, now time.Time) (models.Assignment, error) {
	ch, err := chapterAt(c, chapterIndex)
	if err != nil {
		return models.Assignment{}, err
	}
	if itemIndex < 0 || itemIndex >= len(ch.Assignments) {
		return models.Assignment{}, apperror.NotFound("assignment %d not found in chapter %d", itemIndex, chapterIndex)
	}
	updated, err := buildAssignment(in)
	if err != nil {
		return models.Assignment{}, err
	}

	current := &ch.Assignments[itemIndex]
	for _, sub := range current.Submissions {
		if sub.Score != nil && *sub.Score > updated.TotalPoints {
			return models.Assignment{}, apperror.Field("total_points",
				fmt.Sprintf("must not be below the recorded score %.2f", *sub.Score))
		}
	}
	current.Title = updated.Title
	current.Content = updated.Content
	current.StartDateTime = updated.StartDateTime
	current.EndDateTime = updated.EndDateTime
	current.TotalPoints = updated.TotalPoints
	current.Files = updated.Files
	current.UpdatedAt = now.UTC()
	touch(c, now)
	return *current, nil
}

func RemoveAssignment(c *models.Course, chapterIndex, itemIndex int, now time.Time) error {
	ch, err := chapterAt(c, chapterIndex)
	if err != nil {
		return err
	}
	if itemIndex < 0 || itemIndex >= len(ch.Assignments) {
		return apperror.NotFound("assignment %d not found in chapter %d", itemIndex, chapterIndex)
	}
	ch.Assignments = append(ch.Assignments[:itemIndex:itemIndex], ch.Assignments[itemIndex+1:]...)
	touch(c, now)
	return nil
}

func AddQuiz(c *models.Course, chapterIndex int, in models.NewQuiz, now time.Time) (models.Quiz, error) {
	ch, err := chapterAt(c, chapterIndex)
	if err != nil {
		return models.Quiz{}, err
	}
	q, err := buildQuiz(in)
	if err != nil {
		return models.Quiz{}, err
	}

	now = now.UTC()
	q.ID = newID()
	q.Submissions = []models.Submission{}
	q.CreatedAt = now
	q.UpdatedAt = now
	ch.Quizzes = append(ch.Quizzes, q)
	touch(c, now)
	return q, nil
}

func RemoveQuiz(c *models.Course, chapterIndex, itemIndex int, now time.Time) error {
	ch, err := chapterAt(c, chapterIndex)
	if err != nil {
		return err
	}
	if itemIndex < 0 || itemIndex >= len(ch.Quizzes) {
		return apperror.NotFound("quiz %d not found in chapter %d", itemIndex, chapterIndex)
	}
	ch.Quizzes = append(ch.Quizzes[:itemIndex:itemIndex], ch.Quizzes[itemIndex+1:]...)
	touch(c, now)
	return nil
}

func buildLesson(in models.NewLesson) (models.Lesson, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Lesson{}, apperror.Field("title", "this field is required")
	}
	if in.File != nil {
		if err := ValidateFile("file", *in.File); err != nil {
			return models.Lesson{}, err
		}
	}

	var file *models.File
	if in.File != nil {
		f := *in.File
		file = &f
	}
	return models.Lesson{Title: title, Content: in.Content, File: file}, nil
}

func buildAssignment(in models.NewAssignment) (models.Assignment, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Assignment{}, apperror.Field("title", "this field is required")
	}
	start, end, err := validateWindow(in.StartDateTime, in.EndDateTime)
	if err != nil {
		return models.Assignment{}, err
	}

	points := float64(models.DefaultAssignmentPoints)
	if in.TotalPoints != nil {
		points = *in.TotalPoints
	}
	if points < 0 {
		return models.Assignment{}, apperror.Field("total_points", "must be greater than or equal to 0")
	}

	files := make([]models.File, 0, len(in.Files))
	for _, f := range in.Files {
		if err := ValidateFile("files", f); err != nil {
			return models.Assignment{}, err
		}
		files = append(files, f)
	}

	return models.Assignment{
		Title:         title,
		Content:       in.Content,
		StartDateTime: start,
		EndDateTime:   end,
		TotalPoints:   points,
		Files:         files,
	}, nil
}

func buildQuiz(in models.NewQuiz) (models.Quiz, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Quiz{}, apperror.Field("title", "this field is required")
	}
	start, end, err := validateWindow(in.StartDateTime, in.EndDateTime)
	if err != nil {
		return models.Quiz{}, err
	}
	if in.Duration < 0 {
		return models.Quiz{}, apperror.Field("duration", "must be greater than or equal to 0")
	}

	questions := make([]models.Question, 0, len(in.Questions))
	var sum float64
	for _, q := range in.Questions {
		if err := validateQuestion(q); err != nil {
			return models.Quiz{}, err
		}
		q.Options = append([]string(nil), q.Options...)
		questions = append(questions, q)
		sum += q.Points
	}

	points := sum
	if in.TotalPoints != nil {
		points = *in.TotalPoints
	} else if points == 0 {
		points = models.DefaultAssignmentPoints
	}
	if points < 0 {
		return models.Quiz{}, apperror.Field("total_points", "must be greater than or equal to 0")
	}

	var file *models.File
	if in.File != nil {
		if err := ValidateFile("file", *in.File); err != nil {
			return models.Quiz{}, err
		}
		f := *in.File
		file = &f
	}

	return models.Quiz{
		Title:         title,
		Description:   in.Description,
		Duration:      in.Duration,
		TotalPoints:   points,
		Questions:     questions,
		StartDateTime: start,
		EndDateTime:   end,
		File:          file,
	}, nil
}
