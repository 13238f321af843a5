package grading

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/course"
	"github.com/RubachokBoss/course-service/internal/models"
	"github.com/RubachokBoss/course-service/internal/submission"
)

var t0 = time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)

func submittedItem(t *testing.T) (*models.Course, *course.Item) {
	t.Helper()
	total := 100.0
	c, err := course.New("teacher", models.CreateCourseRequest{
		Title:       "Course",
		Description: "d",
		Chapters: []models.NewChapter{{
			Title: "One",
			Assignments: []models.NewAssignment{{
				Title:         "Essay",
				StartDateTime: t0,
				EndDateTime:   t0.Add(time.Hour),
				TotalPoints:   &total,
			}},
		}},
	}, t0)
	require.NoError(t, err)
	require.NoError(t, course.Enroll(c, "student", "", t0))

	it, err := course.Locate(c, models.ItemRef{Kind: models.ItemKindAssignment})
	require.NoError(t, err)
	_, err = submission.Submit(it, "student", models.NewSubmission{Content: "hello"}, t0.Add(30*time.Minute))
	require.NoError(t, err)
	return c, it
}

func TestGrade(t *testing.T) {
	c, it := submittedItem(t)
	gradedAt := t0.Add(2 * time.Hour)

	_, err := Grade(it, "student", 150, "too much", "teacher", gradedAt)
	assert.Equal(t, apperror.KindOutOfRange, apperror.KindOf(err))
	_, err = Grade(it, "student", -1, "", "teacher", gradedAt)
	assert.Equal(t, apperror.KindOutOfRange, apperror.KindOf(err))
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = Grade(it, "student", bad, "", "teacher", gradedAt)
		assert.Equal(t, apperror.KindOutOfRange, apperror.KindOf(err))
	}
	assert.False(t, it.FindSubmission("student").IsGraded())

	sub, err := Grade(it, "student", 90, "Good", "teacher", gradedAt)
	require.NoError(t, err)
	require.NotNil(t, sub.Score)
	assert.Equal(t, 90.0, *sub.Score)
	assert.Equal(t, "Good", sub.Feedback)
	assert.Equal(t, "teacher", sub.GradedBy)
	assert.Equal(t, gradedAt, *sub.GradedAt)

	status, stored := submission.StatusOf(it, "student", gradedAt)
	assert.Equal(t, models.SubmissionStatusGraded, status)
	assert.Equal(t, 90.0, *stored.Score)

	// Regrading overwrites.
	_, err = Grade(it, "student", 100, "Perfect", "teacher", gradedAt.Add(time.Minute))
	require.NoError(t, err)
	stored = &c.Chapters[0].Assignments[0].Submissions[0]
	assert.Equal(t, 100.0, *stored.Score)
	assert.Equal(t, "Perfect", stored.Feedback)
	assert.Equal(t, gradedAt.Add(time.Minute), *stored.GradedAt)
	assert.Equal(t, "hello", stored.Content)

	// Boundaries are inclusive.
	_, err = Grade(it, "student", 0, "", "teacher", gradedAt)
	assert.NoError(t, err)
}

func TestGradeWithoutSubmission(t *testing.T) {
	_, it := submittedItem(t)
	_, err := Grade(it, "nobody", 10, "", "teacher", t0)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestGradeReturnsCopy(t *testing.T) {
	_, it := submittedItem(t)
	sub, err := Grade(it, "student", 50, "", "teacher", t0)
	require.NoError(t, err)

	*sub.Score = 1
	assert.Equal(t, 50.0, *it.FindSubmission("student").Score)
}

func TestScoreQuiz(t *testing.T) {
	q := &models.Quiz{
		TotalPoints: 6,
		Questions: []models.Question{
			{CorrectAnswer: "a", Points: 2},
			{CorrectAnswer: "b", Points: 3},
			{CorrectAnswer: "c", Points: 5},
		},
	}

	tests := []struct {
		name    string
		answers []string
		want    float64
	}{
		{name: "no answers", want: 0},
		{name: "first only", answers: []string{"a"}, want: 2},
		{name: "partial", answers: []string{"x", "b"}, want: 3},
		{name: "capped at total", answers: []string{"a", "b", "c"}, want: 6},
		{name: "all wrong", answers: []string{"x", "y", "z"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreQuiz(q, tt.answers))
		})
	}
}

func TestUpsertGrade(t *testing.T) {
	c, _ := submittedItem(t)

	g, inserted, err := UpsertGrade(c, "student", "B+", "solid", "teacher", t0)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, "B+", g.Grade)

	g, inserted, err = UpsertGrade(c, "student", "A", "better", "teacher", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, "A", g.Grade)
	require.Len(t, c.Grades, 1)
	assert.Equal(t, "better", c.Grades[0].Feedback)
	assert.Equal(t, t0.Add(time.Hour), c.Grades[0].UpdatedAt)

	// The ledger never touches per-submission scores.
	assert.Nil(t, c.Chapters[0].Assignments[0].Submissions[0].Score)

	_, _, err = UpsertGrade(c, "stranger", "C", "", "teacher", t0)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, _, err = UpsertGrade(c, "student", " ", "", "teacher", t0)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	// An existing entry stays editable after the student leaves.
	course.Unenroll(c, "student", t0)
	_, inserted, err = UpsertGrade(c, "student", "A-", "", "teacher", t0)
	require.NoError(t, err)
	assert.False(t, inserted)
}
