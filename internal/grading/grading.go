// Package grading applies per-submission scores and maintains the separate
// course-level grade ledger. The two are never reconciled.
package grading

import (
	"math"
	"strings"
	"time"

	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/course"
	"github.com/RubachokBoss/course-service/internal/models"
)

// Grade writes score, feedback and the audit fields onto the student's
// submission. Repeating it overwrites the previous grade.
func Grade(it *course.Item, studentID string, score float64, feedback, graderID string, now time.Time) (models.Submission, error) {
	sub := it.FindSubmission(studentID)
	if sub == nil {
		return models.Submission{}, apperror.NotFound("no submission from student %s for this item", studentID)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 || score > it.TotalPoints {
		return models.Submission{}, apperror.OutOfRange("score %.2f is outside [0, %.2f]", score, it.TotalPoints)
	}

	gradedAt := now.UTC()
	s := score
	sub.Score = &s
	sub.Feedback = feedback
	sub.GradedAt = &gradedAt
	sub.GradedBy = graderID
	return sub.Clone(), nil
}

// ScoreQuiz sums the points of every answer that matches its question's
// correct answer. Missing answers score zero.
func ScoreQuiz(q *models.Quiz, answers []string) float64 {
	var total float64
	for i, question := range q.Questions {
		if i >= len(answers) {
			break
		}
		if answers[i] == question.CorrectAnswer {
			total += question.Points
		}
	}
	if total > q.TotalPoints {
		total = q.TotalPoints
	}
	return total
}

// UpsertGrade updates the ledger entry for studentID or inserts one. It
// reports whether a new entry was created.
func UpsertGrade(c *models.Course, studentID, grade, feedback, updatedBy string, now time.Time) (models.Grade, bool, error) {
	if strings.TrimSpace(studentID) == "" {
		return models.Grade{}, false, apperror.Field("student_id", "this field is required")
	}
	grade = strings.TrimSpace(grade)
	if grade == "" {
		return models.Grade{}, false, apperror.Field("grade", "this field is required")
	}

	now = now.UTC()
	for i := range c.Grades {
		if c.Grades[i].StudentID == studentID {
			c.Grades[i].Grade = grade
			c.Grades[i].Feedback = feedback
			c.Grades[i].UpdatedBy = updatedBy
			c.Grades[i].UpdatedAt = now
			c.UpdatedAt = now
			return c.Grades[i], false, nil
		}
	}

	// New ledger entries only for current students; existing ones stay editable.
	if !c.IsEnrolled(studentID) {
		return models.Grade{}, false, apperror.NotFound("student %s is not enrolled in this course", studentID)
	}

	g := models.Grade{
		StudentID: studentID,
		Grade:     grade,
		Feedback:  feedback,
		UpdatedBy: updatedBy,
		UpdatedAt: now,
	}
	c.Grades = append(c.Grades, g)
	c.UpdatedAt = now
	return g, true, nil
}
