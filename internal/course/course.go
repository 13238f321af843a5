// Package course holds the structural rules of the course aggregate. Every
// function mutates the *models.Course it is given in place and never touches
// storage; callers persist the result with a conditional write.
package course

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/models"
)

var newID = func() string { return uuid.New().String() }

// New builds a course owned by teacherID with no enrolled students.
func New(teacherID string, req models.CreateCourseRequest, now time.Time) (*models.Course, error) {
	now = now.UTC()

	if strings.TrimSpace(teacherID) == "" {
		return nil, apperror.Field("teacher_id", "this field is required")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.Field("title", "this field is required")
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, apperror.Field("description", "this field is required")
	}
	if req.Chapters == nil {
		return nil, apperror.Field("chapters", "this field is required")
	}

	c := &models.Course{
		ID:               newID(),
		Title:            title,
		Description:      description,
		TeacherID:        teacherID,
		EnrollmentKey:    req.EnrollmentKey,
		Chapters:         make([]models.Chapter, 0, len(req.Chapters)),
		EnrolledStudents: []string{},
		Files:            []models.File{},
		Grades:           []models.Grade{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	for _, nc := range req.Chapters {
		idx, err := AddChapter(c, nc.Title, now)
		if err != nil {
			return nil, err
		}
		for _, l := range nc.Lessons {
			if _, err := AddLesson(c, idx, l, now); err != nil {
				return nil, err
			}
		}
		for _, a := range nc.Assignments {
			if _, err := AddAssignment(c, idx, a, now); err != nil {
				return nil, err
			}
		}
		for _, q := range nc.Quizzes {
			if _, err := AddQuiz(c, idx, q, now); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

// UpdateMetadata edits title, description and the enrollment key. The owner
// is never changed.
func UpdateMetadata(c *models.Course, req models.UpdateCourseRequest, now time.Time) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return apperror.Field("title", "must not be empty")
		}
		c.Title = title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return apperror.Field("description", "must not be empty")
		}
		c.Description = description
	}
	if req.EnrollmentKey != nil {
		c.EnrollmentKey = *req.EnrollmentKey
	}
	touch(c, now)
	return nil
}

// AddCourseFile attaches already uploaded file metadata to the course.
func AddCourseFile(c *models.Course, f models.File, now time.Time) error {
	if err := ValidateFile("file", f); err != nil {
		return err
	}
	c.Files = append(c.Files, f)
	touch(c, now)
	return nil
}

func touch(c *models.Course, now time.Time) {
	c.UpdatedAt = now.UTC()
}
