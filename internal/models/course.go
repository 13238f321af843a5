package models

import (
	"time"
)

// Course is the aggregate root. Everything beneath it is embedded in the
// same document, so one conditional write covers any structural change.
type Course struct {
	ID               string    `json:"id" bson:"_id"`
	Title            string    `json:"title" bson:"title"`
	Description      string    `json:"description" bson:"description"`
	TeacherID        string    `json:"teacher_id" bson:"teacher_id"`
	EnrollmentKey    string    `json:"enrollment_key,omitempty" bson:"enrollment_key,omitempty"`
	Chapters         []Chapter `json:"chapters" bson:"chapters"`
	EnrolledStudents []string  `json:"enrolled_students" bson:"enrolled_students"`
	Files            []File    `json:"files" bson:"files"`
	Grades           []Grade   `json:"grades" bson:"grades"`
	Version          int64     `json:"version" bson:"version"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

type Chapter struct {
	Title       string       `json:"title" bson:"title"`
	Lessons     []Lesson     `json:"lessons" bson:"lessons"`
	Assignments []Assignment `json:"assignments" bson:"assignments"`
	Quizzes     []Quiz       `json:"quizzes" bson:"quizzes"`
	Files       []File       `json:"files" bson:"files"`
}

type Lesson struct {
	ID        string    `json:"id" bson:"id"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	File      *File     `json:"file,omitempty" bson:"file,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// File is metadata for an object that was already uploaded elsewhere.
type File struct {
	Name string `json:"name" bson:"name" validate:"required,max=255"`
	URL  string `json:"url" bson:"url" validate:"required,url"`
	Type string `json:"type,omitempty" bson:"type,omitempty" validate:"max=255"`
}

// Grade is one entry of the course-level grade ledger. It is independent of
// per-submission scores.
type Grade struct {
	StudentID string    `json:"student_id" bson:"student_id"`
	Grade     string    `json:"grade" bson:"grade"`
	Feedback  string    `json:"feedback,omitempty" bson:"feedback,omitempty"`
	UpdatedBy string    `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (c *Course) IsEnrolled(studentID string) bool {
	for _, id := range c.EnrolledStudents {
		if id == studentID {
			return true
		}
	}
	return false
}

func (c *Course) IsOwner(principalID string) bool {
	return principalID != "" && c.TeacherID == principalID
}

// CourseSummary is the catalog view: no chapters, no key, no ledger.
type CourseSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	TeacherID    string    `json:"teacher_id"`
	RequiresKey  bool      `json:"requires_key"`
	ChapterCount int       `json:"chapter_count"`
	StudentCount int       `json:"student_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *Course) Summary() CourseSummary {
	return CourseSummary{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		TeacherID:    c.TeacherID,
		RequiresKey:  c.EnrollmentKey != "",
		ChapterCount: len(c.Chapters),
		StudentCount: len(c.EnrolledStudents),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

type CourseFilter struct {
	TeacherID string
	StudentID string
	Search    string
}
