package models

import "time"

// Data Transfer Objects

type CreateCourseRequest struct {
	Title         string       `json:"title" validate:"required,max=255"`
	Description   string       `json:"description" validate:"required"`
	EnrollmentKey string       `json:"enrollment_key" validate:"max=128"`
	Chapters      []NewChapter `json:"chapters" validate:"required,dive"`
}

type NewChapter struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Lessons     []NewLesson     `json:"lessons" validate:"dive"`
	Assignments []NewAssignment `json:"assignments" validate:"dive"`
	Quizzes     []NewQuiz       `json:"quizzes" validate:"dive"`
}

// UpdateCourseRequest edits metadata only; nil fields are left untouched and an
// empty enrollment key clears it.
type UpdateCourseRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description   *string `json:"description" validate:"omitempty,min=1"`
	EnrollmentKey *string `json:"enrollment_key" validate:"omitempty,max=128"`
}

type AddChapterRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

type NewLesson struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content"`
	File    *File  `json:"file"`
}

type NewAssignment struct {
	Title         string    `json:"title" validate:"required,max=255"`
	Content       string    `json:"content"`
	StartDateTime time.Time `json:"start_date_time" validate:"required"`
	EndDateTime   time.Time `json:"end_date_time" validate:"required"`
	TotalPoints   *float64  `json:"total_points" validate:"omitempty,gte=0"`
	Files         []File    `json:"files" validate:"dive"`
}

type NewQuiz struct {
	Title         string     `json:"title" validate:"required,max=255"`
	Description   string     `json:"description"`
	Duration      int        `json:"duration" validate:"gte=0"`
	TotalPoints   *float64   `json:"total_points" validate:"omitempty,gte=0"`
	Questions     []Question `json:"questions" validate:"dive"`
	StartDateTime time.Time  `json:"start_date_time" validate:"required"`
	EndDateTime   time.Time  `json:"end_date_time" validate:"required"`
	File          *File      `json:"file"`
}

type NewSubmission struct {
	Content string   `json:"content"`
	Files   []File   `json:"files" validate:"dive"`
	Answers []string `json:"answers"`
}

type EnrollRequest struct {
	EnrollmentKey string `json:"enrollment_key"`
}

type GradeSubmissionRequest struct {
	Score    *float64 `json:"score" validate:"required"`
	Feedback string   `json:"feedback" validate:"max=5000"`
}

type UpsertGradeRequest struct {
	Grade    string `json:"grade" validate:"required,max=32"`
	Feedback string `json:"feedback" validate:"max=5000"`
}

type AddFileRequest struct {
	Name string `json:"name" validate:"required,max=255"`
	URL  string `json:"url" validate:"required,url"`
	Type string `json:"type" validate:"max=255"`
}

func (r AddFileRequest) File() File {
	return File{Name: r.Name, URL: r.URL, Type: r.Type}
}

type ItemStatusResponse struct {
	Kind       ItemKind         `json:"kind"`
	ItemID     string           `json:"item_id"`
	Status     SubmissionStatus `json:"status"`
	Submission *Submission      `json:"submission,omitempty"`
}

type CoursesResponse struct {
	Courses []CourseSummary `json:"courses"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}
