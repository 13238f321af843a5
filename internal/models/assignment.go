package models

import (
	"time"
)

const DefaultAssignmentPoints = 100

type Assignment struct {
	ID            string       `json:"id" bson:"id"`
	Title         string       `json:"title" bson:"title"`
	Content       string       `json:"content" bson:"content"`
	StartDateTime time.Time    `json:"start_date_time" bson:"start_date_time"`
	EndDateTime   time.Time    `json:"end_date_time" bson:"end_date_time"`
	TotalPoints   float64      `json:"total_points" bson:"total_points"`
	Files         []File       `json:"files" bson:"files"`
	Submissions   []Submission `json:"submissions" bson:"submissions"`
	CreatedAt     time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" bson:"updated_at"`
}

type Quiz struct {
	ID            string       `json:"id" bson:"id"`
	Title         string       `json:"title" bson:"title"`
	Description   string       `json:"description" bson:"description"`
	Duration      int          `json:"duration" bson:"duration"` // minutes
	TotalPoints   float64      `json:"total_points" bson:"total_points"`
	Questions     []Question   `json:"questions" bson:"questions"`
	StartDateTime time.Time    `json:"start_date_time" bson:"start_date_time"`
	EndDateTime   time.Time    `json:"end_date_time" bson:"end_date_time"`
	File          *File        `json:"file,omitempty" bson:"file,omitempty"`
	Submissions   []Submission `json:"submissions" bson:"submissions"`
	CreatedAt     time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" bson:"updated_at"`
}

type Question struct {
	Text          string   `json:"text" bson:"text" validate:"required"`
	Options       []string `json:"options" bson:"options" validate:"min=1"`
	CorrectAnswer string   `json:"correct_answer,omitempty" bson:"correct_answer" validate:"required"`
	Points        float64  `json:"points" bson:"points" validate:"gte=0"`
}

// AssignmentProjection is a read-only flattened view of an embedded
// assignment, addressed by course and position.
type AssignmentProjection struct {
	CourseID     string     `json:"course_id"`
	ChapterIndex int        `json:"chapter_index"`
	ItemIndex    int        `json:"item_index"`
	Assignment   Assignment `json:"assignment"`
}
