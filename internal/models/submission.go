package models

import (
	"time"
)

type ItemKind string

const (
	ItemKindAssignment ItemKind = "assignment"
	ItemKindQuiz       ItemKind = "quiz"
	ItemKindLesson     ItemKind = "lesson"
)

func (k ItemKind) String() string {
	return string(k)
}

// ItemRef addresses a submittable item either by its stable ID or by
// position. ID wins when both are set.
type ItemRef struct {
	Kind         ItemKind `json:"kind"`
	ID           string   `json:"id,omitempty"`
	ChapterIndex int      `json:"chapter_index"`
	ItemIndex    int      `json:"item_index"`
}

type Submission struct {
	ID          string     `json:"id" bson:"id"`
	StudentID   string     `json:"student_id" bson:"student_id"`
	Content     string     `json:"content,omitempty" bson:"content,omitempty"`
	Files       []File     `json:"files" bson:"files"`
	Answers     []string   `json:"answers,omitempty" bson:"answers,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at" bson:"submitted_at"`
	Score       *float64   `json:"score,omitempty" bson:"score,omitempty"`
	Feedback    string     `json:"feedback,omitempty" bson:"feedback,omitempty"`
	GradedAt    *time.Time `json:"graded_at,omitempty" bson:"graded_at,omitempty"`
	GradedBy    string     `json:"graded_by,omitempty" bson:"graded_by,omitempty"`
}

func (s *Submission) IsGraded() bool {
	return s.Score != nil
}

type SubmissionStatus string

const (
	SubmissionStatusNotOpen   SubmissionStatus = "NOT_OPEN"
	SubmissionStatusOpen      SubmissionStatus = "OPEN"
	SubmissionStatusSubmitted SubmissionStatus = "SUBMITTED"
	SubmissionStatusGraded    SubmissionStatus = "GRADED"
	SubmissionStatusClosed    SubmissionStatus = "CLOSED"
)

func (s SubmissionStatus) String() string {
	return string(s)
}
