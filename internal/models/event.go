package models

const (
	RoutingKeyStudentEnrolled  = "student.enrolled"
	RoutingKeySubmissionCreate = "submission.created"
	RoutingKeySubmissionGraded = "submission.graded"
	RoutingKeyGradeUpserted    = "grade.upserted"
	RoutingKeyCourseDeleted    = "course.deleted"
)

type StudentEnrolledEvent struct {
	CourseID  string `json:"course_id"`
	StudentID string `json:"student_id"`
	Timestamp int64  `json:"timestamp"`
}

type SubmissionCreatedEvent struct {
	CourseID     string   `json:"course_id"`
	ItemID       string   `json:"item_id"`
	ItemKind     ItemKind `json:"item_kind"`
	SubmissionID string   `json:"submission_id"`
	StudentID    string   `json:"student_id"`
	Timestamp    int64    `json:"timestamp"`
}

type SubmissionGradedEvent struct {
	CourseID     string   `json:"course_id"`
	ItemID       string   `json:"item_id"`
	ItemKind     ItemKind `json:"item_kind"`
	SubmissionID string   `json:"submission_id"`
	StudentID    string   `json:"student_id"`
	Score        float64  `json:"score"`
	GradedBy     string   `json:"graded_by"`
	Timestamp    int64    `json:"timestamp"`
}

type GradeUpsertedEvent struct {
	CourseID  string `json:"course_id"`
	StudentID string `json:"student_id"`
	Grade     string `json:"grade"`
	UpdatedBy string `json:"updated_by"`
	Timestamp int64  `json:"timestamp"`
}

type CourseDeletedEvent struct {
	CourseID  string `json:"course_id"`
	TeacherID string `json:"teacher_id"`
	Timestamp int64  `json:"timestamp"`
}
