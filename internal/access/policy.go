// Package access decides whether a principal may perform an operation on a
// course. Decisions are pure: no I/O, no state.
package access

import (
	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/models"
)

type Operation string

const (
	OpCreateCourse   Operation = "course.create"
	OpReadCourse     Operation = "course.read"
	OpUpdateCourse   Operation = "course.update"
	OpDeleteCourse   Operation = "course.delete"
	OpEnroll         Operation = "course.enroll"
	OpUnenroll       Operation = "course.unenroll"
	OpSubmit         Operation = "submission.create"
	OpReadSubmission Operation = "submission.read"
	OpGrade          Operation = "submission.grade"
	OpReadGrades     Operation = "grade.read"
	OpUpsertGrade    Operation = "grade.upsert"
)

// Request carries everything a decision needs. SubjectID names the student
// whose data is touched, for operations that act on one student.
type Request struct {
	Principal *models.Principal
	Course    *models.Course
	Operation Operation
	SubjectID string
}

// Authorize is Decide without a subject.
func Authorize(p *models.Principal, c *models.Course, op Operation) error {
	return Decide(Request{Principal: p, Course: c, Operation: op})
}

// Decide evaluates the rules in order; the first match wins. Ownership of
// this specific course is the boundary; role is required but never enough.
func Decide(req Request) error {
	p := req.Principal
	if p == nil || p.ID == "" {
		return apperror.Unauthenticated("authentication required")
	}

	if req.Operation == OpCreateCourse {
		if p.Role != models.RoleTeacher {
			return apperror.Forbidden("only teachers can create courses")
		}
		return nil
	}

	c := req.Course
	if c == nil {
		return apperror.NotFound("course not found")
	}

	switch req.Operation {
	case OpReadCourse:
		if c.IsOwner(p.ID) || c.IsEnrolled(p.ID) {
			return nil
		}
		return apperror.Forbidden("you are not enrolled in this course")

	case OpUpdateCourse, OpDeleteCourse:
		if isOwningTeacher(p, c) {
			return nil
		}
		return apperror.Forbidden("only the course teacher can modify this course")

	case OpEnroll:
		if c.IsOwner(p.ID) {
			return apperror.Forbidden("the course teacher cannot enroll in their own course")
		}
		if c.IsEnrolled(p.ID) {
			return apperror.AlreadyEnrolled("student is already enrolled in this course")
		}
		return nil

	case OpUnenroll:
		if isOwningTeacher(p, c) || (req.SubjectID != "" && req.SubjectID == p.ID) {
			return nil
		}
		return apperror.Forbidden("only the student or the course teacher can remove an enrollment")

	case OpSubmit:
		if c.IsOwner(p.ID) {
			return apperror.Forbidden("the course teacher cannot submit work in their own course")
		}
		if c.IsEnrolled(p.ID) {
			return nil
		}
		return apperror.Forbidden("you are not enrolled in this course")

	case OpReadSubmission, OpReadGrades:
		if isOwningTeacher(p, c) {
			return nil
		}
		if req.SubjectID != "" && req.SubjectID == p.ID && c.IsEnrolled(p.ID) {
			return nil
		}
		return apperror.Forbidden("you can only view your own results")

	case OpGrade, OpUpsertGrade:
		if isOwningTeacher(p, c) {
			return nil
		}
		return apperror.Forbidden("only the course teacher can grade")
	}

	return apperror.Forbidden("operation not permitted")
}

func isOwningTeacher(p *models.Principal, c *models.Course) bool {
	return p.Role == models.RoleTeacher && c.IsOwner(p.ID)
}
