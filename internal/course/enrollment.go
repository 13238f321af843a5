package course

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/models"
)

// Enroll adds studentID to the course. The already-enrolled check runs before
// the key check, so a re-enroll never leaks whether a key is right.
func Enroll(c *models.Course, studentID, suppliedKey string, now time.Time) error {
	if strings.TrimSpace(studentID) == "" {
		return apperror.Field("student_id", "this field is required")
	}
	if c.IsEnrolled(studentID) {
		return apperror.AlreadyEnrolled("student is already enrolled in this course")
	}
	if c.EnrollmentKey != "" &&
		subtle.ConstantTimeCompare([]byte(c.EnrollmentKey), []byte(suppliedKey)) != 1 {
		return apperror.InvalidKey("invalid enrollment key")
	}

	c.EnrolledStudents = append(c.EnrolledStudents, studentID)
	touch(c, now)
	return nil
}

// Unenroll removes studentID and reports whether anything changed.
func Unenroll(c *models.Course, studentID string, now time.Time) bool {
	for i, id := range c.EnrolledStudents {
		if id == studentID {
			c.EnrolledStudents = append(c.EnrolledStudents[:i:i], c.EnrolledStudents[i+1:]...)
			touch(c, now)
			return true
		}
	}
	return false
}
