package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/models"
)

func TestDecide(t *testing.T) {
	course := &models.Course{
		ID:               "c1",
		TeacherID:        "t1",
		EnrolledStudents: []string{"s1"},
	}

	owner := &models.Principal{ID: "t1", Role: models.RoleTeacher}
	otherTeacher := &models.Principal{ID: "t2", Role: models.RoleTeacher}
	enrolled := &models.Principal{ID: "s1", Role: models.RoleStudent}
	outsider := &models.Principal{ID: "s2", Role: models.RoleStudent}
	admin := &models.Principal{ID: "a1", Role: models.RoleAdmin}
	ownerAsStudent := &models.Principal{ID: "t1", Role: models.RoleStudent}

	tests := []struct {
		name    string
		req     Request
		allowed bool
		kind    apperror.Kind
	}{
		{name: "no principal", req: Request{Course: course, Operation: OpReadCourse}, kind: apperror.KindUnauthenticated},
		{name: "empty principal id", req: Request{Principal: &models.Principal{Role: models.RoleTeacher}, Course: course, Operation: OpReadCourse}, kind: apperror.KindUnauthenticated},

		{name: "teacher creates course", req: Request{Principal: otherTeacher, Operation: OpCreateCourse}, allowed: true},
		{name: "student cannot create course", req: Request{Principal: enrolled, Operation: OpCreateCourse}, kind: apperror.KindForbidden},
		{name: "missing course", req: Request{Principal: owner, Operation: OpReadCourse}, kind: apperror.KindNotFound},

		{name: "owner reads", req: Request{Principal: owner, Course: course, Operation: OpReadCourse}, allowed: true},
		{name: "enrolled reads", req: Request{Principal: enrolled, Course: course, Operation: OpReadCourse}, allowed: true},
		{name: "outsider cannot read", req: Request{Principal: outsider, Course: course, Operation: OpReadCourse}, kind: apperror.KindForbidden},
		{name: "admin cannot read", req: Request{Principal: admin, Course: course, Operation: OpReadCourse}, kind: apperror.KindForbidden},

		{name: "owner updates", req: Request{Principal: owner, Course: course, Operation: OpUpdateCourse}, allowed: true},
		{name: "other teacher cannot update", req: Request{Principal: otherTeacher, Course: course, Operation: OpUpdateCourse}, kind: apperror.KindForbidden},
		{name: "owner id without teacher role cannot delete", req: Request{Principal: ownerAsStudent, Course: course, Operation: OpDeleteCourse}, kind: apperror.KindForbidden},
		{name: "enrolled cannot delete", req: Request{Principal: enrolled, Course: course, Operation: OpDeleteCourse}, kind: apperror.KindForbidden},

		{name: "outsider enrolls", req: Request{Principal: outsider, Course: course, Operation: OpEnroll}, allowed: true},
		{name: "other teacher enrolls", req: Request{Principal: otherTeacher, Course: course, Operation: OpEnroll}, allowed: true},
		{name: "owner cannot enroll", req: Request{Principal: owner, Course: course, Operation: OpEnroll}, kind: apperror.KindForbidden},
		{name: "enrolled re-enroll", req: Request{Principal: enrolled, Course: course, Operation: OpEnroll}, kind: apperror.KindAlreadyEnrolled},

		{name: "student unenrolls self", req: Request{Principal: enrolled, Course: course, Operation: OpUnenroll, SubjectID: "s1"}, allowed: true},
		{name: "owner unenrolls student", req: Request{Principal: owner, Course: course, Operation: OpUnenroll, SubjectID: "s1"}, allowed: true},
		{name: "student cannot unenroll another", req: Request{Principal: outsider, Course: course, Operation: OpUnenroll, SubjectID: "s1"}, kind: apperror.KindForbidden},

		{name: "enrolled submits", req: Request{Principal: enrolled, Course: course, Operation: OpSubmit}, allowed: true},
		{name: "outsider cannot submit", req: Request{Principal: outsider, Course: course, Operation: OpSubmit}, kind: apperror.KindForbidden},
		{name: "owner cannot submit", req: Request{Principal: owner, Course: course, Operation: OpSubmit}, kind: apperror.KindForbidden},

		{name: "owner reads any submission", req: Request{Principal: owner, Course: course, Operation: OpReadSubmission, SubjectID: "s1"}, allowed: true},
		{name: "student reads own submission", req: Request{Principal: enrolled, Course: course, Operation: OpReadSubmission, SubjectID: "s1"}, allowed: true},
		{name: "student cannot read another submission", req: Request{Principal: enrolled, Course: course, Operation: OpReadSubmission, SubjectID: "s2"}, kind: apperror.KindForbidden},
		{name: "unenrolled cannot read own grades", req: Request{Principal: outsider, Course: course, Operation: OpReadGrades, SubjectID: "s2"}, kind: apperror.KindForbidden},

		{name: "owner grades", req: Request{Principal: owner, Course: course, Operation: OpGrade}, allowed: true},
		{name: "other teacher cannot grade", req: Request{Principal: otherTeacher, Course: course, Operation: OpGrade}, kind: apperror.KindForbidden},
		{name: "admin cannot grade", req: Request{Principal: admin, Course: course, Operation: OpGrade}, kind: apperror.KindForbidden},
		{name: "student cannot upsert grade", req: Request{Principal: enrolled, Course: course, Operation: OpUpsertGrade}, kind: apperror.KindForbidden},
		{name: "owner upserts grade", req: Request{Principal: owner, Course: course, Operation: OpUpsertGrade}, allowed: true},

		{name: "unknown operation", req: Request{Principal: owner, Course: course, Operation: "course.teleport"}, kind: apperror.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decide(tt.req)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, tt.kind, apperror.KindOf(err))
		})
	}
}

func TestAuthorizeHasNoSubject(t *testing.T) {
	course := &models.Course{TeacherID: "t1", EnrolledStudents: []string{"s1"}}
	student := &models.Principal{ID: "s1", Role: models.RoleStudent}

	// Without a subject, a student never passes a per-student read.
	err := Authorize(student, course, OpReadSubmission)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}
