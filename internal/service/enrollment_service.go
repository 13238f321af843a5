package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/RubachokBoss/course-service/internal/access"
	"github.com/RubachokBoss/course-service/internal/course"
	"github.com/RubachokBoss/course-service/internal/models"
	"github.com/RubachokBoss/course-service/internal/service/integration"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, p *models.Principal, courseID, enrollmentKey string) (*models.Course, error)
	Unenroll(ctx context.Context, p *models.Principal, courseID, studentID string) error
}

type enrollmentService struct {
	store  *Store
	events integration.EventPublisher
	logger zerolog.Logger
}

func NewEnrollmentService(store *Store, events integration.EventPublisher, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		store:  store,
		events: events,
		logger: logger,
	}
}

// Enroll adds the principal to the course and returns the course as the new
// student sees it.
func (s *enrollmentService) Enroll(ctx context.Context, p *models.Principal, courseID, enrollmentKey string) (*models.Course, error) {
	c, err := s.store.Mutate(ctx, courseID, func(c *models.Course, now time.Time) error {
		if err := access.Authorize(p, c, access.OpEnroll); err != nil {
			return err
		}
		return course.Enroll(c, p.ID, enrollmentKey, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("course_id", courseID).
		Str("student_id", p.ID).
		Msg("Student enrolled")

	publish(ctx, s.events, s.logger, models.RoutingKeyStudentEnrolled, &models.StudentEnrolledEvent{
		CourseID:  courseID,
		StudentID: p.ID,
		Timestamp: s.store.Now().Unix(),
	})

	return course.ViewFor(c, p), nil
}

// Unenroll removes studentID. Removing someone who is not enrolled is a no-op.
// Submissions and ledger entries stay in the course.
func (s *enrollmentService) Unenroll(ctx context.Context, p *models.Principal, courseID, studentID string) error {
	removed := false
	_, err := s.store.Mutate(ctx, courseID, func(c *models.Course, now time.Time) error {
		err := access.Decide(access.Request{
			Principal: p,
			Course:    c,
			Operation: access.OpUnenroll,
			SubjectID: studentID,
		})
		if err != nil {
			return err
		}
		removed = course.Unenroll(c, studentID, now)
		if !removed {
			return errUnchanged
		}
		return nil
	})
	if err != nil {
		return err
	}

	if removed {
		s.logger.Info().
			Str("course_id", courseID).
			Str("student_id", studentID).
			Str("removed_by", p.ID).
			Msg("Student unenrolled")
	}
	return nil
}
