package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/RubachokBoss/course-service/internal/access"
	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/course"
	"github.com/RubachokBoss/course-service/internal/grading"
	"github.com/RubachokBoss/course-service/internal/models"
	"github.com/RubachokBoss/course-service/internal/service/integration"
)

type GradingService interface {
	GradeSubmission(ctx context.Context, p *models.Principal, courseID string, ref models.ItemRef, studentID string, req *models.GradeSubmissionRequest) (*models.Submission, error)
	AutoGrade(ctx context.Context, p *models.Principal, courseID string, ref models.ItemRef, studentID string) (*models.Submission, error)
	ListGrades(ctx context.Context, p *models.Principal, courseID string) ([]models.Grade, error)
	UpsertGrade(ctx context.Context, p *models.Principal, courseID, studentID string, req *models.UpsertGradeRequest) (*models.Grade, bool, error)
}

type gradingService struct {
	store  *Store
	events integration.EventPublisher
	logger zerolog.Logger
}

func NewGradingService(store *Store, events integration.EventPublisher, logger zerolog.Logger) GradingService {
	return &gradingService{
		store:  store,
		events: events,
		logger: logger,
	}
}

func (s *gradingService) GradeSubmission(ctx context.Context, p *models.Principal, courseID string, ref models.ItemRef, studentID string, req *models.GradeSubmissionRequest) (*models.Submission, error) {
	if req.Score == nil {
		return nil, apperror.Field("score", "this field is required")
	}
	score := *req.Score
	return s.grade(ctx, p, courseID, ref, studentID, func(*course.Item, *models.Submission) (float64, string, error) {
		return score, req.Feedback, nil
	})
}

// AutoGrade scores a quiz submission against the answer key and writes the
// result through the normal grading path.
func (s *gradingService) AutoGrade(ctx context.Context, p *models.Principal, courseID string, ref models.ItemRef, studentID string) (*models.Submission, error) {
	return s.grade(ctx, p, courseID, ref, studentID, func(it *course.Item, sub *models.Submission) (float64, string, error) {
		if it.Kind != models.ItemKindQuiz || it.Quiz == nil {
			return 0, "", apperror.Validation("only quiz submissions can be graded automatically")
		}
		return grading.ScoreQuiz(it.Quiz, sub.Answers), sub.Feedback, nil
	})
}

type scorer func(it *course.Item, sub *models.Submission) (float64, string, error)

func (s *gradingService) grade(ctx context.Context, p *models.Principal, courseID string, ref models.ItemRef, studentID string, score scorer) (*models.Submission, error) {
	var (
		graded models.Submission
		it     *course.Item
	)
	_, err := s.store.Mutate(ctx, courseID, func(c *models.Course, now time.Time) error {
		if err := access.Authorize(p, c, access.OpGrade); err != nil {
			return err
		}
		var err error
		it, err = course.Locate(c, ref)
		if err != nil {
			return err
		}
		sub := it.FindSubmission(studentID)
		if sub == nil {
			return apperror.NotFound("no submission from student %s for this item", studentID)
		}
		points, feedback, err := score(it, sub)
		if err != nil {
			return err
		}
		graded, err = grading.Grade(it, studentID, points, feedback, p.ID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("course_id", courseID).
		Str("item_id", it.ID).
		Str("student_id", studentID).
		Float64("score", *graded.Score).
		Msg("Submission graded")

	publish(ctx, s.events, s.logger, models.RoutingKeySubmissionGraded, &models.SubmissionGradedEvent{
		CourseID:     courseID,
		ItemID:       it.ID,
		ItemKind:     it.Kind,
		SubmissionID: graded.ID,
		StudentID:    studentID,
		Score:        *graded.Score,
		GradedBy:     p.ID,
		Timestamp:    graded.GradedAt.Unix(),
	})

	return &graded, nil
}

// ListGrades returns the whole ledger to the owner and the caller's own
// entry to an enrolled student.
func (s *gradingService) ListGrades(ctx context.Context, p *models.Principal, courseID string) ([]models.Grade, error) {
	c, err := s.store.Load(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if access.Authorize(p, c, access.OpUpsertGrade) == nil {
		return append([]models.Grade{}, c.Grades...), nil
	}

	subject := ""
	if p != nil {
		subject = p.ID
	}
	err = access.Decide(access.Request{
		Principal: p,
		Course:    c,
		Operation: access.OpReadGrades,
		SubjectID: subject,
	})
	if err != nil {
		return nil, err
	}

	out := []models.Grade{}
	for _, g := range c.Grades {
		if g.StudentID == p.ID {
			out = append(out, g)
		}
	}
	return out, nil
}

// UpsertGrade writes the course-level ledger entry. It never touches
// per-submission scores.
func (s *gradingService) UpsertGrade(ctx context.Context, p *models.Principal, courseID, studentID string, req *models.UpsertGradeRequest) (*models.Grade, bool, error) {
	var (
		g        models.Grade
		inserted bool
	)
	_, err := s.store.Mutate(ctx, courseID, func(c *models.Course, now time.Time) error {
		if err := access.Authorize(p, c, access.OpUpsertGrade); err != nil {
			return err
		}
		var err error
		g, inserted, err = grading.UpsertGrade(c, studentID, req.Grade, req.Feedback, p.ID, now)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	s.logger.Info().
		Str("course_id", courseID).
		Str("student_id", studentID).
		Bool("inserted", inserted).
		Msg("Course grade upserted")

	publish(ctx, s.events, s.logger, models.RoutingKeyGradeUpserted, &models.GradeUpsertedEvent{
		CourseID:  courseID,
		StudentID: studentID,
		Grade:     g.Grade,
		UpdatedBy: p.ID,
		Timestamp: g.UpdatedAt.Unix(),
	})

	return &g, inserted, nil
}
