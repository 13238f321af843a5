package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/RubachokBoss/course-service/internal/access"
	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/course"
	"github.com/RubachokBoss/course-service/internal/models"
	"github.com/RubachokBoss/course-service/internal/service/integration"
	"github.com/RubachokBoss/course-service/internal/submission"
)

type SubmissionService interface {
	Submit(ctx context.Context, p *models.Principal, courseID string, ref models.ItemRef, in *models.NewSubmission) (*models.Submission, error)
	Status(ctx context.Context, p *models.Principal, courseID string, ref models.ItemRef) (*models.ItemStatusResponse, error)
	ListSubmissions(ctx context.Context, p *models.Principal, courseID string, ref models.ItemRef) ([]models.Submission, error)
	GetSubmission(ctx context.Context, p *models.Principal, courseID string, ref models.ItemRef, studentID string) (*models.Submission, error)
}

type submissionService struct {
	store  *Store
	files  integration.FileVerifier
	events integration.EventPublisher
	logger zerolog.Logger
}

func NewSubmissionService(store *Store, files integration.FileVerifier, events integration.EventPublisher, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		store:  store,
		files:  files,
		events: events,
		logger: logger,
	}
}

// Submit records the principal's one submission for the item. The duplicate
// check and the append commit together or not at all.
func (s *submissionService) Submit(ctx context.Context, p *models.Principal, courseID string, ref models.ItemRef, in *models.NewSubmission) (*models.Submission, error) {
	if err := verifyFiles(ctx, s.store, s.files, p, courseID, access.OpSubmit, in.Files...); err != nil {
		return nil, err
	}

	var (
		sub models.Submission
		it  *course.Item
	)
	_, err := s.store.Mutate(ctx, courseID, func(c *models.Course, now time.Time) error {
		if err := access.Authorize(p, c, access.OpSubmit); err != nil {
			return err
		}
		var err error
		it, err = course.Locate(c, ref)
		if err != nil {
			return err
		}
		sub, err = submission.Submit(it, p.ID, *in, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("course_id", courseID).
		Str("item_id", it.ID).
		Str("student_id", p.ID).
		Str("submission_id", sub.ID).
		Msg("Submission created")

	publish(ctx, s.events, s.logger, models.RoutingKeySubmissionCreate, &models.SubmissionCreatedEvent{
		CourseID:     courseID,
		ItemID:       it.ID,
		ItemKind:     it.Kind,
		SubmissionID: sub.ID,
		StudentID:    p.ID,
		Timestamp:    sub.SubmittedAt.Unix(),
	})

	return &sub, nil
}

// Status reports where the principal stands on the item. For the owner,
// who never submits, this is the window phase.
func (s *submissionService) Status(ctx context.Context, p *models.Principal, courseID string, ref models.ItemRef) (*models.ItemStatusResponse, error) {
	c, err := s.store.Load(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(p, c, access.OpReadCourse); err != nil {
		return nil, err
	}
	it, err := course.Locate(c, ref)
	if err != nil {
		return nil, err
	}

	status, sub := submission.StatusOf(it, p.ID, s.store.Now())
	resp := &models.ItemStatusResponse{
		Kind:   it.Kind,
		ItemID: it.ID,
		Status: status,
	}
	if sub != nil {
		cp := sub.Clone()
		resp.Submission = &cp
	}
	return resp, nil
}

// ListSubmissions returns every submission to the owner and only the
// caller's own to an enrolled student.
func (s *submissionService) ListSubmissions(ctx context.Context, p *models.Principal, courseID string, ref models.ItemRef) ([]models.Submission, error) {
	c, err := s.store.Load(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(p, c, access.OpReadCourse); err != nil {
		return nil, err
	}
	it, err := course.Locate(c, ref)
	if err != nil {
		return nil, err
	}

	owner := access.Authorize(p, c, access.OpGrade) == nil
	out := []models.Submission{}
	for _, sub := range *it.Submissions {
		if owner || sub.StudentID == p.ID {
			out = append(out, sub.Clone())
		}
	}
	return out, nil
}

func (s *submissionService) GetSubmission(ctx context.Context, p *models.Principal, courseID string, ref models.ItemRef, studentID string) (*models.Submission, error) {
	c, err := s.store.Load(ctx, courseID)
	if err != nil {
		return nil, err
	}
	err = access.Decide(access.Request{
		Principal: p,
		Course:    c,
		Operation: access.OpReadSubmission,
		SubjectID: studentID,
	})
	if err != nil {
		return nil, err
	}
	it, err := course.Locate(c, ref)
	if err != nil {
		return nil, err
	}

	sub := it.FindSubmission(studentID)
	if sub == nil {
		return nil, apperror.NotFound("no submission from student %s for this item", studentID)
	}
	cp := sub.Clone()
	return &cp, nil
}
