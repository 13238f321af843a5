package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/RubachokBoss/course-service/internal/access"
	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/models"
	"github.com/RubachokBoss/course-service/internal/repository"
	"github.com/RubachokBoss/course-service/internal/service/integration"
)

const defaultMaxRetries = 5

// errUnchanged aborts a mutation without writing and without failing it.
var errUnchanged = errors.New("course unchanged")

// Mutation edits the freshly read course in place. It runs once per attempt
// and must not perform I/O.
type Mutation func(c *models.Course, now time.Time) error

// Store wraps the course repository with the read, mutate, conditional write
// loop every write operation goes through.
type Store struct {
	repo       repository.CourseRepository
	maxRetries int
	now        func() time.Time
	logger     zerolog.Logger
}

func NewStore(repo repository.CourseRepository, maxRetries int, clock func() time.Time, logger zerolog.Logger) *Store {
	if maxRetries < 1 {
		maxRetries = defaultMaxRetries
	}
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		repo:       repo,
		maxRetries: maxRetries,
		now:        clock,
		logger:     logger,
	}
}

// Now is the server clock in UTC, truncated to the millisecond precision
// BSON datetimes keep, so a written timestamp reads back unchanged.
func (s *Store) Now() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *Store) Load(ctx context.Context, courseID string) (*models.Course, error) {
	c, err := s.repo.GetByID(ctx, courseID)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to load course")
		return nil, apperror.Internal("failed to load course", err)
	}
	if c == nil {
		return nil, apperror.NotFound("course %s not found", courseID)
	}
	return c, nil
}

// Mutate applies fn to the latest version of the course and writes it back
// only if nobody else wrote in between. A lost race re-reads and re-applies
// fn, so each attempt sees the winner's state.
func (s *Store) Mutate(ctx context.Context, courseID string, fn Mutation) (*models.Course, error) {
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c, err := s.Load(ctx, courseID)
		if err != nil {
			return nil, err
		}

		expected := c.Version
		if err := fn(c, s.Now()); err != nil {
			if errors.Is(err, errUnchanged) {
				return c, nil
			}
			return nil, err
		}

		err = s.repo.Replace(ctx, c, expected)
		switch {
		case err == nil:
			return c, nil
		case errors.Is(err, repository.ErrVersionConflict):
			s.logger.Debug().
				Str("course_id", courseID).
				Int("attempt", attempt).
				Msg("Course changed concurrently, retrying")
			continue
		case errors.Is(err, repository.ErrCourseNotFound):
			return nil, apperror.NotFound("course %s not found", courseID)
		default:
			s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to write course")
			return nil, apperror.Internal("failed to save course", err)
		}
	}

	return nil, apperror.Conflict(fmt.Sprintf("course %s is being modified concurrently, try again", courseID))
}

func (s *Store) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// publish is best effort: the write is already committed.
func publish(ctx context.Context, events integration.EventPublisher, logger zerolog.Logger, routingKey string, event interface{}) {
	if err := events.Publish(ctx, routingKey, event); err != nil {
		logger.Warn().Err(err).Str("routing_key", routingKey).Msg("Failed to publish event")
	}
}

// verifyFiles authorizes op before asking object storage about the attached
// files. Mutate authorizes again when the write runs.
func verifyFiles(ctx context.Context, store *Store, files integration.FileVerifier, p *models.Principal, courseID string, op access.Operation, attached ...models.File) error {
	if len(attached) == 0 {
		return nil
	}
	c, err := store.Load(ctx, courseID)
	if err != nil {
		return err
	}
	if err := access.Authorize(p, c, op); err != nil {
		return err
	}
	return files.Verify(ctx, attached...)
}

func optionalFile(f *models.File) []models.File {
	if f == nil {
		return nil
	}
	return []models.File{*f}
}
