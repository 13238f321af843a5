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
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type CourseService interface {
	CreateCourse(ctx context.Context, p *models.Principal, req *models.CreateCourseRequest) (*models.Course, error)
	GetCourse(ctx context.Context, p *models.Principal, courseID string) (*models.Course, error)
	ListCourses(ctx context.Context, p *models.Principal, filter models.CourseFilter, page, limit int) (*models.CoursesResponse, error)
	UpdateCourse(ctx context.Context, p *models.Principal, courseID string, req *models.UpdateCourseRequest) (*models.Course, error)
	DeleteCourse(ctx context.Context, p *models.Principal, courseID string) error
	AddCourseFile(ctx context.Context, p *models.Principal, courseID string, f models.File) (*models.Course, error)

	AddChapter(ctx context.Context, p *models.Principal, courseID, title string) (*models.Course, error)
	DeleteChapter(ctx context.Context, p *models.Principal, courseID string, chapterIndex int) (*models.Course, error)
	AddChapterFile(ctx context.Context, p *models.Principal, courseID string, chapterIndex int, f models.File) (*models.Course, error)

	AddLesson(ctx context.Context, p *models.Principal, courseID string, chapterIndex int, in models.NewLesson) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, p *models.Principal, courseID string, chapterIndex, itemIndex int, in models.NewLesson) (*models.Lesson, error)
	RemoveLesson(ctx context.Context, p *models.Principal, courseID string, chapterIndex, itemIndex int) error
	AddAssignment(ctx context.Context, p *models.Principal, courseID string, chapterIndex int, in models.NewAssignment) (*models.Assignment, error)
	UpdateAssignment(ctx context.Context, p *models.Principal, courseID string, chapterIndex, itemIndex int, in models.NewAssignment) (*models.Assignment, error)
	RemoveAssignment(ctx context.Context, p *models.Principal, courseID string, chapterIndex, itemIndex int) error
	AddQuiz(ctx context.Context, p *models.Principal, courseID string, chapterIndex int, in models.NewQuiz) (*models.Quiz, error)
	RemoveQuiz(ctx context.Context, p *models.Principal, courseID string, chapterIndex, itemIndex int) error

	ListAssignments(ctx context.Context, p *models.Principal, courseID string) ([]models.AssignmentProjection, error)
}

type courseService struct {
	store  *Store
	files  integration.FileVerifier
	events integration.EventPublisher
	logger zerolog.Logger
}

func NewCourseService(store *Store, files integration.FileVerifier, events integration.EventPublisher, logger zerolog.Logger) CourseService {
	return &courseService{
		store:  store,
		files:  files,
		events: events,
		logger: logger,
	}
}

func (s *courseService) CreateCourse(ctx context.Context, p *models.Principal, req *models.CreateCourseRequest) (*models.Course, error) {
	if err := access.Authorize(p, nil, access.OpCreateCourse); err != nil {
		return nil, err
	}

	c, err := course.New(p.ID, *req, s.store.Now())
	if err != nil {
		return nil, err
	}
	if err := s.files.Verify(ctx, nestedFiles(req)...); err != nil {
		return nil, err
	}

	if err := s.store.repo.Create(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("course_id", c.ID).Msg("Failed to create course")
		return nil, apperror.Internal("failed to create course", err)
	}

	s.logger.Info().
		Str("course_id", c.ID).
		Str("teacher_id", c.TeacherID).
		Int("chapters", len(c.Chapters)).
		Msg("Course created")

	return c, nil
}

func (s *courseService) GetCourse(ctx context.Context, p *models.Principal, courseID string) (*models.Course, error) {
	c, err := s.store.Load(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(p, c, access.OpReadCourse); err != nil {
		return nil, err
	}
	return course.ViewFor(c, p), nil
}

// ListCourses is the catalog: any authenticated principal may browse it so
// students can find courses to enroll in. Only summaries are returned.
func (s *courseService) ListCourses(ctx context.Context, p *models.Principal, filter models.CourseFilter, page, limit int) (*models.CoursesResponse, error) {
	if p == nil || p.ID == "" {
		return nil, apperror.Unauthenticated("authentication required")
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset := (page - 1) * limit

	courses, total, err := s.store.repo.List(ctx, filter, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list courses")
		return nil, apperror.Internal("failed to list courses", err)
	}

	summaries := make([]models.CourseSummary, 0, len(courses))
	for i := range courses {
		summaries = append(summaries, courses[i].Summary())
	}

	return &models.CoursesResponse{
		Courses: summaries,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, p *models.Principal, courseID string, req *models.UpdateCourseRequest) (*models.Course, error) {
	c, err := s.store.Mutate(ctx, courseID, func(c *models.Course, now time.Time) error {
		if err := access.Authorize(p, c, access.OpUpdateCourse); err != nil {
			return err
		}
		return course.UpdateMetadata(c, *req, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("course_id", courseID).Msg("Course updated")
	return c, nil
}

// DeleteCourse removes the whole document; everything nested goes with it.
func (s *courseService) DeleteCourse(ctx context.Context, p *models.Principal, courseID string) error {
	c, err := s.store.Load(ctx, courseID)
	if err != nil {
		return err
	}
	if err := access.Authorize(p, c, access.OpDeleteCourse); err != nil {
		return err
	}

	deleted, err := s.store.repo.Delete(ctx, courseID)
	if err != nil {
		s.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to delete course")
		return apperror.Internal("failed to delete course", err)
	}
	if !deleted {
		return apperror.NotFound("course %s not found", courseID)
	}

	s.logger.Info().Str("course_id", courseID).Msg("Course deleted")

	publish(ctx, s.events, s.logger, models.RoutingKeyCourseDeleted, &models.CourseDeletedEvent{
		CourseID:  courseID,
		TeacherID: c.TeacherID,
		Timestamp: s.store.Now().Unix(),
	})
	return nil
}

func (s *courseService) AddCourseFile(ctx context.Context, p *models.Principal, courseID string, f models.File) (*models.Course, error) {
	if err := s.verifyAsOwner(ctx, p, courseID, f); err != nil {
		return nil, err
	}
	return s.structural(ctx, p, courseID, "Course file added", func(c *models.Course, now time.Time) error {
		return course.AddCourseFile(c, f, now)
	})
}

func (s *courseService) AddChapter(ctx context.Context, p *models.Principal, courseID, title string) (*models.Course, error) {
	return s.structural(ctx, p, courseID, "Chapter added", func(c *models.Course, now time.Time) error {
		_, err := course.AddChapter(c, title, now)
		return err
	})
}

func (s *courseService) DeleteChapter(ctx context.Context, p *models.Principal, courseID string, chapterIndex int) (*models.Course, error) {
	return s.structural(ctx, p, courseID, "Chapter deleted", func(c *models.Course, now time.Time) error {
		return course.DeleteChapter(c, chapterIndex, now)
	})
}

func (s *courseService) AddChapterFile(ctx context.Context, p *models.Principal, courseID string, chapterIndex int, f models.File) (*models.Course, error) {
	if err := s.verifyAsOwner(ctx, p, courseID, f); err != nil {
		return nil, err
	}
	return s.structural(ctx, p, courseID, "Chapter file added", func(c *models.Course, now time.Time) error {
		return course.AddChapterFile(c, chapterIndex, f, now)
	})
}

func (s *courseService) AddLesson(ctx context.Context, p *models.Principal, courseID string, chapterIndex int, in models.NewLesson) (*models.Lesson, error) {
	if err := s.verifyAsOwner(ctx, p, courseID, optionalFile(in.File)...); err != nil {
		return nil, err
	}
	var lesson models.Lesson
	_, err := s.structural(ctx, p, courseID, "Lesson added", func(c *models.Course, now time.Time) error {
		var err error
		lesson, err = course.AddLesson(c, chapterIndex, in, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (s *courseService) UpdateLesson(ctx context.Context, p *models.Principal, courseID string, chapterIndex, itemIndex int, in models.NewLesson) (*models.Lesson, error) {
	if err := s.verifyAsOwner(ctx, p, courseID, optionalFile(in.File)...); err != nil {
		return nil, err
	}
	var lesson models.Lesson
	_, err := s.structural(ctx, p, courseID, "Lesson updated", func(c *models.Course, now time.Time) error {
		var err error
		lesson, err = course.UpdateLesson(c, chapterIndex, itemIndex, in, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (s *courseService) RemoveLesson(ctx context.Context, p *models.Principal, courseID string, chapterIndex, itemIndex int) error {
	_, err := s.structural(ctx, p, courseID, "Lesson removed", func(c *models.Course, now time.Time) error {
		return course.RemoveLesson(c, chapterIndex, itemIndex, now)
	})
	return err
}

func (s *courseService) AddAssignment(ctx context.Context, p *models.Principal, courseID string, chapterIndex int, in models.NewAssignment) (*models.Assignment, error) {
	if err := s.verifyAsOwner(ctx, p, courseID, in.Files...); err != nil {
		return nil, err
	}
	var a models.Assignment
	_, err := s.structural(ctx, p, courseID, "Assignment added", func(c *models.Course, now time.Time) error {
		var err error
		a, err = course.AddAssignment(c, chapterIndex, in, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *courseService) UpdateAssignment(ctx context.Context, p *models.Principal, courseID string, chapterIndex, itemIndex int, in models.NewAssignment) (*models.Assignment, error) {
	if err := s.verifyAsOwner(ctx, p, courseID, in.Files...); err != nil {
		return nil, err
	}
	var a models.Assignment
	_, err := s.structural(ctx, p, courseID, "Assignment updated", func(c *models.Course, now time.Time) error {
		var err error
		a, err = course.UpdateAssignment(c, chapterIndex, itemIndex, in, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *courseService) RemoveAssignment(ctx context.Context, p *models.Principal, courseID string, chapterIndex, itemIndex int) error {
	_, err := s.structural(ctx, p, courseID, "Assignment removed", func(c *models.Course, now time.Time) error {
		return course.RemoveAssignment(c, chapterIndex, itemIndex, now)
	})
	return err
}

func (s *courseService) AddQuiz(ctx context.Context, p *models.Principal, courseID string, chapterIndex int, in models.NewQuiz) (*models.Quiz, error) {
	if err := s.verifyAsOwner(ctx, p, courseID, optionalFile(in.File)...); err != nil {
		return nil, err
	}
	var q models.Quiz
	_, err := s.structural(ctx, p, courseID, "Quiz added", func(c *models.Course, now time.Time) error {
		var err error
		q, err = course.AddQuiz(c, chapterIndex, in, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *courseService) RemoveQuiz(ctx context.Context, p *models.Principal, courseID string, chapterIndex, itemIndex int) error {
	_, err := s.structural(ctx, p, courseID, "Quiz removed", func(c *models.Course, now time.Time) error {
		return course.RemoveQuiz(c, chapterIndex, itemIndex, now)
	})
	return err
}

// ListAssignments returns the read-only flattened assignment view of a course.
func (s *courseService) ListAssignments(ctx context.Context, p *models.Principal, courseID string) ([]models.AssignmentProjection, error) {
	c, err := s.store.Load(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(p, c, access.OpReadCourse); err != nil {
		return nil, err
	}
	projections := course.Projections(c)
	if projections == nil {
		projections = []models.AssignmentProjection{}
	}
	return projections, nil
}

// structural runs an owner-only structure edit through the conditional write.
func (s *courseService) structural(ctx context.Context, p *models.Principal, courseID, msg string, fn Mutation) (*models.Course, error) {
	c, err := s.store.Mutate(ctx, courseID, func(c *models.Course, now time.Time) error {
		if err := access.Authorize(p, c, access.OpUpdateCourse); err != nil {
			return err
		}
		return fn(c, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("course_id", courseID).
		Str("teacher_id", p.ID).
		Msg(msg)

	return c, nil
}

func (s *courseService) verifyAsOwner(ctx context.Context, p *models.Principal, courseID string, attached ...models.File) error {
	return verifyFiles(ctx, s.store, s.files, p, courseID, access.OpUpdateCourse, attached...)
}

func nestedFiles(req *models.CreateCourseRequest) []models.File {
	var files []models.File
	for _, ch := range req.Chapters {
		for _, l := range ch.Lessons {
			if l.File != nil {
				files = append(files, *l.File)
			}
		}
		for _, a := range ch.Assignments {
			files = append(files, a.Files...)
		}
		for _, q := range ch.Quizzes {
			if q.File != nil {
				files = append(files, *q.File)
			}
		}
	}
	return files
}
