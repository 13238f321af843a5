package repository

import (
	"context"
	"errors"

	"github.com/RubachokBoss/course-service/internal/models"
)

var (
	// ErrVersionConflict means the document changed since it was read.
	ErrVersionConflict = errors.New("course version conflict")
	ErrCourseNotFound  = errors.New("course not found")
	ErrCourseExists    = errors.New("course already exists")
)

// CourseRepository is the content store. Every course is one self-contained
// document; Replace is the only write path for an existing course and only
// succeeds when the stored version still equals expectedVersion.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	// GetByID returns nil, nil when the course does not exist.
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter, limit, offset int) ([]models.Course, int, error)
	Replace(ctx context.Context, course *models.Course, expectedVersion int64) error
	Delete(ctx context.Context, id string) (bool, error)
	Ping(ctx context.Context) error
}
