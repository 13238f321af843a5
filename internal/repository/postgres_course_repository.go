package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/RubachokBoss/course-service/internal/models"
)

const pqUniqueViolation = "23505"

type postgresCourseRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewPostgresCourseRepository stores each course as a JSONB document next to
// a version column used for conditional writes.
func NewPostgresCourseRepository(db *sql.DB, logger zerolog.Logger) CourseRepository {
	return &postgresCourseRepository{
		db:     db,
		logger: logger,
	}
}

func (r *postgresCourseRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.PingContext(ctx)
}

func (r *postgresCourseRepository) Create(ctx context.Context, course *models.Course) error {
	course.Version = 1
	doc, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("failed to marshal course: %w", err)
	}

	query := `
		INSERT INTO courses (id, teacher_id, title, document, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.ExecContext(ctx, query,
		course.ID,
		course.TeacherID,
		course.Title,
		doc,
		course.Version,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrCourseExists
		}
		return err
	}

	return nil
}

func (r *postgresCourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	query := `
		SELECT document, version
		FROM courses
		WHERE id = $1
	`

	var (
		doc     []byte
		version int64
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&doc, &version)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return decodeCourse(doc, version)
}

func (r *postgresCourseRepository) List(ctx context.Context, filter models.CourseFilter, limit, offset int) ([]models.Course, int, error) {
	where := `
		WHERE ($1 = '' OR teacher_id = $1)
		  AND ($2 = '' OR jsonb_exists(document->'enrolled_students', $2))
		  AND ($3 = '' OR title ILIKE '%' || $3 || '%')
	`

	var total int
	countQuery := `SELECT COUNT(*) FROM courses` + where
	err := r.db.QueryRowContext(ctx, countQuery, filter.TeacherID, filter.StudentID, filter.Search).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT document, version FROM courses` + where + `
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.db.QueryContext(ctx, query, filter.TeacherID, filter.StudentID, filter.Search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var (
			doc     []byte
			version int64
		)
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, 0, err
		}
		course, err := decodeCourse(doc, version)
		if err != nil {
			return nil, 0, err
		}
		courses = append(courses, *course)
	}

	return courses, total, rows.Err()
}

func (r *postgresCourseRepository) Replace(ctx context.Context, course *models.Course, expectedVersion int64) error {
	next := *course
	next.Version = expectedVersion + 1
	doc, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to marshal course: %w", err)
	}

	query := `
		UPDATE courses
		SET title = $1, document = $2, version = $3, updated_at = $4
		WHERE id = $5 AND version = $6
	`

	res, err := r.db.ExecContext(ctx, query,
		next.Title,
		doc,
		next.Version,
		next.UpdatedAt,
		next.ID,
		expectedVersion,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.missOrConflict(ctx, course.ID)
	}

	course.Version = next.Version
	return nil
}

func (r *postgresCourseRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM courses WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (r *postgresCourseRepository) missOrConflict(ctx context.Context, id string) error {
	query := `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrCourseNotFound
	}
	r.logger.Debug().Str("course_id", id).Msg("Course version moved")
	return ErrVersionConflict
}

func decodeCourse(doc []byte, version int64) (*models.Course, error) {
	var course models.Course
	if err := json.Unmarshal(doc, &course); err != nil {
		return nil, fmt.Errorf("failed to decode course document: %w", err)
	}
	course.Version = version
	course.CreatedAt = course.CreatedAt.UTC()
	course.UpdatedAt = course.UpdatedAt.UTC()
	return &course, nil
}
