package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/RubachokBoss/course-service/internal/models"
)

type memoryCourseRepository struct {
	mu      sync.RWMutex
	courses map[string]*models.Course
}

// NewMemoryCourseRepository keeps courses in process memory. Reads and
// writes go through deep copies so callers never share state with the store.
func NewMemoryCourseRepository() CourseRepository {
	return &memoryCourseRepository{
		courses: make(map[string]*models.Course),
	}
}

func (r *memoryCourseRepository) Create(_ context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.courses[course.ID]; ok {
		return ErrCourseExists
	}
	course.Version = 1
	r.courses[course.ID] = course.Clone()
	return nil
}

func (r *memoryCourseRepository) GetByID(_ context.Context, id string) (*models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.courses[id]
	if !ok {
		return nil, nil
	}
	return c.Clone(), nil
}

func (r *memoryCourseRepository) List(_ context.Context, filter models.CourseFilter, limit, offset int) ([]models.Course, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	var matched []*models.Course
	for _, c := range r.courses {
		if filter.TeacherID != "" && c.TeacherID != filter.TeacherID {
			continue
		}
		if filter.StudentID != "" && !c.IsEnrolled(filter.StudentID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Title), search) {
			continue
		}
		matched = append(matched, c)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	out := make([]models.Course, 0, end-offset)
	for _, c := range matched[offset:end] {
		out = append(out, *c.Clone())
	}
	return out, total, nil
}

func (r *memoryCourseRepository) Replace(_ context.Context, course *models.Course, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.courses[course.ID]
	if !ok {
		return ErrCourseNotFound
	}
	if stored.Version != expectedVersion {
		return ErrVersionConflict
	}

	next := course.Clone()
	next.Version = expectedVersion + 1
	r.courses[course.ID] = next
	course.Version = next.Version
	return nil
}

func (r *memoryCourseRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.courses[id]; !ok {
		return false, nil
	}
	delete(r.courses, id)
	return true, nil
}

func (r *memoryCourseRepository) Ping(context.Context) error {
	return nil
}
