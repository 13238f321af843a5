package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/identity"
	"github.com/RubachokBoss/course-service/internal/models"
)

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if err := bind(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	course, err := h.courseService.CreateCourse(ctx, identity.PrincipalFrom(ctx), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeCreated(w, course)
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	page := getIntQueryParam(r, "page", 1)
	limit := getIntQueryParam(r, "limit", 10)

	query := r.URL.Query()
	filter := models.CourseFilter{
		TeacherID: query.Get("teacher_id"),
		StudentID: query.Get("student_id"),
		Search:    query.Get("search"),
	}

	ctx := r.Context()
	response, err := h.courseService.ListCourses(ctx, identity.PrincipalFrom(ctx), filter, page, limit)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, response)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	course, err := h.courseService.GetCourse(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, course)
}

func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCourseRequest
	if err := bind(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	course, err := h.courseService.UpdateCourse(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, course)
}

func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.courseService.DeleteCourse(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Course deleted successfully",
	})
}

func (h *Handler) AddCourseFile(w http.ResponseWriter, r *http.Request) {
	var req models.AddFileRequest
	if err := bind(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	course, err := h.courseService.AddCourseFile(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), req.File())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeCreated(w, course)
}

// ListAssignments serves the flattened, read-only assignment projection.
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("course_id")
	if courseID == "" {
		h.handleServiceError(w, r, apperror.Field("course_id", "query parameter is required"))
		return
	}

	ctx := r.Context()
	assignments, err := h.courseService.ListAssignments(ctx, identity.PrincipalFrom(ctx), courseID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"assignments": assignments,
		"total":       len(assignments),
	})
}
