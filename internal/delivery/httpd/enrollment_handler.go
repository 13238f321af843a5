package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RubachokBoss/course-service/internal/identity"
	"github.com/RubachokBoss/course-service/internal/models"
)

func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req models.EnrollRequest
	if err := bindOptional(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	course, err := h.enrollmentService.Enroll(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), req.EnrollmentKey)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeCreated(w, course)
}

func (h *Handler) Unenroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.enrollmentService.Unenroll(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), chi.URLParam(r, "studentID"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Enrollment removed",
	})
}
