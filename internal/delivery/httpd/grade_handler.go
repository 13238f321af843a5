package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RubachokBoss/course-service/internal/identity"
	"github.com/RubachokBoss/course-service/internal/models"
)

func (h *Handler) GradeSubmission(w http.ResponseWriter, r *http.Request) {
	ref, err := itemRef(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	var req models.GradeSubmissionRequest
	if err := bind(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	sub, err := h.gradingService.GradeSubmission(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), ref, chi.URLParam(r, "studentID"), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, sub)
}

func (h *Handler) AutoGrade(w http.ResponseWriter, r *http.Request) {
	ref, err := itemRef(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if ref.ID == "" {
		ref.Kind = models.ItemKindQuiz
	}

	ctx := r.Context()
	sub, err := h.gradingService.AutoGrade(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), ref, chi.URLParam(r, "studentID"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, sub)
}

func (h *Handler) ListGrades(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	grades, err := h.gradingService.ListGrades(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"grades": grades,
		"total":  len(grades),
	})
}

func (h *Handler) UpsertGrade(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertGradeRequest
	if err := bind(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	grade, inserted, err := h.gradingService.UpsertGrade(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), chi.URLParam(r, "studentID"), &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if inserted {
		writeCreated(w, grade)
		return
	}
	writeSuccess(w, grade)
}
