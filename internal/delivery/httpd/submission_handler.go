package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RubachokBoss/course-service/internal/identity"
	"github.com/RubachokBoss/course-service/internal/models"
)

func (h *Handler) ItemStatus(w http.ResponseWriter, r *http.Request) {
	ref, err := itemRef(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	status, err := h.submissionService.Status(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), ref)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, status)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ref, err := itemRef(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	var req models.NewSubmission
	if err := bind(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	sub, err := h.submissionService.Submit(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), ref, &req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeCreated(w, sub)
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	ref, err := itemRef(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	subs, err := h.submissionService.ListSubmissions(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), ref)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"submissions": subs,
		"total":       len(subs),
	})
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	ref, err := itemRef(r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	sub, err := h.submissionService.GetSubmission(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), ref, chi.URLParam(r, "studentID"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, sub)
}
