package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RubachokBoss/course-service/internal/identity"
	"github.com/RubachokBoss/course-service/internal/models"
)

func (h *Handler) AddChapter(w http.ResponseWriter, r *http.Request) {
	var req models.AddChapterRequest
	if err := bind(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	course, err := h.courseService.AddChapter(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), req.Title)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeCreated(w, course)
}

func (h *Handler) DeleteChapter(w http.ResponseWriter, r *http.Request) {
	chapterIndex, err := pathIndex(r, "chapterIndex")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	course, err := h.courseService.DeleteChapter(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), chapterIndex)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, course)
}

func (h *Handler) AddChapterFile(w http.ResponseWriter, r *http.Request) {
	chapterIndex, err := pathIndex(r, "chapterIndex")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	var req models.AddFileRequest
	if err := bind(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	course, err := h.courseService.AddChapterFile(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), chapterIndex, req.File())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeCreated(w, course)
}

func (h *Handler) AddLesson(w http.ResponseWriter, r *http.Request) {
	chapterIndex, err := pathIndex(r, "chapterIndex")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	var req models.NewLesson
	if err := bind(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	lesson, err := h.courseService.AddLesson(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), chapterIndex, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeCreated(w, lesson)
}

func (h *Handler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	chapterIndex, itemIndex, ok := h.positions(w, r)
	if !ok {
		return
	}
	var req models.NewLesson
	if err := bind(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	lesson, err := h.courseService.UpdateLesson(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), chapterIndex, itemIndex, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, lesson)
}

func (h *Handler) RemoveLesson(w http.ResponseWriter, r *http.Request) {
	chapterIndex, itemIndex, ok := h.positions(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if err := h.courseService.RemoveLesson(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), chapterIndex, itemIndex); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Lesson removed successfully",
	})
}

func (h *Handler) AddAssignment(w http.ResponseWriter, r *http.Request) {
	chapterIndex, err := pathIndex(r, "chapterIndex")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	var req models.NewAssignment
	if err := bind(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	assignment, err := h.courseService.AddAssignment(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), chapterIndex, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeCreated(w, assignment)
}

func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	chapterIndex, itemIndex, ok := h.positions(w, r)
	if !ok {
		return
	}
	var req models.NewAssignment
	if err := bind(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	assignment, err := h.courseService.UpdateAssignment(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), chapterIndex, itemIndex, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, assignment)
}

func (h *Handler) RemoveAssignment(w http.ResponseWriter, r *http.Request) {
	chapterIndex, itemIndex, ok := h.positions(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if err := h.courseService.RemoveAssignment(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), chapterIndex, itemIndex); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Assignment removed successfully",
	})
}

func (h *Handler) AddQuiz(w http.ResponseWriter, r *http.Request) {
	chapterIndex, err := pathIndex(r, "chapterIndex")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	var req models.NewQuiz
	if err := bind(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	ctx := r.Context()
	quiz, err := h.courseService.AddQuiz(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), chapterIndex, req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeCreated(w, quiz)
}

func (h *Handler) RemoveQuiz(w http.ResponseWriter, r *http.Request) {
	chapterIndex, itemIndex, ok := h.positions(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if err := h.courseService.RemoveQuiz(ctx, identity.PrincipalFrom(ctx), chi.URLParam(r, "courseID"), chapterIndex, itemIndex); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Quiz removed successfully",
	})
}

func (h *Handler) positions(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	chapterIndex, err := pathIndex(r, "chapterIndex")
	if err != nil {
		h.handleServiceError(w, r, err)
		return 0, 0, false
	}
	itemIndex, err := pathIndex(r, "itemIndex")
	if err != nil {
		h.handleServiceError(w, r, err)
		return 0, 0, false
	}
	return chapterIndex, itemIndex, true
}
